package cli

import (
	"os"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"apibaseline/internal/adapters"
	"apibaseline/internal/app"
	"apibaseline/internal/ports"
	"apibaseline/internal/shared"
	"apibaseline/internal/types"
)

// version is set at build time via ldflags.
var version = "dev"

const envPrefix = "APIBASELINE"

type RootConfig struct {
	ConfigFile  string
	LogLevel    string
	MetricsFile string
	Format      string
	Verbose     bool
}

func Execute() {
	root := newRootCommand()
	if err := root.Execute(); err != nil {
		os.Exit(exitCodeForError(err))
	}
}

func newRootCommand() *cobra.Command {
	cfg := RootConfig{}
	cmd := &cobra.Command{
		Use:          "apibaseline",
		Short:        "API compatibility diffing, baselining and capability resolution",
		Version:      version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if err := initConfig(cfg.ConfigFile); err != nil {
				return err
			}
			setupLogging(viper.GetString("log_level"))
			return nil
		},
	}
	flags := cmd.PersistentFlags()
	flags.StringVar(&cfg.ConfigFile, "config", "", "Config file path")
	flags.StringVar(&cfg.LogLevel, "log-level", "info", "Log level")
	flags.StringVar(&cfg.MetricsFile, "metrics-file", "", "Write run metrics to a node exporter textfile")
	flags.StringVar(&cfg.Format, "format", string(types.OutputFormatText), "Output format (text, yaml, json)")
	flags.BoolVar(&cfg.Verbose, "verbose", false, "Show unchanged elements in text output")
	_ = viper.BindPFlag("log_level", flags.Lookup("log-level"))
	_ = viper.BindPFlag("metrics_file", flags.Lookup("metrics-file"))
	_ = viper.BindPFlag("format", flags.Lookup("format"))
	_ = viper.BindPFlag("verbose", flags.Lookup("verbose"))

	cmd.AddCommand(newDiffCommand())
	cmd.AddCommand(newBaselineCommand())
	cmd.AddCommand(newResolveCommand())
	cmd.AddCommand(newInspectCommand())
	cmd.AddCommand(newVersionCommand())
	return cmd
}

func initConfig(configFile string) error {
	viper.SetEnvPrefix(envPrefix)
	viper.AutomaticEnv()

	if configFile != "" {
		viper.SetConfigFile(configFile)
		if err := viper.ReadInConfig(); err != nil {
			return errbuilder.New().
				WithCode(errbuilder.CodeInvalidArgument).
				WithMsg("failed to read config file").
				WithCause(err)
		}
		return nil
	}

	viper.SetConfigName("apibaseline")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("$HOME/.config/apibaseline")
	if err := viper.ReadInConfig(); err != nil {
		return nil
	}
	return nil
}

// setupLogging logs to stderr so structured output on stdout stays
// parseable.
func setupLogging(level string) {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	switch level {
	case "debug":
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	case "warn":
		zerolog.SetGlobalLevel(zerolog.WarnLevel)
	case "error":
		zerolog.SetGlobalLevel(zerolog.ErrorLevel)
	default:
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
}

func newAppService() app.Service {
	return app.NewService().WithMetricsFile(viper.GetString("metrics_file"))
}

func newRenderer() (ports.RendererPort, error) {
	format := types.OutputFormat(viper.GetString("format"))
	return adapters.NewRenderer(format, viper.GetBool("verbose"))
}

func printHints(hints []string) {
	for _, hint := range hints {
		log.Info().Msg(hint)
	}
}

func exitCodeForError(err error) int {
	code := errbuilder.CodeOf(err)
	switch code {
	case errbuilder.CodeInvalidArgument, errbuilder.CodeAlreadyExists:
		return 2
	case errbuilder.CodeFailedPrecondition:
		if shared.IsBaselineMismatch(err) {
			return 3
		}
		if shared.IsInvalidComparison(err) {
			return 2
		}
		return 1
	case errbuilder.CodeNotFound:
		if shared.IsUnsatisfiedRequirement(err) {
			return 4
		}
		return 5
	case errbuilder.CodeInternal:
		return 5
	default:
		return 1
	}
}

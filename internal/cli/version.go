package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"apibaseline/internal/app"
)

func newVersionCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Compare, clean up and evaluate versions and version ranges",
	}
	cmd.AddCommand(newVersionCompareCommand())
	cmd.AddCommand(newVersionCleanupCommand())
	cmd.AddCommand(newVersionRangeCommand())
	return cmd
}

func newVersionCompareCommand() *cobra.Command {
	var scheme string
	cmd := &cobra.Command{
		Use:   "compare <left> <right>",
		Short: "Order two versions and print -1, 0 or 1",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := newAppService().CompareVersions(app.CompareVersionsRequest{
				Scheme: app.VersionScheme(scheme),
				Left:   args[0],
				Right:  args[1],
			})
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), result.Order)
			return err
		},
	}
	cmd.Flags().StringVar(&scheme, "scheme", string(app.SchemeOSGi), "Version scheme (osgi, semver, deb, pep440)")
	return cmd
}

func newVersionCleanupCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "cleanup <version>",
		Short: "Rewrite a loosely written version or range into a valid one",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := fmt.Fprintln(cmd.OutOrStdout(), newAppService().CleanupVersion(args[0]))
			return err
		},
	}
}

func newVersionRangeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "range <range> [version...]",
		Short: "Normalize a version range, print its filter and test versions against it",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := newAppService().CheckRange(app.RangeRequest{
				Range:    args[0],
				Versions: args[1:],
			})
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "range: %s\n", result.Normalized)
			fmt.Fprintf(out, "filter: %s\n", result.Filter)
			for _, raw := range args[1:] {
				fmt.Fprintf(out, "%s: %t\n", raw, result.Included[raw])
			}
			return nil
		},
	}
}

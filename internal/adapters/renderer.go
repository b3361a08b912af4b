package adapters

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/charmbracelet/lipgloss"
	"gopkg.in/yaml.v3"

	"apibaseline/internal/core"
	"apibaseline/internal/ports"
	"apibaseline/internal/types"
)

var (
	colorRed     = lipgloss.Color("167")
	colorYellow  = lipgloss.Color("220")
	colorCyan    = lipgloss.Color("36")
	colorGreen   = lipgloss.Color("35")
	colorMagenta = lipgloss.Color("170")
	colorDim     = lipgloss.Color("240")
)

var deltaStyles = map[types.Delta]lipgloss.Style{
	types.DeltaMajor:     lipgloss.NewStyle().Foreground(colorRed).Bold(true),
	types.DeltaRemoved:   lipgloss.NewStyle().Foreground(colorRed),
	types.DeltaMinor:     lipgloss.NewStyle().Foreground(colorYellow),
	types.DeltaAdded:     lipgloss.NewStyle().Foreground(colorGreen),
	types.DeltaMicro:     lipgloss.NewStyle().Foreground(colorCyan),
	types.DeltaChanged:   lipgloss.NewStyle().Foreground(colorMagenta),
	types.DeltaUnchanged: lipgloss.NewStyle().Foreground(colorDim),
}

var (
	styleTitle   = lipgloss.NewStyle().Bold(true)
	styleDim     = lipgloss.NewStyle().Foreground(colorDim)
	styleError   = lipgloss.NewStyle().Foreground(colorRed).Bold(true)
	styleWarning = lipgloss.NewStyle().Foreground(colorYellow)
	styleSuccess = lipgloss.NewStyle().Foreground(colorGreen)
)

// NewRenderer returns the renderer for an output format.
func NewRenderer(format types.OutputFormat, verbose bool) (ports.RendererPort, error) {
	switch format {
	case types.OutputFormatText, "":
		return TextRenderer{Verbose: verbose}, nil
	case types.OutputFormatYAML:
		return StructuredRenderer{Format: types.OutputFormatYAML}, nil
	case types.OutputFormatJSON:
		return StructuredRenderer{Format: types.OutputFormatJSON}, nil
	default:
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg(fmt.Sprintf("unknown output format: %s", format))
	}
}

// TextRenderer prints reports as a severity coloured tree. Unchanged
// subtrees are only shown when Verbose is set.
type TextRenderer struct {
	Verbose bool
}

func (r TextRenderer) RenderDiff(w io.Writer, diff types.Diff) error {
	var b strings.Builder
	diff.Walk(func(node *types.Diff, depth int) bool {
		if node.Delta == types.DeltaUnchanged && !r.Verbose && depth > 0 {
			return false
		}
		b.WriteString(strings.Repeat("  ", depth))
		b.WriteString(renderDelta(node.Delta))
		b.WriteString(" ")
		b.WriteString(styleDim.Render(string(node.Type)))
		b.WriteString(" ")
		b.WriteString(node.Name)
		if versions := versionSpan(node); versions != "" {
			b.WriteString(" ")
			b.WriteString(styleDim.Render(versions))
		}
		b.WriteString("\n")
		return true
	})
	_, err := io.WriteString(w, b.String())
	return err
}

func (r TextRenderer) RenderBaseline(w io.Writer, report types.BaselineReport) error {
	var b strings.Builder
	rows := append([]types.BaselineInfo{report.Bundle}, report.Packages...)
	for i, row := range rows {
		if i == 1 {
			b.WriteString("\n")
		}
		status := styleSuccess.Render("ok      ")
		if row.Mismatch {
			status = styleError.Render("MISMATCH")
		}
		fmt.Fprintf(&b, "%s %s %s %s", status, renderDelta(row.Delta), styleTitle.Render(row.Name), styleDim.Render(baselineVersions(row)))
		if row.Reason != "" {
			fmt.Fprintf(&b, "\n         %s", row.Reason)
		}
		if row.Warning != "" {
			fmt.Fprintf(&b, "\n         %s", styleWarning.Render("warning: "+row.Warning))
		}
		b.WriteString("\n")
	}
	_, err := io.WriteString(w, b.String())
	return err
}

func (r TextRenderer) RenderResolution(w io.Writer, report types.ResolutionReport) error {
	var b strings.Builder
	b.WriteString(styleTitle.Render(fmt.Sprintf("Resources (%d)", len(report.Resources))))
	b.WriteString("\n")
	for _, id := range report.Resources {
		fmt.Fprintf(&b, "  %s\n", id)
	}
	if len(report.Wires) > 0 {
		b.WriteString(styleTitle.Render(fmt.Sprintf("Wires (%d)", len(report.Wires))))
		b.WriteString("\n")
		for _, wire := range report.Wires {
			fmt.Fprintf(&b, "  %s %s %s %s\n",
				displayOrRoot(wire.Requirement.Resource),
				styleDim.Render(wire.Requirement.Namespace+" "+wire.Requirement.Filter),
				styleDim.Render("->"),
				styleSuccess.Render(displayCapability(wire.Capability)),
			)
		}
	}
	if len(report.Unsatisfied) > 0 {
		b.WriteString(styleTitle.Render(fmt.Sprintf("Unsatisfied (%d)", len(report.Unsatisfied))))
		b.WriteString("\n")
		for _, record := range report.Unsatisfied {
			style := styleError
			if record.Optional {
				style = styleWarning
			}
			fmt.Fprintf(&b, "  %s %s %s\n",
				displayOrRoot(record.Requirement.Resource),
				style.Render(record.Requirement.Namespace+" "+record.Requirement.Filter),
				styleDim.Render(fmt.Sprintf("(%d candidates offered)", record.Candidates)),
			)
		}
	}
	if len(report.Vetoes) > 0 {
		b.WriteString(styleTitle.Render("Filters"))
		b.WriteString("\n")
		for _, veto := range report.Vetoes {
			fmt.Fprintf(&b, "  %s removed %d\n", veto.Filter, veto.Removed)
		}
	}
	_, err := io.WriteString(w, b.String())
	return err
}

// StructuredRenderer prints reports as YAML or JSON documents.
type StructuredRenderer struct {
	Format types.OutputFormat
}

func (r StructuredRenderer) RenderDiff(w io.Writer, diff types.Diff) error {
	return r.encode(w, diff)
}

func (r StructuredRenderer) RenderBaseline(w io.Writer, report types.BaselineReport) error {
	return r.encode(w, report)
}

func (r StructuredRenderer) RenderResolution(w io.Writer, report types.ResolutionReport) error {
	return r.encode(w, report)
}

func (r StructuredRenderer) encode(w io.Writer, value any) error {
	if r.Format == types.OutputFormatJSON {
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")
		return encoder.Encode(value)
	}
	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(2)
	if err := encoder.Encode(value); err != nil {
		return err
	}
	return encoder.Close()
}

func renderDelta(delta types.Delta) string {
	label := fmt.Sprintf("%-9s", delta)
	if style, ok := deltaStyles[delta]; ok {
		return style.Render(label)
	}
	return label
}

func versionSpan(node *types.Diff) string {
	older, newer := formatVersion(node.OlderVersion), formatVersion(node.NewerVersion)
	switch {
	case older == "" && newer == "":
		return ""
	case older == newer:
		return older
	default:
		return fmt.Sprintf("%s -> %s", dashIfEmpty(older), dashIfEmpty(newer))
	}
}

func baselineVersions(row types.BaselineInfo) string {
	out := fmt.Sprintf("%s -> %s", dashIfEmpty(formatVersion(row.OlderVersion)), dashIfEmpty(formatVersion(row.NewerVersion)))
	if row.SuggestedVersion != nil {
		out += fmt.Sprintf(" (suggested %s)", row.SuggestedVersion)
	}
	return out
}

func displayCapability(capability types.Capability) string {
	label := capability.Resource
	if name := core.CapabilityName(capability); name != "" && name != capability.Resource {
		label += " " + name
	}
	if v := versionAttribute(capability.Attributes); v != "" {
		label += " " + v
	}
	return label
}

func displayOrRoot(resource string) string {
	if resource == "" {
		return "<root>"
	}
	return resource
}

func dashIfEmpty(value string) string {
	if value == "" {
		return "-"
	}
	return value
}

var (
	_ ports.RendererPort = TextRenderer{}
	_ ports.RendererPort = StructuredRenderer{}
)

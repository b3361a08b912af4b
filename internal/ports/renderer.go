package ports

import (
	"io"

	"apibaseline/internal/types"
)

type RendererPort interface {
	RenderDiff(w io.Writer, diff types.Diff) error
	RenderBaseline(w io.Writer, report types.BaselineReport) error
	RenderResolution(w io.Writer, report types.ResolutionReport) error
}

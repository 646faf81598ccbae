package ports

import (
	"context"

	"statlab/domain/analysis"
)

// RendererPort is implemented by the external rendering collaborator. The
// engine hands over chart descriptors (series and labels) and never produces
// pixels itself.
type RendererPort interface {
	Render(ctx context.Context, charts []analysis.ChartDescriptor) error
}

// ExporterPort is implemented by the external export collaborator. Results
// travel as flat field maps (see analysis.Result.Fields); no binary chart
// data is embedded.
type ExporterPort interface {
	Export(ctx context.Context, fields map[string]any) error
}

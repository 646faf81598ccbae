package analysis

// ChartKind identifies the chart a descriptor is meant to render as
type ChartKind string

const (
	ChartBox       ChartKind = "box"
	ChartScatter   ChartKind = "scatter"
	ChartBar       ChartKind = "bar"
	ChartHeatmap   ChartKind = "correlation-heatmap"
	ChartLine      ChartKind = "line"
	ChartHistogram ChartKind = "histogram"
)

// ChartDescriptor is the engine's only output to the rendering collaborator:
// named numeric series plus labels, never pixels.
type ChartDescriptor struct {
	Kind       ChartKind            `json:"kind"`
	Title      string               `json:"title,omitempty"`
	XLabel     string               `json:"x_label,omitempty"`
	YLabel     string               `json:"y_label,omitempty"`
	Series     map[string][]float64 `json:"series"`
	Categories []string             `json:"categories,omitempty"`
}

// NewChart creates a descriptor with an empty series map
func NewChart(kind ChartKind, title string) ChartDescriptor {
	return ChartDescriptor{
		Kind:   kind,
		Title:  title,
		Series: make(map[string][]float64),
	}
}

// AddSeries attaches one named ordered sequence to the chart
func (c *ChartDescriptor) AddSeries(name string, values []float64) {
	if c.Series == nil {
		c.Series = make(map[string][]float64)
	}
	c.Series[name] = values
}

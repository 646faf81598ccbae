// Package export provides JSON implementations of the render and export
// boundaries. Downstream tooling consumes the emitted lines to build tables
// or draw charts; nothing here produces pixels.
package export

import (
	"context"
	"encoding/json"
	"io"

	"statlab/domain/analysis"
	"statlab/ports"
)

// JSONExporter writes one JSON object per exported result
type JSONExporter struct {
	enc *json.Encoder
}

// NewJSONExporter creates an exporter writing to w
func NewJSONExporter(w io.Writer) *JSONExporter {
	return &JSONExporter{enc: json.NewEncoder(w)}
}

var _ ports.ExporterPort = (*JSONExporter)(nil)

// Export writes the flattened result fields as a single JSON line
func (e *JSONExporter) Export(ctx context.Context, fields map[string]any) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}
	return e.enc.Encode(fields)
}

// JSONRenderer serializes chart descriptors instead of drawing them, leaving
// the actual drawing to whatever consumes the stream
type JSONRenderer struct {
	enc *json.Encoder
}

// NewJSONRenderer creates a renderer writing to w
func NewJSONRenderer(w io.Writer) *JSONRenderer {
	return &JSONRenderer{enc: json.NewEncoder(w)}
}

var _ ports.RendererPort = (*JSONRenderer)(nil)

// Render writes each chart descriptor as a JSON line
func (r *JSONRenderer) Render(ctx context.Context, charts []analysis.ChartDescriptor) error {
	for _, chart := range charts {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		if err := r.enc.Encode(chart); err != nil {
			return err
		}
	}
	return nil
}

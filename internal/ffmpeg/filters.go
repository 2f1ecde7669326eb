package ffmpeg

import (
	"fmt"
	"strings"

	"github.com/kikiluvv/trimlab/internal/compose"
)

// FilterBuilder helps construct ffmpeg filter chains
type FilterBuilder struct {
	filters []string
}

// NewFilterBuilder creates a new filter builder
func NewFilterBuilder() *FilterBuilder {
	return &FilterBuilder{
		filters: make([]string, 0),
	}
}

// Scale adds a scale filter
func (fb *FilterBuilder) Scale(width, height int) *FilterBuilder {
	if width <= 0 || height <= 0 {
		// Return self without adding filter - allows chaining to continue
		return fb
	}
	fb.filters = append(fb.filters, fmt.Sprintf("scale=%d:%d", width, height))
	return fb
}

// FPS adds an fps filter
func (fb *FilterBuilder) FPS(fps float64) *FilterBuilder {
	if fps <= 0 {
		return fb
	}
	fb.filters = append(fb.filters, fmt.Sprintf("fps=%f", fps))
	return fb
}

// Rotate adds a clockwise right-angle rotation
func (fb *FilterBuilder) Rotate(degrees int) *FilterBuilder {
	switch ((degrees % 360) + 360) % 360 {
	case 90:
		fb.filters = append(fb.filters, "transpose=1")
	case 180:
		fb.filters = append(fb.filters, "hflip", "vflip")
	case 270:
		fb.filters = append(fb.filters, "transpose=2")
	}
	return fb
}

// Custom adds a custom filter string
func (fb *FilterBuilder) Custom(filter string) *FilterBuilder {
	if filter == "" {
		return fb
	}
	fb.filters = append(fb.filters, filter)
	return fb
}

// Build returns the complete filter string joined with commas
func (fb *FilterBuilder) Build() string {
	if len(fb.filters) == 0 {
		return ""
	}
	return strings.Join(fb.filters, ",")
}

// RenderFilter is the frame cadence and size of a render description,
// without any pixel processing.
func RenderFilter(r compose.RenderDescription) string {
	return NewFilterBuilder().
		FPS(r.FrameRate()).
		Scale(r.RenderSize.Width, r.RenderSize.Height).
		Build()
}

// PresentationFilter renders out for display: cadence and size, the
// per-frame processor, then the orientation rotation on the final surface.
func PresentationFilter(out *compose.Output) string {
	return NewFilterBuilder().
		FPS(out.Render.FrameRate()).
		Scale(out.Render.RenderSize.Width, out.Render.RenderSize.Height).
		Custom(out.Render.Processor.FilterExpr()).
		Rotate(out.Orientation.Rotation()).
		Build()
}

package compose

import (
	"fmt"

	"github.com/kikiluvv/trimlab/internal/frames"
	"github.com/kikiluvv/trimlab/internal/media"
)

// Segment copies Source from a source track to Target in the composition.
type Segment struct {
	SourceURI     string
	SourceTrackID int
	Source        media.TimeRange
	Target        media.TimeRange
}

// Track is a composition track built from one or more segments.
type Track struct {
	ID       int
	Kind     media.Kind
	Segments []Segment
}

// Composition is a time-ordered arrangement of tracks played as one unit.
type Composition struct {
	Tracks []Track
}

// Duration is the end of the last segment on any track.
func (c Composition) Duration(scale int32) media.Time {
	end := media.Zero(scale)
	for _, t := range c.Tracks {
		for _, s := range t.Segments {
			if e := s.Target.End(); e.Compare(end) > 0 {
				end = e
			}
		}
	}
	return end
}

// RenderDescription is the output pixel size, frame cadence and per-frame
// processing step applied while the composition renders.
type RenderDescription struct {
	RenderSize    media.Size
	FrameDuration media.Time
	Processor     frames.Processor
}

// FrameRate returns frames per second derived from the frame duration.
func (r RenderDescription) FrameRate() float64 {
	if r.FrameDuration.Value == 0 {
		return 0
	}
	return 1 / r.FrameDuration.Seconds()
}

// Output is a playable composed video: the trimmed composition, its render
// description and the presentation rotation to apply on the display surface.
type Output struct {
	Source      string
	Window      media.TimeRange
	Composition Composition
	Render      RenderDescription
	Orientation media.Orientation
	Filter      media.FilterState
	Timescale   int32
}

// Duration is the intrinsic length of the composed output.
func (o *Output) Duration() media.Time {
	return o.Composition.Duration(o.Timescale)
}

// Equivalent reports whether two outputs describe the same playable result.
func (o *Output) Equivalent(other *Output) bool {
	if o == nil || other == nil {
		return o == other
	}
	return o.Source == other.Source &&
		o.Window == other.Window &&
		o.Duration() == other.Duration() &&
		o.Render.RenderSize == other.Render.RenderSize &&
		o.Render.FrameDuration == other.Render.FrameDuration &&
		o.Render.Processor.Name() == other.Render.Processor.Name() &&
		o.Orientation == other.Orientation
}

func (o *Output) String() string {
	return fmt.Sprintf("%s %s size=%s fps=%.0f filter=%s orientation=%s",
		o.Source, o.Window, o.Render.RenderSize, o.Render.FrameRate(), o.Render.Processor.Name(), o.Orientation)
}

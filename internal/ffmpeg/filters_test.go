package ffmpeg

import (
	"testing"

	"github.com/kikiluvv/trimlab/internal/compose"
	"github.com/kikiluvv/trimlab/internal/frames"
	"github.com/kikiluvv/trimlab/internal/media"
)

func TestFilterBuilder(t *testing.T) {
	fb := NewFilterBuilder()
	filter := fb.Scale(1920, 1080).FPS(30).Build()

	expected := "scale=1920:1080,fps=30.000000"
	if filter != expected {
		t.Errorf("expected %q, got %q", expected, filter)
	}
}

func TestFilterBuilderEmpty(t *testing.T) {
	fb := NewFilterBuilder()
	filter := fb.Build()

	if filter != "" {
		t.Errorf("expected empty string, got %q", filter)
	}
}

func TestFilterBuilderSkipsInvalid(t *testing.T) {
	filter := NewFilterBuilder().Scale(0, 1080).FPS(-1).Custom("").Build()
	if filter != "" {
		t.Errorf("expected empty string, got %q", filter)
	}
}

func TestFilterBuilderRotate(t *testing.T) {
	tests := []struct {
		degrees  int
		expected string
	}{
		{0, ""},
		{90, "transpose=1"},
		{180, "hflip,vflip"},
		{270, "transpose=2"},
		{-90, "transpose=2"},
		{450, "transpose=1"},
		{45, ""},
	}

	for _, tt := range tests {
		if got := NewFilterBuilder().Rotate(tt.degrees).Build(); got != tt.expected {
			t.Errorf("Rotate(%d) = %q, want %q", tt.degrees, got, tt.expected)
		}
	}
}

func testOutput(filter media.FilterState, orientation media.Orientation) *compose.Output {
	return &compose.Output{
		Source: "/videos/beach.mov",
		Window: media.TimeRange{
			Start:    media.TimeFromSeconds(2, 600),
			Duration: media.TimeFromSeconds(6, 600),
		},
		Composition: compose.Composition{
			Tracks: []compose.Track{{
				ID:   1,
				Kind: media.KindVideo,
				Segments: []compose.Segment{{
					SourceURI:     "/videos/beach.mov",
					SourceTrackID: 0,
					Source: media.TimeRange{
						Start:    media.TimeFromSeconds(2, 600),
						Duration: media.TimeFromSeconds(6, 600),
					},
					Target: media.TimeRange{
						Start:    media.Zero(600),
						Duration: media.TimeFromSeconds(6, 600),
					},
				}},
			}},
		},
		Render: compose.RenderDescription{
			RenderSize:    media.Size{Width: 640, Height: 360},
			FrameDuration: media.Time{Value: 1, Scale: 30},
			Processor:     frames.ForFilter(filter),
		},
		Orientation: orientation,
		Filter:      filter,
		Timescale:   600,
	}
}

func TestRenderFilter(t *testing.T) {
	out := testOutput(media.FilterGrayscale, media.OrientationPortrait)

	expected := "fps=30.000000,scale=640:360"
	if got := RenderFilter(out.Render); got != expected {
		t.Errorf("expected %q, got %q", expected, got)
	}
}

func TestPresentationFilter(t *testing.T) {
	tests := []struct {
		name        string
		filter      media.FilterState
		orientation media.Orientation
		expected    string
	}{
		{"plain", media.FilterOff, media.OrientationDefault, "fps=30.000000,scale=640:360"},
		{"grayscale", media.FilterGrayscale, media.OrientationDefault, "fps=30.000000,scale=640:360,hue=s=0"},
		{"portrait", media.FilterOff, media.OrientationPortrait, "fps=30.000000,scale=640:360,transpose=1"},
		{"grayscale upside down", media.FilterGrayscale, media.OrientationLandscapeLeft, "fps=30.000000,scale=640:360,hue=s=0,hflip,vflip"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := PresentationFilter(testOutput(tt.filter, tt.orientation)); got != tt.expected {
				t.Errorf("expected %q, got %q", tt.expected, got)
			}
		})
	}
}

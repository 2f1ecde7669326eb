// Package compose builds trimmed, filtered compositions from a loaded source
// asset. Composition is pure: it reads only the in-memory asset description.
package compose

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/kikiluvv/trimlab/internal/frames"
	"github.com/kikiluvv/trimlab/internal/media"
)

// DefaultFrameRate is the render frame rate when none is configured.
const DefaultFrameRate = 30

// Settings configures composition output.
type Settings struct {
	FrameRate int
	Timescale int32
}

// DefaultSettings returns 30 fps at a 600 tick timescale.
func DefaultSettings() Settings {
	return Settings{
		FrameRate: DefaultFrameRate,
		Timescale: media.DefaultTimescale,
	}
}

// Composer turns a source asset, trim range and filter state into an Output.
type Composer struct {
	logger   zerolog.Logger
	settings Settings
}

// NewComposer creates a composer. Zero settings fall back to defaults.
func NewComposer(logger zerolog.Logger, settings Settings) *Composer {
	if settings.FrameRate <= 0 {
		settings.FrameRate = DefaultFrameRate
	}
	if settings.Timescale <= 0 {
		settings.Timescale = media.DefaultTimescale
	}
	return &Composer{
		logger:   logger.With().Str("component", "composer").Logger(),
		settings: settings,
	}
}

// Compose builds the playable output for asset trimmed to trim with the
// given filter state. Identical inputs always produce equivalent outputs.
func (c *Composer) Compose(asset *media.SourceAsset, trim media.TrimRange, filter media.FilterState) (*Output, error) {
	if asset == nil {
		return nil, &media.AssetUnavailableError{Reason: "no source asset"}
	}
	if asset.Duration.Value <= 0 {
		return nil, &media.AssetUnavailableError{Source: asset.URI, Reason: "source has no duration"}
	}

	window, err := trim.Resolve(asset.Duration, c.settings.Timescale)
	if err != nil {
		return nil, err
	}

	track, ok := asset.VideoTrack()
	if !ok {
		return nil, &media.NoVideoTrackError{Source: asset.URI}
	}

	composition := c.buildComposition(asset.URI, track, window)

	render, err := c.buildRender(track, filter)
	if err != nil {
		return nil, err
	}

	out := &Output{
		Source:      asset.URI,
		Window:      window,
		Composition: composition,
		Render:      render,
		Orientation: media.ClassifyOrientation(track.Transform),
		Filter:      filter,
		Timescale:   c.settings.Timescale,
	}

	c.logger.Debug().
		Str("source", asset.URI).
		Float64("start", window.Start.Seconds()).
		Float64("duration", window.Duration.Seconds()).
		Str("render_size", render.RenderSize.String()).
		Str("processor", render.Processor.Name()).
		Str("orientation", out.Orientation.String()).
		Msg("composition built")

	return out, nil
}

// buildComposition places window of the source track at time zero of a new
// single-track composition.
func (c *Composer) buildComposition(uri string, track media.Track, window media.TimeRange) Composition {
	zero := media.Zero(c.settings.Timescale)
	return Composition{
		Tracks: []Track{{
			ID:   1,
			Kind: media.KindVideo,
			Segments: []Segment{{
				SourceURI:     uri,
				SourceTrackID: track.ID,
				Source:        window,
				Target:        media.TimeRange{Start: zero, Duration: window.Duration},
			}},
		}},
	}
}

func (c *Composer) buildRender(track media.Track, filter media.FilterState) (RenderDescription, error) {
	if track.NaturalSize.IsZero() {
		return RenderDescription{}, &media.CompositionBuildError{
			Stage: "render description",
			Err:   fmt.Errorf("video track %d has no natural size", track.ID),
		}
	}

	return RenderDescription{
		RenderSize:    track.NaturalSize,
		FrameDuration: media.Time{Value: 1, Scale: int32(c.settings.FrameRate)},
		Processor:     frames.ForFilter(filter),
	}, nil
}

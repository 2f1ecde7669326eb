// Package editor holds the state of one interactive trim session and rebuilds
// the composed output whenever the source, trim range or filter changes.
package editor

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/kikiluvv/trimlab/internal/compose"
	"github.com/kikiluvv/trimlab/internal/media"
	"github.com/kikiluvv/trimlab/internal/playback"
)

// AssetLoader opens a source video and describes its tracks.
type AssetLoader interface {
	LoadAsset(ctx context.Context, path string) (*media.SourceAsset, error)
}

// Session is not safe for concurrent use; shells drive it from one goroutine.
type Session struct {
	logger   zerolog.Logger
	composer *compose.Composer
	loader   AssetLoader
	driver   playback.Driver

	asset  *media.SourceAsset
	trim   media.TrimRange
	filter media.FilterState
	output *compose.Output
}

// New creates a session with the full range selected and the filter off.
// driver may be nil when outputs are only inspected.
func New(logger zerolog.Logger, composer *compose.Composer, loader AssetLoader, driver playback.Driver) *Session {
	return &Session{
		logger:   logger.With().Str("component", "session").Logger(),
		composer: composer,
		loader:   loader,
		driver:   driver,
		trim:     media.FullRange,
		filter:   media.FilterOff,
	}
}

// Load opens path as the new source and rebuilds with the current range and
// filter. A source that fails to load leaves the session unchanged.
func (s *Session) Load(ctx context.Context, path string) error {
	asset, err := s.loader.LoadAsset(ctx, path)
	if err != nil {
		s.logger.Warn().Err(err).Str("path", path).Msg("failed to load source")
		return err
	}

	prev := s.asset
	s.asset = asset
	if err := s.Rebuild(ctx); err != nil {
		if !media.IsInvalidRangeError(err) {
			s.asset = prev
		}
		return err
	}
	return nil
}

// SetStart moves the trim start and rebuilds.
func (s *Session) SetStart(ctx context.Context, start float64) error {
	s.trim.Start = start
	return s.Rebuild(ctx)
}

// SetEnd moves the trim end and rebuilds.
func (s *Session) SetEnd(ctx context.Context, end float64) error {
	s.trim.End = end
	return s.Rebuild(ctx)
}

// SetRange replaces both trim fractions and rebuilds.
func (s *Session) SetRange(ctx context.Context, trim media.TrimRange) error {
	s.trim = trim
	return s.Rebuild(ctx)
}

// ToggleFilter flips the grayscale filter and rebuilds.
func (s *Session) ToggleFilter(ctx context.Context) error {
	s.filter = !s.filter
	return s.Rebuild(ctx)
}

// SetFilter sets the filter state and rebuilds.
func (s *Session) SetFilter(ctx context.Context, filter media.FilterState) error {
	s.filter = filter
	return s.Rebuild(ctx)
}

// Rebuild composes the current state from scratch and replaces playback.
// On error the previous output stays current and keeps playing.
func (s *Session) Rebuild(ctx context.Context) error {
	if s.asset == nil {
		return &media.AssetUnavailableError{Reason: "no source loaded"}
	}

	out, err := s.composer.Compose(s.asset, s.trim, s.filter)
	if err != nil {
		s.logger.Debug().Err(err).Str("range", s.trim.String()).Msg("rebuild rejected")
		return err
	}

	if s.driver != nil {
		if err := s.driver.Replace(ctx, out); err != nil {
			return fmt.Errorf("failed to start playback: %w", err)
		}
	}

	s.output = out
	s.logger.Info().
		Str("source", out.Source).
		Float64("duration", out.Duration().Seconds()).
		Str("filter", s.filter.String()).
		Msg("output rebuilt")

	return nil
}

// Asset returns the loaded source, or nil.
func (s *Session) Asset() *media.SourceAsset { return s.asset }

// Range returns the current trim fractions.
func (s *Session) Range() media.TrimRange { return s.trim }

// Filter returns the current filter state.
func (s *Session) Filter() media.FilterState { return s.filter }

// Output returns the last successfully built output, or nil.
func (s *Session) Output() *compose.Output { return s.output }

// Close stops playback.
func (s *Session) Close() error {
	if s.driver == nil {
		return nil
	}
	return s.driver.Close()
}

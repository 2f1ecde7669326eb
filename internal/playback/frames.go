package playback

import (
	"context"
	"errors"
	"image"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/kikiluvv/trimlab/internal/compose"
	"github.com/kikiluvv/trimlab/internal/ffmpeg"
	"github.com/kikiluvv/trimlab/internal/frames"
	"github.com/kikiluvv/trimlab/internal/media"
)

// FrameSource decodes the frames of a composed output.
type FrameSource interface {
	StreamFrames(ctx context.Context, out *compose.Output, fn ffmpeg.FrameFunc) error
}

// Sink displays presented frames.
type Sink interface {
	Show(img image.Image)
}

// FrameDriver plays outputs by running each decoded frame through the
// output's processor, rotating it for presentation and handing it to a sink
// at the frame's presentation time.
type FrameDriver struct {
	logger zerolog.Logger
	source FrameSource
	sink   Sink

	mu      sync.Mutex
	current *run
	closed  bool
}

type run struct {
	id     string
	cancel context.CancelFunc
	done   chan struct{}
	frames int
	err    error
}

// NewFrameDriver creates a driver that decodes from source and displays on sink.
func NewFrameDriver(logger zerolog.Logger, source FrameSource, sink Sink) *FrameDriver {
	return &FrameDriver{
		logger: logger.With().Str("component", "frame_player").Logger(),
		source: source,
		sink:   sink,
	}
}

// Replace cancels the current playback, waits for it to release, then starts
// out from time zero.
func (d *FrameDriver) Replace(ctx context.Context, out *compose.Output) error {
	if out == nil {
		return errors.New("no output to play")
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed {
		return ErrClosed
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	d.stopLocked()

	runCtx, cancel := context.WithCancel(context.Background())
	r := &run{
		id:     uuid.NewString(),
		cancel: cancel,
		done:   make(chan struct{}),
	}
	d.current = r

	go d.play(runCtx, r, out)

	d.logger.Info().
		Str("playback_id", r.id).
		Str("output", out.String()).
		Msg("playback started")

	return nil
}

func (d *FrameDriver) play(ctx context.Context, r *run, out *compose.Output) {
	defer close(r.done)

	processor := out.Render.Processor
	if processor == nil {
		processor = frames.Passthrough{}
	}
	rotation := out.Orientation.Rotation()
	start := time.Now()

	r.err = d.source.StreamFrames(ctx, out, func(frame *image.RGBA, pts media.Time) error {
		presented := frames.Rotate(processor.Process(frame), rotation)

		if wait := time.Until(start.Add(pts.Duration())); wait > 0 {
			timer := time.NewTimer(wait)
			select {
			case <-ctx.Done():
				timer.Stop()
				return ctx.Err()
			case <-timer.C:
			}
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		d.sink.Show(presented)
		r.frames++
		return nil
	})

	if errors.Is(r.err, context.Canceled) {
		r.err = nil
	}
	if r.err != nil {
		d.logger.Error().Err(r.err).Str("playback_id", r.id).Msg("playback failed")
		return
	}
	d.logger.Debug().
		Str("playback_id", r.id).
		Int("frames", r.frames).
		Dur("elapsed", time.Since(start)).
		Msg("playback finished")
}

// Wait blocks until the current playback ends or ctx is done.
func (d *FrameDriver) Wait(ctx context.Context) error {
	d.mu.Lock()
	r := d.current
	d.mu.Unlock()
	if r == nil {
		return nil
	}

	select {
	case <-r.done:
		return r.err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close stops playback. Further Replace calls fail with ErrClosed.
func (d *FrameDriver) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.stopLocked()
	d.closed = true
	return nil
}

func (d *FrameDriver) stopLocked() {
	if d.current == nil {
		return
	}
	d.current.cancel()
	<-d.current.done
	d.logger.Debug().Str("playback_id", d.current.id).Msg("playback released")
	d.current = nil
}

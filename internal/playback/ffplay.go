package playback

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"path/filepath"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/kikiluvv/trimlab/internal/compose"
	"github.com/kikiluvv/trimlab/internal/ffmpeg"
	"github.com/kikiluvv/trimlab/pkg/util"
)

// ErrClosed is returned by drivers after Close.
var ErrClosed = errors.New("playback driver closed")

// FFplayDriver plays outputs in an ffplay window.
type FFplayDriver struct {
	logger     zerolog.Logger
	playerPath string

	mu      sync.Mutex
	current *process
	closed  bool
}

type process struct {
	id     string
	cmd    *exec.Cmd
	cancel context.CancelFunc
	done   chan struct{}
	err    error
}

// NewFFplayDriver locates ffplay. An empty path resolves "ffplay" from PATH.
func NewFFplayDriver(logger zerolog.Logger, playerPath string) (*FFplayDriver, error) {
	if playerPath == "" {
		playerPath = "ffplay"
	}
	path, err := exec.LookPath(playerPath)
	if err != nil {
		return nil, fmt.Errorf("ffplay not found in PATH: %w", err)
	}
	return &FFplayDriver{
		logger:     logger.With().Str("component", "ffplay").Logger(),
		playerPath: path,
	}, nil
}

// PlayerArgs builds the ffplay command line for out. The trim window maps to
// -ss/-t, the render description and processor to the filter graph, and the
// presentation rotation is the last filter.
func PlayerArgs(out *compose.Output) []string {
	args := []string{
		"-hide_banner",
		"-loglevel", "error",
		"-autoexit",
		"-noautorotate",
		"-an",
		"-ss", util.FormatSeconds(out.Window.Start.Seconds()),
		"-t", util.FormatSeconds(out.Duration().Seconds()),
	}
	if vf := ffmpeg.PresentationFilter(out); vf != "" {
		args = append(args, "-vf", vf)
	}
	args = append(args,
		"-window_title", fmt.Sprintf("%s [%s]", filepath.Base(out.Source), out.Render.Processor.Name()),
		out.Source,
	)
	return args
}

// Replace starts ffplay for out and then stops the previous one. If the new
// process cannot start, the previous one keeps playing.
func (d *FFplayDriver) Replace(ctx context.Context, out *compose.Output) error {
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

	runCtx, cancel := context.WithCancel(context.Background())
	args := PlayerArgs(out)
	cmd := exec.CommandContext(runCtx, d.playerPath, args...)

	p := &process{
		id:     uuid.NewString(),
		cmd:    cmd,
		cancel: cancel,
		done:   make(chan struct{}),
	}

	d.logger.Debug().
		Str("playback_id", p.id).
		Strs("args", args).
		Msg("starting ffplay")

	if err := cmd.Start(); err != nil {
		cancel()
		return fmt.Errorf("failed to start ffplay: %w", err)
	}

	d.stopLocked()

	go func() {
		defer close(p.done)
		p.err = cmd.Wait()
		if runCtx.Err() == nil && p.err != nil {
			d.logger.Warn().Err(p.err).Str("playback_id", p.id).Msg("ffplay exited with error")
			return
		}
		d.logger.Debug().Str("playback_id", p.id).Msg("ffplay exited")
	}()

	d.current = p
	d.logger.Info().
		Str("playback_id", p.id).
		Str("output", out.String()).
		Msg("playback started")

	return nil
}

// Wait blocks until the current playback ends or ctx is done.
func (d *FFplayDriver) Wait(ctx context.Context) error {
	d.mu.Lock()
	p := d.current
	d.mu.Unlock()
	if p == nil {
		return nil
	}

	select {
	case <-p.done:
		return p.err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close stops playback. Further Replace calls fail with ErrClosed.
func (d *FFplayDriver) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.stopLocked()
	d.closed = true
	return nil
}

func (d *FFplayDriver) stopLocked() {
	if d.current == nil {
		return
	}
	d.current.cancel()
	<-d.current.done
	d.logger.Debug().Str("playback_id", d.current.id).Msg("playback released")
	d.current = nil
}

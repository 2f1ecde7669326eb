package ffmpeg

import (
	"bufio"
	"fmt"
	"io"
	"os/exec"
	"time"

	"github.com/rs/zerolog"
)

// Options locates the ffmpeg tools and tunes their execution.
type Options struct {
	FFmpegPath   string
	FFprobePath  string
	Threads      int
	ProbeTimeout time.Duration
}

// DefaultOptions resolves both tools from PATH.
func DefaultOptions() Options {
	return Options{
		FFmpegPath:   "ffmpeg",
		FFprobePath:  "ffprobe",
		ProbeTimeout: 30 * time.Second,
	}
}

// Executor is the media engine: it loads asset metadata with ffprobe and
// decodes composition windows with ffmpeg.
type Executor struct {
	logger       zerolog.Logger
	ffmpegPath   string
	ffprobePath  string
	threads      int
	probeTimeout time.Duration
}

// New creates a new ffmpeg executor
func New(logger zerolog.Logger, opts Options) (*Executor, error) {
	defaults := DefaultOptions()
	if opts.FFmpegPath == "" {
		opts.FFmpegPath = defaults.FFmpegPath
	}
	if opts.FFprobePath == "" {
		opts.FFprobePath = defaults.FFprobePath
	}

	ffmpegPath, err := exec.LookPath(opts.FFmpegPath)
	if err != nil {
		return nil, fmt.Errorf("ffmpeg not found in PATH: %w", err)
	}

	ffprobePath, err := exec.LookPath(opts.FFprobePath)
	if err != nil {
		return nil, fmt.Errorf("ffprobe not found in PATH: %w", err)
	}

	return &Executor{
		logger:       logger.With().Str("component", "ffmpeg").Logger(),
		ffmpegPath:   ffmpegPath,
		ffprobePath:  ffprobePath,
		threads:      opts.Threads,
		probeTimeout: opts.ProbeTimeout,
	}, nil
}

// baseArgs are prepended to every ffmpeg invocation
func (e *Executor) baseArgs() []string {
	args := []string{"-hide_banner", "-nostdin", "-loglevel", "error"}
	if e.threads > 0 {
		args = append(args, "-threads", fmt.Sprintf("%d", e.threads))
	}
	return args
}

// streamLines forwards each line of r to handler
func streamLines(r io.Reader, handler func(string)) {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		if handler != nil {
			handler(scanner.Text())
		}
	}
}

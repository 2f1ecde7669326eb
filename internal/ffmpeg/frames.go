package ffmpeg

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"image"
	"io"
	"os/exec"
	"sync"

	ffmpeggo "github.com/u2takey/ffmpeg-go"

	"github.com/kikiluvv/trimlab/internal/compose"
	"github.com/kikiluvv/trimlab/internal/media"
	"github.com/kikiluvv/trimlab/pkg/util"
)

// FrameFunc receives each decoded frame with its composition timestamp.
// Returning an error stops decoding.
type FrameFunc func(frame *image.RGBA, pts media.Time) error

// DecodeArgs builds the ffmpeg arguments that decode the composition window
// as raw RGBA at render size and cadence. Autorotation stays off so the
// orientation remains a presentation concern.
func DecodeArgs(out *compose.Output) ([]string, error) {
	seg, err := singleSegment(out)
	if err != nil {
		return nil, err
	}

	stream := ffmpeggo.Input(seg.SourceURI, ffmpeggo.KwArgs{
		"noautorotate": "",
		"ss":           util.FormatSeconds(seg.Source.Start.Seconds()),
		"t":            util.FormatSeconds(seg.Source.Duration.Seconds()),
	}).Output("pipe:1", ffmpeggo.KwArgs{
		"map":     fmt.Sprintf("0:%d", seg.SourceTrackID),
		"vf":      RenderFilter(out.Render),
		"an":      "",
		"f":       "rawvideo",
		"pix_fmt": "rgba",
	})

	return stream.GetArgs(), nil
}

// StreamFrames decodes out and hands every frame to fn in order.
func (e *Executor) StreamFrames(ctx context.Context, out *compose.Output, fn FrameFunc) error {
	decodeArgs, err := DecodeArgs(out)
	if err != nil {
		return err
	}
	args := append(e.baseArgs(), decodeArgs...)

	size := out.Render.RenderSize
	frameBytes := size.Width * size.Height * 4

	e.logger.Debug().
		Str("cmd", "ffmpeg").
		Strs("args", args).
		Msg("decoding frames")

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	cmd := exec.CommandContext(runCtx, e.ffmpegPath, args...)

	stderr, err := cmd.StderrPipe()
	if err != nil {
		return fmt.Errorf("failed to create stderr pipe: %w", err)
	}

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return fmt.Errorf("failed to create stdout pipe: %w", err)
	}

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("failed to start ffmpeg: %w", err)
	}

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		streamLines(stderr, func(line string) {
			e.logger.Debug().Str("ffmpeg", line).Msg("decode output")
		})
	}()

	frameErr := readFrames(bufio.NewReaderSize(stdout, frameBytes), size, out.Render.FrameDuration, out.Timescale, fn)
	if frameErr != nil {
		// stop ffmpeg before draining the pipes
		cancel()
		_, _ = io.Copy(io.Discard, stdout)
	}

	wg.Wait()
	waitErr := cmd.Wait()

	// a cancelled caller kills ffmpeg mid-frame, which is not a decode failure
	switch {
	case ctx.Err() != nil:
		return ctx.Err()
	case frameErr != nil:
		return frameErr
	case waitErr != nil:
		return &media.CompositionBuildError{Stage: "decode", Err: fmt.Errorf("ffmpeg execution failed: %w", waitErr)}
	}

	e.logger.Debug().Msg("frame decoding completed")
	return nil
}

// readFrames slices r into RGBA frames of size until EOF
func readFrames(r io.Reader, size media.Size, frameDuration media.Time, scale int32, fn FrameFunc) error {
	frameBytes := size.Width * size.Height * 4
	if frameBytes <= 0 {
		return &media.CompositionBuildError{Stage: "decode", Err: fmt.Errorf("invalid render size %s", size)}
	}

	for i := 0; ; i++ {
		pts := media.TimeFromSeconds(float64(i)*frameDuration.Seconds(), scale)

		buf := make([]byte, frameBytes)
		if _, err := io.ReadFull(r, buf); err != nil {
			if err == io.EOF {
				return nil
			}
			if err == io.ErrUnexpectedEOF {
				return &media.CompositionBuildError{Stage: "decode", Err: fmt.Errorf("truncated frame at %s", pts)}
			}
			return err
		}

		frame := &image.RGBA{
			Pix:    buf,
			Stride: size.Width * 4,
			Rect:   image.Rect(0, 0, size.Width, size.Height),
		}
		if err := fn(frame, pts); err != nil {
			return err
		}
	}
}

func singleSegment(out *compose.Output) (compose.Segment, error) {
	if out == nil {
		return compose.Segment{}, &media.CompositionBuildError{Stage: "decode", Err: errors.New("no composition")}
	}
	if len(out.Composition.Tracks) != 1 || len(out.Composition.Tracks[0].Segments) != 1 {
		return compose.Segment{}, &media.CompositionBuildError{Stage: "decode", Err: errors.New("expected a single-segment composition")}
	}
	return out.Composition.Tracks[0].Segments[0], nil
}

package main

import (
	"fmt"
	"image"
	"image/png"
	"math"
	"os"
	"path/filepath"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/kikiluvv/trimlab/internal/compose"
	"github.com/kikiluvv/trimlab/internal/config"
	"github.com/kikiluvv/trimlab/internal/frames"
	"github.com/kikiluvv/trimlab/internal/logging"
	"github.com/kikiluvv/trimlab/internal/media"
	"github.com/kikiluvv/trimlab/internal/terminal"
	"github.com/kikiluvv/trimlab/pkg/util"
)

var (
	previewFlags  trimFlags
	previewPoster string
	previewWidth  int
)

var previewCmd = &cobra.Command{
	Use:   "preview [input video]",
	Short: "Decode the trimmed output frame by frame and save a poster frame",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.FromContext(cmd.Context())

		engine, _, out, err := loadAndCompose(cmd.Context(), cfg, args[0], &previewFlags)
		if err != nil {
			return err
		}

		total := expectedFrames(out)
		bar := progressbar.NewOptions(total,
			progressbar.OptionSetDescription("Decoding"),
			progressbar.OptionSetWriter(cmd.ErrOrStderr()),
			progressbar.OptionSetTheme(progressbar.Theme{
				Saucer:        "█",
				SaucerHead:    "█",
				SaucerPadding: "░",
				BarStart:      "▐",
				BarEnd:        "▌",
			}),
			progressbar.OptionShowCount(),
			progressbar.OptionShowIts(),
			progressbar.OptionSetWidth(50),
			progressbar.OptionSetRenderBlankState(true),
		)

		// the poster is the middle frame of the output
		posterAt := out.Duration().Seconds() / 2
		var poster image.Image
		decoded := 0

		err = engine.StreamFrames(cmd.Context(), out, func(frame *image.RGBA, pts media.Time) error {
			decoded++
			_ = bar.Add(1)

			if poster == nil && pts.Seconds() >= posterAt {
				poster = present(out, frame)
			}
			return nil
		})
		_ = bar.Finish()
		fmt.Fprintln(cmd.ErrOrStderr())
		if err != nil {
			return err
		}

		logger := logging.WithComponent("preview")
		logger.Info().
			Int("frames", decoded).
			Int("expected", total).
			Msg("preview decoded")

		fmt.Fprintln(cmd.OutOrStdout(), terminal.RenderOutput(out))

		if previewPoster == "" {
			return nil
		}
		if poster == nil {
			return fmt.Errorf("no frame decoded for poster")
		}
		if err := writePoster(previewPoster, frames.Thumbnail(poster, previewWidth)); err != nil {
			return err
		}

		fmt.Fprintln(cmd.OutOrStdout(), terminal.SuccessStyle.Render("✓ poster saved to "+previewPoster))
		return nil
	},
}

// present applies the processor and presentation rotation like a player would
func present(out *compose.Output, frame *image.RGBA) image.Image {
	processed := out.Render.Processor.Process(frame)
	return frames.Rotate(processed, out.Orientation.Rotation())
}

func expectedFrames(out *compose.Output) int {
	// tolerate float noise so exact multiples do not round up
	return int(math.Ceil(out.Duration().Seconds()*out.Render.FrameRate() - 1e-6))
}

func writePoster(path string, img image.Image) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := util.EnsureDir(dir); err != nil {
			return err
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create poster: %w", err)
	}
	defer f.Close()

	if err := png.Encode(f, img); err != nil {
		return fmt.Errorf("failed to encode poster: %w", err)
	}
	return f.Close()
}

func init() {
	previewCmd.Flags().StringVar(&previewPoster, "poster", "", "write the middle frame as a PNG")
	previewCmd.Flags().IntVar(&previewWidth, "width", 0, "poster width in pixels (0 keeps the render size)")
}

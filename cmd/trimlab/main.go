package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/kikiluvv/trimlab/internal/compose"
	"github.com/kikiluvv/trimlab/internal/config"
	"github.com/kikiluvv/trimlab/internal/ffmpeg"
	"github.com/kikiluvv/trimlab/internal/logging"
	"github.com/kikiluvv/trimlab/internal/media"
)

var (
	cfgFile string
	verbose bool
	noColor bool
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:           "trimlab",
	Short:         "trimlab - trim, filter and preview videos",
	Long:          "Trim a video to a fraction of its length, optionally render it in grayscale, and play the result with its orientation corrected.",
	SilenceUsage:  true,
	SilenceErrors: false,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Load config
		cfg, err := config.Load(cfgFile)
		if err != nil {
			return err
		}

		// Initialize logging
		logging.Init(logging.Options{
			Verbose: verbose,
			NoColor: noColor,
			File: logging.FileOptions{
				Path:       cfg.Log.File,
				MaxSizeMB:  cfg.Log.MaxSizeMB,
				MaxBackups: cfg.Log.MaxBackups,
				MaxAgeDays: cfg.Log.MaxAgeDays,
			},
		})

		// Store config in context
		ctx := config.WithConfig(cmd.Context(), cfg)
		cmd.SetContext(ctx)

		return nil
	},
}

// trimFlags are shared by every command that composes an output
type trimFlags struct {
	start     float64
	end       float64
	grayscale bool
}

func (f *trimFlags) register(cmd *cobra.Command) {
	cmd.Flags().Float64Var(&f.start, "start", 0, "trim start as a fraction of the duration (0-1)")
	cmd.Flags().Float64Var(&f.end, "end", 1, "trim end as a fraction of the duration (0-1)")
	cmd.Flags().BoolVar(&f.grayscale, "grayscale", false, "apply the grayscale filter")
}

func (f *trimFlags) trim() media.TrimRange {
	return media.TrimRange{Start: f.start, End: f.end}
}

func (f *trimFlags) filter() media.FilterState {
	return media.FilterState(f.grayscale)
}

func newEngine(cfg *config.Config) (*ffmpeg.Executor, error) {
	return ffmpeg.New(log.Logger, cfg.FFmpegOptions())
}

func newComposer(cfg *config.Config) *compose.Composer {
	return compose.NewComposer(log.Logger, cfg.ComposeSettings())
}

// loadAndCompose probes path and composes it with the given flags
func loadAndCompose(ctx context.Context, cfg *config.Config, path string, flags *trimFlags) (*ffmpeg.Executor, *media.SourceAsset, *compose.Output, error) {
	engine, err := newEngine(cfg)
	if err != nil {
		return nil, nil, nil, err
	}

	asset, err := engine.LoadAsset(ctx, path)
	if err != nil {
		return nil, nil, nil, err
	}

	out, err := newComposer(cfg).Compose(asset, flags.trim(), flags.filter())
	if err != nil {
		return nil, nil, nil, err
	}

	return engine, asset, out, nil
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ./config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored log output")

	rootCmd.AddCommand(probeCmd)
	rootCmd.AddCommand(composeCmd)
	rootCmd.AddCommand(previewCmd)
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(editCmd)
	rootCmd.AddCommand(guiCmd)
	rootCmd.AddCommand(configCmd)
}

package gui

import (
	"context"
	"fmt"
	"image"
	"path/filepath"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/widget"
	"github.com/rs/zerolog"

	"github.com/kikiluvv/trimlab/internal/compose"
	"github.com/kikiluvv/trimlab/internal/config"
	"github.com/kikiluvv/trimlab/internal/editor"
	"github.com/kikiluvv/trimlab/internal/playback"
	"github.com/kikiluvv/trimlab/pkg/util"
)

// Engine loads sources and decodes composed frames.
type Engine interface {
	editor.AssetLoader
	playback.FrameSource
}

// imageSink shows presented frames on a canvas image
type imageSink struct {
	img *canvas.Image
}

func (s *imageSink) Show(frame image.Image) {
	fyne.Do(func() {
		s.img.Image = frame
		s.img.Refresh()
	})
}

// RunGUI opens the editor window and blocks until it is closed.
func RunGUI(ctx context.Context, logger zerolog.Logger, composer *compose.Composer, engine Engine, cfg *config.Config, initialPath string) error {
	logger = logger.With().Str("component", "gui").Logger()

	myApp := app.NewWithID("trimlab")
	w := myApp.NewWindow("✂️ trimlab")
	w.Resize(fyne.NewSize(cfg.GUI.Width, cfg.GUI.Height))

	surface := canvas.NewImageFromImage(image.NewRGBA(image.Rect(0, 0, 16, 9)))
	surface.FillMode = canvas.ImageFillContain
	surface.SetMinSize(fyne.NewSize(cfg.GUI.Width, cfg.GUI.Height*0.6))

	driver, err := newDriver(logger, engine, &imageSink{img: surface}, cfg)
	if err != nil {
		return err
	}

	session := editor.New(logger, composer, engine, driver)
	defer session.Close()

	videoLabel := widget.NewLabel("No video loaded")
	statusLabel := widget.NewLabel("")
	statusLabel.Wrapping = fyne.TextWrapWord
	rangeLabel := widget.NewLabel(rangeText(0, 1))

	ctl := &controls{ctx: ctx, logger: logger, session: session}

	startSlider := widget.NewSlider(0, 1)
	startSlider.Step = 0.001
	startSlider.Value = 0

	endSlider := widget.NewSlider(0, 1)
	endSlider.Step = 0.001
	endSlider.Value = 1

	startSlider.OnChanged = func(float64) {
		rangeLabel.SetText(rangeText(startSlider.Value, endSlider.Value))
	}
	endSlider.OnChanged = startSlider.OnChanged

	startSlider.OnChangeEnded = func(v float64) {
		statusLabel.SetText(ctl.setStart(v))
	}
	endSlider.OnChangeEnded = func(v float64) {
		statusLabel.SetText(ctl.setEnd(v))
	}

	var (
		watched   string
		stopWatch context.CancelFunc = func() {}
		loadPath  func(path string)
	)
	defer func() { stopWatch() }()

	// reload when the loaded file is rewritten on disk
	watch := func(path string) {
		if !cfg.GUI.WatchSource || path == watched {
			return
		}
		stopWatch()
		var watchCtx context.Context
		watchCtx, stopWatch = context.WithCancel(ctx)
		watched = path
		go func() {
			err := editor.WatchSource(watchCtx, logger, path, editor.DefaultSettle, func() {
				fyne.Do(func() { loadPath(path) })
			})
			if err != nil {
				logger.Warn().Err(err).Msg("source watch stopped")
			}
		}()
	}

	loadPath = func(path string) {
		status := ctl.load(path)
		if asset := session.Asset(); asset != nil {
			videoLabel.SetText("Loaded: " + filepath.Base(asset.URI))
			watch(asset.URI)
		}
		statusLabel.SetText(status)
	}

	loadButton := widget.NewButton("Load Video", func() {
		fd := dialog.NewFileOpen(
			func(ur fyne.URIReadCloser, err error) {
				if err != nil {
					statusLabel.SetText(ctl.status(err))
					return
				}
				if ur == nil {
					// cancelled
					return
				}
				path := ur.URI().Path()
				ur.Close()
				loadPath(path)
			}, w)
		fd.SetFilter(storage.NewExtensionFileFilter(cfg.GUI.Extensions))
		fd.Show()
	})

	filterButton := widget.NewButton("Toggle Filter", func() {
		statusLabel.SetText(ctl.toggleFilter())
	})

	w.SetContent(
		container.NewBorder(
			videoLabel,
			container.NewVBox(
				container.NewHBox(loadButton, filterButton),
				widget.NewLabel("Start"),
				startSlider,
				widget.NewLabel("End"),
				endSlider,
				rangeLabel,
				statusLabel,
			),
			nil, nil,
			surface,
		),
	)

	if initialPath != "" {
		if !util.HasExtension(initialPath, cfg.GUI.Extensions) {
			logger.Warn().Str("path", initialPath).Strs("extensions", cfg.GUI.Extensions).Msg("unexpected file type")
		}
		loadPath(initialPath)
	}

	w.ShowAndRun()
	return nil
}

func newDriver(logger zerolog.Logger, engine Engine, sink playback.Sink, cfg *config.Config) (playback.Driver, error) {
	if cfg.Playback.Driver == config.DriverFFplay {
		return playback.NewFFplayDriver(logger, cfg.FFmpeg.PlayerPath)
	}
	return playback.NewFrameDriver(logger, engine, sink), nil
}

func rangeText(start, end float64) string {
	return fmt.Sprintf("Trim: %.1f%% - %.1f%%", start*100, end*100)
}

func statusText(out *compose.Output, err error) string {
	if err != nil {
		return "⚠️ " + err.Error()
	}
	if out == nil {
		return ""
	}
	return fmt.Sprintf("Playing %.2fs, filter %s, %s", out.Duration().Seconds(), out.Render.Processor.Name(), out.Orientation)
}

package config

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Compose.FrameRate != 30 || cfg.Compose.Timescale != 600 {
		t.Errorf("compose defaults = %+v", cfg.Compose)
	}
	if cfg.Playback.Driver != DriverFrames {
		t.Errorf("driver = %q, want frames", cfg.Playback.Driver)
	}
	if cfg.FFmpeg.ProbeTimeout != 30*time.Second {
		t.Errorf("probe timeout = %v", cfg.FFmpeg.ProbeTimeout)
	}
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := `
ffmpeg:
  binary_path: /opt/ffmpeg/bin/ffmpeg
  threads: 2
  probe_timeout: 5s
compose:
  frame_rate: 24
playback:
  driver: ffplay
`
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.FFmpeg.BinaryPath != "/opt/ffmpeg/bin/ffmpeg" || cfg.FFmpeg.Threads != 2 {
		t.Errorf("ffmpeg = %+v", cfg.FFmpeg)
	}
	if cfg.FFmpeg.ProbeTimeout != 5*time.Second {
		t.Errorf("probe timeout = %v, want 5s", cfg.FFmpeg.ProbeTimeout)
	}
	// untouched keys keep their defaults
	if cfg.FFmpeg.ProbePath != "ffprobe" {
		t.Errorf("probe path = %q", cfg.FFmpeg.ProbePath)
	}
	if cfg.Compose.Timescale != 600 {
		t.Errorf("timescale = %d, want 600", cfg.Compose.Timescale)
	}
	if cfg.Playback.Driver != DriverFFplay {
		t.Errorf("driver = %q, want ffplay", cfg.Playback.Driver)
	}

	settings := cfg.ComposeSettings()
	if settings.FrameRate != 24 {
		t.Errorf("compose settings = %+v", settings)
	}
	opts := cfg.FFmpegOptions()
	if opts.Threads != 2 || opts.FFmpegPath != "/opt/ffmpeg/bin/ffmpeg" {
		t.Errorf("ffmpeg options = %+v", opts)
	}
}

func TestLoadRejectsInvalid(t *testing.T) {
	tests := []struct {
		name string
		data string
		want string
	}{
		{"bad yaml", "compose: [", "failed to parse"},
		{"zero frame rate", "compose:\n  frame_rate: 0\n", "frame_rate"},
		{"unknown driver", "playback:\n  driver: vlc\n", "unknown playback driver"},
		{"negative threads", "ffmpeg:\n  threads: -1\n", "threads"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.yaml")
			if err := os.WriteFile(path, []byte(tt.data), 0644); err != nil {
				t.Fatal(err)
			}
			_, err := Load(path)
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("err = %v, want containing %q", err, tt.want)
			}
		})
	}
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	cfg := Default()
	cfg.GUI.Extensions = []string{".mov"}
	cfg.Playback.Driver = DriverFFplay

	if err := cfg.Save(path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(loaded.GUI.Extensions) != 1 || loaded.GUI.Extensions[0] != ".mov" {
		t.Errorf("extensions = %v", loaded.GUI.Extensions)
	}
	if loaded.Playback.Driver != DriverFFplay {
		t.Errorf("driver = %q", loaded.Playback.Driver)
	}
}

func TestContext(t *testing.T) {
	if cfg := FromContext(context.Background()); cfg.Compose.FrameRate != 30 {
		t.Errorf("FromContext without config should return defaults, got %+v", cfg.Compose)
	}

	cfg := Default()
	cfg.Compose.FrameRate = 60
	ctx := WithConfig(context.Background(), cfg)
	if FromContext(ctx) != cfg {
		t.Error("FromContext did not return the stored config")
	}
}

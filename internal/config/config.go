package config

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/kikiluvv/trimlab/internal/compose"
	"github.com/kikiluvv/trimlab/internal/ffmpeg"
	"github.com/kikiluvv/trimlab/internal/media"
)

type contextKey string

const configKey contextKey = "config"

// Playback driver names
const (
	DriverFFplay = "ffplay"
	DriverFrames = "frames"
)

// Config holds all application configuration
type Config struct {
	// FFmpeg settings
	FFmpeg FFmpegConfig `yaml:"ffmpeg"`

	// Composition output
	Compose ComposeConfig `yaml:"compose"`

	// Playback settings
	Playback PlaybackConfig `yaml:"playback"`

	// Desktop editor settings
	GUI GUIConfig `yaml:"gui"`

	// Log file settings
	Log LogConfig `yaml:"log"`
}

type FFmpegConfig struct {
	BinaryPath   string        `yaml:"binary_path"`
	ProbePath    string        `yaml:"probe_path"`
	PlayerPath   string        `yaml:"player_path"`
	Threads      int           `yaml:"threads"`
	ProbeTimeout time.Duration `yaml:"probe_timeout"`
}

type ComposeConfig struct {
	FrameRate int   `yaml:"frame_rate"`
	Timescale int32 `yaml:"timescale"`
}

type PlaybackConfig struct {
	Driver string `yaml:"driver"`
}

type GUIConfig struct {
	Width       float32  `yaml:"width"`
	Height      float32  `yaml:"height"`
	Extensions  []string `yaml:"extensions"`
	WatchSource bool     `yaml:"watch_source"`
}

type LogConfig struct {
	File       string `yaml:"file"`
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
	MaxAgeDays int    `yaml:"max_age_days"`
}

// Load reads configuration from file or returns defaults
func Load(path string) (*Config, error) {
	cfg := defaultConfig()

	if path == "" {
		path = findConfigFile()
	}

	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, err
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}

	return cfg, nil
}

// Save writes configuration to file
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// Validate rejects settings the engine cannot run with
func (c *Config) Validate() error {
	if c.Compose.FrameRate <= 0 {
		return fmt.Errorf("compose.frame_rate must be positive, got %d", c.Compose.FrameRate)
	}
	if c.Compose.Timescale <= 0 {
		return fmt.Errorf("compose.timescale must be positive, got %d", c.Compose.Timescale)
	}
	if c.FFmpeg.Threads < 0 {
		return fmt.Errorf("ffmpeg.threads must not be negative, got %d", c.FFmpeg.Threads)
	}
	switch c.Playback.Driver {
	case DriverFFplay, DriverFrames:
	default:
		return fmt.Errorf("unknown playback driver %q", c.Playback.Driver)
	}
	return nil
}

// ComposeSettings maps the compose section onto composer settings
func (c *Config) ComposeSettings() compose.Settings {
	return compose.Settings{
		FrameRate: c.Compose.FrameRate,
		Timescale: c.Compose.Timescale,
	}
}

// FFmpegOptions maps the ffmpeg section onto executor options
func (c *Config) FFmpegOptions() ffmpeg.Options {
	return ffmpeg.Options{
		FFmpegPath:   c.FFmpeg.BinaryPath,
		FFprobePath:  c.FFmpeg.ProbePath,
		Threads:      c.FFmpeg.Threads,
		ProbeTimeout: c.FFmpeg.ProbeTimeout,
	}
}

// Default returns the built-in configuration
func Default() *Config {
	return defaultConfig()
}

func defaultConfig() *Config {
	return &Config{
		FFmpeg: FFmpegConfig{
			BinaryPath:   "ffmpeg",
			ProbePath:    "ffprobe",
			PlayerPath:   "ffplay",
			Threads:      0,
			ProbeTimeout: 30 * time.Second,
		},
		Compose: ComposeConfig{
			FrameRate: compose.DefaultFrameRate,
			Timescale: media.DefaultTimescale,
		},
		Playback: PlaybackConfig{
			Driver: DriverFrames,
		},
		GUI: GUIConfig{
			Width:       960,
			Height:      640,
			Extensions:  []string{".mp4", ".mov", ".m4v", ".mkv", ".webm"},
			WatchSource: true,
		},
		Log: LogConfig{
			MaxSizeMB:  10,
			MaxBackups: 3,
			MaxAgeDays: 28,
		},
	}
}

// DefaultPath is where `config init` writes
func DefaultPath() string {
	return filepath.Join(os.Getenv("HOME"), ".trimlab", "config.yaml")
}

func findConfigFile() string {
	candidates := []string{
		"./config.yaml",
		"./config.yml",
		DefaultPath(),
	}

	for _, path := range candidates {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}

// WithConfig stores config in context
func WithConfig(ctx context.Context, cfg *Config) context.Context {
	return context.WithValue(ctx, configKey, cfg)
}

// FromContext retrieves config from context
func FromContext(ctx context.Context) *Config {
	if cfg, ok := ctx.Value(configKey).(*Config); ok {
		return cfg
	}
	return defaultConfig()
}

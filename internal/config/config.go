// Package config assembles the recognizer's configuration from, in order
// of precedence: command-line flags, MUDRA_* environment variables (with
// an optional .env file), and built-in defaults. Invalid settings are
// rejected here, before any frame is processed.
package config

import (
	"flag"
	"fmt"

	"github.com/caarlos0/env/v11"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

// Config holds every tunable the recognizer consumes.
type Config struct {
	// CameraID is the capture device index.
	CameraID int `env:"MUDRA_CAMERA" validate:"gte=0"`

	// OutputPath is the append-only gesture event log.
	OutputPath string `env:"MUDRA_OUTPUT" validate:"required"`

	// Display enables the on-screen preview window.
	Display bool `env:"MUDRA_DISPLAY"`

	// StableFrames is the number of consecutive identical frames a
	// gesture must persist before it is logged. Must be at least 1.
	StableFrames int `env:"MUDRA_STABLE_FRAMES" validate:"gte=1"`

	// MotionThreshold is the percentage of changed pixels that switches
	// the capture loop from idle to active frame rates.
	MotionThreshold float64 `env:"MUDRA_MOTION_THRESHOLD" validate:"gt=0"`

	// DBPath is the SQLite history database. Empty disables the store.
	DBPath string `env:"MUDRA_DB"`

	// Addr is the monitor HTTP listen address. Empty disables the server.
	Addr string `env:"MUDRA_ADDR"`

	// PluginDir is scanned for action plugins. Empty disables plugins.
	PluginDir string `env:"MUDRA_PLUGINS"`

	// Tray enables the system tray menu.
	Tray bool `env:"MUDRA_TRAY"`

	// LogLevel is the logger verbosity: debug, info, warn or error.
	LogLevel string `env:"MUDRA_LOG_LEVEL" validate:"oneof=debug info warn error"`

	// LogFile receives rotated structured logs in addition to stderr.
	// Empty logs to stderr only.
	LogFile string `env:"MUDRA_LOG_FILE"`
}

// Default returns the built-in defaults, matching the original CLI:
// camera 0, recognized_gestures.txt, display on, 5 stable frames.
func Default() Config {
	return Config{
		CameraID:        0,
		OutputPath:      "recognized_gestures.txt",
		Display:         true,
		StableFrames:    5,
		MotionThreshold: 1.0,
		LogLevel:        "info",
	}
}

// Load builds the configuration from defaults, environment and the given
// command-line arguments (typically os.Args[1:]), then validates it.
func Load(args []string) (*Config, error) {
	// A missing .env file is fine; explicit environment still applies.
	_ = godotenv.Load()

	cfg := Default()
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}

	fs := flag.NewFlagSet("mudra", flag.ContinueOnError)
	noDisplay := !cfg.Display

	fs.IntVar(&cfg.CameraID, "camera", cfg.CameraID, "camera index")
	fs.StringVar(&cfg.OutputPath, "output", cfg.OutputPath, "path to the gesture event log")
	fs.BoolVar(&noDisplay, "no-display", noDisplay, "disable the preview window")
	fs.IntVar(&cfg.StableFrames, "stable-frames", cfg.StableFrames, "frames a gesture must persist before logging")
	fs.Float64Var(&cfg.MotionThreshold, "motion-threshold", cfg.MotionThreshold, "percent pixel change that activates full frame rate")
	fs.StringVar(&cfg.DBPath, "db", cfg.DBPath, "SQLite history database path (empty disables)")
	fs.StringVar(&cfg.Addr, "addr", cfg.Addr, "monitor HTTP listen address (empty disables)")
	fs.StringVar(&cfg.PluginDir, "plugins", cfg.PluginDir, "action plugin directory (empty disables)")
	fs.BoolVar(&cfg.Tray, "tray", cfg.Tray, "run with a system tray menu")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "log level: debug, info, warn, error")
	fs.StringVar(&cfg.LogFile, "log-file", cfg.LogFile, "rotating log file (empty logs to stderr only)")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	cfg.Display = !noDisplay

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the configuration against its constraints.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

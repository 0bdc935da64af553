package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// Config is the full application configuration
type Config struct {
	Window  WindowConfig  `toml:"window"`
	Physics PhysicsConfig `toml:"physics"`
	Scripts ScriptsConfig `toml:"scripts"`
	Logging LoggingConfig `toml:"logging"`
	Audio   AudioConfig   `toml:"audio"`
}

type WindowConfig struct {
	Title string `toml:"title"`
	// MultiThread selects the dual-thread scheduling model: a dedicated
	// render thread alongside the update/input thread
	MultiThread bool `toml:"multi_thread"`
	Debug       bool `toml:"debug"`
}

type PhysicsConfig struct {
	// FixedStep is the simulation step size in seconds
	FixedStep float64 `toml:"fixed_step"`
	// MaxSteps caps the steps simulated per frame
	MaxSteps int `toml:"max_steps"`
	// Gravity in render units per second squared
	GravityX float64 `toml:"gravity_x"`
	GravityY float64 `toml:"gravity_y"`
	// RenderScale is the number of render units per physics metre
	RenderScale float64 `toml:"render_scale"`
}

type ScriptsConfig struct {
	// Dir holds scene scripts loaded after boot
	Dir string `toml:"dir"`
	// Boot is the script that must run for initialisation to succeed
	Boot string `toml:"boot"`
}

type LoggingConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"` // "json" or "console"
	// File receives log output; the terminal itself is owned by the surface
	File string `toml:"file"`
}

type AudioConfig struct {
	Enabled bool `toml:"enabled"`
}

// Load reads a TOML config file over the defaults
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	cfg := Default()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config %s: %w", path, err)
	}
	return cfg, nil
}

// Default returns the built-in configuration
func Default() *Config {
	return &Config{
		Window: WindowConfig{
			Title:       "glyphrun",
			MultiThread: false,
		},
		Physics: PhysicsConfig{
			FixedStep:   1.0 / 60.0,
			MaxSteps:    5,
			GravityX:    0,
			GravityY:    1000,
			RenderScale: 100,
		},
		Scripts: ScriptsConfig{
			Dir:  "assets/scripts/scenes",
			Boot: "assets/scripts/boot.lua",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
			File:   "glyphrun.log",
		},
		Audio: AudioConfig{
			Enabled: true,
		},
	}
}

// Validate rejects configurations the scheduler cannot run with
func (c *Config) Validate() error {
	if c.Physics.FixedStep <= 0 {
		return fmt.Errorf("physics.fixed_step must be positive, got %g", c.Physics.FixedStep)
	}
	if c.Physics.MaxSteps < 0 {
		return fmt.Errorf("physics.max_steps must not be negative, got %d", c.Physics.MaxSteps)
	}
	if c.Physics.RenderScale <= 0 {
		return fmt.Errorf("physics.render_scale must be positive, got %g", c.Physics.RenderScale)
	}
	switch c.Logging.Format {
	case "json", "console":
	default:
		return fmt.Errorf("logging.format must be json or console, got %q", c.Logging.Format)
	}
	return nil
}

package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())

	assert.Equal(t, 1.0/60.0, cfg.Physics.FixedStep)
	assert.Equal(t, 5, cfg.Physics.MaxSteps)
	assert.Equal(t, 100.0, cfg.Physics.RenderScale)
	assert.False(t, cfg.Window.MultiThread)
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "glyphrun.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
[window]
title = "custom"
multi_thread = true

[physics]
fixed_step = 0.01
max_steps = 8
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "custom", cfg.Window.Title)
	assert.True(t, cfg.Window.MultiThread)
	assert.Equal(t, 0.01, cfg.Physics.FixedStep)
	assert.Equal(t, 8, cfg.Physics.MaxSteps)

	// Sections absent from the file keep their defaults
	assert.Equal(t, 100.0, cfg.Physics.RenderScale)
	assert.Equal(t, "console", cfg.Logging.Format)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	assert.Error(t, err)
}

func TestValidateRejectsBadValues(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero fixed step", func(c *Config) { c.Physics.FixedStep = 0 }},
		{"negative fixed step", func(c *Config) { c.Physics.FixedStep = -0.01 }},
		{"negative max steps", func(c *Config) { c.Physics.MaxSteps = -1 }},
		{"zero render scale", func(c *Config) { c.Physics.RenderScale = 0 }},
		{"unknown log format", func(c *Config) { c.Logging.Format = "xml" }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Default()
			tc.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestValidateAcceptsZeroMaxSteps(t *testing.T) {
	cfg := Default()
	cfg.Physics.MaxSteps = 0
	assert.NoError(t, cfg.Validate())
}

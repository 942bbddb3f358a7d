package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadFromEnvDefaults(t *testing.T) {
	cfg := LoadFromEnv()
	assert.Equal(t, Default(), cfg)
	assert.Equal(t, 50, cfg.Rows)
	assert.Equal(t, 32.0, cfg.CellSize)
	assert.True(t, cfg.Hover)
	assert.True(t, cfg.Click)
	assert.False(t, cfg.Diagnostics)
}

func TestLoadFromEnvOverrides(t *testing.T) {
	t.Setenv("GRID_BENCH_ROWS", "200")
	t.Setenv("GRID_BENCH_CELL_SIZE", "12.5")
	t.Setenv("GRID_BENCH_WIDTH", "1920")
	t.Setenv("GRID_BENCH_HEIGHT", "1080")
	t.Setenv("GRID_BENCH_HOVER", "0")
	t.Setenv("GRID_BENCH_CLICK", "TRUE")
	t.Setenv("GRID_BENCH_STEP", "10")
	t.Setenv("GRID_BENCH_DIAGNOSTICS", "1")
	t.Setenv("GRID_BENCH_FPS", "240")
	t.Setenv("GRID_BENCH_DURATION", "5s")
	t.Setenv("GRID_BENCH_METRICS_ADDR", ":9100")

	cfg := LoadFromEnv()
	assert.Equal(t, 200, cfg.Rows)
	assert.Equal(t, 12.5, cfg.CellSize)
	assert.Equal(t, 1920.0, cfg.Width)
	assert.Equal(t, 1080.0, cfg.Height)
	assert.False(t, cfg.Hover)
	assert.True(t, cfg.Click)
	assert.Equal(t, 10, cfg.Step)
	assert.True(t, cfg.Diagnostics)
	assert.Equal(t, 240, cfg.FPS)
	assert.Equal(t, 5*time.Second, cfg.Duration)
	assert.Equal(t, ":9100", cfg.MetricsAddr)
}

func TestMalformedOverridesFallBack(t *testing.T) {
	tests := []struct {
		key   string
		value string
		check func(t *testing.T, cfg *Config)
	}{
		{"GRID_BENCH_ROWS", "many", func(t *testing.T, cfg *Config) { assert.Equal(t, DefaultRows, cfg.Rows) }},
		{"GRID_BENCH_ROWS", "-3", func(t *testing.T, cfg *Config) { assert.Equal(t, DefaultRows, cfg.Rows) }},
		{"GRID_BENCH_ROWS", "99999999999", func(t *testing.T, cfg *Config) { assert.Equal(t, DefaultRows, cfg.Rows) }},
		{"GRID_BENCH_CELL_SIZE", "32px", func(t *testing.T, cfg *Config) { assert.Equal(t, DefaultCellSize, cfg.CellSize) }},
		{"GRID_BENCH_WIDTH", "", func(t *testing.T, cfg *Config) { assert.Equal(t, DefaultWidth, cfg.Width) }},
		{"GRID_BENCH_WIDTH", "Inf", func(t *testing.T, cfg *Config) { assert.Equal(t, DefaultWidth, cfg.Width) }},
		{"GRID_BENCH_HEIGHT", "-inf", func(t *testing.T, cfg *Config) { assert.Equal(t, DefaultHeight, cfg.Height) }},
		{"GRID_BENCH_CELL_SIZE", "NaN", func(t *testing.T, cfg *Config) { assert.Equal(t, DefaultCellSize, cfg.CellSize) }},
		{"GRID_BENCH_STEP", "1.5", func(t *testing.T, cfg *Config) { assert.Equal(t, DefaultStep, cfg.Step) }},
		{"GRID_BENCH_FPS", "0", func(t *testing.T, cfg *Config) { assert.Equal(t, DefaultFPS, cfg.FPS) }},
		{"GRID_BENCH_DURATION", "soon", func(t *testing.T, cfg *Config) { assert.Zero(t, cfg.Duration) }},
		{"GRID_BENCH_HOVER", "yes", func(t *testing.T, cfg *Config) { assert.False(t, cfg.Hover) }},
	}
	for _, tt := range tests {
		t.Run(tt.key+"="+tt.value, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)
			var cfg *Config
			assert.NotPanics(t, func() { cfg = LoadFromEnv() })
			tt.check(t, cfg)
		})
	}
}

func TestFrameInterval(t *testing.T) {
	cfg := Default()
	cfg.FPS = 60
	assert.Equal(t, time.Second/60, cfg.FrameInterval())

	cfg.FPS = 0
	assert.Equal(t, time.Second/DefaultFPS, cfg.FrameInterval())
}

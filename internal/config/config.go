// Package config reads benchmark overrides from the environment. Every value
// has a compiled default; a malformed override is logged and ignored.
package config

import (
	"math"
	"os"
	"strconv"
	"strings"
	"time"

	"k8s.io/klog/v2"
)

const (
	DefaultRows     = 50
	DefaultCellSize = 32.0
	DefaultWidth    = 800.0
	DefaultHeight   = 600.0
	DefaultStep     = 1
	DefaultFPS      = 120
)

// Config holds the runtime overrides for a benchmark run.
type Config struct {
	Rows     int
	CellSize float64
	// Width and Height size the viewport in layout units until the host
	// reports its real size.
	Width  float64
	Height float64
	Hover  bool
	Click  bool
	Step   int
	// Diagnostics selects the diagnostics overlay and enables the frame log.
	Diagnostics bool
	// FPS is the frame request rate driving the frame loop.
	FPS int
	// Duration ends the run automatically when positive.
	Duration    time.Duration
	MetricsAddr string
}

// Default returns the compiled defaults.
func Default() *Config {
	return &Config{
		Rows:     DefaultRows,
		CellSize: DefaultCellSize,
		Width:    DefaultWidth,
		Height:   DefaultHeight,
		Hover:    true,
		Click:    true,
		Step:     DefaultStep,
		FPS:      DefaultFPS,
	}
}

// LoadFromEnv applies GRID_BENCH_* overrides on top of the defaults.
func LoadFromEnv() *Config {
	d := Default()
	cfg := &Config{
		Rows:        getUintOrDefault("GRID_BENCH_ROWS", d.Rows),
		CellSize:    getFloatOrDefault("GRID_BENCH_CELL_SIZE", d.CellSize),
		Width:       getFloatOrDefault("GRID_BENCH_WIDTH", d.Width),
		Height:      getFloatOrDefault("GRID_BENCH_HEIGHT", d.Height),
		Hover:       getBoolOrDefault("GRID_BENCH_HOVER", d.Hover),
		Click:       getBoolOrDefault("GRID_BENCH_CLICK", d.Click),
		Step:        getUintOrDefault("GRID_BENCH_STEP", d.Step),
		Diagnostics: getBoolOrDefault("GRID_BENCH_DIAGNOSTICS", d.Diagnostics),
		FPS:         getUintOrDefault("GRID_BENCH_FPS", d.FPS),
		Duration:    getDurationOrDefault("GRID_BENCH_DURATION", d.Duration),
		MetricsAddr: os.Getenv("GRID_BENCH_METRICS_ADDR"),
	}
	if cfg.FPS == 0 {
		cfg.FPS = d.FPS
	}

	klog.V(2).InfoS("Loaded benchmark configuration",
		"rows", cfg.Rows,
		"cellSize", cfg.CellSize,
		"width", cfg.Width,
		"height", cfg.Height,
		"hover", cfg.Hover,
		"click", cfg.Click,
		"step", cfg.Step,
		"diagnostics", cfg.Diagnostics,
		"fps", cfg.FPS)

	return cfg
}

// FrameInterval is the delay between frame requests.
func (c *Config) FrameInterval() time.Duration {
	if c.FPS <= 0 {
		return time.Second / DefaultFPS
	}
	return time.Second / time.Duration(c.FPS)
}

// getUintOrDefault accepts only non-negative integers that fit an int32, so
// "-1" falls back to the default.
func getUintOrDefault(key string, defaultValue int) int {
	if strValue, ok := os.LookupEnv(key); ok {
		if value, err := strconv.ParseUint(strValue, 10, 31); err == nil {
			return int(value)
		}
		klog.V(2).InfoS("Invalid unsigned value, using default",
			"key", key,
			"value", strValue,
			"default", defaultValue)
	}
	return defaultValue
}

func getFloatOrDefault(key string, defaultValue float64) float64 {
	if strValue, ok := os.LookupEnv(key); ok {
		if value, err := strconv.ParseFloat(strValue, 64); err == nil && !math.IsInf(value, 0) && !math.IsNaN(value) {
			return value
		}
		klog.V(2).InfoS("Invalid float value, using default",
			"key", key,
			"value", strValue,
			"default", defaultValue)
	}
	return defaultValue
}

// getBoolOrDefault treats "1" and "true" (any case) as true and any other
// value as false.
func getBoolOrDefault(key string, defaultValue bool) bool {
	if strValue, ok := os.LookupEnv(key); ok {
		return strValue == "1" || strings.EqualFold(strValue, "true")
	}
	return defaultValue
}

func getDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if strValue, ok := os.LookupEnv(key); ok {
		if value, err := time.ParseDuration(strValue); err == nil {
			return value
		}
		klog.V(2).InfoS("Invalid duration value, using default",
			"key", key,
			"value", strValue,
			"default", defaultValue)
	}
	return defaultValue
}

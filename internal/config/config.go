// Package config holds render settings loaded from JSON with CLI overrides.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"runtime"
)

// Config holds all configurable render settings.
type Config struct {
	// Output dimensions
	Width  int `json:"width"`
	Height int `json:"height"`

	// Technique parameters
	SampleCount   int `json:"msaa_samples"`
	FragmentCount int `json:"fragment_count"`
	LayerCount    int `json:"layer_count"`

	// Animation
	Frames    int     `json:"frames"`
	FrameStep float64 `json:"frame_step"` // seconds of animation time per frame

	// Output
	OutputDir   string `json:"output_dir"`
	OutputSize  int    `json:"output_size"` // downscale target, 0 = native
	WebPQuality int    `json:"webp_quality"`

	// Resources
	TextureDir string `json:"texture_dir"`
	Workers    int    `json:"workers"`
}

// Load reads a JSON config file and returns Config.
// Fields not set in the file keep their zero values.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
	}

	return cfg, nil
}

// Flags holds CLI flag values that override config file settings.
type Flags struct {
	Width      int
	Height     int
	Samples    int
	Frames     int
	Workers    int
	OutputDir  string
	TextureDir string
	Quality    int
}

// Resolve fills in empty fields with defaults. CLI flags take priority when
// non-zero/non-empty. Defaults mirror the original demo's constants:
// 1920x1280, 4x MSAA, fragment cap 32, layer factor 8.
func (c *Config) Resolve(flags Flags) {
	if flags.Width > 0 {
		c.Width = flags.Width
	}
	if flags.Height > 0 {
		c.Height = flags.Height
	}
	if flags.Samples > 0 {
		c.SampleCount = flags.Samples
	}
	if flags.Frames > 0 {
		c.Frames = flags.Frames
	}
	if flags.Workers > 0 {
		c.Workers = flags.Workers
	}
	if flags.OutputDir != "" {
		c.OutputDir = flags.OutputDir
	}
	if flags.TextureDir != "" {
		c.TextureDir = flags.TextureDir
	}
	if flags.Quality > 0 {
		c.WebPQuality = flags.Quality
	}

	if c.Width <= 0 {
		c.Width = 1920
	}
	if c.Height <= 0 {
		c.Height = 1280
	}
	if c.SampleCount <= 0 {
		c.SampleCount = 4
	}
	if c.FragmentCount <= 0 {
		c.FragmentCount = 32
	}
	if c.LayerCount <= 0 {
		c.LayerCount = 8
	}
	if c.Frames <= 0 {
		c.Frames = 1
	}
	if c.FrameStep <= 0 {
		c.FrameStep = 1.0 / 30.0
	}
	if c.OutputDir == "" {
		c.OutputDir = "renders"
	}
	if c.WebPQuality <= 0 {
		c.WebPQuality = 90
	}
	if c.Workers <= 0 {
		c.Workers = runtime.NumCPU()
	}
}

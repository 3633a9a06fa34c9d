package config

import (
	"errors"
	"fmt"
	"io"
	"math"
	"os"

	"gopkg.in/yaml.v3"

	"lodterrain/internal/noise"
)

// ErrInvalidConfig marks a configuration rejected by Validate.
var ErrInvalidConfig = errors.New("invalid config")

// Config captures every tunable of the terrain streamer and its hosts.
type Config struct {
	Terrain   TerrainConfig   `yaml:"terrain"`
	Noise     noise.Params    `yaml:"noise"`
	Bands     noise.Bands     `yaml:"bands"`
	Textures  Textures        `yaml:"textures"`
	Streaming StreamingConfig `yaml:"streaming"`
	Window    WindowConfig    `yaml:"window"`
	Debug     bool            `yaml:"debug"`
}

type TerrainConfig struct {
	ChunkSize      float64 `yaml:"chunkSize"`      // edge length of the finest chunk
	Segments       int     `yaml:"segments"`       // grid cells per chunk edge
	MaxDepth       int     `yaml:"maxDepth"`       // quadtree depth; root = chunkSize * 2^maxDepth
	SplitThreshold float64 `yaml:"splitThreshold"` // split while distance < size*threshold
	YOffset        float64 `yaml:"yOffset"`
	TextureScale   float64 `yaml:"textureScale"`
	BalanceLOD     bool    `yaml:"balanceLod"`
	SnapRoot       bool    `yaml:"snapRoot"`
	LookAhead      float64 `yaml:"lookAhead"` // root centre shift along the horizontal forward vector
	DisplaceOnCPU  bool    `yaml:"displaceOnCpu"`
}

// Textures are the three elevation-banded maps. Empty paths fall back to
// flat colours.
type Textures struct {
	LowMap  string `yaml:"lowMap"`
	MidMap  string `yaml:"midMap"`
	HighMap string `yaml:"highMap"`
}

type StreamingConfig struct {
	PoolCapacity       int `yaml:"poolCapacity"`       // released geometry kept for reuse
	MaxGeometryBuffers int `yaml:"maxGeometryBuffers"` // live geometry cap, 0 = unlimited
	StallTicks         int `yaml:"stallTicks"`         // failed acquisitions before a build counts as stuck
}

type WindowConfig struct {
	Width    int    `yaml:"width"`
	Height   int    `yaml:"height"`
	Title    string `yaml:"title"`
	FPSLimit int    `yaml:"fpsLimit"` // 0 = uncapped
	VSync    bool   `yaml:"vsync"`
}

// Default returns the configuration the streamer ships with.
func Default() *Config {
	return &Config{
		Terrain: TerrainConfig{
			ChunkSize:      128,
			Segments:       128,
			MaxDepth:       8,
			SplitThreshold: 3,
			YOffset:        -150,
			TextureScale:   noise.DefaultTextureScale,
			SnapRoot:       true,
		},
		Noise: noise.DefaultParams(),
		Bands: noise.DefaultBands(),
		Streaming: StreamingConfig{
			PoolCapacity: 64,
			StallTicks:   600,
		},
		Window: WindowConfig{
			Width:    1280,
			Height:   720,
			Title:    "LOD Terrain",
			FPSLimit: 144,
			VSync:    true,
		},
	}
}

// RootSize is the edge length of the quadtree root.
func (c *Config) RootSize() float64 {
	return c.Terrain.ChunkSize * math.Pow(2, float64(c.Terrain.MaxDepth))
}

// Load reads a YAML file over the defaults and validates the result. An empty
// path yields the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open config: %w", err)
	}
	defer f.Close()

	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return cfg, nil
}

func invalid(msg string) error {
	return fmt.Errorf("%w: %s", ErrInvalidConfig, msg)
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// Validate reports the first problem found. Noise errors also match
// noise.ErrInvalidParams.
func (c *Config) Validate() error {
	t := c.Terrain
	if !finite(t.ChunkSize) || t.ChunkSize <= 0 {
		return invalid("terrain.chunkSize must be positive")
	}
	if t.Segments < 1 {
		return invalid("terrain.segments must be positive")
	}
	if t.MaxDepth < 0 || t.MaxDepth > 20 {
		return invalid("terrain.maxDepth must be in [0, 20]")
	}
	if !finite(t.SplitThreshold) || t.SplitThreshold <= 0 {
		return invalid("terrain.splitThreshold must be positive")
	}
	if !finite(t.YOffset) {
		return invalid("terrain.yOffset must be finite")
	}
	if !finite(t.TextureScale) || t.TextureScale <= 0 {
		return invalid("terrain.textureScale must be positive")
	}
	if !finite(t.LookAhead) || t.LookAhead < 0 {
		return invalid("terrain.lookAhead cannot be negative")
	}
	if err := c.Noise.Validate(); err != nil {
		return fmt.Errorf("%w: noise: %w", ErrInvalidConfig, err)
	}
	if err := c.Bands.Validate(); err != nil {
		return fmt.Errorf("%w: bands: %w", ErrInvalidConfig, err)
	}
	s := c.Streaming
	if s.PoolCapacity < 0 {
		return invalid("streaming.poolCapacity cannot be negative")
	}
	if s.MaxGeometryBuffers < 0 {
		return invalid("streaming.maxGeometryBuffers cannot be negative")
	}
	if s.StallTicks < 1 {
		return invalid("streaming.stallTicks must be positive")
	}
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		return invalid("window dimensions must be positive")
	}
	if c.Window.FPSLimit < 0 {
		return invalid("window.fpsLimit cannot be negative")
	}
	return nil
}

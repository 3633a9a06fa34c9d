package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lodterrain/internal/noise"
)

func TestValidateDefaultConfig(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, 128.0, cfg.Terrain.ChunkSize)
	assert.Equal(t, -150.0, cfg.Terrain.YOffset)
	assert.Equal(t, 8, cfg.Terrain.MaxDepth)
	assert.Equal(t, 3.0, cfg.Terrain.SplitThreshold)
	assert.Equal(t, 128, cfg.Terrain.Segments)
	assert.Equal(t, 32768.0, cfg.RootSize())
}

func TestValidateDetectsInvalidConfigurations(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(*Config)
		wantErr   string
		wantNoise bool
	}{
		{"zero chunk size", func(c *Config) { c.Terrain.ChunkSize = 0 }, "terrain.chunkSize must be positive", false},
		{"zero segments", func(c *Config) { c.Terrain.Segments = 0 }, "terrain.segments must be positive", false},
		{"negative depth", func(c *Config) { c.Terrain.MaxDepth = -1 }, "terrain.maxDepth must be in", false},
		{"zero threshold", func(c *Config) { c.Terrain.SplitThreshold = 0 }, "terrain.splitThreshold must be positive", false},
		{"zero texture scale", func(c *Config) { c.Terrain.TextureScale = 0 }, "terrain.textureScale must be positive", false},
		{"negative look ahead", func(c *Config) { c.Terrain.LookAhead = -5 }, "terrain.lookAhead cannot be negative", false},
		{"negative pool", func(c *Config) { c.Streaming.PoolCapacity = -1 }, "streaming.poolCapacity cannot be negative", false},
		{"negative buffer cap", func(c *Config) { c.Streaming.MaxGeometryBuffers = -1 }, "streaming.maxGeometryBuffers cannot be negative", false},
		{"zero stall ticks", func(c *Config) { c.Streaming.StallTicks = 0 }, "streaming.stallTicks must be positive", false},
		{"bad window", func(c *Config) { c.Window.Width = 0 }, "window dimensions must be positive", false},
		{"zero max height", func(c *Config) { c.Noise.MaxHeight = 0 }, "maxHeight must be positive", true},
		{"zero octaves", func(c *Config) { c.Noise.Octaves = 0 }, "octaves must be in", true},
		{"inverted band", func(c *Config) { c.Bands.LowMidEnd = 0.05 }, "low→mid band", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
			assert.True(t, errors.Is(err, ErrInvalidConfig))
			assert.Equal(t, tt.wantNoise, errors.Is(err, noise.ErrInvalidParams))
		})
	}
}

func TestLoadEmptyPathReturnsDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "terrain.yaml")
	data := []byte(`
terrain:
  chunkSize: 64
  maxDepth: 3
  snapRoot: true
noise:
  frequency: 0.001
  octaves: 8
  maxHeight: 800
textures:
  lowMap: grass.png
streaming:
  maxGeometryBuffers: 200
`)
	require.NoError(t, os.WriteFile(path, data, 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 64.0, cfg.Terrain.ChunkSize)
	assert.Equal(t, 3, cfg.Terrain.MaxDepth)
	assert.True(t, cfg.Terrain.SnapRoot)
	assert.Equal(t, 3.0, cfg.Terrain.SplitThreshold, "unset fields keep defaults")
	assert.Equal(t, 0.001, cfg.Noise.Frequency)
	assert.Equal(t, 8.0, cfg.Noise.Octaves)
	assert.Equal(t, 5.0, cfg.Noise.Amplitude)
	assert.Equal(t, "grass.png", cfg.Textures.LowMap)
	assert.Equal(t, 200, cfg.Streaming.MaxGeometryBuffers)
}

func TestLoadEmptyFileReturnsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.yaml")
	require.NoError(t, os.WriteFile(path, nil, 0o644))
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("noise:\n  octaves: 12\n"), 0o644))
	_, err := Load(path)
	require.Error(t, err)
	assert.True(t, errors.Is(err, noise.ErrInvalidParams))
	assert.Contains(t, err.Error(), "validate config")
}

func TestLoadRejectsUnknownFields(t *testing.T) {
	path := filepath.Join(t.TempDir(), "typo.yaml")
	require.NoError(t, os.WriteFile(path, []byte("terrain:\n  chunkSise: 64\n"), 0o644))
	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse config")
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestRenderSettingsToggles(t *testing.T) {
	before := GetWireframeMode()
	assert.Equal(t, !before, ToggleWireframeMode())
	assert.Equal(t, before, ToggleWireframeMode())

	frozen := GetFreezeLOD()
	assert.Equal(t, !frozen, ToggleFreezeLOD())
	ToggleFreezeLOD()

	bounds := GetChunkBounds()
	assert.Equal(t, !bounds, ToggleChunkBounds())
	assert.Equal(t, bounds, ToggleChunkBounds())

	old := GetFPSLimit()
	defer SetFPSLimit(old)
	SetFPSLimit(-3)
	assert.Equal(t, 0, GetFPSLimit())
	SetFPSLimit(60)
	assert.Equal(t, 60, GetFPSLimit())
}

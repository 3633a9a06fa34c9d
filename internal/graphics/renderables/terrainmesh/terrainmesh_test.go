package terrainmesh

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"

	"lodterrain/internal/noise"
	"lodterrain/internal/terrain"
)

func TestBoundsCoverFootprintAndHeight(t *testing.T) {
	p := noise.DefaultParams()
	d := terrain.NewDescriptor(mgl64.Vec2{256, -128}, 128, 4, -150, mgl64.Vec2{}, p, terrain.TextureRefs{})
	c := &terrain.Chunk{Key: d.Key, Descriptor: d, Material: terrain.Material{Noise: p}}

	min, max := Bounds(c)
	assert.Equal(t, mgl32.Vec3{192, -150, -192}, min)
	assert.Equal(t, mgl32.Vec3{320, float32(-150 + p.MaxHeight), -64}, max)
}

func TestNewStartsEmpty(t *testing.T) {
	m := New(nil, nil, nil)
	assert.Zero(t, m.Meshes())
	assert.NoError(t, m.Init())
	assert.Zero(t, m.Drawn())
}

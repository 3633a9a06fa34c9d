package graphics

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBakeFontAtlas(t *testing.T) {
	a, err := BakeFontAtlas(nil, 16)
	require.NoError(t, err)
	assert.Equal(t, atlasWidth, a.AtlasW)
	assert.Equal(t, a.AtlasH, nextPow2(a.AtlasH), "atlas height is a power of two")
	assert.Len(t, a.Characters, 95)

	space := a.Characters[' ']
	assert.Zero(t, space.Width)
	assert.Positive(t, space.Advance)

	m := a.Characters['M']
	assert.Positive(t, m.Width)
	assert.Positive(t, m.BearingY, "capital sits above the baseline")
	assert.LessOrEqual(t, int(m.AtlasX+m.Width), a.AtlasW)
	assert.LessOrEqual(t, int(m.AtlasY+m.Height), a.AtlasH)

	_, err = BakeFontAtlas(nil, 0)
	assert.Error(t, err)
	_, err = BakeFontAtlas([]byte("not a font"), 12)
	assert.Error(t, err)
}

func TestFontMeasureAndQuads(t *testing.T) {
	a, err := BakeFontAtlas(nil, 16)
	require.NoError(t, err)

	w1, _ := a.Measure("ab", 1)
	w2, _ := a.Measure("ab", 2)
	assert.InDelta(t, 2*w1, w2, 1e-4)

	// a space emits no quad, each letter emits 6 vertices of 4 floats
	assert.Len(t, a.quads("a b", 0, 0, 1), 2*6*4)
	assert.Empty(t, a.quads("", 0, 0, 1))

	// unknown runes advance like a space
	wu, _ := a.Measure("é", 1)
	ws, _ := a.Measure(" ", 1)
	assert.Equal(t, ws, wu)
}

func TestCameraViewport(t *testing.T) {
	c := NewCamera(1600, 800, 50000)
	assert.Equal(t, float32(2), c.AspectRatio)
	c.SetViewport(0, 0)
	assert.Equal(t, float32(2), c.AspectRatio, "minimised window keeps the ratio")
	c.SetViewport(800, 800)
	assert.Equal(t, float32(1), c.AspectRatio)
}

func TestFrustumCulling(t *testing.T) {
	c := NewCamera(800, 800, 1000)
	view := mgl32.LookAtV(mgl32.Vec3{0, 0, 0}, mgl32.Vec3{0, 0, -1}, mgl32.Vec3{0, 1, 0})
	f := NewFrustum(c.ProjectionMatrix().Mul4(view))

	box := func(x, y, z float32) (mgl32.Vec3, mgl32.Vec3) {
		return mgl32.Vec3{x - 1, y - 1, z - 1}, mgl32.Vec3{x + 1, y + 1, z + 1}
	}
	assert.True(t, f.IntersectsAABB(box(0, 0, -10)))
	assert.False(t, f.IntersectsAABB(box(0, 0, 10)), "behind")
	assert.False(t, f.IntersectsAABB(box(0, 0, -2000)), "past far plane")
	assert.False(t, f.IntersectsAABB(box(100, 0, -10)), "off to the side")

	// a huge box around the camera always intersects
	assert.True(t, f.IntersectsAABB(mgl32.Vec3{-5000, -5000, -5000}, mgl32.Vec3{5000, 5000, 5000}))
}

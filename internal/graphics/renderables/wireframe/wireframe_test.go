package wireframe

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
)

func TestBoxModelMapsUnitCube(t *testing.T) {
	min := mgl32.Vec3{-64, -150, 128}
	max := mgl32.Vec3{64, 250, 256}
	m := BoxModel(min, max)

	assert.True(t, m.Mul4x1(mgl32.Vec4{0, 0, 0, 1}).Vec3().ApproxEqual(min))
	assert.True(t, m.Mul4x1(mgl32.Vec4{1, 1, 1, 1}).Vec3().ApproxEqual(max))
}

func TestLevelColor(t *testing.T) {
	assert.Equal(t, fineColor, LevelColor(128, 128, 1024))
	assert.Equal(t, coarseColor, LevelColor(1024, 128, 1024))
	assert.Equal(t, fineColor, LevelColor(128, 128, 128), "single level")

	mid := LevelColor(256, 128, 512)
	assert.InDelta(t, (fineColor.X()+coarseColor.X())/2, mid.X(), 1e-5)
}

func TestCubeEdgeCount(t *testing.T) {
	assert.Len(t, cubeEdges, 12*2*3)
}

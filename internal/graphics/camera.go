package graphics

import (
	"github.com/go-gl/mathgl/mgl32"
)

// Camera handles the projection matrix. Terrain is seen from kilometres
// away so the far plane is much deeper than a walking-scale scene.
type Camera struct {
	AspectRatio float32
	FOV         float32
	NearPlane   float32
	FarPlane    float32
}

func NewCamera(width, height int, farPlane float32) *Camera {
	c := &Camera{
		FOV:       60.0,
		NearPlane: 1.0,
		FarPlane:  farPlane,
	}
	c.SetViewport(width, height)
	return c
}

// SetViewport updates the aspect ratio. A minimised window reports zero
// height; the previous ratio is kept then.
func (c *Camera) SetViewport(width, height int) {
	if width <= 0 || height <= 0 {
		if c.AspectRatio == 0 {
			c.AspectRatio = 1
		}
		return
	}
	c.AspectRatio = float32(width) / float32(height)
}

func (c *Camera) ProjectionMatrix() mgl32.Mat4 {
	return mgl32.Perspective(mgl32.DegToRad(c.FOV), c.AspectRatio, c.NearPlane, c.FarPlane)
}

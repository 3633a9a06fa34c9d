// Package camera implements the free-flying viewer that drives terrain
// streaming.
package camera

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/go-gl/mathgl/mgl64"

	"lodterrain/internal/terrain"
)

const (
	MouseSensitivity = 0.1
	BaseSpeed        = 60.0 // units per second
	BoostMultiplier  = 8.0
	MaxPitch         = 89.0
)

// Movement is the set of movement keys held this frame.
type Movement struct {
	Forward, Backward bool
	Left, Right       bool
	Up, Down          bool
	Boost             bool
}

// FlyCamera has no collision or gravity; yaw and pitch are in degrees.
type FlyCamera struct {
	Position mgl64.Vec3
	Yaw      float64
	Pitch    float64
	Speed    float64

	lastMouseX, lastMouseY float64
	firstMouse             bool
}

// New places the camera at pos looking along -Z.
func New(pos mgl64.Vec3) *FlyCamera {
	return &FlyCamera{
		Position:   pos,
		Yaw:        -90,
		Speed:      BaseSpeed,
		firstMouse: true,
	}
}

// HandleMouseMovement turns the camera by the cursor delta since the last call.
func (c *FlyCamera) HandleMouseMovement(xpos, ypos float64) {
	if c.firstMouse {
		c.lastMouseX, c.lastMouseY = xpos, ypos
		c.firstMouse = false
		return
	}
	xoffset := (xpos - c.lastMouseX) * MouseSensitivity
	yoffset := (c.lastMouseY - ypos) * MouseSensitivity
	c.lastMouseX, c.lastMouseY = xpos, ypos

	c.Yaw += xoffset
	c.Pitch = math.Max(-MaxPitch, math.Min(MaxPitch, c.Pitch+yoffset))
}

// ResetMouse makes the next cursor event a reference point only, so
// recapturing the cursor does not jerk the view.
func (c *FlyCamera) ResetMouse() {
	c.firstMouse = true
}

// Front returns the unit view direction.
func (c *FlyCamera) Front() mgl64.Vec3 {
	y := mgl64.DegToRad(c.Yaw)
	p := mgl64.DegToRad(c.Pitch)
	return mgl64.Vec3{
		math.Cos(y) * math.Cos(p),
		math.Sin(p),
		math.Sin(y) * math.Cos(p),
	}.Normalize()
}

// Update moves the camera for dt seconds. Forward motion follows the view
// direction including pitch.
func (c *FlyCamera) Update(dt float64, m Movement) {
	front := c.Front()
	right := front.Cross(mgl64.Vec3{0, 1, 0}).Normalize()
	up := mgl64.Vec3{0, 1, 0}

	var dir mgl64.Vec3
	if m.Forward {
		dir = dir.Add(front)
	}
	if m.Backward {
		dir = dir.Sub(front)
	}
	if m.Right {
		dir = dir.Add(right)
	}
	if m.Left {
		dir = dir.Sub(right)
	}
	if m.Up {
		dir = dir.Add(up)
	}
	if m.Down {
		dir = dir.Sub(up)
	}
	if dir.Len() < 1e-9 {
		return
	}
	speed := c.Speed
	if m.Boost {
		speed *= BoostMultiplier
	}
	c.Position = c.Position.Add(dir.Normalize().Mul(speed * dt))
}

// Eye returns the position at render precision.
func (c *FlyCamera) Eye() mgl32.Vec3 {
	return mgl32.Vec3{float32(c.Position.X()), float32(c.Position.Y()), float32(c.Position.Z())}
}

// ViewMatrix returns the look-at matrix.
func (c *FlyCamera) ViewMatrix() mgl32.Mat4 {
	eye := c.Eye()
	f := c.Front()
	front := mgl32.Vec3{float32(f.X()), float32(f.Y()), float32(f.Z())}
	return mgl32.LookAtV(eye, eye.Add(front), mgl32.Vec3{0, 1, 0})
}

// Viewer is the camera state consumed by the terrain streamer.
func (c *FlyCamera) Viewer() terrain.Viewer {
	return terrain.Viewer{Position: c.Position, Forward: c.Front()}
}

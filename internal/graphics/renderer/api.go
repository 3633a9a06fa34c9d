package renderer

import (
	"github.com/go-gl/mathgl/mgl32"

	"lodterrain/internal/graphics"
	"lodterrain/internal/terrain"
)

// Status is the streaming state shown by overlays.
type Status struct {
	Loading       bool
	Progress      float64
	MaterialReady bool
	Stalled       bool
	Chunks        int
	Pending       int
	Rebuilds      int
	FrozenLOD     bool
}

// RenderContext provides shared context for all renderables
type RenderContext struct {
	Camera *graphics.Camera
	Eye    mgl32.Vec3
	DT     float64
	View   mgl32.Mat4
	Proj   mgl32.Mat4
	Chunks []*terrain.Chunk
	Status Status
}

// Renderable interface defines the lifecycle for renderable features
type Renderable interface {
	Init() error
	Render(ctx RenderContext)
	Dispose()
	SetViewport(width, height int)
}

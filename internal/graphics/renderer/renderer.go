package renderer

import (
	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"

	"lodterrain/internal/graphics"
	"lodterrain/internal/profiling"
)

// Renderer orchestrates rendering via renderable features
type Renderer struct {
	renderables []Renderable
	camera      *graphics.Camera
	prof        *profiling.Profiler
}

// NewRenderer configures GL state and initialises every renderable in order.
func NewRenderer(camera *graphics.Camera, prof *profiling.Profiler, rs ...Renderable) (*Renderer, error) {
	gl.Enable(gl.DEPTH_TEST)
	gl.Enable(gl.CULL_FACE)
	gl.CullFace(gl.BACK)
	gl.FrontFace(gl.CCW)

	r := &Renderer{
		renderables: rs,
		camera:      camera,
		prof:        prof,
	}
	for i, rd := range rs {
		if err := rd.Init(); err != nil {
			for j := i - 1; j >= 0; j-- {
				rs[j].Dispose()
			}
			return nil, err
		}
	}
	return r, nil
}

// Render clears the frame and draws every feature with a shared context.
func (r *Renderer) Render(ctx RenderContext) {
	defer r.prof.Track("renderer.Render")()

	gl.ClearColor(0.53, 0.81, 0.92, 1.0)
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)

	ctx.Camera = r.camera
	ctx.Proj = r.camera.ProjectionMatrix()

	for _, renderable := range r.renderables {
		renderable.Render(ctx)
	}
}

// ViewMatrix builds a look-at view for an eye and a forward direction.
func ViewMatrix(eye, forward mgl32.Vec3) mgl32.Mat4 {
	return mgl32.LookAtV(eye, eye.Add(forward), mgl32.Vec3{0, 1, 0})
}

// Dispose cleans up all renderables in reverse order
func (r *Renderer) Dispose() {
	for i := len(r.renderables) - 1; i >= 0; i-- {
		r.renderables[i].Dispose()
	}
}

func (r *Renderer) Camera() *graphics.Camera {
	return r.camera
}

// UpdateViewport resizes the GL viewport, camera and every renderable.
func (r *Renderer) UpdateViewport(width, height int) {
	gl.Viewport(0, 0, int32(width), int32(height))
	r.camera.SetViewport(width, height)
	for _, rd := range r.renderables {
		rd.SetViewport(width, height)
	}
}

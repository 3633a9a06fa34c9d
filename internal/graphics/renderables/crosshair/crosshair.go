package crosshair

import (
	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"

	"lodterrain/internal/graphics"
	"lodterrain/internal/graphics/renderer"
	"lodterrain/internal/graphics/shaders"
	"lodterrain/internal/profiling"
)

// Vertices are two line segments in NDC, before aspect correction.
var Vertices = []float32{
	-0.02, 0.0,
	0.02, 0.0,
	0.0, -0.02,
	0.0, 0.02,
}

// Crosshair marks the view centre while the camera is flying.
type Crosshair struct {
	Color   mgl32.Vec3
	Visible func() bool

	shader *graphics.Shader
	vao    uint32
	vbo    uint32
	prof   *profiling.Profiler
}

// NewCrosshair creates the renderable. visible may be nil to always draw.
func NewCrosshair(prof *profiling.Profiler, visible func() bool) *Crosshair {
	return &Crosshair{
		Color:   mgl32.Vec3{1, 1, 1},
		Visible: visible,
		prof:    prof,
	}
}

func (c *Crosshair) Init() error {
	var err error
	c.shader, err = graphics.LoadShader(shaders.FS, shaders.CrossVert, shaders.CrossFrag)
	if err != nil {
		return err
	}
	c.setupVAO()
	return nil
}

func (c *Crosshair) Render(ctx renderer.RenderContext) {
	if c.Visible != nil && !c.Visible() {
		return
	}
	defer c.prof.Track("renderer.crosshair")()

	c.shader.Use()
	c.shader.SetFloat("uAspect", ctx.Camera.AspectRatio)
	c.shader.SetVector3("uColor", c.Color.X(), c.Color.Y(), c.Color.Z())

	gl.Disable(gl.DEPTH_TEST)
	gl.BindVertexArray(c.vao)
	gl.LineWidth(1.0)
	gl.DrawArrays(gl.LINES, 0, int32(len(Vertices)/2))
	gl.BindVertexArray(0)
	gl.Enable(gl.DEPTH_TEST)
}

func (c *Crosshair) SetViewport(width, height int) {}

func (c *Crosshair) Dispose() {
	if c.vao != 0 {
		gl.DeleteVertexArrays(1, &c.vao)
		c.vao = 0
	}
	if c.vbo != 0 {
		gl.DeleteBuffers(1, &c.vbo)
		c.vbo = 0
	}
	if c.shader != nil {
		c.shader.Delete()
	}
}

func (c *Crosshair) setupVAO() {
	gl.GenVertexArrays(1, &c.vao)
	gl.BindVertexArray(c.vao)

	gl.GenBuffers(1, &c.vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, c.vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(Vertices)*4, gl.Ptr(Vertices), gl.STATIC_DRAW)

	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointerWithOffset(0, 2, gl.FLOAT, false, 2*4, 0)
	gl.BindVertexArray(0)
}

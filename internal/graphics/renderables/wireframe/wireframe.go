package wireframe

import (
	"math"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"

	"lodterrain/internal/graphics"
	"lodterrain/internal/graphics/renderables/terrainmesh"
	"lodterrain/internal/graphics/renderer"
	"lodterrain/internal/graphics/shaders"
	"lodterrain/internal/profiling"
	"lodterrain/internal/terrain"
)

var (
	fineColor   = mgl32.Vec3{1.0, 0.45, 0.2}
	coarseColor = mgl32.Vec3{0.25, 0.55, 1.0}
)

// unit cube edges from (0,0,0) to (1,1,1)
var cubeEdges = []float32{
	0, 0, 0, 1, 0, 0,
	1, 0, 0, 1, 0, 1,
	1, 0, 1, 0, 0, 1,
	0, 0, 1, 0, 0, 0,

	0, 1, 0, 1, 1, 0,
	1, 1, 0, 1, 1, 1,
	1, 1, 1, 0, 1, 1,
	0, 1, 1, 0, 1, 0,

	0, 0, 0, 0, 1, 0,
	1, 0, 0, 1, 1, 0,
	1, 0, 1, 1, 1, 1,
	0, 0, 1, 0, 1, 1,
}

// Wireframe outlines the bounding box of every published chunk.
type Wireframe struct {
	Enabled func() bool

	shader *graphics.Shader
	vao    uint32
	vbo    uint32
	prof   *profiling.Profiler
}

// NewWireframe creates the overlay. enabled is polled every frame.
func NewWireframe(prof *profiling.Profiler, enabled func() bool) *Wireframe {
	return &Wireframe{Enabled: enabled, prof: prof}
}

func (w *Wireframe) Init() error {
	var err error
	w.shader, err = graphics.LoadShader(shaders.FS, shaders.WireVert, shaders.WireFrag)
	if err != nil {
		return err
	}
	w.setupVAO()
	return nil
}

func (w *Wireframe) Render(ctx renderer.RenderContext) {
	if w.Enabled == nil || !w.Enabled() || len(ctx.Chunks) == 0 {
		return
	}
	defer w.prof.Track("renderer.bounds")()

	w.shader.Use()
	w.shader.SetMatrix4("uProj", &ctx.Proj[0])
	w.shader.SetMatrix4("uView", &ctx.View[0])

	lo, hi := sizeRange(ctx.Chunks)
	gl.BindVertexArray(w.vao)
	gl.LineWidth(1.0)
	for _, c := range ctx.Chunks {
		min, max := terrainmesh.Bounds(c)
		model := BoxModel(min, max)
		col := LevelColor(c.Descriptor.Size, lo, hi)
		w.shader.SetMatrix4("uModel", &model[0])
		w.shader.SetVector3("uColor", col.X(), col.Y(), col.Z())
		gl.DrawArrays(gl.LINES, 0, int32(len(cubeEdges)/3))
	}
	gl.BindVertexArray(0)
}

func (w *Wireframe) SetViewport(width, height int) {}

func (w *Wireframe) Dispose() {
	if w.vao != 0 {
		gl.DeleteVertexArrays(1, &w.vao)
		w.vao = 0
	}
	if w.vbo != 0 {
		gl.DeleteBuffers(1, &w.vbo)
		w.vbo = 0
	}
	if w.shader != nil {
		w.shader.Delete()
	}
}

func (w *Wireframe) setupVAO() {
	gl.GenVertexArrays(1, &w.vao)
	gl.BindVertexArray(w.vao)

	gl.GenBuffers(1, &w.vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, w.vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(cubeEdges)*4, gl.Ptr(cubeEdges), gl.STATIC_DRAW)

	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointerWithOffset(0, 3, gl.FLOAT, false, 3*4, 0)
	gl.BindVertexArray(0)
}

// BoxModel maps the unit cube onto the box [min, max].
func BoxModel(min, max mgl32.Vec3) mgl32.Mat4 {
	size := max.Sub(min)
	return mgl32.Translate3D(min.X(), min.Y(), min.Z()).Mul4(mgl32.Scale3D(size.X(), size.Y(), size.Z()))
}

// LevelColor shades a chunk by its size on a log scale between the
// smallest and largest sizes in view.
func LevelColor(size, smallest, largest float64) mgl32.Vec3 {
	t := 0.0
	if largest > smallest {
		t = math.Log2(size/smallest) / math.Log2(largest/smallest)
	}
	t = math.Max(0, math.Min(1, t))
	return fineColor.Mul(float32(1 - t)).Add(coarseColor.Mul(float32(t)))
}

func sizeRange(chunks []*terrain.Chunk) (lo, hi float64) {
	lo, hi = math.Inf(1), 0
	for _, c := range chunks {
		lo = math.Min(lo, c.Descriptor.Size)
		hi = math.Max(hi, c.Descriptor.Size)
	}
	return lo, hi
}

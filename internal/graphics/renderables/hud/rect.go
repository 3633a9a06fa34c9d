package hud

import (
	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"

	"lodterrain/internal/graphics"
	"lodterrain/internal/graphics/shaders"
)

// Rect is a screen-space rectangle in pixels, origin top-left.
type Rect struct {
	X, Y, W, H float32
}

// NDC converts r into two triangles in normalised device coordinates.
func (r Rect) NDC(width, height float32) [12]float32 {
	x0 := (r.X/width)*2 - 1
	y0 := 1 - (r.Y/height)*2
	x1 := ((r.X+r.W)/width)*2 - 1
	y1 := 1 - ((r.Y+r.H)/height)*2
	return [12]float32{
		x0, y0,
		x1, y0,
		x1, y1,
		x0, y0,
		x1, y1,
		x0, y1,
	}
}

type rectRenderer struct {
	shader        *graphics.Shader
	vao, vbo      uint32
	width, height float32
}

func newRectRenderer(width, height int) (*rectRenderer, error) {
	shader, err := graphics.LoadShader(shaders.FS, shaders.RectVert, shaders.RectFrag)
	if err != nil {
		return nil, err
	}
	r := &rectRenderer{shader: shader}
	r.SetViewport(width, height)

	gl.GenVertexArrays(1, &r.vao)
	gl.GenBuffers(1, &r.vbo)
	gl.BindVertexArray(r.vao)
	gl.BindBuffer(gl.ARRAY_BUFFER, r.vbo)
	gl.BufferData(gl.ARRAY_BUFFER, 12*4, nil, gl.DYNAMIC_DRAW)
	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointer(0, 2, gl.FLOAT, false, 2*4, gl.PtrOffset(0))
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
	gl.BindVertexArray(0)
	return r, nil
}

func (r *rectRenderer) SetViewport(width, height int) {
	r.width, r.height = float32(max(width, 1)), float32(max(height, 1))
}

// Draw fills rect with color at the given opacity.
func (r *rectRenderer) Draw(rect Rect, color mgl32.Vec3, alpha float32) {
	verts := rect.NDC(r.width, r.height)

	gl.Disable(gl.DEPTH_TEST)
	gl.Disable(gl.CULL_FACE)
	gl.Enable(gl.BLEND)
	gl.BlendFunc(gl.SRC_ALPHA, gl.ONE_MINUS_SRC_ALPHA)

	r.shader.Use()
	r.shader.SetVector4("uColor", color.Vec4(alpha))

	gl.BindVertexArray(r.vao)
	gl.BindBuffer(gl.ARRAY_BUFFER, r.vbo)
	gl.BufferSubData(gl.ARRAY_BUFFER, 0, len(verts)*4, gl.Ptr(&verts[0]))
	gl.DrawArrays(gl.TRIANGLES, 0, 6)

	gl.Disable(gl.BLEND)
	gl.Enable(gl.DEPTH_TEST)
	gl.Enable(gl.CULL_FACE)
}

func (r *rectRenderer) Dispose() {
	gl.DeleteVertexArrays(1, &r.vao)
	gl.DeleteBuffers(1, &r.vbo)
	r.shader.Delete()
}

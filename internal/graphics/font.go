package graphics

import (
	"errors"
	"fmt"
	"image"
	"image/draw"
	"math"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"

	"lodterrain/internal/graphics/shaders"
)

// FontCharacter describes a single character's placement and metrics within the atlas
type FontCharacter struct {
	// Pixel coordinates of the glyph in the atlas texture (top-left origin)
	AtlasX float32
	AtlasY float32
	Width  float32
	Height float32
	// Bearing (offset from baseline) in pixels
	BearingX float32
	BearingY float32
	Advance  int
}

// FontAtlas is a baked glyph sheet. TextureID is zero until Upload.
type FontAtlas struct {
	TextureID  uint32
	AtlasW     int
	AtlasH     int
	Image      *image.Alpha
	Characters map[rune]FontCharacter
}

const atlasWidth = 512

// BakeFontAtlas rasterises printable ASCII from a TrueType/OpenType font.
// A nil ttf uses Go Regular.
func BakeFontAtlas(ttf []byte, fontPixels int) (*FontAtlas, error) {
	if fontPixels <= 0 {
		return nil, errors.New("font size must be positive")
	}
	if ttf == nil {
		ttf = goregular.TTF
	}
	f, err := opentype.Parse(ttf)
	if err != nil {
		return nil, fmt.Errorf("parse font: %w", err)
	}
	face, err := opentype.NewFace(f, &opentype.FaceOptions{Size: float64(fontPixels), DPI: 72, Hinting: font.HintingFull})
	if err != nil {
		return nil, fmt.Errorf("new face: %w", err)
	}
	defer func() { _ = face.Close() }()

	const padding = 1
	type glyph struct {
		r       rune
		dr      image.Rectangle
		mask    image.Image
		maskp   image.Point
		advance fixed.Int26_6
	}
	var glyphs []glyph
	for r := rune(32); r <= 126; r++ {
		dr, mask, maskp, advance, ok := face.Glyph(fixed.P(0, 0), r)
		if !ok {
			continue
		}
		glyphs = append(glyphs, glyph{r, dr, mask, maskp, advance})
	}

	// first pass: row-pack to find the height
	x, y, rowH := 0, 0, 0
	for _, g := range glyphs {
		w, h := g.dr.Dx(), g.dr.Dy()
		if x+w+padding > atlasWidth {
			x, y, rowH = 0, y+rowH+padding, 0
		}
		x += w + padding
		rowH = max(rowH, h)
	}
	atlasH := nextPow2(y + rowH + padding)

	img := image.NewAlpha(image.Rect(0, 0, atlasWidth, atlasH))
	chars := make(map[rune]FontCharacter, len(glyphs))

	x, y, rowH = 0, 0, 0
	for _, g := range glyphs {
		w, h := g.dr.Dx(), g.dr.Dy()
		fc := FontCharacter{
			BearingX: float32(g.dr.Min.X),
			BearingY: float32(-g.dr.Min.Y),
			Advance:  int(math.Round(float64(g.advance) / 64.0)),
		}
		if w > 0 && h > 0 {
			if x+w+padding > atlasWidth {
				x, y, rowH = 0, y+rowH+padding, 0
			}
			draw.Draw(img, image.Rect(x, y, x+w, y+h), g.mask, g.maskp, draw.Src)
			fc.AtlasX, fc.AtlasY = float32(x), float32(y)
			fc.Width, fc.Height = float32(w), float32(h)
			x += w + padding
			rowH = max(rowH, h)
		}
		chars[g.r] = fc
	}

	return &FontAtlas{AtlasW: atlasWidth, AtlasH: atlasH, Image: img, Characters: chars}, nil
}

func nextPow2(n int) int {
	p := 1
	for p < n {
		p <<= 1
	}
	return p
}

// Upload sends the atlas to the GPU as a single red channel.
func (a *FontAtlas) Upload() {
	gl.GenTextures(1, &a.TextureID)
	gl.ActiveTexture(gl.TEXTURE0)
	gl.BindTexture(gl.TEXTURE_2D, a.TextureID)
	gl.PixelStorei(gl.UNPACK_ALIGNMENT, 1)
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RED, int32(a.AtlasW), int32(a.AtlasH), 0, gl.RED, gl.UNSIGNED_BYTE, gl.Ptr(a.Image.Pix))
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.LINEAR)
	gl.PixelStorei(gl.UNPACK_ALIGNMENT, 4)
}

// FontRenderer renders ASCII text strings using a prebuilt atlas
type FontRenderer struct {
	atlas      *FontAtlas
	shader     *Shader
	projection mgl32.Mat4
	vao        uint32
	vbo        uint32
}

// NewFontRenderer uploads the atlas if needed and compiles the text shader.
func NewFontRenderer(atlas *FontAtlas, width, height int) (*FontRenderer, error) {
	if atlas == nil || len(atlas.Characters) == 0 {
		return nil, errors.New("invalid font atlas")
	}
	if atlas.TextureID == 0 {
		atlas.Upload()
	}
	shader, err := LoadShader(shaders.FS, shaders.TextVert, shaders.TextFrag)
	if err != nil {
		return nil, err
	}
	fr := &FontRenderer{atlas: atlas, shader: shader}
	fr.SetViewport(width, height)

	gl.GenVertexArrays(1, &fr.vao)
	gl.GenBuffers(1, &fr.vbo)
	gl.BindVertexArray(fr.vao)
	gl.BindBuffer(gl.ARRAY_BUFFER, fr.vbo)
	gl.BufferData(gl.ARRAY_BUFFER, 256*6*4*4, nil, gl.DYNAMIC_DRAW)
	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointer(0, 4, gl.FLOAT, false, 4*4, gl.PtrOffset(0))
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
	gl.BindVertexArray(0)
	return fr, nil
}

// SetViewport sets the pixel-space projection, origin top-left.
func (fr *FontRenderer) SetViewport(width, height int) {
	fr.projection = mgl32.Ortho(0, float32(width), float32(height), 0, 0, 1)
}

// Render draws text with its baseline at (x, y) in pixels.
func (fr *FontRenderer) Render(text string, x, y, scale float32, color mgl32.Vec3) {
	fr.RenderLines([]string{text}, x, y, 0, scale, color)
}

// RenderLines draws several lines in one draw call, each lineStep pixels
// below the previous.
func (fr *FontRenderer) RenderLines(lines []string, x, yStart, lineStep, scale float32, color mgl32.Vec3) {
	var vertices []float32
	y := yStart
	for _, line := range lines {
		vertices = append(vertices, fr.buildVertices(line, x, y, scale)...)
		y += lineStep
	}
	if len(vertices) == 0 {
		return
	}

	gl.Disable(gl.DEPTH_TEST)
	gl.Disable(gl.CULL_FACE)
	gl.Enable(gl.BLEND)
	gl.BlendFunc(gl.SRC_ALPHA, gl.ONE_MINUS_SRC_ALPHA)

	fr.shader.Use()
	fr.shader.SetVector3("textColor", color.X(), color.Y(), color.Z())
	fr.shader.SetMatrix4("projection", &fr.projection[0])
	fr.shader.SetInt("text", 0)

	gl.ActiveTexture(gl.TEXTURE0)
	gl.BindTexture(gl.TEXTURE_2D, fr.atlas.TextureID)
	gl.BindVertexArray(fr.vao)
	gl.BindBuffer(gl.ARRAY_BUFFER, fr.vbo)

	// orphan then fill
	size := len(vertices) * 4
	gl.BufferData(gl.ARRAY_BUFFER, size, nil, gl.DYNAMIC_DRAW)
	gl.BufferSubData(gl.ARRAY_BUFFER, 0, size, gl.Ptr(vertices))
	gl.DrawArrays(gl.TRIANGLES, 0, int32(len(vertices)/4))

	gl.Disable(gl.BLEND)
	gl.Enable(gl.DEPTH_TEST)
	gl.Enable(gl.CULL_FACE)
}

// Dispose frees GL objects.
func (fr *FontRenderer) Dispose() {
	gl.DeleteVertexArrays(1, &fr.vao)
	gl.DeleteBuffers(1, &fr.vbo)
	gl.DeleteTextures(1, &fr.atlas.TextureID)
	fr.shader.Delete()
}

// Measure returns the width and height in pixels text occupies at scale.
func (a *FontAtlas) Measure(text string, scale float32) (float32, float32) {
	var width, maxH float32
	for _, r := range text {
		fc, ok := a.Characters[r]
		if !ok {
			fc = a.Characters[' ']
		}
		width += float32(fc.Advance) * scale
		maxH = max(maxH, fc.Height*scale)
	}
	return width, maxH
}

// Measure is FontAtlas.Measure for the renderer's atlas.
func (fr *FontRenderer) Measure(text string, scale float32) (float32, float32) {
	return fr.atlas.Measure(text, scale)
}

func (fr *FontRenderer) buildVertices(text string, x, y, scale float32) []float32 {
	return fr.atlas.quads(text, x, y, scale)
}

// quads emits two triangles per visible glyph as (x, y, u, v) vertices.
func (a *FontAtlas) quads(text string, x, y, scale float32) []float32 {
	vertices := make([]float32, 0, len(text)*6*4)
	aw, ah := float32(a.AtlasW), float32(a.AtlasH)
	for _, r := range text {
		fc, ok := a.Characters[r]
		if !ok {
			x += float32(a.Characters[' '].Advance) * scale
			continue
		}
		if fc.Width > 0 {
			xPos := x + fc.BearingX*scale
			yPos := y - fc.BearingY*scale
			w := fc.Width * scale
			h := fc.Height * scale
			u0, v0 := fc.AtlasX/aw, fc.AtlasY/ah
			u1, v1 := (fc.AtlasX+fc.Width)/aw, (fc.AtlasY+fc.Height)/ah
			vertices = append(vertices,
				xPos, yPos+h, u0, v1,
				xPos, yPos, u0, v0,
				xPos+w, yPos, u1, v0,
				xPos, yPos+h, u0, v1,
				xPos+w, yPos, u1, v0,
				xPos+w, yPos+h, u1, v1,
			)
		}
		x += float32(fc.Advance) * scale
	}
	return vertices
}

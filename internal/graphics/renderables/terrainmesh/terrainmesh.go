// Package terrainmesh draws streamed terrain chunks and owns their GPU
// buffers. It is the GPU side of terrain.Builder.
package terrainmesh

import (
	"fmt"
	"image/color"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/google/uuid"

	"lodterrain/internal/assets"
	"lodterrain/internal/config"
	"lodterrain/internal/graphics"
	"lodterrain/internal/graphics/renderer"
	"lodterrain/internal/graphics/shaders"
	"lodterrain/internal/logging"
	"lodterrain/internal/profiling"
	"lodterrain/internal/terrain"
)

const roughness = 0.8

type mesh struct {
	vao        uint32
	buffers    [4]uint32 // positions, normals, uvs, indices
	indexCount int32
	textures   [3]uint32
	displaced  bool
}

// TerrainMesh implements terrain.GPU and renderer.Renderable.
type TerrainMesh struct {
	textures *graphics.TextureCache
	log      logging.Logger
	prof     *profiling.Profiler

	shader    *graphics.Shader
	shaderErr error
	meshes    map[uuid.UUID]*mesh
	lightDir  mgl32.Vec3

	drawn, culled int
}

var (
	_ terrain.GPU         = (*TerrainMesh)(nil)
	_ renderer.Renderable = (*TerrainMesh)(nil)
)

func New(textures *graphics.TextureCache, log logging.Logger, prof *profiling.Profiler) *TerrainMesh {
	return &TerrainMesh{
		textures: textures,
		log:      logging.OrNop(log),
		prof:     prof,
		meshes:   make(map[uuid.UUID]*mesh),
		lightDir: mgl32.Vec3{0.4, 1.0, 0.3}.Normalize(),
	}
}

// Init is a no-op; the program is compiled by the first upload.
func (t *TerrainMesh) Init() error { return nil }

func (t *TerrainMesh) ensureShader() error {
	if t.shader != nil {
		return nil
	}
	if t.shaderErr != nil {
		return t.shaderErr
	}
	defer t.prof.Track("terrainmesh.compile")()
	vert, frag, err := shaders.Terrain()
	if err == nil {
		t.shader, err = graphics.NewShader(vert, frag)
	}
	if err != nil {
		// cached so every later upload fails the same way
		t.shaderErr = fmt.Errorf("terrain material: %w", err)
		t.log.Errorf("%v", t.shaderErr)
		return t.shaderErr
	}
	t.shader.Use()
	t.shader.SetInt("lowMap", 0)
	t.shader.SetInt("midMap", 1)
	t.shader.SetInt("highMap", 2)
	t.log.Debugf("terrainmesh: material compiled")
	return nil
}

// Upload creates the chunk's vertex buffers and binds its textures.
func (t *TerrainMesh) Upload(c *terrain.Chunk, ready func()) error {
	if err := t.ensureShader(); err != nil {
		return err
	}
	ready()

	var texs [3]uint32
	refs := [3]string{c.Textures.Low, c.Textures.Mid, c.Textures.High}
	fallbacks := [3]color.RGBA{assets.LowColor, assets.MidColor, assets.HighColor}
	for i := range refs {
		tex, err := t.textures.Get(refs[i], fallbacks[i])
		if err != nil {
			return err
		}
		texs[i] = tex
	}

	g := c.Geometry
	m := &mesh{indexCount: int32(g.IndexCount()), textures: texs, displaced: g.Displaced}
	gl.GenVertexArrays(1, &m.vao)
	gl.GenBuffers(4, &m.buffers[0])
	gl.BindVertexArray(m.vao)

	attrib := func(loc uint32, buf uint32, data []float32, comps int32) {
		gl.BindBuffer(gl.ARRAY_BUFFER, buf)
		gl.BufferData(gl.ARRAY_BUFFER, len(data)*4, gl.Ptr(data), gl.STATIC_DRAW)
		gl.EnableVertexAttribArray(loc)
		gl.VertexAttribPointerWithOffset(loc, comps, gl.FLOAT, false, comps*4, 0)
	}
	attrib(0, m.buffers[0], g.Positions, 3)
	attrib(1, m.buffers[1], g.Normals, 3)
	attrib(2, m.buffers[2], g.UVs, 2)

	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, m.buffers[3])
	gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(g.Indices)*4, gl.Ptr(g.Indices), gl.STATIC_DRAW)
	gl.BindVertexArray(0)

	t.meshes[c.ID] = m
	return nil
}

// Release frees the chunk's buffers. Textures stay cached.
func (t *TerrainMesh) Release(c *terrain.Chunk) {
	m, ok := t.meshes[c.ID]
	if !ok {
		return
	}
	gl.DeleteVertexArrays(1, &m.vao)
	gl.DeleteBuffers(4, &m.buffers[0])
	delete(t.meshes, c.ID)
}

// Bounds returns a conservative world-space box around a chunk: its square
// footprint from the base plane up to the maximum terrain height.
func Bounds(c *terrain.Chunk) (mgl32.Vec3, mgl32.Vec3) {
	p := c.Descriptor.Position
	half := c.Descriptor.Size / 2
	top := p.Y() + c.Material.Noise.MaxHeight
	min := mgl32.Vec3{float32(p.X() - half), float32(p.Y()), float32(p.Z() - half)}
	max := mgl32.Vec3{float32(p.X() + half), float32(top), float32(p.Z() + half)}
	return min, max
}

func (t *TerrainMesh) Render(ctx renderer.RenderContext) {
	t.drawn, t.culled = 0, 0
	if t.shader == nil || len(ctx.Chunks) == 0 {
		return
	}
	defer t.prof.Track("renderer.terrain")()

	if config.GetWireframeMode() {
		gl.PolygonMode(gl.FRONT_AND_BACK, gl.LINE)
		defer gl.PolygonMode(gl.FRONT_AND_BACK, gl.FILL)
	}

	s := t.shader
	s.Use()
	s.SetMatrix4("uView", &ctx.View[0])
	s.SetMatrix4("uProj", &ctx.Proj[0])
	s.SetVector3("uLightDir", t.lightDir.X(), t.lightDir.Y(), t.lightDir.Z())
	s.SetFloat("uRoughness", roughness)

	frustum := graphics.NewFrustum(ctx.Proj.Mul4(ctx.View))
	for _, c := range ctx.Chunks {
		m, ok := t.meshes[c.ID]
		if !ok {
			continue
		}
		if !frustum.IntersectsAABB(Bounds(c)) {
			t.culled++
			continue
		}
		t.setMaterial(c, m.displaced)
		for i, tex := range m.textures {
			gl.ActiveTexture(gl.TEXTURE0 + uint32(i))
			gl.BindTexture(gl.TEXTURE_2D, tex)
		}
		gl.BindVertexArray(m.vao)
		gl.DrawElementsWithOffset(gl.TRIANGLES, m.indexCount, gl.UNSIGNED_INT, 0)
		t.drawn++
	}
	gl.BindVertexArray(0)
	gl.ActiveTexture(gl.TEXTURE0)
}

func (t *TerrainMesh) setMaterial(c *terrain.Chunk, displaced bool) {
	s := t.shader
	mat := c.Material
	n := mat.Noise
	model := c.Model()
	s.SetMatrix4("uModel", &model[0])
	s.SetFloat("uMaxHeight", float32(n.MaxHeight))
	s.SetFloat("uFrequency", float32(n.Frequency))
	s.SetFloat("uAmplitude", float32(n.Amplitude))
	s.SetFloat("uOctaves", float32(n.Octaves))
	s.SetFloat("uLacunarity", float32(n.Lacunarity))
	s.SetFloat("uPersistence", float32(n.Persistence))
	s.SetFloat("uExponentiation", float32(n.Exponentiation))
	s.SetVector2("uWorldOffset", float32(mat.WorldOffset.X()), float32(mat.WorldOffset.Y()))
	s.SetVector2("uWorldOrigin", float32(mat.WorldOrigin.X()), float32(mat.WorldOrigin.Y()))
	s.SetFloat("uTextureScale", float32(mat.TextureScale))
	b := mat.Bands
	s.SetVector4("uBands", mgl32.Vec4{float32(b.LowMidStart), float32(b.LowMidEnd), float32(b.MidHighStart), float32(b.MidHighEnd)})
	s.SetBool("uDisplaced", displaced)
}

// Drawn and Culled count chunks in the last frame.
func (t *TerrainMesh) Drawn() int  { return t.drawn }
func (t *TerrainMesh) Culled() int { return t.culled }

// Meshes returns the number of chunks resident on the GPU.
func (t *TerrainMesh) Meshes() int { return len(t.meshes) }

func (t *TerrainMesh) SetViewport(int, int) {}

func (t *TerrainMesh) Dispose() {
	for id, m := range t.meshes {
		gl.DeleteVertexArrays(1, &m.vao)
		gl.DeleteBuffers(4, &m.buffers[0])
		delete(t.meshes, id)
	}
	t.textures.Dispose()
	if t.shader != nil {
		t.shader.Delete()
		t.shader = nil
	}
}

package terrain

import (
	"lodterrain/internal/noise"
)

// Geometry is the CPU-side vertex data of one chunk: a square grid in the XZ
// plane, centred on the chunk origin. Slices are reused across chunks.
type Geometry struct {
	Positions []float32 // xyz per vertex
	Normals   []float32 // xyz per vertex
	UVs       []float32 // uv per vertex
	Indices   []uint32

	Size      float64
	Segments  int
	Displaced bool // heights baked in by Displace

	pooled bool
}

// VertexCount returns the number of vertices currently built.
func (g *Geometry) VertexCount() int { return len(g.Positions) / 3 }

// IndexCount returns the number of indices currently built.
func (g *Geometry) IndexCount() int { return len(g.Indices) }

// Reset detaches all data so the buffer can sit in the pool; capacity is kept.
func (g *Geometry) Reset() {
	g.Positions = g.Positions[:0]
	g.Normals = g.Normals[:0]
	g.UVs = g.UVs[:0]
	g.Indices = g.Indices[:0]
	g.Size = 0
	g.Segments = 0
	g.Displaced = false
}

// BuildGrid fills g with a flat (segments+1)² vertex grid of segments² cells
// spanning size×size. Rows run from -z to +z, columns from -x to +x; UV v is
// 1 at the -z edge. Normals point +Y.
func (g *Geometry) BuildGrid(size float64, segments int) {
	g.Reset()
	g.Size = size
	g.Segments = segments

	row := segments + 1
	n := row * row
	g.Positions = grow(g.Positions, n*3)
	g.Normals = grow(g.Normals, n*3)
	g.UVs = grow(g.UVs, n*2)
	g.Indices = growU32(g.Indices, segments*segments*6)

	half := size / 2
	step := size / float64(segments)
	for iz := 0; iz < row; iz++ {
		z := -half + float64(iz)*step
		for ix := 0; ix < row; ix++ {
			x := -half + float64(ix)*step
			g.Positions = append(g.Positions, float32(x), 0, float32(z))
			g.Normals = append(g.Normals, 0, 1, 0)
			g.UVs = append(g.UVs, float32(ix)/float32(segments), 1-float32(iz)/float32(segments))
		}
	}

	for iz := 0; iz < segments; iz++ {
		for ix := 0; ix < segments; ix++ {
			a := uint32(ix + row*iz)
			b := uint32(ix + row*(iz+1))
			c := uint32(ix + 1 + row*(iz+1))
			d := uint32(ix + 1 + row*iz)
			g.Indices = append(g.Indices, a, b, d, b, c, d)
		}
	}
}

// Displace lifts every vertex to the noise elevation at its world position
// and replaces the flat normals. This is the CPU twin of the vertex shader.
func (g *Geometry) Displace(d Descriptor) {
	for i := 0; i < len(g.Positions); i += 3 {
		wx, wz := d.WorldXZ(float64(g.Positions[i]), float64(g.Positions[i+2]))
		g.Positions[i+1] = float32(noise.Elevation(wx, wz, d.Noise))
		nrm := noise.Normal(wx, wz, d.Noise)
		g.Normals[i] = float32(nrm.X())
		g.Normals[i+1] = float32(nrm.Y())
		g.Normals[i+2] = float32(nrm.Z())
	}
	g.Displaced = true
}

func grow(s []float32, n int) []float32 {
	if cap(s) < n {
		return make([]float32, 0, n)
	}
	return s[:0]
}

func growU32(s []uint32, n int) []uint32 {
	if cap(s) < n {
		return make([]uint32, 0, n)
	}
	return s[:0]
}

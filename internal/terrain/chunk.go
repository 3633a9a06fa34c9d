package terrain

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/google/uuid"

	"lodterrain/internal/noise"
)

// Material is the per-chunk parameter block read by the terrain shader.
type Material struct {
	Noise        noise.Params
	WorldOffset  mgl64.Vec2
	WorldOrigin  mgl64.Vec2
	Bands        noise.Bands
	TextureScale float64
}

// Chunk is a built, renderable terrain patch. It is not mutated after it
// has been registered.
type Chunk struct {
	ID         uuid.UUID
	Key        Key
	Descriptor Descriptor
	Geometry   *Geometry
	Material   Material
	Textures   TextureRefs
}

// Model returns the chunk's model matrix.
func (c *Chunk) Model() mgl32.Mat4 {
	p := c.Descriptor.Position
	return mgl32.Translate3D(float32(p.X()), float32(p.Y()), float32(p.Z()))
}

package terrain

import (
	"github.com/go-gl/mathgl/mgl64"

	"lodterrain/internal/noise"
)

// TextureRefs names the low, mid and high elevation textures.
type TextureRefs struct {
	Low, Mid, High string
}

// Descriptor fully determines a chunk's geometry and appearance. It is a
// value type and never changes after creation.
type Descriptor struct {
	Key         Key
	WorldOrigin mgl64.Vec2 // quadtree root centre at request time
	Position    mgl64.Vec3
	Size        float64
	Segments    int
	Noise       noise.Params
	Textures    TextureRefs
}

// NewDescriptor describes a chunk centred on (center.x, yOffset, center.z).
func NewDescriptor(center mgl64.Vec2, size float64, segments int, yOffset float64, origin mgl64.Vec2, p noise.Params, tex TextureRefs) Descriptor {
	pos := mgl64.Vec3{center.X(), yOffset, center.Y()}
	return Descriptor{
		Key:         KeyFor(pos, size),
		WorldOrigin: origin,
		Position:    pos,
		Size:        size,
		Segments:    segments,
		Noise:       p,
		Textures:    tex,
	}
}

// SameSquare reports whether d and o cover the same ground. Keys of the
// coarsest level can collide when the root moves by half its size.
func (d Descriptor) SameSquare(o Descriptor) bool {
	return d.Size == o.Size && d.Position == o.Position
}

// WorldOffset is the chunk position relative to the world origin. Adding
// local vertex coordinates, the offset and the origin gives world xz.
func (d Descriptor) WorldOffset() mgl64.Vec2 {
	return mgl64.Vec2{d.Position.X() - d.WorldOrigin.X(), d.Position.Z() - d.WorldOrigin.Y()}
}

// WorldXZ maps a chunk-local (x, z) to the world coordinates the noise is
// evaluated at.
func (d Descriptor) WorldXZ(localX, localZ float64) (float64, float64) {
	off := d.WorldOffset()
	return localX + off.X() + d.WorldOrigin.X(), localZ + off.Y() + d.WorldOrigin.Y()
}

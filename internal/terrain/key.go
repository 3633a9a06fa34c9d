package terrain

import (
	"fmt"
	"math"
	"strconv"

	"github.com/go-gl/mathgl/mgl64"
)

// Key identifies a chunk by its grid cell at its own resolution.
type Key struct {
	X, Z int64
	Size float64
}

// KeyFor returns the key of a chunk of the given size positioned at pos.
func KeyFor(pos mgl64.Vec3, size float64) Key {
	return Key{
		X:    int64(math.Floor(pos.X() / size)),
		Z:    int64(math.Floor(pos.Z() / size)),
		Size: size,
	}
}

// String renders the key as x_z_size.
func (k Key) String() string {
	return fmt.Sprintf("%d_%d_%s", k.X, k.Z, strconv.FormatFloat(k.Size, 'f', -1, 64))
}

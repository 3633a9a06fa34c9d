package noise

import (
	"errors"
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

const (
	// MaxOctaves is the loop bound of the terrain shader; the CPU path honours it too.
	MaxOctaves = 10

	// NormalEpsilon is the finite-difference step used for surface normals.
	NormalEpsilon = 0.01
)

// ErrInvalidParams marks noise parameters that would produce degenerate or NaN terrain.
var ErrInvalidParams = errors.New("invalid noise params")

// Params controls the fractal height function. Copied by value into every chunk.
type Params struct {
	Frequency      float64 `yaml:"frequency"`
	Amplitude      float64 `yaml:"amplitude"`
	Octaves        float64 `yaml:"octaves"`
	Lacunarity     float64 `yaml:"lacunarity"`
	Persistence    float64 `yaml:"persistence"`
	Exponentiation float64 `yaml:"exponentiation"`
	MaxHeight      float64 `yaml:"maxHeight"`
}

// DefaultParams are the values the streaming controller starts with.
func DefaultParams() Params {
	return Params{
		Frequency:      0.0006,
		Amplitude:      5,
		Octaves:        3,
		Lacunarity:     2,
		Persistence:    0.5,
		Exponentiation: 3,
		MaxHeight:      400,
	}
}

// Validate rejects parameters that cannot produce finite elevations.
func (p Params) Validate() error {
	positive := []struct {
		name string
		v    float64
	}{
		{"frequency", p.Frequency},
		{"amplitude", p.Amplitude},
		{"lacunarity", p.Lacunarity},
		{"exponentiation", p.Exponentiation},
		{"maxHeight", p.MaxHeight},
	}
	for _, f := range positive {
		if math.IsNaN(f.v) || math.IsInf(f.v, 0) || f.v <= 0 {
			return fmt.Errorf("%w: %s must be positive and finite, got %v", ErrInvalidParams, f.name, f.v)
		}
	}
	if math.IsNaN(p.Persistence) || math.IsInf(p.Persistence, 0) || p.Persistence < 0 {
		return fmt.Errorf("%w: persistence must be non-negative and finite, got %v", ErrInvalidParams, p.Persistence)
	}
	if math.IsNaN(p.Octaves) || p.Octaves < 1 || p.Octaves > MaxOctaves {
		return fmt.Errorf("%w: octaves must be in [1, %d], got %v", ErrInvalidParams, MaxOctaves, p.Octaves)
	}
	return nil
}

// OctaveCount is the number of layers actually summed: fractional counts truncate.
func (p Params) OctaveCount() int {
	if !(p.Octaves >= 1) {
		return 0
	}
	return min(int(p.Octaves), MaxOctaves)
}

func elevation[F float](x, z F, p Params) F {
	var total, maxAmp F
	freq := F(p.Frequency)
	amp := F(p.Amplitude)
	for range p.OctaveCount() {
		total += simplex(x*freq, z*freq) * amp
		maxAmp += amp
		amp *= F(p.Persistence)
		freq *= F(p.Lacunarity)
	}
	if maxAmp == 0 {
		return 0
	}
	normalized := total / maxAmp
	if normalized > 1 {
		normalized = 1
	} else if normalized < -1 {
		normalized = -1
	}
	h01 := F(math.Pow(float64((normalized+1)/2), p.Exponentiation))
	return h01 * F(p.MaxHeight)
}

// Elevation returns the terrain height at world (x, z), in [0, p.MaxHeight].
// It is a pure function: chunks sharing a vertex compute identical values there.
func Elevation(x, z float64, p Params) float64 { return elevation(x, z, p) }

// Elevation32 is Elevation at shader precision.
func Elevation32(x, z float32, p Params) float32 { return elevation(x, z, p) }

// Normal estimates the surface normal at world (x, z) from two forward differences.
func Normal(x, z float64, p Params) mgl64.Vec3 {
	e := Elevation(x, z, p)
	dx := Elevation(x+NormalEpsilon, z, p)
	dz := Elevation(x, z+NormalEpsilon, p)
	va := mgl64.Vec3{NormalEpsilon, dx - e, 0}
	vb := mgl64.Vec3{0, dz - e, NormalEpsilon}
	return vb.Cross(va).Normalize()
}

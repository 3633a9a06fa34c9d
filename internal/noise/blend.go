package noise

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// DefaultTextureScale is the world-to-UV scale of the tri-planar projection.
const DefaultTextureScale = 0.08

// Bands are the normalized elevation ranges of the two texture transitions.
type Bands struct {
	LowMidStart  float64 `yaml:"lowMidStart"`
	LowMidEnd    float64 `yaml:"lowMidEnd"`
	MidHighStart float64 `yaml:"midHighStart"`
	MidHighEnd   float64 `yaml:"midHighEnd"`
}

func DefaultBands() Bands {
	return Bands{
		LowMidStart:  0.10,
		LowMidEnd:    0.12,
		MidHighStart: 0.18,
		MidHighEnd:   0.23,
	}
}

func (b Bands) Validate() error {
	if !(b.LowMidStart < b.LowMidEnd) {
		return fmt.Errorf("%w: low→mid band must have start < end, got [%v, %v]", ErrInvalidParams, b.LowMidStart, b.LowMidEnd)
	}
	if !(b.MidHighStart < b.MidHighEnd) {
		return fmt.Errorf("%w: mid→high band must have start < end, got [%v, %v]", ErrInvalidParams, b.MidHighStart, b.MidHighEnd)
	}
	return nil
}

// Smoothstep is the cubic Hermite step of GLSL.
func Smoothstep(edge0, edge1, x float64) float64 {
	t := (x - edge0) / (edge1 - edge0)
	t = math.Max(0, math.Min(1, t))
	return t * t * (3 - 2*t)
}

// Blend holds per-texture weights (summing to 1) and the two raw transition factors.
type Blend struct {
	Low, Mid, High float64
	T1, T2         float64
}

// BlendWeights computes lerp(lerp(low, mid, t1), high, t2) expressed as weights.
func BlendWeights(elevation float64, p Params, b Bands) Blend {
	e01 := elevation / p.MaxHeight
	t1 := Smoothstep(b.LowMidStart, b.LowMidEnd, e01)
	t2 := Smoothstep(b.MidHighStart, b.MidHighEnd, e01)
	return Blend{
		Low:  (1 - t1) * (1 - t2),
		Mid:  t1 * (1 - t2),
		High: t2,
		T1:   t1,
		T2:   t2,
	}
}

// TriplanarWeights weights the X, Y and Z projections by the absolute normal.
func TriplanarWeights(normal mgl64.Vec3) mgl64.Vec3 {
	w := mgl64.Vec3{
		math.Abs(normal.X()) + 1e-5,
		math.Abs(normal.Y()) + 1e-5,
		math.Abs(normal.Z()) + 1e-5,
	}
	return w.Normalize()
}

// Sampler returns an RGBA colour for texture coordinates; implementations repeat.
type Sampler interface {
	Sample(u, v float64) mgl64.Vec4
}

// SampleTriplanar samples s along the three world axes and blends by the normal.
func SampleTriplanar(s Sampler, pos, normal mgl64.Vec3, scale float64) mgl64.Vec4 {
	w := TriplanarWeights(normal)
	xProj := s.Sample(pos.Y()*scale, pos.Z()*scale)
	yProj := s.Sample(pos.X()*scale, pos.Z()*scale)
	zProj := s.Sample(pos.X()*scale, pos.Y()*scale)
	return xProj.Mul(w.X()).Add(yProj.Mul(w.Y())).Add(zProj.Mul(w.Z()))
}

// Shade is the CPU reference of the terrain fragment stage.
func Shade(low, mid, high Sampler, pos, normal mgl64.Vec3, elevation float64, p Params, b Bands, scale float64) mgl64.Vec4 {
	bl := BlendWeights(elevation, p, b)
	lowColor := SampleTriplanar(low, pos, normal, scale)
	midColor := SampleTriplanar(mid, pos, normal, scale)
	highColor := SampleTriplanar(high, pos, normal, scale)
	c := lerp4(lowColor, midColor, bl.T1)
	return lerp4(c, highColor, bl.T2)
}

func lerp4(a, b mgl64.Vec4, t float64) mgl64.Vec4 {
	return a.Add(b.Sub(a).Mul(t))
}

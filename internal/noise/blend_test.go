package noise

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type solid mgl64.Vec4

func (s solid) Sample(u, v float64) mgl64.Vec4 { return mgl64.Vec4(s) }

// uvSampler returns its coordinates so tests can see which projection was used.
type uvSampler struct{}

func (uvSampler) Sample(u, v float64) mgl64.Vec4 { return mgl64.Vec4{u, v, 0, 1} }

func TestSmoothstep(t *testing.T) {
	assert.Equal(t, 0.0, Smoothstep(0.1, 0.12, 0.05))
	assert.Equal(t, 0.0, Smoothstep(0.1, 0.12, 0.1))
	assert.Equal(t, 1.0, Smoothstep(0.1, 0.12, 0.12))
	assert.Equal(t, 1.0, Smoothstep(0.1, 0.12, 0.9))
	assert.InDelta(t, 0.5, Smoothstep(0, 1, 0.5), 1e-12)

	// flat at both edges
	const h = 1e-7
	for _, e := range [][2]float64{{0.10, 0.12}, {0.18, 0.23}} {
		lo := (Smoothstep(e[0], e[1], e[0]+h) - Smoothstep(e[0], e[1], e[0])) / h
		hi := (Smoothstep(e[0], e[1], e[1]) - Smoothstep(e[0], e[1], e[1]-h)) / h
		assert.InDelta(t, 0, lo, 1e-2, "slope at %v", e[0])
		assert.InDelta(t, 0, hi, 1e-2, "slope at %v", e[1])
	}
}

func TestBlendWeightsBands(t *testing.T) {
	p := DefaultParams()
	b := DefaultBands()

	tests := []struct {
		name           string
		e01            float64
		low, mid, high float64
	}{
		{"sea level", 0, 1, 0, 0},
		{"below low-mid", 0.09, 1, 0, 0},
		{"low-mid start", 0.10, 1, 0, 0},
		{"between bands", 0.15, 0, 1, 0},
		{"mid-high end", 0.23, 0, 0, 1},
		{"peak", 1, 0, 0, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := BlendWeights(tt.e01*p.MaxHeight, p, b)
			assert.InDelta(t, tt.low, w.Low, 1e-12)
			assert.InDelta(t, tt.mid, w.Mid, 1e-12)
			assert.InDelta(t, tt.high, w.High, 1e-12)
		})
	}
}

func TestBlendWeightsSumAndMonotone(t *testing.T) {
	p := DefaultParams()
	b := DefaultBands()

	prev := BlendWeights(0, p, b)
	for i := 1; i <= 1000; i++ {
		w := BlendWeights(float64(i)/1000*p.MaxHeight*0.3, p, b)
		require.InDelta(t, 1, w.Low+w.Mid+w.High, 1e-12, "step %d", i)
		require.True(t, w.T1 >= 0 && w.T1 <= 1, "t1 %v", w.T1)
		require.True(t, w.T2 >= 0 && w.T2 <= 1, "t2 %v", w.T2)
		require.GreaterOrEqual(t, w.T1, prev.T1)
		require.GreaterOrEqual(t, w.T2, prev.T2)
		require.GreaterOrEqual(t, w.High, prev.High)
		prev = w
	}
}

func TestTriplanarWeightsAxisAligned(t *testing.T) {
	tests := []struct {
		normal mgl64.Vec3
		axis   int
	}{
		{mgl64.Vec3{1, 0, 0}, 0},
		{mgl64.Vec3{0, 1, 0}, 1},
		{mgl64.Vec3{0, -1, 0}, 1},
		{mgl64.Vec3{0, 0, -1}, 2},
	}
	for _, tt := range tests {
		w := TriplanarWeights(tt.normal)
		for i := 0; i < 3; i++ {
			want := 0.0
			if i == tt.axis {
				want = 1
			}
			assert.InDelta(t, want, w[i], 1e-4, "normal %v axis %d", tt.normal, i)
		}
	}
}

func TestSampleTriplanarProjections(t *testing.T) {
	pos := mgl64.Vec3{10, 20, 30}
	const scale = 0.1

	up := SampleTriplanar(uvSampler{}, pos, mgl64.Vec3{0, 1, 0}, scale)
	assert.InDelta(t, 1, up.X(), 1e-3, "top projection samples xz")
	assert.InDelta(t, 3, up.Y(), 1e-3)

	side := SampleTriplanar(uvSampler{}, pos, mgl64.Vec3{1, 0, 0}, scale)
	assert.InDelta(t, 2, side.X(), 1e-3, "x projection samples yz")
	assert.InDelta(t, 3, side.Y(), 1e-3)

	front := SampleTriplanar(uvSampler{}, pos, mgl64.Vec3{0, 0, 1}, scale)
	assert.InDelta(t, 1, front.X(), 1e-3, "z projection samples xy")
	assert.InDelta(t, 2, front.Y(), 1e-3)
}

func TestShadeMatchesNestedLerp(t *testing.T) {
	p := DefaultParams()
	b := DefaultBands()
	low := mgl64.Vec4{0.2, 0.5, 0.1, 1}
	mid := mgl64.Vec4{0.5, 0.4, 0.3, 1}
	high := mgl64.Vec4{0.9, 0.9, 0.95, 1}
	up := mgl64.Vec3{0, 1, 0}

	for _, e01 := range []float64{0, 0.11, 0.15, 0.2, 0.5} {
		e := e01 * p.MaxHeight
		w := BlendWeights(e, p, b)
		want := lerp4(lerp4(low, mid, w.T1), high, w.T2)
		got := Shade(solid(low), solid(mid), solid(high), mgl64.Vec3{3, e, 7}, up, e, p, b, DefaultTextureScale)
		for i := 0; i < 4; i++ {
			assert.InDelta(t, want[i], got[i], 1e-4, "e01 %v channel %d", e01, i)
		}
	}
}

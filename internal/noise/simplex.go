package noise

import "math"

// Two-axis simplex gradient noise. The same code is instantiated for float32
// (the precision the terrain shader runs at) and float64 (CPU reference).

type float interface {
	~float32 | ~float64
}

const (
	skewG2   = 0.211324865405187  // (3-sqrt(3))/6
	skewF2   = 0.366025403784439  // (sqrt(3)-1)/2
	lastG2   = -0.577350269189626 // -1 + 2*skewG2
	inv41    = 0.024390243902439  // 1/41, spreads the permutation over the gradient ring
	noiseMul = 70.0
)

func floor[F float](v F) F { return F(math.Floor(float64(v))) }

func fract[F float](v F) F { return v - floor(v) }

func abs[F float](v F) F {
	if v < 0 {
		return -v
	}
	return v
}

// mod289 matches GLSL mod(x, 289.0).
func mod289[F float](v F) F { return v - floor(v/289)*289 }

// permute is the permutation polynomial (34x² + x) mod 289. Inputs are
// integers below 2^24 so it is exact in float32 as well.
func permute[F float](v F) F { return mod289((v*34 + 1) * v) }

func simplex[F float](x, y F) F {
	s := (x + y) * F(skewF2)
	ix := floor(x + s)
	iy := floor(y + s)
	t := (ix + iy) * F(skewG2)
	x0 := x - ix + t
	y0 := y - iy + t

	var i1x, i1y F
	if x0 > y0 {
		i1x = 1
	} else {
		i1y = 1
	}
	x1 := x0 + F(skewG2) - i1x
	y1 := y0 + F(skewG2) - i1y
	x2 := x0 + F(lastG2)
	y2 := y0 + F(lastG2)

	ix = mod289(ix)
	iy = mod289(iy)
	p0 := permute(permute(iy) + ix)
	p1 := permute(permute(iy+i1y) + ix + i1x)
	p2 := permute(permute(iy+1) + ix + 1)

	n := corner(p0, x0, y0) + corner(p1, x1, y1) + corner(p2, x2, y2)
	return noiseMul * n
}

func corner[F float](p, dx, dy F) F {
	w := 0.5 - (dx*dx + dy*dy)
	if w <= 0 {
		return 0
	}
	gx := fract(p*F(inv41))*2 - 1
	h := abs(gx) - 0.5
	a0 := gx - floor(gx+0.5)
	w2 := w * w
	return w2 * w2 * (a0*dx + h*dy)
}

// Simplex2 returns 2D simplex noise at (x, y), roughly in [-1, 1].
func Simplex2(x, y float64) float64 { return simplex(x, y) }

// Simplex2f is Simplex2 evaluated in float32.
func Simplex2f(x, y float32) float32 { return simplex(x, y) }

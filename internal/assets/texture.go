package assets

import (
	"fmt"
	"image"
	"image/color"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"math"
	"math/bits"
	"os"

	"github.com/go-gl/mathgl/mgl64"
	_ "golang.org/x/image/bmp"
	xdraw "golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
)

// MaxTextureSize bounds the edge of an uploaded texture.
const MaxTextureSize = 4096

// Texture is a decoded RGBA image with power-of-two edges, sampled with
// repeat addressing.
type Texture struct {
	Name string
	Pix  *image.RGBA
}

// Width returns the texture width in pixels.
func (t *Texture) Width() int { return t.Pix.Rect.Dx() }

// Height returns the texture height in pixels.
func (t *Texture) Height() int { return t.Pix.Rect.Dy() }

// Load decodes a png, jpeg, bmp or webp file.
func Load(path string) (*Texture, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open texture: %w", err)
	}
	defer f.Close()
	return Decode(f, path)
}

// Decode reads an image and normalises it to a power-of-two RGBA texture.
func Decode(r io.Reader, name string) (*Texture, error) {
	img, format, err := image.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("decode texture %s: %w", name, err)
	}
	b := img.Bounds()
	if b.Empty() {
		return nil, fmt.Errorf("decode texture %s (%s): empty image", name, format)
	}
	return FromImage(name, img), nil
}

// FromImage converts img to RGBA, resampling to the nearest power-of-two
// size so hardware repeat addressing and mipmaps behave.
func FromImage(name string, img image.Image) *Texture {
	b := img.Bounds()
	w, h := potSize(b.Dx()), potSize(b.Dy())
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	if w == b.Dx() && h == b.Dy() {
		xdraw.Draw(dst, dst.Bounds(), img, b.Min, xdraw.Src)
	} else {
		xdraw.CatmullRom.Scale(dst, dst.Bounds(), img, b, xdraw.Src, nil)
	}
	return &Texture{Name: name, Pix: dst}
}

// Solid returns a small single-colour texture, used when no image is configured.
func Solid(name string, c color.RGBA) *Texture {
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i], img.Pix[i+1], img.Pix[i+2], img.Pix[i+3] = c.R, c.G, c.B, c.A
	}
	return &Texture{Name: name, Pix: img}
}

func potSize(n int) int {
	if n <= 1 {
		return 1
	}
	p := 1 << bits.Len(uint(n-1))
	// round to the nearer power of two
	if p/2 >= 1 && n-p/2 < p-n {
		p /= 2
	}
	return min(p, MaxTextureSize)
}

// Sample returns the bilinearly filtered colour at (u, v) with repeat
// addressing; channels are in [0, 1].
func (t *Texture) Sample(u, v float64) mgl64.Vec4 {
	w, h := float64(t.Width()), float64(t.Height())
	x := (u-math.Floor(u))*w - 0.5
	y := (v-math.Floor(v))*h - 0.5
	x0, y0 := math.Floor(x), math.Floor(y)
	fx, fy := x-x0, y-y0

	c00 := t.texel(int(x0), int(y0))
	c10 := t.texel(int(x0)+1, int(y0))
	c01 := t.texel(int(x0), int(y0)+1)
	c11 := t.texel(int(x0)+1, int(y0)+1)

	top := c00.Mul(1 - fx).Add(c10.Mul(fx))
	bottom := c01.Mul(1 - fx).Add(c11.Mul(fx))
	return top.Mul(1 - fy).Add(bottom.Mul(fy))
}

func (t *Texture) texel(x, y int) mgl64.Vec4 {
	w, h := t.Width(), t.Height()
	x = ((x % w) + w) % w
	y = ((y % h) + h) % h
	i := t.Pix.PixOffset(x, y)
	p := t.Pix.Pix[i : i+4 : i+4]
	return mgl64.Vec4{float64(p[0]) / 255, float64(p[1]) / 255, float64(p[2]) / 255, float64(p[3]) / 255}
}

// Flat colours for elevation bands that have no texture file.
var (
	LowColor  = color.RGBA{86, 125, 70, 255}
	MidColor  = color.RGBA{122, 112, 101, 255}
	HighColor = color.RGBA{236, 238, 242, 255}
)

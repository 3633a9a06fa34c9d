// Package preview renders a shaded top-down map of the terrain on the CPU,
// using the same height and blending functions as the terrain shader.
package preview

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"math"
	"runtime"
	"sync"

	"github.com/go-gl/mathgl/mgl64"

	"lodterrain/internal/assets"
	"lodterrain/internal/noise"
	"lodterrain/internal/quadtree"
)

// ErrInvalidOptions marks a preview request that cannot be rendered.
var ErrInvalidOptions = errors.New("invalid preview options")

const ambient = 0.35

// Options describes the area and look of a preview.
type Options struct {
	Center mgl64.Vec2 // world xz at the image centre
	Extent float64    // world units across the image width
	Width  int
	Height int

	Noise        noise.Params
	Bands        noise.Bands
	TextureScale float64
	YOffset      float64

	Low, Mid, High noise.Sampler // nil bands use flat colours
	Light          mgl64.Vec3    // towards the light; zero means the default

	// Outlines are drawn over the shaded terrain, e.g. the streamed chunk layout.
	Outlines     []quadtree.Node
	OutlineColor color.RGBA

	Workers int // 0 uses GOMAXPROCS
}

func (o *Options) withDefaults() error {
	if o.Width <= 0 || o.Height <= 0 {
		return fmt.Errorf("%w: image size %dx%d", ErrInvalidOptions, o.Width, o.Height)
	}
	if !(o.Extent > 0) || math.IsInf(o.Extent, 0) {
		return fmt.Errorf("%w: extent must be positive", ErrInvalidOptions)
	}
	if err := o.Noise.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidOptions, err)
	}
	if o.Low == nil {
		o.Low = assets.Solid("low", assets.LowColor)
	}
	if o.Mid == nil {
		o.Mid = assets.Solid("mid", assets.MidColor)
	}
	if o.High == nil {
		o.High = assets.Solid("high", assets.HighColor)
	}
	if o.Light.Len() == 0 {
		o.Light = mgl64.Vec3{0.4, 1.0, 0.3}
	}
	o.Light = o.Light.Normalize()
	if o.TextureScale <= 0 {
		o.TextureScale = noise.DefaultTextureScale
	}
	if o.OutlineColor == (color.RGBA{}) {
		o.OutlineColor = color.RGBA{20, 20, 20, 255}
	}
	if o.Workers <= 0 {
		o.Workers = runtime.GOMAXPROCS(0)
	}
	return nil
}

// pixelSize is the world size of one pixel; pixels are square.
func (o *Options) pixelSize() float64 {
	return o.Extent / float64(o.Width)
}

// World returns the world xz at the centre of pixel (px, py). Image rows
// run from -z at the top to +z at the bottom.
func (o *Options) World(px, py int) (float64, float64) {
	s := o.pixelSize()
	x := o.Center.X() - o.Extent/2 + (float64(px)+0.5)*s
	z := o.Center.Y() - s*float64(o.Height)/2 + (float64(py)+0.5)*s
	return x, z
}

// Pixel maps world xz to pixel coordinates, possibly outside the image.
func (o *Options) Pixel(x, z float64) (int, int) {
	s := o.pixelSize()
	px := (x - (o.Center.X() - o.Extent/2)) / s
	py := (z - (o.Center.Y() - s*float64(o.Height)/2)) / s
	return int(math.Floor(px)), int(math.Floor(py))
}

// Render shades every pixel in parallel. A cancelled ctx stops the render
// early and returns ctx.Err().
func Render(ctx context.Context, opts Options) (*image.RGBA, error) {
	if err := opts.withDefaults(); err != nil {
		return nil, err
	}
	img := image.NewRGBA(image.Rect(0, 0, opts.Width, opts.Height))

	shadeRow := func(y int) {
		if ctx.Err() != nil {
			return
		}
		for x := 0; x < opts.Width; x++ {
			img.SetRGBA(x, y, shade(&opts, x, y))
		}
	}
	pool := NewWorkerPool(opts.Workers, opts.Workers*2, shadeRow)

	var done sync.WaitGroup
	for y := 0; y < opts.Height; y++ {
		done.Add(1)
		if !pool.Submit(ctx, rowJob{y: y, done: &done}) {
			done.Done()
			break
		}
	}
	done.Wait()
	pool.Shutdown()
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	for _, n := range opts.Outlines {
		drawOutline(img, &opts, n)
	}
	return img, nil
}

func shade(o *Options, px, py int) color.RGBA {
	x, z := o.World(px, py)
	e := noise.Elevation(x, z, o.Noise)
	n := noise.Normal(x, z, o.Noise)
	pos := mgl64.Vec3{x, o.YOffset + e, z}
	albedo := noise.Shade(o.Low, o.Mid, o.High, pos, n, e, o.Noise, o.Bands, o.TextureScale)
	light := ambient + (1-ambient)*math.Max(n.Dot(o.Light), 0)
	return color.RGBA{
		R: toByte(albedo.X() * light),
		G: toByte(albedo.Y() * light),
		B: toByte(albedo.Z() * light),
		A: 255,
	}
}

func toByte(v float64) uint8 {
	return uint8(math.Round(math.Max(0, math.Min(1, v)) * 255))
}

// drawOutline strokes the square of a quadtree node one pixel wide.
func drawOutline(img *image.RGBA, o *Options, n quadtree.Node) {
	half := n.Size / 2
	x0, y0 := o.Pixel(n.Center.X()-half, n.Center.Y()-half)
	x1, y1 := o.Pixel(n.Center.X()+half, n.Center.Y()+half)
	b := img.Bounds()
	for x := max(x0, b.Min.X); x <= min(x1, b.Max.X-1); x++ {
		setIn(img, x, y0, o.OutlineColor)
		setIn(img, x, y1, o.OutlineColor)
	}
	for y := max(y0, b.Min.Y); y <= min(y1, b.Max.Y-1); y++ {
		setIn(img, x0, y, o.OutlineColor)
		setIn(img, x1, y, o.OutlineColor)
	}
}

func setIn(img *image.RGBA, x, y int, c color.RGBA) {
	if image.Pt(x, y).In(img.Bounds()) {
		img.SetRGBA(x, y, c)
	}
}

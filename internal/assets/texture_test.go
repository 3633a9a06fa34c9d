package assets

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lodterrain/internal/logging"
	"lodterrain/internal/noise"
)

var _ noise.Sampler = (*Texture)(nil)

func writePNG(t *testing.T, w, h int, fill func(x, y int) color.RGBA) string {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, fill(x, y))
		}
	}
	path := filepath.Join(t.TempDir(), "tex.png")
	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, png.Encode(f, img))
	require.NoError(t, f.Close())
	return path
}

func TestPotSize(t *testing.T) {
	cases := map[int]int{1: 1, 2: 2, 3: 4, 5: 4, 7: 8, 256: 256, 300: 256, 400: 512, 10000: MaxTextureSize}
	for in, want := range cases {
		assert.Equal(t, want, potSize(in), "potSize(%d)", in)
	}
}

func TestLoadKeepsPowerOfTwo(t *testing.T) {
	red := color.RGBA{255, 0, 0, 255}
	path := writePNG(t, 8, 4, func(int, int) color.RGBA { return red })

	tex, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 8, tex.Width())
	assert.Equal(t, 4, tex.Height())
	assert.Equal(t, red, tex.Pix.RGBAAt(3, 2))
}

func TestLoadResamplesToPowerOfTwo(t *testing.T) {
	path := writePNG(t, 6, 3, func(int, int) color.RGBA { return color.RGBA{10, 200, 30, 255} })
	tex, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 8, tex.Width())
	assert.Equal(t, 4, tex.Height())

	c := tex.Sample(0.5, 0.5)
	assert.InDelta(t, 10.0/255, c.X(), 0.02)
	assert.InDelta(t, 200.0/255, c.Y(), 0.02)
}

func TestDecodeErrors(t *testing.T) {
	_, err := Decode(bytes.NewReader([]byte("not an image")), "junk")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "junk")

	_, err = Load(filepath.Join(t.TempDir(), "missing.png"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestSampleRepeats(t *testing.T) {
	path := writePNG(t, 4, 4, func(x, _ int) color.RGBA {
		if x < 2 {
			return color.RGBA{0, 0, 0, 255}
		}
		return color.RGBA{255, 255, 255, 255}
	})
	tex, err := Load(path)
	require.NoError(t, err)

	for _, u := range []float64{0.2, 0.7} {
		a := tex.Sample(u, 0.3)
		b := tex.Sample(u+3, 0.3-5)
		assert.InDelta(t, a.X(), b.X(), 1e-9)
	}
	assert.InDelta(t, 0, tex.Sample(0.25, 0.5).X(), 1e-9)
	assert.InDelta(t, 1, tex.Sample(0.75, 0.5).X(), 1e-9)
	mid := tex.Sample(0.5, 0.5).X()
	assert.Greater(t, mid, 0.0)
	assert.Less(t, mid, 1.0)
}

func TestSolid(t *testing.T) {
	tex := Solid("grass", color.RGBA{0, 255, 0, 255})
	c := tex.Sample(17.3, -4.1)
	assert.InDelta(t, 0, c.X(), 1e-9)
	assert.InDelta(t, 1, c.Y(), 1e-9)
	assert.InDelta(t, 1, c.W(), 1e-9)
}

func TestLibrary(t *testing.T) {
	lib := NewLibrary(nil)
	path := writePNG(t, 2, 2, func(int, int) color.RGBA { return color.RGBA{1, 2, 3, 255} })

	id, err := lib.Load(path)
	require.NoError(t, err)
	again, err := lib.Load(path)
	require.NoError(t, err)
	assert.Equal(t, id, again)
	assert.NotNil(t, lib.Get(id))

	grey := color.RGBA{128, 128, 128, 255}
	a := lib.LoadOr("", grey)
	b := lib.LoadOr(filepath.Join(t.TempDir(), "nope.png"), grey)
	assert.Equal(t, a, b, "fallbacks of one colour are shared")
	assert.Equal(t, 2, lib.Len())
	assert.Nil(t, lib.Get("unknown"))
}

func TestLibraryRemembersFailedPaths(t *testing.T) {
	var out bytes.Buffer
	lib := NewLibrary(logging.NewWithWriters("assets", false, &out, &out))
	bad := filepath.Join(t.TempDir(), "broken.png")
	require.NoError(t, os.WriteFile(bad, []byte("not an image"), 0o644))

	red := color.RGBA{255, 0, 0, 255}
	first := lib.LoadOr(bad, red)
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, lib.LoadOr(bad, red))
	}
	assert.Equal(t, 1, strings.Count(out.String(), "WARN"), "one warning per bad path")
	assert.Equal(t, 1, lib.Len())
}

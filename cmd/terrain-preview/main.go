// Command terrain-preview streams the terrain headlessly around a point and
// writes a shaded top-down map with the chunk layout drawn over it.
package main

import (
	"context"
	"errors"
	"flag"
	"os"
	"os/signal"
	"time"

	"github.com/go-gl/mathgl/mgl64"

	"lodterrain/internal/assets"
	"lodterrain/internal/config"
	"lodterrain/internal/logging"
	"lodterrain/internal/noise"
	"lodterrain/internal/preview"
	"lodterrain/internal/profiling"
	"lodterrain/internal/quadtree"
	"lodterrain/internal/terrain"
)

const maxUpdates = 1 << 20

func main() {
	configPath := flag.String("config", "", "YAML config file (defaults when empty)")
	x := flag.Float64("x", 0, "viewer x")
	z := flag.Float64("z", 0, "viewer z")
	extent := flag.Float64("size", 0, "world units across the image (0 = quadtree root)")
	width := flag.Int("width", 1024, "image width in pixels")
	height := flag.Int("height", 1024, "image height in pixels")
	out := flag.String("out", "terrain.png", "output image (.png or .bmp)")
	outlines := flag.Bool("outlines", true, "draw chunk outlines")
	debug := flag.Bool("debug", false, "enable debug logging")
	flag.Parse()

	log := logging.New("preview", *debug)
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Errorf("%v", err)
		os.Exit(1)
	}

	viewer := terrain.Viewer{
		Position: mgl64.Vec3{*x, cfg.Terrain.YOffset + noise.Elevation(*x, *z, cfg.Noise) + 80, *z},
		Forward:  mgl64.Vec3{0, 0, -1},
	}
	leaves, err := stream(ctx, cfg, viewer, log)
	if err != nil {
		log.Errorf("stream: %v", err)
		os.Exit(1)
	}

	opts := preview.Options{
		Center:       mgl64.Vec2{*x, *z},
		Extent:       *extent,
		Width:        *width,
		Height:       *height,
		Noise:        cfg.Noise,
		Bands:        cfg.Bands,
		TextureScale: cfg.Terrain.TextureScale,
		YOffset:      cfg.Terrain.YOffset,
	}
	if opts.Extent == 0 {
		opts.Extent = cfg.RootSize()
	}
	if *outlines {
		opts.Outlines = leaves
	}
	lib := assets.NewLibrary(log)
	opts.Low = lib.Get(lib.LoadOr(cfg.Textures.LowMap, assets.LowColor))
	opts.Mid = lib.Get(lib.LoadOr(cfg.Textures.MidMap, assets.MidColor))
	opts.High = lib.Get(lib.LoadOr(cfg.Textures.HighMap, assets.HighColor))

	start := time.Now()
	img, err := preview.Render(ctx, opts)
	if err != nil {
		log.Errorf("render: %v", err)
		os.Exit(1)
	}
	if err := preview.Save(*out, img); err != nil {
		log.Errorf("%v", err)
		os.Exit(1)
	}
	log.Infof("wrote %s (%dx%d) in %s", *out, *width, *height, time.Since(start).Round(time.Millisecond))
}

// stream runs the streamer with no GPU until every chunk for viewer is built
// and returns the leaf layout.
func stream(ctx context.Context, cfg *config.Config, v terrain.Viewer, log logging.Logger) ([]quadtree.Node, error) {
	cfg.Terrain.DisplaceOnCPU = true
	prof := profiling.New()
	s, err := terrain.NewStreamer(cfg,
		terrain.WithLogger(log),
		terrain.WithGPU(terrain.NopGPU{}),
		terrain.WithProfiler(prof),
	)
	if err != nil {
		return nil, err
	}
	defer s.Close()

	start := time.Now()
	for i := 0; ; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if i == maxUpdates {
			return nil, errors.New("streamer did not settle")
		}
		s.Update(v)
		if !s.Loading() {
			break
		}
		if s.Stalled() {
			return nil, errors.New("streamer stalled")
		}
	}
	log.Infof("streamed %d chunks (%d built, %d aborted) in %s", s.Store().Len(),
		s.Builder().Built(), s.Builder().Aborted(), time.Since(start).Round(time.Millisecond))
	if log.DebugEnabled() {
		log.Debugf("slowest: %s", prof.TopN(5))
	}
	return append([]quadtree.Node(nil), s.Leaves()...), nil
}

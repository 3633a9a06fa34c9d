package hud

import (
	"time"

	"github.com/go-gl/mathgl/mgl32"

	"lodterrain/internal/graphics"
	"lodterrain/internal/graphics/renderer"
	"lodterrain/internal/profiling"
)

var (
	textColor  = mgl32.Vec3{1, 1, 1}
	warnColor  = mgl32.Vec3{1, 0.55, 0.3}
	trackColor = mgl32.Vec3{0.1, 0.1, 0.1}
	barColor   = mgl32.Vec3{0.35, 0.75, 0.4}
)

// HUD draws the loading indicator, streaming status and profiling lines.
type HUD struct {
	atlas        *graphics.FontAtlas
	fontRenderer *graphics.FontRenderer
	rects        *rectRenderer
	prof         *profiling.Profiler

	width, height int
	showProfiling bool

	fps   FPSCounter
	stats FrameStats
	extra func() []string
}

// NewHUD creates the overlay. extra, if set, supplies additional status lines.
func NewHUD(width, height int, prof *profiling.Profiler, extra func() []string) *HUD {
	return &HUD{
		width:  width,
		height: height,
		prof:   prof,
		extra:  extra,
	}
}

func (h *HUD) Init() error {
	atlas, err := graphics.BakeFontAtlas(nil, 24)
	if err != nil {
		return err
	}
	fr, err := graphics.NewFontRenderer(atlas, h.width, h.height)
	if err != nil {
		return err
	}
	rects, err := newRectRenderer(h.width, h.height)
	if err != nil {
		fr.Dispose()
		return err
	}
	h.atlas = atlas
	h.fontRenderer = fr
	h.rects = rects
	return nil
}

func (h *HUD) Render(ctx renderer.RenderContext) {
	defer h.prof.Track("renderer.hud")()
	h.fps.Tick(time.Now())
	h.stats.Add(time.Duration(ctx.DT * float64(time.Second)))

	st := ctx.Status
	if st.Loading {
		h.renderLoadingBar(st.Progress)
	}

	lines := StatusLines(st, h.fps.FPS(), ctx.Eye)
	if h.extra != nil {
		lines = append(lines, h.extra()...)
	}
	h.fontRenderer.RenderLines(lines, 10, 24, 18, 0.7, textColor)

	if st.Stalled {
		msg := "terrain streaming stalled: geometry pool exhausted"
		w, _ := h.fontRenderer.Measure(msg, 0.8)
		h.fontRenderer.Render(msg, (float32(h.width)-w)/2, float32(h.height)/2, 0.8, warnColor)
	}

	if h.showProfiling {
		y := float32(24 + 18*(len(lines)+1))
		h.fontRenderer.RenderLines(ProfilingLines(h.prof, &h.stats, 8), 10, y, 16, 0.6, textColor)
	}
}

func (h *HUD) renderLoadingBar(progress float64) {
	track, fill := LoadingBar(float32(h.width), float32(h.height), progress)
	h.rects.Draw(track, trackColor, 0.6)
	if fill.W > 0 {
		h.rects.Draw(fill, barColor, 0.9)
	}
}

// ToggleProfiling toggles profiling HUD visibility
func (h *HUD) ToggleProfiling() {
	h.showProfiling = !h.showProfiling
}

func (h *HUD) ShowProfiling() bool {
	return h.showProfiling
}

func (h *HUD) SetViewport(width, height int) {
	h.width, h.height = width, height
	if h.fontRenderer != nil {
		h.fontRenderer.SetViewport(width, height)
	}
	if h.rects != nil {
		h.rects.SetViewport(width, height)
	}
}

func (h *HUD) Dispose() {
	if h.fontRenderer != nil {
		h.fontRenderer.Dispose()
	}
	if h.rects != nil {
		h.rects.Dispose()
	}
}

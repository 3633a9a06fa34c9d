package game

import (
	"fmt"

	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/go-gl/mathgl/mgl64"

	"lodterrain/internal/assets"
	"lodterrain/internal/camera"
	"lodterrain/internal/config"
	"lodterrain/internal/graphics"
	"lodterrain/internal/graphics/renderables/crosshair"
	"lodterrain/internal/graphics/renderables/hud"
	"lodterrain/internal/graphics/renderables/terrainmesh"
	"lodterrain/internal/graphics/renderables/wireframe"
	"lodterrain/internal/graphics/renderer"
	"lodterrain/internal/input"
	"lodterrain/internal/logging"
	"lodterrain/internal/noise"
	"lodterrain/internal/profiling"
	"lodterrain/internal/terrain"
)

// Session is one running terrain scene: camera, streamer and renderers.
type Session struct {
	Window   *glfw.Window
	Renderer *renderer.Renderer
	HUD      *hud.HUD
	Terrain  *terrainmesh.TerrainMesh
	Streamer *terrain.Streamer
	Camera   *camera.FlyCamera

	Paused bool

	cfg    *config.Config
	log    logging.Logger
	prof   *profiling.Profiler
	viewer viewerLatch
}

func NewSession(window *glfw.Window, cfg *config.Config, log logging.Logger, prof *profiling.Profiler) (*Session, error) {
	log = logging.OrNop(log)
	width, height := window.GetFramebufferSize()

	textures := graphics.NewTextureCache(assets.NewLibrary(log))
	mesh := terrainmesh.New(textures, log, prof)

	streamer, err := terrain.NewStreamer(cfg,
		terrain.WithLogger(log),
		terrain.WithGPU(mesh),
		terrain.WithProfiler(prof),
		terrain.WithMaterialReady(func(ready bool) {
			log.Infof("terrain material ready: %v", ready)
		}),
	)
	if err != nil {
		return nil, err
	}

	s := &Session{
		Window:   window,
		Terrain:  mesh,
		Streamer: streamer,
		Camera:   camera.New(spawnPoint(cfg)),
		cfg:      cfg,
		log:      log,
		prof:     prof,
	}
	s.HUD = hud.NewHUD(width, height, prof, s.extraLines)

	cam := graphics.NewCamera(width, height, farPlane(cfg))
	cross := crosshair.NewCrosshair(prof, func() bool { return !s.Paused })
	bounds := wireframe.NewWireframe(prof, config.GetChunkBounds)
	r, err := renderer.NewRenderer(cam, prof, mesh, bounds, cross, s.HUD)
	if err != nil {
		streamer.Close()
		return nil, fmt.Errorf("init renderer: %w", err)
	}
	s.Renderer = r
	r.UpdateViewport(width, height)
	return s, nil
}

// spawnPoint puts the camera a little above the terrain at the origin.
func spawnPoint(cfg *config.Config) mgl64.Vec3 {
	top := cfg.Terrain.YOffset + noise.Elevation(0, 0, cfg.Noise)
	return mgl64.Vec3{0, top + 80, 0}
}

// farPlane covers the whole quadtree root from its centre.
func farPlane(cfg *config.Config) float32 {
	return float32(cfg.RootSize()*0.75 + cfg.Noise.MaxHeight)
}

// Update applies input, moves the camera and advances streaming by one step.
func (s *Session) Update(dt float64, im *input.InputManager) {
	if im.JustPressed(input.ActionPause) {
		s.SetPaused(!s.Paused)
	}
	if im.JustPressed(input.ActionQuit) {
		s.Window.SetShouldClose(true)
	}
	if im.JustPressed(input.ActionToggleWireframe) {
		s.log.Debugf("wireframe: %v", config.ToggleWireframeMode())
	}
	if im.JustPressed(input.ActionToggleFreezeLOD) {
		s.log.Infof("LOD frozen: %v", config.ToggleFreezeLOD())
	}
	if im.JustPressed(input.ActionToggleBounds) {
		s.log.Debugf("chunk bounds: %v", config.ToggleChunkBounds())
	}
	if im.JustPressed(input.ActionToggleProfiling) {
		s.HUD.ToggleProfiling()
		s.log.Debugf("profiling overlay: %v", s.HUD.ShowProfiling())
	}
	if s.Paused && im.JustPressed(input.ActionMouseLeft) {
		s.SetPaused(false)
	}

	if !s.Paused {
		func() {
			defer s.prof.Track("camera.Update")()
			s.Camera.Update(dt, movementFrom(im))
		}()
	}

	s.Streamer.Update(s.viewer.Next(s.Camera.Viewer(), config.GetFreezeLOD()))
}

// Render draws the published chunks and overlays.
func (s *Session) Render(dt float64) {
	s.Renderer.Render(renderer.RenderContext{
		Eye:    s.Camera.Eye(),
		DT:     dt,
		View:   s.Camera.ViewMatrix(),
		Chunks: s.Streamer.Renderables(),
		Status: statusOf(s.Streamer, config.GetFreezeLOD()),
	})
}

// RefreshRender repaints without advancing the simulation.
func (s *Session) RefreshRender() {
	s.Render(0)
	s.Window.SwapBuffers()
}

func (s *Session) extraLines() []string {
	return []string{
		fmt.Sprintf("Drawn: %d | Culled: %d | GPU meshes: %d", s.Terrain.Drawn(), s.Terrain.Culled(), s.Terrain.Meshes()),
		fmt.Sprintf("Geometry pool: %d live, %d free", s.Streamer.Pool().Live(), s.Streamer.Pool().Len()),
	}
}

func (s *Session) SetPaused(paused bool) {
	s.Paused = paused
	if paused {
		s.Window.SetInputMode(glfw.CursorMode, glfw.CursorNormal)
		return
	}
	s.Camera.ResetMouse()
	s.Window.SetInputMode(glfw.CursorMode, glfw.CursorDisabled)
}

// Cleanup releases every chunk and GL resource.
func (s *Session) Cleanup() {
	s.Streamer.Close()
	s.Renderer.Dispose()
}

// viewerLatch feeds the streamer. While LOD is frozen it repeats the last
// live viewer so the streamer sees no movement.
type viewerLatch struct {
	last terrain.Viewer
	set  bool
}

func (l *viewerLatch) Next(live terrain.Viewer, frozen bool) terrain.Viewer {
	if frozen && l.set {
		return l.last
	}
	l.last, l.set = live, true
	return live
}

func movementFrom(im *input.InputManager) camera.Movement {
	return camera.Movement{
		Forward:  im.IsActive(input.ActionMoveForward),
		Backward: im.IsActive(input.ActionMoveBackward),
		Left:     im.IsActive(input.ActionMoveLeft),
		Right:    im.IsActive(input.ActionMoveRight),
		Up:       im.IsActive(input.ActionMoveUp),
		Down:     im.IsActive(input.ActionMoveDown),
		Boost:    im.IsActive(input.ActionBoost) || im.IsActive(input.ActionMouseRight),
	}
}

func statusOf(s *terrain.Streamer, frozen bool) renderer.Status {
	return renderer.Status{
		Loading:       s.Loading(),
		Progress:      s.Progress(),
		MaterialReady: s.MaterialReady(),
		Stalled:       s.Stalled(),
		Chunks:        s.Store().Len(),
		Pending:       s.Builder().Pending(),
		Rebuilds:      s.Rebuilds(),
		FrozenLOD:     frozen,
	}
}

package game

import (
	"time"

	"github.com/go-gl/glfw/v3.3/glfw"

	"lodterrain/internal/config"
	"lodterrain/internal/input"
	"lodterrain/internal/logging"
	"lodterrain/internal/profiling"
)

const slowFrame = 50 * time.Millisecond

// App owns the window loop.
type App struct {
	window       *glfw.Window
	inputManager *input.InputManager
	session      *Session
	log          logging.Logger
	prof         *profiling.Profiler

	fpsLimiter *FPSLimiter
	lastTime   time.Time
}

func NewApp(window *glfw.Window, cfg *config.Config, log logging.Logger) (*App, error) {
	log = logging.OrNop(log)
	prof := profiling.New()
	config.SetFPSLimit(cfg.Window.FPSLimit)

	session, err := NewSession(window, cfg, log, prof)
	if err != nil {
		return nil, err
	}
	a := &App{
		window:       window,
		inputManager: input.NewInputManager(),
		session:      session,
		log:          log,
		prof:         prof,
		fpsLimiter:   NewFPSLimiter(),
		lastTime:     time.Now(),
	}
	SetupInputHandlers(a)
	return a, nil
}

func (a *App) Run() {
	defer a.session.Cleanup()
	for !a.window.ShouldClose() {
		a.tick()
	}
}

func (a *App) tick() {
	a.prof.ResetFrame()
	start := time.Now()
	dt := start.Sub(a.lastTime).Seconds()
	a.lastTime = start

	glfw.PollEvents()

	a.session.Update(dt, a.inputManager)
	a.session.Render(dt)

	a.window.SwapBuffers()

	if d := time.Since(start); d > slowFrame {
		a.log.Warnf("slow frame: %v. Top tasks: %s", d, a.prof.TopN(5))
	}

	a.inputManager.PostUpdate()
	a.fpsLimiter.Wait(a.session.Paused)
}

// RefreshRender handles window resize repaints
func (a *App) RefreshRender() {
	a.session.RefreshRender()
}

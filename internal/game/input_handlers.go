package game

import (
	"github.com/go-gl/glfw/v3.3/glfw"
)

func SetupInputHandlers(app *App) {
	window := app.window
	im := app.inputManager
	s := app.session

	window.SetCursorPosCallback(func(w *glfw.Window, xpos, ypos float64) {
		if !s.Paused {
			s.Camera.HandleMouseMovement(xpos, ypos)
		}
	})

	im.SetMouseButtonCallback(window)
	im.SetKeyCallback(window)

	// framebuffer pixels differ from window units on HiDPI displays
	window.SetFramebufferSizeCallback(func(w *glfw.Window, fbWidth, fbHeight int) {
		s.Renderer.UpdateViewport(fbWidth, fbHeight)
	})

	window.SetFocusCallback(func(w *glfw.Window, focused bool) {
		if !focused && !s.Paused {
			s.SetPaused(true)
		}
	})

	window.SetRefreshCallback(func(w *glfw.Window) {
		app.RefreshRender()
	})
}

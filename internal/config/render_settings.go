package config

import "sync"

// RenderSettings holds the viewer toggles that change while running.
type RenderSettings struct {
	mu        sync.RWMutex
	wireframe bool
	freezeLOD bool
	bounds    bool
	fpsLimit  int
}

var globalRenderSettings = &RenderSettings{
	fpsLimit: 144,
}

// GetWireframeMode reports whether terrain is drawn as lines.
func GetWireframeMode() bool {
	globalRenderSettings.mu.RLock()
	defer globalRenderSettings.mu.RUnlock()
	return globalRenderSettings.wireframe
}

// ToggleWireframeMode flips wireframe rendering and returns the new state.
func ToggleWireframeMode() bool {
	globalRenderSettings.mu.Lock()
	defer globalRenderSettings.mu.Unlock()
	globalRenderSettings.wireframe = !globalRenderSettings.wireframe
	return globalRenderSettings.wireframe
}

// GetFreezeLOD reports whether the viewer position stops driving rebuilds.
func GetFreezeLOD() bool {
	globalRenderSettings.mu.RLock()
	defer globalRenderSettings.mu.RUnlock()
	return globalRenderSettings.freezeLOD
}

// ToggleFreezeLOD flips the LOD freeze and returns the new state.
func ToggleFreezeLOD() bool {
	globalRenderSettings.mu.Lock()
	defer globalRenderSettings.mu.Unlock()
	globalRenderSettings.freezeLOD = !globalRenderSettings.freezeLOD
	return globalRenderSettings.freezeLOD
}

// GetChunkBounds reports whether chunk bounding boxes are drawn.
func GetChunkBounds() bool {
	globalRenderSettings.mu.RLock()
	defer globalRenderSettings.mu.RUnlock()
	return globalRenderSettings.bounds
}

func ToggleChunkBounds() bool {
	globalRenderSettings.mu.Lock()
	defer globalRenderSettings.mu.Unlock()
	globalRenderSettings.bounds = !globalRenderSettings.bounds
	return globalRenderSettings.bounds
}

// GetFPSLimit returns the frame cap, 0 meaning uncapped.
func GetFPSLimit() int {
	globalRenderSettings.mu.RLock()
	defer globalRenderSettings.mu.RUnlock()
	return globalRenderSettings.fpsLimit
}

// SetFPSLimit sets the frame cap. Negative values uncap.
func SetFPSLimit(limit int) {
	globalRenderSettings.mu.Lock()
	defer globalRenderSettings.mu.Unlock()
	if limit < 0 {
		limit = 0
	}
	globalRenderSettings.fpsLimit = limit
}

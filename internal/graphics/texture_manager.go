package graphics

import (
	"fmt"
	"image/color"
	"sync"

	"github.com/go-gl/gl/v4.1-core/gl"

	"lodterrain/internal/assets"
)

// TextureCache uploads each library texture once and hands out its GL name.
type TextureCache struct {
	mu   sync.RWMutex
	lib  *assets.Library
	byID map[assets.AssetID]uint32
}

func NewTextureCache(lib *assets.Library) *TextureCache {
	return &TextureCache{
		lib:  lib,
		byID: make(map[assets.AssetID]uint32),
	}
}

// Get returns the GL texture for path. An empty, missing or undecodable
// path yields a flat texture of the fallback colour.
func (c *TextureCache) Get(path string, fallback color.RGBA) (uint32, error) {
	c.mu.Lock()
	id := c.lib.LoadOr(path, fallback)
	c.mu.Unlock()

	c.mu.RLock()
	if tex, ok := c.byID[id]; ok {
		c.mu.RUnlock()
		return tex, nil
	}
	c.mu.RUnlock()

	c.mu.Lock()
	defer c.mu.Unlock()

	if tex, ok := c.byID[id]; ok {
		return tex, nil
	}
	t := c.lib.Get(id)
	if t == nil {
		return 0, fmt.Errorf("texture %q: not in library", path)
	}
	tex := UploadTexture(t)
	c.byID[id] = tex
	return tex, nil
}

// Len returns the number of uploaded textures.
func (c *TextureCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.byID)
}

// Dispose deletes every uploaded texture.
func (c *TextureCache) Dispose() {
	c.mu.Lock()
	defer c.mu.Unlock()
	for id, tex := range c.byID {
		gl.DeleteTextures(1, &tex)
		delete(c.byID, id)
	}
}

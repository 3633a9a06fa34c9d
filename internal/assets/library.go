package assets

import (
	"fmt"
	"image/color"

	"github.com/google/uuid"

	"lodterrain/internal/logging"
)

// AssetID identifies a loaded texture for the lifetime of the process.
type AssetID string

func makeAssetID() AssetID {
	return AssetID(uuid.NewString())
}

// Library loads each texture path once and hands out stable IDs.
type Library struct {
	byPath   map[string]AssetID
	textures map[AssetID]*Texture
	log      logging.Logger
}

// NewLibrary creates an empty library.
func NewLibrary(log logging.Logger) *Library {
	return &Library{
		byPath:   make(map[string]AssetID),
		textures: make(map[AssetID]*Texture),
		log:      logging.OrNop(log),
	}
}

// Load returns the ID of the texture at path, decoding it on first use.
func (l *Library) Load(path string) (AssetID, error) {
	if id, ok := l.byPath[path]; ok {
		return id, nil
	}
	t, err := Load(path)
	if err != nil {
		return "", err
	}
	id := makeAssetID()
	l.byPath[path] = id
	l.textures[id] = t
	l.log.Debugf("assets: loaded %s (%dx%d)", path, t.Width(), t.Height())
	return id, nil
}

// LoadOr loads path, or registers a solid fallback when path is empty or
// cannot be decoded. A path that failed once keeps its fallback.
func (l *Library) LoadOr(path string, fallback color.RGBA) AssetID {
	if path == "" {
		return l.solid(fallback)
	}
	id, err := l.Load(path)
	if err == nil {
		return id
	}
	l.log.Warnf("assets: %v; using flat colour", err)
	id = l.solid(fallback)
	l.byPath[path] = id
	return id
}

func (l *Library) solid(c color.RGBA) AssetID {
	key := fmt.Sprintf("solid:%02x%02x%02x%02x", c.R, c.G, c.B, c.A)
	if id, ok := l.byPath[key]; ok {
		return id
	}
	id := makeAssetID()
	l.byPath[key] = id
	l.textures[id] = Solid(key, c)
	return id
}

// Get returns the texture for id, or nil.
func (l *Library) Get(id AssetID) *Texture {
	return l.textures[id]
}

// Len returns the number of loaded textures.
func (l *Library) Len() int { return len(l.textures) }

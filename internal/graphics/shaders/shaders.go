// Package shaders embeds the GLSL programs used by the viewer.
package shaders

import (
	"embed"
	"strings"
)

//go:embed *.vert *.frag *.glsl
var FS embed.FS

// Program file pairs.
const (
	TerrainVert = "terrain.vert"
	TerrainFrag = "terrain.frag"
	TextVert    = "text.vert"
	TextFrag    = "text.frag"
	RectVert    = "rect.vert"
	RectFrag    = "rect.frag"
	CrossVert   = "crosshair.vert"
	CrossFrag   = "crosshair.frag"
	WireVert    = "wireframe.vert"
	WireFrag    = "wireframe.frag"

	// NoiseLib is prepended to the terrain vertex stage after its #version line.
	NoiseLib = "noise.glsl"
)

// Terrain returns the terrain program sources with the noise library
// spliced into the vertex stage.
func Terrain() (vert, frag string, err error) {
	v, err := FS.ReadFile(TerrainVert)
	if err != nil {
		return "", "", err
	}
	lib, err := FS.ReadFile(NoiseLib)
	if err != nil {
		return "", "", err
	}
	f, err := FS.ReadFile(TerrainFrag)
	if err != nil {
		return "", "", err
	}
	return splice(string(v), string(lib)), string(f), nil
}

// splice inserts lib on the line after the #version directive.
func splice(src, lib string) string {
	head, rest, ok := strings.Cut(src, "\n")
	if !ok || !strings.HasPrefix(head, "#version") {
		return lib + "\n" + src
	}
	return head + "\n" + lib + "\n" + rest
}

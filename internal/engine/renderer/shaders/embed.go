// Package shaders provides embedded GLSL shader sources.
package shaders

import "embed"

// FS holds every stage and shared include of the renderer programs.
//
//go:embed *.vert *.frag *.glsl
var FS embed.FS

// Package model loads static meshes and their material tables.
//
// Scenes arrive already parsed as a node hierarchy over named meshes. Load
// flattens the hierarchy, resolves each mesh's material by name, converts
// vertices to engine axes and uploads vertex and index buffers.
package model

import "github.com/go-gl/mathgl/mgl32"

// Vertex is the interleaved layout of every model vertex.
type Vertex struct {
	Position mgl32.Vec3
	Normal   mgl32.Vec3
}

// Scene is a parsed source scene: a mesh table and a node hierarchy referencing it.
type Scene struct {
	Meshes []SceneMesh
	Root   *Node
}

// Node references meshes by index into Scene.Meshes.
type Node struct {
	Name     string
	Meshes   []int
	Children []*Node
}

// SceneMesh is one source mesh in source axes (Z up).
type SceneMesh struct {
	Name      string
	Positions []mgl32.Vec3
	Normals   []mgl32.Vec3
	// Faces holds vertex indices per triangle; other face sizes are rejected.
	Faces [][]uint32
}

// ConvertAxes maps a source-space (Z up) vector to engine space (Y up) by
// swapping Y and Z and negating the new Z.
func ConvertAxes(v mgl32.Vec3) mgl32.Vec3 {
	return mgl32.Vec3{v[0], v[2], -v[1]}
}

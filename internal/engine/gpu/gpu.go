// Package gpu defines the graphics backend the rendering core drives.
//
// The core never calls a graphics API directly. Buffers, vertex layouts,
// programs, textures and framebuffers are created and used through Backend,
// which keeps draw dispatch and instancing testable without a GL context.
package gpu

import "unsafe"

// BufferTarget selects what a buffer is bound as.
type BufferTarget int

const (
	ArrayBuffer BufferTarget = iota
	ElementArrayBuffer
)

// Usage is a hint for how often buffer contents change.
type Usage int

const (
	StaticDraw Usage = iota
	DynamicDraw
	StreamDraw
)

// Buffer is a GPU buffer handle.
type Buffer struct {
	ID     uint32
	Target BufferTarget
}

// AttribType is the component type of a vertex attribute.
type AttribType int

const (
	Float AttribType = iota
	Int
	UnsignedInt
)

// Attrib describes one vertex attribute: a number of components of one type.
type Attrib struct {
	Size int
	Type AttribType
}

// Common attribute layouts.
var (
	Attrib1f = Attrib{Size: 1, Type: Float}
	Attrib2f = Attrib{Size: 2, Type: Float}
	Attrib3f = Attrib{Size: 3, Type: Float}
	Attrib4f = Attrib{Size: 4, Type: Float}
	Attrib1i = Attrib{Size: 1, Type: Int}
	Attrib1u = Attrib{Size: 1, Type: UnsignedInt}
)

// Bytes returns the attribute size in bytes.
func (a Attrib) Bytes() int {
	return a.Size * 4
}

// Stride returns the interleaved stride of attrs.
func Stride(attrs []Attrib) int {
	stride := 0
	for _, a := range attrs {
		stride += a.Bytes()
	}
	return stride
}

// VertexArray is a vertex layout handle. Attrs holds the per-vertex attributes
// at locations 0..len(Attrs)-1; instance streams are added after them.
type VertexArray struct {
	ID     uint32
	Attrs  []Attrib
	Stride int
	// NextLocation is the first attribute location not yet in use.
	NextLocation uint32
}

// InstanceStream describes per-instance attributes sourced from a buffer with divisor 1.
type InstanceStream struct {
	Buffer Buffer
	Attrs  []Attrib
	Stride int
}

// DrawMode is the primitive topology of a draw call.
type DrawMode int

const (
	Triangles DrawMode = iota
	Lines
	TriangleStrip
)

// ShaderStage identifies a program stage.
type ShaderStage int

const (
	VertexStage ShaderStage = iota
	FragmentStage
)

func (s ShaderStage) String() string {
	switch s {
	case VertexStage:
		return "vertex"
	case FragmentStage:
		return "fragment"
	default:
		return "unknown"
	}
}

// ShaderSource is the fully expanded source of one program stage.
type ShaderSource struct {
	Stage  ShaderStage
	Name   string
	Source string
}

// ClearMask selects which framebuffer planes Clear touches.
type ClearMask int

const (
	ClearColor ClearMask = 1 << iota
	ClearDepth
)

// Bytes reinterprets a slice of plain values as raw bytes for upload.
// The returned slice aliases s.
func Bytes[T any](s []T) []byte {
	if len(s) == 0 {
		return nil
	}
	var zero T
	return unsafe.Slice((*byte)(unsafe.Pointer(&s[0])), len(s)*int(unsafe.Sizeof(zero)))
}

// Package opengl implements gpu.Backend on OpenGL 4.1 core.
package opengl

import (
	"fmt"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"github.com/Faultbox/voxelcore/internal/engine/gpu"
	"github.com/Faultbox/voxelcore/internal/logger"
)

// Backend drives an OpenGL 4.1 core context.
type Backend struct{}

var _ gpu.Backend = (*Backend)(nil)

// New loads GL function pointers and sets default state.
// IMPORTANT: Must be called AFTER the OpenGL context is created!
func New() (*Backend, error) {
	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize OpenGL: %w", err)
	}

	logger.Info("OpenGL initialized",
		zap.String("version", gl.GoStr(gl.GetString(gl.VERSION))),
		zap.String("renderer", gl.GoStr(gl.GetString(gl.RENDERER))),
	)

	gl.Enable(gl.DEPTH_TEST)
	gl.DepthFunc(gl.LESS)

	return &Backend{}, nil
}

func usage(u gpu.Usage) uint32 {
	switch u {
	case gpu.DynamicDraw:
		return gl.DYNAMIC_DRAW
	case gpu.StreamDraw:
		return gl.STREAM_DRAW
	default:
		return gl.STATIC_DRAW
	}
}

func drawMode(m gpu.DrawMode) uint32 {
	switch m {
	case gpu.Lines:
		return gl.LINES
	case gpu.TriangleStrip:
		return gl.TRIANGLE_STRIP
	default:
		return gl.TRIANGLES
	}
}

func attribType(t gpu.AttribType) uint32 {
	switch t {
	case gpu.Int:
		return gl.INT
	case gpu.UnsignedInt:
		return gl.UNSIGNED_INT
	default:
		return gl.FLOAT
	}
}

// CreateBuffer implements gpu.Backend.
func (b *Backend) CreateBuffer(target gpu.BufferTarget) gpu.Buffer {
	buf := gpu.Buffer{Target: target}
	gl.GenBuffers(1, &buf.ID)
	return buf
}

// BufferData implements gpu.Backend. Uploads go through COPY_WRITE_BUFFER:
// the ELEMENT_ARRAY_BUFFER binding is vertex array state, and binding an
// index buffer here would rewire whichever vertex array is bound.
func (b *Backend) BufferData(buf gpu.Buffer, u gpu.Usage, data []byte) {
	gl.BindBuffer(gl.COPY_WRITE_BUFFER, buf.ID)
	if len(data) == 0 {
		gl.BufferData(gl.COPY_WRITE_BUFFER, 0, nil, usage(u))
	} else {
		gl.BufferData(gl.COPY_WRITE_BUFFER, len(data), gl.Ptr(data), usage(u))
	}
	gl.BindBuffer(gl.COPY_WRITE_BUFFER, 0)
}

// DeleteBuffer implements gpu.Backend.
func (b *Backend) DeleteBuffer(buf gpu.Buffer) {
	gl.DeleteBuffers(1, &buf.ID)
}

// setAttribs enables and points attrs at the currently bound ARRAY_BUFFER.
func setAttribs(first uint32, attrs []gpu.Attrib, stride int, divisor uint32) {
	offset := 0
	for i, a := range attrs {
		loc := first + uint32(i)
		gl.EnableVertexAttribArray(loc)
		if a.Type == gpu.Float {
			gl.VertexAttribPointerWithOffset(loc, int32(a.Size), gl.FLOAT, false, int32(stride), uintptr(offset))
		} else {
			gl.VertexAttribIPointer(loc, int32(a.Size), attribType(a.Type), int32(stride), gl.PtrOffset(offset))
		}
		if divisor != 0 {
			gl.VertexAttribDivisor(loc, divisor)
		}
		offset += a.Bytes()
	}
}

// CreateVertexArray implements gpu.Backend.
func (b *Backend) CreateVertexArray(vbo, ibo gpu.Buffer, attrs []gpu.Attrib) gpu.VertexArray {
	va := gpu.VertexArray{
		Attrs:        append([]gpu.Attrib(nil), attrs...),
		Stride:       gpu.Stride(attrs),
		NextLocation: uint32(len(attrs)),
	}

	gl.GenVertexArrays(1, &va.ID)
	gl.BindVertexArray(va.ID)

	gl.BindBuffer(gl.ARRAY_BUFFER, vbo.ID)
	setAttribs(0, attrs, va.Stride, 0)

	if ibo.ID != 0 {
		gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, ibo.ID)
	}

	gl.BindVertexArray(0)
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
	return va
}

// AddInstanceStream implements gpu.Backend.
func (b *Backend) AddInstanceStream(va *gpu.VertexArray, s gpu.InstanceStream) {
	stride := s.Stride
	if stride == 0 {
		stride = gpu.Stride(s.Attrs)
	}

	gl.BindVertexArray(va.ID)
	gl.BindBuffer(gl.ARRAY_BUFFER, s.Buffer.ID)
	setAttribs(va.NextLocation, s.Attrs, stride, 1)
	gl.BindVertexArray(0)
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)

	va.NextLocation += uint32(len(s.Attrs))
}

// BindVertexArray implements gpu.Backend.
func (b *Backend) BindVertexArray(va gpu.VertexArray) {
	gl.BindVertexArray(va.ID)
}

// DeleteVertexArray implements gpu.Backend.
func (b *Backend) DeleteVertexArray(va gpu.VertexArray) {
	gl.DeleteVertexArrays(1, &va.ID)
}

// SetCullFace implements gpu.Backend.
func (b *Backend) SetCullFace(enabled bool) {
	if enabled {
		gl.Enable(gl.CULL_FACE)
	} else {
		gl.Disable(gl.CULL_FACE)
	}
}

// SetDepthTest implements gpu.Backend.
func (b *Backend) SetDepthTest(enabled bool) {
	if enabled {
		gl.Enable(gl.DEPTH_TEST)
	} else {
		gl.Disable(gl.DEPTH_TEST)
	}
}

// Viewport implements gpu.Backend.
func (b *Backend) Viewport(x, y, width, height int) {
	gl.Viewport(int32(x), int32(y), int32(width), int32(height))
}

// ViewportSize implements gpu.Backend.
func (b *Backend) ViewportSize() (x, y, width, height int) {
	var vp [4]int32
	gl.GetIntegerv(gl.VIEWPORT, &vp[0])
	return int(vp[0]), int(vp[1]), int(vp[2]), int(vp[3])
}

// Clear implements gpu.Backend.
func (b *Backend) Clear(mask gpu.ClearMask, color mgl32.Vec4) {
	var bits uint32
	if mask&gpu.ClearColor != 0 {
		gl.ClearColor(color[0], color[1], color[2], color[3])
		bits |= gl.COLOR_BUFFER_BIT
	}
	if mask&gpu.ClearDepth != 0 {
		bits |= gl.DEPTH_BUFFER_BIT
	}
	gl.Clear(bits)
}

// ClearBufferInt implements gpu.Backend.
func (b *Backend) ClearBufferInt(drawBuffer int, value int32) {
	v := [4]int32{value}
	gl.ClearBufferiv(gl.COLOR, int32(drawBuffer), &v[0])
}

// DrawElements implements gpu.Backend.
func (b *Backend) DrawElements(mode gpu.DrawMode, count int) {
	gl.DrawElements(drawMode(mode), int32(count), gl.UNSIGNED_INT, nil)
}

// DrawElementsInstanced implements gpu.Backend.
func (b *Backend) DrawElementsInstanced(mode gpu.DrawMode, count, instances int) {
	gl.DrawElementsInstanced(drawMode(mode), int32(count), gl.UNSIGNED_INT, nil, int32(instances))
}

// DrawArrays implements gpu.Backend.
func (b *Backend) DrawArrays(mode gpu.DrawMode, first, count int) {
	gl.DrawArrays(drawMode(mode), int32(first), int32(count))
}

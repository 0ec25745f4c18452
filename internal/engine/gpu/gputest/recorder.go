// Package gputest provides a recording gpu.Backend for tests.
package gputest

import (
	"fmt"
	"regexp"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/voxelcore/internal/engine/gpu"
)

// BufferRecord is the recorded state of one buffer.
type BufferRecord struct {
	Target  gpu.BufferTarget
	Usage   gpu.Usage
	Data    []byte
	Uploads int
	Deleted bool
}

// ProgramRecord is the recorded state of one linked program.
type ProgramRecord struct {
	Sources  []gpu.ShaderSource
	Uniforms map[string]int32
	// Values holds the last value set per uniform name.
	Values  map[string]any
	Deleted bool
}

// FramebufferRecord is the recorded state of one framebuffer.
type FramebufferRecord struct {
	Attachments map[gpu.Attachment]gpu.Texture
	DrawBuffers []gpu.Attachment
	ReadBuffer  gpu.Attachment
	Deleted     bool
}

// Draw is one recorded draw call together with the state it used.
type Draw struct {
	Mode        gpu.DrawMode
	Count       int
	Instances   int
	First       int
	Indexed     bool
	Program     uint32
	VertexArray uint32
	Framebuffer uint32
	Cull        bool
	// Uniforms is a snapshot of the bound program's uniform values.
	Uniforms map[string]any
}

// Blit is one recorded framebuffer blit.
type Blit struct {
	Src, Dst   uint32
	SrcW, SrcH int
	DstW, DstH int
	Depth      bool
	Filter     gpu.Filter
}

// Upload is one recorded BufferData call.
type Upload struct {
	Buffer uint32
	Size   int
}

// IntClear is one recorded ClearBufferInt call.
type IntClear struct {
	Framebuffer uint32
	DrawBuffer  int
	Value       int32
}

// Recorder implements gpu.Backend by recording every call. It never talks to a GPU.
type Recorder struct {
	nextID uint32

	Buffers      map[uint32]*BufferRecord
	VertexArrays map[uint32]*gpu.VertexArray
	Streams      map[uint32][]gpu.InstanceStream
	Programs     map[uint32]*ProgramRecord
	Textures     map[uint32]gpu.Texture
	Framebuffers map[uint32]*FramebufferRecord

	Draws   []Draw
	Uploads []Upload
	Blits   []Blit
	Clears  []gpu.ClearMask

	IntClears []IntClear

	BoundProgram     uint32
	BoundVertexArray uint32
	BoundFramebuffer uint32
	BoundTextures    map[uint32]uint32
	CullFace         bool
	DepthTest        bool
	ViewportRect     [4]int

	// CompileError, when set, is returned by CompileProgram.
	CompileError error
	// Pixels, when set, is returned by ReadPixels.
	Pixels []byte
}

var _ gpu.Backend = (*Recorder)(nil)

// New creates an empty recorder with an 800x600 viewport.
func New() *Recorder {
	return &Recorder{
		Buffers:       make(map[uint32]*BufferRecord),
		VertexArrays:  make(map[uint32]*gpu.VertexArray),
		Streams:       make(map[uint32][]gpu.InstanceStream),
		Programs:      make(map[uint32]*ProgramRecord),
		Textures:      make(map[uint32]gpu.Texture),
		Framebuffers:  make(map[uint32]*FramebufferRecord),
		BoundTextures: make(map[uint32]uint32),
		DepthTest:     true,
		ViewportRect:  [4]int{0, 0, 800, 600},
	}
}

func (r *Recorder) id() uint32 {
	r.nextID++
	return r.nextID
}

// Reset clears recorded calls but keeps created resources.
func (r *Recorder) Reset() {
	r.Draws = nil
	r.Uploads = nil
	r.Blits = nil
	r.Clears = nil
	r.IntClears = nil
}

// Uniform returns the last value set for name on program.
func (r *Recorder) Uniform(program uint32, name string) (any, bool) {
	p, ok := r.Programs[program]
	if !ok {
		return nil, false
	}
	v, ok := p.Values[name]
	return v, ok
}

// TotalInstances sums instance counts over recorded instanced draws.
func (r *Recorder) TotalInstances() int {
	n := 0
	for _, d := range r.Draws {
		n += d.Instances
	}
	return n
}

func (r *Recorder) CreateBuffer(target gpu.BufferTarget) gpu.Buffer {
	b := gpu.Buffer{ID: r.id(), Target: target}
	r.Buffers[b.ID] = &BufferRecord{Target: target}
	return b
}

func (r *Recorder) BufferData(b gpu.Buffer, usage gpu.Usage, data []byte) {
	rec, ok := r.Buffers[b.ID]
	if !ok {
		panic(fmt.Sprintf("gputest: upload to unknown buffer %d", b.ID))
	}
	rec.Usage = usage
	rec.Data = append([]byte(nil), data...)
	rec.Uploads++
	r.Uploads = append(r.Uploads, Upload{Buffer: b.ID, Size: len(data)})
}

func (r *Recorder) DeleteBuffer(b gpu.Buffer) {
	if rec, ok := r.Buffers[b.ID]; ok {
		rec.Deleted = true
	}
}

func (r *Recorder) CreateVertexArray(vbo, ibo gpu.Buffer, attrs []gpu.Attrib) gpu.VertexArray {
	va := gpu.VertexArray{
		ID:           r.id(),
		Attrs:        append([]gpu.Attrib(nil), attrs...),
		Stride:       gpu.Stride(attrs),
		NextLocation: uint32(len(attrs)),
	}
	cp := va
	r.VertexArrays[va.ID] = &cp
	return va
}

func (r *Recorder) AddInstanceStream(va *gpu.VertexArray, s gpu.InstanceStream) {
	if s.Stride == 0 {
		s.Stride = gpu.Stride(s.Attrs)
	}
	va.NextLocation += uint32(len(s.Attrs))
	r.Streams[va.ID] = append(r.Streams[va.ID], s)
	if rec, ok := r.VertexArrays[va.ID]; ok {
		rec.NextLocation = va.NextLocation
	}
}

func (r *Recorder) BindVertexArray(va gpu.VertexArray) { r.BoundVertexArray = va.ID }

func (r *Recorder) DeleteVertexArray(va gpu.VertexArray) { delete(r.VertexArrays, va.ID) }

// uniformDecl matches GLSL uniform declarations, e.g. "uniform vec3 u_dark;"
// or "uniform vec3 u_pal[16];".
var uniformDecl = regexp.MustCompile(`\buniform\s+(?:(?:lowp|mediump|highp)\s+)?\w+\s+(\w+)\s*(\[[^\]]*\])?\s*;`)

func (r *Recorder) CompileProgram(sources []gpu.ShaderSource) (uint32, error) {
	if r.CompileError != nil {
		return 0, r.CompileError
	}
	p := &ProgramRecord{
		Sources:  append([]gpu.ShaderSource(nil), sources...),
		Uniforms: make(map[string]int32),
		Values:   make(map[string]any),
	}
	for _, src := range sources {
		for _, m := range uniformDecl.FindAllStringSubmatch(src.Source, -1) {
			name := m[1]
			// Drivers report arrays by their first element.
			if m[2] != "" {
				name += "[0]"
			}
			if _, ok := p.Uniforms[name]; !ok {
				p.Uniforms[name] = int32(len(p.Uniforms))
			}
		}
	}
	id := r.id()
	r.Programs[id] = p
	return id, nil
}

func (r *Recorder) ActiveUniforms(program uint32) map[string]int32 {
	out := make(map[string]int32)
	if p, ok := r.Programs[program]; ok {
		for k, v := range p.Uniforms {
			out[k] = v
		}
	}
	return out
}

func (r *Recorder) UseProgram(program uint32) { r.BoundProgram = program }

func (r *Recorder) DeleteProgram(program uint32) {
	if p, ok := r.Programs[program]; ok {
		p.Deleted = true
	}
}

func (r *Recorder) setUniform(program uint32, loc int32, v any) {
	if loc < 0 {
		return
	}
	p, ok := r.Programs[program]
	if !ok {
		panic(fmt.Sprintf("gputest: uniform on unknown program %d", program))
	}
	for name, l := range p.Uniforms {
		if l == loc {
			p.Values[stripIndex(name)] = v
			return
		}
	}
	panic(fmt.Sprintf("gputest: unknown uniform location %d on program %d", loc, program))
}

func stripIndex(name string) string {
	for i := 0; i < len(name); i++ {
		if name[i] == '[' {
			return name[:i]
		}
	}
	return name
}

func (r *Recorder) UniformMat4(program uint32, loc int32, m mgl32.Mat4) {
	r.setUniform(program, loc, m)
}

func (r *Recorder) Uniform1i(program uint32, loc int32, v int32) { r.setUniform(program, loc, v) }

func (r *Recorder) Uniform1f(program uint32, loc int32, v float32) { r.setUniform(program, loc, v) }

func (r *Recorder) Uniform2f(program uint32, loc int32, v mgl32.Vec2) { r.setUniform(program, loc, v) }

func (r *Recorder) Uniform3f(program uint32, loc int32, v mgl32.Vec3) { r.setUniform(program, loc, v) }

func (r *Recorder) Uniform3fv(program uint32, loc int32, v []mgl32.Vec3) {
	r.setUniform(program, loc, append([]mgl32.Vec3(nil), v...))
}

func (r *Recorder) Uniform4f(program uint32, loc int32, v mgl32.Vec4) { r.setUniform(program, loc, v) }

func (r *Recorder) CreateTexture(spec gpu.TextureSpec) gpu.Texture {
	t := gpu.Texture{ID: r.id(), Spec: spec}
	r.Textures[t.ID] = t
	return t
}

func (r *Recorder) DeleteTexture(t gpu.Texture) { delete(r.Textures, t.ID) }

func (r *Recorder) BindTexture(t gpu.Texture, unit uint32) { r.BoundTextures[unit] = t.ID }

func (r *Recorder) CreateFramebuffer() gpu.Framebuffer {
	fb := gpu.Framebuffer{ID: r.id()}
	r.Framebuffers[fb.ID] = &FramebufferRecord{Attachments: make(map[gpu.Attachment]gpu.Texture)}
	return fb
}

func (r *Recorder) framebuffer(fb gpu.Framebuffer) *FramebufferRecord {
	rec, ok := r.Framebuffers[fb.ID]
	if !ok {
		panic(fmt.Sprintf("gputest: unknown framebuffer %d", fb.ID))
	}
	return rec
}

func (r *Recorder) FramebufferTexture(fb gpu.Framebuffer, a gpu.Attachment, t gpu.Texture) {
	r.framebuffer(fb).Attachments[a] = t
}

func (r *Recorder) CheckFramebuffer(fb gpu.Framebuffer) error {
	if len(r.framebuffer(fb).Attachments) == 0 {
		return fmt.Errorf("framebuffer %d has no attachments", fb.ID)
	}
	return nil
}

func (r *Recorder) BindFramebuffer(fb gpu.Framebuffer) { r.BoundFramebuffer = fb.ID }

func (r *Recorder) DrawBuffers(fb gpu.Framebuffer, attachments []gpu.Attachment) {
	if fb.ID == 0 {
		return
	}
	r.framebuffer(fb).DrawBuffers = append([]gpu.Attachment(nil), attachments...)
}

func (r *Recorder) ReadBuffer(fb gpu.Framebuffer, a gpu.Attachment) {
	if fb.ID == 0 {
		return
	}
	r.framebuffer(fb).ReadBuffer = a
}

func (r *Recorder) BlitFramebuffer(src, dst gpu.Framebuffer, srcW, srcH, dstW, dstH int, depth bool, filter gpu.Filter) {
	r.Blits = append(r.Blits, Blit{
		Src: src.ID, Dst: dst.ID,
		SrcW: srcW, SrcH: srcH,
		DstW: dstW, DstH: dstH,
		Depth: depth, Filter: filter,
	})
}

func (r *Recorder) ReadPixels(fb gpu.Framebuffer, a gpu.Attachment, width, height int) []byte {
	if r.Pixels != nil {
		return append([]byte(nil), r.Pixels...)
	}
	return make([]byte, width*height*4)
}

func (r *Recorder) DeleteFramebuffer(fb gpu.Framebuffer) {
	if rec, ok := r.Framebuffers[fb.ID]; ok {
		rec.Deleted = true
	}
}

func (r *Recorder) Viewport(x, y, width, height int) {
	r.ViewportRect = [4]int{x, y, width, height}
}

func (r *Recorder) ViewportSize() (x, y, width, height int) {
	return r.ViewportRect[0], r.ViewportRect[1], r.ViewportRect[2], r.ViewportRect[3]
}

func (r *Recorder) Clear(mask gpu.ClearMask, color mgl32.Vec4) {
	r.Clears = append(r.Clears, mask)
}

func (r *Recorder) ClearBufferInt(drawBuffer int, value int32) {
	r.IntClears = append(r.IntClears, IntClear{Framebuffer: r.BoundFramebuffer, DrawBuffer: drawBuffer, Value: value})
}

func (r *Recorder) SetCullFace(enabled bool) { r.CullFace = enabled }

func (r *Recorder) SetDepthTest(enabled bool) { r.DepthTest = enabled }

func (r *Recorder) record(d Draw) {
	d.Program = r.BoundProgram
	d.VertexArray = r.BoundVertexArray
	d.Framebuffer = r.BoundFramebuffer
	d.Cull = r.CullFace
	if p, ok := r.Programs[r.BoundProgram]; ok {
		d.Uniforms = make(map[string]any, len(p.Values))
		for k, v := range p.Values {
			d.Uniforms[k] = v
		}
	}
	r.Draws = append(r.Draws, d)
}

func (r *Recorder) DrawElements(mode gpu.DrawMode, count int) {
	r.record(Draw{Mode: mode, Count: count, Indexed: true})
}

func (r *Recorder) DrawElementsInstanced(mode gpu.DrawMode, count, instances int) {
	r.record(Draw{Mode: mode, Count: count, Instances: instances, Indexed: true})
}

func (r *Recorder) DrawArrays(mode gpu.DrawMode, first, count int) {
	r.record(Draw{Mode: mode, First: first, Count: count})
}

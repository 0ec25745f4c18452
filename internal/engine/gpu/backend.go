package gpu

import "github.com/go-gl/mathgl/mgl32"

// Backend is the graphics API consumed by the rendering core. All methods
// must be called from the thread that owns the graphics context.
type Backend interface {
	CreateBuffer(target BufferTarget) Buffer
	BufferData(b Buffer, usage Usage, data []byte)
	DeleteBuffer(b Buffer)

	// CreateVertexArray builds a layout reading interleaved attrs from vbo.
	// ibo may be the zero Buffer for non-indexed geometry.
	CreateVertexArray(vbo, ibo Buffer, attrs []Attrib) VertexArray
	// AddInstanceStream appends per-instance attributes sourced from s.Buffer
	// at divisor 1, starting at va.NextLocation. A 4x4 matrix is four Attrib4f.
	AddInstanceStream(va *VertexArray, s InstanceStream)
	BindVertexArray(va VertexArray)
	DeleteVertexArray(va VertexArray)

	CompileProgram(sources []ShaderSource) (uint32, error)
	// ActiveUniforms returns the raw active uniform names of a linked program
	// mapped to their locations.
	ActiveUniforms(program uint32) map[string]int32
	UseProgram(program uint32)
	DeleteProgram(program uint32)

	UniformMat4(program uint32, loc int32, m mgl32.Mat4)
	Uniform1i(program uint32, loc int32, v int32)
	Uniform1f(program uint32, loc int32, v float32)
	Uniform2f(program uint32, loc int32, v mgl32.Vec2)
	Uniform3f(program uint32, loc int32, v mgl32.Vec3)
	Uniform3fv(program uint32, loc int32, v []mgl32.Vec3)
	Uniform4f(program uint32, loc int32, v mgl32.Vec4)

	CreateTexture(spec TextureSpec) Texture
	DeleteTexture(t Texture)
	BindTexture(t Texture, unit uint32)

	CreateFramebuffer() Framebuffer
	FramebufferTexture(fb Framebuffer, a Attachment, t Texture)
	CheckFramebuffer(fb Framebuffer) error
	BindFramebuffer(fb Framebuffer)
	DrawBuffers(fb Framebuffer, attachments []Attachment)
	ReadBuffer(fb Framebuffer, a Attachment)
	BlitFramebuffer(src, dst Framebuffer, srcW, srcH, dstW, dstH int, depth bool, filter Filter)
	ReadPixels(fb Framebuffer, a Attachment, width, height int) []byte
	DeleteFramebuffer(fb Framebuffer)

	Viewport(x, y, width, height int)
	ViewportSize() (x, y, width, height int)
	Clear(mask ClearMask, color mgl32.Vec4)
	// ClearBufferInt clears the integer color attachment selected by the
	// drawBuffer-th entry of the bound framebuffer's draw buffers.
	ClearBufferInt(drawBuffer int, value int32)
	SetCullFace(enabled bool)
	SetDepthTest(enabled bool)

	DrawElements(mode DrawMode, count int)
	DrawElementsInstanced(mode DrawMode, count, instances int)
	DrawArrays(mode DrawMode, first, count int)
}

package opengl

import (
	"fmt"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/voxelcore/internal/engine/gpu"
)

func shaderType(s gpu.ShaderStage) uint32 {
	if s == gpu.FragmentStage {
		return gl.FRAGMENT_SHADER
	}
	return gl.VERTEX_SHADER
}

// CompileProgram compiles every stage and links them into a program.
// Returns the program ID or an error if compilation/linking fails.
func (b *Backend) CompileProgram(sources []gpu.ShaderSource) (uint32, error) {
	ids := make([]uint32, 0, len(sources))
	defer func() {
		for _, id := range ids {
			gl.DeleteShader(id)
		}
	}()

	for _, src := range sources {
		id, err := compileShader(src.Source, shaderType(src.Stage))
		if err != nil {
			return 0, fmt.Errorf("%s shader %s: %w", src.Stage, src.Name, err)
		}
		ids = append(ids, id)
	}

	program := gl.CreateProgram()
	for _, id := range ids {
		gl.AttachShader(program, id)
	}
	gl.LinkProgram(program)

	var status int32
	gl.GetProgramiv(program, gl.LINK_STATUS, &status)
	if status == gl.FALSE {
		var logLen int32
		gl.GetProgramiv(program, gl.INFO_LOG_LENGTH, &logLen)
		log := make([]byte, logLen+1)
		gl.GetProgramInfoLog(program, logLen, nil, &log[0])
		gl.DeleteProgram(program)
		return 0, fmt.Errorf("link: %s", gl.GoStr(&log[0]))
	}

	return program, nil
}

// compileShader compiles a single shader of the given type.
func compileShader(source string, kind uint32) (uint32, error) {
	shader := gl.CreateShader(kind)
	csource, free := gl.Strs(source + "\x00")
	gl.ShaderSource(shader, 1, csource, nil)
	free()
	gl.CompileShader(shader)

	var status int32
	gl.GetShaderiv(shader, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		var logLen int32
		gl.GetShaderiv(shader, gl.INFO_LOG_LENGTH, &logLen)
		log := make([]byte, logLen+1)
		gl.GetShaderInfoLog(shader, logLen, nil, &log[0])
		gl.DeleteShader(shader)
		return 0, fmt.Errorf("%s", gl.GoStr(&log[0]))
	}

	return shader, nil
}

// ActiveUniforms implements gpu.Backend.
func (b *Backend) ActiveUniforms(program uint32) map[string]int32 {
	var count int32
	gl.GetProgramiv(program, gl.ACTIVE_UNIFORMS, &count)

	locs := make(map[string]int32, count)
	name := make([]uint8, 128)
	for i := int32(0); i < count; i++ {
		var length, size int32
		var kind uint32
		gl.GetActiveUniform(program, uint32(i), int32(len(name)), &length, &size, &kind, &name[0])
		n := string(name[:length])
		locs[n] = gl.GetUniformLocation(program, gl.Str(n+"\x00"))
	}
	return locs
}

// UseProgram implements gpu.Backend.
func (b *Backend) UseProgram(program uint32) {
	gl.UseProgram(program)
}

// DeleteProgram implements gpu.Backend.
func (b *Backend) DeleteProgram(program uint32) {
	gl.DeleteProgram(program)
}

// UniformMat4 implements gpu.Backend. Matrices are column-major, uploaded untransposed.
func (b *Backend) UniformMat4(program uint32, loc int32, m mgl32.Mat4) {
	gl.ProgramUniformMatrix4fv(program, loc, 1, false, &m[0])
}

// Uniform1i implements gpu.Backend.
func (b *Backend) Uniform1i(program uint32, loc int32, v int32) {
	gl.ProgramUniform1i(program, loc, v)
}

// Uniform1f implements gpu.Backend.
func (b *Backend) Uniform1f(program uint32, loc int32, v float32) {
	gl.ProgramUniform1f(program, loc, v)
}

// Uniform2f implements gpu.Backend.
func (b *Backend) Uniform2f(program uint32, loc int32, v mgl32.Vec2) {
	gl.ProgramUniform2f(program, loc, v[0], v[1])
}

// Uniform3f implements gpu.Backend.
func (b *Backend) Uniform3f(program uint32, loc int32, v mgl32.Vec3) {
	gl.ProgramUniform3f(program, loc, v[0], v[1], v[2])
}

// Uniform3fv implements gpu.Backend.
func (b *Backend) Uniform3fv(program uint32, loc int32, v []mgl32.Vec3) {
	if len(v) == 0 {
		return
	}
	gl.ProgramUniform3fv(program, loc, int32(len(v)), &v[0][0])
}

// Uniform4f implements gpu.Backend.
func (b *Backend) Uniform4f(program uint32, loc int32, v mgl32.Vec4) {
	gl.ProgramUniform4f(program, loc, v[0], v[1], v[2], v[3])
}

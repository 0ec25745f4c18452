// Package shader loads GLSL programs from a file system and tracks their uniforms.
package shader

import (
	"bufio"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"strings"

	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"github.com/Faultbox/voxelcore/internal/engine/gpu"
	"github.com/Faultbox/voxelcore/internal/logger"
)

// ErrCompile is wrapped by every compile or link failure.
var ErrCompile = errors.New("shader compile failed")

// maxIncludeDepth bounds nested #include expansion.
const maxIncludeDepth = 8

// Stage names one source file of a program.
type Stage struct {
	Kind gpu.ShaderStage
	Path string
}

// Vertex returns a vertex stage read from path.
func Vertex(path string) Stage { return Stage{Kind: gpu.VertexStage, Path: path} }

// Fragment returns a fragment stage read from path.
func Fragment(path string) Stage { return Stage{Kind: gpu.FragmentStage, Path: path} }

// Program is a linked shader program with its active uniform locations.
type Program struct {
	be       gpu.Backend
	id       uint32
	name     string
	uniforms map[string]int32
}

// New reads, expands and links stages into a program.
func New(be gpu.Backend, fsys fs.FS, stages ...Stage) (*Program, error) {
	if len(stages) == 0 {
		return nil, fmt.Errorf("%w: no stages", ErrCompile)
	}

	sources := make([]gpu.ShaderSource, 0, len(stages))
	names := make([]string, 0, len(stages))
	for _, st := range stages {
		src, err := expand(fsys, st.Path, 0)
		if err != nil {
			return nil, err
		}
		sources = append(sources, gpu.ShaderSource{Stage: st.Kind, Name: st.Path, Source: src})
		names = append(names, st.Path)
	}

	name := strings.Join(names, "+")
	id, err := be.CompileProgram(sources)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrCompile, name, err)
	}

	p := &Program{
		be:       be,
		id:       id,
		name:     name,
		uniforms: make(map[string]int32),
	}
	for raw, loc := range be.ActiveUniforms(id) {
		// Arrays are reported as "name[0]".
		if i := strings.IndexByte(raw, '['); i >= 0 {
			raw = raw[:i]
		}
		p.uniforms[raw] = loc
	}

	logger.Debug("shader program linked",
		zap.String("name", name),
		zap.Uint32("id", id),
		zap.Int("uniforms", len(p.uniforms)),
	)
	return p, nil
}

// expand reads file and inlines `#include "other"` directives relative to it.
func expand(fsys fs.FS, file string, depth int) (string, error) {
	if depth > maxIncludeDepth {
		return "", fmt.Errorf("%w: include depth exceeded at %s", ErrCompile, file)
	}
	data, err := fs.ReadFile(fsys, file)
	if err != nil {
		return "", fmt.Errorf("read shader %s: %w", file, err)
	}

	var out strings.Builder
	sc := bufio.NewScanner(strings.NewReader(string(data)))
	for sc.Scan() {
		line := sc.Text()
		trimmed := strings.TrimSpace(line)
		if rest, ok := strings.CutPrefix(trimmed, "#include"); ok {
			target := strings.Trim(strings.TrimSpace(rest), `"<>`)
			if target == "" {
				return "", fmt.Errorf("%w: empty #include in %s", ErrCompile, file)
			}
			inc, err := expand(fsys, path.Join(path.Dir(file), target), depth+1)
			if err != nil {
				return "", err
			}
			out.WriteString(inc)
			continue
		}
		out.WriteString(line)
		out.WriteByte('\n')
	}
	if err := sc.Err(); err != nil {
		return "", fmt.Errorf("read shader %s: %w", file, err)
	}
	return out.String(), nil
}

// ID returns the backend program handle.
func (p *Program) ID() uint32 { return p.id }

// Name returns the joined stage paths.
func (p *Program) Name() string { return p.name }

// Use makes p the current program.
func (p *Program) Use() { p.be.UseProgram(p.id) }

// Loc returns the location of uniform name, or -1 if it is not active.
func (p *Program) Loc(name string) int32 {
	if loc, ok := p.uniforms[name]; ok {
		return loc
	}
	return -1
}

// Has reports whether name is an active uniform.
func (p *Program) Has(name string) bool {
	_, ok := p.uniforms[name]
	return ok
}

// Setters ignore inactive uniforms.

func (p *Program) Mat4(name string, m mgl32.Mat4) {
	if loc := p.Loc(name); loc >= 0 {
		p.be.UniformMat4(p.id, loc, m)
	}
}

func (p *Program) Int(name string, v int32) {
	if loc := p.Loc(name); loc >= 0 {
		p.be.Uniform1i(p.id, loc, v)
	}
}

func (p *Program) Float(name string, v float32) {
	if loc := p.Loc(name); loc >= 0 {
		p.be.Uniform1f(p.id, loc, v)
	}
}

func (p *Program) Vec2(name string, v mgl32.Vec2) {
	if loc := p.Loc(name); loc >= 0 {
		p.be.Uniform2f(p.id, loc, v)
	}
}

func (p *Program) Vec3(name string, v mgl32.Vec3) {
	if loc := p.Loc(name); loc >= 0 {
		p.be.Uniform3f(p.id, loc, v)
	}
}

func (p *Program) Vec3Array(name string, v []mgl32.Vec3) {
	if loc := p.Loc(name); loc >= 0 {
		p.be.Uniform3fv(p.id, loc, v)
	}
}

func (p *Program) Vec4(name string, v mgl32.Vec4) {
	if loc := p.Loc(name); loc >= 0 {
		p.be.Uniform4f(p.id, loc, v)
	}
}

// Delete releases the program.
func (p *Program) Delete() {
	p.be.DeleteProgram(p.id)
}

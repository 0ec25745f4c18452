package model

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/multierr"
)

var (
	// ErrMaterialNotFound is returned when a mesh names a material missing from the table.
	ErrMaterialNotFound = errors.New("material not found")
	// ErrMalformedMaterial is returned for a material record that does not parse.
	ErrMalformedMaterial = errors.New("malformed material")
)

// MaterialExt replaces the final extension of a model path to locate its material table.
const MaterialExt = ".mtl.txt"

// Material holds the shading parameters of a mesh.
type Material struct {
	// Dark and Light index the palette.
	Dark  uint32
	Light uint32
	// LightModel weights ambient, diffuse and specular terms.
	LightModel   mgl32.Vec3
	Shine        float32
	Cull         bool
	Wind         float32
	Transmission float32
	Alpha        float32
}

// Materials maps a material name to its parameters.
type Materials map[string]Material

// Lookup resolves the material for a mesh name, ignoring everything from the first '.'.
func (m Materials) Lookup(meshName string) (Material, error) {
	key := MaterialKey(meshName)
	mat, ok := m[key]
	if !ok {
		return Material{}, fmt.Errorf("%w: %q (mesh %q)", ErrMaterialNotFound, key, meshName)
	}
	return mat, nil
}

// MaterialKey strips sub-extensions from a mesh name: "Rock.001" becomes "Rock".
func MaterialKey(meshName string) string {
	if i := strings.IndexByte(meshName, '.'); i >= 0 {
		return meshName[:i]
	}
	return meshName
}

// MaterialPath returns the material table path for a model source path.
func MaterialPath(sourcePath string) string {
	return strings.TrimSuffix(sourcePath, filepath.Ext(sourcePath)) + MaterialExt
}

// LoadMaterials reads a material table from disk.
func LoadMaterials(path string) (Materials, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("load materials: %w", err)
	}
	defer f.Close()

	mats, err := ParseMaterials(f)
	if err != nil {
		return nil, fmt.Errorf("load materials %s: %w", path, err)
	}
	return mats, nil
}

// ParseMaterials reads whitespace-separated records, one per line:
//
//	name dark light lm.x lm.y lm.z shine cull wind transmission [alpha]
//
// Alpha defaults to 1. Blank lines and lines starting with '#' are skipped.
// Later records override earlier ones with the same name.
func ParseMaterials(r io.Reader) (Materials, error) {
	mats := make(Materials)
	sc := bufio.NewScanner(r)
	line := 0
	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}

		name, mat, err := parseMaterial(strings.Fields(text))
		if err != nil {
			return nil, fmt.Errorf("line %d %q: %w", line, text, err)
		}
		mats[name] = mat
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read materials: %w", err)
	}
	return mats, nil
}

func parseMaterial(fields []string) (string, Material, error) {
	if len(fields) < 10 {
		return "", Material{}, fmt.Errorf("%w: %d fields, need at least 10", ErrMalformedMaterial, len(fields))
	}

	var (
		mat  = Material{Alpha: 1}
		errs []error
	)
	u32 := func(s string) uint32 {
		v, err := strconv.ParseUint(s, 10, 32)
		errs = append(errs, err)
		return uint32(v)
	}
	f32 := func(s string) float32 {
		v, err := strconv.ParseFloat(s, 32)
		errs = append(errs, err)
		return float32(v)
	}
	i32 := func(s string) int64 {
		v, err := strconv.ParseInt(s, 10, 32)
		errs = append(errs, err)
		return v
	}

	mat.Dark = u32(fields[1])
	mat.Light = u32(fields[2])
	mat.LightModel = mgl32.Vec3{f32(fields[3]), f32(fields[4]), f32(fields[5])}
	mat.Shine = f32(fields[6])
	mat.Cull = i32(fields[7]) != 0
	mat.Wind = f32(fields[8])
	mat.Transmission = f32(fields[9])
	if len(fields) > 10 {
		mat.Alpha = f32(fields[10])
	}

	if err := multierr.Combine(errs...); err != nil {
		return "", Material{}, fmt.Errorf("%w: %v", ErrMalformedMaterial, err)
	}
	return fields[0], mat, nil
}

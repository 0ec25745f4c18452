// Package palette holds the indexed color palettes materials refer to.
package palette

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/go-gl/mathgl/mgl32"
)

// Palette is an ordered list of linear RGB colors.
type Palette []mgl32.Vec3

// DreamyHaze is the default 16-color palette.
var DreamyHaze = MustParseHex(
	"1a1423", "372549", "774c60", "b75d69",
	"eacdc2", "f4e9cd", "9db4c0", "5c6b73",
	"253237", "4f6d7a", "c0d6df", "dbe9ee",
	"e8dab2", "dd6e42", "7f9c96", "3e5641",
)

// ParseHex builds a palette from "rrggbb" strings, with or without a leading '#'.
func ParseHex(colors ...string) (Palette, error) {
	p := make(Palette, 0, len(colors))
	for _, c := range colors {
		h := strings.TrimPrefix(strings.TrimSpace(c), "#")
		if len(h) != 6 {
			return nil, fmt.Errorf("palette color %q: want 6 hex digits", c)
		}
		v, err := strconv.ParseUint(h, 16, 32)
		if err != nil {
			return nil, fmt.Errorf("palette color %q: %w", c, err)
		}
		p = append(p, mgl32.Vec3{
			float32(v>>16&0xff) / 255,
			float32(v>>8&0xff) / 255,
			float32(v&0xff) / 255,
		})
	}
	if len(p) == 0 {
		return nil, fmt.Errorf("palette is empty")
	}
	return p, nil
}

// MustParseHex is like ParseHex but panics on error.
func MustParseHex(colors ...string) Palette {
	p, err := ParseHex(colors...)
	if err != nil {
		panic(err)
	}
	return p
}

// At returns color i. Indices past the end clamp to the last color.
func (p Palette) At(i uint32) mgl32.Vec3 {
	if int(i) >= len(p) {
		return p[len(p)-1]
	}
	return p[i]
}

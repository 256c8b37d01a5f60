package svgparse

import (
	"encoding/hex"
	"fmt"
	"image/color"
	"math"
	"strings"

	"github.com/benoitkugler/svgimport/svgshape"
	"golang.org/x/image/colornames"
)

// colorCache stores the keyword and hexadecimal colors already parsed.
type colorCache map[string]color.NRGBA

func parseHexColor(s string) (color.NRGBA, error) {
	var rgba [4]byte
	rgba[3] = 0xff
	switch len(s) {
	case 3, 4: // short form: each digit is doubled
		for i := range s {
			b, err := hex.DecodeString(string([]byte{s[i], s[i]}))
			if err != nil {
				return color.NRGBA{}, err
			}
			rgba[i] = b[0]
		}
	case 6, 8:
		b, err := hex.DecodeString(s)
		if err != nil {
			return color.NRGBA{}, err
		}
		copy(rgba[:], b)
	default:
		return color.NRGBA{}, fmt.Errorf("invalid hex length %d", len(s))
	}
	return color.NRGBA{R: rgba[0], G: rgba[1], B: rgba[2], A: rgba[3]}, nil
}

// parseColorComponent reads an integer in [0, 255] or a percentage.
func parseColorComponent(s string) (uint8, error) {
	f, unit, err := splitDimension(s)
	if err != nil {
		return 0, err
	}
	switch unit {
	case "%":
		f = f * 255 / 100
	case "":
	default:
		return 0, fmt.Errorf("invalid color component %q", s)
	}
	return uint8(math.Round(math.Max(0, math.Min(255, f)))), nil
}

// parseRGBFunc handles rgb() and rgba(), with comma or space
// separated components and an optional alpha value.
func parseRGBFunc(s string) (color.NRGBA, error) {
	open, end := strings.IndexByte(s, '('), strings.LastIndexByte(s, ')')
	if open == -1 || end < open {
		return color.NRGBA{}, fmt.Errorf("unterminated function")
	}
	comps := strings.FieldsFunc(s[open+1:end], func(r rune) bool {
		return r == ',' || r == ' ' || r == '/' || r == '\t' || r == '\n'
	})
	if len(comps) != 3 && len(comps) != 4 {
		return color.NRGBA{}, fmt.Errorf("expected 3 or 4 components, got %d", len(comps))
	}
	var (
		out = color.NRGBA{A: 0xff}
		err error
	)
	if out.R, err = parseColorComponent(comps[0]); err != nil {
		return out, err
	}
	if out.G, err = parseColorComponent(comps[1]); err != nil {
		return out, err
	}
	if out.B, err = parseColorComponent(comps[2]); err != nil {
		return out, err
	}
	if len(comps) == 4 {
		alpha, err := fraction(comps[3])
		if err != nil {
			return out, err
		}
		out.A = uint8(math.Round(clamp01(alpha) * 0xff))
	}
	return out, nil
}

// parseColor parses a color value. `none`, `currentColor`
// and paint server references are handled by the caller.
func (cache colorCache) parseColor(s string) (color.NRGBA, error) {
	s = strings.TrimSpace(s)
	key := strings.ToLower(s)
	if c, ok := cache[key]; ok {
		return c, nil
	}
	var (
		c   color.NRGBA
		err error
	)
	switch {
	case strings.HasPrefix(key, "#"):
		c, err = parseHexColor(key[1:])
	case strings.HasPrefix(key, "rgb"):
		c, err = parseRGBFunc(key)
		if err == nil {
			return c, nil // functions are rarely repeated: not cached
		}
	case key == "transparent":
		c = color.NRGBA{}
	default:
		named, ok := colornames.Map[key]
		if !ok {
			err = fmt.Errorf("unknown keyword")
		}
		c = color.NRGBA{R: named.R, G: named.G, B: named.B, A: named.A}
	}
	if err != nil {
		return color.NRGBA{}, fmt.Errorf("%q: %w: %s", s, ErrBadColor, err)
	}
	cache[key] = c
	return c, nil
}

// parsePaint parses a `fill` or `stroke` value, in the context `ctx`.
// References to paint servers are classified, but resolved
// later, when the shape is known.
func (r *registry) parsePaint(ctx *Context, s string) (paintSpec, error) {
	s = strings.TrimSpace(s)
	// keywords are case insensitive
	switch {
	case strings.EqualFold(s, "none"):
		return paintSpec{kind: svgshape.PaintNone}, nil
	case strings.EqualFold(s, "currentColor"):
		return paintSpec{kind: svgshape.PaintSolid, color: ctx.currentColor}, nil
	}
	if !strings.HasPrefix(s, "url(") {
		c, err := r.colors.parseColor(s)
		if err != nil {
			return paintSpec{}, err
		}
		return paintSpec{kind: svgshape.PaintSolid, color: c}, nil
	}

	end := strings.IndexByte(s, ')')
	if end == -1 {
		return paintSpec{}, fmt.Errorf("%q: %w", s, ErrUnknownPaint)
	}
	id := strings.Trim(strings.TrimSpace(s[4:end]), `"'`)
	id = strings.TrimPrefix(id, "#")

	var out paintSpec
	if fallback := strings.TrimSpace(s[end+1:]); fallback != "" {
		fb, err := r.parsePaint(ctx, fallback)
		if err == nil && fb.kind == svgshape.PaintSolid {
			out.color, out.hasFallback = fb.color, true
		}
	}
	switch {
	case r.gradients[id] != nil:
		out.kind, out.id = svgshape.PaintGradient, id
	case r.patterns[id] != nil:
		out.kind, out.id = svgshape.PaintPattern, id
	default:
		// degrade to the fallback
		err := fmt.Errorf("paint %q: %w", id, ErrMissingID)
		if out.hasFallback {
			out.kind = svgshape.PaintSolid
		}
		return out, err
	}
	return out, nil
}

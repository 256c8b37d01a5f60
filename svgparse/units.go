package svgparse

import (
	"fmt"
	"math"
	"strings"

	"github.com/benoitkugler/svgimport/svgpath"
	"github.com/tdewolff/parse/v2"
	"github.com/tdewolff/parse/v2/strconv"
)

// Axis selects the reference dimension of percentages.
type Axis uint8

const (
	AxisX  Axis = iota // width of the reference box
	AxisY              // height of the reference box
	AxisXY             // normalized diagonal of the reference box
)

// size of the units, in points (one user unit is one point)
var unitSizes = map[string]float64{
	"":   1,
	"px": 1,
	"pt": 1,
	"pc": 12,
	"in": 72,
	"cm": 72 / 2.54,
	"mm": 72 / 25.4,
}

func (ax Axis) reference(bbox svgpath.Bounds) float64 {
	switch ax {
	case AxisX:
		return bbox.W
	case AxisY:
		return bbox.H
	default:
		return bbox.Diagonal()
	}
}

// lengthResolver holds the context needed to convert lengths.
type lengthResolver struct {
	bbox            svgpath.Bounds
	fontSize        float64
	forcePercentage bool
}

// splitDimension returns the number and the lowercased unit of `s`.
func splitDimension(s string) (float64, string, error) {
	s = strings.TrimSpace(s)
	b := []byte(s)
	num, unit := parse.Dimension(b)
	if num == 0 || num+unit != len(b) {
		return 0, "", fmt.Errorf("%q: %w", s, ErrBadLength)
	}
	f, n := strconv.ParseFloat(b[:num])
	if n != num {
		return 0, "", fmt.Errorf("%q: %w", s, ErrBadLength)
	}
	return f, strings.ToLower(s[num:]), nil
}

func (lr lengthResolver) resolve(s string, ax Axis) (float64, error) {
	f, unit, err := splitDimension(s)
	if err != nil {
		return 0, err
	}
	switch unit {
	case "%":
		return f / 100 * ax.reference(lr.bbox), nil
	case "em":
		return f * lr.fontSize, nil
	case "ex":
		return f * lr.fontSize / 2, nil
	case "":
		if lr.forcePercentage {
			return f * ax.reference(lr.bbox), nil
		}
	}
	size, ok := unitSizes[unit]
	if !ok {
		return 0, fmt.Errorf("unknown unit in %q: %w", s, ErrBadLength)
	}
	return f * size, nil
}

// ResolveLength converts `text` to points, resolving percentages
// against `bbox`. It returns 0 for empty or invalid input.
func ResolveLength(text string, ax Axis, bbox svgpath.Bounds) float64 {
	v, _ := lengthResolver{bbox: bbox, fontSize: 12}.resolve(text, ax)
	return v
}

func (ctx Context) lengths() lengthResolver {
	return lengthResolver{bbox: ctx.currentBoundingBox, fontSize: ctx.font.Size, forcePercentage: ctx.forcePercentage}
}

// length resolves `s` in the context. Missing attributes
// (empty `s`) silently return `def`; invalid ones are reported and
// also return `def`.
func (p *Parser) length(s string, ax Axis, def float64) float64 {
	if strings.TrimSpace(s) == "" {
		return def
	}
	v, err := p.top().lengths().resolve(s, ax)
	if err != nil {
		p.warn(err)
		return def
	}
	return v
}

// fraction reads a number or a percentage, as used
// for offsets and opacities.
func fraction(s string) (float64, error) {
	f, unit, err := splitDimension(s)
	if err != nil {
		return 0, err
	}
	switch unit {
	case "":
		return f, nil
	case "%":
		return f / 100, nil
	default:
		return 0, fmt.Errorf("%q: %w", s, ErrBadLength)
	}
}

func clamp01(v float64) float64 { return math.Max(0, math.Min(1, v)) }

package svgparse

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/benoitkugler/svgimport/svgpath"
	"github.com/srwiley/rasterx"
)

func readTransformFunc(m1 rasterx.Matrix2D, k string, points []float64) (rasterx.Matrix2D, error) {
	ln := len(points)
	switch k {
	case "rotate":
		if ln == 1 {
			m1 = m1.Rotate(points[0] * math.Pi / 180)
		} else if ln == 3 {
			m1 = m1.Translate(points[1], points[2]).
				Rotate(points[0]*math.Pi/180).
				Translate(-points[1], -points[2])
		} else {
			return m1, ErrParamMismatch
		}
	case "translate":
		if ln == 1 {
			m1 = m1.Translate(points[0], 0)
		} else if ln == 2 {
			m1 = m1.Translate(points[0], points[1])
		} else {
			return m1, ErrParamMismatch
		}
	case "skewx":
		if ln == 1 {
			m1 = m1.SkewX(points[0] * math.Pi / 180)
		} else {
			return m1, ErrParamMismatch
		}
	case "skewy":
		if ln == 1 {
			m1 = m1.SkewY(points[0] * math.Pi / 180)
		} else {
			return m1, ErrParamMismatch
		}
	case "scale":
		if ln == 1 {
			m1 = m1.Scale(points[0], points[0])
		} else if ln == 2 {
			m1 = m1.Scale(points[0], points[1])
		} else {
			return m1, ErrParamMismatch
		}
	case "matrix":
		if ln == 6 {
			m1 = m1.Mult(rasterx.Matrix2D{
				A: points[0],
				B: points[1],
				C: points[2],
				D: points[3],
				E: points[4],
				F: points[5]})
		} else {
			return m1, ErrParamMismatch
		}
	default:
		return m1, fmt.Errorf("unknown function %q", k)
	}
	return m1, nil
}

// ParseTransform parses a transform list. Functions are
// composed from left to right, so that the first one is the outermost.
// Invalid functions are skipped: the returned matrix is always usable,
// and the error, if any, wraps ErrBadTransform.
func ParseTransform(v string) (rasterx.Matrix2D, error) {
	m1 := rasterx.Identity
	var errs []error
	for {
		v = strings.TrimLeft(v, " \t\n\r,")
		if v == "" {
			break
		}
		open := strings.IndexByte(v, '(')
		end := strings.IndexByte(v, ')')
		if open == -1 || end == -1 || end < open {
			errs = append(errs, fmt.Errorf("%q: %w", v, ErrBadTransform))
			break
		}
		name := strings.ToLower(strings.TrimSpace(v[:open]))
		points, err := svgpath.ReadNumbers(v[open+1 : end])
		if err == nil {
			var m2 rasterx.Matrix2D
			m2, err = readTransformFunc(m1, name, points)
			if err == nil {
				m1 = m2
			}
		}
		if err != nil {
			errs = append(errs, fmt.Errorf("%q: %w: %w", v[:end+1], ErrBadTransform, err))
		}
		v = v[end+1:]
	}
	return m1, errors.Join(errs...)
}

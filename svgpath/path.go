// Package svgpath implements an abstract representation of
// svg paths, together with the conversion of the basic SVG
// shapes (rect, circle, polyline...) and path data into paths.
package svgpath

import (
	"fmt"
	"math"
	"strings"

	"github.com/srwiley/rasterx"
	"golang.org/x/image/math/fixed"
)

type pathCommand uint8

// Human readable path constants
const (
	pathMoveTo pathCommand = iota
	pathLineTo
	pathQuadTo
	pathCubicTo
	pathClose
)

// Operation groups the different SVG commands
type Operation interface {
	command() pathCommand
	// transform returns the operation with its points mapped by `m`
	transform(m rasterx.Matrix2D) Operation
}

// Point is a point in the user space of the path. Coordinates are
// kept in full precision: they may be scaled up by the node transform.
type Point struct{ X, Y float64 }

// Fixed rounds the point to the fixed precision used by rasterx.
func (p Point) Fixed() fixed.Point26_6 {
	return fixed.Point26_6{X: fixed.Int26_6(math.Round(p.X * 64)), Y: fixed.Int26_6(math.Round(p.Y * 64))}
}

func pt(x, y float64) Point { return Point{X: x, Y: y} }

type MoveTo Point

type LineTo Point

type QuadTo [2]Point

type CubicTo [3]Point

type Close struct{}

func (MoveTo) command() pathCommand  { return pathMoveTo }
func (LineTo) command() pathCommand  { return pathLineTo }
func (QuadTo) command() pathCommand  { return pathQuadTo }
func (CubicTo) command() pathCommand { return pathCubicTo }
func (Close) command() pathCommand   { return pathClose }

func (op MoveTo) transform(m rasterx.Matrix2D) Operation {
	return MoveTo(trPoint(m, Point(op)))
}

func (op LineTo) transform(m rasterx.Matrix2D) Operation {
	return LineTo(trPoint(m, Point(op)))
}

func (op QuadTo) transform(m rasterx.Matrix2D) Operation {
	return QuadTo{trPoint(m, op[0]), trPoint(m, op[1])}
}

func (op CubicTo) transform(m rasterx.Matrix2D) Operation {
	return CubicTo{trPoint(m, op[0]), trPoint(m, op[1]), trPoint(m, op[2])}
}

func (op Close) transform(rasterx.Matrix2D) Operation { return op }

func trPoint(m rasterx.Matrix2D, p Point) Point {
	return pt(m.Transform(p.X, p.Y))
}

// Path describes a sequence of basic SVG operations, which should not be nil
// Higher-level shapes may be reduced to a path.
type Path []Operation

// ToSVGPath returns a string representation of the path
func (p Path) ToSVGPath() string {
	chunks := make([]string, len(p))
	for i, op := range p {
		switch op := op.(type) {
		case MoveTo:
			chunks[i] = fmt.Sprintf("M%4.3f,%4.3f", op.X, op.Y)
		case LineTo:
			chunks[i] = fmt.Sprintf("L%4.3f,%4.3f", op.X, op.Y)
		case QuadTo:
			chunks[i] = fmt.Sprintf("Q%4.3f,%4.3f,%4.3f,%4.3f", op[0].X, op[0].Y, op[1].X, op[1].Y)
		case CubicTo:
			chunks[i] = fmt.Sprintf("C%4.3f,%4.3f,%4.3f,%4.3f,%4.3f,%4.3f", op[0].X, op[0].Y,
				op[1].X, op[1].Y, op[2].X, op[2].Y)
		case Close:
			chunks[i] = "Z"
		}
	}
	return strings.Join(chunks, " ")
}

// String returns a readable representation of a Path.
func (p Path) String() string {
	return p.ToSVGPath()
}

// Clear zeros the path slice
func (p *Path) Clear() {
	*p = (*p)[:0]
}

// Start starts a new curve at the given point.
func (p *Path) Start(a Point) {
	*p = append(*p, MoveTo(a))
}

// Line adds a linear segment to the current curve.
func (p *Path) Line(b Point) {
	*p = append(*p, LineTo(b))
}

// QuadBezier adds a quadratic segment to the current curve.
func (p *Path) QuadBezier(b, c Point) {
	*p = append(*p, QuadTo{b, c})
}

// CubeBezier adds a cubic segment to the current curve.
func (p *Path) CubeBezier(b, c, d Point) {
	*p = append(*p, CubicTo{b, c, d})
}

// Stop joins the ends of the path
func (p *Path) Stop(closeLoop bool) {
	if closeLoop {
		*p = append(*p, Close{})
	}
}

// Copy returns a deep copy of the path.
func (p Path) Copy() Path {
	return append(Path(nil), p...)
}

// Transform returns a new path, with all its points mapped by `m`.
func (p Path) Transform(m rasterx.Matrix2D) Path {
	out := make(Path, len(p))
	for i, op := range p {
		out[i] = op.transform(m)
	}
	return out
}

// IsClosed returns true if the last operation closes the path.
func (p Path) IsClosed() bool {
	if len(p) == 0 {
		return false
	}
	_, ok := p[len(p)-1].(Close)
	return ok
}

// AddTo replays the path on a rasterx adder, such as a
// rasterx.Filler or rasterx.Dasher, rounding the points to fixed precision.
func (p Path) AddTo(adder rasterx.Adder) {
	var started bool
	for _, op := range p {
		switch op := op.(type) {
		case MoveTo:
			if started {
				adder.Stop(false)
			}
			adder.Start(Point(op).Fixed())
			started = true
		case LineTo:
			adder.Line(Point(op).Fixed())
		case QuadTo:
			adder.QuadBezier(op[0].Fixed(), op[1].Fixed())
		case CubicTo:
			adder.CubeBezier(op[0].Fixed(), op[1].Fixed(), op[2].Fixed())
		case Close:
			adder.Stop(true)
			started = false
		}
	}
	if started {
		adder.Stop(false)
	}
}

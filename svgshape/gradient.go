package svgshape

import (
	"image/color"

	"github.com/benoitkugler/svgimport/svgpath"
	"github.com/srwiley/rasterx"
)

// GradientUnits is the type for gradient units
type GradientUnits byte

// SVG bounds paremater constants
const (
	ObjectBoundingBox GradientUnits = iota
	UserSpaceOnUse
)

// SpreadMethod is the type for spread parameters
type SpreadMethod byte

// SVG spread parameter constants
const (
	PadSpread SpreadMethod = iota
	ReflectSpread
	RepeatSpread
)

// GradStop represents a stop in the SVG 2.0 gradient specification
type GradStop struct {
	StopColor color.NRGBA
	Offset    float64
	Opacity   float64
}

// Gradient holds a description of an SVG 2.0 gradient,
// after the href chain of its definition has been resolved.
//
// When Units is ObjectBoundingBox, the coordinates in Direction are
// fractions of Bounds, the bounding box of the painted shape.
// Otherwise they are in the coordinates of the painted shape.
type Gradient struct {
	ID        string
	Direction GradientDirection
	Stops     []GradStop
	Bounds    svgpath.Bounds
	Matrix    rasterx.Matrix2D // gradientTransform
	Spread    SpreadMethod
	Units     GradientUnits
}

// GradientDirection is either Linear or Radial
type GradientDirection interface {
	isRadial() bool
}

// Linear stores x1, y1, x2, y2
type Linear [4]float64

func (Linear) isRadial() bool { return false }

// Radial stores cx, cy, fx, fy, r, fr
type Radial [6]float64

func (Radial) isRadial() bool { return true }

// IsRadial returns true for radial gradients.
func (g *Gradient) IsRadial() bool { return g.Direction != nil && g.Direction.isRadial() }

// Rasterx returns the equivalent rasterx gradient, which may be used
// to obtain a color function with GetColorFunction.
func (g *Gradient) Rasterx() rasterx.Gradient {
	var points [5]float64
	switch dir := g.Direction.(type) {
	case Linear:
		points[0], points[1], points[2], points[3] = dir[0], dir[1], dir[2], dir[3]
	case Radial:
		points[0], points[1], points[2], points[3], points[4] = dir[0], dir[1], dir[2], dir[3], dir[4] // in rasterx fr is ignored
	}
	stops := make([]rasterx.GradStop, len(g.Stops))
	for i, stop := range g.Stops {
		stops[i] = rasterx.GradStop{StopColor: stop.StopColor, Offset: stop.Offset, Opacity: stop.Opacity}
	}
	return rasterx.Gradient{
		Points:   points,
		Stops:    stops,
		Bounds:   g.Bounds,
		Matrix:   g.Matrix,
		Spread:   rasterx.SpreadMethod(g.Spread),
		Units:    rasterx.GradientUnits(g.Units),
		IsRadial: g.IsRadial(),
	}
}

// UserSpaceMatrix returns the matrix mapping the gradient coordinates
// (fractions of the bounding box or user units) to the coordinates of
// the painted shape, including the gradient transform.
func (g *Gradient) UserSpaceMatrix() rasterx.Matrix2D {
	if g.Units == ObjectBoundingBox {
		return rasterx.Identity.Translate(g.Bounds.X, g.Bounds.Y).Scale(g.Bounds.W, g.Bounds.H).Mult(g.Matrix)
	}
	return g.Matrix
}

package svgpath

import (
	"math"

	"github.com/srwiley/rasterx"
)

// Bounds defines a bounding box, such as a viewport
// or a path extent.
type Bounds struct{ X, Y, W, H float64 }

// IsEmpty returns true if the box has no area.
func (b Bounds) IsEmpty() bool { return b.W <= 0 || b.H <= 0 }

// Union returns the smallest box containing both `b` and `other`.
func (b Bounds) Union(other Bounds) Bounds {
	minX, minY := math.Min(b.X, other.X), math.Min(b.Y, other.Y)
	maxX, maxY := math.Max(b.X+b.W, other.X+other.W), math.Max(b.Y+b.H, other.Y+other.H)
	return Bounds{X: minX, Y: minY, W: maxX - minX, H: maxY - minY}
}

// Transform returns the bounding box of the image of `b` by `m`.
func (b Bounds) Transform(m rasterx.Matrix2D) Bounds {
	var ext extent
	ext.reset()
	for _, pt := range [4][2]float64{{b.X, b.Y}, {b.X + b.W, b.Y}, {b.X, b.Y + b.H}, {b.X + b.W, b.Y + b.H}} {
		ext.add(m.Transform(pt[0], pt[1]))
	}
	return ext.bounds()
}

// Diagonal returns the normalized diagonal sqrt(w² + h²) / sqrt(2),
// used to resolve percentages which are neither horizontal nor vertical.
func (b Bounds) Diagonal() float64 {
	return math.Sqrt(b.W*b.W+b.H*b.H) / math.Sqrt2
}

// compute the bouding box of a path, needed when using gradient with objectBoudingBox

func coords(a Point) (float64, float64) { return a.X, a.Y }

type extent struct{ minX, minY, maxX, maxY float64 }

func (e *extent) reset() {
	e.minX, e.minY = math.Inf(1), math.Inf(1)
	e.maxX, e.maxY = math.Inf(-1), math.Inf(-1)
}

func (e *extent) add(x, y float64) {
	e.minX = math.Min(x, e.minX)
	e.minY = math.Min(y, e.minY)
	e.maxX = math.Max(x, e.maxX)
	e.maxY = math.Max(y, e.maxY)
}

func (e extent) isValid() bool { return e.minX <= e.maxX }

func (e extent) bounds() Bounds {
	if !e.isValid() {
		return Bounds{}
	}
	return Bounds{X: e.minX, Y: e.minY, W: e.maxX - e.minX, H: e.maxY - e.minY}
}

// Bounds returns the exact bounding box of the path, including
// the extrema of the bezier curves (not only their control points).
// An empty path has zero bounds.
func (p Path) Bounds() Bounds {
	var ext extent
	ext.reset()
	var current Point
	for _, op := range p {
		switch op := op.(type) {
		case MoveTo:
			current = Point(op)
			ext.add(coords(current))
		case LineTo:
			current = Point(op)
			ext.add(coords(current))
		case QuadTo:
			extendCurve(&ext, quadBezier{current, op[0], op[1]})
			current = op[1]
		case CubicTo:
			extendCurve(&ext, cubicBezier{current, op[0], op[1], op[2]})
			current = op[2]
		}
	}
	return ext.bounds()
}

type quadBezier [3]Point

// quadratic polinomial
// x = At^2 + Bt + C
// where
// A = p0 + p2 - 2p1
// B = 2(p1 - p0)
// C = p0
func bezierQuad(p0, p1, p2, t float64) float64 {
	return (p0+p2-2*p1)*t*t + 2*(p1-p0)*t + p0
}

// derivative as at + b where a,b :
func quadraticDerivative(p0, p1, p2 float64) (a, b float64) {
	return 2 * (p2 - p1 - (p1 - p0)), 2 * (p1 - p0)
}

// handle the case where a = 0
func linearRoots(a, b float64) []float64 {
	if a == 0 {
		return nil
	}
	return []float64{-b / a}
}

func (cu quadBezier) criticalPoints() (tX, tY []float64) {
	p0x, p0y := coords(cu[0])
	p1x, p1y := coords(cu[1])
	p2x, p2y := coords(cu[2])

	aX, bX := quadraticDerivative(p0x, p1x, p2x)
	aY, bY := quadraticDerivative(p0y, p1y, p2y)

	return linearRoots(aX, bX), linearRoots(aY, bY)
}

func (cu quadBezier) evaluateCurve(t float64) (x, y float64) {
	p0x, p0y := coords(cu[0])
	p1x, p1y := coords(cu[1])
	p2x, p2y := coords(cu[2])
	return bezierQuad(p0x, p1x, p2x, t), bezierQuad(p0y, p1y, p2y, t)
}

type cubicBezier [4]Point

func (cu cubicBezier) criticalPoints() (tX, tY []float64) {
	p1x, p1y := coords(cu[0])
	c1x, c1y := coords(cu[1])
	c2x, c2y := coords(cu[2])
	p2x, p2y := coords(cu[3])

	aX, bX, cX := cubicDerivative(p1x, c1x, c2x, p2x)
	aY, bY, cY := cubicDerivative(p1y, c1y, c2y, p2y)

	return quadraticRoots(aX, bX, cX), quadraticRoots(aY, bY, cY)
}

func (cu cubicBezier) evaluateCurve(t float64) (x, y float64) {
	p0x, p0y := coords(cu[0])
	p1x, p1y := coords(cu[1])
	p2x, p2y := coords(cu[2])
	p3x, p3y := coords(cu[3])
	return bezierSpline(p0x, p1x, p2x, p3x, t), bezierSpline(p0y, p1y, p2y, p3y, t)
}

// cubic polinomial
// x = At^3 + Bt^2 + Ct + D
// where A,B,C,D:
// A = p3 -3 * p2 + 3 * p1 - p0
// B = 3 * p2 - 6 * p1 +3 * p0
// C = 3 * p1 - 3 * p0
// D = p0
func bezierSpline(p0, p1, p2, p3, t float64) float64 {
	return (p3-3*p2+3*p1-p0)*t*t*t +
		(3*p2-6*p1+3*p0)*t*t +
		(3*p1-3*p0)*t +
		(p0)
}

// X' = (3*p3-9*p2+9*p1-3*p0)t^2 + (6*p2-12*p1+6*p0)t + (3*p1-3*p0)
// taken as aX^2 + bX + c  a,b and c are:
func cubicDerivative(p0, p1, p2, p3 float64) (a, b, c float64) {
	return 3*p3 - 9*p2 + 9*p1 - 3*p0, 6*p2 - 12*p1 + 6*p0, 3*p1 - 3*p0
}

func quadraticRoots(a, b, c float64) []float64 {
	if a == 0 {
		// simple line
		if b == 0 {
			return nil
		}
		return []float64{-c / b}
	}
	d := b*b - 4*a*c
	if d < 0 {
		return nil
	}
	if d == 0 {
		return []float64{-b / (2 * a)}
	}
	sq := math.Sqrt(d)
	return []float64{(-b + sq) / (2 * a), (-b - sq) / (2 * a)}
}

type bezier interface {
	// compute the t zeroing the derivative
	criticalPoints() (tX, tY []float64)
	// compute the point a time t
	evaluateCurve(t float64) (x, y float64)
}

// extendCurve adds the end points and the extrema of the curve.
func extendCurve(ext *extent, curve bezier) {
	resX, resY := curve.criticalPoints()
	for _, t := range append(append(resX, 0, 1), resY...) {
		// filter invalid value
		if !(0 <= t && t <= 1) {
			continue
		}
		ext.add(curve.evaluateCurve(t))
	}
}

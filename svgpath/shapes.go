package svgpath

import "math"

// This file implements the transformation from
// high level shapes to their path equivalent

// maxDx is the maximum radians a cubic splice is allowed to span
// in ellipse parametric when approximating an off-axis ellipse.
const maxDx float64 = math.Pi / 8

// NewRect returns the path of the rectangle with top-left corner (x, y),
// with rounded corners if rx and ry are positive.
// Radii greater than half the sides are clamped.
// An empty path is returned for non positive width or height.
func NewRect(x, y, w, h, rx, ry float64) Path {
	if w <= 0 || h <= 0 {
		return nil
	}
	var p Path
	p.addRoundRect(x, y, x+w, y+h, rx, ry)
	return p
}

// NewEllipse returns the closed path of the ellipse centered at (cx, cy).
// An empty path is returned for non positive radii.
func NewEllipse(cx, cy, rx, ry float64) Path {
	if rx <= 0 || ry <= 0 {
		return nil
	}
	var p Path
	p.addEllipse(cx, cy, rx, ry)
	return p
}

// NewLine returns the path of the segment from (x1, y1) to (x2, y2).
func NewLine(x1, y1, x2, y2 float64) Path {
	return Path{MoveTo(pt(x1, y1)), LineTo(pt(x2, y2))}
}

// NewPolyline returns the path joining the points given as a flat list
// of coordinates x0, y0, x1, y1... A trailing odd coordinate is ignored.
// If `closed` is true, the path is closed (polygon).
func NewPolyline(points []float64, closed bool) Path {
	if len(points) < 4 {
		return nil
	}
	p := Path{MoveTo(pt(points[0], points[1]))}
	for i := 2; i+1 < len(points); i += 2 {
		p.Line(pt(points[i], points[i+1]))
	}
	p.Stop(closed)
	return p
}

// addRect adds a rectangle of the indicated size.
func (p *Path) addRect(minX, minY, maxX, maxY float64) {
	p.Start(pt(minX, minY))
	p.Line(pt(maxX, minY))
	p.Line(pt(maxX, maxY))
	p.Line(pt(minX, maxY))
	p.Stop(true)
}

// addRoundRect adds a rectangle of the indicated size, with rounded
// corners of radius rx in the x axis and ry in the y axis.
func (p *Path) addRoundRect(minX, minY, maxX, maxY, rx, ry float64) {
	if rx <= 0 || ry <= 0 {
		p.addRect(minX, minY, maxX, maxY)
		return
	}
	if w := maxX - minX; w < rx*2 {
		rx = w / 2
	}
	if h := maxY - minY; h < ry*2 {
		ry = h / 2
	}

	corner := func(cx, cy, fromX, fromY, toX, toY float64) {
		p.addArc([]float64{rx, ry, 0, 0, 1, toX, toY}, cx, cy, fromX, fromY)
	}

	p.Start(pt(minX+rx, minY))
	p.Line(pt(maxX-rx, minY))
	corner(maxX-rx, minY+ry, maxX-rx, minY, maxX, minY+ry)
	p.Line(pt(maxX, maxY-ry))
	corner(maxX-rx, maxY-ry, maxX, maxY-ry, maxX-rx, maxY)
	p.Line(pt(minX+rx, maxY))
	corner(minX+rx, maxY-ry, minX+rx, maxY, minX, maxY-ry)
	p.Line(pt(minX, minY+ry))
	corner(minX+rx, minY+ry, minX, minY+ry, minX+rx, minY)
	p.Stop(true)
}

// addEllipse adds a full ellipse, starting at its rightmost point.
func (p *Path) addEllipse(cx, cy, rx, ry float64) {
	px, py := cx+rx, cy
	p.Start(pt(px, py))
	p.addArc([]float64{rx, ry, 0.0, 1.0, 0.0, px, py}, cx, cy, px, py)
	p.Stop(true)
}

// addArc adds an arc to the adder p. `points` holds the
// arguments of the SVG arc command:  rx, ry, rotation, large-arc, sweep, x, y.
// The arc starts at (px, py) and (cx, cy) is the center of the ellipse.
func (p *Path) addArc(points []float64, cx, cy, px, py float64) (lx, ly float64) {
	rotX := points[2] * math.Pi / 180 // Convert degress to radians
	largeArc := points[3] != 0
	sweep := points[4] != 0
	startAngle := math.Atan2(py-cy, px-cx) - rotX
	endAngle := math.Atan2(points[6]-cy, points[5]-cx) - rotX
	deltaTheta := endAngle - startAngle
	arcBig := math.Abs(deltaTheta) > math.Pi

	// Approximate ellipse using cubic bezeir splines
	etaStart := math.Atan2(math.Sin(startAngle)/points[1], math.Cos(startAngle)/points[0])
	etaEnd := math.Atan2(math.Sin(endAngle)/points[1], math.Cos(endAngle)/points[0])
	deltaEta := etaEnd - etaStart
	if arcBig != largeArc {
		if deltaEta < 0 {
			deltaEta += math.Pi * 2
		} else {
			deltaEta -= math.Pi * 2
		}
	}
	// This check might be needed if the center point of the elipse is
	// at the midpoint of the start and end lines.
	if deltaEta < 0 && sweep {
		deltaEta += math.Pi * 2
	} else if deltaEta >= 0 && !sweep {
		deltaEta -= math.Pi * 2
	}

	// Round up to determine number of cubic splines to approximate bezier curve
	segs := int(math.Abs(deltaEta)/maxDx) + 1
	dEta := deltaEta / float64(segs) // span of each segment
	// Approximate the ellipse using a set of cubic bezier curves by the method of
	// L. Maisonobe, "Drawing an elliptical arc using polylines, quadratic
	// or cubic Bezier curves", 2003
	// https://www.spaceroots.org/documents/elllipse/elliptical-arc.pdf
	tde := math.Tan(dEta / 2)
	alpha := math.Sin(dEta) * (math.Sqrt(4+3*tde*tde) - 1) / 3 // Math is fun!
	lx, ly = px, py
	sinTheta, cosTheta := math.Sin(rotX), math.Cos(rotX)
	ldx, ldy := ellipsePrime(points[0], points[1], sinTheta, cosTheta, etaStart, cx, cy)
	for i := 1; i <= segs; i++ {
		eta := etaStart + dEta*float64(i)
		var px, py float64
		if i == segs {
			px, py = points[5], points[6] // Just makes the end point exact; no roundoff error
		} else {
			px, py = ellipsePointAt(points[0], points[1], sinTheta, cosTheta, eta, cx, cy)
		}
		dx, dy := ellipsePrime(points[0], points[1], sinTheta, cosTheta, eta, cx, cy)
		p.CubeBezier(pt(lx+alpha*ldx, ly+alpha*ldy),
			pt(px-alpha*dx, py-alpha*dy), pt(px, py))
		lx, ly, ldx, ldy = px, py, dx, dy
	}
	return lx, ly
}

// ellipsePrime gives tangent vectors for parameterized elipse; a, b, radii, eta parameter, center cx, cy
func ellipsePrime(a, b, sinTheta, cosTheta, eta, cx, cy float64) (px, py float64) {
	bCosEta := b * math.Cos(eta)
	aSinEta := a * math.Sin(eta)
	px = -aSinEta*cosTheta - bCosEta*sinTheta
	py = -aSinEta*sinTheta + bCosEta*cosTheta
	return
}

// ellipsePointAt gives points for parameterized elipse; a, b, radii, eta parameter, center cx, cy
func ellipsePointAt(a, b, sinTheta, cosTheta, eta, cx, cy float64) (px, py float64) {
	aCosEta := a * math.Cos(eta)
	bSinEta := b * math.Sin(eta)
	px = cx + aCosEta*cosTheta - bSinEta*sinTheta
	py = cy + aCosEta*sinTheta + bSinEta*cosTheta
	return
}

// findEllipseCenter locates the center of the Ellipse if it exists. If it does not exist,
// the radius values will be increased minimally for a solution to be possible
// while preserving the ra to rb ratio.  ra and rb arguments are pointers that can be
// checked after the call to see if the values changed. This method uses coordinate transformations
// to reduce the problem to finding the center of a circle that includes the origin
// and an arbitrary point. The center of the circle is then transformed
// back to the original coordinates and returned.
func findEllipseCenter(ra, rb *float64, rotX, startX, startY, endX, endY float64, sweep, smallArc bool) (cx, cy float64) {
	cos, sin := math.Cos(rotX), math.Sin(rotX)

	// Move origin to start point
	nx, ny := endX-startX, endY-startY

	// Rotate ellipse x-axis to coordinate x-axis
	nx, ny = nx*cos+ny*sin, -nx*sin+ny*cos
	// Scale X dimension so that ra = rb
	nx *= *rb / *ra // Now the ellipse is a circle radius rb; therefore foci and center coincide

	midX, midY := nx/2, ny/2
	midlenSq := midX*midX + midY*midY

	var hr float64
	if *rb**rb < midlenSq {
		// Requested ellipse does not exist; scale ra, rb to fit. Length of
		// span is greater than max width of ellipse, must scale *ra, *rb
		nrb := math.Sqrt(midlenSq)
		if *ra == *rb {
			*ra = nrb // prevents roundoff
		} else {
			*ra = *ra * nrb / *rb
		}
		*rb = nrb
	} else {
		hr = math.Sqrt(*rb**rb-midlenSq) / math.Sqrt(midlenSq)
	}
	// Notice that if hr is zero, both answers are the same.
	if sweep == smallArc {
		cx = midX + midY*hr
		cy = midY - midX*hr
	} else {
		cx = midX - midY*hr
		cy = midY + midX*hr
	}

	// reverse scale
	cx *= *ra / *rb
	//Reverse rotate and translate back to original coordinates
	return cx*cos - cy*sin + startX, cx*sin + cy*cos + startY
}

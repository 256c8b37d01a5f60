package svgpath

import (
	"fmt"
	"math"
)

// pathCursor compiles SVG path data into a Path
type pathCursor struct {
	path             Path
	placeX, placeY   float64 // current point
	cntlPtX, cntlPtY float64 // last control point, for smooth curves
	startX, startY   float64 // start of the current sub-path
	lastKey          byte
	inPath           bool
}

// arity returns the number of arguments of the command,
// or -1 for unknown commands.
func arity(key byte) int {
	switch key {
	case 'M', 'm', 'L', 'l', 'T', 't':
		return 2
	case 'H', 'h', 'V', 'v':
		return 1
	case 'C', 'c':
		return 6
	case 'S', 's', 'Q', 'q':
		return 4
	case 'A', 'a':
		return 7
	case 'Z', 'z':
		return 0
	default:
		return -1
	}
}

func isLetter(c byte) bool { return ('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z') }

// ParseData compiles the `d` attribute of a path element.
// On invalid input, the path compiled up to the error is returned
// together with the error, which is what SVG renderers are required to draw.
func ParseData(d string) (Path, error) {
	var c pathCursor
	sc := scanner{s: []byte(d)}
	var key byte
	for {
		sc.skipSeparators()
		if sc.eof() {
			break
		}
		if ch := sc.s[sc.pos]; isLetter(ch) {
			sc.pos++
			key = ch
			n := arity(key)
			if n == -1 {
				return c.path, fmt.Errorf("%w: %w %q", ErrBadPathData, errCommandUnknown, key)
			}
			if n == 0 {
				c.closePath()
				continue
			}
		} else if key == 0 || arity(key) == 0 {
			return c.path, fmt.Errorf("%w: unexpected number at offset %d", ErrBadPathData, sc.pos)
		}

		args, err := sc.readArgs(key)
		if err != nil {
			return c.path, err
		}
		c.addSeg(key, args)

		// implicit commands following a moveto are lineto
		switch key {
		case 'M':
			key = 'L'
		case 'm':
			key = 'l'
		}
	}
	return c.path, nil
}

func (sc *scanner) readArgs(key byte) ([]float64, error) {
	n := arity(key)
	args := make([]float64, n)
	isArc := key == 'a' || key == 'A'
	for i := range args {
		var err error
		if isArc && (i == 3 || i == 4) {
			args[i], err = sc.flag()
		} else {
			args[i], err = sc.number()
		}
		if err != nil {
			return nil, fmt.Errorf("command %q: %w", key, err)
		}
	}
	return args, nil
}

func reflect(px, py, rx, ry float64) (x, y float64) {
	return px*2 - rx, py*2 - ry
}

// ensureStarted opens an implicit sub-path at the current point,
// as required after a close command
func (c *pathCursor) ensureStarted() {
	if !c.inPath {
		c.path.Start(pt(c.placeX, c.placeY))
		c.startX, c.startY = c.placeX, c.placeY
		c.inPath = true
	}
}

func (c *pathCursor) closePath() {
	if c.inPath {
		c.path.Stop(true)
		c.inPath = false
	}
	c.placeX, c.placeY = c.startX, c.startY
	c.lastKey = 'Z'
}

// addSeg adds the segment described by the command `k` and its
// arguments, which are relative to the current point for lower case commands.
func (c *pathCursor) addSeg(k byte, args []float64) {
	rel := 'a' <= k && k <= 'z'
	if rel { // convert to absolute coordinates
		switch k {
		case 'h':
			args[0] += c.placeX
		case 'v':
			args[0] += c.placeY
		case 'a':
			args[5] += c.placeX
			args[6] += c.placeY
		default:
			for i := 0; i < len(args); i += 2 {
				args[i] += c.placeX
				args[i+1] += c.placeY
			}
		}
	}

	switch k {
	case 'M', 'm':
		c.placeX, c.placeY = args[0], args[1]
		c.startX, c.startY = args[0], args[1]
		c.path.Start(pt(args[0], args[1]))
		c.inPath = true
	case 'L', 'l':
		c.ensureStarted()
		c.placeX, c.placeY = args[0], args[1]
		c.path.Line(pt(c.placeX, c.placeY))
	case 'H', 'h':
		c.ensureStarted()
		c.placeX = args[0]
		c.path.Line(pt(c.placeX, c.placeY))
	case 'V', 'v':
		c.ensureStarted()
		c.placeY = args[0]
		c.path.Line(pt(c.placeX, c.placeY))
	case 'Q', 'q':
		c.ensureStarted()
		c.cntlPtX, c.cntlPtY = args[0], args[1]
		c.placeX, c.placeY = args[2], args[3]
		c.path.QuadBezier(pt(c.cntlPtX, c.cntlPtY), pt(c.placeX, c.placeY))
	case 'T', 't':
		c.ensureStarted()
		switch c.lastKey {
		case 'q', 'Q', 'T', 't':
			c.cntlPtX, c.cntlPtY = reflect(c.placeX, c.placeY, c.cntlPtX, c.cntlPtY)
		default:
			c.cntlPtX, c.cntlPtY = c.placeX, c.placeY
		}
		c.placeX, c.placeY = args[0], args[1]
		c.path.QuadBezier(pt(c.cntlPtX, c.cntlPtY), pt(c.placeX, c.placeY))
	case 'C', 'c':
		c.ensureStarted()
		c.cntlPtX, c.cntlPtY = args[2], args[3]
		c.placeX, c.placeY = args[4], args[5]
		c.path.CubeBezier(pt(args[0], args[1]), pt(args[2], args[3]), pt(args[4], args[5]))
	case 'S', 's':
		c.ensureStarted()
		var x1, y1 float64
		switch c.lastKey {
		case 'c', 'C', 's', 'S':
			x1, y1 = reflect(c.placeX, c.placeY, c.cntlPtX, c.cntlPtY)
		default:
			x1, y1 = c.placeX, c.placeY
		}
		c.cntlPtX, c.cntlPtY = args[0], args[1]
		c.placeX, c.placeY = args[2], args[3]
		c.path.CubeBezier(pt(x1, y1), pt(args[0], args[1]), pt(args[2], args[3]))
	case 'A', 'a':
		c.ensureStarted()
		c.addArcFromA(args)
	}
	// So we know how to extend some segment types
	c.lastKey = k
}

// addArcFromA adds the arc described by the (absolute) arguments
// of an arc command, starting at the current point.
func (c *pathCursor) addArcFromA(points []float64) {
	endX, endY := points[5], points[6]
	if endX == c.placeX && endY == c.placeY { // omitted, as per the SVG spec
		return
	}
	points[0], points[1] = math.Abs(points[0]), math.Abs(points[1])
	if points[0] == 0 || points[1] == 0 { // straight line
		c.placeX, c.placeY = endX, endY
		c.path.Line(pt(endX, endY))
		return
	}
	cx, cy := findEllipseCenter(&points[0], &points[1], points[2]*math.Pi/180, c.placeX,
		c.placeY, endX, endY, points[4] == 0, points[3] == 0)
	c.placeX, c.placeY = c.path.addArc(points, cx, cy, c.placeX, c.placeY)
}

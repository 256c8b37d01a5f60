package svgparse

import (
	"errors"
	"fmt"
	"strings"

	"github.com/benoitkugler/svgimport/svgpath"
	"github.com/benoitkugler/svgimport/svgshape"
	"github.com/benoitkugler/svgimport/svgxml"
)

const svgNamespace = "http://www.w3.org/2000/svg"

var errUnsupportedElement = errors.New("cannot process svg element")

func init() {
	// avoids cyclical static declaration
	// called on package initialization
	elementFuncs = map[string]elementFunc{
		"rect":     rectF,
		"circle":   circleF,
		"ellipse":  ellipseF,
		"line":     lineF,
		"polyline": polylineF,
		"polygon":  polygonF,
		"path":     pathF,
		"text":     textF,
		"image":    imageF,
		"defs":     defsF,
		"title":    titleF,
		"desc":     descF,

		// already indexed, or only rendered when referenced
		"style":          skipF,
		"linearGradient": skipF,
		"radialGradient": skipF,
		"pattern":        skipF,
		"symbol":         skipF,
		"metadata":       skipF,

		// not supported, but referenced by clip-path, mask and filter
		"clipPath": skipF,
		"mask":     skipF,
		"filter":   skipF,
		"marker":   skipF,
	}
	elementFuncs["g"] = groupF
	elementFuncs["a"] = groupF
	elementFuncs["svg"] = svgF
	elementFuncs["switch"] = switchF
	elementFuncs["use"] = useF
}

// elementFunc builds the node of `el`, whose context is
// already on the stack. It returns nil when no shape is produced.
type elementFunc func(p *Parser, el *svgxml.Element, depth int) *svgshape.Node

var elementFuncs map[string]elementFunc

func skipF(*Parser, *svgxml.Element, int) *svgshape.Node { return nil }

// parseElement pushes the context of `el`, dispatches
// it and pops the context.
func (p *Parser) parseElement(el *svgxml.Element, depth int) *svgshape.Node {
	if el.Space != "" && el.Space != svgNamespace {
		return nil // foreign elements, such as editor metadata
	}
	fn, ok := elementFuncs[el.Name]
	if !ok {
		p.warnAt(el, errUnsupportedElement)
		return nil
	}
	if p.baseDepth+depth > p.opts.MaxDepth {
		p.warnAt(el, ErrMaxDepth)
		return nil
	}
	p.push(p.computeStyle(*p.top(), el))
	defer p.pop()
	return fn(p, el, depth)
}

// parseChildren returns the nodes of the children of `el`,
// which is at nesting level `depth`.
func (p *Parser) parseChildren(el *svgxml.Element, depth int) []*svgshape.Node {
	var out []*svgshape.Node
	for _, child := range el.Elements() {
		if n := p.parseElement(child, depth+1); n != nil {
			out = append(out, n)
		}
	}
	return out
}

func (p *Parser) nextZIndex() int {
	z := p.zIndex
	p.zIndex++
	return z
}

// newNode creates a node with the current context,
// and registers it in the flat list.
func (p *Parser) newNode(kind svgshape.Kind, el *svgxml.Element) *svgshape.Node {
	n := p.opts.Factory.NewNode(kind, el.Name)
	if n == nil {
		return nil
	}
	ctx := p.top()
	n.ZIndex = p.nextZIndex()
	n.ID = el.ID()
	n.Name = n.ID
	if kind == svgshape.Group {
		if label := el.Attr("label"); n.Name == "" {
			n.Name = label
		}
		n.LayerHint = el.Attr("groupmode") == "layer"
	}
	n.Transform = ctx.matrix
	n.InheritTransform = false
	n.InheritClip = p.parentClipped()
	// visibility only applies to graphic elements
	n.Visible = ctx.display && (n.IsContainer() || ctx.visible)
	n.Opacity = ctx.opacity
	n.ClipPathID, n.MaskID, n.FilterID = ctx.own.clipPath, ctx.own.mask, ctx.own.filter
	n.Filtered = ctx.filtered
	p.shapes = append(p.shapes, n)
	return n
}

// resolvePaint builds the paint servers for a shape
// with bounding box `bbox`.
func (p *Parser) resolvePaint(spec paintSpec, opacity float64, bbox svgpath.Bounds, depth int) svgshape.Paint {
	out := svgshape.Paint{Kind: spec.kind, Color: spec.color, Opacity: opacity}
	switch spec.kind {
	case svgshape.PaintGradient:
		out.Gradient = p.buildGradient(spec.id, bbox)
		if g := out.Gradient; g != nil && g.Units == svgshape.ObjectBoundingBox && bbox.IsEmpty() {
			p.warn(fmt.Errorf("gradient %q: empty bounding box: %w", spec.id, ErrParamMismatch))
		} else if g != nil {
			return out
		}
	case svgshape.PaintPattern:
		if out.Pattern = p.buildPattern(spec.id, bbox, depth); out.Pattern != nil {
			return out
		}
	default:
		return out
	}
	// empty paint server
	if spec.hasFallback {
		return svgshape.Paint{Kind: svgshape.PaintSolid, Color: spec.color, Opacity: opacity}
	}
	return svgshape.Paint{Kind: svgshape.PaintNone, Opacity: opacity}
}

func (p *Parser) resolveStroke(bbox svgpath.Bounds, depth int) svgshape.Stroke {
	ctx := p.top()
	st := ctx.strokeStyle
	return svgshape.Stroke{
		Paint:      p.resolvePaint(ctx.stroke, ctx.strokeOpacity, bbox, depth),
		Width:      st.width,
		MiterLimit: st.miterLimit,
		Join:       st.join,
		Cap:        st.cap,
		Dash:       svgshape.DashOptions{Dash: append([]float64(nil), st.dash...), DashOffset: st.dashOffset},
	}
}

// applyPaint sets the fill and stroke of a primitive shape.
func (p *Parser) applyPaint(n *svgshape.Node, bbox svgpath.Bounds, depth int) {
	ctx := p.top()
	n.Fill = p.resolvePaint(ctx.fill, ctx.fillOpacity, bbox, depth)
	n.FillRule = ctx.fillRule
	n.Stroke = p.resolveStroke(bbox, depth)
}

func (p *Parser) addChildren(n *svgshape.Node, children []*svgshape.Node) {
	c := n.AsContainer()
	for _, child := range children {
		c.AddChild(child)
	}
}

// containers

func groupF(p *Parser, el *svgxml.Element, depth int) *svgshape.Node {
	g := p.newNode(svgshape.Group, el)
	if g == nil {
		return nil
	}
	p.addChildren(g, p.parseChildren(el, depth))
	return g
}

// svgF handles nested <svg> elements: the root one is
// handled by ParseSvg.
func svgF(p *Parser, el *svgxml.Element, depth int) *svgshape.Node {
	vp := p.top().currentBoundingBox
	viewport := svgpath.Bounds{
		X: p.length(el.Attr("x"), AxisX, 0),
		Y: p.length(el.Attr("y"), AxisY, 0),
		W: p.length(el.Attr("width"), AxisX, vp.W),
		H: p.length(el.Attr("height"), AxisY, vp.H),
	}
	if viewport.IsEmpty() {
		return nil
	}
	p.enterViewport(el, viewport)
	return groupF(p, el, depth)
}

// enterViewport establishes a new viewport, mapping the
// viewBox of `el`, if any.
func (p *Parser) enterViewport(el *svgxml.Element, viewport svgpath.Bounds) {
	ctx := p.top()
	ctx.forcePercentage = false
	if vb, ok := parseViewBox(el.Attr("viewBox")); ok {
		ctx.matrix = ctx.matrix.Mult(viewBoxMatrix(vb, viewport, el.Attr("preserveAspectRatio")))
		ctx.currentBoundingBox = svgpath.Bounds{W: vb.W, H: vb.H}
	} else {
		ctx.matrix = ctx.matrix.Translate(viewport.X, viewport.Y)
		ctx.currentBoundingBox = svgpath.Bounds{W: viewport.W, H: viewport.H}
	}
}

// conditional processing attributes are never satisfied
func hasConditions(el *svgxml.Element) bool {
	return el.HasAttr("requiredExtensions") || el.HasAttr("systemLanguage")
}

func switchF(p *Parser, el *svgxml.Element, depth int) *svgshape.Node {
	g := p.newNode(svgshape.Group, el)
	if g == nil {
		return nil
	}
	children := el.Elements()
	var chosen *svgxml.Element
	for _, child := range children {
		if _, ok := elementFuncs[child.Name]; ok && !hasConditions(child) {
			chosen = child
			break
		}
	}
	if chosen == nil && len(children) != 0 {
		chosen = children[0]
	}
	if chosen != nil {
		if n := p.parseElement(chosen, depth+1); n != nil {
			g.AsContainer().AddChild(n)
		}
	}
	return g
}

func useF(p *Parser, el *svgxml.Element, depth int) *svgshape.Node {
	id := el.Href()
	ref := p.defs[id]
	if ref == nil {
		ref = p.ids[id]
	}
	if ref == nil {
		p.warnAt(el, fmt.Errorf("use %q: %w", id, ErrMissingID))
		return nil
	}
	if p.useActive[ref] || el.Within(ref) {
		p.warnAt(el, fmt.Errorf("use %q: %w", id, ErrUseCycle))
		return nil
	}

	ctx := p.top()
	x, y := p.length(el.Attr("x"), AxisX, 0), p.length(el.Attr("y"), AxisY, 0)
	ctx.matrix = ctx.matrix.Translate(x, y)
	// only used by symbols, 100% by default
	viewport := svgpath.Bounds{
		W: p.length(el.Attr("width"), AxisX, ctx.currentBoundingBox.W),
		H: p.length(el.Attr("height"), AxisY, ctx.currentBoundingBox.H),
	}

	g := p.newNode(svgshape.Group, el)
	if g == nil {
		return nil
	}
	p.useActive[ref] = true
	defer delete(p.useActive, ref)

	if ref.Name != "symbol" {
		if child := p.parseElement(ref, depth+1); child != nil {
			g.AsContainer().AddChild(child)
		}
		return g
	}

	if depth+1+p.baseDepth > p.opts.MaxDepth {
		p.warnAt(ref, ErrMaxDepth)
		return g
	}
	p.push(p.computeStyle(*p.top(), ref))
	defer p.pop()
	if viewport.IsEmpty() {
		return g
	}
	p.enterViewport(ref, viewport)
	p.addChildren(g, p.parseChildren(ref, depth+1))
	return g
}

// defsF registers the definitions without creating shapes.
func defsF(p *Parser, el *svgxml.Element, _ int) *svgshape.Node {
	el.Walk(func(child *svgxml.Element) bool {
		if id := child.ID(); child != el && id != "" {
			if _, has := p.defs[id]; !has {
				p.defs[id] = child
			}
		}
		return true
	})
	return nil
}

func titleF(p *Parser, el *svgxml.Element, _ int) *svgshape.Node {
	p.titles = append(p.titles, strings.TrimSpace(el.TextContent()))
	return nil
}

func descF(p *Parser, el *svgxml.Element, _ int) *svgshape.Node {
	p.descriptions = append(p.descriptions, strings.TrimSpace(el.TextContent()))
	return nil
}

// primitives

func (p *Parser) newPathNode(el *svgxml.Element, path svgpath.Path, depth int) *svgshape.Node {
	if len(path) == 0 {
		return nil
	}
	n := p.newNode(svgshape.PathShape, el)
	if n == nil {
		return nil
	}
	n.Path = path
	p.applyPaint(n, path.Bounds(), depth)
	return n
}

// optionalLength returns -1 for missing or `auto` values.
func (p *Parser) optionalLength(el *svgxml.Element, attr string, ax Axis) float64 {
	v := strings.TrimSpace(el.Attr(attr))
	if v == "auto" {
		return -1
	}
	return p.length(v, ax, -1)
}

func rectF(p *Parser, el *svgxml.Element, depth int) *svgshape.Node {
	x, y := p.length(el.Attr("x"), AxisX, 0), p.length(el.Attr("y"), AxisY, 0)
	w, h := p.length(el.Attr("width"), AxisX, 0), p.length(el.Attr("height"), AxisY, 0)
	if w < 0 || h < 0 {
		p.warnAt(el, fmt.Errorf("negative size: %w", ErrBadLength))
	}
	if w <= 0 || h <= 0 { // not drawn
		return nil
	}
	rx, ry := p.optionalLength(el, "rx", AxisX), p.optionalLength(el, "ry", AxisY)
	switch {
	case rx < 0 && ry < 0:
		rx, ry = 0, 0
	case rx < 0:
		rx = ry
	case ry < 0:
		ry = rx
	}
	if rx > w/2 {
		rx = w / 2
	}
	if ry > h/2 {
		ry = h / 2
	}
	return p.newPathNode(el, svgpath.NewRect(x, y, w, h, rx, ry), depth)
}

func circleF(p *Parser, el *svgxml.Element, depth int) *svgshape.Node {
	cx, cy := p.length(el.Attr("cx"), AxisX, 0), p.length(el.Attr("cy"), AxisY, 0)
	r := p.length(el.Attr("r"), AxisXY, 0)
	if r <= 0 {
		return nil
	}
	return p.newPathNode(el, svgpath.NewEllipse(cx, cy, r, r), depth)
}

func ellipseF(p *Parser, el *svgxml.Element, depth int) *svgshape.Node {
	cx, cy := p.length(el.Attr("cx"), AxisX, 0), p.length(el.Attr("cy"), AxisY, 0)
	rx, ry := p.optionalLength(el, "rx", AxisX), p.optionalLength(el, "ry", AxisY)
	if rx < 0 {
		rx = ry
	}
	if ry < 0 {
		ry = rx
	}
	if rx <= 0 || ry <= 0 {
		return nil
	}
	return p.newPathNode(el, svgpath.NewEllipse(cx, cy, rx, ry), depth)
}

func lineF(p *Parser, el *svgxml.Element, depth int) *svgshape.Node {
	x1, y1 := p.length(el.Attr("x1"), AxisX, 0), p.length(el.Attr("y1"), AxisY, 0)
	x2, y2 := p.length(el.Attr("x2"), AxisX, 0), p.length(el.Attr("y2"), AxisY, 0)
	return p.newPathNode(el, svgpath.NewLine(x1, y1, x2, y2), depth)
}

func (p *Parser) readPoints(el *svgxml.Element) []float64 {
	points, err := svgpath.ReadNumbers(el.Attr("points"))
	if err != nil {
		p.warnAt(el, err)
	}
	if len(points)%2 != 0 {
		p.warnAt(el, fmt.Errorf("odd number of coordinates: %w", ErrParamMismatch))
		points = points[:len(points)-1]
	}
	return points
}

func polylineF(p *Parser, el *svgxml.Element, depth int) *svgshape.Node {
	return p.newPathNode(el, svgpath.NewPolyline(p.readPoints(el), false), depth)
}

func polygonF(p *Parser, el *svgxml.Element, depth int) *svgshape.Node {
	return p.newPathNode(el, svgpath.NewPolyline(p.readPoints(el), true), depth)
}

func pathF(p *Parser, el *svgxml.Element, depth int) *svgshape.Node {
	path, err := svgpath.ParseData(el.Attr("d"))
	if err != nil { // the path is rendered up to the error
		p.warnAt(el, err)
	}
	return p.newPathNode(el, path, depth)
}

package svgparse

import (
	"fmt"
	"strings"

	"github.com/benoitkugler/svgimport/svgpath"
	"github.com/benoitkugler/svgimport/svgshape"
	"github.com/benoitkugler/svgimport/svgxml"
	"github.com/srwiley/rasterx"
)

// registry holds the state shared by a parser and
// the sub-parsers used for pattern content. It is created
// for each ParseSvg call.
type registry struct {
	opts Options

	ids  map[string]*svgxml.Element // every element with an id, first wins
	defs map[string]*svgxml.Element // elements found in <defs>

	gradients map[string]*svgxml.Element
	patterns  map[string]*svgxml.Element

	gradientCache map[string]*gradientTemplate

	// patterns whose content is being parsed
	activePatterns map[string]bool

	rules  []styleRule
	colors colorCache

	warnings             []error
	titles, descriptions []string
}

func newRegistry(opts Options) *registry {
	return &registry{
		opts:           opts,
		ids:            make(map[string]*svgxml.Element),
		defs:           make(map[string]*svgxml.Element),
		gradients:      make(map[string]*svgxml.Element),
		patterns:       make(map[string]*svgxml.Element),
		gradientCache:  make(map[string]*gradientTemplate),
		activePatterns: make(map[string]bool),
		colors:         make(colorCache),
	}
}

// index registers the ids, paint servers and style sheets of the
// whole document, so that forward references are resolved.
func (r *registry) index(root *svgxml.Element) {
	root.Walk(func(el *svgxml.Element) bool {
		if el.IsText() {
			return false
		}
		if id := el.ID(); id != "" {
			if _, has := r.ids[id]; has {
				r.warnAt(el, fmt.Errorf("duplicate id %q", id))
			} else {
				r.ids[id] = el
			}
			switch el.Name {
			case "linearGradient", "radialGradient":
				r.registerGradient(id, el)
			case "pattern":
				r.registerPattern(id, el)
			}
		}
		if el.Name == "style" {
			r.addStyleSheet(el)
		}
		return true
	})
}

func (r *registry) registerGradient(id string, el *svgxml.Element) {
	if _, has := r.gradients[id]; !has {
		r.gradients[id] = el
	}
}

func (r *registry) registerPattern(id string, el *svgxml.Element) {
	if _, has := r.patterns[id]; !has {
		r.patterns[id] = el
	}
}

// hrefChain returns `start` followed by the elements referenced
// through href, as long as they are in `servers`.
// The chain stops before a cycle or a missing element.
func (r *registry) hrefChain(start *svgxml.Element, servers map[string]*svgxml.Element) []*svgxml.Element {
	chain := []*svgxml.Element{start}
	visited := map[*svgxml.Element]bool{start: true}
	for el := start; ; {
		id := el.Href()
		if id == "" {
			return chain
		}
		next := servers[id]
		if next == nil {
			r.warnAt(el, fmt.Errorf("href %q: %w", id, ErrMissingID))
			return chain
		}
		if visited[next] {
			r.warnAt(el, fmt.Errorf("href %q: %w", id, ErrHrefCycle))
			return chain
		}
		visited[next] = true
		chain = append(chain, next)
		el = next
	}
}

// lookupChain returns the first value of `attr` found along `chain`.
// If sameKind is true, only the elements with the tag of chain[0] are used.
func lookupChain(chain []*svgxml.Element, attr string, sameKind bool) (string, bool) {
	for _, el := range chain {
		if sameKind && el.Name != chain[0].Name {
			continue
		}
		if v, ok := el.LookupAttr(attr); ok && strings.TrimSpace(v) != "" {
			return v, true
		}
	}
	return "", false
}

// gradientTemplate is a gradient with its href chain resolved,
// but not its coordinates, which depend on the painted shape.
type gradientTemplate struct {
	id     string
	radial bool
	attrs  map[string]string
	stops  []svgshape.GradStop
}

var (
	gradientAttrs       = [...]string{"gradientUnits", "spreadMethod", "gradientTransform"}
	linearGradientAttrs = [...]string{"x1", "y1", "x2", "y2"}
	radialGradientAttrs = [...]string{"cx", "cy", "r", "fx", "fy", "fr"}
)

func (r *registry) gradientTemplate(id string) *gradientTemplate {
	if tpl, ok := r.gradientCache[id]; ok {
		return tpl
	}
	el := r.gradients[id]
	if el == nil {
		return nil
	}
	chain := r.hrefChain(el, r.gradients)
	tpl := &gradientTemplate{id: id, radial: el.Name == "radialGradient", attrs: make(map[string]string)}
	for _, attr := range gradientAttrs {
		if v, ok := lookupChain(chain, attr, false); ok {
			tpl.attrs[attr] = v
		}
	}
	coords := linearGradientAttrs[:]
	if tpl.radial {
		coords = radialGradientAttrs[:]
	}
	for _, attr := range coords {
		if v, ok := lookupChain(chain, attr, true); ok {
			tpl.attrs[attr] = v
		}
	}
	// stops come from the first gradient defining some
	for _, g := range chain {
		if stops := r.parseStops(g); len(stops) != 0 {
			tpl.stops = stops
			break
		}
	}
	r.gradientCache[id] = tpl
	return tpl
}

// parseStops reads the stops of a gradient element. Offsets are
// clamped to [0, 1] and made non-decreasing.
func (r *registry) parseStops(el *svgxml.Element) []svgshape.GradStop {
	var (
		stops []svgshape.GradStop
		last  float64
	)
	for _, child := range el.Elements() {
		if child.Name != "stop" {
			continue
		}
		stop := svgshape.GradStop{StopColor: black, Opacity: 1}
		if v := child.Attr("offset"); v != "" {
			off, err := fraction(v)
			if err != nil {
				r.warnAt(child, err)
			}
			stop.Offset = clamp01(off)
		}
		currentColor := black
		decls := r.cascade(child)
		if v, ok := decls.get("color"); ok {
			if c, err := r.colors.parseColor(v); err == nil {
				currentColor = c
			}
		}
		if v, ok := decls.get("stop-color"); ok {
			v = strings.TrimSpace(v)
			if strings.EqualFold(v, "currentColor") {
				stop.StopColor = currentColor
			} else if c, err := r.colors.parseColor(v); err == nil {
				stop.StopColor = c
			} else {
				r.warnAt(child, err)
			}
		}
		if v, ok := decls.get("stop-opacity"); ok {
			op, err := fraction(v)
			if err != nil {
				r.warnAt(child, err)
			} else {
				stop.Opacity = clamp01(op)
			}
		}
		if stop.Offset < last {
			stop.Offset = last
		}
		last = stop.Offset
		stops = append(stops, stop)
	}
	return stops
}

// buildGradient returns the concrete gradient for a shape
// with bounding box `bbox`, or nil if the gradient has no stop.
func (p *Parser) buildGradient(id string, bbox svgpath.Bounds) *svgshape.Gradient {
	tpl := p.gradientTemplate(id)
	if tpl == nil || len(tpl.stops) == 0 {
		return nil
	}
	g := &svgshape.Gradient{
		ID:     id,
		Stops:  append([]svgshape.GradStop(nil), tpl.stops...),
		Bounds: bbox,
		Matrix: rasterx.Identity,
	}
	if tpl.attrs["gradientUnits"] == "userSpaceOnUse" {
		g.Units = svgshape.UserSpaceOnUse
	}
	switch tpl.attrs["spreadMethod"] {
	case "reflect":
		g.Spread = svgshape.ReflectSpread
	case "repeat":
		g.Spread = svgshape.RepeatSpread
	}
	if v := tpl.attrs["gradientTransform"]; v != "" {
		m, err := ParseTransform(v)
		if err != nil {
			p.warn(err)
		}
		g.Matrix = m
	}

	// bounding box units are fractions of the unit square
	lr := p.top().lengths()
	if g.Units == svgshape.ObjectBoundingBox {
		lr = p.top().objectBoundingBox(svgpath.Bounds{W: 1, H: 1}).lengths()
	}
	coord := func(attr, def string, ax Axis) float64 {
		v, ok := tpl.attrs[attr]
		if !ok {
			v = def
		}
		f, err := lr.resolve(v, ax)
		if err != nil {
			p.warn(fmt.Errorf("gradient %q: %w", id, err))
			f, _ = lr.resolve(def, ax)
		}
		return f
	}
	if tpl.radial {
		cx, cy := coord("cx", "50%", AxisX), coord("cy", "50%", AxisY)
		var fx, fy float64
		if _, ok := tpl.attrs["fx"]; ok {
			fx = coord("fx", "50%", AxisX)
		} else {
			fx = cx
		}
		if _, ok := tpl.attrs["fy"]; ok {
			fy = coord("fy", "50%", AxisY)
		} else {
			fy = cy
		}
		g.Direction = svgshape.Radial{cx, cy, fx, fy, coord("r", "50%", AxisXY), coord("fr", "0%", AxisXY)}
	} else {
		g.Direction = svgshape.Linear{
			coord("x1", "0%", AxisX), coord("y1", "0%", AxisY),
			coord("x2", "100%", AxisX), coord("y2", "0%", AxisY),
		}
	}
	return g
}

var patternAttrs = [...]string{
	"x", "y", "width", "height", "patternUnits", "patternContentUnits",
	"patternTransform", "viewBox", "preserveAspectRatio",
}

// buildPattern resolves the pattern `id` for a shape with bounding box `bbox`,
// parsing its content with a sub-parser. It returns nil if the pattern
// is empty or cyclic.
func (p *Parser) buildPattern(id string, bbox svgpath.Bounds, depth int) *svgshape.Pattern {
	el := p.patterns[id]
	if el == nil {
		return nil
	}
	if p.activePatterns[id] {
		p.warnAt(el, fmt.Errorf("pattern %q: %w", id, ErrHrefCycle))
		return nil
	}
	chain := p.hrefChain(el, p.patterns)
	attrs := make(map[string]string)
	for _, attr := range patternAttrs {
		if v, ok := lookupChain(chain, attr, false); ok {
			attrs[attr] = v
		}
	}
	var content *svgxml.Element
	for _, pat := range chain {
		if len(pat.Elements()) != 0 {
			content = pat
			break
		}
	}

	pattern := &svgshape.Pattern{ID: id, Matrix: rasterx.Identity, ContentMatrix: rasterx.Identity, ContentUnits: svgshape.UserSpaceOnUse}
	if attrs["patternUnits"] == "userSpaceOnUse" {
		pattern.Units = svgshape.UserSpaceOnUse
	}
	if attrs["patternContentUnits"] == "objectBoundingBox" {
		pattern.ContentUnits = svgshape.ObjectBoundingBox
	}
	if v := attrs["patternTransform"]; v != "" {
		m, err := ParseTransform(v)
		if err != nil {
			p.warn(err)
		}
		pattern.Matrix = m
	}

	// the tile is resolved with percentages (or fractions) of the shape box
	lr := p.top().lengths()
	if pattern.Units == svgshape.ObjectBoundingBox {
		lr = p.top().objectBoundingBox(bbox).lengths()
	}
	tileLength := func(attr string, ax Axis) float64 {
		v, ok := attrs[attr]
		if !ok {
			return 0
		}
		f, err := lr.resolve(v, ax)
		if err != nil {
			p.warn(fmt.Errorf("pattern %q: %w", id, err))
		}
		return f
	}
	pattern.Tile = svgpath.Bounds{X: tileLength("x", AxisX), Y: tileLength("y", AxisY), W: tileLength("width", AxisX), H: tileLength("height", AxisY)}
	if pattern.Units == svgshape.ObjectBoundingBox {
		pattern.Tile.X += bbox.X
		pattern.Tile.Y += bbox.Y
	}
	errEmptyBox := fmt.Errorf("pattern %q: empty bounding box: %w", id, ErrParamMismatch)
	if pattern.Tile.IsEmpty() {
		if pattern.Units == svgshape.ObjectBoundingBox && bbox.IsEmpty() {
			p.warn(errEmptyBox)
		}
		return nil
	}

	viewport := svgpath.Bounds{W: pattern.Tile.W, H: pattern.Tile.H}
	fractions := false
	if vb, ok := parseViewBox(attrs["viewBox"]); ok {
		pattern.ContentMatrix = viewBoxMatrix(vb, viewport, attrs["preserveAspectRatio"])
		viewport = vb
	} else if pattern.ContentUnits == svgshape.ObjectBoundingBox {
		if bbox.IsEmpty() {
			p.warn(errEmptyBox)
			return nil
		}
		// content lengths are fractions of the shape box
		pattern.ContentMatrix = rasterx.Identity.Scale(bbox.W, bbox.H)
		viewport = svgpath.Bounds{W: 1, H: 1}
		fractions = true
	}

	if content == nil {
		return pattern
	}
	p.activePatterns[id] = true
	defer delete(p.activePatterns, id)

	// the content inherits from the pattern ancestors, not from the shape
	sub := &Parser{registry: p.registry, baseDepth: p.baseDepth + depth, useActive: make(map[*svgxml.Element]bool)}
	base := defaultContext(viewport, p.top().xmlBaseDir)
	sub.push(base)
	ctx := sub.computeStyle(base, el)
	ctx.matrix = pattern.ContentMatrix
	ctx.currentBoundingBox = viewport
	if fractions {
		ctx = ctx.objectBoundingBox(viewport)
	}
	sub.push(ctx)
	pattern.Content = sub.parseChildren(content, 1)
	return pattern
}

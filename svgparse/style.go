package svgparse

import (
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/aymerick/douceur/css"
	"github.com/aymerick/douceur/parser"
	"github.com/benoitkugler/svgimport/svgpath"
	"github.com/benoitkugler/svgimport/svgshape"
	"github.com/benoitkugler/svgimport/svgxml"
)

// presentationAttrs are the attributes which are also style properties.
var presentationAttrs = map[string]bool{
	"color":             true,
	"fill":              true,
	"fill-opacity":      true,
	"fill-rule":         true,
	"stroke":            true,
	"stroke-width":      true,
	"stroke-linecap":    true,
	"stroke-linejoin":   true,
	"stroke-miterlimit": true,
	"stroke-dasharray":  true,
	"stroke-dashoffset": true,
	"stroke-opacity":    true,
	"opacity":           true,
	"display":           true,
	"visibility":        true,
	"font-family":       true,
	"font-size":         true,
	"font-weight":       true,
	"font-style":        true,
	"text-decoration":   true,
	"text-anchor":       true,
	"clip-path":         true,
	"mask":              true,
	"filter":            true,
	"stop-color":        true,
	"stop-opacity":      true,
}

// declarations maps properties to their winning value,
// remembering the order in which properties first appeared.
type declarations struct {
	order  []string
	values map[string]string
}

func (d *declarations) set(property, value string) {
	property = strings.ToLower(strings.TrimSpace(property))
	if property == "" {
		return
	}
	if d.values == nil {
		d.values = make(map[string]string)
	}
	if _, has := d.values[property]; !has {
		d.order = append(d.order, property)
	}
	d.values[property] = strings.TrimSpace(value)
}

func (d declarations) get(property string) (string, bool) {
	v, ok := d.values[property]
	return v, ok
}

// simpleSelector is a compound selector made of an optional
// tag, an optional id and classes.
type simpleSelector struct {
	tag, id string
	classes []string
}

func parseSelector(s string) (simpleSelector, bool) {
	s = strings.TrimSpace(s)
	if s == "" || strings.ContainsAny(s, " \t\n>+~:[") {
		return simpleSelector{}, false
	}
	var (
		sel  simpleSelector
		head = len(s)
	)
	if i := strings.IndexAny(s, ".#"); i != -1 {
		head = i
	}
	sel.tag = s[:head]
	if sel.tag == "*" {
		sel.tag = ""
	}
	for rest := s[head:]; rest != ""; {
		kind := rest[0]
		rest = rest[1:]
		end := strings.IndexAny(rest, ".#")
		if end == -1 {
			end = len(rest)
		}
		name := rest[:end]
		rest = rest[end:]
		if name == "" {
			return simpleSelector{}, false
		}
		if kind == '#' {
			sel.id = name
		} else {
			sel.classes = append(sel.classes, name)
		}
	}
	return sel, true
}

func (sel simpleSelector) specificity() int {
	spec := 10 * len(sel.classes)
	if sel.id != "" {
		spec += 100
	}
	if sel.tag != "" {
		spec++
	}
	return spec
}

func (sel simpleSelector) matches(el *svgxml.Element) bool {
	if sel.tag != "" && sel.tag != el.Name {
		return false
	}
	if sel.id != "" && sel.id != el.ID() {
		return false
	}
	classes := strings.Fields(el.Attr("class"))
	for _, class := range sel.classes {
		found := false
		for _, c := range classes {
			if c == class {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

type styleRule struct {
	selector     simpleSelector
	declarations []*css.Declaration
}

// addStyleSheet parses the content of a <style> element. Rules with
// unsupported selectors are ignored.
func (r *registry) addStyleSheet(el *svgxml.Element) {
	if t := el.Attr("type"); t != "" && t != "text/css" {
		return
	}
	sheet, err := parser.Parse(el.TextContent())
	if err != nil {
		r.warnAt(el, fmt.Errorf("invalid style sheet: %s", err))
		return
	}
	for _, rule := range sheet.Rules {
		if rule.Kind != css.QualifiedRule || len(rule.Declarations) == 0 {
			continue
		}
		for _, s := range rule.Selectors {
			sel, ok := parseSelector(s)
			if !ok {
				continue
			}
			r.rules = append(r.rules, styleRule{selector: sel, declarations: rule.Declarations})
		}
	}
	// stable: source order is kept for equal specificities
	sort.SliceStable(r.rules, func(i, j int) bool {
		return r.rules[i].selector.specificity() < r.rules[j].selector.specificity()
	})
}

// parseInlineStyle reads the content of a `style` attribute.
func parseInlineStyle(style string) [][2]string {
	if !strings.HasSuffix(strings.TrimSpace(style), ";") {
		style += ";"
	}
	var out [][2]string
	decls, err := parser.ParseDeclarations(style)
	if err == nil {
		for _, decl := range decls {
			out = append(out, [2]string{decl.Property, decl.Value})
		}
		return out
	}
	// the CSS parser is strict: fallback to a simple split
	for _, pair := range strings.Split(style, ";") {
		kv := strings.SplitN(pair, ":", 2)
		if len(kv) == 2 {
			out = append(out, [2]string{kv[0], kv[1]})
		}
	}
	return out
}

// cascade returns the style properties of `el`, by increasing precedence:
// presentation attributes, style sheet rules, inline style, and
// important style sheet declarations.
func (r *registry) cascade(el *svgxml.Element) declarations {
	var out declarations
	for _, attr := range el.Attrs {
		if attr.Name.Space == "" && presentationAttrs[attr.Name.Local] {
			out.set(attr.Name.Local, attr.Value)
		}
	}
	var important []*css.Declaration
	for _, rule := range r.rules {
		if !rule.selector.matches(el) {
			continue
		}
		for _, decl := range rule.declarations {
			if decl.Important {
				important = append(important, decl)
			} else {
				out.set(decl.Property, decl.Value)
			}
		}
	}
	if style := el.Attr("style"); style != "" {
		for _, kv := range parseInlineStyle(style) {
			out.set(kv[0], kv[1])
		}
	}
	for _, decl := range important {
		out.set(decl.Property, decl.Value)
	}
	return out
}

// computeStyle returns the context of `el`, child of a
// context `parent`.
func (p *Parser) computeStyle(parent Context, el *svgxml.Element) Context {
	ctx := parent
	ctx.own = elementStyle{}

	if v, ok := el.LookupAttr("space"); ok {
		ctx.preserveSpace = v == "preserve"
	}
	if v := el.Attr("base"); v != "" && !strings.Contains(v, "://") {
		if filepath.IsAbs(v) {
			ctx.xmlBaseDir = v
		} else {
			ctx.xmlBaseDir = filepath.Join(ctx.xmlBaseDir, v)
		}
	}

	decls := p.cascade(el)
	// color is used by currentColor and font-size by em lengths
	for _, prop := range [...]string{"color", "font-size"} {
		if v, ok := decls.get(prop); ok {
			p.applyProperty(&ctx, el, prop, v)
		}
	}
	for _, prop := range decls.order {
		if prop == "color" || prop == "font-size" {
			continue
		}
		p.applyProperty(&ctx, el, prop, decls.values[prop])
	}

	if v := el.Attr("transform"); v != "" {
		m, err := ParseTransform(v)
		if err != nil {
			p.warnAt(el, err)
		}
		ctx.matrix = ctx.matrix.Mult(m)
	}
	return ctx
}

func (p *Parser) applyProperty(ctx *Context, el *svgxml.Element, prop, value string) {
	if value == "inherit" || value == "" {
		return
	}
	if err := p.readStyleAttr(ctx, prop, value); err != nil {
		p.warnAt(el, fmt.Errorf("%s: %w", prop, err))
	}
}

// readStyleAttr applies one property. Invalid values leave
// the context unchanged, except for unresolved paint servers which
// fall back to `none` or the fallback color.
func (p *Parser) readStyleAttr(ctx *Context, k, v string) error {
	switch k {
	case "color":
		c, err := p.colors.parseColor(v)
		if err != nil {
			return err
		}
		ctx.currentColor = c
	case "fill", "stroke":
		paint, err := p.parsePaint(ctx, v)
		if err != nil && !errors.Is(err, ErrMissingID) {
			return err
		}
		if k == "fill" {
			ctx.fill = paint
		} else {
			ctx.stroke = paint
		}
		return err
	case "fill-opacity", "stroke-opacity", "opacity":
		op, err := fraction(v)
		if err != nil {
			return err
		}
		op = clamp01(op)
		switch k {
		case "fill-opacity":
			ctx.fillOpacity = op
		case "stroke-opacity":
			ctx.strokeOpacity = op
		default:
			ctx.opacity *= op
		}
	case "fill-rule":
		switch v {
		case "nonzero":
			ctx.fillRule = svgshape.NonZero
		case "evenodd":
			ctx.fillRule = svgshape.EvenOdd
		default:
			return ErrParamMismatch
		}
	case "stroke-width":
		w, err := ctx.lengths().resolve(v, AxisXY)
		if err != nil {
			return err
		}
		if w < 0 {
			return fmt.Errorf("negative width: %w", ErrBadLength)
		}
		ctx.strokeStyle.width = w
	case "stroke-linecap":
		switch v {
		case "butt":
			ctx.strokeStyle.cap = svgshape.ButtCap
		case "round":
			ctx.strokeStyle.cap = svgshape.RoundCap
		case "square":
			ctx.strokeStyle.cap = svgshape.SquareCap
		default:
			return ErrParamMismatch
		}
	case "stroke-linejoin":
		switch v {
		case "miter":
			ctx.strokeStyle.join = svgshape.Miter
		case "miter-clip":
			ctx.strokeStyle.join = svgshape.MiterClip
		case "arc-clip":
			ctx.strokeStyle.join = svgshape.ArcClip
		case "round":
			ctx.strokeStyle.join = svgshape.Round
		case "arc":
			ctx.strokeStyle.join = svgshape.Arc
		case "bevel":
			ctx.strokeStyle.join = svgshape.Bevel
		default:
			return ErrParamMismatch
		}
	case "stroke-miterlimit":
		mLimit, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return err
		}
		if mLimit < 1 {
			return ErrParamMismatch
		}
		ctx.strokeStyle.miterLimit = mLimit
	case "stroke-dashoffset":
		offset, err := ctx.lengths().resolve(v, AxisXY)
		if err != nil {
			return err
		}
		ctx.strokeStyle.dashOffset = offset
	case "stroke-dasharray":
		dash, err := p.parseDashArray(ctx, v)
		if err != nil {
			return err
		}
		ctx.strokeStyle.dash = dash
	case "display":
		// once hidden, a subtree stays hidden
		if v == "none" {
			ctx.display = false
		}
	case "visibility":
		switch v {
		case "visible":
			ctx.visible = true
		case "hidden", "collapse":
			ctx.visible = false
		default:
			return ErrParamMismatch
		}
	case "font-family":
		families := parseFontFamily(v)
		if len(families) == 0 {
			return ErrParamMismatch
		}
		ctx.font.Families = families
		ctx.font.Family = families[0]
	case "font-size":
		size, err := parseFontSize(ctx, v)
		if err != nil {
			return err
		}
		ctx.font.Size = size
	case "font-weight":
		weight, err := parseFontWeight(ctx.font.Weight, v)
		if err != nil {
			return err
		}
		ctx.font.Weight = weight
	case "font-style":
		switch v {
		case "normal":
			ctx.font.Italic = false
		case "italic", "oblique":
			ctx.font.Italic = true
		default:
			return ErrParamMismatch
		}
	case "text-decoration":
		var under, through, over bool
		for _, deco := range strings.Fields(v) {
			switch deco {
			case "underline":
				under = true
			case "line-through":
				through = true
			case "overline":
				over = true
			case "none":
			default:
				return ErrParamMismatch
			}
		}
		ctx.font.Underline, ctx.font.LineThrough, ctx.font.Overline = under, through, over
	case "text-anchor":
		switch v {
		case "start":
			ctx.anchor = svgshape.AnchorStart
		case "middle":
			ctx.anchor = svgshape.AnchorMiddle
		case "end":
			ctx.anchor = svgshape.AnchorEnd
		default:
			return ErrParamMismatch
		}
	case "clip-path", "mask", "filter":
		if v == "none" {
			return nil
		}
		id := urlID(v)
		if id == "" {
			return ErrParamMismatch
		}
		switch k {
		case "clip-path":
			ctx.own.clipPath = id
			ctx.clipped = true
		case "mask":
			ctx.own.mask = id
			ctx.filtered = true
		case "filter":
			ctx.own.filter = id
			ctx.filtered = true
		}
	}
	// other properties are not supported
	return nil
}

// urlID returns the id of a `url(#id)` reference, or an empty string.
func urlID(v string) string {
	v = strings.TrimSpace(v)
	if !strings.HasPrefix(v, "url(") || !strings.HasSuffix(v, ")") {
		return ""
	}
	id := strings.Trim(strings.TrimSpace(v[4:len(v)-1]), `"'`)
	return strings.TrimPrefix(id, "#")
}

// parseDashArray accepts comma and/or space separated lengths.
// Odd-length arrays are repeated, and a nil slice means no dashes.
func (p *Parser) parseDashArray(ctx *Context, v string) ([]float64, error) {
	if v == "none" {
		return nil, nil
	}
	fields := strings.FieldsFunc(v, func(r rune) bool { return r == ',' || r == ' ' || r == '\t' || r == '\n' })
	dash := make([]float64, 0, 2*len(fields))
	var sum float64
	for _, f := range fields {
		d, err := ctx.lengths().resolve(f, AxisXY)
		if err != nil {
			return nil, err
		}
		if d < 0 {
			return nil, fmt.Errorf("negative dash: %w", ErrBadLength)
		}
		sum += d
		dash = append(dash, d)
	}
	if sum == 0 {
		return nil, nil
	}
	if len(dash)%2 == 1 {
		dash = append(dash, dash...)
	}
	return dash, nil
}

func parseFontFamily(v string) []string {
	var out []string
	for _, family := range strings.Split(v, ",") {
		family = strings.Trim(strings.TrimSpace(family), `"'`)
		if family != "" {
			out = append(out, family)
		}
	}
	return out
}

var fontSizeKeywords = map[string]float64{
	"xx-small": 7,
	"x-small":  7.5,
	"small":    10,
	"medium":   12,
	"large":    14,
	"x-large":  18,
	"xx-large": 24,
}

// parseFontSize resolves em and percentages against the inherited size.
func parseFontSize(ctx *Context, v string) (float64, error) {
	if size, ok := fontSizeKeywords[v]; ok {
		return size, nil
	}
	switch v {
	case "larger":
		return ctx.font.Size * 1.2, nil
	case "smaller":
		return ctx.font.Size / 1.2, nil
	}
	lr := ctx.lengths()
	lr.bbox = svgpath.Bounds{W: ctx.font.Size, H: ctx.font.Size}
	lr.forcePercentage = false
	size, err := lr.resolve(v, AxisY)
	if err != nil {
		return 0, err
	}
	if size < 0 {
		return 0, fmt.Errorf("negative font size: %w", ErrBadLength)
	}
	return size, nil
}

func parseFontWeight(inherited int, v string) (int, error) {
	switch v {
	case "normal":
		return 400, nil
	case "bold":
		return 700, nil
	case "bolder":
		switch {
		case inherited < 400:
			return 400, nil
		case inherited < 600:
			return 700, nil
		default:
			return 900, nil
		}
	case "lighter":
		switch {
		case inherited >= 800:
			return 700, nil
		case inherited >= 600:
			return 400, nil
		default:
			return 100, nil
		}
	}
	w, err := strconv.Atoi(v)
	if err != nil || w < 1 || w > 1000 {
		return 0, ErrParamMismatch
	}
	return w, nil
}

package svgparse

import (
	"fmt"
	"strings"

	"github.com/benoitkugler/svgimport/svgpath"
	"github.com/benoitkugler/svgimport/svgshape"
	"github.com/benoitkugler/svgimport/svgxml"
)

// textBuilder accumulates the spans of a <text> element.
type textBuilder struct {
	p     *Parser
	spans []svgshape.TextSpan

	// current absolute position
	x, y float64
	// position to apply to the next span
	pendingPosition bool
	dx, dy          float64

	along   svgpath.Path
	alongID string
}

// firstLength reads the first value of a list of lengths.
func (tb *textBuilder) firstLength(el *svgxml.Element, attr string, ax Axis) (float64, bool) {
	fields := strings.FieldsFunc(el.Attr(attr), func(r rune) bool { return r == ',' || r == ' ' })
	if len(fields) == 0 {
		return 0, false
	}
	return tb.p.length(fields[0], ax, 0), true
}

func (tb *textBuilder) readPosition(el *svgxml.Element) {
	if x, ok := tb.firstLength(el, "x", AxisX); ok {
		tb.x, tb.pendingPosition = x, true
	}
	if y, ok := tb.firstLength(el, "y", AxisY); ok {
		tb.y, tb.pendingPosition = y, true
	}
	if dx, ok := tb.firstLength(el, "dx", AxisX); ok {
		tb.dx += dx
	}
	if dy, ok := tb.firstLength(el, "dy", AxisY); ok {
		tb.dy += dy
	}
}

// simplifySpace applies the default xml:space handling
// to one chunk: newlines are removed, tabs are converted and
// consecutive spaces are collapsed.
func simplifySpace(s string, trimLeft bool) string {
	var sb strings.Builder
	lastSpace := trimLeft
	for _, r := range s {
		switch r {
		case '\n', '\r':
			continue
		case '\t', ' ':
			if lastSpace {
				continue
			}
			lastSpace = true
			sb.WriteByte(' ')
		default:
			lastSpace = false
			sb.WriteRune(r)
		}
	}
	return sb.String()
}

func (tb *textBuilder) endsWithSpace() bool {
	if len(tb.spans) == 0 {
		return true
	}
	return strings.HasSuffix(tb.spans[len(tb.spans)-1].Text, " ")
}

func (tb *textBuilder) addText(s string, depth int) {
	ctx := tb.p.top()
	if ctx.preserveSpace {
		s = strings.NewReplacer("\r\n", " ", "\n", " ", "\r", " ", "\t", " ").Replace(s)
	} else {
		s = simplifySpace(s, tb.endsWithSpace())
	}
	if s == "" {
		return
	}
	span := svgshape.TextSpan{
		Text:        s,
		X:           tb.x,
		Y:           tb.y,
		HasPosition: tb.pendingPosition,
		DX:          tb.dx,
		DY:          tb.dy,
		Font:        ctx.font,
		Anchor:      ctx.anchor,
		Fill:        tb.p.resolvePaint(ctx.fill, ctx.fillOpacity, svgpath.Bounds{X: tb.x, Y: tb.y}, depth),
		Stroke:      tb.p.resolveStroke(svgpath.Bounds{X: tb.x, Y: tb.y}, depth),
		Along:       tb.along,
		AlongID:     tb.alongID,
	}
	span.Font.Families = append([]string(nil), ctx.font.Families...)
	tb.spans = append(tb.spans, span)
	tb.pendingPosition, tb.dx, tb.dy = false, 0, 0
}

// walk visits the content of `el`, whose context is on the stack.
func (tb *textBuilder) walk(el *svgxml.Element, depth int) {
	p := tb.p
	for _, child := range el.Children {
		if child.IsText() {
			tb.addText(child.Text, depth)
			continue
		}
		if child.Space != "" && child.Space != svgNamespace {
			continue
		}
		switch child.Name {
		case "tspan", "a", "tref", "textPath":
		default:
			continue // title, desc, and unsupported elements
		}
		if p.baseDepth+depth+1 > p.opts.MaxDepth {
			p.warnAt(child, ErrMaxDepth)
			continue
		}
		p.push(p.computeStyle(*p.top(), child))
		switch child.Name {
		case "tspan", "a":
			tb.readPosition(child)
			tb.walk(child, depth+1)
		case "tref":
			tb.readPosition(child)
			if ref := p.ids[child.Href()]; ref != nil && !el.Within(ref) {
				tb.addText(ref.TextContent(), depth+1)
			} else {
				p.warnAt(child, fmt.Errorf("tref %q: %w", child.Href(), ErrMissingID))
			}
		case "textPath":
			tb.readPosition(child)
			tb.along, tb.alongID = tb.textPath(child), child.Href()
			tb.walk(child, depth+1)
			tb.along, tb.alongID = nil, ""
		}
		p.pop()
	}
}

// textPath returns the referenced path, in the coordinates of the text.
func (tb *textBuilder) textPath(el *svgxml.Element) svgpath.Path {
	ref := tb.p.ids[el.Href()]
	if ref == nil || ref.Name != "path" {
		tb.p.warnAt(el, fmt.Errorf("textPath %q: %w", el.Href(), ErrMissingID))
		return nil
	}
	path, err := svgpath.ParseData(ref.Attr("d"))
	if err != nil {
		tb.p.warnAt(ref, err)
	}
	if v := ref.Attr("transform"); v != "" {
		m, err := ParseTransform(v)
		if err != nil {
			tb.p.warnAt(ref, err)
		}
		path = path.Transform(m)
	}
	return path
}

func (tb *textBuilder) finish() []svgshape.TextSpan {
	if len(tb.spans) == 0 {
		return nil
	}
	last := &tb.spans[len(tb.spans)-1]
	if !tb.p.top().preserveSpace {
		last.Text = strings.TrimRight(last.Text, " ")
	}
	if last.Text == "" {
		tb.spans = tb.spans[:len(tb.spans)-1]
	}
	return tb.spans
}

func textF(p *Parser, el *svgxml.Element, depth int) *svgshape.Node {
	tb := textBuilder{p: p}
	tb.readPosition(el)
	x, y := tb.x, tb.y
	tb.walk(el, depth)
	spans := tb.finish()
	if len(spans) == 0 {
		return nil
	}
	n := p.newNode(svgshape.TextShape, el)
	if n == nil {
		return nil
	}
	n.Text = &svgshape.Text{Spans: spans}
	p.applyPaint(n, svgpath.Bounds{X: x, Y: y}, depth)
	return n
}

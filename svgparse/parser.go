package svgparse

import (
	"fmt"
	"math"
	"strings"

	"github.com/benoitkugler/svgimport/svgpath"
	"github.com/benoitkugler/svgimport/svgshape"
	"github.com/benoitkugler/svgimport/svgxml"
	"github.com/srwiley/rasterx"
)

// Parser converts an SVG element tree into shapes.
// A Parser is not safe for concurrent use; each ParseSvg call
// starts from fresh registries.
type Parser struct {
	*registry

	stack  []Context
	zIndex int
	// depth of the parser which started a pattern sub-parser
	baseDepth int
	// elements being instantiated by <use>
	useActive map[*svgxml.Element]bool

	shapes   []*svgshape.Node
	toplevel []*svgshape.Node
}

// NewParser returns a parser using `opts`, completed
// by the default values.
func NewParser(opts Options) *Parser {
	return &Parser{registry: newRegistry(opts.withDefaults())}
}

// ParseSvg parses the document rooted at `root` and returns the top-level shapes,
// that is the shapes created for the children of `root`, together
// with the document size, in points.
func (p *Parser) ParseSvg(root *svgxml.Element) ([]*svgshape.Node, svgshape.Size) {
	p.registry = newRegistry(p.opts)
	p.stack, p.zIndex, p.baseDepth = nil, 0, 0
	p.useActive = make(map[*svgxml.Element]bool)
	p.shapes, p.toplevel = nil, nil

	if root == nil {
		return nil, p.opts.PageSize
	}
	if root.Name != "svg" {
		p.warnAt(root, fmt.Errorf("unexpected root element: %w", errUnsupportedElement))
	}
	p.index(root)

	size := p.opts.PageSize
	vb, hasViewBox := parseViewBox(root.Attr("viewBox"))
	if hasViewBox {
		size = svgshape.Size{Width: vb.W, Height: vb.H}
	}
	// percentages refer to the default page
	lr := lengthResolver{bbox: svgpath.Bounds{W: p.opts.PageSize.Width, H: p.opts.PageSize.Height}, fontSize: 12}
	if v := root.Attr("width"); v != "" && v != "auto" {
		if w, err := lr.resolve(v, AxisX); err != nil || w <= 0 {
			p.warnAt(root, fmt.Errorf("width %q: %w", v, ErrBadLength))
		} else {
			size.Width = w
		}
	}
	if v := root.Attr("height"); v != "" && v != "auto" {
		if h, err := lr.resolve(v, AxisY); err != nil || h <= 0 {
			p.warnAt(root, fmt.Errorf("height %q: %w", v, ErrBadLength))
		} else {
			size.Height = h
		}
	}

	viewport := svgpath.Bounds{W: size.Width, H: size.Height}
	ctx := p.computeStyle(defaultContext(viewport, p.opts.BaseDir), root)
	if hasViewBox {
		ctx.matrix = ctx.matrix.Mult(viewBoxMatrix(vb, viewport, root.Attr("preserveAspectRatio")))
		ctx.currentBoundingBox = svgpath.Bounds{W: vb.W, H: vb.H}
	}
	p.push(ctx)
	p.toplevel = p.parseChildren(root, 0)
	p.pop()
	return p.toplevel, size
}

// Shapes returns all the shapes created by the last ParseSvg call,
// nested ones included, by increasing z-index.
// Shapes created for pattern tiles are not included.
func (p *Parser) Shapes() []*svgshape.Node { return p.shapes }

// TopLevel returns the shapes returned by the last ParseSvg call.
func (p *Parser) TopLevel() []*svgshape.Node { return p.toplevel }

// Warnings returns the problems recovered during the last ParseSvg call.
func (p *Parser) Warnings() []error { return p.warnings }

// Titles returns the content of the <title> elements.
func (p *Parser) Titles() []string { return p.titles }

// Descriptions returns the content of the <desc> elements.
func (p *Parser) Descriptions() []string { return p.descriptions }

// parseViewBox returns false for missing or invalid values.
func parseViewBox(v string) (svgpath.Bounds, bool) {
	if strings.TrimSpace(v) == "" {
		return svgpath.Bounds{}, false
	}
	points, err := svgpath.ReadNumbers(v)
	if err != nil || len(points) != 4 {
		return svgpath.Bounds{}, false
	}
	vb := svgpath.Bounds{X: points[0], Y: points[1], W: points[2], H: points[3]}
	return vb, !vb.IsEmpty()
}

// viewBoxMatrix maps `vb` to `viewport`, according
// to a preserveAspectRatio value.
func viewBoxMatrix(vb, viewport svgpath.Bounds, preserveAspectRatio string) rasterx.Matrix2D {
	sx, sy := viewport.W/vb.W, viewport.H/vb.H
	align, slice := "xMidYMid", false
	fields := strings.Fields(preserveAspectRatio)
	if len(fields) != 0 && fields[0] == "defer" {
		fields = fields[1:]
	}
	if len(fields) != 0 {
		align = fields[0]
	}
	if len(fields) > 1 {
		slice = fields[1] == "slice"
	}
	var tx, ty float64
	if align != "none" {
		s := math.Min(sx, sy)
		if slice {
			s = math.Max(sx, sy)
		}
		sx, sy = s, s
		dw, dh := viewport.W-vb.W*s, viewport.H-vb.H*s
		if strings.HasPrefix(align, "xMid") {
			tx = dw / 2
		} else if strings.HasPrefix(align, "xMax") {
			tx = dw
		}
		if strings.HasSuffix(align, "YMid") {
			ty = dh / 2
		} else if strings.HasSuffix(align, "YMax") {
			ty = dh
		}
	}
	return rasterx.Identity.Translate(viewport.X+tx, viewport.Y+ty).Scale(sx, sy).Translate(-vb.X, -vb.Y)
}

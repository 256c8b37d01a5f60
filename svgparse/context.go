package svgparse

import (
	"image/color"

	"github.com/benoitkugler/svgimport/svgpath"
	"github.com/benoitkugler/svgimport/svgshape"
	"github.com/srwiley/rasterx"
)

// paintSpec is a fill or stroke value, before the paint
// servers are resolved against the shape bounding box.
type paintSpec struct {
	kind  svgshape.PaintKind
	color color.NRGBA // solid color, or fallback for paint servers
	id    string      // paint server id

	hasFallback bool
}

// strokeStyle is copied with the context: Dash must
// be replaced, never modified in place.
type strokeStyle struct {
	width      float64
	miterLimit float64
	join       svgshape.JoinMode
	cap        svgshape.CapMode
	dash       []float64
	dashOffset float64
}

// elementStyle holds the properties which are not inherited.
type elementStyle struct {
	clipPath, mask, filter string
}

// Context is the graphics state of one nesting level.
// Contexts are pushed by copy: a child starts with every
// value of its parent.
type Context struct {
	fill          paintSpec
	fillOpacity   float64
	fillRule      svgshape.FillRule
	stroke        paintSpec
	strokeOpacity float64
	strokeStyle   strokeStyle

	// matrix is cumulative: it maps the current user space
	// to the document space.
	matrix rasterx.Matrix2D

	font         svgshape.Font
	anchor       svgshape.TextAnchor
	currentColor color.NRGBA
	xmlBaseDir   string

	// currentBoundingBox is the reference for percentages.
	currentBoundingBox svgpath.Bounds
	// forcePercentage interprets plain numbers as fractions
	// of currentBoundingBox.
	forcePercentage bool

	// display is false in a subtree whose root has `display:none`,
	// and may not be re-enabled.
	display bool
	visible bool
	// opacity is the product of the ancestors `opacity`.
	opacity float64
	// filtered is true below an element with a mask or a filter.
	filtered bool
	// clipped is true on and below an element with a clip path.
	clipped bool

	preserveSpace bool

	own elementStyle
}

var black = color.NRGBA{A: 0xff}

// objectBoundingBox returns a copy of ctx where plain numbers
// and percentages are fractions of `bbox`.
func (ctx Context) objectBoundingBox(bbox svgpath.Bounds) Context {
	ctx.currentBoundingBox = bbox
	ctx.forcePercentage = true
	return ctx
}

func defaultContext(viewport svgpath.Bounds, baseDir string) Context {
	return Context{
		fill:          paintSpec{kind: svgshape.PaintSolid, color: black},
		fillOpacity:   1,
		strokeOpacity: 1,
		strokeStyle: strokeStyle{
			width:      1,
			miterLimit: 4,
			join:       svgshape.Miter,
			cap:        svgshape.ButtCap,
		},
		matrix:             rasterx.Identity,
		font:               svgshape.Font{Family: "serif", Families: []string{"serif"}, Size: 12, Weight: 400},
		currentColor:       black,
		xmlBaseDir:         baseDir,
		currentBoundingBox: viewport,
		display:            true,
		visible:            true,
		opacity:            1,
	}
}

// top returns the current context, which may be modified in place.
func (p *Parser) top() *Context { return &p.stack[len(p.stack)-1] }

// parentClipped returns true if a clip path applies to
// the parent of the current element.
func (p *Parser) parentClipped() bool {
	if len(p.stack) < 2 {
		return false
	}
	return p.stack[len(p.stack)-2].clipped
}

func (p *Parser) push(ctx Context) { p.stack = append(p.stack, ctx) }

func (p *Parser) pop() { p.stack = p.stack[:len(p.stack)-1] }

package svgparse

import (
	"bytes"
	"errors"
	"fmt"
	"image/color"
	"log"
	"strings"
	"testing"

	"github.com/benoitkugler/svgimport/svgpath"
	"github.com/benoitkugler/svgimport/svgshape"
	"github.com/benoitkugler/svgimport/svgxml"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const header = `<svg xmlns="http://www.w3.org/2000/svg" xmlns:xlink="http://www.w3.org/1999/xlink" `

func parseString(t *testing.T, opts Options, src string) (*Parser, []*svgshape.Node, svgshape.Size) {
	t.Helper()
	root, err := svgxml.Parse(strings.NewReader(src))
	require.NoError(t, err)
	p := NewParser(opts)
	shapes, size := p.ParseSvg(root)
	return p, shapes, size
}

func hasWarning(p *Parser, target error) bool {
	for _, w := range p.Warnings() {
		if errors.Is(w, target) {
			return true
		}
	}
	return false
}

func TestRedRect(t *testing.T) {
	p, shapes, size := parseString(t, DefaultOptions(), header+`width="100" height="50">
		<rect x="10" y="10" width="20" height="10" fill="red"/>
	</svg>`)
	assert.Equal(t, svgshape.Size{Width: 100, Height: 50}, size)
	require.Len(t, shapes, 1)
	rect := shapes[0]
	assert.Equal(t, svgshape.PathShape, rect.Kind)
	assert.Equal(t, "rect", rect.Tag)
	assert.Equal(t, svgshape.PaintSolid, rect.Fill.Kind)
	assert.Equal(t, color.NRGBA{R: 255, A: 255}, rect.Fill.Color)
	assert.Equal(t, 1., rect.Fill.Opacity)
	assert.True(t, rect.Stroke.IsNone())
	assert.True(t, rect.Visible)
	assert.Equal(t, svgpath.Bounds{X: 10, Y: 10, W: 20, H: 10}, rect.Path.Bounds())
	assert.Empty(t, p.Warnings())
}

func TestDefaultSize(t *testing.T) {
	_, _, size := parseString(t, DefaultOptions(), header+`/>`)
	assert.Equal(t, DefaultPageSize, size)

	_, _, size = parseString(t, DefaultOptions(), header+`viewBox="0 0 30 40"/>`)
	assert.Equal(t, svgshape.Size{Width: 30, Height: 40}, size)

	_, _, size = parseString(t, DefaultOptions(), header+`width="1in" height="50%"/>`)
	assert.Equal(t, svgshape.Size{Width: 72, Height: DefaultPageSize.Height / 2}, size)

	p, _, size := parseString(t, DefaultOptions(), header+`width="-3" height="10"/>`)
	assert.Equal(t, svgshape.Size{Width: DefaultPageSize.Width, Height: 10}, size)
	assert.True(t, hasWarning(p, ErrBadLength))
}

func TestGroupTransform(t *testing.T) {
	_, shapes, _ := parseString(t, DefaultOptions(), header+`>
		<g transform="translate(5,5)">
			<rect width="10" height="10" transform="scale(2)"/>
		</g>
	</svg>`)
	require.Len(t, shapes, 1)
	g := shapes[0]
	assert.Equal(t, svgshape.Group, g.Kind)
	assert.Equal(t, 5., g.Transform.E)
	assert.Equal(t, 5., g.Transform.F)

	require.Len(t, g.Children(), 1)
	rect := g.Children()[0]
	assert.Equal(t, g, rect.Parent)
	// transforms are absolute
	assertPoint(t, rect.Transform, 1, 1, 7, 7)
}

func TestViewBoxMeet(t *testing.T) {
	_, shapes, size := parseString(t, DefaultOptions(), header+`width="100" height="100" viewBox="0 0 10 20">
		<rect width="10" height="20"/>
	</svg>`)
	assert.Equal(t, svgshape.Size{Width: 100, Height: 100}, size)
	require.Len(t, shapes, 1)
	assertPoint(t, shapes[0].Transform, 0, 0, 25, 0)
	assertPoint(t, shapes[0].Transform, 10, 20, 75, 100)
}

func TestViewBoxAlign(t *testing.T) {
	vb := svgpath.Bounds{W: 10, H: 20}
	viewport := svgpath.Bounds{W: 100, H: 100}
	assertPoint(t, viewBoxMatrix(vb, viewport, "xMinYMin"), 0, 0, 0, 0)
	assertPoint(t, viewBoxMatrix(vb, viewport, "xMaxYMax meet"), 0, 0, 50, 0)
	assertPoint(t, viewBoxMatrix(vb, viewport, "xMidYMid slice"), 0, 0, 0, -50)
	assertPoint(t, viewBoxMatrix(vb, viewport, "none"), 10, 20, 100, 100)
}

func TestGradientChain(t *testing.T) {
	p, shapes, _ := parseString(t, DefaultOptions(), header+`>
		<rect width="10" height="10" fill="url(#g2)"/>
		<defs>
			<linearGradient id="g1" spreadMethod="reflect" x1="20%">
				<stop offset="0" stop-color="black"/>
			</linearGradient>
			<linearGradient id="g2" xlink:href="#g1" x2="50%"/>
		</defs>
	</svg>`)
	assert.Empty(t, p.Warnings())
	require.Len(t, shapes, 1)
	fill := shapes[0].Fill
	require.Equal(t, svgshape.PaintGradient, fill.Kind)
	g := fill.Gradient
	require.NotNil(t, g)
	assert.Equal(t, "g2", g.ID)
	assert.Equal(t, []svgshape.GradStop{{StopColor: color.NRGBA{A: 255}, Offset: 0, Opacity: 1}}, g.Stops)
	assert.Equal(t, svgshape.ReflectSpread, g.Spread)
	assert.Equal(t, svgshape.ObjectBoundingBox, g.Units)
	assert.Equal(t, svgshape.Linear{0.2, 0, 0.5, 0}, g.Direction)
	assert.Equal(t, svgpath.Bounds{W: 10, H: 10}, g.Bounds)
}

func TestRadialGradient(t *testing.T) {
	_, shapes, _ := parseString(t, DefaultOptions(), header+`width="200" height="100">
		<radialGradient id="r" gradientUnits="userSpaceOnUse" cx="50" cy="20%" r="10" fx="40">
			<stop offset="20%" stop-color="blue" stop-opacity="0.5"/>
			<stop offset="0.1" style="stop-color: red"/>
		</radialGradient>
		<circle r="5" fill="url(#r)"/>
	</svg>`)
	require.Len(t, shapes, 1)
	g := shapes[0].Fill.Gradient
	require.NotNil(t, g)
	assert.Equal(t, svgshape.UserSpaceOnUse, g.Units)
	assert.Equal(t, svgshape.Radial{50, 20, 40, 20, 10, 0}, g.Direction)
	require.Len(t, g.Stops, 2)
	assert.Equal(t, svgshape.GradStop{StopColor: color.NRGBA{B: 255, A: 255}, Offset: 0.2, Opacity: 0.5}, g.Stops[0])
	// offsets are non-decreasing
	assert.Equal(t, svgshape.GradStop{StopColor: color.NRGBA{R: 255, A: 255}, Offset: 0.2, Opacity: 1}, g.Stops[1])
}

func TestHrefCycle(t *testing.T) {
	p, shapes, _ := parseString(t, DefaultOptions(), header+`>
		<linearGradient id="A" href="#B"/>
		<linearGradient id="B" href="#C"/>
		<linearGradient id="C" href="#A"/>
		<pattern id="P" href="#P" width="1" height="1"/>
		<rect width="10" height="10" fill="url(#A)" stroke="url(#P)"/>
	</svg>`)
	assert.True(t, hasWarning(p, ErrHrefCycle))
	require.Len(t, shapes, 1)
	assert.Equal(t, svgshape.PaintNone, shapes[0].Fill.Kind)
	assert.Equal(t, svgshape.PaintPattern, shapes[0].Stroke.Kind)
}

func TestPatternContentCycle(t *testing.T) {
	p, shapes, _ := parseString(t, DefaultOptions(), header+`>
		<pattern id="p" patternUnits="userSpaceOnUse" width="10" height="10">
			<rect width="5" height="5" fill="url(#p)"/>
		</pattern>
		<rect width="10" height="10" fill="url(#p)"/>
	</svg>`)
	assert.True(t, hasWarning(p, ErrHrefCycle))
	require.Len(t, shapes, 1)
	pattern := shapes[0].Fill.Pattern
	require.NotNil(t, pattern)
	require.Len(t, pattern.Content, 1)
	// the nested reference is dropped
	assert.Equal(t, svgshape.PaintNone, pattern.Content[0].Fill.Kind)
}

func TestPattern(t *testing.T) {
	p, shapes, _ := parseString(t, DefaultOptions(), header+`>
		<defs>
			<pattern id="p" patternUnits="userSpaceOnUse" width="10" height="10">
				<circle cx="5" cy="5" r="2"/>
			</pattern>
		</defs>
		<rect width="100" height="100" fill="url(#p)"/>
	</svg>`)
	require.Len(t, shapes, 1)
	assert.Len(t, p.Shapes(), 1)

	pattern := shapes[0].Fill.Pattern
	require.NotNil(t, pattern)
	assert.Equal(t, "p", pattern.ID)
	assert.Equal(t, svgpath.Bounds{W: 10, H: 10}, pattern.Tile)
	require.Len(t, pattern.Content, 1)
	assert.Equal(t, svgshape.PathShape, pattern.Content[0].Kind)
	assert.Equal(t, "circle", pattern.Content[0].Tag)
}

func TestPatternBoundingBox(t *testing.T) {
	_, shapes, _ := parseString(t, DefaultOptions(), header+`>
		<pattern id="p" width="0.5" height="25%" patternContentUnits="objectBoundingBox">
			<rect width="0.1" height="0.33"/>
			<rect x="0.5" width="50%" height="25%"/>
		</pattern>
		<pattern id="empty" width="0" height="10"/>
		<rect x="10" y="20" width="100" height="40" fill="url(#p)" stroke="url(#empty) green"/>
	</svg>`)
	require.Len(t, shapes, 1)
	pattern := shapes[0].Fill.Pattern
	require.NotNil(t, pattern)
	assert.Equal(t, svgpath.Bounds{X: 10, Y: 20, W: 50, H: 10}, pattern.Tile)
	assertPoint(t, pattern.ContentMatrix, 0.1, 0.1, 10, 4)

	// content coordinates are kept at full precision
	require.Len(t, pattern.Content, 2)
	assert.Equal(t, svgpath.Bounds{W: 0.1, H: 0.33}, pattern.Content[0].Path.Bounds())
	assert.Equal(t, svgpath.Bounds{X: 0.5, W: 0.5, H: 0.25}, pattern.Content[1].Path.Bounds())

	stroke := shapes[0].Stroke
	assert.Equal(t, svgshape.PaintSolid, stroke.Kind)
	assert.Equal(t, color.NRGBA{G: 128, A: 255}, stroke.Color)
}

func TestFallbackPaint(t *testing.T) {
	p, shapes, _ := parseString(t, DefaultOptions(), header+`>
		<linearGradient id="empty"/>
		<rect width="10" height="10" fill="url(#nope) red"/>
		<rect width="10" height="10" fill="url(#empty) red"/>
		<rect width="10" height="10" fill="url(#empty)"/>
	</svg>`)
	assert.True(t, hasWarning(p, ErrMissingID))
	require.Len(t, shapes, 3)
	for _, s := range shapes[:2] {
		assert.Equal(t, svgshape.PaintSolid, s.Fill.Kind)
		assert.Equal(t, color.NRGBA{R: 255, A: 255}, s.Fill.Color)
	}
	assert.Equal(t, svgshape.PaintNone, shapes[2].Fill.Kind)
}

func TestDeterministicZIndex(t *testing.T) {
	src := header + `>
		<g><rect width="1" height="1"/><g><circle r="1"/></g></g>
		<use href="#u"/>
		<text>a<tspan>b</tspan></text>
		<defs><path id="u" d="M0 0 L1 1"/></defs>
	</svg>`
	p1, _, _ := parseString(t, DefaultOptions(), src)
	p2, _, _ := parseString(t, DefaultOptions(), src)

	zs := func(p *Parser) []int {
		var out []int
		for _, s := range p.Shapes() {
			out = append(out, s.ZIndex)
		}
		return out
	}
	z1 := zs(p1)
	assert.Equal(t, z1, zs(p2))
	require.Len(t, z1, 7)
	for i, z := range z1 {
		assert.Equal(t, i, z)
	}
}

func TestDefsAndUse(t *testing.T) {
	p, shapes, _ := parseString(t, DefaultOptions(), header+`>
		<defs><rect id="r" width="1" height="1" fill="blue"/></defs>
	</svg>`)
	assert.Empty(t, shapes)
	assert.Empty(t, p.Shapes())

	p, shapes, _ = parseString(t, DefaultOptions(), header+`>
		<defs><rect id="r" width="1" height="1"/></defs>
		<use xlink:href="#r" x="3" fill="blue"/>
	</svg>`)
	require.Len(t, shapes, 1)
	use := shapes[0]
	assert.Equal(t, svgshape.Group, use.Kind)
	assert.Equal(t, "use", use.Tag)
	require.Len(t, use.Children(), 1)
	rect := use.Children()[0]
	assert.Equal(t, 3., rect.Transform.E)
	// the instance inherits from <use>
	assert.Equal(t, color.NRGBA{B: 255, A: 255}, rect.Fill.Color)
	assert.Len(t, p.Shapes(), 2)
}

func TestUseSymbol(t *testing.T) {
	_, shapes, _ := parseString(t, DefaultOptions(), header+`>
		<symbol id="s" viewBox="0 0 10 10"><rect width="10" height="10"/></symbol>
		<use href="#s" width="20" height="20"/>
	</svg>`)
	require.Len(t, shapes, 1)
	require.Len(t, shapes[0].Children(), 1)
	assertPoint(t, shapes[0].Children()[0].Transform, 10, 10, 20, 20)
}

func TestUseCycle(t *testing.T) {
	p, _, _ := parseString(t, DefaultOptions(), header+`>
		<g id="a"><use href="#a"/></g>
	</svg>`)
	assert.True(t, hasWarning(p, ErrUseCycle))

	p, _, _ = parseString(t, DefaultOptions(), header+`>
		<defs>
			<g id="x"><use href="#y"/></g>
			<g id="y"><use href="#x"/></g>
		</defs>
		<use href="#x"/>
	</svg>`)
	assert.True(t, hasWarning(p, ErrUseCycle))

	p, _, _ = parseString(t, DefaultOptions(), header+`><use href="#missing"/></svg>`)
	assert.True(t, hasWarning(p, ErrMissingID))
}

func TestMaxDepth(t *testing.T) {
	opts := DefaultOptions()
	opts.MaxDepth = 3
	p, shapes, _ := parseString(t, opts, header+`>
		<g><g><g><g><rect width="1" height="1"/></g></g></g></g>
	</svg>`)
	assert.True(t, hasWarning(p, ErrMaxDepth))
	assert.Len(t, p.Shapes(), 3)
	require.Len(t, shapes, 1)
}

func TestStyleInheritance(t *testing.T) {
	_, shapes, _ := parseString(t, DefaultOptions(), header+`>
		<g fill="blue" stroke="black" stroke-width="3" font-size="20">
			<rect width="1" height="1" stroke-dasharray="5,3,2" stroke-linejoin="round"/>
			<rect width="1" height="1" stroke-width="2em" fill-opacity="0.5"/>
		</g>
	</svg>`)
	require.Len(t, shapes, 1)
	children := shapes[0].Children()
	require.Len(t, children, 2)

	r1, r2 := children[0], children[1]
	assert.Equal(t, color.NRGBA{B: 255, A: 255}, r1.Fill.Color)
	assert.Equal(t, 3., r1.Stroke.Width)
	assert.Equal(t, svgshape.Round, r1.Stroke.Join)
	assert.Equal(t, []float64{5, 3, 2, 5, 3, 2}, r1.Stroke.Dash.Dash)

	assert.Equal(t, 40., r2.Stroke.Width)
	assert.Equal(t, 0.5, r2.Fill.Opacity)
	assert.Nil(t, r2.Stroke.Dash.Dash)
}

func TestStylePrecedence(t *testing.T) {
	_, shapes, _ := parseString(t, DefaultOptions(), header+`>
		<style>
			rect { fill: green }
			#r1 { fill: yellow }
			.important { fill: gray !important }
		</style>
		<rect id="r1" fill="red" width="1" height="1"/>
		<rect id="r2" fill="red" width="1" height="1" style="fill:blue"/>
		<rect id="r3" fill="red" width="1" height="1"/>
		<rect id="r4" class="important" width="1" height="1" style="fill:blue"/>
	</svg>`)
	require.Len(t, shapes, 4)
	assert.Equal(t, color.NRGBA{R: 255, G: 255, A: 255}, shapes[0].Fill.Color)
	assert.Equal(t, color.NRGBA{B: 255, A: 255}, shapes[1].Fill.Color)
	assert.Equal(t, color.NRGBA{G: 128, A: 255}, shapes[2].Fill.Color)
	assert.Equal(t, color.NRGBA{R: 128, G: 128, B: 128, A: 255}, shapes[3].Fill.Color)
}

func TestCurrentColor(t *testing.T) {
	_, shapes, _ := parseString(t, DefaultOptions(), header+`>
		<g color="lime" fill="currentColor">
			<rect width="1" height="1" color="red"/>
		</g>
	</svg>`)
	rect := shapes[0].Children()[0]
	// currentColor is resolved where the property is specified
	assert.Equal(t, color.NRGBA{G: 255, A: 255}, rect.Fill.Color)

	// the keyword is case insensitive
	p, shapes, _ := parseString(t, DefaultOptions(), header+` color="blue">
		<linearGradient id="g"><stop offset="0" color="blue" stop-color="CURRENTCOLOR"/><stop offset="1" stop-color="red"/></linearGradient>
		<rect width="1" height="1" fill="url(#g)" stroke="CurrentColor"/>
	</svg>`)
	assert.Empty(t, p.Warnings())
	require.Len(t, shapes, 1)
	blue := color.NRGBA{B: 255, A: 255}
	assert.Equal(t, blue, shapes[0].Stroke.Color)
	require.NotNil(t, shapes[0].Fill.Gradient)
	assert.Equal(t, blue, shapes[0].Fill.Gradient.Stops[0].StopColor)
}

func TestVisibility(t *testing.T) {
	_, shapes, _ := parseString(t, DefaultOptions(), header+`>
		<g display="none"><rect width="1" height="1" display="inline"/></g>
		<g visibility="hidden"><rect width="1" height="1"/><rect width="1" height="1" visibility="visible"/></g>
	</svg>`)
	require.Len(t, shapes, 2)
	hidden := shapes[0]
	assert.False(t, hidden.Visible)
	assert.False(t, hidden.Children()[0].Visible)

	g := shapes[1]
	assert.True(t, g.Visible)
	assert.False(t, g.Children()[0].Visible)
	assert.True(t, g.Children()[1].Visible)
}

func TestOpacityAndEffects(t *testing.T) {
	_, shapes, _ := parseString(t, DefaultOptions(), header+`>
		<g opacity="0.5" filter="url(#f)" clip-path="url(#c)">
			<rect width="1" height="1" opacity="50%"/>
		</g>
		<rect width="1" height="1" mask="url(#m)"/>
		<filter id="f"/><clipPath id="c"/><mask id="m"/>
	</svg>`)
	require.Len(t, shapes, 2)
	g := shapes[0]
	assert.Equal(t, 0.5, g.Opacity)
	assert.Equal(t, "f", g.FilterID)
	assert.Equal(t, "c", g.ClipPathID)
	assert.True(t, g.Filtered)

	rect := g.Children()[0]
	assert.Equal(t, 0.25, rect.Opacity)
	assert.True(t, rect.Filtered)
	// not inherited
	assert.Empty(t, rect.FilterID)

	assert.Equal(t, "m", shapes[1].MaskID)
	assert.True(t, shapes[1].Filtered)
}

func TestInheritClip(t *testing.T) {
	_, shapes, _ := parseString(t, DefaultOptions(), header+`>
		<g clip-path="url(#c)">
			<g><rect width="1" height="1"/></g>
		</g>
		<rect width="1" height="1" clip-path="url(#c)"/>
		<clipPath id="c"/>
	</svg>`)
	require.Len(t, shapes, 2)
	g := shapes[0]
	assert.False(t, g.InheritClip)
	inner := g.Children()[0]
	assert.True(t, inner.InheritClip)
	assert.True(t, inner.Children()[0].InheritClip)
	assert.Empty(t, inner.ClipPathID)

	assert.Equal(t, "c", shapes[1].ClipPathID)
	assert.False(t, shapes[1].InheritClip)
	assert.False(t, shapes[1].InheritTransform)
}

func TestSwitch(t *testing.T) {
	_, shapes, _ := parseString(t, DefaultOptions(), header+`>
		<switch>
			<rect systemLanguage="fr" width="1" height="1"/>
			<circle r="1"/>
		</switch>
	</svg>`)
	require.Len(t, shapes, 1)
	require.Len(t, shapes[0].Children(), 1)
	assert.Equal(t, "circle", shapes[0].Children()[0].Tag)
}

func TestText(t *testing.T) {
	_, shapes, _ := parseString(t, DefaultOptions(), header+`>
		<text x="10" y="20" font-family="'Open Sans', sans-serif">
			Hello   <tspan font-weight="bold" dx="2">world</tspan>
		</text>
		<text xml:space="preserve">  a  </text>
		<text>   </text>
	</svg>`)
	require.Len(t, shapes, 2)
	text := shapes[0]
	assert.Equal(t, svgshape.TextShape, text.Kind)
	spans := text.Text.Spans
	require.Len(t, spans, 2)

	assert.Equal(t, "Hello ", spans[0].Text)
	assert.True(t, spans[0].HasPosition)
	assert.Equal(t, 10., spans[0].X)
	assert.Equal(t, 20., spans[0].Y)
	assert.Equal(t, 400, spans[0].Font.Weight)
	assert.Equal(t, "Open Sans", spans[0].Font.Family)
	assert.Equal(t, []string{"Open Sans", "sans-serif"}, spans[0].Font.Families)

	assert.Equal(t, "world", spans[1].Text)
	assert.False(t, spans[1].HasPosition)
	assert.Equal(t, 2., spans[1].DX)
	assert.Equal(t, 700, spans[1].Font.Weight)

	assert.Equal(t, "  a  ", shapes[1].Text.Spans[0].Text)
}

func TestTextBoundingBoxPaint(t *testing.T) {
	p, shapes, _ := parseString(t, DefaultOptions(), header+`>
		<linearGradient id="g"><stop offset="0" stop-color="blue"/><stop offset="1" stop-color="red"/></linearGradient>
		<linearGradient id="u" href="#g" gradientUnits="userSpaceOnUse"/>
		<pattern id="p" width="4" height="4" patternUnits="userSpaceOnUse" patternContentUnits="objectBoundingBox">
			<rect width="1" height="1"/>
		</pattern>
		<text fill="url(#g) red" stroke="url(#p)">a</text>
		<text fill="url(#u)">b</text>
	</svg>`)
	require.Len(t, shapes, 2)
	assert.True(t, hasWarning(p, ErrParamMismatch))

	// text has no area: bounding box units degrade to the fallback
	red := color.NRGBA{R: 255, A: 255}
	text := shapes[0]
	assert.Equal(t, svgshape.PaintSolid, text.Fill.Kind)
	assert.Equal(t, red, text.Fill.Color)
	assert.Nil(t, text.Fill.Gradient)
	assert.Equal(t, svgshape.PaintNone, text.Stroke.Kind)
	assert.Equal(t, red, text.Text.Spans[0].Fill.Color)

	// user space gradients are kept
	require.NotNil(t, shapes[1].Fill.Gradient)
	assert.Equal(t, svgshape.UserSpaceOnUse, shapes[1].Fill.Gradient.Units)
}

func TestTextPath(t *testing.T) {
	_, shapes, _ := parseString(t, DefaultOptions(), header+`>
		<path id="curve" d="M0 0 L10 0" transform="translate(0,5)"/>
		<text><textPath href="#curve">along</textPath> after</text>
	</svg>`)
	require.Len(t, shapes, 2)
	spans := shapes[1].Text.Spans
	require.Len(t, spans, 2)
	assert.Equal(t, "curve", spans[0].AlongID)
	assert.Equal(t, svgpath.Bounds{Y: 5, W: 10}, spans[0].Along.Bounds())
	assert.Nil(t, spans[1].Along)
}

type imageStore struct {
	images []*svgshape.Image
}

func (s *imageStore) AddImage(img *svgshape.Image) (string, error) {
	s.images = append(s.images, img)
	return fmt.Sprintf("img%d", len(s.images)), nil
}

const onePixelPNG = "iVBORw0KGgoAAAANSUhEUgAAAAEAAAABCAYAAAAfFcSJAAAADUlEQVR42mNk+M9QDwADhgGAWjR9awAAAABJRU5ErkJggg=="

func TestImage(t *testing.T) {
	store := &imageStore{}
	opts := DefaultOptions()
	opts.BaseDir = "/tmp/doc"
	opts.DataCenters = map[string]interface{}{ImageCollectionKey: store}
	p, shapes, _ := parseString(t, opts, header+`>
		<image x="2" y="3" href="data:image/png;base64,`+onePixelPNG+`"/>
		<image width="10" height="20" xlink:href="img/logo.jpg"/>
		<image href="img/unknown.jpg"/>
	</svg>`)
	assert.True(t, hasWarning(p, ErrBadImage))
	require.Len(t, shapes, 2)

	embedded := shapes[0].Image
	assert.Equal(t, svgpath.Bounds{X: 2, Y: 3, W: 1, H: 1}, embedded.Rect)
	assert.Equal(t, "image/png", embedded.MimeType)
	assert.NotEmpty(t, embedded.Data)
	assert.Equal(t, "img1", embedded.Key)

	file := shapes[1].Image
	assert.Equal(t, "/tmp/doc/img/logo.jpg", file.Path)
	assert.Equal(t, svgpath.Bounds{W: 10, H: 20}, file.Rect)
	assert.Equal(t, "img2", file.Key)
	assert.Len(t, store.images, 2)
}

func TestWarnMode(t *testing.T) {
	var buf bytes.Buffer
	opts := DefaultOptions()
	opts.ErrorMode = WarnErrorMode
	opts.Logger = log.New(&buf, "", 0)
	p, shapes, _ := parseString(t, opts, header+`xmlns:sodipodi="http://sodipodi.sourceforge.net/DTD/sodipodi-0.dtd">
		<sodipodi:namedview/>
		<blink/>
		<rect width="1" height="1" fill="#zz"/>
	</svg>`)
	require.Len(t, shapes, 1)
	assert.Len(t, p.Warnings(), 2)
	assert.True(t, hasWarning(p, ErrBadColor))
	assert.Contains(t, buf.String(), "svgparse:")
	assert.Contains(t, buf.String(), "<blink> line")

	// invalid values keep the inherited ones
	assert.Equal(t, color.NRGBA{A: 255}, shapes[0].Fill.Color)
}

func TestUnknownElement(t *testing.T) {
	p, shapes, _ := parseString(t, DefaultOptions(), header+`>
		<blink><rect width="1" height="1"/><g><circle r="2"/></g></blink>
	</svg>`)
	assert.Empty(t, shapes)
	assert.Empty(t, p.Shapes())
	require.Len(t, p.Warnings(), 1)
	assert.True(t, hasWarning(p, errUnsupportedElement))
}

func TestTitles(t *testing.T) {
	p, _, _ := parseString(t, DefaultOptions(), header+`>
		<title> My drawing </title>
		<desc>A description</desc>
	</svg>`)
	assert.Equal(t, []string{"My drawing"}, p.Titles())
	assert.Equal(t, []string{"A description"}, p.Descriptions())
}

type countingFactory struct{ tags []string }

func (f *countingFactory) NewNode(kind svgshape.Kind, tag string) *svgshape.Node {
	f.tags = append(f.tags, tag)
	if kind == svgshape.TextShape {
		return nil
	}
	return svgshape.New(kind, tag)
}

func TestFactory(t *testing.T) {
	factory := &countingFactory{}
	opts := DefaultOptions()
	opts.Factory = factory
	p, shapes, _ := parseString(t, opts, header+`>
		<text>skipped</text>
		<line x2="10" stroke="black"/>
	</svg>`)
	assert.Equal(t, []string{"text", "line"}, factory.tags)
	require.Len(t, shapes, 1)
	assert.Equal(t, 0, shapes[0].ZIndex)
	assert.Len(t, p.Shapes(), 1)
}

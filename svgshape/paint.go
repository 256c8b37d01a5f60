package svgshape

import (
	"image/color"
	"math"

	"github.com/srwiley/rasterx"
)

// PaintKind selects how a Paint is applied.
type PaintKind uint8

const (
	PaintNone PaintKind = iota
	PaintSolid
	PaintGradient
	PaintPattern
)

func (k PaintKind) String() string {
	switch k {
	case PaintNone:
		return "none"
	case PaintSolid:
		return "solid"
	case PaintGradient:
		return "gradient"
	case PaintPattern:
		return "pattern"
	default:
		return "<unknown PaintKind>"
	}
}

// Paint is a resolved fill or stroke paint.
type Paint struct {
	Kind    PaintKind
	Color   color.NRGBA // for PaintSolid
	Opacity float64     // fill-opacity or stroke-opacity, in [0, 1]

	Gradient *Gradient // for PaintGradient
	Pattern  *Pattern  // for PaintPattern
}

// IsNone returns true if nothing should be painted.
func (p Paint) IsNone() bool { return p.Kind == PaintNone }

// EffectiveColor returns the solid color with its opacity applied
// to the alpha channel.
func (p Paint) EffectiveColor() color.NRGBA {
	c := p.Color
	c.A = uint8(math.Round(float64(c.A) * clamp01(p.Opacity)))
	return c
}

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}

// FillRule is the rule used to decide what is inside a path.
type FillRule uint8

const (
	NonZero FillRule = iota
	EvenOdd
)

// JoinMode type to specify how segments join.
type JoinMode uint8

// JoinMode constants determine how stroke segments bridge the gap at a join
// ArcClip mode is like MiterClip applied to arcs, and is not part of the SVG2.0
// standard.
const (
	Arc JoinMode = iota // New in SVG2
	Round
	Bevel
	Miter
	MiterClip // New in SVG2
	ArcClip   // Like MiterClip applied to arcs, and is not part of the SVG2.0 standard.
)

func (s JoinMode) String() string {
	switch s {
	case Round:
		return "Round"
	case Bevel:
		return "Bevel"
	case Miter:
		return "Miter"
	case MiterClip:
		return "MiterClip"
	case Arc:
		return "Arc"
	case ArcClip:
		return "ArcClip"
	default:
		return "<unknown JoinMode>"
	}
}

var joinToJoin = [...]rasterx.JoinMode{
	Round:     rasterx.Round,
	Bevel:     rasterx.Bevel,
	Miter:     rasterx.Miter,
	MiterClip: rasterx.MiterClip,
	Arc:       rasterx.Arc,
	ArcClip:   rasterx.ArcClip,
}

// Rasterx returns the equivalent rasterx join mode.
func (s JoinMode) Rasterx() rasterx.JoinMode {
	if int(s) < len(joinToJoin) {
		return joinToJoin[s]
	}
	return rasterx.Miter
}

// CapMode defines how to draw caps on the ends of lines
type CapMode uint8

const (
	NilCap CapMode = iota // default value
	ButtCap
	SquareCap
	RoundCap
)

func (c CapMode) String() string {
	switch c {
	case NilCap:
		return "NilCap"
	case ButtCap:
		return "ButtCap"
	case SquareCap:
		return "SquareCap"
	case RoundCap:
		return "RoundCap"
	default:
		return "<unknown CapMode>"
	}
}

// Rasterx returns the equivalent rasterx capping function.
func (c CapMode) Rasterx() rasterx.CapFunc {
	switch c {
	case SquareCap:
		return rasterx.SquareCap
	case RoundCap:
		return rasterx.RoundCap
	default:
		return rasterx.ButtCap
	}
}

type DashOptions struct {
	Dash       []float64 // values for the dash pattern (nil or an empty slice for no dashes)
	DashOffset float64   // starting offset into the dash array
}

// Stroke is a resolved stroke style. Width is expressed in
// the node coordinates (Node.Transform is not applied).
type Stroke struct {
	Paint
	Width      float64
	MiterLimit float64
	Join       JoinMode
	Cap        CapMode
	Dash       DashOptions
}

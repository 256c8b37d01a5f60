package svgshape

import (
	"strings"

	"github.com/benoitkugler/svgimport/svgpath"
)

// Font describes the text font of a span.
type Font struct {
	Family   string   // first family of the list, unquoted
	Families []string // the whole `font-family` list
	Size     float64  // in points
	Weight   int      // 100 to 900, 400 is normal
	Italic   bool

	Underline, LineThrough, Overline bool
}

// TextAnchor is the alignment of a text chunk relative to its position.
type TextAnchor uint8

const (
	AnchorStart TextAnchor = iota
	AnchorMiddle
	AnchorEnd
)

// TextSpan is a run of text sharing the same style.
type TextSpan struct {
	Text string
	// X, Y is the explicit start position of the span,
	// in the text node coordinates. HasPosition is false when the
	// span follows the previous one.
	X, Y        float64
	HasPosition bool
	DX, DY      float64 // relative shifts

	Font   Font
	Anchor TextAnchor
	Fill   Paint
	Stroke Stroke

	// Along is the path referenced by a textPath element,
	// in the text node coordinates.
	Along   svgpath.Path
	AlongID string
}

// Text is the payload of TextShape nodes.
type Text struct {
	Spans []TextSpan
}

// String returns the concatenated text of the spans.
func (t *Text) String() string {
	var sb strings.Builder
	for _, span := range t.Spans {
		sb.WriteString(span.Text)
	}
	return sb.String()
}

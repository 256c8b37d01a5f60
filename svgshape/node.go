// Package svgshape defines the shapes produced when importing
// an SVG document: groups and layers containing paths, texts and images,
// with their resolved fill and stroke styles.
//
// The model is a tree of *Node, whose Kind selects the active payload.
// Container capabilities are accessed with AsContainer.
package svgshape

import (
	"fmt"

	"github.com/benoitkugler/svgimport/svgpath"
	"github.com/srwiley/rasterx"
)

// Kind identifies the variant of a Node.
type Kind uint8

const (
	Group Kind = iota
	Layer
	PathShape
	TextShape
	ImageShape
)

func (k Kind) String() string {
	switch k {
	case Group:
		return "Group"
	case Layer:
		return "Layer"
	case PathShape:
		return "Path"
	case TextShape:
		return "Text"
	case ImageShape:
		return "Image"
	default:
		return fmt.Sprintf("<unknown Kind %d>", uint8(k))
	}
}

// Size is a document or fragment size, in points.
type Size struct{ Width, Height float64 }

// Node is one shape of the imported document.
type Node struct {
	Kind Kind

	ID   string // the `id` attribute of the source element
	Name string // `id`, or `inkscape:label` for groups
	Tag  string // source element

	ZIndex  int
	Visible bool

	// Transform maps the node coordinates to the document coordinates.
	// It is absolute: the transforms of the ancestors are already applied.
	Transform rasterx.Matrix2D
	// InheritTransform is false when Transform is absolute (the default
	// for imported shapes), true if the host should compose it with
	// the transform of the parent container.
	InheritTransform bool
	// InheritClip is true if the node is clipped by its parent container.
	// The parser sets it when a clip-path applies to an ancestor.
	InheritClip bool

	Opacity  float64 // group opacity, already multiplied by the ancestors one
	Fill     Paint
	FillRule FillRule
	Stroke   Stroke

	// references to unsupported effects, recorded as is
	ClipPathID, MaskID, FilterID string
	// Filtered is true if a filter or a mask applies to the node.
	Filtered bool
	// LayerHint is true for groups marked as layer by the authoring tool.
	LayerHint bool

	Path  svgpath.Path // for PathShape
	Text  *Text        // for TextShape
	Image *Image       // for ImageShape

	Parent   *Node
	children []*Node
}

// IsContainer returns true for groups and layers.
func (n *Node) IsContainer() bool { return n.Kind == Group || n.Kind == Layer }

// Container is the capability of nodes which hold other nodes.
type Container interface {
	Children() []*Node
	// AddChild appends `child` and sets its parent,
	// detaching it from its previous container if needed.
	AddChild(child *Node)
	// RemoveChild returns false if `child` is not a child.
	RemoveChild(child *Node) bool
}

type container struct{ n *Node }

func (c container) Children() []*Node { return c.n.children }

func (c container) AddChild(child *Node) {
	if child.Parent != nil {
		if pc := child.Parent.AsContainer(); pc != nil {
			pc.RemoveChild(child)
		}
	}
	child.Parent = c.n
	c.n.children = append(c.n.children, child)
}

func (c container) RemoveChild(child *Node) bool {
	for i, ch := range c.n.children {
		if ch == child {
			c.n.children = append(c.n.children[:i], c.n.children[i+1:]...)
			child.Parent = nil
			return true
		}
	}
	return false
}

// AsContainer returns the container capability of the node,
// or nil for primitive shapes.
func (n *Node) AsContainer() Container {
	if !n.IsContainer() {
		return nil
	}
	return container{n}
}

// Children is a shortcut returning nil for primitive shapes.
func (n *Node) Children() []*Node {
	if c := n.AsContainer(); c != nil {
		return c.Children()
	}
	return nil
}

// Walk calls fn for n and its descendants, in depth-first order.
func (n *Node) Walk(fn func(*Node)) {
	fn(n)
	for _, child := range n.Children() {
		child.Walk(fn)
	}
}

// Bounds returns the bounding box of the node in document coordinates.
// Text nodes have no geometry and return the anchor point of their first span.
// Containers union the boxes of their children, ignoring text nodes
// and empty containers.
func (n *Node) Bounds() svgpath.Bounds {
	if n.Kind == TextShape {
		if n.Text == nil || len(n.Text.Spans) == 0 {
			return svgpath.Bounds{}
		}
		x, y := n.Transform.Transform(n.Text.Spans[0].X, n.Text.Spans[0].Y)
		return svgpath.Bounds{X: x, Y: y}
	}
	b, _ := n.geometryBounds()
	return b
}

// geometryBounds returns false if the node has no geometry.
func (n *Node) geometryBounds() (svgpath.Bounds, bool) {
	switch n.Kind {
	case PathShape:
		if len(n.Path) == 0 {
			return svgpath.Bounds{}, false
		}
		return n.Path.Transform(n.Transform).Bounds(), true
	case ImageShape:
		if n.Image == nil {
			return svgpath.Bounds{}, false
		}
		return n.Image.Rect.Transform(n.Transform), true
	case TextShape:
		return svgpath.Bounds{}, false
	default:
		var (
			out  svgpath.Bounds
			seen bool
		)
		for _, child := range n.children {
			b, ok := child.geometryBounds()
			if !ok {
				continue
			}
			if !seen {
				out, seen = b, true
			} else {
				out = out.Union(b)
			}
		}
		return out, seen
	}
}

// Factory is the shape-factory capability used by the parser
// to instantiate nodes.
type Factory interface {
	// NewNode returns a new node of the given kind, for the
	// source element `tag`. Returning nil means the host does not support
	// this kind of shape: the element is then skipped.
	NewNode(kind Kind, tag string) *Node
}

type defaultFactory struct{}

func (defaultFactory) NewNode(kind Kind, tag string) *Node { return New(kind, tag) }

// DefaultFactory creates nodes with New.
var DefaultFactory Factory = defaultFactory{}

// New returns a visible node with identity transform and full opacity.
func New(kind Kind, tag string) *Node {
	return &Node{
		Kind:        kind,
		Tag:         tag,
		Visible:     true,
		Transform:   rasterx.Identity,
		InheritClip: true,
		Opacity:     1,
		Stroke:      Stroke{Width: 1, MiterLimit: 4, Join: Miter, Cap: ButtCap},
	}
}

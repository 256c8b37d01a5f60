package svgdoc

import (
	"github.com/benoitkugler/svgimport/svgshape"
	"github.com/srwiley/rasterx"
)

// Content is the result of a parse, consumed by BuildDocument.
type Content struct {
	// TopLevel are the shapes created for the children of the root element.
	TopLevel []*svgshape.Node
	// Shapes are all the shapes, nested ones included.
	Shapes []*svgshape.Node
	Size   svgshape.Size
}

// isPlainGroup returns true for groups which may be replaced by a layer.
// Transforms and opacities are already applied to the children.
func isPlainGroup(n *svgshape.Node) bool {
	return n.Kind == svgshape.Group && !n.Filtered && n.ClipPathID == ""
}

func newLayer(factory svgshape.Factory, tag string) *svgshape.Node {
	layer := factory.NewNode(svgshape.Layer, tag)
	if layer == nil {
		layer = svgshape.New(svgshape.Layer, tag)
	}
	layer.Kind = svgshape.Layer
	layer.Transform = rasterx.Identity
	layer.Visible = true
	layer.Opacity = 1
	return layer
}

// BuildDocument inserts `content` into `doc` and returns the new layers.
//
// When every top-level shape is a plain group, each group is replaced by a
// layer holding its children. Otherwise, one layer holds all the top-level
// shapes. The empty layers `doc` had before the import are then removed.
// A nil factory means svgshape.DefaultFactory.
func BuildDocument(doc Document, content Content, factory svgshape.Factory) []*svgshape.Node {
	if factory == nil {
		factory = svgshape.DefaultFactory
	}
	previous := append([]*svgshape.Node(nil), doc.Layers()...)

	allGroups := true
	for _, n := range content.TopLevel {
		if !isPlainGroup(n) {
			allGroups = false
			break
		}
	}

	var (
		layers    []*svgshape.Node
		unwrapped = make(map[*svgshape.Node]bool)
	)
	if allGroups {
		for _, g := range content.TopLevel {
			layer := newLayer(factory, g.Tag)
			layer.ID, layer.Name, layer.ZIndex = g.ID, g.Name, g.ZIndex
			layer.Visible = g.Visible
			c := layer.AsContainer()
			for _, child := range append([]*svgshape.Node(nil), g.Children()...) {
				c.AddChild(child)
			}
			unwrapped[g] = true
			layers = append(layers, layer)
		}
	} else {
		layer := newLayer(factory, "svg")
		layer.Name = "Layer"
		c := layer.AsContainer()
		for _, n := range content.TopLevel {
			c.AddChild(n)
		}
		layers = append(layers, layer)
	}

	for _, layer := range layers {
		doc.InsertLayer(layer)
	}
	if len(layers) != 0 {
		for _, layer := range previous {
			if len(layer.Children()) == 0 {
				doc.RemoveLayer(layer)
			}
		}
	}
	doc.SetPageSize(content.Size)

	for _, n := range content.Shapes {
		if !unwrapped[n] {
			doc.Add(n)
		}
	}
	return layers
}

// Package svgdoc assembles the shapes of an SVG document into
// the layer model of a host document.
package svgdoc

import (
	"crypto/sha1"
	"encoding/hex"

	"github.com/benoitkugler/svgimport/svgshape"
)

// Document is the host document receiving imported shapes.
type Document interface {
	// Add registers a shape of the document. It is
	// called once for every imported shape, nested ones included.
	Add(shape *svgshape.Node)
	// InsertLayer adds a layer on top of the existing ones.
	InsertLayer(layer *svgshape.Node)
	RemoveLayer(layer *svgshape.Node)
	// Layers returns the layers, from bottom to top.
	Layers() []*svgshape.Node
	SetPageSize(size svgshape.Size)
}

// Memory is an in-memory Document, which also
// stores embedded and linked images.
type Memory struct {
	PageSize svgshape.Size

	layers []*svgshape.Node
	shapes []*svgshape.Node
	images map[string]*svgshape.Image
}

var (
	_ Document                 = (*Memory)(nil)
	_ svgshape.ImageCollection = (*Memory)(nil)
)

// NewMemory returns a document with one empty layer,
// as a freshly created document.
func NewMemory() *Memory {
	layer := svgshape.New(svgshape.Layer, "")
	layer.Name = "Layer"
	return &Memory{layers: []*svgshape.Node{layer}, images: make(map[string]*svgshape.Image)}
}

func (m *Memory) Add(shape *svgshape.Node) { m.shapes = append(m.shapes, shape) }

func (m *Memory) InsertLayer(layer *svgshape.Node) { m.layers = append(m.layers, layer) }

func (m *Memory) RemoveLayer(layer *svgshape.Node) {
	for i, l := range m.layers {
		if l == layer {
			m.layers = append(m.layers[:i], m.layers[i+1:]...)
			return
		}
	}
}

func (m *Memory) Layers() []*svgshape.Node { return m.layers }

func (m *Memory) SetPageSize(size svgshape.Size) { m.PageSize = size }

// Shapes returns the shapes registered with Add.
func (m *Memory) Shapes() []*svgshape.Node { return m.shapes }

// FindShape returns the shape named `name`, looking
// in the top layers first, or nil.
func (m *Memory) FindShape(name string) *svgshape.Node {
	for i := len(m.layers) - 1; i >= 0; i-- {
		if found := findShape(m.layers[i], name); found != nil {
			return found
		}
	}
	return nil
}

func findShape(container *svgshape.Node, name string) *svgshape.Node {
	for _, child := range container.Children() {
		if child.Name == name {
			return child
		}
		if found := findShape(child, name); found != nil {
			return found
		}
	}
	return nil
}

// AddImage implements svgshape.ImageCollection. Linked images
// are identified by their path, embedded ones by their content.
func (m *Memory) AddImage(img *svgshape.Image) (string, error) {
	key := img.Path
	if len(img.Data) != 0 {
		sum := sha1.Sum(img.Data)
		key = "data:" + hex.EncodeToString(sum[:8])
	}
	if key == "" {
		key = img.Href
	}
	if m.images == nil {
		m.images = make(map[string]*svgshape.Image)
	}
	if _, has := m.images[key]; !has {
		m.images[key] = img
	}
	return key, nil
}

// Image returns the image registered with `key`, or nil.
func (m *Memory) Image(key string) *svgshape.Image { return m.images[key] }

package svgshape

import "github.com/benoitkugler/svgimport/svgpath"

// Image is the payload of ImageShape nodes.
type Image struct {
	// Rect is the image placement, in the node coordinates.
	Rect svgpath.Bounds

	// Href is the raw reference found in the document.
	Href string
	// Path is the local file resolved against the base directory,
	// empty for embedded images.
	Path string
	// Data and MimeType are set for embedded (data URI) images.
	Data     []byte
	MimeType string

	// Key is the identifier returned by the image collection,
	// when one is available.
	Key string

	PreserveAspectRatio string
}

// ImageCollection is the resource manager storing the images
// of a host document.
type ImageCollection interface {
	// AddImage registers an image, given either by its content (embedded
	// images) or by a local file path, and returns its key.
	AddImage(img *Image) (key string, err error)
}

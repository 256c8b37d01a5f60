// Package svgparse converts an SVG element tree into a tree of
// svgshape nodes, with resolved styles, paint servers, transforms and units.
//
// The parser is permissive: bad attribute values, unresolvable references
// and reference cycles are recovered locally and reported as warnings,
// see ErrorMode and Parser.Warnings.
package svgparse

import (
	"log"

	"github.com/benoitkugler/svgimport/svgshape"
)

// ErrorMode is the for setting how the parser reacts to unparsed elements
// or invalid values.
type ErrorMode uint8

const (
	// IgnoreErrorMode records the problems without logging them.
	IgnoreErrorMode ErrorMode = iota
	// WarnErrorMode logs each problem as it is recovered.
	WarnErrorMode
	// StrictErrorMode records the problems, which are reported
	// as an error once the whole document is imported.
	StrictErrorMode
)

// ImageCollectionKey is the data center key of the
// svgshape.ImageCollection used to register images.
const ImageCollectionKey = "ImageCollection"

// DefaultPageSize is used when the root element has no size.
var DefaultPageSize = svgshape.Size{Width: 550, Height: 841}

// DefaultMaxDepth bounds the nesting of containers, `use` and patterns.
const DefaultMaxDepth = 200

// Options configures a Parser. The zero value is usable.
type Options struct {
	PageSize svgshape.Size // default to DefaultPageSize
	MaxDepth int           // default to DefaultMaxDepth

	// BaseDir is used to resolve relative image references.
	BaseDir string

	ErrorMode ErrorMode
	Logger    *log.Logger // default to log.Default()

	// Factory instantiates the nodes. Default to svgshape.DefaultFactory.
	Factory svgshape.Factory

	// DataCenters are the resource managers of the host document.
	DataCenters map[string]interface{}
}

// DefaultOptions returns the options used when nothing is specified.
func DefaultOptions() Options {
	return Options{
		PageSize: DefaultPageSize,
		MaxDepth: DefaultMaxDepth,
		Logger:   log.Default(),
		Factory:  svgshape.DefaultFactory,
	}
}

func (opts Options) withDefaults() Options {
	def := DefaultOptions()
	if opts.PageSize.Width <= 0 || opts.PageSize.Height <= 0 {
		opts.PageSize = def.PageSize
	}
	if opts.MaxDepth <= 0 {
		opts.MaxDepth = def.MaxDepth
	}
	if opts.Logger == nil {
		opts.Logger = def.Logger
	}
	if opts.Factory == nil {
		opts.Factory = def.Factory
	}
	return opts
}

func (opts Options) imageCollection() svgshape.ImageCollection {
	coll, _ := opts.DataCenters[ImageCollectionKey].(svgshape.ImageCollection)
	return coll
}

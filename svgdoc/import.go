package svgdoc

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/benoitkugler/svgimport/svgparse"
	"github.com/benoitkugler/svgimport/svgshape"
	"github.com/benoitkugler/svgimport/svgxml"
)

// Import reads an SVG document from `stream` and adds its shapes to `doc`.
// If `doc` is an svgshape.ImageCollection and none is provided in
// opts.DataCenters, images are registered in `doc`.
//
// Only malformed XML aborts the import. In svgparse.StrictErrorMode the
// recovered problems are returned as an error, once the document is built.
// The returned parser gives access to the warnings, titles and descriptions.
func Import(stream io.Reader, doc Document, opts svgparse.Options) (*svgparse.Parser, error) {
	root, err := svgxml.Parse(stream)
	if err != nil {
		return nil, err
	}

	if coll, ok := doc.(svgshape.ImageCollection); ok {
		if _, has := opts.DataCenters[svgparse.ImageCollectionKey]; !has {
			centers := make(map[string]interface{}, len(opts.DataCenters)+1)
			for k, v := range opts.DataCenters {
				centers[k] = v
			}
			centers[svgparse.ImageCollectionKey] = coll
			opts.DataCenters = centers
		}
	}

	p := svgparse.NewParser(opts)
	toplevel, size := p.ParseSvg(root)
	BuildDocument(doc, Content{TopLevel: toplevel, Shapes: p.Shapes(), Size: size}, opts.Factory)

	if warnings := p.Warnings(); opts.ErrorMode == svgparse.StrictErrorMode && len(warnings) != 0 {
		return p, fmt.Errorf("svgdoc: %d invalid values in document: %w", len(warnings), errors.Join(warnings...))
	}
	return p, nil
}

// ImportFile is like Import, reading the file `filename`.
// Relative images are resolved against the file directory,
// unless opts.BaseDir is set.
func ImportFile(filename string, doc Document, opts svgparse.Options) (*svgparse.Parser, error) {
	fin, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer fin.Close()
	if opts.BaseDir == "" {
		opts.BaseDir = filepath.Dir(filename)
	}
	return Import(fin, doc, opts)
}

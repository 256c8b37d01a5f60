package svgshape

import (
	"github.com/benoitkugler/svgimport/svgpath"
	"github.com/srwiley/rasterx"
)

// Pattern is a resolved pattern paint server.
type Pattern struct {
	ID string

	// Tile is the pattern tile, in the coordinates of the painted shape
	// (before Matrix is applied), whatever the patternUnits.
	Tile svgpath.Bounds
	// Matrix is the patternTransform.
	Matrix rasterx.Matrix2D
	// ContentMatrix maps the content coordinates to the tile
	// coordinates, according to the viewBox and patternContentUnits.
	ContentMatrix rasterx.Matrix2D

	Units, ContentUnits GradientUnits

	// Content holds the shapes drawn in one tile. Their transforms
	// are relative to the tile: ContentMatrix is already applied.
	Content []*Node
}

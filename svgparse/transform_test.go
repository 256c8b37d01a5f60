package svgparse

import (
	"testing"

	"github.com/srwiley/rasterx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func assertPoint(t *testing.T, m rasterx.Matrix2D, x, y, ex, ey float64) {
	t.Helper()
	gx, gy := m.Transform(x, y)
	assert.InDelta(t, ex, gx, 1e-9)
	assert.InDelta(t, ey, gy, 1e-9)
}

func TestParseTransformComposition(t *testing.T) {
	m, err := ParseTransform("translate(10,0) scale(2)")
	require.NoError(t, err)
	assertPoint(t, m, 0, 0, 10, 0)
	assertPoint(t, m, 1, 0, 12, 0)

	m, err = ParseTransform("scale(2) translate(10,0)")
	require.NoError(t, err)
	assertPoint(t, m, 0, 0, 20, 0)
}

func TestParseTransformFunctions(t *testing.T) {
	for _, test := range []struct {
		in             string
		x, y, ex, ey float64
	}{
		{"translate(5)", 1, 1, 6, 1},
		{"translate(5 -3)", 1, 1, 6, -2},
		{"scale(3)", 1, 2, 3, 6},
		{"scale(2, 0.5)", 1, 2, 2, 1},
		{"rotate(90)", 1, 0, 0, 1},
		{"rotate(180, 5, 5)", 0, 0, 10, 10},
		{"skewX(45)", 0, 1, 1, 1},
		{"skewY(45)", 1, 0, 1, 1},
		{"matrix(1 0 0 1 7 8)", 0, 0, 7, 8},
		{"  TRANSLATE ( 1 , 2 ) ", 0, 0, 1, 2},
		{"", 3, 4, 3, 4},
	} {
		m, err := ParseTransform(test.in)
		require.NoError(t, err, test.in)
		assertPoint(t, m, test.x, test.y, test.ex, test.ey)
	}
}

func TestParseTransformPermissive(t *testing.T) {
	// the invalid functions are skipped, the others are applied
	m, err := ParseTransform("translate(1,2) rotate(1,2) unknown(4) translate(1)")
	assert.ErrorIs(t, err, ErrBadTransform)
	assertPoint(t, m, 0, 0, 2, 2)

	m, err = ParseTransform("translate(3,4) scale(2")
	assert.ErrorIs(t, err, ErrBadTransform)
	assertPoint(t, m, 0, 0, 3, 4)
}

package svgxml

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTree(t *testing.T) {
	input := `<?xml version="1.0"?>
<svg xmlns="http://www.w3.org/2000/svg" xmlns:xlink="http://www.w3.org/1999/xlink" width="100">
  <g id="g1"><rect width="10"/></g>
  <use xlink:href="#g1"/>
  <text>Hello <tspan>world</tspan></text>
</svg>`
	root, err := Parse(strings.NewReader(input))
	require.NoError(t, err)

	assert.Equal(t, "svg", root.Name)
	assert.Equal(t, "100", root.Attr("width"))
	assert.Equal(t, 2, root.Line)

	elems := root.Elements()
	require.Len(t, elems, 3)
	assert.Equal(t, "g1", elems[0].ID())
	assert.Equal(t, root, elems[0].Parent)
	assert.Equal(t, "g1", elems[1].Href())
	assert.Equal(t, "Hello world", elems[2].TextContent())

	rect := elems[0].Elements()[0]
	assert.True(t, rect.Within(root))
	assert.False(t, root.Within(rect))

	var names []string
	root.Walk(func(e *Element) bool {
		names = append(names, e.Name)
		return e.Name != "g"
	})
	assert.Equal(t, []string{"svg", "g", "use", "text", "tspan"}, names)
}

func TestHref(t *testing.T) {
	root, err := Parse(strings.NewReader(`<svg><use href=" #a "/><use href="file.svg#a"/></svg>`))
	require.NoError(t, err)
	uses := root.Elements()
	assert.Equal(t, "a", uses[0].Href())
	assert.Equal(t, "", uses[1].Href())
	assert.False(t, uses[1].HasAttr("x"))
}

func TestMalformed(t *testing.T) {
	for _, input := range []string{
		"",
		"<svg><g></svg>",
		"<svg>\n<rect x='1'>\n</svg>",
	} {
		_, err := Parse(strings.NewReader(input))
		require.Error(t, err, input)
		var se *SyntaxError
		assert.True(t, errors.As(err, &se))
	}
}

func TestCharset(t *testing.T) {
	input := "<?xml version=\"1.0\" encoding=\"ISO-8859-1\"?><svg><title>caf\xe9</title></svg>"
	root, err := Parse(strings.NewReader(input))
	require.NoError(t, err)
	assert.Equal(t, "café", root.Elements()[0].TextContent())
}

package svgxml

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"os"

	"golang.org/x/net/html/charset"
)

var errNoElement = errors.New("no root element")

// SyntaxError is returned when the input is not a well-formed XML document.
type SyntaxError struct {
	Line, Column int
	Err          error
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("invalid svg xml (line %d, column %d): %s", e.Line, e.Column, e.Err)
}

func (e *SyntaxError) Unwrap() error { return e.Err }

// Parse reads the whole XML document from `stream` and returns
// its root element. Any character encoding announced in the XML
// declaration is supported.
func Parse(stream io.Reader) (*Element, error) {
	decoder := xml.NewDecoder(stream)
	decoder.CharsetReader = charset.NewReaderLabel

	var (
		root    *Element
		current *Element
	)
	for {
		line, col := decoder.InputPos()
		t, err := decoder.Token()
		if err != nil {
			if err == io.EOF {
				break
			}
			if se, ok := err.(*xml.SyntaxError); ok {
				line = se.Line
			}
			return nil, &SyntaxError{Line: line, Column: col, Err: err}
		}
		switch se := t.(type) {
		case xml.StartElement:
			el := &Element{
				Name:   se.Name.Local,
				Space:  se.Name.Space,
				Attrs:  se.Copy().Attr,
				Parent: current,
				Line:   line,
			}
			if current == nil {
				if root != nil { // the decoder rejects this already
					return nil, &SyntaxError{Line: line, Column: col, Err: errors.New("multiple root elements")}
				}
				root = el
			} else {
				current.Children = append(current.Children, el)
			}
			current = el
		case xml.EndElement:
			if current != nil {
				current = current.Parent
			}
		case xml.CharData:
			if current != nil {
				current.Children = append(current.Children, &Element{Text: string(se), Parent: current, Line: line})
			}
		}
	}
	if root == nil {
		line, col := decoder.InputPos()
		return nil, &SyntaxError{Line: line, Column: col, Err: errNoElement}
	}
	return root, nil
}

// ParseFile reads the named file, see Parse.
func ParseFile(filename string) (*Element, error) {
	fin, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer fin.Close()
	return Parse(fin)
}

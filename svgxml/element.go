// Package svgxml reads SVG documents into a lightweight element tree,
// which is then walked by the svgparse package.
// Only the structure is kept here: no SVG semantic is applied.
package svgxml

import (
	"encoding/xml"
	"strings"
)

// Element is a node of the XML tree. Character data is stored
// as children with an empty Name, see IsText.
type Element struct {
	Name     string // local tag name, without namespace prefix
	Space    string // resolved namespace, if any
	Attrs    []xml.Attr
	Children []*Element
	Parent   *Element

	Text string // character data, only for text nodes
	Line int    // line of the start tag in the source
}

// IsText returns true for character data nodes.
func (e *Element) IsText() bool { return e.Name == "" }

// LookupAttr returns the value of the first attribute with
// the given local name, whatever its namespace.
// As a consequence, `href` matches both `href` and `xlink:href`.
func (e *Element) LookupAttr(local string) (string, bool) {
	for _, attr := range e.Attrs {
		if attr.Name.Local == local {
			return attr.Value, true
		}
	}
	return "", false
}

// Attr is like LookupAttr, returning an empty string for missing attributes.
func (e *Element) Attr(local string) string {
	v, _ := e.LookupAttr(local)
	return v
}

// HasAttr returns true if the attribute is present, even with an empty value.
func (e *Element) HasAttr(local string) bool {
	_, ok := e.LookupAttr(local)
	return ok
}

// ID returns the trimmed `id` attribute.
func (e *Element) ID() string { return strings.TrimSpace(e.Attr("id")) }

// Href returns the target of a local reference (`href="#id"` or
// `xlink:href="#id"`), or an empty string.
func (e *Element) Href() string {
	href := strings.TrimSpace(e.Attr("href"))
	if !strings.HasPrefix(href, "#") {
		return ""
	}
	return href[1:]
}

// Elements returns the children which are not text nodes.
func (e *Element) Elements() []*Element {
	out := make([]*Element, 0, len(e.Children))
	for _, child := range e.Children {
		if !child.IsText() {
			out = append(out, child)
		}
	}
	return out
}

// TextContent returns the concatenation of the character data
// of the element and all its descendants, in document order.
func (e *Element) TextContent() string {
	if e.IsText() {
		return e.Text
	}
	var sb strings.Builder
	for _, child := range e.Children {
		sb.WriteString(child.TextContent())
	}
	return sb.String()
}

// Walk calls fn for `e` and its descendant elements, in document order.
// Text nodes are not visited. If fn returns false, the children of
// the current element are skipped.
func (e *Element) Walk(fn func(*Element) bool) {
	if e.IsText() {
		return
	}
	if !fn(e) {
		return
	}
	for _, child := range e.Children {
		child.Walk(fn)
	}
}

// Within returns true if `e` is `other` or one of its descendants.
func (e *Element) Within(other *Element) bool {
	for p := e; p != nil; p = p.Parent {
		if p == other {
			return true
		}
	}
	return false
}

package graph

import "github.com/tidwall/gjson"

// SetAttrJSON replaces a node's attribute document with the given JSON.
// A nil or empty document clears the node's attributes.
// Returns ErrNodeNotFound if the node is not present, or ErrInvalidAttr
// if the document is not valid JSON.
func (g *Graph) SetAttrJSON(n Node, doc []byte) error {
	if _, exists := g.nodes[n]; !exists {
		return ErrNodeNotFound
	}
	if len(doc) == 0 {
		delete(g.attrs, n)
		return nil
	}
	if !gjson.ValidBytes(doc) {
		return ErrInvalidAttr
	}
	cp := make([]byte, len(doc))
	copy(cp, doc)
	g.attrs[n] = cp
	return nil
}

// AttrJSON returns a copy of a node's attribute document, or nil if the
// node has no attributes.
func (g *Graph) AttrJSON(n Node) []byte {
	doc, ok := g.attrs[n]
	if !ok {
		return nil
	}
	cp := make([]byte, len(doc))
	copy(cp, doc)
	return cp
}

// Attr resolves a path inside a node's attribute document.
// The result is gjson's zero value when the node has no attributes or the
// path does not match.
func (g *Graph) Attr(n Node, path string) gjson.Result {
	doc, ok := g.attrs[n]
	if !ok {
		return gjson.Result{}
	}
	return gjson.GetBytes(doc, path)
}

// HasAttrs reports whether a node carries an attribute document.
func (g *Graph) HasAttrs(n Node) bool {
	_, ok := g.attrs[n]
	return ok
}

package crossref

import (
	"encoding/xml"
	"fmt"
	"io"
	"strings"

	"doiproxy/src/internal/sanitize"
	"doiproxy/src/internal/stringsx"
)

// Node is one element of a parsed XML document. Names are local names, so
// "jats:abstract" is matched as "abstract". Same-named siblings are kept in
// document order.
type Node struct {
	Name     string
	Attrs    map[string]string
	Children []*Node

	inner strings.Builder // all character data beneath the node, in order
}

// Parse reads an XML document into a generic tree without validating it
// against any schema. The returned node is the document itself; its children
// are the top-level elements. An empty document yields a node with no
// children.
func Parse(r io.Reader) (*Node, error) {
	dec := xml.NewDecoder(r)
	root := &Node{}
	stack := []*Node{root}
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("crossref: parsing xml: %w", err)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			n := &Node{Name: t.Name.Local}
			if len(t.Attr) > 0 {
				n.Attrs = make(map[string]string, len(t.Attr))
				for _, a := range t.Attr {
					n.Attrs[a.Name.Local] = a.Value
				}
			}
			parent := stack[len(stack)-1]
			parent.Children = append(parent.Children, n)
			stack = append(stack, n)
		case xml.EndElement:
			stack = stack[:len(stack)-1]
		case xml.CharData:
			for _, n := range stack[1:] {
				n.inner.Write(t)
			}
		}
	}
	return root, nil
}

// Child returns the first child named name, or nil. Safe on a nil node.
func (n *Node) Child(name string) *Node {
	if n == nil {
		return nil
	}
	for _, c := range n.Children {
		if c.Name == name {
			return c
		}
	}
	return nil
}

// Path follows names from n one level at a time and returns nil as soon as
// a step is missing.
func (n *Node) Path(names ...string) *Node {
	cur := n
	for _, name := range names {
		cur = cur.Child(name)
		if cur == nil {
			return nil
		}
	}
	return cur
}

// Text returns the node's text with whitespace collapsed, or nil when the
// node is absent or blank. Text split across formatting children such as
// <i> or <sup> is rejoined in document order.
func (n *Node) Text() *string {
	if n == nil {
		return nil
	}
	return stringsx.OrNil(sanitize.CollapseSpace(n.inner.String()))
}

// Shape is the set of children sharing one name. A field in the registry
// document may hold a single record or a sequence of records (several
// person_name or publication_date elements); Shape makes that explicit.
type Shape []*Node

// Lookup returns the children of n named name.
func (n *Node) Lookup(name string) Shape {
	if n == nil {
		return nil
	}
	var out Shape
	for _, c := range n.Children {
		if c.Name == name {
			out = append(out, c)
		}
	}
	return out
}

// IsSequence reports whether more than one record is present.
func (s Shape) IsSequence() bool { return len(s) > 1 }

// First returns the first record, or nil when none is present.
func (s Shape) First() *Node {
	if len(s) == 0 {
		return nil
	}
	return s[0]
}

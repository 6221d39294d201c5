// Package markup provides the XHTML document tree the viewer pipeline
// splices its payload into, plus a serializer whose output is valid XML
// that HTML DOM parsers read the same way.
//
// The xmlquery library is used for parsing, which uses Go's
// encoding/xml internally and inherits its security properties: external
// entities are never fetched.
package markup

import (
	"bytes"
	"fmt"

	"github.com/antchfx/xmlquery"
	"github.com/antchfx/xpath"

	"github.com/finreport/ixview/core/errors"
)

// XHTMLNamespace is the namespace of XHTML documents.
const XHTMLNamespace = "http://www.w3.org/1999/xhtml"

// Document represents a parsed report document.
type Document struct {
	root *xmlquery.Node
}

// Node represents a node in the document tree.
type Node struct {
	node *xmlquery.Node
}

// Attr is one attribute on an element node.
type Attr struct {
	Name  string
	Value string
}

// Parse parses XHTML/XML data and returns a Document.
func Parse(data []byte) (*Document, error) {
	root, err := xmlquery.Parse(bytes.NewReader(data))
	if err != nil {
		return nil, &errors.ParseError{Format: "XML", Message: err.Error(), Err: err}
	}
	return &Document{root: root}, nil
}

// Root returns the document's root element.
func (d *Document) Root() *Node {
	if d.root == nil {
		return nil
	}
	for child := d.root.FirstChild; child != nil; child = child.NextSibling {
		if child.Type == xmlquery.ElementNode {
			return &Node{node: child}
		}
	}
	return nil
}

// Body returns the XHTML body element, searched among the direct
// children of the root element.
func (d *Document) Body() (*Node, error) {
	root := d.Root()
	if root == nil {
		return nil, errors.NewNotFound("root element", "")
	}
	for child := root.node.FirstChild; child != nil; child = child.NextSibling {
		if child.Type == xmlquery.ElementNode && child.Data == "body" && child.NamespaceURI == XHTMLNamespace {
			return &Node{node: child}, nil
		}
	}
	return nil, errors.NewNotFound("body element", "")
}

// XPath executes an XPath query and returns matching nodes.
func (d *Document) XPath(expr string) ([]*Node, error) {
	if _, err := xpath.Compile(expr); err != nil {
		return nil, fmt.Errorf("invalid xpath: %w", err)
	}

	nodes, err := xmlquery.QueryAll(d.root, expr)
	if err != nil {
		return nil, fmt.Errorf("xpath query failed: %w", err)
	}

	result := make([]*Node, len(nodes))
	for i, n := range nodes {
		result[i] = &Node{node: n}
	}
	return result, nil
}

// XPathFirst executes an XPath query and returns the first matching
// node, or nil if nothing matches.
func (d *Document) XPathFirst(expr string) (*Node, error) {
	if _, err := xpath.Compile(expr); err != nil {
		return nil, fmt.Errorf("invalid xpath: %w", err)
	}

	node, err := xmlquery.Query(d.root, expr)
	if err != nil {
		return nil, fmt.Errorf("xpath query failed: %w", err)
	}
	if node == nil {
		return nil, nil
	}
	return &Node{node: node}, nil
}

// Name returns the element's local name.
func (n *Node) Name() string {
	if n == nil || n.node == nil {
		return ""
	}
	return n.node.Data
}

// Text returns the concatenated text content of the node and its
// descendants.
func (n *Node) Text() string {
	if n == nil || n.node == nil {
		return ""
	}
	return n.node.InnerText()
}

// Attr returns the value of a specific attribute.
func (n *Node) Attr(name string) string {
	if n == nil || n.node == nil {
		return ""
	}
	return n.node.SelectAttr(name)
}

// AppendComment appends a comment node to n's children.
func (n *Node) AppendComment(text string) {
	appendChild(n.node, &xmlquery.Node{
		Type: xmlquery.CommentNode,
		Data: text,
	})
}

// AppendElement appends a child element with the given attributes and
// text content and returns it. The element is created in the XHTML
// namespace with an explicit xmlns declaration, so it stays valid if
// the parent document uses a different default namespace.
func (n *Node) AppendElement(name string, attrs []Attr, text string) *Node {
	elem := &xmlquery.Node{
		Type:         xmlquery.ElementNode,
		Data:         name,
		NamespaceURI: XHTMLNamespace,
	}
	elem.Attr = append(elem.Attr, xmlquery.Attr{
		Name:  attrName("xmlns"),
		Value: XHTMLNamespace,
	})
	for _, a := range attrs {
		elem.Attr = append(elem.Attr, xmlquery.Attr{
			Name:  attrName(a.Name),
			Value: a.Value,
		})
	}
	if text != "" {
		appendChild(elem, &xmlquery.Node{
			Type: xmlquery.TextNode,
			Data: text,
		})
	}
	appendChild(n.node, elem)
	return &Node{node: elem}
}

func appendChild(parent, child *xmlquery.Node) {
	child.Parent = parent
	child.NextSibling = nil
	if parent.FirstChild == nil {
		parent.FirstChild = child
		child.PrevSibling = nil
	} else {
		last := parent.LastChild
		last.NextSibling = child
		child.PrevSibling = last
	}
	parent.LastChild = child
}

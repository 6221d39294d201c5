package markup

import (
	"bytes"
	"encoding/xml"
	"strings"

	"github.com/antchfx/xmlquery"

	"github.com/finreport/ixview/core/encoding"
)

// Serialize writes the document as UTF-8 XML with an XML declaration.
//
// Empty elements are always written with explicit open and close tags.
// A self-closed <script/> or <div/> is legal XML but an HTML DOM parser
// treats it as an unclosed open tag, which corrupts the rest of the
// document, so self-closing syntax is never emitted.
func (d *Document) Serialize() []byte {
	var buf bytes.Buffer
	buf.WriteString(`<?xml version="1.0" encoding="utf-8"?>` + "\n")
	if d.root != nil {
		for child := d.root.FirstChild; child != nil; child = child.NextSibling {
			writeNode(&buf, child)
		}
	}
	return buf.Bytes()
}

func writeNode(w *bytes.Buffer, n *xmlquery.Node) {
	switch n.Type {
	case xmlquery.DeclarationNode:
		// The <?xml?> declaration is re-emitted by Serialize; skip the
		// parsed one. Other processing instructions carry their own type.

	case xmlquery.ElementNode:
		w.WriteString("<")
		writeName(w, n)
		for _, attr := range n.Attr {
			w.WriteString(" ")
			w.WriteString(serializedAttrName(attr.Name))
			w.WriteString("=\"")
			w.WriteString(encoding.EscapeXMLAttr(attr.Value))
			w.WriteString("\"")
		}
		w.WriteString(">")
		for child := n.FirstChild; child != nil; child = child.NextSibling {
			writeNode(w, child)
		}
		w.WriteString("</")
		writeName(w, n)
		w.WriteString(">")

	case xmlquery.TextNode:
		w.WriteString(encoding.EscapeXMLText(n.Data))

	case xmlquery.CharDataNode:
		w.WriteString("<![CDATA[")
		w.WriteString(n.Data)
		w.WriteString("]]>")

	case xmlquery.CommentNode:
		w.WriteString("<!--")
		w.WriteString(n.Data)
		w.WriteString("-->")

	case xmlquery.NotationNode:
		w.WriteString("<!")
		w.WriteString(n.Data)
		w.WriteString(">")

	case xmlquery.ProcessingInstruction:
		w.WriteString("<?")
		w.WriteString(n.ProcInst.Target)
		if n.ProcInst.Inst != "" {
			w.WriteString(" ")
			w.WriteString(n.ProcInst.Inst)
		}
		w.WriteString("?>")
	}
}

func writeName(w *bytes.Buffer, n *xmlquery.Node) {
	if n.Prefix != "" {
		w.WriteString(n.Prefix)
		w.WriteString(":")
	}
	w.WriteString(n.Data)
}

// serializedAttrName renders an attribute name back to its textual
// form. Namespace declarations come back from the parser with the
// "xmlns" space; other prefixed attributes keep their source prefix.
func serializedAttrName(name xml.Name) string {
	switch name.Space {
	case "":
		return name.Local
	case "xmlns":
		return "xmlns:" + name.Local
	default:
		return name.Space + ":" + name.Local
	}
}

// attrName parses a textual attribute name, splitting an optional
// prefix into the name's space.
func attrName(s string) xml.Name {
	if prefix, local, found := strings.Cut(s, ":"); found {
		return xml.Name{Space: prefix, Local: local}
	}
	return xml.Name{Local: s}
}

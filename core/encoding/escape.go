// Package encoding provides shared text escaping and JSON encoding utilities.
package encoding

import (
	"strings"
)

// EscapeXMLText escapes only the basic XML entities for text content.
func EscapeXMLText(s string) string {
	s = strings.ReplaceAll(s, "&", "&amp;")
	s = strings.ReplaceAll(s, "<", "&lt;")
	s = strings.ReplaceAll(s, ">", "&gt;")
	return s
}

// EscapeXMLAttr escapes text for use in XML attributes.
// Includes quote escaping in addition to basic XML entities.
func EscapeXMLAttr(s string) string {
	s = EscapeXMLText(s)
	s = strings.ReplaceAll(s, "\"", "&quot;")
	return s
}

// EscapeJSONForScript replaces the XML special characters < > & in JSON
// text with JSON Unicode escape sequences.
//
// XML and HTML apply different escaping rules to content inside script
// elements. The output document must be well-formed XML but is parsed as
// HTML by browsers, which do not unescape XML entities in script content.
// Escaping the three characters at the JSON string level sidesteps both
// rule sets. This is only safe because < > and & cannot occur outside a
// string literal in JSON; it must not be used on JavaScript source.
func EscapeJSONForScript(s string) string {
	s = strings.ReplaceAll(s, "<", `\u003C`)
	s = strings.ReplaceAll(s, ">", `\u003E`)
	s = strings.ReplaceAll(s, "&", `\u0026`)
	return s
}

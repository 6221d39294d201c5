// Package viewer builds the taxonomy data payload for an interactive
// report viewer and embeds it into the report's own markup.
package viewer

import (
	"fmt"

	"github.com/finreport/ixview/core/encoding"
	"github.com/finreport/ixview/core/report"
)

// NamespaceMap maintains a 1:1 mapping between identifiers (namespace
// URIs or label role URIs) and short prefixes. It will use a provided
// preferred prefix when free, uniquifying with a numeric suffix when
// required. Bindings are permanent for the map's lifetime.
//
// Each build uses its own instances, so concurrent or repeated builds
// stay isolated.
type NamespaceMap struct {
	prefixes map[string]string // identifier -> prefix
	names    map[string]string // prefix -> identifier
	order    []string          // identifiers in allocation order
}

// NewNamespaceMap creates an empty map.
func NewNamespaceMap() *NamespaceMap {
	return &NamespaceMap{
		prefixes: make(map[string]string),
		names:    make(map[string]string),
	}
}

// GetPrefix returns the prefix for identifier, allocating one on first
// sight. A non-empty preferred prefix is used if it is not already
// bound to another identifier; otherwise the preferred prefix (or "ns"
// when none was given) is suffixed with the smallest free non-negative
// integer.
func (m *NamespaceMap) GetPrefix(identifier, preferred string) string {
	if prefix, ok := m.prefixes[identifier]; ok {
		return prefix
	}

	var prefix string
	if preferred != "" {
		if _, taken := m.names[preferred]; !taken {
			prefix = preferred
		}
	}
	if prefix == "" {
		base := preferred
		if base == "" {
			base = "ns"
		}
		for n := 0; ; n++ {
			candidate := fmt.Sprintf("%s%d", base, n)
			if _, taken := m.names[candidate]; !taken {
				prefix = candidate
				break
			}
		}
	}

	m.prefixes[identifier] = prefix
	m.names[prefix] = identifier
	m.order = append(m.order, identifier)
	return prefix
}

// QName renders a qualified name as "prefix:localName", using the
// name's source prefix as the preferred prefix.
func (m *NamespaceMap) QName(q report.QName) string {
	return fmt.Sprintf("%s:%s", m.GetPrefix(q.Namespace, q.Prefix), q.LocalName)
}

// Prefixes returns the identifier-to-prefix table in allocation order.
func (m *NamespaceMap) Prefixes() *encoding.OrderedMap {
	out := encoding.NewOrderedMap()
	for _, identifier := range m.order {
		out.Set(identifier, m.prefixes[identifier])
	}
	return out
}

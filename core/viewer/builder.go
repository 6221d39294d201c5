package viewer

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/finreport/ixview/core/encoding"
	"github.com/finreport/ixview/core/report"
	"github.com/finreport/ixview/internal/logging"
)

// Standard XBRL label role URIs.
const (
	StandardLabelRole      = "http://www.xbrl.org/2003/role/label"
	DocumentationLabelRole = "http://www.xbrl.org/2003/role/documentation"
)

// ConceptRecord holds the collected labels for one concept, keyed by
// role prefix, then by lowercased language tag.
type ConceptRecord struct {
	Labels *encoding.OrderedMap `json:"labels"`
}

// FactRecord is the flat, addressable form of one fact. Unit is null
// for non-numeric facts. An instant period carries only "pt"; a
// start/end period carries "pf" and "pt". Period timestamps are
// assumed non-empty for dated periods; an empty timestamp drops the
// key, same as a forever period.
type FactRecord struct {
	Format     string               `json:"f"`
	Value      string               `json:"v"`
	Concept    string               `json:"c"`
	Dimensions *encoding.OrderedMap `json:"d"`
	Unit       *string              `json:"u"`
	PeriodFrom string               `json:"pf,omitempty"`
	PeriodTo   string               `json:"pt,omitempty"`
}

// TaxonomyData is the payload embedded into the viewer document. All
// four members are present even when empty.
type TaxonomyData struct {
	Concepts *encoding.OrderedMap `json:"concepts"`
	Facts    *encoding.OrderedMap `json:"facts"`
	Prefixes *encoding.OrderedMap `json:"prefixes"`
	Roles    *encoding.OrderedMap `json:"roles"`
}

// EncodeJSON serializes the payload with one-space indentation and keys
// in insertion order. HTML escaping is disabled: the embedding step
// applies its own escape transform to < > &.
func (t *TaxonomyData) EncodeJSON() (string, error) {
	compact, err := encoding.MarshalJSON(t)
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if err := json.Indent(&buf, compact, "", " "); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// Builder walks a document model's facts and accumulates the taxonomy
// data payload. All state is local to one builder; build a new one per
// output document.
type Builder struct {
	model   *report.Model
	nsmap   *NamespaceMap
	roleMap *NamespaceMap
	data    *TaxonomyData
	idGen   int
}

// NewBuilder creates a builder over model. The role map is pre-seeded
// with "std" and "doc" for the standard and documentation label roles,
// so they predictably win those short names.
func NewBuilder(model *report.Model) *Builder {
	b := &Builder{
		model:   model,
		nsmap:   NewNamespaceMap(),
		roleMap: NewNamespaceMap(),
		data: &TaxonomyData{
			Concepts: encoding.NewOrderedMap(),
			Facts:    encoding.NewOrderedMap(),
			Prefixes: encoding.NewOrderedMap(),
			Roles:    encoding.NewOrderedMap(),
		},
	}
	b.roleMap.GetPrefix(StandardLabelRole, "std")
	b.roleMap.GetPrefix(DocumentationLabelRole, "doc")
	return b
}

// Build normalizes every fact in model order and returns the assembled
// payload. Facts missing an identifier are assigned "ixv-<n>"; the
// counter advances once per fact whether or not an identifier was
// assigned, so synthetic identifiers reflect global fact position.
func (b *Builder) Build() *TaxonomyData {
	for _, f := range b.model.Facts {
		b.addFact(f)
	}
	b.data.Prefixes = b.nsmap.Prefixes()
	b.data.Roles = b.roleMap.Prefixes()
	return b.data
}

func (b *Builder) addFact(f *report.Fact) {
	if f.ID == "" {
		f.ID = fmt.Sprintf("ixv-%d", b.idGen)
	}
	b.idGen++

	conceptName := b.nsmap.QName(f.Concept)

	dims := encoding.NewOrderedMap()
	if f.Context != nil {
		for _, d := range f.Context.Dimensions {
			if d.Member == nil {
				// Typed dimensions are not supported.
				logging.Debug("skipping typed dimension",
					"dimension", d.Dimension.Key(), "fact", f.ID)
				continue
			}
			dims.Set(b.nsmap.QName(d.Dimension), b.nsmap.QName(*d.Member))
			b.addConcept(d.Dimension)
			b.addConcept(*d.Member)
		}
	}

	var unit *string
	if f.Numeric && f.Unit != nil && len(f.Unit.Measures) > 0 {
		// Only the first measure is read; complex units are a known
		// limitation.
		u := b.nsmap.QName(f.Unit.Measures[0])
		unit = &u
	}

	rec := &FactRecord{
		Format:     f.Format,
		Value:      f.Value,
		Concept:    conceptName,
		Dimensions: dims,
		Unit:       unit,
	}
	if f.Context != nil {
		switch f.Context.Period.Kind {
		case report.PeriodInstant:
			rec.PeriodTo = stripZeroTime(f.Context.Period.Instant)
		case report.PeriodDuration:
			rec.PeriodFrom = stripZeroTime(f.Context.Period.Start)
			rec.PeriodTo = stripZeroTime(f.Context.Period.End)
		}
	}

	b.data.Facts.Set(f.ID, rec)
	b.addConcept(f.Concept)
}

// addConcept records the concept and its labels once; re-encountering a
// concept is a no-op. A repeated role+language pair overwrites the
// earlier text.
func (b *Builder) addConcept(concept report.QName) {
	conceptName := b.nsmap.QName(concept)
	if b.data.Concepts.Has(conceptName) {
		return
	}

	labels := encoding.NewOrderedMap()
	for _, l := range b.model.LabelsFor(concept) {
		rolePrefix := b.roleMap.GetPrefix(l.Role, "")
		var byLang *encoding.OrderedMap
		if v, ok := labels.Get(rolePrefix); ok {
			byLang = v.(*encoding.OrderedMap)
		} else {
			byLang = encoding.NewOrderedMap()
			labels.Set(rolePrefix, byLang)
		}
		byLang.Set(strings.ToLower(l.Lang), l.Text)
	}

	b.data.Concepts.Set(conceptName, &ConceptRecord{Labels: labels})
}

// stripZeroTime strips the time component from an ISO timestamp when it
// is all zeroes.
func stripZeroTime(s string) string {
	return strings.TrimSuffix(s, "T00:00:00")
}

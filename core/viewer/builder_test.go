package viewer

import (
	"strings"
	"testing"

	"github.com/finreport/ixview/core/encoding"
	"github.com/finreport/ixview/core/report"
)

var (
	egNS   = "http://www.example.com/financial"
	isoNS  = "http://www.xbrl.org/2003/iso4217"
	revQN  = report.QName{Namespace: egNS, Prefix: "eg", LocalName: "Revenue"}
	axisQN = report.QName{Namespace: egNS, Prefix: "eg", LocalName: "RegionAxis"}
	memQN  = report.QName{Namespace: egNS, Prefix: "eg", LocalName: "Europe"}
	usdQN  = report.QName{Namespace: isoNS, Prefix: "iso4217", LocalName: "USD"}
)

func instantFact(concept report.QName, value, at string) *report.Fact {
	return &report.Fact{
		Value:   value,
		Concept: concept,
		Context: &report.Context{
			Period: report.Period{Kind: report.PeriodInstant, Instant: at},
		},
	}
}

func factRecord(t *testing.T, data *TaxonomyData, id string) *FactRecord {
	t.Helper()
	v, ok := data.Facts.Get(id)
	if !ok {
		t.Fatalf("fact %q not in payload; have %v", id, data.Facts.Keys())
	}
	return v.(*FactRecord)
}

func TestFactIdentifierAssignment(t *testing.T) {
	model := report.NewModel()
	for i := 0; i < 3; i++ {
		model.Facts = append(model.Facts, instantFact(revQN, "1", "2023-01-01T00:00:00"))
	}

	data := NewBuilder(model).Build()

	want := []string{"ixv-0", "ixv-1", "ixv-2"}
	got := data.Facts.Keys()
	if len(got) != len(want) {
		t.Fatalf("fact keys = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("fact key[%d] = %q, want %q", i, got[i], want[i])
		}
	}
	// IDs are written back to the source facts.
	if model.Facts[1].ID != "ixv-1" {
		t.Errorf("model fact ID = %q, want ixv-1", model.Facts[1].ID)
	}
}

func TestFactCounterAdvancesPastExistingIDs(t *testing.T) {
	model := report.NewModel()
	withID := instantFact(revQN, "1", "2023-01-01T00:00:00")
	withID.ID = "given"
	model.Facts = append(model.Facts,
		withID,
		instantFact(revQN, "2", "2023-01-01T00:00:00"),
		instantFact(revQN, "3", "2023-01-01T00:00:00"),
	)

	data := NewBuilder(model).Build()

	// The counter advances for every fact, so synthetic identifiers
	// reflect global position, not a dense 0..k numbering.
	want := []string{"given", "ixv-1", "ixv-2"}
	got := data.Facts.Keys()
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("fact key[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestPeriodEncoding(t *testing.T) {
	model := report.NewModel()
	model.Facts = append(model.Facts,
		instantFact(revQN, "1", "2023-01-01T00:00:00"),
		&report.Fact{
			Value:   "2",
			Concept: revQN,
			Context: &report.Context{
				Period: report.Period{
					Kind:  report.PeriodDuration,
					Start: "2022-01-01T00:00:00",
					End:   "2022-12-31T08:30:00",
				},
			},
		},
	)

	data := NewBuilder(model).Build()

	instant := factRecord(t, data, "ixv-0")
	if instant.PeriodFrom != "" || instant.PeriodTo != "2023-01-01" {
		t.Errorf("instant record pf=%q pt=%q", instant.PeriodFrom, instant.PeriodTo)
	}

	duration := factRecord(t, data, "ixv-1")
	if duration.PeriodFrom != "2022-01-01" {
		t.Errorf("duration pf = %q, want 2022-01-01", duration.PeriodFrom)
	}
	// A non-zero time component is kept.
	if duration.PeriodTo != "2022-12-31T08:30:00" {
		t.Errorf("duration pt = %q, want 2022-12-31T08:30:00", duration.PeriodTo)
	}
}

func TestEmptyInstantTimestampOmitsPeriod(t *testing.T) {
	model := report.NewModel()
	model.Facts = append(model.Facts, instantFact(revQN, "1", ""))

	data := NewBuilder(model).Build()

	out, err := data.EncodeJSON()
	if err != nil {
		t.Fatalf("EncodeJSON failed: %v", err)
	}
	// An empty timestamp degrades to no period keys, like a forever
	// period, rather than an empty "pt".
	if strings.Contains(out, `"pt"`) || strings.Contains(out, `"pf"`) {
		t.Errorf("period keys present for empty timestamp: %s", out)
	}
}

func TestStripZeroTime(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"2023-01-01T00:00:00", "2023-01-01"},
		{"2023-01-01T08:30:00", "2023-01-01T08:30:00"},
		{"2023-01-01", "2023-01-01"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := stripZeroTime(tt.input); got != tt.want {
			t.Errorf("stripZeroTime(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestDimensions(t *testing.T) {
	model := report.NewModel()
	f := instantFact(revQN, "1", "2023-01-01T00:00:00")
	f.Context.Dimensions = []report.Dimension{
		{Dimension: axisQN, Member: &memQN},
	}
	model.Facts = append(model.Facts, f)

	data := NewBuilder(model).Build()

	rec := factRecord(t, data, "ixv-0")
	if member, _ := rec.Dimensions.Get("eg:RegionAxis"); member != "eg:Europe" {
		t.Errorf("dimension member = %v, want eg:Europe", member)
	}

	// Dimension and member concepts are registered alongside the
	// fact's own concept.
	for _, name := range []string{"eg:RegionAxis", "eg:Europe", "eg:Revenue"} {
		if !data.Concepts.Has(name) {
			t.Errorf("concept %q not collected; have %v", name, data.Concepts.Keys())
		}
	}
}

func TestTypedDimensionSkip(t *testing.T) {
	model := report.NewModel()
	f := instantFact(revQN, "1", "2023-01-01T00:00:00")
	f.Context.Dimensions = []report.Dimension{
		{Dimension: axisQN, Member: nil},
	}
	model.Facts = append(model.Facts, f)

	data := NewBuilder(model).Build()

	rec := factRecord(t, data, "ixv-0")
	if rec.Dimensions.Len() != 0 {
		t.Errorf("typed dimension should be skipped; dims = %v", rec.Dimensions.Keys())
	}
	// The rest of the fact is still emitted, and the typed dimension's
	// concept is not collected.
	if data.Concepts.Has("eg:RegionAxis") {
		t.Error("typed dimension concept should not be collected")
	}
	if !data.Concepts.Has("eg:Revenue") {
		t.Error("fact concept should still be collected")
	}
}

func TestUnits(t *testing.T) {
	model := report.NewModel()

	numeric := instantFact(revQN, "1200", "2023-01-01T00:00:00")
	numeric.Numeric = true
	numeric.Unit = &report.Unit{Measures: []report.QName{
		usdQN,
		{Namespace: isoNS, Prefix: "iso4217", LocalName: "EUR"},
	}}

	text := instantFact(report.QName{Namespace: egNS, Prefix: "eg", LocalName: "EntityName"}, "Example plc", "2023-01-01T00:00:00")

	// A numeric fact without a unit must not panic.
	unitless := instantFact(revQN, "7", "2023-01-01T00:00:00")
	unitless.Numeric = true

	model.Facts = append(model.Facts, numeric, text, unitless)

	data := NewBuilder(model).Build()

	rec := factRecord(t, data, "ixv-0")
	if rec.Unit == nil || *rec.Unit != "iso4217:USD" {
		t.Errorf("numeric unit = %v, want iso4217:USD (first measure only)", rec.Unit)
	}
	if factRecord(t, data, "ixv-1").Unit != nil {
		t.Error("non-numeric fact should carry a nil unit")
	}
	if factRecord(t, data, "ixv-2").Unit != nil {
		t.Error("numeric fact without unit should carry a nil unit")
	}
}

func TestIdempotentConceptCollection(t *testing.T) {
	model := report.NewModel()
	model.AddLabel(revQN, report.Label{Role: StandardLabelRole, Lang: "en", Text: "Revenue"})

	b := NewBuilder(model)
	b.addConcept(revQN)
	before, _ := b.data.Concepts.Get("eg:Revenue")

	// Labels added after the first registration are not picked up.
	model.AddLabel(revQN, report.Label{Role: StandardLabelRole, Lang: "de", Text: "Umsatz"})
	b.addConcept(revQN)

	after, _ := b.data.Concepts.Get("eg:Revenue")
	if before != after {
		t.Error("re-registering a concept should be a no-op")
	}
	record := after.(*ConceptRecord)
	std, _ := record.Labels.Get("std")
	if std.(*encoding.OrderedMap).Len() != 1 {
		t.Error("labels should be unchanged after the first registration")
	}
}

func TestLabelCollection(t *testing.T) {
	model := report.NewModel()
	model.AddLabel(revQN, report.Label{Role: StandardLabelRole, Lang: "en", Text: "Revenue"})
	model.AddLabel(revQN, report.Label{Role: StandardLabelRole, Lang: "EN-GB", Text: "Turnover"})
	model.AddLabel(revQN, report.Label{Role: DocumentationLabelRole, Lang: "en", Text: "Total revenue for the period."})
	model.AddLabel(revQN, report.Label{Role: "http://www.xbrl.org/2003/role/terseLabel", Lang: "en", Text: "Rev"})
	model.Facts = append(model.Facts, instantFact(revQN, "1", "2023-01-01T00:00:00"))

	data := NewBuilder(model).Build()

	v, ok := data.Concepts.Get("eg:Revenue")
	if !ok {
		t.Fatal("concept not collected")
	}
	labels := v.(*ConceptRecord).Labels

	std, _ := labels.Get("std")
	byLang := std.(*encoding.OrderedMap)
	if text, _ := byLang.Get("en"); text != "Revenue" {
		t.Errorf("std/en = %v, want Revenue", text)
	}
	// Language tags are lowercased.
	if text, _ := byLang.Get("en-gb"); text != "Turnover" {
		t.Errorf("std/en-gb = %v, want Turnover", text)
	}

	if doc, ok := labels.Get("doc"); !ok {
		t.Error("documentation label missing")
	} else if text, _ := doc.(*encoding.OrderedMap).Get("en"); text != "Total revenue for the period." {
		t.Errorf("doc/en = %v", text)
	}

	// A non-standard role gets a synthesized prefix.
	if _, ok := labels.Get("ns0"); !ok {
		t.Errorf("terse label role prefix missing; roles = %v", labels.Keys())
	}
	if role, _ := data.Roles.Get("http://www.xbrl.org/2003/role/terseLabel"); role != "ns0" {
		t.Errorf("terse role prefix = %v, want ns0", role)
	}
}

func TestLabelLastWriteWins(t *testing.T) {
	model := report.NewModel()
	model.AddLabel(revQN, report.Label{Role: StandardLabelRole, Lang: "en", Text: "First"})
	model.AddLabel(revQN, report.Label{Role: StandardLabelRole, Lang: "en", Text: "Second"})
	model.Facts = append(model.Facts, instantFact(revQN, "1", "2023-01-01T00:00:00"))

	data := NewBuilder(model).Build()

	v, _ := data.Concepts.Get("eg:Revenue")
	std, _ := v.(*ConceptRecord).Labels.Get("std")
	if text, _ := std.(*encoding.OrderedMap).Get("en"); text != "Second" {
		t.Errorf("std/en = %v, want Second (last write wins)", text)
	}
}

func TestSchemaCompleteness(t *testing.T) {
	data := NewBuilder(report.NewModel()).Build()

	out, err := data.EncodeJSON()
	if err != nil {
		t.Fatalf("EncodeJSON failed: %v", err)
	}

	for _, key := range []string{`"concepts"`, `"facts"`, `"prefixes"`, `"roles"`} {
		if !strings.Contains(out, key) {
			t.Errorf("payload missing top-level key %s: %s", key, out)
		}
	}
	if data.Concepts.Len() != 0 || data.Facts.Len() != 0 || data.Prefixes.Len() != 0 {
		t.Error("empty model should produce empty concepts/facts/prefixes")
	}

	// The role table still carries the pre-seeded std/doc prefixes.
	if p, _ := data.Roles.Get(StandardLabelRole); p != "std" {
		t.Errorf("standard role prefix = %v, want std", p)
	}
	if p, _ := data.Roles.Get(DocumentationLabelRole); p != "doc" {
		t.Errorf("documentation role prefix = %v, want doc", p)
	}
}

func TestEncodeJSONKeyOrder(t *testing.T) {
	model := report.NewModel()
	model.Facts = append(model.Facts, instantFact(revQN, "1", "2023-01-01T00:00:00"))

	out, err := NewBuilder(model).Build().EncodeJSON()
	if err != nil {
		t.Fatalf("EncodeJSON failed: %v", err)
	}

	order := []string{`"concepts"`, `"facts"`, `"prefixes"`, `"roles"`}
	last := -1
	for _, key := range order {
		idx := strings.Index(out, key)
		if idx < 0 {
			t.Fatalf("payload missing %s", key)
		}
		if idx < last {
			t.Errorf("key %s out of order", key)
		}
		last = idx
	}
}

func TestBuilderIsolation(t *testing.T) {
	makeModel := func() *report.Model {
		m := report.NewModel()
		m.Facts = append(m.Facts, instantFact(revQN, "1", "2023-01-01T00:00:00"))
		return m
	}

	first := NewBuilder(makeModel()).Build()
	second := NewBuilder(makeModel()).Build()

	// Two builds never share allocator or counter state.
	if got := second.Facts.Keys()[0]; got != "ixv-0" {
		t.Errorf("second build fact key = %q, want ixv-0", got)
	}
	if first.Prefixes.Len() != second.Prefixes.Len() {
		t.Error("prefix tables should be independent and equal for equal models")
	}
}

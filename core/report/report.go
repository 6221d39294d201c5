// Package report defines the in-memory document model of a tagged
// business report. The viewer pipeline only queries this model; parsing
// and validating the source report format is the host's job.
package report

import "fmt"

// QName identifies a concept, dimension, member, or unit measure by
// namespace and local name. Prefix is the preferred prefix hint carried
// over from the source document; it is advisory only.
type QName struct {
	Namespace string
	Prefix    string
	LocalName string
}

// Key returns the Clark-notation form "{namespace}local" used to key
// model-internal lookups. It is independent of prefix allocation.
func (q QName) Key() string {
	return fmt.Sprintf("{%s}%s", q.Namespace, q.LocalName)
}

// PeriodKind distinguishes the temporal scope of a context.
type PeriodKind int

const (
	// PeriodNone means the context carries no period information.
	PeriodNone PeriodKind = iota
	// PeriodInstant is a single point in time.
	PeriodInstant
	// PeriodDuration is a start/end interval.
	PeriodDuration
)

// Period is the temporal scope of a context. Timestamps are ISO-8601
// strings as supplied by the source model.
type Period struct {
	Kind    PeriodKind
	Instant string
	Start   string
	End     string
}

// Dimension is one dimensional qualifier on a context. A nil Member
// marks a typed dimension, which carries an arbitrary typed value
// instead of a discrete member.
type Dimension struct {
	Dimension QName
	Member    *QName
}

// Context is the reporting context of a fact: a period plus zero or
// more dimensional qualifiers, in source document order.
type Context struct {
	Period     Period
	Dimensions []Dimension
}

// Unit is the measurement unit of a numeric fact. Only the first
// measure is consumed downstream; complex multi-measure units are a
// known limitation.
type Unit struct {
	Measures []QName
}

// Fact is one reported data point. ID may be empty on input; the
// pipeline assigns one if so.
type Fact struct {
	ID      string
	Format  string
	Value   string
	Numeric bool
	Concept QName
	Context *Context
	Unit    *Unit
}

// Label is a human-readable display string for a concept, tagged with
// a label role and a language.
type Label struct {
	Role string
	Lang string
	Text string
}

// Model is the loaded document model: an ordered fact list, the label
// relationship graph, and the raw markup of the report document.
type Model struct {
	Facts  []*Fact
	Markup []byte

	labels map[string][]Label
}

// NewModel creates an empty model.
func NewModel() *Model {
	return &Model{labels: make(map[string][]Label)}
}

// AddLabel records a label relationship for concept.
func (m *Model) AddLabel(concept QName, l Label) {
	if m.labels == nil {
		m.labels = make(map[string][]Label)
	}
	key := concept.Key()
	m.labels[key] = append(m.labels[key], l)
}

// LabelsFor returns the label relationships recorded for concept, in
// the order they were added.
func (m *Model) LabelsFor(concept QName) []Label {
	return m.labels[concept.Key()]
}

package report

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/finreport/ixview/core/errors"
)

// Snapshot is the JSON interchange form of a Model. It exists so a host
// that already extracted facts from a report can hand them to the
// pipeline without linking against it; it is not a report format.
//
// QNames are written as "prefix:localName" and resolved against the
// snapshot's namespaces table. Dimensions are a list, not an object, so
// source order survives the round trip.
type Snapshot struct {
	Namespaces map[string]string `json:"namespaces"`
	Markup     string            `json:"markup,omitempty"`
	Facts      []SnapshotFact    `json:"facts"`
	Labels     []SnapshotLabel   `json:"labels,omitempty"`
}

// SnapshotFact is one fact entry in a snapshot.
type SnapshotFact struct {
	ID         string              `json:"id,omitempty"`
	Format     string              `json:"format,omitempty"`
	Value      string              `json:"value"`
	Numeric    bool                `json:"numeric,omitempty"`
	Concept    string              `json:"concept"`
	Period     *SnapshotPeriod     `json:"period,omitempty"`
	Dimensions []SnapshotDimension `json:"dimensions,omitempty"`
	Unit       []string            `json:"unit,omitempty"`
}

// SnapshotPeriod carries either an instant or a start/end pair.
type SnapshotPeriod struct {
	Instant string `json:"instant,omitempty"`
	Start   string `json:"start,omitempty"`
	End     string `json:"end,omitempty"`
}

// SnapshotDimension is one dimensional qualifier. An empty Member marks
// a typed dimension.
type SnapshotDimension struct {
	Dimension string `json:"dimension"`
	Member    string `json:"member,omitempty"`
}

// SnapshotLabel is one label relationship edge.
type SnapshotLabel struct {
	Concept string `json:"concept"`
	Role    string `json:"role"`
	Lang    string `json:"lang"`
	Text    string `json:"text"`
}

// Decode builds a Model from snapshot JSON. The snapshot's markup path,
// if any, is not resolved; use Load for that.
func Decode(data []byte) (*Model, error) {
	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, &errors.ParseError{Format: "model snapshot", Message: err.Error(), Err: err}
	}
	return snap.Model()
}

// Load reads a snapshot file and builds a Model, resolving the markup
// reference relative to the snapshot's directory.
func Load(path string) (*Model, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.NewIO("read", path, err)
	}

	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, &errors.ParseError{Format: "model snapshot", Path: path, Message: err.Error(), Err: err}
	}

	model, err := snap.Model()
	if err != nil {
		return nil, err
	}

	if snap.Markup != "" {
		markupPath := snap.Markup
		if !filepath.IsAbs(markupPath) {
			markupPath = filepath.Join(filepath.Dir(path), markupPath)
		}
		markup, err := os.ReadFile(markupPath)
		if err != nil {
			return nil, errors.NewIO("read", markupPath, err)
		}
		model.Markup = markup
	}

	return model, nil
}

// Model resolves the snapshot into a Model.
func (s *Snapshot) Model() (*Model, error) {
	model := NewModel()

	for i, sf := range s.Facts {
		fact := &Fact{
			ID:      sf.ID,
			Format:  sf.Format,
			Value:   sf.Value,
			Numeric: sf.Numeric,
			Context: &Context{},
		}

		concept, err := s.resolveQName(sf.Concept)
		if err != nil {
			return nil, errors.Wrapf(err, "fact %d", i)
		}
		fact.Concept = concept

		if sf.Period != nil {
			switch {
			case sf.Period.Instant != "":
				fact.Context.Period = Period{Kind: PeriodInstant, Instant: sf.Period.Instant}
			case sf.Period.Start != "" || sf.Period.End != "":
				fact.Context.Period = Period{Kind: PeriodDuration, Start: sf.Period.Start, End: sf.Period.End}
			}
		}

		for _, sd := range sf.Dimensions {
			dim, err := s.resolveQName(sd.Dimension)
			if err != nil {
				return nil, errors.Wrapf(err, "fact %d", i)
			}
			qualifier := Dimension{Dimension: dim}
			if sd.Member != "" {
				member, err := s.resolveQName(sd.Member)
				if err != nil {
					return nil, errors.Wrapf(err, "fact %d", i)
				}
				qualifier.Member = &member
			}
			fact.Context.Dimensions = append(fact.Context.Dimensions, qualifier)
		}

		if len(sf.Unit) > 0 {
			unit := &Unit{}
			for _, measure := range sf.Unit {
				m, err := s.resolveQName(measure)
				if err != nil {
					return nil, errors.Wrapf(err, "fact %d", i)
				}
				unit.Measures = append(unit.Measures, m)
			}
			fact.Unit = unit
		}

		model.Facts = append(model.Facts, fact)
	}

	for i, sl := range s.Labels {
		concept, err := s.resolveQName(sl.Concept)
		if err != nil {
			return nil, errors.Wrapf(err, "label %d", i)
		}
		model.AddLabel(concept, Label{Role: sl.Role, Lang: sl.Lang, Text: sl.Text})
	}

	return model, nil
}

func (s *Snapshot) resolveQName(name string) (QName, error) {
	prefix, local, found := strings.Cut(name, ":")
	if !found || local == "" {
		return QName{}, &errors.ParseError{
			Format:  "model snapshot",
			Message: fmt.Sprintf("qname %q is not of the form prefix:localName", name),
		}
	}
	ns, ok := s.Namespaces[prefix]
	if !ok {
		return QName{}, &errors.ParseError{
			Format:  "model snapshot",
			Message: fmt.Sprintf("qname %q uses undeclared prefix %q", name, prefix),
		}
	}
	return QName{Namespace: ns, Prefix: prefix, LocalName: local}, nil
}

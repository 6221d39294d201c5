package viewer

import (
	"github.com/finreport/ixview/core/errors"
	"github.com/finreport/ixview/core/markup"
	"github.com/finreport/ixview/core/report"
	"github.com/finreport/ixview/internal/fileutil"
	"github.com/finreport/ixview/internal/logging"
)

// Generate runs the full pipeline over model and returns the viewer
// document bytes: build the taxonomy payload, embed it into the
// model's markup, and serialize with HTML-compatible XML output.
//
// The model is validated before any allocator or collector state is
// created, so a failed call leaves nothing behind.
func Generate(model *report.Model, scriptURL string) ([]byte, error) {
	if model == nil {
		return nil, errors.NewNotFound("model", "")
	}
	if len(model.Markup) == 0 {
		return nil, errors.NewNotFound("report markup", "")
	}
	if scriptURL == "" {
		scriptURL = DefaultScriptURL
	}

	doc, err := markup.Parse(model.Markup)
	if err != nil {
		return nil, errors.Wrap(err, "parsing report markup")
	}
	if _, err := doc.Body(); err != nil {
		return nil, err
	}

	data := NewBuilder(model).Build()
	jsonText, err := data.EncodeJSON()
	if err != nil {
		return nil, errors.Wrap(err, "encoding taxonomy data")
	}

	if err := Embed(doc, jsonText, scriptURL); err != nil {
		return nil, err
	}

	return doc.Serialize(), nil
}

// SaveViewer generates the viewer document for model and writes it to
// outPath atomically: either the complete file appears or nothing does.
func SaveViewer(model *report.Model, outPath, scriptURL string) error {
	out, err := Generate(model, scriptURL)
	if err != nil {
		return err
	}

	logging.Info("saving ixbrl viewer", "path", outPath, "facts", len(model.Facts))
	if err := fileutil.WriteFileAtomic(outPath, out, 0644); err != nil {
		return err
	}
	return nil
}

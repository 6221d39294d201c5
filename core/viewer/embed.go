package viewer

import (
	"github.com/finreport/ixview/core/encoding"
	"github.com/finreport/ixview/core/markup"
)

// DefaultScriptURL is the default location of the external viewer
// script referenced by the generated document.
const DefaultScriptURL = "js/dist/ixbrlviewer.js"

// TaxonomyDataID is the element id of the embedded payload script.
const TaxonomyDataID = "taxonomy-data"

// Comment sentinels bracketing the spliced nodes.
const (
	beginSentinel = "BEGIN IXBRL VIEWER EXTENSIONS"
	endSentinel   = "END IXBRL VIEWER EXTENSIONS"
)

// Embed splices the viewer extensions into doc's body: a begin
// sentinel comment, a script element referencing the external viewer at
// scriptURL, a script element of type application/json carrying
// jsonText, and an end sentinel comment.
//
// jsonText is escaped with encoding.EscapeJSONForScript before
// insertion so the document stays well-formed XML while HTML parsers
// recover the payload unchanged.
func Embed(doc *markup.Document, jsonText, scriptURL string) error {
	body, err := doc.Body()
	if err != nil {
		return err
	}

	body.AppendComment(beginSentinel)
	body.AppendElement("script", []markup.Attr{
		{Name: "src", Value: scriptURL},
	}, "")
	// Keeping the payload out of the head avoids interfering with
	// browser character set detection.
	body.AppendElement("script", []markup.Attr{
		{Name: "id", Value: TaxonomyDataID},
		{Name: "type", Value: "application/json"},
	}, encoding.EscapeJSONForScript(jsonText))
	body.AppendComment(endSentinel)

	return nil
}

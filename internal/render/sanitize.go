package render

import (
	"github.com/microcosm-cc/bluemonday"
)

// templatePolicy permits the document-layout markup render templates need
// (tables, headings, inline styles, data URI images for logos) while
// stripping scripts and event handlers.
var templatePolicy = buildPolicy()

func buildPolicy() *bluemonday.Policy {
	p := bluemonday.UGCPolicy()
	p.AllowAttrs("style").Globally()
	p.AllowAttrs("class").Globally()
	p.AllowElements("html", "head", "body", "style", "header", "footer", "section")
	p.AllowImages()
	p.AllowDataURIImages()
	return p
}

// Sanitize returns the sanitized form of the given template HTML.
func Sanitize(html string) string {
	return templatePolicy.Sanitize(html)
}

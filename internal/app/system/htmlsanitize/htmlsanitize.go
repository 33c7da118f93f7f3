// Package htmlsanitize strips unsafe markup from user-entered rich text
// before it is stored or rendered. Notes on spare-part records accept a
// small set of formatting tags; everything else is removed.
package htmlsanitize

import (
	"html/template"

	"github.com/microcosm-cc/bluemonday"
)

var (
	policy = buildPolicy()
	strict = bluemonday.StrictPolicy()
)

func buildPolicy() *bluemonday.Policy {
	p := bluemonday.UGCPolicy()
	p.AllowAttrs("colspan", "rowspan").OnElements("td", "th")
	return p
}

// Sanitize returns the input with unsafe HTML removed.
func Sanitize(s string) string {
	if s == "" {
		return ""
	}
	return policy.Sanitize(s)
}

// SanitizeText strips all markup. Used for plain-text fields such as
// part names and vendors, where no formatting is ever legitimate.
func SanitizeText(s string) string {
	if s == "" {
		return ""
	}
	return strict.Sanitize(s)
}

// SanitizeHTML sanitizes and marks the result safe for template output.
func SanitizeHTML(s string) template.HTML {
	return template.HTML(Sanitize(s)) // #nosec G203 -- sanitized above
}

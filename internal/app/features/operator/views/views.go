// internal/app/features/operator/views/views.go
package operator

import (
	"embed"

	"github.com/dalemusser/waffle/pantry/templates"
)

//go:embed templates/*.gohtml
var FS embed.FS

func init() {
	templates.Register(templates.Set{
		Name:     "operator",
		FS:       FS,
		Patterns: []string{"templates/*.gohtml"},
	})
}

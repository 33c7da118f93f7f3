// internal/app/features/spareparts/views/views.go
package spareparts

import (
	"embed"

	"github.com/dalemusser/waffle/pantry/templates"
)

//go:embed templates/*.gohtml
var FS embed.FS

func init() {
	templates.Register(templates.Set{
		Name:     "spareparts",
		FS:       FS,
		Patterns: []string{"templates/*.gohtml"},
	})
}

// internal/domain/models/plants.go
package models

// Plants lists the physical facilities that scope dashboards. The set is
// open: adding a plant here is the only change needed.
var Plants = []string{
	"Foundry",
	"Assembly",
	"Fabrication",
	"Hydraulic",
	"KBN",
	"Cibitung",
}

// DefaultPlant is used by the one-time backfill migration for legacy
// records created before the plant field existed.
const DefaultPlant = "Foundry"

// ValidPlant reports whether name is one of the configured plants.
func ValidPlant(name string) bool {
	for _, p := range Plants {
		if p == name {
			return true
		}
	}
	return false
}

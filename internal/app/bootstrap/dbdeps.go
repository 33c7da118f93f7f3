// internal/app/bootstrap/dbdeps.go
package bootstrap

import (
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/plantfloor/sparetrack/internal/app/system/sync"
)

// DBDeps holds database/back-end dependencies for the app.
//
// The synchronizers are pointers so the value-copied DBDeps passed
// between lifecycle hooks still refers to the same instances.
type DBDeps struct {
	MongoClient   *mongo.Client
	MongoDatabase *mongo.Database

	// SpareParts and Settings are the live views every dashboard and
	// SSE stream reads from. Created in ConnectDB, fed in Startup,
	// stopped in Shutdown.
	SpareParts *sync.Parts
	Settings   *sync.Settings
}

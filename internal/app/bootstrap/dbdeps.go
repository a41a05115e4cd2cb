// internal/app/bootstrap/dbdeps.go
package bootstrap

import (
	sessionrecords "github.com/dalemusser/ezdash/internal/app/store/sessions"
	"github.com/dalemusser/ezdash/internal/app/system/workers"
	"go.mongodb.org/mongo-driver/mongo"
)

// DBDeps holds back-end dependencies for the app. Every field is nil
// when the session backend is "cookie": EzDash itself owns no data, it
// only remembers who is signed in.
type DBDeps struct {
	MongoClient   *mongo.Client
	MongoDatabase *mongo.Database

	// SessionRecords keeps Session Store entries server-side.
	SessionRecords *sessionrecords.Store
	// SessionCleanup purges idle SessionRecords. Started in Startup,
	// stopped in Shutdown.
	SessionCleanup *workers.SessionCleanup
}

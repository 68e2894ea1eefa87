package store

import (
	"time"

	"go.mongodb.org/mongo-driver/mongo"

	"github.com/Karuna-AI/karuna-platform-sub001/schema"
)

const defaultTimeout = 5 * time.Second

// ConsentStorage loads and saves a user's consent aggregate as a whole.
// The engine is the only writer; storage owns nothing but durability.
type ConsentStorage interface {
	LoadPreferences(accountNumber string) (*schema.ConsentPreferences, error)
	SavePreferences(preferences *schema.ConsentPreferences) error
}

// AuditLogger is the append-only sink for policy events. Implementations
// must never update or delete previously written events.
type AuditLogger interface {
	RecordAuditEvent(event schema.AuditEvent) error
}

// MongoStore is everything the composition root wires into the engine.
type MongoStore interface {
	ConsentStorage
	AuditLogger
}

type mongoDB struct {
	client   *mongo.Client
	database string
}

// NewMongoStore returns a MongoStore backed by the given mongo client.
func NewMongoStore(client *mongo.Client, database string) MongoStore {
	return &mongoDB{
		client:   client,
		database: database,
	}
}

package schema

import (
	"context"
	"time"

	log "github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoDBIndexer creates the indexes the consent collections rely on.
type MongoDBIndexer struct {
	connURI  string
	database string
}

func NewMongoDBIndexer(connURI, database string) *MongoDBIndexer {
	return &MongoDBIndexer{
		connURI:  connURI,
		database: database,
	}
}

// IndexAll builds every index used by the engine. It is safe to run
// repeatedly; mongo treats existing indexes as a no-op.
func (i *MongoDBIndexer) IndexAll() error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(i.connURI))
	if err != nil {
		return err
	}
	defer func() {
		if err := client.Disconnect(ctx); err != nil {
			log.WithError(err).Warn("fail to disconnect the indexing client")
		}
	}()

	db := client.Database(i.database)

	if _, err := db.Collection(ConsentPreferencesCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "account_number", Value: 1}},
		Options: options.Index().SetUnique(true),
	}); err != nil {
		return err
	}

	if _, err := db.Collection(ConsentAuditCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "account_number", Value: 1}, {Key: "ts", Value: -1}},
	}); err != nil {
		return err
	}

	return nil
}

package store

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/Karuna-AI/karuna-platform-sub001/schema"
)

// LoadPreferences returns the stored aggregate for an account, or nil if the
// account has never persisted one. Documents written before the schema
// version field existed are lifted to version 1.
func (m *mongoDB) LoadPreferences(accountNumber string) (*schema.ConsentPreferences, error) {
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()

	c := m.client.Database(m.database).Collection(schema.ConsentPreferencesCollection)

	var preferences schema.ConsentPreferences
	if err := c.FindOne(ctx, bson.M{"account_number": accountNumber}).Decode(&preferences); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}

	if preferences.SchemaVersion == 0 {
		preferences.SchemaVersion = 1
	}

	return &preferences, nil
}

// SavePreferences upserts the whole aggregate as a single document keyed by
// account number. Writing the full document every time keeps retries after a
// failed save idempotent.
func (m *mongoDB) SavePreferences(preferences *schema.ConsentPreferences) error {
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()

	c := m.client.Database(m.database).Collection(schema.ConsentPreferencesCollection)

	opts := options.Replace().SetUpsert(true)
	filter := bson.M{"account_number": preferences.AccountNumber}
	_, err := c.ReplaceOne(ctx, filter, preferences, opts)
	return err
}

package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/Karuna-AI/karuna-platform-sub001/schema"
)

type ConsentTestSuite struct {
	suite.Suite
	connURI      string
	testDBName   string
	mongoClient  *mongo.Client
	testDatabase *mongo.Database
}

func NewConsentTestSuite(connURI, dbName string) *ConsentTestSuite {
	return &ConsentTestSuite{
		connURI:    connURI,
		testDBName: dbName,
	}
}

func (s *ConsentTestSuite) SetupSuite() {
	if s.connURI == "" || s.testDBName == "" {
		s.T().Fatal("invalid test suite configuration")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	mongoClient, err := mongo.Connect(ctx, options.Client().ApplyURI(s.connURI))
	if nil != err {
		s.T().Fatalf("connect mongo database with error: %s", err.Error())
	}

	s.mongoClient = mongoClient
	s.testDatabase = mongoClient.Database(s.testDBName)

	// make sure the test suite is run with a clean environment
	if err := s.CleanMongoDB(); err != nil {
		s.T().Fatal(err)
	}

	if err := schema.NewMongoDBIndexer(s.connURI, s.testDBName).IndexAll(); err != nil {
		s.T().Fatal(err)
	}
}

// CleanMongoDB drops the whole test database
func (s *ConsentTestSuite) CleanMongoDB() error {
	return s.testDatabase.Drop(context.Background())
}

func (s *ConsentTestSuite) TestLoadPreferencesForUnknownAccount() {
	store := NewMongoStore(s.mongoClient, s.testDBName)

	preferences, err := store.LoadPreferences("consent-test-unknown-account")
	s.NoError(err)
	s.Nil(preferences)
}

func (s *ConsentTestSuite) TestSaveAndLoadPreferences() {
	store := NewMongoStore(s.mongoClient, s.testDBName)

	now := time.Now().UTC().Truncate(time.Millisecond)
	preferences := &schema.ConsentPreferences{
		SchemaVersion: schema.CurrentConsentSchemaVersion,
		AccountNumber: "consent-test-account",
		Consents: []schema.ConsentRecord{
			{
				ID:          "record-1",
				Category:    schema.CategoryVoiceData,
				GrantedTo:   schema.GranteeApp,
				AccessLevel: schema.AccessRead,
				GrantedAt:   now,
				Version:     1,
			},
		},
		DefaultAccessLevels: map[schema.ConsentCategory]schema.AccessLevel{
			schema.CategoryVoiceData: schema.AccessRead,
		},
		GlobalDataSharing: true,
		CreatedAt:         now,
		UpdatedAt:         now,
	}

	s.NoError(store.SavePreferences(preferences))

	loaded, err := store.LoadPreferences("consent-test-account")
	s.NoError(err)
	s.NotNil(loaded)
	s.Equal(schema.CurrentConsentSchemaVersion, loaded.SchemaVersion)
	s.True(loaded.GlobalDataSharing)
	s.Len(loaded.Consents, 1)
	s.Equal("record-1", loaded.Consents[0].ID)
	s.Equal(schema.AccessRead, loaded.DefaultAccessLevels[schema.CategoryVoiceData])
}

func (s *ConsentTestSuite) TestSavePreferencesUpsertsSingleDocument() {
	store := NewMongoStore(s.mongoClient, s.testDBName)

	preferences := &schema.ConsentPreferences{
		SchemaVersion: schema.CurrentConsentSchemaVersion,
		AccountNumber: "consent-test-upsert",
		CreatedAt:     time.Now().UTC(),
	}

	s.NoError(store.SavePreferences(preferences))

	preferences.GlobalDataSharing = true
	s.NoError(store.SavePreferences(preferences))

	count, err := s.testDatabase.Collection(schema.ConsentPreferencesCollection).CountDocuments(context.Background(), bson.M{
		"account_number": "consent-test-upsert",
	})
	s.NoError(err)
	s.Equal(int64(1), count)

	loaded, err := store.LoadPreferences("consent-test-upsert")
	s.NoError(err)
	s.True(loaded.GlobalDataSharing)
}

func (s *ConsentTestSuite) TestLoadPreferencesLiftsMissingSchemaVersion() {
	_, err := s.testDatabase.Collection(schema.ConsentPreferencesCollection).InsertOne(context.Background(), bson.M{
		"account_number":      "consent-test-legacy",
		"global_data_sharing": false,
	})
	s.NoError(err)

	store := NewMongoStore(s.mongoClient, s.testDBName)
	loaded, err := store.LoadPreferences("consent-test-legacy")
	s.NoError(err)
	s.Equal(1, loaded.SchemaVersion)
}

func (s *ConsentTestSuite) TestRecordAuditEvent() {
	store := NewMongoStore(s.mongoClient, s.testDBName)

	event := schema.AuditEvent{
		AccountNumber: "consent-test-audit",
		Action:        schema.AuditActionGranted,
		Category:      schema.CategoryHealthData,
		GrantedTo:     schema.GranteeCaregiverMember,
		Details:       "granted full access",
	}
	s.NoError(store.RecordAuditEvent(event))
	s.NoError(store.RecordAuditEvent(event))

	count, err := s.testDatabase.Collection(schema.ConsentAuditCollection).CountDocuments(context.Background(), bson.M{
		"account_number": "consent-test-audit",
		"action":         "granted",
	})
	s.NoError(err)
	s.Equal(int64(2), count)
}

func TestConsentTestSuite(t *testing.T) {
	suite.Run(t, NewConsentTestSuite("mongodb://127.0.0.1:27017/?compressors=disabled", "test-db"))
}

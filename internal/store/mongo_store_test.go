package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go/modules/mongodb"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func setupTestMongo(t *testing.T) *MongoStore {
	if testing.Short() {
		t.Skip("skipping MongoDB container test in short mode")
	}
	ctx := context.Background()

	mongoContainer, err := mongodb.Run(ctx, "mongo:7")
	require.NoError(t, err)
	t.Cleanup(func() {
		if err := mongoContainer.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %s", err)
		}
	})

	uri, err := mongoContainer.ConnectionString(ctx)
	require.NoError(t, err)

	db, err := ConnectMongoDB(ctx, uri, "testdb")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Client().Disconnect(ctx) })

	s := NewMongoStore(db)
	require.NoError(t, s.CreateIndexes(ctx))
	return s
}

func TestMongoStore(t *testing.T) {
	s := setupTestMongo(t)

	t.Run("round trip", func(t *testing.T) {
		assertRoundTrip(t, s, NewMongoStore(s.collection.Database()))
	})
	t.Run("missing is empty", func(t *testing.T) {
		assertMissingIsEmpty(t, s)
	})
	t.Run("overwrite", func(t *testing.T) {
		assertOverwriteClearsDiscount(t, s)
	})
	t.Run("malformed is empty", func(t *testing.T) {
		ctx := context.Background()
		_, err := s.collection.InsertOne(ctx, bson.M{"_id": "broken", "cart": "not an array", "discount": 42})
		require.NoError(t, err)

		got, err := s.Load(ctx, "broken")
		require.NoError(t, err)
		assert.True(t, got.IsEmpty())
		assert.Nil(t, got.Discount)
	})
}

func TestPingOrDisconnect_UnreachableServer(t *testing.T) {
	ctx := context.Background()
	client, err := mongo.Connect(ctx, options.Client().
		ApplyURI("mongodb://127.0.0.1:1").
		SetServerSelectionTimeout(200*time.Millisecond))
	require.NoError(t, err)

	err = pingOrDisconnect(ctx, client)
	require.ErrorContains(t, err, "failed to ping MongoDB")

	// The helper already closed the topology.
	assert.ErrorIs(t, client.Disconnect(ctx), mongo.ErrClientDisconnected, "client already disconnected")
}

func TestConnectMongoDB_Unreachable(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	_, err := ConnectMongoDB(ctx, "mongodb://127.0.0.1:1", "testdb")
	assert.Error(t, err)
}

package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcmongo "github.com/testcontainers/testcontainers-go/modules/mongodb"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// newTestMongoStore starts a throwaway mongod and returns a store on a fresh database.
func newTestMongoStore(t *testing.T) (*MongoStore, *mongo.Database) {
	t.Helper()
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}
	testcontainers.SkipIfProviderIsNotHealthy(t)

	ctx := context.Background()
	container, err := tcmongo.Run(ctx, "mongo:7")
	require.NoError(t, err, "Failed to start Mongo container")
	t.Cleanup(func() { _ = container.Terminate(context.Background()) })

	uri, err := container.ConnectionString(ctx)
	require.NoError(t, err)

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Disconnect(context.Background()) })

	db := client.Database("mfg_test")
	return NewMongoStore(db, time.Second), db
}

func TestMongoStoreSetKeepsIDOnInsert(t *testing.T) {
	s, db := newTestMongoStore(t)
	ctx := context.Background()

	// ids handed out by Create are ObjectID hex strings; a restore into an empty
	// database must put documents back under exactly those ids.
	agentID := primitive.NewObjectID().Hex()
	require.NoError(t, s.Set(ctx, "agents", agentID, Document{"name": "Toko A", "code": "A001"}))
	flagID := "status_2024-03_" + agentID
	require.NoError(t, s.Set(ctx, "monthly_status", flagID, Document{"status": "lunas"}))

	got, err := s.Get(ctx, "agents", agentID)
	require.NoError(t, err)
	assert.Equal(t, agentID, got.ID())
	assert.Equal(t, "Toko A", got["name"])

	var raw bson.M
	require.NoError(t, db.Collection("agents").FindOne(ctx, bson.M{"_id": agentID}).Decode(&raw))

	all, err := s.GetAll(ctx, "monthly_status")
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, flagID, all[0].ID())
}

func TestMongoStoreSetReplacesObjectIDDocument(t *testing.T) {
	s, db := newTestMongoStore(t)
	ctx := context.Background()

	oid := primitive.NewObjectID()
	_, err := db.Collection("orders").InsertOne(ctx, bson.M{"_id": oid, "customerName": "Budi"})
	require.NoError(t, err)

	require.NoError(t, s.Set(ctx, "orders", oid.Hex(), Document{"customerName": "Sari"}))

	n, err := db.Collection("orders").CountDocuments(ctx, bson.M{})
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	got, err := s.Get(ctx, "orders", oid.Hex())
	require.NoError(t, err)
	assert.Equal(t, "Sari", got["customerName"])
}

func TestMongoStoreCreateThenSetOverwrites(t *testing.T) {
	s, _ := newTestMongoStore(t)
	ctx := context.Background()

	id, err := s.Create(ctx, "orders", Document{"customerName": "Budi", "price": 50000})
	require.NoError(t, err)
	require.NoError(t, s.Set(ctx, "orders", id, Document{"customerName": "Budi"}))

	got, err := s.Get(ctx, "orders", id)
	require.NoError(t, err)
	assert.NotContains(t, got, "price")

	all, err := s.GetAll(ctx, "orders")
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

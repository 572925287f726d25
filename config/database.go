package config

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Collection names. The layout is shared with documents written by earlier clients,
// so these strings must not change.
const (
	AgentCollection         = "agents"
	LegacyAgentCollection   = "Agents"
	OrderCollection         = "orders"
	MonthlyStatusCollection = "monthly_status"
	CompanyCollection       = "settings_company"
	SessionCollection       = "sessions"

	CompanyDocID = "main"
)

var (
	Client   *mongo.Client
	Database *mongo.Database
)

// ConnectDatabase dials Mongo, pings it and keeps the handles in Client and Database.
func ConnectDatabase(cfg *Configuration) (*mongo.Database, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongo: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to ping mongo: %w", err)
	}

	Client = client
	Database = client.Database(cfg.MongoDB)
	return Database, nil
}

func DisconnectDatabase() error {
	if Client == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return Client.Disconnect(ctx)
}

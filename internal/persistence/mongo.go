package persistence

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"github.com/spec-kit/lostfound-service/internal/config"
	"github.com/spec-kit/lostfound-service/internal/repository"
)

// Mongo wraps a connected client and the selected database.
type Mongo struct {
	Client   *mongo.Client
	Database *mongo.Database
}

// NewMongo connects to the document store and pings the primary.
func NewMongo(ctx context.Context, cfg config.MongoConfig, logger *zap.Logger) (*Mongo, error) {
	if cfg.URI == "" {
		return nil, errors.New("mongo uri is empty")
	}

	ctx, cancel := context.WithTimeout(ctx, cfg.Timeout())
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI).SetTimeout(cfg.Timeout()))
	if err != nil {
		return nil, err
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}

	logger.Info("connected to mongo", zap.String("database", cfg.Database))
	return &Mongo{Client: client, Database: client.Database(cfg.Database)}, nil
}

// EnsureIndexes creates the indexes the repositories rely on.
func (m *Mongo) EnsureIndexes(ctx context.Context) error {
	_, err := m.Database.Collection(repository.MongoUsersCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return err
	}
	_, err = m.Database.Collection(repository.MongoItemsCollection).Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "status", Value: 1}, {Key: "createdAt", Value: 1}}},
		{Keys: bson.D{{Key: "reportedBy", Value: 1}}},
	})
	if err != nil {
		return err
	}
	_, err = m.Database.Collection(repository.MongoTransitionsCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "itemId", Value: 1}, {Key: "createdAt", Value: 1}},
	})
	return err
}

// Name identifies the dependency in readiness reports.
func (m *Mongo) Name() string { return "mongo" }

// Ping verifies document store connectivity.
func (m *Mongo) Ping(ctx context.Context) error {
	if m == nil || m.Client == nil {
		return errors.New("mongo client not configured")
	}
	return m.Client.Ping(ctx, nil)
}

// Close disconnects the client.
func (m *Mongo) Close(ctx context.Context) {
	if m != nil && m.Client != nil {
		_ = m.Client.Disconnect(ctx)
	}
}

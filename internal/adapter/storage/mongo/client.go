package mongo

import (
	"context"
	"fmt"

	"echeck-gateway/config"

	"github.com/rs/zerolog"
	gomongo "go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// DataStore is the part of a collection the archive uses.
type DataStore interface {
	InsertOne(ctx context.Context, document interface{}, opts ...*options.InsertOneOptions) (*gomongo.InsertOneResult, error)
	Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) (Cursor, error)
}

// Cursor is the part of *mongo.Cursor the archive uses.
type Cursor interface {
	All(ctx context.Context, results interface{}) error
}

// CollectionProvider hands out collections by name.
type CollectionProvider interface {
	Collection(name string) DataStore
}

// collection adapts *mongo.Collection to DataStore.
type collection struct {
	*gomongo.Collection
}

func (c *collection) Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) (Cursor, error) {
	return c.Collection.Find(ctx, filter, opts...)
}

// Provider adapts a connected client and database name to CollectionProvider.
type Provider struct {
	db *gomongo.Database
}

func NewProvider(client *gomongo.Client, database string) *Provider {
	return &Provider{db: client.Database(database)}
}

func (p *Provider) Collection(name string) DataStore {
	return &collection{p.db.Collection(name)}
}

// Connect opens a client and verifies connectivity.
func Connect(ctx context.Context, cfg config.MongoConfig, log zerolog.Logger) (*gomongo.Client, error) {
	opts := options.Client().ApplyURI(cfg.URI)
	if cfg.Timeout > 0 {
		opts.SetTimeout(cfg.Timeout)
	}

	client, err := gomongo.Connect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("connecting to mongodb: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("pinging mongodb: %w", err)
	}

	log.Info().Str("database", cfg.Database).Msg("MongoDB connection established")
	return client, nil
}

// HealthCheck implements ports.HealthChecker for MongoDB.
type HealthCheck struct {
	client *gomongo.Client
}

func NewHealthCheck(client *gomongo.Client) *HealthCheck {
	return &HealthCheck{client: client}
}

func (h *HealthCheck) Ping(ctx context.Context) error {
	return h.client.Ping(ctx, nil)
}

func (h *HealthCheck) Name() string {
	return "mongodb"
}

// Optional reports that a MongoDB outage only disables print archiving.
func (h *HealthCheck) Optional() bool { return true }

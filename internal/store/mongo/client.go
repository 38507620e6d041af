// Package mongo adapts the core's ResultConsumer collaborator onto
// go.mongodb.org/mongo-driver, grounded on the teacher's
// internal/repository/mongo package (Client wiring per mongo.go, per-
// collection repository shape per analysis_v2_repository.go). Persistence
// lives entirely outside internal/core, per SPEC_FULL.md §5's
// external-collaborator boundary.
package mongo

import (
	"context"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Client wraps the MongoDB client and database handle.
type Client struct {
	client *mongo.Client
	db     *mongo.Database
}

// NewClient connects to uri and selects dbName, pinging once to fail fast on
// a bad connection string.
func NewClient(uri, dbName string) (*Client, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, err
	}
	if err := client.Ping(ctx, nil); err != nil {
		return nil, err
	}

	log.Printf("connected to MongoDB at %s, db: %s", uri, dbName)
	return &Client{client: client, db: client.Database(dbName)}, nil
}

// DB returns the underlying database handle.
func (c *Client) DB() *mongo.Database {
	return c.db
}

// Close disconnects the client.
func (c *Client) Close(ctx context.Context) error {
	return c.client.Disconnect(ctx)
}

package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ConnectMongo connects to uri and returns the named database.
func ConnectMongo(ctx context.Context, uri, database string) (*mongo.Client, *mongo.Database, error) {
	if uri == "" {
		return nil, nil, errors.New("mongo uri is empty")
	}

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open mongo client: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, nil, fmt.Errorf("failed to connect to mongo: %w", err)
	}

	return client, client.Database(database), nil
}

// EnsureMongoIndexes creates the unique barcode index and the log ordering index.
func EnsureMongoIndexes(ctx context.Context, database *mongo.Database) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	_, err := database.Collection("products").Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "barcode", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("failed to create products index: %w", err)
	}

	_, err = database.Collection("verifications").Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "timestamp", Value: -1}},
	})
	if err != nil {
		return fmt.Errorf("failed to create verifications index: %w", err)
	}
	return nil
}

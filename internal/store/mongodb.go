// internal/store/mongodb.go

package store

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/dacionxo/leadharvest/internal/lead"
	"github.com/dacionxo/leadharvest/internal/utils"
)

// MongoStore persists lead records as documents, one per property URL.
// The other bag stays a native subdocument instead of a JSON string.
type MongoStore struct {
	client     *mongo.Client
	collection *mongo.Collection
	logger     utils.Logger
}

// NewMongoStore connects to MongoDB and prepares the collection with a
// unique index on property_url.
func NewMongoStore(uri, database, collection string, logger utils.Logger) (*MongoStore, error) {
	if uri == "" {
		return nil, fmt.Errorf("mongodb URI is required")
	}
	if database == "" {
		database = "leadharvest"
	}
	if collection == "" {
		collection = "listings"
	}
	if logger == nil {
		logger = utils.NewLogger()
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		client.Disconnect(ctx)
		return nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}

	coll := client.Database(database).Collection(collection)
	indexModel := mongo.IndexModel{
		Keys:    bson.D{{Key: "property_url", Value: 1}},
		Options: options.Index().SetUnique(true),
	}
	if _, err := coll.Indexes().CreateOne(ctx, indexModel); err != nil {
		client.Disconnect(ctx)
		return nil, fmt.Errorf("failed to create property_url index: %w", err)
	}

	return &MongoStore{client: client, collection: coll, logger: logger}, nil
}

// Upsert writes the record keyed by property_url. Only present columns are
// set, so repeat runs refine documents instead of replacing them.
func (m *MongoStore) Upsert(ctx context.Context, record lead.LeadRecord) (bool, error) {
	key := record.PropertyURL()
	if key == "" {
		return false, ErrNoPropertyURL
	}

	set := bson.M{}
	for col, v := range record.Columns {
		set[col] = v
	}
	if len(record.Other) > 0 {
		set["other"] = record.Other
	}

	filter := bson.M{"property_url": key}
	update := bson.M{"$set": set}
	opts := options.Update().SetUpsert(true)

	if _, err := m.collection.UpdateOne(ctx, filter, update, opts); err != nil {
		return false, fmt.Errorf("upsert failed for %s: %w", key, err)
	}
	return true, nil
}

// Close disconnects from MongoDB.
func (m *MongoStore) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return m.client.Disconnect(ctx)
}

// Package mongostore implements store.Gateway on a MongoDB collection.
package mongostore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"cadena-service/internal/model"
	"cadena-service/internal/store"
	"cadena-service/prometheus"
)

var _ store.Gateway = (*Store)(nil)

// Store is a store.Gateway over one collection
type Store struct {
	client *mongo.Client
	coll   *mongo.Collection
}

// New wraps the given collection. The client is disconnected on Close.
func New(client *mongo.Client, database, collection string) *Store {
	return &Store{
		client: client,
		coll:   client.Database(database).Collection(collection),
	}
}

// EnsureIndexes creates the lookup indexes used by slug and active queries
func (s *Store) EnsureIndexes(ctx context.Context) error {
	_, err := s.coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "slug", Value: 1}}},
		{Keys: bson.D{{Key: "activo", Value: 1}}},
	})
	if err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}
	return nil
}

// Insert adds the chain and returns the generated ObjectID as hex
func (s *Store) Insert(ctx context.Context, chain *model.Chain) (string, error) {
	defer prometheus.TrackDBOperation("insert")(time.Now())

	res, err := s.coll.InsertOne(ctx, newDocument(chain))
	if err != nil {
		return "", fmt.Errorf("failed to insert chain: %w", err)
	}
	oid, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return "", fmt.Errorf("unexpected inserted id type %T", res.InsertedID)
	}
	return oid.Hex(), nil
}

// FindBySlug returns the chain with the given slug
func (s *Store) FindBySlug(ctx context.Context, slug string) (*model.Chain, error) {
	defer prometheus.TrackDBOperation("find_one")(time.Now())

	var doc chainDocument
	err := s.coll.FindOne(ctx, bson.M{"slug": slug}).Decode(&doc)
	if err != nil {
		return nil, mapErr("find chain", err)
	}
	return doc.toModel(), nil
}

// Find returns the chains matching the filter ordered by _id
func (s *Store) Find(ctx context.Context, filter model.ChainFilter) ([]model.Chain, error) {
	defer prometheus.TrackDBOperation("find")(time.Now())

	query := bson.M{}
	if filter.Active != nil {
		query["activo"] = *filter.Active
	}

	cur, err := s.coll.Find(ctx, query, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("failed to list chains: %w", err)
	}
	defer cur.Close(ctx)

	chains := []model.Chain{}
	for cur.Next(ctx) {
		var doc chainDocument
		if err := cur.Decode(&doc); err != nil {
			return nil, fmt.Errorf("failed to decode chain: %w", err)
		}
		chains = append(chains, *doc.toModel())
	}
	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate chains: %w", err)
	}
	return chains, nil
}

// SetSlug stamps the slug on the record with the given ID
func (s *Store) SetSlug(ctx context.Context, id, slug string) (*model.Chain, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, store.ErrNotFound
	}
	return s.findOneAndSet(ctx, "set_slug", bson.M{"_id": oid}, bson.M{"slug": slug})
}

// SetActive sets the active flag of the chain with the given slug
func (s *Store) SetActive(ctx context.Context, slug string, active bool) (*model.Chain, error) {
	return s.findOneAndSet(ctx, "set_active", bson.M{"slug": slug}, bson.M{"activo": active})
}

// DeleteByID removes the record with the given ID
func (s *Store) DeleteByID(ctx context.Context, id string) error {
	defer prometheus.TrackDBOperation("delete")(time.Now())

	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil
	}
	if _, err := s.coll.DeleteOne(ctx, bson.M{"_id": oid}); err != nil {
		return fmt.Errorf("failed to delete chain %s: %w", id, err)
	}
	return nil
}

// Ping checks the primary is reachable
func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx, readpref.Primary())
}

// Close disconnects the client
func (s *Store) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

func (s *Store) findOneAndSet(ctx context.Context, op string, filter, set bson.M) (*model.Chain, error) {
	defer prometheus.TrackDBOperation(op)(time.Now())

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var doc chainDocument
	err := s.coll.FindOneAndUpdate(ctx, filter, bson.M{"$set": set}, opts).Decode(&doc)
	if err != nil {
		return nil, mapErr(op, err)
	}
	return doc.toModel(), nil
}

func mapErr(op string, err error) error {
	if errors.Is(err, mongo.ErrNoDocuments) {
		return store.ErrNotFound
	}
	return fmt.Errorf("failed to %s: %w", op, err)
}

// Package mongodb implements the document-side ports on MongoDB. The trial
// cache collection is the durability-of-record for fetched trials; the graph
// is derived from it and can always be rebuilt.
package mongodb

import (
	"context"
	"errors"
	"time"

	"clinect-backend/application/ports"
	"clinect-backend/domain/trial"
	apperrors "clinect-backend/pkg/errors"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.uber.org/zap"
)

const trialsCollection = "trials_cache"

// DocumentCache stores trial records keyed by NCT id with a lazy TTL:
// entries older than the TTL are treated as absent and deleted on read.
type DocumentCache struct {
	collection *mongo.Collection
	ttl        time.Duration
	logger     *zap.Logger
}

// NewDocumentCache creates a document cache over the given database.
func NewDocumentCache(db *mongo.Database, ttl time.Duration, logger *zap.Logger) *DocumentCache {
	return &DocumentCache{
		collection: db.Collection(trialsCollection),
		ttl:        ttl,
		logger:     logger,
	}
}

// EnsureIndexes creates the unique key index and the search indexes.
func (c *DocumentCache) EnsureIndexes(ctx context.Context) error {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "nctId", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{Keys: bson.D{{Key: "conditions", Value: 1}}},
		{Keys: bson.D{{Key: "locations", Value: 1}}},
		{Keys: bson.D{{Key: "status", Value: 1}}},
		{Keys: bson.D{{Key: "cachedAt", Value: -1}}},
	}
	if _, err := c.collection.Indexes().CreateMany(ctx, indexes); err != nil {
		return apperrors.NewStoreUnavailableError("document cache", err)
	}
	return nil
}

// Upsert stores or overwrites the record under its NCT id.
func (c *DocumentCache) Upsert(ctx context.Context, rec *trial.Record) (bool, error) {
	filter := bson.D{{Key: "nctId", Value: rec.NCTID}}
	update := bson.D{{Key: "$set", Value: rec}}

	_, err := c.collection.UpdateOne(ctx, filter, update, options.UpdateOne().SetUpsert(true))
	if err != nil {
		return false, apperrors.NewStoreUnavailableError("document cache", err)
	}
	return true, nil
}

// Get returns the cached record or (nil, nil) on a miss. An entry past its
// TTL counts as a miss and is deleted in passing.
func (c *DocumentCache) Get(ctx context.Context, nctID string) (*trial.Record, error) {
	var rec trial.Record
	err := c.collection.FindOne(ctx, bson.D{{Key: "nctId", Value: nctID}}).Decode(&rec)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, apperrors.NewStoreUnavailableError("document cache", err)
	}

	if rec.Expired(c.ttl, time.Now().UTC()) {
		if _, err := c.collection.DeleteOne(ctx, bson.D{{Key: "nctId", Value: nctID}}); err != nil {
			c.logger.Warn("failed to delete expired cache entry",
				zap.String("nctId", nctID),
				zap.Error(err),
			)
		}
		return nil, nil
	}

	return &rec, nil
}

// ClearAll deletes every cached trial.
func (c *DocumentCache) ClearAll(ctx context.Context) (int64, error) {
	result, err := c.collection.DeleteMany(ctx, bson.D{})
	if err != nil {
		return 0, apperrors.NewStoreUnavailableError("document cache", err)
	}
	return result.DeletedCount, nil
}

// ClearExpired deletes entries past their TTL.
func (c *DocumentCache) ClearExpired(ctx context.Context) (int64, error) {
	cutoff := time.Now().UTC().Add(-c.ttl)
	result, err := c.collection.DeleteMany(ctx, bson.D{
		{Key: "cachedAt", Value: bson.D{{Key: "$lt", Value: cutoff}}},
	})
	if err != nil {
		return 0, apperrors.NewStoreUnavailableError("document cache", err)
	}
	return result.DeletedCount, nil
}

// Stats reports total, valid and expired entry counts.
func (c *DocumentCache) Stats(ctx context.Context) (ports.CacheStats, error) {
	cutoff := time.Now().UTC().Add(-c.ttl)

	total, err := c.collection.CountDocuments(ctx, bson.D{})
	if err != nil {
		return ports.CacheStats{}, apperrors.NewStoreUnavailableError("document cache", err)
	}
	valid, err := c.collection.CountDocuments(ctx, bson.D{
		{Key: "cachedAt", Value: bson.D{{Key: "$gte", Value: cutoff}}},
	})
	if err != nil {
		return ports.CacheStats{}, apperrors.NewStoreUnavailableError("document cache", err)
	}

	return ports.CacheStats{
		Total:   total,
		Valid:   valid,
		Expired: total - valid,
	}, nil
}

package analytics

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	domainErrors "github.com/polkiloo/catering/internal/domain/errors"
	"github.com/polkiloo/catering/internal/domain/model"
)

// CollectionName is where order projections live.
const CollectionName = "order_projections"

const defaultTimeout = 2 * time.Second

// Store persists analytics projections keyed by order id.
type Store interface {
	Upsert(ctx context.Context, projection model.AnalyticsProjection) error
}

type collection interface {
	ReplaceOne(ctx context.Context, filter interface{}, replacement interface{}, opts ...*options.ReplaceOptions) (*mongo.UpdateResult, error)
}

// MongoStore upserts projections into a MongoDB collection.
type MongoStore struct {
	coll    collection
	timeout time.Duration
}

// NewMongoStore wraps a collection. Non-positive timeouts fall back to the default.
func NewMongoStore(coll collection, timeout time.Duration) *MongoStore {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &MongoStore{coll: coll, timeout: timeout}
}

// Upsert replaces the projection document of the order, inserting it when absent.
func (s *MongoStore) Upsert(ctx context.Context, projection model.AnalyticsProjection) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	_, err := s.coll.ReplaceOne(ctx,
		bson.M{"_id": projection.OrderID},
		projection,
		options.Replace().SetUpsert(true),
	)
	if err != nil {
		return domainErrors.Wrap(domainErrors.KindDependencyUnavailable, "upsert analytics projection", err)
	}
	return nil
}

// NopStore discards projections. Used when no analytics store is configured.
type NopStore struct{}

// Upsert implements Store.
func (NopStore) Upsert(context.Context, model.AnalyticsProjection) error { return nil }

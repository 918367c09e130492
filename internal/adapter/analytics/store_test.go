package analytics

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	domainErrors "github.com/polkiloo/catering/internal/domain/errors"
	"github.com/polkiloo/catering/internal/domain/model"
)

type fakeCollection struct {
	filter      interface{}
	replacement interface{}
	upsert      bool
	deadline    bool
	err         error
}

func (c *fakeCollection) ReplaceOne(ctx context.Context, filter interface{}, replacement interface{}, opts ...*options.ReplaceOptions) (*mongo.UpdateResult, error) {
	c.filter = filter
	c.replacement = replacement
	_, c.deadline = ctx.Deadline()
	for _, o := range opts {
		if o.Upsert != nil {
			c.upsert = *o.Upsert
		}
	}
	if c.err != nil {
		return nil, c.err
	}
	return &mongo.UpdateResult{UpsertedCount: 1}, nil
}

func TestMongoStoreUpsert(t *testing.T) {
	coll := &fakeCollection{}
	store := NewMongoStore(coll, time.Second)

	projection := model.AnalyticsProjection{OrderID: 42, MenuID: 3, GuestCount: 10, TotalPrice: 905, Status: "PENDING", City: "Bordeaux"}
	require.NoError(t, store.Upsert(context.Background(), projection))

	assert.Equal(t, bson.M{"_id": int64(42)}, coll.filter)
	assert.Equal(t, projection, coll.replacement)
	assert.True(t, coll.upsert, "replace must upsert")
	assert.True(t, coll.deadline, "upsert must be bounded by a timeout")
}

func TestMongoStoreUpsertWrapsFailure(t *testing.T) {
	coll := &fakeCollection{err: errors.New("connection refused")}
	store := NewMongoStore(coll, 0)

	err := store.Upsert(context.Background(), model.AnalyticsProjection{OrderID: 1})
	require.Error(t, err)
	assert.Equal(t, domainErrors.KindDependencyUnavailable, domainErrors.KindOf(err))
	assert.ErrorContains(t, err, "connection refused")
	assert.Equal(t, defaultTimeout, store.timeout)
}

func TestNopStore(t *testing.T) {
	assert.NoError(t, NopStore{}.Upsert(context.Background(), model.AnalyticsProjection{OrderID: 1}))
}

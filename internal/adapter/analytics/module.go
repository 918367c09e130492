package analytics

import (
	"context"
	"log/slog"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/fx"

	"github.com/polkiloo/catering/internal/config"
)

// Module provides the analytics projection store.
var Module = fx.Provide(newStore)

type storeParams struct {
	fx.In

	Lifecycle fx.Lifecycle
	Config    *config.Config
	Logger    *slog.Logger
}

func newStore(p storeParams) (Store, error) {
	if p.Config.AnalyticsURI == "" {
		p.Logger.Info("analytics store disabled")
		return NopStore{}, nil
	}

	client, err := mongo.Connect(context.Background(), options.Client().ApplyURI(p.Config.AnalyticsURI))
	if err != nil {
		return nil, err
	}

	timeout := p.Config.AnalyticsTimeout
	p.Lifecycle.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			pingCtx, cancel := context.WithTimeout(ctx, timeout)
			defer cancel()
			if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
				// projections are best-effort, an unreachable store must not block startup
				p.Logger.Warn("analytics store unreachable", slog.String("error", err.Error()))
			}
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return client.Disconnect(ctx)
		},
	})

	coll := client.Database(p.Config.AnalyticsDatabase).Collection(CollectionName)
	return NewMongoStore(coll, timeout), nil
}

package analytics

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/fx"
	"go.uber.org/fx/fxtest"

	"github.com/polkiloo/catering/internal/config"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

func TestModuleProvidesNopStoreWhenDisabled(t *testing.T) {
	var store Store
	app := fxtest.New(t,
		fx.Supply(&config.Config{}, testLogger()),
		Module,
		fx.Populate(&store),
	)
	app.RequireStart()
	defer app.RequireStop()

	assert.IsType(t, NopStore{}, store)
}

func TestNewStoreConnectsLazily(t *testing.T) {
	lc := fxtest.NewLifecycle(t)
	store, err := newStore(storeParams{
		Lifecycle: lc,
		Config: &config.Config{
			AnalyticsURI:      "mongodb://127.0.0.1:1",
			AnalyticsDatabase: "catering_analytics",
			AnalyticsTimeout:  50 * time.Millisecond,
		},
		Logger: testLogger(),
	})
	require.NoError(t, err)
	require.IsType(t, &MongoStore{}, store)

	require.NoError(t, lc.Start(context.Background()))
	require.NoError(t, lc.Stop(context.Background()))
}

func TestNewStoreRejectsInvalidURI(t *testing.T) {
	_, err := newStore(storeParams{
		Lifecycle: fxtest.NewLifecycle(t),
		Config:    &config.Config{AnalyticsURI: "not-a-mongo-uri"},
		Logger:    testLogger(),
	})
	assert.Error(t, err)
}

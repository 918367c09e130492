package geo

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/fx"

	"github.com/polkiloo/catering/internal/config"
)

func TestModuleProvidesResolver(t *testing.T) {
	var resolved Resolver
	app := fx.New(
		fx.NopLogger,
		fx.Supply(&config.Config{BaseCity: "Bordeaux", GeocoderTimeout: time.Second}),
		fx.Supply(testLogger()),
		Module,
		fx.Populate(&resolved),
	)
	t.Cleanup(func() { _ = app.Stop(context.Background()) })
	require.NoError(t, app.Err())
	require.NotNil(t, resolved)
}

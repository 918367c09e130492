package geo

import (
	"log/slog"

	"go.uber.org/fx"

	"github.com/polkiloo/catering/internal/config"
)

// Module exposes the distance resolver to the fx graph.
var Module = fx.Provide(newResolver)

type resolverParams struct {
	fx.In

	Config *config.Config
	Logger *slog.Logger
}

func newResolver(p resolverParams) (Resolver, error) {
	return NewHTTPResolver(Options{
		BaseURL:      p.Config.GeocoderAddress,
		BaseCity:     p.Config.BaseCity,
		NearPrefixes: p.Config.NearRegionPrefixes,
		Timeout:      p.Config.GeocoderTimeout,
	}, p.Logger)
}

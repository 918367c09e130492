package di

import (
	"go.uber.org/fx"

	"github.com/polkiloo/catering/internal/adapter/analytics"
	"github.com/polkiloo/catering/internal/adapter/geo"
	"github.com/polkiloo/catering/internal/adapter/notify"
	"github.com/polkiloo/catering/internal/app"
	"github.com/polkiloo/catering/internal/config"
	"github.com/polkiloo/catering/internal/logger"
	"github.com/polkiloo/catering/internal/metrics"
	"github.com/polkiloo/catering/internal/pkg/auth"
	"github.com/polkiloo/catering/internal/server/http/handlers"
	"github.com/polkiloo/catering/internal/server/http/router"
	"github.com/polkiloo/catering/internal/storage/postgres"
	"github.com/polkiloo/catering/internal/usecase"
)

// Module assembles the whole service graph. Extra options are appended last so tests can replace nodes.
func Module(opts ...fx.Option) fx.Option {
	modules := []fx.Option{
		config.Module,
		logger.Module,
		metrics.Module,
		auth.Module,
		postgres.Module,
		geo.Module,
		analytics.Module,
		notify.Module,
		usecase.Module,
		fx.Provide(func(s *postgres.Storage) app.HealthChecker { return s }),
		fx.Provide(func(f *app.CateringFacade) handlers.CateringFacade { return f }),
		router.Module,
		app.Module,
	}
	modules = append(modules, opts...)
	return fx.Options(modules...)
}

package usecase

import (
	"log/slog"

	"go.uber.org/fx"

	"github.com/polkiloo/catering/internal/adapter/analytics"
	"github.com/polkiloo/catering/internal/config"
	"github.com/polkiloo/catering/internal/domain/repository"
	"github.com/polkiloo/catering/internal/metrics"
)

// Module provides core business use cases to the fx container.
var Module = fx.Provide(
	newRecorder,
	newProjectionSync,
	NewSideEffects,
	NewOrderUseCase,
	NewMaterialUseCase,
)

func newRecorder(m *metrics.Metrics) Recorder {
	return m
}

type syncParams struct {
	fx.In

	Orders   repository.OrderRepository
	Store    analytics.Store
	Recorder Recorder
	Logger   *slog.Logger
	Config   *config.Config
}

func newProjectionSync(p syncParams) *ProjectionSync {
	return NewProjectionSync(p.Orders, p.Store, p.Recorder, p.Logger, p.Config.AnalyticsTimeout, p.Config.WorkerPoolSize)
}

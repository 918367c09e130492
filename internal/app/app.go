package app

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/fx"

	"github.com/polkiloo/catering/internal/config"
	"github.com/polkiloo/catering/internal/usecase"
	"github.com/polkiloo/catering/internal/worker"
)

// Module wires application services, runtime components, and lifecycle hooks.
var Module = fx.Options(
	fx.Provide(
		NewCateringFacade,
		newHTTPServer,
		newOverdueMonitor,
	),
	fx.Invoke(registerLifecycle),
)

type serverParams struct {
	fx.In

	Config *config.Config
	Router *gin.Engine
}

func newHTTPServer(p serverParams) *http.Server {
	return &http.Server{
		Addr:    p.Config.RunAddress,
		Handler: p.Router,
	}
}

type monitorParams struct {
	fx.In

	Facade *CateringFacade
	Config *config.Config
	Logger *slog.Logger
}

// newOverdueMonitor polls for late material with its own worker budget.
func newOverdueMonitor(p monitorParams) *worker.OverdueMonitor {
	return worker.NewOverdueMonitor(
		p.Facade,
		p.Config.OverduePollInterval,
		p.Config.ReminderWorkers,
		p.Logger.With(slog.String("component", "overdue_monitor")),
	)
}

type analyticsRebuilder interface {
	RebuildAnalytics(ctx context.Context) (usecase.RebuildResult, error)
}

// rebuildAnalytics refreshes every order projection, logging the outcome.
func rebuildAnalytics(ctx context.Context, rebuilder analyticsRebuilder, logger *slog.Logger) {
	result, err := rebuilder.RebuildAnalytics(ctx)
	if err != nil {
		logger.Warn("analytics rebuild failed", slog.String("error", err.Error()))
		return
	}
	logger.Info("analytics rebuilt",
		slog.Int("synced", result.Synced),
		slog.Int("failed", result.Failed),
	)
}

type lifecycleParams struct {
	fx.In

	Lifecycle  fx.Lifecycle
	Shutdowner fx.Shutdowner
	Logger     *slog.Logger
	Server     *http.Server
	Monitor    *worker.OverdueMonitor
	Facade     *CateringFacade `optional:"true"`
	Config     *config.Config
}

func registerLifecycle(p lifecycleParams) {
	p.Lifecycle.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			p.Logger.Info("starting catering",
				slog.String("addr", p.Server.Addr),
				slog.String("base_city", p.Config.BaseCity),
				slog.Duration("overdue_interval", p.Config.OverduePollInterval),
				slog.Int("reminder_workers", p.Monitor.Workers()),
			)
			// the start context expires once startup completes
			background := context.WithoutCancel(ctx)
			p.Monitor.Start(background)
			if p.Config.RebuildOnStart && p.Facade != nil {
				go rebuildAnalytics(background, p.Facade, p.Logger)
			}
			go func() {
				if err := p.Server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					p.Logger.Error("http server terminated", slog.String("error", err.Error()))
					_ = p.Shutdowner.Shutdown()
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			p.Monitor.Stop()

			shutdownCtx := ctx
			cancel := func() {}
			if _, ok := ctx.Deadline(); !ok {
				shutdownCtx, cancel = context.WithTimeout(ctx, p.Config.ShutdownTimeout)
			}
			defer cancel()

			if err := p.Server.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			p.Logger.Info("catering stopped")
			return nil
		},
	})
}

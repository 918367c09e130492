package usecase

import (
	"context"
	"errors"
	"log/slog"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/polkiloo/catering/internal/adapter/analytics"
	domainErrors "github.com/polkiloo/catering/internal/domain/errors"
	"github.com/polkiloo/catering/internal/domain/model"
	"github.com/polkiloo/catering/internal/domain/repository"
)

const (
	syncKind              = "analytics_sync"
	defaultSyncTimeout    = 2 * time.Second
	defaultRebuildWorkers = 4
)

// RebuildResult summarizes a projection rebuild.
type RebuildResult struct {
	Synced int
	Failed int
}

// ProjectionSync copies orders into the analytics store after they are committed.
type ProjectionSync struct {
	orders   repository.OrderRepository
	store    analytics.Store
	recorder Recorder
	logger   *slog.Logger
	timeout  time.Duration
	workers  int
	now      func() time.Time
}

// NewProjectionSync constructs ProjectionSync.
func NewProjectionSync(orders repository.OrderRepository, store analytics.Store, recorder Recorder, logger *slog.Logger, timeout time.Duration, workers int) *ProjectionSync {
	if recorder == nil {
		recorder = nopRecorder{}
	}
	if timeout <= 0 {
		timeout = defaultSyncTimeout
	}
	if workers <= 0 {
		workers = defaultRebuildWorkers
	}
	return &ProjectionSync{
		orders:   orders,
		store:    store,
		recorder: recorder,
		logger:   logger,
		timeout:  timeout,
		workers:  workers,
		now:      time.Now,
	}
}

// Sync re-reads the order and upserts its projection. A missing order is a no-op.
func (s *ProjectionSync) Sync(ctx context.Context, orderID int64) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.timeout)
	defer cancel()

	order, err := s.orders.FindByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, domainErrors.ErrNotFound) {
			return
		}
		s.failed(ctx, orderID, err)
		return
	}
	if err := s.store.Upsert(ctx, model.NewProjection(order, s.now())); err != nil {
		s.failed(ctx, orderID, err)
	}
}

// Rebuild re-projects every order. Store failures are counted, not returned.
func (s *ProjectionSync) Rebuild(ctx context.Context) (RebuildResult, error) {
	orders, err := s.orders.FindByFilters(ctx, model.OrderFilter{})
	if err != nil {
		return RebuildResult{}, err
	}

	var synced, failed atomic.Int64
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers)
	for i := range orders {
		order := &orders[i]
		g.Go(func() error {
			upsertCtx, cancel := context.WithTimeout(gctx, s.timeout)
			defer cancel()
			if err := s.store.Upsert(upsertCtx, model.NewProjection(order, s.now())); err != nil {
				failed.Add(1)
				s.failed(gctx, order.ID, err)
				return nil
			}
			synced.Add(1)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return RebuildResult{}, err
	}

	result := RebuildResult{Synced: int(synced.Load()), Failed: int(failed.Load())}
	s.logger.InfoContext(ctx, "analytics projection rebuilt",
		slog.Int("synced", result.Synced),
		slog.Int("failed", result.Failed),
	)
	return result, nil
}

func (s *ProjectionSync) failed(ctx context.Context, orderID int64, err error) {
	s.recorder.SideEffectFailed(syncKind)
	s.logger.WarnContext(ctx, "side effect failed",
		slog.Int64("order_id", orderID),
		slog.String("kind", syncKind),
		slog.String("error", err.Error()),
	)
}

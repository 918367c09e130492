package worker

import (
	"context"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/polkiloo/catering/internal/domain/model"
)

// reminderWindow bounds how often one order is reminded about the same late material.
const reminderWindow = 24 * time.Hour

// MaterialFacade exposes the subset of application functionality required by the monitor.
type MaterialFacade interface {
	OverdueMaterials(ctx context.Context) ([]model.MaterialLoan, error)
	RemindOverdue(ctx context.Context, orderID int64, loans []model.MaterialLoan) error
}

type reminder struct {
	orderID int64
	loans   []model.MaterialLoan
}

// OverdueMonitor polls for late material and reminds customers concurrently.
type OverdueMonitor struct {
	facade       MaterialFacade
	pollInterval time.Duration
	workers      int
	logger       *slog.Logger
	now          func() time.Time

	jobs     chan reminder
	wg       sync.WaitGroup
	cancel   context.CancelFunc
	mu       sync.Mutex
	remindMu sync.Mutex
	reminded map[int64]time.Time
}

// NewOverdueMonitor constructs the monitor worker pool.
func NewOverdueMonitor(facade MaterialFacade, pollInterval time.Duration, workers int, logger *slog.Logger) *OverdueMonitor {
	if workers <= 0 {
		workers = 1
	}
	if pollInterval <= 0 {
		pollInterval = time.Hour
	}
	return &OverdueMonitor{
		facade:       facade,
		pollInterval: pollInterval,
		workers:      workers,
		logger:       logger,
		now:          time.Now,
		jobs:         make(chan reminder, workers),
		reminded:     make(map[int64]time.Time),
	}
}

// Workers reports how many reminders may run at once.
func (m *OverdueMonitor) Workers() int {
	return m.workers
}

// PollInterval reports the delay between overdue scans.
func (m *OverdueMonitor) PollInterval() time.Duration {
	return m.pollInterval
}

// Start launches background polling.
func (m *OverdueMonitor) Start(ctx context.Context) {
	m.mu.Lock()
	defer m.mu.Unlock()

	runCtx, cancel := context.WithCancel(ctx)
	m.cancel = cancel

	for i := 0; i < m.workers; i++ {
		m.wg.Add(1)
		go m.worker(runCtx)
	}

	m.wg.Add(1)
	go m.dispatch(runCtx)
}

// Stop waits for all workers to finish.
func (m *OverdueMonitor) Stop() {
	m.mu.Lock()
	if m.cancel != nil {
		m.cancel()
		m.cancel = nil
	}
	m.mu.Unlock()

	m.wg.Wait()
}

func (m *OverdueMonitor) dispatch(ctx context.Context) {
	defer m.wg.Done()
	defer close(m.jobs)
	ticker := time.NewTicker(m.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.scan(ctx)
		}
	}
}

// scan groups overdue loans by order and queues one reminder per order.
func (m *OverdueMonitor) scan(ctx context.Context) {
	loans, err := m.facade.OverdueMaterials(ctx)
	if err != nil {
		m.logger.Error("fetch overdue material failed", slog.String("error", err.Error()))
		return
	}

	byOrder := make(map[int64][]model.MaterialLoan)
	for _, loan := range loans {
		byOrder[loan.OrderID] = append(byOrder[loan.OrderID], loan)
	}
	orderIDs := make([]int64, 0, len(byOrder))
	for id := range byOrder {
		orderIDs = append(orderIDs, id)
	}
	sort.Slice(orderIDs, func(i, j int) bool { return orderIDs[i] < orderIDs[j] })
	m.prune(byOrder)

	for _, id := range orderIDs {
		if !m.claim(id) {
			continue
		}
		select {
		case <-ctx.Done():
			m.release(id)
			return
		case m.jobs <- reminder{orderID: id, loans: byOrder[id]}:
		}
	}
}

// prune forgets orders that are no longer overdue or whose window has passed.
func (m *OverdueMonitor) prune(overdue map[int64][]model.MaterialLoan) {
	m.remindMu.Lock()
	defer m.remindMu.Unlock()
	now := m.now()
	for id, last := range m.reminded {
		if _, ok := overdue[id]; !ok || now.Sub(last) >= reminderWindow {
			delete(m.reminded, id)
		}
	}
}

// claim reserves the reminder slot of an order unless it was used within the window.
func (m *OverdueMonitor) claim(orderID int64) bool {
	m.remindMu.Lock()
	defer m.remindMu.Unlock()
	now := m.now()
	if last, ok := m.reminded[orderID]; ok && now.Sub(last) < reminderWindow {
		return false
	}
	m.reminded[orderID] = now
	return true
}

func (m *OverdueMonitor) release(orderID int64) {
	m.remindMu.Lock()
	defer m.remindMu.Unlock()
	delete(m.reminded, orderID)
}

func (m *OverdueMonitor) worker(ctx context.Context) {
	defer m.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case job, ok := <-m.jobs:
			if !ok {
				return
			}
			m.remind(ctx, job)
		}
	}
}

func (m *OverdueMonitor) remind(ctx context.Context, job reminder) {
	if err := m.facade.RemindOverdue(ctx, job.orderID, job.loans); err != nil {
		m.release(job.orderID)
		m.logger.Error("overdue reminder failed", slog.Int64("order_id", job.orderID), slog.String("error", err.Error()))
		return
	}
	m.logger.Info("overdue material reminder queued",
		slog.Int64("order_id", job.orderID),
		slog.Int("loans", len(job.loans)),
	)
}

package worker

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"github.com/polkiloo/catering/internal/domain/model"
	testhelpers "github.com/polkiloo/catering/internal/test"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

func waitFor(t *testing.T, timeout time.Duration, cond func() bool) {
	t.Helper()
	deadline := time.After(timeout)
	for !cond() {
		select {
		case <-deadline:
			t.Fatal("timeout waiting for condition")
		case <-time.After(5 * time.Millisecond):
		}
	}
}

func TestNewOverdueMonitorDefaults(t *testing.T) {
	monitor := NewOverdueMonitor(&testhelpers.MonitorFacadeStub{}, 0, 0, discardLogger())
	if monitor.workers != 1 {
		t.Fatalf("expected workers default to 1, got %d", monitor.workers)
	}
	if monitor.pollInterval != time.Hour {
		t.Fatalf("expected poll interval default to 1h, got %s", monitor.pollInterval)
	}
}

func TestOverdueMonitorRemindsOncePerOrder(t *testing.T) {
	facade := &testhelpers.MonitorFacadeStub{Batches: [][]model.MaterialLoan{{
		{ID: 1, OrderID: 10, MaterialName: "Chafing dish"},
		{ID: 2, OrderID: 10, MaterialName: "Tablecloth"},
		{ID: 3, OrderID: 11, MaterialName: "Urn"},
	}}}
	monitor := NewOverdueMonitor(facade, 5*time.Millisecond, 2, discardLogger())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	monitor.Start(ctx)

	waitFor(t, time.Second, func() bool {
		facade.Lock()
		defer facade.Unlock()
		return len(facade.Reminders) >= 2 && facade.Polls() >= 3
	})
	monitor.Stop()

	facade.Lock()
	defer facade.Unlock()
	if len(facade.Reminders) != 2 {
		t.Fatalf("expected one reminder per order across polls, got %+v", facade.Reminders)
	}
	for _, call := range facade.Reminders {
		switch call.OrderID {
		case 10:
			if len(call.Loans) != 2 {
				t.Fatalf("expected loans grouped by order, got %+v", call.Loans)
			}
		case 11:
			if len(call.Loans) != 1 {
				t.Fatalf("unexpected loans for order 11: %+v", call.Loans)
			}
		default:
			t.Fatalf("unexpected order %d", call.OrderID)
		}
	}
}

func TestOverdueMonitorRemindsAgainAfterWindow(t *testing.T) {
	monitor := NewOverdueMonitor(&testhelpers.MonitorFacadeStub{}, time.Hour, 1, discardLogger())
	now := time.Date(2026, time.May, 1, 9, 0, 0, 0, time.UTC)
	monitor.now = func() time.Time { return now }

	if !monitor.claim(10) {
		t.Fatal("first claim must succeed")
	}
	if monitor.claim(10) {
		t.Fatal("second claim within the window must be skipped")
	}
	now = now.Add(reminderWindow)
	if !monitor.claim(10) {
		t.Fatal("claim after the window must succeed")
	}
}

func TestOverdueMonitorForgetsSettledOrders(t *testing.T) {
	monitor := NewOverdueMonitor(&testhelpers.MonitorFacadeStub{}, time.Hour, 1, discardLogger())
	now := time.Date(2026, time.May, 1, 9, 0, 0, 0, time.UTC)
	monitor.now = func() time.Time { return now }

	for _, id := range []int64{10, 11, 12} {
		if !monitor.claim(id) {
			t.Fatalf("claim %d must succeed", id)
		}
	}

	// 11 had its material returned, 12 is still late
	monitor.prune(map[int64][]model.MaterialLoan{10: nil, 12: nil})
	if len(monitor.reminded) != 2 {
		t.Fatalf("expected settled order to be forgotten, got %v", monitor.reminded)
	}
	if _, ok := monitor.reminded[11]; ok {
		t.Fatal("order 11 must be dropped")
	}

	now = now.Add(reminderWindow)
	monitor.prune(map[int64][]model.MaterialLoan{10: nil, 12: nil})
	if len(monitor.reminded) != 0 {
		t.Fatalf("expired claims must be dropped, got %v", monitor.reminded)
	}
}

func TestOverdueMonitorRetriesFailedReminder(t *testing.T) {
	var attempts int32
	facade := &testhelpers.MonitorFacadeStub{
		Batches: [][]model.MaterialLoan{{{ID: 1, OrderID: 10}}},
		RemindFn: func(context.Context, int64, []model.MaterialLoan) error {
			if atomic.AddInt32(&attempts, 1) == 1 {
				return errors.New("broker down")
			}
			return nil
		},
	}
	monitor := NewOverdueMonitor(facade, 5*time.Millisecond, 1, discardLogger())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	monitor.Start(ctx)

	waitFor(t, time.Second, func() bool {
		facade.Lock()
		defer facade.Unlock()
		return len(facade.Reminders) > 0
	})
	monitor.Stop()

	if n := atomic.LoadInt32(&attempts); n < 2 {
		t.Fatalf("expected a retry after failure, got %d attempts", n)
	}
}

func TestOverdueMonitorSurvivesFetchErrors(t *testing.T) {
	var polls int32
	facade := &testhelpers.MonitorFacadeStub{
		OverdueFn: func(context.Context) ([]model.MaterialLoan, error) {
			atomic.AddInt32(&polls, 1)
			return nil, errors.New("db down")
		},
	}
	monitor := NewOverdueMonitor(facade, 5*time.Millisecond, 1, discardLogger())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	monitor.Start(ctx)

	waitFor(t, time.Second, func() bool { return atomic.LoadInt32(&polls) >= 2 })
	monitor.Stop()

	facade.Lock()
	defer facade.Unlock()
	if len(facade.Reminders) != 0 {
		t.Fatalf("no reminders expected, got %+v", facade.Reminders)
	}
}

func TestOverdueMonitorStopIsIdempotent(t *testing.T) {
	monitor := NewOverdueMonitor(&testhelpers.MonitorFacadeStub{}, time.Hour, 1, discardLogger())
	monitor.Start(context.Background())
	monitor.Stop()
	monitor.Stop()
}

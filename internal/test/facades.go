package test

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/polkiloo/catering/internal/domain/model"
)

// ReminderCall stores information about RemindOverdue invocations.
type ReminderCall struct {
	OrderID int64
	Loans   []model.MaterialLoan
}

// MonitorFacadeStub mimics worker interactions with the catering facade.
type MonitorFacadeStub struct {
	Batches   [][]model.MaterialLoan
	OverdueFn func(context.Context) ([]model.MaterialLoan, error)
	RemindFn  func(context.Context, int64, []model.MaterialLoan) error
	Reminders []ReminderCall
	mu        sync.Mutex
	calls     int32
}

// Lock exposes internal mutex for external synchronization.
func (s *MonitorFacadeStub) Lock() { s.mu.Lock() }

// Unlock releases previously acquired lock.
func (s *MonitorFacadeStub) Unlock() { s.mu.Unlock() }

// OverdueMaterials returns batches from configured queue, then repeats the last one.
func (s *MonitorFacadeStub) OverdueMaterials(ctx context.Context) ([]model.MaterialLoan, error) {
	if s.OverdueFn != nil {
		return s.OverdueFn(ctx)
	}
	call := int(atomic.AddInt32(&s.calls, 1))
	if len(s.Batches) == 0 {
		time.Sleep(10 * time.Millisecond)
		return nil, nil
	}
	if call > len(s.Batches) {
		call = len(s.Batches)
	}
	return s.Batches[call-1], nil
}

// Polls reports how many times OverdueMaterials ran.
func (s *MonitorFacadeStub) Polls() int {
	return int(atomic.LoadInt32(&s.calls))
}

// RemindOverdue records reminder requests.
func (s *MonitorFacadeStub) RemindOverdue(ctx context.Context, orderID int64, loans []model.MaterialLoan) error {
	if s.RemindFn != nil {
		if err := s.RemindFn(ctx, orderID, loans); err != nil {
			return err
		}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Reminders = append(s.Reminders, ReminderCall{OrderID: orderID, Loans: loans})
	return nil
}

package test

import (
	"context"
	"sync"

	"github.com/polkiloo/catering/internal/domain/model"
)

// ResolverStub returns a fixed distance or one computed by DistanceFn.
type ResolverStub struct {
	Km         float64
	DistanceFn func(context.Context, model.Address) float64

	mu    sync.Mutex
	Calls []model.Address
}

// DistanceKm records the address and returns the configured distance.
func (s *ResolverStub) DistanceKm(ctx context.Context, address model.Address) float64 {
	s.mu.Lock()
	s.Calls = append(s.Calls, address)
	s.mu.Unlock()
	if s.DistanceFn != nil {
		return s.DistanceFn(ctx, address)
	}
	return s.Km
}

// Notification is one message captured by SenderStub.
type Notification struct {
	Kind      model.NotificationKind
	Recipient string
	Payload   map[string]any
}

// SenderStub captures notifications and optionally fails them.
type SenderStub struct {
	Err error

	mu   sync.Mutex
	Sent []Notification
}

// Notify records the message, then returns Err.
func (s *SenderStub) Notify(ctx context.Context, kind model.NotificationKind, recipient string, payload map[string]any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	s.Sent = append(s.Sent, Notification{Kind: kind, Recipient: recipient, Payload: payload})
	return nil
}

// Kinds returns the kinds of delivered notifications in order.
func (s *SenderStub) Kinds() []model.NotificationKind {
	s.mu.Lock()
	defer s.mu.Unlock()
	kinds := make([]model.NotificationKind, 0, len(s.Sent))
	for _, n := range s.Sent {
		kinds = append(kinds, n.Kind)
	}
	return kinds
}

// ProjectionStoreStub keeps projections keyed by order id.
type ProjectionStoreStub struct {
	Err error

	mu          sync.Mutex
	Projections map[int64]model.AnalyticsProjection
	Attempts    int
}

// Upsert stores the projection unless Err is set.
func (s *ProjectionStoreStub) Upsert(ctx context.Context, projection model.AnalyticsProjection) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Attempts++
	if s.Err != nil {
		return s.Err
	}
	if s.Projections == nil {
		s.Projections = make(map[int64]model.AnalyticsProjection)
	}
	s.Projections[projection.OrderID] = projection
	return nil
}

// Get returns the stored projection of an order.
func (s *ProjectionStoreStub) Get(orderID int64) (model.AnalyticsProjection, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.Projections[orderID]
	return p, ok
}

// RecorderStub counts metric events.
type RecorderStub struct {
	mu          sync.Mutex
	Created     int
	Transitions []model.OrderStatus
	Failures    map[string]int
}

// OrderCreated counts a created order.
func (s *RecorderStub) OrderCreated() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Created++
}

// StatusChanged records a transition target.
func (s *RecorderStub) StatusChanged(status model.OrderStatus) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Transitions = append(s.Transitions, status)
}

// SideEffectFailed counts a failed side effect by kind.
func (s *RecorderStub) SideEffectFailed(kind string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Failures == nil {
		s.Failures = make(map[string]int)
	}
	s.Failures[kind]++
}

// FailureCount returns failures recorded for kind.
func (s *RecorderStub) FailureCount(kind string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.Failures[kind]
}

// HealthCheckerStub reports a configurable database health.
type HealthCheckerStub struct {
	Err error
}

// HealthCheck returns Err.
func (s HealthCheckerStub) HealthCheck(context.Context) error {
	return s.Err
}

package repository

import (
	"context"
	"time"

	"github.com/polkiloo/catering/internal/domain/model"
)

// NewOrder carries everything persisted when an order is placed.
type NewOrder struct {
	Order *model.Order
	// Loans are lent in the same transaction as the order insert.
	Loans []model.LoanItem
}

// StatusChange describes one status transition to persist.
type StatusChange struct {
	OrderID      int64
	Status       model.OrderStatus
	ActorID      int64
	Comment      *string
	Cancellation *model.Cancellation
	// From, when set, is the status the order must still hold under the row lock.
	From model.OrderStatus
}

// OrderRepository describes persistence operations with orders.
type OrderRepository interface {
	Create(ctx context.Context, order NewOrder) (*model.Order, error)
	FindByID(ctx context.Context, id int64) (*model.Order, error)
	FindAllByCustomer(ctx context.Context, customerID int64) ([]model.Order, error)
	FindByFilters(ctx context.Context, filter model.OrderFilter) ([]model.Order, error)
	Update(ctx context.Context, order *model.Order) error
	UpdateStatus(ctx context.Context, change StatusChange) error
	SetMaterial(ctx context.Context, orderID int64, serviceDate time.Time, items []model.LoanItem) error
	ReturnMaterial(ctx context.Context, orderID int64) (int, error)
	GetTimeline(ctx context.Context, orderID int64) ([]model.OrderStatusEvent, error)
	GetMaterials(ctx context.Context, orderID int64) ([]model.MaterialLoan, error)
	FindOverdueMaterials(ctx context.Context, now time.Time) ([]model.MaterialLoan, error)
}

package usecase

import (
	"context"
	"log/slog"
	"time"

	"github.com/polkiloo/catering/internal/adapter/notify"
	"github.com/polkiloo/catering/internal/domain/model"
	"github.com/polkiloo/catering/internal/domain/repository"
)

const notifyTimeout = 5 * time.Second

// Recorder counts business events. *metrics.Metrics satisfies it.
type Recorder interface {
	OrderCreated()
	StatusChanged(status model.OrderStatus)
	SideEffectFailed(kind string)
}

type nopRecorder struct{}

func (nopRecorder) OrderCreated()                   {}
func (nopRecorder) StatusChanged(model.OrderStatus) {}
func (nopRecorder) SideEffectFailed(string)         {}

// SideEffects runs the post-commit work of a mutation: projection sync and
// customer notifications. Failures are logged and never returned.
type SideEffects struct {
	customers repository.CustomerRepository
	sender    notify.Sender
	sync      *ProjectionSync
	recorder  Recorder
	logger    *slog.Logger
}

// NewSideEffects constructs SideEffects.
func NewSideEffects(customers repository.CustomerRepository, sender notify.Sender, sync *ProjectionSync, recorder Recorder, logger *slog.Logger) *SideEffects {
	if recorder == nil {
		recorder = nopRecorder{}
	}
	return &SideEffects{customers: customers, sender: sender, sync: sync, recorder: recorder, logger: logger}
}

// Sync refreshes the analytics projection of an order.
func (e *SideEffects) Sync(ctx context.Context, orderID int64) {
	e.sync.Sync(ctx, orderID)
}

// Notify sends a notification of the given kind to the order's customer.
func (e *SideEffects) Notify(ctx context.Context, order *model.Order, kind model.NotificationKind) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), notifyTimeout)
	defer cancel()

	customer, err := e.customers.FindByID(ctx, order.CustomerID)
	if err != nil {
		e.failed(ctx, order.ID, string(kind), err)
		return
	}

	payload := map[string]any{
		"order_id":     order.ID,
		"status":       string(order.Status),
		"service_date": order.ServiceDate.Format(time.DateOnly),
		"total":        order.Price.Total,
		"first_name":   customer.FirstName,
		"phone":        customer.Phone,
	}
	if err := e.sender.Notify(ctx, kind, customer.Email, payload); err != nil {
		e.failed(ctx, order.ID, string(kind), err)
	}
}

// NotifyMaterialOverdue reminds a customer that lent material is late.
func (e *SideEffects) NotifyMaterialOverdue(ctx context.Context, orderID int64, customerID int64, loans []model.MaterialLoan) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), notifyTimeout)
	defer cancel()

	kind := model.NotificationMaterialOverdue
	customer, err := e.customers.FindByID(ctx, customerID)
	if err != nil {
		e.failed(ctx, orderID, string(kind), err)
		return
	}

	items := make([]map[string]any, 0, len(loans))
	for _, loan := range loans {
		items = append(items, map[string]any{
			"material":           loan.MaterialName,
			"quantity":           loan.Quantity,
			"expected_return_at": loan.ExpectedReturnAt.Format(time.DateOnly),
		})
	}
	payload := map[string]any{
		"order_id":   orderID,
		"first_name": customer.FirstName,
		"materials":  items,
	}
	if err := e.sender.Notify(ctx, kind, customer.Email, payload); err != nil {
		e.failed(ctx, orderID, string(kind), err)
	}
}

func (e *SideEffects) failed(ctx context.Context, orderID int64, kind string, err error) {
	e.recorder.SideEffectFailed(kind)
	e.logger.WarnContext(ctx, "side effect failed",
		slog.Int64("order_id", orderID),
		slog.String("kind", kind),
		slog.String("error", err.Error()),
	)
}

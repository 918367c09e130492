package usecase

import (
	"context"
	"log/slog"

	domainErrors "github.com/polkiloo/catering/internal/domain/errors"
	"github.com/polkiloo/catering/internal/domain/model"
	"github.com/polkiloo/catering/internal/domain/repository"
)

// MaterialUseCase lends equipment to orders and takes it back.
type MaterialUseCase struct {
	orders    repository.OrderRepository
	materials repository.MaterialRepository
	lifecycle *OrderUseCase
	effects   *SideEffects
	logger    *slog.Logger
}

// NewMaterialUseCase constructs MaterialUseCase.
func NewMaterialUseCase(orders repository.OrderRepository, materials repository.MaterialRepository, lifecycle *OrderUseCase, effects *SideEffects, logger *slog.Logger) *MaterialUseCase {
	return &MaterialUseCase{orders: orders, materials: materials, lifecycle: lifecycle, effects: effects, logger: logger}
}

// LoanMaterial lends a batch of material to an order. The batch is all-or-nothing.
func (u *MaterialUseCase) LoanMaterial(ctx context.Context, actor model.Identity, orderID int64, items []model.LoanItem) ([]model.MaterialLoan, error) {
	if !actor.IsOperator() {
		return nil, domainErrors.ErrForbidden
	}
	if err := validateLoanItems(items); err != nil {
		return nil, err
	}

	order, err := u.orders.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.Status.Terminal() {
		return nil, domainErrors.ErrOrderClosed
	}

	requested := make(map[int64]int, len(items))
	for _, item := range items {
		requested[item.MaterialID] += item.Quantity
	}
	// Early rejection only; the stock floor inside the transaction is authoritative.
	for id, qty := range requested {
		material, err := u.materials.FindByID(ctx, id)
		if err != nil {
			return nil, err
		}
		if material.Stock < qty {
			return nil, domainErrors.ErrInsufficientStock
		}
	}

	if err := u.orders.SetMaterial(ctx, orderID, order.ServiceDate, items); err != nil {
		return nil, err
	}
	u.logger.InfoContext(ctx, "material loaned",
		slog.Int64("order_id", orderID),
		slog.Int("items", len(items)),
	)
	u.effects.Sync(ctx, orderID)

	return u.orders.GetMaterials(ctx, orderID)
}

// ReturnMaterial checks every outstanding loan of the order back in and, when the
// order is delivered or waiting for the material, closes it.
func (u *MaterialUseCase) ReturnMaterial(ctx context.Context, actor model.Identity, orderID int64) (*model.Order, int, error) {
	if !actor.IsOperator() {
		return nil, 0, domainErrors.ErrForbidden
	}

	returned, err := u.orders.ReturnMaterial(ctx, orderID)
	if err != nil {
		return nil, 0, err
	}

	order, err := u.orders.FindByID(ctx, orderID)
	if err != nil {
		return nil, returned, err
	}
	u.logger.InfoContext(ctx, "material returned",
		slog.Int64("order_id", orderID),
		slog.Int("loans", returned),
	)

	switch order.Status {
	case model.OrderStatusDelivered, model.OrderStatusAwaitingMaterialReturn:
		order, err = u.lifecycle.transition(ctx, actor, order,
			ChangeStatusInput{Status: model.OrderStatusCompleted}, model.NotificationThankYou)
		if err != nil {
			return nil, returned, err
		}
	default:
		if returned > 0 {
			u.effects.Sync(ctx, orderID)
		}
	}
	return order, returned, nil
}

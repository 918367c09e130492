package usecase

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"go.uber.org/fx"
	"golang.org/x/sync/errgroup"

	"github.com/polkiloo/catering/internal/adapter/geo"
	domainErrors "github.com/polkiloo/catering/internal/domain/errors"
	"github.com/polkiloo/catering/internal/domain/model"
	"github.com/polkiloo/catering/internal/domain/repository"
	"github.com/polkiloo/catering/internal/pricing"
)

// OrderDeps lists the collaborators of OrderUseCase.
type OrderDeps struct {
	fx.In

	Orders    repository.OrderRepository
	Menus     repository.MenuRepository
	Customers repository.CustomerRepository
	Resolver  geo.Resolver
	Effects   *SideEffects
	Recorder  Recorder `optional:"true"`
	Logger    *slog.Logger
}

// OrderUseCase encapsulates order lifecycle logic.
type OrderUseCase struct {
	orders    repository.OrderRepository
	menus     repository.MenuRepository
	customers repository.CustomerRepository
	resolver  geo.Resolver
	effects   *SideEffects
	recorder  Recorder
	logger    *slog.Logger
	now       func() time.Time
}

// NewOrderUseCase constructs OrderUseCase.
func NewOrderUseCase(d OrderDeps) *OrderUseCase {
	recorder := d.Recorder
	if recorder == nil {
		recorder = nopRecorder{}
	}
	return &OrderUseCase{
		orders:    d.Orders,
		menus:     d.Menus,
		customers: d.Customers,
		resolver:  d.Resolver,
		effects:   d.Effects,
		recorder:  recorder,
		logger:    d.Logger,
		now:       time.Now,
	}
}

// Quote prices a prospective order without persisting anything.
func (u *OrderUseCase) Quote(ctx context.Context, in QuoteInput) (model.PriceBreakdown, error) {
	if in.MenuID <= 0 {
		return model.PriceBreakdown{}, domainErrors.Validation("menu is required")
	}
	if in.GuestCount <= 0 {
		return model.PriceBreakdown{}, domainErrors.ErrInvalidQuantity
	}
	menu, err := u.menus.FindByID(ctx, in.MenuID)
	if err != nil {
		return model.PriceBreakdown{}, err
	}
	return u.price(ctx, menu, in.GuestCount, in.Address)
}

// Create places a new order, lends the menu's bound material and reserves one unit of menu stock.
func (u *OrderUseCase) Create(ctx context.Context, actor model.Identity, in CreateOrderInput) (*model.Order, error) {
	if err := in.validate(u.now()); err != nil {
		return nil, err
	}

	menu, err := u.menus.FindByID(ctx, in.MenuID)
	if err != nil {
		return nil, err
	}
	if menu.Stock < 1 {
		return nil, domainErrors.ErrMenuOutOfStock
	}

	price, err := u.price(ctx, menu, in.GuestCount, in.Address)
	if err != nil {
		return nil, err
	}

	loans := make([]model.LoanItem, 0, len(menu.Materials))
	for _, m := range menu.Materials {
		if m.Quantity > 0 {
			loans = append(loans, model.LoanItem{MaterialID: m.MaterialID, Quantity: m.Quantity})
		}
	}

	order, err := u.orders.Create(ctx, repository.NewOrder{
		Order: &model.Order{
			CustomerID:  actor.UserID,
			MenuID:      menu.ID,
			ServiceDate: in.ServiceDate,
			Address:     in.Address,
			GuestCount:  in.GuestCount,
			Price:       price,
			Status:      model.OrderStatusPending,
		},
		Loans: loans,
	})
	if err != nil {
		return nil, err
	}

	u.recorder.OrderCreated()
	u.logger.InfoContext(ctx, "order created",
		slog.Int64("order_id", order.ID),
		slog.Int64("customer_id", order.CustomerID),
		slog.Float64("total", order.Price.Total),
	)
	u.effects.Sync(ctx, order.ID)
	u.effects.Notify(ctx, order, model.NotificationOrderConfirmed)
	return order, nil
}

// Edit applies customer changes to a pending order, repricing it when the guest count or location changes.
func (u *OrderUseCase) Edit(ctx context.Context, actor model.Identity, orderID int64, in EditOrderInput) (*model.Order, error) {
	order, err := u.orders.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if !order.OwnedBy(actor.UserID) {
		return nil, domainErrors.ErrForbidden
	}
	if !order.Status.Editable() {
		return nil, domainErrors.ErrOrderLocked
	}
	if in.MenuID != nil && *in.MenuID != order.MenuID {
		return nil, domainErrors.ErrMenuImmutable
	}

	reprice := false
	if in.ServiceDate != nil {
		if !in.ServiceDate.After(u.now()) {
			return nil, domainErrors.Validation("service date must be in the future")
		}
		order.ServiceDate = *in.ServiceDate
	}
	if in.GuestCount != nil {
		if *in.GuestCount <= 0 {
			return nil, domainErrors.ErrInvalidQuantity
		}
		reprice = reprice || *in.GuestCount != order.GuestCount
		order.GuestCount = *in.GuestCount
	}
	if in.Address != nil {
		if err := validateAddress(*in.Address); err != nil {
			return nil, err
		}
		reprice = reprice || locationChanged(order.Address, *in.Address)
		order.Address = *in.Address
	}

	if reprice {
		menu, err := u.menus.FindByID(ctx, order.MenuID)
		if err != nil {
			return nil, err
		}
		price, err := u.price(ctx, menu, order.GuestCount, order.Address)
		if err != nil {
			return nil, err
		}
		order.Price = price
	}

	if err := u.orders.Update(ctx, order); err != nil {
		return nil, err
	}

	u.effects.Sync(ctx, order.ID)
	return order, nil
}

// ChangeStatus moves an order along its lifecycle on behalf of actor.
func (u *OrderUseCase) ChangeStatus(ctx context.Context, actor model.Identity, orderID int64, in ChangeStatusInput) (*model.Order, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	order, err := u.orders.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if !actor.IsOperator() {
		// customers may only cancel their own pending order
		if !order.OwnedBy(actor.UserID) || in.Status != model.OrderStatusCancelled || order.Status != model.OrderStatusPending {
			return nil, domainErrors.ErrForbidden
		}
	}
	if !order.Status.CanTransitionTo(in.Status) {
		return nil, domainErrors.ErrInvalidTransition
	}

	return u.transition(ctx, actor, order, in, model.NotificationReviewInvitation)
}

// transition persists a checked status change and runs its side effects.
// completion is the notification sent when the order reaches COMPLETED.
func (u *OrderUseCase) transition(ctx context.Context, actor model.Identity, order *model.Order, in ChangeStatusInput, completion model.NotificationKind) (*model.Order, error) {
	change := repository.StatusChange{
		OrderID: order.ID,
		Status:  in.Status,
		ActorID: actor.UserID,
		Comment: in.Comment,
	}
	if !actor.IsOperator() {
		change.From = order.Status
	}
	if in.Status == model.OrderStatusCancelled {
		change.Cancellation = in.Cancellation
	}
	if err := u.orders.UpdateStatus(ctx, change); err != nil {
		return nil, err
	}

	previous := order.Status
	order.Status = in.Status
	u.recorder.StatusChanged(in.Status)
	u.logger.InfoContext(ctx, "order status changed",
		slog.Int64("order_id", order.ID),
		slog.String("from", string(previous)),
		slog.String("to", string(in.Status)),
		slog.Int64("actor_id", actor.UserID),
	)

	u.effects.Sync(ctx, order.ID)
	switch in.Status {
	case model.OrderStatusAwaitingMaterialReturn:
		u.effects.Notify(ctx, order, model.NotificationMaterialReturnPending)
	case model.OrderStatusCompleted:
		u.effects.Notify(ctx, order, completion)
	case model.OrderStatusCancelled:
		u.effects.Notify(ctx, order, model.NotificationOrderCancelled)
	}
	return order, nil
}

// Get returns the order with its timeline, loaned material and customer contact.
func (u *OrderUseCase) Get(ctx context.Context, actor model.Identity, orderID int64) (*model.OrderDetail, error) {
	order, err := u.orders.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if !actor.IsOperator() && !order.OwnedBy(actor.UserID) {
		return nil, domainErrors.ErrForbidden
	}

	detail := &model.OrderDetail{Order: *order}
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		timeline, err := u.orders.GetTimeline(gctx, orderID)
		detail.Timeline = timeline
		return err
	})
	g.Go(func() error {
		materials, err := u.orders.GetMaterials(gctx, orderID)
		detail.Materials = materials
		return err
	})
	g.Go(func() error {
		customer, err := u.customers.FindByID(gctx, order.CustomerID)
		if errors.Is(err, domainErrors.ErrNotFound) {
			return nil
		}
		detail.Customer = customer
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return detail, nil
}

// ListMine returns the caller's orders, newest first.
func (u *OrderUseCase) ListMine(ctx context.Context, actor model.Identity) ([]model.Order, error) {
	return u.orders.FindAllByCustomer(ctx, actor.UserID)
}

// Search lists orders matching filter. Operators only.
func (u *OrderUseCase) Search(ctx context.Context, actor model.Identity, filter model.OrderFilter) ([]model.Order, error) {
	if !actor.IsOperator() {
		return nil, domainErrors.ErrForbidden
	}
	if filter.Status != "" && !filter.Status.Valid() {
		return nil, domainErrors.ErrInvalidStatus
	}
	return u.orders.FindByFilters(ctx, filter)
}

// ReviewEligibility reports whether the order may receive a customer review.
func (u *OrderUseCase) ReviewEligibility(ctx context.Context, actor model.Identity, orderID int64) (bool, error) {
	order, err := u.orders.FindByID(ctx, orderID)
	if err != nil {
		return false, err
	}
	if !actor.IsOperator() && !order.OwnedBy(actor.UserID) {
		return false, domainErrors.ErrForbidden
	}
	return order.Status == model.OrderStatusCompleted && !order.HasReview, nil
}

// OverdueMaterials lists outstanding loans past their expected return.
func (u *OrderUseCase) OverdueMaterials(ctx context.Context) ([]model.MaterialLoan, error) {
	return u.orders.FindOverdueMaterials(ctx, u.now())
}

// RemindOverdue notifies the order's customer about late material.
func (u *OrderUseCase) RemindOverdue(ctx context.Context, orderID int64, loans []model.MaterialLoan) error {
	order, err := u.orders.FindByID(ctx, orderID)
	if err != nil {
		return err
	}
	u.effects.NotifyMaterialOverdue(ctx, order.ID, order.CustomerID, loans)
	return nil
}

func (u *OrderUseCase) price(ctx context.Context, menu *model.Menu, guests int, address model.Address) (model.PriceBreakdown, error) {
	distance := u.resolver.DistanceKm(ctx, address)
	return pricing.Quote(pricing.Input{
		UnitPrice:  menu.UnitPrice,
		MinGuests:  menu.MinGuests,
		GuestCount: guests,
		DistanceKm: distance,
	})
}

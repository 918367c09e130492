package app

import (
	"context"

	"github.com/polkiloo/catering/internal/domain/model"
	pkgAuth "github.com/polkiloo/catering/internal/pkg/auth"
	"github.com/polkiloo/catering/internal/usecase"
)

// HealthChecker reports whether the primary store is reachable.
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

// CateringFacade is the single entry point of transport and worker layers.
type CateringFacade struct {
	orders     *usecase.OrderUseCase
	materials  *usecase.MaterialUseCase
	projection *usecase.ProjectionSync
	tokens     pkgAuth.Strategy
	health     HealthChecker
}

func NewCateringFacade(orders *usecase.OrderUseCase, materials *usecase.MaterialUseCase, projection *usecase.ProjectionSync, tokens pkgAuth.Strategy, health HealthChecker) *CateringFacade {
	return &CateringFacade{orders: orders, materials: materials, projection: projection, tokens: tokens, health: health}
}

func (f *CateringFacade) ParseToken(token string) (model.Identity, error) {
	return f.tokens.ParseToken(token)
}

func (f *CateringFacade) Quote(ctx context.Context, in usecase.QuoteInput) (model.PriceBreakdown, error) {
	return f.orders.Quote(ctx, in)
}

func (f *CateringFacade) CreateOrder(ctx context.Context, actor model.Identity, in usecase.CreateOrderInput) (*model.Order, error) {
	return f.orders.Create(ctx, actor, in)
}

func (f *CateringFacade) EditOrder(ctx context.Context, actor model.Identity, orderID int64, in usecase.EditOrderInput) (*model.Order, error) {
	return f.orders.Edit(ctx, actor, orderID, in)
}

func (f *CateringFacade) ChangeStatus(ctx context.Context, actor model.Identity, orderID int64, in usecase.ChangeStatusInput) (*model.Order, error) {
	return f.orders.ChangeStatus(ctx, actor, orderID, in)
}

func (f *CateringFacade) Order(ctx context.Context, actor model.Identity, orderID int64) (*model.OrderDetail, error) {
	return f.orders.Get(ctx, actor, orderID)
}

func (f *CateringFacade) MyOrders(ctx context.Context, actor model.Identity) ([]model.Order, error) {
	return f.orders.ListMine(ctx, actor)
}

func (f *CateringFacade) SearchOrders(ctx context.Context, actor model.Identity, filter model.OrderFilter) ([]model.Order, error) {
	return f.orders.Search(ctx, actor, filter)
}

func (f *CateringFacade) ReviewEligibility(ctx context.Context, actor model.Identity, orderID int64) (bool, error) {
	return f.orders.ReviewEligibility(ctx, actor, orderID)
}

func (f *CateringFacade) LoanMaterial(ctx context.Context, actor model.Identity, orderID int64, items []model.LoanItem) ([]model.MaterialLoan, error) {
	return f.materials.LoanMaterial(ctx, actor, orderID, items)
}

func (f *CateringFacade) ReturnMaterial(ctx context.Context, actor model.Identity, orderID int64) (*model.Order, int, error) {
	return f.materials.ReturnMaterial(ctx, actor, orderID)
}

func (f *CateringFacade) OverdueMaterials(ctx context.Context) ([]model.MaterialLoan, error) {
	return f.orders.OverdueMaterials(ctx)
}

func (f *CateringFacade) RemindOverdue(ctx context.Context, orderID int64, loans []model.MaterialLoan) error {
	return f.orders.RemindOverdue(ctx, orderID, loans)
}

func (f *CateringFacade) RebuildAnalytics(ctx context.Context) (usecase.RebuildResult, error) {
	return f.projection.Rebuild(ctx)
}

func (f *CateringFacade) Health(ctx context.Context) error {
	return f.health.HealthCheck(ctx)
}

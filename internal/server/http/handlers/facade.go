package handlers

import (
	"context"

	"github.com/polkiloo/catering/internal/domain/model"
	"github.com/polkiloo/catering/internal/usecase"
)

// TokenFacade parses bearer tokens for the auth middleware.
type TokenFacade interface {
	ParseToken(token string) (model.Identity, error)
}

// OrderFacade encapsulates order operations exposed via HTTP.
type OrderFacade interface {
	Quote(ctx context.Context, in usecase.QuoteInput) (model.PriceBreakdown, error)
	CreateOrder(ctx context.Context, actor model.Identity, in usecase.CreateOrderInput) (*model.Order, error)
	EditOrder(ctx context.Context, actor model.Identity, orderID int64, in usecase.EditOrderInput) (*model.Order, error)
	ChangeStatus(ctx context.Context, actor model.Identity, orderID int64, in usecase.ChangeStatusInput) (*model.Order, error)
	Order(ctx context.Context, actor model.Identity, orderID int64) (*model.OrderDetail, error)
	MyOrders(ctx context.Context, actor model.Identity) ([]model.Order, error)
	ReviewEligibility(ctx context.Context, actor model.Identity, orderID int64) (bool, error)
}

// AdminFacade provides operator-only operations.
type AdminFacade interface {
	SearchOrders(ctx context.Context, actor model.Identity, filter model.OrderFilter) ([]model.Order, error)
	LoanMaterial(ctx context.Context, actor model.Identity, orderID int64, items []model.LoanItem) ([]model.MaterialLoan, error)
	ReturnMaterial(ctx context.Context, actor model.Identity, orderID int64) (*model.Order, int, error)
	OverdueMaterials(ctx context.Context) ([]model.MaterialLoan, error)
	RebuildAnalytics(ctx context.Context) (usecase.RebuildResult, error)
}

// HealthFacade reports service readiness.
type HealthFacade interface {
	Health(ctx context.Context) error
}

// CateringFacade aggregates the full set of operations used across handlers.
type CateringFacade interface {
	TokenFacade
	OrderFacade
	AdminFacade
	HealthFacade
}

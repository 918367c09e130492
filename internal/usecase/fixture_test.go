package usecase

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/polkiloo/catering/internal/domain/model"
	"github.com/polkiloo/catering/internal/test"
)

var (
	fixedNow    = time.Date(2026, time.March, 1, 10, 0, 0, 0, time.UTC)
	serviceDate = fixedNow.Add(7 * 24 * time.Hour)

	customer = model.Identity{UserID: 7, Role: model.RoleCustomer}
	stranger = model.Identity{UserID: 8, Role: model.RoleCustomer}
	operator = model.Identity{UserID: 100, Role: model.RoleEmployee}

	homeAddress = model.Address{Street: "12 Rue Sainte-Catherine", City: "Bordeaux", PostalCode: "33000", Phone: "+33556000000"}
)

const (
	menuBuffet   int64 = 1
	menuPicnic   int64 = 2
	chafingDish  int64 = 10
	tablecloth   int64 = 11
	customerMail       = "ana@example.com"
)

type fixture struct {
	orders    *test.OrderRepositoryStub
	menus     *test.MenuRepositoryStub
	materials *test.MaterialRepositoryStub
	customers *test.CustomerRepositoryStub
	resolver  *test.ResolverStub
	sender    *test.SenderStub
	store     *test.ProjectionStoreStub
	recorder  *test.RecorderStub

	sync       *ProjectionSync
	effects    *SideEffects
	orderUC    *OrderUseCase
	materialUC *MaterialUseCase
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	orders := test.NewOrderRepositoryStub()
	orders.Now = func() time.Time { return fixedNow }
	orders.MenuStock[menuBuffet] = 3
	orders.MenuStock[menuPicnic] = 1
	orders.MaterialStock[chafingDish] = 20
	orders.MaterialStock[tablecloth] = 5
	orders.MaterialNames[chafingDish] = "Chafing dish"
	orders.MaterialNames[tablecloth] = "Tablecloth"

	f := &fixture{
		orders: orders,
		menus: &test.MenuRepositoryStub{Menus: map[int64]*model.Menu{
			menuBuffet: {ID: menuBuffet, Title: "Buffet", UnitPrice: 100, MinGuests: 5, Stock: 3,
				Materials: []model.MenuMaterial{{MaterialID: chafingDish, Quantity: 2}}},
			menuPicnic: {ID: menuPicnic, Title: "Picnic", UnitPrice: 50, MinGuests: 1, Stock: 1},
		}},
		materials: &test.MaterialRepositoryStub{Orders: orders},
		customers: &test.CustomerRepositoryStub{Customers: map[int64]*model.Customer{
			customer.UserID: {ID: customer.UserID, Email: customerMail, FirstName: "Ana", LastName: "Lopez", Phone: "+33556000000"},
			stranger.UserID: {ID: stranger.UserID, Email: "bob@example.com", FirstName: "Bob"},
		}},
		resolver: &test.ResolverStub{},
		sender:   &test.SenderStub{},
		store:    &test.ProjectionStoreStub{},
		recorder: &test.RecorderStub{},
	}

	f.sync = NewProjectionSync(f.orders, f.store, f.recorder, logger, time.Second, 2)
	f.sync.now = func() time.Time { return fixedNow }
	f.effects = NewSideEffects(f.customers, f.sender, f.sync, f.recorder, logger)
	f.orderUC = NewOrderUseCase(OrderDeps{
		Orders:    f.orders,
		Menus:     f.menus,
		Customers: f.customers,
		Resolver:  f.resolver,
		Effects:   f.effects,
		Recorder:  f.recorder,
		Logger:    logger,
	})
	f.orderUC.now = func() time.Time { return fixedNow }
	f.materialUC = NewMaterialUseCase(f.orders, f.materials, f.orderUC, f.effects, logger)
	return f
}

func (f *fixture) create(t *testing.T, guests int) *model.Order {
	t.Helper()
	order, err := f.orderUC.Create(context.Background(), customer, CreateOrderInput{
		MenuID:      menuBuffet,
		ServiceDate: serviceDate,
		GuestCount:  guests,
		Address:     homeAddress,
	})
	if err != nil {
		t.Fatalf("create order: %v", err)
	}
	return order
}

// advance drives the order through operator transitions.
func (f *fixture) advance(t *testing.T, orderID int64, statuses ...model.OrderStatus) {
	t.Helper()
	for _, status := range statuses {
		if _, err := f.orderUC.ChangeStatus(context.Background(), operator, orderID, ChangeStatusInput{Status: status}); err != nil {
			t.Fatalf("change status to %s: %v", status, err)
		}
	}
}

func containsKind(kinds []model.NotificationKind, kind model.NotificationKind) bool {
	for _, k := range kinds {
		if k == kind {
			return true
		}
	}
	return false
}

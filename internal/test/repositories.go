package test

import (
	"context"
	"sort"
	"sync"
	"time"

	domainErrors "github.com/polkiloo/catering/internal/domain/errors"
	"github.com/polkiloo/catering/internal/domain/model"
	"github.com/polkiloo/catering/internal/domain/repository"
)

// OrderRepositoryStub keeps orders, timelines, loans and stock in memory and
// mirrors the transactional rules of the PostgreSQL repository.
// Err fields inject failures; a failing call leaves the state untouched.
type OrderRepositoryStub struct {
	mu sync.Mutex

	Orders        map[int64]*model.Order
	Events        map[int64][]model.OrderStatusEvent
	Loans         map[int64][]model.MaterialLoan
	MenuStock     map[int64]int
	MaterialStock map[int64]int
	MaterialNames map[int64]string
	Now           func() time.Time

	CreateErr       error
	FindErr         error
	UpdateErr       error
	UpdateStatusErr error
	SetMaterialErr  error
	ReturnErr       error
	OverdueFn       func(context.Context, time.Time) ([]model.MaterialLoan, error)

	StatusChanges []repository.StatusChange
	OverdueAt     []time.Time

	nextOrder int64
	nextEvent int64
	nextLoan  int64
}

// NewOrderRepositoryStub constructs stub repository with initialized maps.
func NewOrderRepositoryStub() *OrderRepositoryStub {
	return &OrderRepositoryStub{
		Orders:        make(map[int64]*model.Order),
		Events:        make(map[int64][]model.OrderStatusEvent),
		Loans:         make(map[int64][]model.MaterialLoan),
		MenuStock:     make(map[int64]int),
		MaterialStock: make(map[int64]int),
		MaterialNames: make(map[int64]string),
	}
}

// Put stores a copy of order as if it had been created earlier.
func (s *OrderRepositoryStub) Put(order model.Order) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if order.ID > s.nextOrder {
		s.nextOrder = order.ID
	}
	s.Orders[order.ID] = &order
}

// Order returns a copy of the stored order.
func (s *OrderRepositoryStub) Order(id int64) (model.Order, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	o, ok := s.Orders[id]
	if !ok {
		return model.Order{}, false
	}
	return *o, true
}

func (s *OrderRepositoryStub) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// Create inserts a PENDING order, its first event and the requested loans.
func (s *OrderRepositoryStub) Create(ctx context.Context, in repository.NewOrder) (*model.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.CreateErr != nil {
		return nil, s.CreateErr
	}
	if in.Order == nil {
		return nil, domainErrors.Validation("order is required")
	}
	if s.MenuStock[in.Order.MenuID] < 1 {
		return nil, domainErrors.ErrMenuOutOfStock
	}
	if err := s.checkStock(in.Loans); err != nil {
		return nil, err
	}

	now := s.now()
	s.nextOrder++
	order := *in.Order
	order.ID = s.nextOrder
	order.Status = model.OrderStatusPending
	order.MaterialReady = len(in.Loans) > 0
	order.CreatedAt = now
	order.UpdatedAt = now

	s.MenuStock[order.MenuID]--
	s.Orders[order.ID] = &order
	s.appendEvent(order.ID, model.OrderStatusPending, order.CustomerID, nil, nil, now)
	s.lend(order.ID, model.ExpectedReturn(order.ServiceDate, now), in.Loans, now)

	created := order
	return &created, nil
}

// FindByID returns a copy of the order or ErrOrderNotFound.
func (s *OrderRepositoryStub) FindByID(ctx context.Context, id int64) (*model.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FindErr != nil {
		return nil, s.FindErr
	}
	o, ok := s.Orders[id]
	if !ok {
		return nil, domainErrors.ErrOrderNotFound
	}
	order := *o
	return &order, nil
}

// FindAllByCustomer returns the customer's orders newest first.
func (s *OrderRepositoryStub) FindAllByCustomer(ctx context.Context, customerID int64) ([]model.Order, error) {
	orders, err := s.FindByFilters(ctx, model.OrderFilter{CustomerID: customerID})
	if err != nil {
		return nil, err
	}
	sort.SliceStable(orders, func(i, j int) bool { return orders[i].ID > orders[j].ID })
	return orders, nil
}

// FindByFilters returns matching orders by service date then id.
func (s *OrderRepositoryStub) FindByFilters(ctx context.Context, filter model.OrderFilter) ([]model.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FindErr != nil {
		return nil, s.FindErr
	}
	result := make([]model.Order, 0, len(s.Orders))
	for _, o := range s.Orders {
		if filter.Status != "" && o.Status != filter.Status {
			continue
		}
		if filter.CustomerID != 0 && o.CustomerID != filter.CustomerID {
			continue
		}
		if filter.ServiceDate != nil {
			y1, m1, d1 := filter.ServiceDate.Date()
			y2, m2, d2 := o.ServiceDate.Date()
			if y1 != y2 || m1 != m2 || d1 != d2 {
				continue
			}
		}
		result = append(result, *o)
	}
	sort.Slice(result, func(i, j int) bool {
		if !result[i].ServiceDate.Equal(result[j].ServiceDate) {
			return result[i].ServiceDate.Before(result[j].ServiceDate)
		}
		return result[i].ID < result[j].ID
	})
	return result, nil
}

// Update replaces the editable fields of a PENDING order.
func (s *OrderRepositoryStub) Update(ctx context.Context, order *model.Order) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.UpdateErr != nil {
		return s.UpdateErr
	}
	stored, ok := s.Orders[order.ID]
	if !ok || stored.Status != model.OrderStatusPending {
		return domainErrors.ErrOrderLocked
	}
	stored.ServiceDate = order.ServiceDate
	stored.Address = order.Address
	stored.GuestCount = order.GuestCount
	stored.Price = order.Price
	stored.UpdatedAt = s.now()
	order.UpdatedAt = stored.UpdatedAt

	loans := s.Loans[order.ID]
	for i := range loans {
		if loans[i].Outstanding() {
			loans[i].ExpectedReturnAt = model.ExpectedReturn(order.ServiceDate, stored.UpdatedAt)
		}
	}
	return nil
}

// UpdateStatus applies a legal transition and appends it to the timeline.
func (s *OrderRepositoryStub) UpdateStatus(ctx context.Context, change repository.StatusChange) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.UpdateStatusErr != nil {
		return s.UpdateStatusErr
	}
	stored, ok := s.Orders[change.OrderID]
	if !ok {
		return domainErrors.ErrOrderNotFound
	}
	if change.From != "" && stored.Status != change.From {
		return domainErrors.ErrOrderLocked
	}
	if !stored.Status.CanTransitionTo(change.Status) {
		return domainErrors.ErrInvalidTransition
	}
	now := s.now()
	stored.Status = change.Status
	stored.UpdatedAt = now
	s.appendEvent(change.OrderID, change.Status, change.ActorID, change.Comment, change.Cancellation, now)
	s.StatusChanges = append(s.StatusChanges, change)
	return nil
}

// SetMaterial lends the whole batch or nothing.
func (s *OrderRepositoryStub) SetMaterial(ctx context.Context, orderID int64, serviceDate time.Time, items []model.LoanItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.SetMaterialErr != nil {
		return s.SetMaterialErr
	}
	if len(items) == 0 {
		return domainErrors.ErrEmptyMaterialList
	}
	stored, ok := s.Orders[orderID]
	if !ok {
		return domainErrors.ErrOrderNotFound
	}
	if stored.Status.Terminal() {
		return domainErrors.ErrOrderClosed
	}
	if err := s.checkStock(items); err != nil {
		return err
	}
	now := s.now()
	s.lend(orderID, model.ExpectedReturn(serviceDate, now), items, now)
	stored.MaterialReady = true
	stored.MaterialReturnedAt = nil
	return nil
}

// ReturnMaterial closes outstanding loans and restocks them.
func (s *OrderRepositoryStub) ReturnMaterial(ctx context.Context, orderID int64) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ReturnErr != nil {
		return 0, s.ReturnErr
	}
	stored, ok := s.Orders[orderID]
	if !ok {
		return 0, domainErrors.ErrOrderNotFound
	}
	now := s.now()
	returned := 0
	loans := s.Loans[orderID]
	for i := range loans {
		if !loans[i].Outstanding() {
			continue
		}
		at := now
		loans[i].ReturnedAt = &at
		loans[i].Returned = true
		s.MaterialStock[loans[i].MaterialID] += loans[i].Quantity
		returned++
	}
	if stored.MaterialReturnedAt == nil {
		at := now
		stored.MaterialReturnedAt = &at
	}
	return returned, nil
}

// GetTimeline returns the events of an order in insertion order.
func (s *OrderRepositoryStub) GetTimeline(ctx context.Context, orderID int64) ([]model.OrderStatusEvent, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FindErr != nil {
		return nil, s.FindErr
	}
	return append([]model.OrderStatusEvent(nil), s.Events[orderID]...), nil
}

// GetMaterials returns every loan of an order.
func (s *OrderRepositoryStub) GetMaterials(ctx context.Context, orderID int64) ([]model.MaterialLoan, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FindErr != nil {
		return nil, s.FindErr
	}
	return append([]model.MaterialLoan(nil), s.Loans[orderID]...), nil
}

// FindOverdueMaterials returns outstanding loans due before now.
func (s *OrderRepositoryStub) FindOverdueMaterials(ctx context.Context, now time.Time) ([]model.MaterialLoan, error) {
	if s.OverdueFn != nil {
		return s.OverdueFn(ctx, now)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.OverdueAt = append(s.OverdueAt, now)
	var result []model.MaterialLoan
	for _, loans := range s.Loans {
		for _, l := range loans {
			if l.Outstanding() && l.ExpectedReturnAt.Before(now) {
				result = append(result, l)
			}
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

func (s *OrderRepositoryStub) checkStock(items []model.LoanItem) error {
	needed := make(map[int64]int, len(items))
	for _, item := range items {
		if item.Quantity <= 0 {
			return domainErrors.ErrInvalidQuantity
		}
		needed[item.MaterialID] += item.Quantity
	}
	for id, qty := range needed {
		stock, ok := s.MaterialStock[id]
		if !ok {
			return domainErrors.ErrMaterialNotFound
		}
		if stock < qty {
			return domainErrors.ErrInsufficientStock
		}
	}
	return nil
}

func (s *OrderRepositoryStub) lend(orderID int64, expected time.Time, items []model.LoanItem, now time.Time) {
	for _, item := range items {
		s.MaterialStock[item.MaterialID] -= item.Quantity
		merged := false
		loans := s.Loans[orderID]
		for i := range loans {
			if loans[i].MaterialID != item.MaterialID {
				continue
			}
			if loans[i].Outstanding() {
				loans[i].Quantity += item.Quantity
			} else {
				loans[i].Quantity = item.Quantity
			}
			loans[i].LoanedAt = now
			loans[i].ExpectedReturnAt = expected
			loans[i].ReturnedAt = nil
			loans[i].Returned = false
			merged = true
		}
		if merged {
			continue
		}
		s.nextLoan++
		s.Loans[orderID] = append(loans, model.MaterialLoan{
			ID:               s.nextLoan,
			OrderID:          orderID,
			MaterialID:       item.MaterialID,
			MaterialName:     s.MaterialNames[item.MaterialID],
			Quantity:         item.Quantity,
			LoanedAt:         now,
			ExpectedReturnAt: expected,
		})
	}
}

func (s *OrderRepositoryStub) appendEvent(orderID int64, status model.OrderStatus, actorID int64, comment *string, c *model.Cancellation, now time.Time) {
	s.nextEvent++
	s.Events[orderID] = append(s.Events[orderID], model.OrderStatusEvent{
		ID:           s.nextEvent,
		OrderID:      orderID,
		Status:       status,
		ActorID:      actorID,
		Comment:      comment,
		Cancellation: c,
		CreatedAt:    now,
	})
}

// MenuRepositoryStub serves menus from a map.
type MenuRepositoryStub struct {
	Menus map[int64]*model.Menu
	Err   error
}

// FindByID returns a copy of the menu or ErrMenuNotFound.
func (s *MenuRepositoryStub) FindByID(ctx context.Context, id int64) (*model.Menu, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	m, ok := s.Menus[id]
	if !ok {
		return nil, domainErrors.ErrMenuNotFound
	}
	menu := *m
	return &menu, nil
}

// MaterialRepositoryStub reads stock from a shared map so it follows the order stub.
type MaterialRepositoryStub struct {
	Orders *OrderRepositoryStub
	Err    error
}

// FindByID returns the material and its current stock.
func (s *MaterialRepositoryStub) FindByID(ctx context.Context, id int64) (*model.Material, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	s.Orders.mu.Lock()
	defer s.Orders.mu.Unlock()
	stock, ok := s.Orders.MaterialStock[id]
	if !ok {
		return nil, domainErrors.ErrMaterialNotFound
	}
	return &model.Material{ID: id, Name: s.Orders.MaterialNames[id], Stock: stock}, nil
}

// CustomerRepositoryStub serves customers from a map.
type CustomerRepositoryStub struct {
	mu        sync.Mutex
	Customers map[int64]*model.Customer
	Err       error
}

// FindByID returns a copy of the customer or ErrNotFound.
func (s *CustomerRepositoryStub) FindByID(ctx context.Context, id int64) (*model.Customer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	c, ok := s.Customers[id]
	if !ok {
		return nil, domainErrors.ErrNotFound
	}
	customer := *c
	return &customer, nil
}

var (
	_ repository.OrderRepository    = (*OrderRepositoryStub)(nil)
	_ repository.MenuRepository     = (*MenuRepositoryStub)(nil)
	_ repository.MaterialRepository = (*MaterialRepositoryStub)(nil)
	_ repository.CustomerRepository = (*CustomerRepositoryStub)(nil)
)

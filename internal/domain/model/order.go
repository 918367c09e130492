package model

import "time"

// OrderStatus describes the fulfillment lifecycle of a catering order.
type OrderStatus string

const (
	OrderStatusPending                OrderStatus = "PENDING"
	OrderStatusAccepted               OrderStatus = "ACCEPTED"
	OrderStatusPreparing              OrderStatus = "PREPARING"
	OrderStatusOutForDelivery         OrderStatus = "OUT_FOR_DELIVERY"
	OrderStatusDelivered              OrderStatus = "DELIVERED"
	OrderStatusAwaitingMaterialReturn OrderStatus = "AWAITING_MATERIAL_RETURN"
	OrderStatusCompleted              OrderStatus = "COMPLETED"
	OrderStatusCancelled              OrderStatus = "CANCELLED"
)

var transitions = map[OrderStatus][]OrderStatus{
	OrderStatusPending:                {OrderStatusAccepted, OrderStatusCancelled},
	OrderStatusAccepted:               {OrderStatusPreparing, OrderStatusCancelled},
	OrderStatusPreparing:              {OrderStatusOutForDelivery, OrderStatusCancelled},
	OrderStatusOutForDelivery:         {OrderStatusDelivered, OrderStatusAwaitingMaterialReturn, OrderStatusCancelled},
	OrderStatusDelivered:              {OrderStatusAwaitingMaterialReturn, OrderStatusCompleted, OrderStatusCancelled},
	OrderStatusAwaitingMaterialReturn: {OrderStatusCompleted, OrderStatusCancelled},
}

// Valid reports whether s is one of the known statuses.
func (s OrderStatus) Valid() bool {
	switch s {
	case OrderStatusPending, OrderStatusAccepted, OrderStatusPreparing, OrderStatusOutForDelivery,
		OrderStatusDelivered, OrderStatusAwaitingMaterialReturn, OrderStatusCompleted, OrderStatusCancelled:
		return true
	}
	return false
}

// Terminal reports whether no further transition may leave s.
func (s OrderStatus) Terminal() bool {
	return s == OrderStatusCompleted || s == OrderStatusCancelled
}

// Editable reports whether the customer may still change the order.
func (s OrderStatus) Editable() bool {
	return s == OrderStatusPending
}

// CanTransitionTo reports whether next is reachable from s in one step.
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	for _, candidate := range transitions[s] {
		if candidate == next {
			return true
		}
	}
	return false
}

// Address is the delivery location and contact phone of an order.
type Address struct {
	Street     string
	City       string
	PostalCode string
	Phone      string
}

// Order is the financial and operational record of one catering request.
type Order struct {
	ID                 int64
	CustomerID         int64
	MenuID             int64
	ServiceDate        time.Time
	Address            Address
	GuestCount         int
	Price              PriceBreakdown
	Status             OrderStatus
	HasReview          bool
	MaterialReady      bool
	CreatedAt          time.Time
	UpdatedAt          time.Time
	MaterialReturnedAt *time.Time
}

// OwnedBy reports whether the order belongs to the customer.
func (o *Order) OwnedBy(customerID int64) bool {
	return o.CustomerID == customerID
}

// OrderFilter narrows order searches. Zero values are ignored.
type OrderFilter struct {
	Status      OrderStatus
	CustomerID  int64
	ServiceDate *time.Time
}

// OrderDetail aggregates an order with its audit trail and loaned material.
type OrderDetail struct {
	Order     Order
	Timeline  []OrderStatusEvent
	Materials []MaterialLoan
	Customer  *Customer
}

package dto

import "time"

// Address is the delivery location payload.
type Address struct {
	Street     string `json:"street"`
	City       string `json:"city"`
	PostalCode string `json:"postal_code"`
	Phone      string `json:"phone"`
}

// QuoteRequest asks for a price estimate.
type QuoteRequest struct {
	MenuID     int64   `json:"menu_id"`
	GuestCount int     `json:"guest_count"`
	Address    Address `json:"address"`
}

// PriceResponse is the price breakdown of a quote or an order.
type PriceResponse struct {
	UnitPrice       float64 `json:"unit_price"`
	MinGuests       int     `json:"min_guests"`
	Subtotal        float64 `json:"subtotal"`
	DiscountAmount  float64 `json:"discount_amount"`
	DiscountApplied bool    `json:"discount_applied"`
	DeliveryFee     float64 `json:"delivery_fee"`
	DistanceKm      float64 `json:"distance_km"`
	OutsideBaseZone bool    `json:"outside_base_zone"`
	Total           float64 `json:"total"`
}

// CreateOrderRequest places a new order.
type CreateOrderRequest struct {
	MenuID      int64     `json:"menu_id"`
	ServiceDate time.Time `json:"service_date"`
	GuestCount  int       `json:"guest_count"`
	Address     Address   `json:"address"`
}

// EditOrderRequest changes a pending order. Omitted fields stay as they are.
type EditOrderRequest struct {
	MenuID      *int64     `json:"menu_id,omitempty"`
	ServiceDate *time.Time `json:"service_date,omitempty"`
	GuestCount  *int       `json:"guest_count,omitempty"`
	Address     *Address   `json:"address,omitempty"`
}

// Cancellation documents why and how a customer was told about a cancellation.
type Cancellation struct {
	ContactMode string `json:"contact_mode"`
	Reason      string `json:"reason"`
}

// ChangeStatusRequest moves an order to another status.
type ChangeStatusRequest struct {
	Status       string        `json:"status"`
	Comment      *string       `json:"comment,omitempty"`
	Cancellation *Cancellation `json:"cancellation,omitempty"`
}

// OrderResponse describes an order.
type OrderResponse struct {
	ID                 int64         `json:"id"`
	CustomerID         int64         `json:"customer_id"`
	MenuID             int64         `json:"menu_id"`
	ServiceDate        time.Time     `json:"service_date"`
	Address            Address       `json:"address"`
	GuestCount         int           `json:"guest_count"`
	Price              PriceResponse `json:"price"`
	Status             string        `json:"status"`
	HasReview          bool          `json:"has_review"`
	MaterialReady      bool          `json:"material_ready"`
	MaterialReturnedAt *time.Time    `json:"material_returned_at,omitempty"`
	CreatedAt          time.Time     `json:"created_at"`
	UpdatedAt          time.Time     `json:"updated_at"`
}

// StatusEventResponse is one timeline entry.
type StatusEventResponse struct {
	Status       string        `json:"status"`
	ActorID      int64         `json:"actor_id"`
	Comment      *string       `json:"comment,omitempty"`
	Cancellation *Cancellation `json:"cancellation,omitempty"`
	CreatedAt    time.Time     `json:"created_at"`
}

// CustomerResponse is the contact card attached to an order detail.
type CustomerResponse struct {
	ID        int64  `json:"id"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Phone     string `json:"phone"`
}

// OrderDetailResponse aggregates an order with its history and material.
type OrderDetailResponse struct {
	Order     OrderResponse          `json:"order"`
	Timeline  []StatusEventResponse  `json:"timeline"`
	Materials []MaterialLoanResponse `json:"materials"`
	Customer  *CustomerResponse      `json:"customer,omitempty"`
}

// ReviewEligibilityResponse tells whether a review may be left.
type ReviewEligibilityResponse struct {
	Eligible bool `json:"eligible"`
}

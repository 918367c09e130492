package model

import "time"

// ContactMode is how the operator reached the customer about a cancellation.
type ContactMode string

const (
	ContactModePhone ContactMode = "phone"
	ContactModeEmail ContactMode = "email"
)

// Valid reports whether m is a supported contact mode.
func (m ContactMode) Valid() bool {
	return m == ContactModePhone || m == ContactModeEmail
}

// Cancellation is the audit record attached to a CANCELLED status event.
type Cancellation struct {
	ContactMode ContactMode
	Reason      string
}

// OrderStatusEvent is one immutable entry of an order's status timeline.
type OrderStatusEvent struct {
	ID           int64
	OrderID      int64
	Status       OrderStatus
	ActorID      int64
	Comment      *string
	Cancellation *Cancellation
	CreatedAt    time.Time
}

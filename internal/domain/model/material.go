package model

import "time"

// LoanReturnPeriod is how long after the service date loaned material is due back.
const LoanReturnPeriod = 10 * 24 * time.Hour

// Material is a piece of physical equipment lent with orders.
type Material struct {
	ID    int64
	Name  string
	Stock int
}

// LoanItem requests quantity units of one material for an order.
type LoanItem struct {
	MaterialID int64
	Quantity   int
}

// MaterialLoan tracks material lent for an order until it comes back.
type MaterialLoan struct {
	ID               int64
	OrderID          int64
	MaterialID       int64
	MaterialName     string
	Quantity         int
	LoanedAt         time.Time
	ExpectedReturnAt time.Time
	ReturnedAt       *time.Time
	Returned         bool
}

// Outstanding reports whether the loan still awaits its return.
func (l MaterialLoan) Outstanding() bool {
	return l.ReturnedAt == nil
}

// ExpectedReturn computes the due date of material loaned for a service date.
// A zero service date falls back to now.
func ExpectedReturn(serviceDate, now time.Time) time.Time {
	if serviceDate.IsZero() {
		return now.Add(LoanReturnPeriod)
	}
	return serviceDate.Add(LoanReturnPeriod)
}

package usecase

import (
	"strings"
	"time"

	domainErrors "github.com/polkiloo/catering/internal/domain/errors"
	"github.com/polkiloo/catering/internal/domain/model"
)

// QuoteInput describes a price estimate request.
type QuoteInput struct {
	MenuID     int64
	GuestCount int
	Address    model.Address
}

// CreateOrderInput carries the fields a customer submits when ordering.
type CreateOrderInput struct {
	MenuID      int64
	ServiceDate time.Time
	GuestCount  int
	Address     model.Address
}

// EditOrderInput lists the changes a customer requests on a pending order.
// Nil fields are left untouched.
type EditOrderInput struct {
	MenuID      *int64
	ServiceDate *time.Time
	GuestCount  *int
	Address     *model.Address
}

// ChangeStatusInput requests one lifecycle transition.
type ChangeStatusInput struct {
	Status       model.OrderStatus
	Comment      *string
	Cancellation *model.Cancellation
}

func (in CreateOrderInput) validate(now time.Time) error {
	if in.MenuID <= 0 {
		return domainErrors.Validation("menu is required")
	}
	if in.ServiceDate.IsZero() {
		return domainErrors.Validation("service date is required")
	}
	if !in.ServiceDate.After(now) {
		return domainErrors.Validation("service date must be in the future")
	}
	if in.GuestCount <= 0 {
		return domainErrors.ErrInvalidQuantity
	}
	return validateAddress(in.Address)
}

func (in ChangeStatusInput) validate() error {
	if !in.Status.Valid() {
		return domainErrors.ErrInvalidStatus
	}
	if in.Status != model.OrderStatusCancelled {
		return nil
	}
	c := in.Cancellation
	if c == nil || strings.TrimSpace(c.Reason) == "" || !c.ContactMode.Valid() {
		return domainErrors.ErrCancellationDetailsRequired
	}
	return nil
}

func validateAddress(a model.Address) error {
	switch {
	case strings.TrimSpace(a.Street) == "":
		return domainErrors.Validation("street is required")
	case strings.TrimSpace(a.City) == "":
		return domainErrors.Validation("city is required")
	case strings.TrimSpace(a.PostalCode) == "":
		return domainErrors.Validation("postal code is required")
	case strings.TrimSpace(a.Phone) == "":
		return domainErrors.Validation("phone is required")
	}
	return nil
}

// locationChanged reports whether the delivery location, and so the fee, may differ.
func locationChanged(before, after model.Address) bool {
	return before.Street != after.Street || before.City != after.City || before.PostalCode != after.PostalCode
}

func validateLoanItems(items []model.LoanItem) error {
	if len(items) == 0 {
		return domainErrors.ErrEmptyMaterialList
	}
	for _, item := range items {
		if item.MaterialID <= 0 {
			return domainErrors.Validation("material is required")
		}
		if item.Quantity <= 0 {
			return domainErrors.ErrInvalidQuantity
		}
	}
	return nil
}

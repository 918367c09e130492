// Package pricing computes the price breakdown of a catering order.
package pricing

import (
	"github.com/shopspring/decimal"

	domainErrors "github.com/polkiloo/catering/internal/domain/errors"
	"github.com/polkiloo/catering/internal/domain/model"
)

const (
	// DiscountGuestMargin is how many guests above the menu minimum unlock the discount.
	DiscountGuestMargin = 5
)

var (
	discountRate = decimal.RequireFromString("0.10")
	baseFee      = decimal.RequireFromString("5.00")
	feePerKm     = decimal.RequireFromString("0.59")
)

// Input holds the menu data and delivery distance a quote is computed from.
type Input struct {
	UnitPrice  float64
	MinGuests  int
	GuestCount int
	DistanceKm float64
}

// Quote computes the full price breakdown. It performs no I/O and must be used
// both for estimates and for the snapshot persisted on the order.
func Quote(in Input) (model.PriceBreakdown, error) {
	if in.GuestCount < in.MinGuests {
		return model.PriceBreakdown{}, domainErrors.ErrQuantityBelowMinimum
	}
	if in.GuestCount <= 0 {
		return model.PriceBreakdown{}, domainErrors.ErrInvalidQuantity
	}

	unit := decimal.NewFromFloat(in.UnitPrice)
	subtotal := unit.Mul(decimal.NewFromInt(int64(in.GuestCount)))

	discount := decimal.Zero
	applied := in.GuestCount >= in.MinGuests+DiscountGuestMargin
	if applied {
		discount = subtotal.Mul(discountRate)
	}

	fee := DeliveryFee(in.DistanceKm)
	total := subtotal.Sub(discount).Round(2).Add(fee).Round(2)

	return model.PriceBreakdown{
		UnitPrice:       in.UnitPrice,
		MinGuests:       in.MinGuests,
		Subtotal:        subtotal.Round(2).InexactFloat64(),
		DiscountAmount:  discount.Round(2).InexactFloat64(),
		DiscountApplied: applied,
		DeliveryFee:     fee.InexactFloat64(),
		DistanceKm:      in.DistanceKm,
		OutsideBaseZone: in.DistanceKm > 0,
		Total:           total.InexactFloat64(),
	}, nil
}

// DeliveryFee is the base fee plus the per-kilometre surcharge outside the base zone.
func DeliveryFee(distanceKm float64) decimal.Decimal {
	fee := baseFee
	if distanceKm > 0 {
		fee = fee.Add(feePerKm.Mul(decimal.NewFromFloat(distanceKm)))
	}
	return fee.Round(2)
}

package model

// PriceBreakdown is the price snapshot frozen on an order at creation or last permitted edit.
type PriceBreakdown struct {
	UnitPrice       float64
	MinGuests       int
	Subtotal        float64
	DiscountAmount  float64
	DiscountApplied bool
	DeliveryFee     float64
	DistanceKm      float64
	OutsideBaseZone bool
	Total           float64
}

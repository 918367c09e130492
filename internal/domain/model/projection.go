package model

import "time"

// AnalyticsProjection is the denormalized reporting copy of an order.
type AnalyticsProjection struct {
	OrderID         int64     `bson:"_id"`
	MenuID          int64     `bson:"menu_id"`
	GuestCount      int       `bson:"guest_count"`
	TotalPrice      float64   `bson:"total_price"`
	ServiceDate     time.Time `bson:"service_date"`
	CreatedAt       time.Time `bson:"created_at"`
	Status          string    `bson:"status"`
	City            string    `bson:"city"`
	OutsideBaseZone bool      `bson:"outside_base_zone"`
	SyncedAt        time.Time `bson:"synced_at"`
}

// NewProjection maps an order onto its reporting fields.
func NewProjection(order *Order, syncedAt time.Time) AnalyticsProjection {
	return AnalyticsProjection{
		OrderID:         order.ID,
		MenuID:          order.MenuID,
		GuestCount:      order.GuestCount,
		TotalPrice:      order.Price.Total,
		ServiceDate:     order.ServiceDate,
		CreatedAt:       order.CreatedAt,
		Status:          string(order.Status),
		City:            order.Address.City,
		OutsideBaseZone: order.Price.OutsideBaseZone,
		SyncedAt:        syncedAt,
	}
}

package dto

import "time"

// LoanItem requests a quantity of one material.
type LoanItem struct {
	MaterialID int64 `json:"material_id"`
	Quantity   int   `json:"quantity"`
}

// LoanRequest lends a batch of material to an order.
type LoanRequest struct {
	Items []LoanItem `json:"items"`
}

// MaterialLoanResponse describes lent material.
type MaterialLoanResponse struct {
	OrderID          int64      `json:"order_id"`
	MaterialID       int64      `json:"material_id"`
	MaterialName     string     `json:"material_name"`
	Quantity         int        `json:"quantity"`
	LoanedAt         time.Time  `json:"loaned_at"`
	ExpectedReturnAt time.Time  `json:"expected_return_at"`
	ReturnedAt       *time.Time `json:"returned_at,omitempty"`
	Returned         bool       `json:"returned"`
}

// ReturnResponse reports a material return.
type ReturnResponse struct {
	Order    OrderResponse `json:"order"`
	Returned int           `json:"returned"`
}

// RebuildResponse reports an analytics rebuild.
type RebuildResponse struct {
	Synced int `json:"synced"`
	Failed int `json:"failed"`
}

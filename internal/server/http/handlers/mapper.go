package handlers

import (
	"github.com/polkiloo/catering/internal/domain/model"
	"github.com/polkiloo/catering/internal/server/http/dto"
)

func toAddress(a dto.Address) model.Address {
	return model.Address{Street: a.Street, City: a.City, PostalCode: a.PostalCode, Phone: a.Phone}
}

func fromAddress(a model.Address) dto.Address {
	return dto.Address{Street: a.Street, City: a.City, PostalCode: a.PostalCode, Phone: a.Phone}
}

func toPriceResponse(p model.PriceBreakdown) dto.PriceResponse {
	return dto.PriceResponse{
		UnitPrice:       p.UnitPrice,
		MinGuests:       p.MinGuests,
		Subtotal:        p.Subtotal,
		DiscountAmount:  p.DiscountAmount,
		DiscountApplied: p.DiscountApplied,
		DeliveryFee:     p.DeliveryFee,
		DistanceKm:      p.DistanceKm,
		OutsideBaseZone: p.OutsideBaseZone,
		Total:           p.Total,
	}
}

func toOrderResponse(o model.Order) dto.OrderResponse {
	return dto.OrderResponse{
		ID:                 o.ID,
		CustomerID:         o.CustomerID,
		MenuID:             o.MenuID,
		ServiceDate:        o.ServiceDate,
		Address:            fromAddress(o.Address),
		GuestCount:         o.GuestCount,
		Price:              toPriceResponse(o.Price),
		Status:             string(o.Status),
		HasReview:          o.HasReview,
		MaterialReady:      o.MaterialReady,
		MaterialReturnedAt: o.MaterialReturnedAt,
		CreatedAt:          o.CreatedAt,
		UpdatedAt:          o.UpdatedAt,
	}
}

func toOrderResponses(orders []model.Order) []dto.OrderResponse {
	response := make([]dto.OrderResponse, 0, len(orders))
	for _, o := range orders {
		response = append(response, toOrderResponse(o))
	}
	return response
}

func toLoanResponses(loans []model.MaterialLoan) []dto.MaterialLoanResponse {
	response := make([]dto.MaterialLoanResponse, 0, len(loans))
	for _, l := range loans {
		response = append(response, dto.MaterialLoanResponse{
			OrderID:          l.OrderID,
			MaterialID:       l.MaterialID,
			MaterialName:     l.MaterialName,
			Quantity:         l.Quantity,
			LoanedAt:         l.LoanedAt,
			ExpectedReturnAt: l.ExpectedReturnAt,
			ReturnedAt:       l.ReturnedAt,
			Returned:         l.Returned,
		})
	}
	return response
}

func toDetailResponse(d *model.OrderDetail) dto.OrderDetailResponse {
	timeline := make([]dto.StatusEventResponse, 0, len(d.Timeline))
	for _, e := range d.Timeline {
		event := dto.StatusEventResponse{
			Status:    string(e.Status),
			ActorID:   e.ActorID,
			Comment:   e.Comment,
			CreatedAt: e.CreatedAt,
		}
		if e.Cancellation != nil {
			event.Cancellation = &dto.Cancellation{ContactMode: string(e.Cancellation.ContactMode), Reason: e.Cancellation.Reason}
		}
		timeline = append(timeline, event)
	}

	response := dto.OrderDetailResponse{
		Order:     toOrderResponse(d.Order),
		Timeline:  timeline,
		Materials: toLoanResponses(d.Materials),
	}
	if c := d.Customer; c != nil {
		response.Customer = &dto.CustomerResponse{ID: c.ID, Email: c.Email, FirstName: c.FirstName, LastName: c.LastName, Phone: c.Phone}
	}
	return response
}

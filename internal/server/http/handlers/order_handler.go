package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/polkiloo/catering/internal/domain/model"
	"github.com/polkiloo/catering/internal/server/http/dto"
	"github.com/polkiloo/catering/internal/usecase"
)

// OrderHandler manages customer-facing order endpoints.
type OrderHandler struct {
	facade OrderFacade
}

// NewOrderHandler constructs OrderHandler.
func NewOrderHandler(facade OrderFacade) *OrderHandler {
	return &OrderHandler{facade: facade}
}

// Quote handles POST /api/quotes.
func (h *OrderHandler) Quote(c *gin.Context) {
	var req dto.QuoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "malformed request body")
		return
	}

	price, err := h.facade.Quote(c.Request.Context(), usecase.QuoteInput{
		MenuID:     req.MenuID,
		GuestCount: req.GuestCount,
		Address:    toAddress(req.Address),
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toPriceResponse(price))
}

// Create handles POST /api/orders.
func (h *OrderHandler) Create(c *gin.Context) {
	withIdentity(c, func(actor model.Identity) {
		var req dto.CreateOrderRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, "malformed request body")
			return
		}

		order, err := h.facade.CreateOrder(c.Request.Context(), actor, usecase.CreateOrderInput{
			MenuID:      req.MenuID,
			ServiceDate: req.ServiceDate,
			GuestCount:  req.GuestCount,
			Address:     toAddress(req.Address),
		})
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusCreated, toOrderResponse(*order))
	})
}

// List handles GET /api/orders.
func (h *OrderHandler) List(c *gin.Context) {
	withIdentity(c, func(actor model.Identity) {
		orders, err := h.facade.MyOrders(c.Request.Context(), actor)
		if err != nil {
			writeError(c, err)
			return
		}
		if len(orders) == 0 {
			c.Status(http.StatusNoContent)
			return
		}
		c.JSON(http.StatusOK, toOrderResponses(orders))
	})
}

// Get handles GET /api/orders/:id.
func (h *OrderHandler) Get(c *gin.Context) {
	withIdentity(c, func(actor model.Identity) {
		id, ok := orderIDParam(c)
		if !ok {
			return
		}
		detail, err := h.facade.Order(c.Request.Context(), actor, id)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, toDetailResponse(detail))
	})
}

// Edit handles PATCH /api/orders/:id.
func (h *OrderHandler) Edit(c *gin.Context) {
	withIdentity(c, func(actor model.Identity) {
		id, ok := orderIDParam(c)
		if !ok {
			return
		}
		var req dto.EditOrderRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, "malformed request body")
			return
		}

		in := usecase.EditOrderInput{
			MenuID:      req.MenuID,
			ServiceDate: req.ServiceDate,
			GuestCount:  req.GuestCount,
		}
		if req.Address != nil {
			address := toAddress(*req.Address)
			in.Address = &address
		}

		order, err := h.facade.EditOrder(c.Request.Context(), actor, id, in)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, toOrderResponse(*order))
	})
}

// ChangeStatus handles POST /api/orders/:id/status.
func (h *OrderHandler) ChangeStatus(c *gin.Context) {
	withIdentity(c, func(actor model.Identity) {
		id, ok := orderIDParam(c)
		if !ok {
			return
		}
		var req dto.ChangeStatusRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, "malformed request body")
			return
		}

		in := usecase.ChangeStatusInput{
			Status:  model.OrderStatus(req.Status),
			Comment: req.Comment,
		}
		if req.Cancellation != nil {
			in.Cancellation = &model.Cancellation{
				ContactMode: model.ContactMode(req.Cancellation.ContactMode),
				Reason:      req.Cancellation.Reason,
			}
		}

		order, err := h.facade.ChangeStatus(c.Request.Context(), actor, id, in)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, toOrderResponse(*order))
	})
}

// ReviewEligibility handles GET /api/orders/:id/review-eligibility.
func (h *OrderHandler) ReviewEligibility(c *gin.Context) {
	withIdentity(c, func(actor model.Identity) {
		id, ok := orderIDParam(c)
		if !ok {
			return
		}
		eligible, err := h.facade.ReviewEligibility(c.Request.Context(), actor, id)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, dto.ReviewEligibilityResponse{Eligible: eligible})
	})
}

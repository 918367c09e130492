package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/polkiloo/catering/internal/domain/model"
	"github.com/polkiloo/catering/internal/server/http/dto"
)

const serviceDateLayout = "2006-01-02"

// AdminHandler serves operator endpoints.
type AdminHandler struct {
	facade AdminFacade
}

// NewAdminHandler constructs AdminHandler.
func NewAdminHandler(facade AdminFacade) *AdminHandler {
	return &AdminHandler{facade: facade}
}

// Search handles GET /api/admin/orders.
func (h *AdminHandler) Search(c *gin.Context) {
	withIdentity(c, func(actor model.Identity) {
		filter, ok := parseFilter(c)
		if !ok {
			return
		}
		orders, err := h.facade.SearchOrders(c.Request.Context(), actor, filter)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, toOrderResponses(orders))
	})
}

func parseFilter(c *gin.Context) (model.OrderFilter, bool) {
	filter := model.OrderFilter{Status: model.OrderStatus(c.Query("status"))}

	if raw := c.Query("customer_id"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || id <= 0 {
			badRequest(c, "invalid customer_id")
			return filter, false
		}
		filter.CustomerID = id
	}

	if raw := c.Query("service_date"); raw != "" {
		day, err := time.Parse(serviceDateLayout, raw)
		if err != nil {
			badRequest(c, "service_date must be YYYY-MM-DD")
			return filter, false
		}
		filter.ServiceDate = &day
	}
	return filter, true
}

// LoanMaterial handles POST /api/admin/orders/:id/materials.
func (h *AdminHandler) LoanMaterial(c *gin.Context) {
	withIdentity(c, func(actor model.Identity) {
		id, ok := orderIDParam(c)
		if !ok {
			return
		}
		var req dto.LoanRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, "malformed request body")
			return
		}

		items := make([]model.LoanItem, 0, len(req.Items))
		for _, item := range req.Items {
			items = append(items, model.LoanItem{MaterialID: item.MaterialID, Quantity: item.Quantity})
		}

		loans, err := h.facade.LoanMaterial(c.Request.Context(), actor, id, items)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, toLoanResponses(loans))
	})
}

// ReturnMaterial handles POST /api/admin/orders/:id/materials/return.
func (h *AdminHandler) ReturnMaterial(c *gin.Context) {
	withIdentity(c, func(actor model.Identity) {
		id, ok := orderIDParam(c)
		if !ok {
			return
		}
		order, returned, err := h.facade.ReturnMaterial(c.Request.Context(), actor, id)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, dto.ReturnResponse{Order: toOrderResponse(*order), Returned: returned})
	})
}

// Overdue handles GET /api/admin/materials/overdue.
func (h *AdminHandler) Overdue(c *gin.Context) {
	loans, err := h.facade.OverdueMaterials(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toLoanResponses(loans))
}

// RebuildAnalytics handles POST /api/admin/analytics/rebuild.
func (h *AdminHandler) RebuildAnalytics(c *gin.Context) {
	result, err := h.facade.RebuildAnalytics(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.RebuildResponse{Synced: result.Synced, Failed: result.Failed})
}

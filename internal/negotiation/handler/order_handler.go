package handler

import (
	"github.com/MuhammadMasood9/B2BEcommercw-sub003/internal/negotiation/service"
	"github.com/gin-gonic/gin"
)

type OrderHandler struct {
	svc *service.NegotiationService
}

func NewOrderHandler(svc *service.NegotiationService) *OrderHandler {
	return &OrderHandler{svc: svc}
}

// List GET /orders
func (h *OrderHandler) List(c *gin.Context) {
	page, pageSize := GetPagination(c)
	filters := scopeFilters(c, map[string]string{
		"status": c.Query("status"),
	})

	items, total, err := h.svc.ListOrders(c.Request.Context(), page, pageSize, filters)
	if err != nil {
		ServiceError(c, err)
		return
	}
	SuccessList(c, items, total, page, pageSize)
}

// Get GET /orders/:id
func (h *OrderHandler) Get(c *gin.Context) {
	order, err := h.svc.GetOrder(c.Request.Context(), c.Param("id"))
	if err != nil {
		ServiceError(c, err)
		return
	}
	if !canView(c, order.BuyerID, order.SupplierID) {
		NotFound(c, "order "+order.ID+" not found")
		return
	}
	Success(c, order)
}

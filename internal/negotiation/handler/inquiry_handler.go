package handler

import (
	"github.com/MuhammadMasood9/B2BEcommercw-sub003/internal/middleware"
	"github.com/MuhammadMasood9/B2BEcommercw-sub003/internal/negotiation/service"
	"github.com/gin-gonic/gin"
)

type InquiryHandler struct {
	svc *service.NegotiationService
}

func NewInquiryHandler(svc *service.NegotiationService) *InquiryHandler {
	return &InquiryHandler{svc: svc}
}

// List GET /inquiries
func (h *InquiryHandler) List(c *gin.Context) {
	page, pageSize := GetPagination(c)
	filters := scopeFilters(c, map[string]string{
		"product_id": c.Query("product_id"),
		"status":     c.Query("status"),
	})

	items, total, err := h.svc.ListInquiries(c.Request.Context(), page, pageSize, filters)
	if err != nil {
		ServiceError(c, err)
		return
	}
	SuccessList(c, items, total, page, pageSize)
}

// Create POST /inquiries
func (h *InquiryHandler) Create(c *gin.Context) {
	var req service.CreateInquiryReq
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "invalid request body: "+err.Error())
		return
	}

	inquiry, err := h.svc.CreateInquiry(c.Request.Context(), req, GetActor(c))
	if err != nil {
		ServiceError(c, err)
		return
	}
	Created(c, inquiry)
}

// Get GET /inquiries/:id
func (h *InquiryHandler) Get(c *gin.Context) {
	inquiry, err := h.svc.GetInquiry(c.Request.Context(), c.Param("id"))
	if err != nil {
		ServiceError(c, err)
		return
	}
	if !canView(c, inquiry.BuyerID, inquiry.SupplierID) {
		NotFound(c, "inquiry "+inquiry.ID+" not found")
		return
	}
	Success(c, inquiry)
}

// Close POST /inquiries/:id/close
func (h *InquiryHandler) Close(c *gin.Context) {
	inquiry, err := h.svc.CloseInquiry(c.Request.Context(), c.Param("id"), GetActor(c))
	if err != nil {
		ServiceError(c, err)
		return
	}
	Success(c, inquiry)
}

// canView 买卖双方与管理员可查看
func canView(c *gin.Context, buyerID, supplierID string) bool {
	if hasRole(c, middleware.RoleAdmin) {
		return true
	}
	userID := GetUserID(c)
	return userID != "" && (userID == buyerID || userID == supplierID)
}

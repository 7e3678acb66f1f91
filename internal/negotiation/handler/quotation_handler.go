package handler

import (
	"errors"
	"io"

	"github.com/MuhammadMasood9/B2BEcommercw-sub003/internal/negotiation/entity"
	"github.com/MuhammadMasood9/B2BEcommercw-sub003/internal/negotiation/service"
	"github.com/gin-gonic/gin"
)

type QuotationHandler struct {
	svc *service.NegotiationService
}

func NewQuotationHandler(svc *service.NegotiationService) *QuotationHandler {
	return &QuotationHandler{svc: svc}
}

// AcceptQuotationReq 接受报价请求
type AcceptQuotationReq struct {
	ShippingAddress string `json:"shipping_address"`
}

// RejectQuotationReq 拒绝报价请求
type RejectQuotationReq struct {
	Reason string `json:"reason"`
}

// ListByInquiry GET /inquiries/:id/quotations
func (h *QuotationHandler) ListByInquiry(c *gin.Context) {
	inquiry, err := h.svc.LookupInquiry(c.Request.Context(), c.Param("id"))
	if err != nil {
		ServiceError(c, err)
		return
	}
	if !canView(c, inquiry.BuyerID, inquiry.SupplierID) {
		NotFound(c, "inquiry "+inquiry.ID+" not found")
		return
	}

	items, err := h.svc.ListQuotations(c.Request.Context(), inquiry.ID, c.Query("status"))
	if err != nil {
		ServiceError(c, err)
		return
	}
	Success(c, gin.H{"items": items})
}

// Submit POST /inquiries/:id/quotations
func (h *QuotationHandler) Submit(c *gin.Context) {
	var req service.SubmitQuotationReq
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "invalid request body: "+err.Error())
		return
	}

	q, err := h.svc.SubmitQuotation(c.Request.Context(), c.Param("id"), req, GetActor(c))
	if err != nil {
		ServiceError(c, err)
		return
	}
	Created(c, q)
}

// Get GET /quotations/:id
func (h *QuotationHandler) Get(c *gin.Context) {
	q, ok := h.visibleQuotation(c)
	if !ok {
		return
	}
	Success(c, q)
}

// Accept POST /quotations/:id/accept
func (h *QuotationHandler) Accept(c *gin.Context) {
	var req AcceptQuotationReq
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "invalid request body: "+err.Error())
		return
	}

	order, err := h.svc.AcceptQuotation(c.Request.Context(), c.Param("id"), req.ShippingAddress, GetActor(c))
	if err != nil {
		ServiceError(c, err)
		return
	}
	Success(c, order)
}

// Reject POST /quotations/:id/reject
func (h *QuotationHandler) Reject(c *gin.Context) {
	var req RejectQuotationReq
	// reason 可选，允许空请求体
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		BadRequest(c, "invalid request body: "+err.Error())
		return
	}

	q, err := h.svc.RejectQuotation(c.Request.Context(), c.Param("id"), req.Reason, GetActor(c))
	if err != nil {
		ServiceError(c, err)
		return
	}
	Success(c, q)
}

// ListCounterOffers GET /quotations/:id/counter-offers
func (h *QuotationHandler) ListCounterOffers(c *gin.Context) {
	q, ok := h.visibleQuotation(c)
	if !ok {
		return
	}

	items, err := h.svc.ListCounterOffers(c.Request.Context(), q.ID)
	if err != nil {
		ServiceError(c, err)
		return
	}
	Success(c, gin.H{"items": items})
}

// SubmitCounterOffer POST /quotations/:id/counter-offers
func (h *QuotationHandler) SubmitCounterOffer(c *gin.Context) {
	var req service.SubmitCounterOfferReq
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "invalid request body: "+err.Error())
		return
	}

	offer, err := h.svc.SubmitCounterOffer(c.Request.Context(), c.Param("id"), req, GetActor(c))
	if err != nil {
		ServiceError(c, err)
		return
	}
	Created(c, offer)
}

// Acknowledge POST /quotations/:id/acknowledge
func (h *QuotationHandler) Acknowledge(c *gin.Context) {
	q, err := h.svc.AcknowledgeCounterOffer(c.Request.Context(), c.Param("id"), GetActor(c))
	if err != nil {
		ServiceError(c, err)
		return
	}
	Success(c, q)
}

// visibleQuotation 读取报价，非询价双方按不存在处理
func (h *QuotationHandler) visibleQuotation(c *gin.Context) (*entity.Quotation, bool) {
	q, err := h.svc.GetQuotation(c.Request.Context(), c.Param("id"))
	if err != nil {
		ServiceError(c, err)
		return nil, false
	}
	inquiry, err := h.svc.LookupInquiry(c.Request.Context(), q.InquiryID)
	if err != nil {
		ServiceError(c, err)
		return nil, false
	}
	if !canView(c, inquiry.BuyerID, inquiry.SupplierID) {
		NotFound(c, "quotation "+q.ID+" not found")
		return nil, false
	}
	return q, true
}

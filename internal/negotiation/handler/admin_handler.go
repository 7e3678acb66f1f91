package handler

import (
	"github.com/MuhammadMasood9/B2BEcommercw-sub003/internal/negotiation/service"
	"github.com/gin-gonic/gin"
)

type AdminHandler struct {
	svc *service.NegotiationService
}

func NewAdminHandler(svc *service.NegotiationService) *AdminHandler {
	return &AdminHandler{svc: svc}
}

// ExpireQuotations POST /admin/quotations/expire
// 立即执行一次过期扫描
func (h *AdminHandler) ExpireQuotations(c *gin.Context) {
	count, err := h.svc.ExpireStaleQuotations(c.Request.Context(), h.svc.Now())
	if err != nil {
		ServiceError(c, err)
		return
	}
	Success(c, gin.H{"count": count})
}

package handler

import (
	"github.com/MuhammadMasood9/B2BEcommercw-sub003/internal/negotiation/repository"
	"github.com/gin-gonic/gin"
)

// NotificationHandler 通知中心，直接读取通知仓库
type NotificationHandler struct {
	repo *repository.NotificationRepository
}

func NewNotificationHandler(repo *repository.NotificationRepository) *NotificationHandler {
	return &NotificationHandler{repo: repo}
}

// List GET /notifications
func (h *NotificationHandler) List(c *gin.Context) {
	page, pageSize := GetPagination(c)
	filters := map[string]string{
		"type":         c.Query("type"),
		"inquiry_id":   c.Query("inquiry_id"),
		"quotation_id": c.Query("quotation_id"),
	}

	items, total, err := h.repo.FindForUser(c.Request.Context(), GetUserID(c), filters, page, pageSize)
	if err != nil {
		InternalError(c, "failed to load notifications: "+err.Error())
		return
	}
	SuccessList(c, items, total, page, pageSize)
}

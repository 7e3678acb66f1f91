package handler

import (
	"errors"
	"strconv"

	"github.com/MuhammadMasood9/B2BEcommercw-sub003/internal/middleware"
	"github.com/MuhammadMasood9/B2BEcommercw-sub003/internal/negotiation/repository"
	"github.com/MuhammadMasood9/B2BEcommercw-sub003/internal/negotiation/service"
	"github.com/MuhammadMasood9/B2BEcommercw-sub003/internal/sse"
	"github.com/gin-gonic/gin"
)

// Handlers 处理器集合
type Handlers struct {
	Inquiry      *InquiryHandler
	Quotation    *QuotationHandler
	Order        *OrderHandler
	Notification *NotificationHandler
	SSE          *SSEHandler
	Admin        *AdminHandler
}

// NewHandlers 创建处理器集合
func NewHandlers(svc *service.NegotiationService, repos *repository.Repositories, hub *sse.Hub) *Handlers {
	return &Handlers{
		Inquiry:      NewInquiryHandler(svc),
		Quotation:    NewQuotationHandler(svc),
		Order:        NewOrderHandler(svc),
		Notification: NewNotificationHandler(repos.Notification),
		SSE:          NewSSEHandler(hub),
		Admin:        NewAdminHandler(svc),
	}
}

// RegisterRoutes 注册协商相关路由，api 组需已挂载 JWTAuth
func RegisterRoutes(api *gin.RouterGroup, h *Handlers) {
	buyer := middleware.RequireRole(middleware.RoleBuyer)
	supplier := middleware.RequireRole(middleware.RoleSupplier)
	party := middleware.RequireRole(middleware.RoleBuyer, middleware.RoleSupplier)

	inquiries := api.Group("/inquiries")
	{
		inquiries.GET("", h.Inquiry.List)
		inquiries.POST("", buyer, h.Inquiry.Create)
		inquiries.GET("/:id", h.Inquiry.Get)
		inquiries.POST("/:id/close", buyer, h.Inquiry.Close)
		inquiries.GET("/:id/quotations", h.Quotation.ListByInquiry)
		inquiries.POST("/:id/quotations", supplier, h.Quotation.Submit)
	}

	quotations := api.Group("/quotations")
	{
		quotations.GET("/:id", h.Quotation.Get)
		quotations.POST("/:id/accept", buyer, h.Quotation.Accept)
		quotations.POST("/:id/reject", party, h.Quotation.Reject)
		quotations.GET("/:id/counter-offers", h.Quotation.ListCounterOffers)
		quotations.POST("/:id/counter-offers", buyer, h.Quotation.SubmitCounterOffer)
		quotations.POST("/:id/acknowledge", supplier, h.Quotation.Acknowledge)
	}

	orders := api.Group("/orders")
	{
		orders.GET("", h.Order.List)
		orders.GET("/:id", h.Order.Get)
	}

	api.GET("/notifications", h.Notification.List)
	api.GET("/events", h.SSE.Stream)

	admin := api.Group("/admin", middleware.RequireRole(middleware.RoleAdmin))
	{
		admin.POST("/quotations/expire", h.Admin.ExpireQuotations)
	}
}

// Response 通用响应结构
type Response struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// ListResponse 列表响应结构
type ListResponse struct {
	Items      interface{} `json:"items"`
	Pagination *Pagination `json:"pagination"`
}

// Pagination 分页信息
type Pagination struct {
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	Total      int `json:"total"`
	TotalPages int `json:"total_pages"`
}

// Success 成功响应
func Success(c *gin.Context, data interface{}) {
	c.JSON(200, Response{
		Code:    0,
		Message: "success",
		Data:    data,
	})
}

// Created 创建成功响应
func Created(c *gin.Context, data interface{}) {
	c.JSON(201, Response{
		Code:    0,
		Message: "success",
		Data:    data,
	})
}

// SuccessList 分页列表响应
func SuccessList(c *gin.Context, items interface{}, total int64, page, pageSize int) {
	totalPages := int(total) / pageSize
	if int(total)%pageSize != 0 {
		totalPages++
	}
	Success(c, ListResponse{
		Items: items,
		Pagination: &Pagination{
			Page:       page,
			PageSize:   pageSize,
			Total:      int(total),
			TotalPages: totalPages,
		},
	})
}

// Error 错误响应
func Error(c *gin.Context, code int, message string) {
	statusCode := code / 100
	if statusCode < 100 || statusCode > 599 {
		statusCode = 500
	}
	c.JSON(statusCode, Response{
		Code:    code,
		Message: message,
	})
}

// BadRequest 参数错误响应
func BadRequest(c *gin.Context, message string) {
	Error(c, 40000, message)
}

// NotFound 资源不存在响应
func NotFound(c *gin.Context, message string) {
	Error(c, CodeNotFound, message)
}

// InternalError 服务器错误响应
func InternalError(c *gin.Context, message string) {
	Error(c, 50000, message)
}

// 协商错误码
const (
	CodeValidation         = 40001
	CodeNotFound           = 40401
	CodeInvalidTransition  = 40901
	CodeAlreadyAccepted    = 40902
	CodeExpired            = 41001
	CodeStorageUnavailable = 50301
)

// ServiceError 将协商错误映射为响应
func ServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrValidation):
		Error(c, CodeValidation, err.Error())
	case errors.Is(err, service.ErrNotFound):
		Error(c, CodeNotFound, err.Error())
	case errors.Is(err, service.ErrAlreadyAccepted):
		Error(c, CodeAlreadyAccepted, err.Error())
	case errors.Is(err, service.ErrInvalidTransition):
		Error(c, CodeInvalidTransition, err.Error())
	case errors.Is(err, service.ErrExpired):
		Error(c, CodeExpired, err.Error())
	case errors.Is(err, service.ErrStorageUnavailable):
		Error(c, CodeStorageUnavailable, "storage unavailable, please retry later")
	default:
		InternalError(c, err.Error())
	}
}

// GetUserID 从上下文获取用户ID
func GetUserID(c *gin.Context) string {
	userID, _ := c.Get("user_id")
	if id, ok := userID.(string); ok {
		return id
	}
	return ""
}

// GetActor 当前操作人，角色取 RequireRole 匹配到的角色
func GetActor(c *gin.Context) service.Actor {
	actor := service.Actor{ID: GetUserID(c)}
	if role, ok := c.Get("actor_role"); ok {
		actor.Role, _ = role.(string)
	}
	return actor
}

// hasRole 令牌中是否带有该角色
func hasRole(c *gin.Context, role string) bool {
	roles, _ := c.Get("roles")
	list, _ := roles.([]string)
	for _, r := range list {
		if r == role {
			return true
		}
	}
	return false
}

// scopeFilters 非管理员只能看到自己作为买家或供应商参与的数据
func scopeFilters(c *gin.Context, filters map[string]string) map[string]string {
	if hasRole(c, middleware.RoleAdmin) {
		return filters
	}
	userID := GetUserID(c)
	switch {
	case hasRole(c, middleware.RoleBuyer) && !hasRole(c, middleware.RoleSupplier):
		filters["buyer_id"] = userID
	case hasRole(c, middleware.RoleSupplier) && !hasRole(c, middleware.RoleBuyer):
		filters["supplier_id"] = userID
	default:
		filters["party_id"] = userID
	}
	return filters
}

// GetPagination 从请求获取分页参数
func GetPagination(c *gin.Context) (page, pageSize int) {
	page = 1
	pageSize = 20

	if p := c.Query("page"); p != "" {
		if v, err := strconv.Atoi(p); err == nil && v > 0 {
			page = v
		}
	}

	if ps := c.Query("page_size"); ps != "" {
		if v, err := strconv.Atoi(ps); err == nil && v > 0 && v <= 100 {
			pageSize = v
		}
	}

	return page, pageSize
}

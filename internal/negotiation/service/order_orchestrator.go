package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/MuhammadMasood9/B2BEcommercw-sub003/internal/negotiation/entity"
	"github.com/MuhammadMasood9/B2BEcommercw-sub003/internal/negotiation/repository"
	"github.com/google/uuid"
)

// DefaultCurrency 报价金额币种
const DefaultCurrency = "USD"

// orderOrchestrator 将已接受的报价转换为订单，只在接受报价的事务内调用
type orderOrchestrator struct{}

func (o *orderOrchestrator) createFromQuotation(
	ctx context.Context,
	repos *repository.Repositories,
	q *entity.Quotation,
	inquiry *entity.Inquiry,
	shippingAddress string,
	now time.Time,
) (*entity.Order, error) {
	id := uuid.New().String()[:32]
	order := &entity.Order{
		ID:              id,
		OrderCode:       orderCode(id, now),
		QuotationID:     q.ID,
		InquiryID:       inquiry.ID,
		BuyerID:         inquiry.BuyerID,
		SupplierID:      q.SupplierID,
		Quantity:        q.MOQ,
		UnitPrice:       q.PricePerUnit,
		TotalAmount:     entity.ComputeTotal(q.PricePerUnit, q.MOQ),
		Currency:        DefaultCurrency,
		LeadTime:        q.LeadTime,
		PaymentTerms:    q.PaymentTerms,
		ShippingAddress: shippingAddress,
		Status:          entity.OrderStatusCreated,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := repos.Order.Create(ctx, order); err != nil {
		return nil, fmt.Errorf("create order: %w", err)
	}
	return order, nil
}

// orderCode ORD-{yyyymmdd}-{完整id}，与订单ID一一对应
func orderCode(id string, now time.Time) string {
	return fmt.Sprintf("ORD-%s-%s", now.Format("20060102"), strings.ToUpper(strings.ReplaceAll(id, "-", "")))
}

// GetOrder 获取订单
func (s *NegotiationService) GetOrder(ctx context.Context, id string) (*entity.Order, error) {
	order, err := s.repos.Order.FindByID(ctx, id)
	if err != nil {
		return nil, lookupError("order", id, err)
	}
	return order, nil
}

// ListOrders 订单列表
func (s *NegotiationService) ListOrders(ctx context.Context, page, pageSize int, filters map[string]string) ([]entity.Order, int64, error) {
	items, total, err := s.repos.Order.FindAll(ctx, page, pageSize, filters)
	if err != nil {
		return nil, 0, s.fail("list orders", "", err)
	}
	return items, total, nil
}

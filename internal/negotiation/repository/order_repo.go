package repository

import (
	"context"

	"github.com/MuhammadMasood9/B2BEcommercw-sub003/internal/negotiation/entity"
	"gorm.io/gorm"
)

// OrderRepository 订单仓库
type OrderRepository struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) *OrderRepository {
	return &OrderRepository{db: db}
}

// FindAll 查询订单列表
func (r *OrderRepository) FindAll(ctx context.Context, page, pageSize int, filters map[string]string) ([]entity.Order, int64, error) {
	var items []entity.Order
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.Order{})

	if buyerID := filters["buyer_id"]; buyerID != "" {
		query = query.Where("buyer_id = ?", buyerID)
	}
	if supplierID := filters["supplier_id"]; supplierID != "" {
		query = query.Where("supplier_id = ?", supplierID)
	}
	if partyID := filters["party_id"]; partyID != "" {
		query = query.Where("(buyer_id = ? OR supplier_id = ?)", partyID, partyID)
	}
	if status := filters["status"]; status != "" {
		query = query.Where("status = ?", status)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	err := query.
		Order("created_at DESC").
		Offset(offset).
		Limit(pageSize).
		Find(&items).Error

	return items, total, err
}

// FindByID 根据ID查找订单
func (r *OrderRepository) FindByID(ctx context.Context, id string) (*entity.Order, error) {
	var order entity.Order
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&order).Error; err != nil {
		return nil, notFound(err)
	}
	return &order, nil
}

// FindByQuotationID 根据报价查找订单
func (r *OrderRepository) FindByQuotationID(ctx context.Context, quotationID string) (*entity.Order, error) {
	var order entity.Order
	if err := r.db.WithContext(ctx).Where("quotation_id = ?", quotationID).First(&order).Error; err != nil {
		return nil, notFound(err)
	}
	return &order, nil
}

// Create 创建订单
func (r *OrderRepository) Create(ctx context.Context, order *entity.Order) error {
	return r.db.WithContext(ctx).Create(order).Error
}

// SetDocumentKey 记录订单文档在对象存储中的位置
func (r *OrderRepository) SetDocumentKey(ctx context.Context, id, key string) error {
	return r.db.WithContext(ctx).Model(&entity.Order{}).
		Where("id = ?", id).
		Update("document_key", key).Error
}

package repository

import (
	"context"
	"time"

	"github.com/MuhammadMasood9/B2BEcommercw-sub003/internal/negotiation/entity"
	"gorm.io/gorm"
)

// InquiryRepository 询价仓库
type InquiryRepository struct {
	db *gorm.DB
}

func NewInquiryRepository(db *gorm.DB) *InquiryRepository {
	return &InquiryRepository{db: db}
}

// FindAll 查询询价列表
func (r *InquiryRepository) FindAll(ctx context.Context, page, pageSize int, filters map[string]string) ([]entity.Inquiry, int64, error) {
	var items []entity.Inquiry
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.Inquiry{})

	if buyerID := filters["buyer_id"]; buyerID != "" {
		query = query.Where("buyer_id = ?", buyerID)
	}
	if supplierID := filters["supplier_id"]; supplierID != "" {
		query = query.Where("supplier_id = ?", supplierID)
	}
	if partyID := filters["party_id"]; partyID != "" {
		query = query.Where("(buyer_id = ? OR supplier_id = ?)", partyID, partyID)
	}
	if productID := filters["product_id"]; productID != "" {
		query = query.Where("product_id = ?", productID)
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

// FindByID 根据ID查找询价
func (r *InquiryRepository) FindByID(ctx context.Context, id string) (*entity.Inquiry, error) {
	var inquiry entity.Inquiry
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&inquiry).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &inquiry, nil
}

// FindWithQuotations 查找询价（含全部报价）
func (r *InquiryRepository) FindWithQuotations(ctx context.Context, id string) (*entity.Inquiry, error) {
	var inquiry entity.Inquiry
	err := r.db.WithContext(ctx).
		Preload("Quotations", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC")
		}).
		Where("id = ?", id).
		First(&inquiry).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &inquiry, nil
}

// Create 创建询价
func (r *InquiryRepository) Create(ctx context.Context, inquiry *entity.Inquiry) error {
	return r.db.WithContext(ctx).Create(inquiry).Error
}

// Lock 在事务内锁定询价行（空更新），同一询价下的写操作由此串行。
// 返回 0 表示询价不存在。
func (r *InquiryRepository) Lock(ctx context.Context, id string) (int64, error) {
	result := r.db.WithContext(ctx).Model(&entity.Inquiry{}).
		Where("id = ?", id).
		UpdateColumn("id", gorm.Expr("id"))
	return result.RowsAffected, result.Error
}

// Advance 按状态表推进询价状态，当前状态不能流转到 to 时不更新，返回受影响行数
func (r *InquiryRepository) Advance(ctx context.Context, id, to string, at time.Time) (int64, error) {
	result := r.db.WithContext(ctx).Model(&entity.Inquiry{}).
		Where("id = ? AND status IN ?", id, entity.InquirySourcesFor(to)).
		Updates(map[string]interface{}{
			"status":     to,
			"updated_at": at,
		})
	return result.RowsAffected, result.Error
}

// Close 关闭询价，已关闭的询价不会被再次关闭
func (r *InquiryRepository) Close(ctx context.Context, id, reason string, at time.Time) (int64, error) {
	result := r.db.WithContext(ctx).Model(&entity.Inquiry{}).
		Where("id = ? AND status IN ?", id, entity.InquirySourcesFor(entity.InquiryStatusClosed)).
		Updates(map[string]interface{}{
			"status":       entity.InquiryStatusClosed,
			"close_reason": reason,
			"closed_at":    at,
			"updated_at":   at,
		})
	return result.RowsAffected, result.Error
}

package repository

import (
	"context"
	"time"

	"github.com/MuhammadMasood9/B2BEcommercw-sub003/internal/negotiation/entity"
	"gorm.io/gorm"
)

// CounterOfferRepository 还价仓库
type CounterOfferRepository struct {
	db *gorm.DB
}

func NewCounterOfferRepository(db *gorm.DB) *CounterOfferRepository {
	return &CounterOfferRepository{db: db}
}

// Create 创建还价
func (r *CounterOfferRepository) Create(ctx context.Context, co *entity.CounterOffer) error {
	return r.db.WithContext(ctx).Create(co).Error
}

// ListByQuotation 查询某报价的还价记录（按时间顺序）
func (r *CounterOfferRepository) ListByQuotation(ctx context.Context, quotationID string) ([]entity.CounterOffer, error) {
	var items []entity.CounterOffer
	err := r.db.WithContext(ctx).
		Where("quotation_id = ?", quotationID).
		Order("created_at ASC").
		Find(&items).Error
	return items, err
}

// ResolveOpen 将报价下所有open还价标记为resolved
func (r *CounterOfferRepository) ResolveOpen(ctx context.Context, quotationID string, at time.Time) error {
	return r.db.WithContext(ctx).Model(&entity.CounterOffer{}).
		Where("quotation_id = ? AND status = ?", quotationID, entity.CounterOfferStatusOpen).
		Updates(map[string]interface{}{
			"status":      entity.CounterOfferStatusResolved,
			"resolved_at": at,
		}).Error
}

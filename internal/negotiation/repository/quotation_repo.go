package repository

import (
	"context"
	"time"

	"github.com/MuhammadMasood9/B2BEcommercw-sub003/internal/negotiation/entity"
	"gorm.io/gorm"
)

// QuotationRepository 报价仓库
type QuotationRepository struct {
	db *gorm.DB
}

func NewQuotationRepository(db *gorm.DB) *QuotationRepository {
	return &QuotationRepository{db: db}
}

// FindByID 根据ID查找报价
func (r *QuotationRepository) FindByID(ctx context.Context, id string) (*entity.Quotation, error) {
	var q entity.Quotation
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&q).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &q, nil
}

// ListByInquiry 查询某询价下的全部报价（按提交顺序）
func (r *QuotationRepository) ListByInquiry(ctx context.Context, inquiryID string) ([]entity.Quotation, error) {
	var items []entity.Quotation
	err := r.db.WithContext(ctx).
		Where("inquiry_id = ?", inquiryID).
		Order("created_at ASC").
		Find(&items).Error
	return items, err
}

// Create 创建报价
func (r *QuotationRepository) Create(ctx context.Context, q *entity.Quotation) error {
	return r.db.WithContext(ctx).Create(q).Error
}

// Transition 条件更新报价状态：仅当当前状态属于from时生效，返回受影响行数。
// 并发场景下只有一个调用方能看到 1。
func (r *QuotationRepository) Transition(ctx context.Context, id string, from []string, to string, at time.Time, extra map[string]interface{}) (int64, error) {
	updates := map[string]interface{}{
		"status":     to,
		"updated_at": at,
	}
	for k, v := range extra {
		updates[k] = v
	}
	result := r.db.WithContext(ctx).Model(&entity.Quotation{}).
		Where("id = ? AND status IN ?", id, from).
		Updates(updates)
	return result.RowsAffected, result.Error
}

// RejectOpen 拒绝询价下其他仍有效的未终结报价，返回被拒绝的报价（含拒绝前状态）。
// 已过有效期的报价保持原样，读取时按过期处理。
func (r *QuotationRepository) RejectOpen(ctx context.Context, inquiryID, exceptID, reason string, now time.Time) ([]entity.Quotation, error) {
	var siblings []entity.Quotation
	err := r.db.WithContext(ctx).
		Where("inquiry_id = ? AND id <> ? AND status IN ? AND valid_until >= ?",
			inquiryID, exceptID, entity.SourcesFor(entity.QuotationStatusRejected), now).
		Find(&siblings).Error
	if err != nil {
		return nil, err
	}

	var rejected []entity.Quotation
	for _, q := range siblings {
		n, err := r.Transition(ctx, q.ID, entity.SourcesFor(entity.QuotationStatusRejected), entity.QuotationStatusRejected,
			now, map[string]interface{}{"reject_reason": reason})
		if err != nil {
			return nil, err
		}
		if n == 1 {
			rejected = append(rejected, q)
		}
	}
	return rejected, nil
}

// FindStale 查找已过有效期但仍未终结的报价
func (r *QuotationRepository) FindStale(ctx context.Context, now time.Time, limit int) ([]entity.Quotation, error) {
	var items []entity.Quotation
	query := r.db.WithContext(ctx).
		Where("status IN ? AND valid_until < ?", entity.SourcesFor(entity.QuotationStatusExpired), now).
		Order("valid_until ASC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	err := query.Find(&items).Error
	return items, err
}

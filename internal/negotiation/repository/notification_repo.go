package repository

import (
	"context"

	"github.com/MuhammadMasood9/B2BEcommercw-sub003/internal/negotiation/entity"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// NotificationRepository 协商通知仓库
type NotificationRepository struct {
	db *gorm.DB
}

func NewNotificationRepository(db *gorm.DB) *NotificationRepository {
	return &NotificationRepository{db: db}
}

// Create 写入通知记录
func (r *NotificationRepository) Create(ctx context.Context, n *entity.Notification) error {
	if n.ID == "" {
		n.ID = uuid.New().String()[:32]
	}
	return r.db.WithContext(ctx).Create(n).Error
}

// FindForUser 查询与某用户相关的通知（作为买家或供应商）
func (r *NotificationRepository) FindForUser(ctx context.Context, userID string, filters map[string]string, page, pageSize int) ([]entity.Notification, int64, error) {
	var items []entity.Notification
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.Notification{}).
		Where("(buyer_id = ? OR supplier_id = ?)", userID, userID)

	if quotationID := filters["quotation_id"]; quotationID != "" {
		query = query.Where("quotation_id = ?", quotationID)
	}
	if inquiryID := filters["inquiry_id"]; inquiryID != "" {
		query = query.Where("inquiry_id = ?", inquiryID)
	}
	if typ := filters["type"]; typ != "" {
		query = query.Where("type = ?", typ)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	err := query.
		Order("occurred_at DESC").
		Offset(offset).
		Limit(pageSize).
		Find(&items).Error

	return items, total, err
}

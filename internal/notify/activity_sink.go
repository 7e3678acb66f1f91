package notify

import (
	"context"

	"github.com/MuhammadMasood9/B2BEcommercw-sub003/internal/negotiation/entity"
	"github.com/MuhammadMasood9/B2BEcommercw-sub003/internal/negotiation/repository"
)

// ActivitySink 将事件写入通知表
type ActivitySink struct {
	repo *repository.NotificationRepository
}

func NewActivitySink(repo *repository.NotificationRepository) *ActivitySink {
	return &ActivitySink{repo: repo}
}

func (s *ActivitySink) Name() string { return "activity" }

func (s *ActivitySink) Deliver(ctx context.Context, event Event) error {
	return s.repo.Create(ctx, &entity.Notification{
		Type:        event.Type,
		InquiryID:   event.InquiryID,
		QuotationID: event.QuotationID,
		OrderID:     event.OrderID,
		BuyerID:     event.BuyerID,
		SupplierID:  event.SupplierID,
		ActorID:     event.ActorID,
		ActorRole:   event.ActorRole,
		FromStatus:  event.FromStatus,
		ToStatus:    event.ToStatus,
		Content:     event.Content,
		OccurredAt:  event.Timestamp,
	})
}

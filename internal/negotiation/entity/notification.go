package entity

import "time"

// Notification 协商流转记录（通知中心数据源）
type Notification struct {
	ID          string `json:"id" gorm:"primaryKey;size:32"`
	Type        string `json:"type" gorm:"size:50;not null;index"` // quotation.accepted/order.created/...
	InquiryID   string `json:"inquiry_id" gorm:"size:32;index"`
	QuotationID string `json:"quotation_id" gorm:"size:32;index"`
	OrderID     string `json:"order_id,omitempty" gorm:"size:32"`

	BuyerID    string `json:"buyer_id" gorm:"size:64;index"`
	SupplierID string `json:"supplier_id" gorm:"size:64;index"`

	ActorID    string `json:"actor_id" gorm:"size:64"`
	ActorRole  string `json:"actor_role" gorm:"size:20"`
	FromStatus string `json:"from_status" gorm:"size:20"`
	ToStatus   string `json:"to_status" gorm:"size:20"`
	Content    string `json:"content" gorm:"type:text"`

	OccurredAt time.Time `json:"occurred_at"`
	CreatedAt  time.Time `json:"created_at"`
}

func (Notification) TableName() string {
	return "rfq_notifications"
}

// AllModels 需要迁移的全部表
func AllModels() []interface{} {
	return []interface{}{
		&Inquiry{},
		&Quotation{},
		&CounterOffer{},
		&Order{},
		&Notification{},
	}
}

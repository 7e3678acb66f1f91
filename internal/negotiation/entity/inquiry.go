package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Inquiry 买家询价
type Inquiry struct {
	ID          string           `json:"id" gorm:"primaryKey;size:32"`
	BuyerID     string           `json:"buyer_id" gorm:"size:64;not null;index"`
	ProductID   string           `json:"product_id" gorm:"size:64;not null"`
	SupplierID  string           `json:"supplier_id" gorm:"size:64;not null;index"`
	Quantity    int              `json:"quantity" gorm:"not null"`
	TargetPrice *decimal.Decimal `json:"target_price" gorm:"type:decimal(15,4)"`
	Message     string           `json:"message" gorm:"type:text"`
	Status      string           `json:"status" gorm:"size:20;not null;default:pending;index"` // pending/replied/negotiating/closed
	CloseReason string           `json:"close_reason,omitempty" gorm:"size:20"`                 // accepted/abandoned
	ClosedAt    *time.Time       `json:"closed_at"`
	CreatedAt   time.Time        `json:"created_at"`
	UpdatedAt   time.Time        `json:"updated_at"`

	Quotations []Quotation `json:"quotations,omitempty" gorm:"foreignKey:InquiryID"`
}

func (Inquiry) TableName() string {
	return "rfq_inquiries"
}

// 询价状态
const (
	InquiryStatusPending     = "pending"
	InquiryStatusReplied     = "replied"
	InquiryStatusNegotiating = "negotiating"
	InquiryStatusClosed      = "closed"
)

// 关闭原因
const (
	InquiryCloseAccepted  = "accepted"
	InquiryCloseAbandoned = "abandoned"
)

// ValidInquiryTransitions 合法的询价状态流转
var ValidInquiryTransitions = map[string][]string{
	InquiryStatusPending:     {InquiryStatusReplied, InquiryStatusNegotiating, InquiryStatusClosed},
	InquiryStatusReplied:     {InquiryStatusNegotiating, InquiryStatusClosed},
	InquiryStatusNegotiating: {InquiryStatusClosed},
}

// OpenInquiryStatuses 未关闭的询价状态
var OpenInquiryStatuses = []string{
	InquiryStatusPending,
	InquiryStatusReplied,
	InquiryStatusNegotiating,
}

// CanInquiryTransition 判断询价状态流转是否合法
func CanInquiryTransition(from, to string) bool {
	for _, s := range ValidInquiryTransitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// InquirySourcesFor 返回可以流转到目标状态的所有询价状态
func InquirySourcesFor(to string) []string {
	var from []string
	for _, s := range OpenInquiryStatuses {
		if CanInquiryTransition(s, to) {
			from = append(from, s)
		}
	}
	return from
}

// IsOpen 询价是否仍可协商
func (i *Inquiry) IsOpen() bool {
	return i.Status != InquiryStatusClosed
}

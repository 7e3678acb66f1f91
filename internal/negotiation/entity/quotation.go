package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Quotation 供应商报价
type Quotation struct {
	ID           string          `json:"id" gorm:"primaryKey;size:32"`
	InquiryID    string          `json:"inquiry_id" gorm:"size:32;not null;index"`
	SupplierID   string          `json:"supplier_id" gorm:"size:64;not null;index"`
	PricePerUnit decimal.Decimal `json:"price_per_unit" gorm:"type:decimal(15,4);not null"`
	MOQ          int             `json:"moq" gorm:"not null"`
	TotalPrice   decimal.Decimal `json:"total_price" gorm:"type:decimal(18,4);not null"`
	LeadTime     string          `json:"lead_time" gorm:"size:100"`
	PaymentTerms string          `json:"payment_terms" gorm:"size:100"`
	ValidUntil   time.Time       `json:"valid_until" gorm:"not null;index"`
	Status       string          `json:"status" gorm:"size:20;not null;default:pending;index"` // pending/negotiating/counter_offered/accepted/rejected/expired
	RejectReason string          `json:"reject_reason,omitempty" gorm:"size:500"`
	SupersededBy *string         `json:"superseded_by,omitempty" gorm:"size:32"`
	Notes        string          `json:"notes" gorm:"type:text"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

func (Quotation) TableName() string {
	return "rfq_quotations"
}

// 报价状态
const (
	QuotationStatusPending        = "pending"
	QuotationStatusNegotiating    = "negotiating"
	QuotationStatusCounterOffered = "counter_offered"
	QuotationStatusAccepted       = "accepted"
	QuotationStatusRejected       = "rejected"
	QuotationStatusExpired        = "expired"
)

// 拒绝原因（系统生成）
const (
	RejectReasonSuperseded      = "superseded"
	RejectReasonInquiryClosed   = "inquiry_closed"
	RejectReasonSiblingAccepted = "sibling_accepted"
)

// ValidQuotationTransitions 合法的报价状态流转
var ValidQuotationTransitions = map[string][]string{
	QuotationStatusPending: {
		QuotationStatusNegotiating, QuotationStatusCounterOffered,
		QuotationStatusAccepted, QuotationStatusRejected, QuotationStatusExpired,
	},
	QuotationStatusNegotiating: {
		QuotationStatusNegotiating, QuotationStatusCounterOffered,
		QuotationStatusAccepted, QuotationStatusRejected, QuotationStatusExpired,
	},
	QuotationStatusCounterOffered: {
		QuotationStatusAccepted, QuotationStatusRejected, QuotationStatusExpired,
	},
}

// OpenQuotationStatuses 非终态
var OpenQuotationStatuses = []string{
	QuotationStatusPending,
	QuotationStatusNegotiating,
	QuotationStatusCounterOffered,
}

// CanTransition 判断报价状态流转是否合法
func CanTransition(from, to string) bool {
	for _, s := range ValidQuotationTransitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// SourcesFor 返回可以流转到目标状态的所有来源状态
func SourcesFor(to string) []string {
	var from []string
	for _, s := range OpenQuotationStatuses {
		if CanTransition(s, to) {
			from = append(from, s)
		}
	}
	return from
}

// IsTerminal 终态不再接受任何流转
func (q *Quotation) IsTerminal() bool {
	_, ok := ValidQuotationTransitions[q.Status]
	return !ok
}

// IsExpiredAt validUntil已过且仍处于非终态
func (q *Quotation) IsExpiredAt(now time.Time) bool {
	return !q.IsTerminal() && now.After(q.ValidUntil)
}

// ApplyExpiry 读取时惰性计算过期状态
func (q *Quotation) ApplyExpiry(now time.Time) {
	if q.IsExpiredAt(now) {
		q.Status = QuotationStatusExpired
	}
}

// ComputeTotal totalPrice = pricePerUnit × moq
func ComputeTotal(pricePerUnit decimal.Decimal, moq int) decimal.Decimal {
	return pricePerUnit.Mul(decimal.NewFromInt(int64(moq)))
}

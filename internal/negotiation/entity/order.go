package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Order 报价接受后生成的订单
type Order struct {
	ID              string          `json:"id" gorm:"primaryKey;size:32"`
	OrderCode       string          `json:"order_code" gorm:"size:48;uniqueIndex;not null"`
	QuotationID     string          `json:"quotation_id" gorm:"size:32;not null;uniqueIndex"`
	InquiryID       string          `json:"inquiry_id" gorm:"size:32;not null;uniqueIndex"`
	BuyerID         string          `json:"buyer_id" gorm:"size:64;not null;index"`
	SupplierID      string          `json:"supplier_id" gorm:"size:64;not null;index"`
	Quantity        int             `json:"quantity" gorm:"not null"`
	UnitPrice       decimal.Decimal `json:"unit_price" gorm:"type:decimal(15,4);not null"`
	TotalAmount     decimal.Decimal `json:"total_amount" gorm:"type:decimal(18,4);not null"`
	Currency        string          `json:"currency" gorm:"size:10;default:USD"`
	LeadTime        string          `json:"lead_time" gorm:"size:100"`
	PaymentTerms    string          `json:"payment_terms" gorm:"size:100"`
	ShippingAddress string          `json:"shipping_address" gorm:"size:500;not null"`
	Status          string          `json:"status" gorm:"size:20;not null;default:created"` // created/processing/shipped/delivered/cancelled
	DocumentKey     string          `json:"document_key,omitempty" gorm:"size:200"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

func (Order) TableName() string {
	return "rfq_orders"
}

// 订单状态（created之后由履约方维护）
const (
	OrderStatusCreated    = "created"
	OrderStatusProcessing = "processing"
	OrderStatusShipped    = "shipped"
	OrderStatusDelivered  = "delivered"
	OrderStatusCancelled  = "cancelled"
)

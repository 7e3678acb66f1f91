package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// CounterOffer 买家还价
type CounterOffer struct {
	ID               string          `json:"id" gorm:"primaryKey;size:32"`
	QuotationID      string          `json:"quotation_id" gorm:"size:32;not null;index"`
	ProposedQuantity int             `json:"proposed_quantity" gorm:"not null"`
	ProposedPrice    decimal.Decimal `json:"proposed_price" gorm:"type:decimal(15,4);not null"`
	Message          string          `json:"message" gorm:"type:text"`
	Requirements     string          `json:"requirements" gorm:"type:text"`
	Status           string          `json:"status" gorm:"size:20;not null;default:open"` // open/resolved
	CreatedBy        string          `json:"created_by" gorm:"size:64"`
	ResolvedAt       *time.Time      `json:"resolved_at"`
	CreatedAt        time.Time       `json:"created_at"`
}

func (CounterOffer) TableName() string {
	return "rfq_counter_offers"
}

const (
	CounterOfferStatusOpen     = "open"
	CounterOfferStatusResolved = "resolved"
)

package repository

import (
	"errors"

	"gorm.io/gorm"
)

var (
	ErrNotFound = errors.New("record not found")
)

// Repositories 询报价协商仓库集合
type Repositories struct {
	Inquiry      *InquiryRepository
	Quotation    *QuotationRepository
	CounterOffer *CounterOfferRepository
	Order        *OrderRepository
	Notification *NotificationRepository
}

// NewRepositories 创建仓库集合
func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		Inquiry:      NewInquiryRepository(db),
		Quotation:    NewQuotationRepository(db),
		CounterOffer: NewCounterOfferRepository(db),
		Order:        NewOrderRepository(db),
		Notification: NewNotificationRepository(db),
	}
}

// WithTx 返回绑定到事务的仓库集合，事务内的所有读写必须经由它
func (r *Repositories) WithTx(tx *gorm.DB) *Repositories {
	return NewRepositories(tx)
}

func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}

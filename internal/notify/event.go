package notify

import (
	"context"
	"time"
)

// Event types emitted after a negotiation transition commits
const (
	EventInquiryCreated          = "inquiry.created"
	EventInquiryClosed           = "inquiry.closed"
	EventQuotationSubmitted      = "quotation.submitted"
	EventQuotationCounterOffered = "quotation.counter_offered"
	EventQuotationAccepted       = "quotation.accepted"
	EventQuotationRejected       = "quotation.rejected"
	EventQuotationExpired        = "quotation.expired"
	EventCounterOfferSubmitted   = "counter_offer.submitted"
	EventOrderCreated            = "order.created"
)

// Event describes one committed state change
type Event struct {
	Type        string    `json:"type"`
	InquiryID   string    `json:"inquiry_id"`
	QuotationID string    `json:"quotation_id,omitempty"`
	OrderID     string    `json:"order_id,omitempty"`
	BuyerID     string    `json:"buyer_id,omitempty"`
	SupplierID  string    `json:"supplier_id,omitempty"`
	ActorID     string    `json:"actor_id,omitempty"`
	ActorRole   string    `json:"actor_role"`
	FromStatus  string    `json:"from_status,omitempty"`
	ToStatus    string    `json:"to_status,omitempty"`
	Content     string    `json:"content,omitempty"`
	Timestamp   time.Time `json:"timestamp"`
}

// Notifier receives events. Implementations must not block the caller.
type Notifier interface {
	Notify(ctx context.Context, event Event)
}

// Sink delivers an event to one destination
type Sink interface {
	Name() string
	Deliver(ctx context.Context, event Event) error
}

// Nop discards every event
type Nop struct{}

func (Nop) Notify(context.Context, Event) {}

package notify

import (
	"context"

	"github.com/MuhammadMasood9/B2BEcommercw-sub003/internal/feishu"
	"github.com/MuhammadMasood9/B2BEcommercw-sub003/internal/negotiation/entity"
)

// CardSender is the subset of *feishu.Client used by ChatSink
type CardSender interface {
	SendCard(ctx context.Context, chatID string, card feishu.InteractiveCard) error
}

// ChatSink 将成交与放弃询价推送到运营群
type ChatSink struct {
	sender CardSender
	chatID string
}

func NewChatSink(sender CardSender, chatID string) *ChatSink {
	return &ChatSink{sender: sender, chatID: chatID}
}

func (s *ChatSink) Name() string { return "feishu" }

func (s *ChatSink) Deliver(ctx context.Context, event Event) error {
	card, ok := chatCard(event)
	if !ok {
		return nil
	}
	return s.sender.SendCard(ctx, s.chatID, card)
}

func chatCard(event Event) (feishu.InteractiveCard, bool) {
	switch {
	case event.Type == EventOrderCreated:
		return feishu.NewNoticeCard("New order", "green", []feishu.CardField{
			feishu.Field("Order", event.OrderID),
			feishu.Field("Quotation", event.QuotationID),
			feishu.Field("Buyer", event.BuyerID),
			feishu.Field("Supplier", event.SupplierID),
		}, event.Content), true
	case event.Type == EventInquiryClosed && event.Content == entity.InquiryCloseAbandoned:
		return feishu.NewNoticeCard("Inquiry abandoned", "orange", []feishu.CardField{
			feishu.Field("Inquiry", event.InquiryID),
			feishu.Field("Buyer", event.BuyerID),
			feishu.Field("Supplier", event.SupplierID),
		}, ""), true
	}
	return feishu.InteractiveCard{}, false
}

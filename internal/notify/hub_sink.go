package notify

import (
	"context"
	"encoding/json"

	"github.com/MuhammadMasood9/B2BEcommercw-sub003/internal/sse"
)

// HubSink pushes events to the buyer's and supplier's SSE connections
type HubSink struct {
	hub *sse.Hub
}

func NewHubSink(hub *sse.Hub) *HubSink {
	return &HubSink{hub: hub}
}

func (s *HubSink) Name() string { return "sse" }

func (s *HubSink) Deliver(_ context.Context, event Event) error {
	data, err := json.Marshal(event)
	if err != nil {
		return err
	}
	s.hub.SendToUsers(sse.Event{EventType: event.Type, Data: string(data)}, event.BuyerID, event.SupplierID)
	return nil
}

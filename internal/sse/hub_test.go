package sse

import "testing"

func newClient(id, user string) *Client {
	return &Client{ID: id, UserID: user, Events: make(chan Event, 1)}
}

func TestSendToUsers(t *testing.T) {
	hub := NewHub(nil)
	buyer := newClient("c1", "buyer-1")
	supplier := newClient("c2", "supplier-1")
	other := newClient("c3", "someone-else")
	hub.Register(buyer)
	hub.Register(supplier)
	hub.Register(other)

	sent := hub.SendToUsers(Event{EventType: "quotation.accepted", Data: "{}"}, "buyer-1", "supplier-1", "")
	if sent != 2 {
		t.Fatalf("expected 2 deliveries, got %d", sent)
	}
	if len(buyer.Events) != 1 || len(supplier.Events) != 1 {
		t.Fatalf("buyer and supplier should each have one queued event")
	}
	if len(other.Events) != 0 {
		t.Fatalf("unrelated client should not receive the event")
	}
}

func TestFullBufferSkipsClient(t *testing.T) {
	hub := NewHub(nil)
	c := newClient("c1", "u1")
	hub.Register(c)

	if sent := hub.SendToUsers(Event{EventType: "a"}, "u1"); sent != 1 {
		t.Fatalf("expected first event to be queued, got %d", sent)
	}
	if sent := hub.SendToUsers(Event{EventType: "b"}, "u1"); sent != 0 {
		t.Fatalf("expected second event to be skipped, got %d", sent)
	}

	if got := (<-c.Events).EventType; got != "a" {
		t.Fatalf("expected first event to be kept, got %s", got)
	}
	if len(c.Events) != 0 {
		t.Fatalf("second event should have been dropped")
	}
}

func TestUnregisterClosesChannel(t *testing.T) {
	hub := NewHub(nil)
	c := newClient("c1", "u1")
	hub.Register(c)
	hub.Unregister("c1")
	hub.Unregister("c1")

	if hub.ClientCount() != 0 {
		t.Fatalf("expected no clients, got %d", hub.ClientCount())
	}
	if _, ok := <-c.Events; ok {
		t.Fatalf("channel should be closed after unregister")
	}
}

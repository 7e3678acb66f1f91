package feishu

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
)

type fakeOpenAPI struct {
	tokenCalls int32
	sent       []map[string]interface{}
	sendCode   int
}

func (f *fakeOpenAPI) handler(t *testing.T) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/open-apis/auth/v3/app_access_token/internal", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&f.tokenCalls, 1)
		var req map[string]string
		json.NewDecoder(r.Body).Decode(&req)
		if req["app_id"] != "cli_test" {
			json.NewEncoder(w).Encode(map[string]interface{}{"code": 10003, "msg": "invalid app_id"})
			return
		}
		json.NewEncoder(w).Encode(map[string]interface{}{
			"code": 0, "msg": "ok", "app_access_token": "t-abc", "expire": 7200,
		})
	})
	mux.HandleFunc("/open-apis/im/v1/messages", func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer t-abc" {
			t.Errorf("unexpected authorization header %q", got)
		}
		if r.URL.Query().Get("receive_id_type") != "chat_id" {
			t.Errorf("expected receive_id_type=chat_id, got %q", r.URL.RawQuery)
		}
		var body map[string]interface{}
		json.NewDecoder(r.Body).Decode(&body)
		f.sent = append(f.sent, body)
		json.NewEncoder(w).Encode(map[string]interface{}{"code": f.sendCode, "msg": "rejected"})
	})
	return mux
}

func TestSendCardCachesToken(t *testing.T) {
	api := &fakeOpenAPI{}
	srv := httptest.NewServer(api.handler(t))
	defer srv.Close()

	client := NewClient("cli_test", "secret", srv.URL)
	card := NewNoticeCard("New order", "green", []CardField{Field("Order", "ORD-1")}, "total 10.00")

	for i := 0; i < 3; i++ {
		if err := client.SendCard(context.Background(), "oc_chat", card); err != nil {
			t.Fatalf("SendCard: %v", err)
		}
	}
	if n := atomic.LoadInt32(&api.tokenCalls); n != 1 {
		t.Fatalf("expected the token to be fetched once, got %d", n)
	}
	if len(api.sent) != 3 {
		t.Fatalf("expected 3 messages, got %d", len(api.sent))
	}

	msg := api.sent[0]
	if msg["receive_id"] != "oc_chat" || msg["msg_type"] != "interactive" {
		t.Fatalf("unexpected message envelope: %v", msg)
	}
	var decoded InteractiveCard
	if err := json.Unmarshal([]byte(msg["content"].(string)), &decoded); err != nil {
		t.Fatalf("card content is not JSON: %v", err)
	}
	if decoded.Header.Title.Content != "New order" || len(decoded.Elements) != 3 {
		t.Fatalf("unexpected card: %+v", decoded)
	}
}

func TestSendCardReportsAPIError(t *testing.T) {
	api := &fakeOpenAPI{sendCode: 230002}
	srv := httptest.NewServer(api.handler(t))
	defer srv.Close()

	err := NewClient("cli_test", "secret", srv.URL).SendCard(context.Background(), "oc_chat", InteractiveCard{})
	if err == nil || !strings.Contains(err.Error(), "230002") {
		t.Fatalf("expected the api error code in the error, got %v", err)
	}
}

func TestTokenError(t *testing.T) {
	api := &fakeOpenAPI{}
	srv := httptest.NewServer(api.handler(t))
	defer srv.Close()

	_, err := NewClient("cli_wrong", "secret", srv.URL).AppAccessToken(context.Background())
	if err == nil || !strings.Contains(err.Error(), "10003") {
		t.Fatalf("expected token error, got %v", err)
	}
	if len(api.sent) != 0 {
		t.Fatalf("no message should be sent without a token")
	}
}

func TestNoticeCardWithoutNote(t *testing.T) {
	card := NewNoticeCard("Inquiry abandoned", "orange", []CardField{Field("Inquiry", "inq-1")}, "")
	if len(card.Elements) != 1 {
		t.Fatalf("expected only the field block, got %d elements", len(card.Elements))
	}
	if got := card.Elements[0].Fields[0].Text.Content; got != "**Inquiry**\ninq-1" {
		t.Fatalf("unexpected field content %q", got)
	}
}

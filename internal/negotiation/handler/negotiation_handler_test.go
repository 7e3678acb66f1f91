package handler

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/MuhammadMasood9/B2BEcommercw-sub003/internal/middleware"
	"github.com/MuhammadMasood9/B2BEcommercw-sub003/internal/negotiation/entity"
	"github.com/MuhammadMasood9/B2BEcommercw-sub003/internal/negotiation/repository"
	"github.com/MuhammadMasood9/B2BEcommercw-sub003/internal/negotiation/service"
	"github.com/MuhammadMasood9/B2BEcommercw-sub003/internal/notify"
	"github.com/MuhammadMasood9/B2BEcommercw-sub003/internal/sse"
	"github.com/MuhammadMasood9/B2BEcommercw-sub003/internal/testutil"
	"go.uber.org/zap"
)

type negotiationEnv struct {
	*testutil.TestEnv
	repos      *repository.Repositories
	dispatcher *notify.Dispatcher
}

// flush waits until every queued notification has been written
func (e *negotiationEnv) flush() {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	e.dispatcher.Close(ctx)
}

func setupNegotiationTest(t *testing.T) *negotiationEnv {
	t.Helper()
	db := testutil.SetupTestDB(t)
	router := testutil.SetupRouter()

	repos := repository.NewRepositories(db)
	hub := sse.NewHub(nil)
	dispatcher := notify.NewDispatcher(zap.NewNop(), notify.Options{Workers: 1},
		notify.NewActivitySink(repos.Notification), notify.NewHubSink(hub))
	t.Cleanup(func() { dispatcher.Close(context.Background()) })

	svc := service.NewNegotiationService(db, repos, dispatcher, zap.NewNop())
	api := testutil.AuthGroup(router, "/api/v1")
	RegisterRoutes(api, NewHandlers(svc, repos, hub))

	return &negotiationEnv{
		TestEnv:    &testutil.TestEnv{DB: db, Router: router, T: t},
		repos:      repos,
		dispatcher: dispatcher,
	}
}

func validUntil(d time.Duration) string {
	return time.Now().Add(d).UTC().Format(time.RFC3339)
}

func dataOf(t *testing.T, resp map[string]interface{}) map[string]interface{} {
	t.Helper()
	data, ok := resp["data"].(map[string]interface{})
	if !ok {
		t.Fatalf("response has no data object: %v", resp)
	}
	return data
}

func expectCode(t *testing.T, resp map[string]interface{}, code int) {
	t.Helper()
	if got, _ := resp["code"].(float64); int(got) != code {
		t.Fatalf("expected code %d, got %v (%v)", code, resp["code"], resp["message"])
	}
}

func TestNegotiationLifecycle(t *testing.T) {
	env := setupNegotiationTest(t)
	buyer, supplier := testutil.BuyerToken(), testutil.SupplierToken()

	w := testutil.DoRequest(env.Router, "POST", "/api/v1/inquiries", map[string]interface{}{
		"product_id":  "product-001",
		"supplier_id": testutil.SupplierID,
		"quantity":    1000,
		"message":     "need 1000 units",
	}, buyer)
	if w.Code != http.StatusCreated {
		t.Fatalf("Expected 201, got %d: %s", w.Code, w.Body.String())
	}
	inquiryID := dataOf(t, testutil.ParseResponse(w))["id"].(string)

	w = testutil.DoRequest(env.Router, "POST", "/api/v1/inquiries/"+inquiryID+"/quotations", map[string]interface{}{
		"price_per_unit": "15.50",
		"moq":            1000,
		"lead_time":      "30 days",
		"payment_terms":  "T/T",
		"valid_until":    validUntil(48 * time.Hour),
	}, supplier)
	if w.Code != http.StatusCreated {
		t.Fatalf("Expected 201, got %d: %s", w.Code, w.Body.String())
	}
	quotation := dataOf(t, testutil.ParseResponse(w))
	quotationID := quotation["id"].(string)
	if quotation["total_price"] != "15500" {
		t.Errorf("Expected total_price 15500, got %v", quotation["total_price"])
	}

	w = testutil.DoRequest(env.Router, "POST", "/api/v1/quotations/"+quotationID+"/counter-offers", map[string]interface{}{
		"proposed_quantity": 1000,
		"proposed_price":    "14.00",
		"message":           "can you do 14?",
	}, buyer)
	if w.Code != http.StatusCreated {
		t.Fatalf("Expected 201, got %d: %s", w.Code, w.Body.String())
	}

	w = testutil.DoRequest(env.Router, "GET", "/api/v1/quotations/"+quotationID, nil, buyer)
	if status := dataOf(t, testutil.ParseResponse(w))["status"]; status != entity.QuotationStatusNegotiating {
		t.Fatalf("Expected negotiating, got %v", status)
	}

	w = testutil.DoRequest(env.Router, "POST", "/api/v1/quotations/"+quotationID+"/accept", map[string]interface{}{
		"shipping_address": "123 Main St",
	}, buyer)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
	}
	order := dataOf(t, testutil.ParseResponse(w))
	if order["total_amount"] != "15500" || order["quotation_id"] != quotationID {
		t.Errorf("Unexpected order: %v", order)
	}

	// repeat accept returns the same order
	w = testutil.DoRequest(env.Router, "POST", "/api/v1/quotations/"+quotationID+"/accept", map[string]interface{}{
		"shipping_address": "123 Main St",
	}, buyer)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if again := dataOf(t, testutil.ParseResponse(w)); again["id"] != order["id"] {
		t.Fatalf("Expected same order %v, got %v", order["id"], again["id"])
	}

	w = testutil.DoRequest(env.Router, "GET", "/api/v1/inquiries/"+inquiryID, nil, supplier)
	if status := dataOf(t, testutil.ParseResponse(w))["status"]; status != entity.InquiryStatusClosed {
		t.Fatalf("Expected inquiry closed, got %v", status)
	}

	w = testutil.DoRequest(env.Router, "GET", "/api/v1/orders", nil, supplier)
	list := dataOf(t, testutil.ParseResponse(w))
	if items := list["items"].([]interface{}); len(items) != 1 {
		t.Fatalf("Expected supplier to see 1 order, got %d", len(items))
	}

	env.flush()
	w = testutil.DoRequest(env.Router, "GET", "/api/v1/notifications?quotation_id="+quotationID, nil, buyer)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
	}
	notifications := dataOf(t, testutil.ParseResponse(w))["items"].([]interface{})
	// submitted, counter_offer, accepted, order.created, inquiry.closed
	if len(notifications) != 5 {
		t.Fatalf("Expected 5 notifications, got %d", len(notifications))
	}
}

func TestAcceptErrorsMapToStatus(t *testing.T) {
	env := setupNegotiationTest(t)
	buyer := testutil.BuyerToken()

	inquiry := testutil.SeedInquiry(t, env.DB, entity.InquiryStatusReplied)
	winner := testutil.SeedQuotation(t, env.DB, inquiry.ID, "10.00", 10, time.Now().Add(time.Hour), entity.QuotationStatusPending)
	loser := testutil.SeedQuotation(t, env.DB, inquiry.ID, "11.00", 10, time.Now().Add(time.Hour), entity.QuotationStatusPending)
	other := testutil.SeedInquiry(t, env.DB, entity.InquiryStatusReplied)
	lapsed := testutil.SeedQuotation(t, env.DB, other.ID, "9.00", 10, time.Now().Add(-time.Hour), entity.QuotationStatusPending)

	body := map[string]interface{}{"shipping_address": "1 Dock Rd"}

	w := testutil.DoRequest(env.Router, "POST", "/api/v1/quotations/"+winner.ID+"/accept", map[string]interface{}{}, buyer)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("Expected 400 without address, got %d", w.Code)
	}
	expectCode(t, testutil.ParseResponse(w), CodeValidation)

	w = testutil.DoRequest(env.Router, "POST", "/api/v1/quotations/"+winner.ID+"/accept", body, buyer)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
	}

	w = testutil.DoRequest(env.Router, "POST", "/api/v1/quotations/"+loser.ID+"/accept", body, buyer)
	if w.Code != http.StatusConflict {
		t.Fatalf("Expected 409, got %d: %s", w.Code, w.Body.String())
	}
	expectCode(t, testutil.ParseResponse(w), CodeAlreadyAccepted)

	w = testutil.DoRequest(env.Router, "POST", "/api/v1/quotations/"+lapsed.ID+"/accept", body, buyer)
	if w.Code != http.StatusGone {
		t.Fatalf("Expected 410, got %d: %s", w.Code, w.Body.String())
	}
	resp := testutil.ParseResponse(w)
	expectCode(t, resp, CodeExpired)
	if msg, _ := resp["message"].(string); msg == "" {
		t.Errorf("Expected a descriptive message")
	}

	w = testutil.DoRequest(env.Router, "POST", "/api/v1/quotations/missing/accept", body, buyer)
	if w.Code != http.StatusNotFound {
		t.Fatalf("Expected 404, got %d", w.Code)
	}
}

func TestCounterOfferOnRejectedQuotation(t *testing.T) {
	env := setupNegotiationTest(t)
	buyer, supplier := testutil.BuyerToken(), testutil.SupplierToken()

	inquiry := testutil.SeedInquiry(t, env.DB, entity.InquiryStatusReplied)
	q := testutil.SeedQuotation(t, env.DB, inquiry.ID, "5.00", 100, time.Now().Add(time.Hour), entity.QuotationStatusPending)

	w := testutil.DoRequest(env.Router, "POST", "/api/v1/quotations/"+q.ID+"/reject", map[string]interface{}{
		"reason": "lead time too long",
	}, supplier)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if reason := dataOf(t, testutil.ParseResponse(w))["reject_reason"]; reason != "lead time too long" {
		t.Errorf("Expected reason to be stored, got %v", reason)
	}

	w = testutil.DoRequest(env.Router, "POST", "/api/v1/quotations/"+q.ID+"/counter-offers", map[string]interface{}{
		"proposed_quantity": 100,
		"proposed_price":    "4.50",
	}, buyer)
	if w.Code != http.StatusConflict {
		t.Fatalf("Expected 409, got %d: %s", w.Code, w.Body.String())
	}
	expectCode(t, testutil.ParseResponse(w), CodeInvalidTransition)

	w = testutil.DoRequest(env.Router, "GET", "/api/v1/inquiries/"+inquiry.ID, nil, buyer)
	if status := dataOf(t, testutil.ParseResponse(w))["status"]; status != entity.InquiryStatusReplied {
		t.Fatalf("Reject must not close the inquiry, got %v", status)
	}
}

func TestRoleGuards(t *testing.T) {
	env := setupNegotiationTest(t)
	inquiry := testutil.SeedInquiry(t, env.DB, entity.InquiryStatusReplied)
	q := testutil.SeedQuotation(t, env.DB, inquiry.ID, "5.00", 100, time.Now().Add(time.Hour), entity.QuotationStatusPending)

	w := testutil.DoRequest(env.Router, "POST", "/api/v1/quotations/"+q.ID+"/accept", map[string]interface{}{
		"shipping_address": "1 Road",
	}, testutil.SupplierToken())
	if w.Code != http.StatusForbidden {
		t.Fatalf("Supplier must not accept, got %d", w.Code)
	}

	w = testutil.DoRequest(env.Router, "POST", "/api/v1/inquiries/"+inquiry.ID+"/quotations", map[string]interface{}{
		"price_per_unit": "1.00", "moq": 1, "valid_until": validUntil(time.Hour),
	}, testutil.BuyerToken())
	if w.Code != http.StatusForbidden {
		t.Fatalf("Buyer must not quote, got %d", w.Code)
	}

	w = testutil.DoRequest(env.Router, "POST", "/api/v1/admin/quotations/expire", nil, testutil.BuyerToken())
	if w.Code != http.StatusForbidden {
		t.Fatalf("Buyer must not run the sweep, got %d", w.Code)
	}

	w = testutil.DoRequest(env.Router, "GET", "/api/v1/quotations/"+q.ID, nil, "")
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("Expected 401 without token, got %d", w.Code)
	}

	stranger := testutil.GenerateTestToken("buyer-999", "Other Buyer", []string{middleware.RoleBuyer})
	w = testutil.DoRequest(env.Router, "GET", "/api/v1/inquiries/"+inquiry.ID, nil, stranger)
	if w.Code != http.StatusNotFound {
		t.Fatalf("Unrelated buyer should not see the inquiry, got %d", w.Code)
	}
}

func TestAdminExpireSweep(t *testing.T) {
	env := setupNegotiationTest(t)
	inquiry := testutil.SeedInquiry(t, env.DB, entity.InquiryStatusReplied)
	testutil.SeedQuotation(t, env.DB, inquiry.ID, "5.00", 100, time.Now().Add(-time.Hour), entity.QuotationStatusPending)
	testutil.SeedQuotation(t, env.DB, inquiry.ID, "5.00", 100, time.Now().Add(-time.Minute), entity.QuotationStatusNegotiating)
	testutil.SeedQuotation(t, env.DB, inquiry.ID, "5.00", 100, time.Now().Add(time.Hour), entity.QuotationStatusPending)

	w := testutil.DoRequest(env.Router, "POST", "/api/v1/admin/quotations/expire", nil, testutil.AdminToken())
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if count := dataOf(t, testutil.ParseResponse(w))["count"]; count != float64(2) {
		t.Fatalf("Expected 2 expired, got %v", count)
	}

	w = testutil.DoRequest(env.Router, "GET", "/api/v1/inquiries/"+inquiry.ID+"/quotations?status=expired", nil, testutil.BuyerToken())
	if items := dataOf(t, testutil.ParseResponse(w))["items"].([]interface{}); len(items) != 2 {
		t.Fatalf("Expected 2 expired quotations, got %d", len(items))
	}
}

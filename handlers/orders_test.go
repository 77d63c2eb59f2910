package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

const orderBody = `{"buyer_id":"user-1","items":[{"item_id":"A","quantity":2,"price":10},{"item_id":"B","quantity":1,"price":5}]}`

func TestCreateOrderServiceGate(t *testing.T) {
	tests := []struct {
		name       string
		header     string
		wantStatus int
	}{
		{"missing header", "", http.StatusUnauthorized},
		{"wrong secret", "not-the-secret", http.StatusUnauthorized},
		{"correct secret", testServiceRoleKey, http.StatusCreated},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newStores()
			api := newTestAPI(t, s)

			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, "/api/orders/create", strings.NewReader(orderBody))
			if tt.header != "" {
				req.Header.Set("X-Service-Role", tt.header)
			}
			api.ServeHTTP(w, req)

			if w.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d; body %s", w.Code, tt.wantStatus, w.Body.String())
			}
		})
	}
}

func TestCreateOrderComputesTotalAndLines(t *testing.T) {
	s := newStores()
	api := newTestAPI(t, s)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/orders/create", strings.NewReader(orderBody))
	req.Header.Set("X-Service-Role", testServiceRoleKey)
	api.ServeHTTP(w, req)

	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, want %d; body %s", w.Code, http.StatusCreated, w.Body.String())
	}

	var body struct {
		OrderID int64  `json:"order_id"`
		Total   int64  `json:"total"`
		Status  string `json:"status"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if body.Total != 25 {
		t.Errorf("total = %d, want 25", body.Total)
	}
	if body.Status != "pending" {
		t.Errorf("status = %q, want %q", body.Status, "pending")
	}
	if got := len(s.orders.itemsByID[body.OrderID]); got != 2 {
		t.Errorf("order_items rows = %d, want 2", got)
	}
}

func TestCreateOrderCompensatesOnItemsFailure(t *testing.T) {
	s := newStores()
	s.orders.failItems = true
	api := newTestAPI(t, s)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/orders/create", strings.NewReader(orderBody))
	req.Header.Set("X-Service-Role", testServiceRoleKey)
	api.ServeHTTP(w, req)

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusInternalServerError)
	}
	if len(s.orders.orders) != 0 {
		t.Errorf("order rows remaining = %d, want 0 after compensation", len(s.orders.orders))
	}
	if len(s.orders.deleteCalls) != 1 {
		t.Errorf("compensating deletes = %d, want 1", len(s.orders.deleteCalls))
	}
}

func TestCreateOrderEmptyItemsRejected(t *testing.T) {
	s := newStores()
	api := newTestAPI(t, s)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/orders/create",
		strings.NewReader(`{"buyer_id":"user-1","items":[]}`))
	req.Header.Set("X-Service-Role", testServiceRoleKey)
	api.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusBadRequest)
	}
	if s.orders.nextID != 0 {
		t.Errorf("order was inserted despite empty items")
	}
}

func TestOrderWebhookMarksOrderPaid(t *testing.T) {
	s := newStores()
	api := newTestAPI(t, s)

	// seed an order the webhook can reference
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/orders/create", strings.NewReader(orderBody))
	req.Header.Set("X-Service-Role", testServiceRoleKey)
	api.ServeHTTP(w, req)
	if w.Code != http.StatusCreated {
		t.Fatalf("seed order: status = %d", w.Code)
	}

	event := `{
		"type": "payment_intent.succeeded",
		"data": {"object": {"id": "pi_123", "metadata": {"order_id": "1"}}}
	}`
	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodPost, "/api/orders/webhook", strings.NewReader(event))
	api.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d; body %s", w.Code, http.StatusOK, w.Body.String())
	}
	if got := s.orders.orders[1].Status; got != "paid" {
		t.Errorf("order status = %q, want %q", got, "paid")
	}
}

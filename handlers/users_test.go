package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"marketplace-service/internal/users"
	"marketplace-service/internal/vendors"
)

func TestCreateUserVendorRoleAutoCreatesVendor(t *testing.T) {
	s := newStores()
	api := newTestAPI(t, s)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/users",
		strings.NewReader(`{"id":"user-77","email":"shop@example.com","role":"vendor"}`))
	api.ServeHTTP(w, req)

	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, want %d; body %s", w.Code, http.StatusCreated, w.Body.String())
	}

	var body struct {
		User   users.User      `json:"user"`
		Vendor *vendors.Vendor `json:"vendor"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if body.Vendor == nil {
		t.Fatal("vendor = nil, want auto-created vendor row")
	}
	if body.Vendor.Name != "shop@example.com-vendor" {
		t.Errorf("vendor name = %q, want %q", body.Vendor.Name, "shop@example.com-vendor")
	}
	if body.Vendor.OwnerUserID == nil || *body.Vendor.OwnerUserID != "user-77" {
		t.Errorf("vendor owner = %v, want user-77", body.Vendor.OwnerUserID)
	}
}

func TestCreateUserCustomerRoleHasNoVendor(t *testing.T) {
	s := newStores()
	api := newTestAPI(t, s)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/users",
		strings.NewReader(`{"id":"user-78","email":"buyer@example.com"}`))
	api.ServeHTTP(w, req)

	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, want %d; body %s", w.Code, http.StatusCreated, w.Body.String())
	}
	if len(s.vens.insertCalls) != 0 {
		t.Errorf("vendor inserts = %d, want 0", len(s.vens.insertCalls))
	}

	var body struct {
		User users.User `json:"user"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if body.User.Role != "customer" {
		t.Errorf("role = %q, want default %q", body.User.Role, "customer")
	}
}

func TestCreateUserMissingIdOrEmail(t *testing.T) {
	for _, body := range []string{`{"email":"a@b.com"}`, `{"id":"user-1"}`} {
		s := newStores()
		api := newTestAPI(t, s)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/users", strings.NewReader(body))
		api.ServeHTTP(w, req)

		if w.Code != http.StatusBadRequest {
			t.Fatalf("body %s: status = %d, want %d", body, w.Code, http.StatusBadRequest)
		}
		if len(s.users.insertCalls) != 0 {
			t.Errorf("insert calls = %d, want 0", len(s.users.insertCalls))
		}
	}
}

func TestGetUserReturnsOwnedVendor(t *testing.T) {
	s := newStores()
	owner := "user-9"
	s.users.byID[owner] = users.User{ID: owner, Email: "v@example.com", Role: "vendor"}
	s.vens.byID["ven-9"] = vendors.Vendor{ID: "ven-9", Name: "niner", OwnerUserID: &owner}
	api := newTestAPI(t, s)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/users?uid=user-9", nil)
	api.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d; body %s", w.Code, http.StatusOK, w.Body.String())
	}
	var body struct {
		Vendor *vendors.Vendor `json:"vendor"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if body.Vendor == nil || body.Vendor.ID != "ven-9" {
		t.Errorf("vendor = %+v, want ven-9", body.Vendor)
	}
}

func TestUpdateUserPartialPatch(t *testing.T) {
	s := newStores()
	phone := "555-0100"
	s.users.byID["user-5"] = users.User{ID: "user-5", Email: "u5@example.com", Phone: &phone, Role: "customer"}
	api := newTestAPI(t, s)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPatch, "/api/users",
		strings.NewReader(`{"id":"user-5","full_name":"Utah Fiver"}`))
	api.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d; body %s", w.Code, http.StatusOK, w.Body.String())
	}
	var body struct {
		User users.User `json:"user"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if body.User.FullName == nil || *body.User.FullName != "Utah Fiver" {
		t.Errorf("full_name = %v, want Utah Fiver", body.User.FullName)
	}
	if body.User.Phone == nil || *body.User.Phone != phone {
		t.Errorf("phone changed; absent fields must be left alone")
	}
}

func TestUpdateUserMissingId(t *testing.T) {
	s := newStores()
	api := newTestAPI(t, s)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPatch, "/api/users",
		strings.NewReader(`{"full_name":"No Id"}`))
	api.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusBadRequest)
	}
}

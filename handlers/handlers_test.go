package handlers

import (
	"context"
	"database/sql"
	"fmt"
	"testing"
	"time"

	"marketplace-service/internal/auth"
	"marketplace-service/internal/categories"
	"marketplace-service/internal/items"
	"marketplace-service/internal/orders"
	"marketplace-service/internal/users"
	"marketplace-service/internal/vendors"
	"marketplace-service/middleware"

	"github.com/gin-gonic/gin"
)

const testServiceRoleKey = "service-secret"

// Tokens the fake resolver accepts, mapped to identities with the roles the
// fake user store reports.
var testIdentities = map[string]auth.Identity{
	"admin-token":   {ID: "user-admin", Email: "admin@example.com"},
	"vendor-token":  {ID: "user-vendor", Email: "vendor@example.com"},
	"vendor2-token": {ID: "user-vendor2", Email: "vendor2@example.com"},
}

var testRoles = map[string]string{
	"user-admin":   auth.RoleAdmin,
	"user-vendor":  auth.RoleVendor,
	"user-vendor2": auth.RoleVendor,
}

type fakeResolver struct{}

func (fakeResolver) ResolveToken(_ context.Context, token string) (auth.Identity, error) {
	if identity, ok := testIdentities[token]; ok {
		return identity, nil
	}
	return auth.Identity{}, auth.ErrInvalidToken
}

type fakeCategoryStore struct {
	byID map[string]categories.Category

	searchCalls []struct {
		Search        string
		Limit, Offset int
	}
	insertCalls []categories.NewCategory
	updateCalls []string
	deleteCalls []string
}

func (f *fakeCategoryStore) SearchCategories(_ context.Context, search string, limit, offset int) ([]categories.Category, error) {
	f.searchCalls = append(f.searchCalls, struct {
		Search        string
		Limit, Offset int
	}{search, limit, offset})
	return []categories.Category{}, nil
}

func (f *fakeCategoryStore) InsertCategory(_ context.Context, nc categories.NewCategory) (categories.Category, error) {
	f.insertCalls = append(f.insertCalls, nc)
	return categories.Category{ID: "cat-1", Name: nc.Name, CreatedAt: time.Now(), UpdatedAt: time.Now()}, nil
}

func (f *fakeCategoryStore) GetCategoryByID(_ context.Context, id string) (categories.Category, error) {
	if c, ok := f.byID[id]; ok {
		return c, nil
	}
	return categories.Category{}, sql.ErrNoRows
}

func (f *fakeCategoryStore) UpdateCategory(_ context.Context, id string, uc categories.UpdateCategory) (categories.Category, error) {
	f.updateCalls = append(f.updateCalls, id)
	c, ok := f.byID[id]
	if !ok {
		return categories.Category{}, sql.ErrNoRows
	}
	if uc.Name != nil {
		c.Name = *uc.Name
	}
	if uc.ImageURL != nil {
		c.ImageURL = uc.ImageURL
	}
	if uc.Description != nil {
		c.Description = uc.Description
	}
	return c, nil
}

func (f *fakeCategoryStore) DeleteCategory(_ context.Context, id string) (string, error) {
	f.deleteCalls = append(f.deleteCalls, id)
	if _, ok := f.byID[id]; !ok {
		return "", sql.ErrNoRows
	}
	delete(f.byID, id)
	return id, nil
}

type fakeVendorStore struct {
	byID map[string]vendors.Vendor

	insertCalls []vendors.NewVendor
}

func (f *fakeVendorStore) SearchVendors(_ context.Context, _ string, _, _ int) ([]vendors.Vendor, error) {
	out := []vendors.Vendor{}
	for _, v := range f.byID {
		out = append(out, v)
	}
	return out, nil
}

func (f *fakeVendorStore) InsertVendor(_ context.Context, nv vendors.NewVendor) (vendors.Vendor, error) {
	f.insertCalls = append(f.insertCalls, nv)
	v := vendors.Vendor{
		ID:          fmt.Sprintf("ven-%d", len(f.insertCalls)),
		Name:        nv.Name,
		Type:        nv.Type,
		Address:     nv.Address,
		OwnerUserID: nv.OwnerUserID,
	}
	if f.byID == nil {
		f.byID = map[string]vendors.Vendor{}
	}
	f.byID[v.ID] = v
	return v, nil
}

func (f *fakeVendorStore) GetVendorByID(_ context.Context, id string) (vendors.Vendor, error) {
	if v, ok := f.byID[id]; ok {
		return v, nil
	}
	return vendors.Vendor{}, sql.ErrNoRows
}

func (f *fakeVendorStore) GetVendorByOwner(_ context.Context, ownerUserID string) (vendors.Vendor, error) {
	for _, v := range f.byID {
		if v.OwnerUserID != nil && *v.OwnerUserID == ownerUserID {
			return v, nil
		}
	}
	return vendors.Vendor{}, sql.ErrNoRows
}

func (f *fakeVendorStore) UpdateVendor(_ context.Context, id string, uv vendors.UpdateVendor) (vendors.Vendor, error) {
	v, ok := f.byID[id]
	if !ok {
		return vendors.Vendor{}, sql.ErrNoRows
	}
	if uv.Name != nil {
		v.Name = *uv.Name
	}
	if uv.Type != nil {
		v.Type = uv.Type
	}
	if uv.Address != nil {
		v.Address = uv.Address
	}
	f.byID[id] = v
	return v, nil
}

func (f *fakeVendorStore) DeleteVendor(_ context.Context, id string) (string, error) {
	if _, ok := f.byID[id]; !ok {
		return "", sql.ErrNoRows
	}
	delete(f.byID, id)
	return id, nil
}

type fakeItemStore struct {
	byID map[string]items.Item

	insertCalls []items.NewItem
}

func (f *fakeItemStore) SearchItems(_ context.Context, _ items.SearchParams) ([]items.Item, error) {
	return []items.Item{}, nil
}

func (f *fakeItemStore) InsertItem(_ context.Context, ni items.NewItem) (items.Item, error) {
	f.insertCalls = append(f.insertCalls, ni)
	status := ni.Status
	if status == "" {
		status = items.StatusDraft
	}
	return items.Item{
		ID:         fmt.Sprintf("item-%d", len(f.insertCalls)),
		Name:       ni.Name,
		Price:      ni.Price,
		Stock:      ni.Stock,
		VendorID:   ni.VendorID,
		CategoryID: ni.CategoryID,
		Status:     status,
	}, nil
}

func (f *fakeItemStore) GetItemByID(_ context.Context, id string) (items.Item, error) {
	if i, ok := f.byID[id]; ok {
		return i, nil
	}
	return items.Item{}, sql.ErrNoRows
}

type fakeUserStore struct {
	byID map[string]users.User

	insertCalls []users.NewUser
}

func (f *fakeUserStore) InsertUser(_ context.Context, nu users.NewUser) (users.User, error) {
	f.insertCalls = append(f.insertCalls, nu)
	role := nu.Role
	if role == "" {
		role = auth.RoleCustomer
	}
	u := users.User{ID: nu.ID, Email: nu.Email, FullName: nu.FullName, Role: role}
	if f.byID == nil {
		f.byID = map[string]users.User{}
	}
	f.byID[u.ID] = u
	return u, nil
}

func (f *fakeUserStore) GetUserByID(_ context.Context, id string) (users.User, error) {
	if u, ok := f.byID[id]; ok {
		return u, nil
	}
	return users.User{}, sql.ErrNoRows
}

func (f *fakeUserStore) GetUserRole(_ context.Context, id string) (string, error) {
	return testRoles[id], nil
}

func (f *fakeUserStore) UpdateUser(_ context.Context, id string, uu users.UpdateUser) (users.User, error) {
	u, ok := f.byID[id]
	if !ok {
		return users.User{}, sql.ErrNoRows
	}
	if uu.FullName != nil {
		u.FullName = uu.FullName
	}
	if uu.Phone != nil {
		u.Phone = uu.Phone
	}
	if uu.Role != nil {
		u.Role = *uu.Role
	}
	f.byID[id] = u
	return u, nil
}

type fakeOrderStore struct {
	nextID      int64
	orders      map[int64]orders.Order
	itemsByID   map[int64][]orders.OrderLine
	failItems   bool
	deleteCalls []int64
}

func (f *fakeOrderStore) InsertOrder(_ context.Context, buyerID *string, total int64) (orders.Order, error) {
	f.nextID++
	o := orders.Order{ID: f.nextID, BuyerID: buyerID, Total: total, Status: orders.StatusPending}
	if f.orders == nil {
		f.orders = map[int64]orders.Order{}
	}
	f.orders[o.ID] = o
	return o, nil
}

func (f *fakeOrderStore) InsertOrderItems(_ context.Context, orderID int64, lines []orders.OrderLine) error {
	if f.failItems {
		return fmt.Errorf("order_items insert failed")
	}
	if f.itemsByID == nil {
		f.itemsByID = map[int64][]orders.OrderLine{}
	}
	f.itemsByID[orderID] = lines
	return nil
}

func (f *fakeOrderStore) DeleteOrder(_ context.Context, orderID int64) error {
	f.deleteCalls = append(f.deleteCalls, orderID)
	delete(f.orders, orderID)
	return nil
}

func (f *fakeOrderStore) GetOrderByID(_ context.Context, orderID int64) (orders.Order, error) {
	if o, ok := f.orders[orderID]; ok {
		return o, nil
	}
	return orders.Order{}, sql.ErrNoRows
}

func (f *fakeOrderStore) UpdateOrderStatus(_ context.Context, orderID int64, status string, transactionID string) error {
	o, ok := f.orders[orderID]
	if !ok {
		return sql.ErrNoRows
	}
	o.Status = status
	o.StripeTransactionID = &transactionID
	f.orders[orderID] = o
	return nil
}

type stores struct {
	cats   *fakeCategoryStore
	vens   *fakeVendorStore
	items  *fakeItemStore
	users  *fakeUserStore
	orders *fakeOrderStore
}

func newStores() *stores {
	return &stores{
		cats:   &fakeCategoryStore{byID: map[string]categories.Category{}},
		vens:   &fakeVendorStore{byID: map[string]vendors.Vendor{}},
		items:  &fakeItemStore{byID: map[string]items.Item{}},
		users:  &fakeUserStore{byID: map[string]users.User{}},
		orders: &fakeOrderStore{},
	}
}

func newTestAPI(t *testing.T, s *stores) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	catConf, err := categories.NewConf(s.cats)
	if err != nil {
		t.Fatalf("categories conf: %v", err)
	}
	venConf, err := vendors.NewConf(s.vens)
	if err != nil {
		t.Fatalf("vendors conf: %v", err)
	}
	itemConf, err := items.NewConf(s.items)
	if err != nil {
		t.Fatalf("items conf: %v", err)
	}
	userConf, err := users.NewConf(s.users)
	if err != nil {
		t.Fatalf("users conf: %v", err)
	}
	orderConf, err := orders.NewConf(s.orders)
	if err != nil {
		t.Fatalf("orders conf: %v", err)
	}

	mid, err := middleware.NewMid(fakeResolver{}, userConf)
	if err != nil {
		t.Fatalf("mid: %v", err)
	}

	return API(mid, catConf, venConf, itemConf, userConf, orderConf, nil, testServiceRoleKey)
}

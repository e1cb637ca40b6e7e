package service

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/aarondl/null/v8"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nurpe/rental-desk/internal/listing"
	"github.com/nurpe/rental-desk/internal/model"
	"github.com/nurpe/rental-desk/internal/resource"
)

func TestCustomerDetailJoinsOrders(t *testing.T) {
	backend := newFakeBackend(t)
	backend.reply(http.MethodGet, "/api/customers/7", http.StatusOK, `{"customer": {"id": 7, "name": "Stavby s.r.o.", "category": "vip"}}`)
	backend.reply(http.MethodGet, "/api/orders", http.StatusOK, `{"orders": [
		{"id": 1, "customer_id": 7, "status": "active"},
		{"id": 2, "customer_id": 7, "status": "completed"},
		{"id": 3, "customer_id": 7, "status": "active"},
		{"id": 4, "customer_id": 8, "status": "active"}
	]}`)
	svc := NewCustomerService(backend.client(), newValidator(), zerolog.Nop())

	detail, err := svc.Detail(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, "Stavby s.r.o.", detail.Customer.Name)
	assert.Len(t, detail.Orders, 3)
	assert.Equal(t, CustomerStats{TotalOrders: 3, ActiveOrders: 2, CompletedOrders: 1}, detail.Stats)
}

func TestCustomerDetailValidatesIDBeforeRequest(t *testing.T) {
	backend := newFakeBackend(t)
	svc := NewCustomerService(backend.client(), newValidator(), zerolog.Nop())

	_, err := svc.Detail(context.Background(), 0)
	assert.ErrorIs(t, err, resource.ErrInvalidID)
	assert.Zero(t, backend.total())
}

func TestCustomerListEmptyStates(t *testing.T) {
	backend := newFakeBackend(t)
	backend.reply(http.MethodGet, "/api/customers", http.StatusOK, `{"customers": []}`)
	svc := NewCustomerService(backend.client(), newValidator(), zerolog.Nop())

	page, err := svc.List(context.Background(), CustomerFilter{Query: "x"})
	require.NoError(t, err)
	assert.Equal(t, listing.EmptyCollectionMessage, page.EmptyMessage)
}

func TestCustomerSaveChoosesMethod(t *testing.T) {
	backend := newFakeBackend(t)
	backend.reply(http.MethodPost, "/api/customers", http.StatusCreated, `{"customer": {"id": 12, "name": "Nový"}}`)
	backend.reply(http.MethodPut, "/api/customers/12", http.StatusOK, `{"customer": {"id": 12, "name": "Upravený"}}`)
	svc := NewCustomerService(backend.client(), newValidator(), zerolog.Nop())

	form := NewCustomerForm()
	form.Name = "Nový"
	created, err := svc.Save(context.Background(), admin, 0, form)
	require.NoError(t, err)
	assert.EqualValues(t, 12, created.ID)

	form.Name = "Upravený"
	updated, err := svc.Save(context.Background(), admin, 12, form)
	require.NoError(t, err)
	assert.Equal(t, "Upravený", updated.Name)

	form.Email = null.StringFrom("not-an-email")
	_, err = svc.Save(context.Background(), admin, 12, form)
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.Save(context.Background(), operator, 0, NewCustomerForm())
	assert.ErrorIs(t, err, ErrPermissionDenied)

	assert.Equal(t, 1, backend.count(http.MethodPost, "/api/customers"))
	assert.Equal(t, 1, backend.count(http.MethodPut, "/api/customers/12"))
}

func TestWarehouseFormRequiresSupplierWhenExternal(t *testing.T) {
	form := WarehouseForm{Name: "Externí", IsExternal: true}
	err := form.check(newValidator())
	var formErr *FormError
	require.True(t, errors.As(err, &formErr))
	assert.Equal(t, "supplier_id", formErr.Fields[0].Field)

	form.SupplierID = null.Int64From(3)
	assert.NoError(t, form.check(newValidator()))

	own := WarehouseForm{Name: "Vlastní", SupplierID: null.Int64From(3)}
	require.NoError(t, own.check(newValidator()))
	assert.False(t, own.SupplierID.Valid)
}

func TestWarehouseDetail(t *testing.T) {
	backend := newFakeBackend(t)
	backend.reply(http.MethodGet, "/api/warehouses/10", http.StatusOK, `{"warehouse": {"id": 10, "name": "Hlavní sklad"}}`)
	backend.reply(http.MethodGet, "/api/equipment", http.StatusOK, `{"equipment": [
		{"id": 1, "warehouse_id": 10, "total_stock": 4, "available_stock": 3, "material_value": 10},
		{"id": 2, "warehouse_id": 20, "total_stock": 9, "available_stock": 9}
	]}`)
	svc := NewWarehouseService(backend.client(), newValidator(), zerolog.Nop())

	detail, err := svc.Detail(context.Background(), 10)
	require.NoError(t, err)
	assert.Len(t, detail.Equipment, 1)
	assert.Equal(t, WarehouseStats{Items: 1, TotalStock: 4, AvailableStock: 3, MaterialValue: 40}, detail.Stats)
}

func TestWarehouseDetailNotFound(t *testing.T) {
	backend := newFakeBackend(t)
	backend.reply(http.MethodGet, "/api/equipment", http.StatusOK, `{"equipment": []}`)
	svc := NewWarehouseService(backend.client(), newValidator(), zerolog.Nop())

	_, err := svc.Detail(context.Background(), 99)
	require.Error(t, err)
}

func TestOrderDetailStats(t *testing.T) {
	backend := newFakeBackend(t)
	backend.reply(http.MethodGet, "/api/orders/5", http.StatusOK, `{"order": {"id": 5, "status": "active", "rentals": [
		{"id": 1, "quantity": 10, "daily_rate": 2.5},
		{"id": 2, "quantity": 2, "daily_rate": "4", "return_date": "2024-05-10"}
	]}}`)
	svc := NewOrderService(backend.client(), newValidator(), zerolog.Nop())

	detail, err := svc.Detail(context.Background(), 5)
	require.NoError(t, err)
	assert.Equal(t, OrderStats{Rentals: 2, Returned: 1, Outstanding: 1, TotalQuantity: 12, DailyTotal: 25}, detail.Stats)
	assert.True(t, detail.FinalBillingAllowed)
	assert.NotNil(t, detail.Billings)
}

func TestOrderUpdateStatus(t *testing.T) {
	backend := newFakeBackend(t)
	backend.reply(http.MethodPut, "/api/orders/5/status", http.StatusOK, `{}`)
	svc := NewOrderService(backend.client(), newValidator(), zerolog.Nop())

	require.NoError(t, svc.UpdateStatus(context.Background(), admin, 5, model.OrderStatusActive))
	assert.Equal(t, "active", backend.lastBody(t, http.MethodPut, "/api/orders/5/status")["status"])

	assert.ErrorIs(t, svc.UpdateStatus(context.Background(), admin, 5, "archived"), ErrInvalidInput)
}

func TestOrderFormRejectsEndBeforeIssue(t *testing.T) {
	form := OrderForm{
		CustomerID:       1,
		Status:           model.OrderStatusCreated,
		IssueDate:        date(t, "2024-05-10"),
		EstimatedEndDate: date(t, "2024-05-01"),
	}
	err := form.check(newValidator())
	var formErr *FormError
	require.True(t, errors.As(err, &formErr))
	assert.Equal(t, "estimated_end_date", formErr.Fields[0].Field)
}

func TestInventoryStats(t *testing.T) {
	items := []model.InventoryCheckItem{
		{EquipmentID: 1, ExpectedQuantity: 5, ActualQuantity: null.IntFrom(5)},
		{EquipmentID: 2, ExpectedQuantity: 5, ActualQuantity: null.IntFrom(3)},
		{EquipmentID: 3, ExpectedQuantity: 1, ActualQuantity: null.IntFrom(2)},
		{EquipmentID: 4, ExpectedQuantity: 2},
	}

	stats, diffs := inventoryStats(items)
	assert.Equal(t, InventoryCheckStats{
		Items:           4,
		Reconciled:      3,
		ReconciledPct:   75,
		Discrepancies:   2,
		MissingQuantity: 2,
		SurplusQuantity: 1,
	}, stats)
	require.Len(t, diffs, 2)
	assert.Equal(t, -2, diffs[0].Difference)

	empty, _ := inventoryStats(nil)
	assert.Zero(t, empty.ReconciledPct)
}

func TestInventoryCheckTransitionRequiresInProgress(t *testing.T) {
	backend := newFakeBackend(t)
	backend.reply(http.MethodGet, "/api/inventory-checks/4", http.StatusOK, `{"inventory_check": {"id": 4, "status": "completed"}}`)
	svc := NewInventoryCheckService(backend.client(), zerolog.Nop())

	_, err := svc.Complete(context.Background(), admin, 4)
	assert.ErrorIs(t, err, ErrInvalidInput)
	assert.Zero(t, backend.count(http.MethodPost, "/api/inventory-checks/4/complete"))
}

func TestSalesRevenueFollowsFilter(t *testing.T) {
	backend := newFakeBackend(t)
	backend.reply(http.MethodGet, "/api/sales", http.StatusOK, `{"sales": [
		{"id": 1, "sale_date": "2024-05-02", "total_price": 100},
		{"id": 2, "sale_date": "2024-06-02", "total_price": 50.5}
	]}`)
	svc := NewSaleService(backend.client())

	page, err := svc.List(context.Background(), SaleFilter{From: date(t, "2024-06-01")})
	require.NoError(t, err)
	assert.Len(t, page.Items, 1)
	assert.InDelta(t, 50.5, page.Revenue, 1e-9)
}

func TestUserSaveRequiresPasswordOnCreate(t *testing.T) {
	backend := newFakeBackend(t)
	svc := NewUserService(backend.client(), newValidator(), zerolog.Nop())

	_, err := svc.Save(context.Background(), admin, 0, UserForm{Username: "jana", Role: model.RoleUser})
	var formErr *FormError
	require.True(t, errors.As(err, &formErr))
	assert.Equal(t, "password", formErr.Fields[0].Field)
	assert.Zero(t, backend.total())

	_, err = svc.List(context.Background(), operator, "", "")
	assert.ErrorIs(t, err, ErrPermissionDenied)
}

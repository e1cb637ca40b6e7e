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

	"github.com/nurpe/rental-desk/internal/excel"
	"github.com/nurpe/rental-desk/internal/listing"
	"github.com/nurpe/rental-desk/internal/model"
)

func TestMaterialValueOf(t *testing.T) {
	tests := []struct {
		price float64
		want  float64
	}{
		{price: 0, want: 0},
		{price: 100, want: 85},
		{price: 19.99, want: 16.99},
		{price: 1234.56, want: 1049.38},
		{price: 2500, want: 2125},
	}
	for _, tt := range tests {
		assert.InDelta(t, tt.want, MaterialValueOf(tt.price), 1e-9, "price %v", tt.price)
	}
}

func TestEquipmentFormDerivedFields(t *testing.T) {
	form := NewEquipmentForm()
	form.SetPurchasePrice(1234.56)
	assert.InDelta(t, 1049.38, form.MaterialValue.Float(), 1e-9)

	form.SetTotalStock(40)
	assert.False(t, form.TotalArea.Valid)

	form.SetPieceArea(null.Float64From(1.5))
	require.True(t, form.TotalArea.Valid)
	assert.InDelta(t, 60, form.TotalArea.Float64, 1e-9)

	form.SetTotalStock(3)
	assert.InDelta(t, 4.5, form.TotalArea.Float64, 1e-9)

	price := 200.0
	form.Apply(EquipmentChange{PurchasePrice: &price})
	assert.InDelta(t, 170, form.MaterialValue.Float(), 1e-9)
}

func TestEquipmentFormValidation(t *testing.T) {
	form := NewEquipmentForm()
	form.Name = "Rám"
	form.InventoryNumber = "INV-1"
	form.CategoryID = 2
	form.TotalStock = 5
	form.AvailableStock = 6

	err := form.check(newValidator())
	var formErr *FormError
	require.True(t, errors.As(err, &formErr))
	assert.ErrorIs(t, err, ErrInvalidInput)
	require.Len(t, formErr.Fields, 1)
	assert.Equal(t, "available_stock", formErr.Fields[0].Field)

	form.AvailableStock = 5
	assert.NoError(t, form.check(newValidator()))
}

func newEquipmentService(t *testing.T) (*EquipmentService, *fakeBackend) {
	t.Helper()
	backend := newFakeBackend(t)
	backend.reply(http.MethodGet, "/api/equipment", http.StatusOK, `{"equipment": [
		{"id": 1, "name": "Rám lešení", "inventory_number": "INV-1", "warehouse_id": 10, "available_stock": 4, "total_stock": 6, "status": "available"},
		{"id": 2, "name": "Podlaha", "inventory_number": "INV-2", "warehouse_id": 20, "available_stock": 0, "total_stock": 3, "status": "borrowed"},
		{"id": 3, "name": "Kolečko", "inventory_number": "INV-3", "status": "maintenance"}
	]}`)
	backend.reply(http.MethodGet, "/api/warehouses", http.StatusOK, `{"warehouses": [
		{"id": 10, "name": "Hlavní sklad"}, {"id": 20, "name": "Brno"}
	]}`)
	backend.reply(http.MethodGet, "/api/equipment/1", http.StatusOK, `{"equipment": {"id": 1, "name": "Rám lešení", "warehouse_id": 10, "available_stock": 4, "total_stock": 6}}`)
	return NewEquipmentService(backend.client(), excel.NewGenerator(), newValidator(), zerolog.Nop()), backend
}

func TestEquipmentListJoinsWarehouses(t *testing.T) {
	svc, _ := newEquipmentService(t)

	page, err := svc.List(context.Background(), EquipmentFilter{Query: "brno"})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.EqualValues(t, 2, page.Items[0].ID)
	assert.Equal(t, "Brno", page.Items[0].WarehouseName.String)

	page, err = svc.List(context.Background(), EquipmentFilter{WarehouseIDs: []int64{10}, Status: "available"})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.EqualValues(t, 1, page.Items[0].ID)

	page, err = svc.List(context.Background(), EquipmentFilter{Query: "no such thing"})
	require.NoError(t, err)
	assert.Empty(t, page.Items)
	assert.Equal(t, 3, page.Total)
	assert.Equal(t, listing.NoMatchMessage, page.EmptyMessage)
}

func TestEquipmentStockActions(t *testing.T) {
	svc, backend := newEquipmentService(t)
	backend.reply(http.MethodPost, "/api/equipment/1/transfer", http.StatusOK, `{"equipment": {"id": 1, "warehouse_id": 20}}`)

	_, err := svc.Transfer(context.Background(), admin, 1, TransferInput{TargetWarehouseID: 10, Quantity: 1})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.Transfer(context.Background(), admin, 1, TransferInput{TargetWarehouseID: 20, Quantity: 5})
	assert.ErrorIs(t, err, ErrInsufficientStock)

	_, err = svc.Transfer(context.Background(), operator, 1, TransferInput{TargetWarehouseID: 20, Quantity: 1})
	assert.ErrorIs(t, err, ErrPermissionDenied)

	moved, err := svc.Transfer(context.Background(), admin, 1, TransferInput{TargetWarehouseID: 20, Quantity: 2})
	require.NoError(t, err)
	assert.EqualValues(t, 20, moved.WarehouseID.Int64)
	assert.Equal(t, 1, backend.count(http.MethodPost, "/api/equipment/1/transfer"))

	_, err = svc.WriteOff(context.Background(), admin, 1, WriteOffInput{Quantity: 1, Reason: "stolen"})
	var formErr *FormError
	require.True(t, errors.As(err, &formErr))
	assert.Equal(t, "reason", formErr.Fields[0].Field)
}

func TestEquipmentSellDefaultsSaleDate(t *testing.T) {
	svc, backend := newEquipmentService(t)
	backend.reply(http.MethodPost, "/api/equipment/1/sell", http.StatusOK, `{"message": "sold"}`)

	item, err := svc.Sell(context.Background(), admin, 1, SellInput{Quantity: 1, UnitPrice: 100})
	require.NoError(t, err)
	assert.EqualValues(t, 1, item.ID)
	assert.NotEmpty(t, backend.lastBody(t, http.MethodPost, "/api/equipment/1/sell")["sale_date"])
}

func TestEquipmentSaveDerivesMaterialValue(t *testing.T) {
	svc, backend := newEquipmentService(t)
	backend.reply(http.MethodPost, "/api/equipment", http.StatusCreated, `{"equipment": {"id": 9, "name": "Nový"}}`)

	form := NewEquipmentForm()
	form.Name = "Nový"
	form.InventoryNumber = "INV-9"
	form.CategoryID = 1
	form.PurchasePrice = 100

	created, err := svc.Save(context.Background(), admin, 0, form)
	require.NoError(t, err)
	assert.EqualValues(t, 9, created.ID)

	sent := backend.lastBody(t, http.MethodPost, "/api/equipment")["equipment"].(map[string]any)
	assert.InDelta(t, 85, sent["material_value"], 1e-9)
}

func TestEquipmentImportRejectsWorkbookWithoutHeader(t *testing.T) {
	svc, backend := newEquipmentService(t)

	_, err := svc.Import(context.Background(), admin, "data.xlsx", []byte("not a workbook"))
	assert.ErrorIs(t, err, ErrInvalidInput)
	assert.Zero(t, backend.count(http.MethodPost, "/api/equipment/import"))
}

func TestEquipmentImportUploadsTemplate(t *testing.T) {
	svc, backend := newEquipmentService(t)
	backend.reply(http.MethodPost, "/api/equipment/import", http.StatusOK, `{"imported": 1, "failed": 0, "results": [{"row": 2, "message": "ok"}]}`)

	template, err := svc.ImportTemplate()
	require.NoError(t, err)

	outcome, err := svc.Import(context.Background(), admin, template.FileName, template.Content)
	require.NoError(t, err)
	assert.Equal(t, 1, outcome.Summary.DataRows)
	assert.Equal(t, 1, outcome.Result.Imported)
	assert.Equal(t, []model.ImportRowResult{{Row: 2, Message: "ok"}}, outcome.Result.Results)
}

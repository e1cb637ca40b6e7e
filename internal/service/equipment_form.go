package service

import (
	"math"

	"github.com/aarondl/null/v8"

	"github.com/nurpe/rental-desk/internal/model"
	"github.com/nurpe/rental-desk/internal/validation"
)

// MaterialValueRatio is the share of the purchase price booked as material
// value when the price is entered.
const MaterialValueRatio = 0.85

type EquipmentForm struct {
	Name            string                `json:"name" validate:"required"`
	InventoryNumber string                `json:"inventory_number" validate:"required"`
	CategoryID      int64                 `json:"category_id" validate:"required,gt=0"`
	WarehouseID     null.Int64            `json:"warehouse_id" validate:"omitempty,gt=0"`
	DailyRate       model.Decimal         `json:"daily_rate" validate:"gte=0"`
	MonthlyRate     model.Decimal         `json:"monthly_rate" validate:"gte=0"`
	PurchasePrice   model.Decimal         `json:"purchase_price" validate:"gte=0"`
	MaterialValue   model.Decimal         `json:"material_value" validate:"gte=0"`
	TotalStock      int                   `json:"total_stock" validate:"gte=0"`
	AvailableStock  int                   `json:"available_stock" validate:"gte=0,ltefield=TotalStock"`
	PieceArea       null.Float64          `json:"piece_area" validate:"omitempty,gte=0"`
	TotalArea       null.Float64          `json:"total_area"`
	Status          model.EquipmentStatus `json:"status" validate:"required,oneof=available borrowed maintenance retired"`
	Description     null.String           `json:"description"`
}

func NewEquipmentForm() EquipmentForm {
	return EquipmentForm{Status: model.EquipmentStatusAvailable}
}

func EquipmentFormFrom(e model.Equipment) EquipmentForm {
	return EquipmentForm{
		Name:            e.Name,
		InventoryNumber: e.InventoryNumber,
		CategoryID:      e.CategoryID,
		WarehouseID:     e.WarehouseID,
		DailyRate:       e.DailyRate,
		MonthlyRate:     e.MonthlyRate,
		PurchasePrice:   e.PurchasePrice,
		MaterialValue:   e.MaterialValue,
		TotalStock:      e.TotalStock,
		AvailableStock:  e.AvailableStock,
		PieceArea:       e.PieceArea,
		TotalArea:       e.TotalArea,
		Status:          e.Status,
		Description:     e.Description,
	}
}

// Rebase keeps the material value derived from the purchase price when an
// edit changed the price but not the material value.
func (f *EquipmentForm) Rebase(stored EquipmentForm) {
	if f.PurchasePrice != stored.PurchasePrice && f.MaterialValue == stored.MaterialValue {
		f.SetPurchasePrice(f.PurchasePrice.Float())
	}
}

func MaterialValueOf(purchasePrice float64) float64 {
	return roundTo(purchasePrice*MaterialValueRatio, 2)
}

// SetPurchasePrice recomputes the material value on every price change.
func (f *EquipmentForm) SetPurchasePrice(price float64) {
	f.PurchasePrice = model.Decimal(price)
	f.MaterialValue = model.Decimal(MaterialValueOf(price))
}

func (f *EquipmentForm) SetPieceArea(area null.Float64) {
	f.PieceArea = area
	f.recomputeArea()
}

func (f *EquipmentForm) SetTotalStock(stock int) {
	f.TotalStock = stock
	f.recomputeArea()
}

func (f *EquipmentForm) recomputeArea() {
	if !f.PieceArea.Valid {
		f.TotalArea = null.Float64{}
		return
	}
	f.TotalArea = null.Float64From(roundTo(f.PieceArea.Float64*float64(f.TotalStock), 4))
}

// EquipmentChange is a partial edit of the fields that drive derived values.
type EquipmentChange struct {
	PurchasePrice *float64     `json:"purchase_price"`
	PieceArea     null.Float64 `json:"piece_area"`
	TotalStock    *int         `json:"total_stock"`
}

// Apply runs the same recomputation the form does field by field.
func (f *EquipmentForm) Apply(change EquipmentChange) {
	if change.PurchasePrice != nil {
		f.SetPurchasePrice(*change.PurchasePrice)
	}
	if change.TotalStock != nil {
		f.TotalStock = *change.TotalStock
	}
	if change.PieceArea.Valid {
		f.PieceArea = change.PieceArea
	}
	f.recomputeArea()
}

func (f EquipmentForm) check(v *validation.Validator) error {
	return formError(v.Struct(f))
}

func roundTo(v float64, places int) float64 {
	scale := math.Pow(10, float64(places))
	return math.Round(v*scale) / scale
}

package model

import "github.com/aarondl/null/v8"

type EquipmentStatus string

const (
	EquipmentStatusAvailable   EquipmentStatus = "available"
	EquipmentStatusBorrowed    EquipmentStatus = "borrowed"
	EquipmentStatusMaintenance EquipmentStatus = "maintenance"
	EquipmentStatusRetired     EquipmentStatus = "retired"
)

type Equipment struct {
	ID              int64           `json:"id"`
	Name            string          `json:"name"`
	InventoryNumber string          `json:"inventory_number"`
	CategoryID      int64           `json:"category_id"`
	CategoryName    null.String     `json:"category_name"`
	WarehouseID     null.Int64      `json:"warehouse_id"`
	WarehouseName   null.String     `json:"warehouse_name"`
	DailyRate       Decimal         `json:"daily_rate"`
	MonthlyRate     Decimal         `json:"monthly_rate"`
	PurchasePrice   Decimal         `json:"purchase_price"`
	MaterialValue   Decimal         `json:"material_value"`
	TotalStock      int             `json:"total_stock"`
	AvailableStock  int             `json:"available_stock"`
	PieceArea       null.Float64    `json:"piece_area"`
	TotalArea       null.Float64    `json:"total_area"`
	Status          EquipmentStatus `json:"status"`
	Description     null.String     `json:"description"`
	PhotoURL        null.String     `json:"photo_url"`
}

type Warehouse struct {
	ID           int64       `json:"id"`
	Name         string      `json:"name"`
	Location     null.String `json:"location"`
	IsExternal   bool        `json:"is_external"`
	SupplierID   null.Int64  `json:"supplier_id"`
	SupplierName null.String `json:"supplier_name"`
	Notes        null.String `json:"notes"`
}

type Sale struct {
	ID            int64       `json:"id"`
	EquipmentID   int64       `json:"equipment_id"`
	EquipmentName null.String `json:"equipment_name"`
	CustomerID    null.Int64  `json:"customer_id"`
	CustomerName  null.String `json:"customer_name"`
	Quantity      int         `json:"quantity"`
	UnitPrice     Decimal     `json:"unit_price"`
	TotalPrice    Decimal     `json:"total_price"`
	SaleDate      Date        `json:"sale_date"`
	Note          null.String `json:"note"`
}

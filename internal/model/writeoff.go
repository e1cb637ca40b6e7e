package model

import "github.com/aarondl/null/v8"

type WriteOffReason string

const (
	WriteOffReasonDamaged WriteOffReason = "damaged"
	WriteOffReasonLost    WriteOffReason = "lost"
	WriteOffReasonExpired WriteOffReason = "expired"
	WriteOffReasonOther   WriteOffReason = "other"
)

type WriteOff struct {
	ID             int64          `json:"id"`
	WriteOffNumber null.String    `json:"write_off_number"`
	Date           Date           `json:"date"`
	Reason         WriteOffReason `json:"reason"`
	Items          []WriteOffItem `json:"items"`
	TotalValue     Decimal        `json:"total_value"`
	Note           null.String    `json:"note"`
	CreatedBy      null.String    `json:"created_by"`
	Supplier       *Party         `json:"supplier,omitempty"`
}

// Number returns the business number of the record, falling back to the id.
func (w WriteOff) Number() string {
	if w.WriteOffNumber.Valid && w.WriteOffNumber.String != "" {
		return w.WriteOffNumber.String
	}
	return formatID(w.ID)
}

type WriteOffItem struct {
	EquipmentID     int64       `json:"equipment_id"`
	EquipmentName   string      `json:"equipment_name"`
	InventoryNumber null.String `json:"inventory_number"`
	Quantity        int         `json:"quantity"`
	UnitValue       Decimal     `json:"unit_value"`
	TotalValue      Decimal     `json:"total_value"`
}

type InventoryCheckStatus string

const (
	InventoryCheckInProgress InventoryCheckStatus = "in_progress"
	InventoryCheckCompleted  InventoryCheckStatus = "completed"
	InventoryCheckCanceled   InventoryCheckStatus = "canceled"
)

type InventoryCheck struct {
	ID            int64                `json:"id"`
	WarehouseID   int64                `json:"warehouse_id"`
	WarehouseName null.String          `json:"warehouse_name"`
	Status        InventoryCheckStatus `json:"status"`
	StartedAt     Date                 `json:"started_at"`
	CompletedAt   Date                 `json:"completed_at"`
	Note          null.String          `json:"note"`
	Items         []InventoryCheckItem `json:"items"`
}

type InventoryCheckItem struct {
	ID               int64       `json:"id"`
	EquipmentID      int64       `json:"equipment_id"`
	EquipmentName    null.String `json:"equipment_name"`
	ExpectedQuantity int         `json:"expected_quantity"`
	ActualQuantity   null.Int    `json:"actual_quantity"`
}

package model

import "github.com/aarondl/null/v8"

type OrderStatus string

const (
	OrderStatusCreated   OrderStatus = "created"
	OrderStatusActive    OrderStatus = "active"
	OrderStatusCompleted OrderStatus = "completed"
	OrderStatusCancelled OrderStatus = "cancelled"
)

type Order struct {
	ID               int64       `json:"id"`
	OrderNumber      string      `json:"order_number"`
	CustomerID       int64       `json:"customer_id"`
	CustomerName     null.String `json:"customer_name"`
	Status           OrderStatus `json:"status"`
	IssueDate        Date        `json:"issue_date"`
	EstimatedEndDate Date        `json:"estimated_end_date"`
	Notes            null.String `json:"notes"`
	Rentals          []Rental    `json:"rentals,omitempty"`
}

type RentalCondition string

const (
	RentalConditionOK      RentalCondition = "ok"
	RentalConditionDamaged RentalCondition = "damaged"
	RentalConditionMissing RentalCondition = "missing"
)

type Rental struct {
	ID                int64           `json:"id"`
	OrderID           int64           `json:"order_id"`
	EquipmentID       int64           `json:"equipment_id"`
	EquipmentName     null.String     `json:"equipment_name"`
	InventoryNumber   null.String     `json:"inventory_number"`
	Quantity          int             `json:"quantity"`
	DailyRate         Decimal         `json:"daily_rate"`
	IssueDate         Date            `json:"issue_date"`
	PlannedReturnDate Date            `json:"planned_return_date"`
	ReturnDate        Date            `json:"return_date"`
	Condition         RentalCondition `json:"condition"`
	AdditionalCharges Decimal         `json:"additional_charges"`
}

func (r Rental) Returned() bool {
	return r.ReturnDate.Valid()
}

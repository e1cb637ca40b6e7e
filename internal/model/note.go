package model

import (
	"strconv"

	"github.com/aarondl/null/v8"
)

type DeliveryNote struct {
	OrderNumber string             `json:"order_number"`
	IssueDate   Date               `json:"issue_date"`
	Customer    Party              `json:"customer"`
	Supplier    *Party             `json:"supplier,omitempty"`
	Items       []DeliveryNoteItem `json:"items"`
	Note        null.String        `json:"note"`
}

type DeliveryNoteItem struct {
	EquipmentName     string      `json:"equipment_name"`
	InventoryNumber   null.String `json:"inventory_number"`
	Quantity          int         `json:"quantity"`
	DailyRate         Decimal     `json:"daily_rate"`
	IssueDate         Date        `json:"issue_date"`
	PlannedReturnDate Date        `json:"planned_return_date"`
	TotalValue        Decimal     `json:"total_value"`
}

type ReturnNote struct {
	OrderNumber  string           `json:"order_number"`
	ReturnNumber null.String      `json:"return_number"`
	ReturnDate   Date             `json:"return_date"`
	Customer     Party            `json:"customer"`
	Supplier     *Party           `json:"supplier,omitempty"`
	Items        []ReturnNoteItem `json:"items"`
	Note         null.String      `json:"note"`
}

type ReturnNoteItem struct {
	EquipmentName     string          `json:"equipment_name"`
	InventoryNumber   null.String     `json:"inventory_number"`
	Quantity          int             `json:"quantity"`
	IssueDate         Date            `json:"issue_date"`
	ReturnDate        Date            `json:"return_date"`
	Condition         RentalCondition `json:"condition"`
	AdditionalCharges Decimal         `json:"additional_charges"`
}

type ImportResult struct {
	Imported int               `json:"imported"`
	Failed   int               `json:"failed"`
	Results  []ImportRowResult `json:"results"`
}

type ImportRowResult struct {
	Row     int            `json:"row"`
	Message string         `json:"message"`
	Data    map[string]any `json:"data,omitempty"`
}

func formatID(id int64) string {
	return strconv.FormatInt(id, 10)
}

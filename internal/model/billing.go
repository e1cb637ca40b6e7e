package model

import "github.com/aarondl/null/v8"

// BillingData is generated by the backend on demand; it is only displayed,
// exported and re-requested here.
type BillingData struct {
	ID                int64         `json:"id"`
	OrderID           int64         `json:"order_id"`
	OrderNumber       null.String   `json:"order_number"`
	InvoiceNumber     string        `json:"invoice_number"`
	BillingDate       Date          `json:"billing_date"`
	BillingPeriodFrom Date          `json:"billing_period_from"`
	BillingPeriodTo   Date          `json:"billing_period_to"`
	Items             []BillingItem `json:"items"`
	TotalAmount       Decimal       `json:"total_amount"`
	IsFinalBilling    bool          `json:"is_final_billing"`
	Customer          Party         `json:"customer"`
	Supplier          *Party        `json:"supplier,omitempty"`
	Note              null.String   `json:"note"`
}

type BillingItem struct {
	EquipmentName     string      `json:"equipment_name"`
	InventoryNumber   null.String `json:"inventory_number"`
	Quantity          int         `json:"quantity"`
	Days              int         `json:"days"`
	RateType          string      `json:"rate_type"`
	Rate              Decimal     `json:"rate"`
	AdditionalCharges Decimal     `json:"additional_charges"`
	Amount            Decimal     `json:"amount"`
	Returned          bool        `json:"returned"`
	PeriodFrom        Date        `json:"period_from"`
	PeriodTo          Date        `json:"period_to"`
}

package model

import "github.com/aarondl/null/v8"

type CustomerCategory string

const (
	CustomerCategoryRegular   CustomerCategory = "regular"
	CustomerCategoryVIP       CustomerCategory = "vip"
	CustomerCategoryWholesale CustomerCategory = "wholesale"
)

type Customer struct {
	ID            int64            `json:"id"`
	Name          string           `json:"name"`
	Type          string           `json:"type"`
	Category      CustomerCategory `json:"category"`
	Credit        Decimal          `json:"credit"`
	ContactPerson null.String      `json:"contact_person"`
	Email         null.String      `json:"email"`
	Phone         null.String      `json:"phone"`
	Address       null.String      `json:"address"`
	ICO           null.String      `json:"ico"`
	DIC           null.String      `json:"dic"`
	Notes         null.String      `json:"notes"`
	CreatedAt     Date             `json:"created_at"`
}

func (c Customer) Party() Party {
	return Party{
		Name:    c.Name,
		Address: c.Address,
		ICO:     c.ICO,
		DIC:     c.DIC,
		Phone:   c.Phone,
		Email:   c.Email,
	}
}

type Supplier struct {
	ID            int64       `json:"id"`
	Name          string      `json:"name"`
	ContactPerson null.String `json:"contact_person"`
	Email         null.String `json:"email"`
	Phone         null.String `json:"phone"`
	Address       null.String `json:"address"`
	ICO           null.String `json:"ico"`
	DIC           null.String `json:"dic"`
	Notes         null.String `json:"notes"`
}

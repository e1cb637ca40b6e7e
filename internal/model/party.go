package model

import "github.com/aarondl/null/v8"

// Party is the contact block printed on documents for the supplier and the
// customer.
type Party struct {
	Name    string      `json:"name"`
	Address null.String `json:"address"`
	ICO     null.String `json:"ico"`
	DIC     null.String `json:"dic"`
	Phone   null.String `json:"phone"`
	Email   null.String `json:"email"`
}

func (p Party) IsZero() bool {
	return p.Name == "" && !p.Address.Valid && !p.ICO.Valid && !p.DIC.Valid && !p.Phone.Valid && !p.Email.Valid
}

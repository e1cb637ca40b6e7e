package service

import (
	"context"

	"github.com/aarondl/null/v8"

	"github.com/nurpe/rental-desk/internal/model"
)

type CustomerForm struct {
	Name          string                 `json:"name" validate:"required"`
	Type          string                 `json:"type"`
	Category      model.CustomerCategory `json:"category" validate:"required,oneof=regular vip wholesale"`
	Credit        model.Decimal          `json:"credit" validate:"gte=0"`
	ContactPerson null.String            `json:"contact_person"`
	Email         null.String            `json:"email" validate:"omitempty,email"`
	Phone         null.String            `json:"phone"`
	Address       null.String            `json:"address"`
	ICO           null.String            `json:"ico"`
	DIC           null.String            `json:"dic"`
	Notes         null.String            `json:"notes"`
}

// NewCustomerForm is the empty create form.
func NewCustomerForm() CustomerForm {
	return CustomerForm{Category: model.CustomerCategoryRegular}
}

// CustomerFormFrom initialises the edit form from a fetched record.
func CustomerFormFrom(c model.Customer) CustomerForm {
	return CustomerForm{
		Name:          c.Name,
		Type:          c.Type,
		Category:      c.Category,
		Credit:        c.Credit,
		ContactPerson: c.ContactPerson,
		Email:         c.Email,
		Phone:         c.Phone,
		Address:       c.Address,
		ICO:           c.ICO,
		DIC:           c.DIC,
		Notes:         c.Notes,
	}
}

// CustomerForm returns the create form for id 0 and otherwise the form
// initialised from the stored customer.
func (s *CustomerService) Form(ctx context.Context, id int64) (CustomerForm, error) {
	if id == 0 {
		return NewCustomerForm(), nil
	}
	customer, err := mustExist(s.customers.Get(ctx, id))
	if err != nil {
		return CustomerForm{}, err
	}
	return CustomerFormFrom(*customer), nil
}

type SupplierForm struct {
	Name          string      `json:"name" validate:"required"`
	ContactPerson null.String `json:"contact_person"`
	Email         null.String `json:"email" validate:"omitempty,email"`
	Phone         null.String `json:"phone"`
	Address       null.String `json:"address"`
	ICO           null.String `json:"ico"`
	DIC           null.String `json:"dic"`
	Notes         null.String `json:"notes"`
}

func SupplierFormFrom(s model.Supplier) SupplierForm {
	return SupplierForm{
		Name:          s.Name,
		ContactPerson: s.ContactPerson,
		Email:         s.Email,
		Phone:         s.Phone,
		Address:       s.Address,
		ICO:           s.ICO,
		DIC:           s.DIC,
		Notes:         s.Notes,
	}
}

func (s *SupplierService) Form(ctx context.Context, id int64) (SupplierForm, error) {
	if id == 0 {
		return SupplierForm{}, nil
	}
	supplier, err := mustExist(s.suppliers.Get(ctx, id))
	if err != nil {
		return SupplierForm{}, err
	}
	return SupplierFormFrom(*supplier), nil
}

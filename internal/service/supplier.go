package service

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/nurpe/rental-desk/internal/listing"
	"github.com/nurpe/rental-desk/internal/model"
	"github.com/nurpe/rental-desk/internal/resource"
	"github.com/nurpe/rental-desk/internal/validation"
)

type SupplierService struct {
	suppliers *resource.Resource[model.Supplier]
	validate  *validation.Validator
	log       zerolog.Logger
}

func NewSupplierService(backend resource.Backend, validate *validation.Validator, log zerolog.Logger) *SupplierService {
	return &SupplierService{
		suppliers: resource.New[model.Supplier](backend, "suppliers", "supplier", "suppliers"),
		validate:  validate,
		log:       log,
	}
}

func (s *SupplierService) List(ctx context.Context, query string) (listing.Page[model.Supplier], error) {
	suppliers, err := s.suppliers.List(ctx, nil)
	if err != nil {
		return listing.Page[model.Supplier]{}, err
	}
	return listing.Apply(suppliers, query, func(sp model.Supplier) []string {
		return []string{sp.Name, sp.ContactPerson.String, sp.Email.String, sp.Phone.String, sp.ICO.String}
	}), nil
}

func (s *SupplierService) Get(ctx context.Context, id int64) (*model.Supplier, error) {
	return mustExist(s.suppliers.Get(ctx, id))
}

func (s *SupplierService) Save(ctx context.Context, principal model.Principal, id int64, form SupplierForm) (*model.Supplier, error) {
	if err := requireAdmin(principal); err != nil {
		return nil, err
	}
	if err := s.validate.Struct(form); err != nil {
		return nil, formError(err)
	}
	if id == 0 {
		return s.suppliers.Create(ctx, form)
	}
	return s.suppliers.Update(ctx, id, form)
}

func (s *SupplierService) Delete(ctx context.Context, principal model.Principal, id int64) error {
	if err := requireAdmin(principal); err != nil {
		return err
	}
	return s.suppliers.Delete(ctx, id)
}

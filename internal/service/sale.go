package service

import (
	"context"

	"github.com/nurpe/rental-desk/internal/listing"
	"github.com/nurpe/rental-desk/internal/model"
	"github.com/nurpe/rental-desk/internal/resource"
)

type SaleService struct {
	sales *resource.Resource[model.Sale]
}

func NewSaleService(backend resource.Backend) *SaleService {
	return &SaleService{sales: resource.New[model.Sale](backend, "sales", "sale", "sales")}
}

type SaleFilter struct {
	Query string
	From  model.Date
	To    model.Date
}

type SalePage struct {
	listing.Page[model.Sale]
	Revenue float64 `json:"revenue"`
}

func (s *SaleService) List(ctx context.Context, filter SaleFilter) (*SalePage, error) {
	sales, err := s.sales.List(ctx, nil)
	if err != nil {
		return nil, err
	}
	page := listing.Apply(sales, filter.Query,
		func(sl model.Sale) []string {
			return []string{sl.EquipmentName.String, sl.CustomerName.String, sl.Note.String}
		},
		listing.DateWithin(filter.From, filter.To, func(sl model.Sale) model.Date { return sl.SaleDate }),
	)
	revenue := 0.0
	for _, sl := range page.Items {
		revenue += sl.TotalPrice.Float()
	}
	return &SalePage{Page: page, Revenue: roundTo(revenue, 2)}, nil
}

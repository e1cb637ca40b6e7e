package service

import (
	"context"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/nurpe/rental-desk/internal/listing"
	"github.com/nurpe/rental-desk/internal/model"
	"github.com/nurpe/rental-desk/internal/resource"
	"github.com/nurpe/rental-desk/internal/validation"
)

type CustomerService struct {
	customers *resource.Resource[model.Customer]
	orders    *resource.Resource[model.Order]
	validate  *validation.Validator
	log       zerolog.Logger
}

func NewCustomerService(backend resource.Backend, validate *validation.Validator, log zerolog.Logger) *CustomerService {
	return &CustomerService{
		customers: resource.New[model.Customer](backend, "customers", "customer", "customers"),
		orders:    resource.New[model.Order](backend, "orders", "order", "orders"),
		validate:  validate,
		log:       log,
	}
}

type CustomerFilter struct {
	Query    string
	Category string
}

func (s *CustomerService) List(ctx context.Context, filter CustomerFilter) (listing.Page[model.Customer], error) {
	customers, err := s.customers.List(ctx, nil)
	if err != nil {
		return listing.Page[model.Customer]{}, err
	}
	return listing.Apply(customers, filter.Query,
		func(c model.Customer) []string {
			return []string{c.Name, c.Email.String, c.Phone.String, c.ICO.String, c.ContactPerson.String}
		},
		listing.Equals(filter.Category, func(c model.Customer) string { return string(c.Category) }),
	), nil
}

type CustomerStats struct {
	TotalOrders     int `json:"total_orders"`
	ActiveOrders    int `json:"active_orders"`
	CompletedOrders int `json:"completed_orders"`
}

type CustomerDetail struct {
	Customer model.Customer `json:"customer"`
	Orders   []model.Order  `json:"orders"`
	Stats    CustomerStats  `json:"stats"`
}

// Detail fetches the customer and its orders concurrently.
func (s *CustomerService) Detail(ctx context.Context, id int64) (*CustomerDetail, error) {
	if err := checkID(id); err != nil {
		return nil, err
	}

	var (
		customer *model.Customer
		orders   []model.Order
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		customer, err = mustExist(s.customers.Get(gctx, id))
		return err
	})
	g.Go(func() error {
		list, err := s.orders.List(gctx, idQuery("customer_id", id))
		if degraded(err) {
			s.log.Warn().Err(err).Int64("customer_id", id).Msg("failed to load customer orders")
			return nil
		}
		orders = list
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	// the backend may ignore the filter
	own := make([]model.Order, 0, len(orders))
	for _, o := range orders {
		if o.CustomerID == id {
			own = append(own, o)
		}
	}

	return &CustomerDetail{Customer: *customer, Orders: own, Stats: customerStats(own)}, nil
}

func customerStats(orders []model.Order) CustomerStats {
	stats := CustomerStats{TotalOrders: len(orders)}
	for _, o := range orders {
		switch o.Status {
		case model.OrderStatusActive:
			stats.ActiveOrders++
		case model.OrderStatusCompleted:
			stats.CompletedOrders++
		}
	}
	return stats
}

// Save creates the customer when id is 0 and updates it otherwise.
func (s *CustomerService) Save(ctx context.Context, principal model.Principal, id int64, form CustomerForm) (*model.Customer, error) {
	if err := requireAdmin(principal); err != nil {
		return nil, err
	}
	if err := s.validate.Struct(form); err != nil {
		return nil, formError(err)
	}
	if id == 0 {
		return s.customers.Create(ctx, form)
	}
	return s.customers.Update(ctx, id, form)
}

func (s *CustomerService) Delete(ctx context.Context, principal model.Principal, id int64) error {
	if err := requireAdmin(principal); err != nil {
		return err
	}
	return s.customers.Delete(ctx, id)
}

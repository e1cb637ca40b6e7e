package service

import (
	"context"
	"fmt"

	"github.com/aarondl/null/v8"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/nurpe/rental-desk/internal/listing"
	"github.com/nurpe/rental-desk/internal/model"
	"github.com/nurpe/rental-desk/internal/resource"
	"github.com/nurpe/rental-desk/internal/validation"
)

type OrderService struct {
	orders   *resource.Resource[model.Order]
	backend  resource.Backend
	validate *validation.Validator
	log      zerolog.Logger
}

func NewOrderService(backend resource.Backend, validate *validation.Validator, log zerolog.Logger) *OrderService {
	return &OrderService{
		orders:   resource.New[model.Order](backend, "orders", "order", "orders"),
		backend:  backend,
		validate: validate,
		log:      log,
	}
}

type OrderFilter struct {
	Query  string
	Status string
	From   model.Date
	To     model.Date
}

func (s *OrderService) List(ctx context.Context, filter OrderFilter) (listing.Page[model.Order], error) {
	orders, err := s.orders.List(ctx, nil)
	if err != nil {
		return listing.Page[model.Order]{}, err
	}
	return listing.Apply(orders, filter.Query,
		func(o model.Order) []string {
			return []string{o.OrderNumber, o.CustomerName.String}
		},
		listing.Equals(filter.Status, func(o model.Order) string { return string(o.Status) }),
		listing.DateWithin(filter.From, filter.To, func(o model.Order) model.Date { return o.IssueDate }),
	), nil
}

type OrderStats struct {
	Rentals       int     `json:"rentals"`
	Returned      int     `json:"returned"`
	Outstanding   int     `json:"outstanding"`
	TotalQuantity int     `json:"total_quantity"`
	DailyTotal    float64 `json:"daily_total"`
}

type OrderDetail struct {
	Order               model.Order         `json:"order"`
	Stats               OrderStats          `json:"stats"`
	Billings            []model.BillingData `json:"billings"`
	FinalBillingAllowed bool                `json:"final_billing_allowed"`
}

// Detail fetches the order and its billing history concurrently.
func (s *OrderService) Detail(ctx context.Context, id int64) (*OrderDetail, error) {
	if err := checkID(id); err != nil {
		return nil, err
	}

	var (
		order    *model.Order
		billings []model.BillingData
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		order, err = mustExist(s.orders.Get(gctx, id))
		return err
	})
	g.Go(func() error {
		list, err := billingHistory(s.backend, id).List(gctx, nil)
		if degraded(err) {
			s.log.Warn().Err(err).Int64("order_id", id).Msg("failed to load billing history")
			return nil
		}
		billings = list
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if billings == nil {
		billings = []model.BillingData{}
	}

	return &OrderDetail{
		Order:               *order,
		Stats:               orderStats(order.Rentals),
		Billings:            billings,
		FinalBillingAllowed: order.Status != model.OrderStatusCompleted,
	}, nil
}

func orderStats(rentals []model.Rental) OrderStats {
	stats := OrderStats{Rentals: len(rentals)}
	for _, r := range rentals {
		stats.TotalQuantity += r.Quantity
		if r.Returned() {
			stats.Returned++
			continue
		}
		stats.Outstanding++
		stats.DailyTotal += r.DailyRate.Float() * float64(r.Quantity)
	}
	stats.DailyTotal = roundTo(stats.DailyTotal, 2)
	return stats
}

type OrderForm struct {
	CustomerID       int64             `json:"customer_id" validate:"required,gt=0"`
	Status           model.OrderStatus `json:"status" validate:"required,oneof=created active completed cancelled"`
	IssueDate        model.Date        `json:"issue_date" validate:"required"`
	EstimatedEndDate model.Date        `json:"estimated_end_date"`
	Notes            null.String       `json:"notes"`
}

func OrderFormFrom(o model.Order) OrderForm {
	return OrderForm{
		CustomerID:       o.CustomerID,
		Status:           o.Status,
		IssueDate:        o.IssueDate,
		EstimatedEndDate: o.EstimatedEndDate,
		Notes:            o.Notes,
	}
}

// Form seeds the create form with the created status, or the edit form with
// the stored order.
func (s *OrderService) Form(ctx context.Context, id int64) (OrderForm, error) {
	if id == 0 {
		return OrderForm{Status: model.OrderStatusCreated}, nil
	}
	order, err := mustExist(s.orders.Get(ctx, id))
	if err != nil {
		return OrderForm{}, err
	}
	return OrderFormFrom(*order), nil
}

func (f OrderForm) check(v *validation.Validator) error {
	if err := v.Struct(f); err != nil {
		return formError(err)
	}
	if f.EstimatedEndDate.Valid() && f.EstimatedEndDate.Time.Before(f.IssueDate.Time) {
		return &FormError{Fields: validation.FieldErrors{{Field: "estimated_end_date", Rule: "gtefield", Param: "issue_date"}}}
	}
	return nil
}

func (s *OrderService) Save(ctx context.Context, principal model.Principal, id int64, form OrderForm) (*model.Order, error) {
	if err := requireAdmin(principal); err != nil {
		return nil, err
	}
	if err := form.check(s.validate); err != nil {
		return nil, err
	}
	if id == 0 {
		return s.orders.Create(ctx, form)
	}
	return s.orders.Update(ctx, id, form)
}

func (s *OrderService) Delete(ctx context.Context, principal model.Principal, id int64) error {
	if err := requireAdmin(principal); err != nil {
		return err
	}
	return s.orders.Delete(ctx, id)
}

var orderStatuses = map[model.OrderStatus]bool{
	model.OrderStatusCreated:   true,
	model.OrderStatusActive:    true,
	model.OrderStatusCompleted: true,
	model.OrderStatusCancelled: true,
}

func (s *OrderService) UpdateStatus(ctx context.Context, principal model.Principal, id int64, status model.OrderStatus) error {
	if err := requireAdmin(principal); err != nil {
		return err
	}
	if err := checkID(id); err != nil {
		return err
	}
	if !orderStatuses[status] {
		return fmt.Errorf("%w: unknown order status %q", ErrInvalidInput, status)
	}
	return updateOrderStatus(ctx, s.backend, id, status)
}

func updateOrderStatus(ctx context.Context, backend resource.Backend, id int64, status model.OrderStatus) error {
	path := fmt.Sprintf("/api/orders/%d/status", id)
	return backend.Put(ctx, path, map[string]model.OrderStatus{"status": status}, nil)
}

func billingHistory(backend resource.Backend, orderID int64) *resource.Resource[model.BillingData] {
	return resource.New[model.BillingData](backend, fmt.Sprintf("orders/%d/billings", orderID), "billing", "billings")
}

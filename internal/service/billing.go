package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/nurpe/rental-desk/internal/billing"
	"github.com/nurpe/rental-desk/internal/document"
	"github.com/nurpe/rental-desk/internal/excel"
	"github.com/nurpe/rental-desk/internal/model"
	"github.com/nurpe/rental-desk/internal/resource"
)

type BillingService struct {
	backend  resource.Backend
	orders   *resource.Resource[model.Order]
	billings *resource.Resource[model.BillingData]
	excel    *excel.Generator
	log      zerolog.Logger
	now      func() time.Time
	guard    *billing.Guard
}

func NewBillingService(backend resource.Backend, xlsx *excel.Generator, log zerolog.Logger) *BillingService {
	return &BillingService{
		backend:  backend,
		orders:   resource.New[model.Order](backend, "orders", "order", "orders"),
		billings: resource.New[model.BillingData](backend, "billings", "billing", "billings"),
		excel:    xlsx,
		log:      log,
		now:      time.Now,
		guard:    billing.NewGuard(),
	}
}

type BillingDefaults struct {
	Config              billing.Config      `json:"config"`
	LastDayOfMonth      model.Date          `json:"last_day_of_month"`
	FinalBillingAllowed bool                `json:"final_billing_allowed"`
	History             []model.BillingData `json:"history"`
}

// Defaults prepares the configuration screen of one order.
func (s *BillingService) Defaults(ctx context.Context, orderID int64) (*BillingDefaults, error) {
	order, history, err := s.loadOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	now := s.now()
	return &BillingDefaults{
		Config:              billing.DefaultConfig(now),
		LastDayOfMonth:      billing.LastDayOfMonth(now),
		FinalBillingAllowed: billing.FinalBillingAllowed(order.Status),
		History:             history,
	}, nil
}

type GenerateBillingInput struct {
	OrderID   int64
	Config    billing.Config
	Principal model.Principal
}

type BillingResult struct {
	Billing             model.BillingData `json:"billing_data"`
	FinalBillingDropped bool              `json:"final_billing_dropped"`
	StatusUpdated       bool              `json:"status_updated"`
	StatusError         string            `json:"status_error,omitempty"`
}

type billingResponse struct {
	BillingData *model.BillingData `json:"billing_data"`
	Billing     *model.BillingData `json:"billing"`
}

// Generate requests one billing statement for an order. The configuration is
// validated before any request is made; a final billing also completes the
// order unless it already is completed.
func (s *BillingService) Generate(ctx context.Context, input GenerateBillingInput) (*BillingResult, error) {
	if err := requireAdmin(input.Principal); err != nil {
		return nil, err
	}
	if err := checkID(input.OrderID); err != nil {
		return nil, err
	}
	if err := input.Config.Validate(); err != nil {
		return nil, err
	}

	release, err := s.guard.Acquire(input.OrderID)
	if err != nil {
		return nil, err
	}
	defer release()

	order, history, err := s.loadOrder(ctx, input.OrderID)
	if err != nil {
		return nil, err
	}

	cfg := input.Config.ForOrder(order.Status)
	dropped := input.Config.FinalBilling && !cfg.FinalBilling
	if dropped {
		s.log.Info().Int64("order_id", order.ID).Msg("order already completed, final billing flag ignored")
	}

	data, err := s.request(ctx, order.ID, cfg, history)
	if err != nil {
		return nil, err
	}

	result := &BillingResult{Billing: *data, FinalBillingDropped: dropped}
	if cfg.FinalBilling {
		if err := updateOrderStatus(ctx, s.backend, order.ID, model.OrderStatusCompleted); err != nil {
			s.log.Error().Err(err).Int64("order_id", order.ID).Msg("failed to complete order after final billing")
			result.StatusError = err.Error()
		} else {
			result.StatusUpdated = true
		}
	}

	s.log.Info().
		Int64("order_id", order.ID).
		Str("invoice_number", data.InvoiceNumber).
		Bool("final", cfg.FinalBilling).
		Msg("billing generated")
	return result, nil
}

func (s *BillingService) request(ctx context.Context, orderID int64, cfg billing.Config, history []model.BillingData) (*model.BillingData, error) {
	requested, custom := cfg.RequestedPeriod()
	if custom {
		if rejection := billing.CheckHistory(requested, history); rejection != nil {
			return nil, rejection
		}
	}

	var resp billingResponse
	path := fmt.Sprintf("/api/orders/%d/billing", orderID)
	if err := s.backend.Post(ctx, path, cfg.Request(), &resp); err != nil {
		rejection := billing.ParseRejection(err, requested)
		if rejection == err {
			s.log.Error().Err(err).Int64("order_id", orderID).Msg("billing request failed")
		}
		return nil, rejection
	}

	data := resp.BillingData
	if data == nil {
		data = resp.Billing
	}
	if data == nil {
		return nil, errors.New("billing response carries no billing data")
	}
	if data.OrderID == 0 {
		data.OrderID = orderID
	}
	return data, nil
}

// loadOrder fetches the order and its billing history concurrently. The
// history only feeds the local overlap check, so a failure to load it is
// logged and ignored.
func (s *BillingService) loadOrder(ctx context.Context, orderID int64) (*model.Order, []model.BillingData, error) {
	var (
		order   *model.Order
		history []model.BillingData
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		order, err = mustExist(s.orders.Get(gctx, orderID))
		return err
	})
	g.Go(func() error {
		list, err := billingHistory(s.backend, orderID).List(gctx, nil)
		if degraded(err) {
			s.log.Warn().Err(err).Int64("order_id", orderID).Msg("billing history unavailable")
			return nil
		}
		history = list
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	if history == nil {
		history = []model.BillingData{}
	}
	return order, history, nil
}

func (s *BillingService) Get(ctx context.Context, billingID int64) (*model.BillingData, error) {
	return mustExist(s.billings.Get(ctx, billingID))
}

// Workbook exports one billing of an order as xlsx.
func (s *BillingService) Workbook(ctx context.Context, orderID, billingID int64) (*FileResult, error) {
	if err := checkID(orderID); err != nil {
		return nil, err
	}
	data, err := s.Get(ctx, billingID)
	if err != nil {
		return nil, err
	}
	if data.OrderID != 0 && data.OrderID != orderID {
		return nil, ErrNotFound
	}
	content, err := s.excel.BillingWorkbook(*data)
	if err != nil {
		return nil, err
	}
	number := data.InvoiceNumber
	if number == "" {
		number = formatID(data.ID)
	}
	return &FileResult{
		FileName:    document.FileName("Vyuctovani", number, "xlsx"),
		ContentType: XLSXContentType,
		Content:     content,
	}, nil
}

package service

import (
	"context"
	"fmt"
	"math"

	"github.com/rs/zerolog"

	"github.com/nurpe/rental-desk/internal/listing"
	"github.com/nurpe/rental-desk/internal/model"
	"github.com/nurpe/rental-desk/internal/resource"
)

type InventoryCheckService struct {
	checks *resource.Resource[model.InventoryCheck]
	log    zerolog.Logger
}

func NewInventoryCheckService(backend resource.Backend, log zerolog.Logger) *InventoryCheckService {
	return &InventoryCheckService{
		checks: resource.New[model.InventoryCheck](backend, "inventory-checks", "inventory_check", "inventory_checks"),
		log:    log,
	}
}

type InventoryCheckFilter struct {
	Query  string
	Status string
}

func (s *InventoryCheckService) List(ctx context.Context, filter InventoryCheckFilter) (listing.Page[model.InventoryCheck], error) {
	checks, err := s.checks.List(ctx, nil)
	if err != nil {
		return listing.Page[model.InventoryCheck]{}, err
	}
	return listing.Apply(checks, filter.Query,
		func(c model.InventoryCheck) []string {
			return []string{formatID(c.ID), c.WarehouseName.String, c.Note.String}
		},
		listing.Equals(filter.Status, func(c model.InventoryCheck) string { return string(c.Status) }),
	), nil
}

type InventoryCheckStats struct {
	Items           int     `json:"items"`
	Reconciled      int     `json:"reconciled"`
	ReconciledPct   float64 `json:"reconciled_pct"`
	Discrepancies   int     `json:"discrepancies"`
	MissingQuantity int     `json:"missing_quantity"`
	SurplusQuantity int     `json:"surplus_quantity"`
}

type InventoryCheckDetail struct {
	Check model.InventoryCheck  `json:"inventory_check"`
	Stats InventoryCheckStats   `json:"stats"`
	Diffs []InventoryDifference `json:"differences"`
}

type InventoryDifference struct {
	EquipmentID   int64  `json:"equipment_id"`
	EquipmentName string `json:"equipment_name"`
	Expected      int    `json:"expected"`
	Actual        int    `json:"actual"`
	Difference    int    `json:"difference"`
}

func (s *InventoryCheckService) Detail(ctx context.Context, id int64) (*InventoryCheckDetail, error) {
	check, err := mustExist(s.checks.Get(ctx, id))
	if err != nil {
		return nil, err
	}
	stats, diffs := inventoryStats(check.Items)
	return &InventoryCheckDetail{Check: *check, Stats: stats, Diffs: diffs}, nil
}

// inventoryStats counts an item as reconciled once its actual quantity has
// been entered.
func inventoryStats(items []model.InventoryCheckItem) (InventoryCheckStats, []InventoryDifference) {
	stats := InventoryCheckStats{Items: len(items)}
	diffs := make([]InventoryDifference, 0)
	for _, item := range items {
		if !item.ActualQuantity.Valid {
			continue
		}
		stats.Reconciled++
		delta := item.ActualQuantity.Int - item.ExpectedQuantity
		if delta == 0 {
			continue
		}
		stats.Discrepancies++
		if delta < 0 {
			stats.MissingQuantity -= delta
		} else {
			stats.SurplusQuantity += delta
		}
		diffs = append(diffs, InventoryDifference{
			EquipmentID:   item.EquipmentID,
			EquipmentName: item.EquipmentName.String,
			Expected:      item.ExpectedQuantity,
			Actual:        item.ActualQuantity.Int,
			Difference:    delta,
		})
	}
	if stats.Items > 0 {
		stats.ReconciledPct = math.Round(float64(stats.Reconciled)*1000/float64(stats.Items)) / 10
	}
	return stats, diffs
}

func (s *InventoryCheckService) Complete(ctx context.Context, principal model.Principal, id int64) (*model.InventoryCheck, error) {
	return s.transition(ctx, principal, id, "complete")
}

func (s *InventoryCheckService) Cancel(ctx context.Context, principal model.Principal, id int64) (*model.InventoryCheck, error) {
	return s.transition(ctx, principal, id, "cancel")
}

func (s *InventoryCheckService) transition(ctx context.Context, principal model.Principal, id int64, action string) (*model.InventoryCheck, error) {
	if err := requireAdmin(principal); err != nil {
		return nil, err
	}
	check, err := mustExist(s.checks.Get(ctx, id))
	if err != nil {
		return nil, err
	}
	if check.Status != model.InventoryCheckInProgress {
		return nil, fmt.Errorf("%w: inventory check is %s", ErrInvalidInput, check.Status)
	}

	var envelope struct {
		InventoryCheck *model.InventoryCheck `json:"inventory_check"`
	}
	if err := s.checks.Action(ctx, id, action, nil, &envelope); err != nil {
		s.log.Error().Err(err).Int64("inventory_check_id", id).Str("action", action).Msg("inventory check transition failed")
		return nil, err
	}
	if envelope.InventoryCheck != nil {
		return envelope.InventoryCheck, nil
	}
	return mustExist(s.checks.Get(ctx, id))
}

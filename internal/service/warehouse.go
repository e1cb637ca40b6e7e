package service

import (
	"context"

	"github.com/aarondl/null/v8"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/nurpe/rental-desk/internal/listing"
	"github.com/nurpe/rental-desk/internal/model"
	"github.com/nurpe/rental-desk/internal/resource"
	"github.com/nurpe/rental-desk/internal/validation"
)

type WarehouseService struct {
	warehouses *resource.Resource[model.Warehouse]
	equipment  *resource.Resource[model.Equipment]
	validate   *validation.Validator
	log        zerolog.Logger
}

func NewWarehouseService(backend resource.Backend, validate *validation.Validator, log zerolog.Logger) *WarehouseService {
	return &WarehouseService{
		warehouses: resource.New[model.Warehouse](backend, "warehouses", "warehouse", "warehouses"),
		equipment:  resource.New[model.Equipment](backend, "equipment", "equipment", "equipment"),
		validate:   validate,
		log:        log,
	}
}

type WarehouseFilter struct {
	Query    string
	External string
}

func (s *WarehouseService) List(ctx context.Context, filter WarehouseFilter) (listing.Page[model.Warehouse], error) {
	warehouses, err := s.warehouses.List(ctx, nil)
	if err != nil {
		return listing.Page[model.Warehouse]{}, err
	}
	return listing.Apply(warehouses, filter.Query,
		func(w model.Warehouse) []string {
			return []string{w.Name, w.Location.String, w.SupplierName.String}
		},
		listing.Equals(filter.External, func(w model.Warehouse) string {
			if w.IsExternal {
				return "true"
			}
			return "false"
		}),
	), nil
}

type WarehouseStats struct {
	Items          int     `json:"items"`
	TotalStock     int     `json:"total_stock"`
	AvailableStock int     `json:"available_stock"`
	MaterialValue  float64 `json:"material_value"`
}

type WarehouseDetail struct {
	Warehouse model.Warehouse   `json:"warehouse"`
	Equipment []model.Equipment `json:"equipment"`
	Stats     WarehouseStats    `json:"stats"`
}

// Detail fetches the warehouse and its equipment concurrently.
func (s *WarehouseService) Detail(ctx context.Context, id int64) (*WarehouseDetail, error) {
	if err := checkID(id); err != nil {
		return nil, err
	}

	var (
		warehouse *model.Warehouse
		items     []model.Equipment
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		warehouse, err = mustExist(s.warehouses.Get(gctx, id))
		return err
	})
	g.Go(func() error {
		list, err := s.equipment.List(gctx, idQuery("warehouse_id", id))
		if degraded(err) {
			s.log.Warn().Err(err).Int64("warehouse_id", id).Msg("failed to load warehouse equipment")
			return nil
		}
		items = list
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	stored := make([]model.Equipment, 0, len(items))
	stats := WarehouseStats{}
	for _, e := range items {
		if !e.WarehouseID.Valid || e.WarehouseID.Int64 != id {
			continue
		}
		stored = append(stored, e)
		stats.Items++
		stats.TotalStock += e.TotalStock
		stats.AvailableStock += e.AvailableStock
		stats.MaterialValue += e.MaterialValue.Float() * float64(e.TotalStock)
	}
	stats.MaterialValue = roundTo(stats.MaterialValue, 2)

	return &WarehouseDetail{Warehouse: *warehouse, Equipment: stored, Stats: stats}, nil
}

type WarehouseForm struct {
	Name       string      `json:"name" validate:"required"`
	Location   null.String `json:"location"`
	IsExternal bool        `json:"is_external"`
	SupplierID null.Int64  `json:"supplier_id" validate:"omitempty,gt=0"`
	Notes      null.String `json:"notes"`
}

func WarehouseFormFrom(w model.Warehouse) WarehouseForm {
	return WarehouseForm{
		Name:       w.Name,
		Location:   w.Location,
		IsExternal: w.IsExternal,
		SupplierID: w.SupplierID,
		Notes:      w.Notes,
	}
}

func (s *WarehouseService) Form(ctx context.Context, id int64) (WarehouseForm, error) {
	if id == 0 {
		return WarehouseForm{}, nil
	}
	warehouse, err := mustExist(s.warehouses.Get(ctx, id))
	if err != nil {
		return WarehouseForm{}, err
	}
	return WarehouseFormFrom(*warehouse), nil
}

// check requires a supplier for external warehouses and drops it for own
// ones.
func (f *WarehouseForm) check(v *validation.Validator) error {
	if !f.IsExternal {
		f.SupplierID = null.Int64{}
	}
	if err := v.Struct(*f); err != nil {
		return formError(err)
	}
	if f.IsExternal && !f.SupplierID.Valid {
		return &FormError{Fields: validation.FieldErrors{{Field: "supplier_id", Rule: "required"}}}
	}
	return nil
}

func (s *WarehouseService) Save(ctx context.Context, principal model.Principal, id int64, form WarehouseForm) (*model.Warehouse, error) {
	if err := requireAdmin(principal); err != nil {
		return nil, err
	}
	if err := form.check(s.validate); err != nil {
		return nil, err
	}
	if id == 0 {
		return s.warehouses.Create(ctx, form)
	}
	return s.warehouses.Update(ctx, id, form)
}

func (s *WarehouseService) Delete(ctx context.Context, principal model.Principal, id int64) error {
	if err := requireAdmin(principal); err != nil {
		return err
	}
	return s.warehouses.Delete(ctx, id)
}

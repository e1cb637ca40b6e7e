package service

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/aarondl/null/v8"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/nurpe/rental-desk/internal/excel"
	"github.com/nurpe/rental-desk/internal/listing"
	"github.com/nurpe/rental-desk/internal/model"
	"github.com/nurpe/rental-desk/internal/resource"
	"github.com/nurpe/rental-desk/internal/validation"
)

type EquipmentService struct {
	backend    Backend
	equipment  *resource.Resource[model.Equipment]
	warehouses *resource.Resource[model.Warehouse]
	excel      *excel.Generator
	validate   *validation.Validator
	log        zerolog.Logger
	now        func() time.Time
}

func NewEquipmentService(backend Backend, xlsx *excel.Generator, validate *validation.Validator, log zerolog.Logger) *EquipmentService {
	return &EquipmentService{
		backend:    backend,
		equipment:  resource.New[model.Equipment](backend, "equipment", "equipment", "equipment"),
		warehouses: resource.New[model.Warehouse](backend, "warehouses", "warehouse", "warehouses"),
		excel:      xlsx,
		validate:   validate,
		log:        log,
		now:        time.Now,
	}
}

type EquipmentFilter struct {
	Query        string
	Status       string
	WarehouseIDs []int64
}

// List joins equipment with the warehouse lookup so the warehouse name is
// searchable.
func (s *EquipmentService) List(ctx context.Context, filter EquipmentFilter) (listing.Page[model.Equipment], error) {
	var (
		items      []model.Equipment
		warehouses []model.Warehouse
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		items, err = s.equipment.List(gctx, nil)
		return err
	})
	g.Go(func() error {
		list, err := s.warehouses.List(gctx, nil)
		if degraded(err) {
			s.log.Warn().Err(err).Msg("failed to load warehouses for equipment list")
			return nil
		}
		warehouses = list
		return err
	})
	if err := g.Wait(); err != nil {
		return listing.Page[model.Equipment]{}, err
	}

	joinWarehouses(items, warehouses)

	return listing.Apply(items, filter.Query,
		func(e model.Equipment) []string {
			return []string{e.Name, e.InventoryNumber, e.CategoryName.String, e.WarehouseName.String}
		},
		listing.Equals(filter.Status, func(e model.Equipment) string { return string(e.Status) }),
		listing.InSet(filter.WarehouseIDs, func(e model.Equipment) int64 { return e.WarehouseID.Int64 }),
	), nil
}

func joinWarehouses(items []model.Equipment, warehouses []model.Warehouse) {
	names := make(map[int64]string, len(warehouses))
	for _, w := range warehouses {
		names[w.ID] = w.Name
	}
	for i := range items {
		if !items[i].WarehouseID.Valid || items[i].WarehouseName.Valid {
			continue
		}
		if name, ok := names[items[i].WarehouseID.Int64]; ok {
			items[i].WarehouseName = null.StringFrom(name)
		}
	}
}

type EquipmentDetail struct {
	Equipment model.Equipment  `json:"equipment"`
	Warehouse *model.Warehouse `json:"warehouse,omitempty"`
}

func (s *EquipmentService) Detail(ctx context.Context, id int64) (*EquipmentDetail, error) {
	item, err := mustExist(s.equipment.Get(ctx, id))
	if err != nil {
		return nil, err
	}
	detail := &EquipmentDetail{Equipment: *item}
	if item.WarehouseID.Valid {
		warehouse, err := s.warehouses.Get(ctx, item.WarehouseID.Int64)
		if degraded(err) {
			s.log.Warn().Err(err).Int64("warehouse_id", item.WarehouseID.Int64).Msg("failed to load equipment warehouse")
		} else if err != nil {
			return nil, err
		}
		detail.Warehouse = warehouse
		if warehouse != nil && !detail.Equipment.WarehouseName.Valid {
			detail.Equipment.WarehouseName = null.StringFrom(warehouse.Name)
		}
	}
	return detail, nil
}

func (s *EquipmentService) Form(ctx context.Context, id int64) (EquipmentForm, error) {
	if id == 0 {
		return NewEquipmentForm(), nil
	}
	item, err := mustExist(s.equipment.Get(ctx, id))
	if err != nil {
		return EquipmentForm{}, err
	}
	return EquipmentFormFrom(*item), nil
}

func (s *EquipmentService) Save(ctx context.Context, principal model.Principal, id int64, form EquipmentForm) (*model.Equipment, error) {
	if err := requireAdmin(principal); err != nil {
		return nil, err
	}
	if form.PurchasePrice > 0 && form.MaterialValue == 0 {
		form.SetPurchasePrice(form.PurchasePrice.Float())
	}
	form.recomputeArea()
	if err := form.check(s.validate); err != nil {
		return nil, err
	}
	if id == 0 {
		return s.equipment.Create(ctx, form)
	}
	return s.equipment.Update(ctx, id, form)
}

func (s *EquipmentService) Delete(ctx context.Context, principal model.Principal, id int64) error {
	if err := requireAdmin(principal); err != nil {
		return err
	}
	return s.equipment.Delete(ctx, id)
}

type SellInput struct {
	Quantity   int           `json:"quantity" validate:"required,gt=0"`
	UnitPrice  model.Decimal `json:"unit_price" validate:"gte=0"`
	CustomerID null.Int64    `json:"customer_id" validate:"omitempty,gt=0"`
	SaleDate   model.Date    `json:"sale_date" validate:"required"`
	Note       null.String   `json:"note"`
}

type WriteOffInput struct {
	Quantity int                  `json:"quantity" validate:"required,gt=0"`
	Reason   model.WriteOffReason `json:"reason" validate:"required,oneof=damaged lost expired other"`
	Note     null.String          `json:"note"`
}

type TransferInput struct {
	TargetWarehouseID int64       `json:"target_warehouse_id" validate:"required,gt=0"`
	Quantity          int         `json:"quantity" validate:"required,gt=0"`
	Note              null.String `json:"note"`
}

func (s *EquipmentService) Sell(ctx context.Context, principal model.Principal, id int64, input SellInput) (*model.Equipment, error) {
	if !input.SaleDate.Valid() {
		input.SaleDate = model.NewDate(s.now())
	}
	return s.stockAction(ctx, principal, id, "sell", input, input.Quantity, nil)
}

func (s *EquipmentService) WriteOff(ctx context.Context, principal model.Principal, id int64, input WriteOffInput) (*model.Equipment, error) {
	return s.stockAction(ctx, principal, id, "write-off", input, input.Quantity, nil)
}

func (s *EquipmentService) Transfer(ctx context.Context, principal model.Principal, id int64, input TransferInput) (*model.Equipment, error) {
	return s.stockAction(ctx, principal, id, "transfer", input, input.Quantity, func(e model.Equipment) error {
		if e.WarehouseID.Valid && e.WarehouseID.Int64 == input.TargetWarehouseID {
			return fmt.Errorf("%w: target warehouse is the current warehouse", ErrInvalidInput)
		}
		return nil
	})
}

// stockAction validates a modal sub-form against the current stock and posts
// it to the equipment action route.
func (s *EquipmentService) stockAction(ctx context.Context, principal model.Principal, id int64, action string, input any, quantity int, check func(model.Equipment) error) (*model.Equipment, error) {
	if err := requireAdmin(principal); err != nil {
		return nil, err
	}
	if err := s.validate.Struct(input); err != nil {
		return nil, formError(err)
	}
	item, err := mustExist(s.equipment.Get(ctx, id))
	if err != nil {
		return nil, err
	}
	if quantity > item.AvailableStock {
		return nil, fmt.Errorf("%w: requested %d, available %d", ErrInsufficientStock, quantity, item.AvailableStock)
	}
	if check != nil {
		if err := check(*item); err != nil {
			return nil, err
		}
	}

	var envelope struct {
		Equipment *model.Equipment `json:"equipment"`
	}
	if err := s.equipment.Action(ctx, id, action, input, &envelope); err != nil {
		s.log.Error().Err(err).Int64("equipment_id", id).Str("action", action).Msg("equipment action failed")
		return nil, err
	}
	if envelope.Equipment != nil {
		return envelope.Equipment, nil
	}
	return mustExist(s.equipment.Get(ctx, id))
}

var photoExtensions = map[string]bool{".jpg": true, ".jpeg": true, ".png": true, ".webp": true}

func (s *EquipmentService) UploadPhoto(ctx context.Context, principal model.Principal, id int64, fileName string, content []byte) (*model.Equipment, error) {
	if err := requireAdmin(principal); err != nil {
		return nil, err
	}
	if err := checkID(id); err != nil {
		return nil, err
	}
	if len(content) == 0 {
		return nil, fmt.Errorf("%w: photo is empty", ErrInvalidInput)
	}
	if !photoExtensions[strings.ToLower(filepath.Ext(fileName))] {
		return nil, fmt.Errorf("%w: unsupported photo type %q", ErrInvalidInput, filepath.Ext(fileName))
	}

	var envelope struct {
		Equipment *model.Equipment `json:"equipment"`
	}
	if err := s.backend.Upload(ctx, s.equipment.ItemPath(id, "photo"), "photo", fileName, content, nil, &envelope); err != nil {
		s.log.Error().Err(err).Int64("equipment_id", id).Msg("photo upload failed")
		return nil, err
	}
	if envelope.Equipment != nil {
		return envelope.Equipment, nil
	}
	return mustExist(s.equipment.Get(ctx, id))
}

func (s *EquipmentService) ImportTemplate() (*FileResult, error) {
	content, err := s.excel.ImportTemplate(s.now())
	if err != nil {
		return nil, err
	}
	return &FileResult{FileName: "equipment-import-template.xlsx", ContentType: XLSXContentType, Content: content}, nil
}

type ImportOutcome struct {
	Summary excel.ImportSummary `json:"summary"`
	Result  model.ImportResult  `json:"result"`
}

// Import checks the workbook locally and uploads it. The backend answers with
// one result per row, so a partial failure is not an error.
func (s *EquipmentService) Import(ctx context.Context, principal model.Principal, fileName string, content []byte) (*ImportOutcome, error) {
	if err := requireAdmin(principal); err != nil {
		return nil, err
	}
	summary, err := s.excel.InspectImport(content)
	if err != nil {
		if errors.Is(err, excel.ErrNoHeader) || errors.Is(err, excel.ErrNoRows) || errors.Is(err, excel.ErrBadFormat) {
			return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
		return nil, err
	}

	var result model.ImportResult
	if err := s.backend.Upload(ctx, s.equipment.Path()+"/import", "file", fileName, content, nil, &result); err != nil {
		s.log.Error().Err(err).Str("file", fileName).Msg("equipment import failed")
		return nil, err
	}
	s.log.Info().Int("imported", result.Imported).Int("failed", result.Failed).Msg("equipment import finished")
	return &ImportOutcome{Summary: *summary, Result: result}, nil
}

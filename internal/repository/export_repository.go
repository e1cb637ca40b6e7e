package repository

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/nurpe/rental-desk/internal/model"
)

type ExportRepository struct {
	db *gorm.DB
}

func NewExportRepository(db *gorm.DB) *ExportRepository {
	return &ExportRepository{db: db}
}

func (r *ExportRepository) Create(ctx context.Context, export *model.DocumentExport) error {
	if export.ID == uuid.Nil {
		export.ID = uuid.New()
	}
	if export.CreatedAt.IsZero() {
		export.CreatedAt = time.Now().UTC()
	}
	return r.db.WithContext(ctx).Create(export).Error
}

type ExportFilter struct {
	Kind   string
	Number string
	Limit  int
}

func (r *ExportRepository) List(ctx context.Context, filter ExportFilter) ([]model.DocumentExport, error) {
	limit := filter.Limit
	if limit <= 0 || limit > 500 {
		limit = 100
	}

	query := r.db.WithContext(ctx).Model(&model.DocumentExport{})
	if kind := strings.TrimSpace(filter.Kind); kind != "" {
		query = query.Where("kind = ?", kind)
	}
	if number := strings.TrimSpace(filter.Number); number != "" {
		query = query.Where("number = ?", number)
	}

	var exports []model.DocumentExport
	err := query.Order("created_at DESC").Limit(limit).Find(&exports).Error
	if err != nil {
		return nil, err
	}
	return exports, nil
}

package model

import (
	"time"

	"github.com/google/uuid"
)

type DocumentExport struct {
	ID          uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	Kind        string    `json:"kind"`
	Number      string    `json:"number"`
	FileName    string    `json:"file_name"`
	Disposition string    `json:"disposition"`
	SizeBytes   int       `json:"size_bytes"`
	UserID      string    `json:"user_id"`
	CreatedAt   time.Time `json:"created_at"`
}

func (DocumentExport) TableName() string {
	return "document_export"
}

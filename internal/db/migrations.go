package db

import (
	"fmt"

	"gorm.io/gorm"
)

var migrationStatements = []string{
	`CREATE EXTENSION IF NOT EXISTS "pgcrypto";`,
	`CREATE TABLE IF NOT EXISTS document_export (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		kind VARCHAR(32) NOT NULL,
		number VARCHAR(128) NOT NULL,
		file_name VARCHAR(255) NOT NULL,
		disposition VARCHAR(16) NOT NULL,
		size_bytes INTEGER NOT NULL DEFAULT 0,
		user_id VARCHAR(128) NOT NULL DEFAULT '',
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);`,
	`DO $$
	BEGIN
		IF NOT EXISTS (SELECT 1 FROM information_schema.columns WHERE table_name = 'document_export' AND column_name = 'disposition') THEN
			ALTER TABLE document_export ADD COLUMN disposition VARCHAR(16) NOT NULL DEFAULT 'attachment';
		END IF;
	END
	$$;`,
	`CREATE INDEX IF NOT EXISTS idx_document_export_created_at ON document_export (created_at DESC);`,
	`CREATE INDEX IF NOT EXISTS idx_document_export_kind_number ON document_export (kind, number);`,
}

func runMigrations(db *gorm.DB) error {
	for i, stmt := range migrationStatements {
		if err := db.Exec(stmt).Error; err != nil {
			return fmt.Errorf("migration %d failed: %w", i+1, err)
		}
	}
	return nil
}

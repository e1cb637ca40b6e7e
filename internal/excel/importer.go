package excel

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
)

var (
	ErrNoHeader  = errors.New("import sheet has no header row with name and inventory number columns")
	ErrNoRows    = errors.New("import sheet contains no data rows")
	ErrBadFormat = errors.New("file is not a readable xlsx workbook")
)

// ImportColumns is the equipment import layout shared with the backend.
var ImportColumns = []string{
	"name",
	"inventory_number",
	"category",
	"warehouse",
	"daily_rate",
	"monthly_rate",
	"purchase_price",
	"total_stock",
	"piece_area",
	"description",
}

// ImportTemplate builds the downloadable equipment import template with one
// example row.
func (g *Generator) ImportTemplate(now time.Time) ([]byte, error) {
	file := excelize.NewFile()
	defer file.Close()

	sheet := "Import"
	if err := file.SetSheetName("Sheet1", sheet); err != nil {
		return nil, err
	}
	for i, header := range ImportColumns {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return nil, err
		}
		_ = file.SetCellValue(sheet, cell, header)
	}
	example := []interface{}{"Rám lešení 2 m", "INV-0001", "Lešení", "Hlavní sklad", 12.5, 300, 2500, 40, 1.5, "vzorový řádek, smažte před importem"}
	for i, value := range example {
		cell, _ := excelize.CoordinatesToCellName(i+1, 2)
		_ = file.SetCellValue(sheet, cell, value)
	}
	_ = file.SetColWidth(sheet, "A", "A", 32)
	_ = file.SetColWidth(sheet, "B", "J", 16)
	_ = file.SetDocProps(&excelize.DocProperties{
		Title:   "Equipment import template",
		Created: now.UTC().Format(time.RFC3339),
	})

	buf, err := file.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// ImportSummary is what can be checked locally before an upload.
type ImportSummary struct {
	Sheet     string   `json:"sheet"`
	HeaderRow int      `json:"header_row"`
	Columns   []string `json:"columns"`
	DataRows  int      `json:"data_rows"`
}

// InspectImport looks for the header row the backend expects and counts the
// data rows under it, so obviously wrong files are rejected before upload.
func (g *Generator) InspectImport(content []byte) (*ImportSummary, error) {
	file, err := excelize.OpenReader(bytes.NewReader(content))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadFormat, err)
	}
	defer file.Close()

	for _, sheet := range file.GetSheetList() {
		rows, err := file.GetRows(sheet)
		if err != nil {
			return nil, err
		}
		for rIdx, row := range rows {
			if !isHeader(row) {
				continue
			}
			summary := &ImportSummary{Sheet: sheet, HeaderRow: rIdx + 1, Columns: normalize(row)}
			for _, data := range rows[rIdx+1:] {
				if !blank(data) {
					summary.DataRows++
				}
			}
			if summary.DataRows == 0 {
				return summary, ErrNoRows
			}
			return summary, nil
		}
	}
	return nil, ErrNoHeader
}

func isHeader(row []string) bool {
	hasName, hasNumber := false, false
	for _, col := range normalize(row) {
		switch col {
		case "name":
			hasName = true
		case "inventory_number":
			hasNumber = true
		}
	}
	return hasName && hasNumber
}

func normalize(row []string) []string {
	result := make([]string, 0, len(row))
	for _, col := range row {
		col = strings.ToLower(strings.TrimSpace(col))
		col = strings.ReplaceAll(col, " ", "_")
		result = append(result, col)
	}
	return result
}

func blank(row []string) bool {
	for _, col := range row {
		if strings.TrimSpace(col) != "" {
			return false
		}
	}
	return true
}

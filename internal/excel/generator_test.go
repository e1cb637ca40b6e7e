package excel

import (
	"bytes"
	"testing"
	"time"

	"github.com/aarondl/null/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/nurpe/rental-desk/internal/model"
)

func TestBillingWorkbook(t *testing.T) {
	from, _ := model.ParseDate("2024-03-01")
	to, _ := model.ParseDate("2024-03-31")
	data := model.BillingData{
		InvoiceNumber:     "FA-7",
		OrderNumber:       null.StringFrom("Z-7"),
		BillingPeriodFrom: from,
		BillingPeriodTo:   to,
		TotalAmount:       510,
		Items: []model.BillingItem{
			{EquipmentName: "Rám", Quantity: 2, Days: 31, Amount: 310},
			{EquipmentName: "Podlaha", Quantity: 1, Days: 31, Amount: 200, Returned: true},
		},
	}

	out, err := NewGenerator().BillingWorkbook(data)
	require.NoError(t, err)

	file, err := excelize.OpenReader(bytes.NewReader(out))
	require.NoError(t, err)
	defer file.Close()

	assert.Equal(t, []string{"Souhrn", "Položky"}, file.GetSheetList())

	invoice, err := file.GetCellValue("Souhrn", "B1")
	require.NoError(t, err)
	assert.Equal(t, "FA-7", invoice)

	period, _ := file.GetCellValue("Souhrn", "B5")
	assert.Equal(t, "2024-03-01", period)

	label, _ := file.GetCellValue("Položky", "A4")
	assert.Equal(t, "Celkem", label)
	total, _ := file.GetCellValue("Položky", "H4")
	assert.Equal(t, "510", total)
	returned, _ := file.GetCellValue("Položky", "I3")
	assert.Equal(t, "ano", returned)
}

func TestImportTemplateRoundTripsThroughInspect(t *testing.T) {
	g := NewGenerator()
	out, err := g.ImportTemplate(time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)

	summary, err := g.InspectImport(out)
	require.NoError(t, err)
	assert.Equal(t, "Import", summary.Sheet)
	assert.Equal(t, 1, summary.HeaderRow)
	assert.Equal(t, 1, summary.DataRows)
	assert.Equal(t, ImportColumns, summary.Columns)
}

func TestInspectImportFindsHeaderBelowTitleRows(t *testing.T) {
	file := excelize.NewFile()
	_ = file.SetCellValue("Sheet1", "A1", "Inventura březen")
	_ = file.SetCellValue("Sheet1", "A3", "Name")
	_ = file.SetCellValue("Sheet1", "B3", "Inventory Number")
	_ = file.SetCellValue("Sheet1", "A4", "Rám")
	_ = file.SetCellValue("Sheet1", "B4", "INV-1")
	_ = file.SetCellValue("Sheet1", "A6", "Podlaha")
	buf, err := file.WriteToBuffer()
	require.NoError(t, err)

	summary, err := NewGenerator().InspectImport(buf.Bytes())
	require.NoError(t, err)
	assert.Equal(t, 3, summary.HeaderRow)
	assert.Equal(t, 2, summary.DataRows)
}

func TestInspectImportErrors(t *testing.T) {
	g := NewGenerator()

	_, err := g.InspectImport([]byte("not a workbook"))
	assert.ErrorIs(t, err, ErrBadFormat)

	file := excelize.NewFile()
	_ = file.SetCellValue("Sheet1", "A1", "something else")
	buf, _ := file.WriteToBuffer()
	_, err = g.InspectImport(buf.Bytes())
	assert.ErrorIs(t, err, ErrNoHeader)

	file = excelize.NewFile()
	_ = file.SetCellValue("Sheet1", "A1", "name")
	_ = file.SetCellValue("Sheet1", "B1", "inventory_number")
	buf, _ = file.WriteToBuffer()
	_, err = g.InspectImport(buf.Bytes())
	assert.ErrorIs(t, err, ErrNoRows)
}

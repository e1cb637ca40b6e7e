package excel

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/nurpe/rental-desk/internal/model"
)

type Generator struct{}

func NewGenerator() *Generator {
	return &Generator{}
}

// BillingWorkbook exports a generated billing statement: a summary sheet and
// one sheet with the line items.
func (g *Generator) BillingWorkbook(data model.BillingData) ([]byte, error) {
	file := excelize.NewFile()
	defer file.Close()

	summarySheet := "Souhrn"
	if err := file.SetSheetName("Sheet1", summarySheet); err != nil {
		return nil, err
	}
	if err := g.writeSummary(file, summarySheet, data); err != nil {
		return nil, err
	}

	itemsSheet := "Položky"
	if _, err := file.NewSheet(itemsSheet); err != nil {
		return nil, err
	}
	if err := g.writeItems(file, itemsSheet, data); err != nil {
		return nil, err
	}

	file.SetActiveSheet(0)
	buf, err := file.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (g *Generator) writeSummary(file *excelize.File, sheet string, data model.BillingData) error {
	set := func(cell string, value interface{}) {
		_ = file.SetCellValue(sheet, cell, value)
	}

	final := "ne"
	if data.IsFinalBilling {
		final = "ano"
	}

	set("A1", "Číslo vyúčtování")
	set("B1", data.InvoiceNumber)
	set("A2", "Zakázka")
	set("B2", data.OrderNumber.String)
	set("A3", "Odběratel")
	set("B3", data.Customer.Name)
	set("A4", "Datum vyúčtování")
	set("B4", formatDate(data.BillingDate))
	set("A5", "Období od")
	set("B5", formatDate(data.BillingPeriodFrom))
	set("A6", "Období do")
	set("B6", formatDate(data.BillingPeriodTo))
	set("A7", "Konečné vyúčtování")
	set("B7", final)
	set("A8", "Počet položek")
	set("B8", len(data.Items))
	set("A9", "Celkem k úhradě")
	set("B9", data.TotalAmount.Float())

	_ = file.SetColWidth(sheet, "A", "A", 24)
	_ = file.SetColWidth(sheet, "B", "B", 36)
	return nil
}

func (g *Generator) writeItems(file *excelize.File, sheet string, data model.BillingData) error {
	set := func(cell string, value interface{}) {
		_ = file.SetCellValue(sheet, cell, value)
	}

	headers := []string{
		"Položka",
		"Inv. číslo",
		"Množství",
		"Dny",
		"Typ sazby",
		"Sazba",
		"Doplatky",
		"Částka",
		"Vráceno",
		"Od",
		"Do",
	}
	for i, header := range headers {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return err
		}
		set(cell, header)
	}

	total := 0.0
	for i, item := range data.Items {
		row := i + 2
		returned := "ne"
		if item.Returned {
			returned = "ano"
		}
		total += item.Amount.Float()
		set(fmt.Sprintf("A%d", row), item.EquipmentName)
		set(fmt.Sprintf("B%d", row), item.InventoryNumber.String)
		set(fmt.Sprintf("C%d", row), item.Quantity)
		set(fmt.Sprintf("D%d", row), item.Days)
		set(fmt.Sprintf("E%d", row), item.RateType)
		set(fmt.Sprintf("F%d", row), item.Rate.Float())
		set(fmt.Sprintf("G%d", row), item.AdditionalCharges.Float())
		set(fmt.Sprintf("H%d", row), item.Amount.Float())
		set(fmt.Sprintf("I%d", row), returned)
		set(fmt.Sprintf("J%d", row), formatDate(item.PeriodFrom))
		set(fmt.Sprintf("K%d", row), formatDate(item.PeriodTo))
	}

	totalRow := len(data.Items) + 2
	set(fmt.Sprintf("A%d", totalRow), "Celkem")
	set(fmt.Sprintf("H%d", totalRow), total)

	_ = file.SetColWidth(sheet, "A", "A", 40)
	_ = file.SetColWidth(sheet, "B", "B", 16)
	_ = file.SetColWidth(sheet, "C", "I", 12)
	_ = file.SetColWidth(sheet, "J", "K", 12)
	return nil
}

func formatDate(d model.Date) string {
	if !d.Valid() {
		return ""
	}
	return d.Format("2006-01-02")
}

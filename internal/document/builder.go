package document

import (
	"fmt"
	"strconv"

	"github.com/nurpe/rental-desk/internal/model"
)

// Builder turns fetched notes into documents. Company is the supplier block
// used when a note does not carry its own.
type Builder struct {
	company model.Party
}

func NewBuilder(company model.Party) *Builder {
	return &Builder{company: company}
}

func (b *Builder) supplier(p *model.Party) model.Party {
	if p != nil && !p.IsZero() {
		return *p
	}
	return b.company
}

func (b *Builder) DeliveryNote(note model.DeliveryNote) Document {
	columns := []Column{
		{Header: "#", Width: 6, Align: AlignRight},
		{Header: "Položka", Width: 44, Align: AlignLeft},
		{Header: "Inv. číslo", Width: 22, Align: AlignLeft},
		{Header: "Množství", Width: 16, Align: AlignRight},
		{Header: "Denní sazba", Width: 22, Align: AlignRight},
		{Header: "Vydáno", Width: 20, Align: AlignCenter},
		{Header: "Vrácení", Width: 20, Align: AlignCenter},
		{Header: "Hodnota", Width: 24, Align: AlignRight},
	}

	rows := make([][]string, 0, len(note.Items))
	quantity, total := 0, 0.0
	for i, item := range note.Items {
		quantity += item.Quantity
		total += item.TotalValue.Float()
		rows = append(rows, []string{
			strconv.Itoa(i + 1),
			item.EquipmentName,
			optional(item.InventoryNumber.String, item.InventoryNumber.Valid),
			formatInt(item.Quantity),
			formatMoney(item.DailyRate.Float()),
			formatDate(item.IssueDate),
			formatDate(item.PlannedReturnDate),
			formatMoney(item.TotalValue.Float()),
		})
	}

	return Document{
		Kind:      KindDeliveryNote,
		Title:     "Dodací list",
		Number:    note.OrderNumber,
		IssueDate: note.IssueDate,
		Supplier:  PartyBlock{Title: "Dodavatel", Party: b.supplier(note.Supplier)},
		Customer:  PartyBlock{Title: "Odběratel", Party: note.Customer},
		Meta: []Field{
			{Label: "Zakázka", Value: note.OrderNumber},
		},
		Table: Table{
			Columns:     columns,
			Rows:        rows,
			Footer:      []string{"", "Celkem", "", formatInt(quantity), "", "", "", formatMoney(total)},
			Placeholder: "Dodací list neobsahuje žádné položky.",
		},
		Notes: note.Note.String,
		Signatures: [2]Signature{
			{Label: "Vydal", Name: b.supplier(note.Supplier).Name},
			{Label: "Převzal", Name: note.Customer.Name},
		},
		FileName: fileName("Dodaci-list", note.OrderNumber),
	}
}

func (b *Builder) ReturnNote(note model.ReturnNote) Document {
	columns := []Column{
		{Header: "#", Width: 6, Align: AlignRight},
		{Header: "Položka", Width: 44, Align: AlignLeft},
		{Header: "Inv. číslo", Width: 22, Align: AlignLeft},
		{Header: "Množství", Width: 16, Align: AlignRight},
		{Header: "Vydáno", Width: 20, Align: AlignCenter},
		{Header: "Vráceno", Width: 20, Align: AlignCenter},
		{Header: "Stav", Width: 20, Align: AlignLeft},
		{Header: "Doplatky", Width: 26, Align: AlignRight},
	}

	rows := make([][]string, 0, len(note.Items))
	quantity, charges := 0, 0.0
	for i, item := range note.Items {
		quantity += item.Quantity
		charges += item.AdditionalCharges.Float()
		returnDate := item.ReturnDate
		if !returnDate.Valid() {
			returnDate = note.ReturnDate
		}
		rows = append(rows, []string{
			strconv.Itoa(i + 1),
			item.EquipmentName,
			optional(item.InventoryNumber.String, item.InventoryNumber.Valid),
			formatInt(item.Quantity),
			formatDate(item.IssueDate),
			formatDate(returnDate),
			conditionLabel(item.Condition),
			formatMoney(item.AdditionalCharges.Float()),
		})
	}

	number := note.OrderNumber
	if note.ReturnNumber.Valid && note.ReturnNumber.String != "" {
		number = note.ReturnNumber.String
	}

	return Document{
		Kind:      KindReturnNote,
		Title:     "Vratný list",
		Number:    number,
		IssueDate: note.ReturnDate,
		Supplier:  PartyBlock{Title: "Pronajímatel", Party: b.supplier(note.Supplier)},
		Customer:  PartyBlock{Title: "Nájemce", Party: note.Customer},
		Meta: []Field{
			{Label: "Zakázka", Value: note.OrderNumber},
		},
		Table: Table{
			Columns:     columns,
			Rows:        rows,
			Footer:      []string{"", "Celkem", "", formatInt(quantity), "", "", "", formatMoney(charges)},
			Placeholder: "Vratný list neobsahuje žádné vrácené položky.",
		},
		Notes: note.Note.String,
		Signatures: [2]Signature{
			{Label: "Převzal", Name: b.supplier(note.Supplier).Name},
			{Label: "Vrátil", Name: note.Customer.Name},
		},
		FileName: fileName("Vratny-list", note.OrderNumber),
	}
}

func (b *Builder) BillingStatement(data model.BillingData) Document {
	columns := []Column{
		{Header: "#", Width: 6, Align: AlignRight},
		{Header: "Položka", Width: 42, Align: AlignLeft},
		{Header: "Inv. číslo", Width: 20, Align: AlignLeft},
		{Header: "Množství", Width: 15, Align: AlignRight},
		{Header: "Dny", Width: 11, Align: AlignRight},
		{Header: "Sazba", Width: 24, Align: AlignRight},
		{Header: "Doplatky", Width: 22, Align: AlignRight},
		{Header: "Částka", Width: 26, Align: AlignRight},
	}

	rows := make([][]string, 0, len(data.Items))
	total := 0.0
	for i, item := range data.Items {
		total += item.Amount.Float()
		name := item.EquipmentName
		if item.Returned {
			name += " (vráceno)"
		}
		rows = append(rows, []string{
			strconv.Itoa(i + 1),
			name,
			optional(item.InventoryNumber.String, item.InventoryNumber.Valid),
			formatInt(item.Quantity),
			formatInt(item.Days),
			rateLabel(item.Rate.Float(), item.RateType),
			formatMoney(item.AdditionalCharges.Float()),
			formatMoney(item.Amount.Float()),
		})
	}

	final := "ne"
	if data.IsFinalBilling {
		final = "ano"
	}
	meta := []Field{
		{Label: "Zúčtovací období", Value: fmt.Sprintf("%s – %s", formatDate(data.BillingPeriodFrom), formatDate(data.BillingPeriodTo))},
		{Label: "Konečné vyúčtování", Value: final},
		{Label: "Celkem k úhradě", Value: formatMoney(data.TotalAmount.Float())},
	}
	if data.OrderNumber.Valid {
		meta = append([]Field{{Label: "Zakázka", Value: data.OrderNumber.String}}, meta...)
	}

	return Document{
		Kind:      KindBillingStatement,
		Title:     "Vyúčtování pronájmu",
		Number:    data.InvoiceNumber,
		IssueDate: data.BillingDate,
		Supplier:  PartyBlock{Title: "Dodavatel", Party: b.supplier(data.Supplier)},
		Customer:  PartyBlock{Title: "Odběratel", Party: data.Customer},
		Meta:      meta,
		Table: Table{
			Columns:     columns,
			Rows:        rows,
			Footer:      []string{"", "Celkem", "", "", "", "", "", formatMoney(total)},
			Placeholder: "Za zvolené období nejsou žádné účtovatelné položky.",
		},
		Notes: data.Note.String,
		Signatures: [2]Signature{
			{Label: "Vystavil", Name: b.supplier(data.Supplier).Name},
			{Label: "Odběratel", Name: data.Customer.Name},
		},
		FileName: fileName("Vyuctovani", data.InvoiceNumber),
	}
}

func (b *Builder) WriteOff(w model.WriteOff) Document {
	columns := []Column{
		{Header: "#", Width: 6, Align: AlignRight},
		{Header: "Položka", Width: 58, Align: AlignLeft},
		{Header: "Inv. číslo", Width: 26, Align: AlignLeft},
		{Header: "Množství", Width: 18, Align: AlignRight},
		{Header: "Jedn. hodnota", Width: 28, Align: AlignRight},
		{Header: "Celkem", Width: 30, Align: AlignRight},
	}

	rows := make([][]string, 0, len(w.Items))
	quantity, total := 0, 0.0
	for i, item := range w.Items {
		quantity += item.Quantity
		total += item.TotalValue.Float()
		rows = append(rows, []string{
			strconv.Itoa(i + 1),
			item.EquipmentName,
			optional(item.InventoryNumber.String, item.InventoryNumber.Valid),
			formatInt(item.Quantity),
			formatMoney(item.UnitValue.Float()),
			formatMoney(item.TotalValue.Float()),
		})
	}

	meta := []Field{{Label: "Důvod odpisu", Value: ReasonLabel(w.Reason)}}
	if w.CreatedBy.Valid {
		meta = append(meta, Field{Label: "Zpracoval", Value: w.CreatedBy.String})
	}

	return Document{
		Kind:      KindWriteOff,
		Title:     "Protokol o odpisu",
		Number:    w.Number(),
		IssueDate: w.Date,
		Supplier:  PartyBlock{Title: "Organizace", Party: b.supplier(w.Supplier)},
		Meta:      meta,
		Table: Table{
			Columns:     columns,
			Rows:        rows,
			Footer:      []string{"", "Celkem", "", formatInt(quantity), "", formatMoney(total)},
			Placeholder: "Odpis neobsahuje žádné položky.",
		},
		Notes: w.Note.String,
		Signatures: [2]Signature{
			{Label: "Zpracoval", Name: w.CreatedBy.String},
			{Label: "Schválil"},
		},
		FileName: fileName("Odpis", w.Number()),
	}
}

func conditionLabel(c model.RentalCondition) string {
	switch c {
	case model.RentalConditionOK:
		return "v pořádku"
	case model.RentalConditionDamaged:
		return "poškozeno"
	case model.RentalConditionMissing:
		return "chybí"
	}
	return "—"
}

func ReasonLabel(r model.WriteOffReason) string {
	switch r {
	case model.WriteOffReasonDamaged:
		return "poškození"
	case model.WriteOffReasonLost:
		return "ztráta"
	case model.WriteOffReasonExpired:
		return "konec životnosti"
	case model.WriteOffReasonOther:
		return "jiný"
	}
	return "—"
}

func rateLabel(rate float64, rateType string) string {
	switch rateType {
	case "monthly":
		return formatMoney(rate) + "/měs."
	case "daily":
		return formatMoney(rate) + "/den"
	}
	return formatMoney(rate)
}

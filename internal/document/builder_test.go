package document

import (
	"testing"
	"time"

	"github.com/aarondl/null/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nurpe/rental-desk/internal/model"
)

func company() model.Party {
	return model.Party{Name: "Půjčovna lešení s.r.o.", ICO: null.StringFrom("12345678")}
}

func day(t *testing.T, raw string) model.Date {
	t.Helper()
	d, err := model.ParseDate(raw)
	require.NoError(t, err)
	return d
}

func TestDeliveryNoteBuildsTableWithTotals(t *testing.T) {
	b := NewBuilder(company())
	doc := b.DeliveryNote(model.DeliveryNote{
		OrderNumber: "Z-2024/015",
		IssueDate:   day(t, "2024-03-01"),
		Customer:    model.Party{Name: "Stavby Novák"},
		Items: []model.DeliveryNoteItem{
			{EquipmentName: "Rám 2m", Quantity: 10, TotalValue: 1000},
			{EquipmentName: "Podlaha", InventoryNumber: null.StringFrom("INV-7"), Quantity: 5, TotalValue: 250.5},
		},
	})

	assert.Equal(t, KindDeliveryNote, doc.Kind)
	assert.Equal(t, "Dodaci-list-Z-2024-015.pdf", doc.FileName)
	assert.Equal(t, "Půjčovna lešení s.r.o.", doc.Supplier.Party.Name, "company is the fallback supplier")
	require.Len(t, doc.Table.Rows, 2)
	assert.Equal(t, "—", doc.Table.Rows[0][2])
	assert.Equal(t, "INV-7", doc.Table.Rows[1][2])
	assert.Len(t, doc.Table.Footer, len(doc.Table.Columns))
	assert.Equal(t, formatInt(15), doc.Table.Footer[3])
	assert.Equal(t, formatMoney(1250.5), doc.Table.Footer[7])
}

func TestEveryKindHasPlaceholderWhenEmpty(t *testing.T) {
	b := NewBuilder(company())
	docs := []Document{
		b.DeliveryNote(model.DeliveryNote{OrderNumber: "Z-1"}),
		b.ReturnNote(model.ReturnNote{OrderNumber: "Z-1"}),
		b.BillingStatement(model.BillingData{InvoiceNumber: "FA-1"}),
		b.WriteOff(model.WriteOff{ID: 3}),
	}
	for _, doc := range docs {
		t.Run(string(doc.Kind), func(t *testing.T) {
			assert.True(t, doc.Table.Empty())
			assert.NotEmpty(t, doc.Table.Placeholder)
			assert.NotEmpty(t, doc.FileName)
			for _, col := range doc.Table.Columns {
				assert.Greater(t, col.Width, 0.0)
			}
		})
	}
}

func TestNoteSupplierOverridesCompany(t *testing.T) {
	b := NewBuilder(company())
	doc := b.ReturnNote(model.ReturnNote{
		OrderNumber:  "Z-2",
		ReturnNumber: null.StringFrom("V-9"),
		ReturnDate:   day(t, "2024-04-02"),
		Supplier:     &model.Party{Name: "Pobočka Brno"},
		Items: []model.ReturnNoteItem{
			{EquipmentName: "Rám", Quantity: 2, Condition: model.RentalConditionDamaged, AdditionalCharges: 300},
		},
	})

	assert.Equal(t, "Pobočka Brno", doc.Supplier.Party.Name)
	assert.Equal(t, "V-9", doc.Number)
	assert.Equal(t, "Vratny-list-Z-2.pdf", doc.FileName)
	assert.Equal(t, "poškozeno", doc.Table.Rows[0][6])
	assert.Equal(t, formatDate(day(t, "2024-04-02")), doc.Table.Rows[0][5], "falls back to the note's return date")
}

func TestBillingStatementSumsLineTotals(t *testing.T) {
	b := NewBuilder(company())
	doc := b.BillingStatement(model.BillingData{
		InvoiceNumber:     "FA/2024/3",
		OrderNumber:       null.StringFrom("Z-3"),
		BillingDate:       day(t, "2024-03-31"),
		BillingPeriodFrom: day(t, "2024-03-01"),
		BillingPeriodTo:   day(t, "2024-03-31"),
		TotalAmount:       999,
		IsFinalBilling:    true,
		Items: []model.BillingItem{
			{EquipmentName: "Rám", Quantity: 1, Days: 31, Rate: 10, RateType: "daily", Amount: 310, Returned: true},
			{EquipmentName: "Podlaha", Quantity: 1, Days: 31, Rate: 200, RateType: "monthly", Amount: 200},
		},
	})

	assert.Equal(t, "Vyuctovani-FA-2024-3.pdf", doc.FileName)
	assert.Equal(t, formatMoney(510), doc.Table.Footer[7])
	assert.Equal(t, "Rám (vráceno)", doc.Table.Rows[0][1])
	assert.Equal(t, "Zakázka", doc.Meta[0].Label)
	assert.Contains(t, doc.Meta, Field{Label: "Konečné vyúčtování", Value: "ano"})
}

func TestWriteOffUsesIDWithoutNumber(t *testing.T) {
	b := NewBuilder(company())
	doc := b.WriteOff(model.WriteOff{ID: 42, Reason: model.WriteOffReasonLost})
	assert.Equal(t, "42", doc.Number)
	assert.Equal(t, "Odpis-42.pdf", doc.FileName)
	assert.Equal(t, "ztráta", doc.Meta[0].Value)
	assert.Empty(t, doc.Customer.Lines())
}

func TestPartyLinesSkipAbsentFields(t *testing.T) {
	lines := PartyLines(model.Party{Name: "ACME", Phone: null.StringFrom("+420 123"), DIC: null.StringFrom("")})
	assert.Equal(t, []string{"ACME", "Tel.: +420 123"}, lines)

	assert.Equal(t, []string{"—"}, PartyLines(model.Party{}))
}

func TestParseKind(t *testing.T) {
	kind, err := ParseKind("Billing-Statement")
	require.NoError(t, err)
	assert.Equal(t, KindBillingStatement, kind)

	_, err = ParseKind("invoice")
	assert.Error(t, err)
}

func TestFooter(t *testing.T) {
	at := time.Date(2024, 3, 1, 9, 5, 0, 0, time.UTC)
	assert.Equal(t, "Vygenerováno 01.03.2024 09:05 | Strana 2/{nb}", Footer(at, 2, "{nb}"))
}

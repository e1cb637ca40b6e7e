package listing

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/nurpe/rental-desk/internal/model"
)

type row struct {
	ID        int64
	Name      string
	Number    string
	Status    string
	Warehouse int64
	Date      model.Date
}

func rowFields(r row) []string {
	return []string{r.Name, r.Number}
}

func mustDate(t *testing.T, raw string) model.Date {
	t.Helper()
	d, err := model.ParseDate(raw)
	if err != nil {
		t.Fatal(err)
	}
	return d
}

func TestApplySearchIsCaseInsensitive(t *testing.T) {
	rows := []row{
		{ID: 1, Name: "Lešení rámové", Number: "INV-001"},
		{ID: 2, Name: "Bednění stropní", Number: "INV-002"},
	}

	page := Apply(rows, "inv-002", rowFields)
	assert.Len(t, page.Items, 1)
	assert.EqualValues(t, 2, page.Items[0].ID)
	assert.Equal(t, 2, page.Total)
	assert.Equal(t, 1, page.Matched)
	assert.Empty(t, page.EmptyMessage)

	page = Apply(rows, "LEŠENÍ", rowFields)
	assert.Len(t, page.Items, 1)
}

func TestApplyNoMatchYieldsEmptyStateMessage(t *testing.T) {
	rows := []row{{ID: 1, Name: "Lešení", Number: "INV-001"}}

	page := Apply(rows, "zzz", rowFields)
	assert.Empty(t, page.Items)
	assert.NotNil(t, page.Items)
	assert.Equal(t, NoMatchMessage, page.EmptyMessage)
}

func TestApplyEmptyCollection(t *testing.T) {
	page := Apply([]row{}, "", rowFields)
	assert.Equal(t, EmptyCollectionMessage, page.EmptyMessage)
}

func TestApplyPredicates(t *testing.T) {
	rows := []row{
		{ID: 1, Name: "a", Status: "available", Warehouse: 1, Date: mustDate(t, "2024-03-01")},
		{ID: 2, Name: "b", Status: "borrowed", Warehouse: 2, Date: mustDate(t, "2024-03-15")},
		{ID: 3, Name: "c", Status: "available", Warehouse: 2, Date: mustDate(t, "2024-04-02")},
		{ID: 4, Name: "d", Status: "available", Warehouse: 2},
	}

	page := Apply(rows, "", rowFields,
		Equals("AVAILABLE", func(r row) string { return r.Status }),
		InSet([]int64{2}, func(r row) int64 { return r.Warehouse }),
	)
	assert.Len(t, page.Items, 2)

	page = Apply(rows, "", rowFields,
		DateWithin(mustDate(t, "2024-03-01"), mustDate(t, "2024-03-31"), func(r row) model.Date { return r.Date }),
	)
	assert.Len(t, page.Items, 2, "bounds are inclusive and undated rows are dropped")

	page = Apply(rows, "", rowFields,
		Equals("", func(r row) string { return r.Status }),
		InSet(nil, func(r row) int64 { return r.Warehouse }),
		DateWithin(model.Date{}, model.Date{}, func(r row) model.Date { return r.Date }),
	)
	assert.Len(t, page.Items, 4, "empty filters are disabled")
}

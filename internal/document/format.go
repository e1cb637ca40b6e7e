package document

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/nurpe/rental-desk/internal/model"
)

var printer = message.NewPrinter(language.Czech)

func formatMoney(v float64) string {
	return printer.Sprintf("%.2f Kč", v)
}

func formatInt(v int) string {
	return printer.Sprintf("%d", v)
}

func formatDate(d model.Date) string {
	if !d.Valid() {
		return "—"
	}
	return d.Format("02.01.2006")
}

func optional(s string, valid bool) string {
	if !valid || s == "" {
		return "—"
	}
	return s
}

// Package document describes printable documents as data: a title block, two
// party blocks, one table with a totals row, notes and a signature block.
// Every document kind is built into this shape and rendered by one renderer.
package document

import (
	"fmt"
	"strings"
	"time"

	"github.com/nurpe/rental-desk/internal/model"
)

type Kind string

const (
	KindDeliveryNote     Kind = "delivery-note"
	KindReturnNote       Kind = "return-note"
	KindBillingStatement Kind = "billing-statement"
	KindWriteOff         Kind = "write-off"
)

func ParseKind(raw string) (Kind, error) {
	switch Kind(strings.ToLower(strings.TrimSpace(raw))) {
	case KindDeliveryNote:
		return KindDeliveryNote, nil
	case KindReturnNote:
		return KindReturnNote, nil
	case KindBillingStatement:
		return KindBillingStatement, nil
	case KindWriteOff:
		return KindWriteOff, nil
	}
	return "", fmt.Errorf("unknown document kind %q", raw)
}

type Align string

const (
	AlignLeft   Align = "L"
	AlignCenter Align = "C"
	AlignRight  Align = "R"
)

// Column widths are relative weights; the renderer scales them to the page.
type Column struct {
	Header string
	Width  float64
	Align  Align
}

type Table struct {
	Columns     []Column
	Rows        [][]string
	Footer      []string
	Placeholder string
}

func (t Table) Empty() bool {
	return len(t.Rows) == 0
}

type Field struct {
	Label string
	Value string
}

type PartyBlock struct {
	Title string
	Party model.Party
}

func (b PartyBlock) Lines() []string {
	if b.Title == "" {
		return nil
	}
	return append([]string{b.Title}, PartyLines(b.Party)...)
}

type Signature struct {
	Label string
	Name  string
}

type Document struct {
	Kind       Kind
	Title      string
	Number     string
	IssueDate  model.Date
	Supplier   PartyBlock
	Customer   PartyBlock
	Meta       []Field
	Table      Table
	Notes      string
	Signatures [2]Signature
	FileName   string
}

// Footer is printed at the bottom of every page; pages may be a page-count
// alias substituted by the renderer.
func Footer(generatedAt time.Time, page int, pages string) string {
	return fmt.Sprintf("Vygenerováno %s | Strana %d/%s", generatedAt.Format("02.01.2006 15:04"), page, pages)
}

// PartyLines lists the contact block, leaving out every absent optional
// field.
func PartyLines(p model.Party) []string {
	lines := make([]string, 0, 6)
	name := strings.TrimSpace(p.Name)
	if name == "" {
		name = "—"
	}
	lines = append(lines, name)
	if p.Address.Valid && strings.TrimSpace(p.Address.String) != "" {
		lines = append(lines, p.Address.String)
	}
	if p.ICO.Valid && strings.TrimSpace(p.ICO.String) != "" {
		lines = append(lines, "IČO: "+p.ICO.String)
	}
	if p.DIC.Valid && strings.TrimSpace(p.DIC.String) != "" {
		lines = append(lines, "DIČ: "+p.DIC.String)
	}
	if p.Phone.Valid && strings.TrimSpace(p.Phone.String) != "" {
		lines = append(lines, "Tel.: "+p.Phone.String)
	}
	if p.Email.Valid && strings.TrimSpace(p.Email.String) != "" {
		lines = append(lines, "E-mail: "+p.Email.String)
	}
	return lines
}

func sanitizeFileName(input string) string {
	result := make([]rune, 0, len(input))
	for _, r := range input {
		switch {
		case r >= 'a' && r <= 'z':
			result = append(result, r)
		case r >= 'A' && r <= 'Z':
			result = append(result, r)
		case r >= '0' && r <= '9':
			result = append(result, r)
		case r == '-', r == '_':
			result = append(result, r)
		default:
			result = append(result, '-')
		}
	}
	return strings.Trim(string(result), "-")
}

func fileName(prefix, number string) string {
	return FileName(prefix, number, "pdf")
}

// FileName builds a download name from a business number, replacing
// characters that are unsafe in file names.
func FileName(prefix, number, ext string) string {
	number = sanitizeFileName(number)
	if number == "" {
		number = "bez-cisla"
	}
	return fmt.Sprintf("%s-%s.%s", prefix, number, ext)
}

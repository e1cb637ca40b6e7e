package pdf

import (
	"bytes"
	"fmt"
	"os"
	"strings"
	"time"
	"unicode"

	"github.com/jung-kurt/gofpdf"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/nurpe/rental-desk/internal/config"
	"github.com/nurpe/rental-desk/internal/document"
)

const (
	margin      = 15.0
	rowHeight   = 7.0
	lineHeight  = 5.0
	footerSpace = 20.0
	pagesAlias  = "{nb}"
)

// Generator renders document.Document values. Without a configured TTF font
// it falls back to the core Helvetica font and strips diacritics.
type Generator struct {
	fontName string
	fontPath string
	boldPath string
	utf8     bool
	now      func() time.Time
}

func NewGenerator(cfg config.PDFConfig) (*Generator, error) {
	g := &Generator{fontName: "Helvetica", now: time.Now}
	if cfg.FontPath == "" {
		return g, nil
	}
	if _, err := os.Stat(cfg.FontPath); err != nil {
		return nil, fmt.Errorf("pdf font: %w", err)
	}
	bold := cfg.BoldFontPath
	if bold == "" {
		bold = cfg.FontPath
	} else if _, err := os.Stat(bold); err != nil {
		return nil, fmt.Errorf("pdf bold font: %w", err)
	}
	g.fontName = "DocumentSans"
	g.fontPath = cfg.FontPath
	g.boldPath = bold
	g.utf8 = true
	return g, nil
}

func (g *Generator) Generate(doc document.Document) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(margin, margin, margin)
	pdf.SetAutoPageBreak(true, footerSpace)
	pdf.AliasNbPages(pagesAlias)
	pdf.SetTitle(doc.Title+" "+doc.Number, g.utf8)

	if g.utf8 {
		pdf.AddUTF8Font(g.fontName, "", g.fontPath)
		pdf.AddUTF8Font(g.fontName, "B", g.boldPath)
	}
	text := g.textFunc(pdf)

	generatedAt := g.now()
	pdf.SetFooterFunc(func() {
		pdf.SetY(-margin)
		pdf.SetFont(g.fontName, "", 8)
		pdf.SetTextColor(110, 110, 110)
		pdf.CellFormat(0, 5, text(document.Footer(generatedAt, pdf.PageNo(), pagesAlias)), "T", 0, "R", false, 0, "")
		pdf.SetTextColor(0, 0, 0)
	})

	pdf.AddPage()
	g.titleBlock(pdf, text, doc)
	g.partyBlocks(pdf, text, doc.Supplier, doc.Customer)
	g.metaBlock(pdf, text, doc.Meta)
	g.table(pdf, text, doc.Table)
	g.notes(pdf, text, doc.Notes)
	g.signatures(pdf, text, doc.Signatures)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (g *Generator) textFunc(pdf *gofpdf.Fpdf) func(string) string {
	if g.utf8 {
		return func(s string) string { return s }
	}
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	return func(s string) string {
		return tr(stripDiacritics(s))
	}
}

func (g *Generator) titleBlock(pdf *gofpdf.Fpdf, text func(string) string, doc document.Document) {
	pdf.SetFont(g.fontName, "B", 16)
	pdf.CellFormat(0, 10, text(doc.Title), "", 1, "C", false, 0, "")

	pdf.SetFont(g.fontName, "", 11)
	if doc.Number != "" {
		pdf.CellFormat(0, 6, text("č. "+doc.Number), "", 1, "C", false, 0, "")
	}
	pdf.CellFormat(0, 6, text("Datum vystavení: "+formatDate(doc.IssueDate.Time)), "", 1, "C", false, 0, "")
	pdf.Ln(4)
}

func (g *Generator) partyBlocks(pdf *gofpdf.Fpdf, text func(string) string, left, right document.PartyBlock) {
	leftLines := left.Lines()
	rightLines := right.Lines()
	if len(leftLines) == 0 && len(rightLines) == 0 {
		return
	}

	pageWidth, _ := pdf.GetPageSize()
	colWidth := (pageWidth - 2*margin) / 2
	rows := max(len(leftLines), len(rightLines))

	for i := 0; i < rows; i++ {
		style := ""
		if i == 0 {
			style = "B"
		}
		pdf.SetFont(g.fontName, style, 10)
		pdf.CellFormat(colWidth, lineHeight, text(lineAt(leftLines, i)), "", 0, "L", false, 0, "")
		pdf.CellFormat(colWidth, lineHeight, text(lineAt(rightLines, i)), "", 1, "L", false, 0, "")
	}
	pdf.Ln(4)
}

func (g *Generator) metaBlock(pdf *gofpdf.Fpdf, text func(string) string, fields []document.Field) {
	if len(fields) == 0 {
		return
	}
	for _, f := range fields {
		pdf.SetFont(g.fontName, "B", 10)
		pdf.CellFormat(50, lineHeight, text(f.Label+":"), "", 0, "L", false, 0, "")
		pdf.SetFont(g.fontName, "", 10)
		pdf.CellFormat(0, lineHeight, text(safeValue(f.Value)), "", 1, "L", false, 0, "")
	}
	pdf.Ln(3)
}

func (g *Generator) table(pdf *gofpdf.Fpdf, text func(string) string, table document.Table) {
	widths := scaleWidths(pdf, table.Columns)
	g.tableHeader(pdf, text, table.Columns, widths)

	if table.Empty() {
		pdf.SetFont(g.fontName, "", 10)
		pdf.CellFormat(sum(widths), rowHeight*1.5, text(table.Placeholder), "1", 1, "C", false, 0, "")
		pdf.Ln(4)
		return
	}

	_, pageHeight := pdf.GetPageSize()
	pdf.SetFont(g.fontName, "", 9)
	for _, row := range table.Rows {
		if pdf.GetY()+rowHeight > pageHeight-footerSpace-rowHeight {
			pdf.AddPage()
			g.tableHeader(pdf, text, table.Columns, widths)
			pdf.SetFont(g.fontName, "", 9)
		}
		g.tableRow(pdf, text, table.Columns, widths, row, false)
	}

	if len(table.Footer) > 0 {
		pdf.SetFont(g.fontName, "B", 9)
		pdf.SetFillColor(240, 240, 240)
		g.tableRow(pdf, text, table.Columns, widths, table.Footer, true)
	}
	pdf.Ln(4)
}

func (g *Generator) tableHeader(pdf *gofpdf.Fpdf, text func(string) string, columns []document.Column, widths []float64) {
	pdf.SetFont(g.fontName, "B", 9)
	pdf.SetFillColor(225, 225, 225)
	for i, col := range columns {
		pdf.CellFormat(widths[i], rowHeight, fit(pdf, text(col.Header), widths[i]), "1", 0, "C", true, 0, "")
	}
	pdf.Ln(-1)
}

func (g *Generator) tableRow(pdf *gofpdf.Fpdf, text func(string) string, columns []document.Column, widths []float64, row []string, fill bool) {
	for i, col := range columns {
		value := ""
		if i < len(row) {
			value = text(row[i])
		}
		pdf.CellFormat(widths[i], rowHeight, fit(pdf, value, widths[i]), "1", 0, string(col.Align), fill, 0, "")
	}
	pdf.Ln(-1)
}

func (g *Generator) notes(pdf *gofpdf.Fpdf, text func(string) string, notes string) {
	if strings.TrimSpace(notes) == "" {
		return
	}
	pdf.SetFont(g.fontName, "B", 10)
	pdf.CellFormat(0, 6, text("Poznámka"), "", 1, "L", false, 0, "")
	pdf.SetFont(g.fontName, "", 10)
	pdf.MultiCell(0, lineHeight, text(notes), "", "L", false)
	pdf.Ln(3)
}

func (g *Generator) signatures(pdf *gofpdf.Fpdf, text func(string) string, signatures [2]document.Signature) {
	_, pageHeight := pdf.GetPageSize()
	if pdf.GetY()+30 > pageHeight-footerSpace {
		pdf.AddPage()
	}
	pageWidth, _ := pdf.GetPageSize()
	colWidth := (pageWidth - 2*margin) / 2

	pdf.Ln(12)
	pdf.SetFont(g.fontName, "", 10)
	pdf.CellFormat(colWidth, lineHeight, "______________________________", "", 0, "C", false, 0, "")
	pdf.CellFormat(colWidth, lineHeight, "______________________________", "", 1, "C", false, 0, "")
	for _, line := range []func(document.Signature) string{
		func(s document.Signature) string { return s.Label },
		func(s document.Signature) string { return s.Name },
	} {
		pdf.CellFormat(colWidth, lineHeight, text(line(signatures[0])), "", 0, "C", false, 0, "")
		pdf.CellFormat(colWidth, lineHeight, text(line(signatures[1])), "", 1, "C", false, 0, "")
	}
}

func scaleWidths(pdf *gofpdf.Fpdf, columns []document.Column) []float64 {
	pageWidth, _ := pdf.GetPageSize()
	available := pageWidth - 2*margin
	total := 0.0
	for _, c := range columns {
		total += c.Width
	}
	widths := make([]float64, len(columns))
	for i, c := range columns {
		if total <= 0 {
			widths[i] = available / float64(len(columns))
			continue
		}
		widths[i] = available * c.Width / total
	}
	return widths
}

// fit shortens value until it fits a cell of the given width.
func fit(pdf *gofpdf.Fpdf, value string, width float64) string {
	limit := width - 2
	if pdf.GetStringWidth(value) <= limit {
		return value
	}
	r := []rune(value)
	for len(r) > 0 && pdf.GetStringWidth(string(r)+"...") > limit {
		r = r[:len(r)-1]
	}
	return string(r) + "..."
}

func lineAt(lines []string, i int) string {
	if i < len(lines) {
		return lines[i]
	}
	return ""
}

func sum(values []float64) float64 {
	total := 0.0
	for _, v := range values {
		total += v
	}
	return total
}

func stripDiacritics(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}

func safeValue(value string) string {
	if strings.TrimSpace(value) == "" {
		return "—"
	}
	return value
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return "—"
	}
	return t.Format("02.01.2006")
}

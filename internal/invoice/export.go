package invoice

import (
	"bytes"
	"context"
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/sitelog/intake/report"
)

const sheetName = "صورت‌حساب"

// TemplateRenderer turns a document into HTML.
type TemplateRenderer interface {
	RenderString(name string, data any) (string, error)
}

// PDFRenderer converts HTML to PDF.
type PDFRenderer interface {
	RenderHTML(ctx context.Context, html string, opts report.PageOptions) ([]byte, error)
}

// RenderPDF lays doc out with the invoice template and converts it to PDF.
func RenderPDF(ctx context.Context, tpl TemplateRenderer, pdf PDFRenderer, doc Document) ([]byte, error) {
	html, err := tpl.RenderString("invoice.html", doc)
	if err != nil {
		return nil, err
	}
	out, err := pdf.RenderHTML(ctx, html, report.A4)
	if err != nil {
		return nil, fmt.Errorf("invoice: render pdf: %w", err)
	}
	return out, nil
}

// WriteXLSX writes doc as a right-to-left spreadsheet: a title row, one
// row per line and two footer rows with the count and total tonnage.
func WriteXLSX(doc Document) ([]byte, error) {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return nil, err
	}
	rtl := true
	if err := f.SetSheetView(sheetName, 0, &excelize.ViewOptions{RightToLeft: &rtl}); err != nil {
		return nil, err
	}

	title := doc.Header.CompanyName + " - " + doc.Header.ReportNumber + " - " + doc.Header.GeneratedOn
	if err := f.SetCellValue(sheetName, "A1", title); err != nil {
		return nil, err
	}

	headings := []any{"ردیف", "تاریخ", "مصالح", "پروژه", "تأمین‌کننده", "راننده", "پلاک", "وزن (تن)"}
	if err := f.SetSheetRow(sheetName, "A3", &headings); err != nil {
		return nil, err
	}
	if style, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{trimHash(doc.Header.AccentColor)}},
	}); err == nil {
		_ = f.SetCellStyle(sheetName, "A3", "H3", style)
	}

	row := 4
	for _, l := range doc.Lines {
		values := []any{l.Row, l.EntryDate, l.Material, l.Project, l.Supplier, l.Driver, l.PlateNumber, l.Tonnage}
		cell, err := excelize.CoordinatesToCellName(1, row)
		if err != nil {
			return nil, err
		}
		if err := f.SetSheetRow(sheetName, cell, &values); err != nil {
			return nil, err
		}
		row++
	}

	if style, err := f.NewStyle(&excelize.Style{NumFmt: 2}); err == nil && len(doc.Lines) > 0 {
		_ = f.SetCellStyle(sheetName, "H4", fmt.Sprintf("H%d", row-1), style)
	}

	row++
	if err := f.SetCellValue(sheetName, fmt.Sprintf("G%d", row), "تعداد"); err != nil {
		return nil, err
	}
	if err := f.SetCellValue(sheetName, fmt.Sprintf("H%d", row), doc.Footer.Count); err != nil {
		return nil, err
	}
	row++
	if err := f.SetCellValue(sheetName, fmt.Sprintf("G%d", row), "جمع کل"); err != nil {
		return nil, err
	}
	if err := f.SetCellValue(sheetName, fmt.Sprintf("H%d", row), doc.Footer.TotalTonnage); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("invoice: write xlsx: %w", err)
	}
	return buf.Bytes(), nil
}

func trimHash(color string) string {
	if len(color) == 7 && color[0] == '#' {
		return color[1:]
	}
	return "1E40AF"
}

// Package invoice assembles printable delivery statements from filtered
// entries and exports them as PDF or spreadsheet.
package invoice

import (
	"fmt"
	"time"

	"github.com/sitelog/intake/internal/jalali"
)

// Meta carries the values that identify one generated document.
type Meta struct {
	ReportNumber string
	GeneratedOn  jalali.Date
}

// NewMeta derives the report number and date from now.
func NewMeta(now time.Time) Meta {
	return Meta{ReportNumber: ReportNumber(now), GeneratedOn: jalali.FromTime(now)}
}

// ReportNumber is "RPT-" followed by the last six digits of now in unix milliseconds.
func ReportNumber(now time.Time) string {
	return fmt.Sprintf("RPT-%06d", now.UnixMilli()%1_000_000)
}

// FilterItem is one applied criterion as shown in the document header.
type FilterItem struct {
	Key   string `json:"key"`
	Label string `json:"label"`
	Value string `json:"value"`
}

// Header holds the branding and identification block.
type Header struct {
	CompanyName  string       `json:"company_name"`
	LogoURL      string       `json:"logo_url"`
	AccentColor  string       `json:"accent_color"`
	HeaderText   string       `json:"header_text"`
	ContactInfo  string       `json:"contact_info"`
	FooterText   string       `json:"footer_text"`
	Currency     string       `json:"currency"`
	ReportNumber string       `json:"report_number"`
	GeneratedOn  string       `json:"generated_on"`
	Filters      []FilterItem `json:"filters"`
}

// Line is one delivery in the statement.
type Line struct {
	Row         int     `json:"row"`
	EntryID     string  `json:"entry_id"`
	EntryDate   string  `json:"entry_date"`
	Material    string  `json:"material"`
	Project     string  `json:"project"`
	Supplier    string  `json:"supplier"`
	Driver      string  `json:"driver"`
	PlateNumber string  `json:"plate_number"`
	Tonnage     float64 `json:"tonnage"`
	TonnageText string  `json:"tonnage_text"`
}

// Footer holds the totals.
type Footer struct {
	Count        int     `json:"count"`
	CountText    string  `json:"count_text"`
	TotalTonnage float64 `json:"total_tonnage"`
	TotalText    string  `json:"total_text"`
}

// Document is an assembled statement.
type Document struct {
	Header Header `json:"header"`
	Lines  []Line `json:"lines"`
	Footer Footer `json:"footer"`
}

// IsEmpty reports whether the document has no lines.
func (d Document) IsEmpty() bool {
	return len(d.Lines) == 0
}

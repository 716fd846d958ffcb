package invoice

import (
	"github.com/sitelog/intake/internal/intake"
	"github.com/sitelog/intake/internal/jalali"
	"github.com/sitelog/intake/internal/masterdata"
	"github.com/sitelog/intake/internal/settings"
)

// Assemble builds a document from entries that the caller has already
// filtered with criteria. Missing reference names render as "".
func Assemble(entries []intake.Entry, cat masterdata.Catalog, s settings.Settings, criteria intake.Criteria, meta Meta) Document {
	lines := make([]Line, 0, len(entries))
	for i, e := range entries {
		lines = append(lines, Line{
			Row:         i + 1,
			EntryID:     e.ID,
			EntryDate:   e.EntryDate,
			Material:    cat.MaterialName(e.MaterialID),
			Project:     cat.ProjectName(e.ProjectID),
			Supplier:    cat.SupplierName(e.SupplierID),
			Driver:      cat.DriverName(e.DriverID),
			PlateNumber: e.PlateNumber,
			Tonnage:     e.Tonnage,
			TonnageText: jalali.FormatFixed(e.Tonnage, 2),
		})
	}

	total := intake.TotalTonnage(entries)
	return Document{
		Header: Header{
			CompanyName:  s.CompanyName,
			LogoURL:      s.LogoURL,
			AccentColor:  s.InvoicePrimaryColor,
			HeaderText:   s.HeaderText,
			ContactInfo:  s.ContactInfo,
			FooterText:   s.FooterText,
			Currency:     s.Currency,
			ReportNumber: meta.ReportNumber,
			GeneratedOn:  meta.GeneratedOn.String(),
			Filters:      describeCriteria(criteria, cat),
		},
		Lines: lines,
		Footer: Footer{
			Count:        len(entries),
			CountText:    jalali.ToLocalizedDigits(len(entries)),
			TotalTonnage: total,
			TotalText:    jalali.FormatNumber(total),
		},
	}
}

func describeCriteria(c intake.Criteria, cat masterdata.Catalog) []FilterItem {
	candidates := []FilterItem{
		{Key: "project_id", Label: "پروژه", Value: nameOrEmpty(c.ProjectID, cat.ProjectName)},
		{Key: "driver_id", Label: "راننده", Value: nameOrEmpty(c.DriverID, cat.DriverName)},
		{Key: "material_id", Label: "مصالح", Value: nameOrEmpty(c.MaterialID, cat.MaterialName)},
		{Key: "supplier_id", Label: "تأمین‌کننده", Value: nameOrEmpty(c.SupplierID, cat.SupplierName)},
		{Key: "plate_number", Label: "پلاک", Value: c.PlateNumber},
		{Key: "from_date", Label: "از تاریخ", Value: c.FromDate},
		{Key: "to_date", Label: "تا تاریخ", Value: c.ToDate},
	}
	items := make([]FilterItem, 0, len(candidates))
	for _, item := range candidates {
		if item.Value != "" {
			items = append(items, item)
		}
	}
	return items
}

// nameOrEmpty resolves id; an id that is set but dangling still shows, as "-".
func nameOrEmpty(id string, resolve func(string) string) string {
	if id == "" {
		return ""
	}
	if name := resolve(id); name != "" {
		return name
	}
	return "-"
}

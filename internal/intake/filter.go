package intake

import (
	"strings"

	"github.com/sitelog/intake/internal/jalali"
	"github.com/sitelog/intake/internal/masterdata"
)

// Filter keeps the entries satisfying every set criterion, in input order.
// Date bounds are inclusive.
func Filter(entries []Entry, c Criteria) []Entry {
	out := make([]Entry, 0, len(entries))
	for _, e := range entries {
		if c.matches(e) {
			out = append(out, e)
		}
	}
	return out
}

func (c Criteria) matches(e Entry) bool {
	switch {
	case c.ProjectID != "" && e.ProjectID != c.ProjectID:
		return false
	case c.DriverID != "" && e.DriverID != c.DriverID:
		return false
	case c.MaterialID != "" && e.MaterialID != c.MaterialID:
		return false
	case c.SupplierID != "" && e.SupplierID != c.SupplierID:
		return false
	case c.PlateNumber != "" && !strings.Contains(e.PlateNumber, c.PlateNumber):
		return false
	case c.FromDate != "" && jalali.Compare(e.EntryDate, c.FromDate) < 0:
		return false
	case c.ToDate != "" && jalali.Compare(e.EntryDate, c.ToDate) > 0:
		return false
	}
	return true
}

// Search implements the records screen: the term must occur in the material,
// driver, project or supplier name or in the plate, and the optional
// material and project selections must match exactly.
func Search(entries []Entry, cat masterdata.Catalog, q SearchQuery) []Entry {
	out := make([]Entry, 0, len(entries))
	for _, e := range entries {
		if q.MaterialID != "" && e.MaterialID != q.MaterialID {
			continue
		}
		if q.ProjectID != "" && e.ProjectID != q.ProjectID {
			continue
		}
		if !termMatches(e, cat, q.Term) {
			continue
		}
		out = append(out, e)
	}
	return out
}

func termMatches(e Entry, cat masterdata.Catalog, term string) bool {
	if term == "" {
		return true
	}
	fields := [...]string{
		cat.MaterialName(e.MaterialID),
		cat.DriverName(e.DriverID),
		e.PlateNumber,
		cat.ProjectName(e.ProjectID),
		cat.SupplierName(e.SupplierID),
	}
	for _, f := range fields {
		if strings.Contains(f, term) {
			return true
		}
	}
	return false
}

package intake

import (
	"github.com/shopspring/decimal"

	"github.com/sitelog/intake/internal/masterdata"
)

// TotalTonnage sums the tonnage of entries.
func TotalTonnage(entries []Entry) float64 {
	return sumTonnage(entries, func(Entry) bool { return true })
}

// TonnageByMaterial sums tonnage per material, in the order of materials,
// omitting materials whose sum is not positive.
func TonnageByMaterial(entries []Entry, materials []masterdata.Entity) []MaterialTonnage {
	out := make([]MaterialTonnage, 0, len(materials))
	for _, m := range materials {
		total := sumTonnage(entries, func(e Entry) bool { return e.MaterialID == m.ID })
		if total > 0 {
			out = append(out, MaterialTonnage{MaterialID: m.ID, Name: m.Name, Tonnage: total})
		}
	}
	return out
}

// Recent returns the first n entries. Entries are expected newest first.
func Recent(entries []Entry, n int) []Entry {
	if n <= 0 {
		return []Entry{}
	}
	if n > len(entries) {
		n = len(entries)
	}
	out := make([]Entry, n)
	copy(out, entries[:n])
	return out
}

// Summarize builds the headline figures. Project and material counts are the
// sizes of the reference collections, not of what entries mention.
func Summarize(entries []Entry, materials, projects []masterdata.Entity) Summary {
	return Summary{
		TotalTonnage:      TotalTonnage(entries),
		DeliveryCount:     len(entries),
		ProjectCount:      len(projects),
		MaterialTypeCount: len(materials),
	}
}

func sumTonnage(entries []Entry, keep func(Entry) bool) float64 {
	total := decimal.Zero
	for _, e := range entries {
		if keep(e) {
			total = total.Add(decimal.NewFromFloat(e.Tonnage))
		}
	}
	f, _ := total.Float64()
	return f
}

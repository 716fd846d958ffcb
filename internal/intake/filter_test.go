package intake

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sitelog/intake/internal/masterdata"
)

func sampleEntries() []Entry {
	return []Entry{
		{ID: "e1", ProjectID: "p1", DriverID: "d1", MaterialID: "m1", SupplierID: "s1", PlateNumber: "12ب345-ایران11", Tonnage: 10, EntryDate: "1403/01/05"},
		{ID: "e2", ProjectID: "p2", DriverID: "d2", MaterialID: "m2", SupplierID: "s1", PlateNumber: "77د999", Tonnage: 4.5, EntryDate: "1403/2/1"},
		{ID: "e3", ProjectID: "p1", DriverID: "d2", MaterialID: "m1", SupplierID: "s2", PlateNumber: "12ب346", Tonnage: 7.25, EntryDate: "۱۴۰۳/۰۱/۳۰"},
		{ID: "e4", ProjectID: "p1", DriverID: "d1", MaterialID: "m3", SupplierID: "s2", PlateNumber: "55ج123", Tonnage: 1, EntryDate: "bad-date"},
	}
}

func ids(entries []Entry) []string {
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.ID)
	}
	return out
}

func TestFilterEmptyCriteriaIsIdentity(t *testing.T) {
	entries := sampleEntries()
	assert.Equal(t, entries, Filter(entries, Criteria{}))
	assert.True(t, Criteria{}.IsEmpty())
}

func TestFilterEmptyInput(t *testing.T) {
	got := Filter(nil, Criteria{ProjectID: "p1"})
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestFilterConjunction(t *testing.T) {
	tests := []struct {
		name     string
		criteria Criteria
		want     []string
	}{
		{"project", Criteria{ProjectID: "p1"}, []string{"e1", "e3", "e4"}},
		{"project and driver", Criteria{ProjectID: "p1", DriverID: "d2"}, []string{"e3"}},
		{"material", Criteria{MaterialID: "m2"}, []string{"e2"}},
		{"supplier", Criteria{SupplierID: "s2"}, []string{"e3", "e4"}},
		{"plate substring", Criteria{PlateNumber: "12ب34"}, []string{"e1", "e3"}},
		{"plate no normalisation", Criteria{PlateNumber: "12 ب"}, []string{}},
		{"no match", Criteria{ProjectID: "p2", MaterialID: "m1"}, []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ids(Filter(sampleEntries(), tt.criteria)))
		})
	}
}

func TestFilterDateBoundsInclusive(t *testing.T) {
	entries := sampleEntries()

	got := Filter(entries, Criteria{FromDate: "1403/1/5", ToDate: "1403/01/30"})
	// e4 has an unparseable date, so the bounds cannot exclude it.
	assert.Equal(t, []string{"e1", "e3", "e4"}, ids(got))

	got = Filter(entries, Criteria{FromDate: "۱۴۰۳/۰۲/۰۱"})
	assert.Equal(t, []string{"e2", "e4"}, ids(got))

	got = Filter(entries, Criteria{ToDate: "1403/1/4"})
	assert.Equal(t, []string{"e4"}, ids(got))
}

func TestFilterPreservesOrder(t *testing.T) {
	entries := sampleEntries()
	got := Filter([]Entry{entries[2], entries[0]}, Criteria{MaterialID: "m1"})
	assert.Equal(t, []string{"e3", "e1"}, ids(got))
}

func TestSearch(t *testing.T) {
	cat := masterdata.Catalog{
		Materials: []masterdata.Entity{{ID: "m1", Name: "سیمان"}, {ID: "m2", Name: "شن"}},
		Drivers:   []masterdata.Entity{{ID: "d1", Name: "علی رضایی"}, {ID: "d2", Name: "حسن"}},
		Suppliers: []masterdata.Entity{{ID: "s1", Name: "فولاد"}},
		Projects:  []masterdata.Entity{{ID: "p1", Name: "برج آسمان"}},
	}
	entries := sampleEntries()

	tests := []struct {
		name string
		q    SearchQuery
		want []string
	}{
		{"empty term matches all", SearchQuery{}, []string{"e1", "e2", "e3", "e4"}},
		{"material name", SearchQuery{Term: "سیمان"}, []string{"e1", "e3"}},
		{"driver name", SearchQuery{Term: "رضایی"}, []string{"e1", "e4"}},
		{"supplier name", SearchQuery{Term: "فولاد"}, []string{"e1", "e2"}},
		{"project name", SearchQuery{Term: "آسمان"}, []string{"e1", "e3", "e4"}},
		{"plate", SearchQuery{Term: "999"}, []string{"e2"}},
		{"term and project", SearchQuery{Term: "حسن", ProjectID: "p1"}, []string{"e3"}},
		{"material dropdown", SearchQuery{MaterialID: "m3"}, []string{"e4"}},
		{"dangling names never match", SearchQuery{Term: "ماسه"}, []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ids(Search(entries, cat, tt.q)))
		})
	}
}

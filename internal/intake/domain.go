// Package intake records truck deliveries and implements the filter and
// aggregation rules applied to them.
package intake

import (
	"strings"
	"time"

	"github.com/sitelog/intake/internal/masterdata"
)

// DefaultUnit is the quantity unit used when the form leaves it blank.
const DefaultUnit = "کیلوگرم"

// Entry is one delivery of material to a project.
type Entry struct {
	ID          string    `json:"id"`
	MaterialID  string    `json:"material_id"`
	DriverID    string    `json:"driver_id"`
	SupplierID  string    `json:"supplier_id"`
	ProjectID   string    `json:"project_id"`
	PlateNumber string    `json:"plate_number"`
	Tonnage     float64   `json:"tonnage"`
	Quantity    float64   `json:"quantity"`
	Unit        string    `json:"unit"`
	EntryDate   string    `json:"entry_date"`
	CreatedAt   time.Time `json:"created_at"`
}

// Criteria narrows entries for invoicing. Empty fields do not constrain.
type Criteria struct {
	ProjectID   string `json:"project_id,omitempty"`
	DriverID    string `json:"driver_id,omitempty"`
	MaterialID  string `json:"material_id,omitempty"`
	SupplierID  string `json:"supplier_id,omitempty"`
	PlateNumber string `json:"plate_number,omitempty"`
	FromDate    string `json:"from_date,omitempty"`
	ToDate      string `json:"to_date,omitempty"`
}

// IsEmpty reports whether no criterion is set.
func (c Criteria) IsEmpty() bool {
	return c == Criteria{}
}

// SearchQuery is the records screen's free-text search plus its two dropdowns.
type SearchQuery struct {
	Term       string
	MaterialID string
	ProjectID  string
}

// MaterialTonnage is the summed tonnage for one material.
type MaterialTonnage struct {
	MaterialID string  `json:"material_id"`
	Name       string  `json:"name"`
	Tonnage    float64 `json:"tonnage"`
}

// Summary holds the dashboard headline figures.
type Summary struct {
	TotalTonnage      float64 `json:"total_tonnage"`
	DeliveryCount     int     `json:"delivery_count"`
	ProjectCount      int     `json:"project_count"`
	MaterialTypeCount int     `json:"material_type_count"`
}

// SubmitRequest is the intake form payload.
type SubmitRequest struct {
	Material    masterdata.Ref `json:"material"`
	Driver      masterdata.Ref `json:"driver"`
	Supplier    masterdata.Ref `json:"supplier"`
	Project     masterdata.Ref `json:"project"`
	PlateNumber string         `json:"plate_number"`
	Tonnage     float64        `json:"tonnage"`
	Quantity    float64        `json:"quantity"`
	Unit        string         `json:"unit"`
	EntryDate   string         `json:"entry_date"`
}

func (r *SubmitRequest) trim() {
	r.PlateNumber = strings.TrimSpace(r.PlateNumber)
	r.Unit = strings.TrimSpace(r.Unit)
	r.EntryDate = strings.TrimSpace(r.EntryDate)
}

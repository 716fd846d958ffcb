// Package masterdata manages the reference entities delivery records point
// at: materials, drivers, suppliers and projects.
package masterdata

import (
	"strings"
	"time"
)

// Kind identifies one reference collection.
type Kind string

const (
	KindMaterial Kind = "material"
	KindDriver   Kind = "driver"
	KindSupplier Kind = "supplier"
	KindProject  Kind = "project"
)

// Kinds lists every reference collection in display order.
var Kinds = []Kind{KindMaterial, KindDriver, KindSupplier, KindProject}

// Valid reports whether k is a known kind.
func (k Kind) Valid() bool {
	switch k {
	case KindMaterial, KindDriver, KindSupplier, KindProject:
		return true
	default:
		return false
	}
}

// Table is the backing table name.
func (k Kind) Table() string {
	return string(k) + "s"
}

// Entity is a named reference row. DefaultPlate is only used by drivers.
type Entity struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	DefaultPlate string    `json:"default_plate,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

// Ref is the intake form's choice for one reference field: either an
// existing entity id or the name of an entity to create.
type Ref struct {
	ID      string `json:"id,omitempty"`
	NewName string `json:"new_name,omitempty"`
}

// Existing refers to an entity that is already stored.
func Existing(id string) Ref {
	return Ref{ID: id}
}

// NewNamed asks for an entity called name to be created (or reused by name).
func NewNamed(name string) Ref {
	return Ref{NewName: name}
}

// IsNew reports whether the ref asks for a new entity.
func (r Ref) IsNew() bool {
	return strings.TrimSpace(r.ID) == "" && strings.TrimSpace(r.NewName) != ""
}

// IsBlank reports whether no choice was made.
func (r Ref) IsBlank() bool {
	return strings.TrimSpace(r.ID) == "" && strings.TrimSpace(r.NewName) == ""
}

// CreateRequest is the payload for adding a reference entity.
type CreateRequest struct {
	Name         string `json:"name" validate:"required,max=200"`
	DefaultPlate string `json:"default_plate" validate:"max=50"`
}

package masterdata

// Catalog is a read-only snapshot of all reference collections.
type Catalog struct {
	Materials []Entity `json:"materials"`
	Drivers   []Entity `json:"drivers"`
	Suppliers []Entity `json:"suppliers"`
	Projects  []Entity `json:"projects"`
}

// Collection returns the slice for kind.
func (c Catalog) Collection(kind Kind) []Entity {
	switch kind {
	case KindMaterial:
		return c.Materials
	case KindDriver:
		return c.Drivers
	case KindSupplier:
		return c.Suppliers
	case KindProject:
		return c.Projects
	default:
		return nil
	}
}

// Name resolves id within kind. Unknown or empty ids resolve to "".
func (c Catalog) Name(kind Kind, id string) string {
	if e, ok := find(c.Collection(kind), id); ok {
		return e.Name
	}
	return ""
}

func (c Catalog) MaterialName(id string) string { return c.Name(KindMaterial, id) }
func (c Catalog) DriverName(id string) string   { return c.Name(KindDriver, id) }
func (c Catalog) SupplierName(id string) string { return c.Name(KindSupplier, id) }
func (c Catalog) ProjectName(id string) string  { return c.Name(KindProject, id) }

// Driver looks up a driver by id.
func (c Catalog) Driver(id string) (Entity, bool) {
	return find(c.Drivers, id)
}

func find(list []Entity, id string) (Entity, bool) {
	if id == "" {
		return Entity{}, false
	}
	for _, e := range list {
		if e.ID == id {
			return e, true
		}
	}
	return Entity{}, false
}

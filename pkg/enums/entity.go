package enums

import "fmt"

// Entity names a record-store collection managed by the dashboard.
type Entity string

const (
	EntityCategories Entity = "categories"
	EntitySellers    Entity = "sellers"
	EntityProducts   Entity = "products"
	EntityOrders     Entity = "orders"
)

var validEntities = []Entity{
	EntityCategories,
	EntitySellers,
	EntityProducts,
	EntityOrders,
}

// Entities lists every entity in display order.
func Entities() []Entity {
	out := make([]Entity, len(validEntities))
	copy(out, validEntities)
	return out
}

// String implements fmt.Stringer.
func (e Entity) String() string {
	return string(e)
}

// IsValid reports whether the value is a known Entity.
func (e Entity) IsValid() bool {
	for _, candidate := range validEntities {
		if candidate == e {
			return true
		}
	}
	return false
}

// ParseEntity converts raw input into an Entity.
func ParseEntity(value string) (Entity, error) {
	for _, candidate := range validEntities {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid entity %q", value)
}

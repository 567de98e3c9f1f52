package scan

import (
	"fmt"
	"strings"

	"github.com/angelmondragon/marketdesk/pkg/enums"
)

// FieldType is the primitive type the model is asked to produce.
type FieldType string

const (
	TypeString  FieldType = "string"
	TypeNumber  FieldType = "number"
	TypeBoolean FieldType = "boolean"
	TypeEnum    FieldType = "enum"
)

// Lookup marks a field whose extracted text names a record of another entity.
type Lookup struct {
	Target      enums.Entity
	TargetField string
	LabelField  string
}

// SchemaField is one line of the extraction schema.
type SchemaField struct {
	Key     string
	Type    FieldType
	Values  []string
	Format  string
	Comment string
	Lookup  *Lookup
}

// Schema is the extraction contract for one entity.
type Schema struct {
	Entity enums.Entity
	Fields []SchemaField
}

// Describe renders the schema as the typed object literal sent to the model.
func (s Schema) Describe() string {
	var b strings.Builder
	b.WriteString("{\n")
	for _, f := range s.Fields {
		fmt.Fprintf(&b, "  %q: %s | null, //", f.Key, f.typeExpr())
		if f.Format != "" {
			fmt.Fprintf(&b, " %s //", f.Format)
		}
		fmt.Fprintf(&b, " %s\n", f.Comment)
	}
	b.WriteString("}")
	return b.String()
}

// Field returns the schema field for key.
func (s Schema) Field(key string) (SchemaField, bool) {
	for _, f := range s.Fields {
		if f.Key == key {
			return f, true
		}
	}
	return SchemaField{}, false
}

// LookupTargets lists the entities whose records serve as match candidates.
func (s Schema) LookupTargets() []enums.Entity {
	var out []enums.Entity
	seen := map[enums.Entity]bool{}
	for _, f := range s.Fields {
		if f.Lookup != nil && !seen[f.Lookup.Target] {
			seen[f.Lookup.Target] = true
			out = append(out, f.Lookup.Target)
		}
	}
	return out
}

func (f SchemaField) typeExpr() string {
	if f.Type != TypeEnum {
		return string(f.Type)
	}
	quoted := make([]string, 0, len(f.Values))
	for _, v := range f.Values {
		quoted = append(quoted, fmt.Sprintf("%q", v))
	}
	return strings.Join(quoted, " | ")
}

func lookupComment(target string) string {
	return fmt.Sprintf(`Name of the %s record (e.g. "Jonas Schmidt")`, target)
}

func orderStatusValues() []string {
	statuses := enums.OrderStatuses()
	out := make([]string, 0, len(statuses))
	for _, s := range statuses {
		out = append(out, s.String())
	}
	return out
}

var schemas = map[enums.Entity]Schema{
	enums.EntityCategories: {
		Entity: enums.EntityCategories,
		Fields: []SchemaField{
			{Key: "name", Type: TypeString, Comment: "Category name"},
			{Key: "description", Type: TypeString, Comment: "Description"},
		},
	},
	enums.EntitySellers: {
		Entity: enums.EntitySellers,
		Fields: []SchemaField{
			{Key: "company_name", Type: TypeString, Comment: "Company name / seller name"},
			{Key: "contact_first_name", Type: TypeString, Comment: "Contact first name"},
			{Key: "contact_last_name", Type: TypeString, Comment: "Contact last name"},
			{Key: "email", Type: TypeString, Comment: "Email address"},
			{Key: "phone", Type: TypeString, Comment: "Phone number"},
			{Key: "street", Type: TypeString, Comment: "Street"},
			{Key: "house_number", Type: TypeString, Comment: "House number"},
			{Key: "postal_code", Type: TypeString, Comment: "Postal code"},
			{Key: "city", Type: TypeString, Comment: "City"},
			{Key: "description", Type: TypeString, Comment: "Description / about us"},
		},
	},
	enums.EntityProducts: {
		Entity: enums.EntityProducts,
		Fields: []SchemaField{
			{Key: "name", Type: TypeString, Comment: "Product name"},
			{Key: "description", Type: TypeString, Comment: "Product description"},
			{Key: "price", Type: TypeNumber, Comment: "Price (in euros)"},
			{
				Key: "category", Type: TypeString, Comment: lookupComment("category"),
				Lookup: &Lookup{Target: enums.EntityCategories, TargetField: "category_ref", LabelField: "name"},
			},
			{
				Key: "seller", Type: TypeString, Comment: lookupComment("seller"),
				Lookup: &Lookup{Target: enums.EntitySellers, TargetField: "seller_ref", LabelField: "company_name"},
			},
			{Key: "available", Type: TypeBoolean, Comment: "Available"},
		},
	},
	enums.EntityOrders: {
		Entity: enums.EntityOrders,
		Fields: []SchemaField{
			{
				Key: "product", Type: TypeString, Comment: lookupComment("product"),
				Lookup: &Lookup{Target: enums.EntityProducts, TargetField: "product_ref", LabelField: "name"},
			},
			{Key: "buyer_first_name", Type: TypeString, Comment: "First name"},
			{Key: "buyer_last_name", Type: TypeString, Comment: "Last name"},
			{Key: "buyer_email", Type: TypeString, Comment: "Email address"},
			{Key: "buyer_phone", Type: TypeString, Comment: "Phone number"},
			{Key: "ship_street", Type: TypeString, Comment: "Street"},
			{Key: "ship_house_number", Type: TypeString, Comment: "House number"},
			{Key: "ship_postal_code", Type: TypeString, Comment: "Postal code"},
			{Key: "ship_city", Type: TypeString, Comment: "City"},
			{Key: "order_date", Type: TypeString, Format: "YYYY-MM-DD", Comment: "Order date"},
			{Key: "total_amount", Type: TypeNumber, Comment: "Total amount (in euros)"},
			{Key: "status", Type: TypeEnum, Values: orderStatusValues(), Comment: "Order status"},
		},
	},
}

// SchemaFor returns the extraction schema of entity.
func SchemaFor(entity enums.Entity) (Schema, bool) {
	s, ok := schemas[entity]
	return s, ok
}

package records

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/angelmondragon/marketdesk/pkg/enums"
	pkgerrors "github.com/angelmondragon/marketdesk/pkg/errors"
	"github.com/angelmondragon/marketdesk/pkg/recordstore"
)

// Kind is the storage type of a record field.
type Kind string

const (
	KindString    Kind = "string"
	KindNumber    Kind = "number"
	KindBoolean   Kind = "boolean"
	KindDate      Kind = "date"
	KindEnum      Kind = "enum"
	KindReference Kind = "reference"
)

const dateLayout = "2006-01-02"

// Field describes one stored field of an entity.
type Field struct {
	Name   string
	Kind   Kind
	Target enums.Entity
	Values []string
}

var entityFields = map[enums.Entity][]Field{
	enums.EntityCategories: {
		{Name: "name", Kind: KindString},
		{Name: "description", Kind: KindString},
	},
	enums.EntitySellers: {
		{Name: "company_name", Kind: KindString},
		{Name: "contact_first_name", Kind: KindString},
		{Name: "contact_last_name", Kind: KindString},
		{Name: "email", Kind: KindString},
		{Name: "phone", Kind: KindString},
		{Name: "street", Kind: KindString},
		{Name: "house_number", Kind: KindString},
		{Name: "postal_code", Kind: KindString},
		{Name: "city", Kind: KindString},
		{Name: "description", Kind: KindString},
	},
	enums.EntityProducts: {
		{Name: "name", Kind: KindString},
		{Name: "description", Kind: KindString},
		{Name: "price", Kind: KindNumber},
		{Name: "category_ref", Kind: KindReference, Target: enums.EntityCategories},
		{Name: "seller_ref", Kind: KindReference, Target: enums.EntitySellers},
		{Name: "available", Kind: KindBoolean},
		{Name: "image_url", Kind: KindString},
	},
	enums.EntityOrders: {
		{Name: "product_ref", Kind: KindReference, Target: enums.EntityProducts},
		{Name: "buyer_first_name", Kind: KindString},
		{Name: "buyer_last_name", Kind: KindString},
		{Name: "buyer_email", Kind: KindString},
		{Name: "buyer_phone", Kind: KindString},
		{Name: "ship_street", Kind: KindString},
		{Name: "ship_house_number", Kind: KindString},
		{Name: "ship_postal_code", Kind: KindString},
		{Name: "ship_city", Kind: KindString},
		{Name: "order_date", Kind: KindDate},
		{Name: "total_amount", Kind: KindNumber},
		{Name: "status", Kind: KindEnum, Values: orderStatusValues()},
	},
}

func orderStatusValues() []string {
	statuses := enums.OrderStatuses()
	out := make([]string, 0, len(statuses))
	for _, s := range statuses {
		out = append(out, s.String())
	}
	return out
}

// Fields returns the stored fields of entity in declaration order.
func Fields(entity enums.Entity) []Field {
	defs := entityFields[entity]
	out := make([]Field, len(defs))
	copy(out, defs)
	return out
}

// SanitizePatch keeps the keys of patch that entity declares and checks their types.
// Unknown keys are dropped. Null values are kept so callers can clear a field.
func SanitizePatch(entity enums.Entity, patch map[string]any) (map[string]any, error) {
	defs, ok := entityFields[entity]
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("unknown entity %q", entity))
	}

	byName := make(map[string]Field, len(defs))
	for _, def := range defs {
		byName[def.Name] = def
	}

	out := make(map[string]any, len(patch))
	problems := map[string]string{}
	for key, value := range patch {
		def, ok := byName[key]
		if !ok {
			continue
		}
		if value == nil {
			out[key] = nil
			continue
		}
		normalized, err := def.check(value)
		if err != nil {
			problems[key] = err.Error()
			continue
		}
		out[key] = normalized
	}

	if len(problems) > 0 {
		keys := make([]string, 0, len(problems))
		for k := range problems {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid fields: "+strings.Join(keys, ", ")).
			WithDetails(problems)
	}
	return out, nil
}

// CheckField validates one non-null value the way SanitizePatch does.
// ok is false when entity does not declare key or the value fails its check.
func CheckField(entity enums.Entity, key string, value any) (any, bool) {
	for _, def := range entityFields[entity] {
		if def.Name != key {
			continue
		}
		normalized, err := def.check(value)
		if err != nil {
			return nil, false
		}
		return normalized, true
	}
	return nil, false
}

func (f Field) check(value any) (any, error) {
	switch f.Kind {
	case KindNumber:
		return asNumber(value)
	case KindBoolean:
		b, ok := value.(bool)
		if !ok {
			return nil, fmt.Errorf("expected boolean")
		}
		return b, nil
	case KindDate:
		s, ok := value.(string)
		if !ok {
			return nil, fmt.Errorf("expected date string")
		}
		if _, err := time.Parse(dateLayout, s); err != nil {
			return nil, fmt.Errorf("expected date as YYYY-MM-DD")
		}
		return s, nil
	case KindEnum:
		s, ok := value.(string)
		if !ok {
			return nil, fmt.Errorf("expected string")
		}
		for _, allowed := range f.Values {
			if s == allowed {
				return s, nil
			}
		}
		return nil, fmt.Errorf("expected one of %v", f.Values)
	case KindReference:
		s, ok := value.(string)
		if !ok || recordstore.ExtractRecordID(s) == "" {
			return nil, fmt.Errorf("expected record reference")
		}
		return s, nil
	default:
		s, ok := value.(string)
		if !ok {
			return nil, fmt.Errorf("expected string")
		}
		return s, nil
	}
}

func asNumber(value any) (float64, error) {
	switch v := value.(type) {
	case float64:
		return v, nil
	case float32:
		return float64(v), nil
	case int:
		return float64(v), nil
	case int64:
		return float64(v), nil
	case json.Number:
		return v.Float64()
	}
	return 0, fmt.Errorf("expected number")
}

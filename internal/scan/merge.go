package scan

import (
	"encoding/json"
	"sort"

	"github.com/angelmondragon/marketdesk/internal/records"
	"github.com/angelmondragon/marketdesk/pkg/enums"
)

// RefBuilder renders the reference string for a record of entity.
type RefBuilder func(entity enums.Entity, recordID string) string

// Report summarizes what a merge changed.
type Report struct {
	Copied    []string          `json:"copied"`
	Matched   map[string]string `json:"matched"`
	Unmatched []string          `json:"unmatched"`
}

// Filled counts the fields the merge wrote.
func (r Report) Filled() int {
	return len(r.Copied) + len(r.Matched)
}

// Merge layers an extraction over previous form values. Direct fields that are
// non-null and of the declared type overwrite previous values, then lookup fields
// that match a candidate set their target reference. Nothing else is touched.
func Merge(schema Schema, previous, extracted map[string]any, candidates map[enums.Entity][]Candidate, ref RefBuilder) (map[string]any, Report) {
	merged := make(map[string]any, len(previous)+len(extracted))
	for k, v := range previous {
		merged[k] = v
	}
	report := Report{Copied: []string{}, Matched: map[string]string{}, Unmatched: []string{}}

	direct, lookups := partition(schema, extracted)
	for _, key := range sortedKeys(direct) {
		merged[key] = direct[key]
		report.Copied = append(report.Copied, key)
	}

	for _, f := range schema.Fields {
		name, ok := lookups[f.Key]
		if !ok {
			continue
		}
		match, found := FirstMatch(name, candidates[f.Lookup.Target])
		if !found {
			report.Unmatched = append(report.Unmatched, f.Key)
			continue
		}
		merged[f.Lookup.TargetField] = ref(f.Lookup.Target, match.ID)
		report.Matched[f.Lookup.TargetField] = match.ID
	}
	return merged, report
}

// partition splits the extraction into typed direct values and non-empty lookup names.
// Keys outside the schema are dropped, as are direct values the stored field would reject.
func partition(schema Schema, extracted map[string]any) (map[string]any, map[string]string) {
	direct := map[string]any{}
	lookups := map[string]string{}
	for key, value := range extracted {
		f, ok := schema.Field(key)
		if !ok || value == nil {
			continue
		}
		if f.Lookup != nil {
			if s, ok := value.(string); ok && normalize(s) != "" {
				lookups[key] = s
			}
			continue
		}
		typed, ok := f.accept(value)
		if !ok {
			continue
		}
		if stored, ok := records.CheckField(schema.Entity, key, typed); ok {
			direct[key] = stored
		}
	}
	return direct, lookups
}

func (f SchemaField) accept(value any) (any, bool) {
	switch f.Type {
	case TypeNumber:
		switch v := value.(type) {
		case float64:
			return v, true
		case json.Number:
			n, err := v.Float64()
			return n, err == nil
		}
		return nil, false
	case TypeBoolean:
		b, ok := value.(bool)
		return b, ok
	case TypeEnum:
		s, ok := value.(string)
		if !ok {
			return nil, false
		}
		for _, allowed := range f.Values {
			if s == allowed {
				return s, true
			}
		}
		return nil, false
	default:
		s, ok := value.(string)
		return s, ok
	}
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

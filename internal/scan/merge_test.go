package scan

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/angelmondragon/marketdesk/internal/records"
	"github.com/angelmondragon/marketdesk/pkg/enums"
)

func testRef(entity enums.Entity, id string) string {
	return "https://store.test/rest/apps/" + entity.String() + "/records/" + id
}

func productSchema(t *testing.T) Schema {
	t.Helper()
	schema, ok := SchemaFor(enums.EntityProducts)
	require.True(t, ok)
	return schema
}

func TestMatchName(t *testing.T) {
	assert.True(t, MatchName("Jonas", []string{"Jonas Schmidt"}))
	assert.True(t, MatchName("Jonas Schmidt", []string{"Jonas"}))
	assert.True(t, MatchName("  jonas SCHMIDT ", []string{"Jonas Schmidt"}))
	assert.False(t, MatchName("Maria", []string{"Jonas Schmidt"}))
	assert.False(t, MatchName("", []string{"Jonas"}))
	assert.False(t, MatchName("Jonas", []string{""}))
}

func TestFirstMatchPicksFirstCandidate(t *testing.T) {
	candidates := []Candidate{
		{ID: "x1", Label: "Elektronik Outlet"},
		{ID: "x2", Label: "Elektronik"},
	}
	got, ok := FirstMatch("elektronik", candidates)
	require.True(t, ok)
	assert.Equal(t, "x1", got.ID)

	_, ok = FirstMatch("Garten", candidates)
	assert.False(t, ok)
}

func TestFirstMatchSkipsBlankLabels(t *testing.T) {
	candidates := []Candidate{
		{ID: "blank", Label: "  "},
		{ID: "s1", Label: "Jonas Schmidt"},
	}
	got, ok := FirstMatch("Jonas", candidates)
	require.True(t, ok)
	assert.Equal(t, "s1", got.ID)

	_, ok = FirstMatch("Maria", candidates)
	assert.False(t, ok)
}

func TestMergeScenarioCategoryPriceAvailable(t *testing.T) {
	extracted := map[string]any{"category": "Elektronik", "price": 19.99, "available": nil}
	candidates := map[enums.Entity][]Candidate{
		enums.EntityCategories: {{ID: "c1", Label: "Elektronik & Zubehör"}},
	}
	previous := map[string]any{"available": true}

	merged, report := Merge(productSchema(t), previous, extracted, candidates, testRef)

	assert.Equal(t, map[string]any{
		"category_ref": testRef(enums.EntityCategories, "c1"),
		"price":        19.99,
		"available":    true,
	}, merged)
	assert.Equal(t, []string{"price"}, report.Copied)
	assert.Equal(t, map[string]string{"category_ref": "c1"}, report.Matched)
	assert.Equal(t, 2, report.Filled())
	assert.Equal(t, map[string]any{"available": true}, previous, "previous must not be mutated")
}

func TestMergeIsIdempotent(t *testing.T) {
	extracted := map[string]any{"name": "Lamp", "seller": "acme", "price": 5.0}
	candidates := map[enums.Entity][]Candidate{
		enums.EntitySellers: {{ID: "s1", Label: "Acme GmbH"}},
	}
	previous := map[string]any{"description": "old"}

	once, _ := Merge(productSchema(t), previous, extracted, candidates, testRef)
	twice, _ := Merge(productSchema(t), once, extracted, candidates, testRef)
	assert.Equal(t, once, twice)
}

func TestMergePreservesAbsentAndNullFields(t *testing.T) {
	previous := map[string]any{"name": "Keep", "description": "Keep too", "price": 3.0}
	extracted := map[string]any{"name": nil, "price": 7.5}

	merged, _ := Merge(productSchema(t), previous, extracted, nil, testRef)
	assert.Equal(t, "Keep", merged["name"])
	assert.Equal(t, "Keep too", merged["description"])
	assert.Equal(t, 7.5, merged["price"])
}

func TestMergeNeverCopiesLookupText(t *testing.T) {
	previous := map[string]any{"category_ref": "existing"}
	extracted := map[string]any{"category": "Garten", "seller": ""}
	candidates := map[enums.Entity][]Candidate{
		enums.EntityCategories: {{ID: "c1", Label: "Elektronik"}},
	}

	merged, report := Merge(productSchema(t), previous, extracted, candidates, testRef)
	assert.NotContains(t, merged, "category")
	assert.NotContains(t, merged, "seller")
	assert.Equal(t, "existing", merged["category_ref"])
	assert.Equal(t, []string{"category"}, report.Unmatched)
}

func TestMergeIgnoresUnknownAndMistypedKeys(t *testing.T) {
	extracted := map[string]any{
		"bogus":     "x",
		"price":     "19,99",
		"available": "yes",
		"name":      42.0,
	}
	merged, report := Merge(productSchema(t), map[string]any{}, extracted, nil, testRef)
	assert.Empty(t, merged)
	assert.Empty(t, report.Copied)
}

func TestMergeOrderEnum(t *testing.T) {
	schema, ok := SchemaFor(enums.EntityOrders)
	require.True(t, ok)

	merged, _ := Merge(schema, map[string]any{"status": "new"}, map[string]any{"status": "lost"}, nil, testRef)
	assert.Equal(t, "new", merged["status"])

	merged, _ = Merge(schema, map[string]any{"status": "new"}, map[string]any{"status": "shipped"}, nil, testRef)
	assert.Equal(t, "shipped", merged["status"])
}

func TestMergeDropsValuesTheStoreWouldReject(t *testing.T) {
	schema, ok := SchemaFor(enums.EntityOrders)
	require.True(t, ok)

	previous := map[string]any{"order_date": "2026-10-01"}
	extracted := map[string]any{"order_date": "14.10.2026", "total_amount": 5.0}
	merged, report := Merge(schema, previous, extracted, nil, testRef)

	assert.Equal(t, "2026-10-01", merged["order_date"])
	assert.Equal(t, 5.0, merged["total_amount"])
	assert.Equal(t, []string{"total_amount"}, report.Copied)

	_, err := records.SanitizePatch(enums.EntityOrders, merged)
	require.NoError(t, err)

	merged, _ = Merge(schema, previous, map[string]any{"order_date": "2026-10-14"}, nil, testRef)
	assert.Equal(t, "2026-10-14", merged["order_date"])
}

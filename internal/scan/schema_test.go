package scan

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/angelmondragon/marketdesk/pkg/enums"
)

func TestProductSchemaDescribe(t *testing.T) {
	schema, ok := SchemaFor(enums.EntityProducts)
	require.True(t, ok)

	want := "{\n" +
		"  \"name\": string | null, // Product name\n" +
		"  \"description\": string | null, // Product description\n" +
		"  \"price\": number | null, // Price (in euros)\n" +
		"  \"category\": string | null, // Name of the category record (e.g. \"Jonas Schmidt\")\n" +
		"  \"seller\": string | null, // Name of the seller record (e.g. \"Jonas Schmidt\")\n" +
		"  \"available\": boolean | null, // Available\n" +
		"}"
	assert.Equal(t, want, schema.Describe())
	assert.Equal(t, []enums.Entity{enums.EntityCategories, enums.EntitySellers}, schema.LookupTargets())
}

func TestOrderSchemaDescribeEnumAndFormat(t *testing.T) {
	schema, ok := SchemaFor(enums.EntityOrders)
	require.True(t, ok)

	text := schema.Describe()
	assert.Contains(t, text, "  \"order_date\": string | null, // YYYY-MM-DD // Order date\n")
	assert.Contains(t, text, "  \"status\": \"new\" | \"processing\" | \"shipped\" | \"delivered\" | \"cancelled\" | null, // Order status\n")
	assert.Contains(t, text, "  \"product\": string | null, // Name of the product record")
}

func TestEverySchemaFieldHasComment(t *testing.T) {
	for _, entity := range enums.Entities() {
		schema, ok := SchemaFor(entity)
		require.True(t, ok, entity.String())
		for _, f := range schema.Fields {
			assert.NotEmpty(t, f.Comment, "%s.%s", entity, f.Key)
			if f.Lookup != nil {
				assert.NotEqual(t, f.Key, f.Lookup.TargetField)
			}
		}
	}

	_, ok := SchemaFor(enums.Entity("widgets"))
	assert.False(t, ok)
}

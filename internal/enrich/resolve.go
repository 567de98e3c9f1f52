package enrich

import (
	"strings"

	"github.com/angelmondragon/marketdesk/internal/records"
	"github.com/angelmondragon/marketdesk/pkg/recordstore"
)

// ResolveLabel turns a reference string into the display label of the record it points at.
// Empty, malformed and dangling references resolve to "".
func ResolveLabel[F records.Valuer](ref string, collection map[string]records.Record[F], labelFields ...string) string {
	if ref == "" {
		return ""
	}
	id := recordstore.ExtractRecordID(ref)
	if id == "" {
		return ""
	}
	rec, ok := collection[id]
	if !ok {
		return ""
	}
	values := make([]string, 0, len(labelFields))
	for _, field := range labelFields {
		values = append(values, rec.Fields.Value(field))
	}
	return strings.TrimSpace(strings.Join(values, " "))
}

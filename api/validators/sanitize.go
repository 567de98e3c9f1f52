package validators

import (
	"strings"

	pkgerrors "github.com/angelmondragon/marketdesk/pkg/errors"
	"github.com/angelmondragon/marketdesk/pkg/recordstore"
)

func SanitizeString(input string, maxLen int) string {
	trimmed := strings.TrimSpace(input)
	if maxLen > 0 && len(trimmed) > maxLen {
		return trimmed[:maxLen]
	}
	return trimmed
}

// RecordID accepts a bare record id or a full reference string and returns the id.
func RecordID(raw string) (string, error) {
	id := recordstore.ExtractRecordID(SanitizeString(raw, 512))
	if id == "" {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "invalid record id").WithDetails(map[string]string{"record_id": "must end in a 24 character hex id"})
	}
	return id, nil
}

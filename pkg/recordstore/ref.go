package recordstore

import (
	"fmt"
	"regexp"
	"strings"
)

var recordIDPattern = regexp.MustCompile(`(?i)([a-f0-9]{24})$`)

// ExtractRecordID returns the trailing 24-hex-character record id of a reference
// string, or "" when the string does not end in one.
func ExtractRecordID(ref string) string {
	if ref == "" {
		return ""
	}
	match := recordIDPattern.FindStringSubmatch(ref)
	if match == nil {
		return ""
	}
	return match[1]
}

// BuildRecordURL renders the reference string stored in lookup fields.
func BuildRecordURL(baseURL, appID, recordID string) string {
	return fmt.Sprintf("%s/apps/%s/records/%s", strings.TrimRight(baseURL, "/"), appID, recordID)
}

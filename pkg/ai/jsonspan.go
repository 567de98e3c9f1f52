package ai

import (
	"encoding/json"
	"strings"
	"unicode/utf8"

	pkgerrors "github.com/angelmondragon/marketdesk/pkg/errors"
)

const excerptLimit = 200

// ExtractJSON returns the first balanced object or array in raw that parses as JSON.
// Surrounding prose and code fences are ignored.
func ExtractJSON(raw string) (json.RawMessage, error) {
	for start := 0; start < len(raw); start++ {
		if raw[start] != '{' && raw[start] != '[' {
			continue
		}
		end := balancedEnd(raw, start)
		if end < 0 {
			continue
		}
		candidate := raw[start : end+1]
		if json.Valid([]byte(candidate)) {
			return json.RawMessage(candidate), nil
		}
	}
	return nil, pkgerrors.New(pkgerrors.CodeMalformedResponse, "expected JSON in completion").
		WithDetails(map[string]any{"excerpt": excerpt(raw)})
}

// balancedEnd returns the index closing the bracket at start, skipping string literals.
func balancedEnd(raw string, start int) int {
	stack := make([]byte, 0, 8)
	inString := false
	escaped := false
	for i := start; i < len(raw); i++ {
		c := raw[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{':
			stack = append(stack, '}')
		case '[':
			stack = append(stack, ']')
		case '}', ']':
			if len(stack) == 0 || stack[len(stack)-1] != c {
				return -1
			}
			stack = stack[:len(stack)-1]
			if len(stack) == 0 {
				return i
			}
		}
	}
	return -1
}

// DecodeJSON extracts the JSON span from raw and unmarshals it into out.
func DecodeJSON(raw string, out any) error {
	span, err := ExtractJSON(raw)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(span, out); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeMalformedResponse, err, "completion JSON has unexpected shape").
			WithDetails(map[string]any{"excerpt": excerpt(raw)})
	}
	return nil
}

func excerpt(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if len(trimmed) <= excerptLimit {
		return trimmed
	}
	cut := excerptLimit
	for cut > 0 && !utf8.RuneStart(trimmed[cut]) {
		cut--
	}
	return trimmed[:cut]
}

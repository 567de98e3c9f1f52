package ai

import (
	"encoding/base64"
	"errors"
	"strings"
)

const defaultMIME = "application/octet-stream"

var errInvalidDataURI = errors.New("invalid data uri")

// EncodeDataURI renders data as `data:<mime>;base64,<payload>`.
func EncodeDataURI(mime string, data []byte) string {
	if strings.TrimSpace(mime) == "" {
		mime = defaultMIME
	}
	return "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(data)
}

// DecodeDataURI splits a base64 data uri into its MIME type and bytes.
func DecodeDataURI(uri string) (string, []byte, error) {
	rest, ok := strings.CutPrefix(uri, "data:")
	if !ok {
		return "", nil, errInvalidDataURI
	}
	header, payload, ok := strings.Cut(rest, ",")
	if !ok {
		return "", nil, errInvalidDataURI
	}
	mime, _, _ := strings.Cut(header, ";")
	if mime == "" {
		mime = defaultMIME
	}
	if !strings.HasSuffix(header, ";base64") {
		return mime, []byte(payload), nil
	}
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return "", nil, err
	}
	return mime, data, nil
}

// IsImageDataURI reports whether uri carries an image MIME type.
func IsImageDataURI(uri string) bool {
	return strings.HasPrefix(uri, "data:image/")
}

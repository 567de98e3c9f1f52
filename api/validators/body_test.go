package validators

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	pkgerrors "github.com/angelmondragon/marketdesk/pkg/errors"
)

type sampleBody struct {
	Message string `json:"message" validate:"required,max=5"`
	Role    string `json:"role" validate:"omitempty,oneof=user assistant"`
}

func TestDecodeJSONBodyValidates(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"message":"","role":"robot"}`))
	var body sampleBody
	err := DecodeJSONBody(req, &body)
	if !pkgerrors.HasCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	details, ok := pkgerrors.As(err).Details().(map[string]string)
	if !ok {
		t.Fatalf("expected field details, got %#v", pkgerrors.As(err).Details())
	}
	if details["message"] != "is required" {
		t.Fatalf("unexpected message detail %#v", details)
	}
	if details["role"] != "must be one of: user assistant" {
		t.Fatalf("unexpected role detail %#v", details)
	}
}

func TestDecodeJSONBodyRejectsUnknownFields(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"message":"hi","extra":1}`))
	var body sampleBody
	if err := DecodeJSONBody(req, &body); !pkgerrors.HasCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestDecodeJSONObjectKeepsNumbers(t *testing.T) {
	req := httptest.NewRequest(http.MethodPatch, "/", strings.NewReader(`{"price":19.99,"available":null}`))
	patch, err := DecodeJSONObject(req)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if _, ok := patch["price"].(json.Number); !ok {
		t.Fatalf("expected json.Number, got %T", patch["price"])
	}
	if v, ok := patch["available"]; !ok || v != nil {
		t.Fatalf("expected explicit null to survive, got %#v", patch)
	}
}

func TestParseJSONObject(t *testing.T) {
	cases := []struct {
		name    string
		raw     string
		wantErr bool
		wantLen int
	}{
		{name: "empty", raw: "  ", wantLen: 0},
		{name: "object", raw: `{"name":"x"}`, wantLen: 1},
		{name: "array", raw: `[1,2]`, wantErr: true},
		{name: "null", raw: `null`, wantErr: true},
		{name: "garbage", raw: `{"name":`, wantErr: true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			out, err := ParseJSONObject([]byte(tc.raw))
			if tc.wantErr {
				if !pkgerrors.HasCode(err, pkgerrors.CodeValidation) {
					t.Fatalf("expected validation error, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(out) != tc.wantLen {
				t.Fatalf("expected %d keys, got %d", tc.wantLen, len(out))
			}
		})
	}
}

func TestRecordID(t *testing.T) {
	id, err := RecordID(" https://example.test/rest/apps/a/records/699F4A00AEC743A67B58A7CE ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if id != "699F4A00AEC743A67B58A7CE" {
		t.Fatalf("unexpected id %q", id)
	}
	if _, err := RecordID("not-an-id"); !pkgerrors.HasCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func multipartRequest(t *testing.T, field, filename, contentType string, data []byte) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	if field != "" {
		header := make(map[string][]string)
		header["Content-Disposition"] = []string{`form-data; name="` + field + `"; filename="` + filename + `"`}
		if contentType != "" {
			header["Content-Type"] = []string{contentType}
		}
		part, err := mw.CreatePart(header)
		if err != nil {
			t.Fatalf("create part: %v", err)
		}
		part.Write(data)
	}
	if err := mw.WriteField("scan_id", "abc"); err != nil {
		t.Fatalf("write field: %v", err)
	}
	mw.Close()
	req := httptest.NewRequest(http.MethodPost, "/", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func TestFormFile(t *testing.T) {
	req := multipartRequest(t, "file", "receipt.png", "image/png", []byte("png-bytes"))
	rec := httptest.NewRecorder()
	if err := ParseMultipart(rec, req, 1<<20); err != nil {
		t.Fatalf("parse: %v", err)
	}
	upload, err := FormFile(req, "file")
	if err != nil {
		t.Fatalf("form file: %v", err)
	}
	if upload.Filename != "receipt.png" || upload.ContentType != "image/png" || string(upload.Data) != "png-bytes" {
		t.Fatalf("unexpected upload %+v", upload)
	}
	if req.FormValue("scan_id") != "abc" {
		t.Fatalf("expected form value to be readable")
	}
}

func TestFormFileMissing(t *testing.T) {
	req := multipartRequest(t, "", "", "", nil)
	rec := httptest.NewRecorder()
	if err := ParseMultipart(rec, req, 1<<20); err != nil {
		t.Fatalf("parse: %v", err)
	}
	if _, err := FormFile(req, "file"); !pkgerrors.HasCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestFormFileEmpty(t *testing.T) {
	req := multipartRequest(t, "file", "empty.pdf", "application/pdf", nil)
	rec := httptest.NewRecorder()
	if err := ParseMultipart(rec, req, 1<<20); err != nil {
		t.Fatalf("parse: %v", err)
	}
	if _, err := FormFile(req, "file"); !pkgerrors.HasCode(err, pkgerrors.CodeIO) {
		t.Fatalf("expected io error, got %v", err)
	}
}

func TestParseMultipartTooLarge(t *testing.T) {
	req := multipartRequest(t, "file", "big.bin", "application/octet-stream", bytes.Repeat([]byte("a"), 4096))
	rec := httptest.NewRecorder()
	if err := ParseMultipart(rec, req, 512); !pkgerrors.HasCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

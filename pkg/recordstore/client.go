package recordstore

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"strings"
	"time"

	pkgerrors "github.com/angelmondragon/marketdesk/pkg/errors"
)

const (
	serviceName                 = "recordstore"
	defaultTimeout              = 15 * time.Second
	responseBodyReadLimit int64 = 1024
)

var errBaseURLRequired = errors.New("record store base url is required")

// Record is the raw envelope returned by the record store. Fields stays
// undecoded so each entity can unmarshal its own shape.
type Record struct {
	ID        string          `json:"record_id"`
	CreatedAt string          `json:"createdat"`
	UpdatedAt *string         `json:"updatedat"`
	Fields    json.RawMessage `json:"fields"`
}

type wireRecord struct {
	ID        string          `json:"id"`
	RecordID  string          `json:"record_id"`
	CreatedAt string          `json:"createdat"`
	UpdatedAt *string         `json:"updatedat"`
	Fields    json.RawMessage `json:"fields"`
}

func (w wireRecord) toRecord(fallbackID string) Record {
	id := w.RecordID
	if id == "" {
		id = w.ID
	}
	if id == "" {
		id = fallbackID
	}
	fields := w.Fields
	if len(fields) == 0 || string(fields) == "null" {
		fields = json.RawMessage(`{}`)
	}
	return Record{ID: id, CreatedAt: w.CreatedAt, UpdatedAt: w.UpdatedAt, Fields: fields}
}

// Client talks to the record store REST API.
type Client struct {
	httpClient *http.Client
	baseURL    string
}

// Option configures optional client behavior.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithTimeout sets the timeout of the default HTTP client.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.httpClient = &http.Client{Timeout: timeout}
		}
	}
}

// NewClient builds a record store client rooted at baseURL.
func NewClient(baseURL string, opts ...Option) (*Client, error) {
	trimmed := strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if trimmed == "" {
		return nil, errBaseURLRequired
	}

	client := &Client{
		baseURL:    trimmed,
		httpClient: &http.Client{Timeout: defaultTimeout},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(client)
		}
	}
	return client, nil
}

// BaseURL returns the configured root used for reference strings.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// RecordURL builds the reference string for a record in appID.
func (c *Client) RecordURL(appID, recordID string) string {
	return BuildRecordURL(c.baseURL, appID, recordID)
}

// List returns every record of the collection in the order the API sent them.
func (c *Client) List(ctx context.Context, appID string) ([]Record, error) {
	if err := requireID("app id", appID); err != nil {
		return nil, err
	}

	resp, err := c.do(ctx, http.MethodGet, recordsPath(appID), nil, "")
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	records, err := decodeRecordMap(resp.Body)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decode record list")
	}
	return records, nil
}

// Get fetches a single record.
func (c *Client) Get(ctx context.Context, appID, recordID string) (*Record, error) {
	if err := requireID("app id", appID); err != nil {
		return nil, err
	}
	if err := requireID("record id", recordID); err != nil {
		return nil, err
	}

	resp, err := c.do(ctx, http.MethodGet, recordPath(appID, recordID), nil, "")
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()
	return decodeRecord(resp.Body, recordID)
}

// Create stores a new record with fields and returns the stored record.
func (c *Client) Create(ctx context.Context, appID string, fields any) (*Record, error) {
	if err := requireID("app id", appID); err != nil {
		return nil, err
	}
	body, err := fieldsBody(fields)
	if err != nil {
		return nil, err
	}

	resp, err := c.do(ctx, http.MethodPost, recordsPath(appID), body, "application/json")
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()
	return decodeRecord(resp.Body, "")
}

// Update patches the given fields of a record.
func (c *Client) Update(ctx context.Context, appID, recordID string, fields any) (*Record, error) {
	if err := requireID("app id", appID); err != nil {
		return nil, err
	}
	if err := requireID("record id", recordID); err != nil {
		return nil, err
	}
	body, err := fieldsBody(fields)
	if err != nil {
		return nil, err
	}

	resp, err := c.do(ctx, http.MethodPatch, recordPath(appID, recordID), body, "application/json")
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()
	return decodeRecord(resp.Body, recordID)
}

// Delete removes a record. The API usually answers with an empty body.
func (c *Client) Delete(ctx context.Context, appID, recordID string) error {
	if err := requireID("app id", appID); err != nil {
		return err
	}
	if err := requireID("record id", recordID); err != nil {
		return err
	}

	resp, err := c.do(ctx, http.MethodDelete, recordPath(appID, recordID), nil, "")
	if err != nil {
		return err
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	_ = resp.Body.Close()
	return nil
}

// UploadFile stores raw bytes and returns the file url to reference from record fields.
func (c *Client) UploadFile(ctx context.Context, filename, contentType string, data []byte) (string, error) {
	if len(data) == 0 {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "file is empty")
	}
	name := strings.TrimSpace(filename)
	if name == "" {
		name = "upload"
	}

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename=%q`, name))
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	header.Set("Content-Type", contentType)
	part, err := writer.CreatePart(header)
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeInternal, err, "build upload form")
	}
	if _, err := part.Write(data); err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeInternal, err, "write upload form")
	}
	if err := writer.Close(); err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeInternal, err, "close upload form")
	}

	resp, err := c.do(ctx, http.MethodPost, "/files", &buf, writer.FormDataContentType())
	if err != nil {
		return "", err
	}
	defer func() { _ = resp.Body.Close() }()

	var payload struct {
		URL string `json:"url"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decode upload response")
	}
	if strings.TrimSpace(payload.URL) == "" {
		return "", pkgerrors.New(pkgerrors.CodeDependency, "upload response missing url")
	}
	return payload.URL, nil
}

func (c *Client) do(ctx context.Context, method, path string, body io.Reader, contentType string) (*http.Response, error) {
	if c == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "record store client not configured")
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "build record store request")
	}
	req.Header.Set("Accept", "application/json")
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	for _, cookie := range sessionFromContext(ctx) {
		req.AddCookie(cookie)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "execute record store request")
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, responseBodyReadLimit))
		_ = resp.Body.Close()
		upstream := &pkgerrors.UpstreamError{
			Service: serviceName,
			Status:  resp.StatusCode,
			Body:    strings.TrimSpace(string(msg)),
		}
		return nil, pkgerrors.Wrap(codeForStatus(resp.StatusCode), upstream, fmt.Sprintf("%s %s failed", method, path))
	}
	return resp, nil
}

func codeForStatus(status int) pkgerrors.Code {
	switch {
	case status == http.StatusNotFound:
		return pkgerrors.CodeNotFound
	case status == http.StatusBadRequest, status == http.StatusUnprocessableEntity:
		return pkgerrors.CodeValidation
	case status == http.StatusUnauthorized, status == http.StatusForbidden:
		return pkgerrors.CodeForbidden
	case status == http.StatusConflict:
		return pkgerrors.CodeConflict
	default:
		return pkgerrors.CodeDependency
	}
}

func recordsPath(appID string) string {
	return fmt.Sprintf("/apps/%s/records", url.PathEscape(appID))
}

func recordPath(appID, recordID string) string {
	return fmt.Sprintf("/apps/%s/records/%s", url.PathEscape(appID), url.PathEscape(recordID))
}

func requireID(label, value string) error {
	if strings.TrimSpace(value) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, label+" is required")
	}
	return nil
}

func fieldsBody(fields any) (io.Reader, error) {
	if fields == nil {
		fields = map[string]any{}
	}
	payload, err := json.Marshal(map[string]any{"fields": fields})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "marshal record fields")
	}
	return bytes.NewReader(payload), nil
}

func decodeRecord(body io.Reader, fallbackID string) (*Record, error) {
	var wire wireRecord
	if err := json.NewDecoder(body).Decode(&wire); err != nil {
		if errors.Is(err, io.EOF) {
			rec := wireRecord{}.toRecord(fallbackID)
			return &rec, nil
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decode record")
	}
	rec := wire.toRecord(fallbackID)
	return &rec, nil
}

// decodeRecordMap reads `{"<id>": {...}, ...}` keeping the key order of the payload.
func decodeRecordMap(body io.Reader) ([]Record, error) {
	dec := json.NewDecoder(body)
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	if tok == nil {
		return []Record{}, nil
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, fmt.Errorf("expected object, got %v", tok)
	}

	records := []Record{}
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, ok := keyTok.(string)
		if !ok {
			return nil, fmt.Errorf("expected record id key, got %v", keyTok)
		}
		var wire wireRecord
		if err := dec.Decode(&wire); err != nil {
			return nil, fmt.Errorf("record %s: %w", key, err)
		}
		records = append(records, wire.toRecord(key))
	}
	if _, err := dec.Token(); err != nil {
		return nil, err
	}
	return records, nil
}

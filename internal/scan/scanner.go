package scan

import (
	"context"
	"errors"
	"mime"
	"regexp"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"

	"github.com/angelmondragon/marketdesk/internal/records"
	"github.com/angelmondragon/marketdesk/pkg/ai"
	"github.com/angelmondragon/marketdesk/pkg/enums"
	pkgerrors "github.com/angelmondragon/marketdesk/pkg/errors"
	"github.com/angelmondragon/marketdesk/pkg/logger"
	"github.com/angelmondragon/marketdesk/pkg/metrics"
)

var scanIDPattern = regexp.MustCompile(`^[A-Za-z0-9_-]{1,64}$`)

// Extractor asks the model for structured data from an encoded file.
type Extractor interface {
	ExtractFromFile(ctx context.Context, dataURI, schema string, out any) error
}

// Uploader stores a file and returns its url.
type Uploader interface {
	UploadFile(ctx context.Context, filename, contentType string, data []byte) (string, error)
}

// Catalog supplies match candidates and reference strings.
type Catalog interface {
	Load(ctx context.Context, entities ...enums.Entity) (*records.Snapshot, error)
	RecordURL(entity enums.Entity, recordID string) string
}

// Options tunes the scanner.
type Options struct {
	Enabled        func(enums.Entity) bool
	SuccessDisplay time.Duration
	ScanningTTL    time.Duration
	FailureTTL     time.Duration
}

// Input is one uploaded file plus the current form state.
type Input struct {
	Entity      enums.Entity
	ScanID      string
	Filename    string
	ContentType string
	Data        []byte
	Fields      map[string]any
}

// Result is the proposed form state after a scan.
type Result struct {
	ScanID    string          `json:"scan_id"`
	Phase     enums.ScanPhase `json:"phase"`
	Fields    map[string]any  `json:"fields"`
	Extracted map[string]any  `json:"extracted,omitempty"`
	Report    *Report         `json:"report,omitempty"`
	Message   string          `json:"message,omitempty"`
}

// Scanner runs the extraction-and-merge pipeline.
type Scanner struct {
	extractor Extractor
	uploader  Uploader
	catalog   Catalog
	phases    PhaseStore
	metrics   *metrics.ScanMetrics
	logg      *logger.Logger
	opts      Options
}

func NewScanner(extractor Extractor, uploader Uploader, catalog Catalog, phases PhaseStore, m *metrics.ScanMetrics, logg *logger.Logger, opts Options) (*Scanner, error) {
	if extractor == nil {
		return nil, errors.New("extractor required")
	}
	if catalog == nil {
		return nil, errors.New("catalog required")
	}
	if phases == nil {
		return nil, errors.New("phase store required")
	}
	if logg == nil {
		return nil, errors.New("logger required")
	}
	if opts.Enabled == nil {
		opts.Enabled = func(enums.Entity) bool { return true }
	}
	if opts.SuccessDisplay <= 0 {
		opts.SuccessDisplay = 3 * time.Second
	}
	if opts.ScanningTTL <= 0 {
		opts.ScanningTTL = 5 * time.Minute
	}
	if opts.FailureTTL <= 0 {
		opts.FailureTTL = time.Minute
	}
	return &Scanner{
		extractor: extractor,
		uploader:  uploader,
		catalog:   catalog,
		phases:    phases,
		metrics:   m,
		logg:      logg,
		opts:      opts,
	}, nil
}

// Phase reports the current phase of scanID.
func (s *Scanner) Phase(ctx context.Context, scanID string) (enums.ScanPhase, error) {
	if !scanIDPattern.MatchString(scanID) {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "invalid scan id")
	}
	phase, err := s.phases.Phase(ctx, scanID)
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "read scan phase")
	}
	return phase, nil
}

// Scan extracts fields from in.Data and merges them into in.Fields.
// A model answer without usable JSON leaves the fields unchanged and ends in the failure phase.
func (s *Scanner) Scan(ctx context.Context, in Input) (*Result, error) {
	schema, ok := SchemaFor(in.Entity)
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown entity")
	}
	if !s.opts.Enabled(in.Entity) {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "photo scan is disabled for "+in.Entity.String())
	}

	scanID := strings.TrimSpace(in.ScanID)
	if scanID == "" {
		scanID = uuid.NewString()
	}
	if !scanIDPattern.MatchString(scanID) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid scan id")
	}
	if len(in.Data) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeIO, "uploaded file is empty")
	}

	ctx = s.logg.WithScanID(s.logg.WithEntity(ctx, in.Entity.String()), scanID)
	previous := in.Fields
	if previous == nil {
		previous = map[string]any{}
	}

	started := time.Now()
	s.setPhase(ctx, scanID, enums.ScanPhaseScanning, s.opts.ScanningTTL)

	result, err := s.run(ctx, schema, in, previous)
	s.metrics.ObserveDuration(in.Entity.String(), time.Since(started))
	if err != nil {
		s.metrics.IncFailure(in.Entity.String())
		s.setPhase(ctx, scanID, enums.ScanPhaseFailure, s.opts.FailureTTL)
		if pkgerrors.HasCode(err, pkgerrors.CodeMalformedResponse) {
			s.logg.Warn(s.logg.WithField(ctx, "error", err.Error()), "scan.malformed_response")
			return &Result{
				ScanID:  scanID,
				Phase:   enums.ScanPhaseFailure,
				Fields:  previous,
				Message: pkgerrors.MetadataFor(pkgerrors.CodeMalformedResponse).PublicMessage,
			}, nil
		}
		s.logg.Error(ctx, "scan.failed", err)
		return nil, err
	}

	s.metrics.IncSuccess(in.Entity.String())
	s.metrics.AddMerged(in.Entity.String(), result.Report.Filled())
	s.setPhase(ctx, scanID, enums.ScanPhaseSuccess, s.opts.SuccessDisplay)
	result.ScanID = scanID
	result.Phase = enums.ScanPhaseSuccess
	s.logg.Info(s.logg.WithFields(ctx, map[string]any{
		"copied":  len(result.Report.Copied),
		"matched": len(result.Report.Matched),
	}), "scan.completed")
	return result, nil
}

func (s *Scanner) run(ctx context.Context, schema Schema, in Input, previous map[string]any) (*Result, error) {
	contentType := detectContentType(in.ContentType, in.Data)
	dataURI := ai.EncodeDataURI(contentType, in.Data)

	var extracted map[string]any
	if err := s.extractor.ExtractFromFile(ctx, dataURI, schema.Describe(), &extracted); err != nil {
		return nil, err
	}
	if extracted == nil {
		return nil, pkgerrors.New(pkgerrors.CodeMalformedResponse, "completion JSON is not an object")
	}

	candidates, err := s.candidates(ctx, schema, extracted)
	if err != nil {
		return nil, err
	}

	merged, report := Merge(schema, previous, extracted, candidates, s.catalog.RecordURL)

	if in.Entity == enums.EntityProducts && uploadable(contentType) && s.uploader != nil {
		url, err := s.uploader.UploadFile(ctx, in.Filename, contentType, in.Data)
		if err != nil {
			s.logg.Error(ctx, "scan.upload_failed", err)
		} else {
			merged["image_url"] = url
		}
	}

	return &Result{Fields: merged, Extracted: extracted, Report: &report}, nil
}

// candidates loads the lookup collections only when the extraction names something to match.
func (s *Scanner) candidates(ctx context.Context, schema Schema, extracted map[string]any) (map[enums.Entity][]Candidate, error) {
	_, lookups := partition(schema, extracted)
	if len(lookups) == 0 {
		return nil, nil
	}

	needed := []enums.Entity{}
	labelFields := map[enums.Entity]string{}
	for key := range lookups {
		f, _ := schema.Field(key)
		if _, seen := labelFields[f.Lookup.Target]; !seen {
			needed = append(needed, f.Lookup.Target)
		}
		labelFields[f.Lookup.Target] = f.Lookup.LabelField
	}

	snap, err := s.catalog.Load(ctx, needed...)
	if err != nil {
		return nil, err
	}

	out := map[enums.Entity][]Candidate{}
	for _, entity := range needed {
		out[entity] = candidatesFrom(snap, entity, labelFields[entity])
	}
	return out, nil
}

func candidatesFrom(snap *records.Snapshot, entity enums.Entity, labelField string) []Candidate {
	switch entity {
	case enums.EntityCategories:
		return toCandidates(snap.Categories, labelField)
	case enums.EntitySellers:
		return toCandidates(snap.Sellers, labelField)
	case enums.EntityProducts:
		return toCandidates(snap.Products, labelField)
	case enums.EntityOrders:
		return toCandidates(snap.Orders, labelField)
	}
	return nil
}

func toCandidates[F records.Valuer](list []records.Record[F], labelField string) []Candidate {
	out := make([]Candidate, 0, len(list))
	for _, rec := range list {
		out = append(out, Candidate{ID: rec.ID, Label: rec.Fields.Value(labelField)})
	}
	return out
}

func (s *Scanner) setPhase(ctx context.Context, scanID string, phase enums.ScanPhase, ttl time.Duration) {
	if err := s.phases.SetPhase(ctx, scanID, phase, ttl); err != nil {
		s.logg.Warn(s.logg.WithFields(ctx, map[string]any{"phase": phase.String(), "error": err.Error()}), "scan.phase_store_failed")
	}
}

// detectContentType prefers the declared type and sniffs the bytes when it is missing or generic.
func detectContentType(declared string, data []byte) string {
	if mediaType, _, err := mime.ParseMediaType(declared); err == nil && mediaType != "" && mediaType != "application/octet-stream" {
		return mediaType
	}
	sniffed := mimetype.Detect(data).String()
	if mediaType, _, err := mime.ParseMediaType(sniffed); err == nil {
		return mediaType
	}
	return sniffed
}

func uploadable(contentType string) bool {
	return strings.HasPrefix(contentType, "image/") || contentType == "application/pdf"
}

package controllers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/angelmondragon/marketdesk/api/responses"
	"github.com/angelmondragon/marketdesk/api/validators"
	"github.com/angelmondragon/marketdesk/internal/scan"
	"github.com/angelmondragon/marketdesk/pkg/enums"
	"github.com/angelmondragon/marketdesk/pkg/logger"
)

// Scanner runs photo scans and reports their phase.
type Scanner interface {
	Scan(ctx context.Context, in scan.Input) (*scan.Result, error)
	Phase(ctx context.Context, scanID string) (enums.ScanPhase, error)
}

// ScanRecord accepts multipart fields file, fields (JSON object of the current form) and scan_id.
func ScanRecord(entity enums.Entity, scanner Scanner, maxBytes int64, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := logg.WithEntity(r.Context(), entity.String())

		if err := validators.ParseMultipart(w, r, maxBytes); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		upload, err := validators.FormFile(r, "file")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		fields, err := validators.ParseJSONObject([]byte(r.FormValue("fields")))
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		result, err := scanner.Scan(ctx, scan.Input{
			Entity:      entity,
			ScanID:      validators.SanitizeString(r.FormValue("scan_id"), 0),
			Filename:    upload.Filename,
			ContentType: upload.ContentType,
			Data:        upload.Data,
			Fields:      fields,
		})
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

func ScanPhase(scanner Scanner, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		scanID := chi.URLParam(r, "scanId")
		ctx := logg.WithScanID(r.Context(), scanID)
		phase, err := scanner.Phase(ctx, scanID)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"scan_id": scanID, "phase": phase})
	}
}

package controllers

import (
	"context"
	"net/http"

	"github.com/angelmondragon/marketdesk/api/responses"
	"github.com/angelmondragon/marketdesk/api/validators"
	"github.com/angelmondragon/marketdesk/pkg/logger"
)

// FileUploader stores a file in the record store.
type FileUploader interface {
	UploadFile(ctx context.Context, filename, contentType string, data []byte) (string, error)
}

func UploadFile(uploader FileUploader, maxBytes int64, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if err := validators.ParseMultipart(w, r, maxBytes); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		upload, err := validators.FormFile(r, "file")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		url, err := uploader.UploadFile(ctx, upload.Filename, upload.ContentType, upload.Data)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		logg.Info(logg.WithFields(ctx, map[string]any{"filename": upload.Filename, "size": len(upload.Data)}), "file.uploaded")
		responses.WriteSuccessStatus(w, http.StatusCreated, map[string]string{"url": url})
	}
}

package validators

import (
	"errors"
	"io"
	"mime/multipart"
	"net/http"

	pkgerrors "github.com/angelmondragon/marketdesk/pkg/errors"
)

// Upload is a file read from a multipart form.
type Upload struct {
	Filename    string
	ContentType string
	Data        []byte
}

// ParseMultipart parses r as multipart/form-data capped at maxBytes.
func ParseMultipart(w http.ResponseWriter, r *http.Request, maxBytes int64) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
	if err := r.ParseMultipartForm(maxBytes); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "upload too large").WithDetails(map[string]any{"max_bytes": maxBytes})
		}
		return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid multipart form")
	}
	return nil
}

// FormFile reads the named file part of an already parsed form.
func FormFile(r *http.Request, field string) (Upload, error) {
	file, header, err := r.FormFile(field)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return Upload{}, pkgerrors.New(pkgerrors.CodeValidation, "file is required").WithDetails(map[string]string{field: "is required"})
		}
		return Upload{}, pkgerrors.Wrap(pkgerrors.CodeIO, err, "read upload")
	}
	defer file.Close()
	return readPart(file, header)
}

func readPart(file multipart.File, header *multipart.FileHeader) (Upload, error) {
	data, err := io.ReadAll(file)
	if err != nil {
		return Upload{}, pkgerrors.Wrap(pkgerrors.CodeIO, err, "read upload")
	}
	if len(data) == 0 {
		return Upload{}, pkgerrors.New(pkgerrors.CodeIO, "uploaded file is empty")
	}
	return Upload{
		Filename:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Data:        data,
	}, nil
}

package handler

import (
	"net/http"
	"strings"

	"github.com/vietnoy/pantry/internal/domain"
	"github.com/vietnoy/pantry/internal/storage"
)

const maxUploadBytes = 5 << 20 // 5 MiB

// uploadImage reads the "file" part of a multipart form and stores it under
// the given folder. Only image content types are accepted.
func uploadImage(r *http.Request, uploader *storage.Uploader, folder string) (string, *domain.Error) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		return "", domain.Invalid("expected multipart form with a file field")
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		return "", domain.Invalid("file field is required")
	}
	defer file.Close()

	if header.Size > maxUploadBytes {
		return "", domain.Invalid("file exceeds the 5 MiB limit")
	}
	contentType := header.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "image/") {
		return "", domain.Invalid("only image uploads are accepted")
	}

	url, err := uploader.Upload(r.Context(), folder, header.Filename, contentType, file, header.Size)
	if err != nil {
		return "", domain.Invalid(err.Error())
	}
	return url, nil
}

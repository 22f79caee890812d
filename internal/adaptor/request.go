package adaptor

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"strconv"

	"content-share/internal/dto/request"
	"content-share/internal/usecase"
	"content-share/pkg/utils"
)

// multipart parts beyond this stay on disk
const multipartMemory = 8 << 20

var errTooLarge = errors.New("upload too large")

// actorFromRequest reads the authenticated caller set by AuthSession.
func actorFromRequest(r *http.Request) (usecase.Actor, bool) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		return usecase.Actor{}, false
	}
	return usecase.Actor{ID: userID, IsAdmin: utils.IsAdminFromContext(r.Context())}, true
}

func parsePagination(r *http.Request) *request.PaginatedRequest {
	query := r.URL.Query()
	return &request.PaginatedRequest{
		Page:    utils.ParseInt(query.Get("page"), 1),
		PerPage: utils.ParseInt(query.Get("per_page"), request.DefaultPerPage),
	}
}

func decodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(dst)
}

// openUpload parses a size limited multipart form and opens one file field.
// The caller closes the returned file and removes the form.
func openUpload(w http.ResponseWriter, r *http.Request, field string, maxBytes int64) (*request.FileUpload, multipart.File, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBytes)

	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, nil, errTooLarge
		}
		return nil, nil, fmt.Errorf("%w: invalid multipart form", usecase.ErrValidation)
	}

	file, header, err := r.FormFile(field)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: form field %q is required", usecase.ErrValidation, field)
	}

	return &request.FileUpload{
		Filename: header.Filename,
		Size:     header.Size,
		Reader:   file,
	}, file, nil
}

// writeDownload streams an opened blob to the client.
func writeDownload(w http.ResponseWriter, dl *usecase.Download, disposition string) error {
	defer dl.Body.Close()

	h := w.Header()
	h.Set("Content-Type", dl.ContentType)
	h.Set("Content-Disposition", mime.FormatMediaType(disposition, map[string]string{"filename": dl.Name}))
	h.Set("X-Content-Type-Options", "nosniff")
	if dl.Size >= 0 {
		h.Set("Content-Length", strconv.FormatInt(dl.Size, 10))
	}

	w.WriteHeader(http.StatusOK)
	_, err := io.Copy(w, dl.Body)
	return err
}

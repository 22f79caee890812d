package request

import "io"

// FileUpload is a file received from a multipart form.
type FileUpload struct {
	Filename string
	Size     int64
	Reader   io.Reader
}

type UploadContentRequest struct {
	Title string `validate:"max=200"`
}

type UpdateContentRequest struct {
	Title string `json:"title" validate:"required,min=1,max=200"`
}

type ListContentRequest struct {
	PaginatedRequest
	Search string `json:"search" validate:"max=200"`
}

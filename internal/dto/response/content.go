package response

import (
	"time"

	"content-share/internal/data/entity"
)

type ContentResponse struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	OwnerID       string    `json:"owner_id"`
	OwnerUsername string    `json:"owner_username,omitempty"`
	MimeType      string    `json:"mime_type"`
	SizeBytes     int64     `json:"size_bytes"`
	RatingMean    float64   `json:"rating_mean"`
	RatingCount   int64     `json:"rating_count"`
	Views         int64     `json:"views"`
	CreatedAt     time.Time `json:"created_at"`
}

type ContentDetailResponse struct {
	Content  ContentResponse                     `json:"content"`
	Comments *PaginatedResponse[CommentResponse] `json:"comments"`
}

func ContentToResponse(content *entity.Content) ContentResponse {
	return ContentResponse{
		ID:            content.ID.String(),
		Name:          content.Name,
		OwnerID:       content.OwnerID.String(),
		OwnerUsername: content.OwnerUsername,
		MimeType:      content.MimeType,
		SizeBytes:     content.SizeBytes,
		RatingMean:    content.RatingMean,
		RatingCount:   content.RatingCount,
		Views:         content.Views,
		CreatedAt:     content.CreatedAt,
	}
}

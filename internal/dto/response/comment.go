package response

import (
	"time"

	"content-share/internal/data/entity"
)

type CommentResponse struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Username  string    `json:"username,omitempty"`
	ContentID string    `json:"content_id"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`
}

func CommentToResponse(comment *entity.Comment) CommentResponse {
	return CommentResponse{
		ID:        comment.ID.String(),
		UserID:    comment.UserID.String(),
		Username:  comment.Username,
		ContentID: comment.ContentID.String(),
		Text:      comment.Text,
		CreatedAt: comment.CreatedAt,
	}
}

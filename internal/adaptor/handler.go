package adaptor

import (
	"content-share/internal/usecase"
	"content-share/pkg/utils"

	"go.uber.org/zap"
)

const defaultMaxUploadMB = 16

type Handler struct {
	Auth    *AuthHandler
	User    *UserHandler
	Content *ContentHandler
	Comment *CommentHandler
	Rating  *RatingHandler
}

func NewHandler(service *usecase.Service, config *utils.Config, log *zap.Logger) *Handler {
	maxUpload := config.Storage.MaxUploadMB
	if maxUpload <= 0 {
		maxUpload = defaultMaxUploadMB
	}
	maxUploadBytes := maxUpload << 20

	return &Handler{
		Auth:    NewAuthHandler(service.Auth, log),
		User:    NewUserHandler(service.User, maxUploadBytes, log),
		Content: NewContentHandler(service.Content, maxUploadBytes, log),
		Comment: NewCommentHandler(service.Comment, log),
		Rating:  NewRatingHandler(service.Rating, log),
	}
}

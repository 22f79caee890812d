package usecase

import (
	"content-share/internal/data/repository"
	"content-share/pkg/storage"
	"content-share/pkg/utils"

	"go.uber.org/zap"
)

type Service struct {
	Auth    AuthService
	User    UserService
	Content ContentService
	Comment CommentService
	Rating  RatingService
}

func NewService(repo *repository.Repository, store storage.Store, config *utils.Config, log *zap.Logger) *Service {
	return &Service{
		Auth:    NewAuthService(repo, config, log),
		User:    NewUserService(repo, store, log),
		Content: NewContentService(repo, store, log),
		Comment: NewCommentService(repo, log),
		Rating:  NewRatingService(repo, log),
	}
}

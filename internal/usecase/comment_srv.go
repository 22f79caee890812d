package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"content-share/internal/data/entity"
	"content-share/internal/data/repository"
	"content-share/internal/dto/request"
	"content-share/internal/dto/response"
	"content-share/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type CommentService interface {
	AddComment(ctx context.Context, actor Actor, contentID string, req *request.CreateCommentRequest) (*response.CommentResponse, error)
	ListComments(ctx context.Context, contentID string, req *request.PaginatedRequest) (*response.PaginatedResponse[response.CommentResponse], error)
	// DeleteComment is allowed for the comment author, the owner of the
	// commented content and admins.
	DeleteComment(ctx context.Context, actor Actor, commentID string) error
}

type commentService struct {
	repo *repository.Repository
	log  *zap.Logger
}

func NewCommentService(repo *repository.Repository, log *zap.Logger) CommentService {
	return &commentService{
		repo: repo,
		log:  log.With(zap.String("service", "comment")),
	}
}

func (s *commentService) AddComment(ctx context.Context, actor Actor, contentID string, req *request.CreateCommentRequest) (*response.CommentResponse, error) {
	if actor.ID == uuid.Nil {
		return nil, ErrNotAuthorized
	}

	id, err := parseID("content", contentID)
	if err != nil {
		return nil, err
	}

	text := strings.TrimSpace(req.Text)
	if errs := utils.ValidateStruct(request.CreateCommentRequest{Text: text}); len(errs) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrValidation, utils.FormatValidationErrors(errs))
	}

	content, err := s.repo.Content.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("find content: %w", err)
	}
	if content == nil {
		return nil, fmt.Errorf("%w: content %s", ErrNotFound, id)
	}

	author, err := s.repo.User.FindByID(ctx, actor.ID)
	if err != nil {
		return nil, fmt.Errorf("find author: %w", err)
	}
	if author == nil {
		return nil, fmt.Errorf("%w: user %s", ErrNotFound, actor.ID)
	}

	comment := &entity.Comment{
		BaseSimple: entity.BaseSimple{
			ID:        uuid.New(),
			CreatedAt: time.Now(),
		},
		UserID:    actor.ID,
		ContentID: id,
		Text:      text,
		Username:  author.Username,
	}

	if err := s.repo.Comment.Create(ctx, comment); err != nil {
		return nil, fmt.Errorf("create comment: %w", err)
	}

	s.log.Info("Comment added",
		zap.String("comment_id", comment.ID.String()),
		zap.String("content_id", id.String()),
		zap.String("user_id", actor.ID.String()))

	resp := response.CommentToResponse(comment)
	return &resp, nil
}

func (s *commentService) ListComments(ctx context.Context, contentID string, req *request.PaginatedRequest) (*response.PaginatedResponse[response.CommentResponse], error) {
	id, err := parseID("content", contentID)
	if err != nil {
		return nil, err
	}

	content, err := s.repo.Content.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("find content: %w", err)
	}
	if content == nil {
		return nil, fmt.Errorf("%w: content %s", ErrNotFound, id)
	}

	page := req.Normalize()
	comments, err := s.repo.Comment.FindByContentID(ctx, id, page.Limit(), page.Offset())
	if err != nil {
		return nil, fmt.Errorf("list comments: %w", err)
	}

	total, err := s.repo.Comment.CountByContentID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("count comments: %w", err)
	}

	return response.NewPaginatedResponse(
		response.MapSlice(comments, response.CommentToResponse),
		page.Page, page.PerPage, total), nil
}

func (s *commentService) DeleteComment(ctx context.Context, actor Actor, commentID string) error {
	id, err := parseID("comment", commentID)
	if err != nil {
		return err
	}

	comment, err := s.repo.Comment.FindByID(ctx, id)
	if err != nil {
		return fmt.Errorf("find comment: %w", err)
	}
	if comment == nil {
		return fmt.Errorf("%w: comment %s", ErrNotFound, id)
	}

	allowed := CanMutate(actor, comment.UserID)
	if !allowed {
		content, err := s.repo.Content.FindByID(ctx, comment.ContentID)
		if err != nil {
			return fmt.Errorf("find content: %w", err)
		}
		allowed = content != nil && CanMutate(actor, content.OwnerID)
	}
	if !allowed {
		s.log.Warn("Comment deletion denied",
			zap.String("comment_id", id.String()),
			zap.String("actor_id", actor.ID.String()))
		return fmt.Errorf("%w: comment %s", ErrNotAuthorized, id)
	}

	err = s.repo.Comment.Delete(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return fmt.Errorf("%w: comment %s", ErrNotFound, id)
	}
	if err != nil {
		return fmt.Errorf("delete comment: %w", err)
	}

	s.log.Info("Comment deleted",
		zap.String("comment_id", id.String()),
		zap.String("actor_id", actor.ID.String()))

	return nil
}

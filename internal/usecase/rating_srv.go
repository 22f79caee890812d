package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"content-share/internal/data/entity"
	"content-share/internal/data/repository"
	"content-share/internal/dto/response"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type RatingService interface {
	// SubmitRating creates or overwrites the actor's rating of a content item
	// and returns it with the recomputed aggregate. Values outside 1..5 fail
	// with ErrInvalidRatingValue before anything is written.
	SubmitRating(ctx context.Context, actor Actor, contentID string, value int) (*response.RatingResponse, error)
	GetStats(ctx context.Context, contentID string) (*response.RatingStats, error)
	GetUserRating(ctx context.Context, actor Actor, contentID string) (*response.RatingResponse, error)
}

type ratingService struct {
	repo *repository.Repository
	log  *zap.Logger
}

func NewRatingService(repo *repository.Repository, log *zap.Logger) RatingService {
	return &ratingService{
		repo: repo,
		log:  log.With(zap.String("service", "rating")),
	}
}

func (s *ratingService) SubmitRating(ctx context.Context, actor Actor, contentID string, value int) (*response.RatingResponse, error) {
	if !entity.ValidRatingValue(value) {
		return nil, fmt.Errorf("%w: %d, must be between %d and %d",
			ErrInvalidRatingValue, value, entity.MinRatingValue, entity.MaxRatingValue)
	}
	if actor.ID == uuid.Nil {
		return nil, ErrNotAuthorized
	}

	id, err := parseID("content", contentID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	rating := &entity.Rating{
		Base: entity.Base{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		UserID:    actor.ID,
		ContentID: id,
		Value:     value,
	}

	agg, err := s.repo.Rating.Upsert(ctx, rating)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("%w: content %s", ErrNotFound, id)
	}
	if err != nil {
		s.log.Error("Failed to submit rating",
			zap.Error(err),
			zap.String("content_id", id.String()),
			zap.String("user_id", actor.ID.String()))
		return nil, fmt.Errorf("submit rating: %w", err)
	}

	s.log.Info("Rating submitted",
		zap.String("content_id", id.String()),
		zap.String("user_id", actor.ID.String()),
		zap.Int("value", value),
		zap.Float64("mean", agg.Mean),
		zap.Int64("count", agg.Count))

	resp := response.RatingToResponse(rating, agg)
	return &resp, nil
}

func (s *ratingService) GetStats(ctx context.Context, contentID string) (*response.RatingStats, error) {
	id, err := parseID("content", contentID)
	if err != nil {
		return nil, err
	}

	agg, err := s.repo.Rating.GetAggregate(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get rating stats: %w", err)
	}
	if agg == nil {
		return nil, fmt.Errorf("%w: content %s", ErrNotFound, id)
	}

	stats := response.RatingStatsToResponse(agg)
	return &stats, nil
}

// GetUserRating returns ErrNotFound when the actor has not rated the item.
func (s *ratingService) GetUserRating(ctx context.Context, actor Actor, contentID string) (*response.RatingResponse, error) {
	id, err := parseID("content", contentID)
	if err != nil {
		return nil, err
	}

	agg, err := s.repo.Rating.GetAggregate(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get rating stats: %w", err)
	}
	if agg == nil {
		return nil, fmt.Errorf("%w: content %s", ErrNotFound, id)
	}

	rating, err := s.repo.Rating.FindByUserAndContent(ctx, actor.ID, id)
	if err != nil {
		return nil, fmt.Errorf("find rating: %w", err)
	}
	if rating == nil {
		return nil, fmt.Errorf("%w: rating of content %s", ErrNotFound, id)
	}

	resp := response.RatingToResponse(rating, agg)
	return &resp, nil
}

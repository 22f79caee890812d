package repository

import (
	"context"
	"errors"
	"fmt"

	"content-share/internal/data/entity"
	"content-share/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type RatingRepository interface {
	// Upsert stores the user's rating for a content item and recomputes the
	// content aggregate in the same transaction. A missing content item
	// yields ErrNotFound.
	Upsert(ctx context.Context, rating *entity.Rating) (*entity.RatingAggregate, error)
	FindByUserAndContent(ctx context.Context, userID, contentID uuid.UUID) (*entity.Rating, error)
	GetAggregate(ctx context.Context, contentID uuid.UUID) (*entity.RatingAggregate, error)
}

type ratingRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewRatingRepository(db database.PgxIface, log *zap.Logger) RatingRepository {
	return &ratingRepository{
		db:  db,
		log: log.With(zap.String("repository", "rating")),
	}
}

func (r *ratingRepository) Upsert(ctx context.Context, rating *entity.Rating) (*entity.RatingAggregate, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		r.log.Error("Failed to begin rating transaction", zap.Error(err))
		return nil, fmt.Errorf("begin rating transaction: %w", err)
	}
	// no-op once committed
	defer tx.Rollback(ctx)

	// Row lock on the content serializes every rating write for this id, so
	// the recompute below always sees all ratings committed before it.
	var locked uuid.UUID
	err = tx.QueryRow(ctx, `SELECT id FROM contents WHERE id = $1 FOR UPDATE`, rating.ContentID).Scan(&locked)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("rate content %s: %w", rating.ContentID.String(), ErrNotFound)
	}
	if err != nil {
		r.log.Error("Failed to lock content for rating",
			zap.Error(err),
			zap.String("content_id", rating.ContentID.String()),
		)
		return nil, fmt.Errorf("lock content %s: %w", rating.ContentID.String(), err)
	}

	// Overwrite keeps the original id and created_at
	upsert := `
		INSERT INTO ratings (id, user_id, content_id, value, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (user_id, content_id)
		DO UPDATE SET value = EXCLUDED.value, updated_at = EXCLUDED.updated_at
		RETURNING id, created_at
	`
	err = tx.QueryRow(ctx, upsert,
		rating.ID,
		rating.UserID,
		rating.ContentID,
		rating.Value,
		rating.CreatedAt,
		rating.UpdatedAt,
	).Scan(&rating.ID, &rating.CreatedAt)
	if err != nil {
		r.log.Error("Failed to upsert rating",
			zap.Error(err),
			zap.String("user_id", rating.UserID.String()),
			zap.String("content_id", rating.ContentID.String()),
		)
		return nil, fmt.Errorf("upsert rating for content %s by user %s: %w",
			rating.ContentID.String(), rating.UserID.String(), err)
	}

	// Recompute from the full rating set, never incrementally
	recompute := `
		UPDATE contents c
		SET rating_count = s.cnt,
		    rating_mean  = s.mean
		FROM (
			SELECT COUNT(*) AS cnt, COALESCE(AVG(value), 0)::DOUBLE PRECISION AS mean
			FROM ratings
			WHERE content_id = $1
		) s
		WHERE c.id = $1
		RETURNING c.id, c.rating_mean, c.rating_count
	`
	var agg entity.RatingAggregate
	if err := tx.QueryRow(ctx, recompute, rating.ContentID).Scan(&agg.ContentID, &agg.Mean, &agg.Count); err != nil {
		r.log.Error("Failed to recompute rating aggregate",
			zap.Error(err),
			zap.String("content_id", rating.ContentID.String()),
		)
		return nil, fmt.Errorf("recompute rating of content %s: %w", rating.ContentID.String(), err)
	}

	if err := tx.Commit(ctx); err != nil {
		r.log.Error("Failed to commit rating", zap.Error(err))
		return nil, fmt.Errorf("commit rating: %w", err)
	}

	r.log.Debug("Rating aggregate updated",
		zap.String("content_id", agg.ContentID.String()),
		zap.Float64("mean", agg.Mean),
		zap.Int64("count", agg.Count),
	)

	return &agg, nil
}

func (r *ratingRepository) FindByUserAndContent(ctx context.Context, userID, contentID uuid.UUID) (*entity.Rating, error) {
	query := `
		SELECT id, user_id, content_id, value, created_at, updated_at
		FROM ratings
		WHERE user_id = $1 AND content_id = $2
	`

	var rating entity.Rating
	err := r.db.QueryRow(ctx, query, userID, contentID).Scan(
		&rating.ID,
		&rating.UserID,
		&rating.ContentID,
		&rating.Value,
		&rating.CreatedAt,
		&rating.UpdatedAt,
	)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find rating by user and content",
			zap.Error(err),
			zap.String("user_id", userID.String()),
			zap.String("content_id", contentID.String()),
		)
		return nil, fmt.Errorf("find rating by user %s and content %s: %w",
			userID.String(), contentID.String(), err)
	}

	return &rating, nil
}

// GetAggregate reads the denormalized values stored on the content row.
func (r *ratingRepository) GetAggregate(ctx context.Context, contentID uuid.UUID) (*entity.RatingAggregate, error) {
	query := `SELECT id, rating_mean, rating_count FROM contents WHERE id = $1`

	var agg entity.RatingAggregate
	err := r.db.QueryRow(ctx, query, contentID).Scan(&agg.ContentID, &agg.Mean, &agg.Count)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to get rating aggregate",
			zap.Error(err),
			zap.String("content_id", contentID.String()),
		)
		return nil, fmt.Errorf("get rating aggregate of content %s: %w", contentID.String(), err)
	}

	return &agg, nil
}

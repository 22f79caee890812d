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

type CommentRepository interface {
	Create(ctx context.Context, comment *entity.Comment) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Comment, error)
	FindByContentID(ctx context.Context, contentID uuid.UUID, limit, offset int) ([]*entity.Comment, error)
	CountByContentID(ctx context.Context, contentID uuid.UUID) (int64, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type commentRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewCommentRepository(db database.PgxIface, log *zap.Logger) CommentRepository {
	return &commentRepository{
		db:  db,
		log: log.With(zap.String("repository", "comment")),
	}
}

const commentSelect = `
	SELECT m.id, m.user_id, m.content_id, m.text, m.created_at, u.username
	FROM comments m
	JOIN users u ON u.id = m.user_id
`

func scanComment(row pgx.Row) (*entity.Comment, error) {
	var comment entity.Comment
	err := row.Scan(
		&comment.ID,
		&comment.UserID,
		&comment.ContentID,
		&comment.Text,
		&comment.CreatedAt,
		&comment.Username,
	)
	if err != nil {
		return nil, err
	}
	return &comment, nil
}

func (r *commentRepository) Create(ctx context.Context, comment *entity.Comment) error {
	query := `
		INSERT INTO comments (id, user_id, content_id, text, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`

	_, err := r.db.Exec(ctx, query,
		comment.ID,
		comment.UserID,
		comment.ContentID,
		comment.Text,
		comment.CreatedAt,
	)

	if err != nil {
		r.log.Error("Failed to create comment",
			zap.Error(err),
			zap.String("user_id", comment.UserID.String()),
			zap.String("content_id", comment.ContentID.String()),
		)
		return fmt.Errorf("create comment on content %s by user %s: %w",
			comment.ContentID.String(), comment.UserID.String(), err)
	}

	return nil
}

func (r *commentRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Comment, error) {
	query := commentSelect + ` WHERE m.id = $1`

	comment, err := scanComment(r.db.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find comment by ID",
			zap.Error(err),
			zap.String("comment_id", id.String()),
		)
		return nil, fmt.Errorf("find comment by ID %s: %w", id.String(), err)
	}

	return comment, nil
}

// FindByContentID returns comments of a content item, newest first.
func (r *commentRepository) FindByContentID(ctx context.Context, contentID uuid.UUID, limit, offset int) ([]*entity.Comment, error) {
	query := commentSelect + `
		WHERE m.content_id = $1
		ORDER BY m.created_at DESC, m.id
		LIMIT $2 OFFSET $3
	`

	rows, err := r.db.Query(ctx, query, contentID, limit, offset)
	if err != nil {
		r.log.Error("Failed to find comments by content ID",
			zap.Error(err),
			zap.String("content_id", contentID.String()),
			zap.Int("limit", limit),
			zap.Int("offset", offset),
		)
		return nil, fmt.Errorf("find comments by content ID %s: %w", contentID.String(), err)
	}
	defer rows.Close()

	var comments []*entity.Comment
	for rows.Next() {
		comment, err := scanComment(rows)
		if err != nil {
			r.log.Error("Failed to scan comment row", zap.Error(err))
			return nil, fmt.Errorf("scan comment row: %w", err)
		}
		comments = append(comments, comment)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate comment rows: %w", err)
	}

	return comments, nil
}

func (r *commentRepository) CountByContentID(ctx context.Context, contentID uuid.UUID) (int64, error) {
	query := `SELECT COUNT(*) FROM comments WHERE content_id = $1`

	var count int64
	if err := r.db.QueryRow(ctx, query, contentID).Scan(&count); err != nil {
		r.log.Error("Failed to count comments by content ID",
			zap.Error(err),
			zap.String("content_id", contentID.String()),
		)
		return 0, fmt.Errorf("count comments by content ID %s: %w", contentID.String(), err)
	}

	return count, nil
}

func (r *commentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM comments WHERE id = $1`

	result, err := r.db.Exec(ctx, query, id)
	if err != nil {
		r.log.Error("Failed to delete comment",
			zap.Error(err),
			zap.String("comment_id", id.String()),
		)
		return fmt.Errorf("delete comment %s: %w", id.String(), err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("delete comment %s: %w", id.String(), ErrNotFound)
	}

	return nil
}

package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"content-share/internal/data/entity"
	"content-share/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type ContentRepository interface {
	Create(ctx context.Context, content *entity.Content) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Content, error)
	List(ctx context.Context, search string, limit, offset int) ([]*entity.Content, error)
	Count(ctx context.Context, search string) (int64, error)
	FindByOwner(ctx context.Context, ownerID uuid.UUID, limit, offset int) ([]*entity.Content, error)
	CountByOwner(ctx context.Context, ownerID uuid.UUID) (int64, error)
	UpdateName(ctx context.Context, id uuid.UUID, name string) error
	IncrementViews(ctx context.Context, id uuid.UUID) (int64, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type contentRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewContentRepository(db database.PgxIface, log *zap.Logger) ContentRepository {
	return &contentRepository{
		db:  db,
		log: log.With(zap.String("repository", "content")),
	}
}

const contentSelect = `
	SELECT c.id, c.name, c.storage_path, c.mime_type, c.size_bytes, c.owner_id,
	       c.rating_mean, c.rating_count, c.views, c.created_at, c.updated_at,
	       u.username
	FROM contents c
	JOIN users u ON u.id = c.owner_id
`

func scanContent(row pgx.Row) (*entity.Content, error) {
	var content entity.Content
	err := row.Scan(
		&content.ID,
		&content.Name,
		&content.StoragePath,
		&content.MimeType,
		&content.SizeBytes,
		&content.OwnerID,
		&content.RatingMean,
		&content.RatingCount,
		&content.Views,
		&content.CreatedAt,
		&content.UpdatedAt,
		&content.OwnerUsername,
	)
	if err != nil {
		return nil, err
	}
	return &content, nil
}

func (r *contentRepository) collect(rows pgx.Rows) ([]*entity.Content, error) {
	defer rows.Close()

	var contents []*entity.Content
	for rows.Next() {
		content, err := scanContent(rows)
		if err != nil {
			r.log.Error("Failed to scan content row", zap.Error(err))
			return nil, fmt.Errorf("scan content row: %w", err)
		}
		contents = append(contents, content)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate content rows: %w", err)
	}

	return contents, nil
}

// likePattern turns free text into a substring ILIKE pattern with the
// wildcard characters escaped.
func likePattern(search string) string {
	replacer := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + replacer.Replace(strings.TrimSpace(search)) + "%"
}

func (r *contentRepository) Create(ctx context.Context, content *entity.Content) error {
	query := `
		INSERT INTO contents (id, name, storage_path, mime_type, size_bytes, owner_id,
		                      rating_mean, rating_count, views, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`

	_, err := r.db.Exec(ctx, query,
		content.ID,
		content.Name,
		content.StoragePath,
		content.MimeType,
		content.SizeBytes,
		content.OwnerID,
		content.RatingMean,
		content.RatingCount,
		content.Views,
		content.CreatedAt,
		content.UpdatedAt,
	)

	if err != nil {
		r.log.Error("Failed to create content",
			zap.Error(err),
			zap.String("owner_id", content.OwnerID.String()),
		)
		return fmt.Errorf("create content for user %s: %w", content.OwnerID.String(), err)
	}

	return nil
}

func (r *contentRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Content, error) {
	query := contentSelect + ` WHERE c.id = $1`

	content, err := scanContent(r.db.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find content by ID",
			zap.Error(err),
			zap.String("content_id", id.String()),
		)
		return nil, fmt.Errorf("find content by ID %s: %w", id.String(), err)
	}

	return content, nil
}

// List returns the feed, newest first, optionally filtered by a case
// insensitive substring of the name.
func (r *contentRepository) List(ctx context.Context, search string, limit, offset int) ([]*entity.Content, error) {
	query := contentSelect + `
		WHERE c.name ILIKE $1
		ORDER BY c.created_at DESC, c.id
		LIMIT $2 OFFSET $3
	`

	rows, err := r.db.Query(ctx, query, likePattern(search), limit, offset)
	if err != nil {
		r.log.Error("Failed to list contents",
			zap.Error(err),
			zap.String("search", search),
			zap.Int("limit", limit),
			zap.Int("offset", offset),
		)
		return nil, fmt.Errorf("list contents: %w", err)
	}

	return r.collect(rows)
}

func (r *contentRepository) Count(ctx context.Context, search string) (int64, error) {
	query := `SELECT COUNT(*) FROM contents WHERE name ILIKE $1`

	var count int64
	if err := r.db.QueryRow(ctx, query, likePattern(search)).Scan(&count); err != nil {
		r.log.Error("Failed to count contents", zap.Error(err))
		return 0, fmt.Errorf("count contents: %w", err)
	}

	return count, nil
}

func (r *contentRepository) FindByOwner(ctx context.Context, ownerID uuid.UUID, limit, offset int) ([]*entity.Content, error) {
	query := contentSelect + `
		WHERE c.owner_id = $1
		ORDER BY c.created_at DESC, c.id
		LIMIT $2 OFFSET $3
	`

	rows, err := r.db.Query(ctx, query, ownerID, limit, offset)
	if err != nil {
		r.log.Error("Failed to find contents by owner",
			zap.Error(err),
			zap.String("owner_id", ownerID.String()),
		)
		return nil, fmt.Errorf("find contents by owner %s: %w", ownerID.String(), err)
	}

	return r.collect(rows)
}

func (r *contentRepository) CountByOwner(ctx context.Context, ownerID uuid.UUID) (int64, error) {
	query := `SELECT COUNT(*) FROM contents WHERE owner_id = $1`

	var count int64
	if err := r.db.QueryRow(ctx, query, ownerID).Scan(&count); err != nil {
		r.log.Error("Failed to count contents by owner",
			zap.Error(err),
			zap.String("owner_id", ownerID.String()),
		)
		return 0, fmt.Errorf("count contents by owner %s: %w", ownerID.String(), err)
	}

	return count, nil
}

func (r *contentRepository) UpdateName(ctx context.Context, id uuid.UUID, name string) error {
	query := `UPDATE contents SET name = $2, updated_at = NOW() WHERE id = $1`

	result, err := r.db.Exec(ctx, query, id, name)
	if err != nil {
		r.log.Error("Failed to update content name",
			zap.Error(err),
			zap.String("content_id", id.String()),
		)
		return fmt.Errorf("update content %s: %w", id.String(), err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("update content %s: %w", id.String(), ErrNotFound)
	}

	return nil
}

// IncrementViews bumps the counter in a single statement so concurrent
// viewers never overwrite each other, and returns the new value.
func (r *contentRepository) IncrementViews(ctx context.Context, id uuid.UUID) (int64, error) {
	query := `UPDATE contents SET views = views + 1 WHERE id = $1 RETURNING views`

	var views int64
	err := r.db.QueryRow(ctx, query, id).Scan(&views)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, fmt.Errorf("increment views of content %s: %w", id.String(), ErrNotFound)
	}
	if err != nil {
		r.log.Error("Failed to increment views",
			zap.Error(err),
			zap.String("content_id", id.String()),
		)
		return 0, fmt.Errorf("increment views of content %s: %w", id.String(), err)
	}

	return views, nil
}

// Delete removes the row; comments and ratings go with it through ON DELETE CASCADE.
func (r *contentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM contents WHERE id = $1`

	result, err := r.db.Exec(ctx, query, id)
	if err != nil {
		r.log.Error("Failed to delete content",
			zap.Error(err),
			zap.String("content_id", id.String()),
		)
		return fmt.Errorf("delete content %s: %w", id.String(), err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("delete content %s: %w", id.String(), ErrNotFound)
	}

	r.log.Info("Content deleted", zap.String("content_id", id.String()))
	return nil
}

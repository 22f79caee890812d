package usecase

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"content-share/internal/data/entity"
	"content-share/internal/data/repository"
	"content-share/internal/dto/request"
	"content-share/internal/dto/response"
	"content-share/pkg/storage"
	"content-share/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const uploadDir = "uploads"

// Download is an opened blob ready to be streamed. Callers must close Body.
type Download struct {
	Name        string
	ContentType string
	Size        int64 // -1 when unknown
	Body        io.ReadCloser
}

type readCloser struct {
	io.Reader
	io.Closer
}

type ContentService interface {
	Upload(ctx context.Context, actor Actor, req *request.UploadContentRequest, file *request.FileUpload) (*response.ContentResponse, error)
	List(ctx context.Context, req *request.ListContentRequest) (*response.PaginatedResponse[response.ContentResponse], error)
	// View records one view and returns the content with a page of comments.
	View(ctx context.Context, id string, comments *request.PaginatedRequest) (*response.ContentDetailResponse, error)
	RecordView(ctx context.Context, id string) (int64, error)
	UpdateTitle(ctx context.Context, actor Actor, id string, req *request.UpdateContentRequest) (*response.ContentResponse, error)
	Delete(ctx context.Context, actor Actor, id string) error
	Download(ctx context.Context, id string) (*Download, error)
}

type contentService struct {
	repo  *repository.Repository
	store storage.Store
	log   *zap.Logger
}

func NewContentService(repo *repository.Repository, store storage.Store, log *zap.Logger) ContentService {
	return &contentService{
		repo:  repo,
		store: store,
		log:   log.With(zap.String("service", "content")),
	}
}

func (s *contentService) Upload(ctx context.Context, actor Actor, req *request.UploadContentRequest, file *request.FileUpload) (*response.ContentResponse, error) {
	if actor.ID == uuid.Nil {
		return nil, ErrNotAuthorized
	}
	if file == nil || file.Reader == nil || file.Filename == "" {
		return nil, fmt.Errorf("%w: file is required", ErrValidation)
	}

	title := strings.TrimSpace(req.Title)
	if errs := utils.ValidateStruct(request.UploadContentRequest{Title: title}); len(errs) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrValidation, utils.FormatValidationErrors(errs))
	}

	filename := utils.SanitizeFilename(file.Filename)
	if title == "" {
		title = filename
	}

	mimeType, body, err := storage.DetectContentType(file.Reader)
	if err != nil {
		return nil, fmt.Errorf("%w: read upload: %v", ErrStorageFailure, err)
	}

	key := utils.GenerateBlobKey(uploadDir, filename)
	counter := &countingReader{r: body}
	if err := s.store.Save(ctx, key, counter, file.Size, mimeType); err != nil {
		s.log.Error("Failed to store upload",
			zap.Error(err),
			zap.String("user_id", actor.ID.String()),
			zap.String("key", key))
		return nil, fmt.Errorf("%w: save upload: %v", ErrStorageFailure, err)
	}

	now := time.Now()
	content := &entity.Content{
		Base: entity.Base{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		Name:        title,
		StoragePath: key,
		MimeType:    mimeType,
		SizeBytes:   counter.n,
		OwnerID:     actor.ID,
	}

	if err := s.repo.Content.Create(ctx, content); err != nil {
		// row never existed, so the blob must not either
		s.removeBlob(ctx, key)
		return nil, fmt.Errorf("create content: %w", err)
	}

	s.log.Info("Content uploaded",
		zap.String("content_id", content.ID.String()),
		zap.String("owner_id", actor.ID.String()),
		zap.String("mime_type", mimeType),
		zap.Int64("size", content.SizeBytes))

	resp := response.ContentToResponse(content)
	return &resp, nil
}

func (s *contentService) List(ctx context.Context, req *request.ListContentRequest) (*response.PaginatedResponse[response.ContentResponse], error) {
	page := req.PaginatedRequest.Normalize()
	search := strings.TrimSpace(req.Search)

	contents, err := s.repo.Content.List(ctx, search, page.Limit(), page.Offset())
	if err != nil {
		s.log.Error("Failed to list contents", zap.Error(err), zap.String("search", search))
		return nil, fmt.Errorf("list contents: %w", err)
	}

	total, err := s.repo.Content.Count(ctx, search)
	if err != nil {
		return nil, fmt.Errorf("count contents: %w", err)
	}

	return response.NewPaginatedResponse(
		response.MapSlice(contents, response.ContentToResponse),
		page.Page, page.PerPage, total), nil
}

func (s *contentService) View(ctx context.Context, id string, comments *request.PaginatedRequest) (*response.ContentDetailResponse, error) {
	contentID, err := parseID("content", id)
	if err != nil {
		return nil, err
	}

	content, err := s.repo.Content.FindByID(ctx, contentID)
	if err != nil {
		return nil, fmt.Errorf("find content: %w", err)
	}
	if content == nil {
		return nil, fmt.Errorf("%w: content %s", ErrNotFound, contentID)
	}

	page := comments.Normalize()
	list, err := s.repo.Comment.FindByContentID(ctx, contentID, page.Limit(), page.Offset())
	if err != nil {
		return nil, fmt.Errorf("find comments: %w", err)
	}
	total, err := s.repo.Comment.CountByContentID(ctx, contentID)
	if err != nil {
		return nil, fmt.Errorf("count comments: %w", err)
	}

	// counted only once the page can be rendered
	views, err := s.recordView(ctx, contentID)
	if err != nil {
		return nil, err
	}
	content.Views = views

	return &response.ContentDetailResponse{
		Content: response.ContentToResponse(content),
		Comments: response.NewPaginatedResponse(
			response.MapSlice(list, response.CommentToResponse),
			page.Page, page.PerPage, total),
	}, nil
}

func (s *contentService) RecordView(ctx context.Context, id string) (int64, error) {
	contentID, err := parseID("content", id)
	if err != nil {
		return 0, err
	}
	return s.recordView(ctx, contentID)
}

func (s *contentService) recordView(ctx context.Context, contentID uuid.UUID) (int64, error) {
	views, err := s.repo.Content.IncrementViews(ctx, contentID)
	if errors.Is(err, repository.ErrNotFound) {
		return 0, fmt.Errorf("%w: content %s", ErrNotFound, contentID)
	}
	if err != nil {
		return 0, fmt.Errorf("record view: %w", err)
	}
	return views, nil
}

func (s *contentService) UpdateTitle(ctx context.Context, actor Actor, id string, req *request.UpdateContentRequest) (*response.ContentResponse, error) {
	contentID, err := parseID("content", id)
	if err != nil {
		return nil, err
	}

	title := strings.TrimSpace(req.Title)
	if errs := utils.ValidateStruct(request.UpdateContentRequest{Title: title}); len(errs) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrValidation, utils.FormatValidationErrors(errs))
	}

	content, err := s.authorize(ctx, actor, contentID)
	if err != nil {
		return nil, err
	}

	err = s.repo.Content.UpdateName(ctx, contentID, title)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("%w: content %s", ErrNotFound, contentID)
	}
	if err != nil {
		return nil, fmt.Errorf("update content title: %w", err)
	}

	s.log.Info("Content renamed",
		zap.String("content_id", contentID.String()),
		zap.String("actor_id", actor.ID.String()))

	content.Name = title
	resp := response.ContentToResponse(content)
	return &resp, nil
}

// Delete removes the content row, which cascades to its comments and
// ratings, then the stored blob. A blob that cannot be removed is logged
// and otherwise ignored.
func (s *contentService) Delete(ctx context.Context, actor Actor, id string) error {
	contentID, err := parseID("content", id)
	if err != nil {
		return err
	}

	content, err := s.authorize(ctx, actor, contentID)
	if err != nil {
		return err
	}

	err = s.repo.Content.Delete(ctx, contentID)
	if errors.Is(err, repository.ErrNotFound) {
		return fmt.Errorf("%w: content %s", ErrNotFound, contentID)
	}
	if err != nil {
		s.log.Error("Failed to delete content", zap.Error(err), zap.String("content_id", contentID.String()))
		return fmt.Errorf("delete content: %w", err)
	}

	s.removeBlob(ctx, content.StoragePath)

	s.log.Info("Content deleted",
		zap.String("content_id", contentID.String()),
		zap.String("actor_id", actor.ID.String()),
		zap.Bool("as_admin", actor.IsAdmin && actor.ID != content.OwnerID))

	return nil
}

func (s *contentService) Download(ctx context.Context, id string) (*Download, error) {
	contentID, err := parseID("content", id)
	if err != nil {
		return nil, err
	}

	content, err := s.repo.Content.FindByID(ctx, contentID)
	if err != nil {
		return nil, fmt.Errorf("find content: %w", err)
	}
	if content == nil {
		return nil, fmt.Errorf("%w: content %s", ErrNotFound, contentID)
	}

	body, err := s.store.Open(ctx, content.StoragePath)
	if err != nil {
		s.log.Error("Failed to open content blob",
			zap.Error(err),
			zap.String("content_id", contentID.String()),
			zap.String("key", content.StoragePath))
		return nil, fmt.Errorf("%w: open content %s: %v", ErrStorageFailure, contentID, err)
	}

	return &Download{
		Name:        blobDisplayName(content.StoragePath),
		ContentType: content.MimeType,
		Size:        content.SizeBytes,
		Body:        body,
	}, nil
}

// ==================== HELPER METHODS ====================

func (s *contentService) authorize(ctx context.Context, actor Actor, contentID uuid.UUID) (*entity.Content, error) {
	content, err := s.repo.Content.FindByID(ctx, contentID)
	if err != nil {
		return nil, fmt.Errorf("find content: %w", err)
	}
	if content == nil {
		return nil, fmt.Errorf("%w: content %s", ErrNotFound, contentID)
	}

	if !CanMutate(actor, content.OwnerID) {
		s.log.Warn("Content mutation denied",
			zap.String("content_id", contentID.String()),
			zap.String("actor_id", actor.ID.String()))
		return nil, fmt.Errorf("%w: content %s", ErrNotAuthorized, contentID)
	}

	return content, nil
}

func (s *contentService) removeBlob(ctx context.Context, key string) {
	if err := s.store.Remove(ctx, key); err != nil {
		s.log.Warn("Failed to remove blob", zap.Error(err), zap.String("key", key))
	}
}

// blobDisplayName strips the directory and the uuid prefix from a blob key.
func blobDisplayName(key string) string {
	name := path.Base(key)
	if len(name) > 37 && name[36] == '-' {
		if _, err := uuid.Parse(name[:36]); err == nil {
			return name[37:]
		}
	}
	return name
}

type countingReader struct {
	r io.Reader
	n int64
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	c.n += int64(n)
	return n, err
}

package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"content-share/internal/data/repository"
	"content-share/internal/dto/request"
	"content-share/internal/dto/response"
	"content-share/pkg/storage"
	"content-share/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const avatarDir = "avatars"

type UserService interface {
	GetProfile(ctx context.Context, userID uuid.UUID) (*response.UserResponse, error)
	GetPublicProfile(ctx context.Context, username string, req *request.PaginatedRequest) (*response.ProfileResponse, error)
	GetAllUsers(ctx context.Context, req *request.PaginatedRequest) (*response.PaginatedResponse[response.UserResponse], error)
	RenameUser(ctx context.Context, userID uuid.UUID, req *request.RenameUserRequest) (*response.UserResponse, error)
	UpdateAvatar(ctx context.Context, userID uuid.UUID, file *request.FileUpload) (*response.UserResponse, error)
	OpenAvatar(ctx context.Context, username string) (*Download, error)
}

type userService struct {
	repo  *repository.Repository
	store storage.Store
	log   *zap.Logger
}

func NewUserService(repo *repository.Repository, store storage.Store, log *zap.Logger) UserService {
	return &userService{
		repo:  repo,
		store: store,
		log:   log.With(zap.String("service", "user")),
	}
}

func (us *userService) GetProfile(ctx context.Context, userID uuid.UUID) (*response.UserResponse, error) {
	user, err := us.repo.User.FindByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get profile: %w", err)
	}
	if user == nil {
		return nil, fmt.Errorf("%w: user %s", ErrNotFound, userID)
	}

	resp := response.UserToResponse(user)
	return &resp, nil
}

// GetPublicProfile returns a user and a page of the content they uploaded.
func (us *userService) GetPublicProfile(ctx context.Context, username string, req *request.PaginatedRequest) (*response.ProfileResponse, error) {
	user, err := us.repo.User.FindByUsername(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("get public profile: %w", err)
	}
	if user == nil {
		return nil, fmt.Errorf("%w: user %s", ErrNotFound, username)
	}

	page := req.Normalize()

	contents, err := us.repo.Content.FindByOwner(ctx, user.ID, page.Limit(), page.Offset())
	if err != nil {
		return nil, fmt.Errorf("get user contents: %w", err)
	}

	total, err := us.repo.Content.CountByOwner(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("count user contents: %w", err)
	}

	return &response.ProfileResponse{
		User: response.UserToResponse(user),
		Contents: response.NewPaginatedResponse(
			response.MapSlice(contents, response.ContentToResponse),
			page.Page, page.PerPage, total),
	}, nil
}

func (us *userService) GetAllUsers(ctx context.Context, req *request.PaginatedRequest) (*response.PaginatedResponse[response.UserResponse], error) {
	page := req.Normalize()

	users, err := us.repo.User.FindAll(ctx, page.Limit(), page.Offset())
	if err != nil {
		us.log.Error("Failed to get all users",
			zap.Error(err),
			zap.Int("page", page.Page),
			zap.Int("per_page", page.PerPage),
		)
		return nil, fmt.Errorf("get users: %w", err)
	}

	total, err := us.repo.User.CountAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("count users: %w", err)
	}

	return response.NewPaginatedResponse(
		response.MapSlice(users, response.UserToResponse),
		page.Page, page.PerPage, total), nil
}

// RenameUser fails with ErrUsernameTaken when someone else holds the name.
// Renaming to the current name is a no-op.
func (us *userService) RenameUser(ctx context.Context, userID uuid.UUID, req *request.RenameUserRequest) (*response.UserResponse, error) {
	newUsername := strings.TrimSpace(req.Username)
	if errs := utils.ValidateStruct(request.RenameUserRequest{Username: newUsername}); len(errs) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrValidation, utils.FormatValidationErrors(errs))
	}

	user, err := us.repo.User.FindByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("rename user: %w", err)
	}
	if user == nil {
		return nil, fmt.Errorf("%w: user %s", ErrNotFound, userID)
	}

	if user.Username == newUsername {
		resp := response.UserToResponse(user)
		return &resp, nil
	}

	holder, err := us.repo.User.FindByUsername(ctx, newUsername)
	if err != nil {
		return nil, fmt.Errorf("rename user: %w", err)
	}
	if holder != nil {
		return nil, fmt.Errorf("%w: %s", ErrUsernameTaken, newUsername)
	}

	err = us.repo.User.UpdateUsername(ctx, userID, newUsername)
	switch {
	case errors.Is(err, repository.ErrDuplicate):
		return nil, fmt.Errorf("%w: %s", ErrUsernameTaken, newUsername)
	case errors.Is(err, repository.ErrNotFound):
		return nil, fmt.Errorf("%w: user %s", ErrNotFound, userID)
	case err != nil:
		return nil, fmt.Errorf("rename user: %w", err)
	}

	us.log.Info("User renamed",
		zap.String("user_id", userID.String()),
		zap.String("old_username", user.Username),
		zap.String("new_username", newUsername))

	user.Username = newUsername
	resp := response.UserToResponse(user)
	return &resp, nil
}

// UpdateAvatar stores a new avatar and drops the previous uploaded one.
func (us *userService) UpdateAvatar(ctx context.Context, userID uuid.UUID, file *request.FileUpload) (*response.UserResponse, error) {
	if file == nil || file.Reader == nil || file.Filename == "" {
		return nil, fmt.Errorf("%w: avatar file is required", ErrValidation)
	}

	user, err := us.repo.User.FindByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("update avatar: %w", err)
	}
	if user == nil {
		return nil, fmt.Errorf("%w: user %s", ErrNotFound, userID)
	}

	mimeType, body, err := storage.DetectContentType(file.Reader)
	if err != nil {
		return nil, fmt.Errorf("%w: read avatar: %v", ErrStorageFailure, err)
	}
	if !strings.HasPrefix(mimeType, "image/") {
		return nil, fmt.Errorf("%w: avatar must be an image, got %s", ErrValidation, mimeType)
	}

	key := utils.GenerateBlobKey(avatarDir, file.Filename)
	if err := us.store.Save(ctx, key, body, file.Size, mimeType); err != nil {
		us.log.Error("Failed to save avatar", zap.Error(err), zap.String("user_id", userID.String()))
		return nil, fmt.Errorf("%w: save avatar: %v", ErrStorageFailure, err)
	}

	if err := us.repo.User.UpdateAvatar(ctx, userID, key); err != nil {
		us.removeBlob(ctx, key)
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%w: user %s", ErrNotFound, userID)
		}
		return nil, fmt.Errorf("update avatar: %w", err)
	}

	if user.HasCustomAvatar() {
		us.removeBlob(ctx, user.Avatar)
	}

	us.log.Info("Avatar updated", zap.String("user_id", userID.String()), zap.String("key", key))

	user.Avatar = key
	resp := response.UserToResponse(user)
	return &resp, nil
}

func (us *userService) OpenAvatar(ctx context.Context, username string) (*Download, error) {
	user, err := us.repo.User.FindByUsername(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("open avatar: %w", err)
	}
	if user == nil || !user.HasCustomAvatar() {
		return nil, fmt.Errorf("%w: avatar of %s", ErrNotFound, username)
	}

	rc, err := us.store.Open(ctx, user.Avatar)
	if err != nil {
		us.log.Error("Failed to open avatar", zap.Error(err), zap.String("key", user.Avatar))
		return nil, fmt.Errorf("%w: open avatar: %v", ErrStorageFailure, err)
	}

	mimeType, body, err := storage.DetectContentType(rc)
	if err != nil {
		rc.Close()
		return nil, fmt.Errorf("%w: read avatar: %v", ErrStorageFailure, err)
	}

	return &Download{
		Name:        blobDisplayName(user.Avatar),
		ContentType: mimeType,
		Size:        -1,
		Body:        readCloser{Reader: body, Closer: rc},
	}, nil
}

func (us *userService) removeBlob(ctx context.Context, key string) {
	if err := us.store.Remove(ctx, key); err != nil {
		us.log.Warn("Failed to remove blob", zap.Error(err), zap.String("key", key))
	}
}

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

const defaultSessionTTL = 24 * time.Hour

type AuthService interface {
	// LoginOrRegister authenticates an existing user or, for an unknown
	// username, creates the account and authenticates it right away.
	LoginOrRegister(ctx context.Context, req *request.CredentialsRequest) (*response.AuthResponse, error)
	Register(ctx context.Context, req *request.CredentialsRequest) (*response.AuthResponse, error)
	Logout(ctx context.Context, token string) error
	EnsureAdmin(ctx context.Context, username, password string) error
}

type authService struct {
	repo   *repository.Repository
	config *utils.Config
	log    *zap.Logger
}

func NewAuthService(
	repo *repository.Repository,
	config *utils.Config,
	log *zap.Logger,
) AuthService {
	return &authService{
		repo:   repo,
		config: config,
		log:    log.With(zap.String("service", "auth")),
	}
}

func (s *authService) LoginOrRegister(ctx context.Context, req *request.CredentialsRequest) (*response.AuthResponse, error) {
	username, password, err := s.validateCredentials(req)
	if err != nil {
		return nil, err
	}

	user, err := s.repo.User.FindByUsername(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}

	registered := false
	if user == nil {
		if !s.config.Auth.AutoRegister {
			s.log.Warn("Login for unknown user", zap.String("username", username))
			return nil, ErrInvalidCredentials
		}

		user, err = s.createUser(ctx, username, password, false)
		switch {
		case errors.Is(err, repository.ErrDuplicate):
			// a concurrent first login won the race, treat this one as a login
			user, err = s.repo.User.FindByUsername(ctx, username)
			if err != nil {
				return nil, fmt.Errorf("find user: %w", err)
			}
			if user == nil {
				return nil, ErrInvalidCredentials
			}
		case err != nil:
			return nil, err
		default:
			registered = true
		}
	}

	if !registered && !utils.CheckPasswordHash(password, user.PasswordHash) {
		s.log.Warn("Invalid password", zap.String("user_id", user.ID.String()))
		return nil, ErrInvalidCredentials
	}

	session, err := s.createSession(ctx, user.ID)
	if err != nil {
		s.log.Error("Failed to create session", zap.Error(err), zap.String("user_id", user.ID.String()))
		return nil, fmt.Errorf("create session: %w", err)
	}

	if registered {
		s.log.Info("User registered on first login",
			zap.String("user_id", user.ID.String()),
			zap.String("username", user.Username))
	} else {
		s.log.Info("User logged in",
			zap.String("user_id", user.ID.String()),
			zap.String("username", user.Username))
	}

	return response.AuthToResponse(user, session, registered), nil
}

func (s *authService) Register(ctx context.Context, req *request.CredentialsRequest) (*response.AuthResponse, error) {
	username, password, err := s.validateCredentials(req)
	if err != nil {
		return nil, err
	}

	existing, err := s.repo.User.FindByUsername(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}
	if existing != nil {
		return nil, fmt.Errorf("%w: %s", ErrUsernameTaken, username)
	}

	user, err := s.createUser(ctx, username, password, false)
	if errors.Is(err, repository.ErrDuplicate) {
		return nil, fmt.Errorf("%w: %s", ErrUsernameTaken, username)
	}
	if err != nil {
		return nil, err
	}

	// the account stays, a later login creates the session
	session, err := s.createSession(ctx, user.ID)
	if err != nil {
		s.log.Error("Failed to create session after register",
			zap.Error(err), zap.String("user_id", user.ID.String()))
		return nil, fmt.Errorf("create session: %w", err)
	}

	s.log.Info("User registered",
		zap.String("user_id", user.ID.String()),
		zap.String("username", user.Username))

	return response.AuthToResponse(user, session, true), nil
}

func (s *authService) Logout(ctx context.Context, token string) error {
	tokenUUID, err := uuid.Parse(token)
	if err != nil {
		return fmt.Errorf("%w: invalid token format", ErrValidation)
	}

	err = s.repo.Session.Revoke(ctx, tokenUUID)
	if errors.Is(err, repository.ErrNotFound) {
		return fmt.Errorf("%w: session", ErrNotFound)
	}
	if err != nil {
		s.log.Error("Failed to revoke session", zap.Error(err))
		return fmt.Errorf("revoke session: %w", err)
	}

	s.log.Info("User logged out")
	return nil
}

// EnsureAdmin creates the configured admin account unless the username is
// already in use. Running it on every start is safe.
func (s *authService) EnsureAdmin(ctx context.Context, username, password string) error {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		s.log.Debug("Admin seeding skipped, no credentials configured")
		return nil
	}

	existing, err := s.repo.User.FindByUsername(ctx, username)
	if err != nil {
		return fmt.Errorf("find admin: %w", err)
	}
	if existing != nil {
		if !existing.IsAdmin {
			s.log.Warn("Seed admin username belongs to a regular user, leaving it alone",
				zap.String("username", username))
		}
		return nil
	}

	user, err := s.createUser(ctx, username, password, true)
	if errors.Is(err, repository.ErrDuplicate) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("seed admin: %w", err)
	}

	s.log.Info("Admin account created", zap.String("user_id", user.ID.String()), zap.String("username", username))
	return nil
}

// ==================== HELPER METHODS ====================

func (s *authService) validateCredentials(req *request.CredentialsRequest) (string, string, error) {
	trimmed := request.CredentialsRequest{
		Username: strings.TrimSpace(req.Username),
		Password: strings.TrimSpace(req.Password),
	}

	if errs := utils.ValidateStruct(trimmed); len(errs) > 0 {
		s.log.Warn("Credentials validation failed", zap.Any("errors", errs))
		return "", "", fmt.Errorf("%w: %s", ErrValidation, utils.FormatValidationErrors(errs))
	}
	if len(trimmed.Password) > utils.MaxPasswordBytes {
		return "", "", fmt.Errorf("%w: Password: Maximum is %d bytes", ErrValidation, utils.MaxPasswordBytes)
	}

	return trimmed.Username, trimmed.Password, nil
}

func (s *authService) createUser(ctx context.Context, username, password string, isAdmin bool) (*entity.User, error) {
	hashedPassword, err := utils.HashPassword(password)
	if err != nil {
		s.log.Error("Failed to hash password", zap.Error(err))
		return nil, fmt.Errorf("hash password: %w", err)
	}

	now := time.Now()
	user := &entity.User{
		Base: entity.Base{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		Username:     username,
		PasswordHash: hashedPassword,
		IsAdmin:      isAdmin,
		Avatar:       entity.DefaultAvatar,
	}

	if err := s.repo.User.Create(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}

func (s *authService) createSession(ctx context.Context, userID uuid.UUID) (*entity.Session, error) {
	ttl := time.Duration(s.config.Session.TTLHours) * time.Hour
	if ttl <= 0 {
		ttl = defaultSessionTTL
	}

	now := time.Now()
	session := &entity.Session{
		BaseSimple: entity.BaseSimple{
			ID:        uuid.New(),
			CreatedAt: now,
		},
		UserID:    userID,
		Token:     utils.GenerateSessionToken(),
		ExpiresAt: now.Add(ttl),
	}

	if err := s.repo.Session.Create(ctx, session); err != nil {
		return nil, err
	}

	return session, nil
}

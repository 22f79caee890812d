package usecase

import (
	"bytes"
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"content-share/internal/data/entity"
	"content-share/internal/data/repository"
	"content-share/internal/dto/request"
	"content-share/pkg/storage"
	"content-share/pkg/utils"

	"github.com/google/uuid"
	"github.com/spf13/afero"
	"go.uber.org/zap"
)

// memDB mimics the Postgres schema closely enough for service tests:
// unique usernames, one rating per (user, content), cascading deletes.
type memDB struct {
	mu       sync.Mutex
	users    map[uuid.UUID]*entity.User
	sessions map[uuid.UUID]*entity.Session
	contents map[uuid.UUID]*entity.Content
	comments map[uuid.UUID]*entity.Comment
	ratings  map[uuid.UUID]*entity.Rating

	// injected failures
	sessionErr error
	commentErr error
}

type testEnv struct {
	db    *memDB
	repo  *repository.Repository
	fs    afero.Fs
	store storage.Store
	svc   *Service
}

func newTestEnv() *testEnv {
	return newTestEnvWithConfig(&utils.Config{
		Session: utils.SessionConfig{TTLHours: 1},
		Auth:    utils.AuthConfig{AutoRegister: true},
	})
}

func newTestEnvWithConfig(config *utils.Config) *testEnv {
	db := &memDB{
		users:    map[uuid.UUID]*entity.User{},
		sessions: map[uuid.UUID]*entity.Session{},
		contents: map[uuid.UUID]*entity.Content{},
		comments: map[uuid.UUID]*entity.Comment{},
		ratings:  map[uuid.UUID]*entity.Rating{},
	}
	repo := &repository.Repository{
		User:    &fakeUserRepo{db},
		Session: &fakeSessionRepo{db},
		Content: &fakeContentRepo{db},
		Comment: &fakeCommentRepo{db},
		Rating:  &fakeRatingRepo{db},
	}
	fs := afero.NewMemMapFs()
	store := storage.NewLocalStore(fs, zap.NewNop())

	return &testEnv{
		db:    db,
		repo:  repo,
		fs:    fs,
		store: store,
		svc:   NewService(repo, store, config, zap.NewNop()),
	}
}

// ==================== USERS ====================

type fakeUserRepo struct{ db *memDB }

func (r *fakeUserRepo) Create(ctx context.Context, user *entity.User) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	for _, u := range r.db.users {
		if u.Username == user.Username {
			return repository.ErrDuplicate
		}
	}
	cp := *user
	r.db.users[user.ID] = &cp
	return nil
}

func (r *fakeUserRepo) FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	if u, ok := r.db.users[id]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, nil
}

func (r *fakeUserRepo) FindByUsername(ctx context.Context, username string) (*entity.User, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	for _, u := range r.db.users {
		if u.Username == username {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) FindAll(ctx context.Context, limit, offset int) ([]*entity.User, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	var users []*entity.User
	for _, u := range r.db.users {
		cp := *u
		users = append(users, &cp)
	}
	sort.Slice(users, func(i, j int) bool { return users[i].Username < users[j].Username })
	return window(users, limit, offset), nil
}

func (r *fakeUserRepo) CountAll(ctx context.Context) (int64, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	return int64(len(r.db.users)), nil
}

func (r *fakeUserRepo) UpdateUsername(ctx context.Context, id uuid.UUID, username string) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	for _, u := range r.db.users {
		if u.Username == username && u.ID != id {
			return repository.ErrDuplicate
		}
	}
	u, ok := r.db.users[id]
	if !ok {
		return repository.ErrNotFound
	}
	u.Username = username
	return nil
}

func (r *fakeUserRepo) UpdateAvatar(ctx context.Context, id uuid.UUID, avatar string) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	u, ok := r.db.users[id]
	if !ok {
		return repository.ErrNotFound
	}
	u.Avatar = avatar
	return nil
}

// ==================== SESSIONS ====================

type fakeSessionRepo struct{ db *memDB }

func (r *fakeSessionRepo) Create(ctx context.Context, session *entity.Session) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	if r.db.sessionErr != nil {
		return r.db.sessionErr
	}

	cp := *session
	r.db.sessions[session.Token] = &cp
	return nil
}

func (r *fakeSessionRepo) FindValidSession(ctx context.Context, token uuid.UUID) (*entity.Session, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	s, ok := r.db.sessions[token]
	if !ok || !s.Active(time.Now()) {
		return nil, nil
	}
	cp := *s
	return &cp, nil
}

func (r *fakeSessionRepo) Revoke(ctx context.Context, token uuid.UUID) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	s, ok := r.db.sessions[token]
	if !ok || s.RevokedAt != nil {
		return repository.ErrNotFound
	}
	now := time.Now()
	s.RevokedAt = &now
	return nil
}

func (r *fakeSessionRepo) CleanExpiredSessions(ctx context.Context) (int64, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	var n int64
	for token, s := range r.db.sessions {
		if !s.Active(time.Now()) {
			delete(r.db.sessions, token)
			n++
		}
	}
	return n, nil
}

// ==================== CONTENTS ====================

type fakeContentRepo struct{ db *memDB }

func (r *fakeContentRepo) withOwner(c *entity.Content) *entity.Content {
	cp := *c
	if u, ok := r.db.users[c.OwnerID]; ok {
		cp.OwnerUsername = u.Username
	}
	return &cp
}

func (r *fakeContentRepo) Create(ctx context.Context, content *entity.Content) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	if _, ok := r.db.users[content.OwnerID]; !ok {
		return errors.New("foreign key violation: owner")
	}
	cp := *content
	r.db.contents[content.ID] = &cp
	return nil
}

func (r *fakeContentRepo) FindByID(ctx context.Context, id uuid.UUID) (*entity.Content, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	if c, ok := r.db.contents[id]; ok {
		return r.withOwner(c), nil
	}
	return nil, nil
}

func (r *fakeContentRepo) filter(keep func(*entity.Content) bool) []*entity.Content {
	var out []*entity.Content
	for _, c := range r.db.contents {
		if keep(c) {
			out = append(out, r.withOwner(c))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}

func matches(search string) func(*entity.Content) bool {
	return func(c *entity.Content) bool {
		return search == "" || strings.Contains(strings.ToLower(c.Name), strings.ToLower(search))
	}
}

func (r *fakeContentRepo) List(ctx context.Context, search string, limit, offset int) ([]*entity.Content, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	return window(r.filter(matches(search)), limit, offset), nil
}

func (r *fakeContentRepo) Count(ctx context.Context, search string) (int64, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	return int64(len(r.filter(matches(search)))), nil
}

func (r *fakeContentRepo) FindByOwner(ctx context.Context, ownerID uuid.UUID, limit, offset int) ([]*entity.Content, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	return window(r.filter(func(c *entity.Content) bool { return c.OwnerID == ownerID }), limit, offset), nil
}

func (r *fakeContentRepo) CountByOwner(ctx context.Context, ownerID uuid.UUID) (int64, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	return int64(len(r.filter(func(c *entity.Content) bool { return c.OwnerID == ownerID }))), nil
}

func (r *fakeContentRepo) UpdateName(ctx context.Context, id uuid.UUID, name string) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	c, ok := r.db.contents[id]
	if !ok {
		return repository.ErrNotFound
	}
	c.Name = name
	return nil
}

func (r *fakeContentRepo) IncrementViews(ctx context.Context, id uuid.UUID) (int64, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	c, ok := r.db.contents[id]
	if !ok {
		return 0, repository.ErrNotFound
	}
	c.Views++
	return c.Views, nil
}

func (r *fakeContentRepo) Delete(ctx context.Context, id uuid.UUID) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	if _, ok := r.db.contents[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.db.contents, id)
	for cid, c := range r.db.comments {
		if c.ContentID == id {
			delete(r.db.comments, cid)
		}
	}
	for rid, rt := range r.db.ratings {
		if rt.ContentID == id {
			delete(r.db.ratings, rid)
		}
	}
	return nil
}

// ==================== COMMENTS ====================

type fakeCommentRepo struct{ db *memDB }

func (r *fakeCommentRepo) Create(ctx context.Context, comment *entity.Comment) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	if _, ok := r.db.contents[comment.ContentID]; !ok {
		return errors.New("foreign key violation: content")
	}
	cp := *comment
	r.db.comments[comment.ID] = &cp
	return nil
}

func (r *fakeCommentRepo) FindByID(ctx context.Context, id uuid.UUID) (*entity.Comment, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	if c, ok := r.db.comments[id]; ok {
		cp := *c
		return &cp, nil
	}
	return nil, nil
}

func (r *fakeCommentRepo) FindByContentID(ctx context.Context, contentID uuid.UUID, limit, offset int) ([]*entity.Comment, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	if r.db.commentErr != nil {
		return nil, r.db.commentErr
	}

	var out []*entity.Comment
	for _, c := range r.db.comments {
		if c.ContentID == contentID {
			cp := *c
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return window(out, limit, offset), nil
}

func (r *fakeCommentRepo) CountByContentID(ctx context.Context, contentID uuid.UUID) (int64, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	var n int64
	for _, c := range r.db.comments {
		if c.ContentID == contentID {
			n++
		}
	}
	return n, nil
}

func (r *fakeCommentRepo) Delete(ctx context.Context, id uuid.UUID) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	if _, ok := r.db.comments[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.db.comments, id)
	return nil
}

// ==================== RATINGS ====================

type fakeRatingRepo struct{ db *memDB }

func (r *fakeRatingRepo) Upsert(ctx context.Context, rating *entity.Rating) (*entity.RatingAggregate, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	content, ok := r.db.contents[rating.ContentID]
	if !ok {
		return nil, repository.ErrNotFound
	}

	var existing *entity.Rating
	for _, rt := range r.db.ratings {
		if rt.UserID == rating.UserID && rt.ContentID == rating.ContentID {
			existing = rt
			break
		}
	}
	if existing != nil {
		existing.Value = rating.Value
		existing.UpdatedAt = rating.UpdatedAt
		rating.ID = existing.ID
		rating.CreatedAt = existing.CreatedAt
	} else {
		cp := *rating
		r.db.ratings[rating.ID] = &cp
	}

	var sum, count int64
	for _, rt := range r.db.ratings {
		if rt.ContentID == rating.ContentID {
			sum += int64(rt.Value)
			count++
		}
	}
	content.RatingCount = count
	content.RatingMean = float64(sum) / float64(count)

	return &entity.RatingAggregate{ContentID: content.ID, Mean: content.RatingMean, Count: content.RatingCount}, nil
}

func (r *fakeRatingRepo) FindByUserAndContent(ctx context.Context, userID, contentID uuid.UUID) (*entity.Rating, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	for _, rt := range r.db.ratings {
		if rt.UserID == userID && rt.ContentID == contentID {
			cp := *rt
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeRatingRepo) GetAggregate(ctx context.Context, contentID uuid.UUID) (*entity.RatingAggregate, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	c, ok := r.db.contents[contentID]
	if !ok {
		return nil, nil
	}
	return &entity.RatingAggregate{ContentID: c.ID, Mean: c.RatingMean, Count: c.RatingCount}, nil
}

func (db *memDB) ratingRows(contentID uuid.UUID) int {
	db.mu.Lock()
	defer db.mu.Unlock()

	n := 0
	for _, rt := range db.ratings {
		if rt.ContentID == contentID {
			n++
		}
	}
	return n
}

func window[T any](items []T, limit, offset int) []T {
	if offset >= len(items) {
		return nil
	}
	end := offset + limit
	if end > len(items) {
		end = len(items)
	}
	return items[offset:end]
}

// ==================== FIXTURES ====================

var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x06\x00\x00\x00")

func (env *testEnv) seedUser(username string, isAdmin bool) Actor {
	now := time.Now()
	user := &entity.User{
		Base:         entity.Base{ID: uuid.New(), CreatedAt: now, UpdatedAt: now},
		Username:     username,
		PasswordHash: "x",
		IsAdmin:      isAdmin,
		Avatar:       entity.DefaultAvatar,
	}
	if err := env.repo.User.Create(context.Background(), user); err != nil {
		panic(err)
	}
	return Actor{ID: user.ID, IsAdmin: isAdmin}
}

func (env *testEnv) upload(owner Actor, title, filename string, body []byte) string {
	resp, err := env.svc.Content.Upload(context.Background(), owner,
		&request.UploadContentRequest{Title: title},
		&request.FileUpload{Filename: filename, Size: int64(len(body)), Reader: bytes.NewReader(body)})
	if err != nil {
		panic(err)
	}
	return resp.ID
}

package usecase

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"sync"
	"testing"

	"content-share/internal/dto/request"

	"github.com/google/uuid"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUploadStoresBlobAndRow(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	owner := env.seedUser("owner", false)

	body := []byte("hello world, plain text upload")
	resp, err := env.svc.Content.Upload(ctx, owner,
		&request.UploadContentRequest{Title: "  "},
		&request.FileUpload{Filename: "../My Notes.txt", Size: int64(len(body)), Reader: bytes.NewReader(body)})
	require.NoError(t, err)

	assert.Equal(t, "My_Notes.txt", resp.Name)
	assert.Equal(t, owner.ID.String(), resp.OwnerID)
	assert.Equal(t, int64(len(body)), resp.SizeBytes)
	assert.True(t, strings.HasPrefix(resp.MimeType, "text/plain"), resp.MimeType)

	stored := env.db.contents[uuid.MustParse(resp.ID)]
	require.NotNil(t, stored)
	assert.True(t, strings.HasPrefix(stored.StoragePath, "uploads/"))

	data, err := afero.ReadFile(env.fs, stored.StoragePath)
	require.NoError(t, err)
	assert.Equal(t, body, data)
}

func TestUploadRequiresFile(t *testing.T) {
	env := newTestEnv()
	owner := env.seedUser("owner", false)

	_, err := env.svc.Content.Upload(context.Background(), owner, &request.UploadContentRequest{}, nil)
	assert.ErrorIs(t, err, ErrValidation)

	_, err = env.svc.Content.Upload(context.Background(), Actor{}, &request.UploadContentRequest{},
		&request.FileUpload{Filename: "a.txt", Reader: strings.NewReader("a")})
	assert.ErrorIs(t, err, ErrNotAuthorized)
}

func TestListSearchesByName(t *testing.T) {
	env := newTestEnv()
	owner := env.seedUser("owner", false)
	env.upload(owner, "Summer trip", "a.png", pngHeader)
	env.upload(owner, "Winter", "b.png", pngHeader)

	page, err := env.svc.Content.List(context.Background(), &request.ListContentRequest{Search: "summer"})
	require.NoError(t, err)
	require.Len(t, page.Data, 1)
	assert.Equal(t, "Summer trip", page.Data[0].Name)
	assert.Equal(t, "owner", page.Data[0].OwnerUsername)
	assert.Equal(t, int64(1), page.Pagination.Total)

	all, err := env.svc.Content.List(context.Background(), &request.ListContentRequest{})
	require.NoError(t, err)
	assert.Equal(t, int64(2), all.Pagination.Total)
	assert.Equal(t, request.DefaultPerPage, all.Pagination.PerPage)
}

func TestRecordViewConcurrent(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	owner := env.seedUser("owner", false)
	x := env.upload(owner, "x", "x.png", pngHeader)

	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := env.svc.Content.RecordView(ctx, x)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	detail, err := env.svc.Content.View(ctx, x, &request.PaginatedRequest{})
	require.NoError(t, err)
	assert.Equal(t, int64(101), detail.Content.Views)

	_, err = env.svc.Content.RecordView(ctx, uuid.NewString())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestViewIncludesComments(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	owner := env.seedUser("owner", false)
	reader := env.seedUser("reader", false)
	x := env.upload(owner, "x", "x.png", pngHeader)

	_, err := env.svc.Comment.AddComment(ctx, reader, x, &request.CreateCommentRequest{Text: "nice"})
	require.NoError(t, err)

	detail, err := env.svc.Content.View(ctx, x, &request.PaginatedRequest{})
	require.NoError(t, err)
	assert.Equal(t, int64(1), detail.Content.Views)
	require.Len(t, detail.Comments.Data, 1)
	assert.Equal(t, "nice", detail.Comments.Data[0].Text)
	assert.Equal(t, "reader", detail.Comments.Data[0].Username)
}

func TestViewFailureDoesNotCount(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	owner := env.seedUser("owner", false)
	x := env.upload(owner, "x", "x.png", pngHeader)

	env.db.commentErr = errors.New("connection reset")
	_, err := env.svc.Content.View(ctx, x, &request.PaginatedRequest{})
	require.Error(t, err)
	assert.Equal(t, int64(0), env.db.contents[uuid.MustParse(x)].Views)

	env.db.commentErr = nil
	detail, err := env.svc.Content.View(ctx, x, &request.PaginatedRequest{})
	require.NoError(t, err)
	assert.Equal(t, int64(1), detail.Content.Views)

	_, err = env.svc.Content.View(ctx, uuid.NewString(), &request.PaginatedRequest{})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUpdateTitleOwnerOrAdmin(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	owner := env.seedUser("owner", false)
	stranger := env.seedUser("stranger", false)
	admin := env.seedUser("admin", true)
	x := env.upload(owner, "x", "x.png", pngHeader)

	_, err := env.svc.Content.UpdateTitle(ctx, stranger, x, &request.UpdateContentRequest{Title: "mine now"})
	assert.ErrorIs(t, err, ErrNotAuthorized)

	resp, err := env.svc.Content.UpdateTitle(ctx, owner, x, &request.UpdateContentRequest{Title: " renamed "})
	require.NoError(t, err)
	assert.Equal(t, "renamed", resp.Name)

	resp, err = env.svc.Content.UpdateTitle(ctx, admin, x, &request.UpdateContentRequest{Title: "moderated"})
	require.NoError(t, err)
	assert.Equal(t, "moderated", resp.Name)

	_, err = env.svc.Content.UpdateTitle(ctx, owner, x, &request.UpdateContentRequest{Title: "   "})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestDeleteCascadesAndRemovesBlob(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	owner := env.seedUser("owner", false)
	reader := env.seedUser("reader", false)
	x := env.upload(owner, "x", "x.png", pngHeader)
	contentID := uuid.MustParse(x)
	key := env.db.contents[contentID].StoragePath

	_, err := env.svc.Comment.AddComment(ctx, reader, x, &request.CreateCommentRequest{Text: "first"})
	require.NoError(t, err)
	_, err = env.svc.Rating.SubmitRating(ctx, reader, x, 5)
	require.NoError(t, err)

	assert.ErrorIs(t, env.svc.Content.Delete(ctx, reader, x), ErrNotAuthorized)

	require.NoError(t, env.svc.Content.Delete(ctx, owner, x))

	assert.Empty(t, env.db.comments)
	assert.Zero(t, env.db.ratingRows(contentID))
	exists, err := afero.Exists(env.fs, key)
	require.NoError(t, err)
	assert.False(t, exists)

	_, err = env.svc.Content.View(ctx, x, &request.PaginatedRequest{})
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, env.svc.Content.Delete(ctx, owner, x), ErrNotFound)
}

func TestDeleteSucceedsWhenBlobMissing(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	owner := env.seedUser("owner", false)
	admin := env.seedUser("admin", true)
	x := env.upload(owner, "x", "x.png", pngHeader)

	require.NoError(t, env.fs.Remove(env.db.contents[uuid.MustParse(x)].StoragePath))

	require.NoError(t, env.svc.Content.Delete(ctx, admin, x))
	assert.Empty(t, env.db.contents)
}

func TestDownload(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	owner := env.seedUser("owner", false)
	x := env.upload(owner, "", "photo.png", pngHeader)

	dl, err := env.svc.Content.Download(ctx, x)
	require.NoError(t, err)
	defer dl.Body.Close()

	assert.Equal(t, "photo.png", dl.Name)
	assert.Equal(t, "image/png", dl.ContentType)
	assert.Equal(t, int64(len(pngHeader)), dl.Size)
	data, err := io.ReadAll(dl.Body)
	require.NoError(t, err)
	assert.Equal(t, pngHeader, data)

	require.NoError(t, env.fs.Remove(env.db.contents[uuid.MustParse(x)].StoragePath))
	_, err = env.svc.Content.Download(ctx, x)
	assert.ErrorIs(t, err, ErrStorageFailure)

	_, err = env.svc.Content.Download(ctx, "nope")
	assert.ErrorIs(t, err, ErrValidation)
}

func TestBlobDisplayName(t *testing.T) {
	id := uuid.NewString()
	assert.Equal(t, "a.png", blobDisplayName("uploads/"+id+"-a.png"))
	assert.Equal(t, "plain.png", blobDisplayName("uploads/plain.png"))
	assert.Equal(t, "not-a-uuid-prefix-but-long-enough-xxxx.png", blobDisplayName("uploads/not-a-uuid-prefix-but-long-enough-xxxx.png"))
}

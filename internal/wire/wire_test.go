package wire

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"content-share/internal/data/repository"
	"content-share/pkg/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func testConfig() *utils.Config {
	return &utils.Config{
		Session: utils.SessionConfig{TTLHours: 24, CleanupSchedule: "@hourly"},
		Storage: utils.StorageConfig{MaxUploadMB: 1},
		Auth:    utils.AuthConfig{AutoRegister: true},
	}
}

func TestWiringRoutes(t *testing.T) {
	app, err := Wiring(&repository.Repository{}, nil, testConfig(), zap.NewNop())
	require.NoError(t, err)
	require.Len(t, app.Cron.Entries(), 1)

	tests := []struct {
		method string
		path   string
		want   int
	}{
		{method: http.MethodGet, path: "/health", want: http.StatusOK},
		{method: http.MethodPost, path: "/api/logout", want: http.StatusUnauthorized},
		{method: http.MethodPost, path: "/api/contents", want: http.StatusUnauthorized},
		{method: http.MethodPatch, path: "/api/contents/abc", want: http.StatusUnauthorized},
		{method: http.MethodDelete, path: "/api/contents/abc", want: http.StatusUnauthorized},
		{method: http.MethodDelete, path: "/api/comments/abc", want: http.StatusUnauthorized},
		{method: http.MethodPut, path: "/api/contents/abc/ratings", want: http.StatusUnauthorized},
		{method: http.MethodGet, path: "/api/user/profile", want: http.StatusUnauthorized},
		{method: http.MethodGet, path: "/api/admin/users", want: http.StatusUnauthorized},
		{method: http.MethodGet, path: "/api/nope", want: http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			rec := httptest.NewRecorder()
			app.Router.ServeHTTP(rec, httptest.NewRequest(tt.method, tt.path, nil))
			assert.Equal(t, tt.want, rec.Code)
		})
	}
}

func TestWiringRejectsBadSchedule(t *testing.T) {
	config := testConfig()
	config.Session.CleanupSchedule = "every now and then"

	_, err := Wiring(&repository.Repository{}, nil, config, zap.NewNop())
	assert.Error(t, err)
}

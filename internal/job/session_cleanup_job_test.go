package job

import (
	"context"
	"errors"
	"testing"

	"content-share/internal/data/entity"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

type countingSessions struct {
	calls int
	err   error
}

func (s *countingSessions) Create(ctx context.Context, session *entity.Session) error { return nil }
func (s *countingSessions) Revoke(ctx context.Context, token uuid.UUID) error         { return nil }
func (s *countingSessions) FindValidSession(ctx context.Context, token uuid.UUID) (*entity.Session, error) {
	return nil, nil
}

func (s *countingSessions) CleanExpiredSessions(ctx context.Context) (int64, error) {
	s.calls++
	if _, ok := ctx.Deadline(); !ok {
		return 0, errors.New("cleanup must run with a deadline")
	}
	return 3, s.err
}

func TestSessionCleanupJobRun(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	sessions := &countingSessions{}

	var j cron.Job = NewSessionCleanupJob(sessions, zap.New(core))
	j.Run()

	assert.Equal(t, 1, sessions.calls)
	entries := logs.FilterMessage("Session cleanup completed").All()
	if assert.Len(t, entries, 1) {
		assert.Equal(t, int64(3), entries[0].ContextMap()["removed"])
	}
}

func TestSessionCleanupJobError(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	sessions := &countingSessions{err: errors.New("db down")}

	NewSessionCleanupJob(sessions, zap.New(core)).Run()

	assert.Equal(t, 1, logs.FilterMessage("Failed to clean expired sessions").Len())
	assert.Zero(t, logs.FilterMessage("Session cleanup completed").Len())
}

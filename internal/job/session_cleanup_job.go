package job

import (
	"context"
	"time"

	"content-share/internal/data/repository"

	"go.uber.org/zap"
)

const sessionCleanupTimeout = time.Minute

// SessionCleanupJob deletes sessions that expired or were revoked long ago.
type SessionCleanupJob struct {
	sessions repository.SessionRepository
	log      *zap.Logger
}

func NewSessionCleanupJob(sessions repository.SessionRepository, log *zap.Logger) *SessionCleanupJob {
	return &SessionCleanupJob{
		sessions: sessions,
		log:      log.With(zap.String("job", "session_cleanup")),
	}
}

// Run implements cron.Job.
func (j *SessionCleanupJob) Run() {
	ctx, cancel := context.WithTimeout(context.Background(), sessionCleanupTimeout)
	defer cancel()

	j.log.Debug("Session cleanup job started")

	removed, err := j.sessions.CleanExpiredSessions(ctx)
	if err != nil {
		j.log.Warn("Failed to clean expired sessions", zap.Error(err))
		return
	}

	j.log.Info("Session cleanup completed", zap.Int64("removed", removed))
}

package database

import (
	"context"
	"fmt"
)

// schemaStatements are safe to run on every start.
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id         UUID PRIMARY KEY,
		username   VARCHAR(45)  NOT NULL UNIQUE,
		password   VARCHAR(255) NOT NULL,
		is_admin   BOOLEAN      NOT NULL DEFAULT FALSE,
		avatar     VARCHAR(255) NOT NULL DEFAULT 'default_avatar.png',
		created_at TIMESTAMPTZ  NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ  NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS contents (
		id           UUID PRIMARY KEY,
		name         VARCHAR(200) NOT NULL,
		storage_path VARCHAR(255) NOT NULL,
		mime_type    VARCHAR(100) NOT NULL DEFAULT 'application/octet-stream',
		size_bytes   BIGINT       NOT NULL DEFAULT 0,
		owner_id     UUID         NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		rating_mean  DOUBLE PRECISION NOT NULL DEFAULT 0,
		rating_count BIGINT       NOT NULL DEFAULT 0,
		views        BIGINT       NOT NULL DEFAULT 0 CHECK (views >= 0),
		created_at   TIMESTAMPTZ  NOT NULL DEFAULT NOW(),
		updated_at   TIMESTAMPTZ  NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_contents_created_at ON contents (created_at DESC)`,
	`CREATE INDEX IF NOT EXISTS idx_contents_owner_id ON contents (owner_id)`,
	`CREATE TABLE IF NOT EXISTS comments (
		id         UUID PRIMARY KEY,
		user_id    UUID         NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		content_id UUID         NOT NULL REFERENCES contents(id) ON DELETE CASCADE,
		text       VARCHAR(255) NOT NULL,
		created_at TIMESTAMPTZ  NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_comments_content_id ON comments (content_id, created_at DESC)`,
	`CREATE TABLE IF NOT EXISTS ratings (
		id         UUID PRIMARY KEY,
		user_id    UUID        NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		content_id UUID        NOT NULL REFERENCES contents(id) ON DELETE CASCADE,
		value      INTEGER     NOT NULL CHECK (value BETWEEN 1 AND 5),
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		CONSTRAINT ratings_user_content_uc UNIQUE (user_id, content_id)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_ratings_content_id ON ratings (content_id)`,
	`CREATE TABLE IF NOT EXISTS sessions (
		id         UUID PRIMARY KEY,
		user_id    UUID        NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		token      UUID        NOT NULL UNIQUE,
		user_agent TEXT,
		ip_address TEXT,
		expires_at TIMESTAMPTZ NOT NULL,
		revoked_at TIMESTAMPTZ,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
}

// dropStatements wipe everything, children first.
var dropStatements = []string{
	`DROP TABLE IF EXISTS sessions`,
	`DROP TABLE IF EXISTS ratings`,
	`DROP TABLE IF EXISTS comments`,
	`DROP TABLE IF EXISTS contents`,
	`DROP TABLE IF EXISTS users`,
}

// EnsureSchema creates missing tables and indexes. With reset it drops every
// table first, which is only meant for throwaway demo deployments.
func EnsureSchema(ctx context.Context, db PgxIface, reset bool) error {
	if reset {
		for _, stmt := range dropStatements {
			if _, err := db.Exec(ctx, stmt); err != nil {
				return fmt.Errorf("reset schema: %w", err)
			}
		}
	}

	for _, stmt := range schemaStatements {
		if _, err := db.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}

	return nil
}

package entity

import (
	"github.com/google/uuid"
)

type Comment struct {
	BaseSimple
	UserID    uuid.UUID `db:"user_id"`
	ContentID uuid.UUID `db:"content_id"`
	Text      string    `db:"text"`

	// joined from users, read only
	Username string `db:"username"`
}

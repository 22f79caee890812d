package entity

import (
	"github.com/google/uuid"
)

type Content struct {
	Base
	Name        string    `db:"name"`
	StoragePath string    `db:"storage_path"`
	MimeType    string    `db:"mime_type"`
	SizeBytes   int64     `db:"size_bytes"`
	OwnerID     uuid.UUID `db:"owner_id"` // never changes after insert
	RatingMean  float64   `db:"rating_mean"`
	RatingCount int64     `db:"rating_count"`
	Views       int64     `db:"views"`

	// joined from users, read only
	OwnerUsername string `db:"owner_username"`
}

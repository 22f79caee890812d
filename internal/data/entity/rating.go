package entity

import (
	"github.com/google/uuid"
)

const (
	MinRatingValue = 1
	MaxRatingValue = 5
)

type Rating struct {
	Base
	UserID    uuid.UUID `db:"user_id"`
	ContentID uuid.UUID `db:"content_id"`
	Value     int       `db:"value"` // 1-5
}

// RatingAggregate is the denormalized rating summary stored on contents.
type RatingAggregate struct {
	ContentID uuid.UUID `db:"id"`
	Mean      float64   `db:"rating_mean"`
	Count     int64     `db:"rating_count"`
}

// ValidRatingValue reports whether v is within the accepted scale.
func ValidRatingValue(v int) bool {
	return v >= MinRatingValue && v <= MaxRatingValue
}

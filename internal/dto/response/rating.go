package response

import (
	"time"

	"content-share/internal/data/entity"
)

type RatingStats struct {
	ContentID string  `json:"content_id"`
	Mean      float64 `json:"mean"`
	Count     int64   `json:"count"`
}

type RatingResponse struct {
	ID        string      `json:"id"`
	UserID    string      `json:"user_id"`
	ContentID string      `json:"content_id"`
	Value     int         `json:"value"`
	UpdatedAt time.Time   `json:"updated_at"`
	Stats     RatingStats `json:"stats"`
}

func RatingStatsToResponse(agg *entity.RatingAggregate) RatingStats {
	return RatingStats{
		ContentID: agg.ContentID.String(),
		Mean:      agg.Mean,
		Count:     agg.Count,
	}
}

func RatingToResponse(rating *entity.Rating, agg *entity.RatingAggregate) RatingResponse {
	return RatingResponse{
		ID:        rating.ID.String(),
		UserID:    rating.UserID.String(),
		ContentID: rating.ContentID.String(),
		Value:     rating.Value,
		UpdatedAt: rating.UpdatedAt,
		Stats:     RatingStatsToResponse(agg),
	}
}

package request

// SubmitRatingRequest carries the raw value; range checking belongs to the
// rating service so every caller gets the same error.
type SubmitRatingRequest struct {
	Value int `json:"value"`
}

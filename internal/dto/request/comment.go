package request

type CreateCommentRequest struct {
	Text string `json:"text" validate:"required,min=1,max=255"`
}

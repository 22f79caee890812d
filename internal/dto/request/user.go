package request

type RenameUserRequest struct {
	Username string `json:"username" validate:"required,min=1,max=45,excludesall=/\\?#%"`
}

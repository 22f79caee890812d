package request

// CredentialsRequest is shared by login-or-register and explicit sign-up.
type CredentialsRequest struct {
	Username string `json:"username" validate:"required,min=1,max=45,excludesall=/\\?#%"`
	Password string `json:"password" validate:"required,min=1,max=72"`
}

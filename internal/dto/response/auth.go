package response

import (
	"time"

	"content-share/internal/data/entity"
)

type AuthResponse struct {
	UserID     string    `json:"user_id"`
	Token      string    `json:"token"`
	ExpiresAt  time.Time `json:"expires_at"`
	Username   string    `json:"username"`
	IsAdmin    bool      `json:"is_admin"`
	Registered bool      `json:"registered"` // true when this login created the account
}

type UserResponse struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	IsAdmin   bool      `json:"is_admin"`
	Avatar    string    `json:"avatar"`
	CreatedAt time.Time `json:"created_at"`
}

type ProfileResponse struct {
	User     UserResponse                        `json:"user"`
	Contents *PaginatedResponse[ContentResponse] `json:"contents"`
}

func UserToResponse(user *entity.User) UserResponse {
	return UserResponse{
		ID:        user.ID.String(),
		Username:  user.Username,
		IsAdmin:   user.IsAdmin,
		Avatar:    user.Avatar,
		CreatedAt: user.CreatedAt,
	}
}

func AuthToResponse(user *entity.User, session *entity.Session, registered bool) *AuthResponse {
	resp := &AuthResponse{
		UserID:     user.ID.String(),
		Username:   user.Username,
		IsAdmin:    user.IsAdmin,
		Registered: registered,
	}

	if session != nil {
		resp.Token = session.Token.String()
		resp.ExpiresAt = session.ExpiresAt
	}

	return resp
}

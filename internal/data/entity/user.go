package entity

// DefaultAvatar is the avatar reference of users who never uploaded one.
const DefaultAvatar = "default_avatar.png"

type User struct {
	Base
	Username     string `db:"username"`
	PasswordHash string `db:"password"`
	IsAdmin      bool   `db:"is_admin"`
	Avatar       string `db:"avatar"`
}

// HasCustomAvatar reports whether Avatar points at an uploaded blob.
func (u *User) HasCustomAvatar() bool {
	return u.Avatar != "" && u.Avatar != DefaultAvatar
}

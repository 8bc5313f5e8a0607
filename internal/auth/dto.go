// AngelaMos | 2026
// dto.go

package auth

import (
	"time"
)

type LoginRequest struct {
	Email    string `json:"email"    validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,max=72"`
}

type UserSummary struct {
	ID           string  `json:"id"`
	FirstName    string  `json:"firstName"`
	LastName     string  `json:"lastName"`
	FullName     string  `json:"fullName"`
	Email        string  `json:"email"`
	Role         string  `json:"role"`
	AccessLevel  int     `json:"accessLevel"`
	IsAdmin      bool    `json:"isAdmin"`
	ProfileImage *string `json:"profileImage"`
}

type AuthResponse struct {
	Token     string      `json:"token"`
	TokenType string      `json:"tokenType"`
	ExpiresIn int         `json:"expiresIn"`
	ExpiresAt time.Time   `json:"expiresAt"`
	User      UserSummary `json:"user"`
}

type LogoutResponse struct {
	Message string `json:"message"`
}

func ToUserSummary(u *UserInfo) UserSummary {
	return UserSummary{
		ID:           u.ID,
		FirstName:    u.FirstName,
		LastName:     u.LastName,
		FullName:     u.FullName(),
		Email:        u.Email,
		Role:         u.Role.String(),
		AccessLevel:  u.Role.Level(),
		IsAdmin:      u.Role.IsAdmin(),
		ProfileImage: u.ProfileImage,
	}
}

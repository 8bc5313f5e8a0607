// AngelaMos | 2026
// dto.go

package user

import (
	"time"

	"github.com/carterperez-dev/templates/admin-dashboard/internal/access"
)

type RegisterRequest struct {
	FirstName   string `json:"firstName"   validate:"required,min=1,max=100"`
	LastName    string `json:"lastName"    validate:"required,min=1,max=100"`
	Email       string `json:"email"       validate:"required,email,max=255"`
	Phone       string `json:"phone"       validate:"required,min=3,max=32"`
	Address     string `json:"address"     validate:"required,max=255"`
	City        string `json:"city"        validate:"required,max=100"`
	PostalCode  string `json:"postalCode"  validate:"required,max=32"`
	Password    string `json:"password"    validate:"required,min=8,max=72"`
	AccessLevel *int   `json:"accessLevel,omitempty"`
	IsAdmin     *bool  `json:"isAdmin,omitempty"`
}

type UpdateProfileRequest struct {
	FirstName  *string `json:"firstName,omitempty"  validate:"omitempty,min=1,max=100"`
	LastName   *string `json:"lastName,omitempty"   validate:"omitempty,min=1,max=100"`
	Email      *string `json:"email,omitempty"      validate:"omitempty,email,max=255"`
	Phone      *string `json:"phone,omitempty"      validate:"omitempty,min=3,max=32"`
	Address    *string `json:"address,omitempty"    validate:"omitempty,min=1,max=255"`
	City       *string `json:"city,omitempty"       validate:"omitempty,min=1,max=100"`
	PostalCode *string `json:"postalCode,omitempty" validate:"omitempty,min=1,max=32"`
	Password   *string `json:"password,omitempty"   validate:"omitempty,min=8,max=72"`
}

type UpdateProfileImageRequest struct {
	ProfileImage string `json:"profileImage" validate:"required,max=2048"`
}

type ProfileResponse struct {
	ID           string    `json:"id"`
	FirstName    string    `json:"firstName"`
	LastName     string    `json:"lastName"`
	FullName     string    `json:"fullName"`
	Email        string    `json:"email"`
	Phone        string    `json:"phone"`
	Address      string    `json:"address"`
	City         string    `json:"city"`
	PostalCode   string    `json:"postalCode"`
	ProfileImage *string   `json:"profileImage"`
	Role         string    `json:"role"`
	AccessLevel  int       `json:"accessLevel"`
	IsAdmin      bool      `json:"isAdmin"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

type ListUsersParams struct {
	Page     int
	PageSize int
	Search   string
	Role     access.Role
}

func (p *ListUsersParams) Normalize() {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.PageSize < 1 {
		p.PageSize = 20
	}
	if p.PageSize > 100 {
		p.PageSize = 100
	}
}

func (p *ListUsersParams) Offset() int {
	return (p.Page - 1) * p.PageSize
}

func ToProfileResponse(u *User) ProfileResponse {
	return ProfileResponse{
		ID:           u.ID,
		FirstName:    u.FirstName,
		LastName:     u.LastName,
		FullName:     u.FullName(),
		Email:        u.Email,
		Phone:        u.Phone,
		Address:      u.Address,
		City:         u.City,
		PostalCode:   u.PostalCode,
		ProfileImage: u.ProfileImage,
		Role:         u.Role.String(),
		AccessLevel:  u.Role.Level(),
		IsAdmin:      u.IsAdmin(),
		CreatedAt:    u.CreatedAt,
		UpdatedAt:    u.UpdatedAt,
	}
}

func ToProfileResponseList(users []User) []ProfileResponse {
	responses := make([]ProfileResponse, 0, len(users))
	for i := range users {
		responses = append(responses, ToProfileResponse(&users[i]))
	}
	return responses
}

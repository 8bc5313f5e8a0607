// AngelaMos | 2026
// state.go

// Package session keeps the command-line client's local view of who is
// logged in. The server never consults it; every privileged call is still
// verified server-side and a rejected proof wipes this cache.
package session

import (
	"time"

	"github.com/carterperez-dev/templates/admin-dashboard/internal/access"
)

// Summary is the slice of the profile kept between runs.
type Summary struct {
	UserID      string `json:"userId"`
	FullName    string `json:"fullName"`
	Email       string `json:"email"`
	AccessLevel int    `json:"accessLevel"`
}

func (s Summary) Role() access.Role {
	return access.Role(s.AccessLevel)
}

type State struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
	User      *Summary  `json:"user,omitempty"`
}

// Authenticated reports whether the state holds an unexpired proof.
func (s State) Authenticated(now time.Time) bool {
	return s.Token != "" && s.User != nil && now.Before(s.ExpiresAt)
}

// IsAdmin is derived from the cached access level, never stored.
func (s State) IsAdmin(now time.Time) bool {
	return s.Authenticated(now) && s.User.Role().IsAdmin()
}

// Flags is the presentation view of a State.
type Flags struct {
	IsAuthenticated bool
	IsAdmin         bool
}

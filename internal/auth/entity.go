// AngelaMos | 2026
// entity.go

package auth

import (
	"strings"
	"time"

	"github.com/carterperez-dev/templates/admin-dashboard/internal/access"
)

// UserInfo is the slice of a user record the authenticator needs.
type UserInfo struct {
	ID           string
	FirstName    string
	LastName     string
	Email        string
	PasswordHash string
	Role         access.Role
	ProfileImage *string
}

func (u *UserInfo) FullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

// IssuedToken is a freshly minted session proof.
type IssuedToken struct {
	Token     string
	TokenID   string
	ExpiresAt time.Time
}

func (t *IssuedToken) TTL() time.Duration {
	return time.Until(t.ExpiresAt)
}

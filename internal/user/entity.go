// AngelaMos | 2026
// entity.go

package user

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/carterperez-dev/templates/admin-dashboard/internal/access"
	"github.com/carterperez-dev/templates/admin-dashboard/internal/core"
)

var (
	ErrEmailTaken = fmt.Errorf("email: %w", core.ErrDuplicateKey)
	ErrPhoneTaken = fmt.Errorf("phone: %w", core.ErrDuplicateKey)

	ErrEmptyPostalCode      = errors.New("postal code is empty after normalization")
	ErrPrivilegedSignupDeny = errors.New("privileged self-registration is disabled")
)

type User struct {
	ID           string      `db:"id"`
	FirstName    string      `db:"first_name"`
	LastName     string      `db:"last_name"`
	Email        string      `db:"email"`
	Phone        string      `db:"phone"`
	Address      string      `db:"address"`
	City         string      `db:"city"`
	PostalCode   string      `db:"postal_code"`
	ProfileImage *string     `db:"profile_image"`
	PasswordHash string      `db:"password_hash"`
	Role         access.Role `db:"role"`
	CreatedAt    time.Time   `db:"created_at"`
	UpdatedAt    time.Time   `db:"updated_at"`
}

func (u *User) FullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

func (u *User) IsAdmin() bool {
	return u.Role.IsAdmin()
}

// NormalizePostalCode strips every comma. A code that is empty afterwards
// is rejected.
func NormalizePostalCode(code string) (string, error) {
	normalized := strings.TrimSpace(strings.ReplaceAll(code, ",", ""))
	if normalized == "" {
		return "", ErrEmptyPostalCode
	}
	return normalized, nil
}

func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

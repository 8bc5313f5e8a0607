// AngelaMos | 2026
// role.go

// Package access holds the authorization model: the ordered role enum, the
// identity resolved from a session proof, and the capability check every
// privileged route runs before reaching business logic.
package access

import (
	"fmt"
	"strings"
)

// Role values are the legacy access levels. Lower means more privileged.
type Role int

const (
	RoleAdmin   Role = 10
	RoleManager Role = 20
	RoleUser    Role = 30
)

func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleManager, RoleUser:
		return true
	default:
		return false
	}
}

// AtLeast reports whether r grants everything min grants.
func (r Role) AtLeast(minRole Role) bool {
	return r.Valid() && minRole.Valid() && r <= minRole
}

func (r Role) IsAdmin() bool {
	return r == RoleAdmin
}

func (r Role) Level() int {
	return int(r)
}

func (r Role) String() string {
	switch r {
	case RoleAdmin:
		return "admin"
	case RoleManager:
		return "manager"
	case RoleUser:
		return "user"
	default:
		return fmt.Sprintf("role(%d)", int(r))
	}
}

func ParseRole(s string) (Role, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "admin":
		return RoleAdmin, nil
	case "manager":
		return RoleManager, nil
	case "user":
		return RoleUser, nil
	default:
		return 0, fmt.Errorf("unknown role %q", s)
	}
}

func RoleFromLevel(level int) (Role, error) {
	r := Role(level)
	if !r.Valid() {
		return 0, fmt.Errorf("unknown access level %d", level)
	}
	return r, nil
}

// ResolveRole folds the two legacy authority signals into one role: an
// explicit admin flag wins, otherwise the access level decides, defaulting
// to RoleUser when neither is present. The admin level paired with an
// explicit isAdmin=false is rejected with ErrRoleConflict.
func ResolveRole(accessLevel *int, isAdmin *bool) (Role, error) {
	if isAdmin != nil && *isAdmin {
		if accessLevel != nil {
			if _, err := RoleFromLevel(*accessLevel); err != nil {
				return 0, err
			}
		}
		return RoleAdmin, nil
	}

	if accessLevel == nil {
		return RoleUser, nil
	}

	r, err := RoleFromLevel(*accessLevel)
	if err != nil {
		return 0, err
	}

	if r == RoleAdmin && isAdmin != nil && !*isAdmin {
		return 0, fmt.Errorf("access level %d with isAdmin=false: %w", *accessLevel, ErrRoleConflict)
	}

	return r, nil
}

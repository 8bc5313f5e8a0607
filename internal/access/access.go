// AngelaMos | 2026
// access.go

package access

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/carterperez-dev/templates/admin-dashboard/internal/core"
)

var (
	ErrUnauthenticated = core.ErrUnauthorized
	ErrForbidden       = core.ErrForbidden
	ErrRoleConflict    = errors.New("access level contradicts admin flag")
)

type Capability string

const (
	CapabilityAuthenticated Capability = "authenticated"
	CapabilityManager       Capability = "manager"
	CapabilityAdmin         Capability = "admin"
)

// Identity is the trusted view of a caller, built only from a verified
// session proof.
type Identity struct {
	UserID    string
	Role      Role
	TokenID   string
	ExpiresAt time.Time
}

func (i *Identity) IsAdmin() bool {
	return i != nil && i.Role.IsAdmin()
}

// Authorize returns nil when identity holds capability, ErrUnauthenticated
// when there is no identity, and ErrForbidden otherwise.
func Authorize(identity *Identity, capability Capability) error {
	if identity == nil || identity.UserID == "" {
		return fmt.Errorf("authorize %s: %w", capability, ErrUnauthenticated)
	}

	var allowed bool
	switch capability {
	case CapabilityAuthenticated:
		allowed = identity.Role.Valid()
	case CapabilityManager:
		allowed = identity.Role.AtLeast(RoleManager)
	case CapabilityAdmin:
		allowed = identity.IsAdmin()
	}

	if !allowed {
		return fmt.Errorf("authorize %s: %w", capability, ErrForbidden)
	}

	return nil
}

type contextKey string

const identityKey contextKey = "identity"

func WithIdentity(ctx context.Context, identity *Identity) context.Context {
	return context.WithValue(ctx, identityKey, identity)
}

func IdentityFromContext(ctx context.Context) *Identity {
	if identity, ok := ctx.Value(identityKey).(*Identity); ok {
		return identity
	}
	return nil
}

// AngelaMos | 2026
// auth.go

package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/carterperez-dev/templates/admin-dashboard/internal/access"
	"github.com/carterperez-dev/templates/admin-dashboard/internal/core"
)

// TokenVerifier turns a raw session proof into a trusted identity.
type TokenVerifier interface {
	Resolve(ctx context.Context, token string) (*access.Identity, error)
}

// Authenticator rejects requests without a valid session proof. The proof is
// read from the Authorization header first, then from cookieName.
func Authenticator(
	verifier TokenVerifier,
	cookieName string,
) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := ExtractToken(r, cookieName)

			if token == "" {
				core.JSONError(w, core.UnauthorizedError(""))
				return
			}

			identity, err := verifier.Resolve(r.Context(), token)
			if err != nil {
				handleAuthError(w, err)
				return
			}

			ctx := access.WithIdentity(r.Context(), identity)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// Require runs the access check for capability against the identity placed
// in the context by Authenticator.
func Require(capability access.Capability) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identity := access.IdentityFromContext(r.Context())

			if err := access.Authorize(identity, capability); err != nil {
				if errors.Is(err, access.ErrUnauthenticated) {
					core.JSONError(w, core.UnauthorizedError(""))
					return
				}
				core.JSONError(
					w,
					core.ForbiddenError("insufficient permissions"),
				)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func RequireAdmin(next http.Handler) http.Handler {
	return Require(access.CapabilityAdmin)(next)
}

func ExtractToken(r *http.Request, cookieName string) string {
	if authHeader := r.Header.Get("Authorization"); authHeader != "" {
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
			return ""
		}
		return strings.TrimSpace(parts[1])
	}

	if cookieName == "" {
		return ""
	}

	cookie, err := r.Cookie(cookieName)
	if err != nil {
		return ""
	}

	return strings.TrimSpace(cookie.Value)
}

func handleAuthError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, core.ErrTokenExpired):
		core.JSONError(w, core.TokenExpiredError())
	case errors.Is(err, core.ErrTokenRevoked):
		core.JSONError(w, core.TokenRevokedError())
	case errors.Is(err, core.ErrTokenInvalid),
		errors.Is(err, core.ErrUnauthorized):
		core.JSONError(w, core.TokenInvalidError())
	default:
		core.InternalServerError(w, err)
	}
}

func GetIdentity(ctx context.Context) *access.Identity {
	return access.IdentityFromContext(ctx)
}

func GetUserID(ctx context.Context) string {
	if identity := access.IdentityFromContext(ctx); identity != nil {
		return identity.UserID
	}
	return ""
}

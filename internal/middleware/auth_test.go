// AngelaMos | 2026
// auth_test.go

package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carterperez-dev/templates/admin-dashboard/internal/access"
	"github.com/carterperez-dev/templates/admin-dashboard/internal/core"
)

type stubVerifier struct {
	identities map[string]*access.Identity
	errs       map[string]error
}

func (s *stubVerifier) Resolve(
	_ context.Context,
	token string,
) (*access.Identity, error) {
	if err, ok := s.errs[token]; ok {
		return nil, err
	}
	if id, ok := s.identities[token]; ok {
		return id, nil
	}
	return nil, core.ErrTokenInvalid
}

func newTestRouter() http.Handler {
	verifier := &stubVerifier{
		identities: map[string]*access.Identity{
			"admin-token": {UserID: "a1", Role: access.RoleAdmin},
			"user-token":  {UserID: "u1", Role: access.RoleUser},
		},
		errs: map[string]error{
			"expired-token": core.ErrTokenExpired,
			"revoked-token": core.ErrTokenRevoked,
		},
	}

	r := chi.NewRouter()
	r.Group(func(r chi.Router) {
		r.Use(Authenticator(verifier, "jwt"))
		r.Get("/profile", func(w http.ResponseWriter, r *http.Request) {
			core.OK(w, map[string]string{"id": GetUserID(r.Context())})
		})
		r.With(RequireAdmin).Get("/users", func(w http.ResponseWriter, _ *http.Request) {
			core.OK(w, []string{})
		})
	})
	return r
}

func doRequest(
	t *testing.T,
	h http.Handler,
	path string,
	mutate func(*http.Request),
) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if mutate != nil {
		mutate(req)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func bearer(token string) func(*http.Request) {
	return func(r *http.Request) {
		r.Header.Set("Authorization", "Bearer "+token)
	}
}

func TestAuthenticator_RejectsBadProofsIdentically(t *testing.T) {
	h := newTestRouter()

	cases := map[string]func(*http.Request){
		"missing":   nil,
		"malformed": bearer("garbage"),
		"expired":   bearer("expired-token"),
		"revoked":   bearer("revoked-token"),
		"wrong scheme": func(r *http.Request) {
			r.Header.Set("Authorization", "Basic dXNlcjpwYXNz")
		},
	}

	var first string
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			rec := doRequest(t, h, "/profile", mutate)
			assert.Equal(t, http.StatusUnauthorized, rec.Code)

			var body core.Response
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			require.NotNil(t, body.Error)
			assert.Equal(t, core.CodeUnauthenticated, body.Error.Code)

			if first == "" {
				first = rec.Body.String()
			}
			assert.Equal(t, first, rec.Body.String())
		})
	}
}

func TestAuthenticator_AcceptsBearerAndCookie(t *testing.T) {
	h := newTestRouter()

	rec := doRequest(t, h, "/profile", bearer("user-token"))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "u1")

	rec = doRequest(t, h, "/profile", func(r *http.Request) {
		r.AddCookie(&http.Cookie{Name: "jwt", Value: "admin-token"})
	})
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "a1")
}

func TestRequireAdmin(t *testing.T) {
	h := newTestRouter()

	rec := doRequest(t, h, "/users", bearer("user-token"))
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Contains(t, rec.Body.String(), core.CodeForbidden)

	rec = doRequest(t, h, "/users", bearer("admin-token"))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = doRequest(t, h, "/users", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequire_WithoutAuthenticatorIsUnauthenticated(t *testing.T) {
	h := Require(access.CapabilityAuthenticated)(
		http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusOK)
		}),
	)

	rec := doRequest(t, h, "/", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthenticator_StorageFailureIsInternal(t *testing.T) {
	verifier := &stubVerifier{
		errs: map[string]error{"tok": errors.New("redis: connection refused")},
	}
	h := Authenticator(verifier, "jwt")(
		http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusOK)
		}),
	)

	rec := doRequest(t, h, "/", bearer("tok"))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "redis")
}

func TestExtractToken_HeaderTakesPrecedence(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "bearer  header-token ")
	req.AddCookie(&http.Cookie{Name: "jwt", Value: "cookie-token"})

	assert.Equal(t, "header-token", ExtractToken(req, "jwt"))

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: "jwt", Value: "cookie-token"})
	assert.Equal(t, "cookie-token", ExtractToken(req, "jwt"))
	assert.Empty(t, ExtractToken(req, ""))
}

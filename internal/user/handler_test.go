// AngelaMos | 2026
// handler_test.go

package user

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carterperez-dev/templates/admin-dashboard/internal/access"
	"github.com/carterperez-dev/templates/admin-dashboard/internal/core"
	"github.com/carterperez-dev/templates/admin-dashboard/internal/middleware"
)

type tokenTable map[string]*access.Identity

func (t tokenTable) Resolve(_ context.Context, token string) (*access.Identity, error) {
	if id, ok := t[token]; ok {
		return id, nil
	}
	return nil, core.ErrTokenInvalid
}

type apiEnvelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *core.ErrorBody `json:"error"`
	Meta    *core.Meta      `json:"meta"`
}

func newUserAPI(t *testing.T) (http.Handler, *Service, tokenTable) {
	t.Helper()
	svc, _ := newTestService(t, true)
	tokens := tokenTable{}

	r := chi.NewRouter()
	r.Route("/api", func(r chi.Router) {
		NewHandler(svc).RegisterRoutes(r, middleware.Authenticator(tokens, "jwt"))
	})
	return r, svc, tokens
}

func call(
	t *testing.T,
	h http.Handler,
	method, path, token, body string,
) (*httptest.ResponseRecorder, apiEnvelope) {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	var env apiEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	return rec, env
}

const registerBody = `{
	"firstName": "Grace", "lastName": "Hopper", "email": "grace@navy.mil",
	"phone": "5550199", "address": "1 Harbor Rd", "city": "Arlington",
	"postalCode": "222,01", "password": "cobol-rules"
}`

func TestHandler_RegisterReturnsProfileWithoutPassword(t *testing.T) {
	h, _, _ := newUserAPI(t)

	rec, env := call(t, h, http.MethodPost, "/api/users", "", registerBody)
	require.Equal(t, http.StatusCreated, rec.Code)

	var profile ProfileResponse
	require.NoError(t, json.Unmarshal(env.Data, &profile))
	assert.Equal(t, "Grace Hopper", profile.FullName)
	assert.Equal(t, "22201", profile.PostalCode)
	assert.Equal(t, 30, profile.AccessLevel)
	assert.False(t, profile.IsAdmin)
	assert.NotContains(t, rec.Body.String(), "cobol-rules")
	assert.NotContains(t, rec.Body.String(), "password")
}

func TestHandler_RegisterConflictNamesField(t *testing.T) {
	h, _, _ := newUserAPI(t)

	rec, _ := call(t, h, http.MethodPost, "/api/users", "", registerBody)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec, env := call(t, h, http.MethodPost, "/api/users", "", registerBody)
	assert.Equal(t, http.StatusConflict, rec.Code)
	require.NotNil(t, env.Error)
	assert.Equal(t, "email already exists", env.Error.Message)
}

func TestHandler_RegisterValidation(t *testing.T) {
	h, _, _ := newUserAPI(t)

	rec, env := call(t, h, http.MethodPost, "/api/users", "", `{"email":"x@y.z","password":"short"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	require.NotNil(t, env.Error)
	assert.Equal(t, core.CodeValidation, env.Error.Code)
}

func TestHandler_ProfileRequiresProof(t *testing.T) {
	h, _, _ := newUserAPI(t)

	rec, env := call(t, h, http.MethodGet, "/api/users/profile", "", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, core.CodeUnauthenticated, env.Error.Code)
}

func TestHandler_ProfileRoundTrip(t *testing.T) {
	h, svc, tokens := newUserAPI(t)

	u, err := svc.Create(context.Background(), validRegistration())
	require.NoError(t, err)
	tokens["tok"] = &access.Identity{UserID: u.ID, Role: u.Role}

	rec, env := call(t, h, http.MethodGet, "/api/users/profile", "tok", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var profile ProfileResponse
	require.NoError(t, json.Unmarshal(env.Data, &profile))
	assert.Equal(t, u.ID, profile.ID)

	rec, env = call(t, h, http.MethodPut, "/api/users/profile", "tok", `{"lastName":"Murray"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(env.Data, &profile))
	assert.Equal(t, "Grace Murray", profile.FullName)

	rec, env = call(t, h, http.MethodPut, "/api/users/profile/image", "tok", `{"profileImage":"/img/g.png"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(env.Data, &profile))
	require.NotNil(t, profile.ProfileImage)
	assert.Equal(t, "/img/g.png", *profile.ProfileImage)
}

func TestHandler_ListUsersIsAdminOnly(t *testing.T) {
	h, svc, tokens := newUserAPI(t)

	u, err := svc.Create(context.Background(), validRegistration())
	require.NoError(t, err)
	tokens["user"] = &access.Identity{UserID: u.ID, Role: access.RoleUser}
	tokens["admin"] = &access.Identity{UserID: "admin-1", Role: access.RoleAdmin}

	rec, env := call(t, h, http.MethodGet, "/api/users", "user", "")
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, core.CodeForbidden, env.Error.Code)

	rec, _ = call(t, h, http.MethodGet, "/api/users", "", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec, env = call(t, h, http.MethodGet, "/api/users?page=1&page_size=10", "admin", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, env.Meta)
	assert.Equal(t, 1, env.Meta.Total)

	var list []ProfileResponse
	require.NoError(t, json.Unmarshal(env.Data, &list))
	require.Len(t, list, 1)
	assert.Equal(t, u.Email, list[0].Email)

	rec, _ = call(t, h, http.MethodGet, "/api/users?role=root", "admin", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

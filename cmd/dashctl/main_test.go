// AngelaMos | 2026
// main_test.go

package main

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carterperez-dev/templates/admin-dashboard/internal/auth"
	"github.com/carterperez-dev/templates/admin-dashboard/internal/core"
)

func fakeServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/users/auth", func(w http.ResponseWriter, _ *http.Request) {
		core.OK(w, auth.AuthResponse{
			Token:     "tok",
			TokenType: "Bearer",
			ExpiresAt: time.Now().Add(time.Hour),
			User: auth.UserSummary{
				ID: "u1", FullName: "Ada Lovelace", Email: "ada@example.com",
				Role: "admin", AccessLevel: 10, IsAdmin: true,
			},
		})
	})
	mux.HandleFunc("POST /api/users/logout", func(w http.ResponseWriter, _ *http.Request) {
		core.OK(w, auth.LogoutResponse{Message: "logged out successfully"})
	})
	mux.HandleFunc("GET /api/users", func(w http.ResponseWriter, _ *http.Request) {
		core.JSONError(w, core.UnauthorizedError(""))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func runCLI(t *testing.T, server, state string, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd(&app{})
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append([]string{"--server", server, "--state", state}, args...))
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestDashctl_SessionPersistsBetweenRuns(t *testing.T) {
	srv := fakeServer(t)
	state := filepath.Join(t.TempDir(), "session.db")

	out, err := runCLI(t, srv.URL, state, "whoami")
	require.NoError(t, err)
	assert.Contains(t, out, "not logged in")

	out, err = runCLI(t, srv.URL, state, "login", "--email", "ada@example.com", "--password", "pw")
	require.NoError(t, err)
	assert.Contains(t, out, "logged in as Ada Lovelace")

	out, err = runCLI(t, srv.URL, state, "whoami")
	require.NoError(t, err)
	assert.Contains(t, out, "admin: true")

	out, err = runCLI(t, srv.URL, state, "logout")
	require.NoError(t, err)
	assert.Contains(t, out, "logged out")

	out, err = runCLI(t, srv.URL, state, "whoami")
	require.NoError(t, err)
	assert.Contains(t, out, "not logged in")
}

func TestDashctl_RejectedProofLogsOut(t *testing.T) {
	srv := fakeServer(t)
	state := filepath.Join(t.TempDir(), "session.db")

	_, err := runCLI(t, srv.URL, state, "login", "--email", "ada@example.com", "--password", "pw")
	require.NoError(t, err)

	_, err = runCLI(t, srv.URL, state, "users", "list")
	require.Error(t, err)

	out, err := runCLI(t, srv.URL, state, "whoami")
	require.NoError(t, err)
	assert.Contains(t, out, "not logged in")
}

func TestDashctl_UnknownRoleFilter(t *testing.T) {
	srv := fakeServer(t)
	state := filepath.Join(t.TempDir(), "session.db")

	_, err := runCLI(t, srv.URL, state, "users", "list", "--role", "root")
	assert.ErrorContains(t, err, "unknown role")
}

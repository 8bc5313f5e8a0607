// AngelaMos | 2026
// service_test.go

package auth

import (
	"context"
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/carterperez-dev/templates/admin-dashboard/internal/access"
	"github.com/carterperez-dev/templates/admin-dashboard/internal/config"
	"github.com/carterperez-dev/templates/admin-dashboard/internal/core"
)

type fakeUsers struct {
	mu          sync.Mutex
	byEmail     map[string]*UserInfo
	updated     map[string]string
	updateErr   error
	lookupErr   error
	lookupCalls int
}

func newFakeUsers() *fakeUsers {
	return &fakeUsers{
		byEmail: make(map[string]*UserInfo),
		updated: make(map[string]string),
	}
}

func (f *fakeUsers) GetByEmail(_ context.Context, email string) (*UserInfo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lookupCalls++
	if f.lookupErr != nil {
		return nil, f.lookupErr
	}
	u, ok := f.byEmail[strings.ToLower(email)]
	if !ok {
		return nil, core.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (f *fakeUsers) UpdatePassword(_ context.Context, userID, hash string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.updateErr != nil {
		return f.updateErr
	}
	f.updated[userID] = hash
	return nil
}

type memoryRevocations struct {
	mu      sync.Mutex
	revoked map[string]time.Duration
	err     error
}

func newMemoryRevocations() *memoryRevocations {
	return &memoryRevocations{revoked: make(map[string]time.Duration)}
}

func (m *memoryRevocations) Revoke(_ context.Context, id string, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	if ttl > 0 {
		m.revoked[id] = ttl
	}
	return nil
}

func (m *memoryRevocations) IsRevoked(_ context.Context, id string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return false, m.err
	}
	_, ok := m.revoked[id]
	return ok, nil
}

type countingRecorder struct {
	mu       sync.Mutex
	outcomes map[string]int
	logouts  int
}

func (c *countingRecorder) LoginAttempt(outcome string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.outcomes == nil {
		c.outcomes = make(map[string]int)
	}
	c.outcomes[outcome]++
}

func (c *countingRecorder) Logout() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.logouts++
}

var testJWTConfig = config.JWTConfig{
	AccessTokenExpire: 24 * time.Hour,
	Issuer:            "admin-dashboard-test",
	Audience:          "admin-dashboard-test-api",
}

func newTestJWT(t *testing.T, cfg config.JWTConfig) *JWTManager {
	t.Helper()
	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	require.NoError(t, err)
	m, err := NewJWTManagerFromKey(key, cfg)
	require.NoError(t, err)
	return m
}

type fixture struct {
	svc         *Service
	users       *fakeUsers
	revocations *memoryRevocations
	recorder    *countingRecorder
	hasher      *core.PasswordHasher
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	hasher, err := core.NewPasswordHasher(bcrypt.MinCost)
	require.NoError(t, err)

	f := &fixture{
		users:       newFakeUsers(),
		revocations: newMemoryRevocations(),
		recorder:    &countingRecorder{},
		hasher:      hasher,
	}
	f.svc = NewService(
		newTestJWT(t, testJWTConfig),
		hasher,
		f.users,
		f.revocations,
		WithRecorder(f.recorder),
	)
	return f
}

func (f *fixture) addUser(t *testing.T, id, email, password string, role access.Role) {
	t.Helper()
	hash, err := f.hasher.Hash(password)
	require.NoError(t, err)
	f.users.byEmail[email] = &UserInfo{
		ID:           id,
		FirstName:    "Test",
		LastName:     "User",
		Email:        email,
		PasswordHash: hash,
		Role:         role,
	}
}

func TestAuthenticate_Success(t *testing.T) {
	f := newFixture(t)
	f.addUser(t, "u1", "a@x.io", "password123", access.RoleUser)

	resp, err := f.svc.Authenticate(
		context.Background(),
		LoginRequest{Email: "a@x.io", Password: "password123"},
		"127.0.0.1",
	)
	require.NoError(t, err)

	assert.NotEmpty(t, resp.Token)
	assert.Equal(t, "Bearer", resp.TokenType)
	assert.Equal(t, "u1", resp.User.ID)
	assert.Equal(t, "Test User", resp.User.FullName)
	assert.Equal(t, 30, resp.User.AccessLevel)
	assert.False(t, resp.User.IsAdmin)
	assert.WithinDuration(t, time.Now().Add(24*time.Hour), resp.ExpiresAt, time.Minute)

	identity, err := f.svc.Resolve(context.Background(), resp.Token)
	require.NoError(t, err)
	assert.Equal(t, "u1", identity.UserID)
	assert.Equal(t, access.RoleUser, identity.Role)
	assert.NotEmpty(t, identity.TokenID)
	assert.Equal(t, 1, f.recorder.outcomes[outcomeSuccess])
}

func TestAuthenticate_FailuresAreIndistinguishable(t *testing.T) {
	f := newFixture(t)
	f.addUser(t, "u1", "a@x.io", "password123", access.RoleUser)
	ctx := context.Background()

	_, unknownErr := f.svc.Authenticate(ctx, LoginRequest{
		Email: "nobody@x.io", Password: "password123",
	}, "")
	_, mismatchErr := f.svc.Authenticate(ctx, LoginRequest{
		Email: "a@x.io", Password: "wrong-password",
	}, "")

	require.ErrorIs(t, unknownErr, ErrInvalidCredentials)
	require.ErrorIs(t, mismatchErr, ErrInvalidCredentials)
	assert.Equal(t, unknownErr, mismatchErr)
	assert.Equal(t, unknownErr.Error(), mismatchErr.Error())

	assert.Equal(t, 1, f.recorder.outcomes[outcomeUnknownEmail])
	assert.Equal(t, 1, f.recorder.outcomes[outcomePasswordMismatch])
}

func TestAuthenticate_LookupFailureIsNotInvalidCredentials(t *testing.T) {
	f := newFixture(t)
	f.users.lookupErr = errors.New("connection reset")

	_, err := f.svc.Authenticate(context.Background(), LoginRequest{
		Email: "a@x.io", Password: "password123",
	}, "")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrInvalidCredentials)
}

func TestAuthenticate_RehashesWeakerHash(t *testing.T) {
	f := newFixture(t)
	f.addUser(t, "u1", "a@x.io", "password123", access.RoleUser)

	stronger, err := core.NewPasswordHasher(bcrypt.MinCost + 1)
	require.NoError(t, err)
	svc := NewService(f.svc.jwt, stronger, f.users, f.revocations)

	_, err = svc.Authenticate(context.Background(), LoginRequest{
		Email: "a@x.io", Password: "password123",
	}, "")
	require.NoError(t, err)

	newHash, ok := f.users.updated["u1"]
	require.True(t, ok)
	cost, err := bcrypt.Cost([]byte(newHash))
	require.NoError(t, err)
	assert.Equal(t, bcrypt.MinCost+1, cost)
}

func TestAuthenticate_RehashFailureDoesNotBlockLogin(t *testing.T) {
	f := newFixture(t)
	f.addUser(t, "u1", "a@x.io", "password123", access.RoleUser)
	f.users.updateErr = errors.New("write failed")

	stronger, err := core.NewPasswordHasher(bcrypt.MinCost + 1)
	require.NoError(t, err)
	svc := NewService(f.svc.jwt, stronger, f.users, f.revocations)

	resp, err := svc.Authenticate(context.Background(), LoginRequest{
		Email: "a@x.io", Password: "password123",
	}, "")
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Token)
}

func TestResolve_RejectsTamperedAndForeignProofs(t *testing.T) {
	f := newFixture(t)
	f.addUser(t, "u1", "a@x.io", "password123", access.RoleUser)
	ctx := context.Background()

	resp, err := f.svc.Authenticate(ctx, LoginRequest{
		Email: "a@x.io", Password: "password123",
	}, "")
	require.NoError(t, err)

	parts := strings.Split(resp.Token, ".")
	require.Len(t, parts, 3)
	tampered := parts[0] + "." + parts[1] + "x." + parts[2]

	_, err = f.svc.Resolve(ctx, tampered)
	assert.ErrorIs(t, err, core.ErrTokenInvalid)

	_, err = f.svc.Resolve(ctx, "not-a-token")
	assert.ErrorIs(t, err, core.ErrTokenInvalid)

	foreign, err := newTestJWT(t, testJWTConfig).CreateAccessToken("u1", access.RoleAdmin)
	require.NoError(t, err)
	_, err = f.svc.Resolve(ctx, foreign.Token)
	assert.ErrorIs(t, err, core.ErrTokenInvalid)
}

func TestResolve_RejectsWrongAudience(t *testing.T) {
	f := newFixture(t)

	cfg := testJWTConfig
	cfg.Audience = "someone-else"
	other, err := NewJWTManagerFromKey(mustKey(t), cfg)
	require.NoError(t, err)
	issued, err := other.CreateAccessToken("u1", access.RoleUser)
	require.NoError(t, err)

	_, err = f.svc.Resolve(context.Background(), issued.Token)
	assert.Error(t, err)
}

func TestResolve_RejectsExpiredProof(t *testing.T) {
	cfg := testJWTConfig
	cfg.AccessTokenExpire = -time.Hour
	m := newTestJWT(t, cfg)

	issued, err := m.CreateAccessToken("u1", access.RoleUser)
	require.NoError(t, err)

	_, err = m.VerifyAccessToken(issued.Token)
	require.ErrorIs(t, err, core.ErrTokenExpired)
	assert.NotErrorIs(t, err, core.ErrTokenInvalid)
}

func TestLogout_RevokesOnlyThatProof(t *testing.T) {
	f := newFixture(t)
	f.addUser(t, "u1", "a@x.io", "password123", access.RoleUser)
	ctx := context.Background()
	req := LoginRequest{Email: "a@x.io", Password: "password123"}

	first, err := f.svc.Authenticate(ctx, req, "")
	require.NoError(t, err)
	second, err := f.svc.Authenticate(ctx, req, "")
	require.NoError(t, err)

	identity, err := f.svc.Resolve(ctx, first.Token)
	require.NoError(t, err)
	require.NoError(t, f.svc.Logout(ctx, identity))

	_, err = f.svc.Resolve(ctx, first.Token)
	assert.ErrorIs(t, err, core.ErrTokenRevoked)

	_, err = f.svc.Resolve(ctx, second.Token)
	assert.NoError(t, err)

	ttl := f.revocations.revoked[identity.TokenID]
	assert.Greater(t, ttl, 23*time.Hour)
	assert.Equal(t, 1, f.recorder.logouts)
}

func TestLogout_WithoutIdentity(t *testing.T) {
	f := newFixture(t)
	err := f.svc.Logout(context.Background(), nil)
	assert.ErrorIs(t, err, core.ErrUnauthorized)
}

func TestResolve_StorageFailureIsNotAuthFailure(t *testing.T) {
	f := newFixture(t)
	f.addUser(t, "u1", "a@x.io", "password123", access.RoleUser)
	ctx := context.Background()

	resp, err := f.svc.Authenticate(ctx, LoginRequest{
		Email: "a@x.io", Password: "password123",
	}, "")
	require.NoError(t, err)

	f.revocations.err = core.ErrStorage
	_, err = f.svc.Resolve(ctx, resp.Token)
	require.ErrorIs(t, err, core.ErrStorage)
	assert.NotErrorIs(t, err, core.ErrTokenInvalid)
}

func TestRoleGating_UserAndAdmin(t *testing.T) {
	f := newFixture(t)
	f.addUser(t, "a", "user@x.io", "password123", access.RoleUser)
	f.addUser(t, "b", "admin@x.io", "password123", access.RoleAdmin)
	ctx := context.Background()

	userResp, err := f.svc.Authenticate(ctx, LoginRequest{
		Email: "user@x.io", Password: "password123",
	}, "")
	require.NoError(t, err)
	adminResp, err := f.svc.Authenticate(ctx, LoginRequest{
		Email: "admin@x.io", Password: "password123",
	}, "")
	require.NoError(t, err)
	assert.True(t, adminResp.User.IsAdmin)

	userID, err := f.svc.Resolve(ctx, userResp.Token)
	require.NoError(t, err)
	adminID, err := f.svc.Resolve(ctx, adminResp.Token)
	require.NoError(t, err)

	assert.ErrorIs(t, access.Authorize(userID, access.CapabilityAdmin), access.ErrForbidden)
	assert.NoError(t, access.Authorize(userID, access.CapabilityAuthenticated))
	assert.NoError(t, access.Authorize(adminID, access.CapabilityAdmin))
}

func mustKey(t *testing.T) *ecdsa.PrivateKey {
	t.Helper()
	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	require.NoError(t, err)
	return key
}

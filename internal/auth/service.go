// AngelaMos | 2026
// service.go

package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/carterperez-dev/templates/admin-dashboard/internal/access"
	"github.com/carterperez-dev/templates/admin-dashboard/internal/core"
)

var ErrInvalidCredentials = core.ErrInvalidCreds

type UserProvider interface {
	GetByEmail(ctx context.Context, email string) (*UserInfo, error)
	UpdatePassword(ctx context.Context, userID, passwordHash string) error
}

// Recorder receives authentication outcomes for metrics.
type Recorder interface {
	LoginAttempt(outcome string)
	Logout()
}

type nopRecorder struct{}

func (nopRecorder) LoginAttempt(string) {}
func (nopRecorder) Logout()             {}

const (
	outcomeSuccess          = "success"
	outcomeUnknownEmail     = "unknown_email"
	outcomePasswordMismatch = "password_mismatch"
	outcomeError            = "error"
)

type Service struct {
	jwt          *JWTManager
	hasher       *core.PasswordHasher
	userProvider UserProvider
	revocations  RevocationStore
	recorder     Recorder
	logger       *slog.Logger
}

type ServiceOption func(*Service)

func WithRecorder(r Recorder) ServiceOption {
	return func(s *Service) {
		if r != nil {
			s.recorder = r
		}
	}
}

func WithLogger(l *slog.Logger) ServiceOption {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

func NewService(
	jwt *JWTManager,
	hasher *core.PasswordHasher,
	userProvider UserProvider,
	revocations RevocationStore,
	opts ...ServiceOption,
) *Service {
	s := &Service{
		jwt:          jwt,
		hasher:       hasher,
		userProvider: userProvider,
		revocations:  revocations,
		recorder:     nopRecorder{},
		logger:       slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Authenticate exchanges an email and password for a session proof. Unknown
// emails and wrong passwords fail with the same error after the same amount
// of bcrypt work.
func (s *Service) Authenticate(
	ctx context.Context,
	req LoginRequest,
	clientIP string,
) (*AuthResponse, error) {
	ctx, span := core.StartSpan(ctx, "auth.Authenticate")
	defer span.End()

	user, err := s.userProvider.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			//nolint:errcheck // only the elapsed time matters here
			_, _, _ = s.hasher.VerifyTimingSafe(req.Password, nil)
			s.rejectLogin(ctx, outcomeUnknownEmail, clientIP)
			return nil, ErrInvalidCredentials
		}
		s.recorder.LoginAttempt(outcomeError)
		core.SetSpanError(ctx, err)
		return nil, fmt.Errorf("get user: %w", err)
	}

	valid, newHash, err := s.hasher.VerifyTimingSafe(
		req.Password,
		&user.PasswordHash,
	)
	if err != nil {
		s.recorder.LoginAttempt(outcomeError)
		core.SetSpanError(ctx, err)
		return nil, fmt.Errorf("verify password: %w", err)
	}

	if !valid {
		s.rejectLogin(ctx, outcomePasswordMismatch, clientIP)
		return nil, ErrInvalidCredentials
	}

	if newHash != "" {
		if err := s.userProvider.UpdatePassword(ctx, user.ID, newHash); err != nil {
			s.logger.WarnContext(ctx, "password rehash failed",
				"user_id", user.ID,
				"error", err,
			)
		}
	}

	issued, err := s.jwt.CreateAccessToken(user.ID, user.Role)
	if err != nil {
		s.recorder.LoginAttempt(outcomeError)
		core.SetSpanError(ctx, err)
		return nil, fmt.Errorf("create access token: %w", err)
	}

	s.recorder.LoginAttempt(outcomeSuccess)
	core.AddSpanEvent(ctx, "login.success",
		attribute.String("user.id", user.ID),
		attribute.String("user.role", user.Role.String()),
	)
	s.logger.InfoContext(ctx, "login succeeded",
		"user_id", user.ID,
		"role", user.Role.String(),
		"client_ip", clientIP,
	)

	return &AuthResponse{
		Token:     issued.Token,
		TokenType: "Bearer",
		ExpiresIn: int(issued.TTL().Round(time.Second) / time.Second),
		ExpiresAt: issued.ExpiresAt,
		User:      ToUserSummary(user),
	}, nil
}

// rejectLogin records why a login failed. The reason stays in operator logs
// at debug level and never reaches the client.
func (s *Service) rejectLogin(ctx context.Context, reason, clientIP string) {
	s.recorder.LoginAttempt(reason)
	core.AddSpanEvent(ctx, "login.rejected",
		attribute.String("reason", reason),
	)
	s.logger.DebugContext(ctx, "login rejected",
		"reason", reason,
		"client_ip", clientIP,
	)
}

// Resolve turns a raw proof into an identity: cryptographic checks first,
// then the denylist. It never touches the user table.
func (s *Service) Resolve(
	ctx context.Context,
	token string,
) (*access.Identity, error) {
	identity, err := s.jwt.VerifyAccessToken(token)
	if err != nil {
		return nil, err
	}

	revoked, err := s.revocations.IsRevoked(ctx, identity.TokenID)
	if err != nil {
		return nil, fmt.Errorf("resolve session: %w", err)
	}
	if revoked {
		return nil, fmt.Errorf("resolve session: %w", core.ErrTokenRevoked)
	}

	return identity, nil
}

// Logout denylists the caller's proof until it would have expired.
func (s *Service) Logout(ctx context.Context, identity *access.Identity) error {
	if identity == nil || identity.TokenID == "" {
		return fmt.Errorf("logout: %w", core.ErrUnauthorized)
	}

	ttl := time.Until(identity.ExpiresAt)
	if err := s.revocations.Revoke(ctx, identity.TokenID, ttl); err != nil {
		return fmt.Errorf("logout: %w", err)
	}

	s.recorder.Logout()
	core.AddSpanEvent(ctx, "logout",
		attribute.String("user.id", identity.UserID),
	)

	return nil
}

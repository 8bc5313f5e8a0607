// AngelaMos | 2026
// service.go

package user

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/carterperez-dev/templates/admin-dashboard/internal/access"
	"github.com/carterperez-dev/templates/admin-dashboard/internal/auth"
	"github.com/carterperez-dev/templates/admin-dashboard/internal/core"
)

type ServiceConfig struct {
	AllowPrivilegedSignup bool
}

// Service is the credential store: the only place user records are
// created or mutated, and the only place passwords are hashed.
type Service struct {
	repo   Repository
	hasher *core.PasswordHasher
	cfg    ServiceConfig
}

func NewService(
	repo Repository,
	hasher *core.PasswordHasher,
	cfg ServiceConfig,
) *Service {
	return &Service{repo: repo, hasher: hasher, cfg: cfg}
}

func (s *Service) Create(
	ctx context.Context,
	req RegisterRequest,
) (*User, error) {
	postalCode, err := NormalizePostalCode(req.PostalCode)
	if err != nil {
		return nil, core.ValidationError("postalCode must contain characters other than commas")
	}

	role, err := access.ResolveRole(req.AccessLevel, req.IsAdmin)
	if err != nil {
		return nil, core.ValidationError(err.Error())
	}

	if role != access.RoleUser && !s.cfg.AllowPrivilegedSignup {
		return nil, fmt.Errorf("create user: %w: %w", core.ErrForbidden, ErrPrivilegedSignupDeny)
	}

	hash, err := s.hashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	user := &User{
		ID:           uuid.New().String(),
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Email:        NormalizeEmail(req.Email),
		Phone:        req.Phone,
		Address:      req.Address,
		City:         req.City,
		PostalCode:   postalCode,
		PasswordHash: hash,
		Role:         role,
	}

	if err := s.repo.Create(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}

func (s *Service) FindByCredential(
	ctx context.Context,
	email string,
) (*User, error) {
	return s.repo.GetByEmail(ctx, NormalizeEmail(email))
}

func (s *Service) GetProfile(ctx context.Context, userID string) (*User, error) {
	if userID == "" {
		return nil, fmt.Errorf("get profile: %w", core.ErrUnauthorized)
	}
	return s.repo.GetByID(ctx, userID)
}

// UpdateProfile applies a partial update. The password is re-hashed only
// when a new one is supplied.
func (s *Service) UpdateProfile(
	ctx context.Context,
	userID string,
	req UpdateProfileRequest,
) (*User, error) {
	user, err := s.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}

	if req.FirstName != nil {
		user.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		user.LastName = *req.LastName
	}
	if req.Email != nil {
		user.Email = NormalizeEmail(*req.Email)
	}
	if req.Phone != nil {
		user.Phone = *req.Phone
	}
	if req.Address != nil {
		user.Address = *req.Address
	}
	if req.City != nil {
		user.City = *req.City
	}
	if req.PostalCode != nil {
		postalCode, normErr := NormalizePostalCode(*req.PostalCode)
		if normErr != nil {
			return nil, core.ValidationError("postalCode must contain characters other than commas")
		}
		user.PostalCode = postalCode
	}

	if req.Password != nil {
		hash, hashErr := s.hashPassword(*req.Password)
		if hashErr != nil {
			return nil, hashErr
		}
		user.PasswordHash = hash
	}

	if err := s.repo.Update(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}

func (s *Service) UpdateProfileImage(
	ctx context.Context,
	userID, image string,
) (*User, error) {
	if userID == "" {
		return nil, fmt.Errorf("update profile image: %w", core.ErrUnauthorized)
	}

	if err := s.repo.UpdateProfileImage(ctx, userID, &image); err != nil {
		return nil, err
	}

	return s.repo.GetByID(ctx, userID)
}

func (s *Service) List(
	ctx context.Context,
	params ListUsersParams,
) ([]User, int, error) {
	return s.repo.List(ctx, params)
}

func (s *Service) CountByRole(ctx context.Context) (map[access.Role]int, error) {
	return s.repo.CountByRole(ctx)
}

// GetByEmail and UpdatePassword satisfy auth.UserProvider.

func (s *Service) GetByEmail(
	ctx context.Context,
	email string,
) (*auth.UserInfo, error) {
	user, err := s.FindByCredential(ctx, email)
	if err != nil {
		return nil, err
	}
	return toUserInfo(user), nil
}

func (s *Service) UpdatePassword(
	ctx context.Context,
	userID, passwordHash string,
) error {
	return s.repo.UpdatePassword(ctx, userID, passwordHash)
}

func (s *Service) hashPassword(password string) (string, error) {
	hash, err := s.hasher.Hash(password)
	if errors.Is(err, core.ErrPasswordTooLong) {
		return "", core.ValidationError("password must be at most 72 bytes")
	}
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return hash, nil
}

func toUserInfo(u *User) *auth.UserInfo {
	return &auth.UserInfo{
		ID:           u.ID,
		FirstName:    u.FirstName,
		LastName:     u.LastName,
		Email:        u.Email,
		PasswordHash: u.PasswordHash,
		Role:         u.Role,
		ProfileImage: u.ProfileImage,
	}
}

var _ auth.UserProvider = (*Service)(nil)

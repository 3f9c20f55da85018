package user

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Huzaifa-Afraz/swiftride-server/internal/apperr"
	"github.com/Huzaifa-Afraz/swiftride-server/internal/auth"
	"github.com/Huzaifa-Afraz/swiftride-server/internal/logger"
)

var (
	ErrUserNotFound = apperr.NotFound("user_not_found", "user not found")
	ErrEmailExists  = apperr.Conflict("email_exists", "email already registered")

	// ErrInvalidCredentials and ErrInvalidRefreshToken are authentication
	// failures; handlers answer them with 401.
	ErrInvalidCredentials  = errors.New("invalid email or password")
	ErrInvalidRefreshToken = errors.New("invalid or expired refresh token")
)

type Service interface {
	Register(ctx context.Context, req RegisterRequest) (*User, string, string, error)
	Login(ctx context.Context, req LoginRequest) (*User, string, string, error)
	GetByID(ctx context.Context, userID int) (*User, error)
	RefreshToken(ctx context.Context, refreshToken string) (string, *User, error)
	SetKYCApproved(ctx context.Context, userID int, approved bool) (*User, error)
}

type service struct {
	repo      Repository
	jwtSecret string
}

func NewService(repo Repository, jwtSecret string) Service {
	return &service{
		repo:      repo,
		jwtSecret: jwtSecret,
	}
}

func (s *service) Register(ctx context.Context, req RegisterRequest) (*User, string, string, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	exists, err := s.repo.EmailExists(ctx, email)
	if err != nil {
		return nil, "", "", fmt.Errorf("check email: %w", err)
	}
	if exists {
		return nil, "", "", ErrEmailExists
	}

	role := req.Role
	if role == "" {
		role = RoleCustomer
	}

	passwordHash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, "", "", err
	}

	u, err := s.repo.Create(ctx, strings.TrimSpace(req.Name), email, passwordHash, role)
	if err != nil {
		return nil, "", "", fmt.Errorf("create user: %w", err)
	}

	accessToken, refreshToken, err := auth.GenerateTokens(identity(u), s.jwtSecret)
	if err != nil {
		return nil, "", "", err
	}

	logger.Info("user registered", "user_id", u.ID, "role", u.Role)
	return u, accessToken, refreshToken, nil
}

func (s *service) Login(ctx context.Context, req LoginRequest) (*User, string, string, error) {
	u, err := s.repo.FindByEmail(ctx, strings.ToLower(strings.TrimSpace(req.Email)))
	if err != nil {
		return nil, "", "", ErrInvalidCredentials
	}

	if !auth.CheckPassword(u.PasswordHash, req.Password) {
		return nil, "", "", ErrInvalidCredentials
	}

	accessToken, refreshToken, err := auth.GenerateTokens(identity(u), s.jwtSecret)
	if err != nil {
		return nil, "", "", err
	}

	return u, accessToken, refreshToken, nil
}

func (s *service) GetByID(ctx context.Context, userID int) (*User, error) {
	return s.repo.FindByID(ctx, userID)
}

func (s *service) RefreshToken(ctx context.Context, refreshToken string) (string, *User, error) {
	id, err := auth.ParseRefreshToken(refreshToken, s.jwtSecret)
	if err != nil {
		return "", nil, ErrInvalidRefreshToken
	}

	// Reload so that role changes since issuance are reflected.
	u, err := s.repo.FindByID(ctx, id.UserID)
	if err != nil {
		return "", nil, err
	}

	accessToken, err := auth.GenerateAccessToken(identity(u), s.jwtSecret)
	if err != nil {
		return "", nil, err
	}

	return accessToken, u, nil
}

func (s *service) SetKYCApproved(ctx context.Context, userID int, approved bool) (*User, error) {
	u, err := s.repo.SetKYCApproved(ctx, userID, approved)
	if err != nil {
		return nil, err
	}
	logger.Info("kyc updated", "user_id", userID, "approved", approved)
	return u, nil
}

func identity(u *User) auth.Identity {
	return auth.Identity{UserID: u.ID, Email: u.Email, Role: u.Role}
}

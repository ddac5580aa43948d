package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/invstore/inventory-approval/internal/application/port"
	"github.com/invstore/inventory-approval/internal/domain/apperror"
	"github.com/invstore/inventory-approval/internal/domain/entity"
)

// SignupInput carries the fields of a signup request
type SignupInput struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

// AuthService is the identity provider consumed by the HTTP boundary: it
// issues opaque bearer tokens at signup/login and resolves a token back to
// a user (identity + role). The workflow engine never sees any of this.
type AuthService interface {
	Signup(ctx context.Context, input SignupInput) (*entity.User, string, error)
	Login(ctx context.Context, username, password string) (*entity.User, string, error)
	Authenticate(ctx context.Context, token string) (*entity.User, error)
}

type authServiceImpl struct {
	userRepo  port.UserRepository
	tokenRepo port.TokenRepository
	tokenTTL  time.Duration
	logger    Logger
}

// NewAuthService creates a new AuthService
func NewAuthService(userRepo port.UserRepository, tokenRepo port.TokenRepository, tokenTTL time.Duration, logger Logger) AuthService {
	if tokenTTL <= 0 {
		tokenTTL = 24 * time.Hour
	}
	return &authServiceImpl{
		userRepo:  userRepo,
		tokenRepo: tokenRepo,
		tokenTTL:  tokenTTL,
		logger:    logger,
	}
}

// Signup registers a user and issues a token
func (s *authServiceImpl) Signup(ctx context.Context, input SignupInput) (*entity.User, string, error) {
	username := strings.TrimSpace(input.Username)
	if username == "" {
		return nil, "", apperror.Validation("username is required")
	}
	if input.Password == "" {
		return nil, "", apperror.Validation("password is required")
	}

	if existing, err := s.userRepo.GetByUsername(ctx, username); err != nil {
		return nil, "", fmt.Errorf("check username: %w", err)
	} else if existing != nil {
		return nil, "", apperror.Conflict("username already exists")
	}
	email := strings.TrimSpace(input.Email)
	if email != "" {
		if existing, err := s.userRepo.GetByEmail(ctx, email); err != nil {
			return nil, "", fmt.Errorf("check email: %w", err)
		} else if existing != nil {
			return nil, "", apperror.Conflict("email already exists")
		}
	}

	user := &entity.User{
		Username:  username,
		Email:     email,
		Password:  input.Password,
		Role:      CanonicalRole(input.Role),
		CreatedAt: time.Now().UTC(),
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		s.logger.Error("Failed to create user", "username", username, "error", err)
		return nil, "", err
	}

	token, err := s.issueToken(ctx, user.ID)
	if err != nil {
		return nil, "", err
	}

	s.logger.Info("User signed up", "id", user.ID, "role", user.Role)
	return user, token, nil
}

// Login verifies credentials (username or email) and issues a token
func (s *authServiceImpl) Login(ctx context.Context, username, password string) (*entity.User, string, error) {
	if strings.TrimSpace(username) == "" || password == "" {
		return nil, "", fmt.Errorf("%w: missing credentials", apperror.ErrUnauthorized)
	}

	user, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return nil, "", fmt.Errorf("load user: %w", err)
	}
	if user == nil {
		user, err = s.userRepo.GetByEmail(ctx, username)
		if err != nil {
			return nil, "", fmt.Errorf("load user by email: %w", err)
		}
	}
	if user == nil || user.Password != password {
		return nil, "", fmt.Errorf("%w: invalid credentials", apperror.ErrUnauthorized)
	}

	token, err := s.issueToken(ctx, user.ID)
	if err != nil {
		return nil, "", err
	}

	s.logger.Info("User logged in", "id", user.ID)
	return user, token, nil
}

// Authenticate resolves a bearer token to its user
func (s *authServiceImpl) Authenticate(ctx context.Context, token string) (*entity.User, error) {
	if token == "" {
		return nil, fmt.Errorf("%w: missing token", apperror.ErrUnauthorized)
	}

	t, err := s.tokenRepo.GetByToken(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("load token: %w", err)
	}
	if t == nil {
		return nil, fmt.Errorf("%w: unknown token", apperror.ErrUnauthorized)
	}
	if time.Now().After(t.ExpiresAt) {
		return nil, fmt.Errorf("%w: token expired", apperror.ErrUnauthorized)
	}

	user, err := s.userRepo.GetByID(ctx, t.UserID)
	if err != nil {
		return nil, fmt.Errorf("load user: %w", err)
	}
	if user == nil {
		return nil, fmt.Errorf("%w: user no longer exists", apperror.ErrUnauthorized)
	}
	return user, nil
}

func (s *authServiceImpl) issueToken(ctx context.Context, userID int64) (string, error) {
	now := time.Now().UTC()
	token := &entity.APIToken{
		Token:     uuid.NewString(),
		UserID:    userID,
		CreatedAt: now,
		ExpiresAt: now.Add(s.tokenTTL),
	}
	if err := s.tokenRepo.Create(ctx, token); err != nil {
		s.logger.Error("Failed to issue token", "user_id", userID, "error", err)
		return "", err
	}
	return token.Token, nil
}

// CanonicalRole normalizes a requested role. Blank defaults to MAKER,
// legacy ADMIN maps to MANAGER, anything unrecognized falls back to MAKER.
func CanonicalRole(role string) string {
	switch strings.ToUpper(strings.TrimSpace(role)) {
	case entity.RoleMaker:
		return entity.RoleMaker
	case entity.RoleChecker:
		return entity.RoleChecker
	case entity.RoleManager, "ADMIN":
		return entity.RoleManager
	default:
		return entity.RoleMaker
	}
}

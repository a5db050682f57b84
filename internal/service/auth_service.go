package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/yourorg/roomreserve/internal/domain"
	"github.com/yourorg/roomreserve/internal/observability/metrics"
	"github.com/yourorg/roomreserve/internal/security/auth"
)

// TokenRevoker invalidates issued tokens until their natural expiry.
type TokenRevoker interface {
	Revoke(ctx context.Context, tokenID string, expiresAt time.Time) error
}

// AuthService handles registration, login and token lifecycle
type AuthService struct {
	userRepo     domain.UserRepository
	tokenManager *auth.TokenManager
	revoker      TokenRevoker
	tokenTTL     time.Duration
	logger       *slog.Logger
}

// NewAuthService creates a new authentication service
func NewAuthService(
	userRepo domain.UserRepository,
	tokenManager *auth.TokenManager,
	revoker TokenRevoker,
	tokenTTL time.Duration,
	logger *slog.Logger,
) *AuthService {
	if logger == nil {
		logger = slog.Default()
	}
	if tokenTTL <= 0 {
		tokenTTL = 30 * time.Minute
	}

	return &AuthService{
		userRepo:     userRepo,
		tokenManager: tokenManager,
		revoker:      revoker,
		tokenTTL:     tokenTTL,
		logger:       logger,
	}
}

// LoginResult represents a successful authentication response
type LoginResult struct {
	AccessToken string       `json:"access_token"`
	TokenType   string       `json:"token_type"`
	ExpiresIn   int          `json:"expires_in"` // seconds
	User        *domain.User `json:"user"`
}

// Register creates a new user account. New accounts always start with the
// regular user role; admins are promoted through the admin surface.
func (s *AuthService) Register(email, password, fullName string) (*domain.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	if email == "" || password == "" || fullName == "" {
		return nil, domain.Validationf("email, password, and full name are required")
	}
	if !strings.Contains(email, "@") {
		return nil, domain.Validationf("invalid email address")
	}
	if len(password) < 8 {
		return nil, domain.Validationf("password must be at least 8 characters")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		s.logger.Error("failed to hash password", slog.String("error", err.Error()))
		return nil, errors.New("failed to register user")
	}

	user := &domain.User{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: string(hash),
		FullName:     strings.TrimSpace(fullName),
		Role:         domain.RoleUser,
		IsActive:     true,
		CreatedAt:    time.Now().UTC(),
	}

	if err := s.userRepo.Create(user); err != nil {
		if errors.Is(err, domain.ErrConflict) {
			return nil, domain.Validationf("email already registered")
		}
		s.logger.Error("failed to create user", slog.String("error", err.Error()))
		return nil, errors.New("failed to register user")
	}

	s.logger.Info("user registered",
		slog.String("user_id", user.ID),
		slog.String("email", user.Email),
	)
	return user, nil
}

// Login authenticates a user and issues a JWT. Unknown email and wrong
// password return the same error so callers cannot probe which addresses
// have accounts.
func (s *AuthService) Login(email, password string) (*LoginResult, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	if email == "" || password == "" {
		return nil, domain.Validationf("email and password are required")
	}

	user, err := s.userRepo.GetByEmail(email)
	if err != nil {
		s.logger.Info("login attempt with unknown email", slog.String("email", email))
		metrics.ObserveAuthFailure("unknown_email")
		return nil, domain.ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		s.logger.Info("login failed, wrong password", slog.String("email", email))
		metrics.ObserveAuthFailure("bad_password")
		return nil, domain.ErrInvalidCredentials
	}

	if !user.IsActive {
		s.logger.Info("login attempt on inactive account", slog.String("email", email))
		metrics.ObserveAuthFailure("inactive_account")
		return nil, domain.ErrForbidden
	}

	token, err := s.tokenManager.GenerateToken(user.ID, user.Email, string(user.Role), s.tokenTTL)
	if err != nil {
		s.logger.Error("failed to sign token", slog.String("error", err.Error()))
		return nil, errors.New("failed to generate token")
	}

	s.logger.Info("user logged in",
		slog.String("user_id", user.ID),
		slog.String("email", user.Email),
	)

	return &LoginResult{
		AccessToken: token,
		TokenType:   "bearer",
		ExpiresIn:   int(s.tokenTTL.Seconds()),
		User:        user,
	}, nil
}

// CurrentUser resolves the account behind a set of verified claims.
func (s *AuthService) CurrentUser(userID string) (*domain.User, error) {
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return nil, err
	}
	if !user.IsActive {
		return nil, domain.ErrForbidden
	}
	return user, nil
}

// Logout revokes the presented token until it would have expired anyway.
func (s *AuthService) Logout(ctx context.Context, claims *auth.Claims) error {
	if claims == nil || claims.ID == "" {
		return domain.Validationf("token carries no id")
	}

	expiresAt := time.Now().Add(s.tokenTTL)
	if claims.ExpiresAt != nil {
		expiresAt = claims.ExpiresAt.Time
	}

	if err := s.revoker.Revoke(ctx, claims.ID, expiresAt); err != nil {
		s.logger.Error("failed to revoke token",
			slog.String("token_id", claims.ID),
			slog.String("error", err.Error()),
		)
		return errors.New("failed to log out")
	}

	s.logger.Info("token revoked",
		slog.String("user_id", claims.UserID),
		slog.String("token_id", claims.ID),
	)
	return nil
}

// ChangePassword rotates a user's password after verifying the old one.
func (s *AuthService) ChangePassword(userID, oldPassword, newPassword string) error {
	if len(newPassword) < 8 {
		return domain.Validationf("new password must be at least 8 characters")
	}

	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(oldPassword)); err != nil {
		return domain.ErrInvalidCredentials
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		s.logger.Error("failed to hash new password", slog.String("error", err.Error()))
		return errors.New("failed to change password")
	}

	user.PasswordHash = string(hash)
	if err := s.userRepo.Update(user); err != nil {
		s.logger.Error("failed to update password", slog.String("error", err.Error()))
		return errors.New("failed to change password")
	}

	s.logger.Info("user changed password", slog.String("user_id", userID))
	return nil
}

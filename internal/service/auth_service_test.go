package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/yourorg/roomreserve/internal/domain"
	"github.com/yourorg/roomreserve/internal/security/auth"
)

func newTestAuthService(repo *memUserRepo, revoker *memRevoker) *AuthService {
	tm := auth.NewTokenManager("test-secret", "roomreserve-test")
	return NewAuthService(repo, tm, revoker, 30*time.Minute, nil)
}

func TestRegisterAndLogin(t *testing.T) {
	repo := newMemUserRepo()
	s := newTestAuthService(repo, newMemRevoker())

	user, err := s.Register("Alice@Example.com", "Password123", "Alice Example")
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}
	if user.ID == "" {
		t.Fatal("expected a user id")
	}
	if user.Email != "alice@example.com" {
		t.Fatalf("expected case-folded email, got %q", user.Email)
	}
	if user.Role != domain.RoleUser {
		t.Fatalf("expected new accounts to start as user, got %q", user.Role)
	}
	if user.PasswordHash == "Password123" {
		t.Fatal("password must not be stored in plaintext")
	}

	result, err := s.Login("ALICE@example.com", "Password123")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if result.AccessToken == "" || result.TokenType != "bearer" {
		t.Fatalf("unexpected login result: %+v", result)
	}
	if result.User.Email != "alice@example.com" {
		t.Fatalf("expected login to return the account, got %+v", result.User)
	}
}

func TestRegisterDuplicateEmailCaseInsensitive(t *testing.T) {
	repo := newMemUserRepo()
	s := newTestAuthService(repo, newMemRevoker())

	if _, err := s.Register("bob@example.com", "Password123", "Bob"); err != nil {
		t.Fatalf("first register failed: %v", err)
	}
	_, err := s.Register("BOB@EXAMPLE.COM", "Password123", "Bob Again")
	if err == nil {
		t.Fatal("expected duplicate email to be rejected")
	}
	if !domain.IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestRegisterValidation(t *testing.T) {
	s := newTestAuthService(newMemUserRepo(), newMemRevoker())

	cases := []struct {
		name     string
		email    string
		password string
		fullName string
	}{
		{"missing email", "", "Password123", "Someone"},
		{"missing password", "x@example.com", "", "Someone"},
		{"missing name", "x@example.com", "Password123", ""},
		{"short password", "x@example.com", "short", "Someone"},
		{"bad email", "not-an-email", "Password123", "Someone"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := s.Register(tc.email, tc.password, tc.fullName); !domain.IsValidation(err) {
				t.Fatalf("expected validation error, got %v", err)
			}
		})
	}
}

func TestLoginFailuresAreIndistinguishable(t *testing.T) {
	repo := newMemUserRepo()
	s := newTestAuthService(repo, newMemRevoker())

	if _, err := s.Register("carol@example.com", "Password123", "Carol"); err != nil {
		t.Fatalf("register failed: %v", err)
	}

	_, unknownErr := s.Login("nobody@example.com", "Password123")
	_, wrongPwErr := s.Login("carol@example.com", "WrongPassword")

	if !errors.Is(unknownErr, domain.ErrInvalidCredentials) {
		t.Fatalf("unknown email: expected ErrInvalidCredentials, got %v", unknownErr)
	}
	if !errors.Is(wrongPwErr, domain.ErrInvalidCredentials) {
		t.Fatalf("wrong password: expected ErrInvalidCredentials, got %v", wrongPwErr)
	}
	if unknownErr.Error() != wrongPwErr.Error() {
		t.Fatalf("errors must not reveal which part failed: %q vs %q",
			unknownErr.Error(), wrongPwErr.Error())
	}
}

func TestLoginInactiveAccount(t *testing.T) {
	repo := newMemUserRepo()
	s := newTestAuthService(repo, newMemRevoker())

	user, err := s.Register("dave@example.com", "Password123", "Dave")
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}
	user.IsActive = false
	if err := repo.Update(user); err != nil {
		t.Fatalf("update failed: %v", err)
	}

	if _, err := s.Login("dave@example.com", "Password123"); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden for inactive account, got %v", err)
	}
}

func TestLogoutRevokesTokenID(t *testing.T) {
	repo := newMemUserRepo()
	revoker := newMemRevoker()
	s := newTestAuthService(repo, revoker)

	if _, err := s.Register("erin@example.com", "Password123", "Erin"); err != nil {
		t.Fatalf("register failed: %v", err)
	}
	result, err := s.Login("erin@example.com", "Password123")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}

	tm := auth.NewTokenManager("test-secret", "roomreserve-test")
	claims, err := tm.ValidateToken(result.AccessToken)
	if err != nil {
		t.Fatalf("token did not validate: %v", err)
	}

	if err := s.Logout(context.Background(), claims); err != nil {
		t.Fatalf("logout failed: %v", err)
	}
	if _, ok := revoker.revoked[claims.ID]; !ok {
		t.Fatalf("expected token id %q to be revoked", claims.ID)
	}
}

func TestChangePassword(t *testing.T) {
	repo := newMemUserRepo()
	s := newTestAuthService(repo, newMemRevoker())

	user, err := s.Register("fay@example.com", "Password123", "Fay")
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}

	if err := s.ChangePassword(user.ID, "WrongOld", "NewPassword456"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected wrong old password to fail, got %v", err)
	}
	if err := s.ChangePassword(user.ID, "Password123", "short"); !domain.IsValidation(err) {
		t.Fatalf("expected short new password to fail, got %v", err)
	}
	if err := s.ChangePassword(user.ID, "Password123", "NewPassword456"); err != nil {
		t.Fatalf("change password failed: %v", err)
	}

	if _, err := s.Login("fay@example.com", "Password123"); err == nil {
		t.Fatal("old password must stop working")
	}
	if _, err := s.Login("fay@example.com", "NewPassword456"); err != nil {
		t.Fatalf("new password should work: %v", err)
	}
}

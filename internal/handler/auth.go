package handler

import (
	"log/slog"
	"net/http"

	"github.com/yourorg/roomreserve/internal/security/middleware"
	"github.com/yourorg/roomreserve/internal/service"
)

// AuthHandler exposes registration, login and token endpoints.
type AuthHandler struct {
	auth   *service.AuthService
	logger *slog.Logger
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(auth *service.AuthService, logger *slog.Logger) *AuthHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &AuthHandler{auth: auth, logger: logger}
}

// RegisterRequest is the signup payload
type RegisterRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	FullName string `json:"full_name"`
}

// Register handles POST /api/auth/register
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, h.logger, err)
		return
	}

	user, err := h.auth.Register(req.Email, req.Password, req.FullName)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusCreated, user)
}

// Login handles POST /api/auth/login with form-encoded credentials. The
// field names follow the OAuth2 password flow, so the email arrives as
// "username".
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		writeErrorMessage(w, http.StatusBadRequest, "invalid form data")
		return
	}

	result, err := h.auth.Login(r.PostFormValue("username"), r.PostFormValue("password"))
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// LoginJSONRequest is the JSON login payload
type LoginJSONRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginJSON handles POST /api/auth/login/json
func (h *AuthHandler) LoginJSON(w http.ResponseWriter, r *http.Request) {
	var req LoginJSONRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, h.logger, err)
		return
	}

	result, err := h.auth.Login(req.Email, req.Password)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// Me handles GET /api/auth/me
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetClaimsFromContext(r.Context())
	if claims == nil {
		writeErrorMessage(w, http.StatusUnauthorized, "not authenticated")
		return
	}

	user, err := h.auth.CurrentUser(claims.UserID)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, user)
}

// Verify handles GET /api/auth/verify. Reaching it at all means the token
// passed the middleware, so it just echoes the subject back.
func (h *AuthHandler) Verify(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetClaimsFromContext(r.Context())
	if claims == nil {
		writeErrorMessage(w, http.StatusUnauthorized, "not authenticated")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"valid":   true,
		"email":   claims.Email,
		"message": "Token is valid",
	})
}

// ChangePasswordRequest carries the old and new passwords
type ChangePasswordRequest struct {
	OldPassword string `json:"old_password"`
	NewPassword string `json:"new_password"`
}

// ChangePassword handles POST /api/auth/change-password
func (h *AuthHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetClaimsFromContext(r.Context())
	if claims == nil {
		writeErrorMessage(w, http.StatusUnauthorized, "not authenticated")
		return
	}

	var req ChangePasswordRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, h.logger, err)
		return
	}

	if err := h.auth.ChangePassword(claims.UserID, req.OldPassword, req.NewPassword); err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "Password updated successfully"})
}

// Logout handles POST /api/auth/logout by revoking the presented token.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetClaimsFromContext(r.Context())
	if claims == nil {
		writeErrorMessage(w, http.StatusUnauthorized, "not authenticated")
		return
	}

	if err := h.auth.Logout(r.Context(), claims); err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "Successfully logged out"})
}

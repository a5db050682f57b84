package handler

import (
	"log/slog"
	"net/http"

	"github.com/yourorg/roomreserve/internal/domain"
	"github.com/yourorg/roomreserve/internal/security/middleware"
	"github.com/yourorg/roomreserve/internal/service"
)

// AdminHandler exposes the admin surface. Role enforcement happens in the
// middleware chain before any of these run.
type AdminHandler struct {
	admin   *service.AdminService
	reports *service.ReportService
	logger  *slog.Logger
}

// NewAdminHandler creates a new admin handler
func NewAdminHandler(admin *service.AdminService, reports *service.ReportService, logger *slog.Logger) *AdminHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &AdminHandler{admin: admin, reports: reports, logger: logger}
}

func actorEmail(r *http.Request) string {
	if claims := middleware.GetClaimsFromContext(r.Context()); claims != nil {
		return claims.Email
	}
	return ""
}

// ListUsers handles GET /api/admin/users
func (h *AdminHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.admin.ListUsers(domain.UserListOptions{
		Skip:  queryInt(r, "skip", 0),
		Limit: queryInt(r, "limit", 100),
		Query: r.URL.Query().Get("q"),
	})
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, users)
}

// GetUser handles GET /api/admin/users/{id}
func (h *AdminHandler) GetUser(w http.ResponseWriter, r *http.Request) {
	user, err := h.admin.GetUser(r.PathValue("id"))
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

// UpdateUser handles PATCH /api/admin/users/{id}
func (h *AdminHandler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	var patch service.UserPatch
	if err := decodeJSON(r, &patch); err != nil {
		writeError(w, h.logger, err)
		return
	}

	user, err := h.admin.UpdateUser(r.Context(), r.PathValue("id"), patch, actorEmail(r))
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

// DeleteUser handles DELETE /api/admin/users/{id}
func (h *AdminHandler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	if err := h.admin.DeleteUser(r.Context(), r.PathValue("id"), actorEmail(r)); err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "User deleted successfully"})
}

// ListBookings handles GET /api/admin/bookings
func (h *AdminHandler) ListBookings(w http.ResponseWriter, r *http.Request) {
	opts := domain.BookingListOptions{
		Skip:  queryInt(r, "skip", 0),
		Limit: queryInt(r, "limit", 100),
		Query: r.URL.Query().Get("q"),
	}
	if raw := r.URL.Query().Get("status"); raw != "" {
		status, err := domain.ParseBookingStatus(raw)
		if err != nil {
			writeError(w, h.logger, err)
			return
		}
		opts.Status = status
	}

	bookings, err := h.admin.ListBookings(opts)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, bookings)
}

// GetBooking handles GET /api/admin/bookings/{id}
func (h *AdminHandler) GetBooking(w http.ResponseWriter, r *http.Request) {
	booking, err := h.admin.GetBooking(r.PathValue("id"))
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, booking)
}

// UpdateBookingRequest carries a lifecycle change
type UpdateBookingRequest struct {
	Status string `json:"status"`
}

// UpdateBooking handles PATCH /api/admin/bookings/{id}
func (h *AdminHandler) UpdateBooking(w http.ResponseWriter, r *http.Request) {
	var req UpdateBookingRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, h.logger, err)
		return
	}
	if req.Status == "" {
		writeErrorMessage(w, http.StatusBadRequest, "status is required")
		return
	}

	booking, err := h.admin.UpdateBookingStatus(r.Context(), r.PathValue("id"), req.Status, actorEmail(r))
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, booking)
}

// DeleteBooking handles DELETE /api/admin/bookings/{id}
func (h *AdminHandler) DeleteBooking(w http.ResponseWriter, r *http.Request) {
	if err := h.admin.DeleteBooking(r.Context(), r.PathValue("id"), actorEmail(r)); err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Booking deleted successfully"})
}

// Stats handles GET /api/admin/stats
func (h *AdminHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.admin.Stats()
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

// Report handles GET /api/admin/report. The period defaults to the weekly
// window and can be widened with ?days=N.
func (h *AdminHandler) Report(w http.ResponseWriter, r *http.Request) {
	report, err := h.reports.BuildReport(queryInt(r, "days", 7))
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

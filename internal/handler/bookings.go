package handler

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/yourorg/roomreserve/internal/domain"
	"github.com/yourorg/roomreserve/internal/security/middleware"
	"github.com/yourorg/roomreserve/internal/service"
)

// BookingHandler serves booking creation and reads.
type BookingHandler struct {
	bookings *service.BookingService
	logger   *slog.Logger
}

// NewBookingHandler creates a new booking handler
func NewBookingHandler(bookings *service.BookingService, logger *slog.Logger) *BookingHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &BookingHandler{bookings: bookings, logger: logger}
}

// Create handles POST /api/bookings. Guests may book anonymously; when a
// valid token is presented the booking is tied to that account.
func (h *BookingHandler) Create(w http.ResponseWriter, r *http.Request) {
	var input service.CreateBookingInput
	if err := decodeJSON(r, &input); err != nil {
		writeError(w, h.logger, err)
		return
	}

	// The token wins over any body-supplied owner; the body value is only
	// honored for anonymous guests.
	if claims := middleware.GetClaimsFromContext(r.Context()); claims != nil {
		input.UserEmail = claims.Email
	}

	booking, err := h.bookings.CreateBooking(r.Context(), input)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusCreated, booking)
}

// List handles GET /api/bookings with optional skip, limit and status
// filters. Owner emails are stripped from this public view.
func (h *BookingHandler) List(w http.ResponseWriter, r *http.Request) {
	opts := domain.BookingListOptions{
		Skip:  queryInt(r, "skip", 0),
		Limit: queryInt(r, "limit", 100),
	}
	if raw := r.URL.Query().Get("status"); raw != "" {
		status, err := domain.ParseBookingStatus(raw)
		if err != nil {
			writeError(w, h.logger, err)
			return
		}
		opts.Status = status
	}

	bookings, err := h.bookings.ListBookings(opts)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, stripOwners(bookings))
}

// Get handles GET /api/bookings/{id}
func (h *BookingHandler) Get(w http.ResponseWriter, r *http.Request) {
	booking, err := h.bookings.GetBooking(r.PathValue("id"))
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	booking.UserEmail = ""
	writeJSON(w, http.StatusOK, booking)
}

// ByGuest handles GET /api/bookings/guest/{name}
func (h *BookingHandler) ByGuest(w http.ResponseWriter, r *http.Request) {
	bookings, err := h.bookings.ListByGuest(r.PathValue("name"))
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, stripOwners(bookings))
}

// ForUser handles GET /api/user/bookings, the authenticated user's own
// booking history.
func (h *BookingHandler) ForUser(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetClaimsFromContext(r.Context())
	if claims == nil {
		writeErrorMessage(w, http.StatusUnauthorized, "not authenticated")
		return
	}

	bookings, err := h.bookings.ListForUser(claims.Email)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, bookings)
}

// stripOwners clears the owner email before a booking leaves through a
// public endpoint.
func stripOwners(bookings []*domain.Booking) []*domain.Booking {
	out := make([]*domain.Booking, 0, len(bookings))
	for _, b := range bookings {
		c := *b
		c.UserEmail = ""
		out = append(out, &c)
	}
	return out
}

// queryInt parses a non-negative integer query parameter with a fallback.
func queryInt(r *http.Request, key string, fallback int) int {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return fallback
	}
	return n
}

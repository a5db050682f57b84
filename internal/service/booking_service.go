package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/yourorg/roomreserve/internal/domain"
	"github.com/yourorg/roomreserve/internal/events"
	"github.com/yourorg/roomreserve/internal/featureflags"
	"github.com/yourorg/roomreserve/internal/observability/metrics"
	"github.com/yourorg/roomreserve/internal/security/audit"
)

// BookingService owns booking creation and reads. Status changes are an
// admin concern and live in AdminService.
type BookingService struct {
	bookingRepo domain.BookingRepository
	rooms       *RoomService
	hub         *events.Hub
	audit       *audit.Logger
	logger      *slog.Logger
}

// NewBookingService creates a new booking service
func NewBookingService(
	bookingRepo domain.BookingRepository,
	rooms *RoomService,
	hub *events.Hub,
	auditLog *audit.Logger,
	logger *slog.Logger,
) *BookingService {
	if logger == nil {
		logger = slog.Default()
	}
	return &BookingService{
		bookingRepo: bookingRepo,
		rooms:       rooms,
		hub:         hub,
		audit:       auditLog,
		logger:      logger,
	}
}

// CreateBookingInput carries everything a caller may supply when booking.
// Price and status are never part of it.
type CreateBookingInput struct {
	RoomID       string `json:"room_id"`
	GuestName    string `json:"guest_name"`
	CheckInDate  string `json:"check_in_date"`
	CheckOutDate string `json:"check_out_date"`
	Guests       int    `json:"guests"`

	// UserEmail ties the booking to an account. The handler overwrites it
	// with the token's email for authenticated callers; anonymous guests may
	// supply it in the body.
	UserEmail string `json:"user_email"`
}

// CreateBooking validates the request, prices the stay and persists the
// booking. Nothing is written when any check fails.
func (s *BookingService) CreateBooking(ctx context.Context, input CreateBookingInput) (*domain.Booking, error) {
	tracer := otel.Tracer("roomreserve/booking")
	ctx, span := tracer.Start(ctx, "booking.create")
	defer span.End()

	input.GuestName = strings.TrimSpace(input.GuestName)
	if input.RoomID == "" || input.GuestName == "" || input.CheckInDate == "" || input.CheckOutDate == "" {
		return nil, domain.Validationf("room_id, guest_name, check_in_date, and check_out_date are required")
	}

	room, err := s.rooms.GetRoom(input.RoomID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.Validationf("room %s does not exist", input.RoomID)
		}
		return nil, err
	}

	if input.Guests < 1 {
		return nil, domain.Validationf("guest count must be at least 1")
	}
	if input.Guests > room.MaxGuests {
		return nil, domain.Validationf("room %s sleeps at most %d guests", room.Name, room.MaxGuests)
	}

	nights, err := domain.Nights(input.CheckInDate, input.CheckOutDate)
	if err != nil {
		return nil, err
	}

	totalPrice := math.Round(float64(nights)*room.PricePerNight*100) / 100

	status := domain.StatusConfirmed
	if featureflags.Enabled(featureflags.BookingApproval) {
		status = domain.StatusPending
	}

	booking := &domain.Booking{
		ID:           uuid.NewString(),
		RoomID:       room.ID,
		RoomName:     room.Name,
		GuestName:    input.GuestName,
		CheckInDate:  input.CheckInDate,
		CheckOutDate: input.CheckOutDate,
		Guests:       input.Guests,
		TotalPrice:   totalPrice,
		Status:       status,
		BookingDate:  time.Now().UTC(),
		UserEmail:    strings.ToLower(strings.TrimSpace(input.UserEmail)),
	}

	if err := s.bookingRepo.Create(booking); err != nil {
		s.logger.Error("failed to create booking",
			slog.String("room_id", room.ID),
			slog.String("error", err.Error()),
		)
		return nil, errors.New("failed to create booking")
	}

	span.SetAttributes(
		attribute.String("booking.id", booking.ID),
		attribute.String("booking.status", string(booking.Status)),
		attribute.Int("booking.nights", nights),
	)
	metrics.ObserveBookingCreated(string(booking.Status))
	if s.audit != nil {
		actor := booking.UserEmail
		if actor == "" {
			actor = "guest"
		}
		s.audit.LogBookingCreated(ctx, actor, booking.ID,
			fmt.Sprintf("%s, %d night(s), %d guest(s)", room.Name, nights, input.Guests))
	}
	if s.hub != nil {
		s.hub.Publish(events.Event{
			Type:      "booking_created",
			BookingID: booking.ID,
			RoomName:  booking.RoomName,
			GuestName: booking.GuestName,
			Status:    string(booking.Status),
		})
	}

	s.logger.Info("booking created",
		slog.String("booking_id", booking.ID),
		slog.String("room", room.Name),
		slog.Int("nights", nights),
		slog.Float64("total_price", totalPrice),
		slog.String("status", string(booking.Status)),
	)
	return booking, nil
}

// GetBooking returns a single booking by id.
func (s *BookingService) GetBooking(id string) (*domain.Booking, error) {
	return s.bookingRepo.GetByID(id)
}

// ListBookings returns bookings matching the given filters.
func (s *BookingService) ListBookings(opts domain.BookingListOptions) ([]*domain.Booking, error) {
	return s.bookingRepo.List(opts)
}

// ListByGuest returns a guest's bookings matched by name.
func (s *BookingService) ListByGuest(guestName string) ([]*domain.Booking, error) {
	guestName = strings.TrimSpace(guestName)
	if guestName == "" {
		return nil, domain.Validationf("guest name is required")
	}
	return s.bookingRepo.List(domain.BookingListOptions{GuestName: guestName})
}

// ListForUser returns every booking tied to an authenticated account.
func (s *BookingService) ListForUser(email string) ([]*domain.Booking, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return nil, domain.Validationf("user email is required")
	}
	return s.bookingRepo.List(domain.BookingListOptions{UserEmail: email})
}

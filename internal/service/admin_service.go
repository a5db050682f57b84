package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strings"

	"github.com/yourorg/roomreserve/internal/domain"
	"github.com/yourorg/roomreserve/internal/events"
	"github.com/yourorg/roomreserve/internal/observability/metrics"
	"github.com/yourorg/roomreserve/internal/security/audit"
)

// AdminService implements the admin surface: user management, booking
// management and the dashboard stats.
type AdminService struct {
	userRepo    domain.UserRepository
	bookingRepo domain.BookingRepository
	hub         *events.Hub
	audit       *audit.Logger
	logger      *slog.Logger
}

// NewAdminService creates a new admin service
func NewAdminService(
	userRepo domain.UserRepository,
	bookingRepo domain.BookingRepository,
	hub *events.Hub,
	auditLog *audit.Logger,
	logger *slog.Logger,
) *AdminService {
	if logger == nil {
		logger = slog.Default()
	}
	return &AdminService{
		userRepo:    userRepo,
		bookingRepo: bookingRepo,
		hub:         hub,
		audit:       auditLog,
		logger:      logger,
	}
}

// UserPatch is a partial user update. Nil fields are left untouched.
type UserPatch struct {
	FullName *string `json:"full_name"`
	Role     *string `json:"role"`
	IsActive *bool   `json:"is_active"`
}

// ListUsers returns accounts matching the filter, passwords excluded by the
// domain model's marshalling.
func (s *AdminService) ListUsers(opts domain.UserListOptions) ([]*domain.User, error) {
	return s.userRepo.List(opts)
}

// GetUser returns one account by id.
func (s *AdminService) GetUser(id string) (*domain.User, error) {
	return s.userRepo.GetByID(id)
}

// UpdateUser applies a partial update to an account.
func (s *AdminService) UpdateUser(ctx context.Context, id string, patch UserPatch, actorEmail string) (*domain.User, error) {
	user, err := s.userRepo.GetByID(id)
	if err != nil {
		return nil, err
	}

	if patch.FullName != nil {
		name := strings.TrimSpace(*patch.FullName)
		if name == "" {
			return nil, domain.Validationf("full name cannot be empty")
		}
		user.FullName = name
	}
	if patch.Role != nil {
		role := domain.Role(*patch.Role)
		if !domain.ValidRole(role) {
			return nil, domain.Validationf("unknown role %q", *patch.Role)
		}
		user.Role = role
	}
	if patch.IsActive != nil {
		user.IsActive = *patch.IsActive
	}

	if err := s.userRepo.Update(user); err != nil {
		s.logger.Error("failed to update user",
			slog.String("user_id", id),
			slog.String("error", err.Error()),
		)
		return nil, errors.New("failed to update user")
	}

	if s.audit != nil {
		s.audit.LogAdminMutation(ctx, actorEmail, "update", "user", id)
	}
	return user, nil
}

// DeleteUser removes an account. Admins cannot delete themselves so a
// deployment always keeps at least one working admin login.
func (s *AdminService) DeleteUser(ctx context.Context, id, actorEmail string) error {
	user, err := s.userRepo.GetByID(id)
	if err != nil {
		return err
	}
	if strings.EqualFold(user.Email, actorEmail) {
		return domain.Validationf("admins cannot delete their own account")
	}

	if err := s.userRepo.Delete(id); err != nil {
		return err
	}

	if s.audit != nil {
		s.audit.LogAdminMutation(ctx, actorEmail, "delete", "user", id)
	}
	s.logger.Info("user deleted",
		slog.String("user_id", id),
		slog.String("actor", actorEmail),
	)
	return nil
}

// ListBookings returns bookings matching the filter, including the booking
// owner's email, which only admins may see.
func (s *AdminService) ListBookings(opts domain.BookingListOptions) ([]*domain.Booking, error) {
	return s.bookingRepo.List(opts)
}

// GetBooking returns one booking by id.
func (s *AdminService) GetBooking(id string) (*domain.Booking, error) {
	return s.bookingRepo.GetByID(id)
}

// UpdateBookingStatus moves a booking through its lifecycle. Only the
// transitions in the domain table are allowed.
func (s *AdminService) UpdateBookingStatus(ctx context.Context, id, rawStatus, actorEmail string) (*domain.Booking, error) {
	status, err := domain.ParseBookingStatus(rawStatus)
	if err != nil {
		return nil, err
	}

	booking, err := s.bookingRepo.GetByID(id)
	if err != nil {
		return nil, err
	}

	if !domain.CanTransition(booking.Status, status) {
		metrics.ObserveBookingTransition(string(booking.Status), string(status), "rejected")
		if s.audit != nil {
			s.audit.LogDenied(ctx, actorEmail,
				fmt.Sprintf("booking %s cannot move from %s to %s", id, booking.Status, status))
		}
		return nil, fmt.Errorf("cannot move booking from %s to %s: %w",
			booking.Status, status, domain.ErrInvalidTransition)
	}

	if err := s.bookingRepo.UpdateStatus(id, status); err != nil {
		return nil, err
	}

	metrics.ObserveBookingTransition(string(booking.Status), string(status), "applied")
	if s.audit != nil {
		s.audit.LogStatusChange(ctx, actorEmail, id, string(booking.Status), string(status))
	}
	if s.hub != nil {
		s.hub.Publish(events.Event{
			Type:      "booking_status_changed",
			BookingID: id,
			RoomName:  booking.RoomName,
			GuestName: booking.GuestName,
			Status:    string(status),
		})
	}

	s.logger.Info("booking status changed",
		slog.String("booking_id", id),
		slog.String("from", string(booking.Status)),
		slog.String("to", string(status)),
		slog.String("actor", actorEmail),
	)

	booking.Status = status
	return booking, nil
}

// DeleteBooking removes a booking record entirely.
func (s *AdminService) DeleteBooking(ctx context.Context, id, actorEmail string) error {
	booking, err := s.bookingRepo.GetByID(id)
	if err != nil {
		return err
	}

	if err := s.bookingRepo.Delete(id); err != nil {
		return err
	}

	if s.audit != nil {
		s.audit.LogAdminMutation(ctx, actorEmail, "delete", "booking", id)
	}
	if s.hub != nil {
		s.hub.Publish(events.Event{
			Type:      "booking_deleted",
			BookingID: id,
			RoomName:  booking.RoomName,
			GuestName: booking.GuestName,
		})
	}
	return nil
}

// DashboardStats is the admin dashboard snapshot.
type DashboardStats struct {
	Users struct {
		Total  int `json:"total"`
		Active int `json:"active"`
		Admins int `json:"admins"`
	} `json:"users"`
	Bookings struct {
		Total     int `json:"total"`
		Pending   int `json:"pending"`
		Confirmed int `json:"confirmed"`
		Cancelled int `json:"cancelled"`
		Completed int `json:"completed"`
	} `json:"bookings"`
	Revenue struct {
		Total    float64 `json:"total"`
		Currency string  `json:"currency"`
	} `json:"revenue"`
}

// Stats aggregates user counts, per-status booking counts and confirmed
// revenue.
func (s *AdminService) Stats() (*DashboardStats, error) {
	userStats, err := s.userRepo.Stats()
	if err != nil {
		return nil, err
	}
	bookingStats, err := s.bookingRepo.Stats()
	if err != nil {
		return nil, err
	}

	stats := &DashboardStats{}
	stats.Users.Total = userStats.Total
	stats.Users.Active = userStats.Active
	stats.Users.Admins = userStats.Admins
	stats.Bookings.Total = bookingStats.Total
	stats.Bookings.Pending = bookingStats.Pending
	stats.Bookings.Confirmed = bookingStats.Confirmed
	stats.Bookings.Cancelled = bookingStats.Cancelled
	stats.Bookings.Completed = bookingStats.Completed
	stats.Revenue.Total = math.Round(bookingStats.Revenue*100) / 100
	stats.Revenue.Currency = "USD"
	return stats, nil
}

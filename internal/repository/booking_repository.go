package repository

import (
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/yourorg/roomreserve/internal/domain"
)

// PostgresBookingRepository implements domain.BookingRepository using PostgreSQL
type PostgresBookingRepository struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewPostgresBookingRepository creates a new booking repository
func NewPostgresBookingRepository(db *sql.DB, logger *slog.Logger) *PostgresBookingRepository {
	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresBookingRepository{
		db:     db,
		logger: logger,
	}
}

const bookingColumns = `id, room_id, room_name, guest_name, check_in_date, check_out_date,
	guests, total_price, status, booking_date, user_email`

// Create persists a new booking
func (r *PostgresBookingRepository) Create(booking *domain.Booking) error {
	query := `
		INSERT INTO bookings (id, room_id, room_name, guest_name, check_in_date,
			check_out_date, guests, total_price, status, booking_date, user_email)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`

	_, err := r.db.Exec(
		query,
		booking.ID,
		booking.RoomID,
		booking.RoomName,
		booking.GuestName,
		booking.CheckInDate,
		booking.CheckOutDate,
		booking.Guests,
		booking.TotalPrice,
		string(booking.Status),
		booking.BookingDate,
		booking.UserEmail,
	)
	if err != nil {
		r.logger.Error("failed to create booking",
			slog.String("room_id", booking.RoomID),
			slog.String("error", err.Error()),
		)
		return fmt.Errorf("failed to create booking: %w", err)
	}

	return nil
}

// GetByID retrieves a booking by ID
func (r *PostgresBookingRepository) GetByID(id string) (*domain.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE id = $1`

	booking, err := scanBooking(r.db.QueryRow(query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("booking %s: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get booking: %w", err)
	}

	return booking, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanBooking(row rowScanner) (*domain.Booking, error) {
	booking := &domain.Booking{}
	var status string

	err := row.Scan(
		&booking.ID,
		&booking.RoomID,
		&booking.RoomName,
		&booking.GuestName,
		&booking.CheckInDate,
		&booking.CheckOutDate,
		&booking.Guests,
		&booking.TotalPrice,
		&status,
		&booking.BookingDate,
		&booking.UserEmail,
	)
	if err != nil {
		return nil, err
	}

	booking.Status = domain.BookingStatus(status)
	return booking, nil
}

// List returns bookings newest-first. Status, guest name, user email and
// free-text filters are applied here so the full collection never leaves
// the data layer.
func (r *PostgresBookingRepository) List(opts domain.BookingListOptions) ([]*domain.Booking, error) {
	query := `
		SELECT ` + bookingColumns + `
		FROM bookings
		WHERE ($1 = '' OR status = $1)
		  AND ($2 = '' OR guest_name ILIKE '%' || $2 || '%')
		  AND ($3 = '' OR user_email = $3)
		  AND ($4 = '' OR guest_name ILIKE '%' || $4 || '%'
		       OR room_name ILIKE '%' || $4 || '%'
		       OR user_email ILIKE '%' || $4 || '%')
		ORDER BY booking_date DESC
		OFFSET $5 LIMIT $6
	`

	limit := opts.Limit
	if limit <= 0 {
		limit = 100
	}

	rows, err := r.db.Query(
		query,
		string(opts.Status),
		opts.GuestName,
		opts.UserEmail,
		opts.Query,
		opts.Skip,
		limit,
	)
	if err != nil {
		r.logger.Error("failed to list bookings", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to list bookings: %w", err)
	}
	defer rows.Close()

	var bookings []*domain.Booking
	for rows.Next() {
		booking, err := scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan booking: %w", err)
		}
		bookings = append(bookings, booking)
	}

	return bookings, rows.Err()
}

// UpdateStatus mutates the booking status in place; price and dates are
// never touched.
func (r *PostgresBookingRepository) UpdateStatus(id string, status domain.BookingStatus) error {
	result, err := r.db.Exec(`UPDATE bookings SET status = $1 WHERE id = $2`, string(status), id)
	if err != nil {
		return fmt.Errorf("failed to update booking status: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("booking %s: %w", id, domain.ErrNotFound)
	}

	return nil
}

// Delete hard-deletes a booking
func (r *PostgresBookingRepository) Delete(id string) error {
	result, err := r.db.Exec(`DELETE FROM bookings WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete booking: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("booking %s: %w", id, domain.ErrNotFound)
	}

	return nil
}

// Stats returns per-status counts and the confirmed revenue sum.
func (r *PostgresBookingRepository) Stats() (*domain.BookingStats, error) {
	query := `
		SELECT
			count(*),
			count(*) FILTER (WHERE status = 'pending'),
			count(*) FILTER (WHERE status = 'confirmed'),
			count(*) FILTER (WHERE status = 'cancelled'),
			count(*) FILTER (WHERE status = 'completed'),
			COALESCE(sum(total_price) FILTER (WHERE status = 'confirmed'), 0)
		FROM bookings
	`

	stats := &domain.BookingStats{}
	err := r.db.QueryRow(query).Scan(
		&stats.Total,
		&stats.Pending,
		&stats.Confirmed,
		&stats.Cancelled,
		&stats.Completed,
		&stats.Revenue,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate booking stats: %w", err)
	}
	return stats, nil
}

// ListCreatedSince returns bookings made at or after the given time,
// newest-first. The report service derives period metrics from it.
func (r *PostgresBookingRepository) ListCreatedSince(since time.Time) ([]*domain.Booking, error) {
	query := `
		SELECT ` + bookingColumns + `
		FROM bookings
		WHERE booking_date >= $1
		ORDER BY booking_date DESC
	`

	rows, err := r.db.Query(query, since)
	if err != nil {
		return nil, fmt.Errorf("failed to list bookings: %w", err)
	}
	defer rows.Close()

	var bookings []*domain.Booking
	for rows.Next() {
		booking, err := scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan booking: %w", err)
		}
		bookings = append(bookings, booking)
	}

	return bookings, rows.Err()
}

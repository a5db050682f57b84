package domain

import (
	"time"
)

// BookingStatus is the lifecycle state of a booking.
type BookingStatus string

const (
	StatusPending   BookingStatus = "pending"
	StatusConfirmed BookingStatus = "confirmed"
	StatusCancelled BookingStatus = "cancelled"
	StatusCompleted BookingStatus = "completed"
)

// ParseBookingStatus validates a raw status string.
func ParseBookingStatus(s string) (BookingStatus, error) {
	switch BookingStatus(s) {
	case StatusPending, StatusConfirmed, StatusCancelled, StatusCompleted:
		return BookingStatus(s), nil
	default:
		return "", Validationf("unknown booking status %q", s)
	}
}

// statusTransitions is the admin-driven transition table. Anything not
// listed here is rejected; completed is terminal.
var statusTransitions = map[BookingStatus][]BookingStatus{
	StatusPending:   {StatusConfirmed, StatusCancelled},
	StatusConfirmed: {StatusCancelled, StatusCompleted},
	StatusCancelled: {StatusConfirmed},
	StatusCompleted: {StatusCompleted},
}

// CanTransition reports whether a booking may move from one status to
// another.
func CanTransition(from, to BookingStatus) bool {
	for _, allowed := range statusTransitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

// Booking is the one entity with a real lifecycle. RoomName is a snapshot
// taken at creation so history stays readable if the room ever changes.
type Booking struct {
	ID           string        `json:"id"` // UUID
	RoomID       string        `json:"room_id"`
	RoomName     string        `json:"room_name"`
	GuestName    string        `json:"guest_name"`
	CheckInDate  string        `json:"check_in_date"`  // ISO 8601
	CheckOutDate string        `json:"check_out_date"` // ISO 8601
	Guests       int           `json:"guests"`
	TotalPrice   float64       `json:"total_price"` // derived, never client-supplied
	Status       BookingStatus `json:"status"`
	BookingDate  time.Time     `json:"booking_date"`
	UserEmail    string        `json:"user_email,omitempty"`
}

// dateLayouts are the formats accepted for check-in/check-out dates.
var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02T15:04:05",
}

// ParseDate parses an ISO 8601 date or timestamp.
func ParseDate(s string) (time.Time, error) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, Validationf("invalid date format %q", s)
}

// Nights returns the whole-day difference between check-out and check-in,
// rounding partial days up. The pair must be parseable with check-out
// strictly after check-in.
func Nights(checkIn, checkOut string) (int, error) {
	in, err := ParseDate(checkIn)
	if err != nil {
		return 0, err
	}
	out, err := ParseDate(checkOut)
	if err != nil {
		return 0, err
	}
	if !out.After(in) {
		return 0, Validationf("check-out date must be after check-in date")
	}
	diff := out.Sub(in)
	nights := int(diff / (24 * time.Hour))
	if diff%(24*time.Hour) != 0 {
		nights++
	}
	return nights, nil
}

// BookingListOptions bounds and filters booking listings. Query matches
// guest name, room name and user email, case-insensitively, in the data
// layer.
type BookingListOptions struct {
	Skip      int
	Limit     int
	Status    BookingStatus
	Query     string
	GuestName string
	UserEmail string
}

// BookingStats holds per-status counts and confirmed revenue.
type BookingStats struct {
	Total     int
	Pending   int
	Confirmed int
	Cancelled int
	Completed int
	Revenue   float64 // sum of total_price over confirmed bookings
}

// BookingRepository defines data access for bookings.
type BookingRepository interface {
	Create(booking *Booking) error
	GetByID(id string) (*Booking, error)
	List(opts BookingListOptions) ([]*Booking, error)
	UpdateStatus(id string, status BookingStatus) error
	Delete(id string) error
	Stats() (*BookingStats, error)
	ListCreatedSince(since time.Time) ([]*Booking, error)
}

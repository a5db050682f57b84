package service

import (
	"context"
	"testing"

	"github.com/yourorg/roomreserve/internal/domain"
	"github.com/yourorg/roomreserve/internal/events"
)

func testRoom() *domain.Room {
	return &domain.Room{
		ID:            "room-1",
		Name:          "Deluxe Ocean View Suite",
		PricePerNight: 100.0,
		MaxGuests:     2,
	}
}

func newTestBookingService(bookingRepo *memBookingRepo, rooms ...*domain.Room) *BookingService {
	roomService := NewRoomService(newMemRoomRepo(rooms...), nil, nil)
	return NewBookingService(bookingRepo, roomService, events.NewHub(), nil, nil)
}

func TestCreateBookingPricesTheStay(t *testing.T) {
	repo := newMemBookingRepo()
	s := newTestBookingService(repo, testRoom())

	booking, err := s.CreateBooking(context.Background(), CreateBookingInput{
		RoomID:       "room-1",
		GuestName:    "John Doe",
		CheckInDate:  "2025-06-01",
		CheckOutDate: "2025-06-04",
		Guests:       2,
	})
	if err != nil {
		t.Fatalf("create booking failed: %v", err)
	}

	if booking.ID == "" {
		t.Fatal("expected a booking id")
	}
	if booking.TotalPrice != 300.0 {
		t.Fatalf("expected total 300.00 for 3 nights at 100, got %v", booking.TotalPrice)
	}
	if booking.Status != domain.StatusConfirmed {
		t.Fatalf("expected new bookings to be confirmed, got %q", booking.Status)
	}
	if booking.RoomName != "Deluxe Ocean View Suite" {
		t.Fatalf("expected room name snapshot, got %q", booking.RoomName)
	}
	if booking.BookingDate.IsZero() {
		t.Fatal("expected a booking date")
	}

	stored, err := repo.GetByID(booking.ID)
	if err != nil {
		t.Fatalf("booking not persisted: %v", err)
	}
	if stored.TotalPrice != 300.0 {
		t.Fatalf("persisted price mismatch: %v", stored.TotalPrice)
	}
}

func TestCreateBookingApprovalFlag(t *testing.T) {
	t.Setenv("FLAG_BOOKING_APPROVAL", "true")

	s := newTestBookingService(newMemBookingRepo(), testRoom())
	booking, err := s.CreateBooking(context.Background(), CreateBookingInput{
		RoomID:       "room-1",
		GuestName:    "Jane Doe",
		CheckInDate:  "2025-06-01",
		CheckOutDate: "2025-06-02",
		Guests:       1,
	})
	if err != nil {
		t.Fatalf("create booking failed: %v", err)
	}
	if booking.Status != domain.StatusPending {
		t.Fatalf("expected pending with approval flag on, got %q", booking.Status)
	}
}

func TestCreateBookingValidation(t *testing.T) {
	repo := newMemBookingRepo()
	s := newTestBookingService(repo, testRoom())

	cases := []struct {
		name  string
		input CreateBookingInput
	}{
		{"missing room", CreateBookingInput{GuestName: "X", CheckInDate: "2025-06-01", CheckOutDate: "2025-06-02", Guests: 1}},
		{"unknown room", CreateBookingInput{RoomID: "no-such-room", GuestName: "X", CheckInDate: "2025-06-01", CheckOutDate: "2025-06-02", Guests: 1}},
		{"missing guest name", CreateBookingInput{RoomID: "room-1", CheckInDate: "2025-06-01", CheckOutDate: "2025-06-02", Guests: 1}},
		{"zero guests", CreateBookingInput{RoomID: "room-1", GuestName: "X", CheckInDate: "2025-06-01", CheckOutDate: "2025-06-02", Guests: 0}},
		{"too many guests", CreateBookingInput{RoomID: "room-1", GuestName: "X", CheckInDate: "2025-06-01", CheckOutDate: "2025-06-02", Guests: 5}},
		{"checkout before checkin", CreateBookingInput{RoomID: "room-1", GuestName: "X", CheckInDate: "2025-06-04", CheckOutDate: "2025-06-01", Guests: 1}},
		{"same day stay", CreateBookingInput{RoomID: "room-1", GuestName: "X", CheckInDate: "2025-06-01", CheckOutDate: "2025-06-01", Guests: 1}},
		{"bad date format", CreateBookingInput{RoomID: "room-1", GuestName: "X", CheckInDate: "June 1st", CheckOutDate: "2025-06-02", Guests: 1}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := s.CreateBooking(context.Background(), tc.input); !domain.IsValidation(err) {
				t.Fatalf("expected validation error, got %v", err)
			}
		})
	}

	if len(repo.byID) != 0 {
		t.Fatalf("no booking may be persisted on failure, found %d", len(repo.byID))
	}
}

func TestCreateBookingPublishesEvent(t *testing.T) {
	roomService := NewRoomService(newMemRoomRepo(testRoom()), nil, nil)
	hub := events.NewHub()
	s := NewBookingService(newMemBookingRepo(), roomService, hub, nil, nil)

	ch, cancel := hub.Subscribe()
	defer cancel()

	booking, err := s.CreateBooking(context.Background(), CreateBookingInput{
		RoomID:       "room-1",
		GuestName:    "John Doe",
		CheckInDate:  "2025-06-01",
		CheckOutDate: "2025-06-02",
		Guests:       1,
	})
	if err != nil {
		t.Fatalf("create booking failed: %v", err)
	}

	select {
	case event := <-ch:
		if event.Type != "booking_created" || event.BookingID != booking.ID {
			t.Fatalf("unexpected event: %+v", event)
		}
	default:
		t.Fatal("expected a booking_created event")
	}
}

func TestListForUserAndGuest(t *testing.T) {
	repo := newMemBookingRepo()
	s := newTestBookingService(repo, testRoom())

	_, err := s.CreateBooking(context.Background(), CreateBookingInput{
		RoomID:       "room-1",
		GuestName:    "John Doe",
		CheckInDate:  "2025-06-01",
		CheckOutDate: "2025-06-02",
		Guests:       1,
		UserEmail:    "John@Example.com",
	})
	if err != nil {
		t.Fatalf("create booking failed: %v", err)
	}

	mine, err := s.ListForUser("john@example.com")
	if err != nil {
		t.Fatalf("list for user failed: %v", err)
	}
	if len(mine) != 1 {
		t.Fatalf("expected 1 booking for user, got %d", len(mine))
	}

	byGuest, err := s.ListByGuest("John Doe")
	if err != nil {
		t.Fatalf("list by guest failed: %v", err)
	}
	if len(byGuest) != 1 {
		t.Fatalf("expected 1 booking for guest, got %d", len(byGuest))
	}

	if _, err := s.ListByGuest("  "); !domain.IsValidation(err) {
		t.Fatalf("expected validation error for blank guest, got %v", err)
	}
}

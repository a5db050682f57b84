package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/yourorg/roomreserve/internal/domain"
	"github.com/yourorg/roomreserve/internal/events"
	"github.com/yourorg/roomreserve/internal/security/auth"
	"github.com/yourorg/roomreserve/internal/security/middleware"
	"github.com/yourorg/roomreserve/internal/service"
)

type stubRoomRepo struct {
	rooms map[string]*domain.Room
}

func (s *stubRoomRepo) GetByID(id string) (*domain.Room, error) {
	if r, ok := s.rooms[id]; ok {
		return r, nil
	}
	return nil, fmt.Errorf("room: %w", domain.ErrNotFound)
}

func (s *stubRoomRepo) List() ([]*domain.Room, error) {
	out := []*domain.Room{}
	for _, r := range s.rooms {
		out = append(out, r)
	}
	return out, nil
}

func (s *stubRoomRepo) Create(r *domain.Room) error {
	s.rooms[r.ID] = r
	return nil
}

func (s *stubRoomRepo) Count() (int, error) { return len(s.rooms), nil }

type stubBookingRepo struct {
	bookings map[string]*domain.Booking
	lastList domain.BookingListOptions
}

func (s *stubBookingRepo) Create(b *domain.Booking) error {
	s.bookings[b.ID] = b
	return nil
}

func (s *stubBookingRepo) GetByID(id string) (*domain.Booking, error) {
	if b, ok := s.bookings[id]; ok {
		copied := *b
		return &copied, nil
	}
	return nil, fmt.Errorf("booking: %w", domain.ErrNotFound)
}

func (s *stubBookingRepo) List(opts domain.BookingListOptions) ([]*domain.Booking, error) {
	s.lastList = opts
	out := []*domain.Booking{}
	for _, b := range s.bookings {
		if opts.Status != "" && b.Status != opts.Status {
			continue
		}
		if opts.GuestName != "" && !strings.EqualFold(b.GuestName, opts.GuestName) {
			continue
		}
		if opts.UserEmail != "" && !strings.EqualFold(b.UserEmail, opts.UserEmail) {
			continue
		}
		copied := *b
		out = append(out, &copied)
	}
	return out, nil
}

func (s *stubBookingRepo) UpdateStatus(id string, status domain.BookingStatus) error {
	b, ok := s.bookings[id]
	if !ok {
		return fmt.Errorf("booking %s: %w", id, domain.ErrNotFound)
	}
	b.Status = status
	return nil
}

func (s *stubBookingRepo) Delete(id string) error {
	delete(s.bookings, id)
	return nil
}

func (s *stubBookingRepo) Stats() (*domain.BookingStats, error) {
	return &domain.BookingStats{Total: len(s.bookings)}, nil
}

func (s *stubBookingRepo) ListCreatedSince(since time.Time) ([]*domain.Booking, error) {
	return s.List(domain.BookingListOptions{})
}

func newTestBookingHandler() (*BookingHandler, *stubBookingRepo) {
	roomRepo := &stubRoomRepo{rooms: map[string]*domain.Room{
		"room-1": {ID: "room-1", Name: "Cozy Standard Room", PricePerNight: 129.99, MaxGuests: 2},
	}}
	bookingRepo := &stubBookingRepo{bookings: map[string]*domain.Booking{}}

	roomService := service.NewRoomService(roomRepo, nil, nil)
	bookingService := service.NewBookingService(bookingRepo, roomService, events.NewHub(), nil, nil)
	return NewBookingHandler(bookingService, nil), bookingRepo
}

func TestCreateBookingHandler(t *testing.T) {
	h, repo := newTestBookingHandler()

	body := `{
		"room_id": "room-1",
		"guest_name": "John Doe",
		"check_in_date": "2025-06-01",
		"check_out_date": "2025-06-03",
		"guests": 2
	}`
	req := httptest.NewRequest("POST", "/api/bookings", strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.Create(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	var booking domain.Booking
	if err := json.NewDecoder(rec.Body).Decode(&booking); err != nil {
		t.Fatalf("bad response body: %v", err)
	}
	if booking.TotalPrice != 259.98 {
		t.Fatalf("expected total 259.98 for 2 nights, got %v", booking.TotalPrice)
	}
	if booking.Status != domain.StatusConfirmed {
		t.Fatalf("expected confirmed, got %q", booking.Status)
	}
	if _, ok := repo.bookings[booking.ID]; !ok {
		t.Fatal("booking not persisted")
	}
}

func TestCreateBookingOwnerEmail(t *testing.T) {
	body := `{
		"room_id": "room-1",
		"guest_name": "John Doe",
		"check_in_date": "2025-06-01",
		"check_out_date": "2025-06-03",
		"guests": 2,
		"user_email": "Body@Example.com"
	}`

	t.Run("anonymous guest may supply an owner email in the body", func(t *testing.T) {
		h, repo := newTestBookingHandler()
		req := httptest.NewRequest("POST", "/api/bookings", strings.NewReader(body))
		rec := httptest.NewRecorder()
		h.Create(rec, req)

		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
		}
		for _, b := range repo.bookings {
			if b.UserEmail != "body@example.com" {
				t.Fatalf("expected body email persisted case-folded, got %q", b.UserEmail)
			}
		}
	})

	t.Run("token email wins over the body", func(t *testing.T) {
		h, repo := newTestBookingHandler()
		claims := &auth.Claims{UserID: "u-1", Email: "owner@example.com", Role: "user"}
		req := httptest.NewRequest("POST", "/api/bookings", strings.NewReader(body))
		req = req.WithContext(context.WithValue(req.Context(), middleware.ClaimsContextKey{}, claims))
		rec := httptest.NewRecorder()
		h.Create(rec, req)

		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
		}
		for _, b := range repo.bookings {
			if b.UserEmail != "owner@example.com" {
				t.Fatalf("authenticated booking must belong to the token subject, got %q", b.UserEmail)
			}
		}
	})
}

func TestCreateBookingHandlerRejectsBadDates(t *testing.T) {
	h, repo := newTestBookingHandler()

	body := `{
		"room_id": "room-1",
		"guest_name": "John Doe",
		"check_in_date": "2025-06-03",
		"check_out_date": "2025-06-01",
		"guests": 2
	}`
	req := httptest.NewRequest("POST", "/api/bookings", strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.Create(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}

	var errBody map[string]string
	json.NewDecoder(rec.Body).Decode(&errBody)
	if errBody["detail"] == "" {
		t.Fatalf("error body must carry a detail field: %s", rec.Body.String())
	}
	if len(repo.bookings) != 0 {
		t.Fatal("nothing may be persisted on a rejected request")
	}
}

func TestCreateBookingHandlerRejectsGarbageJSON(t *testing.T) {
	h, _ := newTestBookingHandler()

	req := httptest.NewRequest("POST", "/api/bookings", strings.NewReader("{not json"))
	rec := httptest.NewRecorder()
	h.Create(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for malformed JSON, got %d", rec.Code)
	}
}

func TestGetBookingHandlerNotFound(t *testing.T) {
	h, _ := newTestBookingHandler()

	req := httptest.NewRequest("GET", "/api/bookings/missing", nil)
	req.SetPathValue("id", "missing")
	rec := httptest.NewRecorder()
	h.Get(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}

	var errBody map[string]string
	json.NewDecoder(rec.Body).Decode(&errBody)
	if errBody["detail"] == "" {
		t.Fatal("error body must carry a detail field")
	}
}

func TestPublicListStripsOwnerEmail(t *testing.T) {
	h, repo := newTestBookingHandler()
	repo.bookings["b-1"] = &domain.Booking{
		ID:        "b-1",
		RoomID:    "room-1",
		GuestName: "John Doe",
		Status:    domain.StatusConfirmed,
		UserEmail: "john@example.com",
	}

	req := httptest.NewRequest("GET", "/api/bookings", nil)
	rec := httptest.NewRecorder()
	h.List(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if strings.Contains(rec.Body.String(), "john@example.com") {
		t.Fatal("public listing must not expose owner emails")
	}
}

func newTestAdminHandler() (*AdminHandler, *stubBookingRepo) {
	bookingRepo := &stubBookingRepo{bookings: map[string]*domain.Booking{}}
	adminService := service.NewAdminService(nil, bookingRepo, events.NewHub(), nil, nil)
	return NewAdminHandler(adminService, nil, nil), bookingRepo
}

func TestIndexHandler(t *testing.T) {
	req := httptest.NewRequest("GET", "/", nil)
	rec := httptest.NewRecorder()
	Index(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var body struct {
		Message   string            `json:"message"`
		Version   string            `json:"version"`
		Endpoints map[string]string `json:"endpoints"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("bad response body: %v", err)
	}
	if body.Message == "" || body.Version == "" {
		t.Fatalf("index must carry a message and version: %+v", body)
	}
	if body.Endpoints["rooms"] != "/api/rooms" {
		t.Fatalf("index must map the rooms endpoint, got %q", body.Endpoints["rooms"])
	}
}

func TestAdminListBookingsFreeTextFilter(t *testing.T) {
	h, repo := newTestAdminHandler()

	req := httptest.NewRequest("GET", "/api/admin/bookings?q=ocean&status=confirmed", nil)
	rec := httptest.NewRecorder()
	h.ListBookings(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if repo.lastList.Query != "ocean" {
		t.Fatalf("q parameter must reach the data layer, got %q", repo.lastList.Query)
	}
	if repo.lastList.Status != domain.StatusConfirmed {
		t.Fatalf("status filter must reach the data layer, got %q", repo.lastList.Status)
	}
}

func TestAdminUpdateBookingStatus(t *testing.T) {
	h, repo := newTestAdminHandler()
	repo.bookings["b-1"] = &domain.Booking{ID: "b-1", Status: domain.StatusPending}

	req := httptest.NewRequest("PATCH", "/api/admin/bookings/b-1",
		strings.NewReader(`{"status":"confirmed"}`))
	req.SetPathValue("id", "b-1")
	rec := httptest.NewRecorder()
	h.UpdateBooking(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if repo.bookings["b-1"].Status != domain.StatusConfirmed {
		t.Fatalf("status not applied: %s", repo.bookings["b-1"].Status)
	}
}

func TestAdminUpdateBookingInvalidTransition(t *testing.T) {
	h, repo := newTestAdminHandler()
	repo.bookings["b-1"] = &domain.Booking{ID: "b-1", Status: domain.StatusPending}

	req := httptest.NewRequest("PATCH", "/api/admin/bookings/b-1",
		strings.NewReader(`{"status":"completed"}`))
	req.SetPathValue("id", "b-1")
	rec := httptest.NewRecorder()
	h.UpdateBooking(rec, req)

	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422 for pending -> completed, got %d", rec.Code)
	}
	if repo.bookings["b-1"].Status != domain.StatusPending {
		t.Fatal("rejected transition must not change the booking")
	}
}

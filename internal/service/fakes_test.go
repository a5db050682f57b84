package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/yourorg/roomreserve/internal/domain"
)

type memUserRepo struct {
	byID map[string]*domain.User
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{byID: map[string]*domain.User{}}
}

func (m *memUserRepo) Create(u *domain.User) error {
	for _, existing := range m.byID {
		if strings.EqualFold(existing.Email, u.Email) {
			return fmt.Errorf("user with email %s: %w", u.Email, domain.ErrConflict)
		}
	}
	if u.CreatedAt.IsZero() {
		u.CreatedAt = time.Now()
	}
	m.byID[u.ID] = u
	return nil
}

func (m *memUserRepo) GetByID(id string) (*domain.User, error) {
	if u, ok := m.byID[id]; ok {
		return u, nil
	}
	return nil, fmt.Errorf("user: %w", domain.ErrNotFound)
}

func (m *memUserRepo) GetByEmail(email string) (*domain.User, error) {
	for _, u := range m.byID {
		if strings.EqualFold(u.Email, email) {
			return u, nil
		}
	}
	return nil, fmt.Errorf("user: %w", domain.ErrNotFound)
}

func (m *memUserRepo) Update(u *domain.User) error {
	if _, ok := m.byID[u.ID]; !ok {
		return fmt.Errorf("user %s: %w", u.ID, domain.ErrNotFound)
	}
	m.byID[u.ID] = u
	return nil
}

func (m *memUserRepo) Delete(id string) error {
	if _, ok := m.byID[id]; !ok {
		return fmt.Errorf("user %s: %w", id, domain.ErrNotFound)
	}
	delete(m.byID, id)
	return nil
}

func (m *memUserRepo) List(opts domain.UserListOptions) ([]*domain.User, error) {
	out := []*domain.User{}
	for _, u := range m.byID {
		if opts.Query != "" &&
			!strings.Contains(strings.ToLower(u.Email), strings.ToLower(opts.Query)) &&
			!strings.Contains(strings.ToLower(u.FullName), strings.ToLower(opts.Query)) {
			continue
		}
		out = append(out, u)
	}
	return out, nil
}

func (m *memUserRepo) Stats() (*domain.UserStats, error) {
	stats := &domain.UserStats{}
	for _, u := range m.byID {
		stats.Total++
		if u.IsActive {
			stats.Active++
		}
		if u.Role == domain.RoleAdmin {
			stats.Admins++
		}
	}
	return stats, nil
}

func (m *memUserRepo) CountCreatedSince(since time.Time) (int, error) {
	count := 0
	for _, u := range m.byID {
		if !u.CreatedAt.Before(since) {
			count++
		}
	}
	return count, nil
}

type memRoomRepo struct {
	byID map[string]*domain.Room
}

func newMemRoomRepo(rooms ...*domain.Room) *memRoomRepo {
	m := &memRoomRepo{byID: map[string]*domain.Room{}}
	for _, r := range rooms {
		m.byID[r.ID] = r
	}
	return m
}

func (m *memRoomRepo) GetByID(id string) (*domain.Room, error) {
	if r, ok := m.byID[id]; ok {
		return r, nil
	}
	return nil, fmt.Errorf("room: %w", domain.ErrNotFound)
}

func (m *memRoomRepo) List() ([]*domain.Room, error) {
	out := []*domain.Room{}
	for _, r := range m.byID {
		out = append(out, r)
	}
	return out, nil
}

func (m *memRoomRepo) Create(r *domain.Room) error {
	m.byID[r.ID] = r
	return nil
}

func (m *memRoomRepo) Count() (int, error) {
	return len(m.byID), nil
}

type memBookingRepo struct {
	byID map[string]*domain.Booking
}

func newMemBookingRepo() *memBookingRepo {
	return &memBookingRepo{byID: map[string]*domain.Booking{}}
}

func (m *memBookingRepo) Create(b *domain.Booking) error {
	m.byID[b.ID] = b
	return nil
}

func (m *memBookingRepo) GetByID(id string) (*domain.Booking, error) {
	if b, ok := m.byID[id]; ok {
		copied := *b
		return &copied, nil
	}
	return nil, fmt.Errorf("booking: %w", domain.ErrNotFound)
}

func (m *memBookingRepo) List(opts domain.BookingListOptions) ([]*domain.Booking, error) {
	out := []*domain.Booking{}
	for _, b := range m.byID {
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

func (m *memBookingRepo) UpdateStatus(id string, status domain.BookingStatus) error {
	b, ok := m.byID[id]
	if !ok {
		return fmt.Errorf("booking %s: %w", id, domain.ErrNotFound)
	}
	b.Status = status
	return nil
}

func (m *memBookingRepo) Delete(id string) error {
	if _, ok := m.byID[id]; !ok {
		return fmt.Errorf("booking %s: %w", id, domain.ErrNotFound)
	}
	delete(m.byID, id)
	return nil
}

func (m *memBookingRepo) Stats() (*domain.BookingStats, error) {
	stats := &domain.BookingStats{}
	for _, b := range m.byID {
		stats.Total++
		switch b.Status {
		case domain.StatusPending:
			stats.Pending++
		case domain.StatusConfirmed:
			stats.Confirmed++
			stats.Revenue += b.TotalPrice
		case domain.StatusCancelled:
			stats.Cancelled++
		case domain.StatusCompleted:
			stats.Completed++
		}
	}
	return stats, nil
}

func (m *memBookingRepo) ListCreatedSince(since time.Time) ([]*domain.Booking, error) {
	out := []*domain.Booking{}
	for _, b := range m.byID {
		if !b.BookingDate.Before(since) {
			copied := *b
			out = append(out, &copied)
		}
	}
	return out, nil
}

type memRevoker struct {
	revoked map[string]time.Time
	err     error
}

func newMemRevoker() *memRevoker {
	return &memRevoker{revoked: map[string]time.Time{}}
}

func (m *memRevoker) Revoke(ctx context.Context, tokenID string, expiresAt time.Time) error {
	if m.err != nil {
		return m.err
	}
	m.revoked[tokenID] = expiresAt
	return nil
}

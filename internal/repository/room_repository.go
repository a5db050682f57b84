package repository

import (
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/lib/pq"

	"github.com/yourorg/roomreserve/internal/domain"
)

// PostgresRoomRepository implements domain.RoomRepository using PostgreSQL
type PostgresRoomRepository struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewPostgresRoomRepository creates a new room repository
func NewPostgresRoomRepository(db *sql.DB, logger *slog.Logger) *PostgresRoomRepository {
	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresRoomRepository{
		db:     db,
		logger: logger,
	}
}

// Create inserts a catalog entry. Only the seeder calls this; rooms are
// immutable afterwards.
func (r *PostgresRoomRepository) Create(room *domain.Room) error {
	query := `
		INSERT INTO rooms (id, name, description, price_per_night, image_url, amenities, max_guests)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := r.db.Exec(
		query,
		room.ID,
		room.Name,
		room.Description,
		room.PricePerNight,
		room.ImageURL,
		pq.Array(room.Amenities),
		room.MaxGuests,
	)
	if err != nil {
		r.logger.Error("failed to create room",
			slog.String("name", room.Name),
			slog.String("error", err.Error()),
		)
		return fmt.Errorf("failed to create room: %w", err)
	}

	return nil
}

// GetByID retrieves a room by ID
func (r *PostgresRoomRepository) GetByID(id string) (*domain.Room, error) {
	query := `
		SELECT id, name, description, price_per_night, image_url, amenities, max_guests
		FROM rooms
		WHERE id = $1
	`

	room := &domain.Room{}
	err := r.db.QueryRow(query, id).Scan(
		&room.ID,
		&room.Name,
		&room.Description,
		&room.PricePerNight,
		&room.ImageURL,
		pq.Array(&room.Amenities),
		&room.MaxGuests,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("room %s: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get room: %w", err)
	}

	return room, nil
}

// List returns the whole catalog ordered by price.
func (r *PostgresRoomRepository) List() ([]*domain.Room, error) {
	query := `
		SELECT id, name, description, price_per_night, image_url, amenities, max_guests
		FROM rooms
		ORDER BY price_per_night ASC
	`

	rows, err := r.db.Query(query)
	if err != nil {
		r.logger.Error("failed to list rooms", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to list rooms: %w", err)
	}
	defer rows.Close()

	var rooms []*domain.Room
	for rows.Next() {
		room := &domain.Room{}
		err := rows.Scan(
			&room.ID,
			&room.Name,
			&room.Description,
			&room.PricePerNight,
			&room.ImageURL,
			pq.Array(&room.Amenities),
			&room.MaxGuests,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan room: %w", err)
		}
		rooms = append(rooms, room)
	}

	return rooms, rows.Err()
}

// Count returns the catalog size; the seeder uses it to run only once.
func (r *PostgresRoomRepository) Count() (int, error) {
	var count int
	if err := r.db.QueryRow(`SELECT count(*) FROM rooms`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count rooms: %w", err)
	}
	return count, nil
}

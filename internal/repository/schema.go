package repository

import (
	"context"
	"database/sql"
	"fmt"
)

// schema creates the three tables on first start. Every operation is a
// single-row read or write, so no migration tooling is carried; additive
// changes go here.
const schema = `
CREATE TABLE IF NOT EXISTS users (
	id            TEXT PRIMARY KEY,
	email         TEXT NOT NULL UNIQUE,
	password_hash TEXT NOT NULL,
	full_name     TEXT NOT NULL DEFAULT '',
	role          TEXT NOT NULL DEFAULT 'user',
	is_active     BOOLEAN NOT NULL DEFAULT true,
	created_at    TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS rooms (
	id              TEXT PRIMARY KEY,
	name            TEXT NOT NULL,
	description     TEXT NOT NULL DEFAULT '',
	price_per_night DOUBLE PRECISION NOT NULL,
	image_url       TEXT NOT NULL DEFAULT '',
	amenities       TEXT[] NOT NULL DEFAULT '{}',
	max_guests      INTEGER NOT NULL DEFAULT 2
);

CREATE TABLE IF NOT EXISTS bookings (
	id             TEXT PRIMARY KEY,
	room_id        TEXT NOT NULL,
	room_name      TEXT NOT NULL,
	guest_name     TEXT NOT NULL,
	check_in_date  TEXT NOT NULL,
	check_out_date TEXT NOT NULL,
	guests         INTEGER NOT NULL,
	total_price    DOUBLE PRECISION NOT NULL,
	status         TEXT NOT NULL DEFAULT 'confirmed',
	booking_date   TIMESTAMPTZ NOT NULL DEFAULT now(),
	user_email     TEXT NOT NULL DEFAULT ''
);

CREATE INDEX IF NOT EXISTS idx_bookings_status ON bookings (status);
CREATE INDEX IF NOT EXISTS idx_bookings_user_email ON bookings (user_email);
CREATE INDEX IF NOT EXISTS idx_bookings_booking_date ON bookings (booking_date DESC);
`

// EnsureSchema creates the tables and indexes if they do not exist.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to ensure schema: %w", err)
	}
	return nil
}

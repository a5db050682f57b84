package domain

// Room is a static catalog entry. Rooms are seeded once at startup and are
// immutable afterwards; bookings keep a name snapshot rather than a live join.
type Room struct {
	ID            string   `json:"id"` // UUID
	Name          string   `json:"name"`
	Description   string   `json:"description"`
	PricePerNight float64  `json:"price_per_night"`
	ImageURL      string   `json:"image_url"`
	Amenities     []string `json:"amenities"`
	MaxGuests     int      `json:"max_guests"`
}

// RoomRepository defines data access for the room catalog.
type RoomRepository interface {
	GetByID(id string) (*Room, error)
	List() ([]*Room, error)
	Create(room *Room) error
	Count() (int, error)
}

package service

import (
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/yourorg/roomreserve/internal/domain"
	"github.com/yourorg/roomreserve/pkg/cache"
)

const (
	roomCatalogCacheKey = "rooms:all"
	roomCacheTTL        = 5 * time.Minute
)

// RoomService serves the room catalog. The catalog is small and changes
// rarely, so reads go through an in-memory cache.
type RoomService struct {
	roomRepo domain.RoomRepository
	cache    *cache.Cache
	logger   *slog.Logger
}

// NewRoomService creates a new room catalog service
func NewRoomService(roomRepo domain.RoomRepository, c *cache.Cache, logger *slog.Logger) *RoomService {
	if logger == nil {
		logger = slog.Default()
	}
	return &RoomService{
		roomRepo: roomRepo,
		cache:    c,
		logger:   logger,
	}
}

// ListRooms returns every room in the catalog, cheapest first.
func (s *RoomService) ListRooms() ([]*domain.Room, error) {
	if s.cache != nil {
		if cached, ok := s.cache.Get(roomCatalogCacheKey); ok {
			if rooms, ok := cached.([]*domain.Room); ok {
				return rooms, nil
			}
		}
	}

	rooms, err := s.roomRepo.List()
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		s.cache.Set(roomCatalogCacheKey, rooms, roomCacheTTL)
	}
	return rooms, nil
}

// GetRoom returns a single room by id.
func (s *RoomService) GetRoom(id string) (*domain.Room, error) {
	if s.cache != nil {
		if cached, ok := s.cache.Get("room:" + id); ok {
			if room, ok := cached.(*domain.Room); ok {
				return room, nil
			}
		}
	}

	room, err := s.roomRepo.GetByID(id)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		s.cache.Set("room:"+id, room, roomCacheTTL)
	}
	return room, nil
}

// EnsureSeedData populates the catalog with the starter rooms when the
// table is empty. Safe to call on every startup.
func (s *RoomService) EnsureSeedData() error {
	count, err := s.roomRepo.Count()
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	for _, room := range seedRooms() {
		if err := s.roomRepo.Create(room); err != nil {
			return err
		}
	}

	s.logger.Info("seeded room catalog", slog.Int("rooms", len(seedRooms())))
	return nil
}

func seedRooms() []*domain.Room {
	return []*domain.Room{
		{
			ID:            uuid.NewString(),
			Name:          "Deluxe Ocean View Suite",
			Description:   "Spacious suite with breathtaking ocean views, king-size bed, private balcony, and luxury amenities. Perfect for a romantic getaway.",
			PricePerNight: 299.99,
			ImageURL:      "https://images.unsplash.com/photo-1582719478250-c89cae4dc85b?w=800&q=80",
			Amenities:     []string{"Ocean View", "King Bed", "Private Balcony", "Mini Bar", "WiFi"},
			MaxGuests:     2,
		},
		{
			ID:            uuid.NewString(),
			Name:          "Executive Business Room",
			Description:   "Modern room designed for business travelers with a comfortable workspace, high-speed internet, and premium coffee maker.",
			PricePerNight: 189.99,
			ImageURL:      "https://images.unsplash.com/photo-1566665797739-1674de7a421a?w=800&q=80",
			Amenities:     []string{"Work Desk", "High-Speed WiFi", "Coffee Maker", "Queen Bed"},
			MaxGuests:     2,
		},
		{
			ID:            uuid.NewString(),
			Name:          "Family Garden Suite",
			Description:   "Spacious two-bedroom suite with garden access, perfect for families. Includes a living area and kitchenette.",
			PricePerNight: 349.99,
			ImageURL:      "https://images.unsplash.com/photo-1590490360182-c33d57733427?w=800&q=80",
			Amenities:     []string{"2 Bedrooms", "Garden View", "Kitchenette", "Living Area", "WiFi"},
			MaxGuests:     4,
		},
		{
			ID:            uuid.NewString(),
			Name:          "Cozy Standard Room",
			Description:   "Comfortable and affordable room with all essential amenities. Perfect for solo travelers or couples on a budget.",
			PricePerNight: 129.99,
			ImageURL:      "https://images.unsplash.com/photo-1631049307264-da0ec9d70304?w=800&q=80",
			Amenities:     []string{"Double Bed", "WiFi", "TV", "Air Conditioning"},
			MaxGuests:     2,
		},
		{
			ID:            uuid.NewString(),
			Name:          "Presidential Penthouse",
			Description:   "Ultimate luxury penthouse with panoramic city views, private terrace, jacuzzi, and personalized concierge service.",
			PricePerNight: 799.99,
			ImageURL:      "https://images.unsplash.com/photo-1578683010236-d716f9a3f461?w=800&q=80",
			Amenities:     []string{"Panoramic View", "Private Terrace", "Jacuzzi", "Concierge", "King Bed", "WiFi"},
			MaxGuests:     2,
		},
		{
			ID:            uuid.NewString(),
			Name:          "Mountain View Cabin",
			Description:   "Rustic yet elegant cabin with stunning mountain views, fireplace, and a cozy atmosphere for nature lovers.",
			PricePerNight: 249.99,
			ImageURL:      "https://images.unsplash.com/photo-1596394516093-501ba68a0ba6?w=800&q=80",
			Amenities:     []string{"Mountain View", "Fireplace", "Queen Bed", "WiFi", "Balcony"},
			MaxGuests:     2,
		},
	}
}

package handler

import (
	"log/slog"
	"net/http"

	"github.com/yourorg/roomreserve/internal/service"
)

// RoomHandler serves the public room catalog.
type RoomHandler struct {
	rooms  *service.RoomService
	logger *slog.Logger
}

// NewRoomHandler creates a new room handler
func NewRoomHandler(rooms *service.RoomService, logger *slog.Logger) *RoomHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &RoomHandler{rooms: rooms, logger: logger}
}

// List handles GET /api/rooms
func (h *RoomHandler) List(w http.ResponseWriter, r *http.Request) {
	rooms, err := h.rooms.ListRooms()
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, rooms)
}

// Get handles GET /api/rooms/{id}
func (h *RoomHandler) Get(w http.ResponseWriter, r *http.Request) {
	room, err := h.rooms.GetRoom(r.PathValue("id"))
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, room)
}

package handler

import "net/http"

// Index handles GET /, a small self-describing API index so the root URL
// answers with something more useful than a 404.
func Index(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"message": "Welcome to RoomReserve API",
		"version": "1.0.0",
		"endpoints": map[string]string{
			"rooms":          "/api/rooms",
			"bookings":       "/api/bookings",
			"create_booking": "/api/bookings (POST)",
			"register":       "/api/auth/register (POST)",
			"login":          "/api/auth/login (POST)",
			"me":             "/api/auth/me (GET - requires auth)",
		},
	})
}

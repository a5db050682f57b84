package featureflags

import (
	"os"
	"strings"
)

// BookingApproval switches the public booking flow to create bookings in
// the pending state for admin approval instead of confirming immediately.
const BookingApproval = "BOOKING_APPROVAL"

// Enabled returns true if a flag is enabled via environment variable.
// Flags are read from env as FLAG_<NAME>=true/1/yes/on (case-insensitive)
func Enabled(name string) bool {
	v := os.Getenv("FLAG_" + strings.ToUpper(name))
	switch strings.ToLower(v) {
	case "1", "true", "yes", "on":
		return true
	default:
		return false
	}
}

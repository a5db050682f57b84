package metrics

import "testing"

func TestRouteTemplate(t *testing.T) {
	cases := []struct{ path, want string }{
		{"/api/rooms", "/api/rooms"},
		{"/api/rooms/0b55e1c2", "/api/rooms/{id}"},
		{"/api/bookings", "/api/bookings"},
		{"/api/bookings/0b55e1c2", "/api/bookings/{id}"},
		{"/api/bookings/guest/John%20Doe", "/api/bookings/guest/{name}"},
		{"/api/admin/users/0b55e1c2", "/api/admin/users/{id}"},
		{"/api/admin/bookings/0b55e1c2", "/api/admin/bookings/{id}"},
		{"/api/admin/stats", "/api/admin/stats"},
		{"/healthz", "/healthz"},
	}
	for _, tc := range cases {
		if got := routeTemplate(tc.path); got != tc.want {
			t.Errorf("routeTemplate(%q) = %q, want %q", tc.path, got, tc.want)
		}
	}
}

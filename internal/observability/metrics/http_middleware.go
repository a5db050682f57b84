package metrics

import (
	"net/http"
	"strconv"
	"strings"
	"time"
)

// HTTPMetricsMiddleware records a counter and latency observation per
// request. Paths are collapsed to their route template first: booking and
// user ids are UUIDs, so labelling by raw path would grow one series per
// row.
func HTTPMetricsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := &statusWriter{ResponseWriter: w, status: 200}
		next.ServeHTTP(ww, r)
		dur := time.Since(start)
		ObserveHTTPRequest(r.Method, routeTemplate(r.URL.Path), strconv.Itoa(ww.status), dur)
	})
}

// templatedPrefixes are the routes whose final segment is a caller-chosen
// identifier.
var templatedPrefixes = []struct{ prefix, template string }{
	{"/api/bookings/guest/", "/api/bookings/guest/{name}"},
	{"/api/bookings/", "/api/bookings/{id}"},
	{"/api/rooms/", "/api/rooms/{id}"},
	{"/api/admin/users/", "/api/admin/users/{id}"},
	{"/api/admin/bookings/", "/api/admin/bookings/{id}"},
}

func routeTemplate(path string) string {
	for _, t := range templatedPrefixes {
		if strings.HasPrefix(path, t.prefix) && len(path) > len(t.prefix) {
			return t.template
		}
	}
	return path
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

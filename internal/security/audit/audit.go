package audit

import (
	"context"
	"log/slog"
	"time"
)

// Logger emits structured audit events for booking creation and admin
// mutations. Events go to the application log; there is no separate store.
type Logger struct {
	logger *slog.Logger
}

func NewLogger(logger *slog.Logger) *Logger {
	return &Logger{logger: logger}
}

// RequestIDKey is the context key under which the request ID middleware
// stores the ID, so audit events can be correlated with access logs.
type RequestIDKey struct{}

func (al *Logger) LogAction(ctx context.Context, actorEmail, action, resource, resourceID, status, details string) {
	requestID := ""
	if reqID := ctx.Value(RequestIDKey{}); reqID != nil {
		requestID, _ = reqID.(string)
	}

	al.logger.Info("audit",
		slog.String("action", action),
		slog.String("resource", resource),
		slog.String("resource_id", resourceID),
		slog.String("actor", actorEmail),
		slog.String("status", status),
		slog.String("details", details),
		slog.String("request_id", requestID),
		slog.Time("timestamp", time.Now()),
	)
}

func (al *Logger) LogBookingCreated(ctx context.Context, actorEmail, bookingID, details string) {
	al.LogAction(ctx, actorEmail, "create", "booking", bookingID, "created", details)
}

func (al *Logger) LogStatusChange(ctx context.Context, actorEmail, bookingID, from, to string) {
	al.LogAction(ctx, actorEmail, "update_status", "booking", bookingID, "updated", from+" -> "+to)
}

func (al *Logger) LogAdminMutation(ctx context.Context, actorEmail, action, resource, resourceID string) {
	al.LogAction(ctx, actorEmail, action, resource, resourceID, "ok", "")
}

func (al *Logger) LogDenied(ctx context.Context, actorEmail, reason string) {
	al.LogAction(ctx, actorEmail, "access_denied", "api", "", "denied", reason)
}

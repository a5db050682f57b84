package security

import (
	"fmt"
	"log/slog"

	"github.com/yourorg/roomreserve/internal/domain"
)

// Permission represents an action permission
type Permission string

const (
	PermCreateBooking   Permission = "create_booking"
	PermViewOwnBookings Permission = "view_own_bookings"
	PermManageBookings  Permission = "manage_bookings"
	PermManageUsers     Permission = "manage_users"
	PermViewStats       Permission = "view_stats"
	PermViewReports     Permission = "view_reports"
	PermWatchEvents     Permission = "watch_events"
)

// RolePermissions maps roles to their permissions
var RolePermissions = map[domain.Role][]Permission{
	domain.RoleAdmin: {
		PermCreateBooking,
		PermViewOwnBookings,
		PermManageBookings,
		PermManageUsers,
		PermViewStats,
		PermViewReports,
		PermWatchEvents,
	},
	domain.RoleUser: {
		PermCreateBooking,
		PermViewOwnBookings,
	},
}

// AuthorizationService handles authorization checks
type AuthorizationService struct {
	logger *slog.Logger
}

// NewAuthorizationService creates a new authorization service
func NewAuthorizationService(logger *slog.Logger) *AuthorizationService {
	if logger == nil {
		logger = slog.Default()
	}
	return &AuthorizationService{
		logger: logger,
	}
}

// HasPermission checks if a role has a specific permission
func (as *AuthorizationService) HasPermission(role domain.Role, permission Permission) bool {
	permissions, exists := RolePermissions[role]
	if !exists {
		return false
	}
	for _, p := range permissions {
		if p == permission {
			return true
		}
	}
	return false
}

// ValidatePermission validates that a role has a specific permission
func (as *AuthorizationService) ValidatePermission(role domain.Role, permission Permission) error {
	if !as.HasPermission(role, permission) {
		as.logger.Warn("permission denied",
			slog.String("role", string(role)),
			slog.String("permission", string(permission)),
		)
		return fmt.Errorf("%s role cannot %s: %w", role, permission, domain.ErrForbidden)
	}
	return nil
}

// GetRolePermissions returns all permissions for a role
func (as *AuthorizationService) GetRolePermissions(role domain.Role) []Permission {
	return RolePermissions[role]
}

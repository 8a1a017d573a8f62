package services

import (
	"context"

	"tourist-hub-api/internal/logger"
	"tourist-hub-api/internal/models"
	"tourist-hub-api/internal/repositories"
)

// Operation identifies a guarded domain operation in the capability table
type Operation string

const (
	OpCreateProvider     Operation = "provider.create"
	OpUpdateProvider     Operation = "provider.update"
	OpDeleteProvider     Operation = "provider.delete"
	OpViewProvider       Operation = "provider.view"
	OpManageUsers        Operation = "user.manage"
	OpManageTemplate     Operation = "template.manage"
	OpCreateTourEvent    Operation = "tour_event.create"
	OpUpdateTourEvent    Operation = "tour_event.update"
	OpDeleteTourEvent    Operation = "tour_event.delete"
	OpRegisterForTour    Operation = "registration.create"
	OpApproveRegistration Operation = "registration.approve"
	OpRejectRegistration Operation = "registration.reject"
	OpCancelRegistration Operation = "registration.cancel"
	OpViewRegistrations  Operation = "registration.view"
	OpManageActivity     Operation = "activity.manage"
	OpManageDocument     Operation = "document.manage"
)

// scope expresses how far a role's permission for an operation reaches
type scope int

const (
	scopeNone        scope = iota // role may not perform the operation
	scopeAny                      // no ownership restriction
	scopeOwnProvider              // resource must belong to the caller's provider
	scopeSelf                     // resource must be owned by the caller
)

// capabilities is the single table all write-side access decisions come from.
// Tourists act only on their own resources; provider admins stay inside their
// tenant; system admins are unrestricted.
var capabilities = map[Operation]map[string]scope{
	OpCreateProvider: {
		models.RoleSystemAdmin: scopeAny,
	},
	OpUpdateProvider: {
		models.RoleSystemAdmin:   scopeAny,
		models.RoleProviderAdmin: scopeOwnProvider,
	},
	OpDeleteProvider: {
		models.RoleSystemAdmin: scopeAny,
	},
	OpViewProvider: {
		models.RoleSystemAdmin:   scopeAny,
		models.RoleProviderAdmin: scopeOwnProvider,
	},
	OpManageUsers: {
		models.RoleSystemAdmin:   scopeAny,
		models.RoleProviderAdmin: scopeOwnProvider,
	},
	OpManageTemplate: {
		models.RoleSystemAdmin: scopeAny,
	},
	OpCreateTourEvent: {
		models.RoleSystemAdmin:   scopeAny,
		models.RoleProviderAdmin: scopeOwnProvider,
	},
	OpUpdateTourEvent: {
		models.RoleSystemAdmin:   scopeAny,
		models.RoleProviderAdmin: scopeOwnProvider,
	},
	OpDeleteTourEvent: {
		models.RoleSystemAdmin:   scopeAny,
		models.RoleProviderAdmin: scopeOwnProvider,
	},
	OpRegisterForTour: {
		models.RoleTourist: scopeSelf,
	},
	OpApproveRegistration: {
		models.RoleSystemAdmin:   scopeAny,
		models.RoleProviderAdmin: scopeOwnProvider,
	},
	OpRejectRegistration: {
		models.RoleSystemAdmin:   scopeAny,
		models.RoleProviderAdmin: scopeOwnProvider,
	},
	OpCancelRegistration: {
		models.RoleSystemAdmin:   scopeAny,
		models.RoleProviderAdmin: scopeOwnProvider,
		models.RoleTourist:       scopeSelf,
	},
	OpViewRegistrations: {
		models.RoleSystemAdmin:   scopeAny,
		models.RoleProviderAdmin: scopeOwnProvider,
		models.RoleTourist:       scopeSelf,
	},
	OpManageActivity: {
		models.RoleSystemAdmin:   scopeAny,
		models.RoleProviderAdmin: scopeOwnProvider,
	},
	OpManageDocument: {
		models.RoleSystemAdmin:   scopeAny,
		models.RoleProviderAdmin: scopeOwnProvider,
		models.RoleTourist:       scopeSelf,
	},
}

// authorizationService implements AuthorizationService
type authorizationService struct {
	logger *logger.Logger
}

// NewAuthorizationService creates a new authorization service
func NewAuthorizationService(logger *logger.Logger) AuthorizationService {
	return &authorizationService{logger: logger}
}

// Authorize checks the capability table for the caller's role and verifies
// ownership according to the entry's scope. Callers must resolve resource
// existence before invoking this, so permission failures never reveal
// whether another tenant's resource exists.
func (s *authorizationService) Authorize(user *models.User, op Operation, resourceProviderID, resourceOwnerUserID string) error {
	if user == nil || !user.IsActive {
		return &models.InsufficientPermissionsError{Operation: string(op), Role: "anonymous"}
	}

	roleScopes, ok := capabilities[op]
	if !ok {
		return &models.InsufficientPermissionsError{Operation: string(op), Role: user.Role}
	}

	switch roleScopes[user.Role] {
	case scopeAny:
		return nil
	case scopeOwnProvider:
		if resourceProviderID != "" && user.ProviderID == resourceProviderID {
			return nil
		}
	case scopeSelf:
		if resourceOwnerUserID != "" && user.ID == resourceOwnerUserID {
			return nil
		}
	}

	return &models.InsufficientPermissionsError{Operation: string(op), Role: user.Role}
}

// ScopeTourEvents returns the listing filter for the caller's role:
// system admins see everything, provider admins see their own tenant, and
// tourists see ACTIVE events plus any event they are registered for.
func (s *authorizationService) ScopeTourEvents(user *models.User) repositories.TourEventFilter {
	if user == nil || !user.IsActive {
		return repositories.TourEventFilter{Statuses: []string{}}
	}

	switch user.Role {
	case models.RoleSystemAdmin:
		return repositories.TourEventFilter{}
	case models.RoleProviderAdmin:
		return repositories.TourEventFilter{ProviderID: user.ProviderID}
	default:
		return repositories.TourEventFilter{VisibleToTouristID: user.ID}
	}
}

// LogSecurityViolation records a denied access attempt
func (s *authorizationService) LogSecurityViolation(ctx context.Context, user *models.User, op Operation, resourceID string) {
	userID := "anonymous"
	providerID := "unknown"
	role := "anonymous"

	if user != nil {
		userID = user.ID
		providerID = user.ProviderID
		role = user.Role
	}

	s.logger.WithField("user_id", userID).
		WithField("provider_id", providerID).
		WithField("role", role).
		WithField("operation", string(op)).
		WithField("resource_id", resourceID).
		Warn("Access denied")
}

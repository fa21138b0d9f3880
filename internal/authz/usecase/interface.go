// Package usecase implements authorization business logic: guard predicates
// evaluated against the cached permission graph and per-principal assignments.
package usecase

import (
	"context"

	"github.com/google/uuid"

	authzDomain "github.com/allisson/authd/internal/authz/domain"
	authzService "github.com/allisson/authd/internal/authz/service"
)

// AssignmentRepository defines persistence operations for principal assignments.
// Implementations must support transaction-aware operations via context propagation.
type AssignmentRepository interface {
	// ListAssignments returns all permission nodes assigned to a principal.
	ListAssignments(ctx context.Context, principalID uuid.UUID) ([]authzDomain.Assignment, error)

	// CreateAssignment grants a permission node to a principal.
	CreateAssignment(ctx context.Context, assignment *authzDomain.Assignment) error
}

// GraphProvider hands out the current permission graph snapshot.
type GraphProvider interface {
	Current(ctx context.Context) (*authzService.Graph, error)
}

// UseCase defines the authorization guard operations exposed to the request
// boundary. All checks are evaluated against a fresh-enough graph snapshot and
// the principal's assignments fetched once per call.
type UseCase interface {
	// IsAuthorized reports whether the principal may perform the action,
	// following role inheritance through the permission graph.
	IsAuthorized(ctx context.Context, principalID uuid.UUID, action string) (bool, error)

	// IsAdmin reports whether the admin role is directly assigned to the principal.
	IsAdmin(ctx context.Context, principalID uuid.UUID) (bool, error)

	// IsUser reports whether the user role is directly assigned to the principal.
	IsUser(ctx context.Context, principalID uuid.UUID) (bool, error)

	// RequireRole returns ErrForbidden unless the principal is authorized for
	// the named role, via IsAuthorized semantics.
	RequireRole(ctx context.Context, principalID uuid.UUID, role string) error

	// GrantRole assigns a permission node to a principal.
	GrantRole(ctx context.Context, principalID uuid.UUID, role string) error
}

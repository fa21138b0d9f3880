package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	authzDomain "github.com/allisson/authd/internal/authz/domain"
	authzService "github.com/allisson/authd/internal/authz/service"
	apperrors "github.com/allisson/authd/internal/errors"
)

// authzUseCase implements UseCase against the cached graph and the assignment store.
type authzUseCase struct {
	graphProvider  GraphProvider
	assignmentRepo AssignmentRepository
}

// NewAuthzUseCase creates a new authorization use case.
func NewAuthzUseCase(graphProvider GraphProvider, assignmentRepo AssignmentRepository) UseCase {
	return &authzUseCase{
		graphProvider:  graphProvider,
		assignmentRepo: assignmentRepo,
	}
}

// IsAuthorized evaluates the action against the principal's assignments.
// A principal without assignments is denied; store failures propagate as-is.
func (u *authzUseCase) IsAuthorized(
	ctx context.Context,
	principalID uuid.UUID,
	action string,
) (bool, error) {
	graph, assigned, err := u.snapshot(ctx, principalID)
	if err != nil {
		return false, err
	}
	return graph.IsAuthorized(assigned, action), nil
}

// IsAdmin checks direct membership of the admin role.
func (u *authzUseCase) IsAdmin(ctx context.Context, principalID uuid.UUID) (bool, error) {
	graph, assigned, err := u.snapshot(ctx, principalID)
	if err != nil {
		return false, err
	}
	return graph.IsAdmin(assigned), nil
}

// IsUser checks direct membership of the user role.
func (u *authzUseCase) IsUser(ctx context.Context, principalID uuid.UUID) (bool, error) {
	graph, assigned, err := u.snapshot(ctx, principalID)
	if err != nil {
		return false, err
	}
	return graph.IsUser(assigned), nil
}

// RequireRole returns ErrForbidden unless the principal is authorized for the role.
func (u *authzUseCase) RequireRole(ctx context.Context, principalID uuid.UUID, role string) error {
	authorized, err := u.IsAuthorized(ctx, principalID, role)
	if err != nil {
		return err
	}
	if !authorized {
		return apperrors.Wrap(apperrors.ErrForbidden, "missing role "+role)
	}
	return nil
}

// GrantRole assigns a permission node to a principal.
func (u *authzUseCase) GrantRole(ctx context.Context, principalID uuid.UUID, role string) error {
	assignment := &authzDomain.Assignment{
		PrincipalID: principalID,
		NodeName:    role,
		AssignedAt:  time.Now().UTC(),
	}
	return u.assignmentRepo.CreateAssignment(ctx, assignment)
}

// snapshot fetches the graph and the principal's assignment names once per check.
func (u *authzUseCase) snapshot(
	ctx context.Context,
	principalID uuid.UUID,
) (*authzService.Graph, []string, error) {
	g, err := u.graphProvider.Current(ctx)
	if err != nil {
		return nil, nil, err
	}

	assignments, err := u.assignmentRepo.ListAssignments(ctx, principalID)
	if err != nil {
		return nil, nil, err
	}

	return g, authzDomain.Names(assignments), nil
}

// RequireAuthenticated returns ErrUnauthorized when no principal identity is
// present. The request boundary resolves the identity from the bearer token;
// this is the guard protected handlers call before doing anything else.
func RequireAuthenticated(principalID *uuid.UUID) error {
	if principalID == nil {
		return apperrors.Unauthorizedf("not authenticated")
	}
	return nil
}

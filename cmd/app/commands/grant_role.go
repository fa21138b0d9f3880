package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"

	authzUseCase "github.com/allisson/authd/internal/authz/usecase"
	userUsecase "github.com/allisson/authd/internal/user/usecase"
)

// RunGrantRole grants a permission node to the user behind the email.
// The role takes effect for authorization checks once the cached permission
// graph refreshes; assignments themselves are read per request.
//
// Requirements: Database must be migrated and accessible, the user must exist
// and the role must be a registered permission node.
func RunGrantRole(
	ctx context.Context,
	userUseCase userUsecase.UseCase,
	authz authzUseCase.UseCase,
	logger *slog.Logger,
	w io.Writer,
	email string,
	role string,
	format string,
) error {
	if email == "" {
		return fmt.Errorf("email is required")
	}
	if role == "" {
		return fmt.Errorf("role is required")
	}

	user, err := userUseCase.GetUserByEmail(ctx, email)
	if err != nil {
		return fmt.Errorf("failed to find user %q: %w", email, err)
	}

	if err := authz.GrantRole(ctx, user.ID, role); err != nil {
		return fmt.Errorf("failed to grant role %q to %q: %w", role, email, err)
	}

	logger.Info("role granted",
		slog.String("principal_id", user.ID.String()),
		slog.String("role", role),
	)

	if format == "json" {
		result := map[string]interface{}{
			"principal_id": user.ID.String(),
			"email":        email,
			"role":         role,
		}

		jsonBytes, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal JSON: %w", err)
		}

		fmt.Fprintln(w, string(jsonBytes))
		return nil
	}

	fmt.Fprintf(w, "Granted role %q to %s\n", role, email)
	return nil
}

package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"

	authUseCase "github.com/allisson/authd/internal/auth/usecase"
)

// RunCleanExpiredSessions deletes session tokens whose refresh window has
// expired. Supports text and JSON output formats.
//
// Requirements: Database must be migrated and accessible.
func RunCleanExpiredSessions(
	ctx context.Context,
	sessionUseCase authUseCase.SessionUseCase,
	logger *slog.Logger,
	w io.Writer,
	format string,
) error {
	logger.Info("cleaning expired sessions")

	count, err := sessionUseCase.CleanExpired(ctx)
	if err != nil {
		return fmt.Errorf("failed to clean expired sessions: %w", err)
	}

	if format == "json" {
		if err := outputCleanExpiredJSON(w, count); err != nil {
			return err
		}
	} else {
		fmt.Fprintf(w, "Successfully deleted %d expired session(s)\n", count)
	}

	logger.Info("cleanup completed", slog.Int64("count", count))

	return nil
}

// outputCleanExpiredJSON outputs the result in JSON format for machine consumption.
func outputCleanExpiredJSON(w io.Writer, count int64) error {
	result := map[string]interface{}{
		"count": count,
	}

	jsonBytes, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	fmt.Fprintln(w, string(jsonBytes))
	return nil
}

// Package repository implements read-only persistence adapters for the
// authorization graph: permission nodes, inheritance edges, and assignments.
package repository

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	authzDomain "github.com/allisson/authd/internal/authz/domain"
	"github.com/allisson/authd/internal/database"
	apperrors "github.com/allisson/authd/internal/errors"
)

// PostgreSQLRBACRepository implements permission graph reads for PostgreSQL.
// Uses transaction support via database.GetTx(). The graph tables are
// provisioned out-of-band; this adapter never writes nodes or edges.
type PostgreSQLRBACRepository struct {
	db *sql.DB
}

// ListNodes returns a snapshot of all permission nodes.
func (p *PostgreSQLRBACRepository) ListNodes(ctx context.Context) ([]authzDomain.PermissionNode, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT name, kind, description, created_at, updated_at FROM permission_nodes`

	rows, err := querier.QueryContext(ctx, query)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list permission nodes")
	}
	defer rows.Close()

	var nodes []authzDomain.PermissionNode
	for rows.Next() {
		var node authzDomain.PermissionNode
		var description sql.NullString

		if err := rows.Scan(&node.Name, &node.Kind, &description, &node.CreatedAt, &node.UpdatedAt); err != nil {
			return nil, apperrors.Wrap(err, "failed to scan permission node")
		}
		node.Description = description.String
		nodes = append(nodes, node)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to iterate permission nodes")
	}

	return nodes, nil
}

// ListEdges returns a snapshot of all parent/child inheritance edges.
func (p *PostgreSQLRBACRepository) ListEdges(ctx context.Context) ([]authzDomain.PermissionEdge, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT parent, child FROM permission_edges`

	rows, err := querier.QueryContext(ctx, query)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list permission edges")
	}
	defer rows.Close()

	var edges []authzDomain.PermissionEdge
	for rows.Next() {
		var edge authzDomain.PermissionEdge

		if err := rows.Scan(&edge.Parent, &edge.Child); err != nil {
			return nil, apperrors.Wrap(err, "failed to scan permission edge")
		}
		edges = append(edges, edge)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to iterate permission edges")
	}

	return edges, nil
}

// ListAssignments returns all permission nodes assigned to a principal.
func (p *PostgreSQLRBACRepository) ListAssignments(
	ctx context.Context,
	principalID uuid.UUID,
) ([]authzDomain.Assignment, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT principal_id, node_name, assigned_at FROM assignments WHERE principal_id = $1`

	rows, err := querier.QueryContext(ctx, query, principalID)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list assignments")
	}
	defer rows.Close()

	var assignments []authzDomain.Assignment
	for rows.Next() {
		var assignment authzDomain.Assignment

		if err := rows.Scan(&assignment.PrincipalID, &assignment.NodeName, &assignment.AssignedAt); err != nil {
			return nil, apperrors.Wrap(err, "failed to scan assignment")
		}
		assignments = append(assignments, assignment)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to iterate assignments")
	}

	return assignments, nil
}

// CreateAssignment grants a permission node to a principal. Registration uses
// this to grant the default role; the graph itself stays read-only.
func (p *PostgreSQLRBACRepository) CreateAssignment(
	ctx context.Context,
	assignment *authzDomain.Assignment,
) error {
	querier := database.GetTx(ctx, p.db)

	query := `INSERT INTO assignments (principal_id, node_name, assigned_at) VALUES ($1, $2, $3)`

	_, err := querier.ExecContext(ctx, query, assignment.PrincipalID, assignment.NodeName, assignment.AssignedAt)
	if err != nil {
		return apperrors.Wrap(err, "failed to create assignment")
	}
	return nil
}

// NewPostgreSQLRBACRepository creates a new PostgreSQL permission graph repository.
func NewPostgreSQLRBACRepository(db *sql.DB) *PostgreSQLRBACRepository {
	return &PostgreSQLRBACRepository{db: db}
}

package repository

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	authzDomain "github.com/allisson/authd/internal/authz/domain"
	"github.com/allisson/authd/internal/database"
	apperrors "github.com/allisson/authd/internal/errors"
)

// MySQLRBACRepository implements permission graph reads for MySQL.
// UUIDs are stored as CHAR(36) strings. Uses transaction support via database.GetTx().
type MySQLRBACRepository struct {
	db *sql.DB
}

// ListNodes returns a snapshot of all permission nodes.
func (m *MySQLRBACRepository) ListNodes(ctx context.Context) ([]authzDomain.PermissionNode, error) {
	querier := database.GetTx(ctx, m.db)

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
func (m *MySQLRBACRepository) ListEdges(ctx context.Context) ([]authzDomain.PermissionEdge, error) {
	querier := database.GetTx(ctx, m.db)

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
func (m *MySQLRBACRepository) ListAssignments(
	ctx context.Context,
	principalID uuid.UUID,
) ([]authzDomain.Assignment, error) {
	querier := database.GetTx(ctx, m.db)

	query := `SELECT principal_id, node_name, assigned_at FROM assignments WHERE principal_id = ?`

	rows, err := querier.QueryContext(ctx, query, principalID.String())
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list assignments")
	}
	defer rows.Close()

	var assignments []authzDomain.Assignment
	for rows.Next() {
		var assignment authzDomain.Assignment
		var principal string

		if err := rows.Scan(&principal, &assignment.NodeName, &assignment.AssignedAt); err != nil {
			return nil, apperrors.Wrap(err, "failed to scan assignment")
		}

		parsed, err := uuid.Parse(principal)
		if err != nil {
			return nil, apperrors.Wrap(err, "failed to parse assignment principal id")
		}
		assignment.PrincipalID = parsed
		assignments = append(assignments, assignment)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to iterate assignments")
	}

	return assignments, nil
}

// CreateAssignment grants a permission node to a principal.
func (m *MySQLRBACRepository) CreateAssignment(
	ctx context.Context,
	assignment *authzDomain.Assignment,
) error {
	querier := database.GetTx(ctx, m.db)

	query := `INSERT INTO assignments (principal_id, node_name, assigned_at) VALUES (?, ?, ?)`

	_, err := querier.ExecContext(
		ctx,
		query,
		assignment.PrincipalID.String(),
		assignment.NodeName,
		assignment.AssignedAt,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to create assignment")
	}
	return nil
}

// NewMySQLRBACRepository creates a new MySQL permission graph repository.
func NewMySQLRBACRepository(db *sql.DB) *MySQLRBACRepository {
	return &MySQLRBACRepository{db: db}
}

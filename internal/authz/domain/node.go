// Package domain defines the authorization graph entities: permission nodes,
// the inheritance edges between them, and principal assignments.
package domain

import (
	"time"

	"github.com/google/uuid"
)

// NodeKind distinguishes assignable roles from addressable actions. Both live
// in the same graph; the kind is informational and does not affect evaluation.
type NodeKind int16

const (
	// NodeKindRole marks a node intended to be assigned to principals.
	NodeKindRole NodeKind = 1

	// NodeKindAction marks a node intended to be checked as an action.
	NodeKindAction NodeKind = 2
)

// PermissionNode is a named role or action in the authorization graph.
type PermissionNode struct {
	Name        string
	Kind        NodeKind
	Description string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// PermissionEdge is a directed inheritance relation: a principal holding
// Parent inherits everything reachable from Parent through child edges.
type PermissionEdge struct {
	Parent string
	Child  string
}

// Assignment grants a permission node to a principal.
type Assignment struct {
	PrincipalID uuid.UUID
	NodeName    string
	AssignedAt  time.Time
}

// Names extracts the node names from a list of assignments.
func Names(assignments []Assignment) []string {
	names := make([]string, 0, len(assignments))
	for _, a := range assignments {
		names = append(names, a.NodeName)
	}
	return names
}

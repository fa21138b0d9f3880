// Package service implements authorization graph construction and evaluation.
package service

import (
	authzDomain "github.com/allisson/authd/internal/authz/domain"
)

// Graph is an immutable snapshot of the permission graph. It is safe to share
// across concurrent queries without locking; build a new Graph to pick up
// changed nodes or edges.
type Graph struct {
	nodes    map[string]authzDomain.PermissionNode
	children map[string][]string
	failOpen bool
}

// NewGraph builds a Graph from a node and edge snapshot.
//
// failOpen controls the policy for actions that are not registered as
// permission nodes: when true, any known assigned role passes such an action
// (permissions are opt-in; unmodeled actions are unrestricted). When false,
// unknown actions are denied.
//
// Edges whose child names no known node are kept; traversal into a dangling
// child simply finds no further edges.
func NewGraph(
	nodes []authzDomain.PermissionNode,
	edges []authzDomain.PermissionEdge,
	failOpen bool,
) *Graph {
	nodeIndex := make(map[string]authzDomain.PermissionNode, len(nodes))
	for _, node := range nodes {
		nodeIndex[node.Name] = node
	}

	children := make(map[string][]string, len(edges))
	for _, edge := range edges {
		children[edge.Parent] = append(children[edge.Parent], edge.Child)
	}

	return &Graph{
		nodes:    nodeIndex,
		children: children,
		failOpen: failOpen,
	}
}

// IsAuthorized reports whether any of the assigned nodes authorizes the action.
// An empty assignment set is always denied.
func (g *Graph) IsAuthorized(assigned []string, action string) bool {
	for _, role := range assigned {
		if g.roleAuthorizes(role, action) {
			return true
		}
	}
	return false
}

// roleAuthorizes evaluates a single assigned node against an action.
func (g *Graph) roleAuthorizes(role, action string) bool {
	if _, known := g.nodes[role]; !known {
		return false
	}
	if _, known := g.nodes[action]; !known {
		return g.failOpen
	}
	return g.reaches(role, action)
}

// reaches walks the child adjacency from one node looking for a target node.
// Iterative worklist with a visited set; terminates on arbitrary cycles and
// self-loops, bounded by the node count. A node trivially reaches itself.
func (g *Graph) reaches(from, target string) bool {
	if from == target {
		return true
	}

	visited := make(map[string]struct{}, len(g.nodes))
	stack := []string{from}

	for len(stack) > 0 {
		current := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if _, seen := visited[current]; seen {
			continue
		}
		visited[current] = struct{}{}

		for _, child := range g.children[current] {
			if child == target {
				return true
			}
			stack = append(stack, child)
		}
	}

	return false
}

// IsAdmin reports whether the admin role is directly among the assigned nodes.
// Direct membership only; inheritance does not apply here.
func (g *Graph) IsAdmin(assigned []string) bool {
	return hasName(assigned, authzDomain.AdminRoleName)
}

// IsUser reports whether the user role is directly among the assigned nodes.
func (g *Graph) IsUser(assigned []string) bool {
	return hasName(assigned, authzDomain.UserRoleName)
}

// NodeCount returns the number of nodes loaded into the graph.
func (g *Graph) NodeCount() int {
	return len(g.nodes)
}

func hasName(assigned []string, name string) bool {
	for _, candidate := range assigned {
		if candidate == name {
			return true
		}
	}
	return false
}

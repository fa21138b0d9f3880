package service

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	authzDomain "github.com/allisson/authd/internal/authz/domain"
)

func nodes(names ...string) []authzDomain.PermissionNode {
	result := make([]authzDomain.PermissionNode, 0, len(names))
	for _, name := range names {
		result = append(result, authzDomain.PermissionNode{Name: name, Kind: authzDomain.NodeKindRole})
	}
	return result
}

func edges(pairs ...[2]string) []authzDomain.PermissionEdge {
	result := make([]authzDomain.PermissionEdge, 0, len(pairs))
	for _, pair := range pairs {
		result = append(result, authzDomain.PermissionEdge{Parent: pair[0], Child: pair[1]})
	}
	return result
}

func TestGraph_IsAuthorized(t *testing.T) {
	t.Run("EmptyAssignmentsDenied", func(t *testing.T) {
		g := NewGraph(nodes("admin", "user"), edges([2]string{"admin", "user"}), true)

		assert.False(t, g.IsAuthorized(nil, "user"))
		assert.False(t, g.IsAuthorized([]string{}, "user"))
	})

	t.Run("ParentReachesChild", func(t *testing.T) {
		g := NewGraph(nodes("admin", "user"), edges([2]string{"admin", "user"}), true)

		assert.True(t, g.IsAuthorized([]string{"admin"}, "user"))
	})

	t.Run("ChildDoesNotReachParent", func(t *testing.T) {
		g := NewGraph(nodes("admin", "user"), edges([2]string{"admin", "user"}), true)

		assert.False(t, g.IsAuthorized([]string{"user"}, "admin"))
	})

	t.Run("UnknownRoleDenied", func(t *testing.T) {
		g := NewGraph(nodes("admin", "user"), nil, true)

		assert.False(t, g.IsAuthorized([]string{"ghost"}, "user"))
	})

	t.Run("RoleAuthorizesItself", func(t *testing.T) {
		g := NewGraph(nodes("admin", "user"), nil, true)

		assert.True(t, g.IsAuthorized([]string{"user"}, "user"))
		assert.True(t, g.IsAuthorized([]string{"admin"}, "admin"))
	})

	t.Run("AnyAssignmentSuffices", func(t *testing.T) {
		g := NewGraph(
			nodes("admin", "editor", "publish"),
			edges([2]string{"editor", "publish"}),
			true,
		)

		assert.True(t, g.IsAuthorized([]string{"admin", "editor"}, "publish"))
		assert.True(t, g.IsAuthorized([]string{"editor", "ghost"}, "publish"))
	})

	t.Run("TransitiveInheritance", func(t *testing.T) {
		g := NewGraph(
			nodes("admin", "editor", "author", "publish"),
			edges(
				[2]string{"admin", "editor"},
				[2]string{"editor", "author"},
				[2]string{"author", "publish"},
			),
			true,
		)

		assert.True(t, g.IsAuthorized([]string{"admin"}, "publish"))
		assert.True(t, g.IsAuthorized([]string{"editor"}, "publish"))
		assert.False(t, g.IsAuthorized([]string{"publish"}, "author"))
	})

	t.Run("DiamondReachability", func(t *testing.T) {
		g := NewGraph(
			nodes("top", "left", "right", "bottom"),
			edges(
				[2]string{"top", "left"},
				[2]string{"top", "right"},
				[2]string{"left", "bottom"},
				[2]string{"right", "bottom"},
			),
			true,
		)

		assert.True(t, g.IsAuthorized([]string{"top"}, "bottom"))
	})

	t.Run("DanglingEdgeChildTolerated", func(t *testing.T) {
		g := NewGraph(
			nodes("admin", "user", "island"),
			edges(
				[2]string{"admin", "missing"},
				[2]string{"admin", "user"},
			),
			true,
		)

		assert.True(t, g.IsAuthorized([]string{"admin"}, "user"))
		assert.False(t, g.IsAuthorized([]string{"admin"}, "island"))
	})
}

func TestGraph_FailOpenPolicy(t *testing.T) {
	t.Run("UnknownActionPermittedWhenFailOpen", func(t *testing.T) {
		g := NewGraph(nodes("admin", "user"), nil, true)

		assert.True(t, g.IsAuthorized([]string{"user"}, "publish"))
		assert.True(t, g.IsAuthorized([]string{"admin"}, "publish"))
	})

	t.Run("UnknownActionDeniedWhenFailClosed", func(t *testing.T) {
		g := NewGraph(nodes("admin", "user"), nil, false)

		assert.False(t, g.IsAuthorized([]string{"user"}, "publish"))
		assert.False(t, g.IsAuthorized([]string{"admin"}, "publish"))
	})

	t.Run("UnknownRoleDeniedEvenWhenFailOpen", func(t *testing.T) {
		g := NewGraph(nodes("admin", "user"), nil, true)

		assert.False(t, g.IsAuthorized([]string{"ghost"}, "publish"))
	})
}

func TestGraph_Termination(t *testing.T) {
	t.Run("SelfLoop", func(t *testing.T) {
		g := NewGraph(
			nodes("a", "b"),
			edges([2]string{"a", "a"}),
			true,
		)

		assert.False(t, g.IsAuthorized([]string{"a"}, "b"))
	})

	t.Run("TwoNodeCycle", func(t *testing.T) {
		g := NewGraph(
			nodes("a", "b", "c"),
			edges(
				[2]string{"a", "b"},
				[2]string{"b", "a"},
			),
			true,
		)

		assert.False(t, g.IsAuthorized([]string{"a"}, "c"))
		assert.True(t, g.IsAuthorized([]string{"a"}, "b"))
		assert.True(t, g.IsAuthorized([]string{"b"}, "a"))
	})

	t.Run("LargeCycle", func(t *testing.T) {
		var names []string
		var pairs [][2]string
		for i := 0; i < 100; i++ {
			names = append(names, fmt.Sprintf("n%d", i))
		}
		for i := 0; i < 100; i++ {
			pairs = append(pairs, [2]string{names[i], names[(i+1)%100]})
		}
		names = append(names, "outside")

		g := NewGraph(nodes(names...), edges(pairs...), true)

		assert.False(t, g.IsAuthorized([]string{"n0"}, "outside"))
		assert.True(t, g.IsAuthorized([]string{"n0"}, "n99"))
	})
}

func TestGraph_Monotonicity(t *testing.T) {
	g := NewGraph(
		nodes("admin", "editor", "viewer", "read", "write"),
		edges(
			[2]string{"admin", "write"},
			[2]string{"admin", "read"},
			[2]string{"editor", "write"},
			[2]string{"viewer", "read"},
		),
		true,
	)

	smaller := []string{"viewer"}
	larger := []string{"viewer", "editor"}

	for _, action := range []string{"read", "write", "admin", "viewer"} {
		if g.IsAuthorized(smaller, action) {
			assert.True(t, g.IsAuthorized(larger, action),
				"adding assignments must never revoke %q", action)
		}
	}
}

func TestGraph_IsAdminIsUser(t *testing.T) {
	g := NewGraph(
		nodes("admin", "user"),
		edges([2]string{"admin", "user"}),
		true,
	)

	assert.True(t, g.IsAdmin([]string{"admin"}))
	assert.False(t, g.IsAdmin([]string{"user"}))
	assert.True(t, g.IsUser([]string{"user"}))

	// Membership checks ignore inheritance: holding admin does not make
	// the principal a direct member of user.
	assert.False(t, g.IsUser([]string{"admin"}))
	assert.False(t, g.IsAdmin(nil))
}

func TestGraph_NodeCount(t *testing.T) {
	g := NewGraph(nodes("a", "b", "c"), nil, true)
	assert.Equal(t, 3, g.NodeCount())
}

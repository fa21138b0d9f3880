package domain

// Well-known role names checked by direct membership (no graph reachability).
const (
	// AdminRoleName is the well-known administrator role.
	AdminRoleName = "admin"

	// UserRoleName is the well-known regular-user role, granted on registration.
	UserRoleName = "user"
)

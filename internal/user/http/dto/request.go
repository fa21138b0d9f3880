// Package dto provides data transfer objects for HTTP request and response handling.
package dto

// RegisterUserRequest contains the parameters for registering a new user.
// Field validation happens in the use case.
type RegisterUserRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// UpdateUserRequest contains the parameters for replacing a user's identity
// and credentials.
type UpdateUserRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

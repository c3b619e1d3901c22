package model

// User is the identity record issued by the upstream CodeLens API on login.
// It is immutable for the lifetime of a session; the gateway never mutates
// roles client-side.
type User struct {
	ID           string   `json:"id"`
	FullName     string   `json:"full_name"`
	Email        string   `json:"email"`
	Roles        []string `json:"roles"`
	DepartmentID string   `json:"department_id,omitempty"`
}

// LoginRequest is the payload for authentication.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email,max=255"`
	Password string `json:"password" binding:"required,min=6,max=128"`
}

// RegisterRequest is the payload for self-registration. New accounts always
// receive the student role upstream; registration never yields a session.
type RegisterRequest struct {
	FullName string `json:"full_name" binding:"required,max=255"`
	Email    string `json:"email" binding:"required,email,max=255"`
	Password string `json:"password" binding:"required,min=6,max=128"`
}

// LoginPayload is the upstream login response body the gateway depends on.
// Everything else the upstream returns is passed through opaquely.
type LoginPayload struct {
	AccessToken string `json:"access_token"`
	User        User   `json:"user"`
}

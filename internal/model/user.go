package model

import "github.com/aarondl/null/v8"

type Role string

const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
)

type User struct {
	ID       int64       `json:"id"`
	Username string      `json:"username"`
	Email    null.String `json:"email"`
	FullName null.String `json:"full_name"`
	Role     Role        `json:"role"`
	Active   bool        `json:"active"`
}

// Principal is the operator behind a gateway request.
type Principal struct {
	UserID string
	Role   Role
	Token  string
}

func (p Principal) IsAdmin() bool {
	return p.Role == RoleAdmin
}

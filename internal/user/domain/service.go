package domain

import "context"

type Service interface {
	// Authenticate verifies credentials against an active user record.
	Authenticate(ctx context.Context, username, password string) (*User, error)
	Create(ctx context.Context, req CreateRequest) (*User, error)
	Get(ctx context.Context, id int64) (*User, error)
}

type CreateRequest struct {
	Username string
	FullName string
	Password string
	Role     Role
}

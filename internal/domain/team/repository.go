package team

import "context"

// Repository describes team persistence needs from use cases.
type Repository interface {
	// Ensure creates the team if its id is unseen; an existing row is
	// left untouched.
	Ensure(ctx context.Context, t Team) error
	GetByID(ctx context.Context, id int64) (Team, bool, error)
}

package player

import "context"

// Repository describes player persistence needs from use cases.
type Repository interface {
	// Ensure creates the player if the id is unseen; an existing row is
	// left untouched (no retroactive team correction).
	Ensure(ctx context.Context, p Player) error
	GetByID(ctx context.Context, id int64) (Player, bool, error)
}

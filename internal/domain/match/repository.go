package match

import "context"

// Repository describes match persistence needs from use cases.
type Repository interface {
	// Create inserts the match if the id is unseen; an existing row is
	// left untouched.
	Create(ctx context.Context, m Match) error
	GetByID(ctx context.Context, id int64) (Match, bool, error)
	// SetScore writes the final score computed from enriched events.
	SetScore(ctx context.Context, id int64, homeScore, awayScore int) error
	// List returns all matches, newest kickoff first.
	List(ctx context.Context) ([]Match, error)
}

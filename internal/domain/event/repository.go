package event

import "context"

// PassFilter narrows pass counts for the aggregation formulas. MinX is
// an exclusive lower bound on the native x coordinate; zero means no
// coordinate restriction.
type PassFilter struct {
	SuccessfulOnly bool
	MinX           float64
}

// LeaderboardRow is one player's season aggregate.
type LeaderboardRow struct {
	PlayerID          int64
	PlayerName        string
	TeamName          string
	TotalXG           float64
	TotalXT           float64
	ProgressivePasses int
}

// Repository describes event persistence and the aggregate reads the
// stats formulas need.
type Repository interface {
	// InsertBatch appends one match's enriched events in order, as a
	// single atomic write.
	InsertBatch(ctx context.Context, events []Event) error
	CountByMatch(ctx context.Context, matchID int64) (int, error)
	ListByMatch(ctx context.Context, matchID int64) ([]Event, error)

	SumXG(ctx context.Context, matchID, teamID int64) (float64, error)
	CountPasses(ctx context.Context, matchID, teamID int64, filter PassFilter) (int, error)
	CountDefensiveActions(ctx context.Context, matchID, teamID int64) (int, error)

	// ListTeamSuccessfulPasses returns one team's successful passes in
	// original event order, for pass-network construction.
	ListTeamSuccessfulPasses(ctx context.Context, matchID, teamID int64) ([]Event, error)
	// ListMatchPasses returns every pass of the match regardless of
	// outcome, for the zonal grid.
	ListMatchPasses(ctx context.Context, matchID int64) ([]Event, error)

	Leaderboard(ctx context.Context, limit int) ([]LeaderboardRow, error)
}

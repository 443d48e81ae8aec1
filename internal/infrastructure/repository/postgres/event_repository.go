package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/matchpulse/matchpulse/internal/domain/event"
	qb "github.com/matchpulse/matchpulse/internal/platform/querybuilder"
)

var eventInsertColumns = []string{
	"match_id", "team_id", "player_id", "provider_event_id",
	"minute", "second", "type_name", "outcome_name",
	"x", "y", "end_x", "end_y",
	"is_shot", "xg", "xt",
	"under_pressure", "is_big_chance", "is_penalty",
	"is_final_third_pass", "is_progressive_pass",
	"possession_chain_id", "raw_qualifiers",
}

type EventRepository struct {
	db *sqlx.DB
}

func NewEventRepository(db *sqlx.DB) *EventRepository {
	return &EventRepository{db: db}
}

// InsertBatch writes one match's events as a single multi-row insert,
// so a failed run leaves no partial batch behind.
func (r *EventRepository) InsertBatch(ctx context.Context, events []event.Event) error {
	if len(events) == 0 {
		return nil
	}

	builder := qb.InsertInto("events").Columns(eventInsertColumns...)
	for _, ev := range events {
		builder.Values(
			ev.MatchID, ev.TeamID, nullableInt64(ev.PlayerID), ev.ProviderEventID,
			ev.Minute, ev.Second, ev.TypeName, ev.OutcomeName,
			ev.X, ev.Y, ev.EndX, ev.EndY,
			ev.IsShot, ev.XG, ev.XT,
			ev.UnderPressure, ev.IsBigChance, ev.IsPenalty,
			ev.IsFinalThirdPass, ev.IsProgressivePass,
			ev.PossessionChainID, ev.RawQualifiers,
		)
	}

	query, args, err := builder.ToSQL()
	if err != nil {
		return fmt.Errorf("build insert events query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert events: %w", err)
	}

	return nil
}

func (r *EventRepository) CountByMatch(ctx context.Context, matchID int64) (int, error) {
	query, args, err := qb.Select("COUNT(*)").From("events").
		Where(qb.Eq("match_id", matchID)).
		ToSQL()
	if err != nil {
		return 0, fmt.Errorf("build count events query: %w", err)
	}

	var count int
	if err := r.db.GetContext(ctx, &count, query, args...); err != nil {
		return 0, fmt.Errorf("count events: %w", err)
	}
	return count, nil
}

func (r *EventRepository) ListByMatch(ctx context.Context, matchID int64) ([]event.Event, error) {
	query, args, err := qb.Select("*").From("events").
		Where(qb.Eq("match_id", matchID)).
		OrderBy("id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select events query: %w", err)
	}

	return r.selectEvents(ctx, query, args)
}

func (r *EventRepository) SumXG(ctx context.Context, matchID, teamID int64) (float64, error) {
	query, args, err := qb.Select("COALESCE(SUM(xg), 0)").From("events").
		Where(qb.Eq("match_id", matchID), qb.Eq("team_id", teamID)).
		ToSQL()
	if err != nil {
		return 0, fmt.Errorf("build sum xg query: %w", err)
	}

	var total float64
	if err := r.db.GetContext(ctx, &total, query, args...); err != nil {
		return 0, fmt.Errorf("sum xg: %w", err)
	}
	return total, nil
}

func (r *EventRepository) CountPasses(ctx context.Context, matchID, teamID int64, filter event.PassFilter) (int, error) {
	conditions := []qb.Condition{
		qb.Eq("match_id", matchID),
		qb.Eq("team_id", teamID),
		qb.Eq("type_name", event.TypePass.String()),
	}
	if filter.SuccessfulOnly {
		conditions = append(conditions, qb.Eq("outcome_name", event.OutcomeSuccessful.String()))
	}
	if filter.MinX > 0 {
		conditions = append(conditions, qb.Gt("x", filter.MinX))
	}

	query, args, err := qb.Select("COUNT(*)").From("events").Where(conditions...).ToSQL()
	if err != nil {
		return 0, fmt.Errorf("build count passes query: %w", err)
	}

	var count int
	if err := r.db.GetContext(ctx, &count, query, args...); err != nil {
		return 0, fmt.Errorf("count passes: %w", err)
	}
	return count, nil
}

func (r *EventRepository) CountDefensiveActions(ctx context.Context, matchID, teamID int64) (int, error) {
	names := event.DefensiveActionNames()
	values := make([]any, 0, len(names))
	for _, name := range names {
		values = append(values, name)
	}

	query, args, err := qb.Select("COUNT(*)").From("events").
		Where(
			qb.Eq("match_id", matchID),
			qb.Eq("team_id", teamID),
			qb.In("type_name", values),
		).
		ToSQL()
	if err != nil {
		return 0, fmt.Errorf("build count defensive actions query: %w", err)
	}

	var count int
	if err := r.db.GetContext(ctx, &count, query, args...); err != nil {
		return 0, fmt.Errorf("count defensive actions: %w", err)
	}
	return count, nil
}

func (r *EventRepository) ListTeamSuccessfulPasses(ctx context.Context, matchID, teamID int64) ([]event.Event, error) {
	query, args, err := qb.Select("*").From("events").
		Where(
			qb.Eq("match_id", matchID),
			qb.Eq("team_id", teamID),
			qb.Eq("type_name", event.TypePass.String()),
			qb.Eq("outcome_name", event.OutcomeSuccessful.String()),
		).
		OrderBy("id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select team passes query: %w", err)
	}

	return r.selectEvents(ctx, query, args)
}

func (r *EventRepository) ListMatchPasses(ctx context.Context, matchID int64) ([]event.Event, error) {
	query, args, err := qb.Select("*").From("events").
		Where(
			qb.Eq("match_id", matchID),
			qb.Eq("type_name", event.TypePass.String()),
		).
		OrderBy("id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select match passes query: %w", err)
	}

	return r.selectEvents(ctx, query, args)
}

func (r *EventRepository) Leaderboard(ctx context.Context, limit int) ([]event.LeaderboardRow, error) {
	query, args, err := qb.Select(
		"e.player_id AS player_id",
		"p.name AS player_name",
		"t.name AS team_name",
		"COALESCE(SUM(e.xg), 0) AS total_xg",
		"COALESCE(SUM(e.xt), 0) AS total_xt",
		"COUNT(*) FILTER (WHERE e.is_progressive_pass) AS progressive_passes",
	).
		From("events e JOIN players p ON p.id = e.player_id JOIN teams t ON t.id = p.team_id").
		GroupBy("e.player_id", "p.name", "t.name").
		Having(qb.Expr("COALESCE(SUM(e.xt), 0) > ?", 0.0)).
		OrderBy("total_xt DESC", "player_id").
		Limit(limit).
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build leaderboard query: %w", err)
	}

	var rows []leaderboardRowModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select leaderboard: %w", err)
	}

	out := make([]event.LeaderboardRow, 0, len(rows))
	for _, row := range rows {
		out = append(out, event.LeaderboardRow{
			PlayerID:          row.PlayerID,
			PlayerName:        row.PlayerName,
			TeamName:          row.TeamName,
			TotalXG:           row.TotalXG,
			TotalXT:           row.TotalXT,
			ProgressivePasses: row.ProgressivePasses,
		})
	}
	return out, nil
}

func (r *EventRepository) selectEvents(ctx context.Context, query string, args []any) ([]event.Event, error) {
	var rows []eventTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select events: %w", err)
	}

	out := make([]event.Event, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}

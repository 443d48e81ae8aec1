package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/matchpulse/matchpulse/internal/domain/event"
)

// EventRepository keeps each match's events in insertion order. It
// reaches into the player and team repositories to hydrate the names
// the leaderboard joins in SQL.
type EventRepository struct {
	mu      sync.RWMutex
	byMatch map[int64][]event.Event
	nextID  int64

	players *PlayerRepository
	teams   *TeamRepository
}

func NewEventRepository(players *PlayerRepository, teams *TeamRepository) *EventRepository {
	return &EventRepository{
		byMatch: make(map[int64][]event.Event),
		players: players,
		teams:   teams,
	}
}

func (r *EventRepository) InsertBatch(_ context.Context, events []event.Event) error {
	if len(events) == 0 {
		return nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	for _, ev := range events {
		r.nextID++
		ev.ID = r.nextID
		r.byMatch[ev.MatchID] = append(r.byMatch[ev.MatchID], ev)
	}
	return nil
}

func (r *EventRepository) CountByMatch(_ context.Context, matchID int64) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.byMatch[matchID]), nil
}

func (r *EventRepository) ListByMatch(_ context.Context, matchID int64) ([]event.Event, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	events := r.byMatch[matchID]
	out := make([]event.Event, len(events))
	copy(out, events)
	return out, nil
}

func (r *EventRepository) SumXG(_ context.Context, matchID, teamID int64) (float64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	total := 0.0
	for _, ev := range r.byMatch[matchID] {
		if ev.TeamID == teamID && ev.XG != nil {
			total += *ev.XG
		}
	}
	return total, nil
}

func (r *EventRepository) CountPasses(_ context.Context, matchID, teamID int64, filter event.PassFilter) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	count := 0
	for _, ev := range r.byMatch[matchID] {
		if ev.TeamID != teamID || ev.Type != event.TypePass {
			continue
		}
		if filter.SuccessfulOnly && ev.Outcome != event.OutcomeSuccessful {
			continue
		}
		if filter.MinX > 0 && (ev.X == nil || *ev.X <= filter.MinX) {
			continue
		}
		count++
	}
	return count, nil
}

func (r *EventRepository) CountDefensiveActions(_ context.Context, matchID, teamID int64) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	count := 0
	for _, ev := range r.byMatch[matchID] {
		if ev.TeamID == teamID && ev.Type.IsDefensiveAction() {
			count++
		}
	}
	return count, nil
}

func (r *EventRepository) ListTeamSuccessfulPasses(_ context.Context, matchID, teamID int64) ([]event.Event, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []event.Event
	for _, ev := range r.byMatch[matchID] {
		if ev.TeamID == teamID && ev.Type == event.TypePass && ev.Outcome == event.OutcomeSuccessful {
			out = append(out, ev)
		}
	}
	return out, nil
}

func (r *EventRepository) ListMatchPasses(_ context.Context, matchID int64) ([]event.Event, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []event.Event
	for _, ev := range r.byMatch[matchID] {
		if ev.Type == event.TypePass {
			out = append(out, ev)
		}
	}
	return out, nil
}

func (r *EventRepository) Leaderboard(ctx context.Context, limit int) ([]event.LeaderboardRow, error) {
	r.mu.RLock()
	totals := make(map[int64]*event.LeaderboardRow)
	for _, events := range r.byMatch {
		for _, ev := range events {
			if ev.PlayerID == 0 {
				continue
			}
			row, ok := totals[ev.PlayerID]
			if !ok {
				row = &event.LeaderboardRow{PlayerID: ev.PlayerID}
				totals[ev.PlayerID] = row
			}
			if ev.XG != nil {
				row.TotalXG += *ev.XG
			}
			if ev.XT != nil {
				row.TotalXT += *ev.XT
			}
			if ev.IsProgressivePass {
				row.ProgressivePasses++
			}
		}
	}
	r.mu.RUnlock()

	rows := make([]event.LeaderboardRow, 0, len(totals))
	for _, row := range totals {
		if row.TotalXT <= 0 {
			continue
		}
		if r.players != nil {
			if p, ok, err := r.players.GetByID(ctx, row.PlayerID); err == nil && ok {
				row.PlayerName = p.Name
				if r.teams != nil {
					if t, ok, err := r.teams.GetByID(ctx, p.TeamID); err == nil && ok {
						row.TeamName = t.Name
					}
				}
			}
		}
		rows = append(rows, *row)
	}

	sort.Slice(rows, func(i, j int) bool {
		if rows[i].TotalXT != rows[j].TotalXT {
			return rows[i].TotalXT > rows[j].TotalXT
		}
		return rows[i].PlayerID < rows[j].PlayerID
	})

	if limit > 0 && len(rows) > limit {
		rows = rows[:limit]
	}
	return rows, nil
}

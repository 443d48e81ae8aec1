package postgres

import (
	"database/sql"
	"time"

	"github.com/matchpulse/matchpulse/internal/domain/event"
	"github.com/matchpulse/matchpulse/internal/domain/match"
	"github.com/matchpulse/matchpulse/internal/domain/player"
	"github.com/matchpulse/matchpulse/internal/domain/team"
)

type teamTableModel struct {
	ID        int64     `db:"id"`
	Name      string    `db:"name"`
	CreatedAt time.Time `db:"created_at"`
}

func (m teamTableModel) toDomain() team.Team {
	return team.Team{ID: m.ID, Name: m.Name}
}

type playerTableModel struct {
	ID        int64     `db:"id"`
	Name      string    `db:"name"`
	Position  string    `db:"position"`
	TeamID    int64     `db:"team_id"`
	CreatedAt time.Time `db:"created_at"`
}

func (m playerTableModel) toDomain() player.Player {
	return player.Player{ID: m.ID, Name: m.Name, Position: m.Position, TeamID: m.TeamID}
}

type matchTableModel struct {
	ID          int64      `db:"id"`
	KickoffAt   *time.Time `db:"kickoff_at"`
	Competition string     `db:"competition"`
	HomeTeamID  int64      `db:"home_team_id"`
	AwayTeamID  int64      `db:"away_team_id"`
	HomeScore   int        `db:"home_score"`
	AwayScore   int        `db:"away_score"`
	CreatedAt   time.Time  `db:"created_at"`
}

func (m matchTableModel) toDomain() match.Match {
	out := match.Match{
		ID:          m.ID,
		Competition: m.Competition,
		HomeTeamID:  m.HomeTeamID,
		AwayTeamID:  m.AwayTeamID,
		HomeScore:   m.HomeScore,
		AwayScore:   m.AwayScore,
	}
	if m.KickoffAt != nil {
		out.KickoffAt = *m.KickoffAt
	}
	return out
}

type eventTableModel struct {
	ID                int64         `db:"id"`
	MatchID           int64         `db:"match_id"`
	TeamID            int64         `db:"team_id"`
	PlayerID          sql.NullInt64 `db:"player_id"`
	ProviderEventID   int64         `db:"provider_event_id"`
	Minute            int           `db:"minute"`
	Second            int           `db:"second"`
	TypeName          string        `db:"type_name"`
	OutcomeName       string        `db:"outcome_name"`
	X                 *float64      `db:"x"`
	Y                 *float64      `db:"y"`
	EndX              *float64      `db:"end_x"`
	EndY              *float64      `db:"end_y"`
	IsShot            bool          `db:"is_shot"`
	XG                *float64      `db:"xg"`
	XT                *float64      `db:"xt"`
	UnderPressure     bool          `db:"under_pressure"`
	IsBigChance       bool          `db:"is_big_chance"`
	IsPenalty         bool          `db:"is_penalty"`
	IsFinalThirdPass  bool          `db:"is_final_third_pass"`
	IsProgressivePass bool          `db:"is_progressive_pass"`
	PossessionChainID int           `db:"possession_chain_id"`
	RawQualifiers     []byte        `db:"raw_qualifiers"`
}

func (m eventTableModel) toDomain() event.Event {
	out := event.Event{
		ID:                m.ID,
		MatchID:           m.MatchID,
		TeamID:            m.TeamID,
		ProviderEventID:   m.ProviderEventID,
		Minute:            m.Minute,
		Second:            m.Second,
		Type:              event.ParseType(m.TypeName),
		TypeName:          m.TypeName,
		Outcome:           event.ParseOutcome(m.OutcomeName),
		OutcomeName:       m.OutcomeName,
		X:                 m.X,
		Y:                 m.Y,
		EndX:              m.EndX,
		EndY:              m.EndY,
		IsShot:            m.IsShot,
		XG:                m.XG,
		XT:                m.XT,
		UnderPressure:     m.UnderPressure,
		IsBigChance:       m.IsBigChance,
		IsPenalty:         m.IsPenalty,
		IsFinalThirdPass:  m.IsFinalThirdPass,
		IsProgressivePass: m.IsProgressivePass,
		PossessionChainID: m.PossessionChainID,
		RawQualifiers:     m.RawQualifiers,
	}
	if m.PlayerID.Valid {
		out.PlayerID = m.PlayerID.Int64
	}
	return out
}

func nullableInt64(v int64) sql.NullInt64 {
	return sql.NullInt64{Int64: v, Valid: v != 0}
}

type leaderboardRowModel struct {
	PlayerID          int64   `db:"player_id"`
	PlayerName        string  `db:"player_name"`
	TeamName          string  `db:"team_name"`
	TotalXG           float64 `db:"total_xg"`
	TotalXT           float64 `db:"total_xt"`
	ProgressivePasses int     `db:"progressive_passes"`
}

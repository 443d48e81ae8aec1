package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/matchpulse/matchpulse/internal/domain/player"
	qb "github.com/matchpulse/matchpulse/internal/platform/querybuilder"
)

type PlayerRepository struct {
	db *sqlx.DB
}

func NewPlayerRepository(db *sqlx.DB) *PlayerRepository {
	return &PlayerRepository{db: db}
}

func (r *PlayerRepository) Ensure(ctx context.Context, p player.Player) error {
	if err := p.Validate(); err != nil {
		return err
	}

	model := playerTableModel{
		ID:        p.ID,
		Name:      p.Name,
		Position:  p.Position,
		TeamID:    p.TeamID,
		CreatedAt: time.Now().UTC(),
	}
	query, args, err := qb.InsertModel("players", model, "ON CONFLICT (id) DO NOTHING")
	if err != nil {
		return fmt.Errorf("build insert player query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert player: %w", err)
	}

	return nil
}

func (r *PlayerRepository) GetByID(ctx context.Context, id int64) (player.Player, bool, error) {
	query, args, err := qb.Select("*").From("players").Where(qb.Eq("id", id)).ToSQL()
	if err != nil {
		return player.Player{}, false, fmt.Errorf("build select player query: %w", err)
	}

	var row playerTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return player.Player{}, false, nil
		}
		return player.Player{}, false, fmt.Errorf("select player: %w", err)
	}

	return row.toDomain(), true, nil
}

package memory

import (
	"context"
	"sync"

	"github.com/matchpulse/matchpulse/internal/domain/player"
)

type PlayerRepository struct {
	mu      sync.RWMutex
	players map[int64]player.Player
}

func NewPlayerRepository() *PlayerRepository {
	return &PlayerRepository{players: make(map[int64]player.Player)}
}

func (r *PlayerRepository) Ensure(_ context.Context, p player.Player) error {
	if err := p.Validate(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.players[p.ID]; exists {
		return nil
	}
	r.players[p.ID] = p
	return nil
}

func (r *PlayerRepository) GetByID(_ context.Context, id int64) (player.Player, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.players[id]
	return p, ok, nil
}

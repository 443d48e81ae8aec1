// Package memory holds map-backed repository implementations used when
// no database is configured, and by the service tests.
package memory

import (
	"context"
	"sync"

	"github.com/matchpulse/matchpulse/internal/domain/team"
)

type TeamRepository struct {
	mu    sync.RWMutex
	teams map[int64]team.Team
}

func NewTeamRepository() *TeamRepository {
	return &TeamRepository{teams: make(map[int64]team.Team)}
}

func (r *TeamRepository) Ensure(_ context.Context, t team.Team) error {
	if err := t.Validate(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.teams[t.ID]; exists {
		return nil
	}
	r.teams[t.ID] = t
	return nil
}

func (r *TeamRepository) GetByID(_ context.Context, id int64) (team.Team, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	t, ok := r.teams[id]
	return t, ok, nil
}

package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/matchpulse/matchpulse/internal/domain/match"
)

type MatchRepository struct {
	mu      sync.RWMutex
	matches map[int64]match.Match
}

func NewMatchRepository() *MatchRepository {
	return &MatchRepository{matches: make(map[int64]match.Match)}
}

func (r *MatchRepository) Create(_ context.Context, m match.Match) error {
	if err := m.Validate(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.matches[m.ID]; exists {
		return nil
	}
	r.matches[m.ID] = m
	return nil
}

func (r *MatchRepository) GetByID(_ context.Context, id int64) (match.Match, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	m, ok := r.matches[id]
	return m, ok, nil
}

func (r *MatchRepository) SetScore(_ context.Context, id int64, homeScore, awayScore int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	m, ok := r.matches[id]
	if !ok {
		return fmt.Errorf("match %d does not exist", id)
	}
	m.HomeScore = homeScore
	m.AwayScore = awayScore
	r.matches[id] = m
	return nil
}

func (r *MatchRepository) List(_ context.Context) ([]match.Match, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]match.Match, 0, len(r.matches))
	for _, m := range r.matches {
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].KickoffAt.Equal(out[j].KickoffAt) {
			return out[i].KickoffAt.After(out[j].KickoffAt)
		}
		return out[i].ID > out[j].ID
	})
	return out, nil
}

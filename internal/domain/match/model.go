package match

import (
	"fmt"
	"time"
)

// Match is one fixture as keyed by the provider's match id.
type Match struct {
	ID          int64
	KickoffAt   time.Time
	Competition string
	HomeTeamID  int64
	AwayTeamID  int64
	HomeScore   int
	AwayScore   int
}

func (m Match) Validate() error {
	if m.ID <= 0 {
		return fmt.Errorf("match id is required")
	}
	if m.HomeTeamID <= 0 || m.AwayTeamID <= 0 {
		return fmt.Errorf("match team ids are required")
	}

	return nil
}

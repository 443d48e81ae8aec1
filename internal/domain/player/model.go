package player

import "fmt"

// Player is a footballer as identified by the event provider. TeamID is
// inferred from the first event attributed to the player in the match
// being ingested and is never revised afterwards, so it goes stale after
// a transfer. Known limitation, kept on purpose.
type Player struct {
	ID       int64
	Name     string
	Position string
	TeamID   int64
}

func (p Player) Validate() error {
	if p.ID <= 0 {
		return fmt.Errorf("player id is required")
	}
	if p.Name == "" {
		return fmt.Errorf("player name is required")
	}
	if p.TeamID <= 0 {
		return fmt.Errorf("player team id is required")
	}

	return nil
}

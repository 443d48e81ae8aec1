package team

import "fmt"

// Team is a club as identified by the event provider.
type Team struct {
	ID   int64
	Name string
}

func (t Team) Validate() error {
	if t.ID <= 0 {
		return fmt.Errorf("team id is required")
	}
	if t.Name == "" {
		return fmt.Errorf("team name is required")
	}

	return nil
}

// Package possession segments an ordered event stream into possession
// chains and classifies passes by how far they advance the ball.
package possession

import "github.com/matchpulse/matchpulse/internal/domain/event"

// ChainState is the accumulator of the possession fold: which team
// currently has the ball and which chain the stream is in. The zero
// TeamID means no team has claimed possession yet.
type ChainState struct {
	TeamID  int64
	ChainID int
}

// NewChainState starts the fold at chain 1 with possession unclaimed.
func NewChainState() ChainState {
	return ChainState{ChainID: 1}
}

// Advance consumes one event and returns the updated state plus the
// chain id to stamp on that event.
//
// Possession moves only when a team other than the current holder
// completes a successful claiming action (pass, take-on, clearance,
// recovery, interception). The first such action of the match claims
// chain 1 without incrementing; every later handover increments the
// chain by exactly 1. Stoppages do not close a chain. This is a
// deliberate approximation: a chain survives fouls and dead balls until
// the opponent completes a claiming action.
func (s ChainState) Advance(teamID int64, t event.Type, o event.Outcome) (ChainState, int) {
	if teamID != s.TeamID && o == event.OutcomeSuccessful && t.ClaimsPossession() {
		if s.TeamID != 0 {
			s.ChainID++
		}
		s.TeamID = teamID
	}
	return s, s.ChainID
}

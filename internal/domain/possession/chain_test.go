package possession

import (
	"testing"

	"github.com/matchpulse/matchpulse/internal/domain/event"
)

func TestChainAlternatingSuccessfulPasses(t *testing.T) {
	// Two teams trading successful passes: every event starts a new
	// chain, and the ids run 1..5.
	teams := []int64{1, 2, 1, 2, 1}
	want := []int{1, 2, 3, 4, 5}

	state := NewChainState()
	for i, teamID := range teams {
		var got int
		state, got = state.Advance(teamID, event.TypePass, event.OutcomeSuccessful)
		if got != want[i] {
			t.Fatalf("event %d: chain id = %d, want %d", i, got, want[i])
		}
	}
}

func TestChainIgnoresUnsuccessfulAndNonClaimingEvents(t *testing.T) {
	state := NewChainState()

	state, id := state.Advance(1, event.TypePass, event.OutcomeSuccessful)
	if id != 1 {
		t.Fatalf("opening pass chain id = %d, want 1", id)
	}

	// A failed pass by the other team does not take possession.
	state, id = state.Advance(2, event.TypePass, event.OutcomeUnsuccessful)
	if id != 1 {
		t.Fatalf("failed pass chain id = %d, want 1", id)
	}

	// Neither does a successful non-claiming action.
	state, id = state.Advance(2, event.TypeFoul, event.OutcomeSuccessful)
	if id != 1 {
		t.Fatalf("foul chain id = %d, want 1", id)
	}

	// A successful interception does.
	state, id = state.Advance(2, event.TypeInterception, event.OutcomeSuccessful)
	if id != 2 {
		t.Fatalf("interception chain id = %d, want 2", id)
	}

	// Same team keeps the chain.
	_, id = state.Advance(2, event.TypePass, event.OutcomeSuccessful)
	if id != 2 {
		t.Fatalf("same-team pass chain id = %d, want 2", id)
	}
}

func TestChainIDsNonDecreasing(t *testing.T) {
	types := []event.Type{
		event.TypePass, event.TypeTackle, event.TypeRecovery, event.TypeFoul,
		event.TypeTakeOn, event.TypeClearance, event.TypePass, event.TypeInterception,
	}
	outcomes := []event.Outcome{
		event.OutcomeSuccessful, event.OutcomeUnsuccessful, event.OutcomeSuccessful,
		event.OutcomeSuccessful, event.OutcomeUnsuccessful, event.OutcomeSuccessful,
		event.OutcomeSuccessful, event.OutcomeSuccessful,
	}

	state := NewChainState()
	prev := 0
	for i := range types {
		teamID := int64(1 + i%2)
		var id int
		state, id = state.Advance(teamID, types[i], outcomes[i])
		if id < prev {
			t.Fatalf("chain id decreased at event %d: %d -> %d", i, prev, id)
		}
		if id > prev+1 {
			t.Fatalf("chain id jumped at event %d: %d -> %d", i, prev, id)
		}
		prev = id
	}
}

// Package event models a single enriched match event and its taxonomy.
package event

// Type is the closed enumeration of provider event types this pipeline
// understands. Anything else decodes to TypeUnknown with the raw name
// preserved on the event.
type Type int

const (
	TypeUnknown Type = iota
	TypePass
	TypeGoal
	TypeMissedShots
	TypeSavedShot
	TypeShotOnPost
	TypeTakeOn
	TypeTackle
	TypeInterception
	TypeFoul
	TypeChallenge
	TypeClearance
	TypeRecovery
	TypeSubstitutionOn
	TypeSubstitutionOff
)

var typeNames = map[Type]string{
	TypePass:            "Pass",
	TypeGoal:            "Goal",
	TypeMissedShots:     "MissedShots",
	TypeSavedShot:       "SavedShot",
	TypeShotOnPost:      "ShotOnPost",
	TypeTakeOn:          "TakeOn",
	TypeTackle:          "Tackle",
	TypeInterception:    "Interception",
	TypeFoul:            "Foul",
	TypeChallenge:       "Challenge",
	TypeClearance:       "Clearance",
	TypeRecovery:        "Recovery",
	TypeSubstitutionOn:  "SubstitutionOn",
	TypeSubstitutionOff: "SubstitutionOff",
}

var typesByName = func() map[string]Type {
	out := make(map[string]Type, len(typeNames))
	for t, name := range typeNames {
		out[name] = t
	}
	return out
}()

// ParseType maps a provider display name onto the taxonomy. Unrecognised
// names fall back to TypeUnknown rather than failing the event.
func ParseType(name string) Type {
	if t, ok := typesByName[name]; ok {
		return t
	}
	return TypeUnknown
}

func (t Type) String() string {
	if name, ok := typeNames[t]; ok {
		return name
	}
	return "Unknown"
}

// IsShot reports whether this type is a goal attempt.
func (t Type) IsShot() bool {
	switch t {
	case TypeMissedShots, TypeSavedShot, TypeShotOnPost, TypeGoal:
		return true
	}
	return false
}

// IsOnTarget reports whether the attempt forced a save or scored.
func (t Type) IsOnTarget() bool {
	return t == TypeSavedShot || t == TypeGoal
}

// IsDefensiveAction reports whether the type counts toward PPDA.
func (t Type) IsDefensiveAction() bool {
	switch t {
	case TypeTackle, TypeInterception, TypeFoul, TypeChallenge:
		return true
	}
	return false
}

// DefensiveActionNames lists the display names that count toward PPDA,
// for storage-level filters.
func DefensiveActionNames() []string {
	return []string{
		typeNames[TypeTackle],
		typeNames[TypeInterception],
		typeNames[TypeFoul],
		typeNames[TypeChallenge],
	}
}

// ClaimsPossession reports whether a successful event of this type moves
// possession to the acting team under the chain segmentation rule.
func (t Type) ClaimsPossession() bool {
	switch t {
	case TypePass, TypeTakeOn, TypeClearance, TypeRecovery, TypeInterception:
		return true
	}
	return false
}

// Outcome is the provider's success tag for an event.
type Outcome int

const (
	OutcomeUnknown Outcome = iota
	OutcomeSuccessful
	OutcomeUnsuccessful
)

// ParseOutcome maps a provider display name onto the outcome enum.
func ParseOutcome(name string) Outcome {
	switch name {
	case "Successful":
		return OutcomeSuccessful
	case "Unsuccessful":
		return OutcomeUnsuccessful
	default:
		return OutcomeUnknown
	}
}

func (o Outcome) String() string {
	switch o {
	case OutcomeSuccessful:
		return "Successful"
	case OutcomeUnsuccessful:
		return "Unsuccessful"
	default:
		return "Unknown"
	}
}

// Event is one enriched match event. Coordinates are kept in the
// provider's native 0-100 scale; geometry-derived fields are computed
// from their calibrated counterparts during enrichment. Nil pointers
// mean the provider did not supply the value (or the derivation was
// skipped for lack of coordinates).
type Event struct {
	ID              int64
	MatchID         int64
	TeamID          int64
	PlayerID        int64 // 0 when the event has no player
	ProviderEventID int64
	Minute          int
	Second          int

	Type        Type
	TypeName    string // raw provider name, kept verbatim
	Outcome     Outcome
	OutcomeName string

	X    *float64
	Y    *float64
	EndX *float64
	EndY *float64

	IsShot            bool
	XG                *float64
	XT                *float64
	UnderPressure     bool
	IsBigChance       bool
	IsPenalty         bool
	IsFinalThirdPass  bool
	IsProgressivePass bool
	PossessionChainID int

	// RawQualifiers preserves the provider's qualifier payload for
	// future re-derivation.
	RawQualifiers []byte
}

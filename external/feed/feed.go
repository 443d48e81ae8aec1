// Package feed decodes the raw provider match payloads. The provider is
// an opaque upstream: whatever fetches and drops the JSON files is not
// this package's concern, parsing their shape is.
package feed

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
)

var startDateLayouts = []string{
	"2006-01-02T15:04:05",
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// TeamDescriptor is the provider's minimal team record.
type TeamDescriptor struct {
	TeamID int64  `json:"teamId"`
	Name   string `json:"name"`
}

// DisplayName wraps the provider's {"displayName": ...} tag envelope.
type DisplayName struct {
	DisplayName string `json:"displayName"`
}

// Qualifier is one tag attached to a raw event. Value is optional and
// always arrives as a string.
type Qualifier struct {
	Type  DisplayName `json:"type"`
	Value string      `json:"value,omitempty"`
}

// RawEvent is one provider event, shape preserved.
type RawEvent struct {
	ID          int64       `json:"id"`
	EventID     int64       `json:"eventId"`
	Minute      int         `json:"minute"`
	Second      int         `json:"second"`
	TeamID      int64       `json:"teamId"`
	PlayerID    int64       `json:"playerId"`
	X           *float64    `json:"x"`
	Y           *float64    `json:"y"`
	Type        DisplayName `json:"type"`
	OutcomeType DisplayName `json:"outcomeType"`
	Qualifiers  []Qualifier `json:"qualifiers"`
}

// Match is one complete provider match payload.
type Match struct {
	MatchID     int64             `json:"matchId"`
	StartDate   string            `json:"startDate"`
	Competition string            `json:"competition"`
	Home        TeamDescriptor    `json:"home"`
	Away        TeamDescriptor    `json:"away"`
	Players     map[string]string `json:"playerIdNameDictionary"`
	Events      []RawEvent        `json:"events"`
}

// Kickoff parses the payload's start date. An absent start date is not
// an error; the zero time is returned instead.
func (m Match) Kickoff() (time.Time, error) {
	raw := strings.TrimSpace(m.StartDate)
	if raw == "" {
		return time.Time{}, nil
	}
	for _, layout := range startDateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, nil
		}
	}
	return time.Time{}, crerr.Newf("unrecognized start date %q", m.StartDate)
}

// ParsePlayerID parses one key of the playerIdNameDictionary.
func ParsePlayerID(raw string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil {
		return 0, crerr.Wrapf(err, "parse player id %q", raw)
	}
	if id <= 0 {
		return 0, crerr.Newf("player id %q is not positive", raw)
	}
	return id, nil
}

// TagSet is the interned set of qualifier display names for one event,
// giving O(1) membership tests during classification.
type TagSet map[string]string

// Has reports whether the event carries the named qualifier tag.
func (s TagSet) Has(name string) bool {
	_, ok := s[name]
	return ok
}

// Value returns the qualifier's value string if the tag is present.
func (s TagSet) Value(name string) (string, bool) {
	v, ok := s[name]
	return v, ok
}

// TagSet interns the event's qualifier tags.
func (e RawEvent) TagSet() TagSet {
	if len(e.Qualifiers) == 0 {
		return nil
	}
	out := make(TagSet, len(e.Qualifiers))
	for _, q := range e.Qualifiers {
		name := q.Type.DisplayName
		if name == "" {
			continue
		}
		out[name] = q.Value
	}
	return out
}

// EndCoordinates extracts the pass end point from the PassEndX/PassEndY
// qualifiers. Nil results mean the event carries no end point.
func (e RawEvent) EndCoordinates() (endX, endY *float64) {
	tags := e.TagSet()
	if raw, ok := tags.Value("PassEndX"); ok {
		if v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64); err == nil {
			endX = &v
		}
	}
	if raw, ok := tags.Value("PassEndY"); ok {
		if v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64); err == nil {
			endY = &v
		}
	}
	return endX, endY
}

// RawQualifierJSON re-encodes the qualifier list for opaque storage.
func (e RawEvent) RawQualifierJSON() []byte {
	if len(e.Qualifiers) == 0 {
		return nil
	}
	data, err := sonic.Marshal(e.Qualifiers)
	if err != nil {
		return nil
	}
	return data
}

// DecodeMatch parses one raw match payload and rejects records missing
// the fields the pipeline cannot work without.
func DecodeMatch(data []byte) (Match, error) {
	var m Match
	if err := sonic.Unmarshal(data, &m); err != nil {
		return Match{}, crerr.Wrap(err, "decode match payload")
	}

	if m.Home.TeamID <= 0 || m.Away.TeamID <= 0 {
		return Match{}, crerr.Newf("match payload is missing team ids (home=%d away=%d)", m.Home.TeamID, m.Away.TeamID)
	}
	if m.Home.Name == "" || m.Away.Name == "" {
		return Match{}, crerr.New("match payload is missing team names")
	}

	return m, nil
}

// LoadMatchFile reads and decodes one match cache file. The match id
// comes from the canonical match_<id>_cache.json filename, falling back
// to the payload's matchId field.
func LoadMatchFile(path string) (Match, int64, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Match{}, 0, crerr.Wrapf(err, "read match file %s", path)
	}

	m, err := DecodeMatch(data)
	if err != nil {
		return Match{}, 0, crerr.Wrapf(err, "match file %s", filepath.Base(path))
	}

	matchID := MatchIDFromFilename(filepath.Base(path))
	if matchID == 0 {
		matchID = m.MatchID
	}
	if matchID == 0 {
		return Match{}, 0, crerr.Newf("match file %s carries no match id", filepath.Base(path))
	}

	return m, matchID, nil
}

// MatchIDFromFilename extracts the provider match id from a
// match_<id>_cache.json filename; zero when the name does not match.
func MatchIDFromFilename(name string) int64 {
	parts := strings.Split(name, "_")
	if len(parts) < 2 {
		return 0
	}
	id, err := strconv.ParseInt(parts[1], 10, 64)
	if err != nil {
		return 0
	}
	return id
}

// IsMatchCacheFile reports whether a directory entry looks like one of
// the provider's match cache drops.
func IsMatchCacheFile(name string) bool {
	return strings.HasPrefix(name, "match_") && strings.HasSuffix(name, "_cache.json")
}

package usecase

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	sonic "github.com/bytedance/sonic"

	"github.com/matchpulse/matchpulse/external/feed"
	"github.com/matchpulse/matchpulse/internal/infrastructure/repository/memory"
	"github.com/matchpulse/matchpulse/internal/platform/logging"
)

type memoryStack struct {
	teams   *memory.TeamRepository
	players *memory.PlayerRepository
	matches *memory.MatchRepository
	events  *memory.EventRepository
}

func newMemoryStack() memoryStack {
	teams := memory.NewTeamRepository()
	players := memory.NewPlayerRepository()
	return memoryStack{
		teams:   teams,
		players: players,
		matches: memory.NewMatchRepository(),
		events:  memory.NewEventRepository(players, teams),
	}
}

func newIngestionService(s memoryStack) *IngestionService {
	return NewIngestionService(s.teams, s.players, s.matches, s.events, nil, logging.NewNop(), 2)
}

func fptr(v float64) *float64 { return &v }

func qual(name string) feed.Qualifier {
	return feed.Qualifier{Type: feed.DisplayName{DisplayName: name}}
}

func qualValue(name, value string) feed.Qualifier {
	return feed.Qualifier{Type: feed.DisplayName{DisplayName: name}, Value: value}
}

func display(name string) feed.DisplayName {
	return feed.DisplayName{DisplayName: name}
}

// sampleMatch is a compact fixture exercising the whole pipeline: a
// possession turnover, a penalty goal, a late open-play goal, and an
// incomplete pass on the corner of the pitch.
func sampleMatch() *feed.Match {
	return &feed.Match{
		MatchID:     1914105,
		StartDate:   "2025-08-16T15:00:00",
		Competition: "Premier League",
		Home:        feed.TeamDescriptor{TeamID: 1, Name: "Harborview"},
		Away:        feed.TeamDescriptor{TeamID: 2, Name: "Eastbrook"},
		Players: map[string]string{
			"101": "Dana Whitfield",
			"102": "Maro Keller",
			"103": "Ilya Petrov",
			"104": "Theo Brandt",
			"201": "Rafael Ortiz",
			"999": "Bench Player",
		},
		Events: []feed.RawEvent{
			{
				EventID: 1, Minute: 1, TeamID: 1, PlayerID: 101,
				X: fptr(50), Y: fptr(40),
				Type: display("Pass"), OutcomeType: display("Successful"),
				Qualifiers: []feed.Qualifier{qualValue("PassEndX", "70"), qualValue("PassEndY", "40")},
			},
			{
				EventID: 2, Minute: 2, TeamID: 1, PlayerID: 102,
				X: fptr(70), Y: fptr(40),
				Type: display("Pass"), OutcomeType: display("Successful"),
				Qualifiers: []feed.Qualifier{qualValue("PassEndX", "85"), qualValue("PassEndY", "40")},
			},
			{
				EventID: 3, Minute: 3, TeamID: 2, PlayerID: 201,
				X: fptr(40), Y: fptr(30),
				Type: display("Tackle"), OutcomeType: display("Successful"),
			},
			{
				EventID: 4, Minute: 4, TeamID: 2, PlayerID: 201,
				X: fptr(45), Y: fptr(35),
				Type: display("Pass"), OutcomeType: display("Successful"),
				Qualifiers: []feed.Qualifier{qualValue("PassEndX", "55"), qualValue("PassEndY", "35")},
			},
			{
				EventID: 5, Minute: 5, TeamID: 1, PlayerID: 103,
				X: fptr(50), Y: fptr(50),
				Type: display("Interception"), OutcomeType: display("Successful"),
			},
			{
				EventID: 6, Minute: 10, TeamID: 1, PlayerID: 104,
				X: fptr(94), Y: fptr(50),
				Type: display("Goal"), OutcomeType: display("Successful"),
				Qualifiers: []feed.Qualifier{qual("Penalty"), qual("RightFoot")},
			},
			{
				EventID: 7, Minute: 101, TeamID: 1, PlayerID: 104,
				X: fptr(97), Y: fptr(50),
				Type: display("Goal"), OutcomeType: display("Successful"),
				Qualifiers: []feed.Qualifier{qual("RightFoot")},
			},
			{
				EventID: 8, Minute: 12, TeamID: 1, PlayerID: 101,
				X: fptr(100), Y: fptr(100),
				Type: display("Pass"), OutcomeType: display("Unsuccessful"),
			},
		},
	}
}

func TestIngestionService_IngestMatch_EnrichesAndStores(t *testing.T) {
	stack := newMemoryStack()
	svc := newIngestionService(stack)

	inserted, err := svc.IngestMatch(t.Context(), sampleMatch())
	if err != nil {
		t.Fatalf("ingest match failed: %v", err)
	}
	if inserted != 8 {
		t.Fatalf("expected 8 inserted events, got %d", inserted)
	}

	m, ok, err := stack.matches.GetByID(t.Context(), 1914105)
	if err != nil || !ok {
		t.Fatalf("match not stored: ok=%v err=%v", ok, err)
	}
	if m.HomeScore != 2 || m.AwayScore != 0 {
		t.Fatalf("expected score 2-0, got %d-%d", m.HomeScore, m.AwayScore)
	}

	events, err := stack.events.ListByMatch(t.Context(), 1914105)
	if err != nil {
		t.Fatalf("list events failed: %v", err)
	}
	if len(events) != 8 {
		t.Fatalf("expected 8 stored events, got %d", len(events))
	}

	penalty := events[5]
	if penalty.XG == nil || *penalty.XG != 0.76 {
		t.Fatalf("penalty goal should carry xG 0.76, got %v", penalty.XG)
	}
	if !penalty.IsPenalty || !penalty.IsShot {
		t.Fatalf("penalty goal flags wrong: penalty=%v shot=%v", penalty.IsPenalty, penalty.IsShot)
	}

	openPlay := events[6]
	if openPlay.XG == nil || *openPlay.XG <= 0 || *openPlay.XG >= 0.95 {
		t.Fatalf("open play goal xG out of range: %v", openPlay.XG)
	}

	firstPass := events[0]
	if firstPass.XT == nil || *firstPass.XT <= 0 {
		t.Fatalf("forward pass should carry positive threat, got %v", firstPass.XT)
	}
	if !firstPass.IsProgressivePass {
		t.Fatal("first pass should be progressive")
	}
	if !events[1].IsFinalThirdPass {
		t.Fatal("second pass ends deep in the final third")
	}

	wantChains := []int{1, 1, 1, 2, 3, 3, 3, 3}
	for i, ev := range events {
		if ev.PossessionChainID != wantChains[i] {
			t.Fatalf("event %d chain = %d, want %d", i, ev.PossessionChainID, wantChains[i])
		}
	}

	bench, ok, err := stack.players.GetByID(t.Context(), 999)
	if err != nil || !ok {
		t.Fatalf("bench player not stored: ok=%v err=%v", ok, err)
	}
	if bench.TeamID != 1 {
		t.Fatalf("unused player should default to the home side, got team %d", bench.TeamID)
	}

	ortiz, ok, err := stack.players.GetByID(t.Context(), 201)
	if err != nil || !ok {
		t.Fatalf("away player not stored: ok=%v err=%v", ok, err)
	}
	if ortiz.TeamID != 2 {
		t.Fatalf("away player team resolved to %d, want 2", ortiz.TeamID)
	}
}

func TestIngestionService_IngestMatch_Idempotent(t *testing.T) {
	stack := newMemoryStack()
	svc := newIngestionService(stack)

	if _, err := svc.IngestMatch(t.Context(), sampleMatch()); err != nil {
		t.Fatalf("first ingest failed: %v", err)
	}

	inserted, err := svc.IngestMatch(t.Context(), sampleMatch())
	if err != nil {
		t.Fatalf("second ingest failed: %v", err)
	}
	if inserted != 0 {
		t.Fatalf("re-ingest should be a no-op, inserted %d events", inserted)
	}

	count, err := stack.events.CountByMatch(t.Context(), 1914105)
	if err != nil {
		t.Fatalf("count events failed: %v", err)
	}
	if count != 8 {
		t.Fatalf("expected 8 events after re-ingest, got %d", count)
	}
}

func TestIngestionService_IngestMatch_NilPayload(t *testing.T) {
	svc := newIngestionService(newMemoryStack())

	if _, err := svc.IngestMatch(t.Context(), nil); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected invalid input error, got %v", err)
	}
}

func TestIngestionService_IngestDirectory_IsolatesBadFiles(t *testing.T) {
	dir := t.TempDir()

	payload, err := sonic.Marshal(sampleMatch())
	if err != nil {
		t.Fatalf("marshal sample match: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "match_1914105_cache.json"), payload, 0o644); err != nil {
		t.Fatalf("write match file: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "match_666_cache.json"), []byte("{broken"), 0o644); err != nil {
		t.Fatalf("write broken file: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "readme.txt"), []byte("ignore me"), 0o644); err != nil {
		t.Fatalf("write stray file: %v", err)
	}

	stack := newMemoryStack()
	svc := newIngestionService(stack)

	result, err := svc.IngestDirectory(t.Context(), dir)
	if err != nil {
		t.Fatalf("ingest directory failed: %v", err)
	}

	if result.FilesScanned != 2 {
		t.Fatalf("expected 2 scanned files, got %d", result.FilesScanned)
	}
	if result.Succeeded != 1 || result.Failed != 1 || result.Skipped != 0 {
		t.Fatalf("unexpected counts: %+v", result)
	}
	if len(result.Files) != 2 {
		t.Fatalf("expected 2 file rows, got %d", len(result.Files))
	}
	if result.Files[0].File != "match_1914105_cache.json" {
		t.Fatalf("rows should be sorted by file name, got %s first", result.Files[0].File)
	}

	var failedRow FileIngestResult
	for _, row := range result.Files {
		if row.Status == ingestStatusFailed {
			failedRow = row
		}
	}
	if failedRow.File != "match_666_cache.json" || failedRow.Message == "" {
		t.Fatalf("broken file row not reported: %+v", failedRow)
	}

	count, err := stack.events.CountByMatch(t.Context(), 1914105)
	if err != nil {
		t.Fatalf("count events failed: %v", err)
	}
	if count == 0 {
		t.Fatal("good file should have been ingested despite the broken neighbor")
	}
}

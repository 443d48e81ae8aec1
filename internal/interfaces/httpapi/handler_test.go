package httpapi

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	sonic "github.com/bytedance/sonic"

	"github.com/matchpulse/matchpulse/internal/domain/event"
	"github.com/matchpulse/matchpulse/internal/domain/match"
	"github.com/matchpulse/matchpulse/internal/domain/player"
	"github.com/matchpulse/matchpulse/internal/domain/team"
	"github.com/matchpulse/matchpulse/internal/infrastructure/repository/memory"
	"github.com/matchpulse/matchpulse/internal/platform/cache"
	"github.com/matchpulse/matchpulse/internal/platform/logging"
	"github.com/matchpulse/matchpulse/internal/usecase"
)

const testJobToken = "test-job-token"

func newTestRouter(t *testing.T, dataDir string) http.Handler {
	t.Helper()

	teams := memory.NewTeamRepository()
	players := memory.NewPlayerRepository()
	matches := memory.NewMatchRepository()
	events := memory.NewEventRepository(players, teams)

	ctx := t.Context()
	if err := teams.Ensure(ctx, team.Team{ID: 1, Name: "Harborview"}); err != nil {
		t.Fatalf("seed team: %v", err)
	}
	if err := teams.Ensure(ctx, team.Team{ID: 2, Name: "Eastbrook"}); err != nil {
		t.Fatalf("seed team: %v", err)
	}
	if err := players.Ensure(ctx, player.Player{ID: 101, Name: "Dana Whitfield", TeamID: 1}); err != nil {
		t.Fatalf("seed player: %v", err)
	}
	if err := matches.Create(ctx, match.Match{
		ID:          42,
		KickoffAt:   time.Date(2025, 8, 16, 15, 0, 0, 0, time.UTC),
		Competition: "Premier League",
		HomeTeamID:  1,
		AwayTeamID:  2,
	}); err != nil {
		t.Fatalf("seed match: %v", err)
	}

	x, y := 50.0, 40.0
	xt := 0.045
	if err := events.InsertBatch(ctx, []event.Event{{
		MatchID: 42, TeamID: 1, PlayerID: 101, Minute: 1,
		Type: event.TypePass, TypeName: "Pass",
		Outcome: event.OutcomeSuccessful, OutcomeName: "Successful",
		X: &x, Y: &y, XT: &xt, PossessionChainID: 1,
	}}); err != nil {
		t.Fatalf("seed events: %v", err)
	}

	store := cache.NewStore(time.Minute)
	statsService := usecase.NewStatsService(matches, teams, players, events, store)
	ingestionService := usecase.NewIngestionService(teams, players, matches, events, store, logging.NewNop(), 1)
	handler := NewHandler(statsService, ingestionService, logging.NewNop(), dataDir)

	return NewRouter(handler, logging.NewNop(), []string{"*"}, testJobToken)
}

type testEnvelope struct {
	APIVersion string           `json:"apiVersion"`
	Data       json.RawMessage  `json:"data"`
	Error      *googleErrorBody `json:"error"`
}

func doRequest(t *testing.T, router http.Handler, req *http.Request) (*httptest.ResponseRecorder, testEnvelope) {
	t.Helper()

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	var envelope testEnvelope
	if err := sonic.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decode envelope: %v (body %s)", err, rec.Body.String())
	}
	return rec, envelope
}

func TestHandler_Healthz(t *testing.T) {
	router := newTestRouter(t, t.TempDir())

	rec, envelope := doRequest(t, router, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("healthz status = %d", rec.Code)
	}
	if envelope.APIVersion != "2.0" {
		t.Fatalf("unexpected api version %q", envelope.APIVersion)
	}
}

func TestHandler_GetMatchStats(t *testing.T) {
	router := newTestRouter(t, t.TempDir())

	rec, envelope := doRequest(t, router, httptest.NewRequest(http.MethodGet, "/v1/matches/42/stats", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("stats status = %d (body %s)", rec.Code, rec.Body.String())
	}

	var summary usecase.MatchSummary
	if err := sonic.Unmarshal(envelope.Data, &summary); err != nil {
		t.Fatalf("decode summary: %v", err)
	}
	if summary.MatchID != 42 || summary.Home.Name != "Harborview" {
		t.Fatalf("unexpected summary: %+v", summary)
	}
	if summary.Home.Possession != 100 {
		t.Fatalf("home made the only pass, possession = %v", summary.Home.Possession)
	}
}

func TestHandler_GetMatchStats_NotFound(t *testing.T) {
	router := newTestRouter(t, t.TempDir())

	rec, envelope := doRequest(t, router, httptest.NewRequest(http.MethodGet, "/v1/matches/9999/stats", nil))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
	if envelope.Error == nil || envelope.Error.Status != "NOT_FOUND" {
		t.Fatalf("unexpected error body: %+v", envelope.Error)
	}
}

func TestHandler_GetMatchStats_BadID(t *testing.T) {
	router := newTestRouter(t, t.TempDir())

	rec, envelope := doRequest(t, router, httptest.NewRequest(http.MethodGet, "/v1/matches/abc/stats", nil))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if envelope.Error == nil || envelope.Error.Status != "INVALID_ARGUMENT" {
		t.Fatalf("unexpected error body: %+v", envelope.Error)
	}
}

func TestHandler_PassNetwork_RequiresTeamID(t *testing.T) {
	router := newTestRouter(t, t.TempDir())

	rec, _ := doRequest(t, router, httptest.NewRequest(http.MethodGet, "/v1/matches/42/pass-network", nil))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 without teamId, got %d", rec.Code)
	}

	rec2, _ := doRequest(t, router, httptest.NewRequest(http.MethodGet, "/v1/matches/42/pass-network?teamId=1", nil))
	if rec2.Code != http.StatusOK {
		t.Fatalf("expected 200 with teamId, got %d", rec2.Code)
	}
}

func TestHandler_ListMatchEvents(t *testing.T) {
	router := newTestRouter(t, t.TempDir())

	rec, envelope := doRequest(t, router, httptest.NewRequest(http.MethodGet, "/v1/matches/42/events", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("events status = %d", rec.Code)
	}

	var events []eventDTO
	if err := sonic.Unmarshal(envelope.Data, &events); err != nil {
		t.Fatalf("decode events: %v", err)
	}
	if len(events) != 1 || events[0].Type != "Pass" {
		t.Fatalf("unexpected events: %+v", events)
	}
}

func TestHandler_RunIngestion_RequiresToken(t *testing.T) {
	router := newTestRouter(t, t.TempDir())

	req := httptest.NewRequest(http.MethodPost, "/v1/internal/ingestion/run", nil)
	rec, envelope := doRequest(t, router, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %d", rec.Code)
	}
	if envelope.Error == nil || envelope.Error.Status != "UNAUTHENTICATED" {
		t.Fatalf("unexpected error body: %+v", envelope.Error)
	}
}

func TestHandler_RunIngestion(t *testing.T) {
	dataDir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dataDir, "match_314_cache.json"), []byte(`{
		"matchId": 314,
		"startDate": "2025-08-20T19:45:00",
		"competition": "Premier League",
		"home": {"teamId": 5, "name": "Northgate"},
		"away": {"teamId": 6, "name": "Southquay"},
		"playerIdNameDictionary": {"501": "Avery Stone"},
		"events": [
			{
				"eventId": 1, "minute": 3, "teamId": 5, "playerId": 501,
				"x": 40, "y": 50,
				"type": {"displayName": "Pass"},
				"outcomeType": {"displayName": "Successful"},
				"qualifiers": [
					{"type": {"displayName": "PassEndX"}, "value": "65"},
					{"type": {"displayName": "PassEndY"}, "value": "50"}
				]
			}
		]
	}`), 0o644); err != nil {
		t.Fatalf("write match file: %v", err)
	}

	router := newTestRouter(t, dataDir)

	req := httptest.NewRequest(http.MethodPost, "/v1/internal/ingestion/run", strings.NewReader("{}"))
	req.Header.Set("X-Internal-Job-Token", testJobToken)
	rec, envelope := doRequest(t, router, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("ingestion status = %d (body %s)", rec.Code, rec.Body.String())
	}

	var result usecase.IngestionRunResult
	if err := sonic.Unmarshal(envelope.Data, &result); err != nil {
		t.Fatalf("decode result: %v", err)
	}
	if result.Succeeded != 1 || result.Failed != 0 {
		t.Fatalf("unexpected run result: %+v", result)
	}
}

package httpapi

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	sonic "github.com/bytedance/sonic"
	"github.com/go-playground/validator/v10"

	"github.com/matchpulse/matchpulse/internal/domain/event"
	"github.com/matchpulse/matchpulse/internal/domain/match"
	"github.com/matchpulse/matchpulse/internal/platform/logging"
	"github.com/matchpulse/matchpulse/internal/usecase"
)

type Handler struct {
	statsService     *usecase.StatsService
	ingestionService *usecase.IngestionService
	logger           *logging.Logger
	validator        *validator.Validate
	dataDir          string
}

func NewHandler(
	statsService *usecase.StatsService,
	ingestionService *usecase.IngestionService,
	logger *logging.Logger,
	dataDir string,
) *Handler {
	if logger == nil {
		logger = logging.Default()
	}

	return &Handler{
		statsService:     statsService,
		ingestionService: ingestionService,
		logger:           logger,
		validator:        validator.New(),
		dataDir:          dataDir,
	}
}

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Healthz")
	defer span.End()

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "ok"})
}

type matchDTO struct {
	MatchID     int64      `json:"matchId"`
	KickoffAt   *time.Time `json:"kickoffAt,omitempty"`
	Competition string     `json:"competition"`
	HomeTeamID  int64      `json:"homeTeamId"`
	AwayTeamID  int64      `json:"awayTeamId"`
	HomeScore   int        `json:"homeScore"`
	AwayScore   int        `json:"awayScore"`
}

func toMatchDTO(m match.Match) matchDTO {
	dto := matchDTO{
		MatchID:     m.ID,
		Competition: m.Competition,
		HomeTeamID:  m.HomeTeamID,
		AwayTeamID:  m.AwayTeamID,
		HomeScore:   m.HomeScore,
		AwayScore:   m.AwayScore,
	}
	if !m.KickoffAt.IsZero() {
		kickoff := m.KickoffAt
		dto.KickoffAt = &kickoff
	}
	return dto
}

func (h *Handler) ListMatches(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListMatches")
	defer span.End()

	matches, err := h.statsService.ListMatches(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "list matches failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	out := make([]matchDTO, 0, len(matches))
	for _, m := range matches {
		out = append(out, toMatchDTO(m))
	}
	writeSuccess(ctx, w, http.StatusOK, out)
}

func (h *Handler) GetMatchStats(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetMatchStats")
	defer span.End()

	matchID, err := pathMatchID(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	summary, err := h.statsService.MatchSummary(ctx, matchID)
	if err != nil {
		h.logger.ErrorContext(ctx, "match summary failed", "matchId", matchID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, summary)
}

type eventDTO struct {
	ID                int64    `json:"id"`
	TeamID            int64    `json:"teamId"`
	PlayerID          int64    `json:"playerId,omitempty"`
	Minute            int      `json:"minute"`
	Second            int      `json:"second"`
	Type              string   `json:"type"`
	Outcome           string   `json:"outcome"`
	X                 *float64 `json:"x,omitempty"`
	Y                 *float64 `json:"y,omitempty"`
	EndX              *float64 `json:"endX,omitempty"`
	EndY              *float64 `json:"endY,omitempty"`
	IsShot            bool     `json:"isShot,omitempty"`
	XG                *float64 `json:"xg,omitempty"`
	XT                *float64 `json:"xt,omitempty"`
	IsBigChance       bool     `json:"isBigChance,omitempty"`
	IsPenalty         bool     `json:"isPenalty,omitempty"`
	IsFinalThirdPass  bool     `json:"isFinalThirdPass,omitempty"`
	IsProgressivePass bool     `json:"isProgressivePass,omitempty"`
	PossessionChainID int      `json:"possessionChainId"`
}

func toEventDTO(ev event.Event) eventDTO {
	return eventDTO{
		ID:                ev.ID,
		TeamID:            ev.TeamID,
		PlayerID:          ev.PlayerID,
		Minute:            ev.Minute,
		Second:            ev.Second,
		Type:              ev.TypeName,
		Outcome:           ev.OutcomeName,
		X:                 ev.X,
		Y:                 ev.Y,
		EndX:              ev.EndX,
		EndY:              ev.EndY,
		IsShot:            ev.IsShot,
		XG:                ev.XG,
		XT:                ev.XT,
		IsBigChance:       ev.IsBigChance,
		IsPenalty:         ev.IsPenalty,
		IsFinalThirdPass:  ev.IsFinalThirdPass,
		IsProgressivePass: ev.IsProgressivePass,
		PossessionChainID: ev.PossessionChainID,
	}
}

func (h *Handler) ListMatchEvents(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListMatchEvents")
	defer span.End()

	matchID, err := pathMatchID(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	events, err := h.statsService.MatchEvents(ctx, matchID)
	if err != nil {
		h.logger.ErrorContext(ctx, "list match events failed", "matchId", matchID, "error", err)
		writeError(ctx, w, err)
		return
	}

	out := make([]eventDTO, 0, len(events))
	for _, ev := range events {
		out = append(out, toEventDTO(ev))
	}
	writeSuccess(ctx, w, http.StatusOK, out)
}

func (h *Handler) GetMatchMomentum(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetMatchMomentum")
	defer span.End()

	matchID, err := pathMatchID(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	points, err := h.statsService.Momentum(ctx, matchID)
	if err != nil {
		h.logger.ErrorContext(ctx, "match momentum failed", "matchId", matchID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, points)
}

func (h *Handler) GetMatchPassNetwork(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetMatchPassNetwork")
	defer span.End()

	matchID, err := pathMatchID(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	teamID, err := strconv.ParseInt(r.URL.Query().Get("teamId"), 10, 64)
	if err != nil || teamID <= 0 {
		writeError(ctx, w, fmt.Errorf("%w: teamId query parameter is required", usecase.ErrInvalidInput))
		return
	}
	progressiveOnly := r.URL.Query().Get("progressiveOnly") == "true"

	network, err := h.statsService.PassNetwork(ctx, matchID, teamID, progressiveOnly)
	if err != nil {
		h.logger.ErrorContext(ctx, "pass network failed", "matchId", matchID, "teamId", teamID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, network)
}

func (h *Handler) GetMatchZones(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetMatchZones")
	defer span.End()

	matchID, err := pathMatchID(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	zones, err := h.statsService.Zones(ctx, matchID)
	if err != nil {
		h.logger.ErrorContext(ctx, "match zones failed", "matchId", matchID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, zones)
}

type leaderboardRowDTO struct {
	PlayerID          int64   `json:"playerId"`
	PlayerName        string  `json:"playerName"`
	TeamName          string  `json:"teamName"`
	TotalXG           float64 `json:"totalXg"`
	TotalXT           float64 `json:"totalXt"`
	ProgressivePasses int     `json:"progressivePasses"`
}

func (h *Handler) GetSeasonLeaderboard(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetSeasonLeaderboard")
	defer span.End()

	rows, err := h.statsService.Leaderboard(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "season leaderboard failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	out := make([]leaderboardRowDTO, 0, len(rows))
	for _, row := range rows {
		out = append(out, leaderboardRowDTO{
			PlayerID:          row.PlayerID,
			PlayerName:        row.PlayerName,
			TeamName:          row.TeamName,
			TotalXG:           row.TotalXG,
			TotalXT:           row.TotalXT,
			ProgressivePasses: row.ProgressivePasses,
		})
	}
	writeSuccess(ctx, w, http.StatusOK, out)
}

type runIngestionRequest struct {
	DataDir string `json:"dataDir" validate:"omitempty,min=1"`
}

// RunIngestion triggers a directory ingestion run. The body may name a
// directory; without one the configured data directory is used.
func (h *Handler) RunIngestion(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RunIngestion")
	defer span.End()

	var req runIngestionRequest
	if err := sonic.ConfigDefault.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		writeError(ctx, w, fmt.Errorf("%w: malformed request body", usecase.ErrInvalidInput))
		return
	}
	if err := h.validator.Struct(req); err != nil {
		writeError(ctx, w, fmt.Errorf("%w: %v", usecase.ErrInvalidInput, err))
		return
	}

	dir := req.DataDir
	if dir == "" {
		dir = h.dataDir
	}

	result, err := h.ingestionService.IngestDirectory(ctx, dir)
	if err != nil {
		h.logger.ErrorContext(ctx, "ingestion run failed", "dir", dir, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, result)
}

func pathMatchID(r *http.Request) (int64, error) {
	raw := r.PathValue("matchID")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: match id %q is not a positive integer", usecase.ErrInvalidInput, raw)
	}
	return id, nil
}

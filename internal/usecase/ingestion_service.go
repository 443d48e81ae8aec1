package usecase

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/panjf2000/ants/v2"

	"github.com/matchpulse/matchpulse/external/feed"
	"github.com/matchpulse/matchpulse/internal/domain/event"
	"github.com/matchpulse/matchpulse/internal/domain/match"
	"github.com/matchpulse/matchpulse/internal/domain/metrics"
	"github.com/matchpulse/matchpulse/internal/domain/pitch"
	"github.com/matchpulse/matchpulse/internal/domain/player"
	"github.com/matchpulse/matchpulse/internal/domain/possession"
	"github.com/matchpulse/matchpulse/internal/domain/team"
	"github.com/matchpulse/matchpulse/internal/platform/logging"
)

const (
	ingestStatusSuccess = "success"
	ingestStatusSkipped = "skipped"
	ingestStatusFailed  = "failed"
)

const (
	qualifierPenalty       = "Penalty"
	qualifierBigChance     = "BigChance"
	qualifierHead          = "Head"
	qualifierRightFoot     = "RightFoot"
	qualifierLeftFoot      = "LeftFoot"
	qualifierUnderPressure = "UnderPressure"
)

// FileIngestResult is the per-file row of an ingestion run.
type FileIngestResult struct {
	File       string `json:"file"`
	MatchID    int64  `json:"matchId"`
	Status     string `json:"status"`
	Events     int    `json:"events"`
	Message    string `json:"message,omitempty"`
	DurationMs int64  `json:"durationMs"`
}

// IngestionRunResult summarizes a directory ingestion run.
type IngestionRunResult struct {
	FilesScanned int                `json:"filesScanned"`
	Succeeded    int                `json:"succeeded"`
	Skipped      int                `json:"skipped"`
	Failed       int                `json:"failed"`
	WorkerCount  int                `json:"workerCount"`
	Files        []FileIngestResult `json:"files"`
}

// CacheInvalidator drops derived aggregates after new matches land.
type CacheInvalidator interface {
	DeletePrefix(ctx context.Context, prefix string)
}

type IngestionService struct {
	teamRepo   team.Repository
	playerRepo player.Repository
	matchRepo  match.Repository
	eventRepo  event.Repository
	cache      CacheInvalidator
	logger     *logging.Logger
	workers    int
}

func NewIngestionService(
	teamRepo team.Repository,
	playerRepo player.Repository,
	matchRepo match.Repository,
	eventRepo event.Repository,
	cache CacheInvalidator,
	logger *logging.Logger,
	workers int,
) *IngestionService {
	if logger == nil {
		logger = logging.Default()
	}
	if workers < 1 {
		workers = runtime.NumCPU()
	}
	return &IngestionService{
		teamRepo:   teamRepo,
		playerRepo: playerRepo,
		matchRepo:  matchRepo,
		eventRepo:  eventRepo,
		cache:      cache,
		logger:     logger,
		workers:    workers,
	}
}

// IngestDirectory enriches and stores every match cache file found
// directly under dir. Files are processed concurrently; one bad file
// never aborts the run.
func (s *IngestionService) IngestDirectory(ctx context.Context, dir string) (IngestionRunResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.IngestionService.IngestDirectory")
	defer span.End()

	dir = strings.TrimSpace(dir)
	if dir == "" {
		return IngestionRunResult{}, fmt.Errorf("%w: data directory is required", ErrInvalidInput)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return IngestionRunResult{}, fmt.Errorf("read data directory: %w", err)
	}

	files := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || !feed.IsMatchCacheFile(e.Name()) {
			continue
		}
		files = append(files, filepath.Join(dir, e.Name()))
	}

	workerCount := s.workers
	if workerCount > len(files) && len(files) > 0 {
		workerCount = len(files)
	}

	result := IngestionRunResult{
		FilesScanned: len(files),
		WorkerCount:  workerCount,
		Files:        make([]FileIngestResult, 0, len(files)),
	}
	if len(files) == 0 {
		return result, nil
	}

	rows := make(chan FileIngestResult, len(files))

	var succeeded atomic.Int32
	var skipped atomic.Int32
	var failed atomic.Int32

	pool, err := ants.NewPool(workerCount)
	if err != nil {
		return IngestionRunResult{}, fmt.Errorf("create worker pool: %w", err)
	}
	defer pool.Release()

	var workers sync.WaitGroup
	for _, file := range files {
		file := file
		workers.Add(1)
		if err := pool.Submit(func() {
			defer workers.Done()

			start := time.Now()
			row := s.ingestFile(ctx, file)
			row.DurationMs = time.Since(start).Milliseconds()

			switch row.Status {
			case ingestStatusSuccess:
				succeeded.Add(1)
			case ingestStatusSkipped:
				skipped.Add(1)
			default:
				failed.Add(1)
			}

			rows <- row
		}); err != nil {
			workers.Done()
			return IngestionRunResult{}, fmt.Errorf("submit file to worker pool: %w", err)
		}
	}

	workers.Wait()
	close(rows)

	for row := range rows {
		result.Files = append(result.Files, row)
	}
	sort.SliceStable(result.Files, func(i, j int) bool {
		return result.Files[i].File < result.Files[j].File
	})

	result.Succeeded = int(succeeded.Load())
	result.Skipped = int(skipped.Load())
	result.Failed = int(failed.Load())

	if s.cache != nil && result.Succeeded > 0 {
		s.cache.DeletePrefix(ctx, "stats:")
		s.cache.DeletePrefix(ctx, "leaderboard")
	}

	s.logger.InfoContext(ctx, "ingestion run finished",
		"files", result.FilesScanned,
		"succeeded", result.Succeeded,
		"skipped", result.Skipped,
		"failed", result.Failed,
	)

	return result, nil
}

func (s *IngestionService) ingestFile(ctx context.Context, path string) FileIngestResult {
	row := FileIngestResult{File: filepath.Base(path)}

	m, matchID, err := feed.LoadMatchFile(path)
	if err != nil {
		row.Status = ingestStatusFailed
		row.Message = err.Error()
		s.logger.WarnContext(ctx, "skipping unreadable match file", "file", row.File, "error", err)
		return row
	}
	m.MatchID = matchID
	row.MatchID = matchID

	inserted, err := s.IngestMatch(ctx, &m)
	if err != nil {
		row.Status = ingestStatusFailed
		row.Message = err.Error()
		s.logger.ErrorContext(ctx, "match ingestion failed", "file", row.File, "matchId", m.MatchID, "error", err)
		return row
	}
	if inserted == 0 {
		row.Status = ingestStatusSkipped
		row.Message = "match already ingested"
		return row
	}

	row.Status = ingestStatusSuccess
	row.Events = inserted
	return row
}

// IngestMatch enriches one decoded match and writes it. It returns the
// number of events inserted; zero means the match was already present
// with its events and the call was a no-op.
func (s *IngestionService) IngestMatch(ctx context.Context, m *feed.Match) (int, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.IngestionService.IngestMatch")
	defer span.End()

	if m == nil {
		return 0, fmt.Errorf("%w: match payload is required", ErrInvalidInput)
	}

	_, exists, err := s.matchRepo.GetByID(ctx, m.MatchID)
	if err != nil {
		return 0, fmt.Errorf("check match: %w", err)
	}
	if exists {
		count, err := s.eventRepo.CountByMatch(ctx, m.MatchID)
		if err != nil {
			return 0, fmt.Errorf("count match events: %w", err)
		}
		if count > 0 {
			return 0, nil
		}
		// A previous run wrote the match row but died before the event
		// batch landed. Fall through and retry the batch.
	}

	enriched, homeScore, awayScore := s.enrichEvents(ctx, m)

	if err := s.teamRepo.Ensure(ctx, team.Team{ID: m.Home.TeamID, Name: m.Home.Name}); err != nil {
		return 0, fmt.Errorf("ensure home team: %w", err)
	}
	if err := s.teamRepo.Ensure(ctx, team.Team{ID: m.Away.TeamID, Name: m.Away.Name}); err != nil {
		return 0, fmt.Errorf("ensure away team: %w", err)
	}

	for _, p := range s.buildPlayers(m, enriched) {
		if err := s.playerRepo.Ensure(ctx, p); err != nil {
			return 0, fmt.Errorf("ensure player %d: %w", p.ID, err)
		}
	}

	kickoff, err := m.Kickoff()
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if err := s.matchRepo.Create(ctx, match.Match{
		ID:          m.MatchID,
		KickoffAt:   kickoff,
		Competition: m.Competition,
		HomeTeamID:  m.Home.TeamID,
		AwayTeamID:  m.Away.TeamID,
	}); err != nil {
		return 0, fmt.Errorf("create match: %w", err)
	}

	if err := s.eventRepo.InsertBatch(ctx, enriched); err != nil {
		return 0, fmt.Errorf("insert event batch: %w", err)
	}

	if err := s.matchRepo.SetScore(ctx, m.MatchID, homeScore, awayScore); err != nil {
		return 0, fmt.Errorf("set match score: %w", err)
	}

	return len(enriched), nil
}

// enrichEvents runs the full per-event pipeline in feed order: type and
// outcome parsing, shot and threat models, pass classification, and
// possession chain assignment. It also tallies the final score.
func (s *IngestionService) enrichEvents(ctx context.Context, m *feed.Match) ([]event.Event, int, int) {
	enriched := make([]event.Event, 0, len(m.Events))
	chain := possession.NewChainState()
	homeScore, awayScore := 0, 0

	for _, raw := range m.Events {
		if raw.TeamID != m.Home.TeamID && raw.TeamID != m.Away.TeamID {
			s.logger.WarnContext(ctx, "event references unknown team",
				"matchId", m.MatchID, "eventId", raw.EventID, "teamId", raw.TeamID)
		}

		typ := event.ParseType(raw.Type.DisplayName)
		outcome := event.ParseOutcome(raw.OutcomeType.DisplayName)
		tags := raw.TagSet()

		ev := event.Event{
			MatchID:         m.MatchID,
			TeamID:          raw.TeamID,
			PlayerID:        raw.PlayerID,
			ProviderEventID: raw.EventID,
			Minute:          raw.Minute,
			Second:          raw.Second,
			Type:            typ,
			TypeName:        raw.Type.DisplayName,
			Outcome:         outcome,
			OutcomeName:     raw.OutcomeType.DisplayName,
			X:               raw.X,
			Y:               raw.Y,
			UnderPressure:   tags.Has(qualifierUnderPressure),
			IsBigChance:     tags.Has(qualifierBigChance),
			IsPenalty:       tags.Has(qualifierPenalty),
			RawQualifiers:   raw.RawQualifierJSON(),
		}

		ev.EndX, ev.EndY = raw.EndCoordinates()

		if typ.IsShot() {
			ev.IsShot = true
			if raw.X != nil && raw.Y != nil {
				xg := metrics.ExpectedGoals(
					pitch.ToStandardX(*raw.X),
					pitch.ToStandardY(*raw.Y),
					ev.IsPenalty,
					ev.IsBigChance,
					bodyPartFromTags(tags),
				)
				ev.XG = &xg
			}
			if typ == event.TypeGoal {
				switch raw.TeamID {
				case m.Home.TeamID:
					homeScore++
				case m.Away.TeamID:
					awayScore++
				}
			}
		}

		if typ == event.TypePass && outcome == event.OutcomeSuccessful &&
			raw.X != nil && raw.Y != nil && ev.EndX != nil && ev.EndY != nil {
			xt := metrics.ExpectedThreat(*raw.X, *raw.Y, *ev.EndX, *ev.EndY)
			ev.XT = &xt
			ev.IsFinalThirdPass = possession.IsFinalThirdPass(pitch.ToStandardX(*ev.EndX))
			ev.IsProgressivePass = possession.IsProgressivePass(
				pitch.ToStandardX(*raw.X),
				pitch.ToStandardX(*ev.EndX),
			)
		}

		var chainID int
		chain, chainID = chain.Advance(raw.TeamID, typ, outcome)
		ev.PossessionChainID = chainID

		enriched = append(enriched, ev)
	}

	return enriched, homeScore, awayScore
}

// buildPlayers resolves each player's team from the first event that
// references them; players the events never mention default to the
// home side.
func (s *IngestionService) buildPlayers(m *feed.Match, events []event.Event) []player.Player {
	teamByPlayer := make(map[int64]int64, len(m.Players))
	for _, ev := range events {
		if ev.PlayerID == 0 {
			continue
		}
		if _, seen := teamByPlayer[ev.PlayerID]; !seen {
			teamByPlayer[ev.PlayerID] = ev.TeamID
		}
	}

	players := make([]player.Player, 0, len(m.Players))
	for rawID, name := range m.Players {
		id, err := feed.ParsePlayerID(rawID)
		if err != nil {
			continue
		}
		teamID, ok := teamByPlayer[id]
		if !ok {
			teamID = m.Home.TeamID
		}
		players = append(players, player.Player{
			ID:     id,
			Name:   name,
			TeamID: teamID,
		})
	}

	sort.Slice(players, func(i, j int) bool { return players[i].ID < players[j].ID })
	return players
}

func bodyPartFromTags(tags feed.TagSet) metrics.BodyPart {
	switch {
	case tags.Has(qualifierHead):
		return metrics.BodyPartHeader
	case tags.Has(qualifierRightFoot):
		return metrics.BodyPartRightFoot
	case tags.Has(qualifierLeftFoot):
		return metrics.BodyPartLeftFoot
	default:
		return metrics.BodyPartUnknown
	}
}

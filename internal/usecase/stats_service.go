package usecase

import (
	"context"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/sourcegraph/conc/pool"

	"github.com/matchpulse/matchpulse/internal/domain/event"
	"github.com/matchpulse/matchpulse/internal/domain/match"
	"github.com/matchpulse/matchpulse/internal/domain/player"
	"github.com/matchpulse/matchpulse/internal/domain/team"
	"github.com/matchpulse/matchpulse/internal/platform/cache"
)

// fieldTiltBoundary is the native x coordinate past which a pass is
// counted as final-third territory for field tilt.
const fieldTiltBoundary = 66.6

// momentumBuckets is the fixed minute axis of the momentum series;
// stoppage time past minute 99 is clipped into the last bucket.
const momentumBuckets = 100

// TeamMatchStats is one side of a match summary.
type TeamMatchStats struct {
	TeamID     int64   `json:"teamId"`
	Name       string  `json:"name"`
	Goals      int     `json:"goals"`
	XG         float64 `json:"xg"`
	Possession float64 `json:"possession"`
	FieldTilt  float64 `json:"fieldTilt"`
	PPDA       float64 `json:"ppda"`
}

// MatchSummary is the headline aggregate view of one match.
type MatchSummary struct {
	MatchID     int64          `json:"matchId"`
	Competition string         `json:"competition"`
	KickoffAt   time.Time      `json:"kickoffAt"`
	Home        TeamMatchStats `json:"home"`
	Away        TeamMatchStats `json:"away"`
}

// MomentumPoint is one minute bucket of the momentum series.
type MomentumPoint struct {
	Minute int     `json:"minute"`
	Home   float64 `json:"home"`
	Away   float64 `json:"away"`
}

// PassNetworkNode is one player in the graph, positioned at the mean
// origin of their successful passes.
type PassNetworkNode struct {
	PlayerID int64   `json:"playerId"`
	Name     string  `json:"name"`
	Passes   int     `json:"passes"`
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
}

type PassNetworkEdge struct {
	SourceID int64   `json:"sourceId"`
	TargetID int64   `json:"targetId"`
	Weight   int     `json:"weight"`
	XT       float64 `json:"xt"`
}

// PassNetwork is the who-passes-to-whom graph for one team in one
// match, with low-volume edges pruned.
type PassNetwork struct {
	MatchID int64             `json:"matchId"`
	TeamID  int64             `json:"teamId"`
	Nodes   []PassNetworkNode `json:"nodes"`
	Edges   []PassNetworkEdge `json:"edges"`
}

const (
	zoneRows = 5
	zoneCols = 6
)

// TeamZones is one team's pass origin counts over the 5x6 pitch grid.
// Rows run along the width of the pitch, columns along its length.
type TeamZones struct {
	TeamID int64                   `json:"teamId"`
	Grid   [zoneRows][zoneCols]int `json:"grid"`
}

// ZoneGrid is the zonal view of one match: per-team pass counts plus a
// per-cell dominance score, (home - away) / total, zero in cells where
// neither team passed. Positive cells lean home, negative lean away.
type ZoneGrid struct {
	Home      TeamZones                   `json:"home"`
	Away      TeamZones                   `json:"away"`
	Dominance [zoneRows][zoneCols]float64 `json:"dominance"`
}

type StatsService struct {
	matchRepo  match.Repository
	teamRepo   team.Repository
	playerRepo player.Repository
	eventRepo  event.Repository
	cache      *cache.Store
}

func NewStatsService(
	matchRepo match.Repository,
	teamRepo team.Repository,
	playerRepo player.Repository,
	eventRepo event.Repository,
	cacheStore *cache.Store,
) *StatsService {
	return &StatsService{
		matchRepo:  matchRepo,
		teamRepo:   teamRepo,
		playerRepo: playerRepo,
		eventRepo:  eventRepo,
		cache:      cacheStore,
	}
}

func (s *StatsService) ListMatches(ctx context.Context) ([]match.Match, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.StatsService.ListMatches")
	defer span.End()

	matches, err := s.matchRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list matches: %w", err)
	}
	return matches, nil
}

func (s *StatsService) MatchEvents(ctx context.Context, matchID int64) ([]event.Event, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.StatsService.MatchEvents")
	defer span.End()

	if _, err := s.requireMatch(ctx, matchID); err != nil {
		return nil, err
	}

	events, err := s.eventRepo.ListByMatch(ctx, matchID)
	if err != nil {
		return nil, fmt.Errorf("list match events: %w", err)
	}
	return events, nil
}

// MatchSummary computes both sides' headline stats. The per-team
// aggregate queries are independent and fan out concurrently; the
// result is cached because ingested matches never change.
func (s *StatsService) MatchSummary(ctx context.Context, matchID int64) (MatchSummary, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.StatsService.MatchSummary")
	defer span.End()

	m, err := s.requireMatch(ctx, matchID)
	if err != nil {
		return MatchSummary{}, err
	}

	if s.cache == nil {
		return s.buildMatchSummary(ctx, m)
	}

	key := fmt.Sprintf("stats:%d", matchID)
	value, err := s.cache.GetOrLoad(ctx, key, func(ctx context.Context) (any, error) {
		return s.buildMatchSummary(ctx, m)
	})
	if err != nil {
		return MatchSummary{}, err
	}

	summary, ok := value.(MatchSummary)
	if !ok {
		return MatchSummary{}, fmt.Errorf("unexpected cached summary type %T", value)
	}
	return summary, nil
}

func (s *StatsService) buildMatchSummary(ctx context.Context, m match.Match) (MatchSummary, error) {
	summary := MatchSummary{
		MatchID:     m.ID,
		Competition: m.Competition,
		KickoffAt:   m.KickoffAt,
		Home:        TeamMatchStats{TeamID: m.HomeTeamID, Goals: m.HomeScore},
		Away:        TeamMatchStats{TeamID: m.AwayTeamID, Goals: m.AwayScore},
	}

	var (
		homeXG, awayXG               float64
		homePasses, awayPasses       int
		homeAllPasses, awayAllPasses int
		homeTilt, awayTilt           int
		homeDef, awayDef             int
	)

	successful := event.PassFilter{SuccessfulOnly: true}
	tilt := event.PassFilter{SuccessfulOnly: true, MinX: fieldTiltBoundary}
	all := event.PassFilter{}

	p := pool.New().WithErrors().WithContext(ctx)
	p.Go(func(ctx context.Context) error {
		name, err := s.teamName(ctx, m.HomeTeamID)
		summary.Home.Name = name
		return err
	})
	p.Go(func(ctx context.Context) error {
		name, err := s.teamName(ctx, m.AwayTeamID)
		summary.Away.Name = name
		return err
	})
	p.Go(func(ctx context.Context) (err error) {
		homeXG, err = s.eventRepo.SumXG(ctx, m.ID, m.HomeTeamID)
		return err
	})
	p.Go(func(ctx context.Context) (err error) {
		awayXG, err = s.eventRepo.SumXG(ctx, m.ID, m.AwayTeamID)
		return err
	})
	p.Go(func(ctx context.Context) (err error) {
		homePasses, err = s.eventRepo.CountPasses(ctx, m.ID, m.HomeTeamID, successful)
		return err
	})
	p.Go(func(ctx context.Context) (err error) {
		awayPasses, err = s.eventRepo.CountPasses(ctx, m.ID, m.AwayTeamID, successful)
		return err
	})
	p.Go(func(ctx context.Context) (err error) {
		homeAllPasses, err = s.eventRepo.CountPasses(ctx, m.ID, m.HomeTeamID, all)
		return err
	})
	p.Go(func(ctx context.Context) (err error) {
		awayAllPasses, err = s.eventRepo.CountPasses(ctx, m.ID, m.AwayTeamID, all)
		return err
	})
	p.Go(func(ctx context.Context) (err error) {
		homeTilt, err = s.eventRepo.CountPasses(ctx, m.ID, m.HomeTeamID, tilt)
		return err
	})
	p.Go(func(ctx context.Context) (err error) {
		awayTilt, err = s.eventRepo.CountPasses(ctx, m.ID, m.AwayTeamID, tilt)
		return err
	})
	p.Go(func(ctx context.Context) (err error) {
		homeDef, err = s.eventRepo.CountDefensiveActions(ctx, m.ID, m.HomeTeamID)
		return err
	})
	p.Go(func(ctx context.Context) (err error) {
		awayDef, err = s.eventRepo.CountDefensiveActions(ctx, m.ID, m.AwayTeamID)
		return err
	})
	if err := p.Wait(); err != nil {
		return MatchSummary{}, fmt.Errorf("match summary aggregates: %w", err)
	}

	summary.Home.XG = round(homeXG, 2)
	summary.Away.XG = round(awayXG, 2)
	summary.Home.Possession, summary.Away.Possession = share(homePasses, awayPasses)
	summary.Home.FieldTilt, summary.Away.FieldTilt = share(homeTilt, awayTilt)
	summary.Home.PPDA = ratio(awayAllPasses, homeDef)
	summary.Away.PPDA = ratio(homeAllPasses, awayDef)

	return summary, nil
}

// Momentum folds each minute's attacking output into a single swing
// value per side: expected goals weighted five times heavier than
// accumulated pass threat.
func (s *StatsService) Momentum(ctx context.Context, matchID int64) ([]MomentumPoint, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.StatsService.Momentum")
	defer span.End()

	m, err := s.requireMatch(ctx, matchID)
	if err != nil {
		return nil, err
	}

	events, err := s.eventRepo.ListByMatch(ctx, matchID)
	if err != nil {
		return nil, fmt.Errorf("list match events: %w", err)
	}

	var home, away [momentumBuckets]float64
	for _, ev := range events {
		value := 0.0
		if ev.XG != nil {
			value += *ev.XG * 5
		}
		if ev.XT != nil {
			value += *ev.XT
		}
		if value == 0 {
			continue
		}

		bucket := ev.Minute
		if bucket < 0 {
			bucket = 0
		}
		if bucket >= momentumBuckets {
			bucket = momentumBuckets - 1
		}

		switch ev.TeamID {
		case m.HomeTeamID:
			home[bucket] += value
		case m.AwayTeamID:
			away[bucket] += value
		}
	}

	points := make([]MomentumPoint, momentumBuckets)
	for i := range points {
		points[i] = MomentumPoint{
			Minute: i,
			Home:   round(home[i], 3),
			Away:   round(away[i], 3),
		}
	}
	return points, nil
}

// PassNetwork links each successful pass to its receiver, taken as the
// player making the team's next successful pass. Edges carried by two
// or fewer passes are pruned as noise.
func (s *StatsService) PassNetwork(ctx context.Context, matchID, teamID int64, progressiveOnly bool) (PassNetwork, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.StatsService.PassNetwork")
	defer span.End()

	if _, err := s.requireMatch(ctx, matchID); err != nil {
		return PassNetwork{}, err
	}
	if teamID <= 0 {
		return PassNetwork{}, fmt.Errorf("%w: team id is required", ErrInvalidInput)
	}

	passes, err := s.eventRepo.ListTeamSuccessfulPasses(ctx, matchID, teamID)
	if err != nil {
		return PassNetwork{}, fmt.Errorf("list team passes: %w", err)
	}

	type origin struct {
		sumX, sumY float64
		located    int
	}
	passCounts := make(map[int64]int)
	origins := make(map[int64]*origin)
	for _, p := range passes {
		if p.PlayerID == 0 {
			continue
		}
		passCounts[p.PlayerID]++
		if p.X != nil && p.Y != nil {
			o, ok := origins[p.PlayerID]
			if !ok {
				o = &origin{}
				origins[p.PlayerID] = o
			}
			o.sumX += *p.X
			o.sumY += *p.Y
			o.located++
		}
	}

	edgeWeights := make(map[[2]int64]int)
	edgeXT := make(map[[2]int64]float64)
	for i := 0; i+1 < len(passes); i++ {
		source := passes[i].PlayerID
		target := passes[i+1].PlayerID
		if source == 0 || target == 0 {
			continue
		}
		if progressiveOnly && !passes[i].IsProgressivePass {
			continue
		}
		key := [2]int64{source, target}
		edgeWeights[key]++
		if passes[i].XT != nil {
			edgeXT[key] += *passes[i].XT
		}
	}

	network := PassNetwork{MatchID: matchID, TeamID: teamID}
	for key, weight := range edgeWeights {
		if weight <= 2 {
			continue
		}
		network.Edges = append(network.Edges, PassNetworkEdge{
			SourceID: key[0],
			TargetID: key[1],
			Weight:   weight,
			XT:       round(edgeXT[key], 3),
		})
	}
	sortEdges(network.Edges)

	// Every player with a successful pass gets a node, even when all of
	// their edges were pruned.
	for id := range passCounts {
		node := PassNetworkNode{PlayerID: id, Passes: passCounts[id]}
		if o, ok := origins[id]; ok && o.located > 0 {
			node.X = round(o.sumX/float64(o.located), 2)
			node.Y = round(o.sumY/float64(o.located), 2)
		}
		if p, ok, err := s.playerRepo.GetByID(ctx, id); err != nil {
			return PassNetwork{}, fmt.Errorf("resolve player %d: %w", id, err)
		} else if ok {
			node.Name = p.Name
		}
		network.Nodes = append(network.Nodes, node)
	}
	sortNodes(network.Nodes)

	return network, nil
}

// Zones buckets each pass origin into a 5x6 grid per team and scores
// each cell's dominance. Both outcomes count; an attempted pass still
// marks territory.
func (s *StatsService) Zones(ctx context.Context, matchID int64) (ZoneGrid, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.StatsService.Zones")
	defer span.End()

	m, err := s.requireMatch(ctx, matchID)
	if err != nil {
		return ZoneGrid{}, err
	}

	events, err := s.eventRepo.ListMatchPasses(ctx, matchID)
	if err != nil {
		return ZoneGrid{}, fmt.Errorf("list match passes: %w", err)
	}

	grid := ZoneGrid{
		Home: TeamZones{TeamID: m.HomeTeamID},
		Away: TeamZones{TeamID: m.AwayTeamID},
	}
	for _, ev := range events {
		if ev.X == nil || ev.Y == nil {
			continue
		}
		row, col := zoneCell(*ev.X, *ev.Y)
		switch ev.TeamID {
		case m.HomeTeamID:
			grid.Home.Grid[row][col]++
		case m.AwayTeamID:
			grid.Away.Grid[row][col]++
		}
	}

	for row := 0; row < zoneRows; row++ {
		for col := 0; col < zoneCols; col++ {
			h := grid.Home.Grid[row][col]
			a := grid.Away.Grid[row][col]
			if total := h + a; total > 0 {
				grid.Dominance[row][col] = round(float64(h-a)/float64(total), 3)
			}
		}
	}

	return grid, nil
}

// Leaderboard ranks the season's players by accumulated pass threat.
func (s *StatsService) Leaderboard(ctx context.Context) ([]event.LeaderboardRow, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.StatsService.Leaderboard")
	defer span.End()

	load := func(ctx context.Context) (any, error) {
		rows, err := s.eventRepo.Leaderboard(ctx, 100)
		if err != nil {
			return nil, fmt.Errorf("season leaderboard: %w", err)
		}
		return rows, nil
	}

	if s.cache == nil {
		value, err := load(ctx)
		if err != nil {
			return nil, err
		}
		return value.([]event.LeaderboardRow), nil
	}

	value, err := s.cache.GetOrLoad(ctx, "leaderboard", load)
	if err != nil {
		return nil, err
	}
	rows, ok := value.([]event.LeaderboardRow)
	if !ok {
		return nil, fmt.Errorf("unexpected cached leaderboard type %T", value)
	}
	return rows, nil
}

func (s *StatsService) requireMatch(ctx context.Context, matchID int64) (match.Match, error) {
	if matchID <= 0 {
		return match.Match{}, fmt.Errorf("%w: match id is required", ErrInvalidInput)
	}
	m, exists, err := s.matchRepo.GetByID(ctx, matchID)
	if err != nil {
		return match.Match{}, fmt.Errorf("get match: %w", err)
	}
	if !exists {
		return match.Match{}, fmt.Errorf("%w: match=%d", ErrNotFound, matchID)
	}
	return m, nil
}

func (s *StatsService) teamName(ctx context.Context, teamID int64) (string, error) {
	t, ok, err := s.teamRepo.GetByID(ctx, teamID)
	if err != nil {
		return "", fmt.Errorf("get team %d: %w", teamID, err)
	}
	if !ok {
		return "", nil
	}
	return t.Name, nil
}

// zoneCell maps native coordinates onto the grid; points on the far
// touchline or goal line fold into the last cell.
func zoneCell(x, y float64) (row, col int) {
	col = int(x / 16.66)
	if col > zoneCols-1 {
		col = zoneCols - 1
	}
	if col < 0 {
		col = 0
	}
	row = int(y / 20)
	if row > zoneRows-1 {
		row = zoneRows - 1
	}
	if row < 0 {
		row = 0
	}
	return row, col
}

// share splits a two-way count into percentages that sum to 100.
func share(a, b int) (float64, float64) {
	total := a + b
	if total == 0 {
		return 0, 0
	}
	left := round(float64(a)/float64(total)*100, 1)
	return left, round(100-left, 1)
}

// ratio is passes allowed per defensive action. The denominator is
// floored at 1: a side that never made a defensive action concedes a
// PPDA equal to the opponent's full pass count.
func ratio(passes, defensiveActions int) float64 {
	if defensiveActions < 1 {
		defensiveActions = 1
	}
	return round(float64(passes)/float64(defensiveActions), 2)
}

func round(v float64, places int) float64 {
	factor := math.Pow(10, float64(places))
	return math.Round(v*factor) / factor
}

func sortEdges(edges []PassNetworkEdge) {
	sort.Slice(edges, func(i, j int) bool {
		if edges[i].Weight != edges[j].Weight {
			return edges[i].Weight > edges[j].Weight
		}
		if edges[i].SourceID != edges[j].SourceID {
			return edges[i].SourceID < edges[j].SourceID
		}
		return edges[i].TargetID < edges[j].TargetID
	})
}

func sortNodes(nodes []PassNetworkNode) {
	sort.Slice(nodes, func(i, j int) bool {
		return nodes[i].PlayerID < nodes[j].PlayerID
	})
}

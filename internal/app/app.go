package app

import (
	"fmt"
	"net/http"

	"github.com/matchpulse/matchpulse/internal/config"
	"github.com/matchpulse/matchpulse/internal/domain/event"
	"github.com/matchpulse/matchpulse/internal/domain/match"
	"github.com/matchpulse/matchpulse/internal/domain/player"
	"github.com/matchpulse/matchpulse/internal/domain/team"
	"github.com/matchpulse/matchpulse/internal/infrastructure/repository/memory"
	"github.com/matchpulse/matchpulse/internal/infrastructure/repository/postgres"
	"github.com/matchpulse/matchpulse/internal/interfaces/httpapi"
	"github.com/matchpulse/matchpulse/internal/platform/cache"
	"github.com/matchpulse/matchpulse/internal/platform/logging"
	"github.com/matchpulse/matchpulse/internal/usecase"
)

type repositories struct {
	teams   team.Repository
	players player.Repository
	matches match.Repository
	events  event.Repository
	close   func() error
}

// buildRepositories picks the storage backend: Postgres when DB_URL is
// set, in-memory otherwise so the service runs standalone.
func buildRepositories(cfg config.Config) (repositories, error) {
	if cfg.DBURL == "" {
		teams := memory.NewTeamRepository()
		players := memory.NewPlayerRepository()
		return repositories{
			teams:   teams,
			players: players,
			matches: memory.NewMatchRepository(),
			events:  memory.NewEventRepository(players, teams),
			close:   func() error { return nil },
		}, nil
	}

	db, err := openDB(cfg)
	if err != nil {
		return repositories{}, err
	}

	return repositories{
		teams:   postgres.NewTeamRepository(db),
		players: postgres.NewPlayerRepository(db),
		matches: postgres.NewMatchRepository(db),
		events:  postgres.NewEventRepository(db),
		close:   db.Close,
	}, nil
}

func buildServices(cfg config.Config, repos repositories, logger *logging.Logger) (*usecase.StatsService, *usecase.IngestionService) {
	var (
		statsCache  *cache.Store
		invalidator usecase.CacheInvalidator
	)
	if cfg.CacheEnabled {
		statsCache = cache.NewStore(cfg.CacheTTL)
		invalidator = statsCache
	}

	statsSvc := usecase.NewStatsService(repos.matches, repos.teams, repos.players, repos.events, statsCache)
	ingestionSvc := usecase.NewIngestionService(
		repos.teams,
		repos.players,
		repos.matches,
		repos.events,
		invalidator,
		logger,
		cfg.IngestWorkers,
	)

	return statsSvc, ingestionSvc
}

// NewHTTPServer wires repositories, services, and the HTTP router.
// The returned close func releases the storage backend.
func NewHTTPServer(cfg config.Config, logger *logging.Logger) (*http.Server, func() error, error) {
	repos, err := buildRepositories(cfg)
	if err != nil {
		return nil, nil, err
	}

	statsSvc, ingestionSvc := buildServices(cfg, repos, logger)

	handler := httpapi.NewHandler(statsSvc, ingestionSvc, logger, cfg.DataDir)
	router := httpapi.NewRouter(handler, logger, cfg.CORSAllowedOrigins, cfg.InternalJobToken)

	server := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	if server.Addr == "" {
		_ = repos.close()
		return nil, nil, fmt.Errorf("http server addr cannot be empty")
	}

	return server, repos.close, nil
}

// NewIngestion builds the ingestion service for one-shot runs.
func NewIngestion(cfg config.Config, logger *logging.Logger) (*usecase.IngestionService, func() error, error) {
	repos, err := buildRepositories(cfg)
	if err != nil {
		return nil, nil, err
	}

	_, ingestionSvc := buildServices(cfg, repos, logger)

	return ingestionSvc, repos.close, nil
}

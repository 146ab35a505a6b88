package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/uptrace/opentelemetry-go-extra/otelsql"
	"github.com/uptrace/opentelemetry-go-extra/otelsqlx"

	"github.com/statlinehq/statline/external/apisports"
	"github.com/statlinehq/statline/external/espn"
	"github.com/statlinehq/statline/external/ncaa"
	"github.com/statlinehq/statline/external/newsapi"
	"github.com/statlinehq/statline/external/providerhttp"
	"github.com/statlinehq/statline/external/sportsdb"
	"github.com/statlinehq/statline/internal/config"
	"github.com/statlinehq/statline/internal/domain/favorite"
	"github.com/statlinehq/statline/internal/domain/league"
	"github.com/statlinehq/statline/internal/domain/player"
	"github.com/statlinehq/statline/internal/domain/sport"
	"github.com/statlinehq/statline/internal/domain/team"
	cacherepo "github.com/statlinehq/statline/internal/infrastructure/repository/cache"
	"github.com/statlinehq/statline/internal/infrastructure/repository/memory"
	"github.com/statlinehq/statline/internal/infrastructure/repository/postgres"
	"github.com/statlinehq/statline/internal/interfaces/httpapi"
	"github.com/statlinehq/statline/internal/platform/cache"
	"github.com/statlinehq/statline/internal/platform/logging"
	"github.com/statlinehq/statline/internal/platform/resilience"
	"github.com/statlinehq/statline/internal/usecase"
)

// App holds the wired service graph. The HTTP server and the sync CLI both
// build one of these; only the entry points differ.
type App struct {
	Config    config.Config
	Logger    *logging.Logger
	DB        *sqlx.DB
	Teams     *usecase.TeamService
	Players   *usecase.PlayerService
	Live      *usecase.LiveLookupService
	Favorites *usecase.FavoriteService
	Sync      *usecase.SyncService
	Profiles  *usecase.ProfileService
}

// New builds repositories, provider clients, and services. With DB_URL set it
// connects to Postgres; otherwise it runs on the in-memory demo dataset.
func New(cfg config.Config, logger *logging.Logger) (*App, error) {
	if logger == nil {
		logger = logging.Default()
	}

	var (
		db        *sqlx.DB
		sports    sport.Repository
		leagues   league.Repository
		teams     team.Repository
		players   player.Repository
		favorites favorite.Repository
	)

	if cfg.DBURL != "" {
		dbURL := normalizeDBURL(cfg.DBURL, cfg.DBDisablePreparedBinary)
		conn, err := otelsqlx.Connect("postgres", dbURL,
			otelsql.WithDBSystem("postgresql"),
			otelsql.WithDBName(dbNameFromURL(cfg.DBURL)),
			otelsql.WithQueryFormatter(formatDBQueryForTrace),
		)
		if err != nil {
			return nil, fmt.Errorf("connect postgres: %w", err)
		}

		seedCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := postgres.BootstrapSeed(seedCtx, conn); err != nil {
			_ = conn.Close()
			return nil, fmt.Errorf("bootstrap seed: %w", err)
		}

		db = conn
		sports = postgres.NewSportRepository(conn)
		leagues = postgres.NewLeagueRepository(conn)
		teams = postgres.NewTeamRepository(conn)
		players = postgres.NewPlayerRepository(conn)
		favorites = postgres.NewFavoriteRepository(conn)
		logger.Info("storage ready", "kind", "postgres", "db", dbNameFromURL(cfg.DBURL))
	} else {
		teamRepo := memory.NewTeamRepository(memory.SeedTeams())
		sports = memory.NewSportRepository(memory.SeedSports())
		leagues = memory.NewLeagueRepository(memory.SeedLeagues())
		teams = teamRepo
		players = memory.NewPlayerRepository(memory.SeedPlayers(), teamRepo)
		favorites = memory.NewFavoriteRepository()
		logger.Info("storage ready", "kind", "memory")
	}

	if cfg.CacheEnabled {
		store := cache.NewStore(cfg.CacheTTL)
		sports = cacherepo.NewSportRepository(sports, store)
		leagues = cacherepo.NewLeagueRepository(leagues, store)
		teams = cacherepo.NewTeamRepository(teams, store)
		players = cacherepo.NewPlayerRepository(players, store)
	}

	transport := providerhttp.Config{
		Timeout:    cfg.ProviderTimeout,
		MaxRetries: cfg.ProviderMaxRetries,
		Logger:     logger,
		CircuitBreaker: resilience.CircuitBreakerConfig{
			Enabled:          cfg.ProviderCircuitEnabled,
			FailureThreshold: cfg.ProviderCircuitFailures,
			OpenTimeout:      cfg.ProviderCircuitOpenFor,
			HalfOpenMaxReq:   cfg.ProviderCircuitHalfOpenReq,
		},
		Cache: cache.NewStore(cfg.ProviderCacheTTL),
	}

	var season func() int
	if cfg.APISportsSeason > 0 {
		fixed := cfg.APISportsSeason
		season = func() int { return fixed }
	}

	apiSports := apisports.NewClient(apisports.ClientConfig{
		Transport: transport,
		APIKey:    cfg.APISportsKey,
		Season:    season,
	})
	espnClient := espn.NewClient(espn.ClientConfig{
		Transport:  transport,
		SportPath:  cfg.ESPNSportPath,
		LeaguePath: cfg.ESPNLeaguePath,
	})
	ncaaClient := ncaa.NewClient(ncaa.ClientConfig{
		Transport: transport,
		BaseURL:   cfg.NCAABaseURL,
	})
	sportsDB := sportsdb.NewClient(sportsdb.ClientConfig{
		Transport: transport,
		APIKey:    cfg.SportsDBKey,
	})
	news := newsapi.NewClient(newsapi.ClientConfig{
		Transport: transport,
		APIKey:    cfg.NewsAPIKey,
		Logger:    logger,
	})

	reconcile := usecase.NewReconcileService(teams, players, logger)

	return &App{
		Config:    cfg,
		Logger:    logger,
		DB:        db,
		Teams:     usecase.NewTeamService(sports, teams),
		Players:   usecase.NewPlayerService(sports, teams, players),
		Live:      usecase.NewLiveLookupService(players, teams, espnClient, logger),
		Favorites: usecase.NewFavoriteService(favorites, teams, players),
		Sync: usecase.NewSyncService(usecase.SyncServiceConfig{
			Sports:    sports,
			Leagues:   leagues,
			Teams:     teams,
			Reconcile: reconcile,
			API:       apiSports,
			Live:      espnClient,
			College:   ncaaClient,
			Logger:    logger,
			Delay:     cfg.SyncDelay,
		}),
		Profiles: usecase.NewProfileService(usecase.ProfileServiceConfig{
			Sports:  sports,
			Teams:   teams,
			Players: players,
			API:     apiSports,
			Bio:     sportsDB,
			News:    news,
			Logger:  logger,
		}),
	}, nil
}

// Close releases the database handle when one was opened.
func (a *App) Close() error {
	if a.DB == nil {
		return nil
	}
	return a.DB.Close()
}

// HTTPServer assembles the router on top of the service graph.
func (a *App) HTTPServer(logger *slog.Logger) (*http.Server, error) {
	handler := httpapi.NewHandler(
		a.Teams,
		a.Players,
		a.Live,
		a.Favorites,
		a.Sync,
		a.Profiles,
		a.Logger,
	)
	router := httpapi.NewRouter(
		handler,
		logger,
		a.Config.SwaggerEnabled,
		a.Config.CORSAllowedOrigins,
		a.Config.InternalJobToken,
	)

	server := &http.Server{
		Addr:         a.Config.HTTPAddr,
		Handler:      router,
		ReadTimeout:  a.Config.ReadTimeout,
		WriteTimeout: a.Config.WriteTimeout,
	}

	if server.Addr == "" {
		return nil, fmt.Errorf("http server addr cannot be empty")
	}

	return server, nil
}

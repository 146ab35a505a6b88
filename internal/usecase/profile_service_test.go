package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/statlinehq/statline/internal/domain/player"
	"github.com/statlinehq/statline/internal/domain/sport"
	"github.com/statlinehq/statline/internal/domain/team"
	"github.com/statlinehq/statline/internal/platform/logging"
)

type stubBioProvider struct {
	bio   ExternalPlayerBio
	found bool
	err   error
}

func (p *stubBioProvider) SearchPlayer(_ context.Context, _ string) (ExternalPlayerBio, bool, error) {
	return p.bio, p.found, p.err
}

type stubNewsProvider struct {
	articles []player.Article
	err      error
}

func (p *stubNewsProvider) Search(_ context.Context, _ string, _ int) ([]player.Article, error) {
	return p.articles, p.err
}

type profileFixture struct {
	svc     *ProfileService
	players *stubPlayerRepo
	api     *stubDataProvider
	bio     *stubBioProvider
	news    *stubNewsProvider
}

func newProfileFixture() *profileFixture {
	apiID := int64(201)
	fx := &profileFixture{
		players: &stubPlayerRepo{items: []player.Player{{
			ID:                 1,
			TeamID:             1,
			APIID:              &apiID,
			FirstName:          "LeBron",
			LastName:           "James",
			Slug:               "lebron-james",
			Position:           "Forward",
			CurrentSeasonStats: []byte(`{"points":{"total":820}}`),
			Active:             true,
		}}, nextID: 1},
		api:  &stubDataProvider{},
		bio:  &stubBioProvider{},
		news: &stubNewsProvider{},
	}
	teams := &stubTeamRepo{items: []team.Team{
		{ID: 1, SportID: 1, Name: "Lakers", Slug: "lakers", Code: "LAL", Active: true},
	}, nextID: 1}
	sports := &stubSportRepo{items: []sport.Sport{
		{ID: 1, Name: "Basketball", Slug: "basketball", ProviderAlias: "basketball", Category: sport.CategoryTeam, Active: true},
	}}
	fx.svc = NewProfileService(ProfileServiceConfig{
		Sports:  sports,
		Teams:   teams,
		Players: fx.players,
		API:     fx.api,
		Bio:     fx.bio,
		News:    fx.news,
		Logger:  logging.NewNop(),
	})
	fx.svc.now = func() time.Time { return time.Date(2026, time.March, 14, 12, 0, 0, 0, time.UTC) }
	return fx
}

func TestProfileService_SyncProfile_RefreshesStatsAndNews(t *testing.T) {
	t.Parallel()

	fx := newProfileFixture()
	fx.api.seasonStats = map[int][]byte{
		2025: []byte(`{"points":{"total":901}}`),
		2024: []byte(`{"points":{"total":1712}}`),
	}
	fx.api.recentGames = []byte(`[{"event":"401"}]`)
	fx.news.articles = []player.Article{{Title: "Big night", Source: "wire", URL: "https://news/1"}}

	report, err := fx.svc.SyncProfile(context.Background(), "lebron-james")
	if err != nil {
		t.Fatalf("SyncProfile: %v", err)
	}
	if !report.StatsRefreshed || !report.NewsRefreshed {
		t.Fatalf("report = %+v, want stats and news refreshed", report)
	}

	got := fx.players.items[0]
	if string(got.CurrentSeasonStats) != `{"points":{"total":901}}` {
		t.Fatalf("current stats = %s", got.CurrentSeasonStats)
	}
	if string(got.PreviousSeasonStats) != `{"points":{"total":1712}}` {
		t.Fatalf("previous stats = %s", got.PreviousSeasonStats)
	}
	if got.StatsSyncedAt == nil || got.SyncedAt == nil {
		t.Fatal("sync timestamps not set")
	}
	if len(got.News) != 1 || got.News[0].Title != "Big night" {
		t.Fatalf("news = %+v", got.News)
	}
}

func TestProfileService_SyncProfile_KeepsBlobsOnFetchFailure(t *testing.T) {
	t.Parallel()

	fx := newProfileFixture()
	fx.api.statsErr = errors.New("upstream 503")

	report, err := fx.svc.SyncProfile(context.Background(), "lebron-james")
	if err != nil {
		t.Fatalf("SyncProfile: %v", err)
	}
	if report.StatsRefreshed {
		t.Fatal("stats reported refreshed despite fetch failure")
	}

	got := fx.players.items[0]
	if string(got.CurrentSeasonStats) != `{"points":{"total":820}}` {
		t.Fatalf("existing blob overwritten: %s", got.CurrentSeasonStats)
	}
	if got.StatsSyncedAt != nil {
		t.Fatal("stats timestamp set without a successful fetch")
	}
}

func TestProfileService_SyncProfile_BioFillIfEmptyWithComposedFallback(t *testing.T) {
	t.Parallel()

	fx := newProfileFixture()
	fx.bio.found = true
	fx.bio.bio = ExternalPlayerBio{Photo: "https://cdn/lebron.png"}

	if _, err := fx.svc.SyncProfile(context.Background(), "lebron-james"); err != nil {
		t.Fatalf("SyncProfile: %v", err)
	}

	got := fx.players.items[0]
	if got.Photo != "https://cdn/lebron.png" {
		t.Fatalf("photo = %q", got.Photo)
	}
	if got.Biography == "" {
		t.Fatal("composed biography fallback missing")
	}

	// A second run must not clobber what is already there.
	fx.bio.bio = ExternalPlayerBio{Photo: "https://cdn/other.png", Biography: "scraped text"}
	if _, err := fx.svc.SyncProfile(context.Background(), "lebron-james"); err != nil {
		t.Fatalf("SyncProfile second run: %v", err)
	}
	if fx.players.items[0].Photo != "https://cdn/lebron.png" {
		t.Fatalf("photo overwritten: %q", fx.players.items[0].Photo)
	}
}

func TestProfileService_SyncProfile_UnknownPlayer(t *testing.T) {
	t.Parallel()

	fx := newProfileFixture()
	if _, err := fx.svc.SyncProfile(context.Background(), "nobody"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestProfileService_ResyncProfiles_CountsOutcomes(t *testing.T) {
	t.Parallel()

	fx := newProfileFixture()
	apiID := int64(202)
	fx.players.items = append(fx.players.items, player.Player{
		ID: 2, TeamID: 1, APIID: &apiID, FirstName: "Austin", LastName: "Reaves", Slug: "austin-reaves", Active: true,
	})
	fx.players.nextID = 2
	fx.api.seasonStats = map[int][]byte{2025: []byte(`{"points":{"total":400}}`)}

	result, err := fx.svc.ResyncProfiles(context.Background(), ProfileResyncInput{})
	if err != nil {
		t.Fatalf("ResyncProfiles: %v", err)
	}
	if result.PlayerCount != 2 || result.SuccessCount != 2 || result.FailedCount != 0 {
		t.Fatalf("result = %+v", result)
	}
	if result.WorkerCount != 1 {
		t.Fatalf("worker count = %d, want serial default", result.WorkerCount)
	}
	if len(result.Tasks) != 2 || result.Tasks[0].Slug != "austin-reaves" {
		t.Fatalf("tasks = %+v, want sorted by slug", result.Tasks)
	}
}

func TestProfileService_SyncNews_SkipsPlayersWithoutHeadlines(t *testing.T) {
	t.Parallel()

	fx := newProfileFixture()
	fx.news.articles = nil

	tally, err := fx.svc.SyncNews(context.Background())
	if err != nil {
		t.Fatalf("SyncNews: %v", err)
	}
	if tally.Skipped != 1 || tally.Updated != 0 {
		t.Fatalf("tally = %s, want 1 skipped", tally.String())
	}
}

package usecase

import (
	"context"
	"testing"

	"github.com/statlinehq/statline/internal/domain/player"
	"github.com/statlinehq/statline/internal/domain/team"
	"github.com/statlinehq/statline/internal/platform/logging"
)

type stubTeamRepo struct {
	items  []team.Team
	nextID int64
}

func (r *stubTeamRepo) List(_ context.Context, _ team.Filter) ([]team.Team, error) {
	return append([]team.Team(nil), r.items...), nil
}

func (r *stubTeamRepo) ListBySport(_ context.Context, sportID int64) ([]team.Team, error) {
	out := make([]team.Team, 0, len(r.items))
	for _, t := range r.items {
		if t.SportID == sportID {
			out = append(out, t)
		}
	}
	return out, nil
}

func (r *stubTeamRepo) ListByIDs(_ context.Context, ids []int64) ([]team.Team, error) {
	out := make([]team.Team, 0, len(ids))
	for _, t := range r.items {
		for _, id := range ids {
			if t.ID == id {
				out = append(out, t)
			}
		}
	}
	return out, nil
}

func (r *stubTeamRepo) GetByID(_ context.Context, id int64) (team.Team, bool, error) {
	for _, t := range r.items {
		if t.ID == id {
			return t, true, nil
		}
	}
	return team.Team{}, false, nil
}

func (r *stubTeamRepo) GetBySlug(_ context.Context, slug string) (team.Team, bool, error) {
	for _, t := range r.items {
		if t.Slug == slug {
			return t, true, nil
		}
	}
	return team.Team{}, false, nil
}

func (r *stubTeamRepo) Create(_ context.Context, item team.Team) (team.Team, error) {
	r.nextID++
	item.ID = r.nextID
	r.items = append(r.items, item)
	return item, nil
}

func (r *stubTeamRepo) Update(_ context.Context, item team.Team) error {
	for i := range r.items {
		if r.items[i].ID == item.ID {
			r.items[i] = item
			return nil
		}
	}
	return nil
}

type stubPlayerRepo struct {
	items  []player.Player
	nextID int64
}

func (r *stubPlayerRepo) List(_ context.Context, _ player.Filter) ([]player.Player, error) {
	return append([]player.Player(nil), r.items...), nil
}

func (r *stubPlayerRepo) ListByTeam(_ context.Context, teamID int64) ([]player.Player, error) {
	out := make([]player.Player, 0, len(r.items))
	for _, p := range r.items {
		if p.TeamID == teamID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *stubPlayerRepo) ListByIDs(_ context.Context, ids []int64) ([]player.Player, error) {
	out := make([]player.Player, 0, len(ids))
	for _, p := range r.items {
		for _, id := range ids {
			if p.ID == id {
				out = append(out, p)
			}
		}
	}
	return out, nil
}

func (r *stubPlayerRepo) ListActive(_ context.Context) ([]player.Player, error) {
	out := make([]player.Player, 0, len(r.items))
	for _, p := range r.items {
		if p.Active {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *stubPlayerRepo) GetByID(_ context.Context, id int64) (player.Player, bool, error) {
	for _, p := range r.items {
		if p.ID == id {
			return p, true, nil
		}
	}
	return player.Player{}, false, nil
}

func (r *stubPlayerRepo) GetBySlug(_ context.Context, slug string) (player.Player, bool, error) {
	for _, p := range r.items {
		if p.Slug == slug {
			return p, true, nil
		}
	}
	return player.Player{}, false, nil
}

func (r *stubPlayerRepo) Create(_ context.Context, item player.Player) (player.Player, error) {
	r.nextID++
	item.ID = r.nextID
	r.items = append(r.items, item)
	return item, nil
}

func (r *stubPlayerRepo) Update(_ context.Context, item player.Player) error {
	for i := range r.items {
		if r.items[i].ID == item.ID {
			r.items[i] = item
			return nil
		}
	}
	return nil
}

func newTestReconcileService(teams *stubTeamRepo, players *stubPlayerRepo) *ReconcileService {
	return NewReconcileService(teams, players, logging.NewNop())
}

func TestReconcileTeams_CreateThenIdempotentUpdate(t *testing.T) {
	t.Parallel()

	teams := &stubTeamRepo{}
	svc := newTestReconcileService(teams, &stubPlayerRepo{})

	records := []ExternalTeamRecord{
		{Source: SourceAPISports, ExternalID: "14", Name: "Los Angeles Lakers", Code: "LAL", Country: "USA", Logo: "https://cdn/lal.png"},
		{Source: SourceAPISports, ExternalID: "15", Name: "Boston Celtics", Code: "BOS", Country: "USA"},
	}

	tally, err := svc.ReconcileTeams(context.Background(), TeamBatchOptions{SportID: 1}, records)
	if err != nil {
		t.Fatalf("first pass error: %v", err)
	}
	if tally.Created != 2 || tally.Updated != 0 {
		t.Fatalf("first pass tally = %s, want 2 created", tally.String())
	}

	tally, err = svc.ReconcileTeams(context.Background(), TeamBatchOptions{SportID: 1}, records)
	if err != nil {
		t.Fatalf("second pass error: %v", err)
	}
	if tally.Created != 0 || tally.Updated != 2 {
		t.Fatalf("second pass tally = %s, want 2 updated", tally.String())
	}
	if len(teams.items) != 2 {
		t.Fatalf("stored %d teams, want 2", len(teams.items))
	}
	if teams.items[0].Slug != "los-angeles-lakers" {
		t.Fatalf("slug = %q, want los-angeles-lakers", teams.items[0].Slug)
	}
}

func TestReconcileTeams_LogoFillIfEmpty(t *testing.T) {
	t.Parallel()

	apiID := int64(14)
	teams := &stubTeamRepo{
		items: []team.Team{{
			ID: 1, SportID: 1, APIID: &apiID,
			Name: "Los Angeles Lakers", Slug: "los-angeles-lakers", Code: "LAL",
			Logo: "https://curated/lal.png",
		}},
		nextID: 1,
	}
	svc := newTestReconcileService(teams, &stubPlayerRepo{})

	_, err := svc.ReconcileTeams(context.Background(), TeamBatchOptions{SportID: 1}, []ExternalTeamRecord{
		{Source: SourceAPISports, ExternalID: "14", Name: "Los Angeles Lakers", Logo: "https://cdn/other.png"},
	})
	if err != nil {
		t.Fatalf("reconcile error: %v", err)
	}
	if got := teams.items[0].Logo; got != "https://curated/lal.png" {
		t.Fatalf("logo overwritten to %q", got)
	}

	teams.items[0].Logo = ""
	_, err = svc.ReconcileTeams(context.Background(), TeamBatchOptions{SportID: 1}, []ExternalTeamRecord{
		{Source: SourceAPISports, ExternalID: "14", Name: "Los Angeles Lakers", Logo: "https://cdn/other.png"},
	})
	if err != nil {
		t.Fatalf("reconcile error: %v", err)
	}
	if got := teams.items[0].Logo; got != "https://cdn/other.png" {
		t.Fatalf("empty logo not filled, got %q", got)
	}
}

func TestReconcileTeams_SlugImmutableAndSecondaryMatch(t *testing.T) {
	t.Parallel()

	teams := &stubTeamRepo{
		items: []team.Team{{
			ID: 1, SportID: 1,
			Name: "Los Angeles Lakers", Slug: "los-angeles-lakers", Code: "LAL",
		}},
		nextID: 1,
	}
	svc := newTestReconcileService(teams, &stubPlayerRepo{})

	tally, err := svc.ReconcileTeams(context.Background(), TeamBatchOptions{SportID: 1}, []ExternalTeamRecord{
		{Source: SourceESPN, ExternalID: "13", Name: "LA Lakers", Code: "LAL"},
	})
	if err != nil {
		t.Fatalf("reconcile error: %v", err)
	}
	if tally.Updated != 1 || tally.Created != 0 {
		t.Fatalf("tally = %s, want secondary-field update", tally.String())
	}
	got := teams.items[0]
	if got.Slug != "los-angeles-lakers" {
		t.Fatalf("slug changed to %q", got.Slug)
	}
	if got.ESPNID == nil || *got.ESPNID != "13" {
		t.Fatalf("espn id not linked: %+v", got.ESPNID)
	}
}

func TestReconcileTeams_FuzzyStateVariantAndAmbiguity(t *testing.T) {
	t.Parallel()

	teams := &stubTeamRepo{
		items: []team.Team{
			{ID: 1, SportID: 1, Name: "Ohio State Buckeyes", Slug: "ohio-state-buckeyes"},
			{ID: 2, SportID: 1, Name: "Iowa State Cyclones", Slug: "iowa-state-cyclones"},
		},
		nextID: 2,
	}
	svc := newTestReconcileService(teams, &stubPlayerRepo{})

	tally, err := svc.ReconcileTeams(context.Background(), TeamBatchOptions{SportID: 1}, []ExternalTeamRecord{
		{Source: SourceNCAA, Name: "Ohio St"},
	})
	if err != nil {
		t.Fatalf("reconcile error: %v", err)
	}
	if tally.Updated != 1 || tally.LowConfidence != 1 {
		t.Fatalf("tally = %s, want one low-confidence update", tally.String())
	}

	// Both existing rows fuzzy-match a bare "State": ambiguous, skipped.
	teams2 := &stubTeamRepo{
		items: []team.Team{
			{ID: 1, SportID: 1, Name: "Ohio State", Slug: "ohio-state"},
			{ID: 2, SportID: 1, Name: "Ohio State Buckeyes", Slug: "ohio-state-buckeyes"},
		},
		nextID: 2,
	}
	svc2 := newTestReconcileService(teams2, &stubPlayerRepo{})
	tally, err = svc2.ReconcileTeams(context.Background(), TeamBatchOptions{SportID: 1}, []ExternalTeamRecord{
		{Source: SourceNCAA, Name: "Ohio St"},
	})
	if err != nil {
		t.Fatalf("reconcile error: %v", err)
	}
	if tally.Skipped != 1 || tally.Updated != 0 {
		t.Fatalf("tally = %s, want ambiguous skip", tally.String())
	}
}

func TestReconcileTeams_SkipsRecordWithoutName(t *testing.T) {
	t.Parallel()

	teams := &stubTeamRepo{}
	svc := newTestReconcileService(teams, &stubPlayerRepo{})

	tally, err := svc.ReconcileTeams(context.Background(), TeamBatchOptions{SportID: 1}, []ExternalTeamRecord{
		{Source: SourceAPISports, ExternalID: "9", Name: "   "},
	})
	if err != nil {
		t.Fatalf("reconcile error: %v", err)
	}
	if tally.Skipped != 1 || len(teams.items) != 0 {
		t.Fatalf("tally = %s with %d rows, want clean skip", tally.String(), len(teams.items))
	}
}

func TestReconcileTeams_SlugPrefixScopesCollegePrograms(t *testing.T) {
	t.Parallel()

	teams := &stubTeamRepo{}
	svc := newTestReconcileService(teams, &stubPlayerRepo{})

	leagueID := int64(3)
	tally, err := svc.ReconcileTeams(context.Background(), TeamBatchOptions{SportID: 1, LeagueID: &leagueID, SlugPrefix: "ncaa-d1-"}, []ExternalTeamRecord{
		{Source: SourceNCAA, Name: "Trinity"},
	})
	if err != nil {
		t.Fatalf("reconcile error: %v", err)
	}
	if tally.Created != 1 {
		t.Fatalf("tally = %s, want one created", tally.String())
	}
	got := teams.items[0]
	if got.Slug != "ncaa-d1-trinity" {
		t.Fatalf("slug = %q, want league-scoped slug", got.Slug)
	}
	if got.Code != "TRI" {
		t.Fatalf("code = %q, want derived TRI", got.Code)
	}
	if got.LeagueID == nil || *got.LeagueID != leagueID {
		t.Fatalf("league id not attached: %+v", got.LeagueID)
	}
}

func TestReconcileTeams_PrefixScopesUpstreamSlugs(t *testing.T) {
	t.Parallel()

	teams := &stubTeamRepo{}
	svc := newTestReconcileService(teams, &stubPlayerRepo{})

	leagueID := int64(3)
	opts := TeamBatchOptions{SportID: 1, LeagueID: &leagueID, SlugPrefix: "ncaa-d1-"}
	records := []ExternalTeamRecord{
		{Source: SourceNCAA, Name: "Trinity", Slug: "trinity"},
	}

	tally, err := svc.ReconcileTeams(context.Background(), opts, records)
	if err != nil {
		t.Fatalf("first pass error: %v", err)
	}
	if tally.Created != 1 {
		t.Fatalf("first pass tally = %s, want one created", tally.String())
	}
	if got := teams.items[0].Slug; got != "ncaa-d1-trinity" {
		t.Fatalf("slug = %q, want scoped upstream slug", got)
	}

	tally, err = svc.ReconcileTeams(context.Background(), opts, records)
	if err != nil {
		t.Fatalf("second pass error: %v", err)
	}
	if tally.Created != 0 || tally.Updated != 1 || tally.LowConfidence != 0 {
		t.Fatalf("second pass tally = %s, want one slug-matched update", tally.String())
	}
}

func TestReconcileTeams_UpdateOnlySkipsUnmatched(t *testing.T) {
	t.Parallel()

	leagueID := int64(3)
	teams := &stubTeamRepo{
		items: []team.Team{{
			ID: 1, SportID: 1, LeagueID: &leagueID,
			Name: "Trinity", Slug: "ncaa-d1-trinity", Code: "TRI", Active: true,
		}},
		nextID: 1,
	}
	svc := newTestReconcileService(teams, &stubPlayerRepo{})

	tally, err := svc.ReconcileTeams(context.Background(), TeamBatchOptions{
		SportID:    1,
		LeagueID:   &leagueID,
		SlugPrefix: "ncaa-d1-",
		UpdateOnly: true,
	}, []ExternalTeamRecord{
		{Source: SourceNCAA, Name: "Trinity", Slug: "trinity", Logo: "https://cdn/trinity.svg"},
		{Source: SourceNCAA, Name: "Mystery Tech", Slug: "mystery-tech", Logo: "https://cdn/mystery.svg"},
	})
	if err != nil {
		t.Fatalf("reconcile error: %v", err)
	}
	if tally.Created != 0 || tally.Updated != 1 || tally.Skipped != 1 {
		t.Fatalf("tally = %s, want one update and one skip", tally.String())
	}
	if len(teams.items) != 1 {
		t.Fatalf("stored %d teams, want the unmatched record dropped", len(teams.items))
	}
	if teams.items[0].Logo != "https://cdn/trinity.svg" {
		t.Fatalf("logo not backfilled: %q", teams.items[0].Logo)
	}
}

func TestReconcileTeams_SlugUniqueAcrossSports(t *testing.T) {
	t.Parallel()

	teams := &stubTeamRepo{
		items:  []team.Team{{ID: 1, SportID: 2, Name: "Trinity", Slug: "trinity", Code: "TRI", Active: true}},
		nextID: 1,
	}
	svc := newTestReconcileService(teams, &stubPlayerRepo{})

	tally, err := svc.ReconcileTeams(context.Background(), TeamBatchOptions{SportID: 1}, []ExternalTeamRecord{
		{Source: SourceNCAA, Name: "Trinity"},
	})
	if err != nil {
		t.Fatalf("reconcile error: %v", err)
	}
	if tally.Created != 1 || tally.Errors != 0 {
		t.Fatalf("tally = %s, want a clean create", tally.String())
	}
	if got := teams.items[1].Slug; got != "trinity-2" {
		t.Fatalf("slug = %q, want suffix past the other sport's row", got)
	}
}

func TestReconcilePlayers_DuplicateMappingRejected(t *testing.T) {
	t.Parallel()

	players := &stubPlayerRepo{
		items: []player.Player{{
			ID: 1, TeamID: 7, FirstName: "LeBron", LastName: "James", Slug: "lebron-james", Active: true,
		}},
		nextID: 1,
	}
	svc := newTestReconcileService(&stubTeamRepo{}, players)

	tally, err := svc.ReconcilePlayers(context.Background(), 7, []ExternalPlayerRecord{
		{Source: SourceESPN, ExternalID: "1966", FirstName: "LeBron", LastName: "James"},
		{Source: SourceESPN, FirstName: "L.", LastName: "James"},
	})
	if err != nil {
		t.Fatalf("reconcile error: %v", err)
	}
	if tally.Updated != 1 || tally.Skipped != 1 {
		t.Fatalf("tally = %s, want 1 updated + 1 skipped", tally.String())
	}
	got := players.items[0]
	if got.ESPNID == nil || *got.ESPNID != "1966" {
		t.Fatalf("espn id = %+v, want 1966 kept", got.ESPNID)
	}
	if len(players.items) != 1 {
		t.Fatalf("stored %d players, want 1", len(players.items))
	}
}

func TestReconcilePlayers_PhotoFillIfEmptyAndJerseyString(t *testing.T) {
	t.Parallel()

	players := &stubPlayerRepo{}
	svc := newTestReconcileService(&stubTeamRepo{}, players)

	first := []ExternalPlayerRecord{{
		Source: SourceAPISports, ExternalID: "265",
		FirstName: "Damian", LastName: "Lillard",
		Height: `6' 2"`, Weight: "88 kg", Jersey: "00",
		Photo: "https://cdn/dame.png",
	}}
	if _, err := svc.ReconcilePlayers(context.Background(), 7, first); err != nil {
		t.Fatalf("first pass error: %v", err)
	}

	got := players.items[0]
	if got.Jersey != "00" {
		t.Fatalf("jersey = %q, want string 00", got.Jersey)
	}
	if got.HeightCM == nil || *got.HeightCM != 74 {
		t.Fatalf("height = %+v, want 74 inches total", got.HeightCM)
	}
	if got.WeightKG == nil || *got.WeightKG != 88 {
		t.Fatalf("weight = %+v, want 88", got.WeightKG)
	}

	second := []ExternalPlayerRecord{{
		Source: SourceAPISports, ExternalID: "265",
		FirstName: "Damian", LastName: "Lillard",
		Photo: "https://cdn/replacement.png",
	}}
	if _, err := svc.ReconcilePlayers(context.Background(), 7, second); err != nil {
		t.Fatalf("second pass error: %v", err)
	}
	if got := players.items[0].Photo; got != "https://cdn/dame.png" {
		t.Fatalf("photo overwritten to %q", got)
	}
}

func TestReconcilePlayers_MatchByNameWithinTeam(t *testing.T) {
	t.Parallel()

	players := &stubPlayerRepo{
		items: []player.Player{{
			ID: 1, TeamID: 7, FirstName: "Anthony", LastName: "Davis", Slug: "anthony-davis", Active: true,
		}},
		nextID: 1,
	}
	svc := newTestReconcileService(&stubTeamRepo{}, players)

	tally, err := svc.ReconcilePlayers(context.Background(), 7, []ExternalPlayerRecord{
		{Source: SourceESPN, ExternalID: "6583", FirstName: "Anthony", LastName: "Davis", Jersey: "3"},
	})
	if err != nil {
		t.Fatalf("reconcile error: %v", err)
	}
	if tally.Updated != 1 || tally.Created != 0 {
		t.Fatalf("tally = %s, want name-match update", tally.String())
	}
	got := players.items[0]
	if got.ESPNID == nil || *got.ESPNID != "6583" {
		t.Fatalf("espn id not linked: %+v", got.ESPNID)
	}
}

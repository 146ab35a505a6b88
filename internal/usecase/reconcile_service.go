package usecase

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/statlinehq/statline/internal/domain/player"
	"github.com/statlinehq/statline/internal/domain/team"
	"github.com/statlinehq/statline/internal/platform/logging"
)

// SyncTally aggregates per-record outcomes of one reconciliation pass.
type SyncTally struct {
	Created       int
	Updated       int
	Skipped       int
	LowConfidence int
	Errors        int
}

func (t *SyncTally) Merge(other SyncTally) {
	t.Created += other.Created
	t.Updated += other.Updated
	t.Skipped += other.Skipped
	t.LowConfidence += other.LowConfidence
	t.Errors += other.Errors
}

func (t SyncTally) String() string {
	return fmt.Sprintf("created=%d updated=%d skipped=%d low_confidence=%d errors=%d",
		t.Created, t.Updated, t.Skipped, t.LowConfidence, t.Errors)
}

type matchConfidence int

const (
	matchNone matchConfidence = iota
	matchAmbiguous
	matchFuzzy
	matchSecondary
	matchExternalID
)

// TeamBatchOptions scopes one team reconciliation pass. SlugPrefix namespaces
// slugs, e.g. per league for college programs whose names repeat across
// divisions. UpdateOnly batches enrich existing rows and never create:
// scoreboard feeds routinely carry opponents from outside the synced
// division, and those must not become canonical teams.
type TeamBatchOptions struct {
	SportID    int64
	LeagueID   *int64
	SlugPrefix string
	UpdateOnly bool
}

// ReconcileService maps batches of upstream records onto canonical rows,
// deciding create vs update and which fields an update may touch.
type ReconcileService struct {
	teams   team.Repository
	players player.Repository
	logger  *logging.Logger
	now     func() time.Time
}

func NewReconcileService(teams team.Repository, players player.Repository, logger *logging.Logger) *ReconcileService {
	if logger == nil {
		logger = logging.Default()
	}
	return &ReconcileService{
		teams:   teams,
		players: players,
		logger:  logger,
		now:     time.Now,
	}
}

// ReconcileTeams runs the matching and merge policy over one batch of team
// records. It never aborts on a single bad record; outcomes are tallied.
func (s *ReconcileService) ReconcileTeams(ctx context.Context, opts TeamBatchOptions, records []ExternalTeamRecord) (SyncTally, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ReconcileService.ReconcileTeams")
	defer span.End()

	var tally SyncTally
	if opts.SportID == 0 {
		return tally, fmt.Errorf("%w: sport id is required", ErrInvalidInput)
	}

	existing, err := s.teams.ListBySport(ctx, opts.SportID)
	if err != nil {
		return tally, fmt.Errorf("list teams for reconcile: %w", err)
	}
	idx := newTeamIndex(existing)
	claims := make(map[int64]string, len(records))

	for _, rec := range records {
		if strings.TrimSpace(rec.Name) == "" {
			tally.Skipped++
			s.logger.WarnContext(ctx, "team record skipped: missing name", "source", rec.Source, "external_id", rec.ExternalID)
			continue
		}
		// Upstream slugs get the batch scope before matching so they line up
		// with rows created under the same prefix.
		if opts.SlugPrefix != "" && rec.Slug != "" && !strings.HasPrefix(rec.Slug, opts.SlugPrefix) {
			rec.Slug = opts.SlugPrefix + rec.Slug
		}

		matched, confidence := idx.match(rec)
		if confidence == matchAmbiguous {
			tally.Skipped++
			tally.LowConfidence++
			s.logger.WarnContext(ctx, "team record skipped: ambiguous fuzzy match", "source", rec.Source, "name", rec.Name)
			continue
		}
		if confidence == matchFuzzy {
			tally.LowConfidence++
			s.logger.InfoContext(ctx, "team record linked by fuzzy name match", "source", rec.Source, "name", rec.Name, "matched", matched.Name)
		}

		key := teamClaimKey(rec)
		if matched != nil && confidence != matchExternalID {
			if owner, ok := claims[matched.ID]; ok && owner != key {
				tally.Skipped++
				s.logger.WarnContext(ctx, "team record skipped: target already claimed in batch", "source", rec.Source, "name", rec.Name, "claimed_by", owner)
				continue
			}
		}

		if matched == nil {
			if opts.UpdateOnly {
				tally.Skipped++
				s.logger.InfoContext(ctx, "team record skipped: no canonical match in update-only batch", "source", rec.Source, "name", rec.Name)
				continue
			}
			candidate := s.buildTeam(ctx, opts, rec, idx)
			saved, createErr := s.teams.Create(ctx, candidate)
			if createErr != nil {
				tally.Errors++
				s.logger.ErrorContext(ctx, "create team failed", "name", rec.Name, "error", createErr)
				continue
			}
			idx.add(saved)
			claims[saved.ID] = key
			tally.Created++
			continue
		}

		merged := s.mergeTeam(*matched, opts, rec, confidence)
		if updateErr := s.teams.Update(ctx, merged); updateErr != nil {
			tally.Errors++
			s.logger.ErrorContext(ctx, "update team failed", "team_id", matched.ID, "error", updateErr)
			continue
		}
		idx.replace(merged)
		claims[merged.ID] = key
		tally.Updated++
	}

	return tally, nil
}

// ReconcilePlayers runs the same policy over one team's player batch.
func (s *ReconcileService) ReconcilePlayers(ctx context.Context, teamID int64, records []ExternalPlayerRecord) (SyncTally, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ReconcileService.ReconcilePlayers")
	defer span.End()

	var tally SyncTally
	if teamID == 0 {
		return tally, fmt.Errorf("%w: team id is required", ErrInvalidInput)
	}

	existing, err := s.players.ListByTeam(ctx, teamID)
	if err != nil {
		return tally, fmt.Errorf("list players for reconcile: %w", err)
	}
	idx := newPlayerIndex(existing)
	claims := make(map[int64]string, len(records))

	for _, rec := range records {
		if strings.TrimSpace(rec.FirstName) == "" && strings.TrimSpace(rec.LastName) == "" {
			tally.Skipped++
			s.logger.WarnContext(ctx, "player record skipped: missing name", "source", rec.Source, "external_id", rec.ExternalID)
			continue
		}

		matched, confidence := idx.match(rec)
		if confidence == matchAmbiguous {
			tally.Skipped++
			tally.LowConfidence++
			s.logger.WarnContext(ctx, "player record skipped: ambiguous fuzzy match", "source", rec.Source, "name", recordFullName(rec))
			continue
		}
		if confidence == matchFuzzy {
			tally.LowConfidence++
		}

		key := playerClaimKey(rec)
		if matched != nil && confidence != matchExternalID {
			if owner, ok := claims[matched.ID]; ok && owner != key {
				tally.Skipped++
				s.logger.WarnContext(ctx, "player record skipped: target already claimed in batch", "source", rec.Source, "name", recordFullName(rec), "claimed_by", owner)
				continue
			}
		}

		if matched == nil {
			candidate, buildErr := s.buildPlayer(ctx, teamID, rec, idx)
			if buildErr != nil {
				tally.Errors++
				s.logger.ErrorContext(ctx, "build player failed", "name", recordFullName(rec), "error", buildErr)
				continue
			}
			saved, createErr := s.players.Create(ctx, candidate)
			if createErr != nil {
				tally.Errors++
				s.logger.ErrorContext(ctx, "create player failed", "name", recordFullName(rec), "error", createErr)
				continue
			}
			idx.add(saved)
			claims[saved.ID] = key
			tally.Created++
			continue
		}

		merged := s.mergePlayer(*matched, teamID, rec)
		if updateErr := s.players.Update(ctx, merged); updateErr != nil {
			tally.Errors++
			s.logger.ErrorContext(ctx, "update player failed", "player_id", matched.ID, "error", updateErr)
			continue
		}
		idx.replace(merged)
		claims[merged.ID] = key
		tally.Updated++
	}

	return tally, nil
}

func (s *ReconcileService) buildTeam(ctx context.Context, opts TeamBatchOptions, rec ExternalTeamRecord, idx *teamIndex) team.Team {
	now := s.now()
	base := strings.TrimSpace(rec.Slug)
	if base == "" {
		base = opts.SlugPrefix + slugify(rec.Name)
	}
	// The slug constraint is table-wide, so the in-batch index alone is not
	// enough: a same-named team in another sport would collide on insert.
	slug := uniqueSlug(base, rec.ExternalID, func(candidate string) bool {
		if _, taken := idx.bySlug[candidate]; taken {
			return true
		}
		_, found, err := s.teams.GetBySlug(ctx, candidate)
		return err == nil && found
	})
	code := strings.ToUpper(strings.TrimSpace(rec.Code))
	if code == "" {
		code = deriveTeamCode(rec.Name)
	}

	item := team.Team{
		SportID:        opts.SportID,
		LeagueID:       opts.LeagueID,
		Name:           strings.TrimSpace(rec.Name),
		Slug:           slug,
		Code:           code,
		Country:        rec.Country,
		City:           rec.City,
		State:          rec.State,
		Founded:        rec.Founded,
		Venue:          rec.Venue,
		Logo:           rec.Logo,
		PrimaryColor:   rec.PrimaryColor,
		SecondaryColor: rec.SecondaryColor,
		Extra:          rec.Payload,
		SyncedAt:       &now,
		Active:         true,
	}
	applyTeamExternalID(&item, rec)
	return item
}

func (s *ReconcileService) mergeTeam(existing team.Team, opts TeamBatchOptions, rec ExternalTeamRecord, confidence matchConfidence) team.Team {
	now := s.now()
	merged := existing

	applyTeamExternalID(&merged, rec)
	// A fuzzy name hit is not strong enough evidence to move a team between
	// leagues; it may only fill a missing assignment.
	if opts.LeagueID != nil && (merged.LeagueID == nil || confidence != matchFuzzy) {
		merged.LeagueID = opts.LeagueID
	}

	if name := strings.TrimSpace(rec.Name); name != "" {
		merged.Name = name
	}
	if code := strings.ToUpper(strings.TrimSpace(rec.Code)); code != "" {
		merged.Code = code
	} else if merged.Code == "" {
		merged.Code = deriveTeamCode(merged.Name)
	}
	// Slug is never regenerated: public URLs depend on it.

	merged.Country = firstNonEmpty(rec.Country, merged.Country)
	merged.City = firstNonEmpty(rec.City, merged.City)
	merged.State = firstNonEmpty(rec.State, merged.State)
	if rec.Founded != nil {
		merged.Founded = rec.Founded
	}
	merged.Venue.Name = firstNonEmpty(rec.Venue.Name, merged.Venue.Name)
	merged.Venue.Address = firstNonEmpty(rec.Venue.Address, merged.Venue.Address)
	merged.Venue.City = firstNonEmpty(rec.Venue.City, merged.Venue.City)
	if rec.Venue.Capacity != nil {
		merged.Venue.Capacity = rec.Venue.Capacity
	}
	merged.Venue.Surface = firstNonEmpty(rec.Venue.Surface, merged.Venue.Surface)
	merged.Venue.Image = firstNonEmpty(rec.Venue.Image, merged.Venue.Image)
	merged.PrimaryColor = firstNonEmpty(rec.PrimaryColor, merged.PrimaryColor)
	merged.SecondaryColor = firstNonEmpty(rec.SecondaryColor, merged.SecondaryColor)

	// Logo is fill-if-empty: a populated value is never replaced or nulled.
	if merged.Logo == "" && rec.Logo != "" {
		merged.Logo = rec.Logo
	}

	if len(rec.Payload) > 0 {
		merged.Extra = rec.Payload
	}
	merged.SyncedAt = &now
	merged.Active = true

	return merged
}

func (s *ReconcileService) buildPlayer(ctx context.Context, teamID int64, rec ExternalPlayerRecord, idx *playerIndex) (player.Player, error) {
	now := s.now()
	base := slugify(strings.TrimSpace(rec.FirstName + " " + rec.LastName))
	slug := uniqueSlug(base, rec.ExternalID, func(candidate string) bool {
		if _, taken := idx.bySlug[candidate]; taken {
			return true
		}
		_, found, err := s.players.GetBySlug(ctx, candidate)
		return err == nil && found
	})

	item := player.Player{
		TeamID:       teamID,
		FirstName:    strings.TrimSpace(rec.FirstName),
		LastName:     strings.TrimSpace(rec.LastName),
		Slug:         slug,
		BirthDate:    rec.BirthDate,
		BirthPlace:   rec.BirthPlace,
		BirthCountry: rec.BirthCountry,
		Nationality:  rec.Nationality,
		Position:     rec.Position,
		Jersey:       rec.Jersey,
		Photo:        rec.Photo,
		SyncedAt:     &now,
		Active:       true,
	}
	if v, ok := parseHeight(rec.Height); ok {
		item.HeightCM = &v
	}
	if v, ok := parseWeight(rec.Weight); ok {
		item.WeightKG = &v
	}
	applyPlayerExternalID(&item, rec)
	return item, nil
}

func (s *ReconcileService) mergePlayer(existing player.Player, teamID int64, rec ExternalPlayerRecord) player.Player {
	now := s.now()
	merged := existing

	applyPlayerExternalID(&merged, rec)
	merged.TeamID = teamID

	merged.FirstName = firstNonEmpty(strings.TrimSpace(rec.FirstName), merged.FirstName)
	merged.LastName = firstNonEmpty(strings.TrimSpace(rec.LastName), merged.LastName)
	if rec.BirthDate != nil {
		merged.BirthDate = rec.BirthDate
	}
	merged.BirthPlace = firstNonEmpty(rec.BirthPlace, merged.BirthPlace)
	merged.BirthCountry = firstNonEmpty(rec.BirthCountry, merged.BirthCountry)
	merged.Nationality = firstNonEmpty(rec.Nationality, merged.Nationality)
	if v, ok := parseHeight(rec.Height); ok {
		merged.HeightCM = &v
	}
	if v, ok := parseWeight(rec.Weight); ok {
		merged.WeightKG = &v
	}
	merged.Position = firstNonEmpty(rec.Position, merged.Position)
	merged.Jersey = firstNonEmpty(rec.Jersey, merged.Jersey)

	// Photo is fill-if-empty, protecting curated portraits.
	if merged.Photo == "" && rec.Photo != "" {
		merged.Photo = rec.Photo
	}

	merged.SyncedAt = &now
	merged.Active = true

	return merged
}

func applyTeamExternalID(item *team.Team, rec ExternalTeamRecord) {
	switch rec.Source {
	case SourceAPISports:
		if id, err := strconv.ParseInt(rec.ExternalID, 10, 64); err == nil && id > 0 {
			item.APIID = &id
		}
	case SourceESPN:
		if rec.ExternalID != "" {
			espnID := rec.ExternalID
			item.ESPNID = &espnID
		}
	}
}

func applyPlayerExternalID(item *player.Player, rec ExternalPlayerRecord) {
	switch rec.Source {
	case SourceAPISports:
		if id, err := strconv.ParseInt(rec.ExternalID, 10, 64); err == nil && id > 0 {
			item.APIID = &id
		}
	case SourceESPN:
		if rec.ExternalID != "" {
			espnID := rec.ExternalID
			item.ESPNID = &espnID
		}
	}
}

func teamClaimKey(rec ExternalTeamRecord) string {
	if rec.ExternalID != "" {
		return rec.Source + ":" + rec.ExternalID
	}
	return "name:" + canonicalizeTeamName(rec.Name)
}

func playerClaimKey(rec ExternalPlayerRecord) string {
	if rec.ExternalID != "" {
		return rec.Source + ":" + rec.ExternalID
	}
	return "name:" + normalizePersonName(recordFullName(rec))
}

func recordFullName(rec ExternalPlayerRecord) string {
	return strings.TrimSpace(strings.TrimSpace(rec.FirstName) + " " + strings.TrimSpace(rec.LastName))
}

// uniqueSlug appends the external id, then a counter, until the candidate is
// unused.
func uniqueSlug(base, externalID string, taken func(string) bool) string {
	if base == "" {
		base = "unnamed"
	}
	if !taken(base) {
		return base
	}
	if externalID != "" {
		candidate := base + "-" + slugify(externalID)
		if !taken(candidate) {
			return candidate
		}
	}
	for i := 2; ; i++ {
		candidate := base + "-" + strconv.Itoa(i)
		if !taken(candidate) {
			return candidate
		}
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}

type teamIndex struct {
	byAPIID  map[int64]int
	byESPNID map[string]int
	byCode   map[string]int
	bySlug   map[string]int
	items    []team.Team
}

func newTeamIndex(existing []team.Team) *teamIndex {
	idx := &teamIndex{
		byAPIID:  make(map[int64]int, len(existing)),
		byESPNID: make(map[string]int, len(existing)),
		byCode:   make(map[string]int, len(existing)),
		bySlug:   make(map[string]int, len(existing)),
		items:    append([]team.Team(nil), existing...),
	}
	for i := range idx.items {
		idx.index(i)
	}
	return idx
}

func (idx *teamIndex) index(i int) {
	t := idx.items[i]
	if t.APIID != nil {
		idx.byAPIID[*t.APIID] = i
	}
	if t.ESPNID != nil && *t.ESPNID != "" {
		idx.byESPNID[*t.ESPNID] = i
	}
	if t.Code != "" {
		idx.byCode[strings.ToUpper(t.Code)] = i
	}
	if t.Slug != "" {
		idx.bySlug[t.Slug] = i
	}
}

func (idx *teamIndex) add(item team.Team) {
	idx.items = append(idx.items, item)
	idx.index(len(idx.items) - 1)
}

func (idx *teamIndex) replace(item team.Team) {
	for i := range idx.items {
		if idx.items[i].ID == item.ID {
			idx.items[i] = item
			idx.index(i)
			return
		}
	}
}

func (idx *teamIndex) match(rec ExternalTeamRecord) (*team.Team, matchConfidence) {
	switch rec.Source {
	case SourceAPISports:
		if id, err := strconv.ParseInt(rec.ExternalID, 10, 64); err == nil {
			if i, ok := idx.byAPIID[id]; ok {
				return &idx.items[i], matchExternalID
			}
		}
	case SourceESPN:
		if i, ok := idx.byESPNID[rec.ExternalID]; ok {
			return &idx.items[i], matchExternalID
		}
	}

	if code := strings.ToUpper(strings.TrimSpace(rec.Code)); code != "" {
		if i, ok := idx.byCode[code]; ok {
			return &idx.items[i], matchSecondary
		}
	}
	if rec.Slug != "" {
		if i, ok := idx.bySlug[rec.Slug]; ok {
			return &idx.items[i], matchSecondary
		}
	}

	hits := make([]int, 0, 2)
	for i := range idx.items {
		if teamNamesLikelyMatch(rec.Name, idx.items[i].Name, idx.items[i].City) {
			hits = append(hits, i)
			if len(hits) > 1 {
				break
			}
		}
	}
	switch len(hits) {
	case 0:
		return nil, matchNone
	case 1:
		return &idx.items[hits[0]], matchFuzzy
	default:
		return nil, matchAmbiguous
	}
}

type playerIndex struct {
	byAPIID  map[int64]int
	byESPNID map[string]int
	byName   map[string]int
	bySlug   map[string]int
	items    []player.Player
}

func newPlayerIndex(existing []player.Player) *playerIndex {
	idx := &playerIndex{
		byAPIID:  make(map[int64]int, len(existing)),
		byESPNID: make(map[string]int, len(existing)),
		byName:   make(map[string]int, len(existing)),
		bySlug:   make(map[string]int, len(existing)),
		items:    append([]player.Player(nil), existing...),
	}
	for i := range idx.items {
		idx.index(i)
	}
	return idx
}

func (idx *playerIndex) index(i int) {
	p := idx.items[i]
	if p.APIID != nil {
		idx.byAPIID[*p.APIID] = i
	}
	if p.ESPNID != nil && *p.ESPNID != "" {
		idx.byESPNID[*p.ESPNID] = i
	}
	idx.byName[playerNameKey(p.FirstName, p.LastName)] = i
	if p.Slug != "" {
		idx.bySlug[p.Slug] = i
	}
}

func (idx *playerIndex) add(item player.Player) {
	idx.items = append(idx.items, item)
	idx.index(len(idx.items) - 1)
}

func (idx *playerIndex) replace(item player.Player) {
	for i := range idx.items {
		if idx.items[i].ID == item.ID {
			idx.items[i] = item
			idx.index(i)
			return
		}
	}
}

func (idx *playerIndex) match(rec ExternalPlayerRecord) (*player.Player, matchConfidence) {
	switch rec.Source {
	case SourceAPISports:
		if id, err := strconv.ParseInt(rec.ExternalID, 10, 64); err == nil {
			if i, ok := idx.byAPIID[id]; ok {
				return &idx.items[i], matchExternalID
			}
		}
	case SourceESPN:
		if i, ok := idx.byESPNID[rec.ExternalID]; ok {
			return &idx.items[i], matchExternalID
		}
	}

	if key := playerNameKey(rec.FirstName, rec.LastName); key != "|" {
		if i, ok := idx.byName[key]; ok {
			return &idx.items[i], matchSecondary
		}
	}

	full := recordFullName(rec)
	hits := make([]int, 0, 2)
	for i := range idx.items {
		if personNamesLikelyMatch(full, idx.items[i].FullName()) {
			hits = append(hits, i)
			if len(hits) > 1 {
				break
			}
		}
	}
	switch len(hits) {
	case 0:
		return nil, matchNone
	case 1:
		return &idx.items[hits[0]], matchFuzzy
	default:
		return nil, matchAmbiguous
	}
}

func playerNameKey(first, last string) string {
	return strings.ToLower(strings.TrimSpace(first)) + "|" + strings.ToLower(strings.TrimSpace(last))
}

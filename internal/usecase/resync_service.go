package usecase

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/panjf2000/ants/v2"
	"github.com/statlinehq/statline/internal/domain/player"
)

type ProfileResyncInput struct {
	// TeamSlug narrows the run to one roster. Empty means all active players.
	TeamSlug   string
	MaxWorkers int
}

type ProfileResyncResult struct {
	PlayerCount  int                     `json:"player_count"`
	SuccessCount int                     `json:"success_count"`
	FailedCount  int                     `json:"failed_count"`
	WorkerCount  int                     `json:"worker_count"`
	Tasks        []ProfileResyncTaskItem `json:"tasks"`
}

type ProfileResyncTaskItem struct {
	Slug       string `json:"slug"`
	Status     string `json:"status"`
	DurationMs int64  `json:"duration_ms"`
	Message    string `json:"message,omitempty"`
}

const (
	profileResyncStatusSuccess = "success"
	profileResyncStatusFailed  = "failed"
)

// ResyncProfiles runs SyncProfile across a roster or the whole active player
// pool through a bounded worker pool. One worker is the default because the
// stat providers rate-limit aggressively.
func (s *ProfileService) ResyncProfiles(ctx context.Context, input ProfileResyncInput) (ProfileResyncResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ProfileService.ResyncProfiles")
	defer span.End()

	targets, err := s.resolveResyncTargets(ctx, input.TeamSlug)
	if err != nil {
		return ProfileResyncResult{}, err
	}

	workerCount := normalizeProfileWorkerCount(input.MaxWorkers, len(targets))
	result := ProfileResyncResult{
		PlayerCount: len(targets),
		WorkerCount: workerCount,
		Tasks:       make([]ProfileResyncTaskItem, 0, len(targets)),
	}
	if len(targets) == 0 {
		return result, nil
	}

	rows := make(chan ProfileResyncTaskItem, len(targets))

	var successCount atomic.Int32
	var failedCount atomic.Int32

	pool, err := ants.NewPool(workerCount)
	if err != nil {
		return ProfileResyncResult{}, fmt.Errorf("create worker pool: %w", err)
	}
	defer pool.Release()

	var workers sync.WaitGroup
	for _, target := range targets {
		target := target
		workers.Add(1)
		if err := pool.Submit(func() {
			defer workers.Done()

			start := time.Now()
			row := ProfileResyncTaskItem{Slug: target.Slug}

			if _, syncErr := s.SyncProfile(ctx, target.Slug); syncErr != nil {
				row.Status = profileResyncStatusFailed
				row.Message = syncErr.Error()
				failedCount.Add(1)
			} else {
				row.Status = profileResyncStatusSuccess
				successCount.Add(1)
			}
			row.DurationMs = time.Since(start).Milliseconds()

			rows <- row
		}); err != nil {
			workers.Done()
			return ProfileResyncResult{}, fmt.Errorf("submit task to worker pool: %w", err)
		}
	}

	workers.Wait()
	close(rows)

	for row := range rows {
		result.Tasks = append(result.Tasks, row)
	}
	sort.SliceStable(result.Tasks, func(i, j int) bool {
		return result.Tasks[i].Slug < result.Tasks[j].Slug
	})

	result.SuccessCount = int(successCount.Load())
	result.FailedCount = int(failedCount.Load())
	return result, nil
}

// SyncNews refreshes only the headlines for every active player. Lighter than
// a full profile resync and safe to run on a tight schedule.
func (s *ProfileService) SyncNews(ctx context.Context) (SyncTally, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ProfileService.SyncNews")
	defer span.End()

	var tally SyncTally
	if s.news == nil {
		return tally, fmt.Errorf("%w: news provider is not configured", ErrDependencyUnavailable)
	}

	items, err := s.players.ListActive(ctx)
	if err != nil {
		return tally, fmt.Errorf("list active players: %w", err)
	}

	now := s.now()
	for _, p := range items {
		articles, fetchErr := s.news.Search(ctx, p.FullName(), defaultNewsPerPlayer)
		if fetchErr != nil {
			tally.Errors++
			s.logger.WarnContext(ctx, "fetch news failed", "player", p.Slug, "error", fetchErr)
			continue
		}
		if len(articles) == 0 {
			tally.Skipped++
			continue
		}
		p.News = articles
		p.SyncedAt = &now
		if updateErr := s.players.Update(ctx, p); updateErr != nil {
			tally.Errors++
			s.logger.ErrorContext(ctx, "update player news failed", "player", p.Slug, "error", updateErr)
			continue
		}
		tally.Updated++
	}

	s.logger.InfoContext(ctx, "news sync finished", "tally", tally.String())
	return tally, nil
}

func (s *ProfileService) resolveResyncTargets(ctx context.Context, teamSlug string) ([]player.Player, error) {
	teamSlug = strings.TrimSpace(teamSlug)
	if teamSlug == "" {
		items, err := s.players.ListActive(ctx)
		if err != nil {
			return nil, fmt.Errorf("list active players: %w", err)
		}
		return items, nil
	}

	t, exists, err := s.teams.GetBySlug(ctx, teamSlug)
	if err != nil {
		return nil, fmt.Errorf("get team: %w", err)
	}
	if !exists {
		return nil, fmt.Errorf("%w: team=%s", ErrNotFound, teamSlug)
	}
	items, err := s.players.ListByTeam(ctx, t.ID)
	if err != nil {
		return nil, fmt.Errorf("list team players: %w", err)
	}
	return items, nil
}

func normalizeProfileWorkerCount(value int, taskCount int) int {
	if taskCount <= 0 {
		return 1
	}
	if value <= 0 {
		value = 1
	}
	if value > 4 {
		value = 4
	}
	if value > taskCount {
		value = taskCount
	}
	return value
}

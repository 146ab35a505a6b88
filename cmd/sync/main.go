package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/statlinehq/statline/internal/app"
	"github.com/statlinehq/statline/internal/config"
	"github.com/statlinehq/statline/internal/platform/logging"
	"github.com/statlinehq/statline/internal/usecase"
)

// One-off sync runner. Mirrors the jobs served over POST /internal/jobs/sync
// so deployments without an HTTP scheduler can cron the same work.
func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(2)
	}

	job := os.Args[1]
	fs := flag.NewFlagSet(job, flag.ExitOnError)
	sportSlug := fs.String("sport", "basketball", "sport slug")
	leagueSlug := fs.String("league", "nba", "league slug")
	division := fs.String("division", "d1", "college division")
	season := fs.Int("season", 0, "season year, 0 picks from the calendar")
	teamSlug := fs.String("team", "", "narrow profile resync to one team")
	playerSlug := fs.String("player", "", "player slug for the profile job")
	daysBack := fs.Int("days-back", 0, "scoreboard days to scan for logos, 0 uses the default")
	workers := fs.Int("workers", 0, "profile resync worker cap, 0 uses the default")
	if err := fs.Parse(os.Args[2:]); err != nil {
		log.Fatal(err)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	appLog := logging.NewJSON(cfg.LogLevel)
	logging.SetDefault(appLog)
	defer func() {
		_ = appLog.Sync()
	}()

	application, err := app.New(cfg, appLog)
	if err != nil {
		log.Fatalf("build app: %v", err)
	}
	defer func() {
		if err := application.Close(); err != nil {
			log.Printf("close storage: %v", err)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	switch job {
	case "leagues":
		tally, err := application.Sync.SyncLeagues(ctx, *sportSlug)
		reportTally(job, tally, err)
	case "teams":
		tally, err := application.Sync.SyncTeams(ctx, *sportSlug, *leagueSlug, *season)
		reportTally(job, tally, err)
	case "players":
		tally, err := application.Sync.SyncPlayers(ctx, *sportSlug, *leagueSlug, *season)
		reportTally(job, tally, err)
	case "espn-teams":
		tally, err := application.Sync.SyncESPNTeams(ctx, *sportSlug)
		reportTally(job, tally, err)
	case "espn-rosters":
		tally, err := application.Sync.SyncESPNRosters(ctx, *sportSlug)
		reportTally(job, tally, err)
	case "ncaa-teams":
		tally, err := application.Sync.SyncNCAATeams(ctx, *sportSlug, *leagueSlug, *division)
		reportTally(job, tally, err)
	case "ncaa-logos":
		tally, err := application.Sync.SyncNCAALogos(ctx, *sportSlug, *leagueSlug, *division, *daysBack)
		reportTally(job, tally, err)
	case "profile":
		report, err := application.Profiles.SyncProfile(ctx, *playerSlug)
		if err != nil {
			log.Fatalf("profile: %v", err)
		}
		log.Printf("profile %s: stats=%t bio=%t news=%t",
			report.Slug, report.StatsRefreshed, report.BioRefreshed, report.NewsRefreshed)
	case "profiles":
		result, err := application.Profiles.ResyncProfiles(ctx, usecase.ProfileResyncInput{
			TeamSlug:   *teamSlug,
			MaxWorkers: *workers,
		})
		if err != nil {
			log.Fatalf("profiles: %v", err)
		}
		log.Printf("profiles: players=%d succeeded=%d failed=%d workers=%d",
			result.PlayerCount, result.SuccessCount, result.FailedCount, result.WorkerCount)
	case "news":
		tally, err := application.Profiles.SyncNews(ctx)
		reportTally(job, tally, err)
	default:
		printUsage()
		os.Exit(2)
	}
}

func reportTally(job string, tally usecase.SyncTally, err error) {
	if err != nil {
		log.Fatalf("%s: %v", job, err)
	}
	log.Printf("%s: created=%d updated=%d skipped=%d low_confidence=%d errors=%d",
		job, tally.Created, tally.Updated, tally.Skipped, tally.LowConfidence, tally.Errors)
}

func printUsage() {
	prog := filepath.Base(os.Args[0])
	fmt.Fprintf(os.Stderr, "usage: %s <job> [flags]\n", prog)
	fmt.Fprintln(os.Stderr, "jobs: leagues teams players espn-teams espn-rosters ncaa-teams ncaa-logos profile profiles news")
	fmt.Fprintln(os.Stderr, "examples:")
	fmt.Fprintf(os.Stderr, "  %s teams -sport basketball -league nba\n", prog)
	fmt.Fprintf(os.Stderr, "  %s profiles -team los-angeles-lakers -workers 4\n", prog)
	fmt.Fprintf(os.Stderr, "  %s profile -player lebron-james\n", prog)
}

package httpapi

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	sonic "github.com/bytedance/sonic"
	"github.com/statlinehq/statline/internal/usecase"
)

// syncJobRequest is the optional body for POST /internal/jobs/sync/{job}.
// Every field has a service-side default; an empty body is a valid request
// for jobs that need no scoping.
type syncJobRequest struct {
	Sport      string `json:"sport"`
	League     string `json:"league"`
	Division   string `json:"division"`
	Season     int    `json:"season"`
	Team       string `json:"team"`
	Player     string `json:"player"`
	DaysBack   int    `json:"days_back"`
	MaxWorkers int    `json:"max_workers"`
}

type syncTallyDTO struct {
	Created       int `json:"created"`
	Updated       int `json:"updated"`
	Skipped       int `json:"skipped"`
	LowConfidence int `json:"lowConfidence"`
	Errors        int `json:"errors"`
}

func (h *Handler) RunSyncJob(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RunSyncJob")
	defer span.End()

	job := strings.TrimSpace(r.PathValue("job"))
	req, err := decodeSyncJobRequest(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	if req.Division == "" {
		req.Division = "d1"
	}

	var (
		tally  usecase.SyncTally
		result any
	)
	switch job {
	case "leagues":
		tally, err = h.syncService.SyncLeagues(ctx, req.Sport)
		result = tallyToDTO(tally)
	case "teams":
		tally, err = h.syncService.SyncTeams(ctx, req.Sport, req.League, req.Season)
		result = tallyToDTO(tally)
	case "players":
		tally, err = h.syncService.SyncPlayers(ctx, req.Sport, req.League, req.Season)
		result = tallyToDTO(tally)
	case "espn-teams":
		tally, err = h.syncService.SyncESPNTeams(ctx, req.Sport)
		result = tallyToDTO(tally)
	case "espn-rosters":
		tally, err = h.syncService.SyncESPNRosters(ctx, req.Sport)
		result = tallyToDTO(tally)
	case "ncaa-teams":
		tally, err = h.syncService.SyncNCAATeams(ctx, req.Sport, req.League, req.Division)
		result = tallyToDTO(tally)
	case "ncaa-logos":
		tally, err = h.syncService.SyncNCAALogos(ctx, req.Sport, req.League, req.Division, req.DaysBack)
		result = tallyToDTO(tally)
	case "profile":
		result, err = h.profileService.SyncProfile(ctx, req.Player)
	case "profiles":
		result, err = h.profileService.ResyncProfiles(ctx, usecase.ProfileResyncInput{
			TeamSlug:   req.Team,
			MaxWorkers: req.MaxWorkers,
		})
	case "news":
		tally, err = h.profileService.SyncNews(ctx)
		result = tallyToDTO(tally)
	default:
		writeError(ctx, w, fmt.Errorf("%w: unknown sync job %q", usecase.ErrInvalidInput, job))
		return
	}

	if err != nil {
		h.logger.WarnContext(ctx, "sync job failed", "job", job, "error", err)
		writeError(ctx, w, err)
		return
	}

	h.logger.InfoContext(ctx, "sync job finished", "job", job)
	writeSuccess(ctx, w, http.StatusOK, result)
}

func decodeSyncJobRequest(r *http.Request) (syncJobRequest, error) {
	decoder := sonic.ConfigDefault.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()

	var req syncJobRequest
	if err := decoder.Decode(&req); err != nil {
		if errors.Is(err, io.EOF) {
			return syncJobRequest{}, nil
		}
		return syncJobRequest{}, fmt.Errorf("%w: invalid JSON payload: %v", usecase.ErrInvalidInput, err)
	}

	return req, nil
}

func tallyToDTO(t usecase.SyncTally) syncTallyDTO {
	return syncTallyDTO{
		Created:       t.Created,
		Updated:       t.Updated,
		Skipped:       t.Skipped,
		LowConfidence: t.LowConfidence,
		Errors:        t.Errors,
	}
}

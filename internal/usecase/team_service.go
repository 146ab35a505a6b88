package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/statlinehq/statline/internal/domain/sport"
	"github.com/statlinehq/statline/internal/domain/team"
)

// TeamListInput carries team listing filters as received from the API layer.
type TeamListInput struct {
	SportSlug  string
	LeagueID   int64
	Query      string
	Conference string
	Division   string
	National   *bool
	Page       int
	PerPage    int
}

type TeamService struct {
	sports sport.Repository
	teams  team.Repository
}

func NewTeamService(sports sport.Repository, teams team.Repository) *TeamService {
	return &TeamService{sports: sports, teams: teams}
}

func (s *TeamService) ListTeams(ctx context.Context, input TeamListInput) ([]team.Team, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.TeamService.ListTeams")
	defer span.End()

	filter := team.Filter{
		LeagueID:   input.LeagueID,
		Query:      strings.TrimSpace(input.Query),
		Conference: strings.TrimSpace(input.Conference),
		Division:   strings.TrimSpace(input.Division),
		National:   input.National,
	}
	filter.Limit, filter.Offset = pageWindow(input.Page, input.PerPage)

	if slug := strings.TrimSpace(input.SportSlug); slug != "" {
		sp, exists, err := s.sports.GetBySlug(ctx, slug)
		if err != nil {
			return nil, fmt.Errorf("get sport: %w", err)
		}
		if !exists {
			return nil, fmt.Errorf("%w: sport=%s", ErrNotFound, slug)
		}
		filter.SportID = sp.ID
	}

	teams, err := s.teams.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list teams: %w", err)
	}

	return teams, nil
}

func (s *TeamService) GetTeamBySlug(ctx context.Context, slug string) (team.Team, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.TeamService.GetTeamBySlug")
	defer span.End()

	slug = strings.TrimSpace(slug)
	if slug == "" {
		return team.Team{}, fmt.Errorf("%w: team slug is required", ErrInvalidInput)
	}

	item, exists, err := s.teams.GetBySlug(ctx, slug)
	if err != nil {
		return team.Team{}, fmt.Errorf("get team: %w", err)
	}
	if !exists {
		return team.Team{}, fmt.Errorf("%w: team=%s", ErrNotFound, slug)
	}

	return item, nil
}

const (
	defaultPageSize = 25
	maxPageSize     = 100
)

func pageWindow(page, perPage int) (limit, offset int) {
	if perPage <= 0 {
		perPage = defaultPageSize
	}
	if perPage > maxPageSize {
		perPage = maxPageSize
	}
	if page < 1 {
		page = 1
	}
	return perPage, (page - 1) * perPage
}

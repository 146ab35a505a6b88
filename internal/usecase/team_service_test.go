package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/statlinehq/statline/internal/infrastructure/repository/memory"
)

func newTeamServiceFixture() *TeamService {
	sports := memory.NewSportRepository(memory.SeedSports())
	teams := memory.NewTeamRepository(memory.SeedTeams())
	return NewTeamService(sports, teams)
}

func TestTeamService_ListTeams_FiltersBySportAndQuery(t *testing.T) {
	t.Parallel()

	svc := newTeamServiceFixture()

	got, err := svc.ListTeams(context.Background(), TeamListInput{SportSlug: "basketball", Query: "celtics"})
	if err != nil {
		t.Fatalf("ListTeams: %v", err)
	}
	if len(got) != 1 || got[0].Slug != "boston-celtics" {
		t.Fatalf("unexpected teams: %+v", got)
	}
}

func TestTeamService_ListTeams_UnknownSport(t *testing.T) {
	t.Parallel()

	svc := newTeamServiceFixture()

	_, err := svc.ListTeams(context.Background(), TeamListInput{SportSlug: "cricket"})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestTeamService_GetTeamBySlug(t *testing.T) {
	t.Parallel()

	svc := newTeamServiceFixture()

	got, err := svc.GetTeamBySlug(context.Background(), "los-angeles-lakers")
	if err != nil {
		t.Fatalf("GetTeamBySlug: %v", err)
	}
	if got.Name != "Los Angeles Lakers" {
		t.Fatalf("unexpected team: %+v", got)
	}

	if _, err := svc.GetTeamBySlug(context.Background(), ""); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for blank slug, got %v", err)
	}
	if _, err := svc.GetTeamBySlug(context.Background(), "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestPageWindow(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name       string
		page       int
		perPage    int
		wantLimit  int
		wantOffset int
	}{
		{"defaults", 0, 0, defaultPageSize, 0},
		{"second page", 2, 10, 10, 10},
		{"capped per page", 1, 500, maxPageSize, 0},
		{"negative page clamps", -3, 10, 10, 0},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			limit, offset := pageWindow(tc.page, tc.perPage)
			if limit != tc.wantLimit || offset != tc.wantOffset {
				t.Fatalf("pageWindow(%d, %d) = (%d, %d), want (%d, %d)",
					tc.page, tc.perPage, limit, offset, tc.wantLimit, tc.wantOffset)
			}
		})
	}
}

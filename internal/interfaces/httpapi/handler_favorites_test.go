package httpapi

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestToggleFavoriteTeam_Roundtrip(t *testing.T) {
	t.Parallel()

	router := newTestRouter(t, nil)

	toggle := func() map[string]any {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/users/u-100/favorites/teams/boston-celtics", nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("expected status 200, got %d: %s", rec.Code, rec.Body.String())
		}
		envelope := decodeEnvelope(t, rec.Body.Bytes())
		data, _ := envelope["data"].(map[string]any)
		return data
	}

	first := toggle()
	if got, _ := first["favorited"].(bool); !got {
		t.Fatalf("expected first toggle to favorite, got %v", first)
	}
	second := toggle()
	if got, _ := second["favorited"].(bool); got {
		t.Fatalf("expected second toggle to unfavorite, got %v", second)
	}
}

func TestToggleFavoritePlayer_UnknownSlug(t *testing.T) {
	t.Parallel()

	router := newTestRouter(t, nil)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/users/u-100/favorites/players/no-such-player", nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected status 404, got %d", rec.Code)
	}
}

func TestListFavorites_ResolvesRows(t *testing.T) {
	t.Parallel()

	router := newTestRouter(t, nil)

	seed := []string{
		"/api/v1/users/u-200/favorites/teams/los-angeles-lakers",
		"/api/v1/users/u-200/favorites/players/lebron-james",
	}
	for _, path := range seed {
		req := httptest.NewRequest(http.MethodPost, path, nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("seeding favorite %s failed with %d", path, rec.Code)
		}
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/users/u-200/favorites", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	envelope := decodeEnvelope(t, rec.Body.Bytes())
	data, _ := envelope["data"].(map[string]any)

	teams, _ := data["teams"].([]any)
	if len(teams) != 1 {
		t.Fatalf("expected 1 favorite team, got %d", len(teams))
	}
	teamRow, _ := teams[0].(map[string]any)
	if got, _ := teamRow["slug"].(string); got != "los-angeles-lakers" {
		t.Fatalf("unexpected favorite team slug %v", teamRow["slug"])
	}

	players, _ := data["players"].([]any)
	if len(players) != 1 {
		t.Fatalf("expected 1 favorite player, got %d", len(players))
	}
	playerRow, _ := players[0].(map[string]any)
	if got, _ := playerRow["name"].(string); got != "LeBron James" {
		t.Fatalf("unexpected favorite player name %v", playerRow["name"])
	}
}

func TestListFavorites_EmptyUser(t *testing.T) {
	t.Parallel()

	router := newTestRouter(t, nil)
	req := httptest.NewRequest(http.MethodGet, "/api/v1/users/u-nobody/favorites", nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	envelope := decodeEnvelope(t, rec.Body.Bytes())
	data, _ := envelope["data"].(map[string]any)
	if teams, _ := data["teams"].([]any); len(teams) != 0 {
		t.Fatalf("expected no favorite teams, got %d", len(teams))
	}
}

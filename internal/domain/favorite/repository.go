package favorite

import "context"

// Repository toggles and lists user favorites. Toggle calls report whether
// the relation exists after the call.
type Repository interface {
	ToggleTeam(ctx context.Context, userID string, teamID int64) (bool, error)
	TogglePlayer(ctx context.Context, userID string, playerID int64) (bool, error)
	ListTeamIDs(ctx context.Context, userID string) ([]int64, error)
	ListPlayerIDs(ctx context.Context, userID string) ([]int64, error)
}

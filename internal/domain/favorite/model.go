package favorite

import "time"

// TeamFavorite links a user to a team they follow.
type TeamFavorite struct {
	UserID    string
	TeamID    int64
	CreatedAt time.Time
}

// PlayerFavorite links a user to a player they follow.
type PlayerFavorite struct {
	UserID    string
	PlayerID  int64
	CreatedAt time.Time
}

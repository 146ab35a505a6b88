package player

import "context"

// Filter narrows player listings. Zero values mean "not filtered".
type Filter struct {
	TeamID   int64
	SportID  int64
	Position string
	Query    string
	Limit    int
	Offset   int
}

// Repository describes player persistence needs from use cases.
type Repository interface {
	List(ctx context.Context, filter Filter) ([]Player, error)
	ListByTeam(ctx context.Context, teamID int64) ([]Player, error)
	ListByIDs(ctx context.Context, ids []int64) ([]Player, error)
	ListActive(ctx context.Context) ([]Player, error)
	GetByID(ctx context.Context, id int64) (Player, bool, error)
	GetBySlug(ctx context.Context, slug string) (Player, bool, error)
	Create(ctx context.Context, item Player) (Player, error)
	Update(ctx context.Context, item Player) error
}

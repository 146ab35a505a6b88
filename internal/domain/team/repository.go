package team

import "context"

// Filter narrows team listings. Zero values mean "not filtered".
type Filter struct {
	SportID    int64
	LeagueID   int64
	Query      string
	Conference string
	Division   string
	National   *bool
	Limit      int
	Offset     int
}

// Repository describes team persistence needs from use cases.
type Repository interface {
	List(ctx context.Context, filter Filter) ([]Team, error)
	ListBySport(ctx context.Context, sportID int64) ([]Team, error)
	ListByIDs(ctx context.Context, ids []int64) ([]Team, error)
	GetByID(ctx context.Context, id int64) (Team, bool, error)
	GetBySlug(ctx context.Context, slug string) (Team, bool, error)
	Create(ctx context.Context, item Team) (Team, error)
	Update(ctx context.Context, item Team) error
}

package league

import "context"

// Repository describes league persistence needs from use cases.
type Repository interface {
	List(ctx context.Context) ([]League, error)
	ListBySport(ctx context.Context, sportID int64) ([]League, error)
	GetBySlug(ctx context.Context, slug string) (League, bool, error)
	GetByExternalID(ctx context.Context, externalID int64) (League, bool, error)
	Create(ctx context.Context, item League) (League, error)
	Update(ctx context.Context, item League) error
}

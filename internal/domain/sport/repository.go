package sport

import "context"

// Repository describes sport persistence needs from use cases.
type Repository interface {
	List(ctx context.Context) ([]Sport, error)
	GetBySlug(ctx context.Context, slug string) (Sport, bool, error)
	Upsert(ctx context.Context, item Sport) (Sport, error)
}

package alerts

import "context"

type Repository interface {
	Create(ctx context.Context, a Alert) (string, error)
	GetByID(ctx context.Context, id string) (Alert, error)
	List(ctx context.Context) ([]Alert, error)
	MarkRead(ctx context.Context, id string) error
	Delete(ctx context.Context, id string) error
}

package history

import "context"

type Repository interface {
	List(ctx context.Context) ([]DoseRecord, error)
}

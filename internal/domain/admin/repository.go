package admin

import "context"

type Repository interface {
	Counts(ctx context.Context) (Counts, error)
}

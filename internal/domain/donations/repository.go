package donations

import (
	"context"
	"time"

	"github.com/VaneSolis/Sitio-AFAD/internal/platform/pagination"
)

type ListFilter struct {
	Status Status
	Method Method
	Search string
	Page   pagination.Page
}

type Repository interface {
	Create(ctx context.Context, d Donation) (int64, error)
	GetByID(ctx context.Context, id int64) (Donation, error)
	List(ctx context.Context, f ListFilter) ([]Donation, int64, error)
	UpdateStatus(ctx context.Context, id int64, status Status, paymentRef string, at time.Time) error
	Delete(ctx context.Context, id int64) error
	Stats(ctx context.Context, since time.Time) (Stats, error)
}

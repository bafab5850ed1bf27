package contacts

import (
	"context"
	"time"

	"github.com/VaneSolis/Sitio-AFAD/internal/platform/pagination"
)

type ListFilter struct {
	Status    Status
	Responded *bool
	Page      pagination.Page
}

type Repository interface {
	Create(ctx context.Context, c Contact) (int64, error)
	GetByID(ctx context.Context, id int64) (Contact, error)
	List(ctx context.Context, f ListFilter) ([]Contact, int64, error)
	// MarkResponded es idempotente: cada llamada pisa fecha_respuesta y observaciones.
	MarkResponded(ctx context.Context, id int64, notes string, at time.Time) error
	Delete(ctx context.Context, id int64) error
}

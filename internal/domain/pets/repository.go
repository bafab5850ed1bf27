package pets

import (
	"context"
	"time"

	"github.com/VaneSolis/Sitio-AFAD/internal/platform/pagination"
)

// ListFilter: un campo vacío no filtra.
type ListFilter struct {
	Species Species
	Age     Age
	Size    Size
	Status  Status
	Search  string
	Page    pagination.Page
}

type Repository interface {
	// Create inserta la mascota y sus traits de forma atómica.
	Create(ctx context.Context, p Pet) (int64, error)
	// Update reemplaza los datos y el set completo de traits de forma atómica.
	Update(ctx context.Context, p Pet) error
	GetByID(ctx context.Context, id int64) (Pet, error)
	List(ctx context.Context, f ListFilter) ([]Pet, int64, error)
	Delete(ctx context.Context, id int64) error
	Stats(ctx context.Context, now time.Time) (Stats, error)
}

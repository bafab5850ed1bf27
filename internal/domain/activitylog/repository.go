package activitylog

import (
	"context"
	"time"

	"github.com/VaneSolis/Sitio-AFAD/internal/platform/pagination"
)

type ListFilter struct {
	Level Level
	From  *time.Time
	To    *time.Time
	Page  pagination.Page
}

type Repository interface {
	Append(ctx context.Context, e Entry) error
	List(ctx context.Context, f ListFilter) ([]Entry, int64, error)
	// CountByDay agrupa por día y nivel las entradas desde since, día más reciente primero.
	CountByDay(ctx context.Context, since time.Time) ([]DailyCount, error)
	DeleteBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

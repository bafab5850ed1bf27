package activitylog

import (
	"context"
	"strings"
	"time"

	"github.com/VaneSolis/Sitio-AFAD/internal/platform/apperr"
	"github.com/VaneSolis/Sitio-AFAD/internal/platform/pagination"
	"github.com/VaneSolis/Sitio-AFAD/internal/platform/reqctx"
	"github.com/VaneSolis/Sitio-AFAD/internal/platform/tasks"
)

// Recorder es lo que usan los demás módulos para registrar actividad.
// Record nunca falla: el append corre como efecto secundario.
type Recorder interface {
	Record(ctx context.Context, level Level, message string)
}

// Discard ignora todo.
type Discard struct{}

func (Discard) Record(context.Context, Level, string) {}

const statsWindow = 7 * 24 * time.Hour

type Service struct {
	repo  Repository
	tasks tasks.Dispatcher
	now   func() time.Time
}

func NewService(repo Repository, d tasks.Dispatcher) *Service {
	if d == nil {
		d = tasks.Inline{}
	}
	return &Service{
		repo:  repo,
		tasks: d,
		now:   time.Now,
	}
}

// Record toma el origen del request ahora (el ctx del request muere antes que la tarea)
// y despacha el append.
func (s *Service) Record(ctx context.Context, level Level, message string) {
	e := Entry{
		Level:     level,
		Message:   strings.TrimSpace(message),
		CreatedAt: s.now().UTC(),
	}
	if c, ok := reqctx.Client(ctx); ok {
		e.Origin.IP = c.IP
		e.Origin.UserAgent = c.UserAgent
	}

	s.tasks.Go("activity_log", func(ctx context.Context) error {
		return s.repo.Append(ctx, e)
	})
}

type ListInput struct {
	Level string
	From  *time.Time
	To    *time.Time
	Page  pagination.Page
}

func (s *Service) List(ctx context.Context, in ListInput) ([]Entry, pagination.Meta, error) {
	lvl := Level(strings.ToLower(strings.TrimSpace(in.Level)))
	if lvl != "" && !lvl.Valid() {
		return nil, pagination.Meta{}, apperr.Invalid("nivel", "debe ser uno de: info, warning, error")
	}
	if in.From != nil && in.To != nil && in.To.Before(*in.From) {
		return nil, pagination.Meta{}, apperr.Invalid("fechaHasta", "debe ser posterior a fechaDesde")
	}

	items, total, err := s.repo.List(ctx, ListFilter{Level: lvl, From: in.From, To: in.To, Page: in.Page})
	if err != nil {
		return nil, pagination.Meta{}, err
	}
	return items, pagination.NewMeta(in.Page, total), nil
}

// Stats cuenta entradas por día y nivel de los últimos 7 días.
func (s *Service) Stats(ctx context.Context) ([]DailyCount, error) {
	return s.repo.CountByDay(ctx, s.now().UTC().Add(-statsWindow))
}

// Cleanup borra las entradas con más de retentionDays días.
func (s *Service) Cleanup(ctx context.Context, retentionDays int) (int64, error) {
	if retentionDays <= 0 {
		return 0, nil
	}
	cutoff := s.now().UTC().AddDate(0, 0, -retentionDays)
	return s.repo.DeleteBefore(ctx, cutoff)
}

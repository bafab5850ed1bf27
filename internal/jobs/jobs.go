// Package jobs agenda las tareas periódicas del servicio.
package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/VaneSolis/Sitio-AFAD/internal/platform/logger"
)

var cronParser = cron.NewParser(
	cron.SecondOptional | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor,
)

// LogCleaner borra entradas del log de actividad más viejas que retentionDays.
type LogCleaner interface {
	Cleanup(ctx context.Context, retentionDays int) (int64, error)
}

type Options struct {
	// Schedule en formato cron (con segundos opcionales o descriptores @daily).
	Schedule      string
	RetentionDays int
	Timeout       time.Duration
}

type Scheduler struct {
	cron *cron.Cron
	log  logger.Logger
}

// New registra la limpieza del log de actividad. RetentionDays <= 0 o un
// Schedule vacío dejan el scheduler sin tareas.
func New(cleaner LogCleaner, log logger.Logger, opts Options) (*Scheduler, error) {
	if log == nil {
		log = logger.Nop()
	}
	if opts.Timeout <= 0 {
		opts.Timeout = time.Minute
	}
	log = log.With(map[string]any{"component": "jobs"})

	s := &Scheduler{
		cron: cron.New(cron.WithParser(cronParser), cron.WithLocation(time.UTC)),
		log:  log,
	}
	if opts.RetentionDays <= 0 || opts.Schedule == "" {
		return s, nil
	}

	job := CleanupJob(cleaner, log, opts.RetentionDays, opts.Timeout)
	if _, err := s.cron.AddFunc(opts.Schedule, job); err != nil {
		return nil, fmt.Errorf("jobs: invalid schedule %q: %w", opts.Schedule, err)
	}
	return s, nil
}

// CleanupJob arma la función que corre cron. Los errores sólo se registran.
func CleanupJob(cleaner LogCleaner, log logger.Logger, retentionDays int, timeout time.Duration) func() {
	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		n, err := cleaner.Cleanup(ctx, retentionDays)
		if err != nil {
			log.Error("activity log cleanup failed", map[string]any{"error": err})
			return
		}
		log.Info("activity log cleanup", map[string]any{"deleted": n, "retention_days": retentionDays})
	}
}

func (s *Scheduler) Start() { s.cron.Start() }

// Stop espera a que termine la tarea en curso o a que ctx expire.
func (s *Scheduler) Stop(ctx context.Context) error {
	select {
	case <-s.cron.Stop().Done():
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Entries devuelve la cantidad de tareas agendadas.
func (s *Scheduler) Entries() int { return len(s.cron.Entries()) }

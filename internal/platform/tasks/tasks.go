// Package tasks ejecuta efectos secundarios (emails, log de actividad) fuera del
// request: después de la escritura principal, con timeout y reintentos propios.
// Sus fallas se registran y se descartan; nunca llegan al cliente HTTP.
package tasks

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/google/uuid"
	"github.com/panjf2000/ants/v2"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/VaneSolis/Sitio-AFAD/internal/platform/apperr"
	"github.com/VaneSolis/Sitio-AFAD/internal/platform/logger"
)

// Func es un efecto secundario. Recibe un ctx con el timeout de cada intento.
type Func func(ctx context.Context) error

// Dispatcher despacha efectos secundarios fire-and-forget.
type Dispatcher interface {
	Go(name string, fn Func)
}

const DefaultWorkers = 32

type Options struct {
	// Workers es el máximo de tareas en curso. Lo que exceda se descarta.
	Workers    int
	MaxRetries uint64
	// Timeout por intento.
	Timeout time.Duration
	// InitialInterval del backoff exponencial (default 200ms).
	InitialInterval time.Duration
	// Registerer opcional para el contador afad_tasks_total.
	Registerer prometheus.Registerer
}

// Runner es el Dispatcher de producción: pool acotado (ants) + backoff exponencial.
type Runner struct {
	pool *ants.Pool
	log  logger.Logger
	opts Options

	wg     sync.WaitGroup
	base   context.Context
	cancel context.CancelFunc

	total *prometheus.CounterVec
}

func NewRunner(log logger.Logger, opts Options) (*Runner, error) {
	if log == nil {
		log = logger.Nop()
	}
	if opts.Workers <= 0 {
		opts.Workers = DefaultWorkers
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 10 * time.Second
	}
	if opts.InitialInterval <= 0 {
		opts.InitialInterval = 200 * time.Millisecond
	}

	log = log.With(map[string]any{"component": "tasks"})

	// Nonblocking: con todos los workers ocupados Submit devuelve ErrPoolOverload
	// en lugar de frenar al handler HTTP; la tarea se descarta como fallida.
	pool, err := ants.NewPool(opts.Workers,
		ants.WithNonblocking(true),
		ants.WithPanicHandler(func(p any) {
			log.Error("task panic", map[string]any{"panic": fmt.Sprint(p)})
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("tasks: new pool: %w", err)
	}

	base, cancel := context.WithCancel(context.Background())
	r := &Runner{pool: pool, log: log, opts: opts, base: base, cancel: cancel}

	if opts.Registerer != nil {
		r.total = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "afad_tasks_total",
			Help: "Efectos secundarios ejecutados, por nombre y resultado.",
		}, []string{"task", "outcome"})
		if err := opts.Registerer.Register(r.total); err != nil {
			var are prometheus.AlreadyRegisteredError
			if !errors.As(err, &are) {
				pool.Release()
				cancel()
				return nil, fmt.Errorf("tasks: register metrics: %w", err)
			}
			r.total = are.ExistingCollector.(*prometheus.CounterVec)
		}
	}
	return r, nil
}

// Go encola fn sin bloquear. Si el pool está lleno o cerrado la tarea se
// descarta con un warning.
func (r *Runner) Go(name string, fn Func) {
	id := uuid.NewString()

	r.wg.Add(1)
	err := r.pool.Submit(func() {
		defer r.wg.Done()
		r.run(id, name, fn)
	})
	if err != nil {
		r.wg.Done()
		r.fail(id, name, 0, err)
	}
}

func (r *Runner) run(id, name string, fn Func) {
	attempts := 0
	op := func() error {
		attempts++
		ctx, cancel := context.WithTimeout(r.base, r.opts.Timeout)
		defer cancel()
		return fn(ctx)
	}

	expo := backoff.NewExponentialBackOff()
	expo.InitialInterval = r.opts.InitialInterval
	expo.MaxElapsedTime = 0

	b := backoff.WithContext(backoff.WithMaxRetries(expo, r.opts.MaxRetries), r.base)
	if err := backoff.Retry(op, b); err != nil {
		r.fail(id, name, attempts, err)
		return
	}

	r.count(name, "ok")
	r.log.Debug("task done", map[string]any{"task": name, "task_id": id, "attempts": attempts})
}

func (r *Runner) fail(id, name string, attempts int, err error) {
	r.count(name, "failed")
	r.log.Warn("task failed", map[string]any{
		"task":     name,
		"task_id":  id,
		"attempts": attempts,
		"error":    &apperr.DependencyError{Dependency: name, Err: err},
	})
}

func (r *Runner) count(name, outcome string) {
	if r.total != nil {
		r.total.WithLabelValues(name, outcome).Inc()
	}
}

// Wait bloquea hasta que terminen las tareas encoladas.
func (r *Runner) Wait() { r.wg.Wait() }

// Close espera las tareas pendientes hasta que ctx expire; después cancela
// los intentos en curso y libera el pool.
func (r *Runner) Close(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		r.wg.Wait()
		close(done)
	}()

	var err error
	select {
	case <-done:
	case <-ctx.Done():
		err = ctx.Err()
	}

	r.cancel()
	r.pool.Release()
	return err
}

// Inline ejecuta en el mismo goroutine, sin reintentos. Útil en tests y
// como default cuando no se configura un Runner.
type Inline struct {
	Log logger.Logger
}

func (d Inline) Go(name string, fn Func) {
	if err := fn(context.Background()); err != nil && d.Log != nil {
		d.Log.Warn("task failed", map[string]any{
			"task":  name,
			"error": &apperr.DependencyError{Dependency: name, Err: err},
		})
	}
}

package router

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"

	_ "github.com/VaneSolis/Sitio-AFAD/docs"

	"github.com/VaneSolis/Sitio-AFAD/internal/adapters/storage/sqlstore"
	"github.com/VaneSolis/Sitio-AFAD/internal/config"
	"github.com/VaneSolis/Sitio-AFAD/internal/domain/activitylog"
	"github.com/VaneSolis/Sitio-AFAD/internal/domain/admin"
	"github.com/VaneSolis/Sitio-AFAD/internal/domain/contacts"
	"github.com/VaneSolis/Sitio-AFAD/internal/domain/donations"
	"github.com/VaneSolis/Sitio-AFAD/internal/domain/pets"
	"github.com/VaneSolis/Sitio-AFAD/internal/middleware"
	"github.com/VaneSolis/Sitio-AFAD/internal/platform/httpresp"
	"github.com/VaneSolis/Sitio-AFAD/internal/platform/logger"
	"github.com/VaneSolis/Sitio-AFAD/internal/platform/pagination"
	"github.com/VaneSolis/Sitio-AFAD/internal/platform/sqldb"
	"github.com/VaneSolis/Sitio-AFAD/internal/platform/tasks"
	"github.com/VaneSolis/Sitio-AFAD/internal/ports/notify"
)

type Options struct {
	// DB es obligatoria: ya abierta y migrada.
	DB *sqldb.DB

	// Config nil usa config.DefaultConfig().
	Config *config.Config
	Logger logger.Logger

	// Mailer nil: sin emails. Dispatcher nil: efectos secundarios inline.
	Mailer     notify.Mailer
	Dispatcher tasks.Dispatcher

	// Registry nil: se crea uno propio. /metrics expone este registry.
	Registry *prometheus.Registry
}

func NewRouter(opts Options) (http.Handler, error) {
	if opts.DB == nil {
		return nil, fmt.Errorf("router: DB is required")
	}
	cfg := opts.Config
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	log := opts.Logger
	if log == nil {
		log = logger.Nop()
	}
	if opts.Dispatcher == nil {
		opts.Dispatcher = tasks.Inline{Log: log}
	}
	if opts.Registry == nil {
		opts.Registry = prometheus.NewRegistry()
	}

	metrics, err := middleware.NewMetrics(opts.Registry)
	if err != nil {
		return nil, fmt.Errorf("router: metrics: %w", err)
	}

	res := httpresp.New(log, cfg.IsDevelopment())
	pd := pagination.Defaults{Limit: cfg.Pagination.DefaultLimit, MaxLimit: cfg.Pagination.MaxLimit}

	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.ClientContext)
	r.Use(middleware.RequestLogger(log))
	r.Use(metrics.Handler)
	r.Use(middleware.Recover(log, cfg.IsDevelopment()))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORS.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Request-Id"},
		ExposedHeaders:   []string{"X-Request-Id"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		res.Fail(w, http.StatusNotFound, "Ruta no encontrada")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		res.Fail(w, http.StatusMethodNotAllowed, "Método no permitido")
	})

	r.Handle("/metrics", promhttp.HandlerFor(opts.Registry, promhttp.HandlerOpts{}))
	r.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))

	// Repos
	repos := sqlstore.NewRepos(opts.DB)

	// Services por módulo
	activitySvc := activitylog.NewService(repos.Activity, opts.Dispatcher)
	petsSvc := pets.NewService(repos.Pets, activitySvc)
	donationsSvc := donations.NewService(repos.Donations, donations.Options{
		MinAmount:       cfg.Donations.MinAmount,
		ReferencePrefix: cfg.Donations.ReferencePrefix,
		ReferenceWidth:  cfg.Donations.ReferenceWidth,
	}, donations.Deps{
		Mailer:   opts.Mailer,
		Tasks:    opts.Dispatcher,
		Activity: activitySvc,
	})
	contactsSvc := contacts.NewService(repos.Contacts, contacts.Deps{
		Mailer:   opts.Mailer,
		Tasks:    opts.Dispatcher,
		Activity: activitySvc,
	})
	adminSvc := admin.NewService(repos.Admin, petsSvc, donationsSvc, contactsSvc, activitySvc)

	r.Route("/api", func(api chi.Router) {
		api.Use(chimw.Timeout(cfg.Server.RequestTimeout))
		if cfg.RateLimit.Requests > 0 {
			api.Use(middleware.NewRateLimiter(cfg.RateLimit.Requests, cfg.RateLimit.Window).Handler)
		}

		api.Get("/health", healthHandler(opts.DB, res))

		// Rutas por módulo
		pets.RegisterRoutes(api, petsSvc, res, pd)
		donations.RegisterRoutes(api, donationsSvc, res, pd)
		contacts.RegisterRoutes(api, contactsSvc, res, pd)
		admin.RegisterRoutes(api, adminSvc, res, pd)
	})

	return r, nil
}

type healthResponse struct {
	Status    string    `json:"status"`
	Database  string    `json:"database"`
	Timestamp time.Time `json:"timestamp"`
}

// healthHandler godoc
// @Summary Health check
// @Tags sistema
// @Produce json
// @Success 200 {object} httpresp.Envelope{data=healthResponse}
// @Failure 503 {object} httpresp.Envelope
// @Router /health [get]
func healthHandler(db *sqldb.DB, res *httpresp.Writer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		out := healthResponse{Status: "ok", Database: "ok", Timestamp: time.Now().UTC()}
		if err := db.PingContext(ctx); err != nil {
			out.Status = "degraded"
			out.Database = "unreachable"
			httpresp.JSON(w, http.StatusServiceUnavailable, httpresp.Envelope{
				Success: false,
				Message: "Base de datos no disponible",
				Data:    out,
			})
			return
		}
		res.OK(w, out)
	}
}

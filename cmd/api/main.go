// @title AFAD API
// @version 1.0
// @description API del refugio AFAD: mascotas en adopción, donaciones, contacto y panel de administración.
// @BasePath /api
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"github.com/VaneSolis/Sitio-AFAD/internal/adapters/notify/mail"
	"github.com/VaneSolis/Sitio-AFAD/internal/adapters/storage/sqlstore"
	"github.com/VaneSolis/Sitio-AFAD/internal/config"
	"github.com/VaneSolis/Sitio-AFAD/internal/domain/activitylog"
	"github.com/VaneSolis/Sitio-AFAD/internal/jobs"
	"github.com/VaneSolis/Sitio-AFAD/internal/platform/logger"
	"github.com/VaneSolis/Sitio-AFAD/internal/platform/tasks"
	"github.com/VaneSolis/Sitio-AFAD/internal/router"
)

const (
	Version = "1.0.0"
	appName = "afad-api"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   appName,
		Short: "Backend del refugio AFAD",
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(configPath)
		},
		SilenceUsage: true,
	}
	cmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Archivo de configuración YAML (opcional)")

	cmd.AddCommand(&cobra.Command{
		Use:   "serve",
		Short: "Levanta el servidor HTTP (default)",
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(configPath)
		},
	})

	var seed bool
	migrateCmd := &cobra.Command{
		Use:   "migrate",
		Short: "Crea el esquema y, con --seed, carga los datos iniciales",
		RunE: func(cmd *cobra.Command, args []string) error {
			return migrate(cmd.Context(), configPath, seed)
		},
	}
	migrateCmd.Flags().BoolVar(&seed, "seed", false, "Cargar admin, mascotas y evento de ejemplo")
	cmd.AddCommand(migrateCmd)

	cmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Muestra la versión",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("%s version %s\n", appName, Version)
		},
	})

	return cmd
}

func newLogger(cfg *config.Config) logger.Logger {
	return logger.New(logger.Options{
		Level:  logger.ParseLevel(cfg.Log.Level),
		Format: logger.ParseFormat(cfg.Log.Format),
		App:    cfg.Log.App,
		File:   cfg.Log.File,
	})
}

func migrate(ctx context.Context, configPath string, seed bool) error {
	if ctx == nil {
		ctx = context.Background()
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	log := newLogger(cfg)
	defer func() { _ = log.Sync() }()

	db, err := sqlstore.Open(ctx, cfg.Database.Driver, cfg.Database.DSN)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := sqlstore.Migrate(ctx, db); err != nil {
		return err
	}
	log.Info("schema ready", map[string]any{"driver": cfg.Database.Driver})

	if seed {
		if err := sqlstore.Seed(ctx, db, time.Now()); err != nil {
			return err
		}
		log.Info("seed data loaded", map[string]any{"admin": sqlstore.SeedAdminEmail})
	}
	return nil
}

func serve(configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	log := newLogger(cfg)
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := sqlstore.Open(ctx, cfg.Database.Driver, cfg.Database.DSN)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := sqlstore.Migrate(ctx, db); err != nil {
		return err
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	runner, err := tasks.NewRunner(log, tasks.Options{
		Workers:    cfg.Tasks.Workers,
		MaxRetries: cfg.Tasks.MaxRetries,
		Timeout:    cfg.Tasks.Timeout,
		Registerer: reg,
	})
	if err != nil {
		return err
	}

	mailer := mail.New(mail.Config{
		Host:       cfg.Mail.Host,
		Port:       cfg.Mail.Port,
		User:       cfg.Mail.User,
		Pass:       cfg.Mail.Pass,
		From:       cfg.Mail.From,
		AdminEmail: cfg.Mail.AdminEmail,
		SiteURL:    cfg.Mail.SiteURL,
	}, log)

	handler, err := router.NewRouter(router.Options{
		DB:         db,
		Config:     cfg,
		Logger:     log,
		Mailer:     mailer,
		Dispatcher: runner,
		Registry:   reg,
	})
	if err != nil {
		return err
	}

	activity := activitylog.NewService(sqlstore.NewActivityRepo(db), runner)
	sched, err := jobs.New(activity, log, jobs.Options{
		Schedule:      cfg.Activity.CleanupSchedule,
		RetentionDays: cfg.Activity.RetentionDays,
	})
	if err != nil {
		return err
	}
	sched.Start()

	srv := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("starting server", map[string]any{"addr": cfg.Server.Addr, "env": cfg.Env, "driver": cfg.Database.Driver})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
	case <-ctx.Done():
		log.Info("shutting down", nil)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("http shutdown", map[string]any{"error": err})
	}
	if err := sched.Stop(shutdownCtx); err != nil {
		log.Warn("jobs shutdown", map[string]any{"error": err})
	}
	if err := runner.Close(shutdownCtx); err != nil {
		log.Warn("tasks shutdown", map[string]any{"error": err})
	}
	return nil
}

package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"diamond-dashboard/server/internal/auth"
	"diamond-dashboard/server/internal/config"
	"diamond-dashboard/server/internal/database"
	"diamond-dashboard/server/internal/handlers"
	"diamond-dashboard/server/internal/models"
	"diamond-dashboard/server/internal/proxy"
	"diamond-dashboard/server/internal/tracing"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
)

const serviceName = "diamond-dashboard"

func main() {
	cfg, err := config.LoadFromEnv()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	if !cfg.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}

	shutdownTracing, err := tracing.InitTracer(context.Background(), tracing.Config{
		ServiceName: serviceName,
		Environment: cfg.AppEnv,
	})
	if err != nil {
		log.Fatalf("tracing: %v", err)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracing(ctx); err != nil {
			log.Printf("tracing shutdown error: %v", err)
		}
	}()

	// The guard audit log is optional; without DATABASE_PATH nothing is stored.
	var decisions *models.DecisionLog
	if cfg.DatabasePath != "" {
		db, err := database.OpenAndMigrate(context.Background(), cfg.DatabasePath)
		if err != nil {
			log.Fatalf("db open/migrate: %v", err)
		}
		defer func() {
			if err := db.Close(); err != nil {
				log.Printf("db close error: %v", err)
			}
		}()
		decisions = models.NewDecisionLog(db)
		decisions.MaxRows = cfg.AuditMaxRows
	}

	backend, err := proxy.New(cfg.ProxyTarget())
	if err != nil {
		log.Fatalf("api proxy: %v", err)
	}

	r := handlers.NewRouter(cfg, handlers.Deps{
		Oracle:    auth.NewSessionOracle(cfg),
		Decisions: decisions,
		Backend:   backend,
	}, gin.Logger(), gin.Recovery(), otelgin.Middleware(serviceName))

	// cfg.Addr is fully resolved by config.LoadFromEnv() (DASHBOARD_ADDR or PORT).
	addr := cfg.Addr

	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("listening on %s (backend %s, audit log %t)", addr, cfg.BackendURL, decisions.Enabled())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		log.Printf("shutdown signal received: %v", sig)
	case err := <-errCh:
		log.Printf("server error: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("server shutdown error: %v", err)
	}
}

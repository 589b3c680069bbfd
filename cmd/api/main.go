package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/betlegend/sitetools/internal/cli"
	"github.com/betlegend/sitetools/internal/db"
	"github.com/betlegend/sitetools/internal/handlers"
	"github.com/betlegend/sitetools/internal/notification"
	"github.com/betlegend/sitetools/internal/store"
	"github.com/betlegend/sitetools/internal/validate"
	"github.com/betlegend/sitetools/internal/worker"
)

func main() {
	app := cli.New("api")
	app.Parse(os.Args[1:])
	cfg := app.Config

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil)).With("tool", "api")
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 1. Initialize Database
	database := db.InitDB(cfg.DatabaseURL)
	defer database.Close()

	// 1b. Initialize Email Notifications
	notification.InitEmail(cfg.SMTP)

	// 2. Rosters, refreshed in the background
	v := &validate.Validator{Book: app.Rulebook(), Root: cfg.Site.Root, Logger: logger}
	if cfg.Roster.Enabled {
		rm := app.NewRoster()
		rm.Logger = logger
		if err := rm.Load(ctx); err != nil {
			logger.Warn("rosters not loaded yet", "err", err)
		}
		v.Roster = rm
		worker.StartRosterWorker(ctx, rm, cfg.Roster.CacheTTL)
	}

	runs := store.Runs{DB: database}
	job := &worker.Job{
		Validator: v,
		Walker:    app.Walker(),
		Root:      cfg.Site.Root,
		Store:     runs,
		SlackURL:  cfg.SlackURL,
		EmailTo:   cfg.SMTP.To,
		Logger:    logger,
	}

	// 3. Scheduled validation
	if cfg.API.Schedule != "" {
		if err := worker.StartValidationWorker(ctx, cfg.API.Schedule, job); err != nil {
			log.Fatalf("Validation worker: %v", err)
		}
		fmt.Printf("Validation scheduled: %s\n", cfg.API.Schedule)
	}

	// 4. Router
	r := handlers.NewRouter(handlers.RouterConfig{
		CORSOrigin: cfg.API.CORSOrigin,
		TokenHash:  cfg.API.TokenHash,
		Runs:       runs,
		Runner:     job,
	})
	if cfg.API.TokenHash == "" {
		logger.Warn("api.token_hash not set; every protected route will refuse requests")
	}

	// 5. Start Server
	srv := &http.Server{Addr: cfg.API.Addr, Handler: r, ReadHeaderTimeout: 10 * time.Second}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			fmt.Printf("ERROR [Shutdown]: %v\n", err)
		}
	}()

	fmt.Printf("🚀 Server starting on %s\n", cfg.API.Addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatalf("Server: %v", err)
	}
	notification.Wait()
	fmt.Println("Server stopped")
}

package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	"tradevault/internal/archive"
	"tradevault/internal/config"
	"tradevault/internal/handler"
	"tradevault/internal/migrate"
	"tradevault/internal/repository"
	"tradevault/internal/service"
	"tradevault/migrations"
)

func connectWithRetry(cfg *config.DatabaseConfig, maxAttempts int, delay time.Duration) (*sqlx.DB, error) {
	// Connect to the always-present postgres database first to create the
	// target database if it does not exist yet.
	pgDSN := strings.Replace(cfg.GetDSN(), "dbname="+cfg.Name, "dbname=postgres", 1)
	pgDB, err := sqlx.Connect("postgres", pgDSN)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to postgres database: %v", err)
	}
	defer pgDB.Close()

	var exists bool
	err = pgDB.Get(&exists, "SELECT EXISTS(SELECT datname FROM pg_catalog.pg_database WHERE datname = $1)", cfg.Name)
	if err != nil {
		return nil, fmt.Errorf("failed to check database existence: %v", err)
	}

	if !exists {
		log.Printf("Database %s does not exist, creating...", cfg.Name)
		_, err = pgDB.Exec(fmt.Sprintf("CREATE DATABASE %s", cfg.Name))
		if err != nil {
			return nil, fmt.Errorf("failed to create database: %v", err)
		}
	}

	var db *sqlx.DB
	for i := 0; i < maxAttempts; i++ {
		db, err = sqlx.Connect("postgres", cfg.GetDSN())
		if err == nil {
			return db, nil
		}

		log.Printf("Failed to connect to database (attempt %d/%d): %v", i+1, maxAttempts, err)
		time.Sleep(delay)
	}

	return nil, fmt.Errorf("failed to connect after %d attempts: %v", maxAttempts, err)
}

func main() {
	appConfig, err := config.NewConfig(".app.env")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	db, err := connectWithRetry(&appConfig.Database, 5, time.Second*5)
	if err != nil {
		log.Fatalf("Failed to connect to database after retries: %v", err)
	}
	defer db.Close()

	db.SetMaxOpenConns(appConfig.Database.MaxOpenConns)
	db.SetMaxIdleConns(appConfig.Database.MaxIdleConns)
	db.SetConnMaxLifetime(time.Duration(appConfig.Database.ConnMaxLifetime) * time.Minute)

	// Migrations, then the drift gate. A schema the write path does not
	// fully reference must never serve traffic.
	ctx := context.Background()
	migrator, err := migrate.New(db, migrations.FS)
	if err != nil {
		log.Fatalf("Failed to load migration manifest: %v", err)
	}
	if err := migrator.Apply(ctx); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	if err := migrator.VerifyAll(ctx, repository.Schemas()); err != nil {
		log.Fatalf("Schema/write-path synchronization check failed: %v", err)
	}
	if err := migrator.Commit(ctx); err != nil {
		log.Fatalf("Failed to commit migration ledger: %v", err)
	}

	// Archival is optional: without a config file the store runs without
	// cold copies.
	var archiver *archive.Archiver
	if archiveConfig, err := archive.NewConfig(".archive.env"); err != nil {
		log.Printf("History archival disabled: %v", err)
	} else {
		client, err := archive.NewClient(archiveConfig)
		if err != nil {
			log.Fatalf("Failed to create archive client: %v", err)
		}
		archiver = archive.NewArchiver(client)
	}

	positionRepo := repository.NewPositionRepository(db)
	quoteRepo := repository.NewQuoteRepository(db)
	tradeRepo := repository.NewTradeRepository(db)

	opTimeout := appConfig.Store.OpTimeout()
	positionService := service.NewPositionService(positionRepo, archiver, opTimeout)
	quoteService := service.NewQuoteService(quoteRepo, opTimeout)
	tradeService := service.NewTradeService(tradeRepo, archiver, opTimeout)

	positionHandler := handler.NewPositionHandler(positionService)
	quoteHandler := handler.NewQuoteHandler(quoteService)
	tradeHandler := handler.NewTradeHandler(tradeService)

	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Route("/v1", func(r chi.Router) {
		r.Route("/positions", func(r chi.Router) {
			r.Post("/", positionHandler.Open)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", positionHandler.Current)
				r.Put("/", positionHandler.Amend)
				r.Post("/close", positionHandler.Close)
				r.Get("/history", positionHandler.History)
				r.Get("/at", positionHandler.At)
			})
		})

		r.Route("/quotes", func(r chi.Router) {
			r.Post("/", quoteHandler.Publish)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", quoteHandler.Current)
				r.Put("/", quoteHandler.Revise)
				r.Get("/history", quoteHandler.History)
				r.Get("/at", quoteHandler.At)
			})
		})

		r.Route("/trades", func(r chi.Router) {
			r.Post("/", tradeHandler.Record)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", tradeHandler.Current)
				r.Post("/fill", tradeHandler.Fill)
				r.Post("/settle", tradeHandler.Settle)
				r.Get("/history", tradeHandler.History)
				r.Get("/at", tradeHandler.At)
			})
		})
	})

	httpServer := &http.Server{
		Addr:    fmt.Sprintf(":%s", appConfig.Server.Port),
		Handler: r,
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		log.Printf("Starting HTTP server on port %s", appConfig.Server.Port)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start HTTP server: %v", err)
		}
	}()

	<-quit
	log.Println("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Printf("HTTP server forced to shutdown: %v", err)
	}

	if err := db.Close(); err != nil {
		log.Printf("Error closing database connection: %v", err)
	}

	log.Println("Server exited properly")
}

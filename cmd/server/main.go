package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/mwhitt/bloglite/blog/application"
	"github.com/mwhitt/bloglite/blog/domain"
	"github.com/mwhitt/bloglite/blog/persistence"
	"github.com/mwhitt/bloglite/internal/web"
	"github.com/mwhitt/bloglite/shared/config"
	"github.com/mwhitt/bloglite/shared/db"
	"github.com/mwhitt/bloglite/shared/db/postgres"
	"github.com/mwhitt/bloglite/shared/db/sqlite"
	"github.com/rs/zerolog/log"
)

const shutdownTimeout = 5 * time.Second

func main() {
	cfg := config.Load()

	database, store := buildStore(cfg)
	if err := database.Connect(); err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer database.Close()

	service := application.NewPostService(store(database))
	handler := web.NewHandler(service, application.NewBodyRenderer())
	router := web.NewRouter(handler, cfg.Templates)

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Port),
		Handler: router,
	}

	go func() {
		log.Info().Int("port", cfg.Port).Msg("Starting server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt)
	<-quit

	log.Info().Msg("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("Failed to shutdown server")
	}

	log.Info().Msg("Server stopped")
}

// buildStore picks the backend: Postgres when DATABASE_URL is set, SQLite
// otherwise. The store constructor is deferred until the database is
// connected.
func buildStore(cfg *config.Config) (db.Database, func(db.Database) domain.PostStore) {
	if cfg.DatabaseURL != "" {
		log.Info().Msg("Using Postgres store")
		return postgres.NewPostgresDB(cfg.DatabaseURL), func(d db.Database) domain.PostStore {
			return persistence.NewPostgresPostStore(d.DB())
		}
	}

	sqliteCfg := sqlite.NewSQLiteConfig()
	log.Info().Str("path", sqliteCfg.Path).Msg("Using SQLite store")
	return sqlite.NewSQLiteDB(sqliteCfg), func(d db.Database) domain.PostStore {
		return persistence.NewSQLitePostStore(d.DB())
	}
}

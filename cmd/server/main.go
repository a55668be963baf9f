package main

import (
	"context"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/newsguild/warboard/internal/auth"
	"github.com/newsguild/warboard/internal/config"
	"github.com/newsguild/warboard/internal/db"
	"github.com/newsguild/warboard/internal/logger"
	"github.com/newsguild/warboard/internal/services"
	"github.com/newsguild/warboard/internal/storage"
)

var (
	migrateOnlyFlag = flag.Bool("migrate-only", false, "Run DB migrations and exit")
	seedOnlyFlag    = flag.Bool("seed-only", false, "Run DB seed and exit")
)

func main() {
	flag.Parse()

	// Load environment variables from .env file
	_ = godotenv.Load()

	log := logger.New("server")
	cfg := config.Load()

	dbConn, err := connectDB(cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}

	if *migrateOnlyFlag {
		if err := db.Migrate(dbConn); err != nil {
			log.Fatal().Err(err).Msg("migration failed")
		}
		log.Info().Msg("migrations completed")
		return
	}
	if *seedOnlyFlag {
		if err := db.Seed(dbConn); err != nil {
			log.Fatal().Err(err).Msg("seeding failed")
		}
		log.Info().Msg("seeding completed")
		return
	}

	if cfg.App.Migrations {
		if err := db.Migrate(dbConn); err != nil {
			log.Fatal().Err(err).Msg("migration failed")
		}
		log.Info().Msg("migrations completed")
	}
	if err := db.Seed(dbConn); err != nil {
		log.Fatal().Err(err).Msg("seeding failed")
	}

	// Reject sessions whose user no longer exists.
	users := services.NewUserService(dbConn)
	auth.SetUserVerifier(func(ctx context.Context, uid uint) bool {
		return users.Exists(uid)
	})

	avatars, err := storage.NewDiskStore(cfg.Avatar.Dir, cfg.Avatar.DefaultsDir, cfg.Avatar.MaxBytes)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to prepare avatar storage")
	}

	appHandler := NewApp(dbConn, avatars)

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      log.RequestLogger(appHandler),
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	go func() {
		log.Info().Str("port", cfg.Server.Port).Bool("dev", cfg.App.Dev).Msg("server starting")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("shutdown signal received")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("error during shutdown")
	}
	log.Info().Msg("server stopped gracefully")
}

// connectDB opens the configured database: the embedded sqlite file by
// default, postgres when DB_DRIVER=postgres.
func connectDB(dbCfg config.DatabaseConfig) (*gorm.DB, error) {
	if dbCfg.Driver == "postgres" {
		return gorm.Open(postgres.Open(dbCfg.DSN()), &gorm.Config{})
	}
	return gorm.Open(sqlite.Open(dbCfg.SQLitePath), &gorm.Config{})
}

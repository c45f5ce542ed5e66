package main

import (
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/prepdeck/prepdeck-api/internal/api"
	"github.com/prepdeck/prepdeck-api/internal/config"
	"github.com/prepdeck/prepdeck-api/internal/platform/postgres"
	"github.com/prepdeck/prepdeck-api/internal/service/auth"
	"github.com/prepdeck/prepdeck-api/internal/service/bookmark"
	"github.com/prepdeck/prepdeck-api/internal/service/entitlement"
	"github.com/prepdeck/prepdeck-api/internal/service/idempotency"
	"github.com/prepdeck/prepdeck-api/internal/service/session"
	"github.com/prepdeck/prepdeck-api/internal/service/stats"
	"github.com/prepdeck/prepdeck-api/internal/store"
)

// application holds the wired dependency graph of the server.
type application struct {
	config *config.Config
	logger *slog.Logger
	db     *sql.DB

	userStore store.UserStore

	jwtService       auth.JWTService
	passwordHasher   auth.PasswordHasher
	passwordVerifier auth.PasswordVerifier

	sessionService  session.Service
	statsService    stats.Service
	bookmarkService bookmark.Service
	guard           *idempotency.Guard
}

// newApplication connects to the database, applies pending migrations and
// wires stores, services and the idempotency guard.
func newApplication(cfg *config.Config, log *slog.Logger) (*application, error) {
	db, err := openDatabase(cfg.Database.URL)
	if err != nil {
		return nil, err
	}

	if err := postgres.RunMigrations(db, log); err != nil {
		closeQuietly(db, log)
		return nil, err
	}

	userStore := postgres.NewPostgresUserStore(db, log)
	questionStore := postgres.NewPostgresQuestionStore(db, log)
	sessionStore := postgres.NewPostgresSessionStore(db, log)
	attemptStore := postgres.NewPostgresAttemptStore(db, log)
	subscriptionStore := postgres.NewPostgresSubscriptionStore(db, log)
	bookmarkStore := postgres.NewPostgresBookmarkStore(db, log)
	idempotencyStore := postgres.NewPostgresIdempotencyStore(db, log)

	jwtService, err := auth.NewJWTService(cfg.Auth)
	if err != nil {
		closeQuietly(db, log)
		return nil, fmt.Errorf("failed to create JWT service: %w", err)
	}

	entitlementChecker := entitlement.NewChecker(subscriptionStore, log)
	sessionService := session.NewService(
		db,
		questionStore,
		sessionStore,
		attemptStore,
		entitlementChecker,
		session.Config{
			DefaultQuestionCount: cfg.Practice.DefaultQuestionCount,
			MaxQuestionCount:     cfg.Practice.MaxQuestionCount,
		},
		log,
	)

	// The guard stores api-layer error codes so replayed failures reproduce
	// the original HTTP response.
	guard := idempotency.NewGuard(
		idempotencyStore,
		time.Duration(cfg.Practice.IdempotencyTTLMinutes)*time.Minute,
		api.ClassifyError,
		log,
	)

	return &application{
		config:           cfg,
		logger:           log,
		db:               db,
		userStore:        userStore,
		jwtService:       jwtService,
		passwordHasher:   auth.NewBcryptHasher(cfg.Auth.BcryptCost),
		passwordVerifier: auth.NewBcryptVerifier(),
		sessionService:   sessionService,
		statsService:     stats.NewService(attemptStore, log),
		bookmarkService:  bookmark.NewService(bookmarkStore, questionStore, log),
		guard:            guard,
	}, nil
}

// openDatabase opens and pings the PostgreSQL connection pool via the pgx
// stdlib driver.
func openDatabase(url string) (*sql.DB, error) {
	db, err := sql.Open("pgx", url)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(30 * time.Minute)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return db, nil
}

func (app *application) close() {
	closeQuietly(app.db, app.logger)
}

func closeQuietly(db *sql.DB, log *slog.Logger) {
	if err := db.Close(); err != nil {
		log.Error("failed to close database", slog.String("error", err.Error()))
	}
}

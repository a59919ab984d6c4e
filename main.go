package main

import (
	"io"
	"net/http"
	"os"
	"path/filepath"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"

	"clinik-backend/internal/api"
	"clinik-backend/internal/auth"
	"clinik-backend/internal/config"
	"clinik-backend/internal/database"
	"clinik-backend/internal/middleware"
	"clinik-backend/internal/models"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fallback := zerolog.New(os.Stderr)
		fallback.Fatal().Err(err).Msg("invalid configuration")
	}

	logger := newLogger(cfg)

	dbPath := cfg.DBPath
	if !filepath.IsAbs(dbPath) {
		cwd, _ := os.Getwd()
		dbPath = filepath.Join(cwd, dbPath)
	}

	logger.Info().Str("path", dbPath).Msg("opening database")
	if err := database.Open(database.Config{Path: dbPath}); err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize database")
	}
	defer database.Close()

	if err := createDefaultAdminIfNeeded(logger); err != nil {
		logger.Warn().Err(err).Msg("failed to create default admin")
	}

	authSvc := auth.NewService(database.NewSessionRepo(), auth.Config{
		SessionTTL: cfg.SessionTTL(),
		BcryptCost: cfg.BcryptCost,
	})

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.RequestID())
	e.Use(middleware.Logger(logger))
	e.Use(echomw.Recover())
	e.Use(echomw.Secure())
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins:     cfg.CORSOrigins,
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete},
		AllowHeaders:     []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept},
		AllowCredentials: true,
	}))

	apiGroup := e.Group("/api")
	api.RegisterRoutes(apiGroup, authSvc, logger)

	logger.Info().Str("port", cfg.Port).Msg("starting clinic backend")
	if err := e.Start(":" + cfg.Port); err != nil && err != http.ErrServerClosed {
		logger.Fatal().Err(err).Msg("server stopped")
	}
}

// newLogger builds the process logger: console output in development,
// JSON otherwise, optionally teed to a log file.
func newLogger(cfg *config.Config) zerolog.Logger {
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}

	var out io.Writer = os.Stdout
	if cfg.IsDev() {
		out = zerolog.ConsoleWriter{Out: os.Stdout}
	}

	if cfg.LogFile != "" {
		f, ferr := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if ferr == nil {
			out = zerolog.MultiLevelWriter(out, f)
		}
	}

	return zerolog.New(out).Level(level).With().Timestamp().Logger()
}

// createDefaultAdminIfNeeded seeds an admin account on first run so the
// application is usable before any users are registered.
func createDefaultAdminIfNeeded(logger zerolog.Logger) error {
	userRepo := database.NewUserRepo()

	count, err := userRepo.Count()
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	logger.Warn().Msg("creating default admin user (admin/admin) - change this password")

	passwordHash, err := auth.HashPassword("admin", 0)
	if err != nil {
		return err
	}

	admin := &models.User{
		Username:     "admin",
		Email:        "admin@clinik.local",
		FullName:     "Administrator",
		PasswordHash: passwordHash,
		Role:         models.RoleAdmin,
		IsActive:     true,
	}

	return userRepo.Create(admin)
}

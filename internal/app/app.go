package app

import (
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/panaah/panaah/internal/config"
	"github.com/panaah/panaah/internal/db"
	"github.com/panaah/panaah/internal/repository"
	"github.com/panaah/panaah/internal/service"
	"github.com/panaah/panaah/internal/storage"
)

type App struct {
	Cfg            *config.Config
	DB             *sqlx.DB
	AuthService    *service.AuthService
	TokenService   *service.TokenService
	EmailService   *service.EmailService
	ListingService *service.ListingService
}

func New(cfg *config.Config) (*App, error) {
	database, err := db.Init(cfg.DBDriver, cfg.DBConnection)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %v", err)
	}

	err = db.RunMigrations(database.DB, cfg.DBDriver)
	if err != nil {
		return nil, fmt.Errorf("failed to run migrations: %v", err)
	}

	// Repositories
	userRepository := repository.NewUserRepository(database)
	tokenRepository := repository.NewTokenRepository(database)
	listingRepository := repository.NewListingRepository(database)

	// Storage
	assetStorage, err := storage.New(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %v", err)
	}

	// Services
	emailService := service.NewEmailService(
		cfg.ResendAPIKey,
		cfg.EmailFrom,
		cfg.AppURL,
		cfg.AppName,
		cfg.IsDevelopment(),
	)
	tokenService := service.NewTokenService(tokenRepository, cfg.TokenEmailVerifyExpiry)
	authService := service.NewAuthService(
		userRepository,
		tokenService,
		emailService,
		cfg.JWTSecret,
		cfg.JWTExpiry,
		cfg.IsProduction(),
	)
	listingService := service.NewListingService(listingRepository, assetStorage)

	return &App{
		Cfg:            cfg,
		DB:             database,
		AuthService:    authService,
		TokenService:   tokenService,
		EmailService:   emailService,
		ListingService: listingService,
	}, nil
}

func (a *App) Close() error {
	if a.DB != nil {
		return a.DB.Close()
	}
	return nil
}

package main

import (
	"log"
	"net/http"

	_ "authportal/docs" // swagger docs

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"authportal/internal/auth"
	"authportal/internal/cache"
	"authportal/internal/config"
	"authportal/internal/db"
	"authportal/internal/handler"
	"authportal/internal/model"
	"authportal/internal/repository"
	"authportal/internal/router"
	"authportal/internal/service"
)

// @title Auth Portal API
// @version 1.0
// @description Authentication portal with credentials sign-in, OAuth account linking, and a profile API.
// @host localhost:8080
// @BasePath /api
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and the session token.
func main() {
	cfg := config.Load()

	e := echo.New()
	e.Use(middleware.RequestID())

	gormDB, err := db.NewMySQL(cfg.MySQLDSN)
	if err != nil {
		log.Fatalf("database init: %v", err)
	}

	// Run migrations for all models
	if err := gormDB.AutoMigrate(
		&model.User{},
		&model.Account{},
	); err != nil {
		log.Fatalf("auto-migrate: %v", err)
	}

	cacheClient := cache.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)

	// Initialize repositories
	userRepo := repository.NewUserRepository(gormDB)
	accountRepo := repository.NewAccountRepository(gormDB)

	// Initialize auth components
	jwtService := auth.NewJWTService(cfg.AuthSecret)
	sessionStore := auth.NewSessionStore(cacheClient)

	// Initialize services
	linkHook := service.NewLinkHook(userRepo, cfg.TrustedProviders)
	signInService := service.NewSignInService(userRepo, accountRepo, linkHook, jwtService)
	profileService := service.NewProfileService(userRepo, cacheClient)
	providers := service.NewProviderRegistry(cfg)
	if len(providers) == 0 {
		log.Println("no OAuth providers configured, credentials sign-in only")
	}

	// Initialize handlers
	authHandler := handler.NewAuthHandler(signInService, sessionStore, jwtService, providers)
	profileHandler := handler.NewProfileHandler(profileService)

	// Register routes
	router.Register(
		e,
		cfg,
		sessionStore,
		authHandler,
		profileHandler,
	)

	log.Printf("sign-in page served at %s", cfg.SignInPage)

	addr := ":" + cfg.ServerPort
	if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
		log.Fatalf("server start: %v", err)
	}
}

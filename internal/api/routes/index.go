package routes

import (
	"context"
	"log"

	v1 "chatstream-backend/internal/api/routes/v1"
	"chatstream-backend/internal/auth"
	"chatstream-backend/internal/config"
	"chatstream-backend/internal/handlers"
	"chatstream-backend/internal/middleware"
	"chatstream-backend/internal/repo"

	"github.com/gofiber/fiber/v2"
)

func Register(app *fiber.App) {
	userRepo := repo.NewUserRepository(config.DB)
	sessionRepo := repo.NewSessionRepository(config.DB)

	verifier, err := auth.NewGoogleVerifier(context.Background())
	if err != nil {
		log.Fatalf("failed to init google verifier: %v", err)
	}
	resolver := auth.NewResolver(verifier, sessionRepo, userRepo)

	// Public endpoints
	app.Get("/health", handlers.Health)

	authHandler := handlers.NewAuthHandler(userRepo, sessionRepo, verifier, resolver)
	authGroup := app.Group("/auth")
	authGroup.Get("/login", authHandler.Login)
	authGroup.Get("/callback", authHandler.Callback)
	authGroup.Get("/user", authHandler.CurrentUser)

	// API v1 group, bearer-authenticated
	api := app.Group("/api")
	v1Group := api.Group("/v1", middleware.RequireAuth(resolver))

	// Register v1 routes
	v1.RegisterRoutes(v1Group)
}

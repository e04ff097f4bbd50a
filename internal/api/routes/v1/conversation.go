package v1

import (
	"chatstream-backend/internal/config"
	"chatstream-backend/internal/handlers"
	"chatstream-backend/internal/repo"

	"github.com/gofiber/fiber/v2"
)

func registerConversations(r fiber.Router) {
	// Initialize handler
	conversationRepo := repo.NewConversationRepository(config.DB)
	conversationHandler := handlers.NewConversationHandler(conversationRepo)

	// Register routes
	r.Get("/conversations", conversationHandler.GetConversations)
	r.Post("/conversations", conversationHandler.CreateConversation)
}

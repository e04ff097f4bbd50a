package v1

import (
	"chatstream-backend/internal/config"
	"chatstream-backend/internal/handlers"
	"chatstream-backend/internal/llm"
	"chatstream-backend/internal/relay"
	"chatstream-backend/internal/repo"

	"github.com/gofiber/fiber/v2"
)

// registerChat wires the streaming ask endpoint and the transcript listing.
func registerChat(r fiber.Router) {
	conversationRepo := repo.NewConversationRepository(config.DB)
	messageRepo := repo.NewMessageRepository(config.DB)

	rly := relay.New(messageRepo, config.GenerationTimeout())
	streamHandler := handlers.NewStreamHandler(conversationRepo, messageRepo, llm.NewStreamClient, rly)
	historyHandler := handlers.NewHistoryHandler(conversationRepo, messageRepo)

	r.Post("/chat/stream", streamHandler.StreamAsk)
	r.Get("/messages/:conversationId", historyHandler.GetMessages)
}

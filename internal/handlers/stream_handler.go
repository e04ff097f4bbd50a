package handlers

import (
	"bufio"
	"context"
	"errors"
	"log"
	"strings"

	"chatstream-backend/internal/config"
	"chatstream-backend/internal/llm"
	"chatstream-backend/internal/middleware"
	"chatstream-backend/internal/models"
	"chatstream-backend/internal/relay"
	"chatstream-backend/internal/repo"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

const defaultTemperature = 0.7

type StreamHandler struct {
	conversations repo.ConversationRepoInterface
	messages      repo.MessageRepoInterface
	newClient     llm.ClientFactory
	relay         *relay.Relay
}

func NewStreamHandler(conversations repo.ConversationRepoInterface, messages repo.MessageRepoInterface, newClient llm.ClientFactory, rly *relay.Relay) *StreamHandler {
	return &StreamHandler{
		conversations: conversations,
		messages:      messages,
		newClient:     newClient,
		relay:         rly,
	}
}

// StreamAsk accepts a prompt, persists it, and streams the generated answer
// back as server-sent events terminated by a [DONE] sentinel.
func (h *StreamHandler) StreamAsk(c *fiber.Ctx) error {
	user, ok := middleware.UserFromCtx(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "unauthenticated",
		})
	}

	var dto struct {
		Message        string   `json:"message"`
		ConversationID string   `json:"conversation_id"`
		ModelType      string   `json:"model_type"`
		ModelName      string   `json:"model_name"`
		Temperature    *float64 `json:"temperature"`
	}
	if err := c.BodyParser(&dto); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	if strings.TrimSpace(dto.Message) == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Message cannot be empty",
		})
	}

	temperature := defaultTemperature
	if dto.Temperature != nil {
		temperature = *dto.Temperature
	}
	if temperature < 0 || temperature > 1 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Temperature must be between 0 and 1",
		})
	}

	modelType := dto.ModelType
	if modelType == "" {
		modelType = config.DefaultModelType()
	}
	modelName := dto.ModelName
	if modelName == "" {
		modelName = config.DefaultModelName()
	}

	convUUID := uuid.Nil
	if dto.ConversationID != "" {
		parsed, err := uuid.Parse(dto.ConversationID)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Invalid conversation ID",
			})
		}
		convUUID = parsed
	}

	conversationUUID, err := h.conversations.ResolveOrCreate(user.UUID, convUUID, dto.Message)
	if errors.Is(err, repo.ErrConversationNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Conversation not found",
		})
	}
	if err != nil {
		log.Println(err, "Error resolving conversation")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to resolve conversation",
		})
	}

	// The user message must be committed before the first fragment is pulled,
	// so a reader listing the conversation mid-stream sees the prompt.
	if _, err := h.messages.AppendMessage(conversationUUID, models.RoleUser, dto.Message, nil); err != nil {
		log.Println(err, "Error storing user message")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to store message",
		})
	}

	// The provider lives past the handler return, so it is built on a
	// detached context rather than the request's.
	gen, err := h.newClient(context.Background(), modelType, modelName, temperature)
	if err != nil {
		log.Println(err, "Error creating model client")
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Unsupported model configuration",
		})
	}

	req := relay.Request{
		ConversationUUID: conversationUUID,
		Prompt:           dto.Message,
		SystemMessage:    llm.SystemMessage(),
		Meta: map[string]interface{}{
			"model_type":  modelType,
			"model_name":  modelName,
			"temperature": temperature,
		},
	}

	c.Set(fiber.HeaderContentType, "text/event-stream")
	c.Set(fiber.HeaderCacheControl, "no-cache")
	c.Set("Connection", "keep-alive")
	c.Set("X-Conversation-Id", conversationUUID.String())

	rly := h.relay
	c.Context().SetBodyStreamWriter(func(w *bufio.Writer) {
		defer func() {
			if err := gen.Close(); err != nil {
				log.Printf("provider cleanup: %v", err)
			}
		}()

		outcome := rly.Run(req, gen, relay.NewSSESink(w))
		log.Printf("stream finished for conversation %s: %s", conversationUUID, outcome)
	})
	return nil
}

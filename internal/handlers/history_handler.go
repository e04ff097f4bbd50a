package handlers

import (
	"errors"
	"log"

	"chatstream-backend/internal/middleware"
	"chatstream-backend/internal/repo"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type HistoryHandler struct {
	conversations repo.ConversationRepoInterface
	messages      repo.MessageRepoInterface
}

func NewHistoryHandler(conversations repo.ConversationRepoInterface, messages repo.MessageRepoInterface) *HistoryHandler {
	return &HistoryHandler{conversations: conversations, messages: messages}
}

// GetMessages lists a conversation transcript oldest-first, owner-restricted.
func (h *HistoryHandler) GetMessages(c *fiber.Ctx) error {
	user, ok := middleware.UserFromCtx(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "unauthenticated",
		})
	}

	convUUID, err := uuid.Parse(c.Params("conversationId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid conversation ID",
		})
	}

	// ownership check; a foreign conversation reads as absent
	if _, err := h.conversations.GetConversationForUser(convUUID, user.UUID); err != nil {
		if errors.Is(err, repo.ErrConversationNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Conversation not found",
			})
		}
		log.Println(err, "Error loading conversation")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to get conversation",
		})
	}

	page := c.QueryInt("page", 1)
	pageSize := c.QueryInt("page_size", 50)

	messages, total, err := h.messages.GetMessagesByConversation(convUUID, page, pageSize)
	if err != nil {
		log.Println(err, "Error getting messages")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to get messages",
		})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"messages": messages,
		"total":    total,
	})
}

package handlers

import (
	"log"
	"strings"

	"chatstream-backend/internal/middleware"
	"chatstream-backend/internal/repo"

	"github.com/gofiber/fiber/v2"
)

// for simple crud operations service layer is not required
type ConversationHandler struct {
	repo repo.ConversationRepoInterface
}

func NewConversationHandler(repo repo.ConversationRepoInterface) *ConversationHandler {
	return &ConversationHandler{repo: repo}
}

// function to list the caller's conversations, newest first
func (h *ConversationHandler) GetConversations(c *fiber.Ctx) error {
	user, ok := middleware.UserFromCtx(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "unauthenticated",
		})
	}

	page := c.QueryInt("page", 1)
	pageSize := c.QueryInt("page_size", 20)

	conversations, total, err := h.repo.GetConversationsByUser(user.UUID, page, pageSize)
	if err != nil {
		log.Println(err, "Error getting conversations")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to get conversations",
		})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"conversations": conversations,
		"total":         total,
	})
}

// function to create a conversation with an explicit title
func (h *ConversationHandler) CreateConversation(c *fiber.Ctx) error {
	user, ok := middleware.UserFromCtx(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "unauthenticated",
		})
	}

	var dto struct {
		Title string `json:"title"`
	}
	if err := c.BodyParser(&dto); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	title := strings.TrimSpace(dto.Title)
	if title == "" || len(title) > 255 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Title must be between 1 and 255 characters",
		})
	}

	conversation, err := h.repo.CreateConversation(user.UUID, title)
	if err != nil {
		log.Println(err, "Error creating conversation")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to create conversation",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(conversation)
}

package repo

import (
	"errors"
	"time"

	"chatstream-backend/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var ErrConversationNotFound = errors.New("conversation not found")

// TitleMaxLen bounds titles derived from the first prompt.
const TitleMaxLen = 50

type ConversationRepo struct {
	db *gorm.DB
}

type ConversationRepoInterface interface {
	CreateConversation(userUUID uuid.UUID, title string) (models.Conversation, error)
	GetConversationForUser(convUUID uuid.UUID, userUUID uuid.UUID) (models.Conversation, error)
	ResolveOrCreate(userUUID uuid.UUID, convUUID uuid.UUID, fallbackTitle string) (uuid.UUID, error)
	GetConversationsByUser(userUUID uuid.UUID, page int, pageSize int) ([]models.Conversation, int64, error)
}

func NewConversationRepository(db *gorm.DB) ConversationRepoInterface {
	return &ConversationRepo{db: db}
}

func (r *ConversationRepo) CreateConversation(userUUID uuid.UUID, title string) (models.Conversation, error) {
	conversation := models.Conversation{
		UUID:      uuid.New(),
		UserUUID:  userUUID,
		Title:     title,
		CreatedAt: time.Now(),
	}
	if err := r.db.Create(&conversation).Error; err != nil {
		return models.Conversation{}, err
	}
	return conversation, nil
}

// GetConversationForUser looks up a conversation scoped to its owner. A
// conversation owned by someone else is reported as not found, never as
// forbidden.
func (r *ConversationRepo) GetConversationForUser(convUUID uuid.UUID, userUUID uuid.UUID) (models.Conversation, error) {
	var conversation models.Conversation
	err := r.db.Where("uuid = ? AND user_uuid = ?", convUUID, userUUID).First(&conversation).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.Conversation{}, ErrConversationNotFound
	}
	if err != nil {
		return models.Conversation{}, err
	}
	return conversation, nil
}

// ResolveOrCreate returns the conversation id a new message belongs to. With a
// zero convUUID a fresh conversation is created, titled from fallbackTitle.
func (r *ConversationRepo) ResolveOrCreate(userUUID uuid.UUID, convUUID uuid.UUID, fallbackTitle string) (uuid.UUID, error) {
	if convUUID == uuid.Nil {
		conversation, err := r.CreateConversation(userUUID, TruncateTitle(fallbackTitle))
		if err != nil {
			return uuid.Nil, err
		}
		return conversation.UUID, nil
	}

	conversation, err := r.GetConversationForUser(convUUID, userUUID)
	if err != nil {
		return uuid.Nil, err
	}
	return conversation.UUID, nil
}

// signature returns conversations, totalCount, error
func (r *ConversationRepo) GetConversationsByUser(userUUID uuid.UUID, page int, pageSize int) ([]models.Conversation, int64, error) {
	var conversations []models.Conversation
	var total int64

	page, pageSize = normalizePage(page, pageSize)
	offset := (page - 1) * pageSize

	base := r.db.Model(&models.Conversation{}).Where("user_uuid = ?", userUUID)

	if err := base.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	// newest first
	if err := base.Order("created_at desc").
		Limit(pageSize).
		Offset(offset).
		Find(&conversations).Error; err != nil {
		return nil, 0, err
	}

	return conversations, total, nil
}

// TruncateTitle bounds a prompt-derived title to TitleMaxLen runes.
func TruncateTitle(title string) string {
	runes := []rune(title)
	if len(runes) <= TitleMaxLen {
		return title
	}
	return string(runes[:TitleMaxLen])
}

func normalizePage(page int, pageSize int) (int, int) {
	const DefaultPageSize = 20
	const MaxPageSize = 100
	if page < 1 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	if pageSize > MaxPageSize {
		pageSize = MaxPageSize
	}
	return page, pageSize
}

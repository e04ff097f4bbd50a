package repo

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"chatstream-backend/internal/models"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

var ErrPersistenceFailed = errors.New("persistence failed after retries")

const (
	appendAttempts = 3
	appendBackoff  = 200 * time.Millisecond
)

type MessageRepo struct {
	db *gorm.DB
}

type MessageRepoInterface interface {
	AppendMessage(convUUID uuid.UUID, role models.Role, content string, meta map[string]interface{}) (uuid.UUID, error)
	GetMessagesByConversation(convUUID uuid.UUID, page int, pageSize int) ([]models.Message, int64, error)
}

func NewMessageRepository(db *gorm.DB) MessageRepoInterface {
	return &MessageRepo{db: db}
}

// AppendMessage inserts one transcript row, retrying transient store failures
// a bounded number of times before giving up with ErrPersistenceFailed.
func (r *MessageRepo) AppendMessage(convUUID uuid.UUID, role models.Role, content string, meta map[string]interface{}) (uuid.UUID, error) {
	message := models.Message{
		UUID:             uuid.New(),
		ConversationUUID: convUUID,
		Role:             role,
		Content:          content,
		CreatedAt:        time.Now(),
	}
	if len(meta) > 0 {
		encoded, err := json.Marshal(meta)
		if err != nil {
			return uuid.Nil, fmt.Errorf("encode message meta: %w", err)
		}
		message.Meta = datatypes.JSON(encoded)
	}

	err := withRetry(appendAttempts, appendBackoff, func() error {
		return r.db.Create(&message).Error
	})
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: %v", ErrPersistenceFailed, err)
	}
	return message.UUID, nil
}

// signature returns messages, totalCount, error
func (r *MessageRepo) GetMessagesByConversation(convUUID uuid.UUID, page int, pageSize int) ([]models.Message, int64, error) {
	var messages []models.Message
	var total int64

	page, pageSize = normalizePage(page, pageSize)
	offset := (page - 1) * pageSize

	base := r.db.Model(&models.Message{}).Where("conversation_uuid = ?", convUUID)

	if err := base.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	// transcript order: oldest first, insertion order breaking ties
	if err := base.Order("created_at asc, uuid asc").
		Limit(pageSize).
		Offset(offset).
		Find(&messages).Error; err != nil {
		return nil, 0, err
	}

	return messages, total, nil
}

func withRetry(attempts int, backoff time.Duration, fn func() error) error {
	var err error
	for i := 0; i < attempts; i++ {
		if err = fn(); err == nil {
			return nil
		}
		if i < attempts-1 {
			time.Sleep(backoff)
		}
	}
	return err
}

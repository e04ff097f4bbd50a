package repo

import (
	"errors"
	"time"

	"chatstream-backend/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var ErrSessionNotFound = errors.New("session not found")

type UserRepo struct {
	db *gorm.DB
}

type UserRepoInterface interface {
	UpsertGoogleUser(email string, googleID string, picture string) (models.User, error)
	GetUserByUUID(userUUID uuid.UUID) (models.User, error)
}

func NewUserRepository(db *gorm.DB) UserRepoInterface {
	return &UserRepo{db: db}
}

// UpsertGoogleUser creates the user on first login and refreshes the avatar
// on subsequent logins.
func (r *UserRepo) UpsertGoogleUser(email string, googleID string, picture string) (models.User, error) {
	var user models.User
	err := r.db.Where("email = ?", email).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		user = models.User{
			UUID:      uuid.New(),
			Email:     email,
			GoogleID:  googleID,
			Picture:   picture,
			CreatedAt: time.Now(),
			UpdatedAt: time.Now(),
		}
		if err := r.db.Create(&user).Error; err != nil {
			return models.User{}, err
		}
		return user, nil
	}
	if err != nil {
		return models.User{}, err
	}

	if user.Picture != picture {
		user.Picture = picture
		user.UpdatedAt = time.Now()
		if err := r.db.Save(&user).Error; err != nil {
			return models.User{}, err
		}
	}
	return user, nil
}

func (r *UserRepo) GetUserByUUID(userUUID uuid.UUID) (models.User, error) {
	var user models.User
	err := r.db.Where("uuid = ?", userUUID).First(&user).Error
	return user, err
}

type SessionRepo struct {
	db *gorm.DB
}

type SessionRepoInterface interface {
	CreateSession(userUUID uuid.UUID, accessToken string, expiresAt time.Time) (models.Session, error)
	GetSessionByToken(accessToken string) (models.Session, error)
	DeleteSession(sessionUUID uuid.UUID) error
}

func NewSessionRepository(db *gorm.DB) SessionRepoInterface {
	return &SessionRepo{db: db}
}

func (r *SessionRepo) CreateSession(userUUID uuid.UUID, accessToken string, expiresAt time.Time) (models.Session, error) {
	session := models.Session{
		UUID:        uuid.New(),
		UserUUID:    userUUID,
		AccessToken: accessToken,
		ExpiresAt:   expiresAt,
		CreatedAt:   time.Now(),
	}
	if err := r.db.Create(&session).Error; err != nil {
		return models.Session{}, err
	}
	return session, nil
}

func (r *SessionRepo) GetSessionByToken(accessToken string) (models.Session, error) {
	var session models.Session
	err := r.db.Where("access_token = ?", accessToken).First(&session).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.Session{}, ErrSessionNotFound
	}
	return session, err
}

func (r *SessionRepo) DeleteSession(sessionUUID uuid.UUID) error {
	return r.db.Where("uuid = ?", sessionUUID).Delete(&models.Session{}).Error
}

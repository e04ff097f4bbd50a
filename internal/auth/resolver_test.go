package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"chatstream-backend/internal/models"
	"chatstream-backend/internal/repo"

	"github.com/google/uuid"
)

type fakeVerifier struct {
	calls int
	err   error
}

func (v *fakeVerifier) VerifyAccessToken(_ context.Context, _ string) error {
	v.calls++
	return v.err
}

func (v *fakeVerifier) ValidateIDToken(_ context.Context, _ string) (Identity, error) {
	return Identity{}, errors.New("not used")
}

type fakeSessions struct {
	sessions map[string]models.Session
	deleted  []uuid.UUID
}

func (s *fakeSessions) CreateSession(_ uuid.UUID, _ string, _ time.Time) (models.Session, error) {
	return models.Session{}, errors.New("not used")
}

func (s *fakeSessions) GetSessionByToken(token string) (models.Session, error) {
	session, ok := s.sessions[token]
	if !ok {
		return models.Session{}, repo.ErrSessionNotFound
	}
	return session, nil
}

func (s *fakeSessions) DeleteSession(sessionUUID uuid.UUID) error {
	s.deleted = append(s.deleted, sessionUUID)
	return nil
}

type fakeUsers struct {
	users map[uuid.UUID]models.User
}

func (u *fakeUsers) UpsertGoogleUser(_ string, _ string, _ string) (models.User, error) {
	return models.User{}, errors.New("not used")
}

func (u *fakeUsers) GetUserByUUID(userUUID uuid.UUID) (models.User, error) {
	user, ok := u.users[userUUID]
	if !ok {
		return models.User{}, errors.New("user not found")
	}
	return user, nil
}

func fixtures() (*fakeVerifier, *fakeSessions, *fakeUsers, models.User, string) {
	user := models.User{UUID: uuid.New(), Email: "alice@example.com"}
	token := "valid-token"
	sessions := &fakeSessions{sessions: map[string]models.Session{
		token: {
			UUID:      uuid.New(),
			UserUUID:  user.UUID,
			ExpiresAt: time.Now().Add(time.Hour),
		},
	}}
	users := &fakeUsers{users: map[uuid.UUID]models.User{user.UUID: user}}
	return &fakeVerifier{}, sessions, users, user, token
}

func TestResolveCachesPrincipal(t *testing.T) {
	verifier, sessions, users, user, token := fixtures()
	resolver := NewResolver(verifier, sessions, users)
	ctx := context.Background()

	got, err := resolver.Resolve(ctx, token)
	if err != nil {
		t.Fatalf("Resolve err: %v", err)
	}
	if got.Email != user.Email {
		t.Fatalf("resolved email = %s, want %s", got.Email, user.Email)
	}

	// second resolve is a cache hit and skips Google
	if _, err := resolver.Resolve(ctx, token); err != nil {
		t.Fatalf("cached Resolve err: %v", err)
	}
	if verifier.calls != 1 {
		t.Fatalf("verifier called %d times, want 1", verifier.calls)
	}
}

func TestResolveInvalidGoogleToken(t *testing.T) {
	verifier, sessions, users, _, token := fixtures()
	verifier.err = errors.New("token rejected")
	resolver := NewResolver(verifier, sessions, users)

	_, err := resolver.Resolve(context.Background(), token)
	if !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("err = %v, want ErrInvalidToken", err)
	}
}

func TestResolveUnknownSession(t *testing.T) {
	verifier, sessions, users, _, _ := fixtures()
	resolver := NewResolver(verifier, sessions, users)

	_, err := resolver.Resolve(context.Background(), "never-issued")
	if !errors.Is(err, ErrUnknownSession) {
		t.Fatalf("err = %v, want ErrUnknownSession", err)
	}
}

func TestResolveExpiredSessionPurged(t *testing.T) {
	verifier, sessions, users, user, token := fixtures()
	expired := models.Session{
		UUID:      uuid.New(),
		UserUUID:  user.UUID,
		ExpiresAt: time.Now().Add(-time.Minute),
	}
	sessions.sessions[token] = expired
	resolver := NewResolver(verifier, sessions, users)

	_, err := resolver.Resolve(context.Background(), token)
	if !errors.Is(err, ErrExpiredSession) {
		t.Fatalf("err = %v, want ErrExpiredSession", err)
	}
	if len(sessions.deleted) != 1 || sessions.deleted[0] != expired.UUID {
		t.Fatalf("expired session not purged: %v", sessions.deleted)
	}
}

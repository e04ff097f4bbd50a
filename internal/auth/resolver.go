package auth

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"chatstream-backend/internal/models"
	"chatstream-backend/internal/repo"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

var (
	ErrInvalidToken   = errors.New("invalid token")
	ErrUnknownSession = errors.New("unknown session")
	ErrExpiredSession = errors.New("session expired")
)

const (
	tokenCacheSize = 1000
	tokenCacheTTL  = 5 * time.Minute
)

// Resolver authenticates a bearer token to a user. Hits are served from a
// bounded TTL cache keyed by the raw token; misses are verified with Google
// and then looked up in the local session store.
type Resolver struct {
	cache    *expirable.LRU[string, models.User]
	verifier GoogleVerifier
	sessions repo.SessionRepoInterface
	users    repo.UserRepoInterface
}

func NewResolver(verifier GoogleVerifier, sessions repo.SessionRepoInterface, users repo.UserRepoInterface) *Resolver {
	return &Resolver{
		cache:    expirable.NewLRU[string, models.User](tokenCacheSize, nil, tokenCacheTTL),
		verifier: verifier,
		sessions: sessions,
		users:    users,
	}
}

func (r *Resolver) Resolve(ctx context.Context, token string) (models.User, error) {
	if user, ok := r.cache.Get(token); ok {
		return user, nil
	}

	if err := r.verifier.VerifyAccessToken(ctx, token); err != nil {
		return models.User{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	session, err := r.sessions.GetSessionByToken(token)
	if errors.Is(err, repo.ErrSessionNotFound) {
		return models.User{}, ErrUnknownSession
	}
	if err != nil {
		return models.User{}, err
	}

	if time.Now().After(session.ExpiresAt) {
		// purge expired sessions on detection
		if err := r.sessions.DeleteSession(session.UUID); err != nil {
			log.Printf("failed to delete expired session: %v", err)
		}
		r.cache.Remove(token)
		return models.User{}, ErrExpiredSession
	}

	user, err := r.users.GetUserByUUID(session.UserUUID)
	if err != nil {
		return models.User{}, ErrUnknownSession
	}

	r.cache.Add(token, user)
	return user, nil
}

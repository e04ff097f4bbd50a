package handlers

import (
	"encoding/json"
	"fmt"
	"log"
	"net/url"
	"time"

	"chatstream-backend/internal/auth"
	"chatstream-backend/internal/config"
	"chatstream-backend/internal/middleware"
	"chatstream-backend/internal/repo"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/oauth2"
)

type AuthHandler struct {
	users    repo.UserRepoInterface
	sessions repo.SessionRepoInterface
	verifier auth.GoogleVerifier
	resolver middleware.SessionResolver
	oauthCfg *oauth2.Config
}

func NewAuthHandler(users repo.UserRepoInterface, sessions repo.SessionRepoInterface, verifier auth.GoogleVerifier, resolver middleware.SessionResolver) *AuthHandler {
	return &AuthHandler{
		users:    users,
		sessions: sessions,
		verifier: verifier,
		resolver: resolver,
		oauthCfg: config.GoogleOAuth(),
	}
}

// Login hands the client the Google consent URL.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"url": h.oauthCfg.AuthCodeURL("state", oauth2.AccessTypeOffline),
	})
}

// Callback exchanges the authorization code, upserts the user, creates a
// session, and redirects back to the frontend with the credential payload.
func (h *AuthHandler) Callback(c *fiber.Ctx) error {
	code := c.Query("code")
	if code == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Missing authorization code",
		})
	}

	token, err := h.oauthCfg.Exchange(c.Context(), code)
	if err != nil {
		log.Println(err, "Error exchanging authorization code")
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Failed to get access token",
		})
	}

	rawIDToken, _ := token.Extra("id_token").(string)
	if rawIDToken == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid Google token",
		})
	}

	identity, err := h.verifier.ValidateIDToken(c.Context(), rawIDToken)
	if err != nil {
		log.Println(err, "Error validating id token")
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid Google token",
		})
	}

	user, err := h.users.UpsertGoogleUser(identity.Email, identity.Subject, identity.Picture)
	if err != nil {
		log.Println(err, "Error upserting user")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to store user",
		})
	}

	expiresAt := token.Expiry
	if expiresAt.IsZero() {
		expiresAt = time.Now().Add(time.Hour)
	}

	session, err := h.sessions.CreateSession(user.UUID, token.AccessToken, expiresAt)
	if err != nil {
		log.Println(err, "Error creating session")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to create session",
		})
	}

	payload, err := json.Marshal(fiber.Map{
		"access_token": token.AccessToken,
		"token_type":   token.TokenType,
		"expires_at":   session.ExpiresAt.Format(time.RFC3339),
		"email":        user.Email,
		"picture":      user.Picture,
	})
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to encode session",
		})
	}

	redirectURL := fmt.Sprintf("%s/auth/callback?data=%s", config.FrontendURL(), url.QueryEscape(string(payload)))
	return c.Redirect(redirectURL, fiber.StatusTemporaryRedirect)
}

// CurrentUser resolves the bearer credential to the logged-in identity.
func (h *AuthHandler) CurrentUser(c *fiber.Ctx) error {
	token := middleware.BearerToken(c)
	if token == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "unauthenticated",
		})
	}

	user, err := h.resolver.Resolve(c.Context(), token)
	if err != nil {
		log.Printf("authentication failed: %v", err)
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "unauthenticated",
		})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"email":   user.Email,
		"picture": user.Picture,
	})
}

package config

import (
	"os"
	"strconv"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

// Getenv reads an environment variable with a fallback default.
func Getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func Port() string {
	return Getenv("PORT", "3000")
}

func FrontendURL() string {
	return Getenv("FRONTEND_URL", "http://localhost:3001")
}

func DefaultModelType() string {
	return Getenv("DEFAULT_MODEL_TYPE", "gemini")
}

func DefaultModelName() string {
	return os.Getenv("DEFAULT_MODEL_NAME")
}

// GenerationTimeout bounds one upstream generation, including the drain that
// keeps running after a client disconnect.
func GenerationTimeout() time.Duration {
	seconds, err := strconv.Atoi(Getenv("GENERATION_TIMEOUT_SECONDS", "120"))
	if err != nil || seconds <= 0 {
		seconds = 120
	}
	return time.Duration(seconds) * time.Second
}

// GoogleOAuth builds the OAuth2 config for the Google login flow.
func GoogleOAuth() *oauth2.Config {
	return &oauth2.Config{
		ClientID:     os.Getenv("GOOGLE_CLIENT_ID"),
		ClientSecret: os.Getenv("GOOGLE_CLIENT_SECRET"),
		RedirectURL:  os.Getenv("GOOGLE_REDIRECT_URI"),
		Scopes:       []string{"openid", "profile", "email"},
		Endpoint:     google.Endpoint,
	}
}

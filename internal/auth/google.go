package auth

import (
	"context"
	"fmt"
	"os"

	"google.golang.org/api/idtoken"
	oauth2api "google.golang.org/api/oauth2/v2"
	"google.golang.org/api/option"
)

// Identity is what Google asserts about a logged-in account.
type Identity struct {
	Subject string
	Email   string
	Picture string
}

// GoogleVerifier checks credentials against Google. Split out as an interface
// so the resolver and the OAuth callback can be tested without network calls.
type GoogleVerifier interface {
	VerifyAccessToken(ctx context.Context, accessToken string) error
	ValidateIDToken(ctx context.Context, rawIDToken string) (Identity, error)
}

type googleVerifier struct {
	oauth2Service *oauth2api.Service
	clientID      string
}

func NewGoogleVerifier(ctx context.Context) (GoogleVerifier, error) {
	// tokeninfo is a public endpoint
	service, err := oauth2api.NewService(ctx, option.WithoutAuthentication())
	if err != nil {
		return nil, fmt.Errorf("oauth2.NewService: %w", err)
	}
	return &googleVerifier{
		oauth2Service: service,
		clientID:      os.Getenv("GOOGLE_CLIENT_ID"),
	}, nil
}

func (v *googleVerifier) VerifyAccessToken(ctx context.Context, accessToken string) error {
	_, err := v.oauth2Service.Tokeninfo().AccessToken(accessToken).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("google tokeninfo: %w", err)
	}
	return nil
}

func (v *googleVerifier) ValidateIDToken(ctx context.Context, rawIDToken string) (Identity, error) {
	payload, err := idtoken.Validate(ctx, rawIDToken, v.clientID)
	if err != nil {
		return Identity{}, fmt.Errorf("validate id token: %w", err)
	}

	email, _ := payload.Claims["email"].(string)
	picture, _ := payload.Claims["picture"].(string)
	if email == "" {
		return Identity{}, fmt.Errorf("id token missing email claim")
	}

	return Identity{
		Subject: payload.Subject,
		Email:   email,
		Picture: picture,
	}, nil
}

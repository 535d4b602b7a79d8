package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/endpoints"

	"github.com/yeremiapane/restaurant-hub/config"
	"github.com/yeremiapane/restaurant-hub/utils"
)

const googleUserInfoURL = "https://openidconnect.googleapis.com/v1/userinfo"

type GoogleProfile struct {
	Subject       string `json:"sub"`
	Email         string `json:"email"`
	EmailVerified bool   `json:"email_verified"`
	Name          string `json:"name"`
	Picture       string `json:"picture"`
}

// GoogleAuthenticator runs the authorization-code flow against Google.
type GoogleAuthenticator interface {
	AuthURL(state string) string
	Exchange(ctx context.Context, code string) (*GoogleProfile, error)
}

type googleAuthenticator struct {
	oauth       *oauth2.Config
	userInfoURL string
}

func NewGoogleAuthenticator(cfg *config.Config) GoogleAuthenticator {
	return &googleAuthenticator{
		oauth: &oauth2.Config{
			ClientID:     cfg.GoogleClientID,
			ClientSecret: cfg.GoogleClientSecret,
			RedirectURL:  cfg.GoogleCallbackURL,
			Scopes:       []string{"openid", "profile", "email"},
			Endpoint:     endpoints.Google,
		},
		userInfoURL: googleUserInfoURL,
	}
}

func (g *googleAuthenticator) AuthURL(state string) string {
	return g.oauth.AuthCodeURL(state, oauth2.AccessTypeOnline)
}

func (g *googleAuthenticator) Exchange(ctx context.Context, code string) (*GoogleProfile, error) {
	if g.oauth.ClientID == "" {
		return nil, utils.NewAppError(http.StatusServiceUnavailable, "google sign-in is not configured")
	}
	token, err := g.oauth.Exchange(ctx, code)
	if err != nil {
		return nil, utils.WrapAppError(http.StatusUnauthorized, "google sign-in failed", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.userInfoURL, nil)
	if err != nil {
		return nil, err
	}
	resp, err := g.oauth.Client(ctx, token).Do(req)
	if err != nil {
		return nil, fmt.Errorf("google userinfo: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, utils.NewUnauthorizedError(fmt.Sprintf("google userinfo returned %d", resp.StatusCode))
	}

	var profile GoogleProfile
	if err := json.NewDecoder(resp.Body).Decode(&profile); err != nil {
		return nil, fmt.Errorf("google userinfo: decode: %w", err)
	}
	if profile.Subject == "" || profile.Email == "" {
		return nil, utils.NewUnauthorizedError("google profile is missing subject or email")
	}
	return &profile, nil
}

package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"time"

	"golang.org/x/oauth2"
)

// SocialProfile is the subset of the provider profile we care about
type SocialProfile struct {
	Email    string `json:"email"`
	Name     string `json:"name"`
	Verified bool   `json:"verified_email"`
}

// SocialLoginService exchanges an OAuth2 authorization code for a profile
type SocialLoginService interface {
	ExchangeCode(ctx context.Context, code, redirectURI string) (*SocialProfile, error)
}

const googleUserInfoURL = "https://www.googleapis.com/oauth2/v2/userinfo"

// GoogleLoginService implements SocialLoginService against Google OAuth2
type GoogleLoginService struct {
	clientID     string
	clientSecret string
}

func NewGoogleLoginService() *GoogleLoginService {
	return &GoogleLoginService{
		clientID:     os.Getenv("GOOGLE_CLIENT_ID"),
		clientSecret: os.Getenv("GOOGLE_CLIENT_SECRET"),
	}
}

func (s *GoogleLoginService) config(redirectURI string) *oauth2.Config {
	return &oauth2.Config{
		ClientID:     s.clientID,
		ClientSecret: s.clientSecret,
		RedirectURL:  redirectURI,
		Scopes:       []string{"openid", "email", "profile"},
		Endpoint: oauth2.Endpoint{
			AuthURL:  "https://accounts.google.com/o/oauth2/auth",
			TokenURL: "https://oauth2.googleapis.com/token",
		},
	}
}

// ExchangeCode trades the authorization code for an access token and loads
// the user profile from the userinfo endpoint
func (s *GoogleLoginService) ExchangeCode(ctx context.Context, code, redirectURI string) (*SocialProfile, error) {
	if s.clientID == "" || s.clientSecret == "" {
		return nil, fmt.Errorf("google oauth is not configured")
	}

	conf := s.config(redirectURI)

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	token, err := conf.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("code exchange failed: %w", err)
	}

	client := conf.Client(ctx, token)
	resp, err := client.Get(googleUserInfoURL)
	if err != nil {
		return nil, fmt.Errorf("userinfo request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("userinfo request returned status %d", resp.StatusCode)
	}

	var profile SocialProfile
	if err := json.NewDecoder(resp.Body).Decode(&profile); err != nil {
		return nil, fmt.Errorf("failed to decode userinfo: %w", err)
	}

	if profile.Email == "" {
		return nil, fmt.Errorf("provider did not return an email")
	}

	return &profile, nil
}

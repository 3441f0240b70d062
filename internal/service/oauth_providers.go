package service

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"authportal/internal/config"
)

const exchangeTimeout = 10 * time.Second

// oauthProvider exchanges an authorization code for a normalized identity
// against a provider's token and userinfo endpoints.
type oauthProvider struct {
	name         string
	clientID     string
	clientSecret string
	tokenURL     string
	userInfoURL  string
	client       *http.Client
	mapIdentity  func(claims map[string]any) *Identity
}

func (p *oauthProvider) Name() string { return p.name }

func (p *oauthProvider) Exchange(ctx context.Context, code string) (*Identity, error) {
	accessToken, err := p.fetchAccessToken(ctx, code)
	if err != nil {
		return nil, err
	}

	claims, err := p.fetchUserInfo(ctx, accessToken)
	if err != nil {
		return nil, err
	}

	identity := p.mapIdentity(claims)
	identity.Provider = p.name
	return identity, nil
}

func (p *oauthProvider) fetchAccessToken(ctx context.Context, code string) (string, error) {
	form := url.Values{
		"client_id":     {p.clientID},
		"client_secret": {p.clientSecret},
		"code":          {code},
		"grant_type":    {"authorization_code"},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.tokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("build token request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("exchange code: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("token endpoint returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read token response: %w", err)
	}

	var payload struct {
		AccessToken string `json:"access_token"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return "", fmt.Errorf("parse token response: %w", err)
	}
	if payload.AccessToken == "" {
		return "", fmt.Errorf("token endpoint returned no access token")
	}
	return payload.AccessToken, nil
}

func (p *oauthProvider) fetchUserInfo(ctx context.Context, accessToken string) (map[string]any, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.userInfoURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build userinfo request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)
	req.Header.Set("Accept", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch userinfo: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("userinfo endpoint returned status %d", resp.StatusCode)
	}

	var claims map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&claims); err != nil {
		return nil, fmt.Errorf("parse userinfo response: %w", err)
	}
	return claims, nil
}

// NewProviderRegistry builds exchange implementations for every provider
// the configuration carries credentials for.
func NewProviderRegistry(cfg *config.Config) ProviderRegistry {
	registry := ProviderRegistry{}
	client := &http.Client{Timeout: exchangeTimeout}

	if cfg.GoogleClientID != "" {
		registry["google"] = &oauthProvider{
			name:         "google",
			clientID:     cfg.GoogleClientID,
			clientSecret: cfg.GoogleClientSecret,
			tokenURL:     "https://oauth2.googleapis.com/token",
			userInfoURL:  "https://openidconnect.googleapis.com/v1/userinfo",
			client:       client,
			mapIdentity:  googleIdentity,
		}
	}

	if cfg.GithubClientID != "" {
		registry["github"] = &oauthProvider{
			name:         "github",
			clientID:     cfg.GithubClientID,
			clientSecret: cfg.GithubClientSecret,
			tokenURL:     "https://github.com/login/oauth/access_token",
			userInfoURL:  "https://api.github.com/user",
			client:       client,
			mapIdentity:  githubIdentity,
		}
	}

	return registry
}

func googleIdentity(claims map[string]any) *Identity {
	verified, _ := claims["email_verified"].(bool)
	return &Identity{
		ProviderAccountID: stringField(claims, "sub"),
		Email:             stringField(claims, "email"),
		EmailVerified:     verified,
		FirstName:         stringField(claims, "given_name"),
		LastName:          stringField(claims, "family_name"),
		Image:             stringField(claims, "picture"),
	}
}

func githubIdentity(claims map[string]any) *Identity {
	// GitHub's numeric id arrives as a JSON number.
	var accountID string
	switch id := claims["id"].(type) {
	case float64:
		accountID = fmt.Sprintf("%.0f", id)
	case string:
		accountID = id
	}

	first, last := splitName(stringField(claims, "name"))
	return &Identity{
		ProviderAccountID: accountID,
		Email:             stringField(claims, "email"),
		EmailVerified:     false,
		FirstName:         first,
		LastName:          last,
		Image:             stringField(claims, "avatar_url"),
	}
}

func stringField(claims map[string]any, key string) string {
	v, _ := claims[key].(string)
	return v
}

func splitName(full string) (first, last string) {
	parts := strings.Fields(full)
	if len(parts) == 0 {
		return "", ""
	}
	return parts[0], strings.Join(parts[1:], " ")
}

// File: internal/auth/provider.go
package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/oauth2"

	"startupteam_backend/internal/config"
	"startupteam_backend/internal/domain"
)

// ExternalIdentity is a verified identity assertion obtained from a provider.
type ExternalIdentity struct {
	Provider   domain.AuthProvider
	ProviderID string
	Email      string
	Name       string
	AvatarURL  string
}

// Provider exchanges an authorization code for a verified identity.
type Provider interface {
	Name() domain.AuthProvider
	AuthCodeURL(state string) string
	ExchangeAssertion(ctx context.Context, code string) (*ExternalIdentity, error)
}

// Providers is the registry of configured OAuth providers keyed by name.
type Providers map[domain.AuthProvider]Provider

// NewProviders builds the registry from configuration. Providers without a
// client id or secret are left out.
func NewProviders(cfg *config.Config, logger *zap.Logger) Providers {
	registry := Providers{}
	if cfg.GoogleClientID != "" && cfg.GoogleClientSecret != "" {
		registry[domain.ProviderGoogle] = NewGoogleProvider(cfg)
	} else {
		logger.Info("Google sign-in disabled: client credentials not configured")
	}
	if cfg.LinkedInClientID != "" && cfg.LinkedInClientSecret != "" {
		registry[domain.ProviderLinkedIn] = NewLinkedInProvider(cfg)
	} else {
		logger.Info("LinkedIn sign-in disabled: client credentials not configured")
	}
	return registry
}

// Lookup returns the provider registered under name.
func (p Providers) Lookup(name string) (Provider, bool) {
	provider, ok := p[domain.AuthProvider(strings.ToLower(name))]
	return provider, ok
}

// Names lists the configured providers in a stable order.
func (p Providers) Names() []string {
	names := make([]string, 0, len(p))
	for name := range p {
		names = append(names, string(name))
	}
	sort.Strings(names)
	return names
}

// fetchUserInfo calls a userinfo endpoint with the exchanged token and decodes
// the JSON body into out.
func fetchUserInfo(ctx context.Context, conf *oauth2.Config, token *oauth2.Token, url string, out interface{}) error {
	client := conf.Client(ctx, token)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("failed to build userinfo request: %w", err)
	}
	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to get user info: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("userinfo endpoint returned %d: %s", resp.StatusCode, string(body))
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode user info: %w", err)
	}
	return nil
}

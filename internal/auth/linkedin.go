// File: internal/auth/linkedin.go
package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/linkedin"

	"startupteam_backend/internal/config"
	"startupteam_backend/internal/domain"
)

const linkedInUserInfoURL = "https://api.linkedin.com/v2/userinfo"

// LinkedInUserInfo is the OpenID Connect userinfo payload returned by LinkedIn.
type LinkedInUserInfo struct {
	Sub        string `json:"sub"`
	Email      string `json:"email"`
	Name       string `json:"name"`
	GivenName  string `json:"given_name"`
	FamilyName string `json:"family_name"`
	Picture    string `json:"picture"`
}

// LinkedInProvider signs users in with LinkedIn (OpenID Connect).
type LinkedInProvider struct {
	conf        *oauth2.Config
	userInfoURL string
}

func NewLinkedInProvider(cfg *config.Config) *LinkedInProvider {
	return &LinkedInProvider{
		conf: &oauth2.Config{
			ClientID:     cfg.LinkedInClientID,
			ClientSecret: cfg.LinkedInClientSecret,
			RedirectURL:  cfg.LinkedInRedirectURL,
			Scopes:       []string{"openid", "profile", "email"},
			Endpoint:     linkedin.Endpoint,
		},
		userInfoURL: linkedInUserInfoURL,
	}
}

func (p *LinkedInProvider) Name() domain.AuthProvider { return domain.ProviderLinkedIn }

func (p *LinkedInProvider) AuthCodeURL(state string) string {
	return p.conf.AuthCodeURL(state)
}

func (p *LinkedInProvider) ExchangeAssertion(ctx context.Context, code string) (*ExternalIdentity, error) {
	token, err := p.conf.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("linkedin code exchange failed: %w", err)
	}
	var info LinkedInUserInfo
	if err := fetchUserInfo(ctx, p.conf, token, p.userInfoURL, &info); err != nil {
		return nil, err
	}
	if info.Sub == "" || info.Email == "" {
		return nil, errors.New("linkedin userinfo missing subject or email")
	}
	name := info.Name
	if name == "" {
		name = strings.TrimSpace(info.GivenName + " " + info.FamilyName)
	}
	return &ExternalIdentity{
		Provider:   domain.ProviderLinkedIn,
		ProviderID: info.Sub,
		Email:      info.Email,
		Name:       name,
		AvatarURL:  info.Picture,
	}, nil
}

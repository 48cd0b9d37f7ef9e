package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/coreos/go-oidc/v3/oidc"
	"golang.org/x/oauth2"
)

// GoogleIdentity is the verified identity returned by the OAuth flow
type GoogleIdentity struct {
	Subject string
	Email   string
	Name    string
	Picture *string
}

// GoogleIdentityProvider abstracts the Google OAuth code exchange so
// the auth service can be tested without talking to Google.
type GoogleIdentityProvider interface {
	AuthCodeURL(state string) string
	Exchange(ctx context.Context, code string) (*GoogleIdentity, error)
}

type oidcGoogleProvider struct {
	oauth    *oauth2.Config
	verifier *oidc.IDTokenVerifier
}

// NewGoogleIdentityProvider builds a provider backed by Google's OIDC
// discovery endpoint.
func NewGoogleIdentityProvider(ctx context.Context, clientID, clientSecret, redirectURL string) (GoogleIdentityProvider, error) {
	provider, err := oidc.NewProvider(ctx, "https://accounts.google.com")
	if err != nil {
		return nil, fmt.Errorf("failed to discover google oidc endpoints: %w", err)
	}

	return &oidcGoogleProvider{
		oauth: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			Endpoint:     provider.Endpoint(),
			RedirectURL:  redirectURL,
			Scopes:       []string{oidc.ScopeOpenID, "profile", "email"},
		},
		verifier: provider.Verifier(&oidc.Config{ClientID: clientID}),
	}, nil
}

func (p *oidcGoogleProvider) AuthCodeURL(state string) string {
	// Always show the account chooser, and ask for offline access so
	// Google returns a refresh token.
	return p.oauth.AuthCodeURL(state,
		oauth2.AccessTypeOffline,
		oauth2.SetAuthURLParam("prompt", "select_account"),
	)
}

func (p *oidcGoogleProvider) Exchange(ctx context.Context, code string) (*GoogleIdentity, error) {
	token, err := p.oauth.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("failed to exchange authorization code: %w", err)
	}

	rawIDToken, ok := token.Extra("id_token").(string)
	if !ok {
		return nil, errors.New("token response missing id_token")
	}

	idToken, err := p.verifier.Verify(ctx, rawIDToken)
	if err != nil {
		return nil, fmt.Errorf("failed to verify id_token: %w", err)
	}

	var claims struct {
		Email   string `json:"email"`
		Name    string `json:"name"`
		Picture string `json:"picture"`
	}
	if err := idToken.Claims(&claims); err != nil {
		return nil, fmt.Errorf("failed to parse id_token claims: %w", err)
	}
	if claims.Email == "" {
		return nil, errors.New("id_token did not include an email")
	}

	identity := &GoogleIdentity{
		Subject: idToken.Subject,
		Email:   claims.Email,
		Name:    claims.Name,
	}
	if claims.Picture != "" {
		identity.Picture = &claims.Picture
	}
	if identity.Name == "" {
		identity.Name = claims.Email
	}
	return identity, nil
}

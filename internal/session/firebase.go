package session

import (
	"context"
	"fmt"
	"time"

	firebase "firebase.google.com/go/v4"
	fbauth "firebase.google.com/go/v4/auth"
	"firebase.google.com/go/v4/errorutils"
	"google.golang.org/api/option"
)

// Provider verifies and mints session cookies against Firebase Auth.
// It implements Verifier, Minter and Revoker.
type Provider struct {
	client *fbauth.Client
}

// NewProvider builds the Firebase app once at startup. An empty
// credentialsFile falls back to application default credentials, which
// is what we run with on GCP.
func NewProvider(ctx context.Context, projectID, credentialsFile string) (*Provider, error) {
	var opts []option.ClientOption
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}

	app, err := firebase.NewApp(ctx, &firebase.Config{ProjectID: projectID}, opts...)
	if err != nil {
		return nil, fmt.Errorf("init firebase app: %w", err)
	}

	client, err := app.Auth(ctx)
	if err != nil {
		return nil, fmt.Errorf("init firebase auth client: %w", err)
	}

	return &Provider{client: client}, nil
}

func (p *Provider) Verify(ctx context.Context, cookie string) (Identity, error) {
	tok, err := p.client.VerifySessionCookie(ctx, cookie)
	if err != nil {
		return Identity{}, classifySessionErr(err)
	}
	return identityFromToken(tok), nil
}

// VerifyToken checks a raw provider id token, the bearer fallback for
// API clients that never went through the cookie exchange.
func (p *Provider) VerifyToken(ctx context.Context, idToken string) (Identity, error) {
	tok, err := p.client.VerifyIDToken(ctx, idToken)
	if err != nil {
		return Identity{}, classifyIDTokenErr(err)
	}
	return identityFromToken(tok), nil
}

func (p *Provider) Mint(ctx context.Context, idToken string, ttl time.Duration) (string, Identity, error) {
	tok, err := p.client.VerifyIDToken(ctx, idToken)
	if err != nil {
		return "", Identity{}, classifyIDTokenErr(err)
	}

	cookie, err := p.client.SessionCookie(ctx, idToken, ttl)
	if err != nil {
		return "", Identity{}, classifyIDTokenErr(err)
	}

	id := identityFromToken(tok)
	id.ExpiresAt = time.Now().Add(ttl)
	return cookie, id, nil
}

// Revoke kills every refresh token for the uid, so existing session
// cookies stop verifying once their revocation check runs.
func (p *Provider) Revoke(ctx context.Context, uid string) error {
	if err := p.client.RevokeRefreshTokens(ctx, uid); err != nil {
		return classifySessionErr(err)
	}
	return nil
}

func identityFromToken(tok *fbauth.Token) Identity {
	id := Identity{
		UID:       tok.UID,
		ExpiresAt: time.Unix(tok.Expires, 0),
	}
	if v, ok := tok.Claims["email"].(string); ok {
		id.Email = v
	}
	if v, ok := tok.Claims["name"].(string); ok {
		id.Name = v
	}
	if v, ok := tok.Claims["email_verified"].(bool); ok {
		id.EmailVerified = v
	}
	return id
}

// Anything that is clearly a bad cookie maps to ErrInvalidSession.
// Everything else counts as provider trouble: we must not log a user
// out because a cert fetch failed.
func classifySessionErr(err error) error {
	if fbauth.IsSessionCookieInvalid(err) ||
		fbauth.IsSessionCookieExpired(err) ||
		fbauth.IsSessionCookieRevoked(err) {
		return fmt.Errorf("%w: %v", ErrInvalidSession, err)
	}
	return fmt.Errorf("%w: %v", ErrProviderDown, err)
}

func classifyIDTokenErr(err error) error {
	if fbauth.IsIDTokenInvalid(err) ||
		fbauth.IsIDTokenExpired(err) ||
		fbauth.IsIDTokenRevoked(err) ||
		errorutils.IsInvalidArgument(err) ||
		errorutils.IsUnauthenticated(err) {
		return fmt.Errorf("%w: %v", ErrInvalidSession, err)
	}
	return fmt.Errorf("%w: %v", ErrProviderDown, err)
}

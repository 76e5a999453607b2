package session

import (
	"context"
	"errors"
	"time"
)

// CookieName is fixed by the hosting layer: CDNs in front of us only
// forward this one cookie, so renaming it breaks caching.
const CookieName = "__session"

var (
	// ErrNoSession means the request carried no session cookie at all.
	ErrNoSession = errors.New("no session")

	// ErrInvalidSession means a cookie was present but did not verify
	// (expired, revoked, malformed, wrong project).
	ErrInvalidSession = errors.New("invalid session")

	// ErrProviderDown means we could not reach the identity provider,
	// so the session state is unknown. Callers must not treat this as
	// a logged-out user.
	ErrProviderDown = errors.New("identity provider unavailable")
)

// Identity is what a verified session tells us about the caller.
type Identity struct {
	UID           string
	Email         string
	Name          string
	EmailVerified bool
	ExpiresAt     time.Time
}

// Verifier checks a session cookie and returns the identity behind it.
type Verifier interface {
	Verify(ctx context.Context, cookie string) (Identity, error)
}

// TokenVerifier checks a raw provider id token. API routes accept it
// as a bearer fallback when no cookie is present.
type TokenVerifier interface {
	VerifyToken(ctx context.Context, idToken string) (Identity, error)
}

// Minter exchanges a fresh provider id token for a long-lived session
// cookie plus the identity it encodes.
type Minter interface {
	Mint(ctx context.Context, idToken string, ttl time.Duration) (string, Identity, error)
}

// Revoker invalidates every outstanding session for a uid.
type Revoker interface {
	Revoke(ctx context.Context, uid string) error
}

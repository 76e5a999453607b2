package banking

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/arjunkh87/bizdash/internal/cache"
)

var (
	ErrBadState     = errors.New("invalid link state")
	ErrStateExpired = errors.New("link state expired")
	ErrStateReused  = errors.New("link state already used")
	ErrBadSignature = errors.New("invalid partner signature")
)

type stateClaims struct {
	TokenType string `json:"typ"`
	jwt.RegisteredClaims
}

// LinkManager mints the signed state we hand to the banking partner and
// checks everything the partner sends back. Two secrets on purpose: the
// state secret never leaves us, the webhook secret is shared with the
// partner.
type LinkManager struct {
	stateSecret   []byte
	webhookSecret []byte
	stateTTL      time.Duration
	partnerBase   string
	provider      string

	// per-instance replay guard, enough behind a single dashboard pod
	seen *cache.Cache
}

func NewLinkManager(stateSecret, webhookSecret string, stateTTL time.Duration, partnerBase, provider string) *LinkManager {
	if stateTTL <= 0 {
		stateTTL = 15 * time.Minute
	}

	return &LinkManager{
		stateSecret:   []byte(stateSecret),
		webhookSecret: []byte(webhookSecret),
		stateTTL:      stateTTL,
		partnerBase:   partnerBase,
		provider:      provider,
		seen:          cache.New(stateTTL),
	}
}

func (m *LinkManager) Provider() string { return m.provider }

// NewState mints a short-lived HS256 token binding the link flow to one
// uid. The partner echoes it back untouched.
func (m *LinkManager) NewState(uid string) (string, error) {
	now := time.Now().UTC()

	claims := stateClaims{
		TokenType: "bank_link",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   uid,
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.stateTTL)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(m.stateSecret)
}

// LinkURL is what the dashboard opens in a new tab.
func (m *LinkManager) LinkURL(uid string) (string, error) {
	state, err := m.NewState(uid)
	if err != nil {
		return "", fmt.Errorf("mint link state: %w", err)
	}

	u, err := url.Parse(m.partnerBase)
	if err != nil {
		return "", fmt.Errorf("parse partner base url: %w", err)
	}

	q := u.Query()
	q.Set("state", state)
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// ConsumeState validates the returned state and burns its jti, a state
// verifies exactly once.
func (m *LinkManager) ConsumeState(state string) (uid string, err error) {
	token, err := jwt.ParseWithClaims(state, &stateClaims{}, func(t *jwt.Token) (interface{}, error) {
		// Enforce HS256
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return m.stateSecret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", ErrStateExpired
		}
		return "", fmt.Errorf("%w: %v", ErrBadState, err)
	}

	claims, ok := token.Claims.(*stateClaims)
	if !ok || !token.Valid {
		return "", ErrBadState
	}
	if claims.TokenType != "bank_link" {
		return "", ErrBadState
	}
	if claims.Subject == "" || claims.ID == "" {
		return "", ErrBadState
	}

	if _, dup := m.seen.Get(claims.ID); dup {
		return "", ErrStateReused
	}
	exp := time.Now().Add(m.stateTTL)
	if claims.ExpiresAt != nil {
		exp = claims.ExpiresAt.Time
	}
	m.seen.SetUntil(claims.ID, struct{}{}, exp)

	return claims.Subject, nil
}

// Sign computes the hex HMAC the partner attaches to the success
// redirect, over state and account reference joined by a dot.
func (m *LinkManager) Sign(state, accountRef string) string {
	h := hmac.New(sha256.New, m.webhookSecret)
	h.Write([]byte(state + "." + accountRef))
	return hex.EncodeToString(h.Sum(nil))
}

func (m *LinkManager) VerifySignature(state, accountRef, signature string) error {
	want, err := hex.DecodeString(signature)
	if err != nil {
		return ErrBadSignature
	}

	h := hmac.New(sha256.New, m.webhookSecret)
	h.Write([]byte(state + "." + accountRef))

	if !hmac.Equal(h.Sum(nil), want) {
		return ErrBadSignature
	}
	return nil
}

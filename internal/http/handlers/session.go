package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/arjunkh87/bizdash/internal/config"
	"github.com/arjunkh87/bizdash/internal/domain/user"
	"github.com/arjunkh87/bizdash/internal/session"
)

type loginRequest struct {
	IDToken string `json:"idToken" binding:"required,min=20"`
}

// CookieForgetter drops a memoized session, implemented by the cached
// verifier. Optional, logout works without it.
type CookieForgetter interface {
	Forget(cookie string)
}

type SessionHandler struct {
	minter   session.Minter
	verifier session.Verifier
	revoker  session.Revoker
	store    UserStore
	forget   CookieForgetter
	cfg      config.Config
}

func NewSessionHandler(minter session.Minter, verifier session.Verifier, revoker session.Revoker, store UserStore, forget CookieForgetter, cfg config.Config) *SessionHandler {
	return &SessionHandler{
		minter:   minter,
		verifier: verifier,
		revoker:  revoker,
		store:    store,
		forget:   forget,
		cfg:      cfg,
	}
}

// Login trades a fresh provider id token for the long-lived session
// cookie and makes sure a profile document exists for the uid.
func (h *SessionHandler) Login(ctx *gin.Context) {
	var req loginRequest

	if !BindJSON(ctx, &req) {
		return
	}

	cctx, cancel := config.WithTimeout(5 * time.Second)
	defer cancel()

	cookie, id, err := h.minter.Mint(cctx, req.IDToken, h.cfg.SessionTTL)
	if err != nil {
		if errors.Is(err, session.ErrProviderDown) {
			RespondBadGateway(ctx, "Authentication service unavailable")
			return
		}
		RespondUnauthorized(ctx)
		return
	}

	// first login creates the document, later logins refresh the
	// provider-owned fields
	patch := user.Patch{ID: id.UID}
	if id.Email != "" {
		email := id.Email
		patch.Email = &email
	}
	if id.Name != "" {
		name := id.Name
		patch.Name = &name
	}

	u, err := h.store.Upsert(cctx, patch)
	if err != nil {
		// no cookie on a half-finished login, the client just retries
		RespondInternal(ctx, "Could not prepare profile")
		return
	}

	h.setSessionCookie(ctx, cookie, id.ExpiresAt)

	ctx.JSON(http.StatusOK, u)
}

// Logout clears the cookie no matter what, revocation is best effort.
func (h *SessionHandler) Logout(ctx *gin.Context) {
	raw, err := ctx.Cookie(session.CookieName)

	if err != nil || raw == "" {
		// still clear cookie to be safe
		h.clearSessionCookie(ctx)
		ctx.Status(http.StatusNoContent)
		return
	}

	if h.forget != nil {
		h.forget.Forget(raw)
	}

	cctx, cancel := config.WithTimeout(3 * time.Second)
	defer cancel()

	if id, err := h.verifier.Verify(cctx, raw); err == nil && h.revoker != nil {
		// idempotent, a second logout is a no-op
		_ = h.revoker.Revoke(cctx, id.UID)
	}

	h.clearSessionCookie(ctx)
	ctx.Status(http.StatusNoContent)
}

// Helper functions

func (h *SessionHandler) setSessionCookie(ctx *gin.Context, raw string, expiresAt time.Time) {
	secure := h.cfg.Env == "prod"

	maxAge := int(time.Until(expiresAt).Seconds())

	// Lax, not Strict: the cookie has to survive the top-level redirect
	// back from the banking partner
	ctx.SetSameSite(http.SameSiteLaxMode)

	ctx.SetCookie(
		session.CookieName,
		raw,
		maxAge,
		"/",
		"",
		secure,
		true, // HttpOnly.
	)
}

func (h *SessionHandler) clearSessionCookie(ctx *gin.Context) {
	secure := h.cfg.Env == "prod"
	ctx.SetSameSite(http.SameSiteLaxMode)
	ctx.SetCookie(
		session.CookieName,
		"",

		-1,
		"/",
		"",
		secure,
		true,
	)
}

package middlewares

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/arjunkh87/bizdash/internal/session"
)

// SessionMiddleware gates everything behind the session cookie. API
// routes answer JSON, page routes bounce to the landing page, and a
// dead identity provider is a 502 on both, never a silent logout.
type SessionMiddleware struct {
	verifier session.Verifier
	tokens   session.TokenVerifier
}

// tokens may be nil, which disables the bearer fallback.
func NewSessionMiddleware(verifier session.Verifier, tokens session.TokenVerifier) *SessionMiddleware {
	return &SessionMiddleware{verifier: verifier, tokens: tokens}
}

func (m *SessionMiddleware) identify(c *gin.Context) (session.Identity, error) {
	raw, err := c.Cookie(session.CookieName)
	if err != nil || raw == "" {
		return session.Identity{}, session.ErrNoSession
	}

	return m.verifier.Verify(c.Request.Context(), raw)
}

// bearerIdentify accepts a raw provider id token on API routes, for
// clients that never did the cookie exchange.
func (m *SessionMiddleware) bearerIdentify(c *gin.Context) (session.Identity, error) {
	if m.tokens == nil {
		return session.Identity{}, session.ErrNoSession
	}

	tok, ok := strings.CutPrefix(c.GetHeader("Authorization"), "Bearer ")
	tok = strings.TrimSpace(tok)
	if !ok || tok == "" {
		return session.Identity{}, session.ErrNoSession
	}

	return m.tokens.VerifyToken(c.Request.Context(), tok)
}

// RequireSession protects /api routes.
func (m *SessionMiddleware) RequireSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := m.identify(c)
		if errors.Is(err, session.ErrNoSession) {
			id, err = m.bearerIdentify(c)
		}
		if err != nil {
			if errors.Is(err, session.ErrProviderDown) {
				c.AbortWithStatusJSON(http.StatusBadGateway, gin.H{
					"error": "Authentication service unavailable",
				})
				return
			}

			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "Unauthorized",
			})
			return
		}

		stash(c, id)
		c.Next()
	}
}

// RequirePage protects the HTML pages. Anonymous visitors land on "/",
// with a temporary redirect so the browser retries the original URL
// once they have a session.
func (m *SessionMiddleware) RequirePage() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := m.identify(c)
		if err != nil {
			if errors.Is(err, session.ErrProviderDown) {
				c.HTML(http.StatusBadGateway, "error.html", gin.H{
					"Title":   "Temporarily unavailable",
					"Message": "We could not confirm your session. Please try again in a moment.",
				})
				c.Abort()
				return
			}

			c.Redirect(http.StatusTemporaryRedirect, "/")
			c.Abort()
			return
		}

		stash(c, id)
		c.Next()
	}
}

// Stash useful bits of identity on the context
func stash(c *gin.Context, id session.Identity) {
	c.Set(ctxUIDKey, id.UID)
	c.Set(ctxEmailKey, id.Email)
	c.Set(ctxNameKey, id.Name)
}

// Optional helpers so handlers don't need to know the magic keys.

func UIDFromContext(c *gin.Context) (string, bool) {
	v, ok := c.Get(ctxUIDKey)
	if !ok {
		return "", false
	}
	id, ok := v.(string)
	return id, ok
}

func EmailFromContext(c *gin.Context) (string, bool) {
	v, ok := c.Get(ctxEmailKey)
	if !ok {
		return "", false
	}
	email, ok := v.(string)
	return email, ok
}

func NameFromContext(c *gin.Context) (string, bool) {
	v, ok := c.Get(ctxNameKey)
	if !ok {
		return "", false
	}
	name, ok := v.(string)
	return name, ok
}

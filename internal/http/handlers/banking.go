package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/arjunkh87/bizdash/internal/banking"
	"github.com/arjunkh87/bizdash/internal/config"
	"github.com/arjunkh87/bizdash/internal/domain/user"
	"github.com/arjunkh87/bizdash/internal/http/middlewares"
	"github.com/arjunkh87/bizdash/internal/observability"
)

type BankingHandler struct {
	links *banking.LinkManager
	store UserStore
	prom  *observability.Prom
}

func NewBankingHandler(links *banking.LinkManager, store UserStore, prom *observability.Prom) *BankingHandler {
	return &BankingHandler{links: links, store: store, prom: prom}
}

func (h *BankingHandler) count(outcome string) {
	if h.prom != nil {
		h.prom.BankLinksTotal.WithLabelValues(outcome).Inc()
	}
}

// LinkURL hands the dashboard a partner onboarding URL carrying a
// state token bound to the caller.
func (h *BankingHandler) LinkURL(ctx *gin.Context) {
	uid, ok := middlewares.UIDFromContext(ctx)
	if !ok || uid == "" {
		RespondUnauthorized(ctx)
		return
	}

	url, err := h.links.LinkURL(uid)
	if err != nil {
		RespondInternal(ctx, "Could not start bank linking")
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"url":      url,
		"provider": h.links.Provider(),
	})
}

// Success is where the partner redirects the browser after onboarding.
// The guard has already checked the session; the signature proves the
// account_ref really came from the partner, and the state token pins
// the flow to the login that started it.
func (h *BankingHandler) Success(ctx *gin.Context) {
	sessionUID, ok := middlewares.UIDFromContext(ctx)
	if !ok || sessionUID == "" {
		RespondUnauthorized(ctx)
		return
	}

	state := ctx.Query("state")
	accountRef := ctx.Query("account_ref")
	signature := ctx.Query("signature")

	if state == "" || accountRef == "" || signature == "" {
		h.count("bad_state")
		h.renderFailure(ctx, http.StatusBadRequest, "The link confirmation is incomplete. Please start again from the dashboard.")
		return
	}

	if err := h.links.VerifySignature(state, accountRef, signature); err != nil {
		h.count("bad_signature")
		h.renderFailure(ctx, http.StatusBadRequest, "The link confirmation could not be verified. Please start again from the dashboard.")
		return
	}

	uid, err := h.links.ConsumeState(state)
	if err != nil {
		h.count("bad_state")

		msg := "The link confirmation could not be verified. Please start again from the dashboard."
		if errors.Is(err, banking.ErrStateExpired) {
			msg = "The link session expired. Please start again from the dashboard."
		}
		h.renderFailure(ctx, http.StatusBadRequest, msg)
		return
	}

	if uid != sessionUID {
		// the state was minted for somebody else's login
		h.count("bad_state")
		h.renderFailure(ctx, http.StatusBadRequest, "The link confirmation belongs to a different login. Please start again from the dashboard.")
		return
	}

	cctx, cancel := config.WithTimeout(3 * time.Second)
	defer cancel()

	acct := &user.BankAccount{
		Provider:  h.links.Provider(),
		Reference: accountRef,
		LinkedAt:  time.Now().UTC(),
	}

	if _, err := h.store.Upsert(cctx, user.Patch{ID: uid, BankAccount: acct}); err != nil {
		h.count("store_error")
		h.renderFailure(ctx, http.StatusInternalServerError, "Your bank account was approved but we could not save it. Please retry in a moment.")
		return
	}

	h.count("linked")
	ctx.HTML(http.StatusOK, "banking_success.html", gin.H{
		"Title":    "Bank account linked",
		"Provider": h.links.Provider(),
		"Masked":   maskAccountRef(accountRef),
	})
}

func (h *BankingHandler) renderFailure(ctx *gin.Context, status int, message string) {
	ctx.HTML(status, "error.html", gin.H{
		"Title":   "Bank linking failed",
		"Message": message,
	})
}

// only the tail of a partner reference is ever shown
func maskAccountRef(ref string) string {
	if len(ref) <= 4 {
		return "****"
	}
	return "****" + ref[len(ref)-4:]
}

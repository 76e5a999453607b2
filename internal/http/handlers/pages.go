package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/arjunkh87/bizdash/internal/config"
	"github.com/arjunkh87/bizdash/internal/domain/category"
	"github.com/arjunkh87/bizdash/internal/domain/user"
	"github.com/arjunkh87/bizdash/internal/http/middlewares"
)

type PagesHandler struct {
	store UserStore
}

func NewPagesHandler(store UserStore) *PagesHandler {
	return &PagesHandler{store: store}
}

// Landing is the only public page, it hosts the sign-in flow. The
// client script bounces signed-in visitors straight to the dashboard.
func (h *PagesHandler) Landing(ctx *gin.Context) {
	ctx.HTML(http.StatusOK, "landing.html", gin.H{
		"Title": "Sign in",
	})
}

func (h *PagesHandler) Dashboard(ctx *gin.Context) {
	uid, _ := middlewares.UIDFromContext(ctx)

	u, ok := h.loadProfile(ctx, uid)
	if !ok {
		return
	}

	name := u.Name
	if name == "" {
		name = u.Email
	}
	if name == "" {
		// fresh uid whose first upsert has not landed yet
		name, _ = middlewares.EmailFromContext(ctx)
	}

	categoryLabel := ""
	if c, found := category.ByID(u.CategoryID); found {
		categoryLabel = c.Label
	}

	data := gin.H{
		"Title":         "Dashboard",
		"Name":          name,
		"BusinessName":  u.BusinessName,
		"CategoryLabel": categoryLabel,
		"HasBank":       u.BankAccount != nil,
	}
	if u.BankAccount != nil {
		data["BankProvider"] = u.BankAccount.Provider
		data["BankMasked"] = maskAccountRef(u.BankAccount.Reference)
		data["BankLinkedAt"] = u.BankAccount.LinkedAt.Format("Jan 2, 2006")
	}

	ctx.HTML(http.StatusOK, "dashboard.html", data)
}

func (h *PagesHandler) Settings(ctx *gin.Context) {
	uid, _ := middlewares.UIDFromContext(ctx)

	u, ok := h.loadProfile(ctx, uid)
	if !ok {
		return
	}

	ctx.HTML(http.StatusOK, "settings.html", gin.H{
		"Title":      "Settings",
		"User":       u,
		"Categories": category.All(),
	})
}

// loadProfile fetches the caller's document. A missing document is not
// an error on pages, login may simply not have finished the first
// upsert yet.
func (h *PagesHandler) loadProfile(ctx *gin.Context, uid string) (user.User, bool) {
	cctx, cancel := config.WithTimeout(2 * time.Second)
	defer cancel()

	u, err := h.store.Get(cctx, uid)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return user.User{ID: uid}, true
		}

		ctx.HTML(http.StatusInternalServerError, "error.html", gin.H{
			"Title":   "Something went wrong",
			"Message": "We could not load your profile. Please try again in a moment.",
		})
		ctx.Abort()
		return user.User{}, false
	}

	return u, true
}

package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/arjunkh87/bizdash/internal/banking"
	"github.com/arjunkh87/bizdash/internal/config"
	"github.com/arjunkh87/bizdash/internal/http/handlers"
	"github.com/arjunkh87/bizdash/internal/http/middlewares"
	"github.com/arjunkh87/bizdash/internal/http/web"
	"github.com/arjunkh87/bizdash/internal/observability"
	"github.com/arjunkh87/bizdash/internal/session"
)

// RouterDeps carries everything the routes need. main assembles it for
// real, the integration tests assemble it with fakes.
type RouterDeps struct {
	Cfg config.Config

	Verifier session.Verifier
	Tokens   session.TokenVerifier
	Minter   session.Minter
	Revoker  session.Revoker
	Forget   handlers.CookieForgetter

	Store handlers.UserStore
	Links *banking.LinkManager

	Prom           *observability.Prom
	MetricsHandler http.Handler
	Ready          []handlers.ReadyCheck
}

func NewRouter(deps RouterDeps) *gin.Engine {
	if deps.Cfg.Env != "dev" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.SetHTMLTemplate(web.Templates())

	// middleware

	r.Use(gin.Recovery())
	r.Use(otelgin.Middleware("bizdash"))
	r.Use(middlewares.RequestID())
	r.Use(middlewares.RequestLogger())
	r.Use(middlewares.SecurityHeaders(deps.Cfg.Env))
	if len(deps.Cfg.AllowedOrigins) > 0 {
		r.Use(middlewares.CORSMiddleware(deps.Cfg.AllowedOrigins))
	}
	if deps.Prom != nil {
		r.Use(deps.Prom.GinHandleMiddleware())
	}
	r.Use(middlewares.MaxBodyBytes(64 << 10))

	// health + metrics
	h := handlers.NewHealthHandler(deps.Ready...)
	r.GET("/healthz", h.Healthz)
	r.GET("/readyz", h.Readyz)
	if deps.MetricsHandler != nil {
		r.GET("/metrics", gin.WrapH(deps.MetricsHandler))
	}

	sm := middlewares.NewSessionMiddleware(deps.Verifier, deps.Tokens)

	// wire up handlers
	sessionHandler := handlers.NewSessionHandler(deps.Minter, deps.Verifier, deps.Revoker, deps.Store, deps.Forget, deps.Cfg)
	meHandler := handlers.NewMeHandler()
	profileHandler := handlers.NewProfileHandler(deps.Store)
	categoriesHandler := handlers.NewCategoriesHandler()
	bankingHandler := handlers.NewBankingHandler(deps.Links, deps.Store, deps.Prom)
	pagesHandler := handlers.NewPagesHandler(deps.Store)

	// login is the only credential-bearing endpoint, keep a lid on it
	loginLimiter := middlewares.NewRateLimiter(20, time.Minute)

	// partner hand-offs are cheap to mint but annoying to clean up
	linkLimiter := middlewares.NewRateLimiter(10, time.Minute)

	// public api
	r.POST("/api/session/login",
		loginLimiter.RateLimiterMiddleware(middlewares.KeyByIP),
		middlewares.RequireJSON(),
		sessionHandler.Login,
	)
	r.POST("/api/session/logout", sessionHandler.Logout)
	r.GET("/api/categories", categoriesHandler.ListCategories)

	// session-gated api
	api := r.Group("/api", sm.RequireSession())
	api.GET("/me", meHandler.Me)
	api.GET("/profile", profileHandler.GetProfile)
	api.PATCH("/profile", middlewares.RequireJSON(), profileHandler.UpdateProfile)
	api.GET("/banking/link",
		linkLimiter.RateLimiterMiddleware(middlewares.KeyByUserOrIP),
		bankingHandler.LinkURL,
	)

	// pages
	r.GET("/", pagesHandler.Landing)

	pages := r.Group("", sm.RequirePage())
	pages.GET("/dashboard", pagesHandler.Dashboard)
	pages.GET("/dashboard/settings", pagesHandler.Settings)
	// the partner redirect lands here; the session cookie survives it
	// because it is SameSite=Lax, and the signed state pins the uid
	pages.GET("/banking/success", bankingHandler.Success)

	return r
}

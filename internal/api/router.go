package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/subhashbohra/acloudresume-site/internal/content"
	"github.com/subhashbohra/acloudresume-site/internal/store"
	"github.com/subhashbohra/acloudresume-site/internal/updateservice"
)

// RouterConfig carries the router's collaborators and settings.
type RouterConfig struct {
	Service     *updateservice.Service
	Library     *content.Library
	DB          *store.DB
	SiteBaseURL string
	DataRoot    string

	// AuthEnabled guards the /admin subtree with Token.
	AuthEnabled bool
	Token       string

	// SSEHandler, if non-nil, is mounted at GET /events.
	SSEHandler http.Handler
}

// NewRouter creates a chi router with all API routes mounted. Public read
// endpoints are open; only the admin subtree requires Bearer auth.
func NewRouter(cfg RouterConfig) chi.Router {
	h := NewHandler(cfg.Service, cfg.Library, cfg.DB, cfg.SiteBaseURL)
	ah := NewAssetHandler(cfg.DataRoot)

	r := chi.NewRouter()

	// Weekly updates feed.
	r.Get("/updates", h.Updates)
	r.Get("/weeks", h.Weeks)
	r.Get("/digest", h.Digest)
	r.Get("/search", h.Search)

	// Content library.
	r.Get("/posts", h.Posts)
	r.Get("/reviews", h.Reviews)
	r.Get("/tutorials", h.Tutorials)

	// Engagement.
	r.Post("/visits", h.Visit)
	r.Get("/visits", h.VisitCount)
	r.Post("/register", h.Register)
	r.Get("/auth/stats", h.AuthStats)

	// Live events.
	if cfg.SSEHandler != nil {
		r.Get("/events", cfg.SSEHandler.ServeHTTP)
	}

	// Admin subtree (auth-protected).
	r.Route("/admin", func(admin chi.Router) {
		admin.Use(AuthMiddleware(cfg.AuthEnabled, cfg.Token))
		admin.Post("/refresh", h.Refresh)
		admin.Post("/import", h.Import)
		admin.Post("/assets", ah.Upload)
	})

	return r
}

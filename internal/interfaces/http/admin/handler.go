package admin

import (
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"

	adminapp "github.com/hykleas/Review-Guard/internal/admin/application"
)

// Handler wires the owner dashboard endpoints to the application service.
type Handler struct {
	logger        *log.Logger
	dashboard     adminapp.DashboardService
	publicBaseURL string
}

// Config provides dependencies for Handler.
type Config struct {
	Logger    *log.Logger
	Dashboard adminapp.DashboardService
	// PublicBaseURL prefixes QR code URLs, e.g. https://rg.example.
	PublicBaseURL string
}

// NewHandler constructs an admin HTTP handler set.
func NewHandler(cfg Config) *Handler {
	return &Handler{
		logger:        cfg.Logger,
		dashboard:     cfg.Dashboard,
		publicBaseURL: cfg.PublicBaseURL,
	}
}

// Register mounts dashboard routes onto router. Callers must put the auth middleware in front.
func (h *Handler) Register(r chi.Router) {
	r.Get("/me", h.meHandler())
	r.Post("/profile", h.profileCreateHandler())
	r.Get("/profile", h.profileHandler())
	r.Patch("/settings", h.settingsUpdateHandler())
	r.Put("/review-link", h.reviewLinkUpdateHandler())
	r.Post("/qr/refresh", h.qrRefreshHandler())
	r.Get("/reviews", h.reviewListHandler())
	r.Delete("/reviews/{id}", h.reviewDeleteHandler())
	r.Get("/stats", h.statsHandler())
}

// routes mounts the handler behind an injected user for tests.
func (h *Handler) routes(mw func(http.Handler) http.Handler) http.Handler {
	r := chi.NewRouter()
	r.Use(mw)
	h.Register(r)
	return r
}

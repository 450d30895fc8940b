package public

import (
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"

	publicapp "github.com/hykleas/Review-Guard/internal/public/application"
)

// Handler wires the customer-facing intake endpoints to the application service.
type Handler struct {
	logger *log.Logger
	intake publicapp.IntakeService
}

// Config defines dependencies required by Handler.
type Config struct {
	Logger *log.Logger
	Intake publicapp.IntakeService
}

// NewHandler constructs a public HTTP handler set.
func NewHandler(cfg Config) *Handler {
	return &Handler{
		logger: cfg.Logger,
		intake: cfg.Intake,
	}
}

// Register mounts all public routes onto the router.
func (h *Handler) Register(r chi.Router) {
	r.Get("/r/{qrId}", h.startHandler())
	r.Route("/r/{qrId}/sessions/{sessionId}", func(r chi.Router) {
		r.Get("/", h.sessionHandler())
		r.Post("/rating", h.ratingHandler())
		r.Post("/back", h.backHandler())
		r.Post("/submit", h.submitHandler())
		r.Post("/prompt", h.promptHandler())
	})
	r.Get("/go", h.deferredRedirectHandler())
}

// routes is used by tests to exercise the handler without the full server.
func (h *Handler) routes() http.Handler {
	r := chi.NewRouter()
	h.Register(r)
	return r
}

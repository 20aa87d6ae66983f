package app

import (
	"fmt"
	"net/http"

	"reviewer-service/internal/app/middleware"
	"reviewer-service/internal/domain"
	"reviewer-service/internal/handler"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// Handlers groups everything the router mounts
type Handlers struct {
	Team   *handler.TeamHandler
	User   *handler.UserHandler
	PR     *handler.PRHandler
	Stats  *handler.StatsHandler
	Health *handler.HealthHandler
	Docs   *handler.DocsHandler
}

// NewRouter builds the HTTP routing tree. Middleware order: RequestID, RealIP,
// Logging, Recovery, so panics are logged with the request id and still show
// up in the access log as 500.
func NewRouter(log *zap.Logger, h Handlers) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Logging(log))
	r.Use(middleware.Recovery(log))

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		middleware.WriteErrorResponse(w, fmt.Errorf("%w: route %s", domain.ErrNotFound, r.URL.Path), log)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		middleware.WriteErrorResponse(w, fmt.Errorf("%w: method %s not allowed", domain.ErrInvalidArgument, r.Method), log)
	})

	r.Route("/team", func(r chi.Router) {
		r.Post("/add", h.Team.AddTeam)
		r.Get("/get", h.Team.GetTeam)
	})

	r.Route("/users", func(r chi.Router) {
		r.Post("/setIsActive", h.User.SetIsActive)
		r.Get("/getReview", h.User.GetReview)
		r.Post("/bulkDeactivate", h.User.BulkDeactivate)
	})

	r.Route("/pullRequest", func(r chi.Router) {
		r.Post("/create", h.PR.CreatePR)
		r.Post("/merge", h.PR.MergePR)
		r.Post("/reassign", h.PR.ReassignReviewer)
	})

	r.Get("/stats", h.Stats.GetStats)
	r.Get("/health", h.Health.Check)

	if h.Docs != nil {
		r.Get("/docs", h.Docs.ServeSwaggerUI)
		r.Get("/openapi.yml", h.Docs.ServeOpenAPI)
	}

	return r
}

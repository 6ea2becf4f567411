package transport

import (
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/niklvrr/issuetracker/internal/transport/handler"
	transportMiddleware "github.com/niklvrr/issuetracker/internal/transport/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

type Handlers struct {
	Issues   *handler.IssueHandler
	Labels   *handler.LabelHandler
	Comments *handler.CommentHandler
	Users    *handler.UserHandler
	Reports  *handler.ReportHandler
	Health   *handler.HealthHandler
}

func NewRouter(h Handlers, requestTimeout time.Duration, log *zap.Logger) *chi.Mux {
	router := chi.NewRouter()

	// Recovery должен быть первым для обработки паник во всех middleware
	router.Use(transportMiddleware.Recovery(log))

	// RequestID для трейсинга запросов
	router.Use(middleware.RequestID)

	router.Use(transportMiddleware.Logging(log))
	router.Use(transportMiddleware.Timeout(requestTimeout, log))
	router.Use(transportMiddleware.Metrics)

	// Эндпоинт для Prometheus метрик
	router.Handle("/metrics", promhttp.Handler())

	router.Route("/issues", func(r chi.Router) {
		r.Post("/", h.Issues.CreateIssue)
		// Статические пути объявлены рядом с /{id}, chi отдаёт им приоритет
		r.Post("/bulk-status", h.Issues.BulkUpdateStatus)
		r.Post("/import", h.Issues.ImportIssues)

		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", h.Issues.GetIssue)
			r.Patch("/", h.Issues.UpdateIssue)
			r.Put("/labels", h.Issues.ReplaceLabels)

			r.Post("/comments", h.Comments.CreateComment)
			r.Get("/comments", h.Comments.ListComments)
			r.Get("/comments/{commentID}", h.Comments.GetComment)
		})
	})

	router.Route("/labels", func(r chi.Router) {
		r.Post("/", h.Labels.CreateLabel)
		r.Get("/", h.Labels.ListLabels)
	})

	router.Route("/users", func(r chi.Router) {
		r.Post("/", h.Users.CreateUser)
		r.Get("/{id}", h.Users.GetUser)
	})

	router.Route("/reports", func(r chi.Router) {
		r.Get("/top-assignees", h.Reports.TopAssignees)
		r.Get("/average-latency", h.Reports.AverageLatency)
	})

	router.Get("/health", h.Health.HealthCheck)
	router.Get("/", h.Health.HealthCheck)
	return router
}

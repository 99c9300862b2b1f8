package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/campuskit/notify/pkg/delivery"
	"github.com/campuskit/notify/pkg/inbox"
	"github.com/campuskit/notify/pkg/logger"
	"github.com/campuskit/notify/pkg/notifier"
	"github.com/campuskit/notify/pkg/preferences"
	"github.com/campuskit/notify/pkg/scheduler"
)

// Handler serves the notification HTTP API.
type Handler struct {
	svc     *notifier.Service
	prefs   preferences.Storage
	tracker *delivery.Tracker
	inbox   inbox.Storage
	sched   *scheduler.Scheduler
	log     *slog.Logger
}

// Option configures a Handler.
type Option func(*Handler)

// WithScheduler enables the scheduled-job routes.
func WithScheduler(s *scheduler.Scheduler) Option {
	return func(h *Handler) { h.sched = s }
}

// WithLogger sets the logger. Defaults to slog.Default.
func WithLogger(log *slog.Logger) Option {
	return func(h *Handler) { h.log = log }
}

// New assembles the API handler around the delivery service and its stores.
func New(svc *notifier.Service, prefs preferences.Storage, tracker *delivery.Tracker, inboxStore inbox.Storage, opts ...Option) *Handler {
	h := &Handler{
		svc:     svc,
		prefs:   prefs,
		tracker: tracker,
		inbox:   inboxStore,
		log:     slog.Default(),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Router builds the chi router for the API.
func (h *Handler) Router() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Route("/notifications", func(r chi.Router) {
		r.Post("/", h.sendNotification)
		r.Get("/{id}/attempts", h.notificationAttempts)
		r.Get("/{id}/stats", h.notificationStats)
	})

	r.Route("/attempts/{id}", func(r chi.Router) {
		r.Post("/delivered", h.confirmDelivered)
		r.Post("/bounce", h.recordBounce)
	})

	r.Route("/users/{userID}", func(r chi.Router) {
		r.Get("/preferences", h.getPreferences)
		r.Put("/preferences", h.putPreferences)
		r.Get("/attempts", h.recipientAttempts)
		r.Route("/inbox", func(r chi.Router) {
			r.Get("/", h.listInbox)
			r.Get("/unread", h.unreadCount)
			r.Post("/read", h.markRead)
			r.Delete("/", h.deleteMessages)
		})
	})

	if h.sched != nil {
		r.Route("/jobs/{id}", func(r chi.Router) {
			r.Get("/", h.getJob)
			r.Delete("/", h.cancelJob)
		})
	}

	return r
}

func (h *Handler) logError(r *http.Request, msg string, err error) {
	h.log.LogAttrs(r.Context(), slog.LevelError, msg,
		slog.String("path", r.URL.Path),
		logger.Error(err),
	)
}

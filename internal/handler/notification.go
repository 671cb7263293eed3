package handler

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/sakif/learnhub/internal/model"
	"github.com/sakif/learnhub/internal/service"
)

type notificationResponse struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	Type      string    `json:"type"`
	EntryID   string    `json:"entryId"`
	ActorID   string    `json:"actorId"`
	Message   string    `json:"message"`
	Read      bool      `json:"read"`
	CreatedAt time.Time `json:"createdAt"`
}

type unreadCountResponse struct {
	Count int `json:"count"`
}

func toNotificationResponses(ns []model.Notification) []notificationResponse {
	out := make([]notificationResponse, 0, len(ns))
	for _, n := range ns {
		out = append(out, notificationResponse{
			ID:        n.ID,
			UserID:    n.UserID,
			Type:      string(n.Type),
			EntryID:   n.EntryID,
			ActorID:   n.ActorID,
			Message:   n.Message,
			Read:      n.Read,
			CreatedAt: n.CreatedAt,
		})
	}
	return out
}

// NotificationHandler serves a user's notification inbox at /api/notifications.
type NotificationHandler struct {
	svc    *service.NotificationService
	logger *slog.Logger
}

func NewNotificationHandler(svc *service.NotificationService, logger *slog.Logger) *NotificationHandler {
	return &NotificationHandler{svc: svc, logger: logger}
}

// Routes returns the inbox router. Every route reads or changes the inbox of
// {userId}, so guard wraps all of them.
//
//	GET   /user/{userId}?limit=          newest first
//	GET   /user/{userId}/unread-count
//	PATCH /{id}/read/user/{userId}
//	POST  /user/{userId}/read-all
func (h *NotificationHandler) Routes(guard Middleware) chi.Router {
	if guard == nil {
		guard = passthrough
	}
	r := chi.NewRouter()
	// Inline middleware runs after routing, so guard can see {userId}.
	r.Group(func(r chi.Router) {
		r.Use(guard)
		r.Get("/user/{userId}", h.HandleList)
		r.Get("/user/{userId}/unread-count", h.HandleUnreadCount)
		r.Patch("/{id}/read/user/{userId}", h.HandleMarkRead)
		r.Post("/user/{userId}/read-all", h.HandleMarkAllRead)
	})
	return r
}

func (h *NotificationHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	limit, err := queryInt(r, "limit")
	if err != nil {
		writeError(w, err)
		return
	}

	ns, err := h.svc.List(r.Context(), chi.URLParam(r, "userId"), limit)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toNotificationResponses(ns))
}

func (h *NotificationHandler) HandleUnreadCount(w http.ResponseWriter, r *http.Request) {
	n, err := h.svc.UnreadCount(r.Context(), chi.URLParam(r, "userId"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, unreadCountResponse{Count: n})
}

func (h *NotificationHandler) HandleMarkRead(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.MarkRead(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "userId")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *NotificationHandler) HandleMarkAllRead(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.MarkAllRead(r.Context(), chi.URLParam(r, "userId")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

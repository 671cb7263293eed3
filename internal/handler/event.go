package handler

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/sakif/learnhub/internal/apperror"
	"github.com/sakif/learnhub/internal/model"
	"github.com/sakif/learnhub/internal/service"
)

// eventRequest is the body of event create and update calls.
type eventRequest struct {
	Title           string `json:"title"`
	Description     string `json:"description"`
	Date            string `json:"date"`
	Location        string `json:"location"`
	Category        string `json:"category"`
	MaxParticipants int    `json:"maxParticipants"`
}

type eventResponse struct {
	ID              string   `json:"id"`
	UserID          string   `json:"userId"`
	Title           string   `json:"title"`
	Description     string   `json:"description"`
	Date            string   `json:"date"`
	Location        string   `json:"location"`
	Category        string   `json:"category"`
	MaxParticipants int      `json:"maxParticipants"`
	Participants    []string `json:"participants"`
	CreatedAt       int64    `json:"createdAt"`
	UpdatedAt       int64    `json:"updatedAt"`
}

func (req eventRequest) validate() error {
	if strings.TrimSpace(req.Title) == "" {
		return apperror.ValidationFailed("title", "title is required")
	}
	if _, err := time.Parse(model.DateLayout, strings.TrimSpace(req.Date)); err != nil {
		return apperror.ValidationFailed("date", "date must be a calendar date in YYYY-MM-DD format")
	}
	if req.MaxParticipants < 0 {
		return apperror.ValidationFailed("maxParticipants", "maxParticipants must not be negative")
	}
	return nil
}

func (req eventRequest) fields() service.EventFields {
	return service.EventFields{
		Title:           req.Title,
		Description:     req.Description,
		Date:            req.Date,
		Location:        req.Location,
		Category:        req.Category,
		MaxParticipants: req.MaxParticipants,
	}
}

func toEventResponse(e *model.Event) eventResponse {
	participants := e.Participants
	if participants == nil {
		participants = []string{}
	}
	return eventResponse{
		ID:              e.ID,
		UserID:          e.UserID,
		Title:           e.Title,
		Description:     e.Description,
		Date:            e.Date,
		Location:        e.Location,
		Category:        e.Category,
		MaxParticipants: e.MaxParticipants,
		Participants:    participants,
		CreatedAt:       e.CreatedAt,
		UpdatedAt:       e.UpdatedAt,
	}
}

func toEventResponses(events []model.Event) []eventResponse {
	out := make([]eventResponse, 0, len(events))
	for i := range events {
		out = append(out, toEventResponse(&events[i]))
	}
	return out
}

// EventHandler serves /api/events.
type EventHandler struct {
	svc    *service.EventService
	logger *slog.Logger
}

func NewEventHandler(svc *service.EventService, logger *slog.Logger) *EventHandler {
	return &EventHandler{svc: svc, logger: logger}
}

// Routes returns the event router. guard wraps every route that acts on
// behalf of the {userId} in its path; nil means no verification.
//
//	POST   /user/{userId}                   create
//	GET    /                                list
//	GET    /search?category&date&location   search
//	GET    /{id}                            get
//	GET    /user/{userId}                   owned by user
//	GET    /user/{userId}/upcoming          registered, today or later
//	PUT    /{id}/user/{userId}              update (owner)
//	DELETE /{id}/user/{userId}              delete (owner)
//	POST   /{id}/register/user/{userId}     register
func (h *EventHandler) Routes(guard Middleware) chi.Router {
	if guard == nil {
		guard = passthrough
	}
	r := chi.NewRouter()
	r.Get("/", h.HandleList)
	r.Get("/search", h.HandleSearch)
	r.Get("/{id}", h.HandleGet)
	r.Get("/user/{userId}", h.HandleListByUser)
	r.Get("/user/{userId}/upcoming", h.HandleUpcoming)

	r.Group(func(r chi.Router) {
		r.Use(guard)
		r.Post("/user/{userId}", h.HandleCreate)
		r.Put("/{id}/user/{userId}", h.HandleUpdate)
		r.Delete("/{id}/user/{userId}", h.HandleDelete)
		r.Post("/{id}/register/user/{userId}", h.HandleRegister)
	})
	return r
}

func (h *EventHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req eventRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, err)
		return
	}
	if err := req.validate(); err != nil {
		writeError(w, err)
		return
	}

	event, err := h.svc.Create(r.Context(), chi.URLParam(r, "userId"), req.fields())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toEventResponse(event))
}

func (h *EventHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	events, err := h.svc.List(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toEventResponses(events))
}

func (h *EventHandler) HandleSearch(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	events, err := h.svc.Search(r.Context(), service.EventFilter{
		Category: strings.TrimSpace(q.Get("category")),
		Date:     strings.TrimSpace(q.Get("date")),
		Location: strings.TrimSpace(q.Get("location")),
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toEventResponses(events))
}

func (h *EventHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	event, err := h.svc.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toEventResponse(event))
}

func (h *EventHandler) HandleListByUser(w http.ResponseWriter, r *http.Request) {
	events, err := h.svc.ListByUser(r.Context(), chi.URLParam(r, "userId"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toEventResponses(events))
}

func (h *EventHandler) HandleUpcoming(w http.ResponseWriter, r *http.Request) {
	events, err := h.svc.Upcoming(r.Context(), chi.URLParam(r, "userId"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toEventResponses(events))
}

func (h *EventHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	var req eventRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, err)
		return
	}
	if err := req.validate(); err != nil {
		writeError(w, err)
		return
	}

	event, err := h.svc.Update(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "userId"), req.fields())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toEventResponse(event))
}

func (h *EventHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Delete(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "userId")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *EventHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	event, err := h.svc.Register(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "userId"))
	if err != nil {
		if reason := apperror.ReasonOf(err); reason != "" {
			h.logger.Debug("registration rejected",
				slog.String("id", chi.URLParam(r, "id")),
				slog.String("userId", chi.URLParam(r, "userId")),
				slog.String("reason", reason),
			)
		}
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toEventResponse(event))
}

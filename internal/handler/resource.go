package handler

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/sakif/learnhub/internal/apperror"
	"github.com/sakif/learnhub/internal/model"
	"github.com/sakif/learnhub/internal/service"
)

type resourceRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	URL         string `json:"url"`
}

type resourceResponse struct {
	ID          string `json:"id"`
	UserID      string `json:"userId"`
	Title       string `json:"title"`
	Description string `json:"description"`
	URL         string `json:"url"`
	CreatedAt   int64  `json:"createdAt"`
	UpdatedAt   int64  `json:"updatedAt"`
}

func (req resourceRequest) validate() error {
	if strings.TrimSpace(req.Title) == "" {
		return apperror.ValidationFailed("title", "title is required")
	}
	if strings.TrimSpace(req.URL) == "" {
		return apperror.ValidationFailed("url", "url is required")
	}
	return nil
}

func (req resourceRequest) fields() service.ResourceFields {
	return service.ResourceFields{
		Title:       req.Title,
		Description: req.Description,
		URL:         req.URL,
	}
}

func toResourceResponse(res *model.Resource) resourceResponse {
	return resourceResponse{
		ID:          res.ID,
		UserID:      res.UserID,
		Title:       res.Title,
		Description: res.Description,
		URL:         res.URL,
		CreatedAt:   res.CreatedAt,
		UpdatedAt:   res.UpdatedAt,
	}
}

func toResourceResponses(resources []model.Resource) []resourceResponse {
	out := make([]resourceResponse, 0, len(resources))
	for i := range resources {
		out = append(out, toResourceResponse(&resources[i]))
	}
	return out
}

// ResourceHandler serves /api/resources.
type ResourceHandler struct {
	svc    *service.ResourceService
	logger *slog.Logger
}

func NewResourceHandler(svc *service.ResourceService, logger *slog.Logger) *ResourceHandler {
	return &ResourceHandler{svc: svc, logger: logger}
}

// Routes mirrors EventHandler.Routes without registration:
//
//	POST   /user/{userId}          create
//	GET    /                       list
//	GET    /search?title=          title substring, case-insensitive
//	GET    /{id}                   get
//	GET    /user/{userId}          owned by user
//	PUT    /{id}/user/{userId}     update (owner)
//	DELETE /{id}/user/{userId}     delete (owner)
func (h *ResourceHandler) Routes(guard Middleware) chi.Router {
	if guard == nil {
		guard = passthrough
	}
	r := chi.NewRouter()
	r.Get("/", h.HandleList)
	r.Get("/search", h.HandleSearch)
	r.Get("/{id}", h.HandleGet)
	r.Get("/user/{userId}", h.HandleListByUser)

	r.Group(func(r chi.Router) {
		r.Use(guard)
		r.Post("/user/{userId}", h.HandleCreate)
		r.Put("/{id}/user/{userId}", h.HandleUpdate)
		r.Delete("/{id}/user/{userId}", h.HandleDelete)
	})
	return r
}

func (h *ResourceHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req resourceRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, err)
		return
	}
	if err := req.validate(); err != nil {
		writeError(w, err)
		return
	}

	res, err := h.svc.Create(r.Context(), chi.URLParam(r, "userId"), req.fields())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toResourceResponse(res))
}

func (h *ResourceHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	resources, err := h.svc.List(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toResourceResponses(resources))
}

func (h *ResourceHandler) HandleSearch(w http.ResponseWriter, r *http.Request) {
	resources, err := h.svc.SearchByTitle(r.Context(), r.URL.Query().Get("title"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toResourceResponses(resources))
}

func (h *ResourceHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	res, err := h.svc.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toResourceResponse(res))
}

func (h *ResourceHandler) HandleListByUser(w http.ResponseWriter, r *http.Request) {
	resources, err := h.svc.ListByUser(r.Context(), chi.URLParam(r, "userId"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toResourceResponses(resources))
}

func (h *ResourceHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	var req resourceRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, err)
		return
	}
	if err := req.validate(); err != nil {
		writeError(w, err)
		return
	}

	res, err := h.svc.Update(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "userId"), req.fields())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toResourceResponse(res))
}

func (h *ResourceHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Delete(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "userId")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

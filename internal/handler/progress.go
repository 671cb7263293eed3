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

// === WIRE SHAPES ===

type progressRequest struct {
	UserID        string `json:"userId"`
	UserName      string `json:"userName"`
	Title         string `json:"title"`
	Description   string `json:"description"`
	TemplateType  string `json:"templateType"`
	Status        string `json:"status"`
	TutorialName  string `json:"tutorialName"`
	ProjectName   string `json:"projectName"`
	SkillsLearned string `json:"skillsLearned"`
	Challenges    string `json:"challenges"`
	NextSteps     string `json:"nextSteps"`
}

type commentRequest struct {
	UserID   string `json:"userId"`
	UserName string `json:"userName"`
	Content  string `json:"content"`
}

type likeRequest struct {
	UserID string `json:"userId"`
}

type progressResponse struct {
	ID            string            `json:"id"`
	UserID        string            `json:"userId"`
	UserName      string            `json:"userName"`
	Title         string            `json:"title"`
	Description   string            `json:"description"`
	TemplateType  string            `json:"templateType"`
	Status        string            `json:"status"`
	TutorialName  string            `json:"tutorialName"`
	ProjectName   string            `json:"projectName"`
	SkillsLearned string            `json:"skillsLearned"`
	Challenges    string            `json:"challenges"`
	NextSteps     string            `json:"nextSteps"`
	CreatedAt     time.Time         `json:"createdAt"`
	UpdatedAt     time.Time         `json:"updatedAt"`
	Likes         []likeResponse    `json:"likes"`
	Comments      []commentResponse `json:"comments"`
}

type likeResponse struct {
	UserID    string    `json:"userId"`
	CreatedAt time.Time `json:"createdAt"`
}

type commentResponse struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	UserName  string    `json:"userName"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (req progressRequest) fields() service.ProgressFields {
	return service.ProgressFields{
		UserID:        req.UserID,
		UserName:      req.UserName,
		Title:         req.Title,
		Description:   req.Description,
		TemplateType:  model.TemplateType(req.TemplateType),
		Status:        req.Status,
		TutorialName:  req.TutorialName,
		ProjectName:   req.ProjectName,
		SkillsLearned: req.SkillsLearned,
		Challenges:    req.Challenges,
		NextSteps:     req.NextSteps,
	}
}

func toProgressResponse(p *model.LearningProgress) progressResponse {
	likes := make([]likeResponse, 0, len(p.Likes))
	for _, l := range p.Likes {
		likes = append(likes, likeResponse{UserID: l.UserID, CreatedAt: l.CreatedAt})
	}
	comments := make([]commentResponse, 0, len(p.Comments))
	for _, c := range p.Comments {
		comments = append(comments, commentResponse{
			ID:        c.ID,
			UserID:    c.UserID,
			UserName:  c.UserName,
			Content:   c.Content,
			CreatedAt: c.CreatedAt,
			UpdatedAt: c.UpdatedAt,
		})
	}

	return progressResponse{
		ID:            p.ID,
		UserID:        p.UserID,
		UserName:      p.UserName,
		Title:         p.Title,
		Description:   p.Description,
		TemplateType:  string(p.TemplateType),
		Status:        p.Status,
		TutorialName:  p.TutorialName,
		ProjectName:   p.ProjectName,
		SkillsLearned: p.SkillsLearned,
		Challenges:    p.Challenges,
		NextSteps:     p.NextSteps,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
		Likes:         likes,
		Comments:      comments,
	}
}

func toProgressResponses(entries []model.LearningProgress) []progressResponse {
	out := make([]progressResponse, 0, len(entries))
	for i := range entries {
		out = append(out, toProgressResponse(&entries[i]))
	}
	return out
}

// === HANDLER ===

// ProgressHandler serves /api/learning-progress.
type ProgressHandler struct {
	svc    *service.ProgressService
	logger *slog.Logger
}

func NewProgressHandler(svc *service.ProgressService, logger *slog.Logger) *ProgressHandler {
	return &ProgressHandler{svc: svc, logger: logger}
}

// Routes returns the learning progress router:
//
//	POST   /                                          create
//	GET    /                                          list, newest first
//	GET    /{id}                                      get
//	GET    /user/{userId}                             owned by user
//	PUT    /{id}[?userId=]                            update
//	DELETE /{id}[?userId=]                            delete
//	POST   /{id}/comments                             add comment
//	PUT    /{id}/comments/{commentId}                 edit comment
//	DELETE /{id}/comments/{commentId}/user/{userId}   delete comment (author or owner)
//	POST   /{id}/likes                                like
//	DELETE /{id}/likes/user/{userId}                  unlike
//
// guard covers the routes with a {userId} path segment.
func (h *ProgressHandler) Routes(guard Middleware) chi.Router {
	if guard == nil {
		guard = passthrough
	}
	r := chi.NewRouter()
	r.Post("/", h.HandleCreate)
	r.Get("/", h.HandleList)
	r.Get("/{id}", h.HandleGet)
	r.Get("/user/{userId}", h.HandleListByUser)
	r.Put("/{id}", h.HandleUpdate)
	r.Delete("/{id}", h.HandleDelete)
	r.Post("/{id}/comments", h.HandleAddComment)
	r.Put("/{id}/comments/{commentId}", h.HandleUpdateComment)
	r.Post("/{id}/likes", h.HandleAddLike)

	r.Group(func(r chi.Router) {
		r.Use(guard)
		r.Delete("/{id}/comments/{commentId}/user/{userId}", h.HandleDeleteComment)
		r.Delete("/{id}/likes/user/{userId}", h.HandleRemoveLike)
	})
	return r
}

func (h *ProgressHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req progressRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, err)
		return
	}

	entry, err := h.svc.Create(r.Context(), req.fields())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toProgressResponse(entry))
}

func (h *ProgressHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	entries, err := h.svc.List(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toProgressResponses(entries))
}

func (h *ProgressHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	entry, err := h.svc.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toProgressResponse(entry))
}

func (h *ProgressHandler) HandleListByUser(w http.ResponseWriter, r *http.Request) {
	entries, err := h.svc.ListByUser(r.Context(), chi.URLParam(r, "userId"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toProgressResponses(entries))
}

// HandleUpdate accepts an optional ?userId= naming the requester; when
// present it must be the entry owner.
func (h *ProgressHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	var req progressRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, err)
		return
	}

	requester := strings.TrimSpace(r.URL.Query().Get("userId"))
	entry, err := h.svc.Update(r.Context(), chi.URLParam(r, "id"), requester, req.fields())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toProgressResponse(entry))
}

func (h *ProgressHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	requester := strings.TrimSpace(r.URL.Query().Get("userId"))
	if err := h.svc.Delete(r.Context(), chi.URLParam(r, "id"), requester); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *ProgressHandler) HandleAddComment(w http.ResponseWriter, r *http.Request) {
	var req commentRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, err)
		return
	}
	if strings.TrimSpace(req.UserID) == "" {
		writeError(w, apperror.ValidationFailed("userId", "userId is required"))
		return
	}
	if strings.TrimSpace(req.Content) == "" {
		writeError(w, apperror.ValidationFailed("content", "content is required"))
		return
	}

	entry, err := h.svc.AddComment(r.Context(), chi.URLParam(r, "id"), service.CommentInput{
		UserID:   req.UserID,
		UserName: req.UserName,
		Content:  req.Content,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toProgressResponse(entry))
}

func (h *ProgressHandler) HandleUpdateComment(w http.ResponseWriter, r *http.Request) {
	var req commentRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, err)
		return
	}

	entry, err := h.svc.UpdateComment(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "commentId"), req.Content)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toProgressResponse(entry))
}

func (h *ProgressHandler) HandleDeleteComment(w http.ResponseWriter, r *http.Request) {
	entry, err := h.svc.DeleteComment(r.Context(),
		chi.URLParam(r, "id"),
		chi.URLParam(r, "commentId"),
		chi.URLParam(r, "userId"),
	)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toProgressResponse(entry))
}

func (h *ProgressHandler) HandleAddLike(w http.ResponseWriter, r *http.Request) {
	var req likeRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, err)
		return
	}
	if strings.TrimSpace(req.UserID) == "" {
		writeError(w, apperror.ValidationFailed("userId", "userId is required"))
		return
	}

	entry, err := h.svc.AddLike(r.Context(), chi.URLParam(r, "id"), req.UserID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toProgressResponse(entry))
}

func (h *ProgressHandler) HandleRemoveLike(w http.ResponseWriter, r *http.Request) {
	entry, err := h.svc.RemoveLike(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "userId"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toProgressResponse(entry))
}

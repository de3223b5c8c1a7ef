package api

import (
	"encoding/json"
	"errors"
	"net/http"

	chi "github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/de6igz/trend-agent/internal/usecase/agent"
	"github.com/de6igz/trend-agent/internal/usecase/scheduleposts"
)

// Handler публикует операции агента по HTTP.
type Handler struct {
	agent *agent.Agent
	log   zerolog.Logger
}

// NewHandler создаёт HTTP-обработчик агента.
func NewHandler(a *agent.Agent, logger zerolog.Logger) *Handler {
	return &Handler{agent: a, log: logger}
}

// Routes собирает маршруты управления агентом.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Post("/agent/start", h.startAgent)
	r.Post("/agent/stop", h.stopAgent)
	r.Post("/agent/trigger", h.triggerRun)
	r.Get("/agent/status", h.agentStatus)
	r.Get("/agent/config", h.agentConfig)
	r.Put("/agent/config", h.updateConfig)
	r.Get("/posts", h.scheduledPosts)
	r.Get("/posts/due", h.duePosts)
	r.Post("/posts/{id}/posted", h.markPosted)
	r.Post("/posts/{id}/failed", h.markFailed)
	r.Get("/topics", h.latestTopics)
	r.Get("/statistics", h.statistics)
	return r
}

func (h *Handler) startAgent(w http.ResponseWriter, r *http.Request) {
	h.agent.Start()
	writeJSON(w, map[string]any{
		"success": true,
		"message": "агент запущен",
		"status":  h.agent.Status(),
	})
}

func (h *Handler) stopAgent(w http.ResponseWriter, r *http.Request) {
	h.agent.Stop()
	writeJSON(w, map[string]any{
		"success": true,
		"message": "агент остановлен",
		"status":  h.agent.Status(),
	})
}

func (h *Handler) triggerRun(w http.ResponseWriter, r *http.Request) {
	h.agent.TriggerRun()
	writeJSON(w, map[string]any{
		"success": true,
		"message": "цикл выполнен",
		"status":  h.agent.Status(),
	})
}

func (h *Handler) agentStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]any{
		"success": true,
		"status":  h.agent.Status(),
	})
}

func (h *Handler) agentConfig(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]any{
		"success": true,
		"config":  h.agent.Config(),
	})
}

func (h *Handler) updateConfig(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()
	var patch agent.ConfigPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	h.agent.UpdateConfig(patch)
	writeJSON(w, map[string]any{
		"success": true,
		"config":  h.agent.Config(),
	})
}

func (h *Handler) scheduledPosts(w http.ResponseWriter, r *http.Request) {
	posts := h.agent.ScheduledPosts()
	writeJSON(w, map[string]any{
		"success": true,
		"posts":   posts,
		"count":   len(posts),
	})
}

func (h *Handler) duePosts(w http.ResponseWriter, r *http.Request) {
	posts := h.agent.DuePosts()
	writeJSON(w, map[string]any{
		"success": true,
		"posts":   posts,
		"count":   len(posts),
	})
}

func (h *Handler) markPosted(w http.ResponseWriter, r *http.Request) {
	h.markPost(w, r, h.agent.MarkPosted)
}

func (h *Handler) markFailed(w http.ResponseWriter, r *http.Request) {
	h.markPost(w, r, h.agent.MarkFailed)
}

func (h *Handler) markPost(w http.ResponseWriter, r *http.Request, mark func(string) error) {
	id := chi.URLParam(r, "id")
	if err := mark(id); err != nil {
		if errors.Is(err, scheduleposts.ErrPostNotFound) {
			writeError(w, http.StatusNotFound, "post not found")
			return
		}
		h.log.Error().Err(err).Str("post_id", id).Msg("api: отметка публикации")
		writeError(w, http.StatusInternalServerError, "failed to mark post")
		return
	}
	writeJSON(w, map[string]any{"success": true})
}

func (h *Handler) latestTopics(w http.ResponseWriter, r *http.Request) {
	topics := h.agent.LatestTopics(r.Context())
	writeJSON(w, map[string]any{
		"success": true,
		"topics":  topics,
		"count":   len(topics),
	})
}

func (h *Handler) statistics(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]any{
		"success":    true,
		"statistics": h.agent.Stats(),
	})
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]any{"success": false, "error": msg})
}

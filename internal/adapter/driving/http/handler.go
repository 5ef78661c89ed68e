package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/polyroom/polyroom/internal/config"
	"github.com/polyroom/polyroom/internal/core/port"
	"github.com/polyroom/polyroom/internal/core/service"
)

type Handler struct {
	Hub      *service.Hub
	Pipeline *service.Pipeline
	Engine   port.TranslationEngine
	Config   *config.Config
}

func NewHandler(hub *service.Hub, pipeline *service.Pipeline, engine port.TranslationEngine, cfg *config.Config) *Handler {
	return &Handler{
		Hub:      hub,
		Pipeline: pipeline,
		Engine:   engine,
		Config:   cfg,
	}
}

func (h *Handler) NewRouter() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Get("/health", h.Health)
	r.Get("/ws", h.ServeWS)
	r.Post("/translate", h.Translate)

	fs := http.FileServer(http.Dir("./static"))
	r.Handle("/*", fs)

	return r
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok"))
}

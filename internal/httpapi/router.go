package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"
)

// NewRouter wires the public routes. Everything except /status requires an
// API key.
func NewRouter(h *Handler) http.Handler {
	// Preflight requests are answered here and never reach requireAPIKey.
	c := cors.New(cors.Options{
		AllowedOrigins:       h.corsOrigins,
		AllowedMethods:       []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders:       []string{"Content-Type", headerAPIKey, headerRequestID},
		ExposedHeaders:       []string{headerRequestID},
		MaxAge:               300,
		OptionsSuccessStatus: http.StatusNoContent,
	})

	r := chi.NewRouter()
	r.Use(requestID, middleware.RealIP, accessLog(h.logger), middleware.Recoverer, c.Handler)

	r.Get("/status", h.Status)

	r.Group(func(r chi.Router) {
		r.Use(requireAPIKey)

		r.Post("/upload", h.Upload)
		r.Get("/result/{lesson_id}", h.Result)
		r.Get("/result/{lesson_id}/docx", h.ResultDocx)
		r.Post("/sync", h.Sync)
	})

	return r
}

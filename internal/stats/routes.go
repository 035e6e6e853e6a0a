package stats

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

func Routes(h *Handler) http.Handler {
	r := chi.NewRouter()

	r.Get("/streak", h.Streak)
	r.Get("/week", h.Week)
	r.Get("/calendar", h.Calendar)

	return r
}

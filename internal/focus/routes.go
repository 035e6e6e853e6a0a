package focus

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

func Routes(h *Handler) http.Handler {
	r := chi.NewRouter()

	r.Post("/", h.Start)
	r.Get("/", h.Active)
	r.Get("/history", h.History)
	r.Post("/check-in", h.CheckIn)
	r.Post("/complete", h.Complete)
	r.Post("/abandon", h.Abandon)

	return r
}

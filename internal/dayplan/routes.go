package dayplan

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

func Routes(h *Handler) http.Handler {
	r := chi.NewRouter()

	r.Get("/catch-up", h.PendingCatchUp)
	r.Post("/catch-up", h.CatchUp)

	r.Get("/{date}", h.GetDay)
	r.Post("/{date}/tasks", h.AddTask)
	r.Patch("/{date}/tasks/{taskId}", h.LogTaskProgress)
	r.Delete("/{date}/tasks/{taskId}", h.RemoveTask)
	r.Put("/{date}/priorities", h.SetPriorities)
	r.Post("/{date}/close", h.CloseDay)

	return r
}

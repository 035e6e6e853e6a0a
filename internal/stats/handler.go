package stats

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/stridehq/stride-lambda/internal/config"
	util "github.com/stridehq/stride-lambda/internal/utils"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrUnauthorized):
		http.Error(w, "unauthorized", http.StatusUnauthorized)
	case errors.Is(err, ErrInvalidMonth):
		http.Error(w, err.Error(), http.StatusBadRequest)
	default:
		http.Error(w, "internal server error", http.StatusInternalServerError)
	}
}

func (h *Handler) Streak(w http.ResponseWriter, r *http.Request) {
	log := config.WithContext(r.Context())

	response, err := h.service.Streak(r.Context())
	if err != nil {
		log.WithError(err).Error("Failed to compute streak")
		writeServiceError(w, err)
		return
	}

	config.JSON(w, http.StatusOK, response)
}

func (h *Handler) Week(w http.ResponseWriter, r *http.Request) {
	log := config.WithContext(r.Context())

	start, err := util.ParseLocalDate(r.URL.Query().Get("start"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	response, err := h.service.Week(r.Context(), start)
	if err != nil {
		log.WithError(err).Error("Failed to compute weekly summary")
		writeServiceError(w, err)
		return
	}

	config.JSON(w, http.StatusOK, response)
}

func (h *Handler) Calendar(w http.ResponseWriter, r *http.Request) {
	log := config.WithContext(r.Context())

	year, err := strconv.Atoi(r.URL.Query().Get("year"))
	if err != nil {
		http.Error(w, "invalid year", http.StatusBadRequest)
		return
	}
	month, err := strconv.Atoi(r.URL.Query().Get("month"))
	if err != nil {
		http.Error(w, "invalid month", http.StatusBadRequest)
		return
	}

	response, err := h.service.Calendar(r.Context(), year, month)
	if err != nil {
		log.WithError(err).Error("Failed to compute calendar")
		writeServiceError(w, err)
		return
	}

	config.JSON(w, http.StatusOK, response)
}

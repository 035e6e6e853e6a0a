package focus

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/stridehq/stride-lambda/internal/config"
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
	case errors.Is(err, ErrNoActiveSession), errors.Is(err, ErrGoalNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, ErrSessionActive):
		http.Error(w, err.Error(), http.StatusConflict)
	case errors.Is(err, ErrInvalidDuration),
		errors.Is(err, ErrInvalidCheckIn),
		errors.Is(err, ErrInvalidGrace):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, ErrCheckInTooEarly),
		errors.Is(err, ErrSessionNotElapsed):
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
	default:
		http.Error(w, "internal server error", http.StatusInternalServerError)
	}
}

func (h *Handler) Start(w http.ResponseWriter, r *http.Request) {
	log := config.WithContext(r.Context())

	var dto StartSessionDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		log.WithError(err).Error("Invalid request body")
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	response, err := h.service.Start(r.Context(), dto)
	if err != nil {
		log.WithError(err).Warn("Failed to start focus session")
		writeServiceError(w, err)
		return
	}

	config.JSON(w, http.StatusCreated, response)
}

func (h *Handler) Active(w http.ResponseWriter, r *http.Request) {
	response, err := h.service.Active(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}

	config.JSON(w, http.StatusOK, response)
}

func (h *Handler) CheckIn(w http.ResponseWriter, r *http.Request) {
	log := config.WithContext(r.Context())

	response, err := h.service.CheckIn(r.Context())
	if err != nil {
		log.WithError(err).Warn("Failed to check in")
		writeServiceError(w, err)
		return
	}

	config.JSON(w, http.StatusOK, response)
}

func (h *Handler) Complete(w http.ResponseWriter, r *http.Request) {
	log := config.WithContext(r.Context())

	response, err := h.service.Complete(r.Context())
	if err != nil {
		log.WithError(err).Warn("Failed to complete focus session")
		writeServiceError(w, err)
		return
	}

	config.JSON(w, http.StatusOK, response)
}

func (h *Handler) Abandon(w http.ResponseWriter, r *http.Request) {
	log := config.WithContext(r.Context())

	response, err := h.service.Abandon(r.Context())
	if err != nil {
		log.WithError(err).Warn("Failed to abandon focus session")
		writeServiceError(w, err)
		return
	}

	config.JSON(w, http.StatusOK, response)
}

func (h *Handler) History(w http.ResponseWriter, r *http.Request) {
	log := config.WithContext(r.Context())

	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	response, err := h.service.History(r.Context(), limit)
	if err != nil {
		log.WithError(err).Error("Failed to list focus sessions")
		writeServiceError(w, err)
		return
	}

	config.JSON(w, http.StatusOK, response)
}

package dayplan

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
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
	var catchUp *CatchUpRequiredError
	if errors.As(err, &catchUp) {
		config.JSON(w, http.StatusConflict, map[string]string{
			"error": "catch_up_required",
			"date":  catchUp.Date.String(),
		})
		return
	}

	switch {
	case errors.Is(err, ErrUnauthorized):
		http.Error(w, "unauthorized", http.StatusUnauthorized)
	case errors.Is(err, ErrDayNotFound),
		errors.Is(err, ErrTaskNotFound),
		errors.Is(err, ErrGoalNotFound),
		errors.Is(err, ErrNothingToCatchUp):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, ErrDayClosed):
		http.Error(w, err.Error(), http.StatusConflict)
	case errors.Is(err, ErrNoTasksForDay),
		errors.Is(err, ErrInvalidTriedWell),
		errors.Is(err, ErrMissingIncompleteReason),
		errors.Is(err, ErrPostponeCompletedTask):
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
	case errors.Is(err, ErrInvalidPercent),
		errors.Is(err, ErrTitleRequired):
		http.Error(w, err.Error(), http.StatusBadRequest)
	default:
		http.Error(w, "internal server error", http.StatusInternalServerError)
	}
}

func dateParam(r *http.Request) (util.LocalDate, error) {
	return util.ParseLocalDate(chi.URLParam(r, "date"))
}

func (h *Handler) GetDay(w http.ResponseWriter, r *http.Request) {
	log := config.WithContext(r.Context())

	date, err := dateParam(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	response, err := h.service.GetDay(r.Context(), date)
	if err != nil {
		if !errors.Is(err, ErrDayNotFound) {
			log.WithError(err).Error("Failed to get day plan")
		}
		writeServiceError(w, err)
		return
	}

	config.JSON(w, http.StatusOK, response)
}

func (h *Handler) AddTask(w http.ResponseWriter, r *http.Request) {
	log := config.WithContext(r.Context())

	date, err := dateParam(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	var dto AddTaskDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		log.WithError(err).Error("Invalid request body")
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	response, err := h.service.AddTask(r.Context(), date, dto)
	if err != nil {
		log.WithError(err).Warn("Failed to add task")
		writeServiceError(w, err)
		return
	}

	config.JSON(w, http.StatusCreated, response)
}

func (h *Handler) LogTaskProgress(w http.ResponseWriter, r *http.Request) {
	log := config.WithContext(r.Context())

	date, err := dateParam(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	taskID, err := uuid.Parse(chi.URLParam(r, "taskId"))
	if err != nil {
		http.Error(w, "invalid task id", http.StatusBadRequest)
		return
	}

	var dto LogProgressDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		log.WithError(err).Error("Invalid request body")
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	response, err := h.service.LogTaskProgress(r.Context(), date, taskID, dto.Percent)
	if err != nil {
		log.WithError(err).Warn("Failed to log task progress")
		writeServiceError(w, err)
		return
	}

	config.JSON(w, http.StatusOK, response)
}

func (h *Handler) RemoveTask(w http.ResponseWriter, r *http.Request) {
	log := config.WithContext(r.Context())

	date, err := dateParam(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	taskID, err := uuid.Parse(chi.URLParam(r, "taskId"))
	if err != nil {
		http.Error(w, "invalid task id", http.StatusBadRequest)
		return
	}

	response, err := h.service.RemoveTask(r.Context(), date, taskID)
	if err != nil {
		log.WithError(err).Warn("Failed to remove task")
		writeServiceError(w, err)
		return
	}

	config.JSON(w, http.StatusOK, response)
}

func (h *Handler) SetPriorities(w http.ResponseWriter, r *http.Request) {
	log := config.WithContext(r.Context())

	date, err := dateParam(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	var dto SetPrioritiesDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		log.WithError(err).Error("Invalid request body")
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	response, err := h.service.SetPriorities(r.Context(), date, dto.GoalIDs)
	if err != nil {
		log.WithError(err).Warn("Failed to set priorities")
		writeServiceError(w, err)
		return
	}

	config.JSON(w, http.StatusOK, response)
}

func (h *Handler) CloseDay(w http.ResponseWriter, r *http.Request) {
	log := config.WithContext(r.Context())

	date, err := dateParam(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	var dto CloseDayDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		log.WithError(err).Error("Invalid request body")
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	response, err := h.service.CloseDay(r.Context(), date, dto)
	if err != nil {
		log.WithError(err).Warn("Failed to close day")
		writeServiceError(w, err)
		return
	}

	config.JSON(w, http.StatusOK, response)
}

func (h *Handler) CatchUp(w http.ResponseWriter, r *http.Request) {
	log := config.WithContext(r.Context())

	var dto CloseDayDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		log.WithError(err).Error("Invalid request body")
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	response, err := h.service.CatchUp(r.Context(), dto)
	if err != nil {
		log.WithError(err).Warn("Failed to catch up")
		writeServiceError(w, err)
		return
	}

	config.JSON(w, http.StatusOK, response)
}

func (h *Handler) PendingCatchUp(w http.ResponseWriter, r *http.Request) {
	log := config.WithContext(r.Context())

	response, err := h.service.PendingCatchUp(r.Context())
	if err != nil {
		log.WithError(err).Error("Failed to check pending catch-up")
		writeServiceError(w, err)
		return
	}

	config.JSON(w, http.StatusOK, response)
}

package goal

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stridehq/stride-lambda/internal/auth"
	"github.com/stridehq/stride-lambda/internal/config"
	"github.com/stridehq/stride-lambda/internal/rollup"
)

var (
	ErrGoalNotFound     = errors.New("goal not found")
	ErrUnauthorized     = errors.New("unauthorized")
	ErrInvalidPriority  = errors.New("invalid goal priority")
	ErrInvalidStatus    = errors.New("invalid goal status")
	ErrInvalidWeight    = errors.New("daily weight must be between 1 and 100")
	ErrInvalidDateRange = errors.New("target date must not be before start date")
	ErrTitleRequired    = errors.New("title is required")
)

type Service interface {
	Create(ctx context.Context, dto CreateGoalDTO) (*GoalResponse, error)
	List(ctx context.Context) ([]GoalResponse, error)
	GetByID(ctx context.Context, id uuid.UUID) (*GoalResponse, error)
	Update(ctx context.Context, id uuid.UUID, dto UpdateGoalDTO) (*GoalResponse, error)
	Delete(ctx context.Context, id uuid.UUID) error

	// FindAllByIDs and ApplyProgressDelta exist for the day rollup: the
	// dayplan service reads weights through the former and moves
	// progress through the latter. No other write path touches progress.
	FindAllByIDs(ctx context.Context, ids []uuid.UUID) ([]Goal, error)
	ApplyProgressDelta(ctx context.Context, id uuid.UUID, delta int) (*Goal, error)
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func userIDFromContext(ctx context.Context, log logrus.FieldLogger, action string) (uuid.UUID, error) {
	claims, err := auth.GetUserClaimsFromContext(ctx)
	if err != nil {
		log.WithError(err).Warnf("Attempt to %s without authentication", action)
		return uuid.Nil, ErrUnauthorized
	}
	return uuid.MustParse(claims.UserID), nil
}

func (s *service) Create(ctx context.Context, dto CreateGoalDTO) (*GoalResponse, error) {
	log := config.WithContext(ctx)
	userID, err := userIDFromContext(ctx, log, "create goal")
	if err != nil {
		return nil, err
	}

	if dto.Title == "" {
		return nil, ErrTitleRequired
	}
	if dto.Priority == "" {
		dto.Priority = GoalPriorityMedium
	}
	if !dto.Priority.IsValid() {
		return nil, ErrInvalidPriority
	}
	if dto.DailyWeight == 0 {
		dto.DailyWeight = 5
	}
	if dto.DailyWeight < 1 || dto.DailyWeight > 100 {
		return nil, ErrInvalidWeight
	}
	if !dto.TargetDate.IsZero() && !dto.StartDate.IsZero() && dto.TargetDate.Before(dto.StartDate) {
		return nil, ErrInvalidDateRange
	}

	g := Goal{
		ID:          uuid.New(),
		UserID:      userID,
		Title:       dto.Title,
		Description: dto.Description,
		StartDate:   dto.StartDate,
		TargetDate:  dto.TargetDate,
		Priority:    dto.Priority,
		Status:      GoalStatusActive,
		Progress:    0,
		DailyWeight: dto.DailyWeight,
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
	}

	if err := s.repo.Create(&g); err != nil {
		log.WithError(err).Error("Failed to create goal")
		return nil, err
	}

	log.WithField("goal_id", g.ID).Info("Goal created")
	return toResponse(&g), nil
}

func (s *service) List(ctx context.Context) ([]GoalResponse, error) {
	log := config.WithContext(ctx)
	userID, err := userIDFromContext(ctx, log, "list goals")
	if err != nil {
		return nil, err
	}

	goals, err := s.repo.FindAllByUserID(userID)
	if err != nil {
		log.WithError(err).Error("Failed to list goals")
		return nil, err
	}

	responses := make([]GoalResponse, 0, len(goals))
	for i := range goals {
		responses = append(responses, *toResponse(&goals[i]))
	}
	return responses, nil
}

func (s *service) GetByID(ctx context.Context, id uuid.UUID) (*GoalResponse, error) {
	log := config.WithContext(ctx)
	userID, err := userIDFromContext(ctx, log, "get goal")
	if err != nil {
		return nil, err
	}

	g, err := s.repo.FindByIdAndUserId(id, userID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrGoalNotFound
		}
		log.WithError(err).Error("Failed to load goal")
		return nil, err
	}
	return toResponse(g), nil
}

func (s *service) Update(ctx context.Context, id uuid.UUID, dto UpdateGoalDTO) (*GoalResponse, error) {
	log := config.WithContext(ctx)
	userID, err := userIDFromContext(ctx, log, "update goal")
	if err != nil {
		return nil, err
	}

	g, err := s.repo.FindByIdAndUserId(id, userID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrGoalNotFound
		}
		log.WithError(err).Error("Failed to load goal for update")
		return nil, err
	}

	if dto.Title != nil {
		if *dto.Title == "" {
			return nil, ErrTitleRequired
		}
		g.Title = *dto.Title
	}
	if dto.Description != nil {
		g.Description = *dto.Description
	}
	if dto.StartDate != nil {
		g.StartDate = *dto.StartDate
	}
	if dto.TargetDate != nil {
		g.TargetDate = *dto.TargetDate
	}
	if dto.Priority != nil {
		if !dto.Priority.IsValid() {
			return nil, ErrInvalidPriority
		}
		g.Priority = *dto.Priority
	}
	if dto.Status != nil {
		if !dto.Status.IsValid() {
			return nil, ErrInvalidStatus
		}
		g.Status = *dto.Status
	}
	if dto.DailyWeight != nil {
		// A weight change affects the next credit recomputation only;
		// already-applied credit for the day is not retroactively fixed.
		if *dto.DailyWeight < 1 || *dto.DailyWeight > 100 {
			return nil, ErrInvalidWeight
		}
		g.DailyWeight = *dto.DailyWeight
	}
	if !g.TargetDate.IsZero() && !g.StartDate.IsZero() && g.TargetDate.Before(g.StartDate) {
		return nil, ErrInvalidDateRange
	}

	g.UpdatedAt = time.Now()
	if err := s.repo.Update(g); err != nil {
		log.WithError(err).Error("Failed to update goal")
		return nil, err
	}

	return toResponse(g), nil
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	log := config.WithContext(ctx)
	userID, err := userIDFromContext(ctx, log, "delete goal")
	if err != nil {
		return err
	}

	if _, err := s.repo.FindByIdAndUserId(id, userID); err != nil {
		if errors.Is(err, ErrNotFound) {
			return ErrGoalNotFound
		}
		return err
	}

	if err := s.repo.Delete(id, userID); err != nil {
		log.WithError(err).Error("Failed to delete goal")
		return err
	}

	log.WithField("goal_id", id).Info("Goal deleted")
	return nil
}

func (s *service) FindAllByIDs(ctx context.Context, ids []uuid.UUID) ([]Goal, error) {
	log := config.WithContext(ctx)
	userID, err := userIDFromContext(ctx, log, "load goals")
	if err != nil {
		return nil, err
	}
	return s.repo.FindAllByIDsAndUser(ids, userID)
}

func (s *service) ApplyProgressDelta(ctx context.Context, id uuid.UUID, delta int) (*Goal, error) {
	log := config.WithContext(ctx)
	userID, err := userIDFromContext(ctx, log, "apply progress delta")
	if err != nil {
		return nil, err
	}

	g, err := s.repo.FindByIdAndUserId(id, userID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrGoalNotFound
		}
		return nil, err
	}

	g.Progress = rollup.Clamp(g.Progress + delta)
	g.UpdatedAt = time.Now()
	if err := s.repo.Update(g); err != nil {
		log.WithError(err).Error("Failed to apply progress delta")
		return nil, err
	}

	log.WithFields(logrus.Fields{
		"goal_id":  g.ID,
		"delta":    delta,
		"progress": g.Progress,
	}).Debug("Applied progress delta")
	return g, nil
}

func toResponse(g *Goal) *GoalResponse {
	return &GoalResponse{
		ID:          g.ID,
		Title:       g.Title,
		Description: g.Description,
		StartDate:   g.StartDate,
		TargetDate:  g.TargetDate,
		Priority:    g.Priority,
		Status:      g.Status,
		Progress:    g.Progress,
		DailyWeight: g.DailyWeight,
		UserID:      g.UserID,
		CreatedAt:   g.CreatedAt,
		UpdatedAt:   g.UpdatedAt,
	}
}

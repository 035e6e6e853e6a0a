package goal

import (
	"time"

	"github.com/google/uuid"
	util "github.com/stridehq/stride-lambda/internal/utils"
)

type CreateGoalDTO struct {
	Title       string         `json:"title"`
	Description string         `json:"description"`
	StartDate   util.LocalDate `json:"start_date"`
	TargetDate  util.LocalDate `json:"target_date"`
	Priority    GoalPriority   `json:"priority"`
	DailyWeight int            `json:"daily_weight"`
}

// UpdateGoalDTO deliberately has no progress field: progress moves only
// through day rollups.
type UpdateGoalDTO struct {
	Title       *string         `json:"title"`
	Description *string         `json:"description"`
	StartDate   *util.LocalDate `json:"start_date"`
	TargetDate  *util.LocalDate `json:"target_date"`
	Priority    *GoalPriority   `json:"priority"`
	Status      *GoalStatus     `json:"status"`
	DailyWeight *int            `json:"daily_weight"`
}

type GoalResponse struct {
	ID          uuid.UUID      `json:"id"`
	Title       string         `json:"title"`
	Description string         `json:"description,omitempty"`
	StartDate   util.LocalDate `json:"start_date"`
	TargetDate  util.LocalDate `json:"target_date"`
	Priority    GoalPriority   `json:"priority"`
	Status      GoalStatus     `json:"status"`
	Progress    int            `json:"progress"`
	DailyWeight int            `json:"daily_weight"`
	UserID      uuid.UUID      `json:"user_id"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
}

package goal

import (
	"time"

	"github.com/google/uuid"
	util "github.com/stridehq/stride-lambda/internal/utils"
)

type Goal struct {
	ID          uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	UserID      uuid.UUID      `gorm:"type:uuid;not null;index" json:"user_id"`
	Title       string         `gorm:"type:text;not null" json:"title"`
	Description string         `gorm:"type:text" json:"description,omitempty"`
	StartDate   util.LocalDate `gorm:"type:date" json:"start_date"`
	TargetDate  util.LocalDate `gorm:"type:date" json:"target_date"`
	Priority    GoalPriority   `gorm:"type:text;not null" json:"priority"`
	Status      GoalStatus     `gorm:"type:text;not null" json:"status"`
	// Progress is only ever written through ApplyProgressDelta with a
	// rollup credit diff; there is no direct update path.
	Progress    int       `gorm:"not null;default:0" json:"progress"`
	DailyWeight int       `gorm:"not null;default:5" json:"daily_weight"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

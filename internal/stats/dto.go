package stats

import (
	"github.com/google/uuid"
	util "github.com/stridehq/stride-lambda/internal/utils"
)

type StreakResponse struct {
	CurrentStreak  int             `json:"current_streak"`
	MaxStreak      int             `json:"max_streak"`
	LastClosedDate *util.LocalDate `json:"last_closed_date,omitempty"`
}

type DaySummary struct {
	Date      util.LocalDate `json:"date"`
	Closed    bool           `json:"closed"`
	TaskCount int            `json:"task_count"`
	Average   int            `json:"average"`
}

type WeekResponse struct {
	Start       util.LocalDate    `json:"start"`
	End         util.LocalDate    `json:"end"`
	DaysClosed  int               `json:"days_closed"`
	GoalCredits map[uuid.UUID]int `json:"goal_credits"`
	Days        []DaySummary      `json:"days"`
}

type CalendarResponse struct {
	Year  int          `json:"year"`
	Month int          `json:"month"`
	Days  []DaySummary `json:"days"`
}

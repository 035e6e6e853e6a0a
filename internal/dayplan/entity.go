package dayplan

import (
	"time"

	"github.com/google/uuid"
	util "github.com/stridehq/stride-lambda/internal/utils"
	"gorm.io/datatypes"
)

// CreditMap records the progress delta last applied to each goal for a
// date. It is what makes recomputation idempotent: only the difference
// from the stored credit is ever applied again.
type CreditMap map[uuid.UUID]int

type DayPlan struct {
	ID           uuid.UUID                           `gorm:"type:uuid;primaryKey" json:"id"`
	UserID       uuid.UUID                           `gorm:"type:uuid;not null;uniqueIndex:uidx_user_day" json:"user_id"`
	Date         util.LocalDate                      `gorm:"type:date;not null;uniqueIndex:uidx_user_day" json:"date"`
	Priorities   datatypes.JSONType[[]uuid.UUID]     `gorm:"type:jsonb" json:"priorities"`
	Credits      datatypes.JSONType[CreditMap]       `gorm:"type:jsonb" json:"credits"`
	EodSubmitted bool                                `gorm:"not null;default:false" json:"eod_submitted"`
	CarriedFrom  *util.LocalDate                     `gorm:"type:date" json:"carried_from,omitempty"`
	Tasks        []PlanTask                          `gorm:"foreignKey:PlanID;constraint:OnDelete:CASCADE" json:"tasks"`
	CreatedAt    time.Time                           `json:"created_at"`
	UpdatedAt    time.Time                           `json:"updated_at"`
}

type PlanTask struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	PlanID         uuid.UUID `gorm:"type:uuid;not null;index" json:"plan_id"`
	GoalID         uuid.UUID `gorm:"type:uuid;not null;index" json:"goal_id"`
	Title          string    `gorm:"type:text;not null" json:"title"`
	How            string    `gorm:"type:text" json:"how,omitempty"`
	Percent        int       `gorm:"not null;default:0" json:"percent"`
	Postponed      bool      `gorm:"not null;default:false" json:"postponed"`
	PostponeReason string    `gorm:"type:text" json:"postpone_reason,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// Reflection is the end-of-day record that closes a plan.
type Reflection struct {
	ID             uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	UserID         uuid.UUID      `gorm:"type:uuid;not null;uniqueIndex:uidx_user_reflection" json:"user_id"`
	Date           util.LocalDate `gorm:"type:date;not null;uniqueIndex:uidx_user_reflection" json:"date"`
	Learned        string         `gorm:"type:text" json:"learned,omitempty"`
	Improve        string         `gorm:"type:text" json:"improve,omitempty"`
	TriedWell      TriedWell      `gorm:"type:text;not null" json:"tried_well"`
	WhyNotComplete string         `gorm:"type:text" json:"why_not_complete,omitempty"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
}

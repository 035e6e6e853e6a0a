package focus

import (
	"time"

	"github.com/google/uuid"
)

// FocusSession is a timed deep-work block with periodic check-ins. A
// missed check-in wipes the accumulated count; there is no partial
// credit for showing up late.
type FocusSession struct {
	ID              uuid.UUID     `gorm:"type:uuid;primaryKey" json:"id"`
	UserID          uuid.UUID     `gorm:"type:uuid;not null;index" json:"user_id"`
	GoalID          *uuid.UUID    `gorm:"type:uuid;index" json:"goal_id,omitempty"`
	StartedAt       time.Time     `gorm:"not null" json:"started_at"`
	DurationMinutes int           `gorm:"not null" json:"duration_minutes"`
	CheckInMinutes  int           `gorm:"not null" json:"check_in_minutes"`
	GraceMinutes    int           `gorm:"not null" json:"grace_minutes"`
	LastCheckInAt   time.Time     `gorm:"not null" json:"last_check_in_at"`
	CheckIns        int           `gorm:"not null;default:0" json:"check_ins"`
	Status          SessionStatus `gorm:"type:text;not null" json:"status"`
	CreatedAt       time.Time     `json:"created_at"`
	UpdatedAt       time.Time     `json:"updated_at"`
}

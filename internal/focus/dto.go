package focus

import (
	"time"

	"github.com/google/uuid"
)

type StartSessionDTO struct {
	GoalID          *uuid.UUID `json:"goal_id,omitempty"`
	DurationMinutes int        `json:"duration_minutes"`
	CheckInMinutes  int        `json:"check_in_minutes"`
	GraceMinutes    int        `json:"grace_minutes"`
}

type SessionResponse struct {
	ID              uuid.UUID     `json:"id"`
	GoalID          *uuid.UUID    `json:"goal_id,omitempty"`
	StartedAt       time.Time     `json:"started_at"`
	DurationMinutes int           `json:"duration_minutes"`
	CheckInMinutes  int           `json:"check_in_minutes"`
	GraceMinutes    int           `json:"grace_minutes"`
	CheckIns        int           `json:"check_ins"`
	Status          SessionStatus `json:"status"`
	NextCheckInDue  *time.Time    `json:"next_check_in_due,omitempty"`
}

type CheckInResponse struct {
	Session *SessionResponse `json:"session"`
	Missed  bool             `json:"missed"`
}

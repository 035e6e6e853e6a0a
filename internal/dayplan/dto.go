package dayplan

import (
	"github.com/google/uuid"
	util "github.com/stridehq/stride-lambda/internal/utils"
)

type AddTaskDTO struct {
	GoalID  uuid.UUID `json:"goal_id"`
	Title   string    `json:"title"`
	How     string    `json:"how"`
	Percent int       `json:"percent"`
}

type LogProgressDTO struct {
	Percent int `json:"percent"`
}

type SetPrioritiesDTO struct {
	GoalIDs []uuid.UUID `json:"goal_ids"`
}

type ReflectionDTO struct {
	Learned        string    `json:"learned"`
	Improve        string    `json:"improve"`
	TriedWell      TriedWell `json:"tried_well"`
	WhyNotComplete string    `json:"why_not_complete"`
}

type PostponementDTO struct {
	TaskID uuid.UUID `json:"task_id"`
	Reason string    `json:"reason"`
}

type CloseDayDTO struct {
	Reflection    ReflectionDTO     `json:"reflection"`
	Postponements []PostponementDTO `json:"postponements"`
}

type TaskResponse struct {
	ID             uuid.UUID `json:"id"`
	GoalID         uuid.UUID `json:"goal_id"`
	Title          string    `json:"title"`
	How            string    `json:"how,omitempty"`
	Percent        int       `json:"percent"`
	Postponed      bool      `json:"postponed"`
	PostponeReason string    `json:"postpone_reason,omitempty"`
}

type ReflectionResponse struct {
	Learned        string    `json:"learned,omitempty"`
	Improve        string    `json:"improve,omitempty"`
	TriedWell      TriedWell `json:"tried_well"`
	WhyNotComplete string    `json:"why_not_complete,omitempty"`
}

type DayPlanResponse struct {
	Date         util.LocalDate      `json:"date"`
	Priorities   []uuid.UUID         `json:"priorities"`
	Tasks        []TaskResponse      `json:"tasks"`
	Credits      map[uuid.UUID]int   `json:"credits"`
	EodSubmitted bool                `json:"eod_submitted"`
	CarriedFrom  *util.LocalDate     `json:"carried_from,omitempty"`
	Reflection   *ReflectionResponse `json:"reflection,omitempty"`
}

type PendingCatchUpResponse struct {
	CatchUpRequired bool            `json:"catch_up_required"`
	Date            *util.LocalDate `json:"date,omitempty"`
}

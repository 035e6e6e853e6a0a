package dayplan

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stridehq/stride-lambda/internal/auth"
	"github.com/stridehq/stride-lambda/internal/config"
	"github.com/stridehq/stride-lambda/internal/goal"
	"github.com/stridehq/stride-lambda/internal/rollup"
	util "github.com/stridehq/stride-lambda/internal/utils"
	"gorm.io/datatypes"
)

var (
	ErrUnauthorized            = errors.New("unauthorized")
	ErrGoalNotFound            = goal.ErrGoalNotFound
	ErrDayNotFound             = errors.New("day plan not found")
	ErrTaskNotFound            = errors.New("task not found")
	ErrDayClosed               = errors.New("day is already closed")
	ErrNoTasksForDay           = errors.New("cannot close a day with no tasks")
	ErrInvalidTriedWell        = errors.New("tried_well must be YES, NO or NEUTRAL")
	ErrMissingIncompleteReason = errors.New("why_not_complete is required when any task is incomplete")
	ErrInvalidPercent          = errors.New("percent must be a multiple of 5 between 0 and 100")
	ErrTitleRequired           = errors.New("task title is required")
	ErrPostponeCompletedTask   = errors.New("cannot postpone a completed task")
	ErrNothingToCatchUp        = errors.New("no open day to catch up on")
)

// CatchUpRequiredError blocks every mutation on a date while an earlier
// day is still open. The date names the day that must be closed first.
type CatchUpRequiredError struct {
	Date util.LocalDate
}

func (e *CatchUpRequiredError) Error() string {
	return "catch-up required for " + e.Date.String()
}

type Service interface {
	GetDay(ctx context.Context, date util.LocalDate) (*DayPlanResponse, error)
	AddTask(ctx context.Context, date util.LocalDate, dto AddTaskDTO) (*DayPlanResponse, error)
	LogTaskProgress(ctx context.Context, date util.LocalDate, taskID uuid.UUID, percent int) (*DayPlanResponse, error)
	RemoveTask(ctx context.Context, date util.LocalDate, taskID uuid.UUID) (*DayPlanResponse, error)
	SetPriorities(ctx context.Context, date util.LocalDate, goalIDs []uuid.UUID) (*DayPlanResponse, error)
	CloseDay(ctx context.Context, date util.LocalDate, dto CloseDayDTO) (*DayPlanResponse, error)
	CatchUp(ctx context.Context, dto CloseDayDTO) (*DayPlanResponse, error)
	PendingCatchUp(ctx context.Context) (*PendingCatchUpResponse, error)
}

type service struct {
	repo  Repository
	goals goal.Service
	now   func() time.Time
}

func NewService(repo Repository, goals goal.Service, now func() time.Time) Service {
	if now == nil {
		now = time.Now
	}
	return &service{repo: repo, goals: goals, now: now}
}

func userIDFromContext(ctx context.Context, log logrus.FieldLogger, action string) (uuid.UUID, error) {
	claims, err := auth.GetUserClaimsFromContext(ctx)
	if err != nil {
		log.WithError(err).Warnf("Attempt to %s without authentication", action)
		return uuid.Nil, ErrUnauthorized
	}
	return uuid.MustParse(claims.UserID), nil
}

func percentValid(p int) bool {
	return p >= 0 && p <= 100 && p%5 == 0
}

// guardCatchUp enforces the catch-up precondition: no edits on a date
// while an earlier plan for the same user is still open.
func (s *service) guardCatchUp(userID uuid.UUID, date util.LocalDate) error {
	open, err := s.repo.OldestOpenBefore(userID, date)
	if err != nil {
		return err
	}
	if open != nil {
		return &CatchUpRequiredError{Date: open.Date}
	}
	return nil
}

func (s *service) ensurePlan(userID uuid.UUID, date util.LocalDate) (*DayPlan, error) {
	p, err := s.repo.FindByUserAndDate(userID, date)
	if err == nil {
		return p, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return nil, err
	}

	p = &DayPlan{
		ID:         uuid.New(),
		UserID:     userID,
		Date:       date,
		Priorities: datatypes.NewJSONType([]uuid.UUID{}),
		Credits:    datatypes.NewJSONType(CreditMap{}),
		CreatedAt:  s.now(),
		UpdatedAt:  s.now(),
	}
	if err := s.repo.CreatePlan(p); err != nil {
		return nil, err
	}
	return p, nil
}

// recompute applies the rollup to the plan's current tasks: it computes
// the next credit per goal, applies only the diff from the last-applied
// credit to each goal's progress, and stores the next credit map.
func (s *service) recompute(ctx context.Context, log logrus.FieldLogger, plan *DayPlan) error {
	previous := plan.Credits.Data()
	if previous == nil {
		previous = CreditMap{}
	}

	shares := make([]rollup.TaskShare, 0, len(plan.Tasks))
	idSet := make(map[uuid.UUID]struct{})
	for _, t := range plan.Tasks {
		shares = append(shares, rollup.TaskShare{GoalID: t.GoalID, Percent: t.Percent})
		idSet[t.GoalID] = struct{}{}
	}
	for goalID := range previous {
		idSet[goalID] = struct{}{}
	}

	ids := make([]uuid.UUID, 0, len(idSet))
	for id := range idSet {
		ids = append(ids, id)
	}

	goals, err := s.goals.FindAllByIDs(ctx, ids)
	if err != nil {
		return err
	}
	weights := make(map[uuid.UUID]int, len(goals))
	for i := range goals {
		weights[goals[i].ID] = goals[i].DailyWeight
	}

	next := rollup.NextCredits(shares, weights, previous)
	diff := rollup.CreditDiff(next, previous)

	for goalID, delta := range diff {
		if _, err := s.goals.ApplyProgressDelta(ctx, goalID, delta); err != nil {
			log.WithError(err).WithField("goal_id", goalID).Error("Failed to apply credit diff")
			return err
		}
	}

	plan.Credits = datatypes.NewJSONType(CreditMap(next))
	plan.UpdatedAt = s.now()
	return s.repo.SavePlan(plan)
}

func (s *service) GetDay(ctx context.Context, date util.LocalDate) (*DayPlanResponse, error) {
	log := config.WithContext(ctx)
	userID, err := userIDFromContext(ctx, log, "get day")
	if err != nil {
		return nil, err
	}

	plan, err := s.repo.FindByUserAndDate(userID, date)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrDayNotFound
		}
		log.WithError(err).Error("Failed to load day plan")
		return nil, err
	}

	return s.toResponse(userID, plan), nil
}

func (s *service) AddTask(ctx context.Context, date util.LocalDate, dto AddTaskDTO) (*DayPlanResponse, error) {
	log := config.WithContext(ctx)
	userID, err := userIDFromContext(ctx, log, "add task")
	if err != nil {
		return nil, err
	}

	if strings.TrimSpace(dto.Title) == "" {
		return nil, ErrTitleRequired
	}
	if !percentValid(dto.Percent) {
		return nil, ErrInvalidPercent
	}

	if err := s.guardCatchUp(userID, date); err != nil {
		return nil, err
	}

	goals, err := s.goals.FindAllByIDs(ctx, []uuid.UUID{dto.GoalID})
	if err != nil {
		return nil, err
	}
	if len(goals) == 0 {
		log.WithFields(logrus.Fields{
			"goal_id": dto.GoalID,
			"user_id": userID,
		}).Warn("Goal not found or does not belong to user")
		return nil, ErrGoalNotFound
	}

	plan, err := s.ensurePlan(userID, date)
	if err != nil {
		return nil, err
	}
	if plan.EodSubmitted {
		return nil, ErrDayClosed
	}

	task := PlanTask{
		ID:        uuid.New(),
		PlanID:    plan.ID,
		GoalID:    dto.GoalID,
		Title:     dto.Title,
		How:       dto.How,
		Percent:   dto.Percent,
		CreatedAt: s.now(),
		UpdatedAt: s.now(),
	}
	if err := s.repo.AddTask(&task); err != nil {
		log.WithError(err).Error("Failed to add task")
		return nil, err
	}
	plan.Tasks = append(plan.Tasks, task)

	if err := s.recompute(ctx, log, plan); err != nil {
		return nil, err
	}

	log.WithField("task_id", task.ID).Info("Task added to day plan")
	return s.toResponse(userID, plan), nil
}

func (s *service) LogTaskProgress(ctx context.Context, date util.LocalDate, taskID uuid.UUID, percent int) (*DayPlanResponse, error) {
	log := config.WithContext(ctx)
	userID, err := userIDFromContext(ctx, log, "log task progress")
	if err != nil {
		return nil, err
	}

	if !percentValid(percent) {
		return nil, ErrInvalidPercent
	}

	if err := s.guardCatchUp(userID, date); err != nil {
		return nil, err
	}

	plan, err := s.repo.FindByUserAndDate(userID, date)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrDayNotFound
		}
		return nil, err
	}
	if plan.EodSubmitted {
		return nil, ErrDayClosed
	}

	var task *PlanTask
	for i := range plan.Tasks {
		if plan.Tasks[i].ID == taskID {
			task = &plan.Tasks[i]
			break
		}
	}
	if task == nil {
		return nil, ErrTaskNotFound
	}

	task.Percent = percent
	task.UpdatedAt = s.now()
	if err := s.repo.UpdateTask(task); err != nil {
		log.WithError(err).Error("Failed to update task progress")
		return nil, err
	}

	if err := s.recompute(ctx, log, plan); err != nil {
		return nil, err
	}

	return s.toResponse(userID, plan), nil
}

func (s *service) RemoveTask(ctx context.Context, date util.LocalDate, taskID uuid.UUID) (*DayPlanResponse, error) {
	log := config.WithContext(ctx)
	userID, err := userIDFromContext(ctx, log, "remove task")
	if err != nil {
		return nil, err
	}

	if err := s.guardCatchUp(userID, date); err != nil {
		return nil, err
	}

	plan, err := s.repo.FindByUserAndDate(userID, date)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrDayNotFound
		}
		return nil, err
	}
	if plan.EodSubmitted {
		return nil, ErrDayClosed
	}

	found := false
	remaining := plan.Tasks[:0]
	for _, t := range plan.Tasks {
		if t.ID == taskID {
			found = true
			continue
		}
		remaining = append(remaining, t)
	}
	if !found {
		return nil, ErrTaskNotFound
	}

	if err := s.repo.DeleteTask(taskID); err != nil {
		log.WithError(err).Error("Failed to delete task")
		return nil, err
	}
	plan.Tasks = remaining

	if err := s.recompute(ctx, log, plan); err != nil {
		return nil, err
	}

	return s.toResponse(userID, plan), nil
}

func (s *service) SetPriorities(ctx context.Context, date util.LocalDate, goalIDs []uuid.UUID) (*DayPlanResponse, error) {
	log := config.WithContext(ctx)
	userID, err := userIDFromContext(ctx, log, "set priorities")
	if err != nil {
		return nil, err
	}

	if err := s.guardCatchUp(userID, date); err != nil {
		return nil, err
	}

	if len(goalIDs) > 0 {
		goals, err := s.goals.FindAllByIDs(ctx, goalIDs)
		if err != nil {
			return nil, err
		}
		if len(goals) != len(goalIDs) {
			return nil, ErrGoalNotFound
		}
	}

	plan, err := s.ensurePlan(userID, date)
	if err != nil {
		return nil, err
	}
	if plan.EodSubmitted {
		return nil, ErrDayClosed
	}

	plan.Priorities = datatypes.NewJSONType(goalIDs)
	plan.UpdatedAt = s.now()
	if err := s.repo.SavePlan(plan); err != nil {
		log.WithError(err).Error("Failed to save priorities")
		return nil, err
	}

	return s.toResponse(userID, plan), nil
}

func (s *service) CloseDay(ctx context.Context, date util.LocalDate, dto CloseDayDTO) (*DayPlanResponse, error) {
	log := config.WithContext(ctx)
	userID, err := userIDFromContext(ctx, log, "close day")
	if err != nil {
		return nil, err
	}

	// Older open days close first; the gate reports the oldest.
	if err := s.guardCatchUp(userID, date); err != nil {
		return nil, err
	}

	plan, err := s.repo.FindByUserAndDate(userID, date)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrDayNotFound
		}
		return nil, err
	}

	return s.closeDay(ctx, log, userID, plan, dto)
}

// CatchUp closes the oldest still-open day retroactively, unblocking
// edits on later dates. Same validation as a regular close.
func (s *service) CatchUp(ctx context.Context, dto CloseDayDTO) (*DayPlanResponse, error) {
	log := config.WithContext(ctx)
	userID, err := userIDFromContext(ctx, log, "catch up")
	if err != nil {
		return nil, err
	}

	today := util.DateOf(s.now())
	plan, err := s.repo.OldestOpenBefore(userID, today)
	if err != nil {
		return nil, err
	}
	if plan == nil {
		return nil, ErrNothingToCatchUp
	}

	log.WithField("date", plan.Date.String()).Info("Catching up on open day")
	return s.closeDay(ctx, log, userID, plan, dto)
}

func (s *service) PendingCatchUp(ctx context.Context) (*PendingCatchUpResponse, error) {
	log := config.WithContext(ctx)
	userID, err := userIDFromContext(ctx, log, "check catch-up")
	if err != nil {
		return nil, err
	}

	today := util.DateOf(s.now())
	plan, err := s.repo.OldestOpenBefore(userID, today)
	if err != nil {
		return nil, err
	}
	if plan == nil {
		return &PendingCatchUpResponse{CatchUpRequired: false}, nil
	}
	d := plan.Date
	return &PendingCatchUpResponse{CatchUpRequired: true, Date: &d}, nil
}

func (s *service) closeDay(ctx context.Context, log logrus.FieldLogger, userID uuid.UUID, plan *DayPlan, dto CloseDayDTO) (*DayPlanResponse, error) {
	if plan.EodSubmitted {
		return nil, ErrDayClosed
	}
	if len(plan.Tasks) == 0 {
		return nil, ErrNoTasksForDay
	}
	if !dto.Reflection.TriedWell.IsValid() {
		return nil, ErrInvalidTriedWell
	}

	anyIncomplete := false
	for _, t := range plan.Tasks {
		if t.Percent < 100 {
			anyIncomplete = true
			break
		}
	}
	if anyIncomplete && strings.TrimSpace(dto.Reflection.WhyNotComplete) == "" {
		return nil, ErrMissingIncompleteReason
	}

	// Resolve postponements against the plan before mutating anything.
	toPostpone := make([]*PlanTask, 0, len(dto.Postponements))
	reasons := make(map[uuid.UUID]string, len(dto.Postponements))
	for _, p := range dto.Postponements {
		var task *PlanTask
		for i := range plan.Tasks {
			if plan.Tasks[i].ID == p.TaskID {
				task = &plan.Tasks[i]
				break
			}
		}
		if task == nil {
			return nil, ErrTaskNotFound
		}
		if task.Percent >= 100 {
			return nil, ErrPostponeCompletedTask
		}
		toPostpone = append(toPostpone, task)
		reasons[task.ID] = p.Reason
	}

	if len(toPostpone) > 0 {
		if err := s.carryForward(userID, plan, toPostpone, reasons, log); err != nil {
			return nil, err
		}
	}

	ref := &Reflection{
		ID:             uuid.New(),
		UserID:         userID,
		Date:           plan.Date,
		Learned:        dto.Reflection.Learned,
		Improve:        dto.Reflection.Improve,
		TriedWell:      dto.Reflection.TriedWell,
		WhyNotComplete: dto.Reflection.WhyNotComplete,
		CreatedAt:      s.now(),
		UpdatedAt:      s.now(),
	}
	if err := s.repo.CreateReflection(ref); err != nil {
		log.WithError(err).Error("Failed to store reflection")
		return nil, err
	}

	plan.EodSubmitted = true
	plan.UpdatedAt = s.now()
	if err := s.repo.SavePlan(plan); err != nil {
		log.WithError(err).Error("Failed to close day plan")
		return nil, err
	}

	log.WithField("date", plan.Date.String()).Info("Day closed")
	return s.toResponse(userID, plan), nil
}

// carryForward copies postponed tasks into the next day's plan at 0%.
// The originals stay in the closed day's record; the next plan's
// carried_from marker makes a retried close a no-op for the copies.
func (s *service) carryForward(userID uuid.UUID, plan *DayPlan, tasks []*PlanTask, reasons map[uuid.UUID]string, log logrus.FieldLogger) error {
	nextDate := plan.Date.Next()
	nextPlan, err := s.ensurePlan(userID, nextDate)
	if err != nil {
		return err
	}
	// The receiving plan must still be open; a closed day never gains
	// tasks, not even carried ones.
	if nextPlan.EodSubmitted {
		return ErrDayClosed
	}

	alreadyCarried := nextPlan.CarriedFrom != nil && nextPlan.CarriedFrom.Equal(plan.Date)

	for _, t := range tasks {
		t.Postponed = true
		t.PostponeReason = reasons[t.ID]
		t.UpdatedAt = s.now()
		if err := s.repo.UpdateTask(t); err != nil {
			return err
		}

		if alreadyCarried {
			continue
		}
		carried := PlanTask{
			ID:        uuid.New(),
			PlanID:    nextPlan.ID,
			GoalID:    t.GoalID,
			Title:     t.Title,
			How:       t.How,
			Percent:   0,
			CreatedAt: s.now(),
			UpdatedAt: s.now(),
		}
		if err := s.repo.AddTask(&carried); err != nil {
			return err
		}
	}

	if !alreadyCarried {
		carried := plan.Date
		nextPlan.CarriedFrom = &carried
		nextPlan.UpdatedAt = s.now()
		if err := s.repo.SavePlan(nextPlan); err != nil {
			return err
		}
		log.WithFields(logrus.Fields{
			"from": plan.Date.String(),
			"to":   nextDate.String(),
		}).Infof("Carried %d task(s) forward", len(tasks))
	}

	return nil
}

func (s *service) toResponse(userID uuid.UUID, plan *DayPlan) *DayPlanResponse {
	tasks := make([]TaskResponse, 0, len(plan.Tasks))
	for _, t := range plan.Tasks {
		tasks = append(tasks, TaskResponse{
			ID:             t.ID,
			GoalID:         t.GoalID,
			Title:          t.Title,
			How:            t.How,
			Percent:        t.Percent,
			Postponed:      t.Postponed,
			PostponeReason: t.PostponeReason,
		})
	}

	credits := plan.Credits.Data()
	if credits == nil {
		credits = CreditMap{}
	}
	priorities := plan.Priorities.Data()
	if priorities == nil {
		priorities = []uuid.UUID{}
	}

	resp := &DayPlanResponse{
		Date:         plan.Date,
		Priorities:   priorities,
		Tasks:        tasks,
		Credits:      credits,
		EodSubmitted: plan.EodSubmitted,
		CarriedFrom:  plan.CarriedFrom,
	}

	if plan.EodSubmitted {
		if ref, err := s.repo.FindReflection(userID, plan.Date); err == nil {
			resp.Reflection = &ReflectionResponse{
				Learned:        ref.Learned,
				Improve:        ref.Improve,
				TriedWell:      ref.TriedWell,
				WhyNotComplete: ref.WhyNotComplete,
			}
		}
	}

	return resp
}

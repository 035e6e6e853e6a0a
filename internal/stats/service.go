package stats

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stridehq/stride-lambda/internal/auth"
	"github.com/stridehq/stride-lambda/internal/config"
	"github.com/stridehq/stride-lambda/internal/dayplan"
	"github.com/stridehq/stride-lambda/internal/rollup"
	util "github.com/stridehq/stride-lambda/internal/utils"
)

var (
	ErrUnauthorized = errors.New("unauthorized")
	ErrInvalidMonth = errors.New("month must be between 1 and 12")
)

// streakWindowDays bounds how far back the streak scan reaches. A year
// keeps the range query cheap and is as far as the calendar view goes.
const streakWindowDays = 365

type Service interface {
	Streak(ctx context.Context) (*StreakResponse, error)
	Week(ctx context.Context, start util.LocalDate) (*WeekResponse, error)
	Calendar(ctx context.Context, year, month int) (*CalendarResponse, error)
}

type service struct {
	plans dayplan.Repository
	now   func() time.Time
}

func NewService(plans dayplan.Repository, now func() time.Time) Service {
	if now == nil {
		now = time.Now
	}
	return &service{plans: plans, now: now}
}

func userIDFromContext(ctx context.Context, log logrus.FieldLogger, action string) (uuid.UUID, error) {
	claims, err := auth.GetUserClaimsFromContext(ctx)
	if err != nil {
		log.WithError(err).Warnf("Attempt to %s without authentication", action)
		return uuid.Nil, ErrUnauthorized
	}
	return uuid.MustParse(claims.UserID), nil
}

// Streak reports the current run of consecutive closed days and the
// longest run in the past year. The current run may end today or
// yesterday: an unclosed today does not break it.
func (s *service) Streak(ctx context.Context) (*StreakResponse, error) {
	log := config.WithContext(ctx)
	userID, err := userIDFromContext(ctx, log, "compute streak")
	if err != nil {
		return nil, err
	}

	today := util.DateOf(s.now())
	from := util.DateOf(s.now().AddDate(0, 0, -streakWindowDays))

	plans, err := s.plans.ListRange(userID, from, today)
	if err != nil {
		log.WithError(err).Error("Failed to load plans for streak")
		return nil, err
	}

	closed := make(map[string]bool, len(plans))
	var last *util.LocalDate
	for i := range plans {
		if !plans[i].EodSubmitted {
			continue
		}
		closed[plans[i].Date.String()] = true
		d := plans[i].Date
		if last == nil || last.Before(d) {
			last = &d
		}
	}

	resp := &StreakResponse{LastClosedDate: last}

	// Walk backwards from today, allowing a still-open today.
	cursor := today
	if !closed[cursor.String()] {
		cursor = cursor.Prev()
	}
	for closed[cursor.String()] {
		resp.CurrentStreak++
		cursor = cursor.Prev()
	}

	// Longest run anywhere in the window.
	run := 0
	for d := from; !today.Before(d); d = d.Next() {
		if closed[d.String()] {
			run++
			if run > resp.MaxStreak {
				resp.MaxStreak = run
			}
		} else {
			run = 0
		}
	}

	return resp, nil
}

// Week summarizes the seven days starting at start: closed-day count,
// total credit earned per goal and a per-day breakdown.
func (s *service) Week(ctx context.Context, start util.LocalDate) (*WeekResponse, error) {
	log := config.WithContext(ctx)
	userID, err := userIDFromContext(ctx, log, "compute weekly summary")
	if err != nil {
		return nil, err
	}

	end := start
	for i := 0; i < 6; i++ {
		end = end.Next()
	}

	plans, err := s.plans.ListRange(userID, start, end)
	if err != nil {
		log.WithError(err).Error("Failed to load plans for week")
		return nil, err
	}
	byDate := make(map[string]*dayplan.DayPlan, len(plans))
	for i := range plans {
		byDate[plans[i].Date.String()] = &plans[i]
	}

	resp := &WeekResponse{
		Start:       start,
		End:         end,
		GoalCredits: make(map[uuid.UUID]int),
		Days:        make([]DaySummary, 0, 7),
	}

	for d := start; !end.Before(d); d = d.Next() {
		plan := byDate[d.String()]
		resp.Days = append(resp.Days, summarize(d, plan))
		if plan == nil {
			continue
		}
		if plan.EodSubmitted {
			resp.DaysClosed++
		}
		for goalID, credit := range plan.Credits.Data() {
			resp.GoalCredits[goalID] += credit
		}
	}

	return resp, nil
}

// Calendar returns one summary per day of the given month, including
// days that have no plan at all.
func (s *service) Calendar(ctx context.Context, year, month int) (*CalendarResponse, error) {
	log := config.WithContext(ctx)
	userID, err := userIDFromContext(ctx, log, "compute calendar")
	if err != nil {
		return nil, err
	}

	if month < 1 || month > 12 {
		return nil, ErrInvalidMonth
	}

	first := util.DateOf(time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC))
	last := util.DateOf(time.Date(year, time.Month(month)+1, 1, 0, 0, 0, 0, time.UTC)).Prev()

	plans, err := s.plans.ListRange(userID, first, last)
	if err != nil {
		log.WithError(err).Error("Failed to load plans for calendar")
		return nil, err
	}
	byDate := make(map[string]*dayplan.DayPlan, len(plans))
	for i := range plans {
		byDate[plans[i].Date.String()] = &plans[i]
	}

	resp := &CalendarResponse{
		Year:  year,
		Month: month,
		Days:  make([]DaySummary, 0, 31),
	}
	for d := first; !last.Before(d); d = d.Next() {
		resp.Days = append(resp.Days, summarize(d, byDate[d.String()]))
	}

	return resp, nil
}

func summarize(date util.LocalDate, plan *dayplan.DayPlan) DaySummary {
	out := DaySummary{Date: date}
	if plan == nil {
		return out
	}

	out.Closed = plan.EodSubmitted
	out.TaskCount = len(plan.Tasks)
	if len(plan.Tasks) > 0 {
		percents := make([]int, 0, len(plan.Tasks))
		for _, t := range plan.Tasks {
			percents = append(percents, t.Percent)
		}
		out.Average = rollup.DayAverage(percents)
	}
	return out
}

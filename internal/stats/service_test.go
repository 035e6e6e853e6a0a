package stats_test

import (
	"context"
	"sort"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stridehq/stride-lambda/internal/auth"
	"github.com/stridehq/stride-lambda/internal/dayplan"
	"github.com/stridehq/stride-lambda/internal/stats"
	util "github.com/stridehq/stride-lambda/internal/utils"
	"gorm.io/datatypes"
)

// ledgerStub serves ListRange from a fixed slice; the stats service
// only reads.
type ledgerStub struct {
	plans []dayplan.DayPlan
}

func (s *ledgerStub) CreatePlan(p *dayplan.DayPlan) error { return nil }

func (s *ledgerStub) SavePlan(p *dayplan.DayPlan) error { return nil }

func (s *ledgerStub) FindByUserAndDate(userID uuid.UUID, date util.LocalDate) (*dayplan.DayPlan, error) {
	return nil, dayplan.ErrNotFound
}

func (s *ledgerStub) ListRange(userID uuid.UUID, from, to util.LocalDate) ([]dayplan.DayPlan, error) {
	var out []dayplan.DayPlan
	for _, p := range s.plans {
		if p.UserID == userID && !p.Date.Before(from) && !to.Before(p.Date) {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out, nil
}

func (s *ledgerStub) OldestOpenBefore(userID uuid.UUID, date util.LocalDate) (*dayplan.DayPlan, error) {
	return nil, nil
}

func (s *ledgerStub) AddTask(t *dayplan.PlanTask) error { return nil }

func (s *ledgerStub) UpdateTask(t *dayplan.PlanTask) error { return nil }

func (s *ledgerStub) DeleteTask(id uuid.UUID) error { return nil }

func (s *ledgerStub) CreateReflection(ref *dayplan.Reflection) error { return nil }
func (s *ledgerStub) FindReflection(userID uuid.UUID, date util.LocalDate) (*dayplan.Reflection, error) {
	return nil, dayplan.ErrNotFound
}

func mustDate(t *testing.T, s string) util.LocalDate {
	t.Helper()
	d, err := util.ParseLocalDate(s)
	require.NoError(t, err)
	return d
}

func closedPlan(userID uuid.UUID, date util.LocalDate, credits dayplan.CreditMap, percents ...int) dayplan.DayPlan {
	p := dayplan.DayPlan{
		ID:           uuid.New(),
		UserID:       userID,
		Date:         date,
		Credits:      datatypes.NewJSONType(credits),
		EodSubmitted: true,
	}
	for _, pct := range percents {
		p.Tasks = append(p.Tasks, dayplan.PlanTask{ID: uuid.New(), Percent: pct})
	}
	return p
}

func TestStreakCountsConsecutiveClosedDays(t *testing.T) {
	userID := uuid.New()
	ctx := auth.ContextWithClaims(context.Background(), &auth.UserClaims{UserID: userID.String()})
	now := func() time.Time { return time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC) }

	ledger := &ledgerStub{plans: []dayplan.DayPlan{
		// current run: 03-07 .. 03-09, today still open
		closedPlan(userID, mustDate(t, "2026-03-07"), nil),
		closedPlan(userID, mustDate(t, "2026-03-08"), nil),
		closedPlan(userID, mustDate(t, "2026-03-09"), nil),
		// older, longer run: 03-01 .. 03-04
		closedPlan(userID, mustDate(t, "2026-03-01"), nil),
		closedPlan(userID, mustDate(t, "2026-03-02"), nil),
		closedPlan(userID, mustDate(t, "2026-03-03"), nil),
		closedPlan(userID, mustDate(t, "2026-03-04"), nil),
	}}

	service := stats.NewService(ledger, now)
	resp, err := service.Streak(ctx)
	require.NoError(t, err)

	assert.Equal(t, 3, resp.CurrentStreak)
	assert.Equal(t, 4, resp.MaxStreak)
	require.NotNil(t, resp.LastClosedDate)
	assert.Equal(t, "2026-03-09", resp.LastClosedDate.String())
}

func TestStreakBrokenByOpenDay(t *testing.T) {
	userID := uuid.New()
	ctx := auth.ContextWithClaims(context.Background(), &auth.UserClaims{UserID: userID.String()})
	now := func() time.Time { return time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC) }

	open := closedPlan(userID, mustDate(t, "2026-03-09"), nil)
	open.EodSubmitted = false

	ledger := &ledgerStub{plans: []dayplan.DayPlan{
		closedPlan(userID, mustDate(t, "2026-03-07"), nil),
		closedPlan(userID, mustDate(t, "2026-03-08"), nil),
		open,
	}}

	service := stats.NewService(ledger, now)
	resp, err := service.Streak(ctx)
	require.NoError(t, err)

	// yesterday is open, so the run that ended 03-08 does not count as current
	assert.Equal(t, 0, resp.CurrentStreak)
	assert.Equal(t, 2, resp.MaxStreak)
}

func TestWeekAggregatesCredits(t *testing.T) {
	userID := uuid.New()
	ctx := auth.ContextWithClaims(context.Background(), &auth.UserClaims{UserID: userID.String()})

	goalA := uuid.New()
	goalB := uuid.New()

	ledger := &ledgerStub{plans: []dayplan.DayPlan{
		closedPlan(userID, mustDate(t, "2026-03-02"), dayplan.CreditMap{goalA: 3}, 60),
		closedPlan(userID, mustDate(t, "2026-03-04"), dayplan.CreditMap{goalA: 5, goalB: 2}, 100, 40),
	}}

	service := stats.NewService(ledger, nil)
	resp, err := service.Week(ctx, mustDate(t, "2026-03-02"))
	require.NoError(t, err)

	assert.Equal(t, "2026-03-08", resp.End.String())
	assert.Equal(t, 2, resp.DaysClosed)
	assert.Equal(t, 8, resp.GoalCredits[goalA])
	assert.Equal(t, 2, resp.GoalCredits[goalB])

	require.Len(t, resp.Days, 7)
	assert.Equal(t, 60, resp.Days[0].Average)
	assert.False(t, resp.Days[1].Closed)
	assert.Equal(t, 70, resp.Days[2].Average)
	assert.Equal(t, 2, resp.Days[2].TaskCount)
}

func TestCalendarCoversWholeMonth(t *testing.T) {
	userID := uuid.New()
	ctx := auth.ContextWithClaims(context.Background(), &auth.UserClaims{UserID: userID.String()})

	ledger := &ledgerStub{plans: []dayplan.DayPlan{
		closedPlan(userID, mustDate(t, "2026-02-14"), nil, 80),
	}}

	service := stats.NewService(ledger, nil)
	resp, err := service.Calendar(ctx, 2026, 2)
	require.NoError(t, err)

	require.Len(t, resp.Days, 28)
	assert.Equal(t, "2026-02-01", resp.Days[0].Date.String())
	assert.True(t, resp.Days[13].Closed)
	assert.Equal(t, 80, resp.Days[13].Average)
	assert.False(t, resp.Days[0].Closed)

	_, err = service.Calendar(ctx, 2026, 13)
	assert.ErrorIs(t, err, stats.ErrInvalidMonth)
}

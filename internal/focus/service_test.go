package focus_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stridehq/stride-lambda/internal/auth"
	"github.com/stridehq/stride-lambda/internal/focus"
	"github.com/stridehq/stride-lambda/internal/goal"
)

type sessionStore struct {
	sessions map[uuid.UUID]*focus.FocusSession
}

func newSessionStore() *sessionStore {
	return &sessionStore{sessions: make(map[uuid.UUID]*focus.FocusSession)}
}

func (r *sessionStore) Create(s *focus.FocusSession) error {
	stored := *s
	r.sessions[s.ID] = &stored
	return nil
}

func (r *sessionStore) Update(s *focus.FocusSession) error {
	return r.Create(s)
}

func (r *sessionStore) FindActiveByUser(userID uuid.UUID) (*focus.FocusSession, error) {
	for _, s := range r.sessions {
		if s.UserID == userID && s.Status == focus.SessionStatusActive {
			stored := *s
			return &stored, nil
		}
	}
	return nil, focus.ErrNotFound
}

func (r *sessionStore) FindAllByUser(userID uuid.UUID, limit int) ([]focus.FocusSession, error) {
	var out []focus.FocusSession
	for _, s := range r.sessions {
		if s.UserID == userID && len(out) < limit {
			out = append(out, *s)
		}
	}
	return out, nil
}

type goalStore struct {
	goals map[uuid.UUID]*goal.Goal
}

func (r *goalStore) Create(g *goal.Goal) error {
	r.goals[g.ID] = g
	return nil
}

func (r *goalStore) FindAllByUserID(userID uuid.UUID) ([]goal.Goal, error) { return nil, nil }

func (r *goalStore) FindByIdAndUserId(id, userID uuid.UUID) (*goal.Goal, error) {
	g, ok := r.goals[id]
	if !ok || g.UserID != userID {
		return nil, goal.ErrNotFound
	}
	return g, nil
}

func (r *goalStore) FindAllByIDsAndUser(ids []uuid.UUID, userID uuid.UUID) ([]goal.Goal, error) {
	var out []goal.Goal
	for _, id := range ids {
		if g, ok := r.goals[id]; ok && g.UserID == userID {
			out = append(out, *g)
		}
	}
	return out, nil
}

func (r *goalStore) Update(g *goal.Goal) error { return nil }

func (r *goalStore) Delete(id, userID uuid.UUID) error { return nil }

type clock struct {
	current time.Time
}

func (c *clock) now() time.Time { return c.current }

func (c *clock) advance(d time.Duration) { c.current = c.current.Add(d) }

func setup() (context.Context, focus.Service, *clock, goal.Service) {
	userID := uuid.New()
	ctx := auth.ContextWithClaims(context.Background(), &auth.UserClaims{
		UserID: userID.String(),
		Role:   "user",
	})

	c := &clock{current: time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)}
	goals := goal.NewService(&goalStore{goals: make(map[uuid.UUID]*goal.Goal)})
	service := focus.NewService(newSessionStore(), goals, c.now)
	return ctx, service, c, goals
}

func TestStartValidation(t *testing.T) {
	ctx, service, _, _ := setup()

	_, err := service.Start(ctx, focus.StartSessionDTO{})
	assert.ErrorIs(t, err, focus.ErrInvalidDuration)

	_, err = service.Start(ctx, focus.StartSessionDTO{DurationMinutes: 50, GraceMinutes: -1})
	assert.ErrorIs(t, err, focus.ErrInvalidGrace)

	unknown := uuid.New()
	_, err = service.Start(ctx, focus.StartSessionDTO{DurationMinutes: 50, GoalID: &unknown})
	assert.ErrorIs(t, err, focus.ErrGoalNotFound)
}

func TestOneActiveSessionPerUser(t *testing.T) {
	ctx, service, _, _ := setup()

	resp, err := service.Start(ctx, focus.StartSessionDTO{DurationMinutes: 50})
	require.NoError(t, err)
	assert.Equal(t, focus.SessionStatusActive, resp.Status)
	assert.Equal(t, 25, resp.CheckInMinutes)
	assert.Equal(t, 5, resp.GraceMinutes)

	_, err = service.Start(ctx, focus.StartSessionDTO{DurationMinutes: 50})
	assert.ErrorIs(t, err, focus.ErrSessionActive)
}

func TestCheckInWindow(t *testing.T) {
	ctx, service, c, _ := setup()

	_, err := service.Start(ctx, focus.StartSessionDTO{
		DurationMinutes: 100,
		CheckInMinutes:  25,
		GraceMinutes:    5,
	})
	require.NoError(t, err)

	// too early
	c.advance(10 * time.Minute)
	_, err = service.CheckIn(ctx)
	assert.ErrorIs(t, err, focus.ErrCheckInTooEarly)

	// on time, within the grace window
	c.advance(17 * time.Minute)
	resp, err := service.CheckIn(ctx)
	require.NoError(t, err)
	assert.False(t, resp.Missed)
	assert.Equal(t, 1, resp.Session.CheckIns)

	// late past the grace window wipes the count
	c.advance(40 * time.Minute)
	resp, err = service.CheckIn(ctx)
	require.NoError(t, err)
	assert.True(t, resp.Missed)
	assert.Equal(t, 0, resp.Session.CheckIns)

	// the interval restarts from the late check-in
	c.advance(26 * time.Minute)
	resp, err = service.CheckIn(ctx)
	require.NoError(t, err)
	assert.False(t, resp.Missed)
	assert.Equal(t, 1, resp.Session.CheckIns)
}

func TestCompleteRequiresElapsedDuration(t *testing.T) {
	ctx, service, c, _ := setup()

	_, err := service.Start(ctx, focus.StartSessionDTO{DurationMinutes: 50})
	require.NoError(t, err)

	c.advance(30 * time.Minute)
	_, err = service.Complete(ctx)
	assert.ErrorIs(t, err, focus.ErrSessionNotElapsed)

	c.advance(20 * time.Minute)
	resp, err := service.Complete(ctx)
	require.NoError(t, err)
	assert.Equal(t, focus.SessionStatusCompleted, resp.Status)
	assert.Nil(t, resp.NextCheckInDue)

	_, err = service.Complete(ctx)
	assert.ErrorIs(t, err, focus.ErrNoActiveSession)
}

func TestAbandon(t *testing.T) {
	ctx, service, _, _ := setup()

	_, err := service.Start(ctx, focus.StartSessionDTO{DurationMinutes: 50})
	require.NoError(t, err)

	resp, err := service.Abandon(ctx)
	require.NoError(t, err)
	assert.Equal(t, focus.SessionStatusAbandoned, resp.Status)

	// a new session can start right away
	_, err = service.Start(ctx, focus.StartSessionDTO{DurationMinutes: 50})
	require.NoError(t, err)
}

package focus

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stridehq/stride-lambda/internal/auth"
	"github.com/stridehq/stride-lambda/internal/config"
	"github.com/stridehq/stride-lambda/internal/goal"
)

var (
	ErrUnauthorized      = errors.New("unauthorized")
	ErrGoalNotFound      = goal.ErrGoalNotFound
	ErrSessionActive     = errors.New("a focus session is already active")
	ErrNoActiveSession   = errors.New("no active focus session")
	ErrInvalidDuration   = errors.New("duration must be a positive number of minutes")
	ErrInvalidCheckIn    = errors.New("check-in interval must be a positive number of minutes")
	ErrInvalidGrace      = errors.New("grace period must not be negative")
	ErrCheckInTooEarly   = errors.New("check-in is not due yet")
	ErrSessionNotElapsed = errors.New("session duration has not elapsed yet")
)

const (
	defaultCheckInMinutes = 25
	defaultGraceMinutes   = 5
)

type Service interface {
	Start(ctx context.Context, dto StartSessionDTO) (*SessionResponse, error)
	Active(ctx context.Context) (*SessionResponse, error)
	CheckIn(ctx context.Context) (*CheckInResponse, error)
	Complete(ctx context.Context) (*SessionResponse, error)
	Abandon(ctx context.Context) (*SessionResponse, error)
	History(ctx context.Context, limit int) ([]SessionResponse, error)
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

func (s *service) Start(ctx context.Context, dto StartSessionDTO) (*SessionResponse, error) {
	log := config.WithContext(ctx)
	userID, err := userIDFromContext(ctx, log, "start focus session")
	if err != nil {
		return nil, err
	}

	if dto.DurationMinutes <= 0 {
		return nil, ErrInvalidDuration
	}
	if dto.CheckInMinutes == 0 {
		dto.CheckInMinutes = defaultCheckInMinutes
	}
	if dto.CheckInMinutes < 0 {
		return nil, ErrInvalidCheckIn
	}
	if dto.GraceMinutes < 0 {
		return nil, ErrInvalidGrace
	}
	if dto.GraceMinutes == 0 {
		dto.GraceMinutes = defaultGraceMinutes
	}

	if dto.GoalID != nil {
		goals, err := s.goals.FindAllByIDs(ctx, []uuid.UUID{*dto.GoalID})
		if err != nil {
			return nil, err
		}
		if len(goals) == 0 {
			return nil, ErrGoalNotFound
		}
	}

	if _, err := s.repo.FindActiveByUser(userID); err == nil {
		return nil, ErrSessionActive
	} else if !errors.Is(err, ErrNotFound) {
		return nil, err
	}

	now := s.now()
	session := FocusSession{
		ID:              uuid.New(),
		UserID:          userID,
		GoalID:          dto.GoalID,
		StartedAt:       now,
		DurationMinutes: dto.DurationMinutes,
		CheckInMinutes:  dto.CheckInMinutes,
		GraceMinutes:    dto.GraceMinutes,
		LastCheckInAt:   now,
		Status:          SessionStatusActive,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := s.repo.Create(&session); err != nil {
		log.WithError(err).Error("Failed to start focus session")
		return nil, err
	}

	log.WithField("session_id", session.ID).Info("Focus session started")
	return s.toResponse(&session), nil
}

func (s *service) Active(ctx context.Context) (*SessionResponse, error) {
	log := config.WithContext(ctx)
	userID, err := userIDFromContext(ctx, log, "get focus session")
	if err != nil {
		return nil, err
	}

	session, err := s.repo.FindActiveByUser(userID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrNoActiveSession
		}
		return nil, err
	}
	return s.toResponse(session), nil
}

// CheckIn records a periodic check-in. On time means within the grace
// window after the interval elapses. A late check-in resets the count
// to zero and restarts the interval from now.
func (s *service) CheckIn(ctx context.Context) (*CheckInResponse, error) {
	log := config.WithContext(ctx)
	userID, err := userIDFromContext(ctx, log, "check in")
	if err != nil {
		return nil, err
	}

	session, err := s.repo.FindActiveByUser(userID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrNoActiveSession
		}
		return nil, err
	}

	now := s.now()
	due := session.LastCheckInAt.Add(time.Duration(session.CheckInMinutes) * time.Minute)
	deadline := due.Add(time.Duration(session.GraceMinutes) * time.Minute)

	if now.Before(due) {
		return nil, ErrCheckInTooEarly
	}

	missed := now.After(deadline)
	if missed {
		session.CheckIns = 0
		log.WithField("session_id", session.ID).Warn("Missed check-in, count reset")
	} else {
		session.CheckIns++
	}
	session.LastCheckInAt = now
	session.UpdatedAt = now

	if err := s.repo.Update(session); err != nil {
		log.WithError(err).Error("Failed to record check-in")
		return nil, err
	}

	return &CheckInResponse{Session: s.toResponse(session), Missed: missed}, nil
}

func (s *service) Complete(ctx context.Context) (*SessionResponse, error) {
	log := config.WithContext(ctx)
	userID, err := userIDFromContext(ctx, log, "complete focus session")
	if err != nil {
		return nil, err
	}

	session, err := s.repo.FindActiveByUser(userID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrNoActiveSession
		}
		return nil, err
	}

	now := s.now()
	elapsed := now.Sub(session.StartedAt)
	if elapsed < time.Duration(session.DurationMinutes)*time.Minute {
		return nil, ErrSessionNotElapsed
	}

	session.Status = SessionStatusCompleted
	session.UpdatedAt = now
	if err := s.repo.Update(session); err != nil {
		log.WithError(err).Error("Failed to complete focus session")
		return nil, err
	}

	log.WithField("session_id", session.ID).Info("Focus session completed")
	return s.toResponse(session), nil
}

func (s *service) Abandon(ctx context.Context) (*SessionResponse, error) {
	log := config.WithContext(ctx)
	userID, err := userIDFromContext(ctx, log, "abandon focus session")
	if err != nil {
		return nil, err
	}

	session, err := s.repo.FindActiveByUser(userID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrNoActiveSession
		}
		return nil, err
	}

	session.Status = SessionStatusAbandoned
	session.UpdatedAt = s.now()
	if err := s.repo.Update(session); err != nil {
		log.WithError(err).Error("Failed to abandon focus session")
		return nil, err
	}

	log.WithField("session_id", session.ID).Info("Focus session abandoned")
	return s.toResponse(session), nil
}

func (s *service) History(ctx context.Context, limit int) ([]SessionResponse, error) {
	log := config.WithContext(ctx)
	userID, err := userIDFromContext(ctx, log, "list focus sessions")
	if err != nil {
		return nil, err
	}

	if limit <= 0 || limit > 100 {
		limit = 20
	}
	sessions, err := s.repo.FindAllByUser(userID, limit)
	if err != nil {
		log.WithError(err).Error("Failed to list focus sessions")
		return nil, err
	}

	responses := make([]SessionResponse, 0, len(sessions))
	for i := range sessions {
		responses = append(responses, *s.toResponse(&sessions[i]))
	}
	return responses, nil
}

func (s *service) toResponse(session *FocusSession) *SessionResponse {
	resp := &SessionResponse{
		ID:              session.ID,
		GoalID:          session.GoalID,
		StartedAt:       session.StartedAt,
		DurationMinutes: session.DurationMinutes,
		CheckInMinutes:  session.CheckInMinutes,
		GraceMinutes:    session.GraceMinutes,
		CheckIns:        session.CheckIns,
		Status:          session.Status,
	}
	if session.Status == SessionStatusActive {
		due := session.LastCheckInAt.Add(time.Duration(session.CheckInMinutes) * time.Minute)
		resp.NextCheckInDue = &due
	}
	return resp
}

package service

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/seyborx-dotcom/impulse-bot/internal/domain"
	"github.com/seyborx-dotcom/impulse-bot/internal/repository"
	"github.com/seyborx-dotcom/impulse-bot/pkg/database"
	apperrors "github.com/seyborx-dotcom/impulse-bot/pkg/errors"
	"github.com/seyborx-dotcom/impulse-bot/pkg/logger"
)

// CheckinService runs the admin attendance flow. Marking is an in-memory
// per-admin session; only Close touches the database, in one transaction.
type CheckinService struct {
	polls repository.PollRepository
	users repository.UserRepository
	loc   *time.Location
	log   *logger.Logger

	mu       sync.Mutex
	sessions map[int64]*domain.CheckinSession
}

// NewCheckinService creates the check-in service
func NewCheckinService(polls repository.PollRepository, users repository.UserRepository, loc *time.Location, log *logger.Logger) *CheckinService {
	return &CheckinService{
		polls:    polls,
		users:    users,
		loc:      loc,
		log:      log,
		sessions: make(map[int64]*domain.CheckinSession),
	}
}

// PickerPolls lists active polls for the event picker, events happening
// around today first.
func (s *CheckinService) PickerPolls(ctx context.Context, limit int) ([]*domain.Poll, error) {
	polls, err := s.polls.ListActive(ctx, limit)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	near := func(p *domain.Poll) bool {
		d := domain.DaysUntil(p.DateLabel, now, s.loc)
		return d >= -1 && d <= 1
	}
	sort.SliceStable(polls, func(i, j int) bool {
		return near(polls[i]) && !near(polls[j])
	})
	return polls, nil
}

// Start opens a marking session for the admin, replacing any previous one.
func (s *CheckinService) Start(adminID int64, pollID string) *domain.CheckinSession {
	s.mu.Lock()
	defer s.mu.Unlock()
	session := domain.NewCheckinSession(pollID)
	s.sessions[adminID] = session
	return session
}

// Session returns the admin's open session, nil if none.
func (s *CheckinService) Session(adminID int64) *domain.CheckinSession {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sessions[adminID]
}

// Abort drops the admin's session without settling anything.
func (s *CheckinService) Abort(adminID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, adminID)
}

// Roster returns the poll's YES voters with admin name overrides applied.
func (s *CheckinService) Roster(ctx context.Context, pollID string) ([]*domain.Vote, error) {
	var votes []*domain.Vote
	err := database.Retry(ctx, s.log.Logger, "yes_voters", func(ctx context.Context) error {
		var err error
		votes, err = s.polls.YesVoters(ctx, pollID)
		return err
	})
	if err != nil {
		return nil, err
	}

	ids := make([]int64, 0, len(votes))
	for _, v := range votes {
		ids = append(ids, v.UserID)
	}
	overrides, err := s.users.NameOverrides(ctx, ids)
	if err != nil {
		return nil, err
	}
	for _, v := range votes {
		if name, ok := overrides[v.UserID]; ok {
			v.Name = name
		}
	}
	return votes, nil
}

// Close settles the admin's session: awards points to those marked present,
// fines the no-shows, and drops the session. Settling an already closed poll
// returns the stored summary with Already set instead of charging twice.
func (s *CheckinService) Close(ctx context.Context, adminID int64) (*domain.CheckinSummary, error) {
	session := s.Session(adminID)
	if session == nil {
		return nil, apperrors.NewValidationError("no check-in session open")
	}

	summary, err := s.polls.CloseCheckin(ctx, session.PollID, adminID, session.Present)
	if err != nil {
		return nil, err
	}
	if summary == nil {
		return nil, apperrors.NewNotFoundError("poll")
	}

	s.Abort(adminID)
	s.log.WithFields(map[string]interface{}{
		"poll_id": session.PollID,
		"admin":   adminID,
		"arrived": summary.Arrived,
		"noshow":  summary.NoShow,
		"already": summary.Already,
	}).Info("check-in closed")
	return summary, nil
}

package service

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/seyborx-dotcom/impulse-bot/internal/domain"
	"github.com/seyborx-dotcom/impulse-bot/internal/telegram"
	apperrors "github.com/seyborx-dotcom/impulse-bot/pkg/errors"
	"github.com/seyborx-dotcom/impulse-bot/pkg/logger"
)

// Wizard steps, in order.
const (
	StepTopic = iota + 1
	StepContent
	StepQuestion
	StepDate
	StepConfirm
)

// Telegram albums carry at most ten photos.
const maxAlbumPhotos = 10

// Album parts arrive as separate messages; the group is considered complete
// after this much silence.
const albumSettle = 800 * time.Millisecond

type wizardSession struct {
	Step  int
	Draft domain.PollDraft

	albumGroup string
	albumTimer *time.Timer
}

// WizardService runs the admin event-creation dialog, one session per admin.
type WizardService struct {
	polls PollService
	log   *logger.Logger

	mu       sync.Mutex
	sessions map[int64]*wizardSession
}

// NewWizardService creates the creation wizard
func NewWizardService(polls PollService, log *logger.Logger) *WizardService {
	return &WizardService{
		polls:    polls,
		log:      log,
		sessions: make(map[int64]*wizardSession),
	}
}

// Start opens a fresh wizard for the admin, replacing any previous one.
func (s *WizardService) Start(adminID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.dropLocked(adminID)
	s.sessions[adminID] = &wizardSession{Step: StepTopic}
}

// Cancel throws the admin's wizard away.
func (s *WizardService) Cancel(adminID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.dropLocked(adminID)
}

func (s *WizardService) dropLocked(adminID int64) {
	if old := s.sessions[adminID]; old != nil && old.albumTimer != nil {
		old.albumTimer.Stop()
	}
	delete(s.sessions, adminID)
}

// Step reports the admin's current wizard step, 0 when no wizard is open.
func (s *WizardService) Step(adminID int64) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if session := s.sessions[adminID]; session != nil {
		return session.Step
	}
	return 0
}

// Draft returns a copy of the admin's draft.
func (s *WizardService) Draft(adminID int64) (domain.PollDraft, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if session := s.sessions[adminID]; session != nil {
		return session.Draft, true
	}
	return domain.PollDraft{}, false
}

// SetTopic records the category and advances to the content step.
func (s *WizardService) SetTopic(adminID int64, topicKey string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	session := s.sessions[adminID]
	if session == nil || session.Step != StepTopic {
		return apperrors.NewValidationError("no wizard at the topic step")
	}
	session.Draft.TopicKey = topicKey
	session.Step = StepContent
	return nil
}

// HandleContent consumes the announcement post: plain text, a single photo,
// or an album. Album parts trickle in as separate messages, so completion is
// debounced; onReady fires once the step is done (immediately for text and
// single photos).
func (s *WizardService) HandleContent(adminID int64, msg *telegram.IncomingMessage, onReady func()) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	session := s.sessions[adminID]
	if session == nil || session.Step != StepContent {
		return apperrors.NewValidationError("no wizard at the content step")
	}

	switch {
	case msg.MediaGroupID != "":
		if session.albumGroup != msg.MediaGroupID {
			session.albumGroup = msg.MediaGroupID
			session.Draft.Media = nil
		}
		if msg.PhotoFileID != "" && len(session.Draft.Media) < maxAlbumPhotos {
			session.Draft.Media = append(session.Draft.Media, msg.PhotoFileID)
		}
		if msg.Caption != "" {
			session.Draft.PostText = msg.Caption
		}
		if session.albumTimer != nil {
			session.albumTimer.Stop()
		}
		session.albumTimer = time.AfterFunc(albumSettle, func() {
			s.finishContent(adminID, msg.MediaGroupID, onReady)
		})
		return nil

	case msg.PhotoFileID != "":
		session.Draft.Media = []string{msg.PhotoFileID}
		session.Draft.PostText = msg.Caption
		session.Step = StepQuestion
		onReady()
		return nil

	case strings.TrimSpace(msg.Text) != "":
		session.Draft.Media = nil
		session.Draft.PostText = msg.Text
		session.Step = StepQuestion
		onReady()
		return nil

	default:
		return apperrors.NewValidationError("post must be text, a photo, or an album")
	}
}

func (s *WizardService) finishContent(adminID int64, groupID string, onReady func()) {
	s.mu.Lock()
	session := s.sessions[adminID]
	ok := session != nil && session.Step == StepContent && session.albumGroup == groupID
	if ok {
		session.Step = StepQuestion
		session.albumGroup = ""
		session.albumTimer = nil
	}
	s.mu.Unlock()
	if ok {
		onReady()
	}
}

// SetQuestion records the bilingual poll question. The first line is the
// Russian wording, the second the German one; anything shorter is rejected.
func (s *WizardService) SetQuestion(adminID int64, text string) error {
	lines := nonEmptyLines(text)
	if len(lines) < 2 {
		return apperrors.NewValidationError("question needs two lines, RU then DE")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	session := s.sessions[adminID]
	if session == nil || session.Step != StepQuestion {
		return apperrors.NewValidationError("no wizard at the question step")
	}
	session.Draft.QuestionRU = lines[0]
	session.Draft.QuestionDE = lines[1]
	session.Step = StepDate
	return nil
}

func nonEmptyLines(text string) []string {
	var lines []string
	for _, line := range strings.Split(text, "\n") {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			lines = append(lines, trimmed)
		}
	}
	return lines
}

// SetDate records the event date label and moves to confirmation.
func (s *WizardService) SetDate(adminID int64, text string) error {
	label := strings.TrimSpace(text)
	if label == "" {
		return apperrors.NewValidationError("date label must not be empty")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	session := s.sessions[adminID]
	if session == nil || session.Step != StepDate {
		return apperrors.NewValidationError("no wizard at the date step")
	}
	session.Draft.DateLabel = label
	session.Step = StepConfirm
	return nil
}

// Publish posts the confirmed draft to the group and closes the wizard.
func (s *WizardService) Publish(ctx context.Context, adminID int64) (*domain.Poll, error) {
	s.mu.Lock()
	session := s.sessions[adminID]
	if session == nil || session.Step != StepConfirm {
		s.mu.Unlock()
		return nil, apperrors.NewValidationError("no wizard ready to publish")
	}
	draft := session.Draft
	s.mu.Unlock()

	poll, err := s.polls.Publish(ctx, &draft, adminID)
	if err != nil {
		return nil, err
	}
	s.Cancel(adminID)
	return poll, nil
}

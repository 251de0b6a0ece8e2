package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/seyborx-dotcom/impulse-bot/internal/domain"
	"github.com/seyborx-dotcom/impulse-bot/internal/i18n"
	"github.com/seyborx-dotcom/impulse-bot/internal/repository"
	"github.com/seyborx-dotcom/impulse-bot/internal/telegram"
	"github.com/seyborx-dotcom/impulse-bot/pkg/logger"
)

// Activity levels over the trailing 30 days.
const (
	ActivityLow  = "LOW"
	ActivityMed  = "MED"
	ActivityHigh = "HIGH"
)

// LeaderboardService aggregates the points ledger into rankings and posts
// the periodic announcements into the leaderboard topic.
type LeaderboardService struct {
	ledger repository.LedgerRepository
	config repository.ConfigRepository
	topics repository.TopicRepository
	msg    telegram.Messenger
	loc    *time.Location
	log    *logger.Logger
}

// NewLeaderboardService creates the leaderboard service
func NewLeaderboardService(
	ledger repository.LedgerRepository,
	config repository.ConfigRepository,
	topics repository.TopicRepository,
	msg telegram.Messenger,
	loc *time.Location,
	log *logger.Logger,
) *LeaderboardService {
	return &LeaderboardService{ledger: ledger, config: config, topics: topics, msg: msg, loc: loc, log: log}
}

func (s *LeaderboardService) monthWindow(now time.Time) (time.Time, time.Time) {
	start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, s.loc)
	return start, start.AddDate(0, 1, 0)
}

func (s *LeaderboardService) yearWindow(now time.Time) (time.Time, time.Time) {
	start := time.Date(now.Year(), 1, 1, 0, 0, 0, 0, s.loc)
	return start, start.AddDate(1, 0, 0)
}

// TopMonth returns the current month's ranking, at most n rows.
func (s *LeaderboardService) TopMonth(ctx context.Context, n int) ([]*domain.UserTotal, error) {
	start, end := s.monthWindow(time.Now().In(s.loc))
	return s.top(ctx, start, end, n)
}

// TopYear returns the current year's ranking, at most n rows.
func (s *LeaderboardService) TopYear(ctx context.Context, n int) ([]*domain.UserTotal, error) {
	start, end := s.yearWindow(time.Now().In(s.loc))
	return s.top(ctx, start, end, n)
}

func (s *LeaderboardService) top(ctx context.Context, start, end time.Time, n int) ([]*domain.UserTotal, error) {
	totals, err := s.ledger.SumByWindow(ctx, start, end)
	if err != nil {
		return nil, err
	}
	if n > 0 && len(totals) > n {
		totals = totals[:n]
	}
	return totals, nil
}

// UserPlaceYear returns the user's rank and points for the current year.
// Rank 0 means the user has no ledger entries yet.
func (s *LeaderboardService) UserPlaceYear(ctx context.Context, userID int64) (int, int, error) {
	start, end := s.yearWindow(time.Now().In(s.loc))
	totals, err := s.ledger.SumByWindow(ctx, start, end)
	if err != nil {
		return 0, 0, err
	}
	for i, t := range totals {
		if t.UserID == userID {
			return i + 1, t.Points, nil
		}
	}
	return 0, 0, nil
}

// Activity30d grades the user's attendance over the trailing 30 days.
func (s *LeaderboardService) Activity30d(ctx context.Context, userID int64) (string, int, error) {
	since := time.Now().In(s.loc).AddDate(0, 0, -30)
	count, err := s.ledger.CountByUserSince(ctx, userID, since)
	if err != nil {
		return "", 0, err
	}
	switch {
	case count >= 5:
		return ActivityHigh, count, nil
	case count >= 2:
		return ActivityMed, count, nil
	default:
		return ActivityLow, count, nil
	}
}

func isLastDayOfMonth(now time.Time) bool {
	return now.AddDate(0, 0, 1).Day() == 1
}

// PostMonthlyTop5IfNeeded posts the month's top five to the leaderboard
// topic on the last evening of the month, once per month. force skips the
// date and dedup checks.
func (s *LeaderboardService) PostMonthlyTop5IfNeeded(ctx context.Context, force bool) error {
	now := time.Now().In(s.loc)
	key := now.Format("2006-01")

	cfg, err := s.config.Get(ctx)
	if err != nil {
		return err
	}
	if !force {
		if !isLastDayOfMonth(now) || cfg.LastMonthlyTop5 == key {
			return nil
		}
	}

	totals, err := s.TopMonth(ctx, 5)
	if err != nil {
		return err
	}

	monthRU := i18n.MonthNameRU(int(now.Month()))
	monthDE := i18n.MonthNameDE(int(now.Month()))

	var b strings.Builder
	fmt.Fprintf(&b, "🏆 <b>Топ-5 за %s / Top 5 im %s</b>\n\n", monthRU, monthDE)
	if len(totals) == 0 {
		b.WriteString("В этом месяце баллов ещё нет.\nDiesen Monat wurden noch keine Punkte vergeben.")
	} else {
		medals := []string{"🥇", "🥈", "🥉", "4.", "5."}
		for i, t := range totals {
			fmt.Fprintf(&b, "%s %s — %d\n", medals[i], escHTML(t.Name), t.Points)
		}
	}

	photo := cfg.MonthPhotoID
	if len(totals) == 0 {
		photo = cfg.MonthEmptyPhotoID
	}
	sent, err := s.announce(ctx, b.String(), photo)
	if err != nil {
		return err
	}
	if !sent {
		return nil
	}

	if err := s.config.SetLastMonthlyTop5(ctx, key); err != nil {
		return err
	}
	s.log.WithField("month", key).Info("monthly top-5 posted")
	return nil
}

// PostYearWinnerIfNeeded announces the year's winner on December 31, once
// per year. force skips the date and dedup checks.
func (s *LeaderboardService) PostYearWinnerIfNeeded(ctx context.Context, force bool) error {
	now := time.Now().In(s.loc)
	key := now.Format("2006")

	cfg, err := s.config.Get(ctx)
	if err != nil {
		return err
	}
	if !force {
		if now.Month() != time.December || now.Day() != 31 || cfg.LastYearWinner == key {
			return nil
		}
	}

	totals, err := s.TopYear(ctx, 1)
	if err != nil {
		return err
	}
	if len(totals) == 0 {
		s.log.Info("no points this year, skipping winner announcement")
		return nil
	}

	winner := totals[0]
	text := fmt.Sprintf(
		"👑 <b>Итоги года %s / Jahresergebnis %s</b>\n\n🏆 %s — %d баллов / Punkte\n\nПоздравляем! / Herzlichen Glückwunsch!",
		key, key, escHTML(winner.Name), winner.Points)

	sent, err := s.announce(ctx, text, cfg.YearPhotoID)
	if err != nil {
		return err
	}
	if !sent {
		return nil
	}

	if err := s.config.SetLastYearWinner(ctx, key); err != nil {
		return err
	}
	s.log.WithField("year", key).Info("year winner posted")
	return nil
}

// announce posts into the leaderboard topic. An unbound topic is not an
// error, the announcement is skipped and reported as not sent so the caller
// does not mark the period as posted.
func (s *LeaderboardService) announce(ctx context.Context, text, photoID string) (bool, error) {
	topic, err := s.topics.Get(ctx, domain.LeaderboardTopicKey)
	if err != nil {
		return false, err
	}
	if topic == nil {
		s.log.Debug("leaderboard topic is not bound, skipping announcement")
		return false, nil
	}

	if photoID != "" {
		_, err = s.msg.SendPhoto(ctx, topic.ChatID, topic.ThreadID, photoID, Truncate(text, CaptionLimit), nil)
	} else {
		_, err = s.msg.SendMessage(ctx, topic.ChatID, topic.ThreadID, Truncate(text, MessageLimit), nil)
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

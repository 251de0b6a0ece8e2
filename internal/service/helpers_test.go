package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/seyborx-dotcom/impulse-bot/internal/domain"
	"github.com/seyborx-dotcom/impulse-bot/internal/telegram"
	"github.com/seyborx-dotcom/impulse-bot/pkg/logger"
)

func testLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.New("error")
	require.NoError(t, err)
	return log
}

// fakeMessenger records outbound calls and replies with scripted results.
type fakeMessenger struct {
	sent        []string
	edited      []string
	sendErr     error
	editErr     error
	nextMsgID   int
	memberCount int
}

func newFakeMessenger() *fakeMessenger {
	return &fakeMessenger{nextMsgID: 100, memberCount: 50}
}

func (m *fakeMessenger) SendMessage(_ context.Context, _ int64, _ int, text string, _ telegram.Keyboard) (int, error) {
	if m.sendErr != nil {
		return 0, m.sendErr
	}
	m.sent = append(m.sent, text)
	m.nextMsgID++
	return m.nextMsgID, nil
}

func (m *fakeMessenger) SendPhoto(_ context.Context, _ int64, _ int, _ string, caption string, _ telegram.Keyboard) (int, error) {
	if m.sendErr != nil {
		return 0, m.sendErr
	}
	m.sent = append(m.sent, caption)
	m.nextMsgID++
	return m.nextMsgID, nil
}

func (m *fakeMessenger) SendAlbum(_ context.Context, _ int64, _ int, photos []telegram.Album) error {
	if m.sendErr != nil {
		return m.sendErr
	}
	for _, p := range photos {
		m.sent = append(m.sent, p.Caption)
	}
	return nil
}

func (m *fakeMessenger) EditMessage(_ context.Context, _ int64, _ int, text string, _ telegram.Keyboard) error {
	if m.editErr != nil {
		return m.editErr
	}
	m.edited = append(m.edited, text)
	return nil
}

func (m *fakeMessenger) AnswerCallback(context.Context, string, telegram.AnswerOpts) error {
	return nil
}

func (m *fakeMessenger) ChatMemberCount(context.Context, int64) (int, error) {
	return m.memberCount, nil
}

// fakeUserRepo is an in-memory UserRepository.
type fakeUserRepo struct {
	users     map[int64]*domain.User
	anchorSet []int64
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[int64]*domain.User)}
}

func (r *fakeUserRepo) Ensure(_ context.Context, u *domain.User) (*domain.User, error) {
	if existing, ok := r.users[u.ID]; ok {
		existing.FirstName = u.FirstName
		existing.LastName = u.LastName
		existing.Username = u.Username
		return existing, nil
	}
	stored := *u
	stored.Lang = domain.NormalizeLang(u.Lang)
	r.users[u.ID] = &stored
	return &stored, nil
}

func (r *fakeUserRepo) Get(_ context.Context, id int64) (*domain.User, error) {
	return r.users[id], nil
}

func (r *fakeUserRepo) SetLang(_ context.Context, id int64, lang string) error {
	if u, ok := r.users[id]; ok {
		u.Lang = lang
	}
	return nil
}

func (r *fakeUserRepo) SetDisplayName(_ context.Context, id int64, name string) error {
	if u, ok := r.users[id]; ok {
		u.DisplayName = name
	}
	return nil
}

func (r *fakeUserRepo) SetMainMessageID(_ context.Context, id int64, messageID int) error {
	r.anchorSet = append(r.anchorSet, id)
	if u, ok := r.users[id]; ok {
		u.MainMessageID = messageID
	} else {
		r.users[id] = &domain.User{ID: id, MainMessageID: messageID}
	}
	return nil
}

func (r *fakeUserRepo) NameOverrides(_ context.Context, ids []int64) (map[int64]string, error) {
	out := make(map[int64]string)
	for _, id := range ids {
		if u, ok := r.users[id]; ok && u.DisplayName != "" {
			out[id] = u.DisplayName
		}
	}
	return out, nil
}

// fakeLedgerRepo serves canned aggregation results.
type fakeLedgerRepo struct {
	totals  []*domain.UserTotal
	count   int
	entries []*domain.LedgerEntry
}

func (r *fakeLedgerRepo) Append(_ context.Context, e *domain.LedgerEntry) error {
	r.entries = append(r.entries, e)
	return nil
}

func (r *fakeLedgerRepo) AppendOnce(_ context.Context, e *domain.LedgerEntry) error {
	for _, existing := range r.entries {
		if existing.ID == e.ID {
			return nil
		}
	}
	r.entries = append(r.entries, e)
	return nil
}

func (r *fakeLedgerRepo) SumByWindow(context.Context, time.Time, time.Time) ([]*domain.UserTotal, error) {
	return r.totals, nil
}

func (r *fakeLedgerRepo) CountByUserSince(_ context.Context, userID int64, since time.Time) (int, error) {
	if len(r.entries) == 0 {
		return r.count, nil
	}
	count := 0
	for _, e := range r.entries {
		if e.UserID == userID && !e.TS.Before(since) {
			count++
		}
	}
	return count, nil
}

// fakeConfigRepo is an in-memory ConfigRepository.
type fakeConfigRepo struct {
	cfg domain.BotConfig
}

func (r *fakeConfigRepo) Get(context.Context) (*domain.BotConfig, error) {
	c := r.cfg
	return &c, nil
}

func (r *fakeConfigRepo) SetGroupChatID(_ context.Context, id int64) error {
	r.cfg.GroupChatID = id
	return nil
}

func (r *fakeConfigRepo) SetLastMonthlyTop5(_ context.Context, key string) error {
	r.cfg.LastMonthlyTop5 = key
	return nil
}

func (r *fakeConfigRepo) SetLastYearWinner(_ context.Context, key string) error {
	r.cfg.LastYearWinner = key
	return nil
}

func (r *fakeConfigRepo) SetMonthPhoto(_ context.Context, id string) error {
	r.cfg.MonthPhotoID = id
	return nil
}

func (r *fakeConfigRepo) SetMonthEmptyPhoto(_ context.Context, id string) error {
	r.cfg.MonthEmptyPhotoID = id
	return nil
}

func (r *fakeConfigRepo) SetYearPhoto(_ context.Context, id string) error {
	r.cfg.YearPhotoID = id
	return nil
}

// fakeTopicRepo is an in-memory TopicRepository.
type fakeTopicRepo struct {
	topics map[string]*domain.Topic
}

func newFakeTopicRepo() *fakeTopicRepo {
	return &fakeTopicRepo{topics: make(map[string]*domain.Topic)}
}

func (r *fakeTopicRepo) Save(_ context.Context, t *domain.Topic) error {
	r.topics[t.Key] = t
	return nil
}

func (r *fakeTopicRepo) Get(_ context.Context, key string) (*domain.Topic, error) {
	return r.topics[key], nil
}

func (r *fakeTopicRepo) List(context.Context) ([]*domain.Topic, error) {
	out := make([]*domain.Topic, 0, len(r.topics))
	for _, t := range r.topics {
		out = append(out, t)
	}
	return out, nil
}

// fakePollRepo is an in-memory PollRepository with the same settlement
// semantics as the real one.
type fakePollRepo struct {
	polls  map[string]*domain.Poll
	votes  map[string]map[int64]*domain.Vote
	ledger []*domain.LedgerEntry

	// getFail makes the next N Get calls return getErr.
	getFail int
	getErr  error
}

func newFakePollRepo() *fakePollRepo {
	return &fakePollRepo{
		polls: make(map[string]*domain.Poll),
		votes: make(map[string]map[int64]*domain.Vote),
	}
}

func (r *fakePollRepo) Create(_ context.Context, p *domain.Poll) error {
	cp := *p
	r.polls[p.ID] = &cp
	return nil
}

func (r *fakePollRepo) Get(_ context.Context, id string) (*domain.Poll, error) {
	if r.getFail > 0 {
		r.getFail--
		return nil, r.getErr
	}
	if p, ok := r.polls[id]; ok {
		cp := *p
		return &cp, nil
	}
	return nil, nil
}

func (r *fakePollRepo) SetCardMessageID(_ context.Context, id string, messageID int) error {
	if p, ok := r.polls[id]; ok {
		p.CardMessageID = messageID
	}
	return nil
}

func (r *fakePollRepo) ListActive(_ context.Context, limit int) ([]*domain.Poll, error) {
	var out []*domain.Poll
	for _, p := range r.polls {
		if p.Active && len(out) < limit {
			cp := *p
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *fakePollRepo) ListUnlockedActive(_ context.Context) ([]*domain.Poll, error) {
	var out []*domain.Poll
	for _, p := range r.polls {
		if p.Active && !p.UILocked {
			cp := *p
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *fakePollRepo) SetUILocked(_ context.Context, id string, locked bool) error {
	if p, ok := r.polls[id]; ok {
		p.UILocked = locked
	}
	return nil
}

func (r *fakePollRepo) CastVote(_ context.Context, id string, voterID int64, name string, choice domain.Choice) (*domain.Poll, error) {
	p, ok := r.polls[id]
	if !ok {
		return nil, nil
	}
	if r.votes[id] == nil {
		r.votes[id] = make(map[int64]*domain.Vote)
	}
	var old *domain.Choice
	if v, ok := r.votes[id][voterID]; ok {
		c := v.Choice
		old = &c
	}
	r.votes[id][voterID] = &domain.Vote{PollID: id, UserID: voterID, Choice: choice, Name: name}
	p.YesCount, p.NoCount = domain.AdjustCounts(p.YesCount, p.NoCount, old, choice)
	cp := *p
	return &cp, nil
}

func (r *fakePollRepo) Votes(_ context.Context, id string) ([]*domain.Vote, error) {
	var out []*domain.Vote
	for _, v := range r.votes[id] {
		cp := *v
		out = append(out, &cp)
	}
	return out, nil
}

func (r *fakePollRepo) YesVoters(_ context.Context, id string) ([]*domain.Vote, error) {
	var out []*domain.Vote
	for _, v := range r.votes[id] {
		if v.Choice == domain.ChoiceYes {
			cp := *v
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *fakePollRepo) CloseCheckin(ctx context.Context, id string, closedBy int64, present map[int64]bool) (*domain.CheckinSummary, error) {
	p, ok := r.polls[id]
	if !ok {
		return nil, nil
	}
	award := domain.PointsForCategory(p.TopicKey)
	if p.CheckinClosed {
		return &domain.CheckinSummary{
			Already: true,
			Yes:     p.CheckinYes,
			Arrived: p.CheckinHere,
			NoShow:  p.CheckinNoShow,
			Award:   award,
			Penalty: domain.NoShowPenalty,
		}, nil
	}

	yes, _ := r.YesVoters(ctx, id)
	votes := make([]domain.Vote, 0, len(yes))
	for _, v := range yes {
		votes = append(votes, *v)
	}
	arrived, noshow := domain.PartitionPresent(votes, present)
	for _, v := range arrived {
		r.ledger = append(r.ledger, &domain.LedgerEntry{
			ID: domain.CheckinEntryID(id, v.UserID), UserID: v.UserID, Points: award,
		})
	}
	for _, v := range noshow {
		r.ledger = append(r.ledger, &domain.LedgerEntry{
			ID: domain.PenaltyEntryID(id, v.UserID), UserID: v.UserID, Points: domain.NoShowPenalty,
		})
	}

	p.CheckinClosed = true
	p.CheckinBy = closedBy
	p.CheckinYes = len(yes)
	p.CheckinHere = len(arrived)
	p.CheckinNoShow = len(noshow)
	return &domain.CheckinSummary{
		Yes: len(yes), Arrived: len(arrived), NoShow: len(noshow),
		Award: award, Penalty: domain.NoShowPenalty,
	}, nil
}

// fakePollPublisher implements PollService for wizard tests.
type fakePollPublisher struct {
	published []*domain.PollDraft
	fail      error
}

func (s *fakePollPublisher) Publish(_ context.Context, draft *domain.PollDraft, _ int64) (*domain.Poll, error) {
	if s.fail != nil {
		return nil, s.fail
	}
	s.published = append(s.published, draft)
	return &domain.Poll{ID: "published", DateLabel: draft.DateLabel}, nil
}

func (s *fakePollPublisher) CastVote(context.Context, string, int64, string, domain.Choice) (*domain.Poll, bool, error) {
	return nil, false, nil
}

func (s *fakePollPublisher) LockSweep(context.Context) (int, error) { return 0, nil }

func (s *fakePollPublisher) RefreshCard(context.Context, *domain.Poll) error { return nil }

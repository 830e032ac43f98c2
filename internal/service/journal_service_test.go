package service

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"meritmind/internal/domain"
)

type mockUserRepo struct {
	users       map[string]domain.User
	updateCalls int
}

func newMockUserRepo(users ...domain.User) *mockUserRepo {
	m := &mockUserRepo{users: make(map[string]domain.User)}
	for _, u := range users {
		m.users[u.ID] = u
	}
	return m
}

func (m *mockUserRepo) Create(_ context.Context, user domain.User) error {
	m.users[user.ID] = user
	return nil
}

func (m *mockUserRepo) GetByID(_ context.Context, id string) (domain.User, error) {
	user, ok := m.users[id]
	if !ok {
		return domain.User{}, pgx.ErrNoRows
	}
	return user, nil
}

func (m *mockUserRepo) ListAll(_ context.Context) ([]domain.User, error) {
	var out []domain.User
	for _, u := range m.users {
		out = append(out, u)
	}
	return out, nil
}

func (m *mockUserRepo) UpdateCounters(_ context.Context, id string, currentStreak, totalJournals int) error {
	user, ok := m.users[id]
	if !ok {
		return pgx.ErrNoRows
	}
	user.CurrentStreak = currentStreak
	user.TotalJournals = totalJournals
	m.users[id] = user
	m.updateCalls++
	return nil
}

// mockJournalRepo guarda entradas en memoria; ListRecent asume que los tests
// las insertan de mas nueva a mas vieja.
type mockJournalRepo struct {
	entries []domain.Journal
}

func (m *mockJournalRepo) Create(_ context.Context, journal domain.Journal) error {
	m.entries = append([]domain.Journal{journal}, m.entries...)
	return nil
}

func (m *mockJournalRepo) GetByID(_ context.Context, id string) (domain.Journal, error) {
	for _, j := range m.entries {
		if j.ID == id {
			return j, nil
		}
	}
	return domain.Journal{}, pgx.ErrNoRows
}

func (m *mockJournalRepo) ListRecent(_ context.Context, userID string, limit int) ([]domain.Journal, error) {
	var out []domain.Journal
	for _, j := range m.entries {
		if userID != "" && j.UserID != userID {
			continue
		}
		out = append(out, j)
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

func (m *mockJournalRepo) CountByUserAndDate(_ context.Context, userID, date string) (int, error) {
	count := 0
	for _, j := range m.entries {
		if j.UserID == userID && j.Date == date {
			count++
		}
	}
	return count, nil
}

type mockAnalyzer struct {
	insights domain.Insights
	calls    int
}

func (m *mockAnalyzer) Analyze(_ context.Context, _ []domain.TranscriptMessage) domain.Insights {
	m.calls++
	return m.insights
}

type mockAlertSender struct {
	calls    int
	lastTo   string
	lastName string
	err      error
}

func (m *mockAlertSender) SendConcernAlert(_ context.Context, toEmail, residentName, _, _ string) error {
	m.calls++
	m.lastTo = toEmail
	m.lastName = residentName
	return m.err
}

func dateDaysAgo(n int) string {
	return domain.DateOf(time.Now().UTC().AddDate(0, 0, -n))
}

func storedEntry(userID, date string) domain.Journal {
	return domain.Journal{
		ID:     "stored-" + userID + "-" + date,
		UserID: userID,
		Date:   date,
		Transcript: []domain.TranscriptMessage{
			{Role: domain.RoleResident, Text: "earlier entry", Timestamp: 1},
		},
		Insights: fallbackInsights(),
	}
}

func newJournalService(users *mockUserRepo, journals *mockJournalRepo, analyzer *mockAnalyzer, alerts *mockAlertSender, alertTo string) *JournalService {
	if alerts == nil {
		return NewJournalService(zap.NewNop(), users, journals, analyzer, nil, alertTo, nil)
	}
	return NewJournalService(zap.NewNop(), users, journals, analyzer, alerts, alertTo, nil)
}

func validInput(userID string) CreateJournalInput {
	return CreateJournalInput{
		UserID:         userID,
		ConversationID: "conv-1",
		DurationSecs:   180,
		Transcript: []domain.TranscriptMessage{
			{Role: domain.RoleResident, Text: "today was alright", Timestamp: 1700000000000},
		},
	}
}

func TestCreateJournalFirstEverEntry(t *testing.T) {
	users := newMockUserRepo(domain.User{ID: "user-1", Name: "Jay"})
	journals := &mockJournalRepo{}
	analyzer := &mockAnalyzer{insights: fallbackInsights()}
	svc := newJournalService(users, journals, analyzer, nil, "")

	journal, err := svc.Create(context.Background(), validInput("user-1"))
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if journal.Date != dateDaysAgo(0) {
		t.Fatalf("expected today's date, got %s", journal.Date)
	}
	if journal.UserName != "Jay" {
		t.Fatalf("expected user name denormalized, got %s", journal.UserName)
	}

	user := users.users["user-1"]
	if user.CurrentStreak != 1 {
		t.Fatalf("expected streak 1, got %d", user.CurrentStreak)
	}
	if user.TotalJournals != 1 {
		t.Fatalf("expected total 1, got %d", user.TotalJournals)
	}
	if analyzer.calls != 1 {
		t.Fatalf("expected analyzer called once, got %d", analyzer.calls)
	}
}

func TestCreateJournalExtendsStreakFromYesterday(t *testing.T) {
	users := newMockUserRepo(domain.User{ID: "user-1", Name: "Jay", CurrentStreak: 3, TotalJournals: 5})
	journals := &mockJournalRepo{entries: []domain.Journal{storedEntry("user-1", dateDaysAgo(1))}}
	analyzer := &mockAnalyzer{insights: fallbackInsights()}
	svc := newJournalService(users, journals, analyzer, nil, "")

	if _, err := svc.Create(context.Background(), validInput("user-1")); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	user := users.users["user-1"]
	if user.CurrentStreak != 4 {
		t.Fatalf("expected streak incremented to 4, got %d", user.CurrentStreak)
	}
	if user.TotalJournals != 6 {
		t.Fatalf("expected total 6, got %d", user.TotalJournals)
	}
}

func TestCreateJournalSameDayReentryKeepsStreak(t *testing.T) {
	users := newMockUserRepo(domain.User{ID: "user-1", Name: "Jay", CurrentStreak: 2, TotalJournals: 7})
	journals := &mockJournalRepo{entries: []domain.Journal{storedEntry("user-1", dateDaysAgo(0))}}
	analyzer := &mockAnalyzer{insights: fallbackInsights()}
	svc := newJournalService(users, journals, analyzer, nil, "")

	if _, err := svc.Create(context.Background(), validInput("user-1")); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	user := users.users["user-1"]
	if user.CurrentStreak != 2 {
		t.Fatalf("expected streak unchanged at 2, got %d", user.CurrentStreak)
	}
	if user.TotalJournals != 8 {
		t.Fatalf("expected total 8, got %d", user.TotalJournals)
	}
}

func TestCreateJournalThirdSameDay(t *testing.T) {
	users := newMockUserRepo(domain.User{ID: "user-1", Name: "Jay", CurrentStreak: 5, TotalJournals: 12})
	journals := &mockJournalRepo{entries: []domain.Journal{
		storedEntry("user-1", dateDaysAgo(0)),
		{ID: "stored-2", UserID: "user-1", Date: dateDaysAgo(0), Insights: fallbackInsights()},
	}}
	analyzer := &mockAnalyzer{insights: fallbackInsights()}
	svc := newJournalService(users, journals, analyzer, nil, "")

	if _, err := svc.Create(context.Background(), validInput("user-1")); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	user := users.users["user-1"]
	if user.CurrentStreak != 5 {
		t.Fatalf("expected streak untouched on third same-day entry, got %d", user.CurrentStreak)
	}
	if user.TotalJournals != 13 {
		t.Fatalf("expected total 13, got %d", user.TotalJournals)
	}
}

func TestCreateJournalYesterdayEntryBeatsSameDayRule(t *testing.T) {
	// Con entrada ayer la racha sube aunque ya exista una entrada hoy.
	users := newMockUserRepo(domain.User{ID: "user-1", Name: "Jay", CurrentStreak: 4, TotalJournals: 9})
	journals := &mockJournalRepo{entries: []domain.Journal{
		storedEntry("user-1", dateDaysAgo(0)),
		storedEntry("user-1", dateDaysAgo(1)),
	}}
	analyzer := &mockAnalyzer{insights: fallbackInsights()}
	svc := newJournalService(users, journals, analyzer, nil, "")

	if _, err := svc.Create(context.Background(), validInput("user-1")); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if got := users.users["user-1"].CurrentStreak; got != 5 {
		t.Fatalf("expected streak 5, got %d", got)
	}
}

func TestCreateJournalUnknownUser(t *testing.T) {
	users := newMockUserRepo()
	journals := &mockJournalRepo{}
	analyzer := &mockAnalyzer{insights: fallbackInsights()}
	svc := newJournalService(users, journals, analyzer, nil, "")

	_, err := svc.Create(context.Background(), validInput("missing"))
	if err != ErrUserNotFound {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
	if len(journals.entries) != 0 {
		t.Fatalf("expected no entry written, got %d", len(journals.entries))
	}
	if analyzer.calls != 0 {
		t.Fatalf("expected analyzer not called for unknown user, got %d", analyzer.calls)
	}
}

func TestCreateJournalEmptyTranscript(t *testing.T) {
	users := newMockUserRepo(domain.User{ID: "user-1", Name: "Jay"})
	journals := &mockJournalRepo{}
	analyzer := &mockAnalyzer{insights: fallbackInsights()}
	svc := newJournalService(users, journals, analyzer, nil, "")

	_, err := svc.Create(context.Background(), CreateJournalInput{UserID: "user-1"})
	if err != ErrInvalidTranscript {
		t.Fatalf("expected ErrInvalidTranscript, got %v", err)
	}
	if users.updateCalls != 0 {
		t.Fatalf("expected no counter update, got %d", users.updateCalls)
	}
}

func TestCreateJournalHighConcernSendsAlert(t *testing.T) {
	users := newMockUserRepo(domain.User{ID: "user-1", Name: "Jay"})
	journals := &mockJournalRepo{}
	high := fallbackInsights()
	high.ConcernLevel = domain.ConcernHigh
	analyzer := &mockAnalyzer{insights: high}
	alerts := &mockAlertSender{}
	svc := newJournalService(users, journals, analyzer, alerts, "staff@house.example")

	if _, err := svc.Create(context.Background(), validInput("user-1")); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if alerts.calls != 1 {
		t.Fatalf("expected one alert, got %d", alerts.calls)
	}
	if alerts.lastTo != "staff@house.example" || alerts.lastName != "Jay" {
		t.Fatalf("unexpected alert target %s/%s", alerts.lastTo, alerts.lastName)
	}
}

func TestCreateJournalAlertFailureDoesNotFailSave(t *testing.T) {
	users := newMockUserRepo(domain.User{ID: "user-1", Name: "Jay"})
	journals := &mockJournalRepo{}
	high := fallbackInsights()
	high.ConcernLevel = domain.ConcernHigh
	analyzer := &mockAnalyzer{insights: high}
	alerts := &mockAlertSender{err: context.DeadlineExceeded}
	svc := newJournalService(users, journals, analyzer, alerts, "staff@house.example")

	journal, err := svc.Create(context.Background(), validInput("user-1"))
	if err != nil {
		t.Fatalf("expected save to succeed despite alert failure, got %v", err)
	}
	if journal.Insights.ConcernLevel != domain.ConcernHigh {
		t.Fatalf("expected concern level persisted, got %s", journal.Insights.ConcernLevel)
	}
}

func TestCreateJournalNoAlertBelowHighConcern(t *testing.T) {
	users := newMockUserRepo(domain.User{ID: "user-1", Name: "Jay"})
	journals := &mockJournalRepo{}
	moderate := fallbackInsights()
	moderate.ConcernLevel = domain.ConcernModerate
	analyzer := &mockAnalyzer{insights: moderate}
	alerts := &mockAlertSender{}
	svc := newJournalService(users, journals, analyzer, alerts, "staff@house.example")

	if _, err := svc.Create(context.Background(), validInput("user-1")); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if alerts.calls != 0 {
		t.Fatalf("expected no alert for moderate concern, got %d", alerts.calls)
	}
}

func TestGetJournalNotFound(t *testing.T) {
	svc := newJournalService(newMockUserRepo(), &mockJournalRepo{}, &mockAnalyzer{}, nil, "")

	_, err := svc.Get(context.Background(), "missing")
	if err != ErrJournalNotFound {
		t.Fatalf("expected ErrJournalNotFound, got %v", err)
	}
}

func TestListJournalsEmptyIsNotNil(t *testing.T) {
	svc := newJournalService(newMockUserRepo(), &mockJournalRepo{}, &mockAnalyzer{}, nil, "")

	journals, err := svc.List(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if journals == nil {
		t.Fatalf("expected empty slice, got nil")
	}
}

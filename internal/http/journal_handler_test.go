package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"meritmind/internal/domain"
	"meritmind/internal/service"
)

type mockUserRepo struct {
	users map[string]domain.User
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
	return nil
}

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

type apiEnvelope struct {
	Success bool            `json:"success"`
	Error   string          `json:"error"`
	Data    json.RawMessage `json:"data"`
}

func setupRouter(users *mockUserRepo, journals *mockJournalRepo) *gin.Engine {
	gin.SetMode(gin.TestMode)
	logger := zap.NewNop()

	// InsightService sin cliente LLM: todo analisis cae al fallback neutro.
	insightSvc := service.NewInsightService(nil, logger)
	journalSvc := service.NewJournalService(logger, users, journals, insightSvc, nil, "", nil)
	dashboardSvc := service.NewDashboardService(logger, users, journals, nil)
	voiceSvc := service.NewVoiceService("", "")

	return NewRouter(
		logger,
		NewUserHandler(logger, users),
		NewJournalHandler(logger, journalSvc),
		NewDashboardHandler(logger, dashboardSvc),
		NewVoiceHandler(logger, voiceSvc),
	)
}

func performRequest(r http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	var payload []byte
	if body != nil {
		payload, _ = json.Marshal(body)
	}
	req := httptest.NewRequest(method, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) apiEnvelope {
	t.Helper()
	var env apiEnvelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("invalid response body %q: %v", rec.Body.String(), err)
	}
	return env
}

func validCreateBody(userID string) map[string]any {
	return map[string]any{
		"userId":         userID,
		"conversationId": "conv-1",
		"durationSecs":   180,
		"transcript": []map[string]any{
			{"role": "agent", "text": "How was your day?", "timestamp": 1700000000000},
			{"role": "user", "text": "Not bad at all.", "timestamp": 1700000010000},
		},
	}
}

func TestCreateJournalSuccess(t *testing.T) {
	users := newMockUserRepo(domain.User{ID: "user-1", Name: "Jay"})
	journals := &mockJournalRepo{}
	r := setupRouter(users, journals)

	rec := performRequest(r, http.MethodPost, "/journals", validCreateBody("user-1"))
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d: %s", rec.Code, rec.Body.String())
	}

	env := decodeEnvelope(t, rec)
	if !env.Success {
		t.Fatalf("expected success envelope, got %s", rec.Body.String())
	}

	var journal domain.Journal
	if err := json.Unmarshal(env.Data, &journal); err != nil {
		t.Fatalf("decode journal: %v", err)
	}
	if journal.UserName != "Jay" {
		t.Fatalf("expected user name Jay, got %s", journal.UserName)
	}
	// Sin LLM configurado la entrada lleva insights de fallback, nunca null.
	if journal.Insights.Mood.Score != 5 || journal.Insights.ConcernLevel != domain.ConcernNone {
		t.Fatalf("expected fallback insights, got %+v", journal.Insights)
	}
	if users.users["user-1"].TotalJournals != 1 {
		t.Fatalf("expected total journals incremented")
	}
}

func TestCreateJournalEmptyTranscript(t *testing.T) {
	users := newMockUserRepo(domain.User{ID: "user-1", Name: "Jay"})
	journals := &mockJournalRepo{}
	r := setupRouter(users, journals)

	body := validCreateBody("user-1")
	body["transcript"] = []map[string]any{}
	rec := performRequest(r, http.MethodPost, "/journals", body)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", rec.Code)
	}
	if len(journals.entries) != 0 {
		t.Fatalf("expected no side effects on invalid request")
	}
}

func TestCreateJournalMissingUserID(t *testing.T) {
	r := setupRouter(newMockUserRepo(), &mockJournalRepo{})

	body := validCreateBody("")
	delete(body, "userId")
	rec := performRequest(r, http.MethodPost, "/journals", body)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", rec.Code)
	}
}

func TestCreateJournalUnknownUser(t *testing.T) {
	r := setupRouter(newMockUserRepo(), &mockJournalRepo{})

	rec := performRequest(r, http.MethodPost, "/journals", validCreateBody("missing"))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected status 404, got %d", rec.Code)
	}
	env := decodeEnvelope(t, rec)
	if env.Success || env.Error != "user not found" {
		t.Fatalf("expected stable not-found error, got %s", rec.Body.String())
	}
}

func TestGetJournalNotFound(t *testing.T) {
	r := setupRouter(newMockUserRepo(), &mockJournalRepo{})

	rec := performRequest(r, http.MethodGet, "/journals/missing", nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected status 404, got %d", rec.Code)
	}
	env := decodeEnvelope(t, rec)
	if env.Error != "journal entry not found" {
		t.Fatalf("expected stable error string, got %q", env.Error)
	}
}

func TestListJournalsByUser(t *testing.T) {
	users := newMockUserRepo(domain.User{ID: "user-1", Name: "Jay"})
	journals := &mockJournalRepo{entries: []domain.Journal{
		{ID: "j-1", UserID: "user-1", Date: "2026-08-30", CreatedAt: time.Now().UTC()},
		{ID: "j-2", UserID: "user-2", Date: "2026-08-30", CreatedAt: time.Now().UTC()},
	}}
	r := setupRouter(users, journals)

	rec := performRequest(r, http.MethodGet, "/journals?userId=user-1", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}

	env := decodeEnvelope(t, rec)
	var list []domain.Journal
	if err := json.Unmarshal(env.Data, &list); err != nil {
		t.Fatalf("decode list: %v", err)
	}
	if len(list) != 1 || list[0].ID != "j-1" {
		t.Fatalf("expected only user-1 entries, got %+v", list)
	}
}

func TestSignedURLNotConfigured(t *testing.T) {
	r := setupRouter(newMockUserRepo(), &mockJournalRepo{})

	rec := performRequest(r, http.MethodGet, "/signed-url", nil)
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected status 500, got %d", rec.Code)
	}
	env := decodeEnvelope(t, rec)
	if env.Success {
		t.Fatalf("expected error envelope, got %s", rec.Body.String())
	}
}

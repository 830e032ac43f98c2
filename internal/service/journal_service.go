package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"meritmind/internal/domain"
	"meritmind/internal/email"
	"meritmind/internal/repository"
)

var (
	ErrUserNotFound      = errors.New("user not found")
	ErrJournalNotFound   = errors.New("journal entry not found")
	ErrInvalidTranscript = errors.New("transcript must have at least one message")
)

// InsightAnalyzer abstrae el extractor de insights para poder mockearlo.
type InsightAnalyzer interface {
	Analyze(ctx context.Context, transcript []domain.TranscriptMessage) domain.Insights
}

// JournalService coordina la creacion de entradas, el update de rachas y las
// alertas al personal.
type JournalService struct {
	logger   *zap.Logger
	users    repository.UserRepository
	journals repository.JournalRepository
	insights InsightAnalyzer
	alerts   email.Sender
	alertTo  string
	cache    *DashboardCache

	// Serializa create->lectura de estado->update de contadores por usuario
	// para cerrar la carrera de doble submit sobre la racha.
	mu        sync.Mutex
	userLocks map[string]*sync.Mutex
}

func NewJournalService(
	logger *zap.Logger,
	users repository.UserRepository,
	journals repository.JournalRepository,
	insights InsightAnalyzer,
	alerts email.Sender,
	alertTo string,
	cache *DashboardCache,
) *JournalService {
	return &JournalService{
		logger:    logger,
		users:     users,
		journals:  journals,
		insights:  insights,
		alerts:    alerts,
		alertTo:   alertTo,
		cache:     cache,
		userLocks: make(map[string]*sync.Mutex),
	}
}

// CreateJournalInput es el payload validado para crear una entrada.
type CreateJournalInput struct {
	UserID         string
	ConversationID string
	Transcript     []domain.TranscriptMessage
	DurationSecs   int
}

// Create guarda la entrada del dia y actualiza racha y total del residente.
// El analisis nunca bloquea el guardado: si falla, la entrada lleva insights
// de fallback.
func (s *JournalService) Create(ctx context.Context, in CreateJournalInput) (domain.Journal, error) {
	if in.UserID == "" || len(in.Transcript) == 0 {
		return domain.Journal{}, ErrInvalidTranscript
	}

	lock := s.lockFor(in.UserID)
	lock.Lock()
	defer lock.Unlock()

	user, err := s.users.GetByID(ctx, in.UserID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Journal{}, ErrUserNotFound
		}
		return domain.Journal{}, fmt.Errorf("get user: %w", err)
	}

	insights := s.insights.Analyze(ctx, in.Transcript)

	now := time.Now().UTC()
	journal := domain.Journal{
		ID:             uuid.NewString(),
		UserID:         user.ID,
		UserName:       user.Name,
		Date:           domain.DateOf(now),
		ConversationID: in.ConversationID,
		DurationSecs:   in.DurationSecs,
		Transcript:     in.Transcript,
		Insights:       insights,
		CreatedAt:      now,
	}

	if err := s.journals.Create(ctx, journal); err != nil {
		return domain.Journal{}, fmt.Errorf("create journal: %w", err)
	}

	if err := s.applyStreak(ctx, user, journal.Date, now); err != nil {
		return domain.Journal{}, err
	}

	s.cache.Invalidate(ctx, user.ID)
	s.maybeAlert(ctx, user, journal)

	return journal, nil
}

// applyStreak aplica las reglas de racha leyendo el estado inmediatamente
// posterior al insert de la entrada:
//   - entrada ayer: la racha sube en 1;
//   - primera entrada de hoy sin entrada ayer: la racha arranca en 1;
//   - re-entrada del mismo dia: la racha queda como estaba.
//
// totalJournals sube siempre.
func (s *JournalService) applyStreak(ctx context.Context, user domain.User, today string, now time.Time) error {
	yesterday := domain.DateOf(now.AddDate(0, 0, -1))

	yesterdayCount, err := s.journals.CountByUserAndDate(ctx, user.ID, yesterday)
	if err != nil {
		return fmt.Errorf("count yesterday entries: %w", err)
	}

	streak := user.CurrentStreak
	if yesterdayCount > 0 {
		streak++
	} else {
		todayCount, err := s.journals.CountByUserAndDate(ctx, user.ID, today)
		if err != nil {
			return fmt.Errorf("count today entries: %w", err)
		}
		// El conteo ya incluye la entrada recien creada: solo la primera
		// del dia resetea la racha.
		if todayCount <= 1 {
			streak = 1
		}
	}

	if err := s.users.UpdateCounters(ctx, user.ID, streak, user.TotalJournals+1); err != nil {
		return fmt.Errorf("update counters: %w", err)
	}
	return nil
}

// maybeAlert avisa al personal si la entrada quedo marcada con preocupacion
// alta. Un fallo aqui nunca afecta el guardado: solo se loguea.
func (s *JournalService) maybeAlert(ctx context.Context, user domain.User, journal domain.Journal) {
	if journal.Insights.ConcernLevel != domain.ConcernHigh || s.alertTo == "" || s.alerts == nil {
		return
	}
	err := s.alerts.SendConcernAlert(ctx, s.alertTo, user.Name, journal.Insights.ConcernLevel, journal.Insights.Summary)
	if err != nil {
		s.logger.Warn("concern alert failed",
			zap.Error(err),
			zap.String("user_id", user.ID),
		)
	}
}

// Get devuelve una entrada por id.
func (s *JournalService) Get(ctx context.Context, id string) (domain.Journal, error) {
	journal, err := s.journals.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Journal{}, ErrJournalNotFound
		}
		return domain.Journal{}, fmt.Errorf("get journal: %w", err)
	}
	return journal, nil
}

// List devuelve hasta 30 entradas mas recientes, opcionalmente de un residente.
func (s *JournalService) List(ctx context.Context, userID string) ([]domain.Journal, error) {
	journals, err := s.journals.ListRecent(ctx, userID, recentEntriesWindow)
	if err != nil {
		return nil, fmt.Errorf("list journals: %w", err)
	}
	if journals == nil {
		journals = []domain.Journal{}
	}
	return journals, nil
}

func (s *JournalService) lockFor(userID string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	lock, ok := s.userLocks[userID]
	if !ok {
		lock = &sync.Mutex{}
		s.userLocks[userID] = lock
	}
	return lock
}

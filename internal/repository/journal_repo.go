package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"meritmind/internal/domain"
)

// JournalRepository define el contrato de persistencia para entradas de diario.
// Las entradas son inmutables: no hay update ni delete.
type JournalRepository interface {
	Create(ctx context.Context, journal domain.Journal) error
	GetByID(ctx context.Context, id string) (domain.Journal, error)
	// ListRecent devuelve hasta limit entradas ordenadas por fecha descendente.
	// userID vacio lista entradas de todos los residentes.
	ListRecent(ctx context.Context, userID string, limit int) ([]domain.Journal, error)
	CountByUserAndDate(ctx context.Context, userID, date string) (int, error)
}

// PgJournalRepository implementa JournalRepository usando pgxpool.
type PgJournalRepository struct {
	pool *pgxpool.Pool
}

func NewPgJournalRepository(pool *pgxpool.Pool) *PgJournalRepository {
	return &PgJournalRepository{pool: pool}
}

func (r *PgJournalRepository) Create(ctx context.Context, journal domain.Journal) error {
	const query = `
		INSERT INTO journals (id, user_id, user_name, date, conversation_id, duration_secs, transcript, insights, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	transcript, err := json.Marshal(journal.Transcript)
	if err != nil {
		return fmt.Errorf("marshal transcript: %w", err)
	}
	insights, err := json.Marshal(journal.Insights)
	if err != nil {
		return fmt.Errorf("marshal insights: %w", err)
	}
	_, err = r.pool.Exec(ctx, query,
		journal.ID,
		journal.UserID,
		journal.UserName,
		journal.Date,
		journal.ConversationID,
		journal.DurationSecs,
		transcript,
		insights,
		journal.CreatedAt,
	)
	return err
}

func (r *PgJournalRepository) GetByID(ctx context.Context, id string) (domain.Journal, error) {
	const query = `
		SELECT id, user_id, user_name, date, conversation_id, duration_secs, transcript, insights, created_at
		FROM journals
		WHERE id = $1
	`
	return r.scanJournal(r.pool.QueryRow(ctx, query, id))
}

func (r *PgJournalRepository) ListRecent(ctx context.Context, userID string, limit int) ([]domain.Journal, error) {
	const queryAll = `
		SELECT id, user_id, user_name, date, conversation_id, duration_secs, transcript, insights, created_at
		FROM journals
		ORDER BY date DESC, created_at DESC
		LIMIT $1
	`
	const queryByUser = `
		SELECT id, user_id, user_name, date, conversation_id, duration_secs, transcript, insights, created_at
		FROM journals
		WHERE user_id = $2
		ORDER BY date DESC, created_at DESC
		LIMIT $1
	`

	var (
		rows pgx.Rows
		err  error
	)
	if userID == "" {
		rows, err = r.pool.Query(ctx, queryAll, limit)
	} else {
		rows, err = r.pool.Query(ctx, queryByUser, limit, userID)
	}
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var journals []domain.Journal
	for rows.Next() {
		j, err := r.scanJournal(rows)
		if err != nil {
			return nil, err
		}
		journals = append(journals, j)
	}
	return journals, rows.Err()
}

func (r *PgJournalRepository) CountByUserAndDate(ctx context.Context, userID, date string) (int, error) {
	const query = `
		SELECT COUNT(*)
		FROM journals
		WHERE user_id = $1 AND date = $2
	`
	var count int
	err := r.pool.QueryRow(ctx, query, userID, date).Scan(&count)
	return count, err
}

func (r *PgJournalRepository) scanJournal(row pgx.Row) (domain.Journal, error) {
	var (
		j          domain.Journal
		transcript []byte
		insights   []byte
	)
	err := row.Scan(
		&j.ID,
		&j.UserID,
		&j.UserName,
		&j.Date,
		&j.ConversationID,
		&j.DurationSecs,
		&transcript,
		&insights,
		&j.CreatedAt,
	)
	if err != nil {
		return domain.Journal{}, err
	}
	if err := json.Unmarshal(transcript, &j.Transcript); err != nil {
		return domain.Journal{}, fmt.Errorf("unmarshal transcript: %w", err)
	}
	if err := json.Unmarshal(insights, &j.Insights); err != nil {
		return domain.Journal{}, fmt.Errorf("unmarshal insights: %w", err)
	}
	return j, nil
}

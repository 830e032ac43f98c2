package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"meritmind/internal/domain"
)

// UserRepository define el contrato de persistencia para residentes.
type UserRepository interface {
	Create(ctx context.Context, user domain.User) error
	GetByID(ctx context.Context, id string) (domain.User, error)
	ListAll(ctx context.Context) ([]domain.User, error)
	UpdateCounters(ctx context.Context, id string, currentStreak, totalJournals int) error
}

// PgUserRepository implementa UserRepository usando pgxpool.
type PgUserRepository struct {
	pool *pgxpool.Pool
}

func NewPgUserRepository(pool *pgxpool.Pool) *PgUserRepository {
	return &PgUserRepository{pool: pool}
}

func (r *PgUserRepository) Create(ctx context.Context, user domain.User) error {
	const query = `
		INSERT INTO users (id, name, avatar, house_id, moved_in, current_streak, total_journals, chores, traits, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`
	traits, err := json.Marshal(user.Traits)
	if err != nil {
		return fmt.Errorf("marshal traits: %w", err)
	}
	_, err = r.pool.Exec(ctx, query,
		user.ID,
		user.Name,
		user.Avatar,
		user.HouseID,
		user.MovedIn,
		user.CurrentStreak,
		user.TotalJournals,
		user.Chores,
		traits,
		user.CreatedAt,
	)
	return err
}

func (r *PgUserRepository) GetByID(ctx context.Context, id string) (domain.User, error) {
	const query = `
		SELECT id, name, avatar, house_id, moved_in, current_streak, total_journals, chores, traits, created_at
		FROM users
		WHERE id = $1
	`
	return r.scanUser(r.pool.QueryRow(ctx, query, id))
}

func (r *PgUserRepository) ListAll(ctx context.Context) ([]domain.User, error) {
	const query = `
		SELECT id, name, avatar, house_id, moved_in, current_streak, total_journals, chores, traits, created_at
		FROM users
		ORDER BY name ASC
	`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []domain.User
	for rows.Next() {
		u, err := r.scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

func (r *PgUserRepository) UpdateCounters(ctx context.Context, id string, currentStreak, totalJournals int) error {
	const query = `
		UPDATE users
		SET current_streak = $2, total_journals = $3
		WHERE id = $1
	`
	tag, err := r.pool.Exec(ctx, query, id, currentStreak, totalJournals)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *PgUserRepository) scanUser(row pgx.Row) (domain.User, error) {
	var (
		u      domain.User
		traits []byte
	)
	err := row.Scan(
		&u.ID,
		&u.Name,
		&u.Avatar,
		&u.HouseID,
		&u.MovedIn,
		&u.CurrentStreak,
		&u.TotalJournals,
		&u.Chores,
		&traits,
		&u.CreatedAt,
	)
	if err != nil {
		return domain.User{}, err
	}
	if err := json.Unmarshal(traits, &u.Traits); err != nil {
		return domain.User{}, fmt.Errorf("unmarshal traits: %w", err)
	}
	return u, nil
}

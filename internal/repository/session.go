package repository

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/reelmatch/reelmatch-server-go/internal/database"
	"github.com/reelmatch/reelmatch-server-go/internal/model"
)

type SessionRepository interface {
	FindByID(ctx context.Context, id string) (*model.Session, error)
	FindByCode(ctx context.Context, code string) (*model.Session, error)
	CreateWithHost(ctx context.Context, params model.CreateSessionParams, hostNickname string) (*model.Session, error)
	UpdateStatusFrom(ctx context.Context, id string, from, to model.SessionStatus) (bool, error)
	MarkRevealed(ctx context.Context, id string) error
	DeleteAbandonedLobbies(ctx context.Context, olderThan time.Duration) (int64, error)
}

type sessionRepo struct {
	db *database.DB
}

func NewSessionRepository(db *database.DB) SessionRepository {
	return &sessionRepo{db: db}
}

func (r *sessionRepo) FindByID(ctx context.Context, id string) (*model.Session, error) {
	var s model.Session
	err := r.db.GetContext(ctx, &s, `
		SELECT * FROM sessions WHERE id = $1
	`, id)
	return HandleNotFound(&s, err)
}

func (r *sessionRepo) FindByCode(ctx context.Context, code string) (*model.Session, error) {
	var s model.Session
	err := r.db.GetContext(ctx, &s, `
		SELECT * FROM sessions WHERE code = UPPER($1)
	`, code)
	return HandleNotFound(&s, err)
}

// CreateWithHost inserts the session row and the host's participant row in
// one transaction: no session ever exists without its host, and a room-code
// collision rolls the whole creation back.
func (r *sessionRepo) CreateWithHost(ctx context.Context, params model.CreateSessionParams, hostNickname string) (*model.Session, error) {
	var s model.Session
	err := r.db.WithTx(ctx, func(tx *sqlx.Tx) error {
		if err := tx.GetContext(ctx, &s, `
			INSERT INTO sessions (id, code, host_id, status, deck)
			VALUES ($1, $2, $3, 'lobby', $4)
			RETURNING *
		`, params.ID, params.Code, params.HostID, pq.Int64Array(params.Deck)); err != nil {
			return err
		}

		_, err := tx.ExecContext(ctx, `
			INSERT INTO participants (session_id, user_id, nickname)
			VALUES ($1, $2, $3)
		`, params.ID, params.HostID, hostNickname)
		return err
	})
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// UpdateStatusFrom performs a guarded status transition. It returns false
// when the session was not in the expected `from` status, leaving the row
// untouched.
func (r *sessionRepo) UpdateStatusFrom(ctx context.Context, id string, from, to model.SessionStatus) (bool, error) {
	result, err := r.db.ExecContext(ctx, `
		UPDATE sessions SET
			status = $3,
			started_at = CASE WHEN $3 = 'swiping' THEN NOW() ELSE started_at END
		WHERE id = $1 AND status = $2
	`, id, from, to)
	if err != nil {
		return false, err
	}
	n, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// MarkRevealed is unconditional and idempotent; revealed_at keeps its first
// value on repeated calls.
func (r *sessionRepo) MarkRevealed(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE sessions SET
			status = 'revealed',
			revealed_at = COALESCE(revealed_at, NOW())
		WHERE id = $1
	`, id)
	return err
}

func (r *sessionRepo) DeleteAbandonedLobbies(ctx context.Context, olderThan time.Duration) (int64, error) {
	result, err := r.db.ExecContext(ctx, `
		DELETE FROM sessions
		WHERE status = 'lobby' AND created_at < NOW() - make_interval(secs => $1)
	`, olderThan.Seconds())
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

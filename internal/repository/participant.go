package repository

import (
	"context"

	"github.com/reelmatch/reelmatch-server-go/internal/database"
	"github.com/reelmatch/reelmatch-server-go/internal/model"
)

type ParticipantRepository interface {
	Find(ctx context.Context, sessionID, userID string) (*model.Participant, error)
	FindBySessionID(ctx context.Context, sessionID string) ([]model.Participant, error)
	Create(ctx context.Context, params model.CreateParticipantParams) (*model.Participant, error)
	CountIncomplete(ctx context.Context, sessionID string) (int, error)
}

type participantRepo struct {
	db database.DBTX
}

func NewParticipantRepository(db database.DBTX) ParticipantRepository {
	return &participantRepo{db: db}
}

func (r *participantRepo) Find(ctx context.Context, sessionID, userID string) (*model.Participant, error) {
	var p model.Participant
	err := r.db.GetContext(ctx, &p, `
		SELECT * FROM participants WHERE session_id = $1 AND user_id = $2
	`, sessionID, userID)
	return HandleNotFound(&p, err)
}

func (r *participantRepo) FindBySessionID(ctx context.Context, sessionID string) ([]model.Participant, error) {
	var participants []model.Participant
	err := r.db.SelectContext(ctx, &participants, `
		SELECT * FROM participants
		WHERE session_id = $1
		ORDER BY joined_at ASC
	`, sessionID)
	return participants, err
}

// Create inserts the membership row. The conflict clause makes join retries
// idempotent: a second insert for the same (session, user) pair returns the
// existing row unchanged.
func (r *participantRepo) Create(ctx context.Context, params model.CreateParticipantParams) (*model.Participant, error) {
	var p model.Participant
	err := r.db.GetContext(ctx, &p, `
		INSERT INTO participants (session_id, user_id, nickname)
		VALUES ($1, $2, $3)
		ON CONFLICT (session_id, user_id) DO UPDATE SET nickname = participants.nickname
		RETURNING *
	`, params.SessionID, params.UserID, params.Nickname)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *participantRepo) CountIncomplete(ctx context.Context, sessionID string) (int, error) {
	var count int
	err := r.db.GetContext(ctx, &count, `
		SELECT COUNT(*) FROM participants
		WHERE session_id = $1 AND completed = FALSE
	`, sessionID)
	return count, err
}

package repository

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/reelmatch/reelmatch-server-go/internal/database"
	"github.com/reelmatch/reelmatch-server-go/internal/model"
)

type SwipeRepository interface {
	RecordSwipe(ctx context.Context, params model.UpsertSwipeParams, deckSize int) (completed bool, err error)
	FindBySessionID(ctx context.Context, sessionID string) ([]model.Swipe, error)
	FindBySessionAndUser(ctx context.Context, sessionID, userID string) ([]model.Swipe, error)
	CountBySessionAndUser(ctx context.Context, sessionID, userID string) (int, error)
}

type swipeRepo struct {
	db *database.DB
}

func NewSwipeRepository(db *database.DB) SwipeRepository {
	return &swipeRepo{db: db}
}

// RecordSwipe upserts the verdict, recomputes the user's swipe count, and
// flips the participant's completed flag once the count reaches deckSize.
// The three steps share one transaction so two racing swipes from the same
// user cannot both observe a pre-threshold count. The unique key collapses
// repeated swipes on the same movie to a single row, so the count never
// exceeds the deck length.
func (r *swipeRepo) RecordSwipe(ctx context.Context, params model.UpsertSwipeParams, deckSize int) (bool, error) {
	var completed bool
	err := r.db.WithTx(ctx, func(tx *sqlx.Tx) error {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO swipes (session_id, user_id, movie_id, liked)
			VALUES ($1, $2, $3, $4)
			ON CONFLICT (session_id, user_id, movie_id) DO UPDATE SET
				liked = EXCLUDED.liked,
				updated_at = NOW()
		`, params.SessionID, params.UserID, params.MovieID, params.Liked); err != nil {
			return err
		}

		var count int
		if err := tx.GetContext(ctx, &count, `
			SELECT COUNT(*) FROM swipes
			WHERE session_id = $1 AND user_id = $2
		`, params.SessionID, params.UserID); err != nil {
			return err
		}

		if count >= deckSize {
			if _, err := tx.ExecContext(ctx, `
				UPDATE participants SET completed = TRUE
				WHERE session_id = $1 AND user_id = $2
			`, params.SessionID, params.UserID); err != nil {
				return err
			}
			completed = true
		}
		return nil
	})
	return completed, err
}

func (r *swipeRepo) FindBySessionID(ctx context.Context, sessionID string) ([]model.Swipe, error) {
	var swipes []model.Swipe
	err := r.db.SelectContext(ctx, &swipes, `
		SELECT * FROM swipes
		WHERE session_id = $1
		ORDER BY created_at ASC
	`, sessionID)
	return swipes, err
}

func (r *swipeRepo) FindBySessionAndUser(ctx context.Context, sessionID, userID string) ([]model.Swipe, error) {
	var swipes []model.Swipe
	err := r.db.SelectContext(ctx, &swipes, `
		SELECT * FROM swipes
		WHERE session_id = $1 AND user_id = $2
		ORDER BY created_at ASC
	`, sessionID, userID)
	return swipes, err
}

func (r *swipeRepo) CountBySessionAndUser(ctx context.Context, sessionID, userID string) (int, error) {
	var count int
	err := r.db.GetContext(ctx, &count, `
		SELECT COUNT(*) FROM swipes
		WHERE session_id = $1 AND user_id = $2
	`, sessionID, userID)
	return count, err
}

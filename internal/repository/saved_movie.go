package repository

import (
	"context"

	"github.com/reelmatch/reelmatch-server-go/internal/database"
	"github.com/reelmatch/reelmatch-server-go/internal/model"
)

type SavedMovieRepository interface {
	FindByUserID(ctx context.Context, userID string) ([]model.SavedMovie, error)
	FindByUserIDs(ctx context.Context, userIDs []string) ([]model.SavedMovie, error)
	Save(ctx context.Context, userID string, movieID int64) error
	Remove(ctx context.Context, userID string, movieID int64) error
}

type savedMovieRepo struct {
	db database.DBTX
}

func NewSavedMovieRepository(db database.DBTX) SavedMovieRepository {
	return &savedMovieRepo{db: db}
}

func (r *savedMovieRepo) FindByUserID(ctx context.Context, userID string) ([]model.SavedMovie, error) {
	var movies []model.SavedMovie
	err := r.db.SelectContext(ctx, &movies, `
		SELECT * FROM saved_movies
		WHERE user_id = $1
		ORDER BY created_at DESC
	`, userID)
	return movies, err
}

func (r *savedMovieRepo) FindByUserIDs(ctx context.Context, userIDs []string) ([]model.SavedMovie, error) {
	if len(userIDs) == 0 {
		return nil, nil
	}
	query, args, err := database.In(`
		SELECT * FROM saved_movies WHERE user_id IN (?)
	`, userIDs)
	if err != nil {
		return nil, err
	}
	var movies []model.SavedMovie
	err = r.db.SelectContext(ctx, &movies, query, args...)
	return movies, err
}

// Save is idempotent; re-saving an already-saved movie is a no-op.
func (r *savedMovieRepo) Save(ctx context.Context, userID string, movieID int64) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO saved_movies (user_id, movie_id)
		VALUES ($1, $2)
		ON CONFLICT (user_id, movie_id) DO NOTHING
	`, userID, movieID)
	return err
}

func (r *savedMovieRepo) Remove(ctx context.Context, userID string, movieID int64) error {
	_, err := r.db.ExecContext(ctx, `
		DELETE FROM saved_movies WHERE user_id = $1 AND movie_id = $2
	`, userID, movieID)
	return err
}

package repository

import (
	"context"

	"github.com/reelmatch/reelmatch-server-go/internal/database"
	"github.com/reelmatch/reelmatch-server-go/internal/model"
)

type WatchedMovieRepository interface {
	Create(ctx context.Context, id, sessionID string, movieID int64) (*model.WatchedMovie, error)
	FindByUserID(ctx context.Context, userID string) ([]model.WatchedMovie, error)
	MovieIDsByUserID(ctx context.Context, userID string) ([]int64, error)
}

type watchedMovieRepo struct {
	db database.DBTX
}

func NewWatchedMovieRepository(db database.DBTX) WatchedMovieRepository {
	return &watchedMovieRepo{db: db}
}

func (r *watchedMovieRepo) Create(ctx context.Context, id, sessionID string, movieID int64) (*model.WatchedMovie, error) {
	var w model.WatchedMovie
	err := r.db.GetContext(ctx, &w, `
		INSERT INTO watched_movies (id, session_id, movie_id)
		VALUES ($1, $2, $3)
		RETURNING *
	`, id, sessionID, movieID)
	if err != nil {
		return nil, err
	}
	return &w, nil
}

// FindByUserID returns the watch history of every session the user took
// part in, newest first.
func (r *watchedMovieRepo) FindByUserID(ctx context.Context, userID string) ([]model.WatchedMovie, error) {
	var watched []model.WatchedMovie
	err := r.db.SelectContext(ctx, &watched, `
		SELECT w.* FROM watched_movies w
		JOIN participants p ON p.session_id = w.session_id
		WHERE p.user_id = $1
		ORDER BY w.watched_at DESC
	`, userID)
	return watched, err
}

func (r *watchedMovieRepo) MovieIDsByUserID(ctx context.Context, userID string) ([]int64, error) {
	var ids []int64
	err := r.db.SelectContext(ctx, &ids, `
		SELECT DISTINCT w.movie_id FROM watched_movies w
		JOIN participants p ON p.session_id = w.session_id
		WHERE p.user_id = $1
	`, userID)
	return ids, err
}

package service

import (
	"context"

	"github.com/rs/zerolog/log"

	apperrors "github.com/reelmatch/reelmatch-server-go/internal/errors"
	"github.com/reelmatch/reelmatch-server-go/internal/model"
	"github.com/reelmatch/reelmatch-server-go/internal/repository"
)

// LibraryService manages a user's personal movie lists: the saved-movie
// watchlist (the pre-match engine's input) and the watched history.
type LibraryService struct {
	savedRepo   repository.SavedMovieRepository
	watchedRepo repository.WatchedMovieRepository
}

func NewLibraryService(savedRepo repository.SavedMovieRepository, watchedRepo repository.WatchedMovieRepository) *LibraryService {
	return &LibraryService{
		savedRepo:   savedRepo,
		watchedRepo: watchedRepo,
	}
}

func (s *LibraryService) SavedMovies(ctx context.Context, userID string) ([]model.SavedMovie, error) {
	movies, err := s.savedRepo.FindByUserID(ctx, userID)
	if err != nil {
		return nil, apperrors.Database(err)
	}
	return movies, nil
}

func (s *LibraryService) SaveMovie(ctx context.Context, userID string, movieID int64) error {
	if err := s.savedRepo.Save(ctx, userID, movieID); err != nil {
		return apperrors.Database(err)
	}
	log.Debug().Str("userId", userID).Int64("movieId", movieID).Msg("movie saved")
	return nil
}

func (s *LibraryService) RemoveSavedMovie(ctx context.Context, userID string, movieID int64) error {
	if err := s.savedRepo.Remove(ctx, userID, movieID); err != nil {
		return apperrors.Database(err)
	}
	return nil
}

func (s *LibraryService) WatchedHistory(ctx context.Context, userID string) ([]model.WatchedMovie, error) {
	watched, err := s.watchedRepo.FindByUserID(ctx, userID)
	if err != nil {
		return nil, apperrors.Database(err)
	}
	return watched, nil
}

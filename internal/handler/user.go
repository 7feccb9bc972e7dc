package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	apperrors "github.com/reelmatch/reelmatch-server-go/internal/errors"
	"github.com/reelmatch/reelmatch-server-go/internal/service"
)

type UserHandler struct {
	libraryService *service.LibraryService
}

func NewUserHandler(libraryService *service.LibraryService) *UserHandler {
	return &UserHandler{
		libraryService: libraryService,
	}
}

func (h *UserHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/{userID}/saved", h.SavedMovies)
	r.Post("/{userID}/saved", h.SaveMovie)
	r.Delete("/{userID}/saved/{movieID}", h.RemoveSavedMovie)
	r.Get("/{userID}/watched", h.WatchedHistory)

	return r
}

// GET /v1/users/{userID}/saved
func (h *UserHandler) SavedMovies(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")

	movies, err := h.libraryService.SavedMovies(r.Context(), userID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"saved": movies})
}

// POST /v1/users/{userID}/saved
func (h *UserHandler) SaveMovie(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")

	var req struct {
		MovieID int64 `json:"movieId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apperrors.ValidationError("Invalid request body"))
		return
	}
	if req.MovieID <= 0 {
		writeError(w, apperrors.InvalidInput("movieId", "must be a positive integer"))
		return
	}

	if err := h.libraryService.SaveMovie(r.Context(), userID, req.MovieID); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{"movieId": req.MovieID})
}

// DELETE /v1/users/{userID}/saved/{movieID}
func (h *UserHandler) RemoveSavedMovie(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")

	movieID, err := parseMovieID(chi.URLParam(r, "movieID"))
	if err != nil {
		writeError(w, err)
		return
	}

	if err := h.libraryService.RemoveSavedMovie(r.Context(), userID, movieID); err != nil {
		writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// GET /v1/users/{userID}/watched
func (h *UserHandler) WatchedHistory(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")

	watched, err := h.libraryService.WatchedHistory(r.Context(), userID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"watched": watched})
}

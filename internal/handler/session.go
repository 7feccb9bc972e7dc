package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	apperrors "github.com/reelmatch/reelmatch-server-go/internal/errors"
	"github.com/reelmatch/reelmatch-server-go/internal/service"
)

type SessionHandler struct {
	sessionService *service.SessionService
}

func NewSessionHandler(sessionService *service.SessionService) *SessionHandler {
	return &SessionHandler{
		sessionService: sessionService,
	}
}

func (h *SessionHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Post("/", h.Create)
	r.Post("/join", h.Join)
	r.Get("/{sessionID}", h.GetState)
	r.Post("/{sessionID}/start", h.Start)
	r.Post("/{sessionID}/swipes", h.Swipe)
	r.Post("/{sessionID}/reveal", h.Reveal)
	r.Get("/{sessionID}/matches", h.Matches)
	r.Get("/{sessionID}/prematches", h.PreMatches)
	r.Post("/{sessionID}/watched", h.RecordWatched)

	return r
}

// POST /v1/sessions
func (h *SessionHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req struct {
		HostID   string             `json:"hostId"`
		Nickname string             `json:"nickname"`
		Source   service.DeckSource `json:"source"`
		DeckSize int                `json:"deckSize"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apperrors.ValidationError("Invalid request body"))
		return
	}

	result, err := h.sessionService.Create(r.Context(), service.CreateSessionParams{
		HostID:   req.HostID,
		Nickname: req.Nickname,
		Source:   req.Source,
		DeckSize: req.DeckSize,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, result)
}

// POST /v1/sessions/join
func (h *SessionHandler) Join(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Code     string `json:"code"`
		UserID   string `json:"userId"`
		Nickname string `json:"nickname"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apperrors.ValidationError("Invalid request body"))
		return
	}
	if req.Code == "" {
		writeError(w, apperrors.MissingRequired("code"))
		return
	}

	result, err := h.sessionService.Join(r.Context(), req.Code, req.UserID, req.Nickname)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// GET /v1/sessions/{sessionID}?userId=
func (h *SessionHandler) GetState(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")
	userID := r.URL.Query().Get("userId")

	state, err := h.sessionService.GetState(r.Context(), sessionID, userID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, state)
}

// POST /v1/sessions/{sessionID}/start
func (h *SessionHandler) Start(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")

	var req struct {
		UserID string `json:"userId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apperrors.ValidationError("Invalid request body"))
		return
	}
	if req.UserID == "" {
		writeError(w, apperrors.MissingRequired("userId"))
		return
	}

	if err := h.sessionService.Start(r.Context(), sessionID, req.UserID); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "swiping"})
}

// POST /v1/sessions/{sessionID}/swipes
func (h *SessionHandler) Swipe(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")

	var req struct {
		UserID  string `json:"userId"`
		MovieID int64  `json:"movieId"`
		Liked   *bool  `json:"liked"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apperrors.ValidationError("Invalid request body"))
		return
	}
	if req.UserID == "" {
		writeError(w, apperrors.MissingRequired("userId"))
		return
	}
	if req.MovieID == 0 {
		writeError(w, apperrors.MissingRequired("movieId"))
		return
	}
	if req.Liked == nil {
		writeError(w, apperrors.MissingRequired("liked"))
		return
	}

	result, err := h.sessionService.Swipe(r.Context(), sessionID, req.UserID, req.MovieID, *req.Liked)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// POST /v1/sessions/{sessionID}/reveal
func (h *SessionHandler) Reveal(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")

	if err := h.sessionService.Reveal(r.Context(), sessionID); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "revealed"})
}

// GET /v1/sessions/{sessionID}/matches
func (h *SessionHandler) Matches(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")

	matches, err := h.sessionService.Matches(r.Context(), sessionID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"matches": matches})
}

// GET /v1/sessions/{sessionID}/prematches
func (h *SessionHandler) PreMatches(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")

	prematches, err := h.sessionService.PreMatches(r.Context(), sessionID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"prematches": prematches})
}

// POST /v1/sessions/{sessionID}/watched
func (h *SessionHandler) RecordWatched(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")

	var req struct {
		MovieID int64 `json:"movieId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apperrors.ValidationError("Invalid request body"))
		return
	}
	if req.MovieID == 0 {
		writeError(w, apperrors.MissingRequired("movieId"))
		return
	}

	watched, err := h.sessionService.RecordWatched(r.Context(), sessionID, req.MovieID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, watched)
}

func parseMovieID(raw string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, apperrors.InvalidInput("movieId", "must be a positive integer")
	}
	return id, nil
}

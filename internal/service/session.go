package service

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	apperrors "github.com/reelmatch/reelmatch-server-go/internal/errors"
	"github.com/reelmatch/reelmatch-server-go/internal/model"
	"github.com/reelmatch/reelmatch-server-go/internal/repository"
)

const maxCodeAttempts = 10

// SessionService owns the session lifecycle: lobby -> swiping -> revealed,
// monotonic, no backward transitions.
type SessionService struct {
	sessionRepo     repository.SessionRepository
	participantRepo repository.ParticipantRepository
	swipeRepo       repository.SwipeRepository
	savedRepo       repository.SavedMovieRepository
	watchedRepo     repository.WatchedMovieRepository
	deckBuilder     *DeckBuilder
	codeLength      int
	maxDeckSize     int
	preMatchLimit   int
}

func NewSessionService(
	sessionRepo repository.SessionRepository,
	participantRepo repository.ParticipantRepository,
	swipeRepo repository.SwipeRepository,
	savedRepo repository.SavedMovieRepository,
	watchedRepo repository.WatchedMovieRepository,
	deckBuilder *DeckBuilder,
	codeLength, maxDeckSize, preMatchLimit int,
) *SessionService {
	return &SessionService{
		sessionRepo:     sessionRepo,
		participantRepo: participantRepo,
		swipeRepo:       swipeRepo,
		savedRepo:       savedRepo,
		watchedRepo:     watchedRepo,
		deckBuilder:     deckBuilder,
		codeLength:      codeLength,
		maxDeckSize:     maxDeckSize,
		preMatchLimit:   preMatchLimit,
	}
}

type CreateSessionParams struct {
	HostID   string
	Nickname string
	Source   DeckSource
	DeckSize int
}

type CreateSessionResult struct {
	SessionID string `json:"sessionId"`
	RoomCode  string `json:"roomCode"`
	DeckSize  int    `json:"deckSize"`
}

// Create builds the deck, allocates a unique room code, and writes the
// session plus the host's participant row in one transaction. All external
// lookups happen before the first write, so no transaction ever spans a
// slow upstream call and a failed build leaves no partial session behind.
func (s *SessionService) Create(ctx context.Context, params CreateSessionParams) (*CreateSessionResult, error) {
	if params.HostID == "" {
		return nil, apperrors.MissingRequired("hostId")
	}

	deckSize := params.DeckSize
	if deckSize <= 0 || deckSize > s.maxDeckSize {
		deckSize = s.maxDeckSize
	}

	exclude, err := s.seenMovies(ctx, params.HostID)
	if err != nil {
		return nil, apperrors.Database(err)
	}

	deck, err := s.deckBuilder.BuildDeck(ctx, params.Source, deckSize, exclude)
	if err != nil {
		return nil, err
	}
	if len(deck) == 0 {
		return nil, apperrors.EmptyDeck()
	}

	for attempt := 0; attempt < maxCodeAttempts; attempt++ {
		code := generateRoomCode(s.codeLength)

		existing, err := s.sessionRepo.FindByCode(ctx, code)
		if err != nil {
			return nil, apperrors.Database(err)
		}
		if existing != nil {
			continue
		}

		session, err := s.sessionRepo.CreateWithHost(ctx, model.CreateSessionParams{
			ID:     uuid.NewString(),
			Code:   code,
			HostID: params.HostID,
			Deck:   deck,
		}, params.Nickname)
		if err != nil {
			// another session grabbed this code between check and insert
			if repository.IsUniqueViolation(err) {
				continue
			}
			return nil, apperrors.Database(err)
		}

		log.Info().
			Str("sessionId", session.ID).
			Str("code", code).
			Str("hostId", params.HostID).
			Int("deckSize", len(deck)).
			Msg("session created")

		return &CreateSessionResult{
			SessionID: session.ID,
			RoomCode:  code,
			DeckSize:  len(deck),
		}, nil
	}

	return nil, apperrors.Internal("could not allocate a unique room code")
}

// seenMovies is the deck builder's exclusion set for the filters variant:
// everything the host's past sessions settled on.
func (s *SessionService) seenMovies(ctx context.Context, userID string) (map[int64]struct{}, error) {
	ids, err := s.watchedRepo.MovieIDsByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	seen := make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		seen[id] = struct{}{}
	}
	return seen, nil
}

type JoinResult struct {
	SessionID string `json:"sessionId"`
}

// Join is idempotent: a user who is already a participant gets success
// back even after the session started, so retries are always safe. New
// joins are only accepted while the session is in the lobby.
func (s *SessionService) Join(ctx context.Context, code, userID, nickname string) (*JoinResult, error) {
	if userID == "" {
		return nil, apperrors.MissingRequired("userId")
	}

	session, err := s.sessionRepo.FindByCode(ctx, strings.TrimSpace(code))
	if err != nil {
		return nil, apperrors.Database(err)
	}
	if session == nil {
		return nil, apperrors.NotFound("Session")
	}

	existing, err := s.participantRepo.Find(ctx, session.ID, userID)
	if err != nil {
		return nil, apperrors.Database(err)
	}
	if existing != nil {
		return &JoinResult{SessionID: session.ID}, nil
	}

	if session.Status != model.SessionStatusLobby {
		return nil, apperrors.AlreadyStarted()
	}

	if _, err := s.participantRepo.Create(ctx, model.CreateParticipantParams{
		SessionID: session.ID,
		UserID:    userID,
		Nickname:  nickname,
	}); err != nil {
		return nil, apperrors.Database(err)
	}

	log.Info().
		Str("sessionId", session.ID).
		Str("userId", userID).
		Msg("participant joined")

	return &JoinResult{SessionID: session.ID}, nil
}

// Start transitions lobby -> swiping. Host only; the guarded UPDATE keeps
// the transition monotonic under concurrent calls.
func (s *SessionService) Start(ctx context.Context, sessionID, userID string) error {
	session, err := s.sessionRepo.FindByID(ctx, sessionID)
	if err != nil {
		return apperrors.Database(err)
	}
	if session == nil {
		return apperrors.NotFound("Session")
	}
	if session.HostID != userID {
		return apperrors.Forbidden("Only the host may start the session")
	}

	ok, err := s.sessionRepo.UpdateStatusFrom(ctx, sessionID, model.SessionStatusLobby, model.SessionStatusSwiping)
	if err != nil {
		return apperrors.Database(err)
	}
	if !ok {
		return apperrors.NotInLobby()
	}

	log.Info().Str("sessionId", sessionID).Msg("session started")
	return nil
}

type SwipeResult struct {
	Completed    bool `json:"completed"`
	AllCompleted bool `json:"allCompleted"`
}

// Swipe records the verdict. The repository collapses repeated swipes on
// the same movie to one row and flips the participant's completed flag
// transactionally once their count reaches the deck length.
func (s *SessionService) Swipe(ctx context.Context, sessionID, userID string, movieID int64, liked bool) (*SwipeResult, error) {
	session, err := s.sessionRepo.FindByID(ctx, sessionID)
	if err != nil {
		return nil, apperrors.Database(err)
	}
	if session == nil {
		return nil, apperrors.NotFound("Session")
	}
	if session.Status != model.SessionStatusSwiping {
		return nil, apperrors.NotSwiping()
	}

	participant, err := s.participantRepo.Find(ctx, sessionID, userID)
	if err != nil {
		return nil, apperrors.Database(err)
	}
	if participant == nil {
		return nil, apperrors.Forbidden("Not a participant of this session")
	}

	if !deckContains(session.Deck, movieID) {
		return nil, apperrors.InvalidInput("movieId", "not in this session's deck")
	}

	completed, err := s.swipeRepo.RecordSwipe(ctx, model.UpsertSwipeParams{
		SessionID: sessionID,
		UserID:    userID,
		MovieID:   movieID,
		Liked:     liked,
	}, len(session.Deck))
	if err != nil {
		return nil, apperrors.Database(err)
	}

	result := &SwipeResult{Completed: completed}
	if completed {
		incomplete, err := s.participantRepo.CountIncomplete(ctx, sessionID)
		if err != nil {
			return nil, apperrors.Database(err)
		}
		result.AllCompleted = incomplete == 0
	}

	return result, nil
}

// Reveal flips the session to revealed, unconditionally and idempotently.
// No completion precondition: a host may cut a session short, in which
// case matches are computed over whatever swipes exist.
func (s *SessionService) Reveal(ctx context.Context, sessionID string) error {
	session, err := s.sessionRepo.FindByID(ctx, sessionID)
	if err != nil {
		return apperrors.Database(err)
	}
	if session == nil {
		return apperrors.NotFound("Session")
	}

	if err := s.sessionRepo.MarkRevealed(ctx, sessionID); err != nil {
		return apperrors.Database(err)
	}

	log.Info().Str("sessionId", sessionID).Msg("session revealed")
	return nil
}

type SessionState struct {
	SessionID    string              `json:"sessionId"`
	RoomCode     string              `json:"roomCode"`
	HostID       string              `json:"hostId"`
	Status       model.SessionStatus `json:"status"`
	Deck         []int64             `json:"deck"`
	Participants []model.Participant `json:"participants"`
	UserSwipes   []model.Swipe       `json:"userSwipes,omitempty"`
}

// GetState is the polling read: clients derive "all completed" from the
// participant list and trigger reveal themselves.
func (s *SessionService) GetState(ctx context.Context, sessionID, userID string) (*SessionState, error) {
	session, err := s.sessionRepo.FindByID(ctx, sessionID)
	if err != nil {
		return nil, apperrors.Database(err)
	}
	if session == nil {
		return nil, apperrors.NotFound("Session")
	}

	participants, err := s.participantRepo.FindBySessionID(ctx, sessionID)
	if err != nil {
		return nil, apperrors.Database(err)
	}

	state := &SessionState{
		SessionID:    session.ID,
		RoomCode:     session.Code,
		HostID:       session.HostID,
		Status:       session.Status,
		Deck:         session.Deck,
		Participants: participants,
	}

	if userID != "" {
		swipes, err := s.swipeRepo.FindBySessionAndUser(ctx, sessionID, userID)
		if err != nil {
			return nil, apperrors.Database(err)
		}
		state.UserSwipes = swipes
	}

	return state, nil
}

// Matches computes the movies every participant liked. Always a fresh read
// so the client can re-fetch after reveal; a participant with no swipes
// suppresses all matches by design.
func (s *SessionService) Matches(ctx context.Context, sessionID string) ([]int64, error) {
	session, err := s.sessionRepo.FindByID(ctx, sessionID)
	if err != nil {
		return nil, apperrors.Database(err)
	}
	if session == nil {
		return nil, apperrors.NotFound("Session")
	}

	participants, err := s.participantRepo.FindBySessionID(ctx, sessionID)
	if err != nil {
		return nil, apperrors.Database(err)
	}
	swipes, err := s.swipeRepo.FindBySessionID(ctx, sessionID)
	if err != nil {
		return nil, apperrors.Database(err)
	}

	ids := make([]string, len(participants))
	for i, p := range participants {
		ids[i] = p.UserID
	}

	return ComputeMatches(session.Deck, swipes, ids), nil
}

// PreMatches intersects the participants' saved-movie lists: "you already
// agree on N movies" shown before swiping starts.
func (s *SessionService) PreMatches(ctx context.Context, sessionID string) ([]PreMatch, error) {
	session, err := s.sessionRepo.FindByID(ctx, sessionID)
	if err != nil {
		return nil, apperrors.Database(err)
	}
	if session == nil {
		return nil, apperrors.NotFound("Session")
	}

	participants, err := s.participantRepo.FindBySessionID(ctx, session.ID)
	if err != nil {
		return nil, apperrors.Database(err)
	}

	ids := make([]string, len(participants))
	for i, p := range participants {
		ids[i] = p.UserID
	}

	saved, err := s.savedRepo.FindByUserIDs(ctx, ids)
	if err != nil {
		return nil, apperrors.Database(err)
	}

	return ComputePreMatches(saved, s.preMatchLimit), nil
}

// RecordWatched stores the movie the group settled on; future filter decks
// for these participants exclude it.
func (s *SessionService) RecordWatched(ctx context.Context, sessionID string, movieID int64) (*model.WatchedMovie, error) {
	session, err := s.sessionRepo.FindByID(ctx, sessionID)
	if err != nil {
		return nil, apperrors.Database(err)
	}
	if session == nil {
		return nil, apperrors.NotFound("Session")
	}

	watched, err := s.watchedRepo.Create(ctx, uuid.NewString(), sessionID, movieID)
	if err != nil {
		return nil, apperrors.Database(err)
	}
	return watched, nil
}

func deckContains(deck []int64, movieID int64) bool {
	for _, id := range deck {
		if id == movieID {
			return true
		}
	}
	return false
}

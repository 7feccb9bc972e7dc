package service

import (
	"context"
	"testing"
	"time"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	apperrors "github.com/reelmatch/reelmatch-server-go/internal/errors"
	"github.com/reelmatch/reelmatch-server-go/internal/metadata"
	"github.com/reelmatch/reelmatch-server-go/internal/model"
)

type mockSessionRepo struct {
	mock.Mock
}

func (m *mockSessionRepo) FindByID(ctx context.Context, id string) (*model.Session, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Session), args.Error(1)
}

func (m *mockSessionRepo) FindByCode(ctx context.Context, code string) (*model.Session, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Session), args.Error(1)
}

func (m *mockSessionRepo) CreateWithHost(ctx context.Context, params model.CreateSessionParams, hostNickname string) (*model.Session, error) {
	args := m.Called(ctx, params, hostNickname)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Session), args.Error(1)
}

func (m *mockSessionRepo) UpdateStatusFrom(ctx context.Context, id string, from, to model.SessionStatus) (bool, error) {
	args := m.Called(ctx, id, from, to)
	return args.Bool(0), args.Error(1)
}

func (m *mockSessionRepo) MarkRevealed(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *mockSessionRepo) DeleteAbandonedLobbies(ctx context.Context, olderThan time.Duration) (int64, error) {
	args := m.Called(ctx, olderThan)
	return args.Get(0).(int64), args.Error(1)
}

type mockParticipantRepo struct {
	mock.Mock
}

func (m *mockParticipantRepo) Find(ctx context.Context, sessionID, userID string) (*model.Participant, error) {
	args := m.Called(ctx, sessionID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Participant), args.Error(1)
}

func (m *mockParticipantRepo) FindBySessionID(ctx context.Context, sessionID string) ([]model.Participant, error) {
	args := m.Called(ctx, sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Participant), args.Error(1)
}

func (m *mockParticipantRepo) Create(ctx context.Context, params model.CreateParticipantParams) (*model.Participant, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Participant), args.Error(1)
}

func (m *mockParticipantRepo) CountIncomplete(ctx context.Context, sessionID string) (int, error) {
	args := m.Called(ctx, sessionID)
	return args.Int(0), args.Error(1)
}

type mockSwipeRepo struct {
	mock.Mock
}

func (m *mockSwipeRepo) RecordSwipe(ctx context.Context, params model.UpsertSwipeParams, deckSize int) (bool, error) {
	args := m.Called(ctx, params, deckSize)
	return args.Bool(0), args.Error(1)
}

func (m *mockSwipeRepo) FindBySessionID(ctx context.Context, sessionID string) ([]model.Swipe, error) {
	args := m.Called(ctx, sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Swipe), args.Error(1)
}

func (m *mockSwipeRepo) FindBySessionAndUser(ctx context.Context, sessionID, userID string) ([]model.Swipe, error) {
	args := m.Called(ctx, sessionID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Swipe), args.Error(1)
}

func (m *mockSwipeRepo) CountBySessionAndUser(ctx context.Context, sessionID, userID string) (int, error) {
	args := m.Called(ctx, sessionID, userID)
	return args.Int(0), args.Error(1)
}

type mockSavedMovieRepo struct {
	mock.Mock
}

func (m *mockSavedMovieRepo) FindByUserID(ctx context.Context, userID string) ([]model.SavedMovie, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.SavedMovie), args.Error(1)
}

func (m *mockSavedMovieRepo) FindByUserIDs(ctx context.Context, userIDs []string) ([]model.SavedMovie, error) {
	args := m.Called(ctx, userIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.SavedMovie), args.Error(1)
}

func (m *mockSavedMovieRepo) Save(ctx context.Context, userID string, movieID int64) error {
	args := m.Called(ctx, userID, movieID)
	return args.Error(0)
}

func (m *mockSavedMovieRepo) Remove(ctx context.Context, userID string, movieID int64) error {
	args := m.Called(ctx, userID, movieID)
	return args.Error(0)
}

type mockWatchedMovieRepo struct {
	mock.Mock
}

func (m *mockWatchedMovieRepo) Create(ctx context.Context, id, sessionID string, movieID int64) (*model.WatchedMovie, error) {
	args := m.Called(ctx, id, sessionID, movieID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.WatchedMovie), args.Error(1)
}

func (m *mockWatchedMovieRepo) FindByUserID(ctx context.Context, userID string) ([]model.WatchedMovie, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.WatchedMovie), args.Error(1)
}

func (m *mockWatchedMovieRepo) MovieIDsByUserID(ctx context.Context, userID string) ([]int64, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]int64), args.Error(1)
}

type sessionServiceFixture struct {
	sessions     *mockSessionRepo
	participants *mockParticipantRepo
	swipes       *mockSwipeRepo
	saved        *mockSavedMovieRepo
	watched      *mockWatchedMovieRepo
	catalog      *mockCatalog
	svc          *SessionService
}

func newSessionServiceFixture() *sessionServiceFixture {
	f := &sessionServiceFixture{
		sessions:     new(mockSessionRepo),
		participants: new(mockParticipantRepo),
		swipes:       new(mockSwipeRepo),
		saved:        new(mockSavedMovieRepo),
		watched:      new(mockWatchedMovieRepo),
		catalog:      new(mockCatalog),
	}
	builder := NewDeckBuilder(f.catalog, nil, 10, 5)
	f.svc = NewSessionService(f.sessions, f.participants, f.swipes, f.saved, f.watched, builder, 4, 25, 10)
	return f
}

func swipingSession(deck ...int64) *model.Session {
	return &model.Session{
		ID:     "sess-1",
		Code:   "ABCD",
		HostID: "host-1",
		Status: model.SessionStatusSwiping,
		Deck:   deck,
	}
}

func lobbySession() *model.Session {
	return &model.Session{
		ID:     "sess-1",
		Code:   "ABCD",
		HostID: "host-1",
		Status: model.SessionStatusLobby,
		Deck:   []int64{1, 2, 3},
	}
}

func TestSessionServiceCreate(t *testing.T) {
	ctx := context.Background()

	createParams := CreateSessionParams{
		HostID:   "host-1",
		Nickname: "Ana",
		Source:   filtersSource(),
		DeckSize: 3,
	}

	stubDiscovery := func(f *sessionServiceFixture, ids ...int64) {
		f.catalog.On("DiscoverMovies", ctx, metadata.Filters{}, 1).
			Return(&metadata.DiscoverPage{MovieIDs: ids, Page: 1, TotalPages: 1}, nil)
		allDetailsAvailable(f.catalog)
	}

	t.Run("builds a deck and writes the session with the host enrolled", func(t *testing.T) {
		f := newSessionServiceFixture()
		stubDiscovery(f, 10, 20, 30)
		f.watched.On("MovieIDsByUserID", ctx, "host-1").Return([]int64{}, nil)
		f.sessions.On("FindByCode", ctx, mock.AnythingOfType("string")).Return(nil, nil)
		f.sessions.On("CreateWithHost", ctx, mock.MatchedBy(func(p model.CreateSessionParams) bool {
			return p.HostID == "host-1" && len(p.Deck) == 3 && len(p.Code) == 4
		}), "Ana").Return(&model.Session{ID: "sess-1", Status: model.SessionStatusLobby}, nil)

		result, err := f.svc.Create(ctx, createParams)
		require.NoError(t, err)
		assert.Equal(t, "sess-1", result.SessionID)
		assert.Len(t, result.RoomCode, 4)
		assert.Equal(t, 3, result.DeckSize)
	})

	t.Run("excludes the host's previously watched movies", func(t *testing.T) {
		f := newSessionServiceFixture()
		stubDiscovery(f, 10, 20, 30, 40)
		f.watched.On("MovieIDsByUserID", ctx, "host-1").Return([]int64{10, 30}, nil)
		f.sessions.On("FindByCode", ctx, mock.AnythingOfType("string")).Return(nil, nil)
		f.sessions.On("CreateWithHost", ctx, mock.MatchedBy(func(p model.CreateSessionParams) bool {
			return assert.ObjectsAreEqual([]int64{20, 40}, []int64(p.Deck))
		}), "Ana").Return(&model.Session{ID: "sess-1"}, nil)

		result, err := f.svc.Create(ctx, createParams)
		require.NoError(t, err)
		assert.Equal(t, 2, result.DeckSize)
	})

	t.Run("requires a host id", func(t *testing.T) {
		f := newSessionServiceFixture()

		_, err := f.svc.Create(ctx, CreateSessionParams{Source: filtersSource()})
		require.Error(t, err)
		assert.Equal(t, apperrors.ErrCodeMissingRequired, apperrors.GetCode(err))
	})

	t.Run("an empty deck fails the create", func(t *testing.T) {
		f := newSessionServiceFixture()
		stubDiscovery(f)
		f.watched.On("MovieIDsByUserID", ctx, "host-1").Return([]int64{}, nil)

		_, err := f.svc.Create(ctx, createParams)
		require.Error(t, err)
		assert.Equal(t, apperrors.ErrCodeEmptyDeck, apperrors.GetCode(err))
		f.sessions.AssertNotCalled(t, "CreateWithHost", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("retries when the generated code is taken", func(t *testing.T) {
		f := newSessionServiceFixture()
		stubDiscovery(f, 10, 20, 30)
		f.watched.On("MovieIDsByUserID", ctx, "host-1").Return([]int64{}, nil)
		f.sessions.On("FindByCode", ctx, mock.AnythingOfType("string")).
			Return(&model.Session{ID: "other"}, nil).Once()
		f.sessions.On("FindByCode", ctx, mock.AnythingOfType("string")).Return(nil, nil)
		f.sessions.On("CreateWithHost", ctx, mock.Anything, "Ana").
			Return(&model.Session{ID: "sess-1"}, nil)

		result, err := f.svc.Create(ctx, createParams)
		require.NoError(t, err)
		assert.Equal(t, "sess-1", result.SessionID)
		f.sessions.AssertNumberOfCalls(t, "FindByCode", 2)
	})

	t.Run("retries when the insert loses the code race", func(t *testing.T) {
		f := newSessionServiceFixture()
		stubDiscovery(f, 10, 20, 30)
		f.watched.On("MovieIDsByUserID", ctx, "host-1").Return([]int64{}, nil)
		f.sessions.On("FindByCode", ctx, mock.AnythingOfType("string")).Return(nil, nil)
		f.sessions.On("CreateWithHost", ctx, mock.Anything, "Ana").
			Return(nil, &pq.Error{Code: "23505"}).Once()
		f.sessions.On("CreateWithHost", ctx, mock.Anything, "Ana").
			Return(&model.Session{ID: "sess-1"}, nil)

		result, err := f.svc.Create(ctx, createParams)
		require.NoError(t, err)
		assert.Equal(t, "sess-1", result.SessionID)
		f.sessions.AssertNumberOfCalls(t, "CreateWithHost", 2)
	})

	t.Run("oversized deck request is clamped to the maximum", func(t *testing.T) {
		f := newSessionServiceFixture()
		ids := make([]int64, 40)
		for i := range ids {
			ids[i] = int64(i + 1)
		}
		stubDiscovery(f, ids...)
		f.watched.On("MovieIDsByUserID", ctx, "host-1").Return([]int64{}, nil)
		f.sessions.On("FindByCode", ctx, mock.AnythingOfType("string")).Return(nil, nil)
		f.sessions.On("CreateWithHost", ctx, mock.Anything, "Ana").
			Return(&model.Session{ID: "sess-1"}, nil)

		oversized := createParams
		oversized.DeckSize = 500

		result, err := f.svc.Create(ctx, oversized)
		require.NoError(t, err)
		assert.Equal(t, 25, result.DeckSize)
	})
}

func TestSessionServiceJoin(t *testing.T) {
	ctx := context.Background()

	t.Run("adds a new participant to a lobby session", func(t *testing.T) {
		f := newSessionServiceFixture()
		f.sessions.On("FindByCode", ctx, "ABCD").Return(lobbySession(), nil)
		f.participants.On("Find", ctx, "sess-1", "user-2").Return(nil, nil)
		f.participants.On("Create", ctx, model.CreateParticipantParams{
			SessionID: "sess-1",
			UserID:    "user-2",
			Nickname:  "Ben",
		}).Return(&model.Participant{SessionID: "sess-1", UserID: "user-2"}, nil)

		result, err := f.svc.Join(ctx, "ABCD", "user-2", "Ben")
		require.NoError(t, err)
		assert.Equal(t, "sess-1", result.SessionID)
	})

	t.Run("unknown code is not found", func(t *testing.T) {
		f := newSessionServiceFixture()
		f.sessions.On("FindByCode", ctx, "ZZZZ").Return(nil, nil)

		_, err := f.svc.Join(ctx, "ZZZZ", "user-2", "Ben")
		require.Error(t, err)
		assert.Equal(t, apperrors.ErrCodeNotFound, apperrors.GetCode(err))
	})

	t.Run("new joins are rejected once swiping started", func(t *testing.T) {
		f := newSessionServiceFixture()
		f.sessions.On("FindByCode", ctx, "ABCD").Return(swipingSession(1, 2, 3), nil)
		f.participants.On("Find", ctx, "sess-1", "user-2").Return(nil, nil)

		_, err := f.svc.Join(ctx, "ABCD", "user-2", "Ben")
		require.Error(t, err)
		assert.Equal(t, apperrors.ErrCodeAlreadyStarted, apperrors.GetCode(err))
	})

	t.Run("an existing participant may rejoin after start", func(t *testing.T) {
		f := newSessionServiceFixture()
		f.sessions.On("FindByCode", ctx, "ABCD").Return(swipingSession(1, 2, 3), nil)
		f.participants.On("Find", ctx, "sess-1", "user-2").
			Return(&model.Participant{SessionID: "sess-1", UserID: "user-2"}, nil)

		result, err := f.svc.Join(ctx, "ABCD", "user-2", "Ben")
		require.NoError(t, err)
		assert.Equal(t, "sess-1", result.SessionID)
		f.participants.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})
}

func TestSessionServiceStart(t *testing.T) {
	ctx := context.Background()

	t.Run("host starts a lobby session", func(t *testing.T) {
		f := newSessionServiceFixture()
		f.sessions.On("FindByID", ctx, "sess-1").Return(lobbySession(), nil)
		f.sessions.On("UpdateStatusFrom", ctx, "sess-1", model.SessionStatusLobby, model.SessionStatusSwiping).
			Return(true, nil)

		require.NoError(t, f.svc.Start(ctx, "sess-1", "host-1"))
	})

	t.Run("only the host may start", func(t *testing.T) {
		f := newSessionServiceFixture()
		f.sessions.On("FindByID", ctx, "sess-1").Return(lobbySession(), nil)

		err := f.svc.Start(ctx, "sess-1", "user-2")
		require.Error(t, err)
		assert.Equal(t, apperrors.ErrCodeForbidden, apperrors.GetCode(err))
		f.sessions.AssertNotCalled(t, "UpdateStatusFrom", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("a second start reports the session is no longer in the lobby", func(t *testing.T) {
		f := newSessionServiceFixture()
		f.sessions.On("FindByID", ctx, "sess-1").Return(swipingSession(1, 2, 3), nil)
		f.sessions.On("UpdateStatusFrom", ctx, "sess-1", model.SessionStatusLobby, model.SessionStatusSwiping).
			Return(false, nil)

		err := f.svc.Start(ctx, "sess-1", "host-1")
		require.Error(t, err)
		assert.Equal(t, apperrors.ErrCodeNotInLobby, apperrors.GetCode(err))
	})
}

func TestSessionServiceSwipe(t *testing.T) {
	ctx := context.Background()

	participant := &model.Participant{SessionID: "sess-1", UserID: "user-2"}

	t.Run("records a swipe without completion", func(t *testing.T) {
		f := newSessionServiceFixture()
		f.sessions.On("FindByID", ctx, "sess-1").Return(swipingSession(1, 2, 3), nil)
		f.participants.On("Find", ctx, "sess-1", "user-2").Return(participant, nil)
		f.swipes.On("RecordSwipe", ctx, model.UpsertSwipeParams{
			SessionID: "sess-1",
			UserID:    "user-2",
			MovieID:   2,
			Liked:     true,
		}, 3).Return(false, nil)

		result, err := f.svc.Swipe(ctx, "sess-1", "user-2", 2, true)
		require.NoError(t, err)
		assert.False(t, result.Completed)
		assert.False(t, result.AllCompleted)
		f.participants.AssertNotCalled(t, "CountIncomplete", mock.Anything, mock.Anything)
	})

	t.Run("final swipe reports completion and checks the rest of the group", func(t *testing.T) {
		f := newSessionServiceFixture()
		f.sessions.On("FindByID", ctx, "sess-1").Return(swipingSession(1, 2, 3), nil)
		f.participants.On("Find", ctx, "sess-1", "user-2").Return(participant, nil)
		f.swipes.On("RecordSwipe", ctx, mock.Anything, 3).Return(true, nil)
		f.participants.On("CountIncomplete", ctx, "sess-1").Return(0, nil)

		result, err := f.svc.Swipe(ctx, "sess-1", "user-2", 3, false)
		require.NoError(t, err)
		assert.True(t, result.Completed)
		assert.True(t, result.AllCompleted)
	})

	t.Run("completion with others still swiping is not all-completed", func(t *testing.T) {
		f := newSessionServiceFixture()
		f.sessions.On("FindByID", ctx, "sess-1").Return(swipingSession(1, 2, 3), nil)
		f.participants.On("Find", ctx, "sess-1", "user-2").Return(participant, nil)
		f.swipes.On("RecordSwipe", ctx, mock.Anything, 3).Return(true, nil)
		f.participants.On("CountIncomplete", ctx, "sess-1").Return(2, nil)

		result, err := f.svc.Swipe(ctx, "sess-1", "user-2", 3, true)
		require.NoError(t, err)
		assert.True(t, result.Completed)
		assert.False(t, result.AllCompleted)
	})

	t.Run("swiping before start is rejected", func(t *testing.T) {
		f := newSessionServiceFixture()
		f.sessions.On("FindByID", ctx, "sess-1").Return(lobbySession(), nil)

		_, err := f.svc.Swipe(ctx, "sess-1", "user-2", 1, true)
		require.Error(t, err)
		assert.Equal(t, apperrors.ErrCodeNotSwiping, apperrors.GetCode(err))
	})

	t.Run("non-participants may not swipe", func(t *testing.T) {
		f := newSessionServiceFixture()
		f.sessions.On("FindByID", ctx, "sess-1").Return(swipingSession(1, 2, 3), nil)
		f.participants.On("Find", ctx, "sess-1", "stranger").Return(nil, nil)

		_, err := f.svc.Swipe(ctx, "sess-1", "stranger", 1, true)
		require.Error(t, err)
		assert.Equal(t, apperrors.ErrCodeForbidden, apperrors.GetCode(err))
	})

	t.Run("movies outside the deck are rejected", func(t *testing.T) {
		f := newSessionServiceFixture()
		f.sessions.On("FindByID", ctx, "sess-1").Return(swipingSession(1, 2, 3), nil)
		f.participants.On("Find", ctx, "sess-1", "user-2").Return(participant, nil)

		_, err := f.svc.Swipe(ctx, "sess-1", "user-2", 99, true)
		require.Error(t, err)
		assert.Equal(t, apperrors.ErrCodeInvalidInput, apperrors.GetCode(err))
		f.swipes.AssertNotCalled(t, "RecordSwipe", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestSessionServiceReveal(t *testing.T) {
	ctx := context.Background()

	t.Run("marks the session revealed", func(t *testing.T) {
		f := newSessionServiceFixture()
		f.sessions.On("FindByID", ctx, "sess-1").Return(swipingSession(1, 2, 3), nil)
		f.sessions.On("MarkRevealed", ctx, "sess-1").Return(nil)

		require.NoError(t, f.svc.Reveal(ctx, "sess-1"))
	})

	t.Run("revealing a revealed session is a no-op success", func(t *testing.T) {
		f := newSessionServiceFixture()
		revealed := swipingSession(1, 2, 3)
		revealed.Status = model.SessionStatusRevealed
		f.sessions.On("FindByID", ctx, "sess-1").Return(revealed, nil)
		f.sessions.On("MarkRevealed", ctx, "sess-1").Return(nil)

		require.NoError(t, f.svc.Reveal(ctx, "sess-1"))
	})

	t.Run("unknown session is not found", func(t *testing.T) {
		f := newSessionServiceFixture()
		f.sessions.On("FindByID", ctx, "missing").Return(nil, nil)

		err := f.svc.Reveal(ctx, "missing")
		require.Error(t, err)
		assert.Equal(t, apperrors.ErrCodeNotFound, apperrors.GetCode(err))
	})
}

func TestSessionServiceGetState(t *testing.T) {
	ctx := context.Background()

	participants := []model.Participant{
		{SessionID: "sess-1", UserID: "host-1", Completed: true},
		{SessionID: "sess-1", UserID: "user-2"},
	}

	t.Run("returns the shared view without a user filter", func(t *testing.T) {
		f := newSessionServiceFixture()
		f.sessions.On("FindByID", ctx, "sess-1").Return(swipingSession(1, 2, 3), nil)
		f.participants.On("FindBySessionID", ctx, "sess-1").Return(participants, nil)

		state, err := f.svc.GetState(ctx, "sess-1", "")
		require.NoError(t, err)
		assert.Equal(t, "ABCD", state.RoomCode)
		assert.Equal(t, model.SessionStatusSwiping, state.Status)
		assert.Equal(t, []int64{1, 2, 3}, state.Deck)
		assert.Len(t, state.Participants, 2)
		assert.Nil(t, state.UserSwipes)
		f.swipes.AssertNotCalled(t, "FindBySessionAndUser", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("includes the caller's swipes when a user is given", func(t *testing.T) {
		f := newSessionServiceFixture()
		f.sessions.On("FindByID", ctx, "sess-1").Return(swipingSession(1, 2, 3), nil)
		f.participants.On("FindBySessionID", ctx, "sess-1").Return(participants, nil)
		f.swipes.On("FindBySessionAndUser", ctx, "sess-1", "user-2").Return([]model.Swipe{
			{SessionID: "sess-1", UserID: "user-2", MovieID: 1, Liked: true},
		}, nil)

		state, err := f.svc.GetState(ctx, "sess-1", "user-2")
		require.NoError(t, err)
		require.Len(t, state.UserSwipes, 1)
		assert.Equal(t, int64(1), state.UserSwipes[0].MovieID)
	})
}

func TestSessionServiceMatches(t *testing.T) {
	ctx := context.Background()

	t.Run("intersects likes across participants", func(t *testing.T) {
		f := newSessionServiceFixture()
		f.sessions.On("FindByID", ctx, "sess-1").Return(swipingSession(1, 2, 3), nil)
		f.participants.On("FindBySessionID", ctx, "sess-1").Return([]model.Participant{
			{SessionID: "sess-1", UserID: "host-1"},
			{SessionID: "sess-1", UserID: "user-2"},
		}, nil)
		f.swipes.On("FindBySessionID", ctx, "sess-1").Return([]model.Swipe{
			{SessionID: "sess-1", UserID: "host-1", MovieID: 1, Liked: true},
			{SessionID: "sess-1", UserID: "host-1", MovieID: 2, Liked: true},
			{SessionID: "sess-1", UserID: "user-2", MovieID: 2, Liked: true},
			{SessionID: "sess-1", UserID: "user-2", MovieID: 1, Liked: false},
		}, nil)

		matches, err := f.svc.Matches(ctx, "sess-1")
		require.NoError(t, err)
		assert.Equal(t, []int64{2}, matches)
	})
}

func TestSessionServicePreMatches(t *testing.T) {
	ctx := context.Background()

	t.Run("ranks movies saved by more than one participant", func(t *testing.T) {
		f := newSessionServiceFixture()
		f.sessions.On("FindByID", ctx, "sess-1").Return(lobbySession(), nil)
		f.participants.On("FindBySessionID", ctx, "sess-1").Return([]model.Participant{
			{SessionID: "sess-1", UserID: "host-1"},
			{SessionID: "sess-1", UserID: "user-2"},
		}, nil)
		f.saved.On("FindByUserIDs", ctx, []string{"host-1", "user-2"}).Return([]model.SavedMovie{
			{UserID: "host-1", MovieID: 7},
			{UserID: "user-2", MovieID: 7},
			{UserID: "host-1", MovieID: 9},
		}, nil)

		prematches, err := f.svc.PreMatches(ctx, "sess-1")
		require.NoError(t, err)
		require.Len(t, prematches, 1)
		assert.Equal(t, int64(7), prematches[0].MovieID)
		assert.Equal(t, 2, prematches[0].Savers)
	})
}

func TestSessionServiceRecordWatched(t *testing.T) {
	ctx := context.Background()

	t.Run("stores the group's pick", func(t *testing.T) {
		f := newSessionServiceFixture()
		f.sessions.On("FindByID", ctx, "sess-1").Return(swipingSession(1, 2, 3), nil)
		f.watched.On("Create", ctx, mock.AnythingOfType("string"), "sess-1", int64(2)).
			Return(&model.WatchedMovie{SessionID: "sess-1", MovieID: 2}, nil)

		watched, err := f.svc.RecordWatched(ctx, "sess-1", 2)
		require.NoError(t, err)
		assert.Equal(t, int64(2), watched.MovieID)
	})
}

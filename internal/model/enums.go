package model

// SessionStatus is the lifecycle state of a session. Transitions are
// monotonic: lobby -> swiping -> revealed.
type SessionStatus string

const (
	SessionStatusLobby    SessionStatus = "lobby"
	SessionStatusSwiping  SessionStatus = "swiping"
	SessionStatusRevealed SessionStatus = "revealed"
)

// DeckSourceType discriminates the deck source union.
type DeckSourceType string

const (
	DeckSourceFilters DeckSourceType = "filters"
	DeckSourceURL     DeckSourceType = "url"
	DeckSourceText    DeckSourceType = "text"
)

package model

import "time"

// Participant is a user's membership in a session. A user joins a session
// at most once; Completed flips true when their swipe count reaches the
// deck length.
type Participant struct {
	SessionID string    `db:"session_id" json:"sessionId"`
	UserID    string    `db:"user_id" json:"userId"`
	Nickname  string    `db:"nickname" json:"nickname"`
	Completed bool      `db:"completed" json:"completed"`
	JoinedAt  time.Time `db:"joined_at" json:"joinedAt"`
}

type CreateParticipantParams struct {
	SessionID string
	UserID    string
	Nickname  string
}

package model

import "time"

// Swipe is one user's verdict on one movie within one session. The
// (session, user, movie) triple is unique; a repeated swipe overwrites
// the stored Liked value.
type Swipe struct {
	SessionID string    `db:"session_id" json:"sessionId"`
	UserID    string    `db:"user_id" json:"userId"`
	MovieID   int64     `db:"movie_id" json:"movieId"`
	Liked     bool      `db:"liked" json:"liked"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time `db:"updated_at" json:"updatedAt"`
}

type UpsertSwipeParams struct {
	SessionID string
	UserID    string
	MovieID   int64
	Liked     bool
}

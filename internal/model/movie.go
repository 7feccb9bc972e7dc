package model

import "time"

// SavedMovie is an entry on a user's personal watchlist, maintained outside
// of any session. The pre-match engine intersects these lists.
type SavedMovie struct {
	UserID    string    `db:"user_id" json:"userId"`
	MovieID   int64     `db:"movie_id" json:"movieId"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}

// WatchedMovie records the movie a session's participants ultimately
// settled on. It is history, not matching input, except that watched
// movie IDs feed the deck builder's exclusion set.
type WatchedMovie struct {
	ID        string    `db:"id" json:"id"`
	SessionID string    `db:"session_id" json:"sessionId"`
	MovieID   int64     `db:"movie_id" json:"movieId"`
	WatchedAt time.Time `db:"watched_at" json:"watchedAt"`
}

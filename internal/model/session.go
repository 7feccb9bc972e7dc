package model

import (
	"time"

	"github.com/lib/pq"
)

// Session is one group matching round. The deck is fixed at creation and
// never changes afterwards.
type Session struct {
	ID         string        `db:"id" json:"id"`
	Code       string        `db:"code" json:"code"`
	HostID     string        `db:"host_id" json:"hostId"`
	Status     SessionStatus `db:"status" json:"status"`
	Deck       pq.Int64Array `db:"deck" json:"deck"`
	CreatedAt  time.Time     `db:"created_at" json:"createdAt"`
	StartedAt  *time.Time    `db:"started_at" json:"startedAt,omitempty"`
	RevealedAt *time.Time    `db:"revealed_at" json:"revealedAt,omitempty"`
}

type CreateSessionParams struct {
	ID     string
	Code   string
	HostID string
	Deck   []int64
}

package domain

import "time"

// Election statuses. Transitions only move forward: draft -> open -> closed.
const (
	ElectionStatusDraft  = "draft"
	ElectionStatusOpen   = "open"
	ElectionStatusClosed = "closed"
)

type Election struct {
	ID         uint       `json:"id"`
	Title      string     `json:"title"`
	Type       string     `json:"type"`
	Status     string     `json:"status"`
	EndDate    time.Time  `json:"end_date"`
	TotalVotes int        `json:"total_votes"`
	Positions  []Position `json:"positions"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

// Ended reports whether the election's end date has passed. An election with
// a zero end date never counts as ended.
func (e Election) Ended(now time.Time) bool {
	return !e.EndDate.IsZero() && e.EndDate.Before(now)
}

// Position is an electable office within an election.
type Position struct {
	ID         uint        `json:"id"`
	ElectionID uint        `json:"election_id"`
	Title      string      `json:"title"`
	Candidates []Candidate `json:"candidates"`
}

type Candidate struct {
	ID         uint   `json:"id"`
	PositionID uint   `json:"position_id"`
	Name       string `json:"name"`
	Classroom  string `json:"classroom"`
	Votes      int    `json:"votes"`
}

// ElectionUpdate carries a partial election edit. Status is not part of it;
// status moves only through the open/close transitions.
type ElectionUpdate struct {
	Title   *string    `json:"title"`
	Type    *string    `json:"type"`
	EndDate *time.Time `json:"end_date"`
}

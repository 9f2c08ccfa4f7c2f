package domain

import "time"

// Vote records that a student voted in an election. The token is the anonymous
// receipt handed back to the voter. Individual choices are tallied onto the
// candidates at cast time and never stored against the student's identity.
type Vote struct {
	ID         string    `json:"id"`
	StudentID  uint      `json:"-"`
	ElectionID uint      `json:"election_id"`
	Token      string    `json:"token"`
	CreatedAt  time.Time `json:"created_at"`
}

// VoteChoice is one position/candidate pick on a cast ballot.
type VoteChoice struct {
	PositionID  uint `json:"position_id"`
	CandidateID uint `json:"candidate_id"`
}

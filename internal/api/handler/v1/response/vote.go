package response

// VoteReceipt is all a voter gets back: the anonymous receipt token. The vote
// record itself stays server-side.
type VoteReceipt struct {
	Token string `json:"token"`
}

type TokenVerification struct {
	Token string `json:"token"`
	Valid bool   `json:"valid"`
}

type HasVoted struct {
	ElectionID uint `json:"election_id"`
	StudentID  uint `json:"student_id"`
	HasVoted   bool `json:"has_voted"`
}

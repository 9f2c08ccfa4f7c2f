package domain

// PublicResults is an election's outcome as shaped by its display settings:
// skipped positions are omitted, hidden raw scores are nil, winner-only
// positions carry only the leading candidates.
type PublicResults struct {
	ElectionID uint                   `json:"election_id"`
	Title      string                 `json:"title"`
	Type       string                 `json:"type"`
	TotalVotes int                    `json:"total_votes"`
	Positions  []PublicPositionResult `json:"positions"`
}

type PublicPositionResult struct {
	PositionID uint                    `json:"position_id"`
	Title      string                  `json:"title"`
	WinnerOnly bool                    `json:"winner_only"`
	Candidates []PublicCandidateResult `json:"candidates"`
}

type PublicCandidateResult struct {
	Name      string `json:"name"`
	Classroom string `json:"classroom,omitempty"`
	Votes     *int   `json:"votes,omitempty"`
}

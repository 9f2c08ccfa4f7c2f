package request

import (
	validation "github.com/go-ozzo/ozzo-validation"
)

type BallotChoice struct {
	PositionID  uint `json:"position_id"`
	CandidateID uint `json:"candidate_id"`
}

type CastVoteRequest struct {
	StudentID  uint           `json:"student_id"`
	NationalID string         `json:"national_id"`
	Choices    []BallotChoice `json:"choices"`
}

func (req *CastVoteRequest) Validate() error {
	err := validation.ValidateStruct(
		req,
		validation.Field(&req.StudentID, validation.Required, validation.Min(uint(1))),
		validation.Field(&req.NationalID, validation.Required, validation.Length(1, 30)),
		validation.Field(&req.Choices, validation.Required),
	)
	if err != nil {
		return err
	}

	for _, c := range req.Choices {
		if err = validation.ValidateStruct(&c,
			validation.Field(&c.PositionID, validation.Required, validation.Min(uint(1))),
			validation.Field(&c.CandidateID, validation.Required, validation.Min(uint(1))),
		); err != nil {
			return err
		}
	}

	return nil
}

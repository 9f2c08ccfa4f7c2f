package request

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation"
)

type CandidatePayload struct {
	Name      string `json:"name"`
	Classroom string `json:"classroom"`
}

type PositionPayload struct {
	Title      string             `json:"title"`
	Candidates []CandidatePayload `json:"candidates"`
}

type CreateElectionRequest struct {
	Title     string            `json:"title"`
	Type      string            `json:"type"`
	EndDate   time.Time         `json:"end_date"`
	Positions []PositionPayload `json:"positions"`
}

func (req *CreateElectionRequest) Validate() error {
	err := validation.ValidateStruct(
		req,
		validation.Field(&req.Title, validation.Required, validation.Length(2, 100)),
		validation.Field(&req.Type, validation.Length(0, 50)),
	)
	if err != nil {
		return err
	}

	for _, p := range req.Positions {
		if err = validation.ValidateStruct(&p,
			validation.Field(&p.Title, validation.Required, validation.Length(1, 100)),
		); err != nil {
			return err
		}
	}

	return nil
}

type UpdateElectionRequest struct {
	Title   *string    `json:"title,omitempty"`
	Type    *string    `json:"type,omitempty"`
	EndDate *time.Time `json:"end_date,omitempty"`
}

func (req *UpdateElectionRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Title, validation.NilOrNotEmpty, validation.Length(2, 100)),
	)
}

package request

import (
	validation "github.com/go-ozzo/ozzo-validation"
)

type CreateStudentRequest struct {
	ID          uint   `json:"id"`
	ClassNumber int    `json:"class_number"`
	Name        string `json:"name"`
	Surname     string `json:"surname"`
	Classroom   string `json:"classroom"`
	NationalID  string `json:"national_id"`
}

func (req *CreateStudentRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.ID, validation.Required, validation.Min(uint(1))),
		validation.Field(&req.Name, validation.Required, validation.Length(1, 100)),
		validation.Field(&req.Surname, validation.Required, validation.Length(1, 100)),
		validation.Field(&req.Classroom, validation.Required, validation.Length(1, 20)),
		validation.Field(&req.NationalID, validation.Required, validation.Length(1, 30)),
	)
}

type UpdateStudentRequest struct {
	ClassNumber *int    `json:"class_number,omitempty"`
	Name        *string `json:"name,omitempty"`
	Surname     *string `json:"surname,omitempty"`
	Classroom   *string `json:"classroom,omitempty"`
	NationalID  *string `json:"national_id,omitempty"`
}

func (req *UpdateStudentRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Name, validation.NilOrNotEmpty, validation.Length(1, 100)),
		validation.Field(&req.Surname, validation.NilOrNotEmpty, validation.Length(1, 100)),
		validation.Field(&req.Classroom, validation.NilOrNotEmpty, validation.Length(1, 20)),
		validation.Field(&req.NationalID, validation.NilOrNotEmpty, validation.Length(1, 30)),
	)
}

type BulkVotingRightsRequest struct {
	Classroom string `json:"classroom"`
}

func (req *BulkVotingRightsRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Classroom, validation.Required, validation.Length(1, 20)),
	)
}

type ImportStudentRow struct {
	ID          uint   `json:"id"`
	ClassNumber int    `json:"class_number"`
	Name        string `json:"name"`
	Surname     string `json:"surname"`
	Classroom   string `json:"classroom"`
	NationalID  string `json:"national_id"`
}

// ImportStudentsRequest carries a whole roster upload. Row-level problems are
// reported per row in the import result, so rows are not validated here.
type ImportStudentsRequest struct {
	Students  []ImportStudentRow `json:"students"`
	Overwrite bool               `json:"overwrite"`
}

func (req *ImportStudentsRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Students, validation.Required),
	)
}

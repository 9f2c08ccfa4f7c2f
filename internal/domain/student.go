package domain

import "time"

// Student is one roster record. ID is the school-assigned student number, not
// a database surrogate; both ID and NationalID are unique across the roster.
type Student struct {
	ID               uint       `json:"id"`
	ClassNumber      int        `json:"class_number"`
	Name             string     `json:"name"`
	Surname          string     `json:"surname"`
	Classroom        string     `json:"classroom"`
	NationalID       string     `json:"national_id"`
	VotingApproved   bool       `json:"voting_approved"`
	VotingApprovedAt *time.Time `json:"voting_approved_at"`
	VotingApprovedBy string     `json:"voting_approved_by"`
	VotedIn          []uint     `json:"voted_in"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}

func (s Student) FullName() string {
	return s.Name + " " + s.Surname
}

// StudentUpdate carries a partial roster edit. Nil fields are left untouched.
type StudentUpdate struct {
	ClassNumber *int    `json:"class_number"`
	Name        *string `json:"name"`
	Surname     *string `json:"surname"`
	Classroom   *string `json:"classroom"`
	NationalID  *string `json:"national_id"`
}

// StudentImportRow is one row of a bulk import batch, as parsed from an
// uploaded sheet. All five identity fields are required for the row to import.
type StudentImportRow struct {
	ID          uint   `json:"id"`
	ClassNumber int    `json:"class_number"`
	Name        string `json:"name"`
	Surname     string `json:"surname"`
	Classroom   string `json:"classroom"`
	NationalID  string `json:"national_id"`
}

type ImportError struct {
	Row    int    `json:"row"`
	Reason string `json:"reason"`
}

type ImportResult struct {
	Imported int           `json:"imported"`
	Skipped  int           `json:"skipped"`
	Errors   []ImportError `json:"errors"`
}

type ClassroomStats struct {
	Total    int `json:"total"`
	Approved int `json:"approved"`
}

type StudentStats struct {
	Total       int                       `json:"total"`
	Approved    int                       `json:"approved"`
	Pending     int                       `json:"pending"`
	ByClassroom map[string]ClassroomStats `json:"by_classroom"`
}

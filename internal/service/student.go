package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/yizeng/gab/gin/gorm/school-election/internal/domain"
	"github.com/yizeng/gab/gin/gorm/school-election/internal/repository"
)

var (
	ErrStudentIDExists         = repository.ErrStudentIDExists
	ErrStudentNationalIDExists = repository.ErrStudentNationalIDExists
	ErrStudentNotFound         = repository.ErrStudentNotFound
)

type StudentRepository interface {
	Create(ctx context.Context, student domain.Student) (domain.Student, error)
	FindByID(ctx context.Context, id uint) (domain.Student, error)
	FindByNationalID(ctx context.Context, nationalID string) (domain.Student, error)
	FindAll(ctx context.Context) ([]domain.Student, error)
	FindByClassroom(ctx context.Context, classroom string) ([]domain.Student, error)
	FindByVotingApproved(ctx context.Context, approved bool) ([]domain.Student, error)
	Update(ctx context.Context, student domain.Student) (domain.Student, error)
	UpdateVotingByClassroom(ctx context.Context, classroom string, approved bool, approvedAt *time.Time, approvedBy string) (int, error)
	Delete(ctx context.Context, id uint) (bool, error)
	DeleteAll(ctx context.Context) error
}

// RosterObserver receives the full roster after every successful mutation.
// Observers run synchronously before the mutating call returns, so readers
// never see a pre-mutation roster after the call.
type RosterObserver func(students []domain.Student)

// StudentService owns the student roster and the voting-rights lifecycle.
type StudentService struct {
	repo StudentRepository
	now  func() time.Time

	mu           sync.Mutex
	nextObserver int
	observers    map[int]RosterObserver
}

func NewStudentService(repo StudentRepository) *StudentService {
	return &StudentService{
		repo:      repo,
		now:       time.Now,
		observers: make(map[int]RosterObserver),
	}
}

// Subscribe registers an observer and returns its unsubscribe function.
func (s *StudentService) Subscribe(observer RosterObserver) func() {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextObserver
	s.nextObserver++
	s.observers[id] = observer

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.observers, id)
	}
}

func (s *StudentService) notifyObservers(ctx context.Context) {
	s.mu.Lock()
	observers := make([]RosterObserver, 0, len(s.observers))
	for _, o := range s.observers {
		observers = append(observers, o)
	}
	s.mu.Unlock()

	if len(observers) == 0 {
		return
	}

	roster, err := s.repo.FindAll(ctx)
	if err != nil {
		zap.L().Error("failed to load roster for observers", zap.Error(err))
		return
	}

	for _, o := range observers {
		o(roster)
	}
}

// AddStudent creates one roster record. New students never start with voting
// rights; approval is a separate, audited step.
func (s *StudentService) AddStudent(ctx context.Context, student domain.Student) (domain.Student, error) {
	student.VotingApproved = false
	student.VotingApprovedAt = nil
	student.VotingApprovedBy = ""
	student.VotedIn = nil

	created, err := s.repo.Create(ctx, student)
	if err != nil {
		if errors.Is(err, ErrStudentIDExists) || errors.Is(err, ErrStudentNationalIDExists) {
			return domain.Student{}, err
		}

		return domain.Student{}, fmt.Errorf("s.repo.Create -> %w", err)
	}

	s.notifyObservers(ctx)

	return created, nil
}

func (s *StudentService) GetStudent(ctx context.Context, id uint) (domain.Student, error) {
	student, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return domain.Student{}, fmt.Errorf("s.repo.FindByID -> %w", err)
	}

	return student, nil
}

// UpdateStudent applies a partial roster edit. Unchanged fields are never
// re-validated; a changed national id must still be unique.
func (s *StudentService) UpdateStudent(ctx context.Context, id uint, update domain.StudentUpdate) (domain.Student, error) {
	student, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return domain.Student{}, fmt.Errorf("s.repo.FindByID -> %w", err)
	}

	if update.NationalID != nil && *update.NationalID != student.NationalID {
		if _, err = s.repo.FindByNationalID(ctx, *update.NationalID); err == nil {
			return domain.Student{}, ErrStudentNationalIDExists
		} else if !errors.Is(err, ErrStudentNotFound) {
			return domain.Student{}, fmt.Errorf("s.repo.FindByNationalID -> %w", err)
		}
		student.NationalID = *update.NationalID
	}
	if update.ClassNumber != nil {
		student.ClassNumber = *update.ClassNumber
	}
	if update.Name != nil {
		student.Name = *update.Name
	}
	if update.Surname != nil {
		student.Surname = *update.Surname
	}
	if update.Classroom != nil {
		student.Classroom = *update.Classroom
	}

	updated, err := s.repo.Update(ctx, student)
	if err != nil {
		return domain.Student{}, fmt.Errorf("s.repo.Update -> %w", err)
	}

	s.notifyObservers(ctx)

	return updated, nil
}

// DeleteStudent removes one record. A missing id is not an error, just false.
func (s *StudentService) DeleteStudent(ctx context.Context, id uint) (bool, error) {
	removed, err := s.repo.Delete(ctx, id)
	if err != nil {
		return false, fmt.Errorf("s.repo.Delete -> %w", err)
	}

	if removed {
		s.notifyObservers(ctx)
	}

	return removed, nil
}

// ApproveVotingRight grants a student the right to cast a ballot, stamping
// who approved it and when.
func (s *StudentService) ApproveVotingRight(ctx context.Context, id uint, approverName string) (domain.Student, error) {
	student, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return domain.Student{}, fmt.Errorf("s.repo.FindByID -> %w", err)
	}

	now := s.now()
	student.VotingApproved = true
	student.VotingApprovedAt = &now
	student.VotingApprovedBy = approverName

	updated, err := s.repo.Update(ctx, student)
	if err != nil {
		return domain.Student{}, fmt.Errorf("s.repo.Update -> %w", err)
	}

	s.notifyObservers(ctx)

	return updated, nil
}

// RevokeVotingRight withdraws the right and clears the approval audit fields;
// the stale approver/timestamp would otherwise read as a live approval.
func (s *StudentService) RevokeVotingRight(ctx context.Context, id uint) (domain.Student, error) {
	student, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return domain.Student{}, fmt.Errorf("s.repo.FindByID -> %w", err)
	}

	student.VotingApproved = false
	student.VotingApprovedAt = nil
	student.VotingApprovedBy = ""

	updated, err := s.repo.Update(ctx, student)
	if err != nil {
		return domain.Student{}, fmt.Errorf("s.repo.Update -> %w", err)
	}

	s.notifyObservers(ctx)

	return updated, nil
}

// BulkApproveVotingRights approves every student whose classroom matches
// exactly and returns the count affected. No match is count zero, not an
// error.
func (s *StudentService) BulkApproveVotingRights(ctx context.Context, classroom, approverName string) (int, error) {
	now := s.now()
	count, err := s.repo.UpdateVotingByClassroom(ctx, classroom, true, &now, approverName)
	if err != nil {
		return 0, fmt.Errorf("s.repo.UpdateVotingByClassroom -> %w", err)
	}

	if count > 0 {
		s.notifyObservers(ctx)
	}

	return count, nil
}

func (s *StudentService) BulkRevokeVotingRights(ctx context.Context, classroom string) (int, error) {
	count, err := s.repo.UpdateVotingByClassroom(ctx, classroom, false, nil, "")
	if err != nil {
		return 0, fmt.Errorf("s.repo.UpdateVotingByClassroom -> %w", err)
	}

	if count > 0 {
		s.notifyObservers(ctx)
	}

	return count, nil
}

// ImportStudents processes a batch of roster rows. Each row succeeds or is
// skipped on its own; a bad row never half-imports. Rows colliding on id are
// skipped unless overwrite is set, in which case only the identity fields are
// replaced and the voting-rights fields survive.
func (s *StudentService) ImportStudents(ctx context.Context, rows []domain.StudentImportRow, overwrite bool) (domain.ImportResult, error) {
	result := domain.ImportResult{Errors: []domain.ImportError{}}
	mutated := false

	for i, row := range rows {
		rowNum := i + 1

		if reason, ok := missingRequiredField(row); ok {
			result.Skipped++
			result.Errors = append(result.Errors, domain.ImportError{Row: rowNum, Reason: reason})
			continue
		}

		existing, err := s.repo.FindByID(ctx, row.ID)
		switch {
		case err == nil:
			if !overwrite {
				result.Skipped++
				result.Errors = append(result.Errors, domain.ImportError{Row: rowNum, Reason: "duplicate student id"})
				continue
			}

			existing.ClassNumber = row.ClassNumber
			existing.Name = row.Name
			existing.Surname = row.Surname
			existing.Classroom = row.Classroom
			existing.NationalID = row.NationalID
			if _, err = s.repo.Update(ctx, existing); err != nil {
				result.Skipped++
				result.Errors = append(result.Errors, domain.ImportError{Row: rowNum, Reason: "update failed"})
				zap.L().Warn("student import overwrite failed", zap.Uint("id", row.ID), zap.Error(err))
				continue
			}
			result.Imported++
			mutated = true

		case errors.Is(err, ErrStudentNotFound):
			_, err = s.repo.Create(ctx, domain.Student{
				ID:          row.ID,
				ClassNumber: row.ClassNumber,
				Name:        row.Name,
				Surname:     row.Surname,
				Classroom:   row.Classroom,
				NationalID:  row.NationalID,
			})
			if err != nil {
				result.Skipped++
				reason := "insert failed"
				if errors.Is(err, ErrStudentNationalIDExists) {
					reason = "duplicate national id"
				}
				result.Errors = append(result.Errors, domain.ImportError{Row: rowNum, Reason: reason})
				continue
			}
			result.Imported++
			mutated = true

		default:
			return domain.ImportResult{}, fmt.Errorf("s.repo.FindByID -> %w", err)
		}
	}

	if mutated {
		s.notifyObservers(ctx)
	}

	return result, nil
}

func missingRequiredField(row domain.StudentImportRow) (string, bool) {
	switch {
	case row.ID == 0:
		return "missing id", true
	case row.Name == "":
		return "missing name", true
	case row.Surname == "":
		return "missing surname", true
	case row.Classroom == "":
		return "missing classroom", true
	case row.NationalID == "":
		return "missing national id", true
	}
	return "", false
}

func (s *StudentService) GetAllStudents(ctx context.Context) ([]domain.Student, error) {
	students, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("s.repo.FindAll -> %w", err)
	}

	return students, nil
}

func (s *StudentService) GetStudentsByClassroom(ctx context.Context, classroom string) ([]domain.Student, error) {
	students, err := s.repo.FindByClassroom(ctx, classroom)
	if err != nil {
		return nil, fmt.Errorf("s.repo.FindByClassroom -> %w", err)
	}

	return students, nil
}

func (s *StudentService) GetStudentsByVotingStatus(ctx context.Context, approved bool) ([]domain.Student, error) {
	students, err := s.repo.FindByVotingApproved(ctx, approved)
	if err != nil {
		return nil, fmt.Errorf("s.repo.FindByVotingApproved -> %w", err)
	}

	return students, nil
}

// GetUniqueClassrooms lists every classroom on the roster, sorted and
// de-duplicated.
func (s *StudentService) GetUniqueClassrooms(ctx context.Context) ([]string, error) {
	students, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("s.repo.FindAll -> %w", err)
	}

	seen := make(map[string]struct{}, len(students))
	classrooms := make([]string, 0)
	for _, st := range students {
		if _, ok := seen[st.Classroom]; ok {
			continue
		}
		seen[st.Classroom] = struct{}{}
		classrooms = append(classrooms, st.Classroom)
	}
	sort.Strings(classrooms)

	return classrooms, nil
}

func (s *StudentService) GetStudentStats(ctx context.Context) (domain.StudentStats, error) {
	students, err := s.repo.FindAll(ctx)
	if err != nil {
		return domain.StudentStats{}, fmt.Errorf("s.repo.FindAll -> %w", err)
	}

	stats := domain.StudentStats{
		ByClassroom: make(map[string]domain.ClassroomStats),
	}
	for _, st := range students {
		stats.Total++
		c := stats.ByClassroom[st.Classroom]
		c.Total++
		if st.VotingApproved {
			stats.Approved++
			c.Approved++
		} else {
			stats.Pending++
		}
		stats.ByClassroom[st.Classroom] = c
	}

	return stats, nil
}

// ResetStudentData irreversibly clears the whole roster. Administrative
// utility, never reachable from the student-facing surface.
func (s *StudentService) ResetStudentData(ctx context.Context) error {
	if err := s.repo.DeleteAll(ctx); err != nil {
		return fmt.Errorf("s.repo.DeleteAll -> %w", err)
	}

	s.notifyObservers(ctx)

	return nil
}

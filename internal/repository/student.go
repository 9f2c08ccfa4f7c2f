package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/yizeng/gab/gin/gorm/school-election/internal/domain"
	"github.com/yizeng/gab/gin/gorm/school-election/internal/repository/dao"
)

var (
	ErrStudentIDExists         = dao.ErrStudentIDExists
	ErrStudentNationalIDExists = dao.ErrStudentNationalIDExists
	ErrStudentNotFound         = dao.ErrStudentNotFound
)

type StudentDAO interface {
	Insert(ctx context.Context, student dao.Student) (dao.Student, error)
	FindByID(ctx context.Context, id uint) (dao.Student, error)
	FindByNationalID(ctx context.Context, nationalID string) (dao.Student, error)
	FindAll(ctx context.Context) ([]dao.Student, error)
	FindByClassroom(ctx context.Context, classroom string) ([]dao.Student, error)
	FindByVotingApproved(ctx context.Context, approved bool) ([]dao.Student, error)
	Update(ctx context.Context, student dao.Student) (dao.Student, error)
	UpdateVotingByClassroom(ctx context.Context, classroom string, approved bool, approvedAt *time.Time, approvedBy string) (int, error)
	Delete(ctx context.Context, id uint) (bool, error)
	DeleteAll(ctx context.Context) error
}

// StudentVoteDAO is the slice of the vote store the roster needs: which
// elections a student has voted in.
type StudentVoteDAO interface {
	ElectionIDsByStudent(ctx context.Context, studentID uint) ([]uint, error)
	FindAll(ctx context.Context) ([]dao.Vote, error)
	DeleteByStudent(ctx context.Context, studentID uint) error
	DeleteAll(ctx context.Context) error
}

type StudentRepository struct {
	dao     StudentDAO
	voteDAO StudentVoteDAO
}

func NewStudentRepository(dao StudentDAO, voteDAO StudentVoteDAO) *StudentRepository {
	return &StudentRepository{
		dao:     dao,
		voteDAO: voteDAO,
	}
}

func (r *StudentRepository) Create(ctx context.Context, student domain.Student) (domain.Student, error) {
	created, err := r.dao.Insert(ctx, r.domainToDAO(student))
	if err != nil {
		return domain.Student{}, fmt.Errorf("r.dao.Insert -> %w", err)
	}

	return r.daoToDomain(created, nil), nil
}

func (r *StudentRepository) FindByID(ctx context.Context, id uint) (domain.Student, error) {
	found, err := r.dao.FindByID(ctx, id)
	if err != nil {
		return domain.Student{}, fmt.Errorf("r.dao.FindByID -> %w", err)
	}

	votedIn, err := r.voteDAO.ElectionIDsByStudent(ctx, id)
	if err != nil {
		return domain.Student{}, fmt.Errorf("r.voteDAO.ElectionIDsByStudent -> %w", err)
	}

	return r.daoToDomain(found, votedIn), nil
}

func (r *StudentRepository) FindByNationalID(ctx context.Context, nationalID string) (domain.Student, error) {
	found, err := r.dao.FindByNationalID(ctx, nationalID)
	if err != nil {
		return domain.Student{}, fmt.Errorf("r.dao.FindByNationalID -> %w", err)
	}

	votedIn, err := r.voteDAO.ElectionIDsByStudent(ctx, found.ID)
	if err != nil {
		return domain.Student{}, fmt.Errorf("r.voteDAO.ElectionIDsByStudent -> %w", err)
	}

	return r.daoToDomain(found, votedIn), nil
}

func (r *StudentRepository) FindAll(ctx context.Context) ([]domain.Student, error) {
	found, err := r.dao.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindAll -> %w", err)
	}

	return r.withVotedIn(ctx, found)
}

func (r *StudentRepository) FindByClassroom(ctx context.Context, classroom string) ([]domain.Student, error) {
	found, err := r.dao.FindByClassroom(ctx, classroom)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindByClassroom -> %w", err)
	}

	return r.withVotedIn(ctx, found)
}

func (r *StudentRepository) FindByVotingApproved(ctx context.Context, approved bool) ([]domain.Student, error) {
	found, err := r.dao.FindByVotingApproved(ctx, approved)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindByVotingApproved -> %w", err)
	}

	return r.withVotedIn(ctx, found)
}

func (r *StudentRepository) Update(ctx context.Context, student domain.Student) (domain.Student, error) {
	updated, err := r.dao.Update(ctx, r.domainToDAO(student))
	if err != nil {
		return domain.Student{}, fmt.Errorf("r.dao.Update -> %w", err)
	}

	return r.daoToDomain(updated, student.VotedIn), nil
}

func (r *StudentRepository) UpdateVotingByClassroom(ctx context.Context, classroom string, approved bool, approvedAt *time.Time, approvedBy string) (int, error) {
	count, err := r.dao.UpdateVotingByClassroom(ctx, classroom, approved, approvedAt, approvedBy)
	if err != nil {
		return 0, fmt.Errorf("r.dao.UpdateVotingByClassroom -> %w", err)
	}

	return count, nil
}

// Delete removes a student and their vote records, so a later student
// assigned the same school ID starts with a clean voting history.
func (r *StudentRepository) Delete(ctx context.Context, id uint) (bool, error) {
	if err := r.voteDAO.DeleteByStudent(ctx, id); err != nil {
		return false, fmt.Errorf("r.voteDAO.DeleteByStudent -> %w", err)
	}

	removed, err := r.dao.Delete(ctx, id)
	if err != nil {
		return false, fmt.Errorf("r.dao.Delete -> %w", err)
	}

	return removed, nil
}

// DeleteAll clears the whole roster, vote records included.
func (r *StudentRepository) DeleteAll(ctx context.Context) error {
	if err := r.voteDAO.DeleteAll(ctx); err != nil {
		return fmt.Errorf("r.voteDAO.DeleteAll -> %w", err)
	}
	if err := r.dao.DeleteAll(ctx); err != nil {
		return fmt.Errorf("r.dao.DeleteAll -> %w", err)
	}

	return nil
}

// withVotedIn fills the voted-in sets for a batch with one scan over the
// vote records instead of a query per student.
func (r *StudentRepository) withVotedIn(ctx context.Context, found []dao.Student) ([]domain.Student, error) {
	votes, err := r.voteDAO.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("r.voteDAO.FindAll -> %w", err)
	}

	votedIn := make(map[uint][]uint, len(votes))
	for _, v := range votes {
		votedIn[v.StudentID] = append(votedIn[v.StudentID], v.ElectionID)
	}

	students := make([]domain.Student, 0, len(found))
	for _, s := range found {
		students = append(students, r.daoToDomain(s, votedIn[s.ID]))
	}

	return students, nil
}

func (r *StudentRepository) domainToDAO(s domain.Student) dao.Student {
	return dao.Student{
		ID:               s.ID,
		ClassNumber:      s.ClassNumber,
		Name:             s.Name,
		Surname:          s.Surname,
		Classroom:        s.Classroom,
		NationalID:       s.NationalID,
		VotingApproved:   s.VotingApproved,
		VotingApprovedAt: s.VotingApprovedAt,
		VotingApprovedBy: s.VotingApprovedBy,
		CreatedAt:        s.CreatedAt,
	}
}

func (r *StudentRepository) daoToDomain(s dao.Student, votedIn []uint) domain.Student {
	if votedIn == nil {
		votedIn = []uint{}
	}

	return domain.Student{
		ID:               s.ID,
		ClassNumber:      s.ClassNumber,
		Name:             s.Name,
		Surname:          s.Surname,
		Classroom:        s.Classroom,
		NationalID:       s.NationalID,
		VotingApproved:   s.VotingApproved,
		VotingApprovedAt: s.VotingApprovedAt,
		VotingApprovedBy: s.VotingApprovedBy,
		VotedIn:          votedIn,
		CreatedAt:        s.CreatedAt,
		UpdatedAt:        s.UpdatedAt,
	}
}

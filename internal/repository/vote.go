package repository

import (
	"context"
	"fmt"

	"github.com/yizeng/gab/gin/gorm/school-election/internal/domain"
	"github.com/yizeng/gab/gin/gorm/school-election/internal/repository/dao"
)

var ErrVoteExists = dao.ErrVoteExists

type VoteDAO interface {
	Insert(ctx context.Context, vote dao.Vote) (dao.Vote, error)
	Exists(ctx context.Context, studentID, electionID uint) (bool, error)
	ElectionIDsByStudent(ctx context.Context, studentID uint) ([]uint, error)
	DeleteAll(ctx context.Context) error
}

type VoteRepository struct {
	dao VoteDAO
}

func NewVoteRepository(dao VoteDAO) *VoteRepository {
	return &VoteRepository{
		dao: dao,
	}
}

func (r *VoteRepository) Create(ctx context.Context, vote domain.Vote) (domain.Vote, error) {
	created, err := r.dao.Insert(ctx, dao.Vote{
		ID:         vote.ID,
		StudentID:  vote.StudentID,
		ElectionID: vote.ElectionID,
		Token:      vote.Token,
	})
	if err != nil {
		return domain.Vote{}, fmt.Errorf("r.dao.Insert -> %w", err)
	}

	return r.daoToDomain(created), nil
}

func (r *VoteRepository) Exists(ctx context.Context, studentID, electionID uint) (bool, error) {
	exists, err := r.dao.Exists(ctx, studentID, electionID)
	if err != nil {
		return false, fmt.Errorf("r.dao.Exists -> %w", err)
	}

	return exists, nil
}

func (r *VoteRepository) ElectionIDsByStudent(ctx context.Context, studentID uint) ([]uint, error) {
	ids, err := r.dao.ElectionIDsByStudent(ctx, studentID)
	if err != nil {
		return nil, fmt.Errorf("r.dao.ElectionIDsByStudent -> %w", err)
	}

	return ids, nil
}

func (r *VoteRepository) DeleteAll(ctx context.Context) error {
	if err := r.dao.DeleteAll(ctx); err != nil {
		return fmt.Errorf("r.dao.DeleteAll -> %w", err)
	}

	return nil
}

func (r *VoteRepository) daoToDomain(v dao.Vote) domain.Vote {
	return domain.Vote{
		ID:         v.ID,
		StudentID:  v.StudentID,
		ElectionID: v.ElectionID,
		Token:      v.Token,
		CreatedAt:  v.CreatedAt,
	}
}

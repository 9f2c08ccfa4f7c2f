package repository

import (
	"context"
	"fmt"

	"github.com/yizeng/gab/gin/gorm/school-election/internal/domain"
	"github.com/yizeng/gab/gin/gorm/school-election/internal/repository/dao"
)

var (
	ErrElectionNotFound  = dao.ErrElectionNotFound
	ErrCandidateNotFound = dao.ErrCandidateNotFound
)

type ElectionDAO interface {
	Insert(ctx context.Context, election dao.Election) (dao.Election, error)
	FindByID(ctx context.Context, id uint) (dao.Election, error)
	FindAll(ctx context.Context) ([]dao.Election, error)
	Update(ctx context.Context, election dao.Election) (dao.Election, error)
	UpdateStatus(ctx context.Context, id uint, status string) error
	Delete(ctx context.Context, id uint) (bool, error)
	IncrementTotalVotes(ctx context.Context, id uint) error
	IncrementCandidateVotes(ctx context.Context, candidateID uint) error
}

type ElectionRepository struct {
	dao ElectionDAO
}

func NewElectionRepository(dao ElectionDAO) *ElectionRepository {
	return &ElectionRepository{
		dao: dao,
	}
}

func (r *ElectionRepository) Create(ctx context.Context, election domain.Election) (domain.Election, error) {
	created, err := r.dao.Insert(ctx, r.domainToDAO(election))
	if err != nil {
		return domain.Election{}, fmt.Errorf("r.dao.Insert -> %w", err)
	}

	return r.daoToDomain(created), nil
}

func (r *ElectionRepository) FindByID(ctx context.Context, id uint) (domain.Election, error) {
	found, err := r.dao.FindByID(ctx, id)
	if err != nil {
		return domain.Election{}, fmt.Errorf("r.dao.FindByID -> %w", err)
	}

	return r.daoToDomain(found), nil
}

func (r *ElectionRepository) FindAll(ctx context.Context) ([]domain.Election, error) {
	found, err := r.dao.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindAll -> %w", err)
	}

	elections := make([]domain.Election, 0, len(found))
	for _, e := range found {
		elections = append(elections, r.daoToDomain(e))
	}

	return elections, nil
}

func (r *ElectionRepository) Update(ctx context.Context, election domain.Election) (domain.Election, error) {
	updated, err := r.dao.Update(ctx, r.domainToDAO(election))
	if err != nil {
		return domain.Election{}, fmt.Errorf("r.dao.Update -> %w", err)
	}

	// Save omits associations; keep the in-memory ones the caller loaded.
	out := r.daoToDomain(updated)
	out.Positions = election.Positions

	return out, nil
}

func (r *ElectionRepository) UpdateStatus(ctx context.Context, id uint, status string) error {
	if err := r.dao.UpdateStatus(ctx, id, status); err != nil {
		return fmt.Errorf("r.dao.UpdateStatus -> %w", err)
	}

	return nil
}

func (r *ElectionRepository) Delete(ctx context.Context, id uint) (bool, error) {
	removed, err := r.dao.Delete(ctx, id)
	if err != nil {
		return false, fmt.Errorf("r.dao.Delete -> %w", err)
	}

	return removed, nil
}

func (r *ElectionRepository) IncrementTotalVotes(ctx context.Context, id uint) error {
	if err := r.dao.IncrementTotalVotes(ctx, id); err != nil {
		return fmt.Errorf("r.dao.IncrementTotalVotes -> %w", err)
	}

	return nil
}

func (r *ElectionRepository) IncrementCandidateVotes(ctx context.Context, candidateID uint) error {
	if err := r.dao.IncrementCandidateVotes(ctx, candidateID); err != nil {
		return fmt.Errorf("r.dao.IncrementCandidateVotes -> %w", err)
	}

	return nil
}

func (r *ElectionRepository) domainToDAO(e domain.Election) dao.Election {
	positions := make([]dao.Position, 0, len(e.Positions))
	for _, p := range e.Positions {
		candidates := make([]dao.Candidate, 0, len(p.Candidates))
		for _, c := range p.Candidates {
			candidates = append(candidates, dao.Candidate{
				ID:         c.ID,
				PositionID: c.PositionID,
				Name:       c.Name,
				Classroom:  c.Classroom,
				Votes:      c.Votes,
			})
		}
		positions = append(positions, dao.Position{
			ID:         p.ID,
			ElectionID: p.ElectionID,
			Title:      p.Title,
			Candidates: candidates,
		})
	}

	return dao.Election{
		ID:         e.ID,
		Title:      e.Title,
		Type:       e.Type,
		Status:     e.Status,
		EndDate:    e.EndDate,
		TotalVotes: e.TotalVotes,
		Positions:  positions,
		CreatedAt:  e.CreatedAt,
	}
}

func (r *ElectionRepository) daoToDomain(e dao.Election) domain.Election {
	positions := make([]domain.Position, 0, len(e.Positions))
	for _, p := range e.Positions {
		candidates := make([]domain.Candidate, 0, len(p.Candidates))
		for _, c := range p.Candidates {
			candidates = append(candidates, domain.Candidate{
				ID:         c.ID,
				PositionID: c.PositionID,
				Name:       c.Name,
				Classroom:  c.Classroom,
				Votes:      c.Votes,
			})
		}
		positions = append(positions, domain.Position{
			ID:         p.ID,
			ElectionID: p.ElectionID,
			Title:      p.Title,
			Candidates: candidates,
		})
	}

	return domain.Election{
		ID:         e.ID,
		Title:      e.Title,
		Type:       e.Type,
		Status:     e.Status,
		EndDate:    e.EndDate,
		TotalVotes: e.TotalVotes,
		Positions:  positions,
		CreatedAt:  e.CreatedAt,
		UpdatedAt:  e.UpdatedAt,
	}
}

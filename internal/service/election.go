package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/yizeng/gab/gin/gorm/school-election/internal/domain"
	"github.com/yizeng/gab/gin/gorm/school-election/internal/repository"
)

var (
	ErrElectionNotFound        = repository.ErrElectionNotFound
	ErrInvalidStatusTransition = errors.New("invalid election status transition")
)

type ElectionRepository interface {
	Create(ctx context.Context, election domain.Election) (domain.Election, error)
	FindByID(ctx context.Context, id uint) (domain.Election, error)
	FindAll(ctx context.Context) ([]domain.Election, error)
	Update(ctx context.Context, election domain.Election) (domain.Election, error)
	UpdateStatus(ctx context.Context, id uint, status string) error
	Delete(ctx context.Context, id uint) (bool, error)
}

// ElectionService owns election records and their status lifecycle. Statuses
// only move forward: draft -> open -> closed.
type ElectionService struct {
	repo ElectionRepository
}

func NewElectionService(repo ElectionRepository) *ElectionService {
	return &ElectionService{
		repo: repo,
	}
}

func (s *ElectionService) CreateElection(ctx context.Context, election domain.Election) (domain.Election, error) {
	if election.Status == "" {
		election.Status = domain.ElectionStatusDraft
	}

	created, err := s.repo.Create(ctx, election)
	if err != nil {
		return domain.Election{}, fmt.Errorf("s.repo.Create -> %w", err)
	}

	return created, nil
}

func (s *ElectionService) GetElection(ctx context.Context, id uint) (domain.Election, error) {
	election, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return domain.Election{}, fmt.Errorf("s.repo.FindByID -> %w", err)
	}

	return election, nil
}

func (s *ElectionService) ListElections(ctx context.Context) ([]domain.Election, error) {
	elections, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("s.repo.FindAll -> %w", err)
	}

	return elections, nil
}

func (s *ElectionService) UpdateElection(ctx context.Context, id uint, update domain.ElectionUpdate) (domain.Election, error) {
	election, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return domain.Election{}, fmt.Errorf("s.repo.FindByID -> %w", err)
	}

	if update.Title != nil {
		election.Title = *update.Title
	}
	if update.Type != nil {
		election.Type = *update.Type
	}
	if update.EndDate != nil {
		election.EndDate = *update.EndDate
	}

	updated, err := s.repo.Update(ctx, election)
	if err != nil {
		return domain.Election{}, fmt.Errorf("s.repo.Update -> %w", err)
	}

	return updated, nil
}

func (s *ElectionService) DeleteElection(ctx context.Context, id uint) (bool, error) {
	removed, err := s.repo.Delete(ctx, id)
	if err != nil {
		return false, fmt.Errorf("s.repo.Delete -> %w", err)
	}

	return removed, nil
}

// OpenElection moves a draft election to open, making it accept ballots.
func (s *ElectionService) OpenElection(ctx context.Context, id uint) (domain.Election, error) {
	return s.transition(ctx, id, domain.ElectionStatusDraft, domain.ElectionStatusOpen)
}

// CloseElection moves an open election to closed. Closing is final.
func (s *ElectionService) CloseElection(ctx context.Context, id uint) (domain.Election, error) {
	return s.transition(ctx, id, domain.ElectionStatusOpen, domain.ElectionStatusClosed)
}

func (s *ElectionService) transition(ctx context.Context, id uint, from, to string) (domain.Election, error) {
	election, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return domain.Election{}, fmt.Errorf("s.repo.FindByID -> %w", err)
	}

	if election.Status != from {
		return domain.Election{}, ErrInvalidStatusTransition
	}

	if err = s.repo.UpdateStatus(ctx, id, to); err != nil {
		return domain.Election{}, fmt.Errorf("s.repo.UpdateStatus -> %w", err)
	}
	election.Status = to

	return election, nil
}

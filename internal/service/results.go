package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/yizeng/gab/gin/gorm/school-election/internal/domain"
)

var (
	ErrElectionStillActive = errors.New("election has not ended")
	ErrResultsNotPublished = errors.New("results not published")
)

type ResultsElectionRepository interface {
	FindByID(ctx context.Context, id uint) (domain.Election, error)
}

type ResultsSettingsRepository interface {
	FindByElectionID(ctx context.Context, electionID uint) (domain.DisplaySettings, error)
}

type ResultsVoteRepository interface {
	Exists(ctx context.Context, studentID, electionID uint) (bool, error)
}

// ResultsService is the public result-visibility gate. It never computes
// tallies; it only projects the stored counts through the display settings.
type ResultsService struct {
	elections ResultsElectionRepository
	settings  ResultsSettingsRepository
	votes     ResultsVoteRepository
	now       func() time.Time
}

func NewResultsService(elections ResultsElectionRepository, settings ResultsSettingsRepository, votes ResultsVoteRepository) *ResultsService {
	return &ResultsService{
		elections: elections,
		settings:  settings,
		votes:     votes,
		now:       time.Now,
	}
}

// CheckVisibility reports whether the election's results may be shown
// publicly. Results stay hidden while the end date lies in the future,
// whatever the publish flag says, and missing settings for an ended election
// fail closed.
func (s *ResultsService) CheckVisibility(ctx context.Context, electionID uint) error {
	election, err := s.elections.FindByID(ctx, electionID)
	if err != nil {
		return fmt.Errorf("s.elections.FindByID -> %w", err)
	}

	if !election.Ended(s.now()) {
		return ErrElectionStillActive
	}

	settings, err := s.settings.FindByElectionID(ctx, electionID)
	if err != nil {
		if errors.Is(err, ErrDisplaySettingsNotFound) {
			return ErrResultsNotPublished
		}

		return fmt.Errorf("s.settings.FindByElectionID -> %w", err)
	}

	if !settings.IsPublished {
		return ErrResultsNotPublished
	}

	return nil
}

// PublicResults returns the election outcome shaped by its display settings.
// Visibility is re-checked here; callers cannot skip the gate.
func (s *ResultsService) PublicResults(ctx context.Context, electionID uint) (domain.PublicResults, error) {
	if err := s.CheckVisibility(ctx, electionID); err != nil {
		return domain.PublicResults{}, err
	}

	election, err := s.elections.FindByID(ctx, electionID)
	if err != nil {
		return domain.PublicResults{}, fmt.Errorf("s.elections.FindByID -> %w", err)
	}

	settings, err := s.settings.FindByElectionID(ctx, electionID)
	if err != nil {
		return domain.PublicResults{}, fmt.Errorf("s.settings.FindByElectionID -> %w", err)
	}

	results := domain.PublicResults{
		ElectionID: election.ID,
		Title:      election.Title,
		Type:       election.Type,
		TotalVotes: election.TotalVotes,
		Positions:  []domain.PublicPositionResult{},
	}

	for _, position := range election.Positions {
		// The per-position config wins; the global flags only cover positions
		// that somehow lack one.
		showRawScore := settings.ShowRawScore
		winnerOnly := settings.ShowWinnerOnly
		if cfg, ok := settings.Config(position.ID); ok {
			if cfg.Skip {
				continue
			}
			showRawScore = cfg.ShowRawScore
			winnerOnly = cfg.ShowWinnerOnly
		}

		candidates := make([]domain.Candidate, len(position.Candidates))
		copy(candidates, position.Candidates)
		sort.SliceStable(candidates, func(i, j int) bool {
			return candidates[i].Votes > candidates[j].Votes
		})

		if winnerOnly && len(candidates) > 0 {
			// Ties at the top are all winners.
			top := candidates[0].Votes
			cut := 1
			for cut < len(candidates) && candidates[cut].Votes == top {
				cut++
			}
			candidates = candidates[:cut]
		}

		out := domain.PublicPositionResult{
			PositionID: position.ID,
			Title:      position.Title,
			WinnerOnly: winnerOnly,
			Candidates: make([]domain.PublicCandidateResult, 0, len(candidates)),
		}
		for _, c := range candidates {
			pc := domain.PublicCandidateResult{
				Name:      c.Name,
				Classroom: c.Classroom,
			}
			if showRawScore {
				votes := c.Votes
				pc.Votes = &votes
			}
			out.Candidates = append(out.Candidates, pc)
		}

		results.Positions = append(results.Positions, out)
	}

	return results, nil
}

// HasVotedInElection only reports whether a vote record exists for the
// student in that election, never what was voted, and is independent of the
// visibility gate.
func (s *ResultsService) HasVotedInElection(ctx context.Context, studentID, electionID uint) (bool, error) {
	voted, err := s.votes.Exists(ctx, studentID, electionID)
	if err != nil {
		return false, fmt.Errorf("s.votes.Exists -> %w", err)
	}

	return voted, nil
}

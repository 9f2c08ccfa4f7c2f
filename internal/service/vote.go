package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/yizeng/gab/gin/gorm/school-election/internal/domain"
	"github.com/yizeng/gab/gin/gorm/school-election/internal/repository"
	"github.com/yizeng/gab/gin/gorm/school-election/internal/votetoken"
)

var (
	ErrVotingNotApproved = errors.New("student is not approved to vote")
	ErrElectionNotOpen   = errors.New("election is not open for voting")
	ErrElectionEnded     = errors.New("election has ended")
	ErrAlreadyVoted      = repository.ErrVoteExists
	ErrInvalidBallot     = errors.New("ballot does not match the election")
)

type VoteStudentRepository interface {
	FindByID(ctx context.Context, id uint) (domain.Student, error)
}

type VoteElectionRepository interface {
	FindByID(ctx context.Context, id uint) (domain.Election, error)
	IncrementTotalVotes(ctx context.Context, id uint) error
	IncrementCandidateVotes(ctx context.Context, candidateID uint) error
}

type BallotRepository interface {
	Create(ctx context.Context, vote domain.Vote) (domain.Vote, error)
	Exists(ctx context.Context, studentID, electionID uint) (bool, error)
}

// VoteService casts ballots and hands back anonymous receipts.
type VoteService struct {
	students  VoteStudentRepository
	elections VoteElectionRepository
	votes     BallotRepository
	now       func() time.Time
}

func NewVoteService(students VoteStudentRepository, elections VoteElectionRepository, votes BallotRepository) *VoteService {
	return &VoteService{
		students:  students,
		elections: elections,
		votes:     votes,
		now:       time.Now,
	}
}

// CastVote records one student's ballot in one election. The student must
// exist with the matching national id and an approved voting right, the
// election must be open and not ended, and the student must not have voted in
// it before. The returned vote carries the receipt token.
func (s *VoteService) CastVote(ctx context.Context, studentID uint, nationalID string, electionID uint, choices []domain.VoteChoice) (domain.Vote, error) {
	student, err := s.students.FindByID(ctx, studentID)
	if err != nil {
		return domain.Vote{}, fmt.Errorf("s.students.FindByID -> %w", err)
	}
	// A wrong national id reads the same as an unknown student, so the
	// public surface cannot be used to probe the roster.
	if student.NationalID != nationalID {
		return domain.Vote{}, ErrStudentNotFound
	}
	if !student.VotingApproved {
		return domain.Vote{}, ErrVotingNotApproved
	}

	election, err := s.elections.FindByID(ctx, electionID)
	if err != nil {
		return domain.Vote{}, fmt.Errorf("s.elections.FindByID -> %w", err)
	}

	now := s.now()
	if election.Status != domain.ElectionStatusOpen {
		return domain.Vote{}, ErrElectionNotOpen
	}
	if election.Ended(now) {
		return domain.Vote{}, ErrElectionEnded
	}

	voted, err := s.votes.Exists(ctx, studentID, electionID)
	if err != nil {
		return domain.Vote{}, fmt.Errorf("s.votes.Exists -> %w", err)
	}
	if voted {
		return domain.Vote{}, ErrAlreadyVoted
	}

	if err = validateBallot(election, choices); err != nil {
		return domain.Vote{}, err
	}

	vote := domain.Vote{
		ID:         uuid.NewString(),
		StudentID:  studentID,
		ElectionID: electionID,
		Token:      votetoken.Generate(student.FullName(), now.UnixMilli()),
	}

	created, err := s.votes.Create(ctx, vote)
	if err != nil {
		if errors.Is(err, ErrAlreadyVoted) {
			return domain.Vote{}, ErrAlreadyVoted
		}

		return domain.Vote{}, fmt.Errorf("s.votes.Create -> %w", err)
	}

	// The has-voted record is the guard; the counters follow it.
	for _, choice := range choices {
		if err = s.elections.IncrementCandidateVotes(ctx, choice.CandidateID); err != nil {
			return domain.Vote{}, fmt.Errorf("s.elections.IncrementCandidateVotes -> %w", err)
		}
	}
	if err = s.elections.IncrementTotalVotes(ctx, electionID); err != nil {
		return domain.Vote{}, fmt.Errorf("s.elections.IncrementTotalVotes -> %w", err)
	}

	return created, nil
}

// validateBallot checks that every choice names a position of the election
// and one of its candidates, with at most one choice per position.
func validateBallot(election domain.Election, choices []domain.VoteChoice) error {
	if len(choices) == 0 {
		return ErrInvalidBallot
	}

	candidatesByPosition := make(map[uint]map[uint]struct{}, len(election.Positions))
	for _, p := range election.Positions {
		candidates := make(map[uint]struct{}, len(p.Candidates))
		for _, c := range p.Candidates {
			candidates[c.ID] = struct{}{}
		}
		candidatesByPosition[p.ID] = candidates
	}

	seen := make(map[uint]struct{}, len(choices))
	for _, choice := range choices {
		candidates, ok := candidatesByPosition[choice.PositionID]
		if !ok {
			return ErrInvalidBallot
		}
		if _, ok = candidates[choice.CandidateID]; !ok {
			return ErrInvalidBallot
		}
		if _, dup := seen[choice.PositionID]; dup {
			return ErrInvalidBallot
		}
		seen[choice.PositionID] = struct{}{}
	}

	return nil
}

// HasVoted reports whether a vote record exists, nothing more.
func (s *VoteService) HasVoted(ctx context.Context, studentID, electionID uint) (bool, error) {
	voted, err := s.votes.Exists(ctx, studentID, electionID)
	if err != nil {
		return false, fmt.Errorf("s.votes.Exists -> %w", err)
	}

	return voted, nil
}

// VerifyTokenFormat is the structural acceptance check for receipt strings.
func (s *VoteService) VerifyTokenFormat(token string) bool {
	return votetoken.IsValidFormat(token)
}

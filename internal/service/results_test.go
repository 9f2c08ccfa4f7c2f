package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yizeng/gab/gin/gorm/school-election/internal/domain"
	"github.com/yizeng/gab/gin/gorm/school-election/internal/repository"
)

type fakeResultsElections struct {
	elections map[uint]domain.Election
}

func (r *fakeResultsElections) FindByID(_ context.Context, id uint) (domain.Election, error) {
	e, ok := r.elections[id]
	if !ok {
		return domain.Election{}, repository.ErrElectionNotFound
	}
	return e, nil
}

type fakeResultsSettings struct {
	settings map[uint]domain.DisplaySettings
}

func (r *fakeResultsSettings) FindByElectionID(_ context.Context, electionID uint) (domain.DisplaySettings, error) {
	s, ok := r.settings[electionID]
	if !ok {
		return domain.DisplaySettings{}, repository.ErrDisplaySettingsNotFound
	}
	return s, nil
}

type fakeResultsVotes struct {
	voted map[[2]uint]bool
}

func (r *fakeResultsVotes) Exists(_ context.Context, studentID, electionID uint) (bool, error) {
	return r.voted[[2]uint{studentID, electionID}], nil
}

var resultsNow = time.Date(2026, 6, 15, 9, 0, 0, 0, time.UTC)

func newResultsFixture(endDate time.Time, published bool) (*ResultsService, *fakeResultsSettings) {
	elections := &fakeResultsElections{elections: map[uint]domain.Election{
		1: {
			ID:         1,
			Title:      "Student Council 2026",
			Type:       "council",
			Status:     domain.ElectionStatusClosed,
			EndDate:    endDate,
			TotalVotes: 10,
			Positions: []domain.Position{
				{
					ID:    10,
					Title: "President",
					Candidates: []domain.Candidate{
						{ID: 100, Name: "Ada Lovelace", Classroom: "3/1", Votes: 4},
						{ID: 101, Name: "Alan Turing", Classroom: "3/2", Votes: 6},
					},
				},
				{
					ID:    11,
					Title: "Secretary",
					Candidates: []domain.Candidate{
						{ID: 102, Name: "Grace Hopper", Classroom: "3/1", Votes: 5},
						{ID: 103, Name: "Edsger Dijkstra", Classroom: "3/2", Votes: 5},
					},
				},
			},
		},
	}}
	settings := &fakeResultsSettings{settings: map[uint]domain.DisplaySettings{
		1: {
			ElectionID:   1,
			IsPublished:  published,
			ShowRawScore: true,
			PositionConfigs: []domain.PositionConfig{
				{PositionID: 10, ShowRawScore: true},
				{PositionID: 11, ShowRawScore: true},
			},
		},
	}}

	svc := NewResultsService(elections, settings, &fakeResultsVotes{voted: map[[2]uint]bool{}})
	svc.now = func() time.Time { return resultsNow }

	return svc, settings
}

func TestResultsService_CheckVisibility(t *testing.T) {
	ctx := context.Background()
	past := resultsNow.Add(-24 * time.Hour)
	future := resultsNow.Add(24 * time.Hour)

	tests := []struct {
		name      string
		endDate   time.Time
		published bool
		wantErr   error
	}{
		{"future end date, published", future, true, ErrElectionStillActive},
		{"future end date, unpublished", future, false, ErrElectionStillActive},
		{"past end date, unpublished", past, false, ErrResultsNotPublished},
		{"past end date, published", past, true, nil},
		{"zero end date never ends", time.Time{}, true, ErrElectionStillActive},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _ := newResultsFixture(tt.endDate, tt.published)

			err := svc.CheckVisibility(ctx, 1)
			if tt.wantErr == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}

func TestResultsService_CheckVisibility_MissingSettingsFailClosed(t *testing.T) {
	svc, settings := newResultsFixture(resultsNow.Add(-time.Hour), true)
	delete(settings.settings, 1)

	err := svc.CheckVisibility(context.Background(), 1)
	assert.ErrorIs(t, err, ErrResultsNotPublished)
}

func TestResultsService_PublicResults(t *testing.T) {
	svc, _ := newResultsFixture(resultsNow.Add(-time.Hour), true)

	results, err := svc.PublicResults(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, uint(1), results.ElectionID)
	assert.Equal(t, 10, results.TotalVotes)
	require.Len(t, results.Positions, 2)

	// Candidates come back ordered by votes, raw scores included.
	president := results.Positions[0]
	require.Len(t, president.Candidates, 2)
	assert.Equal(t, "Alan Turing", president.Candidates[0].Name)
	require.NotNil(t, president.Candidates[0].Votes)
	assert.Equal(t, 6, *president.Candidates[0].Votes)
	assert.Equal(t, "Ada Lovelace", president.Candidates[1].Name)
}

func TestResultsService_PublicResults_WinnerOnlyKeepsTies(t *testing.T) {
	svc, settings := newResultsFixture(resultsNow.Add(-time.Hour), true)
	s := settings.settings[1]
	s.PositionConfigs[1].ShowWinnerOnly = true
	settings.settings[1] = s

	results, err := svc.PublicResults(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, results.Positions, 2)

	secretary := results.Positions[1]
	assert.True(t, secretary.WinnerOnly)
	// Both secretary candidates sit at 5 votes, so both stay.
	assert.Len(t, secretary.Candidates, 2)
}

func TestResultsService_PublicResults_HiddenScoresAndSkip(t *testing.T) {
	svc, settings := newResultsFixture(resultsNow.Add(-time.Hour), true)
	s := settings.settings[1]
	s.PositionConfigs[0].ShowRawScore = false
	s.PositionConfigs[1].Skip = true
	settings.settings[1] = s

	results, err := svc.PublicResults(context.Background(), 1)
	require.NoError(t, err)

	// The skipped position disappears entirely.
	require.Len(t, results.Positions, 1)
	assert.Equal(t, uint(10), results.Positions[0].PositionID)

	// Ordering still reflects votes even with scores hidden.
	president := results.Positions[0]
	assert.Equal(t, "Alan Turing", president.Candidates[0].Name)
	for _, c := range president.Candidates {
		assert.Nil(t, c.Votes)
	}
}

func TestResultsService_PublicResults_GateStillApplies(t *testing.T) {
	svc, _ := newResultsFixture(resultsNow.Add(-time.Hour), false)

	_, err := svc.PublicResults(context.Background(), 1)
	assert.ErrorIs(t, err, ErrResultsNotPublished)
}

func TestResultsService_HasVotedInElection(t *testing.T) {
	elections := &fakeResultsElections{elections: map[uint]domain.Election{}}
	settings := &fakeResultsSettings{settings: map[uint]domain.DisplaySettings{}}
	votes := &fakeResultsVotes{voted: map[[2]uint]bool{{7, 1}: true}}
	svc := NewResultsService(elections, settings, votes)

	voted, err := svc.HasVotedInElection(context.Background(), 7, 1)
	require.NoError(t, err)
	assert.True(t, voted)

	voted, err = svc.HasVotedInElection(context.Background(), 7, 2)
	require.NoError(t, err)
	assert.False(t, voted)
}

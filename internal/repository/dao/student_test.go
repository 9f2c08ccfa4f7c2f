package dao

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRosterRow(id uint, nationalID, classroom string) Student {
	return Student{
		ID:          id,
		ClassNumber: int(id % 40),
		Name:        "Test",
		Surname:     "Student",
		Classroom:   classroom,
		NationalID:  nationalID,
	}
}

func TestStudentDAO_InsertRejectsDuplicates(t *testing.T) {
	d := NewStudentDAO(newTestDB(t))
	ctx := context.Background()

	_, err := d.Insert(ctx, newRosterRow(1001, "11111111111", "3/1"))
	require.NoError(t, err)

	_, err = d.Insert(ctx, newRosterRow(1001, "22222222222", "3/1"))
	assert.ErrorIs(t, err, ErrStudentIDExists)

	_, err = d.Insert(ctx, newRosterRow(1002, "11111111111", "3/1"))
	assert.ErrorIs(t, err, ErrStudentNationalIDExists)

	// The roster is unchanged by the rejected inserts.
	all, err := d.FindAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, uint(1001), all[0].ID)
	assert.Equal(t, "11111111111", all[0].NationalID)
}

func TestStudentDAO_UpdateVotingByClassroom(t *testing.T) {
	d := NewStudentDAO(newTestDB(t))
	ctx := context.Background()

	for _, s := range []Student{
		newRosterRow(1, "n-1", "3/1"),
		newRosterRow(2, "n-2", "3/1"),
		newRosterRow(3, "n-3", "3/2"),
	} {
		_, err := d.Insert(ctx, s)
		require.NoError(t, err)
	}

	now := time.Now()
	count, err := d.UpdateVotingByClassroom(ctx, "3/1", true, &now, "Principal")
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	approved, err := d.FindByVotingApproved(ctx, true)
	require.NoError(t, err)
	assert.Len(t, approved, 2)
	for _, s := range approved {
		assert.Equal(t, "3/1", s.Classroom)
		assert.Equal(t, "Principal", s.VotingApprovedBy)
		require.NotNil(t, s.VotingApprovedAt)
	}

	// Students in other classrooms are untouched.
	other, err := d.FindByID(ctx, 3)
	require.NoError(t, err)
	assert.False(t, other.VotingApproved)

	count, err = d.UpdateVotingByClassroom(ctx, "4/9", true, &now, "Principal")
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestStudentDAO_Delete(t *testing.T) {
	d := NewStudentDAO(newTestDB(t))
	ctx := context.Background()

	_, err := d.Insert(ctx, newRosterRow(7, "n-7", "1/1"))
	require.NoError(t, err)

	removed, err := d.Delete(ctx, 7)
	require.NoError(t, err)
	assert.True(t, removed)

	// Deleting a missing id is not an error, just false.
	removed, err = d.Delete(ctx, 7)
	require.NoError(t, err)
	assert.False(t, removed)

	_, err = d.FindByID(ctx, 7)
	assert.ErrorIs(t, err, ErrStudentNotFound)
}

func TestStudentDAO_DeleteAll(t *testing.T) {
	d := NewStudentDAO(newTestDB(t))
	ctx := context.Background()

	for i := uint(1); i <= 5; i++ {
		_, err := d.Insert(ctx, newRosterRow(i, "nat-"+string(rune('0'+i)), "2/1"))
		require.NoError(t, err)
	}

	require.NoError(t, d.DeleteAll(ctx))

	all, err := d.FindAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)
}

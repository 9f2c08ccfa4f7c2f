package dao

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVoteDAO_InsertRejectsSecondVote(t *testing.T) {
	d := NewVoteDAO(newTestDB(t))
	ctx := context.Background()

	_, err := d.Insert(ctx, Vote{ID: uuid.NewString(), StudentID: 1, ElectionID: 10, Token: "VOTE-AAAA-1111"})
	require.NoError(t, err)

	_, err = d.Insert(ctx, Vote{ID: uuid.NewString(), StudentID: 1, ElectionID: 10, Token: "VOTE-BBBB-2222"})
	assert.ErrorIs(t, err, ErrVoteExists)

	// Same student, different election is fine.
	_, err = d.Insert(ctx, Vote{ID: uuid.NewString(), StudentID: 1, ElectionID: 11, Token: "VOTE-CCCC-3333"})
	require.NoError(t, err)

	exists, err := d.Exists(ctx, 1, 10)
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = d.Exists(ctx, 2, 10)
	require.NoError(t, err)
	assert.False(t, exists)

	ids, err := d.ElectionIDsByStudent(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, []uint{10, 11}, ids)
}

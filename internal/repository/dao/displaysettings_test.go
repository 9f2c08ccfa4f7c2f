package dao

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDisplaySettingsDAO_ConfigsKeepCreationOrder(t *testing.T) {
	d := NewDisplaySettingsDAO(newTestDB(t))
	ctx := context.Background()

	_, err := d.Insert(ctx, DisplaySettings{
		ElectionID:   1,
		ShowRawScore: true,
		Configs: []PositionConfig{
			{ElectionID: 1, PositionID: 30, ShowRawScore: true},
			{ElectionID: 1, PositionID: 10, ShowRawScore: true},
		},
	})
	require.NoError(t, err)

	// Appended later, must come after the originals regardless of id value.
	require.NoError(t, d.AppendConfigs(ctx, []PositionConfig{
		{ElectionID: 1, PositionID: 20, ShowRawScore: true},
	}))

	settings, err := d.FindByElectionID(ctx, 1)
	require.NoError(t, err)
	require.Len(t, settings.Configs, 3)
	assert.Equal(t, uint(30), settings.Configs[0].PositionID)
	assert.Equal(t, uint(10), settings.Configs[1].PositionID)
	assert.Equal(t, uint(20), settings.Configs[2].PositionID)
}

func TestDisplaySettingsDAO_UpdateConfigTouchesOneEntry(t *testing.T) {
	d := NewDisplaySettingsDAO(newTestDB(t))
	ctx := context.Background()

	_, err := d.Insert(ctx, DisplaySettings{
		ElectionID:   5,
		ShowRawScore: true,
		Configs: []PositionConfig{
			{ElectionID: 5, PositionID: 1, ShowRawScore: true},
			{ElectionID: 5, PositionID: 2, ShowRawScore: true},
		},
	})
	require.NoError(t, err)

	found, err := d.UpdateConfig(ctx, 5, 2, map[string]interface{}{"skip": true})
	require.NoError(t, err)
	assert.True(t, found)

	found, err = d.UpdateConfig(ctx, 5, 99, map[string]interface{}{"skip": true})
	require.NoError(t, err)
	assert.False(t, found)

	settings, err := d.FindByElectionID(ctx, 5)
	require.NoError(t, err)
	assert.False(t, settings.Configs[0].Skip)
	assert.True(t, settings.Configs[1].Skip)
}

func TestDisplaySettingsDAO_Delete(t *testing.T) {
	d := NewDisplaySettingsDAO(newTestDB(t))
	ctx := context.Background()

	_, err := d.Insert(ctx, DisplaySettings{
		ElectionID: 9,
		Configs:    []PositionConfig{{ElectionID: 9, PositionID: 1}},
	})
	require.NoError(t, err)

	removed, err := d.Delete(ctx, 9)
	require.NoError(t, err)
	assert.True(t, removed)

	removed, err = d.Delete(ctx, 9)
	require.NoError(t, err)
	assert.False(t, removed)

	_, err = d.FindByElectionID(ctx, 9)
	assert.ErrorIs(t, err, ErrDisplaySettingsNotFound)
}

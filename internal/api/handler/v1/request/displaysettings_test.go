package request

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func boolPtr(v bool) *bool {
	return &v
}

func TestUpdateDisplaySettingsRequest_Validate(t *testing.T) {
	assert.Error(t, (&UpdateDisplaySettingsRequest{}).Validate())

	assert.NoError(t, (&UpdateDisplaySettingsRequest{ShowRawScore: boolPtr(false)}).Validate())
	assert.NoError(t, (&UpdateDisplaySettingsRequest{ShowWinnerOnly: boolPtr(true)}).Validate())
	assert.NoError(t, (&UpdateDisplaySettingsRequest{
		ShowRawScore:   boolPtr(true),
		ShowWinnerOnly: boolPtr(false),
	}).Validate())
}

func TestUpdatePositionConfigRequest_Validate(t *testing.T) {
	assert.Error(t, (&UpdatePositionConfigRequest{}).Validate())

	assert.NoError(t, (&UpdatePositionConfigRequest{Skip: boolPtr(true)}).Validate())
	assert.NoError(t, (&UpdatePositionConfigRequest{ShowRawScore: boolPtr(false)}).Validate())
}

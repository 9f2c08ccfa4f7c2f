package request

import (
	"errors"

	validation "github.com/go-ozzo/ozzo-validation"
)

var errNoFlagsGiven = errors.New("at least one flag must be given")

// UpdateDisplaySettingsRequest edits the election-wide flags. Absent fields
// keep their stored values.
type UpdateDisplaySettingsRequest struct {
	ShowRawScore   *bool `json:"show_raw_score,omitempty"`
	ShowWinnerOnly *bool `json:"show_winner_only,omitempty"`
}

// Validate rejects an empty update. Any flag that is present is valid.
func (req *UpdateDisplaySettingsRequest) Validate() error {
	if req.ShowRawScore == nil && req.ShowWinnerOnly == nil {
		return validation.Errors{"flags": errNoFlagsGiven}
	}

	return nil
}

type UpdatePositionConfigRequest struct {
	ShowRawScore   *bool `json:"show_raw_score,omitempty"`
	ShowWinnerOnly *bool `json:"show_winner_only,omitempty"`
	Skip           *bool `json:"skip,omitempty"`
}

func (req *UpdatePositionConfigRequest) Validate() error {
	if req.ShowRawScore == nil && req.ShowWinnerOnly == nil && req.Skip == nil {
		return validation.Errors{"flags": errNoFlagsGiven}
	}

	return nil
}

// ApplyGlobalSettingsRequest carries plain flags, so both values of each are
// meaningful and there is nothing to validate.
type ApplyGlobalSettingsRequest struct {
	ShowRawScore   bool `json:"show_raw_score"`
	ShowWinnerOnly bool `json:"show_winner_only"`
}

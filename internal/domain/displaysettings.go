package domain

import "time"

// DisplaySettings controls whether and how one election's results are shown
// publicly. There is at most one per election, created lazily on first access.
type DisplaySettings struct {
	ElectionID      uint             `json:"election_id"`
	IsPublished     bool             `json:"is_published"`
	PublishedAt     *time.Time       `json:"published_at"`
	ShowRawScore    bool             `json:"show_raw_score"`
	ShowWinnerOnly  bool             `json:"show_winner_only"`
	PositionConfigs []PositionConfig `json:"position_configs"`
	CreatedAt       time.Time        `json:"created_at"`
	UpdatedAt       time.Time        `json:"updated_at"`
}

// Config returns the config for the given position, if present.
func (s DisplaySettings) Config(positionID uint) (PositionConfig, bool) {
	for _, c := range s.PositionConfigs {
		if c.PositionID == positionID {
			return c, true
		}
	}
	return PositionConfig{}, false
}

// PositionConfig is the per-position visibility override. Entries keep their
// creation order.
type PositionConfig struct {
	PositionID     uint `json:"position_id"`
	ShowRawScore   bool `json:"show_raw_score"`
	ShowWinnerOnly bool `json:"show_winner_only"`
	Skip           bool `json:"skip"`
}

// DisplaySettingsUpdate carries a partial edit of the election-wide flags.
// Publication moves only through the publish/unpublish operations.
type DisplaySettingsUpdate struct {
	ShowRawScore   *bool `json:"show_raw_score"`
	ShowWinnerOnly *bool `json:"show_winner_only"`
}

type PositionConfigUpdate struct {
	ShowRawScore   *bool `json:"show_raw_score"`
	ShowWinnerOnly *bool `json:"show_winner_only"`
	Skip           *bool `json:"skip"`
}

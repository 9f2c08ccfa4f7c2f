package dao

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
)

var ErrDisplaySettingsNotFound = errors.New("display settings not found")

// DisplaySettings is the per-election result-visibility row. One row per
// election, keyed by the election id.
type DisplaySettings struct {
	ElectionID uint `gorm:"primaryKey;autoIncrement:false"`

	IsPublished    bool `gorm:"not null;default:false"`
	PublishedAt    *time.Time
	ShowRawScore   bool `gorm:"not null;default:true"`
	ShowWinnerOnly bool `gorm:"not null;default:false"`

	// Configs keep their creation order through the auto-incremented row id.
	Configs []PositionConfig `gorm:"foreignKey:ElectionID"`

	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

type PositionConfig struct {
	ID         uint `gorm:"primaryKey"`
	ElectionID uint `gorm:"not null;uniqueIndex:idx_election_position"`
	PositionID uint `gorm:"not null;uniqueIndex:idx_election_position"`

	ShowRawScore   bool `gorm:"not null;default:true"`
	ShowWinnerOnly bool `gorm:"not null;default:false"`
	Skip           bool `gorm:"not null;default:false"`
}

type DisplaySettingsDAO struct {
	db *gorm.DB
}

func NewDisplaySettingsDAO(db *gorm.DB) *DisplaySettingsDAO {
	return &DisplaySettingsDAO{
		db: db,
	}
}

func (d *DisplaySettingsDAO) Insert(ctx context.Context, settings DisplaySettings) (DisplaySettings, error) {
	result := d.db.WithContext(ctx).Create(&settings)
	if result.Error != nil {
		return DisplaySettings{}, result.Error
	}

	return settings, nil
}

func (d *DisplaySettingsDAO) FindByElectionID(ctx context.Context, electionID uint) (DisplaySettings, error) {
	var settings DisplaySettings

	result := d.db.WithContext(ctx).
		Preload("Configs", func(db *gorm.DB) *gorm.DB { return db.Order("position_configs.id asc") }).
		First(&settings, "election_id = ?", electionID)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return DisplaySettings{}, ErrDisplaySettingsNotFound
		}

		return DisplaySettings{}, result.Error
	}

	return settings, nil
}

func (d *DisplaySettingsDAO) FindAll(ctx context.Context) ([]DisplaySettings, error) {
	var settings []DisplaySettings

	result := d.db.WithContext(ctx).
		Preload("Configs", func(db *gorm.DB) *gorm.DB { return db.Order("position_configs.id asc") }).
		Order("election_id asc").
		Find(&settings)
	if result.Error != nil {
		return nil, result.Error
	}

	return settings, nil
}

// UpdateFields writes the given top-level columns of one settings row.
func (d *DisplaySettingsDAO) UpdateFields(ctx context.Context, electionID uint, fields map[string]interface{}) error {
	result := d.db.WithContext(ctx).
		Model(&DisplaySettings{}).
		Where("election_id = ?", electionID).
		Updates(fields)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrDisplaySettingsNotFound
	}

	return nil
}

// AppendConfigs adds defaulted configs for positions that gained one after
// the settings row was created. Existing configs are untouched.
func (d *DisplaySettingsDAO) AppendConfigs(ctx context.Context, configs []PositionConfig) error {
	if len(configs) == 0 {
		return nil
	}

	result := d.db.WithContext(ctx).Create(&configs)
	if result.Error != nil {
		return result.Error
	}

	return nil
}

// UpdateConfig writes the given columns of exactly one position config and
// reports whether such a config existed.
func (d *DisplaySettingsDAO) UpdateConfig(ctx context.Context, electionID, positionID uint, fields map[string]interface{}) (bool, error) {
	result := d.db.WithContext(ctx).
		Model(&PositionConfig{}).
		Where("election_id = ? AND position_id = ?", electionID, positionID).
		Updates(fields)
	if result.Error != nil {
		return false, result.Error
	}

	return result.RowsAffected > 0, nil
}

// UpdateAllConfigs bulk-applies the two global flags onto every config of the
// election.
func (d *DisplaySettingsDAO) UpdateAllConfigs(ctx context.Context, electionID uint, showRawScore, showWinnerOnly bool) error {
	result := d.db.WithContext(ctx).
		Model(&PositionConfig{}).
		Where("election_id = ?", electionID).
		Updates(map[string]interface{}{
			"show_raw_score":   showRawScore,
			"show_winner_only": showWinnerOnly,
		})
	if result.Error != nil {
		return result.Error
	}

	return nil
}

func (d *DisplaySettingsDAO) Delete(ctx context.Context, electionID uint) (bool, error) {
	if err := d.db.WithContext(ctx).Where("election_id = ?", electionID).Delete(&PositionConfig{}).Error; err != nil {
		return false, err
	}

	result := d.db.WithContext(ctx).Where("election_id = ?", electionID).Delete(&DisplaySettings{})
	if result.Error != nil {
		return false, result.Error
	}

	return result.RowsAffected > 0, nil
}

func (d *DisplaySettingsDAO) DeleteAll(ctx context.Context) error {
	if err := d.db.WithContext(ctx).Where("1 = 1").Delete(&PositionConfig{}).Error; err != nil {
		return err
	}
	if err := d.db.WithContext(ctx).Where("1 = 1").Delete(&DisplaySettings{}).Error; err != nil {
		return err
	}

	return nil
}

package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/yizeng/gab/gin/gorm/school-election/internal/domain"
	"github.com/yizeng/gab/gin/gorm/school-election/internal/repository/dao"
)

var ErrDisplaySettingsNotFound = dao.ErrDisplaySettingsNotFound

type DisplaySettingsDAO interface {
	Insert(ctx context.Context, settings dao.DisplaySettings) (dao.DisplaySettings, error)
	FindByElectionID(ctx context.Context, electionID uint) (dao.DisplaySettings, error)
	FindAll(ctx context.Context) ([]dao.DisplaySettings, error)
	UpdateFields(ctx context.Context, electionID uint, fields map[string]interface{}) error
	AppendConfigs(ctx context.Context, configs []dao.PositionConfig) error
	UpdateConfig(ctx context.Context, electionID, positionID uint, fields map[string]interface{}) (bool, error)
	UpdateAllConfigs(ctx context.Context, electionID uint, showRawScore, showWinnerOnly bool) error
	Delete(ctx context.Context, electionID uint) (bool, error)
	DeleteAll(ctx context.Context) error
}

type DisplaySettingsRepository struct {
	dao DisplaySettingsDAO
}

func NewDisplaySettingsRepository(dao DisplaySettingsDAO) *DisplaySettingsRepository {
	return &DisplaySettingsRepository{
		dao: dao,
	}
}

func (r *DisplaySettingsRepository) Create(ctx context.Context, settings domain.DisplaySettings) (domain.DisplaySettings, error) {
	configs := make([]dao.PositionConfig, 0, len(settings.PositionConfigs))
	for _, c := range settings.PositionConfigs {
		configs = append(configs, dao.PositionConfig{
			ElectionID:     settings.ElectionID,
			PositionID:     c.PositionID,
			ShowRawScore:   c.ShowRawScore,
			ShowWinnerOnly: c.ShowWinnerOnly,
			Skip:           c.Skip,
		})
	}

	created, err := r.dao.Insert(ctx, dao.DisplaySettings{
		ElectionID:     settings.ElectionID,
		IsPublished:    settings.IsPublished,
		PublishedAt:    settings.PublishedAt,
		ShowRawScore:   settings.ShowRawScore,
		ShowWinnerOnly: settings.ShowWinnerOnly,
		Configs:        configs,
	})
	if err != nil {
		return domain.DisplaySettings{}, fmt.Errorf("r.dao.Insert -> %w", err)
	}

	return r.daoToDomain(created), nil
}

func (r *DisplaySettingsRepository) FindByElectionID(ctx context.Context, electionID uint) (domain.DisplaySettings, error) {
	found, err := r.dao.FindByElectionID(ctx, electionID)
	if err != nil {
		return domain.DisplaySettings{}, fmt.Errorf("r.dao.FindByElectionID -> %w", err)
	}

	return r.daoToDomain(found), nil
}

func (r *DisplaySettingsRepository) FindAll(ctx context.Context) ([]domain.DisplaySettings, error) {
	found, err := r.dao.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindAll -> %w", err)
	}

	settings := make([]domain.DisplaySettings, 0, len(found))
	for _, s := range found {
		settings = append(settings, r.daoToDomain(s))
	}

	return settings, nil
}

func (r *DisplaySettingsRepository) UpdateGlobalFlags(ctx context.Context, electionID uint, showRawScore, showWinnerOnly *bool) error {
	fields := make(map[string]interface{}, 2)
	if showRawScore != nil {
		fields["show_raw_score"] = *showRawScore
	}
	if showWinnerOnly != nil {
		fields["show_winner_only"] = *showWinnerOnly
	}
	if len(fields) == 0 {
		return nil
	}

	if err := r.dao.UpdateFields(ctx, electionID, fields); err != nil {
		return fmt.Errorf("r.dao.UpdateFields -> %w", err)
	}

	return nil
}

func (r *DisplaySettingsRepository) SetPublished(ctx context.Context, electionID uint, published bool, publishedAt *time.Time) error {
	err := r.dao.UpdateFields(ctx, electionID, map[string]interface{}{
		"is_published": published,
		"published_at": publishedAt,
	})
	if err != nil {
		return fmt.Errorf("r.dao.UpdateFields -> %w", err)
	}

	return nil
}

func (r *DisplaySettingsRepository) AppendConfigs(ctx context.Context, electionID uint, configs []domain.PositionConfig) error {
	daoConfigs := make([]dao.PositionConfig, 0, len(configs))
	for _, c := range configs {
		daoConfigs = append(daoConfigs, dao.PositionConfig{
			ElectionID:     electionID,
			PositionID:     c.PositionID,
			ShowRawScore:   c.ShowRawScore,
			ShowWinnerOnly: c.ShowWinnerOnly,
			Skip:           c.Skip,
		})
	}

	if err := r.dao.AppendConfigs(ctx, daoConfigs); err != nil {
		return fmt.Errorf("r.dao.AppendConfigs -> %w", err)
	}

	return nil
}

// UpdateConfig patches one position's config; reports whether the position
// had a config at all.
func (r *DisplaySettingsRepository) UpdateConfig(ctx context.Context, electionID, positionID uint, update domain.PositionConfigUpdate) (bool, error) {
	fields := make(map[string]interface{}, 3)
	if update.ShowRawScore != nil {
		fields["show_raw_score"] = *update.ShowRawScore
	}
	if update.ShowWinnerOnly != nil {
		fields["show_winner_only"] = *update.ShowWinnerOnly
	}
	if update.Skip != nil {
		fields["skip"] = *update.Skip
	}
	if len(fields) == 0 {
		return true, nil
	}

	found, err := r.dao.UpdateConfig(ctx, electionID, positionID, fields)
	if err != nil {
		return false, fmt.Errorf("r.dao.UpdateConfig -> %w", err)
	}

	return found, nil
}

func (r *DisplaySettingsRepository) UpdateAllConfigs(ctx context.Context, electionID uint, showRawScore, showWinnerOnly bool) error {
	if err := r.dao.UpdateAllConfigs(ctx, electionID, showRawScore, showWinnerOnly); err != nil {
		return fmt.Errorf("r.dao.UpdateAllConfigs -> %w", err)
	}

	return nil
}

func (r *DisplaySettingsRepository) Delete(ctx context.Context, electionID uint) (bool, error) {
	removed, err := r.dao.Delete(ctx, electionID)
	if err != nil {
		return false, fmt.Errorf("r.dao.Delete -> %w", err)
	}

	return removed, nil
}

func (r *DisplaySettingsRepository) DeleteAll(ctx context.Context) error {
	if err := r.dao.DeleteAll(ctx); err != nil {
		return fmt.Errorf("r.dao.DeleteAll -> %w", err)
	}

	return nil
}

func (r *DisplaySettingsRepository) daoToDomain(s dao.DisplaySettings) domain.DisplaySettings {
	configs := make([]domain.PositionConfig, 0, len(s.Configs))
	for _, c := range s.Configs {
		configs = append(configs, domain.PositionConfig{
			PositionID:     c.PositionID,
			ShowRawScore:   c.ShowRawScore,
			ShowWinnerOnly: c.ShowWinnerOnly,
			Skip:           c.Skip,
		})
	}

	return domain.DisplaySettings{
		ElectionID:      s.ElectionID,
		IsPublished:     s.IsPublished,
		PublishedAt:     s.PublishedAt,
		ShowRawScore:    s.ShowRawScore,
		ShowWinnerOnly:  s.ShowWinnerOnly,
		PositionConfigs: configs,
		CreatedAt:       s.CreatedAt,
		UpdatedAt:       s.UpdatedAt,
	}
}

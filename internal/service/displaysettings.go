package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/yizeng/gab/gin/gorm/school-election/internal/domain"
	"github.com/yizeng/gab/gin/gorm/school-election/internal/repository"
)

var ErrDisplaySettingsNotFound = repository.ErrDisplaySettingsNotFound

type DisplaySettingsRepository interface {
	Create(ctx context.Context, settings domain.DisplaySettings) (domain.DisplaySettings, error)
	FindByElectionID(ctx context.Context, electionID uint) (domain.DisplaySettings, error)
	FindAll(ctx context.Context) ([]domain.DisplaySettings, error)
	UpdateGlobalFlags(ctx context.Context, electionID uint, showRawScore, showWinnerOnly *bool) error
	SetPublished(ctx context.Context, electionID uint, published bool, publishedAt *time.Time) error
	AppendConfigs(ctx context.Context, electionID uint, configs []domain.PositionConfig) error
	UpdateConfig(ctx context.Context, electionID, positionID uint, update domain.PositionConfigUpdate) (bool, error)
	UpdateAllConfigs(ctx context.Context, electionID uint, showRawScore, showWinnerOnly bool) error
	Delete(ctx context.Context, electionID uint) (bool, error)
	DeleteAll(ctx context.Context) error
}

// SettingsObserver receives every election's display settings after each
// successful mutation, synchronously.
type SettingsObserver func(settings []domain.DisplaySettings)

// DisplaySettingsService owns the per-election result-visibility
// configuration.
type DisplaySettingsService struct {
	repo DisplaySettingsRepository
	now  func() time.Time

	mu           sync.Mutex
	nextObserver int
	observers    map[int]SettingsObserver
}

func NewDisplaySettingsService(repo DisplaySettingsRepository) *DisplaySettingsService {
	return &DisplaySettingsService{
		repo:      repo,
		now:       time.Now,
		observers: make(map[int]SettingsObserver),
	}
}

func (s *DisplaySettingsService) Subscribe(observer SettingsObserver) func() {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextObserver
	s.nextObserver++
	s.observers[id] = observer

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.observers, id)
	}
}

func (s *DisplaySettingsService) notifyObservers(ctx context.Context) {
	s.mu.Lock()
	observers := make([]SettingsObserver, 0, len(s.observers))
	for _, o := range s.observers {
		observers = append(observers, o)
	}
	s.mu.Unlock()

	if len(observers) == 0 {
		return
	}

	all, err := s.repo.FindAll(ctx)
	if err != nil {
		zap.L().Error("failed to load display settings for observers", zap.Error(err))
		return
	}

	for _, o := range observers {
		o(all)
	}
}

// DefaultSettings builds the settings an election starts with: unpublished,
// raw scores on, winner-only off, one defaulted config per position.
func DefaultSettings(electionID uint, positionIDs []uint) domain.DisplaySettings {
	configs := make([]domain.PositionConfig, 0, len(positionIDs))
	for _, id := range positionIDs {
		configs = append(configs, domain.PositionConfig{
			PositionID:   id,
			ShowRawScore: true,
		})
	}

	return domain.DisplaySettings{
		ElectionID:      electionID,
		ShowRawScore:    true,
		PositionConfigs: configs,
	}
}

// GetOrCreateDisplaySettings returns the election's settings, creating them
// with defaults on first access. Positions that gained a config since the
// settings were created get defaulted configs appended; existing entries are
// never disturbed.
func (s *DisplaySettingsService) GetOrCreateDisplaySettings(ctx context.Context, electionID uint, positionIDs []uint) (domain.DisplaySettings, error) {
	settings, err := s.repo.FindByElectionID(ctx, electionID)
	if errors.Is(err, ErrDisplaySettingsNotFound) {
		created, err := s.repo.Create(ctx, DefaultSettings(electionID, positionIDs))
		if err != nil {
			return domain.DisplaySettings{}, fmt.Errorf("s.repo.Create -> %w", err)
		}

		s.notifyObservers(ctx)

		return created, nil
	}
	if err != nil {
		return domain.DisplaySettings{}, fmt.Errorf("s.repo.FindByElectionID -> %w", err)
	}

	missing := make([]domain.PositionConfig, 0)
	for _, id := range positionIDs {
		if _, ok := settings.Config(id); !ok {
			missing = append(missing, domain.PositionConfig{PositionID: id, ShowRawScore: true})
		}
	}
	if len(missing) == 0 {
		return settings, nil
	}

	if err = s.repo.AppendConfigs(ctx, electionID, missing); err != nil {
		return domain.DisplaySettings{}, fmt.Errorf("s.repo.AppendConfigs -> %w", err)
	}

	settings, err = s.repo.FindByElectionID(ctx, electionID)
	if err != nil {
		return domain.DisplaySettings{}, fmt.Errorf("s.repo.FindByElectionID -> %w", err)
	}

	s.notifyObservers(ctx)

	return settings, nil
}

func (s *DisplaySettingsService) GetDisplaySettings(ctx context.Context, electionID uint) (domain.DisplaySettings, error) {
	settings, err := s.repo.FindByElectionID(ctx, electionID)
	if err != nil {
		return domain.DisplaySettings{}, fmt.Errorf("s.repo.FindByElectionID -> %w", err)
	}

	return settings, nil
}

func (s *DisplaySettingsService) UpdateDisplaySettings(ctx context.Context, electionID uint, update domain.DisplaySettingsUpdate) (domain.DisplaySettings, error) {
	if err := s.repo.UpdateGlobalFlags(ctx, electionID, update.ShowRawScore, update.ShowWinnerOnly); err != nil {
		return domain.DisplaySettings{}, fmt.Errorf("s.repo.UpdateGlobalFlags -> %w", err)
	}

	settings, err := s.repo.FindByElectionID(ctx, electionID)
	if err != nil {
		return domain.DisplaySettings{}, fmt.Errorf("s.repo.FindByElectionID -> %w", err)
	}

	s.notifyObservers(ctx)

	return settings, nil
}

// UpdatePositionConfig patches exactly one position's config, leaving
// siblings untouched. Updating a position the election's settings do not
// know is a no-op returning the unchanged settings; callers pre-validate
// position existence.
func (s *DisplaySettingsService) UpdatePositionConfig(ctx context.Context, electionID, positionID uint, update domain.PositionConfigUpdate) (domain.DisplaySettings, error) {
	if _, err := s.repo.FindByElectionID(ctx, electionID); err != nil {
		return domain.DisplaySettings{}, fmt.Errorf("s.repo.FindByElectionID -> %w", err)
	}

	changed, err := s.repo.UpdateConfig(ctx, electionID, positionID, update)
	if err != nil {
		return domain.DisplaySettings{}, fmt.Errorf("s.repo.UpdateConfig -> %w", err)
	}

	settings, err := s.repo.FindByElectionID(ctx, electionID)
	if err != nil {
		return domain.DisplaySettings{}, fmt.Errorf("s.repo.FindByElectionID -> %w", err)
	}

	if changed {
		s.notifyObservers(ctx)
	}

	return settings, nil
}

// PublishResults flips the election's results public and stamps the moment.
func (s *DisplaySettingsService) PublishResults(ctx context.Context, electionID uint) (domain.DisplaySettings, error) {
	now := s.now()
	if err := s.repo.SetPublished(ctx, electionID, true, &now); err != nil {
		return domain.DisplaySettings{}, fmt.Errorf("s.repo.SetPublished -> %w", err)
	}

	settings, err := s.repo.FindByElectionID(ctx, electionID)
	if err != nil {
		return domain.DisplaySettings{}, fmt.Errorf("s.repo.FindByElectionID -> %w", err)
	}

	s.notifyObservers(ctx)

	return settings, nil
}

func (s *DisplaySettingsService) UnpublishResults(ctx context.Context, electionID uint) (domain.DisplaySettings, error) {
	if err := s.repo.SetPublished(ctx, electionID, false, nil); err != nil {
		return domain.DisplaySettings{}, fmt.Errorf("s.repo.SetPublished -> %w", err)
	}

	settings, err := s.repo.FindByElectionID(ctx, electionID)
	if err != nil {
		return domain.DisplaySettings{}, fmt.Errorf("s.repo.FindByElectionID -> %w", err)
	}

	s.notifyObservers(ctx)

	return settings, nil
}

// ApplyGlobalSettings sets the two election-wide flags and bulk-applies them
// onto every position config. This is a convenience overwrite, not a second
// layer: a later per-position edit wins until the next global apply.
func (s *DisplaySettingsService) ApplyGlobalSettings(ctx context.Context, electionID uint, showRawScore, showWinnerOnly bool) (domain.DisplaySettings, error) {
	if err := s.repo.UpdateGlobalFlags(ctx, electionID, &showRawScore, &showWinnerOnly); err != nil {
		return domain.DisplaySettings{}, fmt.Errorf("s.repo.UpdateGlobalFlags -> %w", err)
	}
	if err := s.repo.UpdateAllConfigs(ctx, electionID, showRawScore, showWinnerOnly); err != nil {
		return domain.DisplaySettings{}, fmt.Errorf("s.repo.UpdateAllConfigs -> %w", err)
	}

	settings, err := s.repo.FindByElectionID(ctx, electionID)
	if err != nil {
		return domain.DisplaySettings{}, fmt.Errorf("s.repo.FindByElectionID -> %w", err)
	}

	s.notifyObservers(ctx)

	return settings, nil
}

func (s *DisplaySettingsService) DeleteDisplaySettings(ctx context.Context, electionID uint) (bool, error) {
	removed, err := s.repo.Delete(ctx, electionID)
	if err != nil {
		return false, fmt.Errorf("s.repo.Delete -> %w", err)
	}

	if removed {
		s.notifyObservers(ctx)
	}

	return removed, nil
}

func (s *DisplaySettingsService) GetAllDisplaySettings(ctx context.Context) ([]domain.DisplaySettings, error) {
	settings, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("s.repo.FindAll -> %w", err)
	}

	return settings, nil
}

func (s *DisplaySettingsService) ResetDisplaySettings(ctx context.Context) error {
	if err := s.repo.DeleteAll(ctx); err != nil {
		return fmt.Errorf("s.repo.DeleteAll -> %w", err)
	}

	s.notifyObservers(ctx)

	return nil
}

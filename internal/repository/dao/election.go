package dao

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
)

var (
	ErrElectionNotFound  = errors.New("election not found")
	ErrCandidateNotFound = errors.New("candidate not found")
)

type Election struct {
	ID uint `gorm:"primaryKey"`

	Title      string    `gorm:"not null"`
	Type       string    `gorm:"not null"` // e.g. "student_council", "class_representative"
	Status     string    `gorm:"not null"` // "draft", "open", or "closed"
	EndDate    time.Time `gorm:"not null"`
	TotalVotes int       `gorm:"not null;default:0"`

	Positions []Position `gorm:"foreignKey:ElectionID"`

	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

type Position struct {
	ID         uint   `gorm:"primaryKey"`
	ElectionID uint   `gorm:"not null;index"`
	Title      string `gorm:"not null"`

	Candidates []Candidate `gorm:"foreignKey:PositionID"`
}

type Candidate struct {
	ID         uint   `gorm:"primaryKey"`
	PositionID uint   `gorm:"not null;index"`
	Name       string `gorm:"not null"`
	Classroom  string
	Votes      int `gorm:"not null;default:0"`
}

type ElectionDAO struct {
	db *gorm.DB
}

func NewElectionDAO(db *gorm.DB) *ElectionDAO {
	return &ElectionDAO{
		db: db,
	}
}

func (d *ElectionDAO) Insert(ctx context.Context, election Election) (Election, error) {
	// Create cascades into the nested positions and candidates.
	result := d.db.WithContext(ctx).Create(&election)
	if result.Error != nil {
		return Election{}, result.Error
	}

	return election, nil
}

func (d *ElectionDAO) FindByID(ctx context.Context, id uint) (Election, error) {
	var election Election

	result := d.db.WithContext(ctx).
		Preload("Positions", func(db *gorm.DB) *gorm.DB { return db.Order("positions.id asc") }).
		Preload("Positions.Candidates", func(db *gorm.DB) *gorm.DB { return db.Order("candidates.id asc") }).
		First(&election, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return Election{}, ErrElectionNotFound
		}

		return Election{}, result.Error
	}

	return election, nil
}

func (d *ElectionDAO) FindAll(ctx context.Context) ([]Election, error) {
	var elections []Election

	result := d.db.WithContext(ctx).
		Preload("Positions", func(db *gorm.DB) *gorm.DB { return db.Order("positions.id asc") }).
		Preload("Positions.Candidates", func(db *gorm.DB) *gorm.DB { return db.Order("candidates.id asc") }).
		Order("id asc").
		Find(&elections)
	if result.Error != nil {
		return nil, result.Error
	}

	return elections, nil
}

func (d *ElectionDAO) Update(ctx context.Context, election Election) (Election, error) {
	result := d.db.WithContext(ctx).Omit("Positions").Save(&election)
	if result.Error != nil {
		return Election{}, result.Error
	}

	return election, nil
}

func (d *ElectionDAO) UpdateStatus(ctx context.Context, id uint, status string) error {
	result := d.db.WithContext(ctx).Model(&Election{}).Where("id = ?", id).Update("status", status)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrElectionNotFound
	}

	return nil
}

func (d *ElectionDAO) Delete(ctx context.Context, id uint) (bool, error) {
	var positionIDs []uint
	if err := d.db.WithContext(ctx).Model(&Position{}).Where("election_id = ?", id).Pluck("id", &positionIDs).Error; err != nil {
		return false, err
	}

	if len(positionIDs) > 0 {
		if err := d.db.WithContext(ctx).Where("position_id IN ?", positionIDs).Delete(&Candidate{}).Error; err != nil {
			return false, err
		}
		if err := d.db.WithContext(ctx).Where("election_id = ?", id).Delete(&Position{}).Error; err != nil {
			return false, err
		}
	}

	result := d.db.WithContext(ctx).Delete(&Election{}, id)
	if result.Error != nil {
		return false, result.Error
	}

	return result.RowsAffected > 0, nil
}

func (d *ElectionDAO) IncrementTotalVotes(ctx context.Context, id uint) error {
	result := d.db.WithContext(ctx).
		Model(&Election{}).
		Where("id = ?", id).
		Update("total_votes", gorm.Expr("total_votes + 1"))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrElectionNotFound
	}

	return nil
}

func (d *ElectionDAO) IncrementCandidateVotes(ctx context.Context, candidateID uint) error {
	result := d.db.WithContext(ctx).
		Model(&Candidate{}).
		Where("id = ?", candidateID).
		Update("votes", gorm.Expr("votes + 1"))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrCandidateNotFound
	}

	return nil
}

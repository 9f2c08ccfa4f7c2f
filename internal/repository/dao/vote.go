package dao

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

var ErrVoteExists = errors.New("vote already recorded for this election")

// Vote is the has-voted record for one (student, election) pair. The unique
// index is the double-voting guard of last resort.
type Vote struct {
	ID string `gorm:"primaryKey"`

	StudentID  uint   `gorm:"not null;uniqueIndex:idx_student_election"`
	ElectionID uint   `gorm:"not null;uniqueIndex:idx_student_election"`
	Token      string `gorm:"not null"`

	CreatedAt time.Time `gorm:"not null"`
}

type VoteDAO struct {
	db *gorm.DB
}

func NewVoteDAO(db *gorm.DB) *VoteDAO {
	return &VoteDAO{
		db: db,
	}
}

func (d *VoteDAO) Insert(ctx context.Context, vote Vote) (Vote, error) {
	var existing Vote
	err := d.db.WithContext(ctx).
		First(&existing, "student_id = ? AND election_id = ?", vote.StudentID, vote.ElectionID).Error
	if err == nil {
		return Vote{}, ErrVoteExists
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return Vote{}, err
	}

	result := d.db.WithContext(ctx).Create(&vote)
	if result.Error != nil {
		var pgErr *pgconn.PgError
		if errors.As(result.Error, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return Vote{}, ErrVoteExists
		}

		return Vote{}, result.Error
	}

	return vote, nil
}

func (d *VoteDAO) Exists(ctx context.Context, studentID, electionID uint) (bool, error) {
	var count int64

	result := d.db.WithContext(ctx).
		Model(&Vote{}).
		Where("student_id = ? AND election_id = ?", studentID, electionID).
		Count(&count)
	if result.Error != nil {
		return false, result.Error
	}

	return count > 0, nil
}

// ElectionIDsByStudent lists the elections a student has voted in, oldest
// vote first.
func (d *VoteDAO) ElectionIDsByStudent(ctx context.Context, studentID uint) ([]uint, error) {
	var ids []uint

	result := d.db.WithContext(ctx).
		Model(&Vote{}).
		Where("student_id = ?", studentID).
		Order("created_at asc").
		Pluck("election_id", &ids)
	if result.Error != nil {
		return nil, result.Error
	}

	return ids, nil
}

func (d *VoteDAO) FindAll(ctx context.Context) ([]Vote, error) {
	var votes []Vote

	result := d.db.WithContext(ctx).Order("created_at asc").Find(&votes)
	if result.Error != nil {
		return nil, result.Error
	}

	return votes, nil
}

func (d *VoteDAO) DeleteByStudent(ctx context.Context, studentID uint) error {
	result := d.db.WithContext(ctx).Where("student_id = ?", studentID).Delete(&Vote{})
	if result.Error != nil {
		return result.Error
	}

	return nil
}

func (d *VoteDAO) DeleteAll(ctx context.Context) error {
	result := d.db.WithContext(ctx).Where("1 = 1").Delete(&Vote{})
	if result.Error != nil {
		return result.Error
	}

	return nil
}

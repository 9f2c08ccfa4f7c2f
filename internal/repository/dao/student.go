package dao

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

var (
	ErrStudentIDExists         = errors.New("student id already exists")
	ErrStudentNationalIDExists = errors.New("student national id already exists")
	ErrStudentNotFound         = errors.New("student not found")
)

// Student is one roster row. The primary key is the school-assigned student
// number, so there is no auto-increment on it.
type Student struct {
	ID uint `gorm:"primaryKey;autoIncrement:false"`

	ClassNumber int    `gorm:"not null"`
	Name        string `gorm:"not null"`
	Surname     string `gorm:"not null"`
	Classroom   string `gorm:"not null;index"`
	NationalID  string `gorm:"unique;not null"`

	VotingApproved   bool `gorm:"not null;default:false"`
	VotingApprovedAt *time.Time
	VotingApprovedBy string

	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

type StudentDAO struct {
	db *gorm.DB
}

func NewStudentDAO(db *gorm.DB) *StudentDAO {
	return &StudentDAO{
		db: db,
	}
}

// Insert adds one roster row, rejecting duplicate ids and national ids with
// sentinel errors. The duplicate row is never partially written.
func (d *StudentDAO) Insert(ctx context.Context, student Student) (Student, error) {
	var existing Student
	err := d.db.WithContext(ctx).First(&existing, student.ID).Error
	if err == nil {
		return Student{}, ErrStudentIDExists
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return Student{}, err
	}

	err = d.db.WithContext(ctx).First(&existing, "national_id = ?", student.NationalID).Error
	if err == nil {
		return Student{}, ErrStudentNationalIDExists
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return Student{}, err
	}

	result := d.db.WithContext(ctx).Create(&student)
	if result.Error != nil {
		var pgErr *pgconn.PgError
		if errors.As(result.Error, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return Student{}, ErrStudentNationalIDExists
		}

		return Student{}, result.Error
	}

	return student, nil
}

func (d *StudentDAO) FindByID(ctx context.Context, id uint) (Student, error) {
	var student Student

	result := d.db.WithContext(ctx).First(&student, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return Student{}, ErrStudentNotFound
		}

		return Student{}, result.Error
	}

	return student, nil
}

func (d *StudentDAO) FindByNationalID(ctx context.Context, nationalID string) (Student, error) {
	var student Student

	result := d.db.WithContext(ctx).First(&student, "national_id = ?", nationalID)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return Student{}, ErrStudentNotFound
		}

		return Student{}, result.Error
	}

	return student, nil
}

func (d *StudentDAO) FindAll(ctx context.Context) ([]Student, error) {
	var students []Student

	result := d.db.WithContext(ctx).Order("classroom asc, class_number asc, id asc").Find(&students)
	if result.Error != nil {
		return nil, result.Error
	}

	return students, nil
}

func (d *StudentDAO) FindByClassroom(ctx context.Context, classroom string) ([]Student, error) {
	var students []Student

	result := d.db.WithContext(ctx).Where("classroom = ?", classroom).Order("class_number asc, id asc").Find(&students)
	if result.Error != nil {
		return nil, result.Error
	}

	return students, nil
}

func (d *StudentDAO) FindByVotingApproved(ctx context.Context, approved bool) ([]Student, error) {
	var students []Student

	result := d.db.WithContext(ctx).Where("voting_approved = ?", approved).Order("classroom asc, class_number asc, id asc").Find(&students)
	if result.Error != nil {
		return nil, result.Error
	}

	return students, nil
}

func (d *StudentDAO) Update(ctx context.Context, student Student) (Student, error) {
	// Save writes every column, including cleared voting audit fields.
	result := d.db.WithContext(ctx).Save(&student)
	if result.Error != nil {
		return Student{}, result.Error
	}

	return student, nil
}

// UpdateVotingByClassroom flips the voting flag for every student in the
// classroom and returns how many rows changed.
func (d *StudentDAO) UpdateVotingByClassroom(ctx context.Context, classroom string, approved bool, approvedAt *time.Time, approvedBy string) (int, error) {
	result := d.db.WithContext(ctx).
		Model(&Student{}).
		Where("classroom = ?", classroom).
		Updates(map[string]interface{}{
			"voting_approved":    approved,
			"voting_approved_at": approvedAt,
			"voting_approved_by": approvedBy,
		})
	if result.Error != nil {
		return 0, result.Error
	}

	return int(result.RowsAffected), nil
}

func (d *StudentDAO) Delete(ctx context.Context, id uint) (bool, error) {
	result := d.db.WithContext(ctx).Delete(&Student{}, id)
	if result.Error != nil {
		return false, result.Error
	}

	return result.RowsAffected > 0, nil
}

func (d *StudentDAO) DeleteAll(ctx context.Context) error {
	result := d.db.WithContext(ctx).Where("1 = 1").Delete(&Student{})
	if result.Error != nil {
		return result.Error
	}

	return nil
}

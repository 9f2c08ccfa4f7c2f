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
	ErrAdminUsernameExists = errors.New("admin username already exists")
	ErrAdminNotFound       = errors.New("admin not found")
)

type Admin struct {
	ID uint `gorm:"primaryKey"`

	Username     string `gorm:"unique;not null"`
	DisplayName  string `gorm:"not null"`
	AccessLevel  int    `gorm:"not null"` // see domain.AccessLevel
	PasswordHash string `gorm:"not null"`

	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

type AdminDAO struct {
	db *gorm.DB
}

func NewAdminDAO(db *gorm.DB) *AdminDAO {
	return &AdminDAO{
		db: db,
	}
}

func (d *AdminDAO) Insert(ctx context.Context, admin Admin) (Admin, error) {
	var existing Admin
	err := d.db.WithContext(ctx).First(&existing, "username = ?", admin.Username).Error
	if err == nil {
		return Admin{}, ErrAdminUsernameExists
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return Admin{}, err
	}

	result := d.db.WithContext(ctx).Create(&admin)
	if result.Error != nil {
		// Backstop for the insert race the pre-check cannot cover.
		var pgErr *pgconn.PgError
		if errors.As(result.Error, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return Admin{}, ErrAdminUsernameExists
		}

		return Admin{}, result.Error
	}

	return admin, nil
}

func (d *AdminDAO) FindByID(ctx context.Context, id uint) (Admin, error) {
	var admin Admin

	result := d.db.WithContext(ctx).First(&admin, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return Admin{}, ErrAdminNotFound
		}

		return Admin{}, result.Error
	}

	return admin, nil
}

func (d *AdminDAO) FindByUsername(ctx context.Context, username string) (Admin, error) {
	var admin Admin

	result := d.db.WithContext(ctx).First(&admin, "username = ?", username)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return Admin{}, ErrAdminNotFound
		}

		return Admin{}, result.Error
	}

	return admin, nil
}

func (d *AdminDAO) FindAll(ctx context.Context) ([]Admin, error) {
	var admins []Admin

	result := d.db.WithContext(ctx).Order("id asc").Find(&admins)
	if result.Error != nil {
		return nil, result.Error
	}

	return admins, nil
}

func (d *AdminDAO) Update(ctx context.Context, admin Admin) (Admin, error) {
	result := d.db.WithContext(ctx).Save(&admin)
	if result.Error != nil {
		return Admin{}, result.Error
	}

	return admin, nil
}

func (d *AdminDAO) Delete(ctx context.Context, id uint) (bool, error) {
	result := d.db.WithContext(ctx).Delete(&Admin{}, id)
	if result.Error != nil {
		return false, result.Error
	}

	return result.RowsAffected > 0, nil
}

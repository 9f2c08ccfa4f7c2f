package repository

import (
	"context"
	"fmt"

	"github.com/yizeng/gab/gin/gorm/school-election/internal/domain"
	"github.com/yizeng/gab/gin/gorm/school-election/internal/repository/dao"
)

var (
	ErrAdminUsernameExists = dao.ErrAdminUsernameExists
	ErrAdminNotFound       = dao.ErrAdminNotFound
)

type AdminDAO interface {
	Insert(ctx context.Context, admin dao.Admin) (dao.Admin, error)
	FindByID(ctx context.Context, id uint) (dao.Admin, error)
	FindByUsername(ctx context.Context, username string) (dao.Admin, error)
	FindAll(ctx context.Context) ([]dao.Admin, error)
	Update(ctx context.Context, admin dao.Admin) (dao.Admin, error)
	Delete(ctx context.Context, id uint) (bool, error)
}

type AdminRepository struct {
	dao AdminDAO
}

func NewAdminRepository(dao AdminDAO) *AdminRepository {
	return &AdminRepository{
		dao: dao,
	}
}

func (r *AdminRepository) Create(ctx context.Context, admin domain.AdminAccount) (domain.AdminAccount, error) {
	created, err := r.dao.Insert(ctx, dao.Admin{
		Username:     admin.Username,
		DisplayName:  admin.DisplayName,
		AccessLevel:  int(admin.AccessLevel),
		PasswordHash: admin.PasswordHash,
	})
	if err != nil {
		return domain.AdminAccount{}, fmt.Errorf("r.dao.Insert -> %w", err)
	}

	return r.daoToDomain(created), nil
}

func (r *AdminRepository) FindByID(ctx context.Context, id uint) (domain.AdminAccount, error) {
	found, err := r.dao.FindByID(ctx, id)
	if err != nil {
		return domain.AdminAccount{}, fmt.Errorf("r.dao.FindByID -> %w", err)
	}

	return r.daoToDomain(found), nil
}

func (r *AdminRepository) FindByUsername(ctx context.Context, username string) (domain.AdminAccount, error) {
	found, err := r.dao.FindByUsername(ctx, username)
	if err != nil {
		return domain.AdminAccount{}, fmt.Errorf("r.dao.FindByUsername -> %w", err)
	}

	return r.daoToDomain(found), nil
}

func (r *AdminRepository) FindAll(ctx context.Context) ([]domain.AdminAccount, error) {
	found, err := r.dao.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindAll -> %w", err)
	}

	admins := make([]domain.AdminAccount, 0, len(found))
	for _, a := range found {
		admins = append(admins, r.daoToDomain(a))
	}

	return admins, nil
}

func (r *AdminRepository) Update(ctx context.Context, admin domain.AdminAccount) (domain.AdminAccount, error) {
	updated, err := r.dao.Update(ctx, dao.Admin{
		ID:           admin.ID,
		Username:     admin.Username,
		DisplayName:  admin.DisplayName,
		AccessLevel:  int(admin.AccessLevel),
		PasswordHash: admin.PasswordHash,
		CreatedAt:    admin.CreatedAt,
	})
	if err != nil {
		return domain.AdminAccount{}, fmt.Errorf("r.dao.Update -> %w", err)
	}

	return r.daoToDomain(updated), nil
}

func (r *AdminRepository) Delete(ctx context.Context, id uint) (bool, error) {
	removed, err := r.dao.Delete(ctx, id)
	if err != nil {
		return false, fmt.Errorf("r.dao.Delete -> %w", err)
	}

	return removed, nil
}

func (r *AdminRepository) daoToDomain(a dao.Admin) domain.AdminAccount {
	return domain.AdminAccount{
		ID:           a.ID,
		Username:     a.Username,
		DisplayName:  a.DisplayName,
		AccessLevel:  domain.AccessLevel(a.AccessLevel),
		PasswordHash: a.PasswordHash,
		CreatedAt:    a.CreatedAt,
		UpdatedAt:    a.UpdatedAt,
	}
}

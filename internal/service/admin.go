package service

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/yizeng/gab/gin/gorm/school-election/internal/domain"
	"github.com/yizeng/gab/gin/gorm/school-election/internal/policy"
	"github.com/yizeng/gab/gin/gorm/school-election/internal/repository"
)

var (
	ErrAdminUsernameExists = repository.ErrAdminUsernameExists
	ErrAdminNotFound       = repository.ErrAdminNotFound
	ErrPolicyDenied        = errors.New("not permitted for this access level")
	ErrSelfDelete          = errors.New("cannot delete own account")
)

type AdminRepository interface {
	Create(ctx context.Context, admin domain.AdminAccount) (domain.AdminAccount, error)
	FindByID(ctx context.Context, id uint) (domain.AdminAccount, error)
	FindByUsername(ctx context.Context, username string) (domain.AdminAccount, error)
	FindAll(ctx context.Context) ([]domain.AdminAccount, error)
	Update(ctx context.Context, admin domain.AdminAccount) (domain.AdminAccount, error)
	Delete(ctx context.Context, id uint) (bool, error)
}

// AdminService manages admin accounts under the access policy. Every
// operation takes the acting admin so the policy can be enforced here, not
// in the handlers.
type AdminService struct {
	repo AdminRepository
}

func NewAdminService(repo AdminRepository) *AdminService {
	return &AdminService{
		repo: repo,
	}
}

func (s *AdminService) ListAdmins(ctx context.Context, actor domain.AccessLevel) ([]domain.AdminAccount, error) {
	if !policy.CanViewAdminManagement(actor) {
		return nil, ErrPolicyDenied
	}

	admins, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("s.repo.FindAll -> %w", err)
	}

	return admins, nil
}

func (s *AdminService) CreateAdmin(ctx context.Context, actor domain.AccessLevel, username, displayName, password string, target domain.AccessLevel) (domain.AdminAccount, error) {
	if !target.Valid() || !policy.CanCreateAdmin(actor, target) {
		return domain.AdminAccount{}, ErrPolicyDenied
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return domain.AdminAccount{}, fmt.Errorf("bcrypt.GenerateFromPassword -> %w", err)
	}

	created, err := s.repo.Create(ctx, domain.AdminAccount{
		Username:     username,
		DisplayName:  displayName,
		AccessLevel:  target,
		PasswordHash: string(hash),
	})
	if err != nil {
		return domain.AdminAccount{}, fmt.Errorf("s.repo.Create -> %w", err)
	}

	return created, nil
}

// DeleteAdmin removes a target account if the actor's level permits it.
// Self-deletion is refused regardless of level; the last root locking
// everyone out is not a state this service will create.
func (s *AdminService) DeleteAdmin(ctx context.Context, actor domain.AdminAccount, targetID uint) error {
	if actor.ID == targetID {
		return ErrSelfDelete
	}

	target, err := s.repo.FindByID(ctx, targetID)
	if err != nil {
		return fmt.Errorf("s.repo.FindByID -> %w", err)
	}

	if !policy.CanDeleteAdmin(actor.AccessLevel, target.AccessLevel) {
		return ErrPolicyDenied
	}

	if _, err = s.repo.Delete(ctx, targetID); err != nil {
		return fmt.Errorf("s.repo.Delete -> %w", err)
	}

	return nil
}

// UpdateAdmin edits a target account's identity or level. Only root may do
// this at all.
func (s *AdminService) UpdateAdmin(ctx context.Context, actor domain.AccessLevel, targetID uint, update domain.AdminUpdate) (domain.AdminAccount, error) {
	if !policy.CanEditAdmin(actor) {
		return domain.AdminAccount{}, ErrPolicyDenied
	}

	target, err := s.repo.FindByID(ctx, targetID)
	if err != nil {
		return domain.AdminAccount{}, fmt.Errorf("s.repo.FindByID -> %w", err)
	}

	if update.DisplayName != nil {
		target.DisplayName = *update.DisplayName
	}
	if update.AccessLevel != nil {
		if !update.AccessLevel.Valid() {
			return domain.AdminAccount{}, ErrPolicyDenied
		}
		target.AccessLevel = *update.AccessLevel
	}
	if update.Password != nil {
		hash, err := bcrypt.GenerateFromPassword([]byte(*update.Password), bcrypt.DefaultCost)
		if err != nil {
			return domain.AdminAccount{}, fmt.Errorf("bcrypt.GenerateFromPassword -> %w", err)
		}
		target.PasswordHash = string(hash)
	}

	updated, err := s.repo.Update(ctx, target)
	if err != nil {
		return domain.AdminAccount{}, fmt.Errorf("s.repo.Update -> %w", err)
	}

	return updated, nil
}

// CreatableLevels lists the levels the actor may assign, for the admin form.
func (s *AdminService) CreatableLevels(actor domain.AccessLevel) []domain.AccessLevel {
	return policy.CreatableAccessLevels(actor)
}

// EnsureRoot seeds the deployment's root account on startup if it does not
// exist yet. An existing account is left alone.
func (s *AdminService) EnsureRoot(ctx context.Context, username, displayName, password string) error {
	_, err := s.repo.FindByUsername(ctx, username)
	if err == nil {
		return nil
	}
	if !errors.Is(err, ErrAdminNotFound) {
		return fmt.Errorf("s.repo.FindByUsername -> %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("bcrypt.GenerateFromPassword -> %w", err)
	}

	_, err = s.repo.Create(ctx, domain.AdminAccount{
		Username:     username,
		DisplayName:  displayName,
		AccessLevel:  domain.AccessRoot,
		PasswordHash: string(hash),
	})
	if err != nil {
		return fmt.Errorf("s.repo.Create -> %w", err)
	}

	zap.L().Info("seeded root admin account", zap.String("username", username))

	return nil
}
